package serialization

import "time"

// Format constants.
const (
	MagicBytes      = "MGRD"
	FormatVersion   = 1
	FixedHeaderSize = 4 + 4 + 4 + 8
	ChecksumSize    = 32 // SHA-256
	ValueSize       = 8  // float64
	MaxHeaderSize   = 16 << 20
)

// Flags for the checkpoint format.
const (
	FlagHasTrainingState uint32 = 1 << 0 // bit 0: CheckpointMeta present (optimizer state optional)
	FlagHasMetadata      uint32 = 1 << 1 // bit 1: custom metadata included
)

// Version of the library that writes checkpoints.
const Version = "0.1.0"

// Header represents the JSON header of a checkpoint.
type Header struct {
	FormatVersion  int               `json:"format_version"`       // Version of the format
	Version        string            `json:"version"`              // Version of the writer
	ModelType      string            `json:"model_type"`           // Type of model (e.g., "MLP")
	CreatedAt      time.Time         `json:"created_at"`           // When the file was created
	Entries        []EntryMeta       `json:"entries"`              // One per stored value
	Metadata       map[string]string `json:"metadata"`             // Custom metadata
	CheckpointMeta *CheckpointMeta   `json:"checkpoint,omitempty"` // Training state (optional)
}

// CheckpointMeta contains training state information.
type CheckpointMeta struct {
	Epoch         int     `json:"epoch"`          // Training epoch number
	Step          int64   `json:"step"`           // Training step number
	Loss          float64 `json:"loss"`           // Loss value at checkpoint
	OptimizerType string  `json:"optimizer_type"` // Optimizer type ("SGD", "Adam", etc.)
	LR            float64 `json:"lr"`             // Learning rate at checkpoint
}

// EntryMeta describes one stored value.
type EntryMeta struct {
	Name string `json:"name"` // e.g. "layers.0.neurons.1.w.2"
}

// Entry is a named scalar.
type Entry struct {
	Name  string
	Value float64
}
