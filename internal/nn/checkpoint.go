package nn

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/born-ml/minigrad/internal/serialization"
)

const optimizerPrefix = "optimizer."

// ErrNotCheckpoint is returned when a file has no training state.
var ErrNotCheckpoint = errors.New("file is not a checkpoint")

// OptimizerState represents an optimizer that can save/load its state.
//
// This interface is used by checkpoints to serialize optimizer state
// without creating import cycles. Optimizers from the optim package
// implement this interface.
type OptimizerState interface {
	StateDict() map[string]float64
	LoadStateDict(state map[string]float64)
	GetLR() float64
}

// Checkpoint represents a complete training state snapshot.
//
// Example:
//
//	checkpoint := &nn.Checkpoint{
//	    Model:     model,
//	    Optimizer: optimizer,
//	    Epoch:     10,
//	    Loss:      0.123,
//	}
//	err := checkpoint.Save("epoch_10.mgrd")
//
// To resume training:
//
//	checkpoint, err := nn.LoadCheckpoint("epoch_10.mgrd", model, optimizer)
//	startEpoch := checkpoint.Epoch + 1
type Checkpoint struct {
	Model     Module            // The neural network model
	Optimizer OptimizerState    // The optimizer with its state (optional)
	Epoch     int               // Training epoch number
	Step      int64             // Training step number
	Loss      float64           // Loss value at this checkpoint
	Metadata  map[string]string // Additional training metadata
}

// Save writes model parameters, optimizer state and training metadata to
// path. Model parameters keep their Parameters order.
func (c *Checkpoint) Save(path string) error {
	named := c.Model.NamedParameters()
	entries := make([]serialization.Entry, 0, len(named))
	for _, p := range named {
		entries = append(entries, serialization.Entry{Name: p.Name, Value: p.Value.Data()})
	}

	meta := &serialization.CheckpointMeta{
		Epoch: c.Epoch,
		Step:  c.Step,
		Loss:  c.Loss,
	}
	if c.Optimizer != nil {
		state := c.Optimizer.StateDict()
		names := make([]string, 0, len(state))
		for name := range state {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			entries = append(entries, serialization.Entry{Name: optimizerPrefix + name, Value: state[name]})
		}
		meta.OptimizerType = optimizerType(c.Optimizer)
		meta.LR = c.Optimizer.GetLR()
	}

	header := serialization.Header{
		ModelType:      modelType(c.Model),
		Metadata:       c.Metadata,
		CheckpointMeta: meta,
	}
	if err := serialization.WriteFile(path, entries, header); err != nil {
		return fmt.Errorf("failed to write checkpoint: %w", err)
	}
	return nil
}

// LoadCheckpoint restores model parameters and optimizer state from path.
//
// The model and optimizer must be pre-constructed with the same architecture
// and configuration as when the checkpoint was saved. optimizer may be nil.
func LoadCheckpoint(path string, model Module, optimizer OptimizerState) (*Checkpoint, error) {
	ckpt, err := serialization.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read checkpoint: %w", err)
	}

	meta := ckpt.Header.CheckpointMeta
	if meta == nil {
		return nil, ErrNotCheckpoint
	}

	modelState := make(map[string]float64)
	optimizerState := make(map[string]float64)
	for _, e := range ckpt.Entries {
		if name, ok := strings.CutPrefix(e.Name, optimizerPrefix); ok {
			optimizerState[name] = e.Value
			continue
		}
		modelState[e.Name] = e.Value
	}

	if err := LoadStateDict(model, modelState); err != nil {
		return nil, fmt.Errorf("failed to load model state: %w", err)
	}
	if optimizer != nil {
		optimizer.LoadStateDict(optimizerState)
	}

	return &Checkpoint{
		Model:     model,
		Optimizer: optimizer,
		Epoch:     meta.Epoch,
		Step:      meta.Step,
		Loss:      meta.Loss,
		Metadata:  ckpt.Header.Metadata,
	}, nil
}

// optimizerType returns the concrete optimizer type name, e.g. "SGD".
func optimizerType(opt OptimizerState) string {
	name := fmt.Sprintf("%T", opt)
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// modelType returns a short model type name, e.g. "MLP".
func modelType(m Module) string {
	switch m.(type) {
	case *MLP:
		return "MLP"
	case *Layer:
		return "Layer"
	case *Neuron:
		return "Neuron"
	default:
		return "Module"
	}
}
