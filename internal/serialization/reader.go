package serialization

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
)

// Checkpoint is a decoded checkpoint.
type Checkpoint struct {
	Header  Header
	Flags   uint32
	Entries []Entry
}

// StateDict returns the entries keyed by name.
func (c *Checkpoint) StateDict() map[string]float64 {
	state := make(map[string]float64, len(c.Entries))
	for _, e := range c.Entries {
		state[e.Name] = e.Value
	}
	return state
}

// Names returns entry names in stored order.
func (c *Checkpoint) Names() []string {
	names := make([]string, len(c.Entries))
	for i, e := range c.Entries {
		names[i] = e.Name
	}
	return names
}

// Read decodes a checkpoint from r.
func Read(r io.Reader) (*Checkpoint, error) {
	image, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read checkpoint: %w", err)
	}
	return Decode(image)
}

// ReadFile decodes the checkpoint stored at path.
func ReadFile(path string) (*Checkpoint, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model loading
	image, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return Decode(image)
}

// Decode parses a complete checkpoint image.
func Decode(image []byte) (*Checkpoint, error) {
	if len(image) < len(MagicBytes) || string(image[:len(MagicBytes)]) != MagicBytes {
		return nil, ErrInvalidMagic
	}
	if len(image) < FixedHeaderSize+ChecksumSize {
		return nil, ErrTruncated
	}

	version := binary.LittleEndian.Uint32(image[4:8])
	if version != FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}

	body, err := ValidateChecksum(image)
	if err != nil {
		return nil, err
	}

	flags := binary.LittleEndian.Uint32(body[8:12])
	headerSize := binary.LittleEndian.Uint64(body[12:20])
	if headerSize > MaxHeaderSize {
		return nil, ErrHeaderTooLarge
	}
	rest := body[FixedHeaderSize:]
	if uint64(len(rest)) < headerSize {
		return nil, ErrTruncated
	}

	var header Header
	if err := json.Unmarshal(rest[:headerSize], &header); err != nil {
		return nil, fmt.Errorf("failed to parse header: %w", err)
	}

	values := rest[headerSize:]
	if len(values)%ValueSize != 0 || len(values)/ValueSize != len(header.Entries) {
		return nil, &ValidationError{
			Err:     ErrEntryCount,
			Details: fmt.Sprintf("%d entries, %d value bytes", len(header.Entries), len(values)),
		}
	}

	entries := make([]Entry, len(header.Entries))
	for i, meta := range header.Entries {
		bits := binary.LittleEndian.Uint64(values[i*ValueSize:])
		entries[i] = Entry{Name: meta.Name, Value: math.Float64frombits(bits)}
	}
	if err := validateEntries(entries); err != nil {
		return nil, err
	}

	return &Checkpoint{
		Header:  header,
		Flags:   flags,
		Entries: entries,
	}, nil
}
