package serialization

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"time"
)

// Write encodes entries with header to w.
//
// Entries keep their order. Header.Entries, FormatVersion and Version are
// filled in by Write; CreatedAt defaults to now.
func Write(w io.Writer, entries []Entry, header Header) error {
	if err := validateEntries(entries); err != nil {
		return err
	}

	header.FormatVersion = FormatVersion
	header.Version = Version
	if header.CreatedAt.IsZero() {
		header.CreatedAt = time.Now().UTC()
	}
	if header.Metadata == nil {
		header.Metadata = make(map[string]string)
	}
	header.Entries = make([]EntryMeta, len(entries))
	for i, e := range entries {
		header.Entries[i] = EntryMeta{Name: e.Name}
	}

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("failed to marshal header: %w", err)
	}
	if len(headerJSON) > MaxHeaderSize {
		return ErrHeaderTooLarge
	}

	flags := uint32(0)
	if len(header.Metadata) > 0 {
		flags |= FlagHasMetadata
	}
	if header.CheckpointMeta != nil {
		flags |= FlagHasTrainingState
	}

	var buf bytes.Buffer
	buf.Grow(FixedHeaderSize + len(headerJSON) + len(entries)*ValueSize + ChecksumSize)
	buf.WriteString(MagicBytes)
	var fixed [4 + 4 + 8]byte
	binary.LittleEndian.PutUint32(fixed[0:4], FormatVersion)
	binary.LittleEndian.PutUint32(fixed[4:8], flags)
	binary.LittleEndian.PutUint64(fixed[8:16], uint64(len(headerJSON)))
	buf.Write(fixed[:])
	buf.Write(headerJSON)

	var value [ValueSize]byte
	for _, e := range entries {
		binary.LittleEndian.PutUint64(value[:], math.Float64bits(e.Value))
		buf.Write(value[:])
	}

	sum := ComputeChecksum(buf.Bytes())
	buf.Write(sum[:])

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write checkpoint: %w", err)
	}
	return nil
}

// WriteFile writes a checkpoint to path, replacing any existing file.
func WriteFile(path string, entries []Entry, header Header) error {
	//nolint:gosec // G304: File path comes from user input, which is expected for model saving
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := Write(file, entries, header); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}
	return nil
}

// validateEntries rejects empty and duplicate names.
func validateEntries(entries []Entry) error {
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if e.Name == "" {
			return &ValidationError{Err: ErrInvalidEntryName, Details: "empty name"}
		}
		if _, dup := seen[e.Name]; dup {
			return &ValidationError{Err: ErrDuplicateEntry, Entry: e.Name, Details: "appears more than once"}
		}
		seen[e.Name] = struct{}{}
	}
	return nil
}
