// Package serialization provides the checkpoint format for saving and
// loading scalar parameters.
//
//	Format Structure:
//	  [4 bytes: Magic "MGRD"]
//	  [4 bytes: Version (uint32 LE)]
//	  [4 bytes: Flags (uint32 LE)]
//	  [8 bytes: Header Size (uint64 LE)]
//	  [Header: JSON metadata, one entry per value]
//	  [Values: float64 LE, in header order]
//	  [32 bytes: SHA-256 of everything above]
//
// Example usage:
//
//	entries := []serialization.Entry{{Name: "w.0", Value: 0.25}}
//	if err := serialization.WriteFile("model.mgrd", entries, serialization.Header{}); err != nil {
//	    log.Fatal(err)
//	}
//
//	ckpt, err := serialization.ReadFile("model.mgrd")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	state := ckpt.StateDict()
package serialization
