package serialization

import "crypto/sha256"

// ComputeChecksum computes the SHA-256 checksum of data.
func ComputeChecksum(data []byte) [ChecksumSize]byte {
	return sha256.Sum256(data)
}

// ValidateChecksum checks the trailing checksum of a complete checkpoint
// image and returns the body that precedes it.
func ValidateChecksum(image []byte) ([]byte, error) {
	if len(image) < ChecksumSize {
		return nil, ErrTruncated
	}
	body := image[:len(image)-ChecksumSize]
	var stored [ChecksumSize]byte
	copy(stored[:], image[len(body):])
	if ComputeChecksum(body) != stored {
		return nil, ErrChecksumMismatch
	}
	return body, nil
}
