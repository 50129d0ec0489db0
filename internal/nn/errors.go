package nn

import "errors"

// Common errors.
var (
	ErrInputSize        = errors.New("input size mismatch")
	ErrMissingParameter = errors.New("missing parameter")
)
