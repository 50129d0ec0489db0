package engine

import "errors"

// Operator errors. They are returned wrapped with the failing operation,
// so compare with errors.Is.
var (
	ErrInvalidOperandType = errors.New("invalid operand type: only numeric values are supported")
	ErrDivisionByZero     = errors.New("division by zero")
	ErrInvalidOperand     = errors.New("invalid operand: not a smooth function")
	ErrForeignValue       = errors.New("value does not belong to this graph")
)
