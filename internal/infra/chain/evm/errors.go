package evm

import "fmt"

// DecodeError is a value returned by the node that is not a valid hex quantity.
type DecodeError struct {
	Field string
	Value any
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s %v: %v", e.Field, e.Value, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// MissingFieldError means the node returned no block, or a block lacking a field.
type MissingFieldError struct {
	Block uint64
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("block %d: missing %s", e.Block, e.Field)
}
