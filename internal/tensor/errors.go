package tensor

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by the pool, the kernels and the dispatcher.
var (
	ErrAllocationFailed    = errors.New("allocation failed")
	ErrShapeMismatch       = errors.New("shape mismatch")
	ErrEmptyInput          = errors.New("empty array")
	ErrUnimplementedInTier = errors.New("not implemented in this tier")
	ErrOutOfBounds         = errors.New("index out of bounds")
	ErrDTypeMismatch       = errors.New("dtype mismatch")
	ErrSingularMatrix      = errors.New("singular matrix")
	ErrUnknownOperation    = errors.New("unknown operation")
	ErrBorrowed            = errors.New("buffer still borrowed")
	ErrReleased            = errors.New("already released")
)

// BoundsError reports an index access beyond the extent of an array.
type BoundsError struct {
	Index []int
	Shape Shape
}

// Error implements the error interface.
func (e *BoundsError) Error() string {
	return fmt.Sprintf("%s: index %v for shape %v", ErrOutOfBounds, e.Index, e.Shape)
}

// Unwrap lets errors.Is match ErrOutOfBounds.
func (e *BoundsError) Unwrap() error {
	return ErrOutOfBounds
}
