package tensor

import "fmt"

// Shape represents the dimensions of an array. A nil or empty Shape is a scalar.
type Shape []int

// NumElements returns the total number of elements described by the shape.
func (s Shape) NumElements() int {
	if len(s) == 0 {
		return 1 // Scalar has 1 element
	}
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Rank returns the number of dimensions.
func (s Shape) Rank() int {
	return len(s)
}

// Validate checks that no dimension is negative.
// Zero-sized dimensions are legal and describe an empty array.
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim < 0 {
			return fmt.Errorf("invalid dimension at index %d: %d (must be >= 0)", i, dim)
		}
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// ComputeStrides calculates row-major strides for the shape.
// Strides define memory layout: stride[i] = product of all dimensions after i.
func (s Shape) ComputeStrides() []int {
	strides := make([]int, len(s))
	if len(s) == 0 {
		return strides
	}

	strides[len(s)-1] = 1
	for i := len(s) - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * s[i+1]
	}
	return strides
}

// Ones returns a shape of the same rank as s with every dimension set to 1.
func (s Shape) Ones() Shape {
	out := make(Shape, len(s))
	for i := range out {
		out[i] = 1
	}
	return out
}

// Reversed returns the shape with its dimensions in reverse order.
func (s Shape) Reversed() Shape {
	out := make(Shape, len(s))
	for i, dim := range s {
		out[len(s)-1-i] = dim
	}
	return out
}

// NormalizeAxis resolves a possibly negative axis against the rank of s.
func (s Shape) NormalizeAxis(axis int) (int, error) {
	ndim := len(s)
	if axis < 0 {
		axis += ndim
	}
	if axis < 0 || axis >= ndim {
		return 0, fmt.Errorf("%w: axis %d for %dD array", ErrOutOfBounds, axis, ndim)
	}
	return axis, nil
}

// Offset returns the flat row-major offset of the given multi-index.
func (s Shape) Offset(index ...int) (int, error) {
	if len(index) != len(s) {
		return 0, &BoundsError{Index: index, Shape: s}
	}
	off := 0
	stride := 1
	for i := len(s) - 1; i >= 0; i-- {
		if index[i] < 0 || index[i] >= s[i] {
			return 0, &BoundsError{Index: index, Shape: s}
		}
		off += index[i] * stride
		stride *= s[i]
	}
	return off, nil
}
