// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/ndarray/internal/tensor"
)

// DType is a constraint for array element types.
// Supported types: int32, int64, float32, float64.
type DType = tensor.DType

// DataType identifies the element type of a buffer.
type DataType = tensor.DataType

// Data type constants.
const (
	Float32 DataType = tensor.Float32
	Float64 DataType = tensor.Float64
	Int32   DataType = tensor.Int32
	Int64   DataType = tensor.Int64
)

// Shape represents the dimensions of an array.
// Example: Shape{2, 3, 4} is a 3D array with dimensions 2×3×4; Shape{} is a
// scalar.
type Shape = tensor.Shape

// Buffer is a typed, contiguous, fixed-length block of elements.
type Buffer = tensor.Buffer

// Allocator hands out and takes back buffers.
type Allocator = tensor.Allocator

// Array binds a Shape to a Buffer.
type Array = tensor.Array

// Ownership tells whether an Array owns or borrows its buffer.
type Ownership = tensor.Ownership

// Ownership modes.
const (
	OwnsBuffer    Ownership = tensor.OwnsBuffer
	BorrowsBuffer Ownership = tensor.BorrowsBuffer
)

// BoundsError reports an element index outside an array.
type BoundsError = tensor.BoundsError

// Sentinel errors.
var (
	ErrAllocationFailed    = tensor.ErrAllocationFailed
	ErrShapeMismatch       = tensor.ErrShapeMismatch
	ErrEmptyInput          = tensor.ErrEmptyInput
	ErrUnimplementedInTier = tensor.ErrUnimplementedInTier
	ErrOutOfBounds         = tensor.ErrOutOfBounds
	ErrDTypeMismatch       = tensor.ErrDTypeMismatch
	ErrSingularMatrix      = tensor.ErrSingularMatrix
	ErrUnknownOperation    = tensor.ErrUnknownOperation
	ErrBorrowed            = tensor.ErrBorrowed
	ErrReleased            = tensor.ErrReleased
)

// New creates an owning Array whose buffer comes from alloc (nil allocates
// directly). The contents are undefined.
func New(alloc Allocator, shape Shape, dtype DataType) (*Array, error) {
	return tensor.New(alloc, shape, dtype)
}

// Zeros creates an owning Array filled with zeros.
func Zeros(alloc Allocator, shape Shape, dtype DataType) (*Array, error) {
	a, err := tensor.New(alloc, shape, dtype)
	if err != nil {
		return nil, err
	}
	buf, _, _ := a.Export()
	clear(buf.Bytes())
	return a, nil
}

// FromSlice creates an owning Array holding a copy of data.
//
// Example:
//
//	a, err := tensor.FromSlice(nil, tensor.Shape{2, 2}, []int32{1, 2, 3, 4})
func FromSlice[T DType](alloc Allocator, shape Shape, data []T) (*Array, error) {
	return tensor.FromSlice(alloc, shape, data)
}

// Wrap binds shape over buf in owning mode.
func Wrap(buf *Buffer, shape Shape) (*Array, error) {
	return tensor.Wrap(buf, shape)
}

// Promote returns the element type of a binary result over a and b.
func Promote(a, b DataType) DataType {
	return tensor.Promote(a, b)
}
