package tensor

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Ownership tags whether an Array is responsible for its Buffer.
type Ownership int

// Ownership modes.
const (
	// OwnsBuffer arrays release their buffer when released.
	OwnsBuffer Ownership = iota
	// BorrowsBuffer arrays hold a non-owning reference kept alive by a parent.
	BorrowsBuffer
)

// String returns a human-readable ownership mode.
func (o Ownership) String() string {
	switch o {
	case OwnsBuffer:
		return "owns-buffer"
	case BorrowsBuffer:
		return "borrows-buffer"
	default:
		return "unknown"
	}
}

// Array is a shape descriptor bound to a Buffer.
//
// An owning Array releases its buffer on Release. A borrowing Array (a view
// created by View or Reshape) keeps a back-reference to its parent; the parent
// refuses to release while views are live, so a borrow never outlives its owner.
type Array struct {
	buf      *Buffer
	shape    Shape
	stride   []int
	mode     Ownership
	parent   *Array
	mu       sync.Mutex // serializes borrow changes against Release
	borrows  atomic.Int32
	released atomic.Bool
}

// New creates an owning Array of the given shape, taking its buffer from alloc.
// A nil alloc allocates the buffer directly. Pooled memory is not zeroed.
func New(alloc Allocator, shape Shape, dtype DataType) (*Array, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}

	var (
		buf *Buffer
		err error
	)
	if alloc != nil {
		buf, err = alloc.Acquire(dtype, shape.NumElements())
	} else {
		buf, err = Allocate(dtype, shape.NumElements())
	}
	if err != nil {
		return nil, err
	}
	return Wrap(buf, shape)
}

// Wrap binds shape over buf in owns-buffer mode.
func Wrap(buf *Buffer, shape Shape) (*Array, error) {
	if buf == nil {
		return nil, fmt.Errorf("wrap: nil buffer")
	}
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	if shape.NumElements() != buf.Len() {
		return nil, fmt.Errorf("%w: shape %v requires %d elements, buffer holds %d",
			ErrShapeMismatch, shape, shape.NumElements(), buf.Len())
	}
	return &Array{
		buf:    buf,
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
		mode:   OwnsBuffer,
	}, nil
}

// FromSlice creates an owning Array holding a copy of data.
func FromSlice[T DType](alloc Allocator, shape Shape, data []T) (*Array, error) {
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("%w: shape %v requires %d elements, but got %d",
			ErrShapeMismatch, shape, shape.NumElements(), len(data))
	}
	a, err := New(alloc, shape, DataTypeOf[T]())
	if err != nil {
		return nil, err
	}
	copy(Elements[T](a.buf), data)
	return a, nil
}

// Shape returns the array's shape.
func (a *Array) Shape() Shape {
	return a.shape
}

// Strides returns the array's row-major strides.
func (a *Array) Strides() []int {
	return a.stride
}

// DType returns the element type.
func (a *Array) DType() DataType {
	return a.buf.DType()
}

// NumElements returns the total number of elements.
func (a *Array) NumElements() int {
	return a.shape.NumElements()
}

// Rank returns the number of dimensions.
func (a *Array) Rank() int {
	return len(a.shape)
}

// Ownership reports whether the array owns or borrows its buffer.
func (a *Array) Ownership() Ownership {
	return a.mode
}

// Borrows returns the number of live views over this array.
func (a *Array) Borrows() int {
	return int(a.borrows.Load())
}

// Released reports whether Release has been called.
func (a *Array) Released() bool {
	return a.released.Load()
}

// Export returns the underlying buffer and shape without copying, for kernels.
func (a *Array) Export() (*Buffer, Shape, error) {
	if a.released.Load() {
		return nil, nil, fmt.Errorf("export: array %w", ErrReleased)
	}
	return a.buf, a.shape, nil
}

// View returns a borrowing Array over the same buffer with a new shape.
// The element count must not change.
func (a *Array) View(shape Shape) (*Array, error) {
	if a.released.Load() {
		return nil, fmt.Errorf("view: array %w", ErrReleased)
	}
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	if shape.NumElements() != a.NumElements() {
		return nil, fmt.Errorf("%w: cannot view %v as %v (different number of elements)",
			ErrShapeMismatch, a.shape, shape)
	}

	owner := a.owner()
	owner.mu.Lock()
	defer owner.mu.Unlock()
	if owner.released.Load() {
		return nil, fmt.Errorf("view: array %w", ErrReleased)
	}
	owner.borrows.Add(1)
	return &Array{
		buf:    a.buf,
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
		mode:   BorrowsBuffer,
		parent: owner,
	}, nil
}

// Reshape is View: the new descriptor shares the buffer.
func (a *Array) Reshape(shape Shape) (*Array, error) {
	return a.View(shape)
}

// Copy returns an owning Array with its own copy of the data.
func (a *Array) Copy(alloc Allocator) (*Array, error) {
	if a.released.Load() {
		return nil, fmt.Errorf("copy: array %w", ErrReleased)
	}
	out, err := New(alloc, a.shape, a.DType())
	if err != nil {
		return nil, err
	}
	copy(out.buf.Bytes(), a.buf.Bytes())
	return out, nil
}

// At returns the element at the given multi-index widened to float64.
func (a *Array) At(index ...int) (float64, error) {
	if a.released.Load() {
		return 0, fmt.Errorf("at: array %w", ErrReleased)
	}
	off, err := a.shape.Offset(index...)
	if err != nil {
		return 0, err
	}
	return a.buf.Float64At(off), nil
}

// Set stores v at the given multi-index, narrowing to the array's dtype.
func (a *Array) Set(v float64, index ...int) error {
	if a.released.Load() {
		return fmt.Errorf("set: array %w", ErrReleased)
	}
	off, err := a.shape.Offset(index...)
	if err != nil {
		return err
	}
	a.buf.SetFloat64At(off, v)
	return nil
}

// Float64s returns a widened copy of the elements in row-major order, or
// nil once the array has been released.
func (a *Array) Float64s() []float64 {
	if a.released.Load() {
		return nil
	}
	out := make([]float64, a.buf.Len())
	a.buf.ReadFloat64(out)
	return out
}

// Release ends the array's lifetime. An owning array returns its buffer to
// the allocator and fails with ErrBorrowed while views are still live.
// A borrowing array only drops its claim on the parent.
func (a *Array) Release() error {
	if a.mode == BorrowsBuffer {
		if !a.released.CompareAndSwap(false, true) {
			return fmt.Errorf("release: view %w", ErrReleased)
		}
		a.parent.borrows.Add(-1)
		return nil
	}

	a.mu.Lock()
	if n := a.borrows.Load(); n > 0 {
		a.mu.Unlock()
		return fmt.Errorf("release: %w by %d view(s)", ErrBorrowed, n)
	}
	if !a.released.CompareAndSwap(false, true) {
		a.mu.Unlock()
		return fmt.Errorf("release: array %w", ErrReleased)
	}
	a.mu.Unlock()
	return a.buf.Release()
}

func (a *Array) owner() *Array {
	if a.mode == BorrowsBuffer {
		return a.parent
	}
	return a
}
