package tensor

import (
	"fmt"
	"math"
	"unsafe"
)

// Allocator hands out Buffers and takes them back.
// The memory pool is the production implementation.
type Allocator interface {
	Acquire(dtype DataType, n int) (*Buffer, error)
	Release(b *Buffer) error
}

// Buffer is a contiguous, typed, fixed-length block of numeric storage.
// It is the unit of ownership transfer between execution tiers.
type Buffer struct {
	data   []byte
	dtype  DataType
	length int
	alloc  Allocator // nil for direct allocations
	freed  bool
}

// NewBuffer binds n elements of dtype over data. It is meant for Allocator
// implementations: the returned Buffer is released back through alloc.
func NewBuffer(dtype DataType, n int, data []byte, alloc Allocator) (*Buffer, error) {
	if !dtype.Valid() {
		return nil, fmt.Errorf("%w: unsupported dtype %d", ErrDTypeMismatch, int(dtype))
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: negative length %d", ErrAllocationFailed, n)
	}
	need := n * dtype.Size()
	if len(data) < need {
		return nil, fmt.Errorf("%w: %d bytes cannot hold %d %s elements", ErrAllocationFailed, len(data), n, dtype)
	}
	return &Buffer{
		data:   data[:need:need],
		dtype:  dtype,
		length: n,
		alloc:  alloc,
	}, nil
}

// Allocate creates an unpooled Buffer of n zeroed elements.
// Releasing it frees the storage outright.
func Allocate(dtype DataType, n int) (*Buffer, error) {
	size, err := ByteSize(dtype, n)
	if err != nil {
		return nil, err
	}
	data, err := AllocBytes(size)
	if err != nil {
		return nil, err
	}
	return NewBuffer(dtype, n, data, nil)
}

// ByteSize returns the storage needed for n elements of dtype.
func ByteSize(dtype DataType, n int) (int, error) {
	if !dtype.Valid() {
		return 0, fmt.Errorf("%w: unsupported dtype %d", ErrDTypeMismatch, int(dtype))
	}
	if n < 0 || n > math.MaxInt/dtype.Size() {
		return 0, fmt.Errorf("%w: cannot size %d %s elements", ErrAllocationFailed, n, dtype)
	}
	return n * dtype.Size(), nil
}

// AllocBytes allocates size bytes, converting a runtime allocation panic
// into ErrAllocationFailed.
func AllocBytes(size int) (data []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			data = nil
			err = fmt.Errorf("%w: %d bytes: %v", ErrAllocationFailed, size, r)
		}
	}()
	return make([]byte, size), nil
}

// DType returns the element type.
func (b *Buffer) DType() DataType {
	return b.dtype
}

// Len returns the number of elements.
func (b *Buffer) Len() int {
	return b.length
}

// ByteSize returns the number of bytes covered by the buffer.
func (b *Buffer) ByteSize() int {
	return len(b.data)
}

// Bytes returns the raw storage.
// WARNING: Direct access to underlying memory. Use with caution.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// Allocator returns the allocator the buffer must be released to, or nil.
func (b *Buffer) Allocator() Allocator {
	return b.alloc
}

// Release returns the buffer to its allocator, or frees it when it was
// allocated directly.
func (b *Buffer) Release() error {
	if b.alloc != nil {
		return b.alloc.Release(b)
	}
	if b.freed {
		return fmt.Errorf("buffer: %w", ErrReleased)
	}
	b.freed = true
	b.data = nil
	return nil
}

// AsFloat32 interprets the data as []float32.
// Panics if the buffer's dtype is not Float32.
func (b *Buffer) AsFloat32() []float32 {
	return Elements[float32](b)
}

// AsFloat64 interprets the data as []float64.
// Panics if the buffer's dtype is not Float64.
func (b *Buffer) AsFloat64() []float64 {
	return Elements[float64](b)
}

// AsInt32 interprets the data as []int32.
// Panics if the buffer's dtype is not Int32.
func (b *Buffer) AsInt32() []int32 {
	return Elements[int32](b)
}

// AsInt64 interprets the data as []int64.
// Panics if the buffer's dtype is not Int64.
func (b *Buffer) AsInt64() []int64 {
	return Elements[int64](b)
}

// Elements returns a zero-copy typed view of the buffer.
// Panics if T does not match the buffer's dtype.
func Elements[T DType](b *Buffer) []T {
	if want := DataTypeOf[T](); b.dtype != want {
		panic(fmt.Sprintf("buffer dtype is %s, not %s", b.dtype, want))
	}
	if b.length == 0 || len(b.data) == 0 {
		return []T{}
	}
	//nolint:gosec // unsafe.Slice for zero-copy performance, bounds checked by length
	return unsafe.Slice((*T)(unsafe.Pointer(&b.data[0])), b.length)
}

// ReadFloat64 widens the buffer contents into dst, which must hold Len() elements.
func (b *Buffer) ReadFloat64(dst []float64) {
	switch b.dtype {
	case Float32:
		widen(dst, b.AsFloat32())
	case Float64:
		copy(dst, b.AsFloat64())
	case Int32:
		widen(dst, b.AsInt32())
	case Int64:
		widen(dst, b.AsInt64())
	}
}

// WriteFloat64 narrows src into the buffer, truncating toward zero for
// integer dtypes.
func (b *Buffer) WriteFloat64(src []float64) {
	switch b.dtype {
	case Float32:
		narrow(b.AsFloat32(), src)
	case Float64:
		copy(b.AsFloat64(), src)
	case Int32:
		narrow(b.AsInt32(), src)
	case Int64:
		narrow(b.AsInt64(), src)
	}
}

// Float64At reads element i widened to float64.
func (b *Buffer) Float64At(i int) float64 {
	switch b.dtype {
	case Float32:
		return float64(b.AsFloat32()[i])
	case Int32:
		return float64(b.AsInt32()[i])
	case Int64:
		return float64(b.AsInt64()[i])
	default:
		return b.AsFloat64()[i]
	}
}

// SetFloat64At stores v at element i, narrowing to the buffer's dtype.
func (b *Buffer) SetFloat64At(i int, v float64) {
	switch b.dtype {
	case Float32:
		b.AsFloat32()[i] = float32(v)
	case Int32:
		b.AsInt32()[i] = int32(v)
	case Int64:
		b.AsInt64()[i] = int64(v)
	default:
		b.AsFloat64()[i] = v
	}
}

func widen[T DType](dst []float64, src []T) {
	for i, v := range src {
		dst[i] = float64(v)
	}
}

func narrow[T DType](dst []T, src []float64) {
	for i, v := range src {
		dst[i] = T(v)
	}
}
