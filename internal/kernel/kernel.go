// Package kernel defines the contract between the dispatch layer and the
// per-tier kernel implementations.
//
// Kernels receive raw buffers and shapes, never Arrays, and return a freshly
// acquired output buffer. All arithmetic runs in float64; non-float64 inputs
// are widened into scratch buffers and outputs are narrowed on the way out.
package kernel

import (
	"github.com/born-ml/ndarray/internal/parallel"
	"github.com/born-ml/ndarray/internal/tensor"
)

// Operand is one kernel input: a buffer and the shape it is viewed with.
type Operand struct {
	Buffer *tensor.Buffer
	Shape  tensor.Shape
}

// Result is a kernel output. The caller owns Buffer.
type Result struct {
	Buffer *tensor.Buffer
	Shape  tensor.Shape
}

// Params carries operation-specific flags. Start from DefaultParams: the
// zero value has Alpha = 0, which makes gemm return beta*C (zeros without C).
type Params struct {
	Axis     *int // Reduction axis; nil reduces the whole array.
	KeepDims bool
	DDOF     int     // Delta degrees of freedom for var/std.
	Alpha    float64 // GEMM scale of A*B. Zero drops the product.
	Beta     float64 // GEMM scale of C.
}

// DefaultParams returns params with GEMM's alpha = 1, beta = 0.
func DefaultParams() Params {
	return Params{Alpha: 1}
}

// Axis returns a pointer to axis, for Params.Axis.
func Axis(axis int) *int {
	return &axis
}

// Func is a kernel implementation for one (operation, tier) pair.
type Func func(ctx *Context, in []Operand, p Params) (Result, error)

// Context carries the resources a kernel may use.
type Context struct {
	Alloc    tensor.Allocator // nil allocates directly
	Parallel parallel.Config
}

// Acquire takes an n-element buffer from the context's allocator.
func (c *Context) Acquire(dtype tensor.DataType, n int) (*tensor.Buffer, error) {
	if c == nil || c.Alloc == nil {
		return tensor.Allocate(dtype, n)
	}
	return c.Alloc.Acquire(dtype, n)
}

// ParallelConfig returns the context's fan-out settings.
func (c *Context) ParallelConfig() parallel.Config {
	if c == nil {
		return parallel.Serial()
	}
	return c.Parallel
}
