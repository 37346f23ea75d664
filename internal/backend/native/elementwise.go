package native

import (
	"github.com/cwbudde/algo-vecmath"

	"github.com/born-ml/ndarray/internal/kernel"
	"github.com/born-ml/ndarray/internal/parallel"
)

// Add computes a + b.
func Add(ctx *kernel.Context, in []kernel.Operand, _ kernel.Params) (kernel.Result, error) {
	return blocks(ctx, kernel.OpAdd, in, blockOps{
		both: vecmath.AddBlock,
		right: func(dst, a []float64, s float64) {
			fill(dst, s)
			vecmath.AddBlockInPlace(dst, a)
		},
		left: func(dst []float64, s float64, b []float64) {
			fill(dst, s)
			vecmath.AddBlockInPlace(dst, b)
		},
	})
}

// Subtract computes a - b as a + (-b), which rounds identically.
func Subtract(ctx *kernel.Context, in []kernel.Operand, _ kernel.Params) (kernel.Result, error) {
	return blocks(ctx, kernel.OpSubtract, in, blockOps{
		both: func(dst, a, b []float64) {
			vecmath.ScaleBlock(dst, b, -1)
			vecmath.AddBlockInPlace(dst, a)
		},
		right: func(dst, a []float64, s float64) {
			fill(dst, -s)
			vecmath.AddBlockInPlace(dst, a)
		},
		left: func(dst []float64, s float64, b []float64) {
			for i, v := range b {
				dst[i] = s - v
			}
		},
	})
}

// Multiply computes a * b.
func Multiply(ctx *kernel.Context, in []kernel.Operand, _ kernel.Params) (kernel.Result, error) {
	return blocks(ctx, kernel.OpMultiply, in, blockOps{
		both: vecmath.MulBlock,
		right: func(dst, a []float64, s float64) {
			vecmath.ScaleBlock(dst, a, s)
		},
		left: func(dst []float64, s float64, b []float64) {
			vecmath.ScaleBlock(dst, b, s)
		},
	})
}

// Divide computes a / b with the zero-divisor rule of kernel.Divide.
func Divide(ctx *kernel.Context, in []kernel.Operand, _ kernel.Params) (kernel.Result, error) {
	return blocks(ctx, kernel.OpDivide, in, blockOps{
		both: func(dst, a, b []float64) {
			for i := range dst {
				dst[i] = kernel.Divide(a[i], b[i])
			}
		},
		right: func(dst, a []float64, s float64) {
			if s == 0 {
				for i, v := range a {
					dst[i] = kernel.Divide(v, 0)
				}
				return
			}
			for i, v := range a {
				dst[i] = v / s
			}
		},
		left: func(dst []float64, s float64, b []float64) {
			for i, v := range b {
				dst[i] = kernel.Divide(s, v)
			}
		},
	})
}

// blockOps holds one operation's block routines for the three operand
// layouts. Each is called on matching sub-slices of a chunk.
type blockOps struct {
	both  func(dst, a, b []float64)
	right func(dst, a []float64, s float64)
	left  func(dst []float64, s float64, b []float64)
}

func blocks(ctx *kernel.Context, op string, in []kernel.Operand, ops blockOps) (kernel.Result, error) {
	cfg := ctx.ParallelConfig()
	return kernel.Binary(ctx, op, in, func(dst, a, b []float64) {
		n := len(dst)
		switch {
		case len(a) == n && len(b) == n:
			parallel.ForRange(n, func(lo, hi int) {
				ops.both(dst[lo:hi], a[lo:hi], b[lo:hi])
			}, cfg)
		case len(b) == 1:
			s := b[0]
			parallel.ForRange(n, func(lo, hi int) {
				ops.right(dst[lo:hi], a[lo:hi], s)
			}, cfg)
		default:
			s := a[0]
			parallel.ForRange(n, func(lo, hi int) {
				ops.left(dst[lo:hi], s, b[lo:hi])
			}, cfg)
		}
	})
}

func fill(dst []float64, v float64) {
	for i := range dst {
		dst[i] = v
	}
}
