package native

import (
	"github.com/cwbudde/algo-vecmath"

	"github.com/born-ml/ndarray/internal/backend/baseline"
	"github.com/born-ml/ndarray/internal/kernel"
	"github.com/born-ml/ndarray/internal/tensor"
)

const (
	// tile is the edge of the square blocks the matmul index ranges are
	// split into.
	tile = 64

	// blockedThreshold is the m*k*n work size from which matmul switches
	// from the naive loop to cache blocking.
	blockedThreshold = 32 * 32 * 32

	transposeTile = 32
)

// MatMul multiplies (M, K) @ (K, N) -> (M, N).
func MatMul(ctx *kernel.Context, in []kernel.Operand, _ kernel.Params) (kernel.Result, error) {
	a, b := in[0], in[1]
	m, k, n, err := kernel.MatMulDims(a.Shape, b.Shape)
	if err != nil {
		return kernel.Result{}, err
	}
	dtype := kernel.ResultType(kernel.OpMatMul, a.Buffer.DType(), b.Buffer.DType())
	return kernel.Apply(ctx, dtype, tensor.Shape{m, n}, in[:2], func(dst []float64, src [][]float64) error {
		matmul(dst, src[0], src[1], m, k, n)
		return nil
	})
}

// Matrix kernels run on the calling goroutine.
func matmul(c, a, b []float64, m, k, n int) {
	if m*k*n < blockedThreshold {
		naive(c, a, b, m, k, n)
		return
	}
	blocked(c, a, b, m, k, n)
}

func naive(c, a, b []float64, m, k, n int) {
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			sum := 0.0
			for kk := 0; kk < k; kk++ {
				sum += float64(a[i*k+kk] * b[kk*n+j])
			}
			c[i*n+j] = sum
		}
	}
}

// blocked tiles i, k and j and accumulates straight into c. Tiles of k are
// visited in ascending order, so every cell sums its products in the same
// order as naive.
func blocked(c, a, b []float64, m, k, n int) {
	for i := range c {
		c[i] = 0
	}

	temp := make([]float64, tile)
	for i0 := 0; i0 < m; i0 += tile {
		i1 := min(i0+tile, m)
		for k0 := 0; k0 < k; k0 += tile {
			k1 := min(k0+tile, k)
			for j0 := 0; j0 < n; j0 += tile {
				j1 := min(j0+tile, n)
				scaled := temp[:j1-j0]
				for i := i0; i < i1; i++ {
					row := c[i*n+j0 : i*n+j1]
					for kk := k0; kk < k1; kk++ {
						vecmath.ScaleBlock(scaled, b[kk*n+j0:kk*n+j1], a[i*k+kk])
						vecmath.AddBlockInPlace(row, scaled)
					}
				}
			}
		}
	}
}

// GEMM computes alpha*A@B + beta*C with C as the optional third operand.
func GEMM(ctx *kernel.Context, in []kernel.Operand, p kernel.Params) (kernel.Result, error) {
	a, b := in[0], in[1]
	hasC := len(in) > 2
	var cShape tensor.Shape
	if hasC {
		cShape = in[2].Shape
	}
	m, k, n, err := kernel.GEMMDims(a.Shape, b.Shape, cShape, hasC)
	if err != nil {
		return kernel.Result{}, err
	}

	dtype := kernel.ResultType(kernel.OpGEMM, kernel.DTypes(in)...)
	return kernel.Apply(ctx, dtype, tensor.Shape{m, n}, in, func(dst []float64, src [][]float64) error {
		matmul(dst, src[0], src[1], m, k, n)
		if p.Alpha != 1 {
			vecmath.ScaleBlock(dst, dst, p.Alpha)
		}
		if !hasC {
			return nil
		}
		scaled := make([]float64, len(dst))
		vecmath.ScaleBlock(scaled, src[2], p.Beta)
		vecmath.AddBlockInPlace(dst, scaled)
		return nil
	})
}

// Dot computes vector·vector, matrix·matrix or matrix·vector products.
func Dot(ctx *kernel.Context, in []kernel.Operand, _ kernel.Params) (kernel.Result, error) {
	a, b := in[0], in[1]
	shape, err := kernel.DotShape(a.Shape, b.Shape)
	if err != nil {
		return kernel.Result{}, err
	}
	dtype := kernel.ResultType(kernel.OpDot, a.Buffer.DType(), b.Buffer.DType())
	return kernel.Apply(ctx, dtype, shape, in[:2], func(dst []float64, src [][]float64) error {
		x, y := src[0], src[1]
		switch {
		case len(a.Shape) == 1:
			dst[0] = dot(x, y)
		case len(b.Shape) == 1:
			cols := a.Shape[1]
			for i := range dst {
				dst[i] = dot(x[i*cols:(i+1)*cols], y)
			}
		default:
			matmul(dst, x, y, a.Shape[0], a.Shape[1], b.Shape[1])
		}
		return nil
	})
}

func dot(x, y []float64) float64 {
	var acc [lanes]float64
	n := len(x)
	i := 0
	for ; i+lanes <= n; i += lanes {
		for l := 0; l < lanes; l++ {
			acc[l] += x[i+l] * y[i+l]
		}
	}
	for ; i < n; i++ {
		acc[0] += x[i] * y[i]
	}
	return ((acc[0] + acc[1]) + (acc[2] + acc[3])) + ((acc[4] + acc[5]) + (acc[6] + acc[7]))
}

// Transpose swaps the axes of a matrix in cache-sized tiles. Other ranks are
// handled by the baseline kernel.
func Transpose(ctx *kernel.Context, in []kernel.Operand, p kernel.Params) (kernel.Result, error) {
	x := in[0]
	if len(x.Shape) != 2 {
		return baseline.Transpose(ctx, in, p)
	}
	rows, cols := x.Shape[0], x.Shape[1]
	return kernel.Apply(ctx, x.Buffer.DType(), tensor.Shape{cols, rows}, in[:1], func(dst []float64, src [][]float64) error {
		transpose2D(dst, src[0], rows, cols)
		return nil
	})
}

func transpose2D(dst, src []float64, rows, cols int) {
	for i0 := 0; i0 < rows; i0 += transposeTile {
		i1 := min(i0+transposeTile, rows)
		for j0 := 0; j0 < cols; j0 += transposeTile {
			j1 := min(j0+transposeTile, cols)
			for i := i0; i < i1; i++ {
				for j := j0; j < j1; j++ {
					dst[j*rows+i] = src[i*cols+j]
				}
			}
		}
	}
}
