package baseline

import (
	"github.com/born-ml/ndarray/internal/kernel"
	"github.com/born-ml/ndarray/internal/tensor"
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

// matmul computes C[i,j] = sum_k A[i,k] * B[k,j], accumulating k in order.
// Each product is rounded before it is added, so no FMA is emitted.
func matmul(c, a, b []float64, m, k, n int) {
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			sum := 0.0
			for kIdx := 0; kIdx < k; kIdx++ {
				sum += float64(a[i*k+kIdx] * b[kIdx*n+j])
			}
			c[i*n+j] = sum
		}
	}
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
			sum := 0.0
			for i := range x {
				sum += x[i] * y[i]
			}
			dst[0] = sum
		case len(b.Shape) == 1:
			// (M, K) · (K) is a matmul with N = 1.
			matmul(dst, x, y, a.Shape[0], a.Shape[1], 1)
		default:
			matmul(dst, x, y, a.Shape[0], a.Shape[1], b.Shape[1])
		}
		return nil
	})
}

// GEMM computes alpha*A@B + beta*C. C is the optional third operand; without
// it the beta term is zero.
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
		Combine(dst, src, p)
		return nil
	})
}

// Combine turns dst = A@B into alpha*dst + beta*C, where C is src[2] if
// present.
func Combine(dst []float64, src [][]float64, p kernel.Params) {
	var c []float64
	if len(src) > 2 {
		c = src[2]
	}
	for i := range dst {
		v := float64(p.Alpha * dst[i])
		if c != nil {
			v += float64(p.Beta * c[i])
		}
		dst[i] = v
	}
}

// Transpose reverses the axes of an N-dimensional array.
func Transpose(ctx *kernel.Context, in []kernel.Operand, _ kernel.Params) (kernel.Result, error) {
	x := in[0]
	outShape := x.Shape.Reversed()
	return kernel.Apply(ctx, x.Buffer.DType(), outShape, in[:1], func(dst []float64, src [][]float64) error {
		transpose(dst, src[0], x.Shape)
		return nil
	})
}

func transpose(dst, src []float64, shape tensor.Shape) {
	ndim := len(shape)
	srcStrides := shape.ComputeStrides()
	dstStrides := shape.Reversed().ComputeStrides()

	coords := make([]int, ndim)
	for i := range src {
		idx := i
		for dim := 0; dim < ndim; dim++ {
			coords[dim] = idx / srcStrides[dim]
			idx %= srcStrides[dim]
		}

		// Source axis d lands at destination axis ndim-1-d.
		dstIdx := 0
		for dim := 0; dim < ndim; dim++ {
			dstIdx += coords[dim] * dstStrides[ndim-1-dim]
		}
		dst[dstIdx] = src[i]
	}
}
