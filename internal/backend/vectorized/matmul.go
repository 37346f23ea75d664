package vectorized

import (
	"github.com/born-ml/ndarray/internal/kernel"
	"github.com/born-ml/ndarray/internal/tensor"
)

// MatMul multiplies (M, K) @ (K, N) -> (M, N) in i-k-j order, streaming rows
// of B four columns at a time. Each output cell still accumulates over k in
// ascending order.
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

func matmul(c, a, b []float64, m, k, n int) {
	for i := range c {
		c[i] = 0
	}
	for i := 0; i < m; i++ {
		row := c[i*n : (i+1)*n]
		for kk := 0; kk < k; kk++ {
			aik := a[i*k+kk]
			axpy(row, b[kk*n:(kk+1)*n], aik)
		}
	}
}

// axpy computes y += alpha*x.
func axpy(y, x []float64, alpha float64) {
	n := len(y)
	j := 0
	for ; j+width <= n; j += width {
		y[j] += alpha * x[j]
		y[j+1] += alpha * x[j+1]
		y[j+2] += alpha * x[j+2]
		y[j+3] += alpha * x[j+3]
	}
	for ; j < n; j++ {
		y[j] += alpha * x[j]
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
	var s0, s1, s2, s3 float64
	n := len(x)
	i := 0
	for ; i+width <= n; i += width {
		s0 += x[i] * y[i]
		s1 += x[i+1] * y[i+1]
		s2 += x[i+2] * y[i+2]
		s3 += x[i+3] * y[i+3]
	}
	for ; i < n; i++ {
		s0 += x[i] * y[i]
	}
	return (s0 + s1) + (s2 + s3)
}
