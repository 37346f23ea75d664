package vectorized

import "github.com/born-ml/ndarray/internal/kernel"

// Elementwise kernels. Each lane computes the same expression the baseline
// tier does, so add, subtract and multiply match it bit for bit.
var (
	Add      = binary(kernel.OpAdd, func(a, b float64) float64 { return a + b })
	Subtract = binary(kernel.OpSubtract, func(a, b float64) float64 { return a - b })
	Multiply = binary(kernel.OpMultiply, func(a, b float64) float64 { return a * b })
	Divide   = binary(kernel.OpDivide, kernel.Divide)
)

func binary(op string, f func(a, b float64) float64) kernel.Func {
	return func(ctx *kernel.Context, in []kernel.Operand, _ kernel.Params) (kernel.Result, error) {
		return kernel.Binary(ctx, op, in, func(dst, a, b []float64) {
			switch {
			case len(a) == len(dst) && len(b) == len(dst):
				chunked(dst, a, b, f)
			case len(b) == 1:
				chunkedScalarRight(dst, a, b[0], f)
			default:
				chunkedScalarLeft(dst, a[0], b, f)
			}
		})
	}
}

func chunked(dst, a, b []float64, f func(a, b float64) float64) {
	n := len(dst)
	i := 0
	for ; i+width <= n; i += width {
		dst[i] = f(a[i], b[i])
		dst[i+1] = f(a[i+1], b[i+1])
		dst[i+2] = f(a[i+2], b[i+2])
		dst[i+3] = f(a[i+3], b[i+3])
	}
	for ; i < n; i++ {
		dst[i] = f(a[i], b[i])
	}
}

func chunkedScalarRight(dst, a []float64, s float64, f func(a, b float64) float64) {
	n := len(dst)
	i := 0
	for ; i+width <= n; i += width {
		dst[i] = f(a[i], s)
		dst[i+1] = f(a[i+1], s)
		dst[i+2] = f(a[i+2], s)
		dst[i+3] = f(a[i+3], s)
	}
	for ; i < n; i++ {
		dst[i] = f(a[i], s)
	}
}

func chunkedScalarLeft(dst []float64, s float64, b []float64, f func(a, b float64) float64) {
	n := len(dst)
	i := 0
	for ; i+width <= n; i += width {
		dst[i] = f(s, b[i])
		dst[i+1] = f(s, b[i+1])
		dst[i+2] = f(s, b[i+2])
		dst[i+3] = f(s, b[i+3])
	}
	for ; i < n; i++ {
		dst[i] = f(s, b[i])
	}
}
