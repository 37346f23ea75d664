package baseline

import (
	"github.com/born-ml/ndarray/internal/kernel"
)

// Elementwise kernels. A one-element operand is broadcast against the other.
var (
	Add         = binary(kernel.OpAdd, func(a, b float64) float64 { return a + b })
	Subtract    = binary(kernel.OpSubtract, func(a, b float64) float64 { return a - b })
	Multiply    = binary(kernel.OpMultiply, func(a, b float64) float64 { return a * b })
	Divide      = binary(kernel.OpDivide, kernel.Divide)
	FloorDivide = binary(kernel.OpFloorDivide, kernel.FloorDivide)
	Mod         = binary(kernel.OpMod, kernel.Mod)
	Power       = binary(kernel.OpPower, kernel.Power)
)

func binary(op string, f func(a, b float64) float64) kernel.Func {
	return func(ctx *kernel.Context, in []kernel.Operand, _ kernel.Params) (kernel.Result, error) {
		return kernel.Binary(ctx, op, in, func(dst, a, b []float64) {
			for i := range dst {
				dst[i] = f(at(a, i), at(b, i))
			}
		})
	}
}

// at reads x[i], or x[0] when x is a broadcast scalar.
func at(x []float64, i int) float64 {
	if len(x) == 1 {
		return x[0]
	}
	return x[i]
}
