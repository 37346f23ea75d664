// Package vectorized implements the hot operations with 4-wide chunked loops
// and a scalar tail. Large full reductions fan out through parallel.Reduce;
// axis reductions are delegated to the baseline tier.
package vectorized

import "github.com/born-ml/ndarray/internal/kernel"

// width is the number of elements processed per loop iteration.
const width = 4

// Kernels returns the vectorized implementation of each operation it covers.
func Kernels() map[string]kernel.Func {
	return map[string]kernel.Func{
		kernel.OpAdd:      Add,
		kernel.OpSubtract: Subtract,
		kernel.OpMultiply: Multiply,
		kernel.OpDivide:   Divide,

		kernel.OpSum:  Sum,
		kernel.OpMean: Mean,
		kernel.OpMin:  Min,
		kernel.OpMax:  Max,
		kernel.OpProd: Prod,
		kernel.OpVar:  Var,
		kernel.OpStd:  Std,

		kernel.OpMatMul: MatMul,
		kernel.OpDot:    Dot,
	}
}
