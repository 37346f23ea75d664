// Package native implements the hot operations on top of SIMD block
// primitives from algo-vecmath, fanned out over parallel chunks, with
// cache-blocked matrix kernels.
//
// Operations without a native kernel (floor_divide, mod, power and the
// linear-algebra solvers) are not registered here; the dispatcher reports
// them as unimplemented in this tier.
package native

import (
	vecmathcpu "github.com/cwbudde/algo-vecmath/cpu"

	"github.com/born-ml/ndarray/internal/kernel"
)

// Kernels returns the native implementation of each operation it covers.
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

		kernel.OpMatMul:    MatMul,
		kernel.OpTranspose: Transpose,
		kernel.OpGEMM:      GEMM,
		kernel.OpDot:       Dot,
	}
}

// SIMDLevel names the instruction set the block primitives run on for this
// process: "avx2", "avx", "sse2", "neon" or "generic".
func SIMDLevel() string {
	f := vecmathcpu.DetectFeatures()
	switch {
	case f.ForceGeneric:
		return "generic"
	case f.HasAVX2:
		return "avx2"
	case f.HasAVX:
		return "avx"
	case f.HasSSE2:
		return "sse2"
	case f.HasNEON:
		return "neon"
	default:
		return "generic"
	}
}
