// Package baseline implements every operation with plain element loops.
//
// It is the reference tier: each result the other tiers produce is checked
// against what baseline computes for the same inputs. Kernels here favour
// clarity over speed and never fan out to goroutines.
package baseline

import "github.com/born-ml/ndarray/internal/kernel"

// Kernels returns the baseline implementation of each operation.
func Kernels() map[string]kernel.Func {
	return map[string]kernel.Func{
		kernel.OpAdd:         Add,
		kernel.OpSubtract:    Subtract,
		kernel.OpMultiply:    Multiply,
		kernel.OpDivide:      Divide,
		kernel.OpFloorDivide: FloorDivide,
		kernel.OpMod:         Mod,
		kernel.OpPower:       Power,

		kernel.OpSum:  Sum,
		kernel.OpMean: Mean,
		kernel.OpMin:  Min,
		kernel.OpMax:  Max,
		kernel.OpProd: Prod,
		kernel.OpVar:  Var,
		kernel.OpStd:  Std,

		kernel.OpMatMul:    MatMul,
		kernel.OpTranspose: Transpose,
		kernel.OpDot:       Dot,
		kernel.OpGEMM:      GEMM,
		kernel.OpSolve:     Solve,
		kernel.OpInv:       Inv,
		kernel.OpDet:       Det,
	}
}
