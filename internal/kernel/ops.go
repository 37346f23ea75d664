package kernel

import "github.com/born-ml/ndarray/internal/tensor"

// Operation names understood by the dispatcher.
const (
	OpAdd         = "add"
	OpSubtract    = "subtract"
	OpMultiply    = "multiply"
	OpDivide      = "divide"
	OpFloorDivide = "floor_divide"
	OpMod         = "mod"
	OpPower       = "power"

	OpSum  = "sum"
	OpMean = "mean"
	OpMin  = "min"
	OpMax  = "max"
	OpProd = "prod"
	OpVar  = "var"
	OpStd  = "std"

	OpMatMul    = "matmul"
	OpTranspose = "transpose"
	OpDot       = "dot"
	OpGEMM      = "gemm"
	OpSolve     = "solve"
	OpInv       = "inv"
	OpDet       = "det"
)

// ResultType returns the dtype an operation produces for the given inputs.
func ResultType(op string, in ...tensor.DataType) tensor.DataType {
	switch op {
	case OpDivide, OpMean, OpVar, OpStd, OpSolve, OpInv, OpDet:
		return tensor.Float64
	}
	if len(in) == 0 {
		return tensor.Float64
	}
	dt := in[0]
	for _, other := range in[1:] {
		dt = tensor.Promote(dt, other)
	}
	return dt
}

// ReduceShape returns the output shape of a reduction over axis (nil for
// the whole array).
func ReduceShape(shape tensor.Shape, axis *int, keepDims bool) (tensor.Shape, error) {
	if axis == nil {
		if keepDims {
			return shape.Ones(), nil
		}
		return tensor.Shape{}, nil
	}

	ax, err := shape.NormalizeAxis(*axis)
	if err != nil {
		return nil, err
	}
	if keepDims {
		out := shape.Clone()
		out[ax] = 1
		return out, nil
	}
	out := make(tensor.Shape, 0, len(shape)-1)
	for i, dim := range shape {
		if i != ax {
			out = append(out, dim)
		}
	}
	return out, nil
}

// IsScalar reports whether shape describes exactly one element.
func IsScalar(shape tensor.Shape) bool {
	return shape.NumElements() == 1
}

// BinaryShape returns the output shape of an elementwise binary operation:
// the non-scalar operand's shape, or a's when both are the same.
func BinaryShape(a, b tensor.Shape) tensor.Shape {
	if IsScalar(a) && !IsScalar(b) {
		return b
	}
	return a
}
