package dispatch

import (
	"fmt"

	"github.com/born-ml/ndarray/internal/kernel"
	"github.com/born-ml/ndarray/internal/tensor"
)

type opKind int

const (
	elementwise opKind = iota
	reduction
	matrix
)

type signature struct {
	kind             opKind
	minArgs, maxArgs int
}

var signatures = map[string]signature{
	kernel.OpAdd:         {elementwise, 2, 2},
	kernel.OpSubtract:    {elementwise, 2, 2},
	kernel.OpMultiply:    {elementwise, 2, 2},
	kernel.OpDivide:      {elementwise, 2, 2},
	kernel.OpFloorDivide: {elementwise, 2, 2},
	kernel.OpMod:         {elementwise, 2, 2},
	kernel.OpPower:       {elementwise, 2, 2},

	kernel.OpSum:  {reduction, 1, 1},
	kernel.OpMean: {reduction, 1, 1},
	kernel.OpMin:  {reduction, 1, 1},
	kernel.OpMax:  {reduction, 1, 1},
	kernel.OpProd: {reduction, 1, 1},
	kernel.OpVar:  {reduction, 1, 1},
	kernel.OpStd:  {reduction, 1, 1},

	kernel.OpMatMul:    {matrix, 2, 2},
	kernel.OpTranspose: {matrix, 1, 1},
	kernel.OpDot:       {matrix, 2, 2},
	kernel.OpGEMM:      {matrix, 2, 3},
	kernel.OpSolve:     {matrix, 2, 2},
	kernel.OpInv:       {matrix, 1, 1},
	kernel.OpDet:       {matrix, 1, 1},
}

// Validate checks operands and params for op without touching any memory
// pool. Kernels may assume their inputs passed it. Operations registered
// outside the built-in catalogue only get the per-operand checks.
func Validate(op string, in []kernel.Operand, p kernel.Params) error {
	for i, operand := range in {
		if err := validateOperand(op, i, operand); err != nil {
			return err
		}
	}
	sig, ok := signatures[op]
	if !ok {
		return nil
	}
	if len(in) < sig.minArgs || len(in) > sig.maxArgs {
		return fmt.Errorf("%w: %s takes %d to %d operands, got %d",
			tensor.ErrShapeMismatch, op, sig.minArgs, sig.maxArgs, len(in))
	}

	switch sig.kind {
	case elementwise:
		return validateElementwise(op, in[0].Shape, in[1].Shape)
	case reduction:
		return validateReduction(op, in[0].Shape, p)
	default:
		return validateMatrix(op, in)
	}
}

func validateOperand(op string, i int, operand kernel.Operand) error {
	if operand.Buffer == nil {
		return fmt.Errorf("%w: %s operand %d has no buffer", tensor.ErrShapeMismatch, op, i)
	}
	if !operand.Buffer.DType().Valid() {
		return fmt.Errorf("%w: %s operand %d has dtype %s", tensor.ErrDTypeMismatch, op, i, operand.Buffer.DType())
	}
	if err := operand.Shape.Validate(); err != nil {
		return fmt.Errorf("%s operand %d: %w", op, i, err)
	}
	if n := operand.Shape.NumElements(); n != operand.Buffer.Len() {
		return fmt.Errorf("%w: %s operand %d has shape %v (%d elements) over a buffer of %d",
			tensor.ErrShapeMismatch, op, i, operand.Shape, n, operand.Buffer.Len())
	}
	return nil
}

func validateElementwise(op string, a, b tensor.Shape) error {
	if a.Equal(b) || kernel.IsScalar(a) || kernel.IsScalar(b) {
		return nil
	}
	return fmt.Errorf("%w: %s of %v and %v", tensor.ErrShapeMismatch, op, a, b)
}

func validateReduction(op string, shape tensor.Shape, p kernel.Params) error {
	if p.DDOF < 0 {
		return fmt.Errorf("%w: %s with ddof %d", tensor.ErrOutOfBounds, op, p.DDOF)
	}
	if op != kernel.OpMin && op != kernel.OpMax {
		if p.Axis != nil {
			_, err := shape.NormalizeAxis(*p.Axis)
			return err
		}
		return nil
	}

	if p.Axis == nil {
		if shape.NumElements() == 0 {
			return fmt.Errorf("%w: %s of zero elements", tensor.ErrEmptyInput, op)
		}
		return nil
	}
	ax, err := shape.NormalizeAxis(*p.Axis)
	if err != nil {
		return err
	}
	// A zero-length axis with no lanes yields an empty result instead.
	if shape[ax] == 0 && lanes(shape, ax) > 0 {
		return fmt.Errorf("%w: %s along empty axis %d", tensor.ErrEmptyInput, op, *p.Axis)
	}
	return nil
}

// lanes counts the 1-D slices a reduction along ax visits.
func lanes(shape tensor.Shape, ax int) int {
	n := 1
	for i, dim := range shape {
		if i != ax {
			n *= dim
		}
	}
	return n
}

func validateMatrix(op string, in []kernel.Operand) error {
	switch op {
	case kernel.OpMatMul:
		_, _, _, err := kernel.MatMulDims(in[0].Shape, in[1].Shape)
		return err
	case kernel.OpDot:
		_, err := kernel.DotShape(in[0].Shape, in[1].Shape)
		return err
	case kernel.OpGEMM:
		var c tensor.Shape
		if len(in) > 2 {
			c = in[2].Shape
		}
		_, _, _, err := kernel.GEMMDims(in[0].Shape, in[1].Shape, c, len(in) > 2)
		return err
	case kernel.OpSolve:
		n, err := kernel.SquareDim(op, in[0].Shape)
		if err != nil {
			return err
		}
		b := in[1].Shape
		if (len(b) != 1 && len(b) != 2) || b[0] != n {
			return fmt.Errorf("%w: solve of [%d,%d] with right-hand side %v", tensor.ErrShapeMismatch, n, n, b)
		}
		return nil
	case kernel.OpInv, kernel.OpDet:
		_, err := kernel.SquareDim(op, in[0].Shape)
		return err
	default:
		return nil
	}
}
