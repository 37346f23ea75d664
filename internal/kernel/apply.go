package kernel

import "github.com/born-ml/ndarray/internal/tensor"

// Apply loads in as float64, acquires an output of dtype and shape, and runs
// compute over the views. On error the output is discarded; input scratch is
// always released.
func Apply(ctx *Context, dtype tensor.DataType, shape tensor.Shape, in []Operand,
	compute func(dst []float64, src [][]float64) error) (Result, error) {
	ins, release, err := LoadAll(ctx, in)
	if err != nil {
		return Result{}, err
	}
	defer release()

	out, err := NewOutput(ctx, dtype, shape)
	if err != nil {
		return Result{}, err
	}

	src := make([][]float64, len(ins))
	for i, x := range ins {
		src[i] = x.Data
	}
	if err := compute(out.Data, src); err != nil {
		out.Discard()
		return Result{}, err
	}
	return out.Finish(), nil
}

// Binary runs an elementwise binary operation. Either side of compute may be
// a one-element slice when that operand is a scalar.
func Binary(ctx *Context, op string, in []Operand, compute func(dst, a, b []float64)) (Result, error) {
	a, b := in[0], in[1]
	dtype := ResultType(op, a.Buffer.DType(), b.Buffer.DType())
	return Apply(ctx, dtype, BinaryShape(a.Shape, b.Shape), in[:2], func(dst []float64, src [][]float64) error {
		compute(dst, src[0], src[1])
		return nil
	})
}

// ReduceAll reduces every element of x to one value.
func ReduceAll(ctx *Context, op string, x Operand, p Params, reduce func(data []float64) (float64, error)) (Result, error) {
	shape, err := ReduceShape(x.Shape, nil, p.KeepDims)
	if err != nil {
		return Result{}, err
	}
	return Apply(ctx, ResultType(op, x.Buffer.DType()), shape, []Operand{x}, func(dst []float64, src [][]float64) error {
		v, err := reduce(src[0])
		if err != nil {
			return err
		}
		dst[0] = v
		return nil
	})
}

// DTypes returns the dtype of each operand.
func DTypes(in []Operand) []tensor.DataType {
	out := make([]tensor.DataType, len(in))
	for i, op := range in {
		out[i] = op.Buffer.DType()
	}
	return out
}
