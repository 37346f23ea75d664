package kernel

import (
	"github.com/born-ml/ndarray/internal/tensor"
)

// Input is a float64 view of an operand. Float64 operands are viewed in
// place; other dtypes are widened into a scratch buffer that Release returns.
type Input struct {
	Data    []float64
	Shape   tensor.Shape
	scratch *tensor.Buffer
}

// Release returns the scratch buffer, if any.
func (in *Input) Release() {
	if in.scratch != nil {
		_ = in.scratch.Release()
		in.scratch = nil
	}
}

// Load returns op's elements as float64.
func Load(ctx *Context, op Operand) (*Input, error) {
	if op.Buffer.DType() == tensor.Float64 {
		return &Input{Data: op.Buffer.AsFloat64(), Shape: op.Shape}, nil
	}
	scratch, err := ctx.Acquire(tensor.Float64, op.Buffer.Len())
	if err != nil {
		return nil, err
	}
	data := scratch.AsFloat64()
	op.Buffer.ReadFloat64(data)
	return &Input{Data: data, Shape: op.Shape, scratch: scratch}, nil
}

// LoadAll loads every operand. On failure the inputs already loaded are
// released before the error is returned.
func LoadAll(ctx *Context, ops []Operand) ([]*Input, func(), error) {
	ins := make([]*Input, 0, len(ops))
	release := func() {
		for _, in := range ins {
			in.Release()
		}
	}
	for _, op := range ops {
		in, err := Load(ctx, op)
		if err != nil {
			release()
			return nil, nil, err
		}
		ins = append(ins, in)
	}
	return ins, release, nil
}

// Output stages a kernel result. Data is the float64 working slice; for a
// float64 result it is the output buffer itself. Pooled memory is not
// zeroed, so kernels must write every element.
type Output struct {
	Data    []float64
	Shape   tensor.Shape
	buf     *tensor.Buffer
	scratch *tensor.Buffer
}

// NewOutput acquires an output buffer of dtype and shape.
func NewOutput(ctx *Context, dtype tensor.DataType, shape tensor.Shape) (*Output, error) {
	n := shape.NumElements()
	buf, err := ctx.Acquire(dtype, n)
	if err != nil {
		return nil, err
	}
	out := &Output{Shape: shape.Clone(), buf: buf}
	if dtype == tensor.Float64 {
		out.Data = buf.AsFloat64()
		return out, nil
	}

	scratch, err := ctx.Acquire(tensor.Float64, n)
	if err != nil {
		_ = buf.Release()
		return nil, err
	}
	out.scratch = scratch
	out.Data = scratch.AsFloat64()
	return out, nil
}

// Finish narrows the working data into the output buffer and hands it over.
func (o *Output) Finish() Result {
	if o.scratch != nil {
		o.buf.WriteFloat64(o.Data)
		_ = o.scratch.Release()
		o.scratch = nil
	}
	return Result{Buffer: o.buf, Shape: o.Shape}
}

// Discard releases everything the output acquired.
func (o *Output) Discard() {
	if o.scratch != nil {
		_ = o.scratch.Release()
		o.scratch = nil
	}
	if o.buf != nil {
		_ = o.buf.Release()
		o.buf = nil
	}
}
