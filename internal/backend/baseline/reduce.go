package baseline

import (
	"fmt"
	"math"

	"github.com/born-ml/ndarray/internal/kernel"
	"github.com/born-ml/ndarray/internal/tensor"
)

// Reduction kernels. With Params.Axis nil they reduce the whole array,
// otherwise the named axis (negative values count from the end).
var (
	Sum  = reduction(kernel.OpSum, func(lane []float64, _ kernel.Params) (float64, error) { return sum(lane), nil })
	Mean = reduction(kernel.OpMean, func(lane []float64, _ kernel.Params) (float64, error) { return mean(lane), nil })
	Prod = reduction(kernel.OpProd, func(lane []float64, _ kernel.Params) (float64, error) { return prod(lane), nil })
	Min  = reduction(kernel.OpMin, func(lane []float64, _ kernel.Params) (float64, error) { return extreme(kernel.OpMin, lane) })
	Max  = reduction(kernel.OpMax, func(lane []float64, _ kernel.Params) (float64, error) { return extreme(kernel.OpMax, lane) })
	Var  = reduction(kernel.OpVar, func(lane []float64, p kernel.Params) (float64, error) { return welford(lane).Variance(p.DDOF), nil })
	Std  = reduction(kernel.OpStd, func(lane []float64, p kernel.Params) (float64, error) { return welford(lane).Std(p.DDOF), nil })
)

type reducer func(lane []float64, p kernel.Params) (float64, error)

func reduction(op string, r reducer) kernel.Func {
	return func(ctx *kernel.Context, in []kernel.Operand, p kernel.Params) (kernel.Result, error) {
		x := in[0]
		if p.Axis == nil {
			return kernel.ReduceAll(ctx, op, x, p, func(data []float64) (float64, error) {
				return r(data, p)
			})
		}

		outShape, err := kernel.ReduceShape(x.Shape, p.Axis, p.KeepDims)
		if err != nil {
			return kernel.Result{}, err
		}
		return kernel.Apply(ctx, kernel.ResultType(op, x.Buffer.DType()), outShape, in[:1],
			func(dst []float64, src [][]float64) error {
				return reduceAxis(dst, src[0], x.Shape, *p.Axis, func(lane []float64) (float64, error) {
					return r(lane, p)
				})
			})
	}
}

// reduceAxis applies r to every lane along axis and writes the results in
// row-major order of the remaining dimensions.
func reduceAxis(dst, data []float64, shape tensor.Shape, axis int, r func([]float64) (float64, error)) error {
	ax, err := shape.NormalizeAxis(axis)
	if err != nil {
		return err
	}

	outer := tensor.Shape(shape[:ax]).NumElements()
	dim := shape[ax]
	inner := tensor.Shape(shape[ax+1:]).NumElements()

	lane := make([]float64, dim)
	for o := 0; o < outer; o++ {
		for i := 0; i < inner; i++ {
			for k := 0; k < dim; k++ {
				lane[k] = data[(o*dim+k)*inner+i]
			}
			v, err := r(lane)
			if err != nil {
				return err
			}
			dst[o*inner+i] = v
		}
	}
	return nil
}

func sum(data []float64) float64 {
	total := 0.0
	for _, v := range data {
		total += v
	}
	return total
}

func prod(data []float64) float64 {
	total := 1.0
	for _, v := range data {
		total *= v
	}
	return total
}

func mean(data []float64) float64 {
	if len(data) == 0 {
		return math.NaN()
	}
	return sum(data) / float64(len(data))
}

func extreme(op string, data []float64) (float64, error) {
	if len(data) == 0 {
		return 0, fmt.Errorf("%w: %s of zero elements", tensor.ErrEmptyInput, op)
	}
	pick := math.Max
	if op == kernel.OpMin {
		pick = math.Min
	}
	// A NaN anywhere in the lane makes the result NaN.
	best := data[0]
	for _, v := range data[1:] {
		best = pick(best, v)
	}
	return best, nil
}

func welford(data []float64) *kernel.Welford {
	var w kernel.Welford
	for _, v := range data {
		w.Push(v)
	}
	return &w
}
