package native

import (
	"fmt"
	"math"

	"github.com/born-ml/ndarray/internal/backend/baseline"
	"github.com/born-ml/ndarray/internal/kernel"
	"github.com/born-ml/ndarray/internal/parallel"
	"github.com/born-ml/ndarray/internal/tensor"
)

// lanes is the accumulator count of the unrolled reduction loops.
const lanes = 8

// Full reductions fold eight lanes per chunk; axis reductions use the
// baseline kernels.
var (
	Sum  = reduction(kernel.OpSum, baseline.Sum, sumAll)
	Mean = reduction(kernel.OpMean, baseline.Mean, meanAll)
	Prod = reduction(kernel.OpProd, baseline.Prod, prodAll)
	Min  = reduction(kernel.OpMin, baseline.Min, extremeAll(kernel.OpMin, math.Inf(1), math.Min))
	Max  = reduction(kernel.OpMax, baseline.Max, extremeAll(kernel.OpMax, math.Inf(-1), math.Max))
	Var  = reduction(kernel.OpVar, baseline.Var, varAll)
	Std  = reduction(kernel.OpStd, baseline.Std, stdAll)
)

func reduction(op string, axis kernel.Func, full func([]float64, kernel.Params, parallel.Config) (float64, error)) kernel.Func {
	return func(ctx *kernel.Context, in []kernel.Operand, p kernel.Params) (kernel.Result, error) {
		if p.Axis != nil {
			return axis(ctx, in, p)
		}
		cfg := ctx.ParallelConfig()
		return kernel.ReduceAll(ctx, op, in[0], p, func(data []float64) (float64, error) {
			return full(data, p, cfg)
		})
	}
}

// fold8 combines data with f over eight independent accumulators seeded with
// identity, then folds the accumulators pairwise.
func fold8(data []float64, identity float64, f func(acc, v float64) float64) float64 {
	var acc [lanes]float64
	for i := range acc {
		acc[i] = identity
	}
	n := len(data)
	i := 0
	for ; i+lanes <= n; i += lanes {
		for l := 0; l < lanes; l++ {
			acc[l] = f(acc[l], data[i+l])
		}
	}
	for ; i < n; i++ {
		acc[0] = f(acc[0], data[i])
	}
	return f(f(f(acc[0], acc[1]), f(acc[2], acc[3])), f(f(acc[4], acc[5]), f(acc[6], acc[7])))
}

func add(acc, v float64) float64 { return acc + v }
func mul(acc, v float64) float64 { return acc * v }

func sumAll(data []float64, _ kernel.Params, cfg parallel.Config) (float64, error) {
	return parallel.Reduce(len(data), 0, func(lo, hi int) float64 {
		return fold8(data[lo:hi], 0, add)
	}, add, cfg), nil
}

func meanAll(data []float64, p kernel.Params, cfg parallel.Config) (float64, error) {
	if len(data) == 0 {
		return math.NaN(), nil
	}
	total, err := sumAll(data, p, cfg)
	return total / float64(len(data)), err
}

func prodAll(data []float64, _ kernel.Params, cfg parallel.Config) (float64, error) {
	return parallel.Reduce(len(data), 1, func(lo, hi int) float64 {
		return fold8(data[lo:hi], 1, mul)
	}, mul, cfg), nil
}

func extremeAll(op string, identity float64, f func(a, b float64) float64) func([]float64, kernel.Params, parallel.Config) (float64, error) {
	return func(data []float64, _ kernel.Params, cfg parallel.Config) (float64, error) {
		if len(data) == 0 {
			return 0, fmt.Errorf("%w: %s of zero elements", tensor.ErrEmptyInput, op)
		}
		return parallel.Reduce(len(data), identity, func(lo, hi int) float64 {
			return fold8(data[lo:hi], identity, f)
		}, f, cfg), nil
	}
}

// varAll is a serial Welford pass; partial Welford states are not merged.
func varAll(data []float64, p kernel.Params, _ parallel.Config) (float64, error) {
	var w kernel.Welford
	for _, v := range data {
		w.Push(v)
	}
	return w.Variance(p.DDOF), nil
}

func stdAll(data []float64, p kernel.Params, cfg parallel.Config) (float64, error) {
	v, err := varAll(data, p, cfg)
	return math.Sqrt(v), err
}
