package vectorized

import (
	"fmt"
	"math"

	"github.com/born-ml/ndarray/internal/backend/baseline"
	"github.com/born-ml/ndarray/internal/kernel"
	"github.com/born-ml/ndarray/internal/parallel"
	"github.com/born-ml/ndarray/internal/tensor"
)

// Full reductions run here; axis reductions use the baseline kernels.
var (
	Sum  = reduction(kernel.OpSum, baseline.Sum, sumAll)
	Mean = reduction(kernel.OpMean, baseline.Mean, meanAll)
	Prod = reduction(kernel.OpProd, baseline.Prod, prodAll)
	Min  = reduction(kernel.OpMin, baseline.Min, minAll)
	Max  = reduction(kernel.OpMax, baseline.Max, maxAll)
	Var  = reduction(kernel.OpVar, baseline.Var, varAll)
	Std  = reduction(kernel.OpStd, baseline.Std, stdAll)
)

type fullReducer func(data []float64, p kernel.Params, cfg parallel.Config) (float64, error)

func reduction(op string, axis kernel.Func, full fullReducer) kernel.Func {
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

// sum4 adds data[lo:hi] with four independent accumulators.
func sum4(data []float64, lo, hi int) float64 {
	var s0, s1, s2, s3 float64
	i := lo
	for ; i+width <= hi; i += width {
		s0 += data[i]
		s1 += data[i+1]
		s2 += data[i+2]
		s3 += data[i+3]
	}
	for ; i < hi; i++ {
		s0 += data[i]
	}
	return (s0 + s1) + (s2 + s3)
}

func prod4(data []float64, lo, hi int) float64 {
	p0, p1, p2, p3 := 1.0, 1.0, 1.0, 1.0
	i := lo
	for ; i+width <= hi; i += width {
		p0 *= data[i]
		p1 *= data[i+1]
		p2 *= data[i+2]
		p3 *= data[i+3]
	}
	for ; i < hi; i++ {
		p0 *= data[i]
	}
	return (p0 * p1) * (p2 * p3)
}

func min4(data []float64, lo, hi int) float64 {
	m0, m1, m2, m3 := math.Inf(1), math.Inf(1), math.Inf(1), math.Inf(1)
	i := lo
	for ; i+width <= hi; i += width {
		m0 = math.Min(m0, data[i])
		m1 = math.Min(m1, data[i+1])
		m2 = math.Min(m2, data[i+2])
		m3 = math.Min(m3, data[i+3])
	}
	for ; i < hi; i++ {
		m0 = math.Min(m0, data[i])
	}
	return math.Min(math.Min(m0, m1), math.Min(m2, m3))
}

func max4(data []float64, lo, hi int) float64 {
	m0, m1, m2, m3 := math.Inf(-1), math.Inf(-1), math.Inf(-1), math.Inf(-1)
	i := lo
	for ; i+width <= hi; i += width {
		m0 = math.Max(m0, data[i])
		m1 = math.Max(m1, data[i+1])
		m2 = math.Max(m2, data[i+2])
		m3 = math.Max(m3, data[i+3])
	}
	for ; i < hi; i++ {
		m0 = math.Max(m0, data[i])
	}
	return math.Max(math.Max(m0, m1), math.Max(m2, m3))
}

func sumAll(data []float64, _ kernel.Params, cfg parallel.Config) (float64, error) {
	return parallel.Reduce(len(data), 0,
		func(lo, hi int) float64 { return sum4(data, lo, hi) },
		func(acc, v float64) float64 { return acc + v }, cfg), nil
}

func meanAll(data []float64, p kernel.Params, cfg parallel.Config) (float64, error) {
	if len(data) == 0 {
		return math.NaN(), nil
	}
	total, _ := sumAll(data, p, cfg)
	return total / float64(len(data)), nil
}

func prodAll(data []float64, _ kernel.Params, cfg parallel.Config) (float64, error) {
	return parallel.Reduce(len(data), 1,
		func(lo, hi int) float64 { return prod4(data, lo, hi) },
		func(acc, v float64) float64 { return acc * v }, cfg), nil
}

func minAll(data []float64, _ kernel.Params, cfg parallel.Config) (float64, error) {
	if len(data) == 0 {
		return 0, fmt.Errorf("%w: %s of zero elements", tensor.ErrEmptyInput, kernel.OpMin)
	}
	return parallel.Reduce(len(data), math.Inf(1),
		func(lo, hi int) float64 { return min4(data, lo, hi) }, math.Min, cfg), nil
}

func maxAll(data []float64, _ kernel.Params, cfg parallel.Config) (float64, error) {
	if len(data) == 0 {
		return 0, fmt.Errorf("%w: %s of zero elements", tensor.ErrEmptyInput, kernel.OpMax)
	}
	return parallel.Reduce(len(data), math.Inf(-1),
		func(lo, hi int) float64 { return max4(data, lo, hi) }, math.Max, cfg), nil
}

// varAll uses a single serial Welford pass.
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
