package native

import (
	"math"
	"math/rand/v2"
	"runtime"
	"sync/atomic"
	"testing"

	vecmathcpu "github.com/cwbudde/algo-vecmath/cpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/ndarray/internal/backend/baseline"
	"github.com/born-ml/ndarray/internal/kernel"
	"github.com/born-ml/ndarray/internal/parallel"
	"github.com/born-ml/ndarray/internal/pool"
	"github.com/born-ml/ndarray/internal/tensor"
)

func operand(t testing.TB, shape tensor.Shape, vals []float64) kernel.Operand {
	t.Helper()
	buf, err := tensor.Allocate(tensor.Float64, shape.NumElements())
	require.NoError(t, err)
	copy(buf.AsFloat64(), vals)
	return kernel.Operand{Buffer: buf, Shape: shape}
}

func random(n int, seed uint64) []float64 {
	r := rand.New(rand.NewPCG(seed, 7))
	out := make([]float64, n)
	for i := range out {
		out[i] = r.Float64()*4 - 2
	}
	return out
}

func parallelContext() *kernel.Context {
	cfg := parallel.DefaultConfig()
	cfg.Enabled = true
	cfg.NumWorkers = 4
	return &kernel.Context{Parallel: cfg}
}

func TestSIMDLevel(t *testing.T) {
	assert.Contains(t, []string{"avx2", "avx", "sse2", "neon", "generic"}, SIMDLevel())

	defer vecmathcpu.ResetDetection()
	vecmathcpu.SetForcedFeatures(vecmathcpu.Features{ForceGeneric: true, HasAVX2: true})
	assert.Equal(t, "generic", SIMDLevel())
}

func TestElementwise_BitwiseParity(t *testing.T) {
	for _, ctx := range []*kernel.Context{{}, parallelContext()} {
		for _, n := range []int{0, 1, 5, 64, 3001} {
			a := operand(t, tensor.Shape{n}, random(n, 1))
			b := operand(t, tensor.Shape{n}, random(n, 2))
			s := operand(t, tensor.Shape{1}, []float64{-1.25})

			for op, fn := range map[string]kernel.Func{
				kernel.OpAdd:      Add,
				kernel.OpSubtract: Subtract,
				kernel.OpMultiply: Multiply,
				kernel.OpDivide:   Divide,
			} {
				for _, in := range [][]kernel.Operand{{a, b}, {a, s}, {s, b}} {
					want, err := baseline.Kernels()[op](ctx, in, kernel.DefaultParams())
					require.NoError(t, err)
					got, err := fn(ctx, in, kernel.DefaultParams())
					require.NoError(t, err)
					assert.Equal(t, want.Shape, got.Shape, "%s n=%d", op, n)
					assert.Equal(t, want.Buffer.AsFloat64(), got.Buffer.AsFloat64(), "%s n=%d", op, n)
				}
			}
		}
	}
}

func TestElementwise_ForcedGeneric(t *testing.T) {
	defer vecmathcpu.ResetDetection()
	vecmathcpu.SetForcedFeatures(vecmathcpu.Features{ForceGeneric: true})

	a := operand(t, tensor.Shape{9}, random(9, 3))
	b := operand(t, tensor.Shape{9}, random(9, 4))
	want, err := baseline.Add(nil, []kernel.Operand{a, b}, kernel.DefaultParams())
	require.NoError(t, err)
	got, err := Add(nil, []kernel.Operand{a, b}, kernel.DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, want.Buffer.AsFloat64(), got.Buffer.AsFloat64())
}

func TestDivide_ByZero(t *testing.T) {
	a := operand(t, tensor.Shape{3}, []float64{4, -4, 0})
	zeros := operand(t, tensor.Shape{3}, []float64{0, 0, 0})
	zero := operand(t, tensor.Shape{}, []float64{0})

	for _, in := range [][]kernel.Operand{{a, zeros}, {a, zero}} {
		res, err := Divide(nil, in, kernel.DefaultParams())
		require.NoError(t, err)
		got := res.Buffer.AsFloat64()
		assert.True(t, math.IsInf(got[0], 1))
		assert.True(t, math.IsInf(got[1], -1))
		assert.True(t, math.IsNaN(got[2]))
	}
}

func TestReductions_MatchBaseline(t *testing.T) {
	for _, ctx := range []*kernel.Context{{}, parallelContext()} {
		for _, n := range []int{1, 9, 1000, 5003} {
			x := operand(t, tensor.Shape{n}, random(n, uint64(n)))
			for op, fn := range map[string]kernel.Func{
				kernel.OpSum:  Sum,
				kernel.OpMean: Mean,
				kernel.OpMin:  Min,
				kernel.OpMax:  Max,
				kernel.OpVar:  Var,
				kernel.OpStd:  Std,
			} {
				want, err := baseline.Kernels()[op](ctx, []kernel.Operand{x}, kernel.DefaultParams())
				require.NoError(t, err)
				got, err := fn(ctx, []kernel.Operand{x}, kernel.DefaultParams())
				require.NoError(t, err)
				assert.InDelta(t, want.Buffer.AsFloat64()[0], got.Buffer.AsFloat64()[0], 1e-9, "%s n=%d", op, n)
			}
		}
	}
}

func TestReductions_EmptyAndAxis(t *testing.T) {
	empty := operand(t, tensor.Shape{0}, nil)
	_, err := Min(nil, []kernel.Operand{empty}, kernel.DefaultParams())
	assert.ErrorIs(t, err, tensor.ErrEmptyInput)
	_, err = Max(nil, []kernel.Operand{empty}, kernel.DefaultParams())
	assert.ErrorIs(t, err, tensor.ErrEmptyInput)

	x := operand(t, tensor.Shape{2, 2}, []float64{1, 2, 3, 4})
	p := kernel.DefaultParams()
	p.Axis = kernel.Axis(0)
	res, err := Prod(nil, []kernel.Operand{x}, p)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 8}, res.Buffer.AsFloat64())
}

func TestMatMul(t *testing.T) {
	a := operand(t, tensor.Shape{2, 3}, []float64{1, 2, 3, 4, 5, 6})
	b := operand(t, tensor.Shape{3, 2}, []float64{7, 8, 9, 10, 11, 12})

	res, err := MatMul(nil, []kernel.Operand{a, b}, kernel.DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 2}, res.Shape)
	assert.Equal(t, []float64{58, 64, 139, 154}, res.Buffer.AsFloat64())
}

func TestMatMul_BlockedMatchesBaseline(t *testing.T) {
	// Non-multiples of the tile edge exercise the ragged edge tiles.
	const m, k, n = 130, 70, 95
	a := operand(t, tensor.Shape{m, k}, random(m*k, 5))
	b := operand(t, tensor.Shape{k, n}, random(k*n, 6))

	want, err := baseline.MatMul(nil, []kernel.Operand{a, b}, kernel.DefaultParams())
	require.NoError(t, err)
	for _, ctx := range []*kernel.Context{{}, parallelContext()} {
		got, err := MatMul(ctx, []kernel.Operand{a, b}, kernel.DefaultParams())
		require.NoError(t, err)
		assert.InDeltaSlice(t, want.Buffer.AsFloat64(), got.Buffer.AsFloat64(), 1e-9)
	}
}

// peakGoroutines runs f while sampling runtime.NumGoroutine and returns the
// largest count seen, excluding the sampler itself.
func peakGoroutines(f func()) (before, peak int) {
	before = runtime.NumGoroutine()
	var (
		maxSeen atomic.Int64
		stop    atomic.Bool
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for !stop.Load() {
			if n := int64(runtime.NumGoroutine() - 1); n > maxSeen.Load() {
				maxSeen.Store(n)
			}
			runtime.Gosched()
		}
	}()
	f()
	stop.Store(true)
	<-done
	return before, int(maxSeen.Load())
}

func TestMatrixKernels_RunOnCaller(t *testing.T) {
	const n = 256
	a := operand(t, tensor.Shape{n, n}, random(n*n, 13))
	b := operand(t, tensor.Shape{n, n}, random(n*n, 14))
	c := operand(t, tensor.Shape{n, n}, random(n*n, 15))
	v := operand(t, tensor.Shape{n}, random(n, 16))

	p := kernel.DefaultParams()
	p.Beta = 0.5
	ctx := parallelContext()

	calls := map[string]func() (kernel.Result, error){
		kernel.OpMatMul: func() (kernel.Result, error) { return MatMul(ctx, []kernel.Operand{a, b}, p) },
		kernel.OpGEMM:   func() (kernel.Result, error) { return GEMM(ctx, []kernel.Operand{a, b, c}, p) },
		kernel.OpDot:    func() (kernel.Result, error) { return Dot(ctx, []kernel.Operand{a, v}, p) },
	}
	for op, call := range calls {
		var err error
		before, peak := peakGoroutines(func() {
			for i := 0; i < 3 && err == nil; i++ {
				_, err = call()
			}
		})
		require.NoError(t, err, op)
		assert.LessOrEqual(t, peak, before, "%s started worker goroutines", op)
	}

	want, err := baseline.GEMM(nil, []kernel.Operand{a, b, c}, p)
	require.NoError(t, err)
	got, err := calls[kernel.OpGEMM]()
	require.NoError(t, err)
	assert.Equal(t, want.Buffer.AsFloat64(), got.Buffer.AsFloat64())
}

func TestMatMul_PooledOutputIsZeroed(t *testing.T) {
	cfg := pool.DefaultConfig()
	cfg.Prewarm = nil
	p, err := pool.New(cfg)
	require.NoError(t, err)
	ctx := &kernel.Context{Alloc: p}

	const n = 40
	dirty, err := p.Acquire(tensor.Float64, n*n)
	require.NoError(t, err)
	for i := range dirty.AsFloat64() {
		dirty.AsFloat64()[i] = 1e9
	}
	require.NoError(t, dirty.Release())

	a := operand(t, tensor.Shape{n, n}, random(n*n, 8))
	ident := make([]float64, n*n)
	for i := 0; i < n; i++ {
		ident[i*n+i] = 1
	}
	b := operand(t, tensor.Shape{n, n}, ident)

	res, err := MatMul(ctx, []kernel.Operand{a, b}, kernel.DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, a.Buffer.AsFloat64(), res.Buffer.AsFloat64())
}

func TestGEMM(t *testing.T) {
	a := operand(t, tensor.Shape{2, 2}, []float64{1, 2, 3, 4})
	b := operand(t, tensor.Shape{2, 2}, []float64{5, 6, 7, 8})
	c := operand(t, tensor.Shape{2, 2}, []float64{1, 1, 1, 1})

	p := kernel.DefaultParams()
	p.Alpha = 2
	p.Beta = 3
	in := []kernel.Operand{a, b, c}
	want, err := baseline.GEMM(nil, in, p)
	require.NoError(t, err)
	got, err := GEMM(nil, in, p)
	require.NoError(t, err)
	assert.Equal(t, []float64{41, 47, 89, 103}, got.Buffer.AsFloat64())
	assert.Equal(t, want.Buffer.AsFloat64(), got.Buffer.AsFloat64())

	got, err = GEMM(nil, in[:2], kernel.DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, []float64{19, 22, 43, 50}, got.Buffer.AsFloat64())
}

func TestDot(t *testing.T) {
	v := operand(t, tensor.Shape{10}, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})
	res, err := Dot(nil, []kernel.Operand{v, v}, kernel.DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, []float64{385}, res.Buffer.AsFloat64())

	m := operand(t, tensor.Shape{2, 3}, []float64{1, 2, 3, 4, 5, 6})
	u := operand(t, tensor.Shape{3}, []float64{1, 0, -1})
	res, err = Dot(nil, []kernel.Operand{m, u}, kernel.DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, []float64{-2, -2}, res.Buffer.AsFloat64())

	_, err = Dot(nil, []kernel.Operand{u, operand(t, tensor.Shape{4}, []float64{1, 2, 3, 4})}, kernel.DefaultParams())
	assert.ErrorIs(t, err, tensor.ErrShapeMismatch)
}

func TestTranspose(t *testing.T) {
	const rows, cols = 37, 70
	data := random(rows*cols, 9)
	x := operand(t, tensor.Shape{rows, cols}, data)

	res, err := Transpose(nil, []kernel.Operand{x}, kernel.DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{cols, rows}, res.Shape)
	want, err := baseline.Transpose(nil, []kernel.Operand{x}, kernel.DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, want.Buffer.AsFloat64(), res.Buffer.AsFloat64())

	cube := operand(t, tensor.Shape{2, 3, 4}, random(24, 10))
	res, err = Transpose(nil, []kernel.Operand{cube}, kernel.DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{4, 3, 2}, res.Shape)
}

func TestKernels_LinearAlgebraNotRegistered(t *testing.T) {
	k := Kernels()
	for _, op := range []string{kernel.OpSolve, kernel.OpInv, kernel.OpDet, kernel.OpMod} {
		assert.NotContains(t, k, op)
	}
}

func benchmarkMatMul(b *testing.B, n int, fn kernel.Func) {
	x := operand(b, tensor.Shape{n, n}, random(n*n, 11))
	y := operand(b, tensor.Shape{n, n}, random(n*n, 12))
	in := []kernel.Operand{x, y}
	ctx := parallelContext()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		res, _ := fn(ctx, in, kernel.DefaultParams())
		_ = res.Buffer.Release()
	}
}

func BenchmarkMatMul_Native_256(b *testing.B)   { benchmarkMatMul(b, 256, MatMul) }
func BenchmarkMatMul_Baseline_256(b *testing.B) { benchmarkMatMul(b, 256, baseline.MatMul) }
