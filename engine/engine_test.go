// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package engine_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/ndarray/engine"
	"github.com/born-ml/ndarray/tensor"
)

func newEngine(t *testing.T) *engine.Engine {
	t.Helper()
	cfg := engine.DefaultConfig()
	cfg.Pool.Prewarm = nil
	e, err := engine.New(cfg)
	require.NoError(t, err)
	return e
}

func TestEngine_MatMul(t *testing.T) {
	e := newEngine(t)
	a, err := tensor.FromSlice(e.Allocator(), tensor.Shape{2, 3}, []float64{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)
	b, err := tensor.FromSlice(e.Allocator(), tensor.Shape{3, 2}, []float64{7, 8, 9, 10, 11, 12})
	require.NoError(t, err)

	for _, tier := range []engine.Tier{engine.Baseline, engine.Vectorized, engine.Native} {
		c, err := e.Invoke("matmul", tier, engine.DefaultParams(), a, b)
		require.NoError(t, err)
		assert.Equal(t, []float64{58, 64, 139, 154}, c.Float64s(), "tier %s", tier)
		require.NoError(t, c.Release())
	}

	require.NoError(t, a.Release())
	require.NoError(t, b.Release())
	stats := e.Stats()
	assert.Equal(t, 0, stats.BlocksInUse)
	assert.Greater(t, stats.PoolHits, uint64(0))
}

func TestEngine_GEMMAlpha(t *testing.T) {
	e := newEngine(t)
	a, err := tensor.FromSlice(e.Allocator(), tensor.Shape{2, 2}, []float64{1, 2, 3, 4})
	require.NoError(t, err)
	b, err := tensor.FromSlice(e.Allocator(), tensor.Shape{2, 2}, []float64{5, 6, 7, 8})
	require.NoError(t, err)

	for _, tier := range e.Supporting("gemm") {
		c, err := e.Invoke("gemm", tier, engine.DefaultParams(), a, b)
		require.NoError(t, err)
		assert.Equal(t, []float64{19, 22, 43, 50}, c.Float64s(), "tier %s", tier)
		require.NoError(t, c.Release())

		c, err = e.Invoke("gemm", tier, engine.Params{}, a, b)
		require.NoError(t, err)
		assert.Equal(t, []float64{0, 0, 0, 0}, c.Float64s(), "zero Alpha, tier %s", tier)
		require.NoError(t, c.Release())
	}
}

func TestEngine_AxisReduction(t *testing.T) {
	e := newEngine(t)
	x, err := tensor.FromSlice(e.Allocator(), tensor.Shape{2, 3}, []int64{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)

	p := engine.DefaultParams()
	p.Axis = engine.Axis(-1)
	p.KeepDims = true
	res, err := e.Invoke("max", engine.Native, p, x)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 1}, res.Shape())
	assert.Equal(t, tensor.Int64, res.DType())
	assert.Equal(t, []float64{3, 6}, res.Float64s())
}

func TestEngine_Unimplemented(t *testing.T) {
	e := newEngine(t)
	a, err := tensor.FromSlice(nil, tensor.Shape{2, 2}, []float64{1, 2, 3, 4})
	require.NoError(t, err)

	_, err = e.Invoke("det", engine.Vectorized, engine.DefaultParams(), a)
	assert.ErrorIs(t, err, tensor.ErrUnimplementedInTier)
	var unimpl *engine.UnimplementedError
	require.True(t, errors.As(err, &unimpl))
	assert.Equal(t, []engine.Tier{engine.Baseline}, unimpl.Supported)

	d, err := e.Invoke("det", engine.Baseline, engine.DefaultParams(), a)
	require.NoError(t, err)
	assert.InDelta(t, -2.0, d.Float64s()[0], 1e-12)
}

func TestEngine_Catalogue(t *testing.T) {
	e := newEngine(t)
	assert.Len(t, e.Operations(), 21)
	assert.Equal(t, []engine.Tier{engine.Baseline, engine.Native}, e.Supporting("transpose"))

	tier, err := engine.ParseTier("vectorized")
	require.NoError(t, err)
	assert.Equal(t, engine.Vectorized, tier)
}

func TestEngine_Clear(t *testing.T) {
	e := newEngine(t)
	a, err := tensor.Zeros(e.Allocator(), tensor.Shape{128}, tensor.Float64)
	require.NoError(t, err)
	require.NoError(t, a.Release())
	require.Equal(t, 1, e.Stats().TotalBlocks)

	e.Clear()
	assert.Equal(t, 0, e.Stats().TotalBlocks)
}
