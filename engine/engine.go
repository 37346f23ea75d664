// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package engine

import (
	"log/slog"

	"github.com/born-ml/ndarray/internal/dispatch"
	"github.com/born-ml/ndarray/internal/kernel"
	"github.com/born-ml/ndarray/internal/parallel"
	"github.com/born-ml/ndarray/internal/pool"
	"github.com/born-ml/ndarray/tensor"
)

// Tier selects a kernel implementation family.
type Tier = dispatch.Tier

// Execution tiers.
const (
	Baseline   Tier = dispatch.Baseline
	Vectorized Tier = dispatch.Vectorized
	Native     Tier = dispatch.Native
)

// ParseTier converts "baseline", "vectorized" or "native" to a Tier.
func ParseTier(name string) (Tier, error) {
	return dispatch.ParseTier(name)
}

// Params carries operation flags: Axis, KeepDims, DDOF, Alpha and Beta.
// Build it with DefaultParams; a zero Params has Alpha = 0, so gemm
// scales A@B away.
type Params = kernel.Params

// DefaultParams returns params with Alpha = 1 and everything else zero.
func DefaultParams() Params {
	return kernel.DefaultParams()
}

// Axis returns a pointer suitable for Params.Axis.
func Axis(axis int) *int {
	return kernel.Axis(axis)
}

// UnimplementedError names the tiers that support an operation.
type UnimplementedError = dispatch.UnimplementedError

// Pool is the engine's memory pool.
type Pool = pool.Pool

// PoolConfig controls block sizing and pool capacity.
type PoolConfig = pool.Config

// ParallelConfig controls fan-out of the above-threshold kernel paths.
type ParallelConfig = parallel.Config

// Stats is a snapshot of pool usage.
type Stats = pool.Stats

// DefaultPoolConfig returns the default pool sizing.
func DefaultPoolConfig() PoolConfig {
	return pool.DefaultConfig()
}

// NewPool creates a standalone memory pool.
func NewPool(cfg PoolConfig) (*Pool, error) {
	return pool.New(cfg)
}

// Config configures an Engine.
type Config struct {
	Pool     PoolConfig
	Parallel ParallelConfig
	Logger   *slog.Logger // nil discards; shared with the pool unless Pool.Logger is set.
}

// DefaultConfig returns the default pool and parallel settings.
func DefaultConfig() Config {
	return Config{
		Pool:     pool.DefaultConfig(),
		Parallel: parallel.DefaultConfig(),
	}
}

// Engine evaluates named operations over arrays.
type Engine struct {
	pool       *pool.Pool
	dispatcher *dispatch.Dispatcher
}

// New creates an Engine with its own memory pool.
func New(cfg Config) (*Engine, error) {
	if cfg.Pool.Logger == nil {
		cfg.Pool.Logger = cfg.Logger
	}
	p, err := pool.New(cfg.Pool)
	if err != nil {
		return nil, err
	}
	return &Engine{
		pool: p,
		dispatcher: dispatch.New(p, dispatch.Config{
			Parallel: cfg.Parallel,
			Logger:   cfg.Logger,
		}),
	}, nil
}

// Invoke runs op in tier and returns an owning result array. The caller
// releases it.
func (e *Engine) Invoke(op string, tier Tier, p Params, operands ...*tensor.Array) (*tensor.Array, error) {
	return e.dispatcher.Invoke(op, tier, p, operands...)
}

// Supporting returns the tiers that implement op.
func (e *Engine) Supporting(op string) []Tier {
	return e.dispatcher.Registry().Supporting(op)
}

// Operations lists every operation name the engine knows.
func (e *Engine) Operations() []string {
	return e.dispatcher.Registry().Operations()
}

// Allocator returns the engine's pool for creating input arrays.
func (e *Engine) Allocator() tensor.Allocator {
	return e.pool
}

// Stats returns a snapshot of the engine's pool.
func (e *Engine) Stats() Stats {
	return e.pool.Stats()
}

// Clear frees every idle pooled block.
func (e *Engine) Clear() {
	e.pool.Clear()
}
