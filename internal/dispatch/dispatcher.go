// Package dispatch routes operation requests to the kernel registered for
// the requested tier.
//
// Every request is validated before any memory is acquired: an invalid
// call leaves the pool exactly as it found it.
package dispatch

import (
	"fmt"
	"log/slog"

	"github.com/born-ml/ndarray/internal/backend/native"
	"github.com/born-ml/ndarray/internal/kernel"
	"github.com/born-ml/ndarray/internal/parallel"
	"github.com/born-ml/ndarray/internal/pool"
	"github.com/born-ml/ndarray/internal/tensor"
)

// Config controls a Dispatcher.
type Config struct {
	Parallel parallel.Config // Fan-out for the above-threshold kernel paths.
	Logger   *slog.Logger    // nil discards.
	Registry *Registry       // nil uses DefaultRegistry.
}

// DefaultConfig returns the built-in registry with default parallelism.
func DefaultConfig() Config {
	return Config{Parallel: parallel.DefaultConfig()}
}

// Dispatcher validates requests and invokes kernels. It is safe for
// concurrent use when its allocator is.
type Dispatcher struct {
	alloc    tensor.Allocator
	registry *Registry
	ctx      *kernel.Context
	logger   *slog.Logger
}

// New creates a Dispatcher drawing buffers from alloc. A nil alloc
// allocates every buffer directly.
func New(alloc tensor.Allocator, cfg Config) *Dispatcher {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Registry == nil {
		cfg.Registry = DefaultRegistry()
	}
	d := &Dispatcher{
		alloc:    alloc,
		registry: cfg.Registry,
		ctx:      &kernel.Context{Alloc: alloc, Parallel: cfg.Parallel},
		logger:   cfg.Logger,
	}
	d.logger.Debug("dispatcher ready",
		"operations", len(d.registry.Operations()),
		"simd", native.SIMDLevel(),
		"parallel", cfg.Parallel.Enabled,
		"workers", cfg.Parallel.NumWorkers)
	return d
}

// Registry returns the registry the dispatcher resolves kernels from.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// InvokeRaw runs op in tier over raw operands and returns the kernel result.
// The caller owns the result buffer.
func (d *Dispatcher) InvokeRaw(op string, tier Tier, in []kernel.Operand, p kernel.Params) (kernel.Result, error) {
	fn, err := d.resolve(op, tier)
	if err != nil {
		return kernel.Result{}, err
	}
	if err := Validate(op, in, p); err != nil {
		return kernel.Result{}, err
	}
	return fn(d.ctx, in, p)
}

// Invoke runs op in tier over arrays and returns an owning result array.
func (d *Dispatcher) Invoke(op string, tier Tier, p kernel.Params, operands ...*tensor.Array) (*tensor.Array, error) {
	in := make([]kernel.Operand, len(operands))
	for i, a := range operands {
		if a == nil {
			return nil, fmt.Errorf("%w: %s operand %d is nil", tensor.ErrShapeMismatch, op, i)
		}
		buf, shape, err := a.Export()
		if err != nil {
			return nil, fmt.Errorf("%s operand %d: %w", op, i, err)
		}
		in[i] = kernel.Operand{Buffer: buf, Shape: shape}
	}

	res, err := d.InvokeRaw(op, tier, in, p)
	if err != nil {
		return nil, err
	}
	out, err := tensor.Wrap(res.Buffer, res.Shape)
	if err != nil {
		_ = res.Buffer.Release()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func (d *Dispatcher) resolve(op string, tier Tier) (kernel.Func, error) {
	if tier.Valid() {
		if fn, ok := d.registry.Lookup(op, tier); ok {
			return fn, nil
		}
	}
	supported := d.registry.Supporting(op)
	if len(supported) == 0 {
		return nil, fmt.Errorf("%w: %q", tensor.ErrUnknownOperation, op)
	}
	d.logger.Debug("operation not in tier", "op", op, "tier", tier.String())
	return nil, &UnimplementedError{Op: op, Tier: tier, Supported: supported}
}

// Stats reports the allocator's usage when it is a pool.
func (d *Dispatcher) Stats() (pool.Stats, bool) {
	p, ok := d.alloc.(*pool.Pool)
	if !ok {
		return pool.Stats{}, false
	}
	return p.Stats(), true
}
