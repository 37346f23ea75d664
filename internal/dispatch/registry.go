package dispatch

import (
	"slices"
	"sync"

	"github.com/born-ml/ndarray/internal/backend/baseline"
	"github.com/born-ml/ndarray/internal/backend/native"
	"github.com/born-ml/ndarray/internal/backend/vectorized"
	"github.com/born-ml/ndarray/internal/kernel"
)

type key struct {
	op   string
	tier Tier
}

// Registry maps (operation, tier) pairs to kernels. It is safe for
// concurrent use.
type Registry struct {
	mu      sync.RWMutex
	kernels map[key]kernel.Func
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{kernels: make(map[key]kernel.Func)}
}

// DefaultRegistry creates a registry holding every built-in kernel.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.registerAll(Baseline, baseline.Kernels())
	r.registerAll(Vectorized, vectorized.Kernels())
	r.registerAll(Native, native.Kernels())
	return r
}

func (r *Registry) registerAll(tier Tier, kernels map[string]kernel.Func) {
	for op, fn := range kernels {
		r.Register(op, tier, fn)
	}
}

// Register adds or replaces the kernel for op in tier.
func (r *Registry) Register(op string, tier Tier, fn kernel.Func) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.kernels[key{op, tier}] = fn
}

// Lookup returns the kernel for op in tier.
func (r *Registry) Lookup(op string, tier Tier) (kernel.Func, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.kernels[key{op, tier}]
	return fn, ok
}

// Supporting returns the tiers that implement op, in ascending order.
func (r *Registry) Supporting(op string) []Tier {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var tiers []Tier
	for _, t := range Tiers() {
		if _, ok := r.kernels[key{op, t}]; ok {
			tiers = append(tiers, t)
		}
	}
	return tiers
}

// Operations returns every registered operation name, sorted.
func (r *Registry) Operations() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[string]struct{})
	for k := range r.kernels {
		seen[k.op] = struct{}{}
	}
	ops := make([]string, 0, len(seen))
	for op := range seen {
		ops = append(ops, op)
	}
	slices.Sort(ops)
	return ops
}
