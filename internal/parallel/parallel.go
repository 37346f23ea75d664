// Package parallel provides the worker fan-out used by the above-threshold
// kernel paths.
package parallel

import (
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/cpu"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Number of worker goroutines to use.
	MinChunkSize int  // Minimum items per goroutine to avoid overhead.
	Threshold    int  // Inputs smaller than this run serially.
}

// DefaultConfig returns sensible defaults based on CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 64, // Typical cache line aware chunk.
		Threshold:    1000,
	}
}

// Serial returns a config that never fans out.
func Serial() Config {
	return Config{NumWorkers: 1, MinChunkSize: 1}
}

// Parallel reports whether an input of n items should fan out.
func (c Config) Parallel(n int) bool {
	return c.Enabled && c.NumWorkers > 1 && n >= c.Threshold && n >= 2*c.minChunk()
}

func (c Config) minChunk() int {
	return max(c.MinChunkSize, 1)
}

func (c Config) chunkSize(n int) int {
	workers := max(c.NumWorkers, 1)
	return max((n+workers-1)/workers, c.minChunk())
}

// ForRange splits [0, n) into contiguous chunks and runs f on each.
// Chunks are disjoint, so f may write to its own output range without locking.
func ForRange(n int, f func(lo, hi int), cfg Config) {
	if !cfg.Parallel(n) {
		f(0, n)
		return
	}

	var wg sync.WaitGroup
	chunkSize := cfg.chunkSize(n)

	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			f(s, e)
		}(start, end)
	}
	wg.Wait()
}

// partial is a per-worker accumulator padded to its own cache line.
type partial struct {
	value float64
	_     cpu.CacheLinePad
}

// Reduce computes chunk over disjoint ranges of [0, n) and folds the results
// with combine, starting from identity. Workers only write their own partial;
// the fold runs on the calling goroutine after all workers finish.
//
// The fold order differs from a serial pass, so floating-point results may
// differ in the last bits.
func Reduce(n int, identity float64, chunk func(lo, hi int) float64, combine func(acc, v float64) float64, cfg Config) float64 {
	if !cfg.Parallel(n) {
		return combine(identity, chunk(0, n))
	}

	chunkSize := cfg.chunkSize(n)
	parts := make([]partial, (n+chunkSize-1)/chunkSize)

	var g errgroup.Group
	g.SetLimit(max(cfg.NumWorkers, 1))
	for i := range parts {
		lo := i * chunkSize
		hi := min(lo+chunkSize, n)
		g.Go(func() error {
			parts[i].value = chunk(lo, hi)
			return nil
		})
	}
	_ = g.Wait() // chunk funcs never fail

	acc := identity
	for i := range parts {
		acc = combine(acc, parts[i].value)
	}
	return acc
}
