// Package pool implements the memory pool that backs every Buffer handed to
// the kernels.
//
// Blocks are reused first-fit: a request takes the first free block large
// enough to hold it. The pool is bounded, so the linear scan stays short.
// Reused blocks are not zeroed.
package pool

import (
	"fmt"
	"sync"

	"github.com/eapache/queue"

	"github.com/born-ml/ndarray/internal/tensor"
)

// block is a pooled region of raw storage.
type block struct {
	data []byte
}

// Pool is a concurrency-safe cache of reusable storage blocks.
// Every mutating operation runs under one mutex.
type Pool struct {
	cfg Config

	mu   sync.Mutex
	free *queue.Queue // *block, scanned first-fit by rotation
	live map[*tensor.Buffer]*block

	blocks        int // tracked blocks, free or in use
	blockBytes    int
	inUseBlocks   int
	inUseBytes    int
	unpooled      int // live untracked buffers
	unpooledBytes int

	allocations uint64
	hits        uint64
	misses      uint64
}

var _ tensor.Allocator = (*Pool)(nil)

// New creates a pool and pre-warms it with cfg.Prewarm blocks.
func New(cfg Config) (*Pool, error) {
	cfg = cfg.withDefaults()
	p := &Pool{
		cfg:  cfg,
		free: queue.New(),
		live: make(map[*tensor.Buffer]*block),
	}

	for _, size := range cfg.Prewarm {
		if p.blocks >= cfg.MaxBlocks {
			break
		}
		capacity := p.blockCapacity(size)
		if err := p.checkLimit(capacity); err != nil {
			return nil, fmt.Errorf("pool: prewarm: %w", err)
		}
		data, err := tensor.AllocBytes(capacity)
		if err != nil {
			return nil, fmt.Errorf("pool: prewarm: %w", err)
		}
		p.free.Add(&block{data: data})
		p.blocks++
		p.blockBytes += capacity
	}

	cfg.Logger.Debug("pool ready", "blocks", p.blocks, "bytes", p.blockBytes)
	return p, nil
}

// Acquire returns an in-use Buffer of n elements of dtype.
// The contents of a reused block are whatever the last user left there.
func (p *Pool) Acquire(dtype tensor.DataType, n int) (*tensor.Buffer, error) {
	size, err := tensor.ByteSize(dtype, n)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.allocations++

	if size == 0 {
		p.misses++
		return p.lendUnpooled(dtype, n, nil)
	}

	if blk := p.takeFree(size); blk != nil {
		p.hits++
		return p.lend(blk, dtype, n)
	}
	p.misses++

	if p.blocks < p.cfg.MaxBlocks {
		capacity := p.blockCapacity(size)
		if err := p.checkLimit(capacity); err != nil {
			return nil, err
		}
		data, err := tensor.AllocBytes(capacity)
		if err != nil {
			return nil, err
		}
		p.blocks++
		p.blockBytes += capacity
		p.cfg.Logger.Debug("pool grow", "request", size, "block", capacity, "blocks", p.blocks)
		return p.lend(&block{data: data}, dtype, n)
	}

	if err := p.checkLimit(size); err != nil {
		return nil, err
	}
	data, err := tensor.AllocBytes(size)
	if err != nil {
		return nil, err
	}
	p.cfg.Logger.Debug("pool full, unpooled allocation", "request", size, "blocks", p.blocks)
	return p.lendUnpooled(dtype, n, data)
}

// Release marks a pooled buffer's block free again, or frees an unpooled
// buffer outright. Releasing twice fails with ErrReleased.
func (p *Pool) Release(b *tensor.Buffer) error {
	if b == nil {
		return fmt.Errorf("pool: release of nil buffer")
	}
	if b.Allocator() != tensor.Allocator(p) {
		return fmt.Errorf("pool: buffer belongs to a different allocator")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	blk, ok := p.live[b]
	if !ok {
		return fmt.Errorf("pool: buffer %w", tensor.ErrReleased)
	}
	delete(p.live, b)

	if blk == nil {
		p.unpooled--
		p.unpooledBytes -= b.ByteSize()
		return nil
	}

	p.inUseBlocks--
	p.inUseBytes -= len(blk.data)
	p.free.Add(blk)
	return nil
}

// Clear evicts every free block. In-use blocks stay tracked and return to
// the free list when released.
func (p *Pool) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()

	evicted := 0
	for p.free.Length() > 0 {
		blk := p.free.Remove().(*block)
		p.blocks--
		p.blockBytes -= len(blk.data)
		evicted++
	}
	p.cfg.Logger.Debug("pool cleared", "evicted", evicted, "in_use", p.inUseBlocks)
}

// Stats returns a snapshot of the pool counters.
func (p *Pool) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()

	return Stats{
		TotalBlocks:         p.blocks,
		BlocksInUse:         p.inUseBlocks,
		UnpooledInUse:       p.unpooled,
		TotalAllocatedBytes: p.blockBytes + p.unpooledBytes,
		TotalInUseBytes:     p.inUseBytes + p.unpooledBytes,
		Allocations:         p.allocations,
		PoolHits:            p.hits,
		PoolMisses:          p.misses,
	}
}

// takeFree removes and returns the first free block holding at least size
// bytes. Blocks that do not fit rotate to the back of the queue.
// Must be called with p.mu held.
func (p *Pool) takeFree(size int) *block {
	for i, n := 0, p.free.Length(); i < n; i++ {
		blk := p.free.Remove().(*block)
		if len(blk.data) >= size {
			return blk
		}
		p.free.Add(blk)
	}
	return nil
}

// blockCapacity doubles from MinBlockSize until size fits, capped at
// MaxBlockSize. Requests above MaxBlockSize get exactly size bytes.
func (p *Pool) blockCapacity(size int) int {
	if size > p.cfg.MaxBlockSize {
		return size
	}
	c := p.cfg.MinBlockSize
	for c < size {
		c *= 2
	}
	return min(c, p.cfg.MaxBlockSize)
}

// checkLimit fails when adding extra bytes would exceed MaxBytes.
// Must be called with p.mu held.
func (p *Pool) checkLimit(extra int) error {
	if p.cfg.MaxBytes <= 0 {
		return nil
	}
	if live := p.blockBytes + p.unpooledBytes; live+extra > p.cfg.MaxBytes {
		return fmt.Errorf("%w: %d bytes requested, %d of %d bytes live",
			tensor.ErrAllocationFailed, extra, live, p.cfg.MaxBytes)
	}
	return nil
}

// Must be called with p.mu held.
func (p *Pool) lend(blk *block, dtype tensor.DataType, n int) (*tensor.Buffer, error) {
	buf, err := tensor.NewBuffer(dtype, n, blk.data, p)
	if err != nil {
		p.free.Add(blk)
		return nil, err
	}
	p.live[buf] = blk
	p.inUseBlocks++
	p.inUseBytes += len(blk.data)
	return buf, nil
}

// Must be called with p.mu held.
func (p *Pool) lendUnpooled(dtype tensor.DataType, n int, data []byte) (*tensor.Buffer, error) {
	buf, err := tensor.NewBuffer(dtype, n, data, p)
	if err != nil {
		return nil, err
	}
	p.live[buf] = nil
	p.unpooled++
	p.unpooledBytes += len(data)
	return buf, nil
}
