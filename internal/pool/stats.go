package pool

// Stats is a point-in-time view of pool usage.
type Stats struct {
	TotalBlocks         int // Tracked blocks, free or in use.
	BlocksInUse         int // Tracked blocks currently lent out.
	UnpooledInUse       int // Live buffers allocated outside the pool.
	TotalAllocatedBytes int
	TotalInUseBytes     int
	Allocations         uint64 // Acquire calls.
	PoolHits            uint64
	PoolMisses          uint64
}

// HitRate returns hits / max(1, allocations).
func (s Stats) HitRate() float64 {
	return float64(s.PoolHits) / float64(max(1, s.Allocations))
}
