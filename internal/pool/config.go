package pool

import "log/slog"

// Config controls block sizing and pool capacity.
type Config struct {
	MinBlockSize int   // Smallest pooled block in bytes; growth doubles from here.
	MaxBlockSize int   // Largest doubled block; larger requests get their exact size.
	MaxBlocks    int   // Tracked block count cap; past it acquisitions are unpooled. 0 = default, negative = never pool.
	MaxBytes     int   // Hard limit on live bytes (pooled + unpooled). 0 = unlimited.
	Prewarm      []int // Block sizes in bytes allocated free at construction.

	Logger *slog.Logger // nil discards.
}

// DefaultConfig returns sizes tuned for small-to-medium numeric arrays.
func DefaultConfig() Config {
	return Config{
		MinBlockSize: 256,
		MaxBlockSize: 16 << 20,
		MaxBlocks:    64,
		Prewarm:      []int{1 << 10, 8 << 10, 64 << 10},
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.MinBlockSize <= 0 {
		c.MinBlockSize = def.MinBlockSize
	}
	if c.MaxBlockSize < c.MinBlockSize {
		c.MaxBlockSize = max(def.MaxBlockSize, c.MinBlockSize)
	}
	switch {
	case c.MaxBlocks == 0:
		c.MaxBlocks = def.MaxBlocks
	case c.MaxBlocks < 0:
		c.MaxBlocks = 0
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.DiscardHandler)
	}
	return c
}
