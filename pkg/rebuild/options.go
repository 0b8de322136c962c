package rebuild

import (
	"runtime"

	"github.com/eunmann/iffc/pkg/bitmap"
)

// Options controls concurrency and memory settings of a rebuild.
type Options struct {
	// Workers is the number of sprites encoded in parallel.
	// Default: runtime.NumCPU()
	Workers int

	// CacheSize is the number of decoded channel bitmaps kept in memory.
	// Palettes and sprites read the same color channels, so the cache should
	// hold at least one bitmap per palette. Default: bitmap.DefaultCacheSize
	CacheSize int
}

// DefaultOptions returns sensible default rebuild options.
func DefaultOptions() Options {
	return Options{
		Workers:   runtime.NumCPU(),
		CacheSize: bitmap.DefaultCacheSize,
	}
}

// Validate sets defaults for zero or negative values.
func (o *Options) Validate() {
	if o.Workers <= 0 {
		o.Workers = DefaultOptions().Workers
	}
	if o.CacheSize <= 0 {
		o.CacheSize = DefaultOptions().CacheSize
	}
}

// WithWorkers sets the number of sprite workers.
func (o Options) WithWorkers(n int) Options {
	o.Workers = n
	return o
}

// WithCacheSize sets the bitmap cache size.
func (o Options) WithCacheSize(n int) Options {
	o.CacheSize = n
	return o
}
