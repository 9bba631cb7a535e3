package lineage

import (
	"runtime"
	"time"

	"go.uber.org/zap"
)

// Option configures lineage components.
type Option func(*Options)

// Options holds shared configuration for resolvers, walkers, and services.
type Options struct {
	// Walk flags
	NarrowingChecks bool

	// Performance
	WorkerCount   int
	EnablePooling bool

	// Resolution cache
	EnableCache bool
	CacheSize   int
	CacheTTL    time.Duration

	// Observability
	Logger  *zap.Logger
	Metrics *Metrics
}

// DefaultOptions returns the default configuration.
func DefaultOptions() *Options {
	return &Options{
		// Narrowing checks enabled by default
		NarrowingChecks: true,

		// Performance defaults
		WorkerCount:   runtime.NumCPU(),
		EnablePooling: true,

		// Cache defaults
		EnableCache: true,
		CacheSize:   256,
		CacheTTL:    0, // no expiry

		// Observability defaults
		Logger:  zap.NewNop(),
		Metrics: nil, // components create their own unless one is shared
	}
}

// NewOptions builds an Options from the defaults and the given options.
func NewOptions(opts ...Option) *Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// --- Walk Options ---

// WithNarrowingChecks enables or disables narrowing checks during walks.
// When disabled, every entity on the line is visited unconditionally.
func WithNarrowingChecks(enable bool) Option {
	return func(o *Options) {
		o.NarrowingChecks = enable
	}
}

// --- Performance Options ---

// WithWorkerCount sets the number of workers for batch resolution.
// Defaults to runtime.NumCPU().
func WithWorkerCount(count int) Option {
	return func(o *Options) {
		if count > 0 {
			o.WorkerCount = count
		}
	}
}

// WithPooling enables or disables object pooling.
// Pooling reduces GC pressure but requires calling Release() on reports.
func WithPooling(enable bool) Option {
	return func(o *Options) {
		o.EnablePooling = enable
	}
}

// --- Cache Options ---

// WithCache enables resolution caching with the given size.
func WithCache(size int) Option {
	return func(o *Options) {
		if size > 0 {
			o.EnableCache = true
			o.CacheSize = size
		}
	}
}

// WithoutCache disables resolution caching.
func WithoutCache() Option {
	return func(o *Options) {
		o.EnableCache = false
	}
}

// WithCacheTTL sets an expiry for cached resolutions.
// Use 0 to keep entries until size-based eviction.
func WithCacheTTL(ttl time.Duration) Option {
	return func(o *Options) {
		if ttl >= 0 {
			o.CacheTTL = ttl
		}
	}
}

// --- Observability Options ---

// WithLogger sets the structured logger. A nil logger is ignored.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Options) {
		if logger != nil {
			o.Logger = logger
		}
	}
}

// WithMetricsSink shares a Metrics instance across components.
func WithMetricsSink(m *Metrics) Option {
	return func(o *Options) {
		o.Metrics = m
	}
}

// --- Presets ---

// FastOptions returns options optimized for throughput.
// Disables narrowing checks and uses a larger cache.
func FastOptions() []Option {
	return []Option{
		WithNarrowingChecks(false),
		WithCache(1024),
		WithPooling(true),
	}
}

// DebugOptions returns options useful for debugging.
// Disables pooling, caching, and parallelism for easier debugging.
func DebugOptions() []Option {
	return []Option{
		WithPooling(false),
		WithoutCache(),
		WithWorkerCount(1),
	}
}

// MinimalOptions returns options with every optional feature off.
func MinimalOptions() []Option {
	return []Option{
		WithNarrowingChecks(false),
		WithPooling(false),
		WithoutCache(),
		WithWorkerCount(1),
	}
}
