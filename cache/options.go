package cache

import (
	"context"
	"log/slog"

	"github.com/IvanBrykalov/arccache/arc"
)

// Metrics exposes cache-level observability hooks.
// A NoopMetrics implementation is provided and used by default.
type Metrics interface {
	// Hit and Miss count Get/GetOrLoad lookups.
	Hit()
	Miss()
	// Access reports how a Put was classified (miss, resident or ghost hit).
	Access(o arc.Outcome)
	// Evict counts values handed to the sink.
	Evict(reason arc.EvictReason)
	// SinkError counts sink failures.
	SinkError()
	// Size reports a shard's list sizes and target after each Put.
	Size(shard int, s arc.Stats)
}

// Options configures the cache. Zero values are safe;
// defaults are applied in New():
//   - Shards == 0  => 1 (a single ARC over the whole key space)
//   - Shards < 0   => auto (≈ 2*GOMAXPROCS, power of two)
//   - nil Sink     => evicted values are dropped
//   - nil Logger   => slog.Default()
//   - nil Metrics  => NoopMetrics
type Options[K comparable, V any] struct {
	// Capacity is the maximum number of resident entries. Required, >= 1.
	Capacity int

	// Shards is the number of independent engines. Values > 1 are rounded up
	// to a power of two and split Capacity exactly (shard sizes differ by at
	// most one); each shard keeps at least one slot.
	Shards int

	// Hash maps keys to shards. nil => FNV-1a over common key types.
	// Only consulted when there is more than one shard.
	Hash func(K) uint64

	// Sink receives every value that leaves the resident lists.
	// It runs under the shard lock; keep it lightweight or wrap it in sink.Async.
	Sink arc.Sink[K, V]

	// Loader fetches a value on cache miss. Used by GetOrLoad.
	Loader func(ctx context.Context, k K) (V, error)

	// Logger receives sink failures and load diagnostics.
	Logger *slog.Logger

	// Metrics receives hit/miss/eviction signals.
	Metrics Metrics
}
