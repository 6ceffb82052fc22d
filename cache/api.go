package cache

import (
	"context"

	"github.com/IvanBrykalov/arccache/arc"
)

// Cache is a concurrency-safe ARC cache.
// All methods are safe for concurrent use by multiple goroutines.
//
// Get and Put are O(1): a map lookup plus constant-time re-linking
// under the owning shard's lock.
type Cache[K comparable, V any] interface {
	// Put inserts or updates k→v. A Put of a ghost key is a ghost hit:
	// it adapts the T1 target and lands the key in T2.
	Put(k K, v V)

	// Get returns the resident value for k. A hit promotes the entry to the
	// MRU end of T2. Ghost keys report a miss and are not promoted.
	Get(k K) (V, bool)

	// Peek returns the resident value for k without changing its position.
	Peek(k K) (V, bool)

	// Contains reports whether k is resident.
	Contains(k K) bool

	// Len returns the number of resident entries across all shards.
	Len() int

	// Keys returns every tracked key, resident or ghost, in no particular order.
	Keys() []K

	// Stats returns per-shard ARC state plus hit/miss counters.
	Stats() Stats

	// GetOrLoad returns the value for k, loading it via Options.Loader on miss.
	// Concurrent loads for the same key are coalesced (singleflight).
	// If no Loader was configured, returns ErrNoLoader.
	GetOrLoad(ctx context.Context, k K) (V, error)

	// Close marks the cache closed and closes the sink if it is an io.Closer.
	// After Close, Get and Peek miss, Contains reports false, Put is ignored
	// and GetOrLoad returns ErrClosed.
	Close() error
}

// Stats aggregates shard snapshots. The embedded arc.Stats is the sum over
// shards. P is the sum of the per-shard T1 targets; each shard adapts its own
// p independently, so use Shards[i].P for a shard's actual target.
type Stats struct {
	arc.Stats
	Hits   int64
	Misses int64
	Shards []arc.Stats
}
