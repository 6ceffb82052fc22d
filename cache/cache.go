package cache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/IvanBrykalov/arccache/arc"
	"github.com/IvanBrykalov/arccache/internal/singleflight"
	"github.com/IvanBrykalov/arccache/internal/util"
)

var (
	// ErrNoLoader is returned by GetOrLoad when no Loader was configured in Options.
	ErrNoLoader = errors.New("cache: no Loader provided")
	// ErrClosed is returned by GetOrLoad after Close.
	ErrClosed = errors.New("cache: closed")
)

// cache routes keys to shards, each owning one ARC engine.
// All methods are safe for concurrent use by multiple goroutines.
type cache[K comparable, V any] struct {
	shards []*shard[K, V]
	hash   func(K) uint64
	closed atomic.Bool

	opt Options[K, V]

	// singleflight group for coalescing concurrent loads in GetOrLoad.
	sf singleflight.Group[K, V]
}

// New constructs a cache with the provided Options.
// Defaults:
//   - nil Metrics  -> NoopMetrics
//   - nil Logger   -> slog.Default()
//   - Shards == 0  -> 1; Shards < 0 -> auto; otherwise rounded up to a power of two
func New[K comparable, V any](opt Options[K, V]) (Cache[K, V], error) {
	if opt.Capacity < arc.MinimumCapacity {
		return nil, fmt.Errorf("cache: %w: capacity %d", arc.ErrInvalidCapacity, opt.Capacity)
	}
	if opt.Metrics == nil {
		opt.Metrics = NoopMetrics{}
	}
	if opt.Logger == nil {
		opt.Logger = slog.Default()
	}
	if opt.Hash == nil {
		opt.Hash = util.Fnv64a[K]
	}

	n := shardCount(opt.Shards, opt.Capacity)
	c := &cache[K, V]{
		shards: make([]*shard[K, V], n),
		hash:   opt.Hash,
		opt:    opt,
	}
	// The first Capacity%n shards take one extra slot so the total is exact.
	base, extra := opt.Capacity/n, opt.Capacity%n
	for i := range c.shards {
		shardCap := base
		if i < extra {
			shardCap++
		}
		s, err := newShard[K, V](i, shardCap, &c.closed, opt)
		if err != nil {
			return nil, err
		}
		c.shards[i] = s
	}
	return c, nil
}

// shardCount resolves Options.Shards to a power of two no larger than capacity's
// power-of-two floor, so every shard holds at least one entry.
func shardCount(requested, capacity int) int {
	n := requested
	switch {
	case n == 0:
		return 1
	case n < 0:
		n = util.ReasonableShardCount()
	default:
		n = int(util.NextPow2(uint64(n)))
	}
	for n > 1 && n > capacity {
		n >>= 1
	}
	return n
}

// ---- Cache[K,V] implementation ----

// Put inserts or updates k→v in the owning shard.
func (c *cache[K, V]) Put(k K, v V) {
	if c.closed.Load() {
		return
	}
	c.getShard(k).Put(k, v)
}

// Get returns the resident value for k and a presence flag.
func (c *cache[K, V]) Get(k K) (V, bool) {
	if c.closed.Load() {
		var zero V
		return zero, false
	}
	return c.getShard(k).Get(k)
}

// Peek returns the resident value for k without promotion.
func (c *cache[K, V]) Peek(k K) (V, bool) {
	if c.closed.Load() {
		var zero V
		return zero, false
	}
	return c.getShard(k).Peek(k)
}

// Contains reports whether k is resident.
func (c *cache[K, V]) Contains(k K) bool {
	if c.closed.Load() {
		return false
	}
	return c.getShard(k).Contains(k)
}

// Len returns the total number of resident entries across all shards.
func (c *cache[K, V]) Len() int {
	total := 0
	for _, s := range c.shards {
		total += s.Len()
	}
	return total
}

// Keys returns every tracked key across shards.
func (c *cache[K, V]) Keys() []K {
	var keys []K
	for _, s := range c.shards {
		keys = s.appendKeys(keys)
	}
	return keys
}

// Stats sums shard snapshots and hit/miss counters.
func (c *cache[K, V]) Stats() Stats {
	var st Stats
	st.Shards = make([]arc.Stats, len(c.shards))
	for i, s := range c.shards {
		ss := s.Stats()
		st.Shards[i] = ss
		st.Capacity += ss.Capacity
		st.P += ss.P
		st.T1 += ss.T1
		st.T2 += ss.T2
		st.B1 += ss.B1
		st.B2 += ss.B2
		st.Demotions += ss.Demotions
		st.Discards += ss.Discards
		st.GhostDrops += ss.GhostDrops
		st.GhostHitsB1 += ss.GhostHitsB1
		st.GhostHitsB2 += ss.GhostHitsB2
		st.SinkErrors += ss.SinkErrors
		st.Hits += s.hits.Load()
		st.Misses += s.misses.Load()
	}
	return st
}

// Close marks the cache as closed, waits for in-flight operations and
// closes the sink if it implements io.Closer.
func (c *cache[K, V]) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	for _, s := range c.shards {
		s.barrier()
	}
	if cl, ok := c.opt.Sink.(io.Closer); ok {
		if err := cl.Close(); err != nil {
			return fmt.Errorf("cache: close sink: %w", err)
		}
	}
	return nil
}

// GetOrLoad returns the value for k; on miss it loads via Options.Loader,
// coalescing concurrent loads for the same key (singleflight).
// If no Loader is configured, returns ErrNoLoader.
func (c *cache[K, V]) GetOrLoad(ctx context.Context, k K) (V, error) {
	var zero V
	if c.closed.Load() {
		return zero, ErrClosed
	}
	// fast path
	if v, ok := c.Get(k); ok {
		return v, nil
	}
	if c.opt.Loader == nil {
		return zero, ErrNoLoader
	}

	// singleflight: exactly one real load for the key
	v, shared, err := c.sf.Do(ctx, k, func() (V, error) {
		// double-check after flight join
		if v, ok := c.Peek(k); ok {
			return v, nil
		}
		v, err := c.opt.Loader(ctx, k)
		if err == nil {
			c.Put(k, v)
		}
		return v, err
	})
	if err != nil {
		c.opt.Logger.Debug("load failed",
			slog.Any("key", k), slog.Bool("shared", shared), slog.Any("error", err))
		return zero, err
	}
	return v, nil
}

// ---- helpers ----

// getShard picks a shard by hashing the key. A single shard skips hashing.
func (c *cache[K, V]) getShard(k K) *shard[K, V] {
	if len(c.shards) == 1 {
		return c.shards[0]
	}
	return c.shards[util.ShardIndex(c.hash(k), len(c.shards))]
}
