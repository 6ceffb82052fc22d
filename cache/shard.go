package cache

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/IvanBrykalov/arccache/arc"
	"github.com/IvanBrykalov/arccache/internal/util"
)

// shard is one ARC engine and the lock that owns it.
type shard[K comparable, V any] struct {
	// ---- guarded by mu ----
	mu  sync.Mutex
	eng *arc.Engine[K, V]

	id      int
	closed  *atomic.Bool
	metrics Metrics

	// ---- hot counters (separate cache lines to avoid false sharing) ----
	_      util.CacheLinePad
	hits   util.PaddedAtomicInt64
	misses util.PaddedAtomicInt64
}

// newShard builds the engine for one shard. The user sink is wrapped so
// every eviction is counted, and sink failures are logged and counted.
func newShard[K comparable, V any](id, capacity int, closed *atomic.Bool, opt Options[K, V]) (*shard[K, V], error) {
	s := &shard[K, V]{id: id, closed: closed, metrics: opt.Metrics}

	user := opt.Sink
	counted := arc.SinkFunc[K, V](func(k K, v V, r arc.EvictReason) error {
		s.metrics.Evict(r)
		if user == nil {
			return nil
		}
		return user.Evict(k, v, r)
	})
	logger := opt.Logger.With(slog.Int("shard", id))
	onErr := func(k K, r arc.EvictReason, err error) {
		s.metrics.SinkError()
		logger.Warn("eviction sink failed",
			slog.Any("key", k),
			slog.String("reason", r.String()),
			slog.Any("error", err))
	}

	eng, err := arc.New[K, V](capacity,
		arc.WithSink[K, V](counted),
		arc.WithSinkErrorHandler[K, V](onErr))
	if err != nil {
		return nil, err
	}
	s.eng = eng
	return s, nil
}

// Put inserts or updates under the shard lock. Ignored once the cache is closed.
func (s *shard[K, V]) Put(k K, v V) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		return
	}
	s.metrics.Access(s.eng.Put(k, v))
	s.metrics.Size(s.id, s.eng.Stats())
}

// Get returns the resident value and promotes it.
func (s *shard[K, V]) Get(k K) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		var zero V
		return zero, false
	}
	v, ok := s.eng.Get(k)
	if !ok {
		s.misses.Add(1)
		s.metrics.Miss()
		return v, false
	}
	s.hits.Add(1)
	s.metrics.Hit()
	return v, true
}

// Peek returns the resident value without promotion or hit accounting.
func (s *shard[K, V]) Peek(k K) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eng.Peek(k)
}

// Contains reports residency without promotion.
func (s *shard[K, V]) Contains(k K) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eng.Contains(k)
}

// Len returns the number of resident entries in this shard.
func (s *shard[K, V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eng.Len()
}

// appendKeys appends this shard's tracked keys to dst.
func (s *shard[K, V]) appendKeys(dst []K) []K {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append(dst, s.eng.Keys()...)
}

// Stats returns the engine snapshot.
func (s *shard[K, V]) Stats() arc.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eng.Stats()
}

// barrier waits for any operation holding the lock to finish.
func (s *shard[K, V]) barrier() {
	s.mu.Lock()
	s.mu.Unlock() //nolint:staticcheck // SA2001
}
