package arc

// EvictReason tells a Sink why a live value left the cache.
type EvictReason uint8

const (
	// Demoted: the entry moved to a ghost list (T1→B1 or T2→B2); its key is still tracked.
	Demoted EvictReason = iota
	// Discarded: the entry left the cache entirely (T1 LRU dropped while B1 was empty).
	Discarded
)

func (r EvictReason) String() string {
	if r == Discarded {
		return "discarded"
	}
	return "demoted"
}

// Sink receives every live value the engine lets go of.
//
// Evict is called synchronously, exactly once per key/value pair that leaves
// T1 or T2 with a value still attached. It is never called for ghost entries.
// A returned error is reported to the engine's error handler; it never blocks
// or undoes the eviction.
type Sink[K comparable, V any] interface {
	Evict(key K, value V, reason EvictReason) error
}

// SinkFunc adapts a plain function to Sink.
type SinkFunc[K comparable, V any] func(key K, value V, reason EvictReason) error

// Evict implements Sink.
func (f SinkFunc[K, V]) Evict(key K, value V, reason EvictReason) error {
	return f(key, value, reason)
}

type discard[K comparable, V any] struct{}

func (discard[K, V]) Evict(K, V, EvictReason) error { return nil }
