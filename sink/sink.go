// Package sink provides eviction sinks for the ARC engine: where values go
// once they leave the resident lists.
package sink

import (
	"context"
	"errors"
	"log/slog"

	"github.com/IvanBrykalov/arccache/arc"
)

// Discard returns a sink that drops every value.
func Discard[K comparable, V any]() arc.Sink[K, V] {
	return arc.SinkFunc[K, V](func(K, V, arc.EvictReason) error { return nil })
}

// Func adapts fn to arc.Sink.
func Func[K comparable, V any](fn func(key K, value V, reason arc.EvictReason) error) arc.Sink[K, V] {
	return arc.SinkFunc[K, V](fn)
}

// Log returns a sink that records every eviction on logger at level.
func Log[K comparable, V any](logger *slog.Logger, level slog.Level) arc.Sink[K, V] {
	if logger == nil {
		logger = slog.Default()
	}
	return arc.SinkFunc[K, V](func(k K, _ V, r arc.EvictReason) error {
		logger.Log(context.Background(), level, "evicted",
			slog.Any("key", k),
			slog.String("reason", r.String()))
		return nil
	})
}

// Multi fans an eviction out to every sink in order. All sinks are called
// even if some fail; the failures are joined.
func Multi[K comparable, V any](sinks ...arc.Sink[K, V]) arc.Sink[K, V] {
	return arc.SinkFunc[K, V](func(k K, v V, r arc.EvictReason) error {
		var errs []error
		for _, s := range sinks {
			if err := s.Evict(k, v, r); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})
}
