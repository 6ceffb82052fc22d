package sink

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/IvanBrykalov/arccache/arc"
	"golang.org/x/sync/errgroup"
)

// ErrSinkClosed is returned by Evict after Close.
var ErrSinkClosed = errors.New("sink: closed")

// DefaultAsyncBuffer is the queue length used when AsyncOptions.Buffer is not set.
const DefaultAsyncBuffer = 256

// AsyncOptions configures an Async sink.
type AsyncOptions struct {
	// Buffer is the number of evictions queued before Evict blocks.
	Buffer int
	// Logger receives failures of the wrapped sink. nil => slog.Default().
	Logger *slog.Logger
}

type pending[K comparable, V any] struct {
	key    K
	value  V
	reason arc.EvictReason
}

// AsyncSink hands evictions to a single background worker.
//
// Ordering: the wrapped sink sees evictions in exactly the order they were
// made. Evict blocks when the queue is full; nothing is dropped.
// Failures of the wrapped sink are logged and counted; Evict itself only
// fails after Close.
type AsyncSink[K comparable, V any] struct {
	next   arc.Sink[K, V]
	queue  chan pending[K, V]
	logger *slog.Logger

	mu     sync.RWMutex // closed vs. in-flight sends
	closed bool

	g        errgroup.Group
	failures atomic.Uint64
}

// Async wraps next so the engine never waits on it beyond queueing.
func Async[K comparable, V any](next arc.Sink[K, V], opt AsyncOptions) *AsyncSink[K, V] {
	if opt.Buffer <= 0 {
		opt.Buffer = DefaultAsyncBuffer
	}
	if opt.Logger == nil {
		opt.Logger = slog.Default()
	}
	s := &AsyncSink[K, V]{
		next:   next,
		queue:  make(chan pending[K, V], opt.Buffer),
		logger: opt.Logger,
	}
	s.g.Go(s.drain)
	return s
}

// Evict queues the eviction for the worker.
func (s *AsyncSink[K, V]) Evict(k K, v V, r arc.EvictReason) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrSinkClosed
	}
	s.queue <- pending[K, V]{k, v, r}
	return nil
}

// Failures returns how many evictions the wrapped sink rejected.
func (s *AsyncSink[K, V]) Failures() uint64 { return s.failures.Load() }

// Close stops intake, waits until every queued eviction has been delivered,
// closes the wrapped sink if it is an io.Closer and returns the first failure.
func (s *AsyncSink[K, V]) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.queue)
	s.mu.Unlock()

	err := s.g.Wait()
	if cl, ok := s.next.(io.Closer); ok {
		if cerr := cl.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}
	return err
}

func (s *AsyncSink[K, V]) drain() error {
	var first error
	for p := range s.queue {
		if err := s.next.Evict(p.key, p.value, p.reason); err != nil {
			s.failures.Add(1)
			s.logger.Warn("async eviction sink failed",
				slog.Any("key", p.key),
				slog.String("reason", p.reason.String()),
				slog.Any("error", err))
			if first == nil {
				first = fmt.Errorf("sink: evict %v: %w", p.key, err)
			}
		}
	}
	return first
}

var _ arc.Sink[string, int] = (*AsyncSink[string, int])(nil)
