package cache

import "github.com/IvanBrykalov/arccache/arc"

// NoopMetrics is a drop-in Metrics implementation that does nothing.
// It is safe for concurrent use and intended as the default when
// no observability backend is configured.
type NoopMetrics struct{}

func (NoopMetrics) Hit()                  {}
func (NoopMetrics) Miss()                 {}
func (NoopMetrics) Access(arc.Outcome)    {}
func (NoopMetrics) Evict(arc.EvictReason) {}
func (NoopMetrics) SinkError()            {}
func (NoopMetrics) Size(int, arc.Stats)   {}

// Ensure NoopMetrics implements the Metrics interface at compile time.
var _ Metrics = NoopMetrics{}
