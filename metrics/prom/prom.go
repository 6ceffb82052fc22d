// Package prom exports cache metrics to Prometheus.
package prom

import (
	"strconv"

	"github.com/IvanBrykalov/arccache/arc"
	"github.com/IvanBrykalov/arccache/cache"
	"github.com/prometheus/client_golang/prometheus"
)

// Adapter implements cache.Metrics and exports Prometheus counters/gauges.
// Safe for concurrent use; all Prometheus metric types are goroutine-safe.
type Adapter struct {
	hits       prometheus.Counter
	misses     prometheus.Counter
	accesses   *prometheus.CounterVec
	evicts     *prometheus.CounterVec
	sinkErrors prometheus.Counter
	entries    *prometheus.GaugeVec
	target     *prometheus.GaugeVec
}

// New constructs a Prometheus metrics adapter.
//   - reg:          registry to register metrics with (nil => prometheus.DefaultRegisterer)
//   - ns, sub:      Prometheus namespace and subsystem
//   - constLabels:  static labels applied to all metrics (may be nil)
func New(reg prometheus.Registerer, ns, sub string, constLabels prometheus.Labels) *Adapter {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	opts := func(name, help string) prometheus.CounterOpts {
		return prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        name,
			Help:        help,
			ConstLabels: constLabels,
		}
	}
	a := &Adapter{
		hits:       prometheus.NewCounter(opts("hits_total", "Cache hits on Get")),
		misses:     prometheus.NewCounter(opts("misses_total", "Cache misses on Get")),
		accesses:   prometheus.NewCounterVec(opts("puts_total", "Puts by ARC classification"), []string{"outcome"}),
		evicts:     prometheus.NewCounterVec(opts("evictions_total", "Values handed to the eviction sink, by reason"), []string{"reason"}),
		sinkErrors: prometheus.NewCounter(opts("sink_errors_total", "Eviction sink failures")),
		entries: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "list_entries",
			Help:        "Entries per ARC list (t1, t2 resident; b1, b2 ghost)",
			ConstLabels: constLabels,
		}, []string{"shard", "list"}),
		target: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "t1_target",
			Help:        "Adaptive target size p of T1",
			ConstLabels: constLabels,
		}, []string{"shard"}),
	}
	reg.MustRegister(a.hits, a.misses, a.accesses, a.evicts, a.sinkErrors, a.entries, a.target)
	return a
}

// Hit increments the hit counter.
func (a *Adapter) Hit() { a.hits.Inc() }

// Miss increments the miss counter.
func (a *Adapter) Miss() { a.misses.Inc() }

// Access counts a Put by its classification.
func (a *Adapter) Access(o arc.Outcome) { a.accesses.WithLabelValues(o.String()).Inc() }

// Evict increments the eviction counter with a reason label.
func (a *Adapter) Evict(r arc.EvictReason) { a.evicts.WithLabelValues(r.String()).Inc() }

// SinkError increments the sink failure counter.
func (a *Adapter) SinkError() { a.sinkErrors.Inc() }

// Size updates the per-list gauges and p for one shard.
func (a *Adapter) Size(shard int, s arc.Stats) {
	id := strconv.Itoa(shard)
	a.entries.WithLabelValues(id, arc.T1.String()).Set(float64(s.T1))
	a.entries.WithLabelValues(id, arc.T2.String()).Set(float64(s.T2))
	a.entries.WithLabelValues(id, arc.B1.String()).Set(float64(s.B1))
	a.entries.WithLabelValues(id, arc.B2.String()).Set(float64(s.B2))
	a.target.WithLabelValues(id).Set(float64(s.P))
}

// Compile-time check: ensure Adapter implements cache.Metrics.
var _ cache.Metrics = (*Adapter)(nil)
