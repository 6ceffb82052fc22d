// Command bench runs a synthetic Zipf workload against the ARC cache (or the
// hashicorp ARC baseline) and exposes optional pprof/Prometheus endpoints.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math/rand"
	"net/http"
	_ "net/http/pprof" // registers /debug/pprof/* on DefaultServeMux
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/IvanBrykalov/arccache/cache"
	pmet "github.com/IvanBrykalov/arccache/metrics/prom"
	"github.com/IvanBrykalov/arccache/sink"
	hcarc "github.com/hashicorp/golang-lru/arc/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

// target is the surface the workload needs from either implementation.
type target interface {
	Get(k string) (string, bool)
	Put(k, v string)
	Len() int
}

type hashicorpTarget struct{ *hcarc.ARCCache[string, string] }

func (h hashicorpTarget) Put(k, v string) { h.Add(k, v) }

func main() {
	// ---- Flags ----
	var (
		capacity = flag.Int("cap", 100_000, "cache capacity (entries)")
		shards   = flag.Int("shards", 0, "number of ARC shards (0=one ARC, -1=auto)")
		impl     = flag.String("impl", "arc", "implementation: arc | hashicorp")
		logEvict = flag.Bool("log-evictions", false, "log every eviction at debug level through an async sink")

		workers  = flag.Int("workers", 2*runtime.GOMAXPROCS(0), "number of worker goroutines")
		duration = flag.Duration("duration", 10*time.Second, "benchmark duration")
		readPct  = flag.Int("reads", 80, "read percentage [0..100]")

		keys    = flag.Int("keys", 1_000_000, "keyspace size")
		zipfS   = flag.Float64("zipf_s", 1.1, "Zipf s > 1 (skew)")
		zipfV   = flag.Float64("zipf_v", 1.0, "Zipf v")
		seed    = flag.Int64("seed", time.Now().UnixNano(), "random seed")
		preload = flag.Int("preload", 0, "preload entries (0 = cap/2)")

		pprofAddr   = flag.String("pprof", "", "serve pprof at addr (e.g. :6060); empty = disabled")
		metricsAddr = flag.String("http", ":8080", "serve Prometheus metrics at addr; empty = disabled")
	)
	flag.Parse()

	// ---- pprof server (on DefaultServeMux) ----
	if *pprofAddr != "" {
		go func() {
			log.Printf("pprof: serving at %s", *pprofAddr)
			log.Println(http.ListenAndServe(*pprofAddr, nil))
		}()
	}

	// ---- Build cache ----
	var c target
	switch *impl {
	case "arc":
		opt := cache.Options[string, string]{
			Capacity: *capacity,
			Shards:   *shards,
		}
		if *metricsAddr != "" {
			opt.Metrics = pmet.New(nil, "arccache", "bench", nil)
			http.Handle("/metrics", promhttp.Handler())
			go func() {
				log.Printf("metrics: serving at %s", *metricsAddr)
				log.Println(http.ListenAndServe(*metricsAddr, nil))
			}()
		}
		if *logEvict {
			opt.Sink = sink.Async[string, string](
				sink.Log[string, string](slog.Default(), slog.LevelDebug),
				sink.AsyncOptions{Buffer: 4096})
		}
		ac, err := cache.New[string, string](opt)
		if err != nil {
			log.Fatalf("cache: %v", err)
		}
		defer func() {
			st := ac.Stats()
			fmt.Printf("p=%d t1=%d t2=%d b1=%d b2=%d demotions=%d discards=%d ghost-hits=%d/%d\n",
				st.P, st.T1, st.T2, st.B1, st.B2, st.Demotions, st.Discards, st.GhostHitsB1, st.GhostHitsB2)
			_ = ac.Close()
		}()
		c = ac
	case "hashicorp":
		hc, err := hcarc.NewARC[string, string](*capacity)
		if err != nil {
			log.Fatalf("hashicorp arc: %v", err)
		}
		c = hashicorpTarget{hc}
	default:
		log.Fatalf("unknown impl: %q (use arc or hashicorp)", *impl)
	}

	// ---- Preload half capacity to get a realistic hit-rate ----
	pl := *preload
	if pl == 0 {
		pl = *capacity / 2
	}
	for i := 0; i < pl; i++ {
		c.Put("k:"+strconv.Itoa(i), "v"+strconv.Itoa(i))
	}

	// ---- Snapshot flags for goroutines ----
	readPctVal := *readPct
	keysMax := uint64(*keys - 1)
	seedBase := *seed
	workersN := max(*workers, 1)

	// ---- Load generation ----
	var reads, writes, hits, misses, total atomic.Uint64
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	start := time.Now()
	var g errgroup.Group
	for w := 0; w < workersN; w++ {
		g.Go(func() error {
			// Each worker gets its own RNG + Zipf (rand.Rand is NOT goroutine-safe).
			r := rand.New(rand.NewSource(seedBase + int64(w)*9973))
			z := rand.NewZipf(r, *zipfS, *zipfV, keysMax)
			key := func() string { return "k:" + strconv.FormatUint(z.Uint64(), 10) }

			for ctx.Err() == nil {
				total.Add(1)
				if int(r.Int31n(100)) < readPctVal {
					reads.Add(1)
					if _, ok := c.Get(key()); ok {
						hits.Add(1)
					} else {
						misses.Add(1)
					}
					continue
				}
				writes.Add(1)
				c.Put(key(), "v"+strconv.Itoa(r.Int()))
			}
			return nil
		})
	}
	_ = g.Wait()
	elapsed := time.Since(start)

	// ---- Report ----
	hitRate := 0.0
	if n := reads.Load(); n > 0 {
		hitRate = float64(hits.Load()) / float64(n) * 100
	}
	fmt.Printf("impl=%s cap=%d shards=%d workers=%d keys=%d dur=%v seed=%d\n",
		*impl, *capacity, *shards, workersN, *keys, elapsed, seedBase)
	fmt.Printf("ops=%d (%.0f ops/s)  reads=%d  writes=%d\n",
		total.Load(), float64(total.Load())/elapsed.Seconds(), reads.Load(), writes.Load())
	fmt.Printf("hits=%d  misses=%d  hit-rate=%.2f%%\n", hits.Load(), misses.Load(), hitRate)
	fmt.Printf("Len()=%d\n", c.Len())
}

