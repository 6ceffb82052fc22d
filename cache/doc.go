// Package cache wraps the ARC engine (package arc) into a concurrency-safe,
// generic in-memory cache with an eviction sink, metrics hooks, structured
// logging and singleflight loading.
//
// Design
//
//   - Concurrency: every engine is guarded by one sync.Mutex. Lists, index
//     and counters mutate as a single unit, since one Put can touch three
//     lists. By default the cache has exactly one engine, i.e. one ARC over
//     the whole key space.
//
//   - Shards: Options.Shards > 1 splits the key space by hash into independent
//     engines whose capacities sum exactly to Capacity. Each shard adapts its
//     own p. Use it when lock contention matters more than a single global
//     ARC decision.
//
//   - Sink: Options.Sink receives every value leaving T1/T2, synchronously,
//     under the shard lock. Keep it fast or wrap it with sink.Async. Sink
//     errors are logged via Options.Logger and counted; Put never fails.
//
//   - GetOrLoad: coalesces concurrent loads for the same key using
//     singleflight. If Loader is nil, GetOrLoad returns ErrNoLoader.
//
//   - Metrics: Options.Metrics receives Hit/Miss/Access/Evict/SinkError/Size
//     signals. NoopMetrics is the default; metrics/prom exports them.
//
// Basic usage
//
//	c, err := cache.New[string, []byte](cache.Options[string, []byte]{Capacity: 10_000})
//	if err != nil {
//	    return err
//	}
//	defer c.Close()
//	c.Put("a", []byte("1"))
//	if v, ok := c.Get("a"); ok {
//	    _ = v
//	}
//
// Archiving evicted values
//
//	archive, _ := objstore.New[string, []byte](objstore.Config[string, []byte]{...})
//	c, _ := cache.New[string, []byte](cache.Options[string, []byte]{
//	    Capacity: 10_000,
//	    Sink:     sink.Async[string, []byte](archive, sink.AsyncOptions{Buffer: 1024}),
//	})
//
// Ghost keys
//
// Get on a key that only survives as a ghost (B1/B2) is a miss and does not
// bring the key back; a Put of that key is a ghost hit and lands it in T2.
// Keys lists every tracked key, ghosts included.
package cache
