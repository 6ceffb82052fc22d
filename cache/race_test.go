package cache

import (
	"context"
	"math/rand"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/IvanBrykalov/arccache/arc"
)

// A mixed workload of concurrent Put/Get/Peek/Keys on random keys.
// Should pass under `-race` without detector reports, and every shard must
// stay within its capacity.
func TestRace_Basic(t *testing.T) {
	var evicted atomic.Int64
	c := mustNew(t, Options[string, []byte]{
		Capacity: 1_024,
		Shards:   8,
		Sink: arc.SinkFunc[string, []byte](func(string, []byte, arc.EvictReason) error {
			evicted.Add(1)
			return nil
		}),
	})

	workers := 4 * runtime.GOMAXPROCS(0)
	keyspace := 8_000
	deadline := time.Now().Add(time.Second)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(id int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(id)*9973))
			for time.Now().Before(deadline) {
				k := "k:" + strconv.Itoa(r.Intn(keyspace))
				switch r.Intn(100) {
				case 0: // ~1%: Keys
					_ = c.Keys()
				case 1, 2, 3, 4: // ~4%: Peek
					c.Peek(k)
				case 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19: // ~15%: Put
					c.Put(k, []byte("x"))
				default: // ~80%: Get
					c.Get(k)
				}
			}
		}(w)
	}
	wg.Wait()

	st := c.Stats()
	for i, s := range st.Shards {
		if s.T1+s.T2 > s.Capacity || s.T1+s.B1 > s.Capacity || s.T1+s.T2+s.B1+s.B2 > 2*s.Capacity {
			t.Fatalf("shard %d out of bounds: %+v", i, s)
		}
	}
	if got := int64(st.Demotions + st.Discards); got != evicted.Load() {
		t.Fatalf("sink calls %d, engine evictions %d", evicted.Load(), got)
	}
}

// One hundred goroutines call GetOrLoad on the same key concurrently.
// The Loader should run at most once (singleflight coalescing).
func TestRace_GetOrLoad(t *testing.T) {
	var calls int64

	c := mustNew(t, Options[string, string]{
		Capacity: 1024,
		Loader: func(_ context.Context, k string) (string, error) {
			atomic.AddInt64(&calls, 1)
			time.Sleep(2 * time.Millisecond) // simulate I/O
			return "v:" + k, nil
		},
	})

	const goroutines = 100
	key := "same-key"

	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(goroutines)

	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := c.GetOrLoad(context.Background(), key)
			if err != nil {
				t.Errorf("GetOrLoad error: %v", err)
				return
			}
			if v != "v:"+key {
				t.Errorf("unexpected value: %q", v)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := atomic.LoadInt64(&calls); got > 1 {
		t.Fatalf("loader should run at most once, got %d", got)
	}

	// Subsequent call should be a pure cache hit.
	if v, err := c.GetOrLoad(context.Background(), key); err != nil || v != "v:"+key {
		t.Fatalf("second GetOrLoad failed: v=%q err=%v", v, err)
	}
}
