package arc

// MinimumCapacity is the smallest capacity accepted by [New].
const MinimumCapacity = 1

// Outcome classifies a Put.
type Outcome uint8

const (
	// Miss: the key was in none of the four lists.
	Miss Outcome = iota
	// HitT1: the key was resident in T1.
	HitT1
	// HitT2: the key was resident in T2.
	HitT2
	// HitB1: the key was a ghost in B1.
	HitB1
	// HitB2: the key was a ghost in B2.
	HitB2
)

func (o Outcome) String() string {
	switch o {
	case HitT1:
		return "hit_t1"
	case HitT2:
		return "hit_t2"
	case HitB1:
		return "hit_b1"
	case HitB2:
		return "hit_b2"
	default:
		return "miss"
	}
}

// Option configures an Engine.
type Option[K comparable, V any] func(*Engine[K, V])

// WithSink sets the eviction sink. Without one, evicted values are dropped.
func WithSink[K comparable, V any](s Sink[K, V]) Option[K, V] {
	return func(e *Engine[K, V]) {
		if s != nil {
			e.sink = s
		}
	}
}

// WithSinkErrorHandler registers fn to receive sink failures.
// The eviction has already completed when fn runs.
func WithSinkErrorHandler[K comparable, V any](fn func(key K, reason EvictReason, err error)) Option[K, V] {
	return func(e *Engine[K, V]) { e.onSinkErr = fn }
}

// Stats is a point-in-time snapshot of an Engine.
type Stats struct {
	Capacity int
	P        int // target size of T1

	T1, T2, B1, B2 int

	Demotions   uint64 // T1→B1 and T2→B2 moves
	Discards    uint64 // T1 entries dropped without a ghost
	GhostDrops  uint64 // ghosts destroyed to bound B1/B2
	GhostHitsB1 uint64
	GhostHitsB2 uint64
	SinkErrors  uint64
}

// Engine is the ARC state machine: four lists in one arena, the key index,
// and the adaptive target p for T1.
//
// An Engine is not safe for concurrent use; guard the whole value with one
// lock (see package cache).
type Engine[K comparable, V any] struct {
	index    map[K]int
	lists    arena[K, V]
	capacity int
	p        int

	sink      Sink[K, V]
	onSinkErr func(K, EvictReason, error)

	demotions, discards, ghostDrops uint64
	ghostHits                       [numLists]uint64
	sinkErrors                      uint64
}

// New returns an empty Engine holding at most capacity live entries
// and tracking at most 2*capacity keys.
func New[K comparable, V any](capacity int, opts ...Option[K, V]) (*Engine[K, V], error) {
	if capacity < MinimumCapacity {
		return nil, capacityError(capacity)
	}
	e := &Engine[K, V]{
		index:    make(map[K]int, min(2*capacity, maxPrealloc)),
		lists:    newArena[K, V](capacity),
		capacity: capacity,
		sink:     discard[K, V]{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Get returns the live value for key.
//
// A resident hit promotes the entry to the MRU end of T2, exactly like a Put
// of the same value. A ghost key (B1/B2) reports a miss and is left alone:
// ghosts carry no value, so a read cannot bring them back. Only Put adapts p.
func (e *Engine[K, V]) Get(key K) (V, bool) {
	i, ok := e.index[key]
	if !ok || e.lists.slots[i].list.ghost() {
		var zero V
		return zero, false
	}
	e.hitResident(i)
	return e.lists.slots[i].value, true
}

// Put inserts or updates key and reports how it was classified.
func (e *Engine[K, V]) Put(key K, value V) Outcome {
	i, ok := e.index[key]
	if !ok {
		e.miss(key, value)
		return Miss
	}
	en := &e.lists.slots[i]
	en.value = value
	switch en.list {
	case B1:
		e.hitB1(i)
		return HitB1
	case B2:
		e.hitB2(i)
		return HitB2
	case T1:
		e.hitResident(i)
		return HitT1
	default:
		e.hitResident(i)
		return HitT2
	}
}

// Peek returns the live value for key without touching list order.
func (e *Engine[K, V]) Peek(key K) (V, bool) {
	if i, ok := e.index[key]; ok && !e.lists.slots[i].list.ghost() {
		return e.lists.slots[i].value, true
	}
	var zero V
	return zero, false
}

// Contains reports whether key is resident (T1 or T2).
func (e *Engine[K, V]) Contains(key K) bool {
	i, ok := e.index[key]
	return ok && !e.lists.slots[i].list.ghost()
}

// Where reports which list holds key.
func (e *Engine[K, V]) Where(key K) (List, bool) {
	i, ok := e.index[key]
	if !ok {
		return 0, false
	}
	return e.lists.slots[i].list, true
}

// Len returns the number of resident entries.
func (e *Engine[K, V]) Len() int { return e.lists.len(T1) + e.lists.len(T2) }

// Cap returns the configured capacity.
func (e *Engine[K, V]) Cap() int { return e.capacity }

// Keys returns every key in the index, resident or ghost, in no particular order.
func (e *Engine[K, V]) Keys() []K {
	keys := make([]K, 0, len(e.index))
	for k := range e.index {
		keys = append(keys, k)
	}
	return keys
}

// Stats returns a snapshot of list sizes, p and lifetime counters.
func (e *Engine[K, V]) Stats() Stats {
	return Stats{
		Capacity:    e.capacity,
		P:           e.p,
		T1:          e.lists.len(T1),
		T2:          e.lists.len(T2),
		B1:          e.lists.len(B1),
		B2:          e.lists.len(B2),
		Demotions:   e.demotions,
		Discards:    e.discards,
		GhostDrops:  e.ghostDrops,
		GhostHitsB1: e.ghostHits[B1],
		GhostHitsB2: e.ghostHits[B2],
		SinkErrors:  e.sinkErrors,
	}
}

// ---- replacement ----

// miss makes room according to L1/L2 and inserts key at the MRU end of T1.
func (e *Engine[K, V]) miss(key K, value V) {
	c := e.capacity
	l1 := e.lists.len(T1) + e.lists.len(B1)
	l2 := e.lists.len(T2) + e.lists.len(B2)

	switch {
	case l1 == c:
		if e.lists.len(T1) < c {
			e.dropGhost(B1)
			e.replace(false)
		} else {
			e.discardT1()
		}
	case l1 < c && l1+l2 >= c:
		if l1+l2 >= 2*c {
			e.dropGhost(B2)
		}
		e.replace(false)
	}

	i := e.lists.alloc(key, value)
	e.lists.pushBack(T1, i)
	e.index[key] = i
}

// replace demotes the LRU of T1 or T2 into its ghost list.
// On a B2 hit, t1 == p tips the choice toward T1.
func (e *Engine[K, V]) replace(b2Hit bool) {
	t1 := e.lists.len(T1)
	if t1 >= 1 && ((b2Hit && t1 == e.p) || t1 > e.p) {
		e.demote(T1, B1)
	} else {
		e.demote(T2, B2)
	}
}

// hitB1 grows p: a recently demoted T1 key came back.
func (e *Engine[K, V]) hitB1(i int) {
	e.ghostHits[B1]++
	delta := max(e.lists.len(B2)/e.lists.len(B1), 1)
	e.p = min(e.capacity, e.p+delta)
	e.replace(false)
	e.lists.moveTo(T2, i)
}

// hitB2 shrinks p: a recently demoted T2 key came back.
func (e *Engine[K, V]) hitB2(i int) {
	e.ghostHits[B2]++
	delta := max(e.lists.len(B1)/e.lists.len(B2), 1)
	e.p = max(0, e.p-delta)
	e.replace(true)
	e.lists.moveTo(T2, i)
}

// hitResident moves a T1 or T2 entry to the MRU end of T2.
func (e *Engine[K, V]) hitResident(i int) { e.lists.moveTo(T2, i) }

// demote moves the LRU of from to the MRU end of ghost and hands its value to the sink.
func (e *Engine[K, V]) demote(from, ghost List) {
	i := e.lists.front(from)
	en := &e.lists.slots[i]
	key, value := en.key, en.value
	var zero V
	en.value = zero
	e.lists.moveTo(ghost, i)
	e.demotions++
	e.notify(key, value, Demoted)
}

// discardT1 drops the LRU of T1 without leaving a ghost.
func (e *Engine[K, V]) discardT1() {
	i := e.lists.front(T1)
	key, value := e.lists.slots[i].key, e.lists.slots[i].value
	e.lists.unlink(i)
	delete(e.index, key)
	e.lists.release(i)
	e.discards++
	e.notify(key, value, Discarded)
}

// dropGhost destroys the LRU of a ghost list. Ghosts have no value, so the sink is not called.
func (e *Engine[K, V]) dropGhost(l List) {
	i := e.lists.front(l)
	delete(e.index, e.lists.slots[i].key)
	e.lists.unlink(i)
	e.lists.release(i)
	e.ghostDrops++
}

// notify calls the sink after the structural change is complete.
func (e *Engine[K, V]) notify(key K, value V, reason EvictReason) {
	if err := e.sink.Evict(key, value, reason); err != nil {
		e.sinkErrors++
		if e.onSinkErr != nil {
			e.onSinkErr(key, reason, err)
		}
	}
}
