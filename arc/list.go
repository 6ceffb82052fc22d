package arc

// List identifies one of the four ARC lists an entry can belong to.
type List uint8

const (
	// T1 holds resident entries seen once recently.
	T1 List = iota
	// T2 holds resident entries seen at least twice recently.
	T2
	// B1 holds ghost keys demoted from T1.
	B1
	// B2 holds ghost keys demoted from T2.
	B2

	numLists = 4
)

const maxPrealloc = 1 << 16

func (l List) String() string {
	switch l {
	case T1:
		return "t1"
	case T2:
		return "t2"
	case B1:
		return "b1"
	case B2:
		return "b2"
	default:
		return "unknown"
	}
}

// ghost reports whether entries of l carry no value.
func (l List) ghost() bool { return l == B1 || l == B2 }

// entry is one arena slot. Links are slot indices, not pointers;
// slots 0..3 are the sentinels of T1, T2, B1, B2.
type entry[K comparable, V any] struct {
	key   K
	value V

	prev, next int
	list       List
}

// arena owns every entry and the four sentinel-anchored lists.
// Head (sentinel.next) is LRU, tail (sentinel.prev) is MRU.
type arena[K comparable, V any] struct {
	slots []entry[K, V]
	free  []int
	size  [numLists]int
}

func newArena[K comparable, V any](capacity int) arena[K, V] {
	// Up to 2*capacity keys are tracked; the hint is clamped for huge caches.
	hint := min(2*capacity, maxPrealloc)
	a := arena[K, V]{
		slots: make([]entry[K, V], numLists, numLists+hint),
	}
	for l := 0; l < numLists; l++ {
		a.slots[l] = entry[K, V]{prev: l, next: l, list: List(l)}
	}
	return a
}

// alloc returns a detached slot holding k/v.
func (a *arena[K, V]) alloc(k K, v V) int {
	if n := len(a.free); n > 0 {
		i := a.free[n-1]
		a.free = a.free[:n-1]
		a.slots[i].key, a.slots[i].value = k, v
		return i
	}
	a.slots = append(a.slots, entry[K, V]{key: k, value: v})
	return len(a.slots) - 1
}

// release zeroes a detached slot and returns it to the free stack.
func (a *arena[K, V]) release(i int) {
	a.slots[i] = entry[K, V]{}
	a.free = append(a.free, i)
}

// pushBack links slot i at the MRU end of l.
func (a *arena[K, V]) pushBack(l List, i int) {
	s := int(l)
	last := a.slots[s].prev
	e := &a.slots[i]
	e.list = l
	e.prev, e.next = last, s
	a.slots[last].next = i
	a.slots[s].prev = i
	a.size[l]++
}

// unlink detaches slot i from whatever list it is on.
func (a *arena[K, V]) unlink(i int) {
	e := &a.slots[i]
	a.slots[e.prev].next = e.next
	a.slots[e.next].prev = e.prev
	a.size[e.list]--
	e.prev, e.next = i, i
}

// moveTo re-links slot i to the MRU end of l.
func (a *arena[K, V]) moveTo(l List, i int) {
	a.unlink(i)
	a.pushBack(l, i)
}

// front returns the LRU slot of l, or -1 if l is empty.
func (a *arena[K, V]) front(l List) int {
	if i := a.slots[l].next; i != int(l) {
		return i
	}
	return -1
}

// len returns the tracked cardinality of l.
func (a *arena[K, V]) len(l List) int { return a.size[l] }

// each walks l from LRU to MRU.
func (a *arena[K, V]) each(l List, fn func(i int) bool) {
	for i := a.slots[l].next; i != int(l); i = a.slots[i].next {
		if !fn(i) {
			return
		}
	}
}
