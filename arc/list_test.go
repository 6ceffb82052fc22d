package arc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func listKeys[K comparable, V any](a *arena[K, V], l List) []K {
	var out []K
	a.each(l, func(i int) bool {
		out = append(out, a.slots[i].key)
		return true
	})
	return out
}

func TestArena_PushBackKeepsLRUAtHead(t *testing.T) {
	t.Parallel()

	a := newArena[string, int](4)
	for _, k := range []string{"a", "b", "c"} {
		a.pushBack(T1, a.alloc(k, 0))
	}

	require.Equal(t, []string{"a", "b", "c"}, listKeys(&a, T1))
	require.Equal(t, 3, a.len(T1))
	require.Equal(t, "a", a.slots[a.front(T1)].key)
	require.Equal(t, -1, a.front(T2), "empty list has no front")
}

func TestArena_MoveToRelinksAndCounts(t *testing.T) {
	t.Parallel()

	a := newArena[string, int](4)
	ia := a.alloc("a", 1)
	ib := a.alloc("b", 2)
	a.pushBack(T1, ia)
	a.pushBack(T1, ib)

	a.moveTo(B1, ia)
	require.Equal(t, []string{"b"}, listKeys(&a, T1))
	require.Equal(t, []string{"a"}, listKeys(&a, B1))
	require.Equal(t, 1, a.len(T1))
	require.Equal(t, 1, a.len(B1))
	require.Equal(t, B1, a.slots[ia].list)

	// moving within the same list refreshes recency only
	a.pushBack(B1, a.alloc("c", 3))
	a.moveTo(B1, ia)
	require.Equal(t, []string{"c", "a"}, listKeys(&a, B1))
	require.Equal(t, 2, a.len(B1))
}

func TestArena_ReleaseRecyclesSlots(t *testing.T) {
	t.Parallel()

	a := newArena[int, string](2)
	i := a.alloc(1, "x")
	a.pushBack(T2, i)
	a.unlink(i)
	a.release(i)
	require.Equal(t, 0, a.len(T2))
	require.Equal(t, "", a.slots[i].value, "released slot must not retain the value")

	j := a.alloc(2, "y")
	require.Equal(t, i, j, "freed slot is reused")
	require.Len(t, a.slots, numLists+1)
}
