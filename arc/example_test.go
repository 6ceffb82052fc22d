package arc_test

import (
	"fmt"

	"github.com/IvanBrykalov/arccache/arc"
)

func Example() {
	sink := arc.SinkFunc[int, string](func(k int, v string, r arc.EvictReason) error {
		fmt.Printf("evict %d=%q (%s)\n", k, v, r)
		return nil
	})
	e, err := arc.New[int, string](2, arc.WithSink[int, string](sink))
	if err != nil {
		panic(err)
	}

	e.Put(1, "a")
	e.Put(2, "b")
	e.Get(2)      // 2 moves to T2
	e.Put(3, "c") // 1 is demoted to the B1 ghost list

	_, ok := e.Get(1)
	fmt.Println("get 1:", ok)

	fmt.Println("put 1:", e.Put(1, "z")) // ghost hit: back in T2, p grows
	l, _ := e.Where(1)
	st := e.Stats()
	fmt.Println("list:", l, "p:", st.P)

	// Output:
	// evict 1="a" (demoted)
	// get 1: false
	// evict 2="b" (demoted)
	// put 1: hit_b1
	// list: t2 p: 1
}
