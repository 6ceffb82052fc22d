package arc

import "fmt"

// validate walks every list and checks the structural invariants of e.
func (e *Engine[K, V]) validate() error {
	c := e.capacity
	seen := 0
	for _, l := range []List{T1, T2, B1, B2} {
		n := 0
		var err error
		e.lists.each(l, func(i int) bool {
			n++
			en := e.lists.slots[i]
			if en.list != l {
				err = fmt.Errorf("slot %d on %s tagged %s", i, l, en.list)
				return false
			}
			if j, ok := e.index[en.key]; !ok || j != i {
				err = fmt.Errorf("key %v on %s not indexed to slot %d", en.key, l, i)
				return false
			}
			return true
		})
		if err != nil {
			return err
		}
		if n != e.lists.len(l) {
			return fmt.Errorf("%s counter %d, actual length %d", l, e.lists.len(l), n)
		}
		seen += n
	}
	if seen != len(e.index) {
		return fmt.Errorf("index has %d keys, lists hold %d", len(e.index), seen)
	}
	t1, t2, b1, b2 := e.lists.len(T1), e.lists.len(T2), e.lists.len(B1), e.lists.len(B2)
	switch {
	case t1+t2 > c:
		return fmt.Errorf("t1+t2 = %d exceeds capacity %d", t1+t2, c)
	case t1+b1 > c:
		return fmt.Errorf("t1+b1 = %d exceeds capacity %d", t1+b1, c)
	case t1+t2+b1+b2 > 2*c:
		return fmt.Errorf("directory size %d exceeds %d", t1+t2+b1+b2, 2*c)
	case e.p < 0 || e.p > c:
		return fmt.Errorf("p = %d outside [0, %d]", e.p, c)
	}
	return nil
}
