package util

import "testing"

func TestNextPow2(t *testing.T) {
	t.Parallel()

	cases := map[uint64]uint64{0: 1, 1: 1, 2: 2, 3: 4, 5: 8, 64: 64, 65: 128, 1<<63 + 1: 1 << 63}
	for in, want := range cases {
		if got := NextPow2(in); got != want {
			t.Errorf("NextPow2(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestShardIndex(t *testing.T) {
	t.Parallel()

	if got := ShardIndex(0xdeadbeef, 1); got != 0 {
		t.Fatalf("single shard must be 0, got %d", got)
	}
	if got := ShardIndex(13, 8); got != 5 {
		t.Fatalf("mask path: want 5, got %d", got)
	}
	if got := ShardIndex(13, 6); got != 1 {
		t.Fatalf("modulo path: want 1, got %d", got)
	}
	if n := ReasonableShardCount(); n < 1 || n > 256 || !IsPowerOfTwo(uint64(n)) {
		t.Fatalf("ReasonableShardCount = %d", n)
	}
}

func TestFnv64a_StableAcrossKeyTypes(t *testing.T) {
	t.Parallel()

	if Fnv64a("abc") != Fnv64a("abc") || Fnv64a("abc") == Fnv64a("abd") {
		t.Fatal("string hashing must be deterministic and discriminating")
	}
	if Fnv64a(42) != Fnv64a(int64(42)) {
		t.Fatal("int and int64 of the same value hash alike")
	}
	type point struct{ X, Y int }
	if Fnv64a(point{1, 2}) != Fnv64a(point{1, 2}) {
		t.Fatal("struct keys must hash deterministically within a process")
	}
}
