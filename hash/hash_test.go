package hash

import "testing"

func TestHashRange(t *testing.T) {
	for _, max := range []uint32{1, 2, 3, 17, 1 << 16, 4294967291} {
		for n := uint32(0); n < 1000; n++ {
			if v := Hash(n*2654435761, n, max); v >= max {
				t.Fatalf("Hash(%d, %d, %d) = %d out of range", n, n, max, v)
			}
		}
	}
}

func TestHashDeterministic(t *testing.T) {
	if Hash(12345, 678, 1000) != Hash(12345, 678, 1000) {
		t.Fatal("hash is not deterministic")
	}
}

func TestHashSaltMatters(t *testing.T) {
	var differ int
	for s := uint32(0); s < 64; s++ {
		if Hash(42, s, 1<<20) != Hash(42, s+1, 1<<20) {
			differ++
		}
	}
	if differ < 60 {
		t.Errorf("salt changes output only %d times out of 64", differ)
	}
}

func TestHashVectorized(t *testing.T) {
	const size = 37
	var n, s, out, distinct [size]uint32
	var max [size]uint32
	for i := range n {
		n[i] = uint32(i * 7919)
		s[i] = uint32(i)
		max[i] = uint32(i + 2)
	}
	HashVectorized(out[:], n[:], s[:], 1000)
	for i := range out {
		if out[i] != Hash(n[i], s[i], 1000) {
			t.Fatalf("vectorized hash %d mismatch", i)
		}
	}
	HashVectorizedDistinct(distinct[:], n[:], s[:], max[:])
	for i := range distinct {
		if distinct[i] != Hash(n[i], s[i], max[i]) {
			t.Fatalf("distinct vectorized hash %d mismatch", i)
		}
	}
	hashUnrolled(out[:], n[:], s[:], 99)
	for i := range out {
		if out[i] != Hash(n[i], s[i], 99) {
			t.Fatalf("unrolled hash %d mismatch", i)
		}
	}
	if HashVectorizedParallelism() < 1 {
		t.Fatal("parallelism must be at least 1")
	}
}

func TestFold(t *testing.T) {
	a := Fold([]uint32{1, 2, 3})
	b := Fold([]uint32{3, 2, 1})
	if a == b {
		t.Error("fold must depend on order")
	}
	if a != Fold([]uint32{1, 2, 3}) {
		t.Error("fold is not deterministic")
	}
}
