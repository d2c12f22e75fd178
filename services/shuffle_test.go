package services

import (
	"sort"
	"testing"
)

func TestRandomizeSliceIsPermutation(t *testing.T) {
	in := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	original := append([]string(nil), in...)

	out := RandomizeSlice(in)

	for i := range original {
		if in[i] != original[i] {
			t.Fatalf("input slice was modified")
		}
	}

	if len(out) != len(in) {
		t.Fatalf("output length = %d, want %d", len(out), len(in))
	}
	sorted := append([]string(nil), out...)
	sort.Strings(sorted)
	for i, v := range original {
		if sorted[i] != v {
			t.Fatalf("output is not a permutation: %v", out)
		}
	}
}

func TestRandomizeSliceSmallInputs(t *testing.T) {
	if out := RandomizeSlice([]int(nil)); len(out) != 0 {
		t.Fatalf("nil input gave %v", out)
	}
	if out := RandomizeSlice([]int{42}); len(out) != 1 || out[0] != 42 {
		t.Fatalf("single element input gave %v", out)
	}
}

func TestRandomizeSliceShuffles(t *testing.T) {
	in := make([]int, 50)
	for i := range in {
		in[i] = i
	}

	// Fifty elements staying in place across ten shuffles is as good as
	// impossible for a working shuffle.
	moved := false
	for attempt := 0; attempt < 10 && !moved; attempt++ {
		out := RandomizeSlice(in)
		for i := range out {
			if out[i] != in[i] {
				moved = true
				break
			}
		}
	}
	if !moved {
		t.Fatalf("shuffle never changed the order")
	}
}
