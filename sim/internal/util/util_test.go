package util

import "testing"

func TestLen64_IntSlice(t *testing.T) {
	got := Len64([]int{1, 2, 3})
	if got != 3 {
		t.Errorf("Len64([]int{1,2,3}) = %d, want 3", got)
	}
}

func TestLen64_EmptySlice(t *testing.T) {
	got := Len64([]int{})
	if got != 0 {
		t.Errorf("Len64([]int{}) = %d, want 0", got)
	}
}

func TestClamp01(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{-0.5, 0},
		{0, 0},
		{0.25, 0.25},
		{1, 1},
		{3.7, 1},
	}
	for _, c := range cases {
		if got := Clamp01(c.in); got != c.want {
			t.Errorf("Clamp01(%f) = %f, want %f", c.in, got, c.want)
		}
	}
}
