package bitutil

import "testing"

func TestPopCount64(t *testing.T) {
	cases := []struct {
		in   uint64
		want int
	}{
		{0, 0},
		{1, 1},
		{0b011, 2},
		{^uint64(0), 64},
		{0x8000000000000000, 1},
	}
	for _, c := range cases {
		if got := PopCount64(c.in); got != c.want {
			t.Errorf("PopCount64(%#x) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestCeilDiv(t *testing.T) {
	cases := []struct{ a, b, want int }{
		{0, 64, 0},
		{1, 64, 1},
		{64, 64, 1},
		{65, 64, 2},
		{128, 64, 2},
	}
	for _, c := range cases {
		if got := CeilDiv(c.a, c.b); got != c.want {
			t.Errorf("CeilDiv(%d,%d) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestUnpackBits(t *testing.T) {
	got := UnpackBits([]uint64{0b101, 0b010}, 3)
	want := []int{1, 0, 1, 0, 1, 0}
	if len(got) != len(want) {
		t.Fatalf("length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}
