package editdist

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/docling-project/docling-metrics/internal/sysmem"
)

func words(n int, prefix string) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s%d", prefix, i)
	}
	return out
}

func TestDistanceBoundaryCases(t *testing.T) {
	if got := Distance(nil, nil); got != 0 {
		t.Errorf("Distance(nil,nil) = %d, want 0", got)
	}
	target := []string{"a", "b", "c"}
	if got := Distance(nil, target); got != len(target) {
		t.Errorf("Distance(nil,target) = %d, want %d", got, len(target))
	}
	if got := Distance(target, nil); got != len(target) {
		t.Errorf("Distance(target,nil) = %d, want %d", got, len(target))
	}
}

func TestEditDistanceScenarios(t *testing.T) {
	cases := []struct {
		name string
		a, b []string
		want float64
	}{
		{"scenario3", []string{"the", "cat"}, []string{"the", "big", "cat"}, 1.0 / 3.0},
		{"scenario4", []string{"a", "b", "c"}, []string{"d", "e", "f"}, 1.0},
		{"scenario5", []string{}, []string{}, 0.0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := EditDistance(c.a, c.b)
			if diff := got - c.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("EditDistance(%v,%v) = %v, want %v", c.a, c.b, got, c.want)
			}
		})
	}
}

func TestEditDistanceIdentity(t *testing.T) {
	seqs := [][]string{
		{},
		{"a"},
		{"the", "cat", "sat"},
		words(200, "tok"),
	}
	for _, s := range seqs {
		if got := EditDistance(s, s); got != 0.0 {
			t.Errorf("EditDistance(x,x) = %v, want 0 for %v", got, s)
		}
	}
}

func TestEditDistanceSymmetry(t *testing.T) {
	a := []string{"the", "quick", "brown", "fox"}
	b := []string{"the", "slow", "brown", "ox", "extra"}
	if got, want := EditDistance(a, b), EditDistance(b, a); got != want {
		t.Errorf("EditDistance not symmetric: %v vs %v", got, want)
	}
}

func TestRawTriangleInequality(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	vocab := []string{"a", "b", "c", "d", "e", "f", "g"}
	randSeq := func(n int) []string {
		out := make([]string, n)
		for i := range out {
			out[i] = vocab[r.Intn(len(vocab))]
		}
		return out
	}
	for i := 0; i < 200; i++ {
		x := randSeq(r.Intn(8))
		y := randSeq(r.Intn(8))
		z := randSeq(r.Intn(8))
		xz := Distance(x, z)
		xy := Distance(x, y)
		yz := Distance(y, z)
		if xz > xy+yz {
			t.Fatalf("triangle inequality violated: d(x,z)=%d > d(x,y)+d(y,z)=%d (x=%v y=%v z=%v)",
				xz, xy+yz, x, y, z)
		}
	}
}

func TestRawBoundedByMaxLen(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	vocab := []string{"a", "b", "c"}
	randSeq := func(n int) []string {
		out := make([]string, n)
		for i := range out {
			out[i] = vocab[r.Intn(len(vocab))]
		}
		return out
	}
	for i := 0; i < 200; i++ {
		x := randSeq(r.Intn(10))
		y := randSeq(r.Intn(10))
		maxLen := len(x)
		if len(y) > maxLen {
			maxLen = len(y)
		}
		if d := Distance(x, y); d > maxLen {
			t.Fatalf("Distance(%v,%v) = %d exceeds max length %d", x, y, d, maxLen)
		}
	}
}

func TestDistanceAcrossBlockBoundary(t *testing.T) {
	// 100 tokens forces two 64-bit blocks; identical sequences must score 0,
	// and a copy with each token's first character rotated to its end shares
	// no token with the original, so it must score the full edit cost.
	a := words(100, "t")
	if got := Distance(a, a); got != 0 {
		t.Errorf("Distance(a,a) across block boundary = %d, want 0", got)
	}
	b := make([]string, len(a))
	for i, tok := range a {
		b[i] = tok[1:] + tok[:1]
	}
	if got := EditDistance(a, b); got != 1.0 {
		t.Errorf("EditDistance(a, rotated a) = %v, want 1.0", got)
	}
}

func TestDistanceSafeFallsBackWhenUnbounded(t *testing.T) {
	a := []string{"x", "y", "z"}
	got, err := DistanceSafe(a, a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 0 {
		t.Errorf("DistanceSafe(a,a) = %d, want 0", got)
	}
}

func TestDistanceSafeMemoryLimit(t *testing.T) {
	if _, ok := sysmem.TotalBytes(); !ok {
		t.Skip("physical memory probe unsupported on this platform")
	}
	// A query with one distinct token per position forces unique_ids ~= n,
	// and num_blocks scales with n too, so needed bytes grow quadratically
	// — trivially exceeds any real host once n is large enough. The
	// memory check runs before any large allocation, so this is safe to
	// run even on a constrained host.
	n := 2_000_000
	q := make([]string, n)
	for i := range q {
		q[i] = fmt.Sprintf("unique-token-%d", i)
	}
	_, err := DistanceSafe(q, []string{"a"})
	if err == nil {
		t.Skip("host has enough RAM to accommodate this Peq table")
	}
}
