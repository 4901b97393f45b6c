package numeric

import (
	"math"
	"testing"

	"github.com/nstehr/vimy/swarm-core/model"
)

func TestIndexInRange(t *testing.T) {
	pts := []model.Position{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 5, Y: 5}, {X: 0, Y: 1.5}, {X: 10, Y: 0},
	}
	idx := NewIndex(pts)
	got := idx.InRange(model.Position{X: 0, Y: 0}, 2)
	want := []int{0, 1, 3}
	if len(got) != len(want) {
		t.Fatalf("InRange = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("InRange[%d] = %d, want %d", i, got[i], want[i])
		}
	}

	// brute force agreement on every point
	for i, p := range pts {
		r := 4.0
		n := 0
		for _, q := range pts {
			if p.Distance(q) <= r {
				n++
			}
		}
		if got := len(idx.InRange(p, r)); got != n {
			t.Errorf("InRange(pts[%d], %v) has %d, want %d", i, r, got, n)
		}
	}
}

func TestIndexNearest(t *testing.T) {
	idx := NewIndex([]model.Position{{X: 0, Y: 0}, {X: 3, Y: 4}})
	i, d := idx.Nearest(model.Position{X: 3, Y: 3})
	if i != 1 || math.Abs(d-1) > 1e-9 {
		t.Errorf("Nearest = (%d, %v), want (1, 1)", i, d)
	}

	empty := NewIndex(nil)
	if got := empty.InRange(model.Position{}, 10); got != nil {
		t.Errorf("empty InRange = %v, want nil", got)
	}
	if i, _ := empty.Nearest(model.Position{}); i != -1 {
		t.Errorf("empty Nearest = %d, want -1", i)
	}
}
