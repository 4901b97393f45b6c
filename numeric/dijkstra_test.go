package numeric

import (
	"math"
	"testing"

	"github.com/nstehr/vimy/swarm-core/model"
)

func TestDijkstraDistances(t *testing.T) {
	g := model.NewGrid(5, 5, 1)
	d := Dijkstra(g, []model.Point{{X: 0, Y: 0}})

	tests := []struct {
		p    model.Point
		want float64
	}{
		{model.Point{X: 0, Y: 0}, 0},
		{model.Point{X: 3, Y: 0}, 3},
		{model.Point{X: 2, Y: 2}, 2 * math.Sqrt2},
		{model.Point{X: 4, Y: 2}, 2 + 2*math.Sqrt2},
		{model.Point{X: -3, Y: -3}, 0},
	}
	for _, tt := range tests {
		if got := d.Dist(tt.p); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Dist(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestDijkstraUnreachable(t *testing.T) {
	g := model.NewGrid(3, 3, 1)
	for y := range 3 {
		g.Set(model.Point{X: 1, Y: y}, math.Inf(1))
	}
	d := Dijkstra(g, []model.Point{{X: 0, Y: 1}})
	if got := d.Dist(model.Point{X: 2, Y: 1}); !math.IsInf(got, 1) {
		t.Errorf("Dist behind wall = %v, want +Inf", got)
	}
	if got := d.Path(model.Point{X: 2, Y: 1}, 10); got != nil {
		t.Errorf("Path from unreachable cell = %v, want nil", got)
	}
}

func TestDijkstraSeedsAndChains(t *testing.T) {
	g := model.NewGrid(8, 6, 1)
	g.Set(model.Point{X: 3, Y: 2}, 5)
	g.Set(model.Point{X: 4, Y: 4}, math.Inf(1))
	seeds := []model.Point{{X: 0, Y: 0}, {X: 7, Y: 5}}
	d := Dijkstra(g, seeds)

	isSeed := map[model.Point]bool{}
	for _, s := range seeds {
		isSeed[s] = true
		if got := d.Dist(s); got != 0 {
			t.Errorf("Dist(seed %v) = %v, want 0", s, got)
		}
	}
	for y := range g.Height {
		for x := range g.Width {
			p := model.Point{X: x, Y: y}
			if math.IsInf(d.Dist(p), 1) {
				continue
			}
			path := d.Path(p, g.Width*g.Height)
			if len(path) == 0 || path[0] != p {
				t.Fatalf("Path(%v) = %v, want to start at %v", p, path, p)
			}
			if end := path[len(path)-1]; !isSeed[end] {
				t.Errorf("Path(%v) ends at %v, not a seed", p, end)
			}
		}
	}
}

func TestDijkstraPathLimit(t *testing.T) {
	g := model.NewGrid(10, 1, 1)
	d := Dijkstra(g, []model.Point{{X: 0, Y: 0}})
	path := d.Path(model.Point{X: 9, Y: 0}, 3)
	want := []model.Point{{X: 9}, {X: 8}, {X: 7}}
	if len(path) != len(want) {
		t.Fatalf("len(Path) = %d, want %d", len(path), len(want))
	}
	for i := range want {
		if path[i] != want[i] {
			t.Errorf("Path[%d] = %v, want %v", i, path[i], want[i])
		}
	}
}
