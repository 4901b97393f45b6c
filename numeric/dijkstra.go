package numeric

import (
	"container/heap"
	"math"

	"github.com/nstehr/vimy/swarm-core/model"
)

// DijkstraMap is the result of a multi-source shortest path sweep over a
// cost grid. Each reachable cell knows its distance to the nearest seed and
// the neighbor one step closer to it.
type DijkstraMap struct {
	Width, Height int
	dist          []float64
	prev          []int
}

var neighbors = [8]struct {
	dx, dy int
	w      float64
}{
	{1, 0, 1}, {-1, 0, 1}, {0, 1, 1}, {0, -1, 1},
	{1, 1, math.Sqrt2}, {1, -1, math.Sqrt2}, {-1, 1, math.Sqrt2}, {-1, -1, math.Sqrt2},
}

// Dijkstra runs an 8-connected sweep from seeds. Entering cell B from A costs
// cost[B]·|A−B|; cells with an infinite or negative cost are impassable.
// Seeds outside the grid are clipped onto it.
func Dijkstra(cost *model.Grid, seeds []model.Point) *DijkstraMap {
	w, h := cost.Width, cost.Height
	d := &DijkstraMap{
		Width:  w,
		Height: h,
		dist:   make([]float64, w*h),
		prev:   make([]int, w*h),
	}
	for i := range d.dist {
		d.dist[i] = math.Inf(1)
		d.prev[i] = -1
	}
	if w == 0 || h == 0 {
		return d
	}

	q := &cellQueue{}
	for _, s := range seeds {
		i := cost.Index(cost.Clip(s))
		if d.dist[i] == 0 {
			continue
		}
		d.dist[i] = 0
		heap.Push(q, cellItem{index: i})
	}

	for q.Len() > 0 {
		cur := heap.Pop(q).(cellItem)
		if cur.dist > d.dist[cur.index] {
			continue
		}
		x, y := cur.index%w, cur.index/w
		for _, n := range neighbors {
			nx, ny := x+n.dx, y+n.dy
			if nx < 0 || ny < 0 || nx >= w || ny >= h {
				continue
			}
			j := ny*w + nx
			c := cost.Data[j]
			if math.IsInf(c, 0) || math.IsNaN(c) || c < 0 {
				continue
			}
			nd := cur.dist + c*n.w
			if nd < d.dist[j] {
				d.dist[j] = nd
				d.prev[j] = cur.index
				heap.Push(q, cellItem{index: j, dist: nd})
			}
		}
	}
	return d
}

func (d *DijkstraMap) clip(p model.Point) int {
	x := min(max(p.X, 0), d.Width-1)
	y := min(max(p.Y, 0), d.Height-1)
	return y*d.Width + x
}

// Dist returns the distance from p to the nearest seed, +Inf if unreachable.
func (d *DijkstraMap) Dist(p model.Point) float64 {
	if len(d.dist) == 0 {
		return math.Inf(1)
	}
	return d.dist[d.clip(p)]
}

// DistAt is Dist for a real position.
func (d *DijkstraMap) DistAt(p model.Position) float64 { return d.Dist(p.Point()) }

// Prev returns the next cell toward the nearest seed. It reports false for
// seeds and unreachable cells.
func (d *DijkstraMap) Prev(p model.Point) (model.Point, bool) {
	if len(d.prev) == 0 {
		return model.Point{}, false
	}
	j := d.prev[d.clip(p)]
	if j < 0 {
		return model.Point{}, false
	}
	return model.Point{X: j % d.Width, Y: j / d.Width}, true
}

// Path follows predecessors from the clipped start cell toward the nearest
// seed. The result starts with the start cell and holds at most limit cells.
// It is nil when the start cell is unreachable.
func (d *DijkstraMap) Path(from model.Point, limit int) []model.Point {
	if len(d.dist) == 0 || limit <= 0 {
		return nil
	}
	i := d.clip(from)
	if math.IsInf(d.dist[i], 1) {
		return nil
	}
	path := make([]model.Point, 0, min(limit, 16))
	for i >= 0 && len(path) < limit {
		path = append(path, model.Point{X: i % d.Width, Y: i / d.Width})
		i = d.prev[i]
	}
	return path
}

type cellItem struct {
	index int
	dist  float64
}

type cellQueue []cellItem

func (q cellQueue) Len() int           { return len(q) }
func (q cellQueue) Less(i, j int) bool { return q[i].dist < q[j].dist }
func (q cellQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *cellQueue) Push(x any)        { *q = append(*q, x.(cellItem)) }
func (q *cellQueue) Pop() any {
	old := *q
	n := len(old)
	it := old[n-1]
	*q = old[:n-1]
	return it
}
