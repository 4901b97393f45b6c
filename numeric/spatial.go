package numeric

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/kdtree"

	"github.com/nstehr/vimy/swarm-core/model"
)

// Index is a static 2-D kd-tree over positions; queries return indices into
// the slice it was built from.
type Index struct {
	tree *kdtree.Tree
	n    int
}

// NewIndex builds an index over positions.
func NewIndex(positions []model.Position) *Index {
	pts := make(indexedPoints, len(positions))
	for i, p := range positions {
		pts[i] = indexedPoint{x: p.X, y: p.Y, index: i}
	}
	idx := &Index{n: len(positions)}
	if len(pts) > 0 {
		idx.tree = kdtree.New(pts, false)
	}
	return idx
}

func (x *Index) Len() int { return x.n }

// InRange returns the indices of all positions within distance r of p,
// in ascending order.
func (x *Index) InRange(p model.Position, r float64) []int {
	if x.tree == nil || r < 0 {
		return nil
	}
	keep := kdtree.NewDistKeeper(r * r)
	x.tree.NearestSet(keep, indexedPoint{x: p.X, y: p.Y, index: -1})
	var out []int
	for _, cd := range keep.Heap {
		q, ok := cd.Comparable.(indexedPoint)
		if !ok {
			continue
		}
		out = append(out, q.index)
	}
	sort.Ints(out)
	return out
}

// Nearest returns the index of the closest position and its distance, or
// -1 and +Inf on an empty index.
func (x *Index) Nearest(p model.Position) (int, float64) {
	if x.tree == nil {
		return -1, math.Inf(1)
	}
	c, d := x.tree.Nearest(indexedPoint{x: p.X, y: p.Y, index: -1})
	q, ok := c.(indexedPoint)
	if !ok {
		return -1, math.Inf(1)
	}
	return q.index, math.Sqrt(d)
}

type indexedPoint struct {
	x, y  float64
	index int
}

func (p indexedPoint) coord(d kdtree.Dim) float64 {
	if d == 0 {
		return p.x
	}
	return p.y
}

func (p indexedPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	return p.coord(d) - c.(indexedPoint).coord(d)
}

func (p indexedPoint) Dims() int { return 2 }

// Distance is squared Euclidean, matching kdtree.Point.
func (p indexedPoint) Distance(c kdtree.Comparable) float64 {
	q := c.(indexedPoint)
	dx, dy := p.x-q.x, p.y-q.y
	return dx*dx + dy*dy
}

type indexedPoints []indexedPoint

func (p indexedPoints) Index(i int) kdtree.Comparable { return p[i] }
func (p indexedPoints) Len() int                      { return len(p) }
func (p indexedPoints) Slice(start, end int) kdtree.Interface {
	return p[start:end]
}
func (p indexedPoints) Pivot(d kdtree.Dim) int {
	return plane{points: p, dim: d}.Pivot()
}

type plane struct {
	points indexedPoints
	dim    kdtree.Dim
}

func (p plane) Len() int { return len(p.points) }
func (p plane) Less(i, j int) bool {
	return p.points[i].coord(p.dim) < p.points[j].coord(p.dim)
}
func (p plane) Swap(i, j int) { p.points[i], p.points[j] = p.points[j], p.points[i] }
func (p plane) Slice(start, end int) kdtree.SortSlicer {
	p.points = p.points[start:end]
	return p
}
func (p plane) Pivot() int { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }
