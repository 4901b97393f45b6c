package model

import "math"

// Grid is a fixed-size map layer shared across a step: pathing cost, safety
// influence, creep, visibility. +Inf marks an impassable cell.
type Grid struct {
	Width  int       `json:"width"`
	Height int       `json:"height"`
	Data   []float64 `json:"data"` // row-major: Data[y*Width + x]
}

// NewGrid allocates a grid filled with v.
func NewGrid(width, height int, v float64) *Grid {
	g := &Grid{Width: width, Height: height, Data: make([]float64, width*height)}
	if v != 0 {
		g.Fill(v)
	}
	return g
}

// Clip clamps q into the grid bounds.
func (g *Grid) Clip(q Point) Point {
	return Point{clampInt(q.X, 0, g.Width-1), clampInt(q.Y, 0, g.Height-1)}
}

func (g *Grid) InBounds(q Point) bool {
	return q.X >= 0 && q.X < g.Width && q.Y >= 0 && q.Y < g.Height
}

// At returns the value at q after clipping to bounds. An empty grid reads as 0.
func (g *Grid) At(q Point) float64 {
	if g == nil || len(g.Data) == 0 {
		return 0
	}
	q = g.Clip(q)
	return g.Data[q.Y*g.Width+q.X]
}

// AtPos looks up the cell containing p.
func (g *Grid) AtPos(p Position) float64 {
	return g.At(p.Point())
}

// Set writes v at q; out-of-bounds writes are ignored.
func (g *Grid) Set(q Point, v float64) {
	if !g.InBounds(q) {
		return
	}
	g.Data[q.Y*g.Width+q.X] = v
}

func (g *Grid) Fill(v float64) {
	for i := range g.Data {
		g.Data[i] = v
	}
}

// Stamp sets every in-bounds point to v.
func (g *Grid) Stamp(points []Point, v float64) {
	for _, q := range points {
		g.Set(q, v)
	}
}

func (g *Grid) Clone() *Grid {
	out := &Grid{Width: g.Width, Height: g.Height, Data: make([]float64, len(g.Data))}
	copy(out.Data, g.Data)
	return out
}

// Index converts an in-bounds point to its flat offset.
func (g *Grid) Index(q Point) int { return q.Y*g.Width + q.X }

// PointAt is the inverse of Index.
func (g *Grid) PointAt(i int) Point { return Point{i % g.Width, i / g.Width} }

// Passable reports whether the cell at q has a finite cost.
func (g *Grid) Passable(q Point) bool {
	return g.InBounds(q) && !math.IsInf(g.Data[g.Index(q)], 1)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
