package model

import "math"

// Position is a real-valued map coordinate used for geometry.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Point is an integer grid coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Position) Add(q Position) Position       { return Position{p.X + q.X, p.Y + q.Y} }
func (p Position) Sub(q Position) Position       { return Position{p.X - q.X, p.Y - q.Y} }
func (p Position) Scale(s float64) Position      { return Position{p.X * s, p.Y * s} }
func (p Position) Offset(dx, dy float64) Position { return Position{p.X + dx, p.Y + dy} }
func (p Position) Norm() float64                 { return math.Hypot(p.X, p.Y) }
func (p Position) Dot(q Position) float64        { return p.X*q.X + p.Y*q.Y }

func (p Position) Distance(q Position) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Towards returns the point at distance d from p in the direction of target.
// Returns p unchanged when the two coincide.
func (p Position) Towards(target Position, d float64) Position {
	delta := target.Sub(p)
	n := delta.Norm()
	if n < 1e-10 {
		return p
	}
	return p.Add(delta.Scale(d / n))
}

// Point floors p onto the integer grid.
func (p Position) Point() Point {
	return Point{int(math.Floor(p.X)), int(math.Floor(p.Y))}
}

// Rounded snaps p to the nearest integer coordinates.
func (p Position) Rounded() Position {
	return Position{math.Round(p.X), math.Round(p.Y)}
}

// Center returns the cell center of q.
func (q Point) Center() Position {
	return Position{float64(q.X) + 0.5, float64(q.Y) + 0.5}
}

func (q Point) Position() Position {
	return Position{float64(q.X), float64(q.Y)}
}

// Centroid returns the mean of ps, or the zero position for an empty slice.
func Centroid(ps []Position) Position {
	if len(ps) == 0 {
		return Position{}
	}
	var c Position
	for _, p := range ps {
		c = c.Add(p)
	}
	return c.Scale(1 / float64(len(ps)))
}
