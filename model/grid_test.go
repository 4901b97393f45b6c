package model

import (
	"math"
	"testing"
)

func TestGridAt(t *testing.T) {
	g := &Grid{
		Width:  3,
		Height: 2,
		Data: []float64{
			1, 2, 3,
			4, 5, 6,
		},
	}

	tests := []struct {
		q    Point
		want float64
	}{
		{Point{0, 0}, 1},
		{Point{2, 0}, 3},
		{Point{1, 1}, 5},
		{Point{2, 1}, 6},
	}
	for _, tc := range tests {
		if got := g.At(tc.q); got != tc.want {
			t.Errorf("At(%v) = %v, want %v", tc.q, got, tc.want)
		}
	}
}

func TestGridAtClipsOutOfBounds(t *testing.T) {
	g := &Grid{Width: 2, Height: 2, Data: []float64{1, 2, 3, 4}}

	tests := []struct {
		q    Point
		want float64
	}{
		{Point{-5, 0}, 1},
		{Point{0, -1}, 1},
		{Point{9, 0}, 2},
		{Point{0, 7}, 3},
		{Point{100, 100}, 4},
	}
	for _, tc := range tests {
		if got := g.At(tc.q); got != tc.want {
			t.Errorf("At(%v) = %v, want %v", tc.q, got, tc.want)
		}
	}
}

func TestGridAtPos(t *testing.T) {
	g := NewGrid(4, 4, 0)
	g.Set(Point{2, 3}, 7)
	if got := g.AtPos(Position{2.9, 3.1}); got != 7 {
		t.Errorf("AtPos(2.9, 3.1) = %v, want 7", got)
	}
	if got := g.AtPos(Position{-3.5, 99}); got != 0 {
		t.Errorf("AtPos(-3.5, 99) = %v, want 0", got)
	}
}

func TestGridSetIgnoresOutOfBounds(t *testing.T) {
	g := NewGrid(2, 2, 1)
	g.Set(Point{5, 5}, 9)
	for i, v := range g.Data {
		if v != 1 {
			t.Errorf("Data[%d] = %v, want 1", i, v)
		}
	}
}

func TestGridPassable(t *testing.T) {
	g := NewGrid(2, 1, 1)
	g.Set(Point{1, 0}, math.Inf(1))
	if !g.Passable(Point{0, 0}) {
		t.Error("Passable(0,0) should be true")
	}
	if g.Passable(Point{1, 0}) {
		t.Error("Passable(1,0) should be false for +Inf")
	}
	if g.Passable(Point{2, 0}) {
		t.Error("Passable out of bounds should be false")
	}
}

func TestNilGridAt(t *testing.T) {
	var g *Grid
	if got := g.At(Point{1, 1}); got != 0 {
		t.Errorf("nil grid At = %v, want 0", got)
	}
}

func TestPositionTowards(t *testing.T) {
	p := Position{0, 0}
	got := p.Towards(Position{10, 0}, 3)
	if got != (Position{3, 0}) {
		t.Errorf("Towards = %v, want (3, 0)", got)
	}
	if got := p.Towards(p, 3); got != p {
		t.Errorf("Towards(self) = %v, want %v", got, p)
	}
}

func TestPositionPointFloors(t *testing.T) {
	tests := []struct {
		p    Position
		want Point
	}{
		{Position{1.9, 2.1}, Point{1, 2}},
		{Position{-0.5, 0}, Point{-1, 0}},
	}
	for _, tc := range tests {
		if got := tc.p.Point(); got != tc.want {
			t.Errorf("%v.Point() = %v, want %v", tc.p, got, tc.want)
		}
	}
}
