package model

import (
	"maps"
	"slices"
)

// Composition is a target count per unit type.
type Composition map[UnitType]float64

// Add returns the sum of c and o.
func (c Composition) Add(o Composition) Composition {
	out := maps.Clone(c)
	if out == nil {
		out = Composition{}
	}
	for t, n := range o {
		out[t] += n
	}
	return out
}

// Scale returns c with every count multiplied by s.
func (c Composition) Scale(s float64) Composition {
	out := make(Composition, len(c))
	for t, n := range c {
		out[t] = n * s
	}
	return out
}

// Total is the sum of all counts.
func (c Composition) Total() float64 {
	sum := 0.0
	for _, n := range c {
		sum += n
	}
	return sum
}

// Types returns the unit types in c in ascending id order.
func (c Composition) Types() []UnitType {
	return slices.Sorted(maps.Keys(c))
}

// Cost is the summed production cost of every count in c.
func (c Composition) Cost() Cost {
	var out Cost
	for t, n := range c {
		out = out.Add(CostOf(UnitItem(t)).Scale(n))
	}
	return out
}
