package agent

import (
	"maps"
	"slices"

	"github.com/nstehr/vimy/swarm-core/model"
)

// Orders holds at most one action per unit for a step. Layers add in
// precedence order; the first action recorded for a unit stands.
type Orders map[model.Tag]model.Action

// Add records a for tag unless a is nil or the unit already has an order.
func (o Orders) Add(tag model.Tag, a model.Action) bool {
	if a == nil {
		return false
	}
	if _, ok := o[tag]; ok {
		return false
	}
	o[tag] = a
	return true
}

// Merge adds every action of a lower layer and returns how many were taken.
func (o Orders) Merge(actions map[model.Tag]model.Action) int {
	n := 0
	for _, tag := range slices.Sorted(maps.Keys(actions)) {
		if o.Add(tag, actions[tag]) {
			n++
		}
	}
	return n
}

// Has reports whether tag already has an order this step.
func (o Orders) Has(tag model.Tag) bool {
	_, ok := o[tag]
	return ok
}
