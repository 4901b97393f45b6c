// Package macro turns production intent into producer commands: a priority
// queue of plans, trainer assignment, resource ETAs, placement and the
// build-order prelude.
package macro

import (
	"fmt"
	"math"

	"github.com/nstehr/vimy/swarm-core/model"
)

// Target is where a plan is executed. The variants are NoTarget,
// PositionTarget and UnitTarget; a nil Target is the same as NoTarget.
type Target interface {
	target()
}

type NoTarget struct{}

type PositionTarget struct {
	Position model.Position
}

// UnitTarget is a unit such as a geyser for an extractor.
type UnitTarget struct {
	Tag      model.Tag
	Position model.Position
}

func (NoTarget) target()       {}
func (PositionTarget) target() {}
func (UnitTarget) target()     {}

// TargetPosition returns the position of t, if it has one.
func TargetPosition(t Target) (model.Position, bool) {
	switch t := t.(type) {
	case PositionTarget:
		return t.Position, true
	case UnitTarget:
		return t.Position, true
	}
	return model.Position{}, false
}

func hasTarget(t Target) bool {
	_, ok := TargetPosition(t)
	return ok
}

// PlanState tracks a plan through the command feed.
type PlanState uint8

const (
	Unassigned PlanState = iota
	Assigned
	// Commanded plans had their ability issued and wait for the game to confirm.
	Commanded
	Executed
	// Failed plans had their command rejected; the target is recomputed.
	Failed
)

func (s PlanState) String() string {
	switch s {
	case Unassigned:
		return "unassigned"
	case Assigned:
		return "assigned"
	case Commanded:
		return "commanded"
	case Executed:
		return "executed"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}

// BuildOrderPriority keeps build-order plans ahead of everything else and
// exempt from priority updates.
var BuildOrderPriority = math.Inf(1)

// Plan is one unit of production intent.
type Plan struct {
	Item     model.Item
	Target   Target
	Priority float64
	State    PlanState
	// Producer is set while the plan is assigned.
	Producer model.Tag
	// Fixed plans keep their target; if it becomes invalid the plan is dropped.
	Fixed bool

	seq int
}

// NewPlan creates an unassigned plan for item.
func NewPlan(item model.Item, priority float64) *Plan {
	return &Plan{Item: item, Priority: priority}
}

// NewUnitPlan is NewPlan for a unit or structure type.
func NewUnitPlan(t model.UnitType, priority float64) *Plan {
	return NewPlan(model.UnitItem(t), priority)
}

func (p *Plan) String() string {
	return fmt.Sprintf("%s@%.2f(%s)", p.Item, p.Priority, p.State)
}
