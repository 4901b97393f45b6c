package model

import "fmt"

// Action is a single order for one unit. The concrete types below form a
// closed set; consumers switch on them.
type Action interface {
	action()
	String() string
}

// Move orders a plain move to a position.
type Move struct {
	Target Position
}

// AttackMove orders an attack-move to a position.
type AttackMove struct {
	Target Position
}

// HoldPosition stops the unit in place.
type HoldPosition struct{}

// Smart is the context-sensitive right click on a unit.
type Smart struct {
	Target Tag
}

// Attack orders an attack on a specific unit.
type Attack struct {
	Target Tag
}

// UseAbility casts an ability, optionally on a unit or position.
type UseAbility struct {
	Ability   AbilityID
	TargetTag Tag
	TargetPos *Position
}

// GatherAction sends a worker to a resource through its speed-mining position.
type GatherAction struct {
	Resource       Tag
	MiningPosition Position
	// Stage is set when the worker should first move to MiningPosition.
	Stage bool
}

// ReturnResource sends a carrying worker back to a townhall.
type ReturnResource struct {
	Townhall Tag
	// Approach is the drop-off point next to the townhall.
	Approach Position
	Stage    bool
}

func (Move) action()           {}
func (AttackMove) action()     {}
func (HoldPosition) action()   {}
func (Smart) action()          {}
func (Attack) action()         {}
func (UseAbility) action()     {}
func (GatherAction) action()   {}
func (ReturnResource) action() {}

func (a Move) String() string         { return fmt.Sprintf("Move(%.1f,%.1f)", a.Target.X, a.Target.Y) }
func (a AttackMove) String() string   { return fmt.Sprintf("AttackMove(%.1f,%.1f)", a.Target.X, a.Target.Y) }
func (HoldPosition) String() string   { return "HoldPosition" }
func (a Smart) String() string        { return fmt.Sprintf("Smart(%d)", a.Target) }
func (a Attack) String() string       { return fmt.Sprintf("Attack(%d)", a.Target) }
func (a GatherAction) String() string { return fmt.Sprintf("Gather(%d)", a.Resource) }
func (a ReturnResource) String() string {
	return fmt.Sprintf("Return(%d)", a.Townhall)
}

func (a UseAbility) String() string {
	switch {
	case a.TargetTag != 0:
		return fmt.Sprintf("UseAbility(%d, unit %d)", a.Ability, a.TargetTag)
	case a.TargetPos != nil:
		return fmt.Sprintf("UseAbility(%d, %.1f,%.1f)", a.Ability, a.TargetPos.X, a.TargetPos.Y)
	}
	return fmt.Sprintf("UseAbility(%d)", a.Ability)
}

// AbilityAt builds a position-targeted ability.
func AbilityAt(a AbilityID, p Position) UseAbility {
	return UseAbility{Ability: a, TargetPos: &p}
}

// AbilityOn builds a unit-targeted ability.
func AbilityOn(a AbilityID, t Tag) UseAbility {
	return UseAbility{Ability: a, TargetTag: t}
}
