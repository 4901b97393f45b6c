package strategy

import (
	"github.com/nstehr/vimy/swarm-core/macro"
	"github.com/nstehr/vimy/swarm-core/model"
)

// Static defense priorities and timings.
const (
	SpinePriority = 1.0
	SporePriority = 0.5

	// rushWindow is how long spines answer a detected rush.
	rushWindow = 5 * 60
	// sporeTime is the earliest spores are considered.
	sporeTime = 3 * 60
	// slotRadius is how close a crawler must be to occupy its slot.
	slotRadius = 1.0
)

var sporeTriggersZerg = []model.UnitType{model.Mutalisk, model.RoachBurrowed}

var sporeTriggersProtoss = []model.UnitType{model.Oracle, model.VoidRay, model.Carrier, model.Tempest, model.Phoenix}

var sporeTriggersTerran = []model.UnitType{model.Liberator, model.Banshee, model.Battlecruiser}

// SporeTriggers are the enemy types, per race, that call for spores.
var SporeTriggers = map[model.Race][]model.UnitType{
	model.Zerg:    sporeTriggersZerg,
	model.Protoss: sporeTriggersProtoss,
	model.Terran:  sporeTriggersTerran,
	model.Random:  concat(sporeTriggersZerg, sporeTriggersProtoss, sporeTriggersTerran),
}

func concat(lists ...[]model.UnitType) []model.UnitType {
	var out []model.UnitType
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}

// SporesTriggered reports whether an anti-air threat for the enemy race has
// been seen after the spore timing.
func (s *Strategy) SporesTriggered() bool {
	if s.obs.Time < sporeTime {
		return false
	}
	triggers := SporeTriggers[s.obs.EnemyRace]
	if triggers == nil {
		triggers = SporeTriggers[model.Random]
	}
	for _, u := range s.obs.EnemyAll {
		for _, t := range triggers {
			if u.Type == t {
				return true
			}
		}
	}
	return false
}

// StaticDefense plans a spine on each taken base's spine slot while an
// early rush is on, and a spore on each spore slot once spores are
// triggered. Slots that are occupied or already planned are skipped, as are
// spine slots the host rejects. planned is the planner's current queue.
func (s *Strategy) StaticDefense(host model.Host, planned []*macro.Plan) []*macro.Plan {
	spines := s.intel.Rushed && s.obs.Time < rushWindow
	spores := s.SporesTriggered()
	if !spines && !spores {
		return nil
	}
	var plans []*macro.Plan
	for _, i := range s.obs.BasesTaken() {
		th := s.obs.TownhallAt[i]
		if th == nil || !th.IsReady() {
			continue
		}
		base := s.obs.Bases[i]
		if spines && s.slotFree(model.SpineCrawler, base.SpineSlot, planned) {
			if host == nil || host.CanPlace(model.SpineCrawler, base.SpineSlot) {
				plans = append(plans, slotPlan(model.SpineCrawler, base.SpineSlot, SpinePriority))
			}
		}
		if spores && s.slotFree(model.SporeCrawler, base.SporeSlot, planned) {
			plans = append(plans, slotPlan(model.SporeCrawler, base.SporeSlot, SporePriority))
		}
	}
	return plans
}

func slotPlan(t model.UnitType, slot model.Position, priority float64) *macro.Plan {
	plan := macro.NewUnitPlan(t, priority)
	plan.Target = macro.PositionTarget{Position: slot}
	plan.Fixed = true
	return plan
}

func (s *Strategy) slotFree(t model.UnitType, slot model.Position, planned []*macro.Plan) bool {
	for _, u := range s.obs.OfType(t) {
		if u.Position.Distance(slot) <= slotRadius {
			return false
		}
	}
	item := model.UnitItem(t)
	for _, plan := range planned {
		if plan.Item != item {
			continue
		}
		if pos, ok := macro.TargetPosition(plan.Target); ok && pos.Distance(slot) <= slotRadius {
			return false
		}
	}
	return true
}
