package agent

import (
	"cmp"
	"log/slog"
	"maps"
	"slices"

	"github.com/nstehr/vimy/swarm-core/harvest"
	"github.com/nstehr/vimy/swarm-core/macro"
	"github.com/nstehr/vimy/swarm-core/model"
	"github.com/nstehr/vimy/swarm-core/strategy"
)

// naturalThreat is the ground threat at the natural above which the build
// order is abandoned.
const naturalThreat = 10.0

// macroStep runs the build order while it lasts and the priority-driven
// plans afterwards, then lets the planner issue production orders.
func (a *Agent) macroStep(obs *model.Observation, host model.Host, strat *strategy.Strategy, orders Orders) {
	a.checkPrelude(obs, host)

	var plans []*macro.Plan
	if step := a.prelude.Step(obs); step != nil {
		plans = step.Plans
		a.planner.SetPriorities(step.Priorities)
		orders.Merge(step.Actions)
	} else {
		priorities := a.priorities(obs, strat)
		a.planner.SetPriorities(priorities)
		plans = a.strategicPlans(obs, host, strat, priorities)
	}

	for _, plan := range dedupePlans(plans) {
		a.planner.Add(plan)
	}
	n := orders.Merge(a.planner.Step(obs, host))
	slog.Debug("macro step", "plans", len(a.planner.Plans()), "orders", n)
}

// checkPrelude stops the build order once a rush is detected or the
// natural is under threat.
func (a *Agent) checkPrelude(obs *model.Observation, host model.Host) {
	if a.prelude.Done() {
		return
	}
	if a.strategist.Intel().Rushed {
		a.prelude.Stop("rush detected")
		return
	}
	if i := obs.NaturalBase(); i >= 0 && obs.GroundSafety != nil {
		if !host.IsPositionSafe(obs.GroundSafety, obs.Bases[i].Position, naturalThreat) {
			a.prelude.Stop("natural under threat")
		}
	}
}

// priorities maps each wanted item to its planning priority. Values come from
// how far each item lags its target, scaled by the learned transforms with
// the last combat prediction as confidence.
func (a *Agent) priorities(obs *model.Observation, strat *strategy.Strategy) map[model.Item]float64 {
	out := make(map[model.Item]float64)
	set := func(item model.Item, v float64) {
		if cur, ok := out[item]; !ok || v > cur {
			out[item] = v
		}
	}

	for item, v := range macro.CompositionValues(obs, strat.MacroComposition()) {
		set(item, a.params.EconomyPriority.Apply(v, a.confidence))
	}
	out[model.UnitItem(model.Hatchery)] = strat.ExpansionPriority()

	boost := 0.0
	if a.strategist.Intel().Rushed {
		boost = a.params.ArmyRushBoost()
	}
	for item, v := range macro.CompositionValues(obs, strat.ArmyComposition()) {
		set(item, a.params.ArmyPriority.Apply(v, a.confidence)+boost)
	}

	for item, v := range macro.UpgradeValues(strat.Target(), strat.FilterUpgrade) {
		set(item, a.params.TechPriority.Apply(v, a.confidence))
	}
	return out
}

// strategicPlans collects this step's new plans in precedence order: the
// composition and its upgrades, missing tech, supply, expansion, static
// defense and extractors.
func (a *Agent) strategicPlans(obs *model.Observation, host model.Host, strat *strategy.Strategy, priorities map[model.Item]float64) []*macro.Plan {
	var plans []*macro.Plan

	target := strat.Target()
	items := slices.SortedFunc(maps.Keys(priorities), compareItems)
	for _, item := range items {
		if item == model.UnitItem(model.Hatchery) {
			continue // ExpandPlan owns hatcheries
		}
		want := 1.0
		if item.IsUnit() {
			want = target[item.UnitType()]
		}
		if macro.NeedsPlan(obs, item, want) {
			plans = append(plans, macro.NewPlan(item, priorities[item]))
		}
	}

	plans = append(plans, strat.TechPlans()...)
	if plan := strat.SupplyPlan(); plan != nil {
		plans = append(plans, plan)
	}
	if plan := strat.ExpandPlan(); plan != nil {
		plans = append(plans, plan)
	}
	plans = append(plans, strat.StaticDefense(host, a.planner.Plans())...)

	extractor := model.UnitItem(model.Extractor)
	want := harvest.ExtractorsWanted(obs, a.gasTarget)
	for have := obs.Count(extractor, model.CountAll); have < want; have++ {
		plans = append(plans, macro.NewUnitPlan(model.Extractor, 0))
	}
	return plans
}

// dedupePlans keeps the first plan per item. Fixed plans carry their own
// target and are always kept.
func dedupePlans(plans []*macro.Plan) []*macro.Plan {
	seen := make(map[model.Item]bool, len(plans))
	out := plans[:0]
	for _, plan := range plans {
		if !plan.Fixed {
			if seen[plan.Item] {
				continue
			}
			seen[plan.Item] = true
		}
		out = append(out, plan)
	}
	return out
}

func compareItems(a, b model.Item) int {
	return cmp.Or(cmp.Compare(a.Kind, b.Kind), cmp.Compare(a.ID, b.ID))
}

// gasStep nudges the gas ratio toward what the outstanding plans and the
// composition deficit need and returns the harvesters with the number of
// them to put on gas.
func (a *Agent) gasStep(obs *model.Observation, strat *strategy.Strategy) ([]*model.Unit, int) {
	builders := a.planner.Builders(obs)
	var harvesters []*model.Unit
	for _, w := range obs.Workers {
		if !builders[w.Tag] {
			harvesters = append(harvesters, w)
		}
	}

	required := a.planner.PlannedCost().Add(strat.Deficit().Cost()).Sub(obs.Bank)
	a.gasRatio = harvest.UpdateGasRatio(a.gasRatio, required)
	a.gasTarget = harvest.GasTarget(obs, len(harvesters), a.gasRatio)
	return harvesters, a.gasTarget
}
