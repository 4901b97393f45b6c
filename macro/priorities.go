package macro

import (
	"math"

	"github.com/nstehr/vimy/swarm-core/model"
)

// expansionWorkers is the harvester capacity a hatchery under construction will add.
const expansionWorkers = 22

// CompositionValues scores every wanted unit type by how far it lags its
// target, -(have+0.5)/max(1, ceil(target)). Types with a target below one are
// left out.
func CompositionValues(obs *model.Observation, comp model.Composition) map[model.Item]float64 {
	out := make(map[model.Item]float64, len(comp))
	for _, t := range comp.Types() {
		target := comp[t]
		if target < 1 {
			continue
		}
		have := float64(obs.Count(model.UnitItem(t), model.CountActual|model.CountPending))
		out[model.UnitItem(t)] = -(have + 0.5) / max(1, math.Ceil(target))
	}
	return out
}

// NeedsPlan reports whether a new plan for item should be added: the target
// is not met counting plans, nothing is planned yet, and requirements are ready.
func NeedsPlan(obs *model.Observation, item model.Item, target float64) bool {
	if target < 1 {
		return false
	}
	if obs.Count(item, model.CountPlanned) > 0 {
		return false
	}
	if float64(obs.Count(item, model.CountAll)) >= target {
		return false
	}
	return len(obs.MissingRequirements(item)) == 0
}

// UpgradeValues weights the upgrades of every unit in comp by the resources
// invested in that unit, normalised so the largest is 1. Zergling investment
// counts half. Upgrades rejected by permit are left out.
func UpgradeValues(comp model.Composition, permit func(model.UpgradeID) bool) map[model.Item]float64 {
	weights := make(map[model.UpgradeID]float64)
	for _, t := range comp.Types() {
		cost := model.CostOf(model.UnitItem(t))
		invested := cost.Minerals + 2*cost.Vespene
		if t == model.Zergling {
			invested *= 0.5
		}
		for _, u := range model.UpgradesByUnit[t] {
			weights[u] += comp[t] * invested
		}
	}
	top := 0.0
	for u, w := range weights {
		if permit != nil && !permit(u) {
			delete(weights, u)
			continue
		}
		top = max(top, w)
	}
	out := make(map[model.Item]float64, len(weights))
	if top <= 0 {
		return out
	}
	for u, w := range weights {
		out[model.UpgradeItem(u)] = w / top
	}
	return out
}

// ExpansionValue is 3·(saturation−1), where saturation is the share of worker
// capacity in use, counting 22 slots for each hatchery on the way.
func ExpansionValue(obs *model.Observation) float64 {
	pending := obs.Count(model.UnitItem(model.Hatchery), model.CountPending)
	for _, th := range obs.Townhalls {
		if !th.IsReady() {
			pending++
		}
	}
	capacity := float64(obs.MaxHarvesters() + expansionWorkers*pending)
	saturation := float64(obs.SupplyWorkers()) / max(1, capacity)
	return 3 * (min(1, max(0, saturation)) - 1)
}
