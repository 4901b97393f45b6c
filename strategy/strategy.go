// Package strategy turns an observation into a target composition over unit
// types and the tech, expansion, supply and static defense plans behind it.
package strategy

import (
	"fmt"
	"maps"
	"math"
	"slices"

	"github.com/nstehr/vimy/swarm-core/macro"
	"github.com/nstehr/vimy/swarm-core/model"
	"github.com/nstehr/vimy/swarm-core/params"
	"github.com/nstehr/vimy/swarm-core/rules"
)

// Tier is a stage of the tech ladder.
type Tier int

const (
	TierHatch Tier = iota
	TierLair
	TierHive
	TierLategame
)

func (t Tier) String() string {
	switch t {
	case TierHatch:
		return "HATCH"
	case TierLair:
		return "LAIR"
	case TierHive:
		return "HIVE"
	case TierLategame:
		return "LATEGAME"
	}
	return fmt.Sprintf("Tier(%d)", int(t))
}

// Wall-clock floors for leaving each tier, in seconds.
const (
	lairTime     = 3 * 60
	hiveTime     = 6 * 60
	lategameTime = 9 * 60
)

// SupplyPriority is the priority of overlord plans added for supply.
const SupplyPriority = 3.0

const maxSupply = 200.0

// Intel is what the agent knows beyond the current observation.
type Intel struct {
	// MinTier keeps the ladder from stepping back down.
	MinTier Tier
	Rushed  bool
}

// Strategy is computed fresh every step.
type Strategy struct {
	obs    *model.Observation
	p      params.Parameters
	filter *rules.UpgradeFilter
	intel  Intel
	tier   Tier

	macroComp model.Composition
	armyComp  model.Composition
}

// New evaluates the tier for obs. A nil filter permits every upgrade.
func New(obs *model.Observation, p params.Parameters, filter *rules.UpgradeFilter, intel Intel) *Strategy {
	s := &Strategy{obs: obs, p: p, filter: filter, intel: intel}
	s.tier = max(intel.MinTier, s.computeTier())
	return s
}

func (s *Strategy) computeTier() Tier {
	drones := float64(s.obs.SupplyWorkers())
	townhalls := len(s.obs.Townhalls)
	now := s.obs.Time
	switch {
	case drones < s.p.Tier1Drones || townhalls < 3 || now < lairTime:
		return TierHatch
	case drones < s.p.Tier2Drones || townhalls < 4 || now < hiveTime:
		return TierLair
	case drones < s.p.Tier3Drones || townhalls < 5 || now < lategameTime:
		return TierHive
	}
	return TierLategame
}

func (s *Strategy) Tier() Tier { return s.tier }

// MacroComposition is the economy and tech the current tier always wants.
func (s *Strategy) MacroComposition() model.Composition {
	if s.macroComp != nil {
		return s.macroComp
	}
	c := model.Composition{
		model.Drone:        max(1, min(float64(s.obs.MaxHarvesters()), s.p.Tier3Drones)),
		model.Queen:        max(0, min(s.p.QueensLimit, s.p.QueensPerHatch*float64(len(s.obs.Townhalls)))),
		model.SpawningPool: 1,
	}
	burrowed := 0
	for _, u := range s.obs.EnemyCombatants() {
		if u.IsBurrowed {
			burrowed++
		}
	}
	if burrowed > 0 {
		c[model.Overseer] += float64(min(10, burrowed/3))
	}
	if s.tier >= TierLair {
		c[model.Lair]++
		c[model.Overseer]++
		c[model.RoachWarren]++
	}
	if s.tier >= TierHive {
		c[model.Hive]++
		c[model.Overseer]++
		c[model.HydraliskDen]++
		c[model.EvolutionChamber]++
	}
	if s.tier >= TierLategame {
		c[model.GreaterSpire]++
		c[model.EvolutionChamber]++
	}
	s.macroComp = c
	return c
}

func (s *Strategy) buildable(t model.UnitType) bool {
	return len(s.obs.MissingRequirements(model.UnitItem(t))) == 0
}

// EnemyComposition counts the visible enemy units by type.
func (s *Strategy) EnemyComposition() model.Composition {
	c := model.Composition{}
	for _, u := range s.obs.EnemyAll {
		if model.IsChangelingType(u.Type) {
			continue
		}
		c[u.Type]++
	}
	return c
}

// CounterComposition answers every enemy type with its buildable counters,
// splitting the enemy's value by counter weight.
func (s *Strategy) CounterComposition() model.Composition {
	out := model.Composition{}
	enemy := s.EnemyComposition()
	for _, et := range enemy.Types() {
		counters, ok := Counters[et]
		if !ok {
			continue
		}
		var options []model.UnitType
		sum := 0.0
		for _, ct := range slices.Sorted(maps.Keys(counters)) {
			if s.buildable(ct) {
				options = append(options, ct)
				sum += counters[ct]
			}
		}
		if sum <= 0 {
			continue
		}
		value := enemy[et] * model.Value(et)
		for _, ct := range options {
			out[ct] += value * counters[ct] / (model.Value(ct) * sum)
		}
	}
	return out
}

// ArmyComposition scales the counters, mixes in ravagers and corruptors and
// spends a large bank on whatever it can afford. Nothing is wanted before a
// spawning pool is ready.
func (s *Strategy) ArmyComposition() model.Composition {
	if s.armyComp != nil {
		return s.armyComp
	}
	if s.obs.ReadyCount(model.SpawningPool) == 0 {
		s.armyComp = model.Composition{}
		return s.armyComp
	}
	c := s.CounterComposition().Scale(s.p.CounterFactor)
	c[model.Ravager] += math.Floor(c[model.Roach] / s.p.RavagerMixin)
	c[model.Corruptor] += math.Floor(c[model.BroodLord] / s.p.CorruptorMixin)
	for t, n := range c {
		if n <= 0 {
			delete(c, t)
		}
	}
	if c.Total() < 1 {
		c[model.Zergling] = 2
	}

	bank := s.obs.Bank
	hydras := min(bank.Minerals/100, bank.Vespene/50, bank.Larva)
	lings := min(bank.Minerals/50, bank.Larva)
	queens := bank.Minerals / 150
	if hydras > s.p.HydrasWhenBanking {
		c[model.Hydralisk] += hydras
		c[model.BroodLord] += hydras
	} else {
		if lings > s.p.LingsWhenBanking {
			c[model.Zergling] += lings
		}
		if queens > s.p.QueensWhenBanking {
			c[model.Queen] += queens
		}
	}
	s.armyComp = c
	return c
}

// Target is the full wanted composition.
func (s *Strategy) Target() model.Composition {
	return s.MacroComposition().Add(s.ArmyComposition())
}

// Deficit is Target minus what exists, floored at zero.
func (s *Strategy) Deficit() model.Composition {
	out := model.Composition{}
	for t, n := range s.Target() {
		have := float64(s.obs.Count(model.UnitItem(t), model.CountActual|model.CountPending))
		if d := n - have; d > 0 {
			out[t] = d
		}
	}
	return out
}

// FilterUpgrade reports whether u may be researched now.
func (s *Strategy) FilterUpgrade(u model.UpgradeID) bool {
	if s.filter == nil {
		return true
	}
	return s.filter.Permit(rules.RuleEnv{
		Obs:     s.obs,
		Tier:    int(s.tier),
		Upgrade: model.UpgradeItem(u).String(),
		Rushed:  s.intel.Rushed,
	})
}

// TechPlans plans every missing piece of tech behind the target: the target
// types themselves, their permitted upgrades, the buildings researching
// those and all transitive requirements.
func (s *Strategy) TechPlans() []*macro.Plan {
	seen := make(map[model.Item]bool)
	var queue []model.Item
	push := func(item model.Item) {
		if !seen[item] {
			seen[item] = true
			queue = append(queue, item)
		}
	}
	target := s.Target()
	for _, t := range target.Types() {
		push(model.UnitItem(t))
		for _, u := range model.UpgradesByUnit[t] {
			if s.FilterUpgrade(u) {
				push(model.UpgradeItem(u))
			}
		}
	}
	var plans []*macro.Plan
	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]
		info := model.Items[item]
		for _, r := range info.Requires {
			push(r)
		}
		if producer, ok := s.missingProducer(info.TrainedFrom); ok {
			push(model.UnitItem(producer))
		}
		if s.obs.Count(item, model.CountAll) > 0 {
			continue
		}
		plans = append(plans, macro.NewPlan(item, s.p.TechPlanPriority))
	}
	return plans
}

// missingProducer returns the first producer type to plan when none of
// types exist. Larva and drones are never planned as producers.
func (s *Strategy) missingProducer(types []model.UnitType) (model.UnitType, bool) {
	if len(types) == 0 || types[0] == model.Larva || types[0] == model.Drone {
		return model.NoUnit, false
	}
	for _, t := range types {
		if s.obs.Count(model.UnitItem(t), model.CountAll) > 0 {
			return model.NoUnit, false
		}
	}
	return types[0], true
}

// ExpansionPriority is the saturation term plus a boost while no enemy
// army is in sight.
func (s *Strategy) ExpansionPriority() float64 {
	v := macro.ExpansionValue(s.obs)
	if len(s.obs.EnemyCombatants()) == 0 {
		v += math.Exp(s.p.ExpansionBoostLog)
	}
	return v
}

// ExpandPlan returns a hatchery plan when expanding is worth it and none is
// queued.
func (s *Strategy) ExpandPlan() *macro.Plan {
	priority := s.ExpansionPriority()
	if priority <= -1 {
		return nil
	}
	if s.obs.Count(model.UnitItem(model.Hatchery), model.CountPlanned) > 0 {
		return nil
	}
	return macro.NewUnitPlan(model.Hatchery, priority)
}

// SupplyPlan returns an overlord plan when supply in the pipeline falls
// short of usage plus a buffer proportional to larva income.
func (s *Strategy) SupplyPlan() *macro.Plan {
	overlords := s.obs.Count(model.UnitItem(model.Overlord), model.CountPending|model.CountPlanned)
	supply := s.obs.SupplyCap + model.SupplyProvided(model.Overlord)*float64(overlords)
	if supply >= maxSupply {
		return nil
	}
	buffer := math.Exp(s.p.SupplyBufferLog) * s.obs.Income.Larva
	if supply >= s.obs.SupplyUsed+buffer {
		return nil
	}
	return macro.NewUnitPlan(model.Overlord, SupplyPriority)
}
