package rules

import (
	"github.com/nstehr/vimy/swarm-core/model"
)

// Tier values as seen from rule sources.
const (
	TierHatch = iota
	TierLair
	TierHive
	TierLategame
)

// RuleEnv wraps the observation and exposes helper methods callable from
// expr expressions. Item names are the lowercase names of model.UnitTypeByName
// and model.UpgradeByName; unknown names count as zero.
type RuleEnv struct {
	Obs *model.Observation
	// Tier is the current strategy tier (TierHatch..TierLategame).
	Tier int
	// Upgrade is the candidate when filtering upgrades.
	Upgrade string
	Rushed  bool
	Memory  map[string]any
}

func (e RuleEnv) item(name string) (model.Item, bool) {
	if t, ok := model.UnitTypeByName(name); ok {
		return model.UnitItem(t), true
	}
	if u, ok := model.UpgradeByName(name); ok {
		return model.UpgradeItem(u), true
	}
	return model.Item{}, false
}

// Count is existing plus in-production, excluding plans.
func (e RuleEnv) Count(name string) int {
	it, ok := e.item(name)
	if !ok || e.Obs == nil {
		return 0
	}
	return e.Obs.Count(it, model.CountActual|model.CountPending)
}

// Actual counts existing units only, finished or under construction.
func (e RuleEnv) Actual(name string) int {
	it, ok := e.item(name)
	if !ok || e.Obs == nil {
		return 0
	}
	return e.Obs.Count(it, model.CountActual)
}

// Planned includes queued plans on top of Count.
func (e RuleEnv) Planned(name string) int {
	it, ok := e.item(name)
	if !ok || e.Obs == nil {
		return 0
	}
	return e.Obs.Count(it, model.CountAll)
}

// Ready counts finished units of a type and its equivalents.
func (e RuleEnv) Ready(name string) int {
	t, ok := model.UnitTypeByName(name)
	if !ok || e.Obs == nil {
		return 0
	}
	return e.Obs.ReadyCount(t)
}

// Has reports a finished upgrade or at least one ready unit.
func (e RuleEnv) Has(name string) bool {
	if u, ok := model.UpgradeByName(name); ok {
		return e.Obs != nil && e.Obs.HasUpgrade(u)
	}
	return e.Ready(name) > 0
}

// Researching reports an upgrade that is done or in progress.
func (e RuleEnv) Researching(name string) bool {
	u, ok := model.UpgradeByName(name)
	return ok && e.Obs != nil && e.Obs.UpgradePending(u)
}

func (e RuleEnv) EnemyCount(name string) int {
	t, ok := model.UnitTypeByName(name)
	if !ok || e.Obs == nil {
		return 0
	}
	n := 0
	for _, u := range e.Obs.EnemyAll {
		if u.Type == t {
			n++
		}
	}
	return n
}

func (e RuleEnv) BurrowedEnemies() int {
	if e.Obs == nil {
		return 0
	}
	n := 0
	for _, u := range e.Obs.EnemyCombatants() {
		if u.IsBurrowed {
			n++
		}
	}
	return n
}

func (e RuleEnv) Time() float64 {
	if e.Obs == nil {
		return 0
	}
	return e.Obs.Time
}

func (e RuleEnv) Minerals() float64 {
	if e.Obs == nil {
		return 0
	}
	return e.Obs.Bank.Minerals
}

func (e RuleEnv) Vespene() float64 {
	if e.Obs == nil {
		return 0
	}
	return e.Obs.Bank.Vespene
}

func (e RuleEnv) Larva() float64 {
	if e.Obs == nil {
		return 0
	}
	return e.Obs.Bank.Larva
}

func (e RuleEnv) SupplyUsed() float64 {
	if e.Obs == nil {
		return 0
	}
	return e.Obs.SupplyUsed
}

func (e RuleEnv) SupplyLeft() float64 {
	if e.Obs == nil {
		return 0
	}
	return e.Obs.Bank.Supply
}

func (e RuleEnv) Townhalls() int {
	if e.Obs == nil {
		return 0
	}
	return len(e.Obs.Townhalls)
}

func (e RuleEnv) Workers() int {
	if e.Obs == nil {
		return 0
	}
	return e.Obs.SupplyWorkers()
}

func (e RuleEnv) EnemyRace() string {
	if e.Obs == nil {
		return ""
	}
	return string(e.Obs.EnemyRace)
}

var tierNames = map[string]int{"hatch": TierHatch, "lair": TierLair, "hive": TierHive, "lategame": TierLategame}

// TierAtLeast compares the current tier against a tier name.
func (e RuleEnv) TierAtLeast(name string) bool {
	t, ok := tierNames[name]
	return ok && e.Tier >= t
}
