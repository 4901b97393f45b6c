package agent

import (
	"github.com/nstehr/vimy/swarm-core/combat"
	"github.com/nstehr/vimy/swarm-core/model"
)

const (
	// harvesterThreat is the ground threat above which a harvester leaves
	// its resource.
	harvesterThreat = 6.0
	// structures under construction below this health are cancelled
	cancelHealth = 0.05
)

// cancelDoomed cancels structures that will not finish alive.
func cancelDoomed(obs *model.Observation, orders Orders) {
	for _, u := range obs.Mine {
		if u.IsStructure() && !u.IsReady() && u.HealthFraction() < cancelHealth {
			orders.Add(u.Tag, model.UseAbility{Ability: model.AbilityCancel})
		}
	}
}

// harvestLayer reassigns harvesters and keeps each one mining unless it has
// to dodge or flee.
func (a *Agent) harvestLayer(step *combat.Step, harvesters []*model.Unit, gasTarget int, orders Orders) {
	obs := step.Observation()
	a.harvest.Step(obs, harvesters, gasTarget, a.params)
	for _, w := range harvesters {
		if orders.Has(w.Tag) {
			continue
		}
		act := a.dodge.DodgeWith(w)
		if act == nil && !step.IsUnitSafe(w, harvesterThreat) {
			act = step.RetreatWith(w, a.params.RetreatPathLimit)
		}
		if act == nil {
			act = a.harvest.GatherWith(obs, w)
		}
		orders.Add(w.Tag, act)
	}
}

// combatLayer orders the army, the queens, creep tumors, overlords and
// overseers, and changelings.
func (a *Agent) combatLayer(step *combat.Step, orders Orders) {
	obs := step.Observation()

	for _, u := range step.Combatants {
		if u.IsStructure() || orders.Has(u.Tag) {
			continue
		}
		var act model.Action
		switch u.Type {
		case model.Ravager:
			act = step.BileWith(u)
		case model.Roach, model.RoachBurrowed:
			act = step.BurrowWith(u)
		}
		if act == nil {
			act = step.FightWith(u)
		}
		if act == nil {
			act = a.scouts.SearchWith(obs, u)
		}
		orders.Add(u.Tag, act)
	}

	roles := combat.AssignQueens(obs)
	for _, q := range obs.OfType(model.Queen) {
		if !orders.Has(q.Tag) {
			orders.Add(q.Tag, step.QueenWith(q, roles, a.creep))
		}
	}

	for _, t := range a.creep.Active(obs) {
		orders.Add(t.Tag, a.creep.SpreadWith(step, t))
	}

	var detect []model.Position
	for _, q := range a.planner.Blocked().Active(obs.Time) {
		detect = append(detect, q.Center())
	}
	orders.Merge(a.scouts.Actions(step, detect))

	for _, u := range obs.Mine {
		if model.IsChangelingType(u.Type) && !orders.Has(u.Tag) {
			orders.Add(u.Tag, a.scouts.SearchWith(obs, u))
		}
	}
}

// dodgeLayer moves every unit still without an order out of known danger.
func (a *Agent) dodgeLayer(obs *model.Observation, orders Orders) {
	for _, u := range obs.Mine {
		if !orders.Has(u.Tag) {
			orders.Add(u.Tag, a.dodge.DodgeWith(u))
		}
	}
}
