package combat

import (
	"cmp"
	"slices"

	"github.com/nstehr/vimy/swarm-core/model"
	"github.com/nstehr/vimy/swarm-core/numeric"
)

const (
	injectEnergy = 25.0
	// energy regeneration per second
	energyRegen = 22.4 * 9 / 256
	// larva plus supply above which injecting stops paying off
	injectSupplyCap = 200
)

// QueenRoles splits queens between injecting and spreading creep. Queens in
// neither map fight.
type QueenRoles struct {
	Inject map[model.Tag]*model.Unit
	Creep  map[model.Tag]bool
}

// AssignQueens pairs each ready townhall with its nearest free queen. The
// remaining queens spread creep once there are at least two spare.
func AssignQueens(obs *model.Observation) QueenRoles {
	roles := QueenRoles{
		Inject: make(map[model.Tag]*model.Unit),
		Creep:  make(map[model.Tag]bool),
	}
	queens := obs.OfType(model.Queen)
	slices.SortFunc(queens, func(a, b *model.Unit) int { return cmp.Compare(a.Tag, b.Tag) })
	if len(queens) == 0 {
		return roles
	}

	if obs.SupplyUsed+obs.Bank.Larva < injectSupplyCap {
		var townhalls []*model.Unit
		for _, th := range obs.Townhalls {
			if th.IsReady() {
				townhalls = append(townhalls, th)
			}
		}
		if len(townhalls) > 0 {
			positions := make([]model.Position, len(queens))
			for i, q := range queens {
				positions[i] = q.Position
			}
			thPositions := make([]model.Position, len(townhalls))
			for i, th := range townhalls {
				thPositions[i] = th.Position
			}
			cost := numeric.PairwiseDistances(thPositions, positions)
			capacity := make([]float64, len(queens))
			for i := range capacity {
				capacity[i] = 1
			}
			for i, j := range numeric.NewSolver().Distribute(cost, capacity, nil) {
				if j >= 0 {
					roles.Inject[queens[j].Tag] = townhalls[i]
				}
			}
		}
	}

	if len(queens) >= len(roles.Inject)+2 {
		for _, q := range queens {
			if _, ok := roles.Inject[q.Tag]; !ok {
				roles.Creep[q.Tag] = true
			}
		}
	}
	return roles
}

// QueenWith orders one queen: heal, stay safe, inject, spread creep, fight.
// creep may be nil.
func (s *Step) QueenWith(q *model.Unit, roles QueenRoles, creep *CreepSpread) model.Action {
	if a := s.TransfuseWith(q); a != nil {
		return a
	}
	if !s.IsUnitSafe(q, model.SafetyLimit) {
		if a := s.FightWith(q); a != nil {
			return a
		}
		return s.RetreatWith(q, s.params.RetreatPathLimit)
	}
	if th, ok := roles.Inject[q.Tag]; ok {
		if a := injectWith(q, th); a != nil {
			return a
		}
	}
	if roles.Creep[q.Tag] {
		if creep != nil && ShouldSpread(s.obs) {
			if a := creep.SpreadWith(s, q); a != nil {
				return a
			}
		}
		if a := s.RetreatToCreep(q); a != nil {
			return a
		}
	}
	return s.FightWith(q)
}

// injectWith casts inject once both the energy and the previous buff allow
// it, and walks over early enough to arrive just in time.
func injectWith(q, th *model.Unit) model.Action {
	wait := max(th.BuffRemain/22.4, (injectEnergy-q.Energy)/energyRegen)
	if wait <= 0 {
		return model.AbilityOn(model.AbilityInjectLarva, th.Tag)
	}
	if q.Speed <= 0 {
		return nil
	}
	gap := max(0, q.Distance(th)-q.Radius-th.Radius)
	if wait < gap/(speedFactor*q.Speed) {
		return model.Move{Target: th.Position}
	}
	return nil
}
