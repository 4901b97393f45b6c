package combat

import (
	"gonum.org/v1/gonum/floats"

	"github.com/nstehr/vimy/swarm-core/model"
)

const (
	// finite difference step for the kiting potential
	kiteDelta = 0.5
	// length of the kiting move
	kiteDistance = 2.0
	// radius handed to the host when a retreat path runs out
	safeSpotRadius = 8.0
)

// FightWith picks the first applicable tactic for a combat unit:
// dodge, fall back to creep, shoot what is in range, then engage or retreat
// depending on the local prediction. It returns nil when the unit should
// keep its current order.
func (s *Step) FightWith(u *model.Unit) model.Action {
	if s.dodge != nil {
		if a := s.dodge.DodgeWith(u); a != nil {
			return a
		}
	}
	if !u.IsFlying && !s.eng.Global() && !u.IsStructure() {
		if a := s.RetreatToCreep(u); a != nil {
			return a
		}
	}
	if u.AttackReady() {
		if targets := s.shootable[u.Tag]; len(targets) > 0 {
			return model.Attack{Target: s.pickTarget(u, targets).Tag}
		}
	}
	target, ok := s.targets[u.Tag]
	if !ok {
		return nil
	}
	if u.IsStructure() {
		return nil
	}
	if !s.eng.Local(u.Tag) {
		return s.RetreatWith(u, s.params.RetreatPathLimit)
	}

	if !u.AttackReady() && u.GroundRange >= 2 && s.obs.InPathingGrid(u.Position) {
		if a := s.kite(u); a != nil {
			return a
		}
	}
	if s.IsUnitSafe(u, model.SafetyLimit) && !s.obs.HasCreep(u.Position) {
		if a := s.runby(u); a != nil {
			return a
		}
	}
	if u.GroundRange < 2 {
		return model.AttackMove{Target: target.Position}
	}
	return model.Attack{Target: target.Tag}
}

// RetreatWith moves u limit cells down its retreat map. When the path is
// shorter than that the host picks the closest safe spot instead.
func (s *Step) RetreatWith(u *model.Unit, limit int) model.Action {
	limit = max(limit, 2)
	if m := s.retreatMap(u.IsFlying); m != nil {
		if path := m.Path(u.Position.Point(), limit); len(path) >= limit {
			return model.Move{Target: path[len(path)-1].Center()}
		}
	}
	return s.moveToSafeSpot(u)
}

func (s *Step) moveToSafeSpot(u *model.Unit) model.Action {
	g := s.safetyGrid(u.IsFlying)
	if g == nil {
		return nil
	}
	return model.Move{Target: s.host.FindClosestSafeSpot(g, u.Position, safeSpotRadius)}
}

// RetreatToCreep walks a ground unit that is off creep back toward it.
func (s *Step) RetreatToCreep(u *model.Unit) model.Action {
	if s.obs.HasCreep(u.Position) {
		return nil
	}
	m := s.dijkstraMap(retreatCreep)
	if m == nil {
		return nil
	}
	path := m.Path(u.Position.Point(), s.params.CreepPathIndex)
	if len(path) <= 1 {
		return nil
	}
	return model.Move{Target: path[len(path)-1].Center()}
}

// KeepUnitSafe retreats u when it stands on a cell threatened above limit.
func (s *Step) KeepUnitSafe(u *model.Unit, limit float64) model.Action {
	if s.IsUnitSafe(u, limit) {
		return nil
	}
	return s.RetreatWith(u, s.params.RetreatPathLimit)
}

// runby attack-moves along the run-by map, bypassing the enemy army.
func (s *Step) runby(u *model.Unit) model.Action {
	m := s.runbyMap(u.IsFlying)
	if m == nil {
		return nil
	}
	n := s.params.RunbyPathIndex + 1
	path := m.Path(u.Position.Point(), n)
	if len(path) < n {
		return nil
	}
	return model.AttackMove{Target: path[n-1].Center()}
}

// kite steps down the gradient of the summed enemy range overlap.
func (s *Step) kite(u *model.Unit) model.Action {
	threats := make([]*model.Unit, 0, len(s.EnemyCombatants))
	for _, e := range s.EnemyCombatants {
		if e.CanAttack(u) {
			threats = append(threats, e)
		}
	}
	if len(threats) == 0 {
		return nil
	}
	potential := func(p model.Position) float64 {
		v := 0.0
		for _, e := range threats {
			gap := p.Distance(e.Position) - u.Radius - e.Radius
			v += max(0, s.params.KiteSafetyMargin+e.Range(u)-gap)
		}
		return v
	}
	p := u.Position
	grad := []float64{
		(potential(p.Offset(kiteDelta, 0)) - potential(p.Offset(-kiteDelta, 0))) / (2 * kiteDelta),
		(potential(p.Offset(0, kiteDelta)) - potential(p.Offset(0, -kiteDelta))) / (2 * kiteDelta),
	}
	norm := floats.Norm(grad, 2)
	if norm < 1e-6 {
		return nil
	}
	floats.Scale(kiteDistance/norm, grad)
	return model.Move{Target: p.Offset(-grad[0], -grad[1])}
}

// pickTarget scores targets already in range: damage they deal to u over
// their remaining health, with workers and passive structures discounted
// and the current target favored.
func (s *Step) pickTarget(u *model.Unit, targets []*model.Unit) *model.Unit {
	current, _ := u.OrderTarget()
	var (
		best      *model.Unit
		bestScore float64
	)
	for _, t := range targets {
		score := (1 + t.DPS(u)) / (1 + 0.1*t.HitPoints())
		switch {
		case t.IsWorker():
			score *= 0.5
		case t.IsStructure() && !t.IsCombatant():
			score *= 0.1
		}
		if t.Tag == current {
			score *= 2
		}
		score += tieBreakScale * tieBreak(u.Tag, t.Tag) * score
		if best == nil || score > bestScore {
			best, bestScore = t, score
		}
	}
	return best
}
