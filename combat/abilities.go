package combat

import (
	"github.com/nstehr/vimy/swarm-core/model"
)

const (
	BileRange  = 9.0
	bileBonus  = 2.0
	BileDelay  = 50 / 22.4

	TransfuseRange  = 7.0
	transfuseBonus  = 2.0
	transfuseEnergy = 50.0
	// minimum missing health worth a transfusion
	transfuseWounded = 75.0
)

func bilePriority(u *model.Unit) float64 {
	p := 10 + u.MaxDPS()
	p /= 100 + u.HitPoints()
	p /= 1 + 10*u.Speed
	return p
}

// BileWith casts corrosive bile from a ravager on the best visible target,
// or walks toward it when it is only within the extended search range.
func (s *Step) BileWith(u *model.Unit) model.Action {
	if !u.HasAbility(model.AbilityCorrosiveBile) {
		return nil
	}
	bonus := 0.0
	if s.IsUnitSafe(u, model.SafetyLimit) {
		bonus = bileBonus
	}
	found := s.host.UnitsInRange([]model.Position{u.Position}, []float64{u.Radius + BileRange + bonus}, model.Enemy)
	if len(found) == 0 {
		return nil
	}
	var best *model.Unit
	for _, t := range found[0] {
		if t.IsHallucination || model.IsChangelingType(t.Type) || !s.obs.IsVisible(t.Position) {
			continue
		}
		if best == nil || bilePriority(t) > bilePriority(best) {
			best = t
		}
	}
	if best == nil {
		return nil
	}
	if u.Distance(best) <= u.Radius+BileRange {
		return model.AbilityAt(model.AbilityCorrosiveBile, best.Position)
	}
	return model.Move{Target: best.Position}
}

var transfuseStructures = map[model.UnitType]bool{
	model.SpineCrawler: true,
	model.SporeCrawler: true,
}

// TransfuseWith heals the most wounded eligible friend near queen u. A
// target is healed by at most one queen per step.
func (s *Step) TransfuseWith(u *model.Unit) model.Action {
	if u.Energy < transfuseEnergy {
		return nil
	}
	bonus := 0.0
	if s.IsUnitSafe(u, model.SafetyLimit) && s.obs.HasCreep(u.Position) {
		bonus = transfuseBonus
	}
	found := s.host.UnitsInRange([]model.Position{u.Position}, []float64{u.Radius + TransfuseRange + bonus}, model.Mine)
	if len(found) == 0 {
		return nil
	}
	var best *model.Unit
	for _, t := range found[0] {
		if t.Tag == u.Tag || s.transfused[t.Tag] {
			continue
		}
		if t.Health+transfuseWounded > t.HealthMax {
			continue
		}
		if t.IsStructure() && !transfuseStructures[t.Type] {
			continue
		}
		if best == nil || t.ShieldHealthFraction() < best.ShieldHealthFraction() {
			best = t
		}
	}
	if best == nil {
		return nil
	}
	if u.Distance(best) <= u.Radius+TransfuseRange {
		s.transfused[best.Tag] = true
		return model.AbilityOn(model.AbilityTransfusion, best.Tag)
	}
	return model.Move{Target: best.Position}
}

// BurrowWith handles roach burrow micro: hide when badly hurt mid-fight,
// surface once healed unless the fight is lost, and tunnel away when claws
// are researched.
func (s *Step) BurrowWith(u *model.Unit) model.Action {
	switch u.Type {
	case model.Roach:
		if !s.obs.HasUpgrade(model.UpgradeBurrow) ||
			u.HealthFraction() >= s.params.BurrowHealth ||
			u.IsRevealed ||
			u.AttackReady() {
			return nil
		}
		return model.UseAbility{Ability: model.AbilityBurrowDown}
	case model.RoachBurrowed:
		losing := s.Prediction.Local[u.Tag] < s.params.LocalDisengageThreshold
		if u.HealthFraction() >= s.params.UnburrowHealth && !losing {
			return model.UseAbility{Ability: model.AbilityBurrowUp}
		}
		if losing && s.obs.HasUpgrade(model.UpgradeTunnelingClaws) {
			return s.RetreatWith(u, s.params.RetreatPathLimit)
		}
	}
	return nil
}
