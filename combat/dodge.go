package combat

import (
	"github.com/nstehr/vimy/swarm-core/model"
	"github.com/nstehr/vimy/swarm-core/params"
)

// Circle is the damage area of one dodge item.
type Circle struct {
	Radius float64
	Damage float64
}

// DodgeUnits are enemy unit types that explode where they stand.
var DodgeUnits = map[model.UnitType][]Circle{
	model.DisruptorPhased: {{Radius: 1.5, Damage: 145}},
	model.Baneling:        {{Radius: 2.2, Damage: 19}},
}

// DodgeEffects are area effects worth stepping out of.
var DodgeEffects = map[model.EffectID][]Circle{
	model.EffectLurkerSpines:  {{Radius: 0.5, Damage: 20}},
	model.EffectPsiStorm:      {{Radius: 1.5, Damage: 96}},
	model.EffectCorrosiveBile: {{Radius: 1, Damage: 60}},
	model.EffectNuke:          {{Radius: 4, Damage: 150}, {Radius: 6, Damage: 75}, {Radius: 8, Damage: 75}},
}

// EffectDelay is the time between an effect appearing and its impact.
var EffectDelay = map[model.EffectID]float64{
	model.EffectCorrosiveBile: 50 / 22.4,
	model.EffectNuke:          320 / 22.4,
}

// minDodgeDistance is the distance below which the escape direction is undefined.
const minDodgeDistance = 1e-3

type dodgeItem struct {
	Position model.Position
	Circle   Circle
	Impact   float64
}

// Dodge tracks damage areas across steps. Delayed effects stay until their
// impact time has passed.
type Dodge struct {
	SafetyDistance float64
	SafetyTime     float64

	now     float64
	claws   bool
	effects []dodgeItem
	units   []dodgeItem
}

func NewDodge(p params.Parameters) *Dodge {
	return &Dodge{SafetyDistance: p.DodgeSafetyDistance, SafetyTime: p.DodgeSafetyTime}
}

// Update records the dodge items visible in obs.
func (d *Dodge) Update(obs *model.Observation) {
	d.now = obs.Time
	d.claws = obs.HasUpgrade(model.UpgradeTunnelingClaws)

	d.units = d.units[:0]
	for _, e := range obs.EnemyAll {
		for _, c := range DodgeUnits[e.Type] {
			d.units = append(d.units, dodgeItem{Position: e.Position, Circle: c, Impact: d.now})
		}
	}

	for _, eff := range obs.Effects {
		impact := d.now + EffectDelay[eff.ID]
		for _, p := range eff.Positions {
			for _, c := range DodgeEffects[eff.ID] {
				d.addEffect(dodgeItem{Position: p, Circle: c, Impact: impact})
			}
		}
	}

	kept := d.effects[:0]
	for _, it := range d.effects {
		if it.Impact >= d.now {
			kept = append(kept, it)
		}
	}
	d.effects = kept
}

// addEffect keeps the first sighting of an effect so its impact time does
// not slide forward.
func (d *Dodge) addEffect(it dodgeItem) {
	for _, e := range d.effects {
		if e.Position == it.Position && e.Circle == it.Circle {
			return
		}
	}
	d.effects = append(d.effects, it)
}

// Pending reports how many items are being tracked.
func (d *Dodge) Pending() int { return len(d.effects) + len(d.units) }

// DodgeWith moves u out of the first damage area it cannot otherwise
// escape before impact.
func (d *Dodge) DodgeWith(u *model.Unit) model.Action {
	for _, items := range [][]dodgeItem{d.effects, d.units} {
		for _, it := range items {
			if a := d.dodgeItem(u, it); a != nil {
				return a
			}
		}
	}
	return nil
}

func (d *Dodge) dodgeItem(u *model.Unit, it dodgeItem) model.Action {
	remaining := max(0, it.Impact-d.now-d.SafetyTime)
	bonus := speedFactor * u.Speed * remaining
	have := u.Position.Distance(it.Position)
	want := it.Circle.Radius + u.Radius
	if have+bonus >= want+d.SafetyDistance {
		return nil
	}
	if u.IsBurrowed && !(d.claws && u.Type == model.RoachBurrowed) {
		return model.UseAbility{Ability: model.AbilityBurrowUp}
	}
	from := it.Position
	if have < minDodgeDistance {
		from = from.Offset(-minDodgeDistance, 0)
	}
	return model.Move{Target: from.Towards(u.Position, want+d.SafetyDistance)}
}
