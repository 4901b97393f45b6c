package model

import "slices"

// Order is a queued unit command as reported by the host.
type Order struct {
	Ability   AbilityID `json:"ability"`
	TargetTag Tag       `json:"targetTag,omitempty"`
	TargetPos *Position `json:"targetPos,omitempty"`
}

// Unit is an immutable per-step snapshot of a unit, structure or resource.
type Unit struct {
	Tag      Tag      `json:"tag"`
	Type     UnitType `json:"type"`
	Owner    Owner    `json:"owner"`
	Position Position `json:"position"`
	Radius   float64  `json:"radius"`

	Health    float64 `json:"health"`
	HealthMax float64 `json:"healthMax"`
	Shield    float64 `json:"shield"`
	ShieldMax float64 `json:"shieldMax"`
	Energy    float64 `json:"energy"`

	BuildProgress float64 `json:"buildProgress"`

	IsFlying        bool `json:"isFlying"`
	IsBurrowed      bool `json:"isBurrowed"`
	IsCloaked       bool `json:"isCloaked"`
	IsRevealed      bool `json:"isRevealed"`
	IsHallucination bool `json:"isHallucination"`
	IsCarrying      bool `json:"isCarrying"`

	// WeaponCooldown is in seconds; zero means ready to fire.
	WeaponCooldown float64 `json:"weaponCooldown"`
	// Speed is the real movement speed in distance per second.
	Speed       float64 `json:"speed"`
	GroundDPS   float64 `json:"groundDps"`
	AirDPS      float64 `json:"airDps"`
	GroundRange float64 `json:"groundRange"`
	AirRange    float64 `json:"airRange"`
	SightRange  float64 `json:"sightRange"`

	Orders    []Order     `json:"orders,omitempty"`
	Abilities []AbilityID `json:"abilities,omitempty"`

	// BuffRemain is the remaining duration of the inject-larva buff in game loops.
	BuffRemain float64 `json:"buffRemain,omitempty"`

	AssignedHarvesters int `json:"assignedHarvesters,omitempty"`
	IdealHarvesters    int `json:"idealHarvesters,omitempty"`

	// LastSeen is the game time the unit was last observed; set for remembered enemies.
	LastSeen float64 `json:"lastSeen,omitempty"`
}

// MinWeaponCooldown is the cooldown below which a weapon counts as ready.
const MinWeaponCooldown = 2.0 / 22.4

func (u *Unit) IsStructure() bool { return IsStructureType(u.Type) }
func (u *Unit) IsWorker() bool    { return IsWorkerType(u.Type) }
func (u *Unit) IsReady() bool     { return u.BuildProgress >= 1 }
func (u *Unit) IsIdle() bool      { return len(u.Orders) == 0 }
func (u *Unit) IsMine() bool      { return u.Owner == Mine }

// AttackReady reports whether the weapon cooldown has (nearly) elapsed.
func (u *Unit) AttackReady() bool { return u.WeaponCooldown <= MinWeaponCooldown }

func (u *Unit) HasAbility(a AbilityID) bool { return slices.Contains(u.Abilities, a) }

// HealthFraction is health over max health, 1 when max health is unknown.
func (u *Unit) HealthFraction() float64 {
	if u.HealthMax <= 0 {
		return 1
	}
	return u.Health / u.HealthMax
}

// ShieldHealthFraction combines shield and health into one fraction.
func (u *Unit) ShieldHealthFraction() float64 {
	total := u.HealthMax + u.ShieldMax
	if total <= 0 {
		return 1
	}
	return (u.Health + u.Shield) / total
}

// HitPoints is health plus shield.
func (u *Unit) HitPoints() float64 { return u.Health + u.Shield }

// Range returns the weapon range against target.
func (u *Unit) Range(target *Unit) float64 {
	if target.IsFlying {
		return u.AirRange
	}
	return u.GroundRange
}

// DPS returns the damage per second against target.
func (u *Unit) DPS(target *Unit) float64 {
	if target.IsFlying {
		return u.AirDPS
	}
	return u.GroundDPS
}

// MaxDPS is the better of ground and air dps.
func (u *Unit) MaxDPS() float64 { return max(u.GroundDPS, u.AirDPS) }

// CanAttack reports whether u has any weapon able to hit target.
func (u *Unit) CanAttack(target *Unit) bool { return u.DPS(target) > 0 }

// Distance is the center-to-center distance.
func (u *Unit) Distance(o *Unit) float64 { return u.Position.Distance(o.Position) }

// FirstOrder returns the current order, if any.
func (u *Unit) FirstOrder() (Order, bool) {
	if len(u.Orders) == 0 {
		return Order{}, false
	}
	return u.Orders[0], true
}

// OrderTarget returns the tag targeted by the current order.
func (u *Unit) OrderTarget() (Tag, bool) {
	o, ok := u.FirstOrder()
	if !ok || o.TargetTag == 0 {
		return 0, false
	}
	return o.TargetTag, true
}

// IsUsing reports whether the current order uses ability a.
func (u *Unit) IsUsing(a AbilityID) bool {
	o, ok := u.FirstOrder()
	return ok && o.Ability == a
}

// IsCombatant reports whether u takes part in fights.
func (u *Unit) IsCombatant() bool {
	return IsCombatantType(u.Type) && !u.IsHallucination
}
