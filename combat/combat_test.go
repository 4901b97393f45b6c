package combat

import (
	"math"
	"testing"

	"github.com/nstehr/vimy/swarm-core/model"
	"github.com/nstehr/vimy/swarm-core/numeric"
	"github.com/nstehr/vimy/swarm-core/params"
)

// fakeHost answers range queries by brute force over an observation.
type fakeHost struct {
	obs *model.Observation
}

func (h *fakeHost) CanPlace(model.UnitType, model.Position) bool { return true }

func (h *fakeHost) PathingDistance(a, b model.Position) (float64, bool) {
	return a.Distance(b), true
}

func (h *fakeHost) UnitsInRange(points []model.Position, radii []float64, who model.Owner) [][]*model.Unit {
	units := h.obs.Mine
	if who == model.Enemy {
		units = h.obs.EnemyAll
	}
	out := make([][]*model.Unit, len(points))
	for i, p := range points {
		for _, u := range units {
			if u.Position.Distance(p) <= radii[i] {
				out[i] = append(out[i], u)
			}
		}
	}
	return out
}

func (h *fakeHost) IsPositionSafe(g *model.Grid, p model.Position, limit float64) bool {
	return g.AtPos(p) <= limit
}

func (h *fakeHost) FindClosestSafeSpot(g *model.Grid, p model.Position, radius float64) model.Position {
	return p
}

func newStep(t *testing.T, info *model.GameInfo, snap model.Snapshot) *Step {
	t.Helper()
	if info == nil {
		info = &model.GameInfo{MapWidth: 32, MapHeight: 32}
	}
	obs := model.NewObservation(info, snap, nil)
	p := params.Default()
	return NewStep(obs, &fakeHost{obs: obs}, p, NewEngagement(p), NewDodge(p))
}

func roach(tag model.Tag, owner model.Owner, x, y float64) model.Unit {
	return model.Unit{
		Tag: tag, Type: model.Roach, Owner: owner,
		Position: model.Position{X: x, Y: y}, Radius: 0.625,
		Health: 145, HealthMax: 145, BuildProgress: 1,
		GroundDPS: 11.2, GroundRange: 4, Speed: 4.2,
	}
}

func marine(tag model.Tag, owner model.Owner, x, y float64) model.Unit {
	return model.Unit{
		Tag: tag, Type: model.Marine, Owner: owner,
		Position: model.Position{X: x, Y: y}, Radius: 0.375,
		Health: 45, HealthMax: 45, BuildProgress: 1,
		GroundDPS: 9.8, AirDPS: 9.8, GroundRange: 5, AirRange: 5, Speed: 3.15,
	}
}

func TestEngagementHysteresis(t *testing.T) {
	outcomes := []float64{0.1, 0.1, -0.2, -0.2, -0.4, -0.4, 0.1, 0.1}
	tests := []struct {
		name      string
		engage    float64
		disengage float64
		want      []bool
	}{
		{
			name: "re-engages at threshold", engage: 0, disengage: -0.3,
			want: []bool{true, true, true, true, false, false, true, true},
		},
		{
			name: "stays out inside the band", engage: 0.2, disengage: -0.3,
			want: []bool{true, true, true, true, false, false, false, false},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := params.Default()
			p.EngageThreshold = tt.engage
			p.DisengageThreshold = tt.disengage
			e := NewEngagement(p)
			for i, v := range outcomes {
				e.Update(v, nil)
				if got := e.Global(); got != tt.want[i] {
					t.Errorf("step %d: Global() = %v, want %v", i, got, tt.want[i])
				}
			}
		})
	}
}

func TestEngagementLocalForgetsMissingTags(t *testing.T) {
	e := NewEngagement(params.Default())
	e.Update(1, map[model.Tag]float64{1: 0.5, 2: -0.5})
	if !e.Local(1) || e.Local(2) {
		t.Fatalf("Local = %v %v, want true false", e.Local(1), e.Local(2))
	}
	e.Update(1, map[model.Tag]float64{2: 0.5})
	if e.Local(1) {
		t.Errorf("Local(1) = true after tag disappeared, want false")
	}
	if got := len(e.Attacking()); got != 1 {
		t.Errorf("len(Attacking()) = %d, want 1", got)
	}
}

func TestTimeToAttackAndKill(t *testing.T) {
	r := roach(1, model.Mine, 0, 0)
	m := marine(2, model.Enemy, 10, 0)

	gap := 10 - 4 - r.Radius - m.Radius
	if got, want := TimeToAttack(&r, &m), gap/(1.4*r.Speed); math.Abs(got-want) > 1e-9 {
		t.Errorf("TimeToAttack = %v, want %v", got, want)
	}
	if got := TimeToKill(&r, &m); math.Abs(got-45/11.2) > 1e-9 {
		t.Errorf("TimeToKill = %v, want %v", got, 45/11.2)
	}

	near := marine(3, model.Enemy, 3, 0)
	if got := TimeToAttack(&r, &near); got != 0 {
		t.Errorf("TimeToAttack in range = %v, want 0", got)
	}

	flier := m
	flier.IsFlying = true
	if got := TimeToAttack(&r, &flier); !math.IsInf(got, 1) {
		t.Errorf("TimeToAttack vs air = %v, want +Inf", got)
	}

	burrowed := m
	burrowed.IsBurrowed = true
	if got := TimeToKill(&r, &burrowed); !math.IsInf(got, 1) {
		t.Errorf("TimeToKill vs undetected = %v, want +Inf", got)
	}

	still := r
	still.Speed = 0
	if got := TimeToAttack(&still, &m); !math.IsInf(got, 1) {
		t.Errorf("TimeToAttack immobile = %v, want +Inf", got)
	}
}

func TestPerimeter(t *testing.T) {
	u := &model.Unit{Type: model.Zergling, Position: model.Position{X: 10.5, Y: 10.5}, Radius: 1}
	cells := Perimeter(u)
	if len(cells) != 16 {
		t.Fatalf("len(Perimeter) = %d, want 16", len(cells))
	}
	seen := map[model.Point]bool{}
	for _, c := range cells {
		if seen[c] {
			t.Errorf("duplicate cell %v", c)
		}
		seen[c] = true
		if c.X > 8 && c.X < 12 && c.Y > 8 && c.Y < 12 {
			t.Errorf("cell %v is inside the footprint", c)
		}
	}
}

func TestDodgeBaneling(t *testing.T) {
	obs := model.NewObservation(nil, model.Snapshot{
		EnemyUnits: []model.Unit{{Tag: 9, Type: model.Baneling, Owner: model.Enemy, Position: model.Position{X: 10, Y: 10}}},
	}, nil)
	d := NewDodge(params.Default())
	d.Update(obs)
	if got := d.Pending(); got != 1 {
		t.Fatalf("Pending() = %d, want 1", got)
	}

	near := &model.Unit{Tag: 1, Position: model.Position{X: 10.5, Y: 10}, Radius: 0.375, Speed: 4.13}
	a, ok := d.DodgeWith(near).(model.Move)
	if !ok {
		t.Fatalf("DodgeWith = %v, want Move", d.DodgeWith(near))
	}
	if a.Target.X <= near.Position.X {
		t.Errorf("dodge target %v does not lead away from the baneling", a.Target)
	}
	if got := a.Target.Distance(model.Position{X: 10, Y: 10}); got < 2.2+0.375 {
		t.Errorf("dodge distance = %v, want at least %v", got, 2.2+0.375)
	}

	far := &model.Unit{Tag: 2, Position: model.Position{X: 20, Y: 10}, Radius: 0.375, Speed: 4.13}
	if a := d.DodgeWith(far); a != nil {
		t.Errorf("DodgeWith far = %v, want nil", a)
	}

	burrowed := *near
	burrowed.IsBurrowed = true
	burrowed.Type = model.RoachBurrowed
	if a, ok := d.DodgeWith(&burrowed).(model.UseAbility); !ok || a.Ability != model.AbilityBurrowUp {
		t.Errorf("DodgeWith burrowed = %v, want burrow up", d.DodgeWith(&burrowed))
	}
}

func TestDodgeEffectKeepsFirstImpact(t *testing.T) {
	bile := model.Effect{ID: model.EffectCorrosiveBile, Positions: []model.Position{{X: 5, Y: 5}}}
	d := NewDodge(params.Default())

	d.Update(model.NewObservation(nil, model.Snapshot{Time: 0, Effects: []model.Effect{bile}}, nil))
	d.Update(model.NewObservation(nil, model.Snapshot{Time: 1, Effects: []model.Effect{bile}}, nil))
	if got := d.Pending(); got != 1 {
		t.Fatalf("Pending() = %d, want 1", got)
	}
	if got, want := d.effects[0].Impact, EffectDelay[model.EffectCorrosiveBile]; got != want {
		t.Errorf("Impact = %v, want %v", got, want)
	}

	d.Update(model.NewObservation(nil, model.Snapshot{Time: 3}, nil))
	if got := d.Pending(); got != 0 {
		t.Errorf("Pending() after impact = %d, want 0", got)
	}
}

func TestFightWithShootsTargetInRange(t *testing.T) {
	s := newStep(t, nil, model.Snapshot{
		Units:      []model.Unit{roach(1, model.Mine, 10, 10)},
		EnemyUnits: []model.Unit{marine(2, model.Enemy, 13, 10)},
	})
	u := s.Observation().ByTag[1]
	a, ok := s.FightWith(u).(model.Attack)
	if !ok {
		t.Fatalf("FightWith = %v, want Attack", s.FightWith(u))
	}
	if a.Target != 2 {
		t.Errorf("Attack target = %d, want 2", a.Target)
	}
	if target, ok := s.Target(u); !ok || target.Tag != 2 {
		t.Errorf("Target = %v %v, want marine 2", target, ok)
	}
}

// fightStep builds a step with fixed engagement decisions instead of running
// the simulator.
func fightStep(snap model.Snapshot, global bool, local ...model.Tag) *Step {
	obs := model.NewObservation(&model.GameInfo{MapWidth: 32, MapHeight: 32}, snap, nil)
	p := params.Default()
	eng := NewEngagement(p)
	eng.global = global
	for _, tag := range local {
		eng.local[tag] = true
	}
	s := &Step{
		obs:             obs,
		host:            &fakeHost{obs: obs},
		params:          p,
		eng:             eng,
		Combatants:      obs.Combatants(),
		EnemyCombatants: obs.EnemyCombatants(),
		maps:            make(map[mapKind]*numeric.DijkstraMap),
		transfused:      make(map[model.Tag]bool),
	}
	s.targets = assignTargets(s.Combatants, s.EnemyCombatants)
	s.shootable = s.shootableTargets(s.Combatants)
	return s
}

// corridor is a safety grid passable only along row 10. Cells from x = unsafe
// on carry a threat above the safety limit.
func corridor(unsafe int) *model.Grid {
	g := model.NewGrid(32, 32, math.Inf(1))
	for x := range 32 {
		v := 1.0
		if unsafe >= 0 && x >= unsafe {
			v = 2
		}
		g.Set(model.Point{X: x, Y: 10}, v)
	}
	return g
}

func TestFightWithBranches(t *testing.T) {
	cooling := func(u model.Unit) model.Unit {
		u.WeaponCooldown = 1
		return u
	}
	creep := model.NewGrid(32, 32, 0)
	for x := range 6 {
		creep.Set(model.Point{X: x, Y: 10}, 1)
	}
	tumor := model.Unit{
		Tag: 9, Type: model.CreepTumorBurrowed, Owner: model.Mine,
		Position: model.Position{X: 3.5, Y: 10.5}, BuildProgress: 1,
	}
	scv := model.Unit{
		Tag: 8, Type: model.SCV, Owner: model.Enemy,
		Position: model.Position{X: 28.5, Y: 10.5}, Radius: 0.375,
		Health: 45, HealthMax: 45, BuildProgress: 1,
	}

	tests := []struct {
		name   string
		snap   model.Snapshot
		global bool
		local  []model.Tag
		want   model.Action
	}{
		{
			name: "walks back to creep when the army disengages",
			snap: model.Snapshot{
				Units:        []model.Unit{roach(1, model.Mine, 20.5, 10.5), tumor},
				EnemyUnits:   []model.Unit{marine(2, model.Enemy, 28.5, 10.5)},
				Creep:        creep,
				GroundSafety: corridor(-1),
			},
			want: model.Move{Target: model.Position{X: 18.5, Y: 10.5}},
		},
		{
			name: "retreats along the safety path when the fight is lost locally",
			snap: model.Snapshot{
				Units: []model.Unit{
					cooling(roach(1, model.Mine, 15.5, 10.5)),
					roach(3, model.Mine, 5.5, 10.5),
				},
				EnemyUnits:   []model.Unit{marine(2, model.Enemy, 25.5, 10.5)},
				GroundSafety: corridor(12),
			},
			global: true,
			want:   model.Move{Target: model.Position{X: 13.5, Y: 10.5}},
		},
		{
			name: "kites away from a threat while the weapon cools down",
			snap: model.Snapshot{
				Units:        []model.Unit{cooling(roach(1, model.Mine, 10.5, 10.5))},
				EnemyUnits:   []model.Unit{marine(2, model.Enemy, 14.5, 10.5)},
				GroundSafety: corridor(-1),
			},
			global: true,
			local:  []model.Tag{1},
			want:   model.Move{Target: model.Position{X: 8.5, Y: 10.5}},
		},
		{
			name: "runs by toward enemy workers when safe off creep",
			snap: model.Snapshot{
				Units:        []model.Unit{roach(1, model.Mine, 10.5, 10.5)},
				EnemyUnits:   []model.Unit{marine(2, model.Enemy, 20.5, 20.5), scv},
				GroundSafety: corridor(-1),
			},
			global: true,
			local:  []model.Tag{1},
			want:   model.AttackMove{Target: model.Position{X: 15.5, Y: 10.5}},
		},
		{
			name: "attacks the assigned target without a run-by map",
			snap: model.Snapshot{
				Units:        []model.Unit{roach(1, model.Mine, 10.5, 10.5)},
				EnemyUnits:   []model.Unit{marine(2, model.Enemy, 20.5, 20.5)},
				GroundSafety: corridor(-1),
			},
			global: true,
			local:  []model.Tag{1},
			want:   model.Attack{Target: 2},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := fightStep(tt.snap, tt.global, tt.local...)
			got := s.FightWith(s.Observation().ByTag[1])
			if !sameAction(got, tt.want) {
				t.Errorf("FightWith = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func sameAction(a, b model.Action) bool {
	near := func(p, q model.Position) bool { return p.Distance(q) < 1e-6 }
	switch want := b.(type) {
	case model.Move:
		got, ok := a.(model.Move)
		return ok && near(got.Target, want.Target)
	case model.AttackMove:
		got, ok := a.(model.AttackMove)
		return ok && near(got.Target, want.Target)
	default:
		return a == b
	}
}

func TestBurrowWith(t *testing.T) {
	hurt := roach(1, model.Mine, 10, 10)
	hurt.Health = 20
	hurt.WeaponCooldown = 1
	s := newStep(t, nil, model.Snapshot{
		Units:    []model.Unit{hurt},
		Upgrades: []model.UpgradeID{model.UpgradeBurrow},
	})
	u := s.Observation().ByTag[1]
	if a, ok := s.BurrowWith(u).(model.UseAbility); !ok || a.Ability != model.AbilityBurrowDown {
		t.Errorf("BurrowWith = %v, want burrow down", s.BurrowWith(u))
	}

	u.WeaponCooldown = 0
	if a := s.BurrowWith(u); a != nil {
		t.Errorf("BurrowWith with weapon ready = %v, want nil", a)
	}
}

func TestTransfuseOncePerTarget(t *testing.T) {
	queen := func(tag model.Tag, x float64) model.Unit {
		return model.Unit{
			Tag: tag, Type: model.Queen, Owner: model.Mine, Position: model.Position{X: x, Y: 10},
			Radius: 0.875, Health: 175, HealthMax: 175, Energy: 60, BuildProgress: 1,
		}
	}
	wounded := roach(3, model.Mine, 12, 10)
	wounded.Health = 50
	s := newStep(t, nil, model.Snapshot{Units: []model.Unit{queen(1, 10), queen(2, 11), wounded}})

	q1, q2 := s.Observation().ByTag[1], s.Observation().ByTag[2]
	a, ok := s.TransfuseWith(q1).(model.UseAbility)
	if !ok || a.Ability != model.AbilityTransfusion || a.TargetTag != 3 {
		t.Fatalf("TransfuseWith = %v, want transfusion on 3", a)
	}
	if a := s.TransfuseWith(q2); a != nil {
		t.Errorf("second TransfuseWith = %v, want nil", a)
	}
}

func TestAssignQueens(t *testing.T) {
	hatch := func(tag model.Tag, x float64) model.Unit {
		return model.Unit{Tag: tag, Type: model.Hatchery, Position: model.Position{X: x, Y: 10}, BuildProgress: 1}
	}
	queen := func(tag model.Tag, x float64) model.Unit {
		return model.Unit{Tag: tag, Type: model.Queen, Position: model.Position{X: x, Y: 10}, BuildProgress: 1}
	}
	tests := []struct {
		name       string
		units      []model.Unit
		wantInject map[model.Tag]model.Tag
		wantCreep  int
	}{
		{
			name:       "one queen per hatchery",
			units:      []model.Unit{hatch(1, 10), hatch(2, 50), queen(3, 48), queen(4, 12), queen(5, 30)},
			wantInject: map[model.Tag]model.Tag{4: 1, 3: 2},
		},
		{
			name:       "spare queens spread creep",
			units:      []model.Unit{hatch(1, 10), queen(3, 12), queen(4, 20), queen(5, 30)},
			wantInject: map[model.Tag]model.Tag{3: 1},
			wantCreep:  2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roles := AssignQueens(model.NewObservation(nil, model.Snapshot{Units: tt.units}, nil))
			if len(roles.Inject) != len(tt.wantInject) {
				t.Fatalf("len(Inject) = %d, want %d", len(roles.Inject), len(tt.wantInject))
			}
			for q, th := range tt.wantInject {
				if got := roles.Inject[q]; got == nil || got.Tag != th {
					t.Errorf("Inject[%d] = %v, want townhall %d", q, got, th)
				}
			}
			if got := len(roles.Creep); got != tt.wantCreep {
				t.Errorf("len(Creep) = %d, want %d", got, tt.wantCreep)
			}
		})
	}
}

func TestInjectWith(t *testing.T) {
	th := &model.Unit{Tag: 1, Type: model.Hatchery, Position: model.Position{X: 10, Y: 10}, Radius: 2.75}
	tests := []struct {
		name  string
		queen model.Unit
		buff  float64
		want  string
	}{
		{"ready", model.Unit{Energy: 25, Speed: 1.3, Position: model.Position{X: 13, Y: 10}}, 0, "inject"},
		{"buff active", model.Unit{Energy: 25, Speed: 1.3, Position: model.Position{X: 13, Y: 10}}, 200, "none"},
		{"far and almost ready", model.Unit{Energy: 24, Speed: 1.3, Position: model.Position{X: 40, Y: 10}}, 0, "move"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th.BuffRemain = tt.buff
			got := "none"
			switch a := injectWith(&tt.queen, th).(type) {
			case model.UseAbility:
				if a.Ability == model.AbilityInjectLarva {
					got = "inject"
				}
			case model.Move:
				got = "move"
			}
			if got != tt.want {
				t.Errorf("injectWith = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestCreepTumorTimers(t *testing.T) {
	tumor := model.Unit{Tag: 7, Type: model.CreepTumorBurrowed, Position: model.Position{X: 5, Y: 5}, BuildProgress: 1}
	c := NewCreepSpread(params.Default())
	obsAt := func(loop int, cmds ...model.Command) *model.Observation {
		return model.NewObservation(&model.GameInfo{MapWidth: 16, MapHeight: 16}, model.Snapshot{
			GameLoop: loop, Units: []model.Unit{tumor}, Commands: cmds,
		}, nil)
	}

	c.Update(obsAt(100))
	if got := len(c.Active(obsAt(100))); got != 0 {
		t.Errorf("active right after creation = %d, want 0", got)
	}
	if got := len(c.Active(obsAt(100 + TumorCooldown))); got != 1 {
		t.Errorf("active after cooldown = %d, want 1", got)
	}

	spread := obsAt(500, model.Command{Tags: []model.Tag{7}, Ability: model.AbilityBuildCreepTumorTumor})
	c.Update(spread)
	if got := len(c.Active(spread)); got != 0 {
		t.Errorf("active after spreading = %d, want 0", got)
	}
}
