package agent

import (
	"testing"

	"github.com/nstehr/vimy/swarm-core/model"
	"github.com/nstehr/vimy/swarm-core/strategy"
)

var (
	mainBase    = model.Position{X: 20.5, Y: 20.5}
	naturalBase = model.Position{X: 50.5, Y: 20.5}
	enemyStart  = model.Position{X: 180, Y: 100}
)

func testInfo() *model.GameInfo {
	return &model.GameInfo{
		MapWidth:  200,
		MapHeight: 120,
		Bases: []model.Base{
			{Position: mainBase, MineralLine: model.Position{X: 14, Y: 20.5}},
			{Position: naturalBase, MineralLine: model.Position{X: 56, Y: 20.5}},
			{Position: enemyStart, MineralLine: model.Position{X: 186, Y: 100}},
		},
		StartLocation:       mainBase,
		EnemyStartLocations: []model.Position{enemyStart},
		EnemyRace:           model.Terran,
	}
}

var nextTag model.Tag = 1000

func own(t model.UnitType, x, y float64) model.Unit {
	nextTag++
	return model.Unit{
		Tag: nextTag, Type: t, Owner: model.Mine,
		Position: model.Position{X: x, Y: y}, Radius: 0.5,
		Health: 100, HealthMax: 100, BuildProgress: 1,
	}
}

func enemy(t model.UnitType, x, y float64) model.Unit {
	u := own(t, x, y)
	u.Owner = model.Enemy
	return u
}

// baseSnapshot is a main hatchery with drones and a small roach army.
func baseSnapshot(time float64) model.Snapshot {
	units := []model.Unit{own(model.Hatchery, mainBase.X, mainBase.Y)}
	units[0].IdealHarvesters = 16
	for range 12 {
		units = append(units, own(model.Drone, 16, 20))
	}
	for range 8 {
		units = append(units, own(model.Roach, 30, 30))
	}
	return model.Snapshot{
		Time:       time,
		GameLoop:   int(time * 22.4),
		Units:      units,
		SupplyUsed: 28,
		SupplyCap:  36,
	}
}

func observe(snap model.Snapshot) *model.Observation {
	return model.NewObservation(testInfo(), snap, nil)
}

func without(snap model.Snapshot, t model.UnitType, n int) model.Snapshot {
	var units []model.Unit
	for _, u := range snap.Units {
		if u.Type == t && n > 0 {
			n--
			continue
		}
		units = append(units, u)
	}
	snap.Units = units
	return snap
}

func kinds(events []Event) []EventKind {
	var out []EventKind
	for _, ev := range events {
		out = append(out, ev.Kind)
	}
	return out
}

func hasKind(events []Event, kind EventKind) bool {
	for _, ev := range events {
		if ev.Kind == kind {
			return true
		}
	}
	return false
}

func TestDetectEventsNilPrev(t *testing.T) {
	if events := detectEvents(observe(baseSnapshot(60)), nil); events != nil {
		t.Errorf("detectEvents(nil prev) = %+v, want nil", events)
	}
}

func TestDetectEventsNoChange(t *testing.T) {
	snap := baseSnapshot(600)
	prev := takeSnapshot(observe(snap), false)
	snap.Time++
	if events := detectEvents(observe(snap), &prev); len(events) != 0 {
		t.Errorf("events = %v, want none", kinds(events))
	}
}

func TestDetectEvents(t *testing.T) {
	tests := []struct {
		name   string
		change func(model.Snapshot) model.Snapshot
		want   EventKind
	}{
		{
			name:   "townhall lost",
			change: func(s model.Snapshot) model.Snapshot { return without(s, model.Hatchery, 1) },
			want:   EventTownhallLost,
		},
		{
			name:   "army devastated",
			change: func(s model.Snapshot) model.Snapshot { return without(s, model.Roach, 5) },
			want:   EventArmyDevastated,
		},
		{
			name:   "economy crisis",
			change: func(s model.Snapshot) model.Snapshot { return without(s, model.Drone, 7) },
			want:   EventEconomyCrisis,
		},
		{
			name: "enemy base discovered",
			change: func(s model.Snapshot) model.Snapshot {
				s.EnemyUnits = append(s.EnemyUnits, enemy(model.CommandCenter, enemyStart.X, enemyStart.Y))
				return s
			},
			want: EventEnemyBaseDiscovered,
		},
		{
			name: "first contact",
			change: func(s model.Snapshot) model.Snapshot {
				s.EnemyUnits = append(s.EnemyUnits, enemy(model.Marine, 120, 80))
				return s
			},
			want: EventFirstContact,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := baseSnapshot(600)
			prev := takeSnapshot(observe(snap), false)
			events := detectEvents(observe(tt.change(snap)), &prev)
			if !hasKind(events, tt.want) {
				t.Errorf("events = %v, want %s", kinds(events), tt.want)
			}
		})
	}
}

func TestArmyDevastatedFloor(t *testing.T) {
	snap := without(baseSnapshot(600), model.Roach, 4)
	prev := takeSnapshot(observe(snap), false)
	events := detectEvents(observe(without(snap, model.Roach, 4)), &prev)
	if hasKind(events, EventArmyDevastated) {
		t.Errorf("events = %v, want no army event below the floor", kinds(events))
	}
}

func TestRushing(t *testing.T) {
	tests := []struct {
		name    string
		time    float64
		enemies []model.Unit
		want    bool
	}{
		{"quiet", 120, nil, false},
		{
			"marines at the main", 150,
			[]model.Unit{
				enemy(model.Marine, 30, 25), enemy(model.Marine, 31, 25),
				enemy(model.Marine, 32, 25), enemy(model.Marine, 33, 25),
			},
			true,
		},
		{
			"three marines", 150,
			[]model.Unit{enemy(model.Marine, 30, 25), enemy(model.Marine, 31, 25), enemy(model.Marine, 32, 25)},
			false,
		},
		{
			"worker rush", 60,
			[]model.Unit{
				enemy(model.SCV, 22, 20), enemy(model.SCV, 22, 21), enemy(model.SCV, 22, 22),
				enemy(model.SCV, 23, 20), enemy(model.SCV, 23, 21),
			},
			true,
		},
		{"proxy barracks", 100, []model.Unit{enemy(model.Barracks, 60, 40)}, true},
		{
			"too late", 400,
			[]model.Unit{
				enemy(model.Marine, 30, 25), enemy(model.Marine, 31, 25),
				enemy(model.Marine, 32, 25), enemy(model.Marine, 33, 25),
			},
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := baseSnapshot(tt.time)
			snap.EnemyUnits = tt.enemies
			if got := rushing(observe(snap)); got != tt.want {
				t.Errorf("rushing = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStrategistRushIsSticky(t *testing.T) {
	s := NewStrategist()
	s.Observe(observe(baseSnapshot(100)))
	if s.Intel().Rushed {
		t.Fatalf("rushed before any enemy was seen")
	}

	snap := baseSnapshot(110)
	snap.EnemyUnits = []model.Unit{enemy(model.Barracks, 60, 40)}
	if events := s.Observe(observe(snap)); !hasKind(events, EventRushDetected) {
		t.Errorf("events = %v, want rush", kinds(events))
	}

	if events := s.Observe(observe(baseSnapshot(500))); hasKind(events, EventRushDetected) {
		t.Errorf("rush reported twice: %v", kinds(events))
	}
	if !s.Intel().Rushed {
		t.Errorf("Rushed = false after the proxy left vision, want true")
	}
}

func TestStrategistPromote(t *testing.T) {
	s := NewStrategist()
	if ev := s.Promote(strategy.TierHatch, 10); ev != nil {
		t.Errorf("Promote(HATCH) = %+v, want nil", ev)
	}
	ev := s.Promote(strategy.TierLair, 20)
	if ev == nil || ev.Kind != EventTierTransition {
		t.Fatalf("Promote(LAIR) = %+v, want tier transition", ev)
	}
	if ev := s.Promote(strategy.TierHatch, 30); ev != nil {
		t.Errorf("Promote stepped back down: %+v", ev)
	}
	if got := s.Intel().MinTier; got != strategy.TierLair {
		t.Errorf("MinTier = %v, want LAIR", got)
	}
	if n := len(s.Events()); n != 1 {
		t.Errorf("len(Events) = %d, want 1", n)
	}
}
