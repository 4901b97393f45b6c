package rules

import (
	"testing"

	"github.com/nstehr/vimy/swarm-core/model"
)

func TestRuleEnvCounts(t *testing.T) {
	units := []model.Unit{
		{Tag: 1, Type: model.Hatchery, BuildProgress: 1},
		{Tag: 2, Type: model.SpawningPool, BuildProgress: 0.4},
		{Tag: 3, Type: model.Drone, BuildProgress: 1},
		{Tag: 4, Type: model.Drone, BuildProgress: 1},
	}
	obs := model.NewObservation(&model.GameInfo{EnemyRace: model.Terran}, model.Snapshot{
		Time:  120,
		Units: units,
		EnemyUnits: []model.Unit{
			{Tag: 10, Type: model.Marine, Owner: model.Enemy, BuildProgress: 1},
			{Tag: 11, Type: model.Marine, Owner: model.Enemy, BuildProgress: 1},
		},
		Upgrades: []model.UpgradeID{model.UpgradeBurrow},
	}, map[model.Item]int{model.UnitItem(model.Extractor): 1})
	env := RuleEnv{Obs: obs, Tier: TierLair}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"actual pool", env.Actual("spawning_pool"), 1},
		{"ready pool", env.Ready("spawning_pool"), 0},
		{"has pool", env.Has("spawning_pool"), false},
		{"planned extractor", env.Planned("extractor"), 1},
		{"counted extractor", env.Count("extractor"), 0},
		{"has burrow", env.Has("burrow"), true},
		{"no ling speed", env.Has("zergling_speed"), false},
		{"unknown name", env.Count("battlecruiser_yamato"), 0},
		{"enemy marines", env.EnemyCount("marine"), 2},
		{"workers", env.Workers(), 2},
		{"townhalls", env.Townhalls(), 1},
		{"enemy race", env.EnemyRace(), "terran"},
		{"lair reached", env.TierAtLeast("lair"), true},
		{"hive not reached", env.TierAtLeast("hive"), false},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestRuleEnvNilObservation(t *testing.T) {
	env := RuleEnv{}
	if env.Count("drone") != 0 || env.Time() != 0 || env.Has("burrow") || env.EnemyRace() != "" {
		t.Errorf("zero RuleEnv should answer zero values")
	}
	if env.BurrowedEnemies() != 0 {
		t.Errorf("BurrowedEnemies on a nil observation = %d", env.BurrowedEnemies())
	}
}

func TestPredicateOverObservation(t *testing.T) {
	obs := model.NewObservation(nil, model.Snapshot{
		Time:  200,
		Units: []model.Unit{{Tag: 1, Type: model.Extractor, BuildProgress: 0.2}},
	}, nil)
	tests := []struct {
		src  string
		want bool
	}{
		{`Actual("extractor") > 0`, true},
		{`Ready("extractor") > 0`, false},
		{`Time() >= 180 && Count("spawning_pool") == 0`, true},
	}
	for _, tt := range tests {
		p, err := Compile(tt.src)
		if err != nil {
			t.Fatalf("Compile(%q): %v", tt.src, err)
		}
		if got := p.Eval(RuleEnv{Obs: obs}); got != tt.want {
			t.Errorf("Eval(%q) = %v, want %v", tt.src, got, tt.want)
		}
	}
}
