package rules

import (
	"errors"
	"testing"

	"github.com/nstehr/vimy/swarm-core/model"
)

func testObs(units []model.Unit, upgrades ...model.UpgradeID) *model.Observation {
	return model.NewObservation(nil, model.Snapshot{
		Time:         90,
		Units:        units,
		BankMinerals: 275,
		Upgrades:     upgrades,
	}, nil)
}

func TestRulesSortedByPriority(t *testing.T) {
	engine, err := NewEngine(UpgradeRules())
	if err != nil {
		t.Fatalf("NewEngine(UpgradeRules()) failed: %v", err)
	}
	rules := engine.Rules()
	for i := 1; i < len(rules); i++ {
		if rules[i].Priority > rules[i-1].Priority {
			t.Errorf("rules not sorted by priority: %s (%d) > %s (%d)",
				rules[i].Name, rules[i].Priority, rules[i-1].Name, rules[i-1].Priority)
		}
	}
}

func TestCompileRejectsUnknownHelper(t *testing.T) {
	_, err := NewEngine([]*Rule{{Name: "bad", ConditionSrc: `NoSuchHelper()`}})
	if err == nil {
		t.Fatalf("NewEngine with unknown helper succeeded, want error")
	}
	if _, err := Compile(`Count("drone") +`); err == nil {
		t.Errorf("Compile of malformed source succeeded, want error")
	}
}

func TestExclusiveBlocksCategory(t *testing.T) {
	var ran []string
	record := func(name string) ActionFunc {
		return func(RuleEnv) error {
			ran = append(ran, name)
			return nil
		}
	}
	engine, err := NewEngine([]*Rule{
		{Name: "low", Priority: 1, Category: "a", ConditionSrc: `true`, Action: record("low")},
		{Name: "high", Priority: 10, Category: "a", Exclusive: true, ConditionSrc: `true`, Action: record("high")},
		{Name: "other", Priority: 5, Category: "b", ConditionSrc: `Minerals() > 100`, Action: record("other")},
		{Name: "failing", Priority: 4, Category: "c", ConditionSrc: `true`, Action: func(RuleEnv) error {
			return errors.New("boom")
		}},
	})
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	fired := engine.Evaluate(RuleEnv{Obs: testObs(nil)})
	want := []string{"high", "other", "failing"}
	if len(fired) != len(want) {
		t.Fatalf("fired = %v, want %v", fired, want)
	}
	for i := range want {
		if fired[i] != want[i] {
			t.Errorf("fired[%d] = %s, want %s", i, fired[i], want[i])
		}
	}
	if len(ran) != 2 || ran[0] != "high" || ran[1] != "other" {
		t.Errorf("actions ran = %v, want [high other]", ran)
	}
}

func TestPredicate(t *testing.T) {
	units := []model.Unit{
		{Tag: 1, Type: model.Hatchery, BuildProgress: 1},
		{Tag: 2, Type: model.Extractor, BuildProgress: 0.5},
		{Tag: 3, Type: model.Drone, BuildProgress: 1},
		{Tag: 4, Type: model.Drone, BuildProgress: 1},
	}
	env := RuleEnv{Obs: testObs(units, model.UpgradeZerglingSpeed)}

	tests := []struct {
		src  string
		want bool
	}{
		{`Count("extractor") > 0`, true},
		{`Ready("extractor") > 0`, false},
		{`Count("drone") == 2`, true},
		{`Has("zergling_speed")`, true},
		{`Has("burrow")`, false},
		{`Count("no_such_unit") == 0`, true},
		{`Townhalls() == 1 && Minerals() >= 275`, true},
		{`Time() < 60`, false},
	}
	for _, tt := range tests {
		p, err := Compile(tt.src)
		if err != nil {
			t.Fatalf("Compile(%q) failed: %v", tt.src, err)
		}
		if got := p.Eval(env); got != tt.want {
			t.Errorf("%s = %v, want %v", tt.src, got, tt.want)
		}
	}
}

func TestUpgradeFilter(t *testing.T) {
	filter, err := NewUpgradeFilter()
	if err != nil {
		t.Fatalf("NewUpgradeFilter failed: %v", err)
	}
	greaterSpire := []model.Unit{{Tag: 1, Type: model.GreaterSpire, BuildProgress: 1}}

	tests := []struct {
		name     string
		upgrade  string
		tier     int
		units    []model.Unit
		upgrades []model.UpgradeID
		want     bool
	}{
		{"ling speed always", "zergling_speed", TierHatch, nil, nil, true},
		{"nothing else at hatch", "missile1", TierHatch, nil, nil, false},
		{"burrow at lair", "burrow", TierLair, nil, nil, true},
		{"armor without weapons", "armor1", TierLair, nil, nil, false},
		{"armor after missile", "armor1", TierLair, nil, []model.UpgradeID{model.UpgradeMissile1}, true},
		{"armor after melee", "armor2", TierHive, nil, []model.UpgradeID{model.UpgradeMelee2}, true},
		{"armor2 needs level 2 weapons", "armor2", TierHive, nil, []model.UpgradeID{model.UpgradeMelee1}, false},
		{"grooved before muscular", "grooved_spines", TierLair, nil, nil, false},
		{"grooved after muscular", "grooved_spines", TierLair, nil, []model.UpgradeID{model.UpgradeMuscularAugments}, true},
		{"flyer without greater spire", "flyer_attack1", TierLategame, nil, nil, false},
		{"flyer with greater spire", "flyer_armor1", TierLategame, greaterSpire, nil, true},
		{"overlord speed at lair", "overlord_speed", TierLair, nil, nil, false},
		{"overlord speed at hive", "overlord_speed", TierHive, nil, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := RuleEnv{Obs: testObs(tt.units, tt.upgrades...), Tier: tt.tier, Upgrade: tt.upgrade}
			if got := filter.Permit(env); got != tt.want {
				t.Errorf("Permit(%s) = %v, want %v", tt.upgrade, got, tt.want)
			}
		})
	}
}
