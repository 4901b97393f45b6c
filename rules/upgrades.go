package rules

import "fmt"

const permitKey = "permit"

func permit(env RuleEnv) error {
	env.Memory[permitKey] = true
	return nil
}

func deny(env RuleEnv) error {
	env.Memory[permitKey] = false
	return nil
}

// UpgradeRules is the research filter table. All rules share one exclusive
// category, so the highest-priority match decides; no match permits.
func UpgradeRules() []*Rule {
	rules := []*Rule{
		{
			Name:         "zergling-speed",
			Priority:     100,
			ConditionSrc: `Upgrade == "zergling_speed"`,
			Action:       permit,
		},
		{
			Name:         "hatch-tier",
			Priority:     90,
			ConditionSrc: `!TierAtLeast("lair")`,
			Action:       deny,
		},
		{
			Name:         "grooved-after-muscular",
			Priority:     50,
			ConditionSrc: `Upgrade == "grooved_spines" && !Researching("muscular_augments")`,
			Action:       deny,
		},
		{
			Name:         "flyer-needs-greater-spire",
			Priority:     50,
			ConditionSrc: `Upgrade startsWith "flyer_" && Ready("greater_spire") == 0`,
			Action:       deny,
		},
		{
			Name:         "overlord-speed-late",
			Priority:     50,
			ConditionSrc: `Upgrade == "overlord_speed" && !TierAtLeast("hive")`,
			Action:       deny,
		},
	}
	for n := 1; n <= 3; n++ {
		rules = append(rules, &Rule{
			Name:         fmt.Sprintf("armor%d-after-weapons", n),
			Priority:     50,
			ConditionSrc: fmt.Sprintf(`Upgrade == "armor%d" && !Researching("missile%d") && !Researching("melee%d")`, n, n, n),
			Action:       deny,
		})
	}
	for _, r := range rules {
		r.Category = "upgrade"
		r.Exclusive = true
	}
	return rules
}

// UpgradeFilter decides whether an upgrade may be researched.
type UpgradeFilter struct {
	engine *Engine
}

func NewUpgradeFilter() (*UpgradeFilter, error) {
	engine, err := NewEngine(UpgradeRules())
	if err != nil {
		return nil, err
	}
	return &UpgradeFilter{engine: engine}, nil
}

// Permit evaluates the table for env.Upgrade.
func (f *UpgradeFilter) Permit(env RuleEnv) bool {
	env.Memory = map[string]any{}
	f.engine.Evaluate(env)
	if v, ok := env.Memory[permitKey].(bool); ok {
		return v
	}
	return true
}
