// Package params holds the tunable parameter vector the decision core
// consumes. Values are fixed for the duration of a game.
package params

import (
	"fmt"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Transform is a learned linear map of (value, confidence, 1).
type Transform struct {
	Value      float64 `yaml:"value"`
	Confidence float64 `yaml:"confidence"`
	Offset     float64 `yaml:"offset"`
}

// Apply evaluates the transform.
func (t Transform) Apply(value, confidence float64) float64 {
	return t.Value*value + t.Confidence*confidence + t.Offset
}

// Parameters is the full parameter vector.
type Parameters struct {
	// Engagement hysteresis. Disengage thresholds never exceed engage thresholds.
	EngageThreshold         float64 `yaml:"engage_threshold"`
	DisengageThreshold      float64 `yaml:"disengage_threshold"`
	LocalEngageThreshold    float64 `yaml:"local_engage_threshold"`
	LocalDisengageThreshold float64 `yaml:"local_disengage_threshold"`

	RetreatPathLimit int     `yaml:"retreat_path_limit"`
	RunbyPathIndex   int     `yaml:"runby_path_index"`
	CreepPathIndex   int     `yaml:"creep_path_index"`
	KiteSafetyMargin float64 `yaml:"kite_safety_margin"`

	// Combat simulator.
	SimSteps               int     `yaml:"sim_steps"`
	SimTimeHorizon         float64 `yaml:"sim_time_horizon"`
	TimeDistributionLambda float64 `yaml:"time_distribution_lambda"`
	LanchesterDimension    float64 `yaml:"lanchester_dimension"`
	EnemyRangeBonus        float64 `yaml:"enemy_range_bonus"`
	HelmboldScale          float64 `yaml:"helmbold_scale"`
	MixingDistance         float64 `yaml:"mixing_distance"`

	// Harvester assignment.
	ReturnDistanceWeight float64 `yaml:"return_distance_weight"`
	StickyCost           float64 `yaml:"sticky_cost"`
	GasRatio             float64 `yaml:"gas_ratio"`

	// Macro priorities.
	TechPriority      Transform `yaml:"tech_priority"`
	EconomyPriority   Transform `yaml:"economy_priority"`
	ArmyPriority      Transform `yaml:"army_priority"`
	ArmyRushBoostLog  float64   `yaml:"army_rush_boost_log"`
	ExpansionBoostLog float64   `yaml:"expansion_boost_log"`
	SupplyBufferLog   float64   `yaml:"supply_buffer_log"`
	MinPriority       float64   `yaml:"min_priority"`

	// Strategic composition.
	Tier1Drones       float64 `yaml:"tier1_drones"`
	Tier2Drones       float64 `yaml:"tier2_drones"`
	Tier3Drones       float64 `yaml:"tier3_drones"`
	CounterFactor     float64 `yaml:"counter_factor"`
	RavagerMixin      float64 `yaml:"ravager_mixin"`
	CorruptorMixin    float64 `yaml:"corruptor_mixin"`
	TechPlanPriority  float64 `yaml:"tech_plan_priority"`
	HydrasWhenBanking float64 `yaml:"hydras_when_banking"`
	LingsWhenBanking  float64 `yaml:"lings_when_banking"`
	QueensWhenBanking float64 `yaml:"queens_when_banking"`
	QueensPerHatch    float64 `yaml:"queens_per_hatch"`
	QueensLimit       float64 `yaml:"queens_limit"`

	// Micro.
	DodgeSafetyDistance float64 `yaml:"dodge_safety_distance"`
	DodgeSafetyTime     float64 `yaml:"dodge_safety_time"`
	BurrowHealth        float64 `yaml:"burrow_health"`
	UnburrowHealth      float64 `yaml:"unburrow_health"`
	CreepDefensiveBonus float64 `yaml:"creep_defensive_bonus"`

	BuildOrder string `yaml:"build_order"`
}

// Default returns the priors.
func Default() Parameters {
	return Parameters{
		EngageThreshold:         0,
		DisengageThreshold:      -0.3,
		LocalEngageThreshold:    0,
		LocalDisengageThreshold: 0,

		RetreatPathLimit: 3,
		RunbyPathIndex:   5,
		CreepPathIndex:   3,
		KiteSafetyMargin: 1,

		SimSteps:               10,
		SimTimeHorizon:         7,
		TimeDistributionLambda: 1,
		LanchesterDimension:    1.5,
		EnemyRangeBonus:        1,
		HelmboldScale:          5.87,
		MixingDistance:         1,

		ReturnDistanceWeight: 0.5,
		StickyCost:           3,
		GasRatio:             0,

		TechPriority:      Transform{Value: 0.591, Confidence: 0.843, Offset: -0.097},
		EconomyPriority:   Transform{Value: 0.842, Confidence: 0.148, Offset: 0.039},
		ArmyPriority:      Transform{Value: 1.5, Confidence: 0.808, Offset: 0.5},
		ArmyRushBoostLog:  0,
		ExpansionBoostLog: math.Log(0.7),
		SupplyBufferLog:   math.Log(20),
		MinPriority:       -1,

		Tier1Drones:       32,
		Tier2Drones:       66,
		Tier3Drones:       80,
		CounterFactor:     2,
		RavagerMixin:      21,
		CorruptorMixin:    13,
		TechPlanPriority:  -0.25,
		HydrasWhenBanking: 10,
		LingsWhenBanking:  10,
		QueensWhenBanking: 3,
		QueensPerHatch:    2,
		QueensLimit:       8,

		DodgeSafetyDistance: 1.5,
		DodgeSafetyTime:     0.5,
		BurrowHealth:        0.3,
		UnburrowHealth:      0.9,
		CreepDefensiveBonus: 0.2,

		BuildOrder: "OVERHATCH",
	}
}

// Load reads a YAML parameter file over the defaults.
func Load(path string) (Parameters, error) {
	p := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("read params: %w", err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("parse params %s: %w", path, err)
	}
	p.Validate()
	return p, nil
}

// FromVector applies a name→value vector on top of p. Nested fields use
// dotted names such as "tech_priority.offset". Unknown names are ignored.
func (p Parameters) FromVector(vector map[string]float64) (Parameters, error) {
	if len(vector) == 0 {
		return p, nil
	}
	tree := map[string]any{}
	for name, v := range vector {
		parts := strings.Split(name, ".")
		node := tree
		for _, part := range parts[:len(parts)-1] {
			child, ok := node[part].(map[string]any)
			if !ok {
				child = map[string]any{}
				node[part] = child
			}
			node = child
		}
		node[parts[len(parts)-1]] = v
	}
	data, err := yaml.Marshal(tree)
	if err != nil {
		return p, fmt.Errorf("encode vector: %w", err)
	}
	out := p
	if err := yaml.Unmarshal(data, &out); err != nil {
		return p, fmt.Errorf("apply vector: %w", err)
	}
	out.Validate()
	return out, nil
}

// Validate clamps every field to its legal range.
func (p *Parameters) Validate() {
	p.EngageThreshold = clamp(p.EngageThreshold, -1, 1)
	p.DisengageThreshold = clamp(p.DisengageThreshold, -1, p.EngageThreshold)
	p.LocalEngageThreshold = clamp(p.LocalEngageThreshold, -1, 1)
	p.LocalDisengageThreshold = clamp(p.LocalDisengageThreshold, -1, p.LocalEngageThreshold)

	p.RetreatPathLimit = clampInt(p.RetreatPathLimit, 1, 32)
	p.RunbyPathIndex = clampInt(p.RunbyPathIndex, 1, 32)
	p.CreepPathIndex = clampInt(p.CreepPathIndex, 1, 32)
	p.KiteSafetyMargin = clamp(p.KiteSafetyMargin, 0, 5)

	p.SimSteps = clampInt(p.SimSteps, 1, 100)
	p.SimTimeHorizon = clamp(p.SimTimeHorizon, 0.1, 60)
	p.TimeDistributionLambda = clamp(p.TimeDistributionLambda, 0.01, 100)
	p.LanchesterDimension = clamp(p.LanchesterDimension, 1, 2)
	p.EnemyRangeBonus = clamp(p.EnemyRangeBonus, 0, 10)
	p.HelmboldScale = clamp(p.HelmboldScale, 0.01, 100)
	p.MixingDistance = clamp(p.MixingDistance, 0.01, 100)

	p.ReturnDistanceWeight = clamp(p.ReturnDistanceWeight, 0, 10)
	p.StickyCost = clamp(p.StickyCost, 0, 100)
	p.GasRatio = clamp(p.GasRatio, 0, 1)
	p.MinPriority = clamp(p.MinPriority, -10, 0)

	p.Tier1Drones = clamp(p.Tier1Drones, 1, 100)
	p.Tier2Drones = clamp(p.Tier2Drones, p.Tier1Drones, 100)
	p.Tier3Drones = clamp(p.Tier3Drones, p.Tier2Drones, 100)
	p.CounterFactor = clamp(p.CounterFactor, 0, 10)
	p.RavagerMixin = clamp(p.RavagerMixin, 1, 1000)
	p.CorruptorMixin = clamp(p.CorruptorMixin, 1, 1000)
	p.QueensPerHatch = clamp(p.QueensPerHatch, 0, 4)
	p.QueensLimit = clamp(p.QueensLimit, 0, 30)

	p.DodgeSafetyDistance = clamp(p.DodgeSafetyDistance, 0, 5)
	p.DodgeSafetyTime = clamp(p.DodgeSafetyTime, 0, 5)
	p.BurrowHealth = clamp(p.BurrowHealth, 0, 1)
	p.UnburrowHealth = clamp(p.UnburrowHealth, p.BurrowHealth, 1)
	p.CreepDefensiveBonus = clamp(p.CreepDefensiveBonus, 0, 1)
}

// ArmyRushBoost is e^β for the army priority boost against rushes.
func (p *Parameters) ArmyRushBoost() float64 { return math.Exp(p.ArmyRushBoostLog) }

// ExpansionBoost is e^β for the expansion priority boost.
func (p *Parameters) ExpansionBoost() float64 { return math.Exp(p.ExpansionBoostLog) }

// SupplyBuffer is e^β, multiplied by larva income to get the supply buffer.
func (p *Parameters) SupplyBuffer() float64 { return math.Exp(p.SupplyBufferLog) }

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
