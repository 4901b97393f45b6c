package macro

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/nstehr/vimy/swarm-core/model"
	"github.com/nstehr/vimy/swarm-core/rules"
)

// BuildStep is what one build-order step wants this game step.
type BuildStep struct {
	Plans      []*Plan
	Priorities map[model.Item]float64
	Actions    map[model.Tag]model.Action
}

func (s *BuildStep) addAction(tag model.Tag, a model.Action) {
	if s.Actions == nil {
		s.Actions = make(map[model.Tag]model.Action)
	}
	s.Actions[tag] = a
}

// BuildOrder is a step of the opening. Execute returns nil once the step is
// satisfied; an empty step means "wait".
type BuildOrder interface {
	Execute(obs *model.Observation) *BuildStep
}

// Make plans Type until Count exist, counting plans.
type Make struct {
	Type  model.UnitType
	Count int
}

func (m Make) Execute(obs *model.Observation) *BuildStep {
	item := model.UnitItem(m.Type)
	if obs.Count(item, model.CountActual|model.CountPending) >= m.Count {
		return nil
	}
	if obs.Count(item, model.CountAll) < m.Count {
		return &BuildStep{Plans: []*Plan{NewPlan(item, BuildOrderPriority)}}
	}
	// already planned elsewhere; pull it to the front
	return &BuildStep{Priorities: map[model.Item]float64{item: BuildOrderPriority}}
}

// WaitUntil holds the order until the condition is true.
type WaitUntil struct {
	Cond *rules.Predicate
}

func (w WaitUntil) Execute(obs *model.Observation) *BuildStep {
	if w.Cond.Eval(rules.RuleEnv{Obs: obs}) {
		return nil
	}
	return &BuildStep{}
}

// Until runs Step while the condition is false.
type Until struct {
	Cond *rules.Predicate
	Step BuildOrder
}

func (u Until) Execute(obs *model.Observation) *BuildStep {
	if u.Cond.Eval(rules.RuleEnv{Obs: obs}) {
		return nil
	}
	return u.Step.Execute(obs)
}

// ExtractorTrick frees a supply slot when supply blocked at AtSupply: start
// an extractor, then cancel it once the drone is consumed.
type ExtractorTrick struct {
	AtSupply    float64
	MinMinerals float64
}

// DefaultExtractorTrick fires at 14 supply.
var DefaultExtractorTrick = ExtractorTrick{AtSupply: 14, MinMinerals: 50}

func (x ExtractorTrick) Execute(obs *model.Observation) *BuildStep {
	if obs.SupplyUsed != x.AtSupply || obs.Bank.Supply > 0 {
		return nil
	}
	item := model.UnitItem(model.Extractor)
	if obs.Count(item, model.CountAll) == 0 {
		if obs.Bank.Minerals > x.MinMinerals {
			return &BuildStep{Plans: []*Plan{NewPlan(item, BuildOrderPriority)}}
		}
		return &BuildStep{}
	}
	step := &BuildStep{}
	for _, ex := range obs.Extractors {
		if !ex.IsReady() {
			step.addAction(ex.Tag, model.UseAbility{Ability: model.AbilityCancelBuildInProgress})
		}
	}
	return step
}

// Chain runs the first unfinished step.
type Chain []BuildOrder

func (c Chain) Execute(obs *model.Observation) *BuildStep {
	for _, step := range c {
		if s := step.Execute(obs); s != nil {
			return s
		}
	}
	return nil
}

var hasGas = rules.MustCompile(`Actual("extractor") > 0`)

var hasPool = rules.MustCompile(`Actual("spawning_pool") > 0`)

// BuildOrders are the named openings.
var BuildOrders = map[string]BuildOrder{
	"OVERHATCH": Chain{
		Make{model.Drone, 14},
		DefaultExtractorTrick,
		Make{model.Overlord, 2},
		Make{model.Hatchery, 2},
		Make{model.Drone, 16},
		Make{model.SpawningPool, 1},
		Make{model.Extractor, 1},
	},
	"HATCH_FIRST": Chain{
		Make{model.Drone, 13},
		Make{model.Overlord, 2},
		Make{model.Drone, 16},
		Make{model.Hatchery, 2},
		Make{model.Drone, 17},
		Make{model.Extractor, 1},
		WaitUntil{hasGas},
		Make{model.SpawningPool, 1},
	},
	"HATCH_POOL_HATCH": Chain{
		Make{model.Drone, 13},
		Make{model.Overlord, 2},
		Make{model.Drone, 17},
		Make{model.Hatchery, 2},
		Make{model.Drone, 18},
		Make{model.Extractor, 1},
		WaitUntil{hasGas},
		Make{model.SpawningPool, 1},
		WaitUntil{hasPool},
		Make{model.Drone, 19},
		Make{model.Hatchery, 3},
	},
	"POOL_FIRST": Chain{
		Make{model.Drone, 14},
		Make{model.Overlord, 2},
		Make{model.SpawningPool, 1},
		Make{model.Drone, 17},
		Make{model.Hatchery, 2},
		Make{model.Queen, 1},
		Make{model.Zergling, 1},
		Make{model.Extractor, 1},
		Make{model.RoachWarren, 1},
	},
	"TEST": Chain{
		Make{model.Drone, 14},
		Make{model.Overlord, 2},
		Make{model.SpawningPool, 1},
		Make{model.Drone, 17},
		Make{model.Hatchery, 2},
		Make{model.Queen, 1},
	},
}

// BuildOrderNames lists the known openings.
func BuildOrderNames() []string {
	return slices.Sorted(maps.Keys(BuildOrders))
}

// Prelude runs a build order until it finishes or is interrupted.
type Prelude struct {
	name  string
	order BuildOrder
	done  bool
}

func NewPrelude(name string) (*Prelude, error) {
	order, ok := BuildOrders[name]
	if !ok {
		return nil, fmt.Errorf("unknown build order %q (known: %v)", name, BuildOrderNames())
	}
	return &Prelude{name: name, order: order}, nil
}

func (p *Prelude) Done() bool { return p.done }

// Stop ends the build order early.
func (p *Prelude) Stop(reason string) {
	if p.done {
		return
	}
	p.done = true
	slog.Info("build order stopped", "name", p.name, "reason", reason)
}

// Step executes the build order once; nil means it is over.
func (p *Prelude) Step(obs *model.Observation) *BuildStep {
	if p.done {
		return nil
	}
	step := p.order.Execute(obs)
	if step == nil {
		p.done = true
		slog.Info("build order finished", "name", p.name, "time", obs.Time)
	}
	return step
}
