package macro

import (
	"cmp"
	"errors"
	"log/slog"
	"maps"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/nstehr/vimy/swarm-core/model"
)

const (
	premoveInterval = 10
	// seconds added to the travel estimate before pre-moving
	premoveSlack = 1.5
	// converts unit speed to distance per game second
	speedFactor     = 1.4
	arrivedDistance = 1e-3
	epsilon         = 1e-10
)

// Planner owns the plan queue. Plans wait unassigned until a producer is
// found, then stay assigned to that producer until the game confirms the
// command or the producer is lost.
type Planner struct {
	minPriority float64

	unassigned []*Plan
	assigned   map[model.Tag]*Plan
	// builders are workers that received a build command not yet confirmed.
	builders map[model.Tag]bool

	blocked *Blocked
	rng     *rand.Rand
	steps   int
	seq     int
}

// NewPlanner creates an empty planner. Plans below minPriority are dropped.
func NewPlanner(minPriority float64, seed uint64) *Planner {
	return &Planner{
		minPriority: minPriority,
		assigned:    make(map[model.Tag]*Plan),
		builders:    make(map[model.Tag]bool),
		blocked:     NewBlocked(),
		rng:         rand.New(rand.NewPCG(seed, seed^0x5851f42d4c957f2d)),
	}
}

func (p *Planner) Blocked() *Blocked { return p.blocked }

// Add enqueues an unassigned plan.
func (p *Planner) Add(plan *Plan) {
	p.seq++
	plan.seq = p.seq
	plan.State = Unassigned
	plan.Producer = 0
	p.unassigned = append(p.unassigned, plan)
	slog.Info("plan added", "item", plan.Item, "priority", plan.Priority)
}

func byPriority(a, b *Plan) int {
	if c := cmp.Compare(b.Priority, a.Priority); c != 0 {
		return c
	}
	return cmp.Compare(a.seq, b.seq)
}

// Plans returns every plan by descending priority.
func (p *Planner) Plans() []*Plan {
	out := slices.Concat(p.unassigned, slices.Collect(maps.Values(p.assigned)))
	slices.SortStableFunc(out, byPriority)
	return out
}

// Planned returns the plans for item.
func (p *Planner) Planned(item model.Item) []*Plan {
	var out []*Plan
	for _, plan := range p.Plans() {
		if plan.Item == item {
			out = append(out, plan)
		}
	}
	return out
}

// Counts is the number of plans per item, as injected into the observation.
func (p *Planner) Counts() map[model.Item]int {
	out := make(map[model.Item]int)
	for _, plan := range p.unassigned {
		out[plan.Item]++
	}
	for _, plan := range p.assigned {
		out[plan.Item]++
	}
	return out
}

// PlannedCost is the summed cost of all plans.
func (p *Planner) PlannedCost() model.Cost {
	var c model.Cost
	for _, plan := range p.Plans() {
		c = c.Add(model.CostOf(plan.Item))
	}
	return c
}

// Builders returns the workers claimed by plans. They are kept out of the
// harvester pool.
func (p *Planner) Builders(obs *model.Observation) map[model.Tag]bool {
	out := make(map[model.Tag]bool)
	for tag := range p.builders {
		if u, ok := obs.ByTag[tag]; ok && u.IsWorker() {
			out[tag] = true
		}
	}
	for tag := range p.assigned {
		if u, ok := obs.ByTag[tag]; ok && u.IsWorker() {
			out[tag] = true
		}
	}
	return out
}

// SetPriorities overrides the priority of every plan whose item is in
// priorities. Build-order plans keep theirs.
func (p *Planner) SetPriorities(priorities map[model.Item]float64) {
	for _, plan := range p.Plans() {
		if math.IsInf(plan.Priority, 1) {
			continue
		}
		if v, ok := priorities[plan.Item]; ok {
			plan.Priority = v
		}
	}
}

// Step advances the plan queue and returns the commands for producers.
func (p *Planner) Step(obs *model.Observation, host model.Host) map[model.Tag]model.Action {
	p.steps++
	p.blocked.Record(obs, p.positionTargets())
	p.handleCommands(obs)
	p.handleErrors(obs)
	p.returnLarvae(obs)
	p.cancelBelow(p.minPriority)
	p.assign(obs, host)
	return p.execute(obs, host)
}

func (p *Planner) positionTargets() map[model.Tag]model.Position {
	out := make(map[model.Tag]model.Position, len(p.assigned))
	for tag, plan := range p.assigned {
		if pos, ok := TargetPosition(plan.Target); ok {
			out[tag] = pos
		}
	}
	return out
}

func (p *Planner) unassign(tag model.Tag, reason string) {
	plan, ok := p.assigned[tag]
	if !ok {
		return
	}
	delete(p.assigned, tag)
	plan.State = Unassigned
	plan.Producer = 0
	p.unassigned = append(p.unassigned, plan)
	if reason != "" {
		slog.Info("plan unassigned", "item", plan.Item, "producer", tag, "reason", reason)
	}
}

func (p *Planner) drop(plan *Plan, reason string) {
	if plan.State != Unassigned {
		delete(p.assigned, plan.Producer)
	}
	p.unassigned = slices.DeleteFunc(p.unassigned, func(q *Plan) bool { return q == plan })
	slog.Info("plan dropped", "item", plan.Item, "priority", plan.Priority, "reason", reason)
}

// handleCommands retires plans whose command the game executed. Commands
// issued to a larva can be carried out by any larva, so they match the best
// plan for the item instead of the producer.
func (p *Planner) handleCommands(obs *model.Observation) {
	for _, cmd := range obs.Commands {
		item, ok := model.AbilityItems[cmd.Ability]
		if !ok {
			continue
		}
		for _, tag := range cmd.Tags {
			if plan, ok := p.assigned[tag]; ok && plan.Item == item {
				p.complete(plan)
				continue
			}
			u, ok := obs.ByTag[tag]
			if ok && u.Type != model.Egg && u.Type != model.Larva {
				slog.Debug("unplanned command", "ability", cmd.Ability, "unit", tag)
				continue
			}
			if plan := p.bestPlan(item); plan != nil {
				p.complete(plan)
			} else {
				slog.Debug("unplanned command", "ability", cmd.Ability, "unit", tag)
			}
		}
	}
}

// bestPlan prefers commanded plans, then priority.
func (p *Planner) bestPlan(item model.Item) *Plan {
	var best *Plan
	for _, plan := range p.Plans() {
		if plan.Item != item {
			continue
		}
		if best == nil || (plan.State == Commanded && best.State != Commanded) {
			best = plan
		}
	}
	return best
}

func (p *Planner) complete(plan *Plan) {
	plan.State = Executed
	p.drop(plan, "executed")
	delete(p.builders, plan.Producer)
}

// handleErrors marks commanded plans whose command was rejected.
func (p *Planner) handleErrors(obs *model.Observation) {
	for _, e := range obs.ActionErrors {
		plan, ok := p.assigned[e.Tag]
		if !ok || plan.State != Commanded || model.Items[plan.Item].Ability != e.Ability {
			continue
		}
		delete(p.builders, e.Tag)
		if plan.Fixed {
			p.drop(plan, e.Result)
			continue
		}
		plan.State = Failed
		plan.Target = nil
		slog.Info("plan failed", "item", plan.Item, "result", e.Result)
	}
}

// returnLarvae puts larva plans back in the queue; larva tags do not survive
// the command.
func (p *Planner) returnLarvae(obs *model.Observation) {
	for tag := range p.assigned {
		if u, ok := obs.ByTag[tag]; ok && u.Type == model.Larva {
			p.unassign(tag, "")
		}
	}
}

func (p *Planner) cancelBelow(minPriority float64) {
	for _, plan := range p.Plans() {
		if plan.Priority < minPriority {
			p.drop(plan, "low priority")
		}
	}
}

func canTrain(t model.UnitType, item model.Item) bool {
	return slices.Contains(model.Items[item].TrainedFrom, t)
}

// assign hands unassigned plans to free producers in priority order.
// Hatchery plans take the producer nearest to their expected target.
func (p *Planner) assign(obs *model.Observation, host model.Host) {
	var free []*model.Unit
	for _, u := range obs.Mine {
		if !u.IsReady() || (u.IsStructure() && !u.IsIdle()) {
			continue
		}
		if _, taken := p.assigned[u.Tag]; taken {
			continue
		}
		free = append(free, u)
	}
	slices.SortFunc(free, func(a, b *model.Unit) int { return cmp.Compare(a.Tag, b.Tag) })

	queue := slices.Clone(p.unassigned)
	slices.SortStableFunc(queue, byPriority)
	for _, plan := range queue {
		var candidates []*model.Unit
		for _, u := range free {
			if canTrain(u.Type, plan.Item) {
				candidates = append(candidates, u)
			}
		}
		if len(candidates) == 0 {
			continue
		}
		trainer := candidates[0]
		if plan.Item == model.UnitItem(model.Hatchery) {
			if pos, err := p.expansionTarget(obs, host); err == nil {
				trainer = nearestTrainer(candidates, pos)
			}
		}
		free = slices.DeleteFunc(free, func(u *model.Unit) bool { return u == trainer })
		p.unassigned = slices.DeleteFunc(p.unassigned, func(q *Plan) bool { return q == plan })
		plan.State = Assigned
		plan.Producer = trainer.Tag
		p.assigned[trainer.Tag] = plan
		if trainer.Type != model.Larva {
			slog.Info("plan assigned", "item", plan.Item, "producer", trainer.Tag)
		}
	}
}

func (p *Planner) execute(obs *model.Observation, host model.Host) map[model.Tag]model.Action {
	actions := make(map[model.Tag]model.Action)
	bank := obs.Bank
	bank.Larva = min(1, bank.Larva)
	var reserve model.Cost

	plans := slices.Collect(maps.Values(p.assigned))
	slices.SortStableFunc(plans, byPriority)
	for _, plan := range plans {
		tag := plan.Producer
		producer, ok := obs.ByTag[tag]
		switch {
		case !ok:
			p.unassign(tag, "producer missing")
			continue
		case producer.Type == model.Egg:
			p.unassign(tag, "producer is an egg")
			continue
		case !canTrain(producer.Type, plan.Item):
			p.unassign(tag, "producer cannot train")
			continue
		}
		if len(obs.MissingRequirements(plan.Item)) > 0 {
			continue
		}
		if plan.State == Failed {
			plan.State = Assigned
		}

		if pos, ok := plan.Target.(PositionTarget); ok && !p.placeable(obs, host, plan.Item, pos.Position) {
			if plan.Fixed {
				p.drop(plan, "target invalid")
				continue
			}
			plan.Target = nil
		}
		if plan.Target == nil {
			t, err := p.target(obs, host, producer, plan)
			if errors.Is(err, ErrPlacementNotFound) {
				continue
			}
			plan.Target = t
		}

		cost := model.CostOf(plan.Item)
		eta := model.ETA(bank, obs.Income, reserve, cost)
		if !math.IsInf(eta, 1) {
			reserve = reserve.Add(cost.Sub(obs.Income.Scale(eta)).Max(model.Cost{}))
		}

		switch {
		case eta == 0:
			actions[tag] = useAbility(model.Items[plan.Item].Ability, plan.Target)
			plan.State = Commanded
			if producer.IsWorker() {
				p.builders[tag] = true
			}
		case hasTarget(plan.Target) && producer.IsCarrying:
			actions[tag] = model.UseAbility{Ability: model.AbilityHarvestReturn}
		case hasTarget(plan.Target) && p.steps%premoveInterval == 0:
			if a := premove(host, producer, plan.Target, eta); a != nil {
				actions[tag] = a
			}
		}
	}
	return actions
}

func (p *Planner) placeable(obs *model.Observation, host model.Host, item model.Item, pos model.Position) bool {
	if p.blocked.Contains(pos.Point(), obs.Time) {
		return false
	}
	if host == nil || !item.IsUnit() || item.UnitType() == model.SporeCrawler {
		return true
	}
	return host.CanPlace(item.UnitType(), pos)
}

func useAbility(a model.AbilityID, t Target) model.Action {
	switch t := t.(type) {
	case UnitTarget:
		return model.AbilityOn(a, t.Tag)
	case PositionTarget:
		return model.AbilityAt(a, t.Position)
	}
	return model.UseAbility{Ability: a}
}

// premove walks the producer to its target when it would arrive about when
// the resources are ready.
func premove(host model.Host, u *model.Unit, t Target, eta float64) model.Action {
	target, ok := TargetPosition(t)
	if !ok {
		return nil
	}
	travel := premoveSlack + pathingDistance(host, u.Position, target)/max(epsilon, speedFactor*u.Speed)
	if eta > travel {
		return nil
	}
	if u.Position.Distance(target) < arrivedDistance {
		return model.HoldPosition{}
	}
	return model.Move{Target: target}
}
