package harvest

import (
	"cmp"
	"encoding/binary"
	"hash/fnv"
	"log/slog"
	"math"
	"slices"

	"github.com/nstehr/vimy/swarm-core/model"
	"github.com/nstehr/vimy/swarm-core/numeric"
	"github.com/nstehr/vimy/swarm-core/params"
)

// Workers per resource.
const (
	MineralCapacity = 2
	GasCapacity     = 2
)

// spreadCost is added to the second slot of a resource so every patch gets a
// worker before any patch gets two.
const spreadCost = 10.0

// Assignment maps a worker to the cell of its resource.
type Assignment map[model.Tag]model.Point

// Engine keeps the previous assignment so unchanged inputs skip the solver
// and changed inputs prefer keeping workers where they are.
type Engine struct {
	solver     *numeric.Solver
	assignment Assignment
	hash       uint64
	resources  map[model.Point]Resource
}

func NewEngine() *Engine {
	return &Engine{
		solver:     numeric.NewSolver(),
		assignment: Assignment{},
		resources:  map[model.Point]Resource{},
	}
}

// Assignment returns the most recent assignment.
func (e *Engine) Assignment() Assignment { return e.assignment }

// Step assigns harvesters to the resources of obs with gasTarget workers on
// extractors. Workers hidden inside an extractor keep their previous slot.
func (e *Engine) Step(obs *model.Observation, harvesters []*model.Unit, gasTarget int, p params.Parameters) Assignment {
	resources := Resources(obs)
	e.resources = make(map[model.Point]Resource, len(resources))
	for _, r := range resources {
		e.resources[r.Key()] = r
	}

	hidden := e.hiddenInExtractors(obs, harvesters)
	h := inputHash(harvesters, hidden, resources, gasTarget)
	if h == e.hash && len(e.assignment) > 0 {
		slog.Debug("harvester assignment cached", "workers", len(e.assignment))
		return e.assignment
	}

	next, err := e.solve(harvesters, hidden, resources, gasTarget, p)
	if err != nil {
		slog.Error("harvester assignment failed, keeping previous", "error", err)
		return e.assignment
	}
	e.assignment = next
	e.hash = h
	return e.assignment
}

// hiddenInExtractors reconstructs workers that vanished into an extractor:
// previously assigned to it, absent from the observation, and covered by
// the extractor's reported harvester count.
func (e *Engine) hiddenInExtractors(obs *model.Observation, harvesters []*model.Unit) Assignment {
	visible := make(map[model.Point]int)
	for _, u := range harvesters {
		if p, ok := e.assignment[u.Tag]; ok {
			visible[p]++
		}
	}
	tags := make([]model.Tag, 0, len(e.assignment))
	for tag := range e.assignment {
		tags = append(tags, tag)
	}
	slices.Sort(tags)

	hidden := Assignment{}
	for _, tag := range tags {
		if _, ok := obs.ByTag[tag]; ok {
			continue
		}
		p := e.assignment[tag]
		r, ok := e.resources[p]
		if !ok || !r.Gas {
			continue
		}
		if visible[p] < r.Unit.AssignedHarvesters {
			hidden[tag] = p
			visible[p]++
		}
	}
	return hidden
}

func (e *Engine) solve(harvesters []*model.Unit, hidden Assignment, resources []Resource, gasTarget int, p params.Parameters) (Assignment, error) {
	out := Assignment{}
	for tag, pt := range hidden {
		out[tag] = pt
	}
	if len(harvesters) == 0 || len(resources) == 0 {
		return out, nil
	}

	occupied := make(map[model.Point]int)
	for _, pt := range hidden {
		occupied[pt]++
	}

	// One column per free worker slot.
	type slot struct {
		resource int
		rank     int
	}
	var (
		slots      []slot
		mineralMax int
		gasMax     int
	)
	for j, r := range resources {
		capacity := MineralCapacity
		if r.Gas {
			capacity = GasCapacity
		}
		capacity -= occupied[r.Key()]
		for k := range max(0, capacity) {
			slots = append(slots, slot{resource: j, rank: k + occupied[r.Key()]})
		}
		if r.Gas {
			gasMax += max(0, capacity)
		} else {
			mineralMax += max(0, capacity)
		}
	}
	gasTarget = max(0, min(gasMax, gasTarget-len(hidden)))

	workers := slices.Clone(harvesters)
	if limit := mineralMax + gasTarget; len(workers) > limit {
		slices.SortFunc(workers, func(a, b *model.Unit) int { return cmp.Compare(a.Tag, b.Tag) })
		workers = workers[:limit]
	}
	gasTarget = min(gasTarget, len(workers))
	if len(workers) == 0 || len(slots) == 0 {
		return out, nil
	}

	mining := make([]model.Position, len(slots))
	for s, sl := range slots {
		mining[s] = resources[sl.resource].Mining
	}
	positions := make([]model.Position, len(workers))
	for i, u := range workers {
		positions[i] = u.Position
	}
	cost := numeric.PairwiseDistances(positions, mining)
	for i, u := range workers {
		prev, had := e.assignment[u.Tag]
		for s, sl := range slots {
			r := resources[sl.resource]
			cost[i][s] += p.ReturnDistanceWeight*r.ReturnDistance() + spreadCost*float64(sl.rank)
			if !had || prev != r.Key() {
				cost[i][s] += p.StickyCost
			}
		}
	}

	capacity := make([]float64, len(slots))
	weights := make([]float64, len(slots))
	for s, sl := range slots {
		capacity[s] = 1
		if resources[sl.resource].Gas {
			weights[s] = 1
		}
	}
	gas := &numeric.GasConstraint{Weights: weights, Total: float64(gasTarget)}

	picks := e.solver.Distribute(cost, capacity, gas)
	assigned := 0
	for i, s := range picks {
		if s < 0 {
			continue
		}
		out[workers[i].Tag] = resources[slots[s].resource].Key()
		assigned++
	}
	if assigned == 0 {
		return nil, numeric.ErrInfeasible
	}
	return out, nil
}

// GatherWith returns the order that keeps u on its assigned resource, or nil
// when the current order is fine or u has no assignment.
func (e *Engine) GatherWith(obs *model.Observation, u *model.Unit) model.Action {
	p, ok := e.assignment[u.Tag]
	if !ok {
		return nil
	}
	r, ok := e.resources[p]
	if !ok {
		slog.Error("no resource at assigned position", "worker", u.Tag, "position", p)
		return nil
	}
	if len(u.Orders) >= 2 {
		return nil
	}
	switch {
	case u.IsUsing(model.AbilityHarvestGather):
		return Gather(u, r, obs.GameLoop)
	case u.IsUsing(model.AbilityHarvestReturn):
		th := nearestReadyTownhall(obs, u.Position)
		if th == nil {
			return nil
		}
		return Return(u, th)
	}
	return model.Smart{Target: r.Unit.Tag}
}

func nearestReadyTownhall(obs *model.Observation, p model.Position) *model.Unit {
	var (
		best  *model.Unit
		bestD = math.Inf(1)
	)
	for _, th := range obs.Townhalls {
		if !th.IsReady() {
			continue
		}
		if d := th.Position.Distance(p); d < bestD {
			best, bestD = th, d
		}
	}
	return best
}

// inputHash fingerprints everything the solution depends on.
func inputHash(harvesters []*model.Unit, hidden Assignment, resources []Resource, gasTarget int) uint64 {
	var tags []uint64
	for _, u := range harvesters {
		tags = append(tags, uint64(u.Tag))
	}
	for tag := range hidden {
		tags = append(tags, uint64(tag))
	}
	slices.Sort(tags)
	res := make([]uint64, len(resources))
	for i, r := range resources {
		res[i] = uint64(r.Unit.Tag)
	}
	slices.Sort(res)

	h := fnv.New64a()
	var buf [8]byte
	write := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		h.Write(buf[:])
	}
	for _, t := range tags {
		write(t)
	}
	write(math.MaxUint64)
	for _, t := range res {
		write(t)
	}
	write(uint64(gasTarget))
	return h.Sum64()
}
