package macro

import (
	"cmp"
	"errors"
	"math"
	"slices"

	"github.com/nstehr/vimy/swarm-core/harvest"
	"github.com/nstehr/vimy/swarm-core/model"
)

// ErrPlacementNotFound means no legal target exists this step. The plan keeps
// its producer and retries.
var ErrPlacementNotFound = errors.New("placement not found")

const (
	structureAttempts    = 100
	structureMinDistance = 8.0
	structureMaxDistance = 12.0
	// maximum deviation from the direction behind the mineral line
	structureAngleSpread = math.Pi / 4
)

// target picks where plan should be executed by trainer.
func (p *Planner) target(obs *model.Observation, host model.Host, trainer *model.Unit, plan *Plan) (Target, error) {
	if !plan.Item.IsUnit() {
		return NoTarget{}, nil
	}
	t := plan.Item.UnitType()
	switch {
	case t == model.Extractor:
		return p.gasTarget(obs, trainer.Position)
	case t == model.Hatchery && model.IsWorkerType(trainer.Type):
		pos, err := p.expansionTarget(obs, host)
		if err != nil {
			return nil, err
		}
		return PositionTarget{Position: pos}, nil
	case model.Items[plan.Item].Placement && model.IsWorkerType(trainer.Type):
		pos, err := p.structureTarget(obs, host, t)
		if err != nil {
			return nil, err
		}
		return PositionTarget{Position: pos}, nil
	}
	return NoTarget{}, nil
}

// gasTarget returns the free geyser at a taken base closest to near. Geysers
// with an extractor, a drone on its way or another plan's claim are skipped.
func (p *Planner) gasTarget(obs *model.Observation, near model.Position) (Target, error) {
	occupied := make(map[model.Point]bool)
	for _, ex := range obs.Extractors {
		occupied[ex.Position.Point()] = true
	}
	claimed := make(map[model.Tag]bool)
	for _, w := range obs.Workers {
		for _, o := range w.Orders {
			if o.Ability == model.AbilityBuildExtractor && o.TargetTag != 0 {
				claimed[o.TargetTag] = true
			}
		}
	}
	for _, plan := range p.Plans() {
		if ut, ok := plan.Target.(UnitTarget); ok {
			claimed[ut.Tag] = true
		}
	}

	var best *model.Unit
	bestD := math.Inf(1)
	for _, g := range harvest.TakenGeysers(obs) {
		if occupied[g.Position.Point()] || claimed[g.Tag] {
			continue
		}
		d := g.Position.Distance(near)
		if best == nil || d < bestD || (d == bestD && g.Tag < best.Tag) {
			best, bestD = g, d
		}
	}
	if best == nil {
		return nil, ErrPlacementNotFound
	}
	return UnitTarget{Tag: best.Tag, Position: best.Position}, nil
}

// expansionTarget returns the free, safe and placeable base that is closest
// to own mineral lines and furthest from the enemy.
func (p *Planner) expansionTarget(obs *model.Observation, host model.Host) (model.Position, error) {
	own := make([]model.Position, 0, len(obs.Bases))
	for _, i := range obs.BasesTaken() {
		own = append(own, obs.InMineralLine(i))
	}
	if len(own) == 0 {
		own = append(own, obs.StartLocation)
	}
	enemy := make([]model.Position, 0, len(obs.EnemyStartLocations))
	for _, s := range obs.EnemyStartLocations {
		if i := obs.NearestBase(s); i >= 0 {
			enemy = append(enemy, obs.InMineralLine(i))
		} else {
			enemy = append(enemy, s)
		}
	}

	best, bestLoss := -1, math.Inf(1)
	for i, b := range obs.Bases {
		if !p.viableExpansion(obs, host, i) {
			continue
		}
		c := baseCenter(b)
		loss := maxDistance(host, c, own) - minDistance(host, c, enemy)
		if best < 0 || loss < bestLoss {
			best, bestLoss = i, loss
		}
	}
	if best < 0 {
		return model.Position{}, ErrPlacementNotFound
	}
	return baseCenter(obs.Bases[best]), nil
}

// baseCenter is where a hatchery goes on b. Townhall footprints are odd, so
// the center lies on a cell center; a base given by its corner cell is
// shifted by half a cell.
func baseCenter(b model.Base) model.Position {
	return b.Position.Point().Center()
}

func (p *Planner) viableExpansion(obs *model.Observation, host model.Host, i int) bool {
	b := obs.Bases[i]
	if p.blocked.Contains(b.Position.Point(), obs.Time) {
		return false
	}
	if _, taken := obs.TownhallAt[i]; taken {
		return false
	}
	if host == nil {
		return true
	}
	c := baseCenter(b)
	if obs.GroundSafety != nil && !host.IsPositionSafe(obs.GroundSafety, c, model.SafetyLimit) {
		return false
	}
	return host.CanPlace(model.Hatchery, c)
}

// pathingDistance asks the host and falls back to the straight line.
func pathingDistance(host model.Host, a, b model.Position) float64 {
	if host != nil {
		if d, ok := host.PathingDistance(a, b); ok {
			return d
		}
	}
	return a.Distance(b)
}

func maxDistance(host model.Host, p model.Position, qs []model.Position) float64 {
	out := 0.0
	for _, q := range qs {
		out = max(out, pathingDistance(host, p, q))
	}
	return out
}

func minDistance(host model.Host, p model.Position, qs []model.Position) float64 {
	if len(qs) == 0 {
		return 0
	}
	out := math.Inf(1)
	for _, q := range qs {
		out = min(out, pathingDistance(host, p, q))
	}
	return out
}

// structureTarget samples spots 8 to 12 away from a random ready base, facing
// behind its mineral line, snapped to the footprint grid.
func (p *Planner) structureTarget(obs *model.Observation, host model.Host, t model.UnitType) (model.Position, error) {
	var bases []int
	for _, i := range obs.BasesTaken() {
		if obs.TownhallAt[i].IsReady() {
			bases = append(bases, i)
		}
	}
	if len(bases) == 0 {
		return model.Position{}, ErrPlacementNotFound
	}
	offset := math.Mod(model.Items[model.UnitItem(t)].Footprint, 1)
	for range structureAttempts {
		i := bases[p.rng.IntN(len(bases))]
		origin := obs.Bases[i].Position
		behind := obs.BehindMineralLine(i).Sub(origin)
		angle := math.Atan2(behind.Y, behind.X) + (2*p.rng.Float64()-1)*structureAngleSpread
		d := structureMinDistance + p.rng.Float64()*(structureMaxDistance-structureMinDistance)
		pos := origin.Offset(d*math.Cos(angle), d*math.Sin(angle)).Rounded().Offset(offset, offset)
		if host == nil || host.CanPlace(t, pos) {
			return pos, nil
		}
	}
	return model.Position{}, ErrPlacementNotFound
}

// nearestTrainer orders trainers by distance to pos, then by tag.
func nearestTrainer(trainers []*model.Unit, pos model.Position) *model.Unit {
	if len(trainers) == 0 {
		return nil
	}
	return slices.MinFunc(trainers, func(a, b *model.Unit) int {
		if c := cmp.Compare(a.Position.Distance(pos), b.Position.Distance(pos)); c != 0 {
			return c
		}
		return cmp.Compare(a.Tag, b.Tag)
	})
}
