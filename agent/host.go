package agent

import (
	"cmp"
	"math"
	"slices"

	"github.com/nstehr/vimy/swarm-core/model"
	"github.com/nstehr/vimy/swarm-core/numeric"
)

// hostQueries answers model.Host from the observation alone: placement from
// the placement grid, creep and unit footprints, straight-line pathing
// distances and kd-tree range queries.
type hostQueries struct {
	obs *model.Observation

	mine, enemy       []*model.Unit
	mineIdx, enemyIdx *numeric.Index

	// blockers are structures, enemy ground units and resources. Own units
	// make way for a new structure.
	blockers    []*model.Unit
	blockerIdx  *numeric.Index
	blockerSpan float64
}

func newHostQueries(obs *model.Observation) *hostQueries {
	h := &hostQueries{obs: obs, mine: obs.Mine, enemy: obs.EnemyAll}
	h.mineIdx = numeric.NewIndex(positions(h.mine))
	h.enemyIdx = numeric.NewIndex(positions(h.enemy))

	for _, u := range slices.Concat(obs.Mine, obs.EnemyAll) {
		if u.IsFlying || (u.IsMine() && !u.IsStructure()) {
			continue
		}
		h.blockers = append(h.blockers, u)
	}
	for i := range obs.Minerals {
		h.blockers = append(h.blockers, &obs.Minerals[i])
	}
	for i := range obs.Geysers {
		h.blockers = append(h.blockers, &obs.Geysers[i])
	}
	for _, u := range h.blockers {
		h.blockerSpan = max(h.blockerSpan, u.Radius)
	}
	h.blockerIdx = numeric.NewIndex(positions(h.blockers))
	return h
}

func positions(units []*model.Unit) []model.Position {
	out := make([]model.Position, len(units))
	for i, u := range units {
		out[i] = u.Position
	}
	return out
}

// CanPlace checks every footprint cell against the placement grid and creep
// and rejects overlaps with blockers.
func (h *hostQueries) CanPlace(t model.UnitType, p model.Position) bool {
	if t == model.Extractor {
		return h.freeGeyser(p)
	}
	r := model.Items[model.UnitItem(t)].Footprint
	if r <= 0 {
		r = 0.5
	}
	needsCreep := t != model.Hatchery
	x0, x1 := int(math.Floor(p.X-r)), int(math.Ceil(p.X+r))
	y0, y1 := int(math.Floor(p.Y-r)), int(math.Ceil(p.Y+r))
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			q := model.Point{X: x, Y: y}
			if h.obs.Placement != nil && len(h.obs.Placement.Data) > 0 {
				if !h.obs.Placement.InBounds(q) || h.obs.Placement.At(q) <= 0 {
					return false
				}
			}
			if needsCreep && h.obs.Creep.At(q) <= 0 {
				return false
			}
		}
	}
	for _, i := range h.blockerIdx.InRange(p, math.Sqrt2*(r+h.blockerSpan)) {
		u := h.blockers[i]
		reach := r + u.Radius
		if math.Abs(u.Position.X-p.X) < reach && math.Abs(u.Position.Y-p.Y) < reach {
			return false
		}
	}
	return true
}

func (h *hostQueries) freeGeyser(p model.Position) bool {
	found := false
	for i := range h.obs.Geysers {
		if h.obs.Geysers[i].Position.Distance(p) < 0.5 {
			found = true
			break
		}
	}
	if !found {
		return false
	}
	for _, ex := range h.obs.Extractors {
		if ex.Position.Distance(p) < 0.5 {
			return false
		}
	}
	return true
}

// PathingDistance is the straight-line distance between two pathable points.
func (h *hostQueries) PathingDistance(a, b model.Position) (float64, bool) {
	if !h.obs.InPathingGrid(a) || !h.obs.InPathingGrid(b) {
		return 0, false
	}
	return a.Distance(b), true
}

// UnitsInRange returns, per query point, the units of who whose centers lie
// within the matching radius.
func (h *hostQueries) UnitsInRange(points []model.Position, radii []float64, who model.Owner) [][]*model.Unit {
	units, idx := h.mine, h.mineIdx
	if who == model.Enemy {
		units, idx = h.enemy, h.enemyIdx
	}
	out := make([][]*model.Unit, len(points))
	for i, p := range points {
		r := 0.0
		if i < len(radii) {
			r = radii[i]
		}
		for _, j := range idx.InRange(p, r) {
			out[i] = append(out[i], units[j])
		}
	}
	return out
}

func (h *hostQueries) IsPositionSafe(g *model.Grid, p model.Position, limit float64) bool {
	return g.AtPos(p) <= limit
}

// FindClosestSafeSpot returns the nearest cell within radius whose threat is
// at the safety limit, or the least threatened reachable cell when none is.
func (h *hostQueries) FindClosestSafeSpot(g *model.Grid, p model.Position, radius float64) model.Position {
	if g == nil || len(g.Data) == 0 {
		return p
	}
	type candidate struct {
		q      model.Point
		threat float64
		dist   float64
	}
	var best *candidate
	for _, q := range numeric.Disk(p.Point(), radius, g.Width, g.Height) {
		v := g.At(q)
		if math.IsInf(v, 1) {
			continue
		}
		c := candidate{q: q, threat: max(v, model.SafetyLimit), dist: q.Center().Distance(p)}
		if best == nil || cmp.Or(cmp.Compare(c.threat, best.threat), cmp.Compare(c.dist, best.dist)) < 0 {
			best = &c
		}
	}
	if best == nil {
		return p
	}
	return best.q.Center()
}
