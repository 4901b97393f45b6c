package macro

import (
	"log/slog"
	"maps"
	"slices"

	"github.com/nstehr/vimy/swarm-core/model"
)

// BlockedDuration is how long a rejected placement stays blocked, in seconds.
const BlockedDuration = 60.0

// Blocked remembers placements the game rejected.
type Blocked struct {
	since map[model.Point]float64
}

func NewBlocked() *Blocked {
	return &Blocked{since: make(map[model.Point]float64)}
}

func blocksPlacement(result string) bool {
	return result == model.ResultCantBuildLocationInvalid || result == model.ResultCouldntReachTarget
}

func isCreepTumorAbility(a model.AbilityID) bool {
	switch a {
	case model.AbilityBuildCreepTumor, model.AbilityBuildCreepTumorQueen, model.AbilityBuildCreepTumorTumor:
		return true
	}
	return false
}

// Record expires old entries and adds the positions of this step's placement
// errors. An error without a position falls back to the target in targets,
// then to the unit's own position. Creep tumor errors are ignored.
func (b *Blocked) Record(obs *model.Observation, targets map[model.Tag]model.Position) {
	for p, t := range b.since {
		if obs.Time-t >= BlockedDuration {
			delete(b.since, p)
			slog.Info("blocked position expired", "x", p.X, "y", p.Y)
		}
	}
	for _, e := range obs.ActionErrors {
		if !blocksPlacement(e.Result) || isCreepTumorAbility(e.Ability) {
			continue
		}
		pos, ok := targets[e.Tag]
		if e.Position != nil {
			pos, ok = *e.Position, true
		}
		if !ok {
			u, found := obs.ByTag[e.Tag]
			if !found {
				continue
			}
			pos = u.Position
		}
		p := pos.Point()
		if _, ok := b.since[p]; ok {
			continue
		}
		b.since[p] = obs.Time
		slog.Info("blocked position detected", "x", p.X, "y", p.Y, "result", e.Result)
	}
}

// Contains reports whether p is blocked at time now.
func (b *Blocked) Contains(p model.Point, now float64) bool {
	t, ok := b.since[p]
	return ok && now-t < BlockedDuration
}

// Active returns the blocked points at time now, sorted by row then column.
func (b *Blocked) Active(now float64) []model.Point {
	var out []model.Point
	for _, p := range slices.SortedFunc(maps.Keys(b.since), comparePoints) {
		if b.Contains(p, now) {
			out = append(out, p)
		}
	}
	return out
}

func comparePoints(a, b model.Point) int {
	if a.Y != b.Y {
		return a.Y - b.Y
	}
	return a.X - b.X
}
