package combat

import (
	"log/slog"
	"math"

	"github.com/nstehr/vimy/swarm-core/model"
	"github.com/nstehr/vimy/swarm-core/numeric"
	"github.com/nstehr/vimy/swarm-core/params"
)

// Creep tumor timings in game loops.
const (
	TumorCooldown = 304
	TumorStuck    = 3000
)

const (
	creepRefreshSteps = 10
	creepBlurRadius   = 3

	queenCreepRadius = 12.0
	tumorCreepRadius = 10
	queenTumorEnergy = 25 + 10

	// distance from a townhall within which a placement counts as defensive
	defensiveRadius = 12.0
	// base footprint kept free of tumors
	expansionClearance = 3.0
)

// CreepSpread tracks creep tumors across steps and picks tumor placements.
type CreepSpread struct {
	DefensiveBonus float64

	step      int
	createdAt map[model.Tag]int
	spent     map[model.Tag]bool

	placement *model.Grid
	value     *model.Grid
}

func NewCreepSpread(p params.Parameters) *CreepSpread {
	return &CreepSpread{
		DefensiveBonus: p.CreepDefensiveBonus,
		createdAt:      make(map[model.Tag]int),
		spent:          make(map[model.Tag]bool),
	}
}

// Update advances tumor timers and refreshes the placement and value maps
// every few steps.
func (c *CreepSpread) Update(obs *model.Observation) {
	for _, cmd := range obs.Commands {
		if cmd.Ability != model.AbilityBuildCreepTumorTumor && cmd.Ability != model.AbilityBuildCreepTumor {
			continue
		}
		for _, tag := range cmd.Tags {
			if _, ok := c.createdAt[tag]; ok {
				c.spent[tag] = true
				delete(c.createdAt, tag)
			}
		}
	}

	alive := make(map[model.Tag]bool)
	for _, t := range obs.OfType(model.CreepTumorBurrowed) {
		alive[t.Tag] = true
		if c.spent[t.Tag] {
			continue
		}
		created, ok := c.createdAt[t.Tag]
		if !ok {
			c.createdAt[t.Tag] = obs.GameLoop
			continue
		}
		if obs.GameLoop-created > TumorStuck {
			slog.Info("creep tumor stuck", "tag", t.Tag, "age", obs.GameLoop-created)
			c.spent[t.Tag] = true
			delete(c.createdAt, t.Tag)
		}
	}
	for tag := range c.createdAt {
		if !alive[tag] {
			delete(c.createdAt, tag)
		}
	}
	for tag := range c.spent {
		if !alive[tag] {
			delete(c.spent, tag)
		}
	}

	if c.step%creepRefreshSteps == 0 || c.placement == nil {
		c.refresh(obs)
	}
	c.step++
}

func (c *CreepSpread) refresh(obs *model.Observation) {
	w, h := obs.MapWidth, obs.MapHeight
	placement := model.NewGrid(w, h, 0)
	open := model.NewGrid(w, h, 0)
	for i := range placement.Data {
		p := placement.PointAt(i)
		pos := p.Center()
		creep := obs.HasCreep(pos)
		if creep && obs.IsVisible(pos) && obs.GroundSafety.At(p) <= model.SafetyLimit {
			placement.Data[i] = 1
		}
		if !creep && obs.InPathingGrid(pos) {
			open.Data[i] = 1
		}
	}
	c.placement = placement
	c.value = numeric.BoxBlur(open, creepBlurRadius)
}

// Active returns the tumors whose spread cooldown has elapsed.
func (c *CreepSpread) Active(obs *model.Observation) []*model.Unit {
	var out []*model.Unit
	for _, t := range obs.OfType(model.CreepTumorBurrowed) {
		created, ok := c.createdAt[t.Tag]
		if ok && obs.GameLoop-created >= TumorCooldown {
			out = append(out, t)
		}
	}
	return out
}

// ShouldSpread caps the tumor count by queen count and game time.
func ShouldSpread(obs *model.Observation) bool {
	tumors := obs.CountUnit(model.CreepTumor) + obs.CountUnit(model.CreepTumorQueen) + obs.CountUnit(model.CreepTumorBurrowed)
	queens := obs.CountUnit(model.Queen)
	return float64(tumors) < math.Min(float64(3*queens), obs.Time/30)
}

// SpreadWith places a tumor from a queen or an active tumor, or returns nil
// when there is nowhere worth placing one.
func (c *CreepSpread) SpreadWith(s *Step, u *model.Unit) model.Action {
	if c.placement == nil {
		return nil
	}
	obs := s.obs
	origin := u.Position.Point()
	var (
		cells   []model.Point
		ability model.AbilityID
		radius  float64
	)
	switch u.Type {
	case model.Queen:
		if u.Energy < queenTumorEnergy {
			return nil
		}
		cells = numeric.Disk(origin, queenCreepRadius, obs.MapWidth, obs.MapHeight)
		ability, radius = model.AbilityBuildCreepTumorQueen, queenCreepRadius
	case model.CreepTumorBurrowed:
		cells = numeric.CirclePerimeter(origin, tumorCreepRadius, obs.MapWidth, obs.MapHeight)
		ability, radius = model.AbilityBuildCreepTumorTumor, tumorCreepRadius
	default:
		return nil
	}

	var (
		best      model.Point
		bestValue = math.Inf(-1)
	)
	for _, p := range cells {
		pos := p.Center()
		if !c.placeable(obs, p) {
			continue
		}
		defensive := nearTownhall(obs, pos)
		if obs.EnemyRace == model.Zerg && !defensive {
			continue
		}
		if blocksExpansion(obs, pos) || !s.IsPositionSafe(pos, false, model.SafetyLimit) {
			continue
		}
		v := c.value.At(p)
		if defensive {
			v += c.DefensiveBonus
		}
		if v > bestValue {
			best, bestValue = p, v
		}
	}
	if math.IsInf(bestValue, -1) {
		return nil
	}

	target := best.Center()
	if u.IsStructure() {
		target = u.Position.Towards(target, radius)
	}
	for _, p := range numeric.Line(target.Point(), origin) {
		if c.placeable(obs, p) {
			return model.AbilityAt(ability, p.Center())
		}
	}
	return nil
}

func (c *CreepSpread) placeable(obs *model.Observation, p model.Point) bool {
	pos := p.Center()
	return obs.IsVisible(pos) && obs.HasCreep(pos) && obs.InPathingGrid(pos) && c.placement.At(p) > 0
}

func nearTownhall(obs *model.Observation, p model.Position) bool {
	for _, th := range obs.Townhalls {
		if th.Position.Distance(p) <= defensiveRadius {
			return true
		}
	}
	return false
}

func blocksExpansion(obs *model.Observation, p model.Position) bool {
	for _, b := range obs.Bases {
		if b.Position.Distance(p) < expansionClearance {
			return true
		}
	}
	return false
}
