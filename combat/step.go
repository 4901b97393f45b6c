package combat

import (
	"cmp"
	"hash/fnv"
	"log/slog"
	"math"
	"slices"

	"github.com/nstehr/vimy/swarm-core/model"
	"github.com/nstehr/vimy/swarm-core/numeric"
	"github.com/nstehr/vimy/swarm-core/params"
	"github.com/nstehr/vimy/swarm-core/sim"
)

// MaxUnitRadius bounds the radius of any unit; range queries pad by it.
const MaxUnitRadius = 1.375

const (
	// converts listed movement speed into distance per second
	speedFactor   = 1.4
	tieBreakScale = 1e-3
)

// Step is the combat context for a single tick. It is built from one
// observation and only read afterwards.
type Step struct {
	obs    *model.Observation
	host   model.Host
	params params.Parameters
	eng    *Engagement
	dodge  *Dodge

	Combatants      []*model.Unit
	EnemyCombatants []*model.Unit
	Prediction      sim.Result

	targets   map[model.Tag]*model.Unit
	shootable map[model.Tag][]*model.Unit

	retreatTargets []model.Point
	maps           map[mapKind]*numeric.DijkstraMap

	// transfused guards against two queens healing the same unit.
	transfused map[model.Tag]bool
}

type mapKind int

const (
	retreatGround mapKind = iota
	retreatAir
	retreatCreep
	runbyGround
	runbyAir
)

// NewStep assigns targets to combatants and queens, runs the simulator and advances the engagement
// state. dodge may be nil.
func NewStep(obs *model.Observation, host model.Host, p params.Parameters, eng *Engagement, dodge *Dodge) *Step {
	s := &Step{
		obs:             obs,
		host:            host,
		params:          p,
		eng:             eng,
		dodge:           dodge,
		Combatants:      obs.Combatants(),
		EnemyCombatants: obs.EnemyCombatants(),
		maps:            make(map[mapKind]*numeric.DijkstraMap),
		transfused:      make(map[model.Tag]bool),
	}
	fighters := append(slices.Clone(s.Combatants), obs.OfType(model.Queen)...)
	s.targets = assignTargets(fighters, s.EnemyCombatants)
	s.shootable = s.shootableTargets(fighters)

	attacking := eng.Attacking()
	for _, e := range s.EnemyCombatants {
		attacking[e.Tag] = true
	}
	s.Prediction = sim.New(p).Simulate(s.Combatants, s.EnemyCombatants, attacking)
	eng.Update(s.Prediction.Global, s.Prediction.Local)
	return s
}

// AttackingGlobal reports the army-wide engagement decision for this tick.
func (s *Step) AttackingGlobal() bool { return s.eng.Global() }

// Target returns the primary target assigned to u.
func (s *Step) Target(u *model.Unit) (*model.Unit, bool) {
	t, ok := s.targets[u.Tag]
	return t, ok
}

// Observation returns the observation the step was built from.
func (s *Step) Observation() *model.Observation { return s.obs }

func (s *Step) safetyGrid(flying bool) *model.Grid {
	if flying {
		return s.obs.AirSafety
	}
	return s.obs.GroundSafety
}

// IsUnitSafe reports whether u stands on a cell whose threat is within limit.
func (s *Step) IsUnitSafe(u *model.Unit, limit float64) bool {
	return s.IsPositionSafe(u.Position, u.IsFlying, limit)
}

// IsPositionSafe checks p on the air or ground safety grid.
func (s *Step) IsPositionSafe(p model.Position, flying bool, limit float64) bool {
	g := s.safetyGrid(flying)
	if g == nil {
		return true
	}
	return s.host.IsPositionSafe(g, p, limit)
}

// RetreatTargets returns the cells retreat maps lead to: the medoid of the
// safe combatants, else the safe mineral lines of taken bases, else the start
// mineral line.
func (s *Step) RetreatTargets() []model.Point {
	if s.retreatTargets != nil {
		return s.retreatTargets
	}
	var safe []model.Position
	for _, u := range s.Combatants {
		if u.IsStructure() {
			continue
		}
		if s.IsUnitSafe(u, model.SafetyLimit) {
			safe = append(safe, u.Position)
		}
	}
	switch {
	case len(safe) > 0:
		s.retreatTargets = []model.Point{safe[numeric.Medoid(safe)].Point()}
	default:
		for _, i := range s.obs.BasesTaken() {
			p := s.obs.InMineralLine(i)
			if s.IsPositionSafe(p, false, model.SafetyLimit) {
				s.retreatTargets = append(s.retreatTargets, p.Point())
			}
		}
	}
	if len(s.retreatTargets) == 0 {
		p := s.obs.StartLocation
		if i := s.obs.NearestBase(p); i >= 0 {
			p = s.obs.InMineralLine(i)
		}
		slog.Warn("no retreat targets, falling back to start mineral line", "position", p)
		s.retreatTargets = []model.Point{p.Point()}
	}
	return s.retreatTargets
}

func (s *Step) dijkstraMap(kind mapKind) *numeric.DijkstraMap {
	if m, ok := s.maps[kind]; ok {
		return m
	}
	var (
		grid  *model.Grid
		seeds []model.Point
	)
	switch kind {
	case retreatGround, retreatAir:
		grid = s.safetyGrid(kind == retreatAir)
		seeds = s.RetreatTargets()
	case retreatCreep:
		grid = s.obs.GroundSafety
		seeds = s.creepTargets()
	case runbyGround, runbyAir:
		grid = s.safetyGrid(kind == runbyAir)
		seeds = s.runbyTargets()
	}
	var m *numeric.DijkstraMap
	if grid != nil && len(grid.Data) > 0 && len(seeds) > 0 {
		m = numeric.Dijkstra(grid, seeds)
	}
	s.maps[kind] = m
	return m
}

func (s *Step) retreatMap(flying bool) *numeric.DijkstraMap {
	if flying {
		return s.dijkstraMap(retreatAir)
	}
	return s.dijkstraMap(retreatGround)
}

func (s *Step) runbyMap(flying bool) *numeric.DijkstraMap {
	if flying {
		return s.dijkstraMap(runbyAir)
	}
	return s.dijkstraMap(runbyGround)
}

// creepTargets are the perimeters of ready townhalls plus burrowed tumors.
func (s *Step) creepTargets() []model.Point {
	var out []model.Point
	for _, th := range s.obs.Townhalls {
		if th.IsReady() {
			out = append(out, Perimeter(th)...)
		}
	}
	for _, t := range s.obs.OfType(model.CreepTumorBurrowed) {
		out = append(out, t.Position.Point())
	}
	return out
}

// runbyTargets are enemy structure perimeters and worker positions, or the
// enemy start locations when nothing is known.
func (s *Step) runbyTargets() []model.Point {
	var out []model.Point
	for _, u := range s.obs.EnemyStructures() {
		out = append(out, Perimeter(u)...)
	}
	for _, w := range s.obs.EnemyWorkers() {
		out = append(out, w.Position.Point())
	}
	if len(out) == 0 {
		for _, p := range s.obs.EnemyStartLocations {
			out = append(out, p.Point())
		}
	}
	return out
}

// Perimeter returns the ring of cells just outside a structure's footprint.
func Perimeter(u *model.Unit) []model.Point {
	half := u.Radius
	if info, ok := model.Items[model.UnitItem(u.Type)]; ok && info.Footprint > 0 {
		half = info.Footprint
	}
	half = math.Max(0.5, math.Round(half*2)/2)
	x0 := int(math.Floor(u.Position.X-half)) - 1
	x1 := int(math.Ceil(u.Position.X + half))
	y0 := int(math.Floor(u.Position.Y-half)) - 1
	y1 := int(math.Ceil(u.Position.Y + half))
	var out []model.Point
	for x := x0; x <= x1; x++ {
		out = append(out, model.Point{X: x, Y: y0}, model.Point{X: x, Y: y1})
	}
	for y := y0 + 1; y < y1; y++ {
		out = append(out, model.Point{X: x0, Y: y}, model.Point{X: x1, Y: y})
	}
	return out
}

// shootableTargets lists, per ranged attacker with a ready weapon, the
// attackable enemies already inside its weapon range.
func (s *Step) shootableTargets(units []*model.Unit) map[model.Tag][]*model.Unit {
	var (
		attackers []*model.Unit
		points    []model.Position
		radii     []float64
	)
	for _, u := range units {
		if u.GroundRange < 2 || !u.AttackReady() {
			continue
		}
		attackers = append(attackers, u)
		points = append(points, u.Position)
		radii = append(radii, u.Radius+max(u.GroundRange, u.AirRange)+MaxUnitRadius)
	}
	out := make(map[model.Tag][]*model.Unit, len(attackers))
	if len(attackers) == 0 {
		return out
	}
	candidates := s.host.UnitsInRange(points, radii, model.Enemy)
	for i, u := range attackers {
		if i >= len(candidates) {
			break
		}
		var in []*model.Unit
		for _, t := range candidates[i] {
			if !u.CanAttack(t) || !sim.Attackable(t) {
				continue
			}
			if u.Distance(t) <= u.Radius+u.Range(t)+t.Radius {
				in = append(in, t)
			}
		}
		if len(in) > 0 {
			slices.SortFunc(in, func(a, b *model.Unit) int { return cmp.Compare(a.Tag, b.Tag) })
			out[u.Tag] = in
		}
	}
	return out
}

// assignTargets gives every attacker the enemy minimizing time to reach plus
// time to kill. Several attackers may share a target.
func assignTargets(units, enemies []*model.Unit) map[model.Tag]*model.Unit {
	out := make(map[model.Tag]*model.Unit)
	if len(units) == 0 || len(enemies) == 0 {
		return out
	}
	cost := make([][]float64, len(units))
	for i, u := range units {
		cost[i] = make([]float64, len(enemies))
		for j, e := range enemies {
			cost[i][j] = TimeToAttack(u, e) + TimeToKill(u, e) + tieBreakScale*tieBreak(u.Tag, e.Tag)
		}
	}
	capacity := make([]float64, len(enemies))
	for j := range capacity {
		capacity[j] = float64(len(units))
	}
	for i, j := range numeric.NewSolver().Distribute(cost, capacity, nil) {
		if j >= 0 {
			out[units[i].Tag] = enemies[j]
		}
	}
	return out
}

// TimeToAttack is the travel time until target is inside u's weapon range.
func TimeToAttack(u, target *model.Unit) float64 {
	if !sim.Attackable(target) || !u.CanAttack(target) {
		return math.Inf(1)
	}
	gap := math.Max(0, u.Distance(target)-u.Range(target)-u.Radius-target.Radius)
	if gap == 0 {
		return 0
	}
	if u.Speed <= 0 {
		return math.Inf(1)
	}
	return gap / (speedFactor * u.Speed)
}

// TimeToKill is the time u needs to destroy target on its own.
func TimeToKill(u, target *model.Unit) float64 {
	dps := u.DPS(target)
	if dps <= 0 || !sim.Attackable(target) {
		return math.Inf(1)
	}
	return target.HitPoints() / dps
}

// tieBreak maps a tag pair to [0, 1) so equal costs resolve the same way
// every step.
func tieBreak(a, b model.Tag) float64 {
	h := fnv.New64a()
	var buf [16]byte
	for i := range 8 {
		buf[i] = byte(a >> (8 * i))
		buf[8+i] = byte(b >> (8 * i))
	}
	h.Write(buf[:])
	return float64(h.Sum64()>>11) / float64(1<<53)
}
