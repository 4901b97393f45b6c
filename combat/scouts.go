package combat

import (
	"cmp"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/nstehr/vimy/swarm-core/model"
	"github.com/nstehr/vimy/swarm-core/numeric"
)

const (
	supportReassignSteps = 16
	// distance below which a busy overlord counts as arrived
	supportArrived   = 2.0
	changelingCost   = 50.0
	proxySamples     = 24
	proxyArrived     = 1.5
	spreadPenaltyCap = 20.0
	// cost multiplier for cloaked or burrowed targets nobody detects
	undetectedWeight = 0.1
)

// Scouts drives overlords and overseers: support positions, creep
// generation, detection, changelings and the proxy scout.
type Scouts struct {
	step int
	rng  *rand.Rand

	hadLairTech  bool
	known        map[model.Tag]bool
	creepPending map[model.Tag]bool
	support      map[model.Tag]model.Position

	proxy       model.Tag
	proxyTarget *model.Position
	// visionAge holds the last game loop each cell was visible, -1 if never.
	visionAge *model.Grid
}

func NewScouts(seed uint64) *Scouts {
	return &Scouts{
		rng:          rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		known:        make(map[model.Tag]bool),
		creepPending: make(map[model.Tag]bool),
		support:      make(map[model.Tag]model.Position),
	}
}

// Update advances per-game state. It runs once per step before Actions.
func (sc *Scouts) Update(obs *model.Observation) {
	sc.step++

	if sc.visionAge == nil || sc.visionAge.Width != obs.MapWidth || sc.visionAge.Height != obs.MapHeight {
		sc.visionAge = model.NewGrid(obs.MapWidth, obs.MapHeight, -1)
	}
	if obs.Visibility != nil && len(obs.Visibility.Data) == len(sc.visionAge.Data) {
		for i, v := range obs.Visibility.Data {
			if v >= 2 {
				sc.visionAge.Data[i] = float64(obs.GameLoop)
			}
		}
	}
	if sc.proxyTarget != nil && (!sc.visionAge.InBounds(sc.proxyTarget.Point()) || obs.IsVisible(*sc.proxyTarget)) {
		sc.proxyTarget = nil
	}

	sc.proxy = 0
	overlords := obs.OfType(model.Overlord)
	if len(overlords) > 0 {
		sc.proxy = slices.MinFunc(overlords, func(a, b *model.Unit) int { return cmp.Compare(a.Tag, b.Tag) }).Tag
	}

	lair := obs.ReadyCount(model.Lair)+obs.ReadyCount(model.Hive) > 0
	current := make(map[model.Tag]bool, len(overlords))
	for _, o := range overlords {
		current[o.Tag] = true
		if lair && (!sc.hadLairTech || !sc.known[o.Tag]) {
			sc.creepPending[o.Tag] = true
		}
	}
	for tag := range sc.creepPending {
		if !current[tag] {
			delete(sc.creepPending, tag)
		}
	}
	sc.known = current
	sc.hadLairTech = lair
}

// ProxyScout returns the overlord scouting for proxies, or 0.
func (sc *Scouts) ProxyScout() model.Tag { return sc.proxy }

// Actions returns orders for overlords and overseers. detect lists positions
// an overseer should reveal, such as blocked expansions.
func (sc *Scouts) Actions(s *Step, detect []model.Position) map[model.Tag]model.Action {
	out := make(map[model.Tag]model.Action)
	obs := s.obs

	var movable []*model.Unit
	for _, o := range obs.OfType(model.Overlord) {
		if o.Tag == sc.proxy {
			if a := sc.proxyWith(s, o); a != nil {
				out[o.Tag] = a
			}
			continue
		}
		if a := s.KeepUnitSafe(o, model.SafetyLimit); a != nil {
			out[o.Tag] = a
		} else if a := sc.enableCreep(o); a != nil {
			out[o.Tag] = a
		} else {
			movable = append(movable, o)
		}
	}
	sc.assignSupport(obs, movable)
	for _, o := range movable {
		if a := sc.supportWith(s, o); a != nil {
			out[o.Tag] = a
		}
	}

	overseers := obs.OfType(model.Overseer)
	detectBy := assignDetection(overseers, detectTargets(obs, detect))
	scoutBy := assignScouting(overseers, scoutTargets(obs))
	for _, o := range overseers {
		var a model.Action
		switch {
		case obs.InPathingGrid(o.Position) && o.Energy >= changelingCost:
			a = model.UseAbility{Ability: model.AbilitySpawnChangeling}
		default:
			a = s.KeepUnitSafe(o, model.SafetyLimit)
		}
		if a == nil {
			if p, ok := detectBy[o.Tag]; ok {
				a = model.Move{Target: p}
			} else if t, ok := scoutBy[o.Tag]; ok {
				a = model.Move{Target: t.Position}
			}
		}
		if a != nil {
			out[o.Tag] = a
		}
	}
	return out
}

func (sc *Scouts) enableCreep(o *model.Unit) model.Action {
	if !sc.creepPending[o.Tag] {
		return nil
	}
	switch {
	case o.HasAbility(model.AbilityGenerateCreepOff):
		delete(sc.creepPending, o.Tag)
	case o.HasAbility(model.AbilityGenerateCreepOn):
		delete(sc.creepPending, o.Tag)
		return model.UseAbility{Ability: model.AbilityGenerateCreepOn}
	}
	return nil
}

func (sc *Scouts) assignSupport(obs *model.Observation, overlords []*model.Unit) {
	if len(overlords) == 0 || len(obs.OverlordSpots) == 0 {
		clear(sc.support)
		return
	}
	if (sc.step-1)%supportReassignSteps != 0 && len(sc.support) > 0 {
		return
	}
	positions := make([]model.Position, len(overlords))
	for i, o := range overlords {
		positions[i] = o.Position
	}
	cost := numeric.PairwiseDistances(positions, obs.OverlordSpots)
	capacity := make([]float64, len(obs.OverlordSpots))
	for i := range capacity {
		capacity[i] = 1
	}
	clear(sc.support)
	for i, j := range numeric.NewSolver().Distribute(cost, capacity, nil) {
		if j >= 0 {
			sc.support[overlords[i].Tag] = obs.OverlordSpots[j]
		}
	}
}

func (sc *Scouts) supportWith(s *Step, o *model.Unit) model.Action {
	target, ok := sc.support[o.Tag]
	if !ok {
		return nil
	}
	if o.Position.Distance(target) < supportArrived && !o.IsIdle() {
		return nil
	}
	if !s.IsPositionSafe(target, true, model.SafetyLimit) {
		return nil
	}
	return model.Move{Target: target}
}

// proxyWith sends the proxy scout toward the stalest reachable ground tile
// just outside its sight.
func (sc *Scouts) proxyWith(s *Step, o *model.Unit) model.Action {
	if a := s.KeepUnitSafe(o, model.SafetyLimit); a != nil {
		return a
	}
	if sc.proxyTarget == nil {
		sc.proxyTarget = sc.pickProxyTarget(s.obs, o)
		if sc.proxyTarget == nil {
			return nil
		}
	}
	if o.IsIdle() || o.Position.Distance(*sc.proxyTarget) > proxyArrived {
		return model.Move{Target: *sc.proxyTarget}
	}
	return nil
}

func (sc *Scouts) pickProxyTarget(obs *model.Observation, o *model.Unit) *model.Position {
	if o.Speed <= 0 {
		return nil
	}
	natural := obs.StartLocation
	if n := obs.NaturalBase(); n >= 0 {
		natural = obs.Bases[n].Position
	}
	sight := o.Radius + o.SightRange
	var (
		best             *model.Position
		bestAge, bestNat float64
	)
	for k := range proxySamples {
		r := sight + float64(proxySamples)*float64(k)/float64(proxySamples-1)
		angle := sc.rng.Float64() * 2 * math.Pi
		p := o.Position.Offset(r*math.Cos(angle), r*math.Sin(angle)).Point()
		if !sc.visionAge.InBounds(p) || !obs.InPathingGrid(p.Center()) || obs.IsVisible(p.Center()) {
			continue
		}
		age := sc.visionAge.At(p) + r/o.Speed
		nat := p.Center().Distance(natural)
		if best == nil || age < bestAge || (age == bestAge && nat < bestNat) {
			c := p.Center()
			best, bestAge, bestNat = &c, age, nat
		}
	}
	return best
}

// detectTargets are the given positions plus every cloaked or burrowed enemy
// that is not revealed.
func detectTargets(obs *model.Observation, extra []model.Position) []model.Position {
	out := slices.Clone(extra)
	for _, e := range obs.EnemyAll {
		if (e.IsCloaked || e.IsBurrowed) && !e.IsRevealed {
			out = append(out, e.Position)
		}
	}
	return out
}

func assignDetection(overseers []*model.Unit, targets []model.Position) map[model.Tag]model.Position {
	out := make(map[model.Tag]model.Position)
	if len(overseers) == 0 || len(targets) == 0 {
		return out
	}
	positions := make([]model.Position, len(overseers))
	for i, o := range overseers {
		positions[i] = o.Position
	}
	cost := numeric.PairwiseDistances(targets, positions)
	capacity := make([]float64, len(overseers))
	for i := range capacity {
		capacity[i] = 1
	}
	for i, j := range numeric.NewSolver().Distribute(cost, capacity, nil) {
		if j >= 0 {
			out[overseers[j].Tag] = targets[i]
		}
	}
	return out
}

func scoutTargets(obs *model.Observation) []*model.Unit {
	if ts := obs.EnemyCombatants(); len(ts) > 0 {
		return ts
	}
	return obs.EnemyAll
}

// assignScouting spreads overseers over enemy units. Each cost is offset by
// the second-nearest overseer's distance so scouts fan out, and cloaked
// targets nobody detects are strongly preferred.
func assignScouting(overseers, targets []*model.Unit) map[model.Tag]*model.Unit {
	out := make(map[model.Tag]*model.Unit)
	if len(overseers) == 0 || len(targets) == 0 {
		return out
	}
	positions := make([]model.Position, len(overseers))
	for i, o := range overseers {
		positions[i] = o.Position
	}
	tpos := make([]model.Position, len(targets))
	for j, t := range targets {
		tpos[j] = t.Position
	}
	cost := numeric.PairwiseDistances(positions, tpos)
	if len(overseers) > 1 {
		for j := range targets {
			col := make([]float64, len(overseers))
			for i := range overseers {
				col[i] = cost[i][j]
			}
			slices.Sort(col)
			penalty := math.Min(spreadPenaltyCap, col[1])
			for i := range overseers {
				cost[i][j] -= penalty
			}
		}
	}
	for j, t := range targets {
		if (t.IsCloaked || t.IsBurrowed) && !t.IsRevealed {
			for i := range overseers {
				cost[i][j] *= undetectedWeight
			}
		}
	}
	capacity := make([]float64, len(targets))
	for j := range capacity {
		capacity[j] = float64(len(overseers))
	}
	for i, j := range numeric.NewSolver().Distribute(cost, capacity, nil) {
		if j >= 0 {
			out[overseers[i].Tag] = targets[j]
		}
	}
	return out
}

// SearchWith keeps an idle changeling or combatant moving through enemy
// territory: enemy starts early on, then the closest known enemy, else a
// random spot that is out of sight and reachable.
func (sc *Scouts) SearchWith(obs *model.Observation, u *model.Unit) model.Action {
	if !u.IsIdle() && !u.IsUsing(model.AbilityHarvestGather) && !u.IsUsing(model.AbilityHarvestReturn) {
		return nil
	}
	if obs.Time < 8*60 && len(obs.EnemyStartLocations) > 0 {
		return model.Move{Target: obs.EnemyStartLocations[sc.rng.IntN(len(obs.EnemyStartLocations))]}
	}
	if len(obs.EnemyAll) > 0 {
		closest := slices.MinFunc(obs.EnemyAll, func(a, b *model.Unit) int {
			return cmp.Compare(u.Distance(a), u.Distance(b))
		})
		return model.AttackMove{Target: closest.Position}
	}
	if obs.MapWidth == 0 || obs.MapHeight == 0 {
		return nil
	}
	target := model.Position{
		X: sc.rng.Float64() * float64(obs.MapWidth),
		Y: sc.rng.Float64() * float64(obs.MapHeight),
	}
	if obs.IsVisible(target) || (!u.IsFlying && !obs.InPathingGrid(target)) {
		return nil
	}
	return model.Move{Target: target}
}
