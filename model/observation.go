package model

import (
	"slices"
)

// Base is an expansion location with its resource cluster and static defense slots.
type Base struct {
	Position    Position   `json:"position"`
	Resources   []Position `json:"resources"`
	MineralLine Position   `json:"mineralLine"`
	SpineSlot   Position   `json:"spineSlot"`
	SporeSlot   Position   `json:"sporeSlot"`
}

// GameInfo is the static map data received once at game start.
type GameInfo struct {
	MapWidth            int        `json:"mapWidth"`
	MapHeight           int        `json:"mapHeight"`
	Pathing             *Grid      `json:"pathing"`
	Placement           *Grid      `json:"placement"`
	Bases               []Base     `json:"bases"`
	StartLocation       Position   `json:"startLocation"`
	EnemyStartLocations []Position `json:"enemyStartLocations"`
	EnemyRace           Race       `json:"enemyRace"`
	OverlordSpots       []Position `json:"overlordSpots,omitempty"`
}

// Effect is a persistent area effect visible on the map.
type Effect struct {
	ID        EffectID   `json:"id"`
	Positions []Position `json:"positions"`
	Radius    float64    `json:"radius"`
}

// ActionError is a command rejected by the game since the previous step.
type ActionError struct {
	Tag     Tag       `json:"tag"`
	Ability AbilityID `json:"ability"`
	Result  string    `json:"result"`
	// Position is the command target when the host knows it.
	Position *Position `json:"position,omitempty"`
}

// Action results that mark a placement as blocked.
const (
	ResultCantBuildLocationInvalid = "CantBuildLocationInvalid"
	ResultCouldntReachTarget       = "CouldntReachTarget"
)

// Command is a unit command the game executed since the previous step.
type Command struct {
	Tags      []Tag     `json:"tags"`
	Ability   AbilityID `json:"ability"`
	TargetTag Tag       `json:"targetTag,omitempty"`
	TargetPos *Position `json:"targetPos,omitempty"`
}

// Snapshot is the raw per-step state as sent by the host.
type Snapshot struct {
	Time       float64 `json:"time"`
	GameLoop   int     `json:"gameLoop"`
	Units      []Unit  `json:"units"`
	EnemyUnits []Unit  `json:"enemyUnits"`
	Minerals   []Unit  `json:"minerals"`
	Geysers    []Unit  `json:"geysers"`

	BankMinerals float64 `json:"bankMinerals"`
	BankVespene  float64 `json:"bankVespene"`
	SupplyUsed   float64 `json:"supplyUsed"`
	SupplyCap    float64 `json:"supplyCap"`

	Upgrades []UpgradeID `json:"upgrades"`

	Creep        *Grid `json:"creep"`
	Visibility   *Grid `json:"visibility"`
	AirSafety    *Grid `json:"airSafety"`
	GroundSafety *Grid `json:"groundSafety"`

	Effects      []Effect      `json:"effects,omitempty"`
	ActionErrors []ActionError `json:"actionErrors,omitempty"`
	Commands     []Command     `json:"commands,omitempty"`
}

// CountMode selects which sources Count adds up.
type CountMode uint8

const (
	CountActual CountMode = 1 << iota
	CountPending
	CountPlanned

	CountAll = CountActual | CountPending | CountPlanned
)

// Income rates per harvester and per hatchery, in units per second.
const (
	MineralRate      = 0.915
	VespeneRate      = 0.94
	LarvaRate        = 1.0 / 11
	InjectLarvaRate  = 3.0 / 29
	OverlordDuration = 18.0
)

// Observation is the read-only view every subsystem consumes during a step.
type Observation struct {
	*GameInfo
	Snapshot

	Bank   Cost
	Income Cost

	ByTag map[Tag]*Unit

	// Mine and EnemyAll are pointers into the snapshot slices.
	Mine     []*Unit
	EnemyAll []*Unit

	Townhalls  []*Unit
	Workers    []*Unit
	Extractors []*Unit
	// TownhallAt maps a base index to the own townhall standing on it.
	TownhallAt map[int]*Unit

	planned  map[Item]int
	actual   map[UnitType]int
	ready    map[UnitType]int
	pending  map[Item]int
	upgrades map[UpgradeID]bool
}

// NewObservation indexes a snapshot. planned holds the macro planner's
// outstanding plan counts and may be nil.
func NewObservation(info *GameInfo, snap Snapshot, planned map[Item]int) *Observation {
	if info == nil {
		info = &GameInfo{}
	}
	o := &Observation{
		GameInfo:   info,
		Snapshot:   snap,
		ByTag:      make(map[Tag]*Unit, len(snap.Units)+len(snap.EnemyUnits)),
		TownhallAt: make(map[int]*Unit),
		planned:    planned,
		actual:     make(map[UnitType]int),
		ready:      make(map[UnitType]int),
		pending:    make(map[Item]int),
		upgrades:   make(map[UpgradeID]bool, len(snap.Upgrades)),
	}
	if o.planned == nil {
		o.planned = map[Item]int{}
	}
	for _, up := range snap.Upgrades {
		o.upgrades[up] = true
	}

	larva := 0
	pendingOverlords := 0
	for i := range o.Snapshot.Units {
		u := &o.Snapshot.Units[i]
		o.ByTag[u.Tag] = u
		o.Mine = append(o.Mine, u)
		o.actual[u.Type]++
		if u.IsReady() {
			o.ready[u.Type]++
		}
		switch {
		case u.Type == Larva:
			larva++
		case IsTownhallType(u.Type):
			o.Townhalls = append(o.Townhalls, u)
		case u.IsWorker():
			o.Workers = append(o.Workers, u)
		case u.Type == Extractor:
			o.Extractors = append(o.Extractors, u)
		}
		for _, ord := range u.Orders {
			item, ok := AbilityItems[ord.Ability]
			if !ok {
				continue
			}
			n := 1
			if item == UnitItem(Zergling) {
				n = 2
			}
			o.pending[item] += n
			if item == UnitItem(Overlord) {
				pendingOverlords++
			}
		}
	}
	for i := range o.Snapshot.EnemyUnits {
		u := &o.Snapshot.EnemyUnits[i]
		o.ByTag[u.Tag] = u
		o.EnemyAll = append(o.EnemyAll, u)
	}
	for i := range o.Snapshot.Minerals {
		o.ByTag[o.Snapshot.Minerals[i].Tag] = &o.Snapshot.Minerals[i]
	}
	for i := range o.Snapshot.Geysers {
		o.ByTag[o.Snapshot.Geysers[i].Tag] = &o.Snapshot.Geysers[i]
	}

	for i, b := range info.Bases {
		for _, th := range o.Townhalls {
			if th.Position.Distance(b.Position) < 3 {
				o.TownhallAt[i] = th
				break
			}
		}
	}

	o.Bank = Cost{
		Minerals: snap.BankMinerals,
		Vespene:  snap.BankVespene,
		Supply:   max(0, snap.SupplyCap-snap.SupplyUsed),
		Larva:    float64(larva),
	}
	o.Income = o.estimateIncome(pendingOverlords)
	return o
}

func (o *Observation) estimateIncome(pendingOverlords int) Cost {
	var mineralWorkers, gasWorkers int
	var larva float64
	for _, th := range o.Townhalls {
		if !th.IsReady() {
			continue
		}
		mineralWorkers += min(th.AssignedHarvesters, max(th.IdealHarvesters, 0))
		larva += LarvaRate
		if th.BuffRemain > 0 {
			larva += InjectLarvaRate
		}
	}
	for _, ex := range o.Extractors {
		if ex.IsReady() {
			gasWorkers += ex.AssignedHarvesters
		}
	}
	return Cost{
		Minerals: MineralRate * float64(mineralWorkers),
		Vespene:  VespeneRate * float64(gasWorkers),
		Supply:   SupplyProvided(Overlord) * float64(pendingOverlords) / OverlordDuration,
		Larva:    larva,
	}
}

// Count returns how many of item exist under the given mode. Unit types
// include their tech equivalents.
func (o *Observation) Count(item Item, mode CountMode) int {
	n := 0
	if mode&CountActual != 0 {
		if item.IsUnit() {
			for _, t := range Equivalents(item.UnitType()) {
				n += o.actual[t]
			}
		} else if o.upgrades[item.UpgradeID()] {
			n++
		}
	}
	if mode&CountPending != 0 {
		n += o.pending[item]
	}
	if mode&CountPlanned != 0 {
		n += o.planned[item]
	}
	return n
}

// CountUnit is Count over every source.
func (o *Observation) CountUnit(t UnitType) int { return o.Count(UnitItem(t), CountAll) }

// ReadyCount counts ready own units of t and its equivalents.
func (o *Observation) ReadyCount(t UnitType) int {
	n := 0
	for _, e := range Equivalents(t) {
		n += o.ready[e]
	}
	return n
}

func (o *Observation) HasUpgrade(u UpgradeID) bool { return o.upgrades[u] }

// UpgradePending reports research in progress or already done.
func (o *Observation) UpgradePending(u UpgradeID) bool {
	return o.upgrades[u] || o.pending[UpgradeItem(u)] > 0
}

// MissingRequirements lists the prerequisites of item that are not ready yet.
func (o *Observation) MissingRequirements(item Item) []Item {
	var missing []Item
	for _, r := range Items[item].Requires {
		if r.IsUnit() {
			if o.ReadyCount(r.UnitType()) == 0 {
				missing = append(missing, r)
			}
		} else if !o.upgrades[r.UpgradeID()] {
			missing = append(missing, r)
		}
	}
	return missing
}

// CanProduce reports whether requirements are met and a producer type exists.
func (o *Observation) CanProduce(item Item) bool {
	if len(o.MissingRequirements(item)) > 0 {
		return false
	}
	for _, t := range Items[item].TrainedFrom {
		if t == Larva && o.ReadyCount(Hatchery) > 0 {
			return true
		}
		if o.ReadyCount(t) > 0 {
			return true
		}
	}
	return false
}

// OfType returns own units of any of the given types.
func (o *Observation) OfType(types ...UnitType) []*Unit {
	var out []*Unit
	for _, u := range o.Mine {
		if slices.Contains(types, u.Type) {
			out = append(out, u)
		}
	}
	return out
}

// Combatants are own units that fight.
func (o *Observation) Combatants() []*Unit {
	var out []*Unit
	for _, u := range o.Mine {
		if u.IsCombatant() && u.Type != Queen {
			out = append(out, u)
		}
	}
	return out
}

// EnemyCombatants are enemy units that fight.
func (o *Observation) EnemyCombatants() []*Unit {
	var out []*Unit
	for _, u := range o.EnemyAll {
		if u.IsCombatant() {
			out = append(out, u)
		}
	}
	return out
}

// EnemyStructures returns the enemy's known buildings.
func (o *Observation) EnemyStructures() []*Unit {
	var out []*Unit
	for _, u := range o.EnemyAll {
		if u.IsStructure() {
			out = append(out, u)
		}
	}
	return out
}

// EnemyWorkers returns visible enemy workers.
func (o *Observation) EnemyWorkers() []*Unit {
	var out []*Unit
	for _, u := range o.EnemyAll {
		if u.IsWorker() {
			out = append(out, u)
		}
	}
	return out
}

func (o *Observation) IsVisible(p Position) bool { return o.Visibility.AtPos(p) >= 2 }
func (o *Observation) HasCreep(p Position) bool  { return o.Creep.AtPos(p) > 0 }

// InPathingGrid reports whether p is ground-pathable. Without a pathing grid
// everything counts as pathable.
func (o *Observation) InPathingGrid(p Position) bool {
	if o.Pathing == nil || len(o.Pathing.Data) == 0 {
		return true
	}
	return o.Pathing.AtPos(p) > 0
}

// BasesTaken returns the indices of bases with an own townhall.
func (o *Observation) BasesTaken() []int {
	var out []int
	for i := range o.Bases {
		if _, ok := o.TownhallAt[i]; ok {
			out = append(out, i)
		}
	}
	slices.Sort(out)
	return out
}

// SupplyWorkers counts own workers including drones inside eggs or extractors.
func (o *Observation) SupplyWorkers() int {
	return o.Count(UnitItem(Drone), CountActual|CountPending)
}

// MaxHarvesters is the worker capacity of taken bases: two per mineral patch
// and the ideal count of every ready extractor.
func (o *Observation) MaxHarvesters() int {
	n := 0
	for _, th := range o.Townhalls {
		n += th.IdealHarvesters
	}
	for _, ex := range o.Extractors {
		n += ex.IdealHarvesters
	}
	return n
}

// InMineralLine returns the mineral line center of base i.
func (o *Observation) InMineralLine(i int) Position {
	return o.Bases[i].MineralLine
}

// BehindMineralLine returns a point past the mineral line as seen from the base.
func (o *Observation) BehindMineralLine(i int) Position {
	b := o.Bases[i]
	return b.Position.Towards(b.MineralLine, b.Position.Distance(b.MineralLine)+3)
}

// NearestBase returns the index of the base closest to p, or -1.
func (o *Observation) NearestBase(p Position) int {
	best, bestD := -1, 0.0
	for i, b := range o.Bases {
		d := b.Position.Distance(p)
		if best < 0 || d < bestD {
			best, bestD = i, d
		}
	}
	return best
}

// NaturalBase is the base closest to the start location other than the main,
// or -1.
func (o *Observation) NaturalBase() int {
	best, bestD := -1, 0.0
	for i, b := range o.Bases {
		d := b.Position.Distance(o.StartLocation)
		if d < 1 {
			continue
		}
		if best < 0 || d < bestD {
			best, bestD = i, d
		}
	}
	return best
}
