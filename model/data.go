package model

// ItemInfo is the static production data for a unit, structure or upgrade.
type ItemInfo struct {
	Cost Cost
	// TrainedFrom lists the producer types able to make this item.
	TrainedFrom []UnitType
	Ability     AbilityID
	// Requires lists items that must exist (ready) before production.
	Requires []Item
	// Placement is set for structures that need a target position.
	Placement bool
	// Footprint is the structure footprint radius; 0 for non-structures.
	Footprint float64
}

var (
	larvaOnly  = []UnitType{Larva}
	droneOnly  = []UnitType{Drone}
	townhalls  = []UnitType{Hatchery, Lair, Hive}
	spireTypes = []UnitType{Spire, GreaterSpire}
)

func ui(t UnitType) Item       { return UnitItem(t) }
func upi(x UpgradeID) Item     { return UpgradeItem(x) }
func req(items ...Item) []Item { return items }

// Items is the production table keyed by item.
var Items = map[Item]ItemInfo{
	ui(Drone):     {Cost: Cost{50, 0, 1, 1}, TrainedFrom: larvaOnly, Ability: AbilityTrainDrone},
	ui(Zergling):  {Cost: Cost{50, 0, 1, 1}, TrainedFrom: larvaOnly, Ability: AbilityTrainZergling, Requires: req(ui(SpawningPool))},
	ui(Overlord):  {Cost: Cost{100, 0, 0, 1}, TrainedFrom: larvaOnly, Ability: AbilityTrainOverlord},
	ui(Roach):     {Cost: Cost{75, 25, 2, 1}, TrainedFrom: larvaOnly, Ability: AbilityTrainRoach, Requires: req(ui(RoachWarren))},
	ui(Hydralisk): {Cost: Cost{100, 50, 2, 1}, TrainedFrom: larvaOnly, Ability: AbilityTrainHydralisk, Requires: req(ui(HydraliskDen))},
	ui(Mutalisk):  {Cost: Cost{100, 100, 2, 1}, TrainedFrom: larvaOnly, Ability: AbilityTrainMutalisk, Requires: req(ui(Spire))},
	ui(Corruptor): {Cost: Cost{150, 100, 2, 1}, TrainedFrom: larvaOnly, Ability: AbilityTrainCorruptor, Requires: req(ui(Spire))},
	ui(Infestor):  {Cost: Cost{100, 150, 2, 1}, TrainedFrom: larvaOnly, Ability: AbilityTrainInfestor, Requires: req(ui(InfestationPit))},
	ui(SwarmHost): {Cost: Cost{100, 75, 3, 1}, TrainedFrom: larvaOnly, Ability: AbilityTrainSwarmHost, Requires: req(ui(InfestationPit))},
	ui(Ultralisk): {Cost: Cost{275, 200, 6, 1}, TrainedFrom: larvaOnly, Ability: AbilityTrainUltralisk, Requires: req(ui(UltraliskCavern))},
	ui(Viper):     {Cost: Cost{100, 200, 3, 1}, TrainedFrom: larvaOnly, Ability: AbilityTrainViper, Requires: req(ui(Hive))},
	ui(Queen):     {Cost: Cost{150, 0, 2, 0}, TrainedFrom: townhalls, Ability: AbilityTrainQueen, Requires: req(ui(SpawningPool))},
	ui(Ravager):   {Cost: Cost{25, 75, 1, 0}, TrainedFrom: []UnitType{Roach}, Ability: AbilityMorphToRavager, Requires: req(ui(RoachWarren))},
	ui(BroodLord): {Cost: Cost{150, 150, 2, 0}, TrainedFrom: []UnitType{Corruptor}, Ability: AbilityMorphToBroodLord, Requires: req(ui(GreaterSpire))},
	ui(Overseer):  {Cost: Cost{50, 50, 0, 0}, TrainedFrom: []UnitType{Overlord}, Ability: AbilityMorphToOverseer, Requires: req(ui(Lair))},
	ui(Baneling):  {Cost: Cost{25, 25, 0, 0}, TrainedFrom: []UnitType{Zergling}, Ability: AbilityMorphZerglingToBaneling, Requires: req(ui(BanelingNest))},

	ui(Hatchery):         {Cost: Cost{300, 0, 0, 0}, TrainedFrom: droneOnly, Ability: AbilityBuildHatchery, Placement: true, Footprint: 2.5},
	ui(Extractor):        {Cost: Cost{25, 0, 0, 0}, TrainedFrom: droneOnly, Ability: AbilityBuildExtractor, Footprint: 1.5},
	ui(SpawningPool):     {Cost: Cost{200, 0, 0, 0}, TrainedFrom: droneOnly, Ability: AbilityBuildSpawningPool, Requires: req(ui(Hatchery)), Placement: true, Footprint: 1.5},
	ui(EvolutionChamber): {Cost: Cost{75, 0, 0, 0}, TrainedFrom: droneOnly, Ability: AbilityBuildEvolutionChamber, Requires: req(ui(Hatchery)), Placement: true, Footprint: 1.5},
	ui(RoachWarren):      {Cost: Cost{150, 0, 0, 0}, TrainedFrom: droneOnly, Ability: AbilityBuildRoachWarren, Requires: req(ui(SpawningPool)), Placement: true, Footprint: 1.5},
	ui(BanelingNest):     {Cost: Cost{100, 50, 0, 0}, TrainedFrom: droneOnly, Ability: AbilityBuildBanelingNest, Requires: req(ui(SpawningPool)), Placement: true, Footprint: 1.5},
	ui(HydraliskDen):     {Cost: Cost{100, 100, 0, 0}, TrainedFrom: droneOnly, Ability: AbilityBuildHydraliskDen, Requires: req(ui(Lair)), Placement: true, Footprint: 1.5},
	ui(Spire):            {Cost: Cost{200, 200, 0, 0}, TrainedFrom: droneOnly, Ability: AbilityBuildSpire, Requires: req(ui(Lair)), Placement: true, Footprint: 1},
	ui(InfestationPit):   {Cost: Cost{100, 100, 0, 0}, TrainedFrom: droneOnly, Ability: AbilityBuildInfestationPit, Requires: req(ui(Lair)), Placement: true, Footprint: 1.5},
	ui(UltraliskCavern):  {Cost: Cost{150, 200, 0, 0}, TrainedFrom: droneOnly, Ability: AbilityBuildUltraliskCavern, Requires: req(ui(Hive)), Placement: true, Footprint: 1.5},
	ui(SpineCrawler):     {Cost: Cost{100, 0, 0, 0}, TrainedFrom: droneOnly, Ability: AbilityBuildSpineCrawler, Requires: req(ui(SpawningPool)), Placement: true, Footprint: 1},
	ui(SporeCrawler):     {Cost: Cost{75, 0, 0, 0}, TrainedFrom: droneOnly, Ability: AbilityBuildSporeCrawler, Requires: req(ui(SpawningPool)), Placement: true, Footprint: 1},
	ui(Lair):             {Cost: Cost{150, 100, 0, 0}, TrainedFrom: []UnitType{Hatchery}, Ability: AbilityUpgradeToLair, Requires: req(ui(SpawningPool))},
	ui(Hive):             {Cost: Cost{200, 150, 0, 0}, TrainedFrom: []UnitType{Lair}, Ability: AbilityUpgradeToHive, Requires: req(ui(InfestationPit))},
	ui(GreaterSpire):     {Cost: Cost{100, 150, 0, 0}, TrainedFrom: []UnitType{Spire}, Ability: AbilityUpgradeToGreaterSpire, Requires: req(ui(Hive))},

	upi(UpgradeZerglingSpeed):       {Cost: Cost{100, 100, 0, 0}, TrainedFrom: []UnitType{SpawningPool}, Ability: AbilityResearchZerglingSpeed},
	upi(UpgradeBurrow):              {Cost: Cost{100, 100, 0, 0}, TrainedFrom: townhalls, Ability: AbilityResearchBurrow},
	upi(UpgradeOverlordSpeed):       {Cost: Cost{100, 100, 0, 0}, TrainedFrom: townhalls, Ability: AbilityResearchOverlordSpeed},
	upi(UpgradeGlialReconstitution): {Cost: Cost{100, 100, 0, 0}, TrainedFrom: []UnitType{RoachWarren}, Ability: AbilityResearchGlial, Requires: req(ui(Lair))},
	upi(UpgradeTunnelingClaws):      {Cost: Cost{100, 100, 0, 0}, TrainedFrom: []UnitType{RoachWarren}, Ability: AbilityResearchTunnelingClaws, Requires: req(ui(Lair))},
	upi(UpgradeGroovedSpines):       {Cost: Cost{100, 100, 0, 0}, TrainedFrom: []UnitType{HydraliskDen}, Ability: AbilityResearchGroovedSpines},
	upi(UpgradeMuscularAugments):    {Cost: Cost{100, 100, 0, 0}, TrainedFrom: []UnitType{HydraliskDen}, Ability: AbilityResearchMuscular},
	upi(UpgradeMelee1):              {Cost: Cost{100, 100, 0, 0}, TrainedFrom: []UnitType{EvolutionChamber}, Ability: AbilityResearchMelee1},
	upi(UpgradeMelee2):              {Cost: Cost{150, 150, 0, 0}, TrainedFrom: []UnitType{EvolutionChamber}, Ability: AbilityResearchMelee2, Requires: req(ui(Lair), upi(UpgradeMelee1))},
	upi(UpgradeMelee3):              {Cost: Cost{200, 200, 0, 0}, TrainedFrom: []UnitType{EvolutionChamber}, Ability: AbilityResearchMelee3, Requires: req(ui(Hive), upi(UpgradeMelee2))},
	upi(UpgradeMissile1):            {Cost: Cost{100, 100, 0, 0}, TrainedFrom: []UnitType{EvolutionChamber}, Ability: AbilityResearchMissile1},
	upi(UpgradeMissile2):            {Cost: Cost{150, 150, 0, 0}, TrainedFrom: []UnitType{EvolutionChamber}, Ability: AbilityResearchMissile2, Requires: req(ui(Lair), upi(UpgradeMissile1))},
	upi(UpgradeMissile3):            {Cost: Cost{200, 200, 0, 0}, TrainedFrom: []UnitType{EvolutionChamber}, Ability: AbilityResearchMissile3, Requires: req(ui(Hive), upi(UpgradeMissile2))},
	upi(UpgradeArmor1):              {Cost: Cost{150, 150, 0, 0}, TrainedFrom: []UnitType{EvolutionChamber}, Ability: AbilityResearchArmor1},
	upi(UpgradeArmor2):              {Cost: Cost{225, 225, 0, 0}, TrainedFrom: []UnitType{EvolutionChamber}, Ability: AbilityResearchArmor2, Requires: req(ui(Lair), upi(UpgradeArmor1))},
	upi(UpgradeArmor3):              {Cost: Cost{300, 300, 0, 0}, TrainedFrom: []UnitType{EvolutionChamber}, Ability: AbilityResearchArmor3, Requires: req(ui(Hive), upi(UpgradeArmor2))},
	upi(UpgradeFlyerAttack1):        {Cost: Cost{100, 100, 0, 0}, TrainedFrom: spireTypes, Ability: AbilityResearchFlyerAttack1},
	upi(UpgradeFlyerAttack2):        {Cost: Cost{175, 175, 0, 0}, TrainedFrom: spireTypes, Ability: AbilityResearchFlyerAttack2, Requires: req(ui(Lair), upi(UpgradeFlyerAttack1))},
	upi(UpgradeFlyerAttack3):        {Cost: Cost{250, 250, 0, 0}, TrainedFrom: spireTypes, Ability: AbilityResearchFlyerAttack3, Requires: req(ui(Hive), upi(UpgradeFlyerAttack2))},
	upi(UpgradeFlyerArmor1):         {Cost: Cost{150, 150, 0, 0}, TrainedFrom: spireTypes, Ability: AbilityResearchFlyerArmor1},
	upi(UpgradeFlyerArmor2):         {Cost: Cost{225, 225, 0, 0}, TrainedFrom: spireTypes, Ability: AbilityResearchFlyerArmor2, Requires: req(ui(Lair), upi(UpgradeFlyerArmor1))},
	upi(UpgradeFlyerArmor3):         {Cost: Cost{300, 300, 0, 0}, TrainedFrom: spireTypes, Ability: AbilityResearchFlyerArmor3, Requires: req(ui(Hive), upi(UpgradeFlyerArmor2))},
}

// TechEquivalents maps a type to every type that satisfies it as a requirement.
var TechEquivalents = map[UnitType][]UnitType{
	Hatchery:   {Hatchery, Lair, Hive},
	Lair:       {Lair, Hive},
	Spire:      {Spire, GreaterSpire},
	Roach:      {Roach, RoachBurrowed},
	Drone:      {Drone, DroneBurrowed},
	CreepTumor: {CreepTumor, CreepTumorBurrowed, CreepTumorQueen},
}

// Equivalents returns t together with its tech equivalents.
func Equivalents(t UnitType) []UnitType {
	if eq, ok := TechEquivalents[t]; ok {
		return eq
	}
	return []UnitType{t}
}

// UpgradesByUnit lists the upgrades that improve each unit type.
var UpgradesByUnit = map[UnitType][]UpgradeID{
	Zergling:  {UpgradeZerglingSpeed, UpgradeMelee1, UpgradeMelee2, UpgradeMelee3, UpgradeArmor1, UpgradeArmor2, UpgradeArmor3},
	Baneling:  {UpgradeMelee1, UpgradeMelee2, UpgradeMelee3, UpgradeArmor1, UpgradeArmor2, UpgradeArmor3},
	Ultralisk: {UpgradeMelee1, UpgradeMelee2, UpgradeMelee3, UpgradeArmor1, UpgradeArmor2, UpgradeArmor3},
	Roach:     {UpgradeGlialReconstitution, UpgradeTunnelingClaws, UpgradeBurrow, UpgradeMissile1, UpgradeMissile2, UpgradeMissile3, UpgradeArmor1, UpgradeArmor2, UpgradeArmor3},
	Ravager:   {UpgradeMissile1, UpgradeMissile2, UpgradeMissile3, UpgradeArmor1, UpgradeArmor2, UpgradeArmor3},
	Hydralisk: {UpgradeGroovedSpines, UpgradeMuscularAugments, UpgradeMissile1, UpgradeMissile2, UpgradeMissile3, UpgradeArmor1, UpgradeArmor2, UpgradeArmor3},
	Queen:     {UpgradeBurrow},
	Overlord:  {UpgradeOverlordSpeed},
	Overseer:  {UpgradeOverlordSpeed},
	Mutalisk:  {UpgradeFlyerAttack1, UpgradeFlyerAttack2, UpgradeFlyerAttack3, UpgradeFlyerArmor1, UpgradeFlyerArmor2, UpgradeFlyerArmor3},
	Corruptor: {UpgradeFlyerAttack1, UpgradeFlyerAttack2, UpgradeFlyerAttack3, UpgradeFlyerArmor1, UpgradeFlyerArmor2, UpgradeFlyerArmor3},
	BroodLord: {UpgradeFlyerAttack1, UpgradeFlyerAttack2, UpgradeFlyerAttack3, UpgradeFlyerArmor1, UpgradeFlyerArmor2, UpgradeFlyerArmor3},
}

// AbilityItems maps production abilities back to the item they produce.
var AbilityItems = func() map[AbilityID]Item {
	out := make(map[AbilityID]Item, len(Items))
	for item, info := range Items {
		out[info.Ability] = item
	}
	return out
}()

var structureTypes = map[UnitType]bool{
	Hatchery: true, Lair: true, Hive: true, Extractor: true, SpawningPool: true,
	EvolutionChamber: true, RoachWarren: true, BanelingNest: true, HydraliskDen: true,
	Spire: true, GreaterSpire: true, InfestationPit: true, UltraliskCavern: true,
	SpineCrawler: true, SporeCrawler: true, CreepTumor: true, CreepTumorBurrowed: true,
	CreepTumorQueen: true,
	CommandCenter: true, SupplyDepot: true, Barracks: true, Bunker: true, MissileTurret: true,
	Nexus: true, Pylon: true, Gateway: true, PhotonCannon: true, ShieldBattery: true,
}

var workerTypes = map[UnitType]bool{Drone: true, DroneBurrowed: true, SCV: true, MULE: true, Probe: true}

var changelingTypes = map[UnitType]bool{
	Changeling: true, ChangelingZealot: true, ChangelingMarine: true, ChangelingZergling: true,
}

var townhallTypes = map[UnitType]bool{Hatchery: true, Lair: true, Hive: true, CommandCenter: true, Nexus: true}

// civilianTypes never count as combatants on either side.
var civilianTypes = map[UnitType]bool{
	Larva: true, Egg: true, Drone: true, DroneBurrowed: true, Overlord: true, Overseer: true,
	OverlordCocoon: true, BroodLordCocoon: true, RavagerCocoon: true, BanelingCocoon: true,
	Broodling: true, SCV: true, MULE: true, Probe: true, Observer: true, WarpPrism: true,
	Changeling: true, ChangelingZealot: true, ChangelingMarine: true, ChangelingZergling: true,
}

// combatStructures are structures that take part in fights.
var combatStructures = map[UnitType]bool{
	SpineCrawler: true, SporeCrawler: true, PhotonCannon: true, Bunker: true, MissileTurret: true,
}

func IsStructureType(t UnitType) bool  { return structureTypes[t] }
func IsWorkerType(t UnitType) bool     { return workerTypes[t] }
func IsChangelingType(t UnitType) bool { return changelingTypes[t] }
func IsTownhallType(t UnitType) bool   { return townhallTypes[t] }

// IsCombatantType reports whether units of type t fight: everything except
// civilians and non-combat structures.
func IsCombatantType(t UnitType) bool {
	if civilianTypes[t] {
		return false
	}
	if structureTypes[t] {
		return combatStructures[t]
	}
	return true
}

// LarvaCost is the larva consumed per production command.
func LarvaCost(t UnitType) float64 {
	info, ok := Items[UnitItem(t)]
	if !ok {
		return 0
	}
	return info.Cost.Larva
}

// CostOf returns the production cost of item, zero if unknown.
func CostOf(item Item) Cost {
	return Items[item].Cost
}

// SupplyProvided is the supply granted by a finished unit of type t.
func SupplyProvided(t UnitType) float64 {
	switch t {
	case Overlord, Overseer:
		return 8
	case Hatchery, Lair, Hive:
		return 6
	}
	return 0
}
