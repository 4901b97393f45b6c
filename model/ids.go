package model

import "fmt"

// Tag is a unit identifier stable across steps while the unit is alive.
type Tag uint64

// Owner distinguishes own units from enemy units.
type Owner int

const (
	Mine Owner = iota
	Enemy
)

// Race of a player.
type Race string

const (
	Zerg    Race = "zerg"
	Terran  Race = "terran"
	Protoss Race = "protoss"
	Random  Race = "random"
)

// UnitType is a game unit type id. Values match the game protocol.
type UnitType uint32

const (
	NoUnit UnitType = 0

	// Zerg
	Hatchery           UnitType = 86
	CreepTumor         UnitType = 87
	Extractor          UnitType = 88
	SpawningPool       UnitType = 89
	EvolutionChamber   UnitType = 90
	HydraliskDen       UnitType = 91
	Spire              UnitType = 92
	UltraliskCavern    UnitType = 93
	InfestationPit     UnitType = 94
	BanelingNest       UnitType = 96
	RoachWarren        UnitType = 97
	SpineCrawler       UnitType = 98
	SporeCrawler       UnitType = 99
	Lair               UnitType = 100
	Hive               UnitType = 101
	GreaterSpire       UnitType = 102
	Egg                UnitType = 103
	Drone              UnitType = 104
	Zergling           UnitType = 105
	Overlord           UnitType = 106
	Hydralisk          UnitType = 107
	Mutalisk           UnitType = 108
	Ultralisk          UnitType = 109
	Roach              UnitType = 110
	Infestor           UnitType = 111
	Corruptor          UnitType = 112
	BroodLordCocoon    UnitType = 113
	BroodLord          UnitType = 114
	DroneBurrowed      UnitType = 116
	RoachBurrowed      UnitType = 118
	Queen              UnitType = 126
	OverlordCocoon     UnitType = 128
	Overseer           UnitType = 129
	CreepTumorBurrowed UnitType = 137
	CreepTumorQueen    UnitType = 138
	Larva              UnitType = 151
	Broodling          UnitType = 289
	SwarmHost          UnitType = 494
	Viper              UnitType = 499
	Lurker             UnitType = 502
	RavagerCocoon      UnitType = 687
	Ravager            UnitType = 688
	Baneling           UnitType = 9
	BanelingCocoon     UnitType = 8
	Changeling         UnitType = 12
	ChangelingZealot   UnitType = 13
	ChangelingMarine   UnitType = 15
	ChangelingZergling UnitType = 17

	// Terran
	SiegeTankSieged UnitType = 32
	SiegeTank       UnitType = 33
	VikingFighter   UnitType = 35
	CommandCenter   UnitType = 18
	SupplyDepot     UnitType = 19
	Barracks        UnitType = 21
	MissileTurret   UnitType = 23
	Bunker          UnitType = 24
	SCV             UnitType = 45
	Marine          UnitType = 48
	Reaper          UnitType = 49
	Ghost           UnitType = 50
	Marauder        UnitType = 51
	Thor            UnitType = 52
	Hellion         UnitType = 53
	Medivac         UnitType = 54
	Banshee         UnitType = 55
	Raven           UnitType = 56
	Battlecruiser   UnitType = 57
	MULE            UnitType = 268
	Hellbat         UnitType = 484
	WidowMine       UnitType = 498
	Liberator       UnitType = 689
	Cyclone         UnitType = 692

	// Protoss
	Colossus         UnitType = 4
	Mothership       UnitType = 10
	Nexus            UnitType = 59
	Pylon            UnitType = 60
	Gateway          UnitType = 62
	PhotonCannon     UnitType = 66
	Zealot           UnitType = 73
	Stalker          UnitType = 74
	HighTemplar      UnitType = 75
	DarkTemplar      UnitType = 76
	Sentry           UnitType = 77
	Phoenix          UnitType = 78
	Carrier          UnitType = 79
	VoidRay          UnitType = 80
	WarpPrism        UnitType = 81
	Observer         UnitType = 82
	Immortal         UnitType = 83
	Probe            UnitType = 84
	Archon           UnitType = 141
	Adept            UnitType = 311
	Oracle           UnitType = 495
	Tempest          UnitType = 496
	Disruptor        UnitType = 694
	DisruptorPhased  UnitType = 733
	ShieldBattery    UnitType = 1910
)

// AbilityID is a game ability id.
type AbilityID uint32

const (
	NoAbility AbilityID = 0

	AbilitySmart        AbilityID = 1
	AbilityStop         AbilityID = 4
	AbilityMove         AbilityID = 16
	AbilityHoldPosition AbilityID = 18
	AbilityAttack       AbilityID = 23
	AbilityCancel       AbilityID = 3659
	AbilityBurrowDown   AbilityID = 3661
	AbilityBurrowUp     AbilityID = 3662

	AbilityHarvestGather AbilityID = 3666
	AbilityHarvestReturn AbilityID = 3667

	AbilityMorphZerglingToBaneling AbilityID = 80
	AbilitySpawnChangeling         AbilityID = 181
	AbilityInjectLarva             AbilityID = 251
	AbilityCancelBuildInProgress   AbilityID = 314
	AbilityBuildHatchery           AbilityID = 1152
	AbilityBuildExtractor          AbilityID = 1154
	AbilityBuildSpawningPool       AbilityID = 1155
	AbilityBuildEvolutionChamber   AbilityID = 1156
	AbilityBuildHydraliskDen       AbilityID = 1157
	AbilityBuildSpire              AbilityID = 1158
	AbilityBuildUltraliskCavern    AbilityID = 1159
	AbilityBuildInfestationPit     AbilityID = 1160
	AbilityBuildBanelingNest       AbilityID = 1162
	AbilityBuildRoachWarren        AbilityID = 1165
	AbilityBuildSpineCrawler       AbilityID = 1166
	AbilityBuildSporeCrawler       AbilityID = 1167
	AbilityUpgradeToLair           AbilityID = 1216
	AbilityUpgradeToHive           AbilityID = 1218
	AbilityUpgradeToGreaterSpire   AbilityID = 1220
	AbilityResearchOverlordSpeed   AbilityID = 1223
	AbilityResearchBurrow          AbilityID = 1225
	AbilityResearchGlial           AbilityID = 216
	AbilityResearchTunnelingClaws  AbilityID = 217
	AbilityResearchMelee1          AbilityID = 1186
	AbilityResearchMelee2          AbilityID = 1187
	AbilityResearchMelee3          AbilityID = 1188
	AbilityResearchArmor1          AbilityID = 1189
	AbilityResearchArmor2          AbilityID = 1190
	AbilityResearchArmor3          AbilityID = 1191
	AbilityResearchMissile1        AbilityID = 1192
	AbilityResearchMissile2        AbilityID = 1193
	AbilityResearchMissile3        AbilityID = 1194
	AbilityResearchZerglingSpeed   AbilityID = 1253
	AbilityResearchGroovedSpines   AbilityID = 1282
	AbilityResearchMuscular        AbilityID = 1283
	AbilityResearchFlyerAttack1    AbilityID = 1312
	AbilityResearchFlyerAttack2    AbilityID = 1313
	AbilityResearchFlyerAttack3    AbilityID = 1314
	AbilityResearchFlyerArmor1     AbilityID = 1315
	AbilityResearchFlyerArmor2     AbilityID = 1316
	AbilityResearchFlyerArmor3     AbilityID = 1317
	AbilityTrainDrone              AbilityID = 1342
	AbilityTrainZergling           AbilityID = 1343
	AbilityTrainOverlord           AbilityID = 1344
	AbilityTrainHydralisk          AbilityID = 1345
	AbilityTrainMutalisk           AbilityID = 1346
	AbilityTrainUltralisk          AbilityID = 1348
	AbilityTrainRoach              AbilityID = 1351
	AbilityTrainInfestor           AbilityID = 1352
	AbilityTrainCorruptor          AbilityID = 1353
	AbilityTrainViper              AbilityID = 1354
	AbilityTrainSwarmHost          AbilityID = 1356
	AbilityMorphToBroodLord        AbilityID = 1372
	AbilityMorphToOverseer         AbilityID = 1448
	AbilityTrainQueen              AbilityID = 1632
	AbilityTransfusion             AbilityID = 1664
	AbilityGenerateCreepOn         AbilityID = 1692
	AbilityGenerateCreepOff        AbilityID = 1693
	AbilityBuildCreepTumorQueen    AbilityID = 1694
	AbilityBuildCreepTumorTumor    AbilityID = 1733
	AbilityMorphToRavager          AbilityID = 2330
	AbilityCorrosiveBile           AbilityID = 2338
	AbilityBuildCreepTumor         AbilityID = 3691
)

// UpgradeID is a game upgrade id.
type UpgradeID uint32

const (
	NoUpgrade UpgradeID = 0

	UpgradeGlialReconstitution UpgradeID = 2
	UpgradeTunnelingClaws      UpgradeID = 3
	UpgradeMelee1              UpgradeID = 53
	UpgradeMelee2              UpgradeID = 54
	UpgradeMelee3              UpgradeID = 55
	UpgradeArmor1              UpgradeID = 56
	UpgradeArmor2              UpgradeID = 57
	UpgradeArmor3              UpgradeID = 58
	UpgradeMissile1            UpgradeID = 59
	UpgradeMissile2            UpgradeID = 60
	UpgradeMissile3            UpgradeID = 61
	UpgradeOverlordSpeed       UpgradeID = 62
	UpgradeBurrow              UpgradeID = 64
	UpgradeZerglingSpeed       UpgradeID = 66
	UpgradeFlyerAttack1        UpgradeID = 68
	UpgradeFlyerAttack2        UpgradeID = 69
	UpgradeFlyerAttack3        UpgradeID = 70
	UpgradeFlyerArmor1         UpgradeID = 71
	UpgradeFlyerArmor2         UpgradeID = 72
	UpgradeFlyerArmor3         UpgradeID = 73
	UpgradeGroovedSpines       UpgradeID = 134
	UpgradeMuscularAugments    UpgradeID = 135
)

// EffectID is a game effect id (persistent area effects).
type EffectID uint32

const (
	EffectPsiStorm      EffectID = 1
	EffectNuke          EffectID = 7
	EffectCorrosiveBile EffectID = 11
	EffectLurkerSpines  EffectID = 12
)

// ItemKind separates producible units from researchable upgrades.
type ItemKind uint8

const (
	ItemUnit ItemKind = iota + 1
	ItemUpgrade
)

// Item is anything the macro planner can produce: a unit, structure or upgrade.
type Item struct {
	Kind ItemKind `json:"kind"`
	ID   uint32   `json:"id"`
}

func UnitItem(t UnitType) Item     { return Item{Kind: ItemUnit, ID: uint32(t)} }
func UpgradeItem(u UpgradeID) Item { return Item{Kind: ItemUpgrade, ID: uint32(u)} }

func (i Item) IsUnit() bool         { return i.Kind == ItemUnit }
func (i Item) IsUpgrade() bool      { return i.Kind == ItemUpgrade }
func (i Item) UnitType() UnitType   { return UnitType(i.ID) }
func (i Item) UpgradeID() UpgradeID { return UpgradeID(i.ID) }

func (i Item) String() string {
	switch i.Kind {
	case ItemUnit:
		if n, ok := unitNames[UnitType(i.ID)]; ok {
			return n
		}
		return fmt.Sprintf("unit(%d)", i.ID)
	case ItemUpgrade:
		if n, ok := upgradeNames[UpgradeID(i.ID)]; ok {
			return n
		}
		return fmt.Sprintf("upgrade(%d)", i.ID)
	}
	return "none"
}

func (t UnitType) String() string {
	if n, ok := unitNames[t]; ok {
		return n
	}
	return fmt.Sprintf("unit(%d)", uint32(t))
}

// UnitTypeByName resolves the lowercase names used in build orders and rule sources.
func UnitTypeByName(name string) (UnitType, bool) {
	t, ok := unitsByName[name]
	return t, ok
}

// UpgradeByName resolves upgrade names used in rule sources.
func UpgradeByName(name string) (UpgradeID, bool) {
	u, ok := upgradesByName[name]
	return u, ok
}

var unitNames = map[UnitType]string{
	Hatchery: "hatchery", CreepTumor: "creep_tumor", Extractor: "extractor",
	SpawningPool: "spawning_pool", EvolutionChamber: "evolution_chamber",
	HydraliskDen: "hydralisk_den", Spire: "spire", UltraliskCavern: "ultralisk_cavern",
	InfestationPit: "infestation_pit", BanelingNest: "baneling_nest",
	RoachWarren: "roach_warren", SpineCrawler: "spine_crawler", SporeCrawler: "spore_crawler",
	Lair: "lair", Hive: "hive", GreaterSpire: "greater_spire", Egg: "egg",
	Drone: "drone", Zergling: "zergling", Overlord: "overlord", Hydralisk: "hydralisk",
	Mutalisk: "mutalisk", Ultralisk: "ultralisk", Roach: "roach", Infestor: "infestor",
	Corruptor: "corruptor", BroodLord: "brood_lord", Queen: "queen", Overseer: "overseer",
	CreepTumorBurrowed: "creep_tumor_burrowed", CreepTumorQueen: "creep_tumor_queen",
	Larva: "larva", SwarmHost: "swarm_host", Viper: "viper", Ravager: "ravager",
	Baneling: "baneling", Lurker: "lurker", RoachBurrowed: "roach_burrowed",
	Marine: "marine", Marauder: "marauder", Reaper: "reaper", Ghost: "ghost",
	Hellion: "hellion", Hellbat: "hellbat", SiegeTank: "siege_tank",
	SiegeTankSieged: "siege_tank_sieged", Thor: "thor", Cyclone: "cyclone",
	WidowMine: "widow_mine", VikingFighter: "viking", Medivac: "medivac",
	Liberator: "liberator", Banshee: "banshee", Raven: "raven",
	Battlecruiser: "battlecruiser", SCV: "scv", MULE: "mule",
	Zealot: "zealot", Stalker: "stalker", Sentry: "sentry", Adept: "adept",
	HighTemplar: "high_templar", DarkTemplar: "dark_templar", Archon: "archon",
	Immortal: "immortal", Colossus: "colossus", Disruptor: "disruptor",
	Phoenix: "phoenix", VoidRay: "void_ray", Oracle: "oracle", Tempest: "tempest",
	Carrier: "carrier", Mothership: "mothership", Probe: "probe",
	CommandCenter: "command_center", Nexus: "nexus",
}

var upgradeNames = map[UpgradeID]string{
	UpgradeGlialReconstitution: "glial_reconstitution",
	UpgradeTunnelingClaws:      "tunneling_claws",
	UpgradeMelee1:              "melee1",
	UpgradeMelee2:              "melee2",
	UpgradeMelee3:              "melee3",
	UpgradeArmor1:              "armor1",
	UpgradeArmor2:              "armor2",
	UpgradeArmor3:              "armor3",
	UpgradeMissile1:            "missile1",
	UpgradeMissile2:            "missile2",
	UpgradeMissile3:            "missile3",
	UpgradeOverlordSpeed:       "overlord_speed",
	UpgradeBurrow:              "burrow",
	UpgradeZerglingSpeed:       "zergling_speed",
	UpgradeFlyerAttack1:        "flyer_attack1",
	UpgradeFlyerAttack2:        "flyer_attack2",
	UpgradeFlyerAttack3:        "flyer_attack3",
	UpgradeFlyerArmor1:         "flyer_armor1",
	UpgradeFlyerArmor2:         "flyer_armor2",
	UpgradeFlyerArmor3:         "flyer_armor3",
	UpgradeGroovedSpines:       "grooved_spines",
	UpgradeMuscularAugments:    "muscular_augments",
}

var (
	unitsByName    = invert(unitNames)
	upgradesByName = invert(upgradeNames)
)

func invert[K comparable](m map[K]string) map[string]K {
	out := make(map[string]K, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}
