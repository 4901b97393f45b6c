package model

// unitValues is the total resources sunk into one unit, morph sources
// included. Zerglings are valued per unit, not per pair.
var unitValues = map[UnitType]float64{
	Zergling:     25,
	Baneling:     75,
	Roach:        100,
	Ravager:      200,
	Hydralisk:    150,
	Lurker:       350,
	Mutalisk:     200,
	Corruptor:    250,
	BroodLord:    550,
	Infestor:     250,
	SwarmHost:    175,
	Ultralisk:    475,
	Viper:        300,
	Queen:        150,
	Overseer:     200,
	SpineCrawler: 150,
	SporeCrawler: 125,

	Marine:          50,
	Marauder:        125,
	Reaper:          100,
	Ghost:           275,
	Hellion:         100,
	Hellbat:         100,
	SiegeTank:       275,
	SiegeTankSieged: 275,
	Thor:            500,
	WidowMine:       100,
	Cyclone:         200,
	VikingFighter:   225,
	Medivac:         200,
	Liberator:       275,
	Banshee:         250,
	Raven:           250,
	Battlecruiser:   700,
	Bunker:          100,
	MissileTurret:   100,

	Zealot:       100,
	Stalker:      175,
	Sentry:       150,
	Adept:        125,
	HighTemplar:  200,
	DarkTemplar:  250,
	Archon:       400,
	Immortal:     375,
	Colossus:     500,
	Disruptor:    300,
	Phoenix:      250,
	VoidRay:      400,
	Oracle:       300,
	Tempest:      425,
	Carrier:      600,
	Mothership:   800,
	PhotonCannon: 150,
}

// Value returns the resources invested in one unit of type t. Types missing
// from the table fall back to their production cost.
func Value(t UnitType) float64 {
	if v, ok := unitValues[t]; ok {
		return v
	}
	return CostOf(UnitItem(t)).Total()
}
