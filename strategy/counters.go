package strategy

import "github.com/nstehr/vimy/swarm-core/model"

// Counters maps an enemy unit type to the own types that answer it, with
// relative weights.
var Counters = map[model.UnitType]map[model.UnitType]float64{
	model.Zealot: {
		model.BroodLord: 1e4,
		model.Roach:     1e4,
		model.Hydralisk: 1e2,
		model.Zergling:  1,
	},
	model.Stalker: {
		model.Zergling:  3e2,
		model.Hydralisk: 1e2,
		model.Roach:     1,
	},
	model.Sentry: {
		model.Hydralisk: 1e2,
		model.Roach:     1,
		model.Zergling:  1,
	},
	model.Adept: {
		model.BroodLord: 1e2,
		model.Hydralisk: 1e2,
		model.Roach:     1e2,
		model.Zergling:  1,
	},
	model.HighTemplar: {
		model.BroodLord: 1e4,
		model.Roach:     1e2,
		model.Zergling:  1e2,
		model.Hydralisk: 1,
	},
	model.DarkTemplar: {
		model.Hydralisk: 1e2,
		model.Roach:     1e2,
		model.Zergling:  1,
	},
	model.Archon: {
		model.Roach:     1e2,
		model.Hydralisk: 1,
		model.Zergling:  1,
	},
	model.Immortal: {
		model.BroodLord: 1e3,
		model.Hydralisk: 1e2,
		model.Zergling:  1e2,
		model.Roach:     1,
	},
	model.Colossus: {
		model.BroodLord: 1e4,
		model.Corruptor: 1e4,
		model.Roach:     1e2,
		model.Hydralisk: 1,
		model.Zergling:  1,
	},
	model.Disruptor: {
		model.BroodLord: 1e4,
		model.Zergling:  1e2,
		model.Roach:     10,
		model.Hydralisk: 1,
	},
	model.Phoenix: airCounters,
	model.VoidRay: airCounters,
	model.Oracle:  airCounters,
	model.Tempest: airCounters,
	model.Carrier: airCounters,
	model.Mothership: {
		model.Corruptor: 1e2,
		model.Hydralisk: 10,
		model.Queen:     1,
	},
	model.PhotonCannon: {
		model.Ravager:  1e2,
		model.Queen:    10,
		model.Zergling: 1,
	},

	model.Marine: {
		model.BroodLord: 1e2,
		model.Roach:     3,
		model.Hydralisk: 3,
		model.Zergling:  1,
	},
	model.Marauder: {
		model.BroodLord: 1e2,
		model.Hydralisk: 1e2,
		model.Zergling:  1e2,
		model.Roach:     1,
	},
	model.Reaper: {
		model.Roach:     1e2,
		model.Zergling:  1,
		model.Hydralisk: 1,
	},
	model.Ghost: {
		model.BroodLord: 1e2,
		model.Roach:     1e2,
		model.Zergling:  1e2,
		model.Hydralisk: 1,
	},
	model.Hellion: antiHellion,
	model.Hellbat: antiHellion,
	model.SiegeTank: {
		model.BroodLord: 1e4,
		model.Zergling:  1e2,
		model.Hydralisk: 1,
		model.Roach:     1,
	},
	model.Thor: {
		model.BroodLord: 1e2,
		model.Roach:     1e2,
		model.Hydralisk: 1e2,
		model.Zergling:  1,
	},
	model.WidowMine: {
		model.BroodLord: 1e2,
		model.Hydralisk: 1e2,
		model.Roach:     1e2,
		model.Zergling:  1,
	},
	model.Cyclone: {
		model.Zergling:  1e2,
		model.Ravager:   1e2,
		model.Hydralisk: 1,
	},
	model.VikingFighter: {
		model.Corruptor: 1,
		model.Hydralisk: 1,
	},
	model.Raven: {
		model.Corruptor: 10,
		model.Hydralisk: 10,
		model.Queen:     1,
	},
	model.Banshee: {
		model.Corruptor: 1e2,
		model.Hydralisk: 10,
		model.Queen:     1,
	},
	model.Battlecruiser: {
		model.Corruptor: 1e2,
		model.Hydralisk: 1,
		model.Queen:     1,
	},
	model.Liberator: {
		model.Corruptor: 1e2,
		model.Hydralisk: 1,
		model.Queen:     1,
	},
	model.Medivac: {
		model.Corruptor: 1e2,
		model.Hydralisk: 10,
		model.Queen:     1,
	},
	model.Bunker: {
		model.Ravager: 1e2,
		model.Queen:   1,
	},

	model.Zergling: antiLight,
	model.Baneling: antiLight,
	model.Roach: {
		model.Roach:     3e2,
		model.Hydralisk: 1e2,
		model.Zergling:  1,
	},
	model.Ravager:   antiLight,
	model.Hydralisk: antiLight,
	model.Mutalisk: {
		model.Hydralisk: 1e2,
		model.Corruptor: 10,
		model.Queen:     1,
	},
	model.Corruptor: {
		model.Hydralisk: 1e2,
		model.Queen:     1,
	},
	model.BroodLord: {
		model.Corruptor: 1e2,
		model.Hydralisk: 1,
	},
	model.Ultralisk: {
		model.BroodLord: 1e4,
		model.Roach:     1e2,
		model.Hydralisk: 1,
		model.Zergling:  1,
	},
	model.SwarmHost: {
		model.Hydralisk: 1e2,
		model.Roach:     1e2,
		model.Zergling:  1,
	},
	model.Infestor: {
		model.Roach:     1e2,
		model.Hydralisk: 1,
		model.Zergling:  1,
	},
	model.Viper: {
		model.Corruptor: 1e2,
		model.Hydralisk: 10,
		model.Queen:     1,
	},
	model.Queen: {
		model.BroodLord: 1e2,
		model.Roach:     1e2,
		model.Zergling:  1,
		model.Hydralisk: 1,
	},
	model.SpineCrawler: {
		model.Ravager:  1e2,
		model.Queen:    10,
		model.Zergling: 1,
	},
}

var airCounters = map[model.UnitType]float64{
	model.Corruptor: 10,
	model.Hydralisk: 3,
	model.Queen:     1,
}

var antiLight = map[model.UnitType]float64{
	model.Roach:     1e4,
	model.Hydralisk: 1e2,
	model.Zergling:  1,
}

var antiHellion = map[model.UnitType]float64{
	model.BroodLord: 1e4,
	model.Roach:     1e4,
	model.Hydralisk: 1e2,
	model.Zergling:  1,
}
