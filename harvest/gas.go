package harvest

import (
	"math"

	"github.com/nstehr/vimy/swarm-core/model"
)

// GasRatioLearningRate is how far the gas ratio moves toward its target per step.
var GasRatioLearningRate = math.Exp(-7)

// defaultGasRatio applies when nothing is required: the income split that
// matches the game's 5:4 trip yields.
const defaultGasRatio = 5.0 / 9

// earlyGasWorkers saturates one extractor while zergling speed is pending.
const earlyGasWorkers = 3

// TargetGasRatio is the share of harvesters whose trips cover the vespene
// part of required, measured in worker trips.
func TargetGasRatio(required model.Cost) float64 {
	if required.Minerals <= 0 && required.Vespene <= 0 {
		return defaultGasRatio
	}
	mineralTrips := max(0, required.Minerals/5)
	vespeneTrips := max(0, required.Vespene/4)
	return vespeneTrips / (mineralTrips + vespeneTrips)
}

// UpdateGasRatio nudges ratio one learning step toward TargetGasRatio.
func UpdateGasRatio(ratio float64, required model.Cost) float64 {
	target := TargetGasRatio(required)
	switch {
	case target > ratio:
		ratio += GasRatioLearningRate
	case target < ratio:
		ratio -= GasRatioLearningRate
	}
	return min(1, max(0, ratio))
}

// GasTarget is the number of harvesters to put on extractors.
func GasTarget(obs *model.Observation, harvesters int, ratio float64) int {
	if !obs.HasUpgrade(model.UpgradeZerglingSpeed) && readyExtractors(obs) > 0 {
		return min(earlyGasWorkers, max(0, harvesters))
	}
	return min(harvesters, int(math.Ceil(float64(harvesters)*ratio)))
}

// ExtractorsWanted is how many extractors gasTarget needs, bounded by the
// geysers at taken bases.
func ExtractorsWanted(obs *model.Observation, gasTarget int) int {
	want := int(math.Ceil(float64(gasTarget) / GasCapacity))
	return min(len(TakenGeysers(obs)), want)
}

// TakenGeysers returns the geysers at bases with an own townhall.
func TakenGeysers(obs *model.Observation) []*model.Unit {
	var out []*model.Unit
	for i := range obs.Geysers {
		g := &obs.Geysers[i]
		if b := obs.NearestBase(g.Position); b >= 0 {
			if _, ok := obs.TownhallAt[b]; ok {
				out = append(out, g)
			}
		}
	}
	return out
}

func readyExtractors(obs *model.Observation) int {
	n := 0
	for _, ex := range obs.Extractors {
		if ex.IsReady() {
			n++
		}
	}
	return n
}
