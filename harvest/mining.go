// Package harvest assigns workers to mineral patches and extractors.
package harvest

import (
	"github.com/nstehr/vimy/swarm-core/model"
)

const (
	WorkerRadius = 0.375
	// HatcheryRadius is used for drop-off points when the townhall is unknown.
	HatcheryRadius = 2.75
	// SafetyLimit is the ground threat a mining spot may carry and still be worked.
	SafetyLimit = 6.0

	// StartupLoops is the window at game start where gather orders are staged.
	StartupLoops = 10

	gatherStageMin = 0.75
	gatherStageMax = 1.75
	returnStageMin = 0.75
	returnStageMax = 1.5
)

// Resource is a harvestable patch or extractor with its precomputed spots.
type Resource struct {
	Unit *model.Unit
	Gas  bool
	// Mining is where a worker stops to gather.
	Mining model.Position
	// Return is the drop-off point at the owning townhall.
	Return model.Position
}

// ReturnDistance is the round-trip leg from the patch to its drop-off.
func (r Resource) ReturnDistance() float64 { return r.Mining.Distance(r.Return) }

// Key identifies the resource by its rounded cell.
func (r Resource) Key() model.Point { return r.Unit.Position.Point() }

// newResource places the mining spot on the patch edge facing the base and
// the return spot on the townhall edge facing the patch.
func newResource(u *model.Unit, base model.Position, townhall *model.Unit, gas bool) Resource {
	mining := u.Position.Towards(base, u.Radius+WorkerRadius)
	thPos, thRadius := base, HatcheryRadius
	if townhall != nil {
		thPos, thRadius = townhall.Position, townhall.Radius
	}
	return Resource{
		Unit:   u,
		Gas:    gas,
		Mining: mining,
		Return: thPos.Towards(mining, thRadius+WorkerRadius),
	}
}

// Resources lists the minerals and ready extractors at bases with a ready
// townhall whose mining and return spots are safe enough to work.
func Resources(obs *model.Observation) []Resource {
	var out []Resource
	add := func(u *model.Unit, gas bool) {
		i := obs.NearestBase(u.Position)
		if i < 0 {
			return
		}
		th, ok := obs.TownhallAt[i]
		if !ok || !th.IsReady() {
			return
		}
		r := newResource(u, obs.Bases[i].Position, th, gas)
		if obs.GroundSafety.AtPos(r.Mining) >= SafetyLimit || obs.GroundSafety.AtPos(r.Return) >= SafetyLimit {
			return
		}
		out = append(out, r)
	}
	for i := range obs.Minerals {
		add(&obs.Minerals[i], false)
	}
	for _, ex := range obs.Extractors {
		if ex.IsReady() {
			add(ex, true)
		}
	}
	return out
}

// Gather keeps a gathering worker on its resource, staging it through the
// mining spot when it is close enough for the speed-mining trick to pay.
func Gather(u *model.Unit, r Resource, loop int) model.Action {
	if target, _ := u.OrderTarget(); target != r.Unit.Tag {
		return model.GatherAction{Resource: r.Unit.Tag, MiningPosition: r.Mining, Stage: loop < StartupLoops}
	}
	if d := u.Position.Distance(r.Mining); gatherStageMin < d && d < gatherStageMax {
		return model.GatherAction{Resource: r.Unit.Tag, MiningPosition: r.Mining, Stage: true}
	}
	return nil
}

// Return stages a carrying worker at the townhall edge before dropping off.
func Return(u *model.Unit, townhall *model.Unit) model.Action {
	approach := townhall.Position.Towards(u.Position, townhall.Radius+u.Radius)
	if d := u.Position.Distance(approach); returnStageMin < d && d < returnStageMax {
		return model.ReturnResource{Townhall: townhall.Tag, Approach: approach, Stage: true}
	}
	return nil
}
