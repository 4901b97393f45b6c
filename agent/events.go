package agent

import (
	"fmt"
	"maps"
	"slices"

	"github.com/nstehr/vimy/swarm-core/model"
)

// EventKind identifies a significant change between two consecutive
// observations.
type EventKind string

const (
	EventRushDetected        EventKind = "rush_detected"
	EventTownhallLost        EventKind = "townhall_lost"
	EventArmyDevastated      EventKind = "army_devastated"
	EventEnemyBaseDiscovered EventKind = "enemy_base_discovered"
	EventEconomyCrisis       EventKind = "economy_crisis"
	EventFirstContact        EventKind = "first_contact"
	EventTierTransition      EventKind = "tier_transition"
)

// Event is detected by diffing consecutive observations.
type Event struct {
	Kind   EventKind
	Loop   int
	Detail string
}

// Rush detection thresholds.
const (
	// rushTime is the game time after which early aggression no longer
	// counts as a rush.
	rushTime = 3*60 + 30
	// rushUnits enemy combat units near a townhall make a rush.
	rushUnits    = 4
	rushDistance = 25.0
	// rushWorkers enemy workers at a townhall make a worker rush.
	rushWorkers        = 5
	rushWorkerDistance = 12.0
	// an enemy structure this close to the start location is a proxy.
	proxyDistance = 50.0
)

// stateSnapshot captures the diffable fields of an observation.
// The strategist stores one and compares against the next step.
type stateSnapshot struct {
	townhalls   map[model.Tag]model.UnitType
	combatCount int
	workerCount int
	enemyBase   bool
	enemiesSeen bool
	rushed      bool
}

func takeSnapshot(obs *model.Observation, rushed bool) stateSnapshot {
	snap := stateSnapshot{
		townhalls:   make(map[model.Tag]model.UnitType, len(obs.Townhalls)),
		combatCount: len(obs.Combatants()),
		workerCount: obs.SupplyWorkers(),
		enemiesSeen: len(obs.EnemyAll) > 0,
		rushed:      rushed || rushing(obs),
	}
	for _, th := range obs.Townhalls {
		snap.townhalls[th.Tag] = th.Type
	}
	for _, e := range obs.EnemyAll {
		if model.IsTownhallType(e.Type) {
			snap.enemyBase = true
			break
		}
	}
	return snap
}

// rushing reports early enemy aggression: an army or a pack of workers at
// one of our townhalls, or a structure built next to our start location.
func rushing(obs *model.Observation) bool {
	if obs.Time >= rushTime {
		return false
	}
	for _, th := range obs.Townhalls {
		army, workers := 0, 0
		for _, e := range obs.EnemyAll {
			d := e.Position.Distance(th.Position)
			switch {
			case e.IsWorker() && d < rushWorkerDistance:
				workers++
			case e.IsCombatant() && !e.IsStructure() && d < rushDistance:
				army++
			}
		}
		if army >= rushUnits || workers >= rushWorkers {
			return true
		}
	}
	for _, e := range obs.EnemyStructures() {
		if e.Position.Distance(obs.StartLocation) < proxyDistance {
			return true
		}
	}
	return false
}

// detectEvents compares obs against the previous snapshot and returns any
// triggered events. Returns nil if prev is nil (first step).
func detectEvents(obs *model.Observation, prev *stateSnapshot) []Event {
	if prev == nil {
		return nil
	}

	var events []Event
	cur := takeSnapshot(obs, prev.rushed)

	if cur.rushed && !prev.rushed {
		events = append(events, Event{
			Kind:   EventRushDetected,
			Loop:   obs.GameLoop,
			Detail: fmt.Sprintf("enemy aggression at %.0fs", obs.Time),
		})
	}

	for _, tag := range slices.Sorted(maps.Keys(prev.townhalls)) {
		if _, ok := cur.townhalls[tag]; !ok {
			events = append(events, Event{
				Kind:   EventTownhallLost,
				Loop:   obs.GameLoop,
				Detail: fmt.Sprintf("lost %v (tag %d)", prev.townhalls[tag], tag),
			})
			break // one event per step is enough
		}
	}

	// more than half the army gone, with a floor of 6 to avoid early noise
	if prev.combatCount >= 6 {
		lost := prev.combatCount - cur.combatCount
		if lost > 0 && float64(lost)/float64(prev.combatCount) > 0.5 {
			events = append(events, Event{
				Kind:   EventArmyDevastated,
				Loop:   obs.GameLoop,
				Detail: fmt.Sprintf("army %d→%d", prev.combatCount, cur.combatCount),
			})
		}
	}

	if !prev.enemyBase && cur.enemyBase {
		events = append(events, Event{
			Kind:   EventEnemyBaseDiscovered,
			Loop:   obs.GameLoop,
			Detail: "enemy townhall sighted",
		})
	}

	if prev.workerCount >= 8 && 2*cur.workerCount < prev.workerCount {
		events = append(events, Event{
			Kind:   EventEconomyCrisis,
			Loop:   obs.GameLoop,
			Detail: fmt.Sprintf("drones %d→%d", prev.workerCount, cur.workerCount),
		})
	}

	if !prev.enemiesSeen && cur.enemiesSeen {
		events = append(events, Event{
			Kind:   EventFirstContact,
			Loop:   obs.GameLoop,
			Detail: fmt.Sprintf("%d enemies visible", len(obs.EnemyAll)),
		})
	}

	return events
}
