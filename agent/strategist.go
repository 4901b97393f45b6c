package agent

import (
	"fmt"
	"log/slog"

	"github.com/nstehr/vimy/swarm-core/model"
	"github.com/nstehr/vimy/swarm-core/strategy"
)

// maxEvents bounds the event history kept for logging and tests.
const maxEvents = 32

// Strategist carries what the agent learns across steps: sticky rush
// detection, the highest tier reached and a short history of game events.
type Strategist struct {
	prev   *stateSnapshot
	intel  strategy.Intel
	events []Event
}

func NewStrategist() *Strategist {
	return &Strategist{}
}

// Observe diffs obs against the previous step and returns the events it
// triggered. Rush detection latches on the first step it fires.
func (s *Strategist) Observe(obs *model.Observation) []Event {
	first := s.prev == nil
	events := detectEvents(obs, s.prev)
	snap := takeSnapshot(obs, s.intel.Rushed)
	s.prev = &snap

	// the first step has no previous snapshot to diff against
	if first && snap.rushed {
		events = append(events, Event{
			Kind:   EventRushDetected,
			Loop:   obs.GameLoop,
			Detail: fmt.Sprintf("enemy aggression at %.0fs", obs.Time),
		})
	}
	s.intel.Rushed = snap.rushed

	s.record(events)
	return events
}

// Promote raises the minimum tier so the tech ladder never steps back.
func (s *Strategist) Promote(tier strategy.Tier, loop int) *Event {
	if tier <= s.intel.MinTier {
		return nil
	}
	ev := Event{
		Kind:   EventTierTransition,
		Loop:   loop,
		Detail: fmt.Sprintf("%v→%v", s.intel.MinTier, tier),
	}
	s.intel.MinTier = tier
	s.record([]Event{ev})
	return &ev
}

func (s *Strategist) record(events []Event) {
	for _, ev := range events {
		slog.Info("game event", "kind", ev.Kind, "loop", ev.Loop, "detail", ev.Detail)
	}
	s.events = append(s.events, events...)
	if over := len(s.events) - maxEvents; over > 0 {
		s.events = s.events[over:]
	}
}

func (s *Strategist) Intel() strategy.Intel { return s.intel }

// Events returns the most recent events, oldest first.
func (s *Strategist) Events() []Event { return s.events }
