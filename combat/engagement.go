// Package combat turns simulator predictions into per-unit orders.
package combat

import (
	"log/slog"

	"github.com/nstehr/vimy/swarm-core/model"
	"github.com/nstehr/vimy/swarm-core/params"
)

// Engagement is the hysteretic engage/disengage state carried across steps,
// once for the army as a whole and once per unit.
type Engagement struct {
	EngageGlobal    float64
	DisengageGlobal float64
	EngageLocal     float64
	DisengageLocal  float64

	global bool
	local  map[model.Tag]bool
}

// NewEngagement starts out attacking; the first prediction decides.
func NewEngagement(p params.Parameters) *Engagement {
	return &Engagement{
		EngageGlobal:    p.EngageThreshold,
		DisengageGlobal: p.DisengageThreshold,
		EngageLocal:     p.LocalEngageThreshold,
		DisengageLocal:  p.LocalDisengageThreshold,
		global:          true,
		local:           make(map[model.Tag]bool),
	}
}

// Update feeds one prediction. Values inside [disengage, engage) keep the
// previous state. Tags missing from local are forgotten.
func (e *Engagement) Update(global float64, local map[model.Tag]float64) {
	was := e.global
	e.global = hysteresis(e.global, global, e.EngageGlobal, e.DisengageGlobal)
	if was != e.global {
		slog.Debug("engagement changed", "attacking", e.global, "outcome", global)
	}

	next := make(map[model.Tag]bool, len(local))
	for tag, outcome := range local {
		if hysteresis(e.local[tag], outcome, e.EngageLocal, e.DisengageLocal) {
			next[tag] = true
		}
	}
	e.local = next
}

func hysteresis(state bool, v, engage, disengage float64) bool {
	switch {
	case v >= engage:
		return true
	case v < disengage:
		return false
	}
	return state
}

// Global reports whether the army as a whole is attacking.
func (e *Engagement) Global() bool { return e.global }

// Local reports whether the unit is attacking. Unknown tags are not.
func (e *Engagement) Local(tag model.Tag) bool { return e.local[tag] }

// Attacking returns the locally attacking tags as a set.
func (e *Engagement) Attacking() map[model.Tag]bool {
	out := make(map[model.Tag]bool, len(e.local))
	for t := range e.local {
		out[t] = true
	}
	return out
}
