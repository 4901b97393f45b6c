package agent

import (
	"maps"
	"slices"

	"github.com/nstehr/vimy/swarm-core/model"
)

// enemyMemory keeps enemies that left vision. A remembered unit stays until
// its last known tile is visible again without it.
type enemyMemory struct {
	units map[model.Tag]model.Unit
}

func newEnemyMemory() *enemyMemory {
	return &enemyMemory{units: make(map[model.Tag]model.Unit)}
}

// Update records the visible enemies of snap and appends the remembered ones
// to snap.EnemyUnits, in tag order.
func (m *enemyMemory) Update(snap *model.Snapshot) {
	seen := make(map[model.Tag]bool, len(snap.EnemyUnits))
	for i := range snap.EnemyUnits {
		u := &snap.EnemyUnits[i]
		u.LastSeen = snap.Time
		seen[u.Tag] = true
		m.units[u.Tag] = *u
	}
	for _, tag := range slices.Sorted(maps.Keys(m.units)) {
		if seen[tag] {
			continue
		}
		u := m.units[tag]
		if snap.Visibility.AtPos(u.Position) >= 2 {
			delete(m.units, tag)
			continue
		}
		snap.EnemyUnits = append(snap.EnemyUnits, u)
	}
}

func (m *enemyMemory) Len() int { return len(m.units) }
