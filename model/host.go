package model

// Host answers the synchronous queries the decision core needs during a step.
// Implementations are best-effort; callers treat failures as "no answer".
type Host interface {
	CanPlace(t UnitType, p Position) bool
	// PathingDistance returns false when no ground path exists.
	PathingDistance(a, b Position) (float64, bool)
	UnitsInRange(points []Position, radii []float64, who Owner) [][]*Unit
	IsPositionSafe(g *Grid, p Position, limit float64) bool
	FindClosestSafeSpot(g *Grid, p Position, radius float64) Position
}

// SafetyLimit is the grid value at or below which a cell counts as safe.
const SafetyLimit = 1.0
