// Package numeric holds the grid and geometry primitives shared by the
// decision subsystems: distance matrices, Dijkstra maps, rasters, flood fill,
// assignment and a spatial index.
package numeric

import (
	"gonum.org/v1/gonum/floats"

	"github.com/nstehr/vimy/swarm-core/model"
)

// Epsilon guards divisions by dps, speed and health.
const Epsilon = 1e-10

// SafeDiv divides a by max(Epsilon, b).
func SafeDiv(a, b float64) float64 {
	return a / max(Epsilon, b)
}

// PairwiseDistances returns the len(a)×len(b) Euclidean distance matrix.
func PairwiseDistances(a, b []model.Position) [][]float64 {
	out := make([][]float64, len(a))
	for i, p := range a {
		row := make([]float64, len(b))
		for j, q := range b {
			row[j] = p.Distance(q)
		}
		out[i] = row
	}
	return out
}

// Medoid returns the index of the point minimizing the summed distance to
// all others, or -1 for an empty set.
func Medoid(points []model.Position) int {
	if len(points) == 0 {
		return -1
	}
	d := PairwiseDistances(points, points)
	sums := make([]float64, len(points))
	for i, row := range d {
		sums[i] = floats.Sum(row)
	}
	return floats.MinIdx(sums)
}
