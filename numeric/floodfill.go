package numeric

import "github.com/nstehr/vimy/swarm-core/model"

// FloodFill returns the 4-connected component of cells with a positive mask
// value reachable from seeds. Seeds outside the grid or on blocked cells
// contribute nothing.
func FloodFill(mask *model.Grid, seeds []model.Point) []model.Point {
	if mask == nil || mask.Width == 0 || mask.Height == 0 {
		return nil
	}
	visited := make([]bool, len(mask.Data))
	var queue, out []model.Point
	for _, s := range seeds {
		if !mask.InBounds(s) {
			continue
		}
		i := mask.Index(s)
		if visited[i] || !(mask.Data[i] > 0) {
			continue
		}
		visited[i] = true
		queue = append(queue, s)
	}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		out = append(out, p)
		for _, d := range [4]model.Point{{X: 1}, {X: -1}, {Y: 1}, {Y: -1}} {
			n := model.Point{X: p.X + d.X, Y: p.Y + d.Y}
			if !mask.InBounds(n) {
				continue
			}
			i := mask.Index(n)
			if visited[i] || !(mask.Data[i] > 0) {
				continue
			}
			visited[i] = true
			queue = append(queue, n)
		}
	}
	return out
}
