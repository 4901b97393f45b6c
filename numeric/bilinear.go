package numeric

import (
	"math"

	"github.com/nstehr/vimy/swarm-core/model"
)

// Bilinear interpolates g at p, treating cell (x, y) as the sample at the
// integer coordinate. The coordinate is clamped to the grid first.
func Bilinear(g *model.Grid, p model.Position) float64 {
	if g == nil || g.Width == 0 || g.Height == 0 {
		return 0
	}
	x := min(max(p.X, 0), float64(g.Width-1))
	y := min(max(p.Y, 0), float64(g.Height-1))
	x0, y0 := int(math.Floor(x)), int(math.Floor(y))
	x1, y1 := min(x0+1, g.Width-1), min(y0+1, g.Height-1)
	fx, fy := x-float64(x0), y-float64(y0)

	v := 0.0
	for _, s := range [4]struct {
		x, y int
		w    float64
	}{
		{x0, y0, (1 - fx) * (1 - fy)},
		{x1, y0, fx * (1 - fy)},
		{x0, y1, (1 - fx) * fy},
		{x1, y1, fx * fy},
	} {
		if s.w == 0 {
			continue
		}
		v += s.w * g.Data[s.y*g.Width+s.x]
	}
	return v
}
