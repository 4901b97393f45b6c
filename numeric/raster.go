package numeric

import (
	"math"

	"github.com/nstehr/vimy/swarm-core/model"
)

// Disk returns the cells within radius r of center that lie inside a w×h grid.
func Disk(center model.Point, r float64, w, h int) []model.Point {
	if r < 0 {
		return nil
	}
	ri := int(math.Ceil(r))
	r2 := r * r
	var out []model.Point
	for dy := -ri; dy <= ri; dy++ {
		y := center.Y + dy
		if y < 0 || y >= h {
			continue
		}
		for dx := -ri; dx <= ri; dx++ {
			x := center.X + dx
			if x < 0 || x >= w {
				continue
			}
			if float64(dx*dx+dy*dy) <= r2 {
				out = append(out, model.Point{X: x, Y: y})
			}
		}
	}
	return out
}

// CirclePerimeter returns the midpoint-circle raster of radius r around
// center, restricted to a w×h grid. Cells appear once.
func CirclePerimeter(center model.Point, r int, w, h int) []model.Point {
	if r <= 0 {
		if center.X >= 0 && center.Y >= 0 && center.X < w && center.Y < h {
			return []model.Point{center}
		}
		return nil
	}
	seen := make(map[model.Point]bool, 8*r)
	var out []model.Point
	add := func(x, y int) {
		p := model.Point{X: center.X + x, Y: center.Y + y}
		if p.X < 0 || p.Y < 0 || p.X >= w || p.Y >= h || seen[p] {
			return
		}
		seen[p] = true
		out = append(out, p)
	}
	x, y := r, 0
	err := 1 - r
	for x >= y {
		add(x, y)
		add(y, x)
		add(-y, x)
		add(-x, y)
		add(-x, -y)
		add(-y, -x)
		add(y, -x)
		add(x, -y)
		y++
		if err < 0 {
			err += 2*y + 1
		} else {
			x--
			err += 2*(y-x) + 1
		}
	}
	return out
}

// Line returns the Bresenham raster from a to b, both ends included.
func Line(a, b model.Point) []model.Point {
	dx := abs(b.X - a.X)
	dy := -abs(b.Y - a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}
	out := make([]model.Point, 0, max(dx, -dy)+1)
	err := dx + dy
	x, y := a.X, a.Y
	for {
		out = append(out, model.Point{X: x, Y: y})
		if x == b.X && y == b.Y {
			return out
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// BoxBlur averages g over a (2r+1)² window clipped to the grid, using a
// summed-area table.
func BoxBlur(g *model.Grid, r int) *model.Grid {
	out := model.NewGrid(g.Width, g.Height, 0)
	if g.Width == 0 || g.Height == 0 {
		return out
	}
	w := g.Width + 1
	sat := make([]float64, w*(g.Height+1))
	for y := 0; y < g.Height; y++ {
		row := 0.0
		for x := 0; x < g.Width; x++ {
			row += g.Data[y*g.Width+x]
			sat[(y+1)*w+x+1] = sat[y*w+x+1] + row
		}
	}
	for y := 0; y < g.Height; y++ {
		y0, y1 := max(0, y-r), min(g.Height, y+r+1)
		for x := 0; x < g.Width; x++ {
			x0, x1 := max(0, x-r), min(g.Width, x+r+1)
			sum := sat[y1*w+x1] - sat[y0*w+x1] - sat[y1*w+x0] + sat[y0*w+x0]
			out.Data[y*g.Width+x] = sum / float64((x1-x0)*(y1-y0))
		}
	}
	return out
}
