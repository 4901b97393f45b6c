package numeric

import (
	"errors"
	"log/slog"
	"math"
	"math/bits"
	"sort"
)

// ErrInfeasible is returned when the assignment program has no solution.
var ErrInfeasible = errors.New("numeric: assignment infeasible")

const (
	// PadCost prices a unit routed around the gas quota. It dominates any
	// real travel cost, so the quota only bends when it cannot be met.
	PadCost = 1e6

	minPadded = 8
)

// GasConstraint asks for Total rows on the columns with a positive weight.
type GasConstraint struct {
	Weights []float64
	Total   float64
}

// Solver solves the capacitated assignment as a min-cost flow:
// source → row → column → (gas | mineral) sink → sink, one unit per row.
// Successive shortest paths with potentials keep every step O(n·(V²+E)).
// Work buffers are cached per padded problem size.
type Solver struct {
	cache map[[2]int]*network
}

func NewSolver() *Solver {
	return &Solver{cache: make(map[[2]int]*network)}
}

// PaddedSize is the next power of two ≥ n, at least 8.
func PaddedSize(n int) int {
	if n <= minPadded {
		return minPadded
	}
	return 1 << bits.Len(uint(n-1))
}

type arc struct {
	to   int
	rev  int
	cap  int
	cost float64
}

type network struct {
	adj       [][]arc
	potential []float64
	dist      []float64
	prevNode  []int
	prevArc   []int
	done      []bool
}

func newNetwork(nodes int) *network {
	return &network{
		adj:       make([][]arc, nodes),
		potential: make([]float64, nodes),
		dist:      make([]float64, nodes),
		prevNode:  make([]int, nodes),
		prevArc:   make([]int, nodes),
		done:      make([]bool, nodes),
	}
}

func (s *Solver) network(n, m int) *network {
	key := [2]int{PaddedSize(n), PaddedSize(m)}
	g, ok := s.cache[key]
	if !ok {
		g = newNetwork(key[0] + key[1] + 4)
		s.cache[key] = g
	}
	for v := range g.adj {
		g.adj[v] = g.adj[v][:0]
		g.potential[v] = 0
	}
	return g
}

func (g *network) addArc(from, to, capacity int, cost float64) {
	g.adj[from] = append(g.adj[from], arc{to: to, rev: len(g.adj[to]), cap: capacity, cost: cost})
	g.adj[to] = append(g.adj[to], arc{to: from, rev: len(g.adj[from]) - 1, cost: -cost})
}

// shortestPath runs Dijkstra on reduced costs over the first nodes vertices
// and moves the potentials. It reports whether t is reachable.
func (g *network) shortestPath(nodes, s, t int) bool {
	for v := range nodes {
		g.dist[v] = math.Inf(1)
		g.done[v] = false
		g.prevNode[v] = -1
	}
	g.dist[s] = 0
	for {
		u := -1
		for v := range nodes {
			if g.done[v] || math.IsInf(g.dist[v], 1) {
				continue
			}
			if u < 0 || g.dist[v] < g.dist[u] {
				u = v
			}
		}
		if u < 0 {
			break
		}
		g.done[u] = true
		for k, a := range g.adj[u] {
			if a.cap <= 0 || g.done[a.to] {
				continue
			}
			d := g.dist[u] + max(0, a.cost+g.potential[u]-g.potential[a.to])
			if d < g.dist[a.to] {
				g.dist[a.to] = d
				g.prevNode[a.to] = u
				g.prevArc[a.to] = k
			}
		}
	}
	if math.IsInf(g.dist[t], 1) {
		return false
	}
	for v := range nodes {
		if !math.IsInf(g.dist[v], 1) {
			g.potential[v] += g.dist[v]
		}
	}
	return true
}

// augment pushes the bottleneck along the path found by shortestPath.
func (g *network) augment(s, t int) {
	push := math.MaxInt
	for v := t; v != s; v = g.prevNode[v] {
		push = min(push, g.adj[g.prevNode[v]][g.prevArc[v]].cap)
	}
	for v := t; v != s; v = g.prevNode[v] {
		a := &g.adj[g.prevNode[v]][g.prevArc[v]]
		a.cap -= push
		g.adj[v][a.rev].cap += push
	}
}

// Solve minimizes ∑ cost·x with rows summing to at most 1 and columns to at
// most capacity. Every row with a finite column that has room is routed.
// With gas set, exactly round(Total) rows land on gas columns whenever that
// is feasible, and as close as possible otherwise. The returned x is
// integral and len(cost)×len(capacity).
func (s *Solver) Solve(cost [][]float64, capacity []float64, gas *GasConstraint) ([][]float64, error) {
	n, m := len(cost), len(capacity)
	if n == 0 {
		return nil, nil
	}
	if m == 0 {
		return nil, ErrInfeasible
	}

	// Shortest paths need non-negative arc costs. Every routed row pays one
	// column, so a constant shift leaves the optimum unchanged.
	shift := 0.0
	for i := range n {
		for j := range m {
			if c := cost[i][j]; !math.IsInf(c, 0) && !math.IsNaN(c) {
				shift = max(shift, -c)
			}
		}
	}

	g := s.network(n, m)
	src := 0
	gasSink, mineralSink, sink := n+m+1, n+m+2, n+m+3
	nodes := n + m + 4

	useGas := gas != nil && mixed(gas.Weights, m)
	quota := 0
	if useGas {
		quota = min(n, max(0, int(math.Round(gas.Total))))
	}

	for i := range n {
		g.addArc(src, 1+i, 1, 0)
		for j := range m {
			c := cost[i][j]
			if math.IsInf(c, 0) || math.IsNaN(c) {
				continue
			}
			g.addArc(1+i, 1+n+j, 1, c+shift)
		}
	}
	for j := range m {
		room := min(n, int(math.Floor(capacity[j]+1e-9)))
		if room <= 0 {
			continue
		}
		to := sink
		if useGas {
			to = mineralSink
			if gas.Weights[j] > 0 {
				to = gasSink
			}
		}
		g.addArc(1+n+j, to, room, 0)
	}
	if useGas {
		g.addArc(gasSink, sink, quota, 0)
		g.addArc(gasSink, sink, n, PadCost)
		g.addArc(mineralSink, sink, n-quota, 0)
		g.addArc(mineralSink, sink, n, PadCost)
	}

	for g.shortestPath(nodes, src, sink) {
		g.augment(src, sink)
	}

	x := make([][]float64, n)
	for i := range n {
		x[i] = make([]float64, m)
		for _, a := range g.adj[1+i] {
			if a.to > n && a.to <= n+m && a.cap == 0 {
				x[i][a.to-1-n] = 1
			}
		}
	}
	return x, nil
}

// mixed reports whether the first m weights hold both zero and non-zero
// entries. A constant weight vector duplicates the row constraints.
func mixed(w []float64, m int) bool {
	if len(w) < m || m == 0 {
		return false
	}
	for j := 1; j < m; j++ {
		if w[j] != w[0] {
			return true
		}
	}
	return false
}

// Decode turns a fractional x into one column per row. Pairs are taken
// greedily by descending x, then ascending cost, within column capacity.
// Rows left over get their cheapest column with room. Rows without a
// finite-cost column with room map to -1.
func Decode(x, cost [][]float64, capacity []float64) []int {
	n, m := len(cost), len(capacity)
	out := make([]int, n)
	for i := range out {
		out[i] = -1
	}
	room := make([]int, m)
	for j, c := range capacity {
		room[j] = int(math.Floor(c + 1e-9))
	}

	var fractional, all []pair
	for i := range n {
		for j := range m {
			c := cost[i][j]
			if math.IsInf(c, 1) || math.IsNaN(c) {
				continue
			}
			p := pair{i: i, j: j, c: c}
			if i < len(x) && j < len(x[i]) && x[i][j] > 1e-6 {
				p.x = x[i][j]
				fractional = append(fractional, p)
			}
			all = append(all, p)
		}
	}
	take := func(ps []pair) {
		for _, p := range ps {
			if out[p.i] >= 0 || room[p.j] <= 0 {
				continue
			}
			out[p.i] = p.j
			room[p.j]--
		}
	}
	sort.SliceStable(fractional, func(a, b int) bool {
		if fractional[a].x != fractional[b].x {
			return fractional[a].x > fractional[b].x
		}
		return fractional[a].c < fractional[b].c
	})
	take(fractional)
	sort.SliceStable(all, func(a, b int) bool { return all[a].c < all[b].c })
	take(all)
	return out
}

type pair struct {
	i, j int
	x, c float64
}

// greedyQuota builds an integral x without the solver: the cheapest pairs on
// gas columns until the quota is met, then the cheapest pairs elsewhere.
func greedyQuota(cost [][]float64, capacity []float64, gas *GasConstraint) [][]float64 {
	n, m := len(cost), len(capacity)
	x := make([][]float64, n)
	for i := range x {
		x[i] = make([]float64, m)
	}
	room := make([]int, m)
	for j, c := range capacity {
		room[j] = int(math.Floor(c + 1e-9))
	}
	isGas := func(j int) bool { return gas != nil && j < len(gas.Weights) && gas.Weights[j] > 0 }
	quota := 0
	if gas != nil {
		quota = max(0, int(math.Round(gas.Total)))
	}

	var gasPairs, otherPairs []pair
	for i := range n {
		for j := range m {
			c := cost[i][j]
			if math.IsInf(c, 0) || math.IsNaN(c) {
				continue
			}
			if isGas(j) {
				gasPairs = append(gasPairs, pair{i: i, j: j, c: c})
			} else {
				otherPairs = append(otherPairs, pair{i: i, j: j, c: c})
			}
		}
	}
	byCost := func(ps []pair) {
		sort.SliceStable(ps, func(a, b int) bool { return ps[a].c < ps[b].c })
	}
	byCost(gasPairs)
	byCost(otherPairs)

	taken := make([]bool, n)
	place := func(ps []pair, limit int) {
		for _, p := range ps {
			if limit <= 0 {
				return
			}
			if taken[p.i] || room[p.j] <= 0 {
				continue
			}
			x[p.i][p.j] = 1
			taken[p.i] = true
			room[p.j]--
			limit--
		}
	}
	place(gasPairs, quota)
	place(otherPairs, n)
	return x
}

// Distribute assigns each row to a column. When every column can take all
// rows and no gas constraint applies, the row-wise argmin is optimal and the
// solver is skipped. A solver failure degrades to a greedy decode that still
// fills the gas quota first.
func (s *Solver) Distribute(cost [][]float64, capacity []float64, gas *GasConstraint) []int {
	n := len(cost)
	if n == 0 {
		return nil
	}
	unconstrained := gas == nil || !mixed(gas.Weights, len(capacity))
	for _, c := range capacity {
		if c < float64(n) {
			unconstrained = false
			break
		}
	}
	if unconstrained {
		return Decode(nil, cost, capacity)
	}
	x, err := s.Solve(cost, capacity, gas)
	if err != nil {
		slog.Warn("assignment solver failed, using greedy decode", "rows", n, "cols", len(capacity), "error", err)
		x = greedyQuota(cost, capacity, gas)
	}
	return Decode(x, cost, capacity)
}
