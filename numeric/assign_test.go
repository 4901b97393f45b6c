package numeric

import (
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

func TestPaddedSize(t *testing.T) {
	tests := []struct{ n, want int }{
		{0, 8}, {1, 8}, {8, 8}, {9, 16}, {16, 16}, {17, 32}, {100, 128},
	}
	for _, tt := range tests {
		if got := PaddedSize(tt.n); got != tt.want {
			t.Errorf("PaddedSize(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestDecodeIdempotentOnIntegerAssignment(t *testing.T) {
	cost := [][]float64{
		{1, 2, 3},
		{3, 1, 2},
		{2, 3, 1},
		{1, 1, 1},
	}
	capacity := []float64{2, 1, 1}
	x := [][]float64{
		{0, 0, 1},
		{1, 0, 0},
		{0, 1, 0},
		{1, 0, 0},
	}
	got := Decode(x, cost, capacity)
	want := []int{2, 0, 1, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Decode[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestDecodeNeverPicksInfiniteCost(t *testing.T) {
	inf := math.Inf(1)
	cost := [][]float64{
		{inf, 1},
		{inf, 2},
		{inf, inf},
	}
	x := [][]float64{{0, 1}, {0.5, 0.5}, {1, 0}}
	got := Decode(x, cost, []float64{3, 1})
	if got[0] != 1 {
		t.Errorf("row 0 = %d, want 1", got[0])
	}
	if got[1] != -1 {
		t.Errorf("row 1 = %d, want -1 (column 1 full)", got[1])
	}
	if got[2] != -1 {
		t.Errorf("row 2 = %d, want -1", got[2])
	}
}

func TestSolveRespectsCapacity(t *testing.T) {
	// everyone prefers column 0, which only fits two
	cost := [][]float64{
		{1, 5, 9},
		{1, 5, 9},
		{1, 5, 9},
		{1, 6, 9},
	}
	capacity := []float64{2, 1, 2}
	s := NewSolver()
	x, err := s.Solve(cost, capacity, nil)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	for i, row := range x {
		sum := 0.0
		for _, v := range row {
			sum += v
		}
		if math.Abs(sum-1) > 1e-6 {
			t.Errorf("row %d sums to %v, want 1", i, sum)
		}
	}
	for j, c := range capacity {
		sum := 0.0
		for i := range x {
			sum += x[i][j]
		}
		if sum > c+1e-6 {
			t.Errorf("column %d load %v exceeds capacity %v", j, sum, c)
		}
	}

	got := Decode(x, cost, capacity)
	load := make([]int, len(capacity))
	for _, j := range got {
		if j < 0 {
			t.Fatalf("unassigned row in %v", got)
		}
		load[j]++
	}
	if load[0] != 2 || load[1] != 1 || load[2] != 1 {
		t.Errorf("load = %v, want [2 1 1]", load)
	}
	if got[3] == 1 {
		t.Errorf("row 3 placed on column 1, which is not optimal: %v", got)
	}
}

func TestDistributeGasTotal(t *testing.T) {
	cost := make([][]float64, 6)
	for i := range cost {
		cost[i] = []float64{1, 1, 3}
	}
	capacity := []float64{2, 2, 3}
	gas := &GasConstraint{Weights: []float64{0, 0, 1}, Total: 2}

	got := NewSolver().Distribute(cost, capacity, gas)
	onGas := 0
	for _, j := range got {
		if j == 2 {
			onGas++
		}
	}
	if onGas != 2 {
		t.Errorf("rows on gas = %d, want 2 (%v)", onGas, got)
	}
}

func TestDistributeUnconstrainedArgmin(t *testing.T) {
	cost := [][]float64{{3, 1}, {0, 4}, {2, 2}}
	got := NewSolver().Distribute(cost, []float64{3, 3}, nil)
	want := []int{1, 0, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Distribute[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

// referenceOptimum solves the relaxed transportation program with the dense
// simplex: rows sum to 1, columns plus a slack sum to capacity.
func referenceOptimum(t *testing.T, cost [][]float64, capacity []float64, gas *GasConstraint) float64 {
	t.Helper()
	n, m := len(cost), len(capacity)
	nv := n*m + m
	rows := n + m
	if gas != nil {
		rows++
	}
	a := mat.NewDense(rows, nv, nil)
	b := make([]float64, rows)
	c := make([]float64, nv)
	for i := range n {
		b[i] = 1
		for j := range m {
			c[i*m+j] = cost[i][j]
			a.Set(i, i*m+j, 1)
			a.Set(n+j, i*m+j, 1)
			if gas != nil {
				a.Set(rows-1, i*m+j, gas.Weights[j])
			}
		}
	}
	for j := range m {
		a.Set(n+j, n*m+j, 1)
		b[n+j] = capacity[j]
	}
	if gas != nil {
		b[rows-1] = gas.Total
	}
	opt, _, err := lp.Simplex(c, a, b, 1e-9, nil)
	if err != nil {
		t.Fatalf("reference simplex: %v", err)
	}
	return opt
}

func assignmentCost(cost [][]float64, picks []int) float64 {
	total := 0.0
	for i, j := range picks {
		if j >= 0 {
			total += cost[i][j]
		}
	}
	return total
}

func TestSolveMatchesLinearProgram(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	tests := []struct {
		name     string
		rows     int
		capacity []float64
		gas      *GasConstraint
	}{
		{"square", 4, []float64{1, 1, 1, 1}, nil},
		{"shared columns", 5, []float64{2, 2, 1, 1}, nil},
		{"gas quota", 5, []float64{2, 2, 1, 1}, &GasConstraint{Weights: []float64{0, 0, 1, 1}, Total: 2}},
		{"negative costs", 3, []float64{1, 2}, nil},
	}
	for _, tt := range tests {
		for trial := range 5 {
			cost := make([][]float64, tt.rows)
			for i := range cost {
				cost[i] = make([]float64, len(tt.capacity))
				for j := range cost[i] {
					cost[i][j] = rng.Float64() * 10
					if tt.name == "negative costs" {
						cost[i][j] -= 5
					}
				}
			}
			want := referenceOptimum(t, cost, tt.capacity, tt.gas)
			x, err := NewSolver().Solve(cost, tt.capacity, tt.gas)
			if err != nil {
				t.Fatalf("%s/%d: Solve: %v", tt.name, trial, err)
			}
			got := assignmentCost(cost, Decode(x, cost, tt.capacity))
			if math.Abs(got-want) > 1e-6 {
				t.Errorf("%s/%d: cost = %v, want %v", tt.name, trial, got, want)
			}
		}
	}
}

func TestSolveGasQuotaBeyondRows(t *testing.T) {
	// one worker, two gas slots, quota of two: the worker still mines gas
	cost := [][]float64{{1, 5, 5}}
	capacity := []float64{2, 1, 1}
	gas := &GasConstraint{Weights: []float64{0, 1, 1}, Total: 2}

	got := NewSolver().Distribute(cost, capacity, gas)
	if got[0] != 1 && got[0] != 2 {
		t.Errorf("Distribute = %v, want the row on a gas column", got)
	}
}

func TestSolveGasQuotaBeyondSlots(t *testing.T) {
	// quota of three with one gas slot: one row on gas, the rest on minerals
	cost := [][]float64{{1, 3}, {1, 3}, {1, 3}}
	capacity := []float64{2, 1}
	gas := &GasConstraint{Weights: []float64{0, 1}, Total: 3}

	got := NewSolver().Distribute(cost, capacity, gas)
	load := []int{0, 0}
	for _, j := range got {
		if j < 0 {
			t.Fatalf("unassigned row in %v", got)
		}
		load[j]++
	}
	if load[0] != 2 || load[1] != 1 {
		t.Errorf("load = %v, want [2 1]", load)
	}
}

func TestDistributeLargeWithGas(t *testing.T) {
	tests := []struct{ rows, cols, gasCols, quota int }{
		{12, 20, 4, 3},
		{40, 48, 6, 6},
		{40, 56, 8, 8},
		{80, 64, 12, 12},
	}
	for _, tt := range tests {
		rng := rand.New(rand.NewPCG(uint64(tt.rows), uint64(tt.cols)))
		cost := make([][]float64, tt.rows)
		for i := range cost {
			cost[i] = make([]float64, tt.cols)
			for j := range cost[i] {
				cost[i][j] = rng.Float64() * 40
			}
		}
		capacity := make([]float64, tt.cols)
		weights := make([]float64, tt.cols)
		for j := range capacity {
			capacity[j] = 1
			if j < tt.gasCols {
				weights[j] = 1
			}
		}
		gas := &GasConstraint{Weights: weights, Total: float64(tt.quota)}

		done := make(chan []int, 1)
		go func() { done <- NewSolver().Distribute(cost, capacity, gas) }()
		select {
		case got := <-done:
			onGas, assigned := 0, 0
			for _, j := range got {
				if j < 0 {
					continue
				}
				assigned++
				if j < tt.gasCols {
					onGas++
				}
			}
			if want := min(tt.rows, tt.cols); assigned != want {
				t.Errorf("%dx%d: assigned = %d, want %d", tt.rows, tt.cols, assigned, want)
			}
			if onGas != tt.quota {
				t.Errorf("%dx%d: rows on gas = %d, want %d", tt.rows, tt.cols, onGas, tt.quota)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("%dx%d: Distribute did not finish within 2s", tt.rows, tt.cols)
		}
	}
}

func TestGreedyQuotaFillsGasFirst(t *testing.T) {
	// minerals are cheaper for everyone, gas still gets its two rows
	cost := [][]float64{
		{1, 1, 9, 9},
		{1, 1, 8, 9},
		{1, 1, 9, 7},
		{1, 1, 9, 9},
	}
	capacity := []float64{1, 1, 1, 1}
	gas := &GasConstraint{Weights: []float64{0, 0, 1, 1}, Total: 2}

	got := Decode(greedyQuota(cost, capacity, gas), cost, capacity)
	if got[1] != 2 || got[2] != 3 {
		t.Errorf("gas rows = %v, want row 1 on 2 and row 2 on 3", got)
	}
	if got[0] < 0 || got[3] < 0 || got[0] > 1 || got[3] > 1 {
		t.Errorf("mineral rows = %v, want rows 0 and 3 on columns 0 and 1", got)
	}
}
