// Package sim predicts the outcome of an engagement with a coarse
// Lanchester-style attrition model.
package sim

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/nstehr/vimy/swarm-core/model"
	"github.com/nstehr/vimy/swarm-core/numeric"
	"github.com/nstehr/vimy/swarm-core/params"
)

const (
	epsilon = numeric.Epsilon
	// closing speed factor applied to movement speed
	speedFactor = 1.4
	// sample times closer than this are merged
	timeResolution = 0.05
)

// Result holds the global outcome for side 1 and a per-unit local outcome,
// each in [-1, 1]. Positive local values favor the unit's own side.
type Result struct {
	Global float64
	Local  map[model.Tag]float64
}

// Simulator runs the attrition model with a fixed parameter set.
type Simulator struct {
	NumSteps        int
	Horizon         float64
	Lambda          float64
	Dimension       float64
	EnemyRangeBonus float64
	HelmboldScale   float64
	MixingDistance  float64
}

func New(p params.Parameters) *Simulator {
	return &Simulator{
		NumSteps:        p.SimSteps,
		Horizon:         p.SimTimeHorizon,
		Lambda:          p.TimeDistributionLambda,
		Dimension:       p.LanchesterDimension,
		EnemyRangeBonus: p.EnemyRangeBonus,
		HelmboldScale:   p.HelmboldScale,
		MixingDistance:  p.MixingDistance,
	}
}

// Attackable reports whether u can be targeted: burrowed or cloaked units
// need to be revealed.
func Attackable(u *model.Unit) bool {
	if u.IsBurrowed || u.IsCloaked {
		return u.IsRevealed
	}
	return true
}

func trivial(side1, side2 []*model.Unit) (Result, bool) {
	switch {
	case len(side1) == 0 && len(side2) == 0:
		return Result{Global: 0, Local: map[model.Tag]float64{}}, true
	case len(side1) == 0:
		return Result{Global: -1, Local: saturated(side2)}, true
	case len(side2) == 0:
		return Result{Global: 1, Local: saturated(side1)}, true
	}
	return Result{}, false
}

func saturated(units []*model.Unit) map[model.Tag]float64 {
	out := make(map[model.Tag]float64, len(units))
	for _, u := range units {
		out[u.Tag] = 1
	}
	return out
}

// Simulate predicts an engagement between side1 (own) and side2 (enemy).
// Units in attacking close distance; all others hold their ground.
func (s *Simulator) Simulate(side1, side2 []*model.Unit, attacking map[model.Tag]bool) Result {
	if r, ok := trivial(side1, side2); ok {
		return r
	}

	units := slices.Concat(side1, side2)
	n1, n := len(side1), len(side1)+len(side2)
	sameSide := func(i, j int) bool { return (i < n1) == (j < n1) }

	hp := make([]float64, n)
	hpMax := make([]float64, n)
	for i, u := range units {
		hp[i] = u.HitPoints()
		hpMax[i] = max(u.HealthMax+u.ShieldMax, hp[i], epsilon)
	}

	positions := make([]model.Position, n)
	for i, u := range units {
		positions[i] = u.Position
	}
	distance := numeric.PairwiseDistances(positions, positions)

	dps := make([][]float64, n)
	tau := make([][]float64, n)
	var reachable []float64
	maxDPS := 0.0
	for i, a := range units {
		dps[i] = make([]float64, n)
		tau[i] = make([]float64, n)
		for j, t := range units {
			tau[i][j] = math.Inf(1)
			if i == j || sameSide(i, j) || !Attackable(t) {
				continue
			}
			d := a.DPS(t)
			if d <= 0 {
				continue
			}
			dps[i][j] = d
			maxDPS = max(maxDPS, d)

			reach := a.Range(t) + a.Radius + t.Radius
			if i >= n1 {
				reach += s.EnemyRangeBonus
			}
			gap := distance[i][j] - reach
			switch {
			case attacking[a.Tag] && a.Speed > 0:
				tau[i][j] = max(0, gap/(speedFactor*a.Speed))
			case gap <= 0:
				tau[i][j] = 0
			}
			if !math.IsInf(tau[i][j], 1) {
				reachable = append(reachable, tau[i][j])
			}
		}
	}

	times, weights := s.samples(tau, reachable, floats.Sum(hp)/float64(n), maxDPS)

	for k, t := range times {
		w := weights[k]
		if w <= 0 {
			continue
		}
		damage := make([]float64, n)
		for i := range n {
			if hp[i] <= 0 {
				continue
			}
			active := 0
			for j := range n {
				if hp[j] > 0 && dps[i][j] > 0 && tau[i][j] <= t {
					active++
				}
			}
			if active == 0 {
				continue
			}
			strength := math.Pow(max(epsilon, hp[i]/hpMax[i]), s.Dimension-1)
			for j := range n {
				if hp[j] > 0 && dps[i][j] > 0 && tau[i][j] <= t {
					damage[j] += w * dps[i][j] * strength / float64(active)
				}
			}
		}
		for j := range n {
			hp[j] = max(0, hp[j]-damage[j])
		}
	}

	casualties := make([]float64, n)
	for i := range n {
		survival := max(epsilon, hp[i]/hpMax[i])
		casualties[i] = max(epsilon, 1-survival)
	}

	local := make(map[model.Tag]float64, n)
	side1Outcomes := make([]float64, 0, n1)
	for i, u := range units {
		weightSum, mix := 0.0, 0.0
		for j := range n {
			if sameSide(i, j) {
				continue
			}
			m := 1 / (s.MixingDistance + distance[i][j])
			weightSum += m
			mix += m * casualties[j]
		}
		mix /= max(epsilon, weightSum)
		mu := mix / casualties[i]
		o := math.Tanh(s.HelmboldScale * math.Log(max(epsilon, mu)) / 2)
		if math.IsNaN(o) {
			o = 0
		}
		local[u.Tag] = o
		if i < n1 {
			side1Outcomes = append(side1Outcomes, o)
		}
	}

	return Result{
		Global: max(-1, min(1, floats.Sum(side1Outcomes)/float64(n1))),
		Local:  local,
	}
}

// samples returns the sweep times and their probability weights. Times lie
// in [0, duration]: exponential quantiles of the window's probability mass
// plus each attacker's earliest engagement inside it. Every time carries the
// mass up to the next sample, the last up to the end of the window, so the
// weights sum to F(duration) ≤ 1.
func (s *Simulator) samples(tau [][]float64, reachable []float64, meanHealth, maxDPS float64) ([]float64, []float64) {
	meanTau := 0.0
	if len(reachable) > 0 {
		meanTau = floats.Sum(reachable) / float64(len(reachable))
	}
	duration := min(s.Horizon, meanTau+numeric.SafeDiv(meanHealth, maxDPS))
	duration = max(duration, epsilon)
	dist := distuv.Exponential{Rate: s.Lambda / duration}
	mass := dist.CDF(duration)

	times := make([]float64, 0, s.NumSteps+len(tau))
	for k := range s.NumSteps {
		times = append(times, dist.Quantile(mass*float64(k)/float64(s.NumSteps)))
	}
	for _, row := range tau {
		first := math.Inf(1)
		for _, t := range row {
			first = min(first, t)
		}
		if first <= duration {
			times = append(times, first)
		}
	}
	slices.Sort(times)
	merged := times[:0]
	for _, t := range times {
		if len(merged) > 0 && t-merged[len(merged)-1] < timeResolution {
			continue
		}
		merged = append(merged, t)
	}
	times = merged

	weights := make([]float64, len(times))
	for k, t := range times {
		next := duration
		if k+1 < len(times) {
			next = times[k+1]
		}
		weights[k] = max(0, dist.CDF(next)-dist.CDF(t))
	}
	return times, weights
}
