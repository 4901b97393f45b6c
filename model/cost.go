package model

import "math"

// Cost is a (minerals, vespene, supply, larva) tuple. It doubles as a
// per-second rate for income and as a per-component time vector for ETAs.
type Cost struct {
	Minerals float64 `json:"minerals"`
	Vespene  float64 `json:"vespene"`
	Supply   float64 `json:"supply"`
	Larva    float64 `json:"larva"`
}

func (c Cost) Add(o Cost) Cost {
	return Cost{c.Minerals + o.Minerals, c.Vespene + o.Vespene, c.Supply + o.Supply, c.Larva + o.Larva}
}

func (c Cost) Sub(o Cost) Cost {
	return Cost{c.Minerals - o.Minerals, c.Vespene - o.Vespene, c.Supply - o.Supply, c.Larva - o.Larva}
}

func (c Cost) Scale(s float64) Cost {
	return Cost{c.Minerals * s, c.Vespene * s, c.Supply * s, c.Larva * s}
}

// Max is the component-wise maximum.
func (c Cost) Max(o Cost) Cost {
	return Cost{
		math.Max(c.Minerals, o.Minerals),
		math.Max(c.Vespene, o.Vespene),
		math.Max(c.Supply, o.Supply),
		math.Max(c.Larva, o.Larva),
	}
}

// Div divides component-wise. A positive numerator over a zero rate is +Inf,
// a non-positive one is 0.
func (c Cost) Div(rate Cost) Cost {
	return Cost{
		safeDiv(c.Minerals, rate.Minerals),
		safeDiv(c.Vespene, rate.Vespene),
		safeDiv(c.Supply, rate.Supply),
		safeDiv(c.Larva, rate.Larva),
	}
}

// Total is minerals plus vespene, the value used when comparing unit worth.
func (c Cost) Total() float64 { return c.Minerals + c.Vespene }

func (c Cost) IsZero() bool { return c == Cost{} }

func (c Cost) components() [4]float64 {
	return [4]float64{c.Minerals, c.Vespene, c.Supply, c.Larva}
}

// ETA returns the seconds until cost can be paid on top of reserve, given the
// bank and per-second income. Only components where the requirement exceeds
// the bank and the cost itself is positive count; a needed component with zero
// income yields +Inf.
func ETA(bank, income, reserve, cost Cost) float64 {
	deficit := reserve.Add(cost).Sub(bank).components()
	rates := income.components()
	need := cost.components()
	eta := 0.0
	for i := range deficit {
		if deficit[i] <= 0 || need[i] <= 0 {
			continue
		}
		eta = math.Max(eta, safeDiv(deficit[i], rates[i]))
	}
	return eta
}

func safeDiv(num, den float64) float64 {
	if den > 0 {
		return num / den
	}
	if num > 0 {
		return math.Inf(1)
	}
	return 0
}
