package solver

import (
	"math"
)

// irrGuess is the starting per-period rate for IRR.
const irrGuess = 0.05

// NPV discounts cashflows indexed by period at per-period rate r.
//
//	npv = Σ cf_i / (1+r)^i,  i = 0..len(cf)-1
func NPV(r float64, cashflows []float64) float64 {
	v, _ := npvAndDeriv(r, cashflows)
	return v
}

// npvAndDeriv returns (npv, dNPV/dr).
//
//	dNPV/dr = Σ −i · cf_i / (1+r)^(i+1)
func npvAndDeriv(r float64, cashflows []float64) (float64, float64) {
	var npv, deriv float64
	base := 1.0 + r
	for i, cf := range cashflows {
		disc := math.Pow(base, float64(i))
		npv += cf / disc
		deriv += -float64(i) * cf / (disc * base)
	}
	return npv, deriv
}

// IRR solves for the per-period internal rate of return r with Σ cf_i/(1+r)^i = 0.
//
// Cashflows without both an outflow and an inflow have no root and fail
// immediately. Iterates are kept above −1 so the discount base stays positive.
func IRR(cashflows []float64, cfg Config) (Result, error) {
	if !hasSignChange(cashflows) {
		return Result{}, &NonConvergenceError{Op: "IRR", Reason: "cash flows have no sign change"}
	}

	guard := func(prev, next float64) float64 {
		if next <= -1 {
			// Halve the distance to the singularity instead of crossing it.
			return (prev - 1) / 2
		}
		return next
	}

	res, err := newton(func(r float64) (float64, float64) {
		return npvAndDeriv(r, cashflows)
	}, irrGuess, cfg, guard)
	if err != nil {
		return Result{}, Attribute(err, "IRR", "")
	}
	return res, nil
}

func hasSignChange(cashflows []float64) bool {
	var pos, neg bool
	for _, cf := range cashflows {
		if cf > 0 {
			pos = true
		}
		if cf < 0 {
			neg = true
		}
	}
	return pos && neg
}
