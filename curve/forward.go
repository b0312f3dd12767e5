package curve

import (
	"math"

	"github.com/meenmo/bondcurve/solver"
)

// ForwardRate returns the rate from t to t+n implied by the spot curve under
// semi-annual compounding:
//
//	F = ( (1+S(t+n))^(2(t+n)) / (1+S(t))^(2t) )^(1/(2n)) − 1
//
// S is the linear interpolant of the curve (see Interpolate). Rates enter the
// formula in the curve's own units: a Bootstrap curve is in percent, so pass
// c.Decimal() for the decimal convention. n must be positive.
func ForwardRate(c *SpotCurve, t, n float64) (float64, error) {
	if n <= 0 {
		return 0, solver.Domainf("ForwardRate", "forward length n must be positive, got %g", n)
	}

	st, err := Interpolate(c, t)
	if err != nil {
		return 0, err
	}
	stn, err := Interpolate(c, t+n)
	if err != nil {
		return 0, err
	}

	growth := math.Pow(1+stn, 2*(t+n)) / math.Pow(1+st, 2*t)
	fwd := math.Pow(growth, 1/(2*n)) - 1
	if math.IsNaN(fwd) || math.IsInf(fwd, 0) {
		return 0, solver.Domainf("ForwardRate", "forward rate undefined for t=%g n=%g (S_t=%g, S_tn=%g)", t, n, st, stn)
	}
	return fwd, nil
}

// ForwardTenor is a forward period request: start T, length N, both in years.
type ForwardTenor struct {
	T float64
	N float64
}

// ForwardCurve evaluates ForwardRate for each tenor, stopping at the first failure.
func ForwardCurve(c *SpotCurve, tenors []ForwardTenor) ([]float64, error) {
	out := make([]float64, 0, len(tenors))
	for _, tn := range tenors {
		f, err := ForwardRate(c, tn.T, tn.N)
		if err != nil {
			return out, err
		}
		out = append(out, f)
	}
	return out, nil
}
