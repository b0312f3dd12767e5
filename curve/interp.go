package curve

import (
	"sort"

	"github.com/meenmo/bondcurve/solver"
)

// sortedNodes returns the curve's maturities and rates ordered by maturity.
func sortedNodes(c *SpotCurve) ([]float64, []float64) {
	pts := c.Points()
	sort.SliceStable(pts, func(i, j int) bool { return pts[i].Maturity < pts[j].Maturity })

	xs := make([]float64, len(pts))
	ys := make([]float64, len(pts))
	for i, p := range pts {
		xs[i] = p.Maturity
		ys[i] = p.Rate
	}
	return xs, ys
}

// findBracketOrBoundary finds the indices of two adjacent maturities that
// bracket the target. If the target is outside the range, returns the nearest
// boundary pair, which turns interpolation into linear extrapolation.
func findBracketOrBoundary(xs []float64, target float64) (int, int) {
	// First index with xs[i] >= target
	idx := sort.SearchFloat64s(xs, target)

	if idx <= 0 {
		return 0, 1
	}
	if idx >= len(xs) {
		return len(xs) - 2, len(xs) - 1
	}
	return idx - 1, idx
}

// Interpolate evaluates the piecewise-linear interpolant of the curve at t,
// extrapolating linearly from the two nearest nodes outside the curve's domain.
// Rates come back in the curve's own units.
func Interpolate(c *SpotCurve, t float64) (float64, error) {
	if c.Len() < 2 {
		return 0, solver.Domainf("Interpolate", "need at least 2 curve points, have %d", c.Len())
	}

	xs, ys := sortedNodes(c)
	i, j := findBracketOrBoundary(xs, t)
	x1, x2 := xs[i], xs[j]
	r1, r2 := ys[i], ys[j]

	return r1 + (r2-r1)*(t-x1)/(x2-x1), nil
}
