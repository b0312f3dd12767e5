package curve_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/meenmo/bondcurve/bond"
	"github.com/meenmo/bondcurve/curve"
	"github.com/meenmo/bondcurve/solver"
)

const tol = 1e-9

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// asOf sits on the previous coupon date so dirty == clean in these fixtures.
var asOf = date(2024, 9, 1)

func onCouponDate() bond.Observation {
	return bond.Observation{Date: asOf, PrevCouponDate: asOf}
}

func twoBondUniverse() []bond.Bond {
	return []bond.Bond{
		{ISIN: "ONE-YEAR", Prices: []float64{99, 98.5}, Maturity: date(2025, 9, 1), CouponRate: 4},
		{ISIN: "TWO-YEAR", Prices: []float64{100.5, 99.75}, Maturity: date(2026, 9, 1), CouponRate: 5},
	}
}

func TestBootstrap_SingleZeroCouponBond(t *testing.T) {
	t.Parallel()

	zero := bond.Bond{Prices: []float64{95}, Maturity: date(2025, 9, 1), CouponRate: 0}
	crv, err := curve.Bootstrap([]bond.Bond{zero}, 0, onCouponDate(), curve.BootstrapOptions{})
	if err != nil {
		t.Fatalf("Bootstrap error: %v", err)
	}
	if crv.Len() != 1 {
		t.Fatalf("curve length = %d, want 1", crv.Len())
	}

	got, ok := crv.Rate(1.0)
	if !ok {
		t.Fatalf("no node at 1y: %+v", crv.Points())
	}
	want := -math.Log(95.0/100.0) * 100
	if math.Abs(got-want) > tol {
		t.Fatalf("rate = %.10f, want %.10f", got, want)
	}
	if math.Abs(got-5.1293) > 1e-4 {
		t.Fatalf("rate = %.6f, want ~5.1293", got)
	}
}

func TestBootstrap_TwoBondsResidual(t *testing.T) {
	t.Parallel()

	bonds := twoBondUniverse()
	crv, err := curve.Bootstrap(bonds, 0, onCouponDate(), curve.BootstrapOptions{})
	if err != nil {
		t.Fatalf("Bootstrap error: %v", err)
	}
	pts := crv.Points()
	if len(pts) != 2 {
		t.Fatalf("curve length = %d, want 2", len(pts))
	}
	if pts[0].Maturity != 1.0 || pts[1].Maturity != 2.0 {
		t.Fatalf("maturities = %v, %v; want 1, 2", pts[0].Maturity, pts[1].Maturity)
	}

	r1 := pts[0].Rate / 100
	wantR1 := -math.Log(99.0 / 102.0)
	if math.Abs(r1-wantR1) > tol {
		t.Fatalf("1y rate = %.12f, want %.12f", r1, wantR1)
	}

	r2 := pts[1].Rate / 100
	residual := 2.5*math.Exp(-r1*1) + 102.5*math.Exp(-r2*2) - 100.5
	if math.Abs(residual) > 1e-9 {
		t.Fatalf("2y residual = %g, want ~0", residual)
	}
}

func TestBootstrap_AccruedInterestEntersPrice(t *testing.T) {
	t.Parallel()

	obs := bond.Observation{Date: date(2024, 12, 1), PrevCouponDate: asOf}
	b := bond.Bond{Prices: []float64{97}, Maturity: date(2025, 12, 1), CouponRate: 4}

	crv, err := curve.Bootstrap([]bond.Bond{b}, 0, obs, curve.BootstrapOptions{})
	if err != nil {
		t.Fatalf("Bootstrap error: %v", err)
	}
	dirty := bond.DirtyPrice(97, 4, obs)
	want := -math.Log(dirty/102) * 100
	if got, _ := crv.Rate(1.0); math.Abs(got-want) > tol {
		t.Fatalf("rate = %.10f, want %.10f", got, want)
	}
}

func TestBootstrap_ReorderedBondsGiveDifferentCurve(t *testing.T) {
	t.Parallel()

	bonds := twoBondUniverse()
	reversed := []bond.Bond{bonds[1], bonds[0]}

	if curve.IsAscending(reversed, asOf) {
		t.Fatalf("reversed universe reported as ascending")
	}

	ordered, err := curve.Bootstrap(bonds, 0, onCouponDate(), curve.BootstrapOptions{})
	if err != nil {
		t.Fatalf("ordered Bootstrap error: %v", err)
	}
	out, err := curve.Bootstrap(reversed, 0, onCouponDate(), curve.BootstrapOptions{})
	if err != nil {
		t.Fatalf("reversed Bootstrap should not fail, got %v", err)
	}
	if out.Len() != 2 {
		t.Fatalf("reversed curve length = %d, want 2", out.Len())
	}

	want := ordered.Map()
	got := out.Map()
	same := true
	for m, r := range want {
		if math.Abs(got[m]-r) > 1e-6 {
			same = false
		}
	}
	if same {
		t.Fatalf("reordering bonds left the curve unchanged: %v", got)
	}
}

func TestBootstrap_DuplicateMaturity(t *testing.T) {
	t.Parallel()

	bonds := twoBondUniverse()
	dup := bonds[0]
	dup.ISIN = "ONE-YEAR-B"
	dup.Prices = []float64{99.2, 99}
	universe := []bond.Bond{bonds[0], dup}

	crv, err := curve.Bootstrap(universe, 0, onCouponDate(), curve.BootstrapOptions{})
	if !errors.Is(err, solver.ErrDomain) {
		t.Fatalf("expected ErrDomain on duplicate maturity, got %v", err)
	}
	if crv.Len() != 1 {
		t.Fatalf("partial curve length = %d, want 1", crv.Len())
	}

	crv, err = curve.Bootstrap(universe, 0, onCouponDate(), curve.BootstrapOptions{Overwrite: true})
	if err != nil {
		t.Fatalf("Bootstrap with Overwrite error: %v", err)
	}
	if crv.Len() != 1 {
		t.Fatalf("curve length = %d, want 1 after overwrite", crv.Len())
	}
	first := -math.Log(99.0/102.0) * 100
	if got, _ := crv.Rate(1.0); math.Abs(got-first) < 1e-6 {
		t.Fatalf("overwrite kept the first bond's rate %v", got)
	}
}

func TestBootstrap_FailureKeepsPartialCurve(t *testing.T) {
	t.Parallel()

	bonds := twoBondUniverse()
	// A dirty price below the PV of the known coupons has no root.
	bonds[1].Prices = []float64{1, 1}

	crv, err := curve.Bootstrap(bonds, 0, onCouponDate(), curve.BootstrapOptions{})
	if !errors.Is(err, solver.ErrNonConvergence) {
		t.Fatalf("expected ErrNonConvergence, got %v", err)
	}
	var nc *solver.NonConvergenceError
	if !errors.As(err, &nc) || nc.Subject != "TWO-YEAR" || nc.Op != "Bootstrap" {
		t.Fatalf("error does not name the offending bond: %v", err)
	}

	if crv.Len() != 1 {
		t.Fatalf("partial curve length = %d, want 1", crv.Len())
	}
	want := -math.Log(99.0/102.0) * 100
	if got, _ := crv.Rate(1.0); math.Abs(got-want) > tol {
		t.Fatalf("partial curve rate = %.10f, want %.10f (percent)", got, want)
	}
}

func TestBootstrap_MaturedBondIsDomainError(t *testing.T) {
	t.Parallel()

	matured := bond.Bond{Prices: []float64{100}, Maturity: date(2024, 3, 1), CouponRate: 3}
	_, err := curve.Bootstrap([]bond.Bond{matured}, 0, onCouponDate(), curve.BootstrapOptions{})
	if !errors.Is(err, solver.ErrDomain) {
		t.Fatalf("expected ErrDomain, got %v", err)
	}
}

func TestSortByMaturity(t *testing.T) {
	t.Parallel()

	bonds := twoBondUniverse()
	sorted := curve.SortByMaturity([]bond.Bond{bonds[1], bonds[0]})
	if sorted[0].ISIN != "ONE-YEAR" || sorted[1].ISIN != "TWO-YEAR" {
		t.Fatalf("SortByMaturity order = %s, %s", sorted[0].ISIN, sorted[1].ISIN)
	}
	if !curve.IsAscending(sorted, asOf) {
		t.Fatalf("sorted universe not ascending")
	}
}

func TestBootstrapSeries_MatchesSequential(t *testing.T) {
	t.Parallel()

	bonds := twoBondUniverse()
	days := []curve.ObservationDay{
		{DayIndex: 0, Date: asOf},
		{DayIndex: 1, Date: asOf.AddDate(0, 0, 1)},
	}
	obs := bond.Observation{PrevCouponDate: asOf}

	results, err := curve.BootstrapSeries(context.Background(), bonds, days, obs, curve.BootstrapOptions{Parallelism: 2})
	if err != nil {
		t.Fatalf("BootstrapSeries error: %v", err)
	}
	if len(results) != len(days) {
		t.Fatalf("results = %d, want %d", len(results), len(days))
	}

	for i, res := range results {
		if res.Err != nil {
			t.Fatalf("day %d error: %v", i, res.Err)
		}
		dayObs := obs
		dayObs.Date = days[i].Date
		want, err := curve.Bootstrap(bonds, days[i].DayIndex, dayObs, curve.BootstrapOptions{})
		if err != nil {
			t.Fatalf("sequential Bootstrap error: %v", err)
		}
		wp, gp := want.Points(), res.Curve.Points()
		if len(wp) != len(gp) {
			t.Fatalf("day %d: %d points, want %d", i, len(gp), len(wp))
		}
		for k := range wp {
			if wp[k] != gp[k] {
				t.Fatalf("day %d point %d = %+v, want %+v", i, k, gp[k], wp[k])
			}
		}
	}
}

func TestBootstrapSeries_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	days := []curve.ObservationDay{{DayIndex: 0, Date: asOf}}
	results, err := curve.BootstrapSeries(ctx, twoBondUniverse(), days, bond.Observation{PrevCouponDate: asOf}, curve.BootstrapOptions{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if !errors.Is(results[0].Err, context.Canceled) {
		t.Fatalf("day result error = %v, want context.Canceled", results[0].Err)
	}
}
