package curve

import (
	"math"
	"sort"
	"time"

	"github.com/meenmo/bondcurve/bond"
	"github.com/meenmo/bondcurve/solver"
)

// DefaultInitialGuess is the Newton starting rate for each bootstrap step (5%).
const DefaultInitialGuess = 0.05

// BootstrapOptions tunes a bootstrap run. The zero value is usable.
type BootstrapOptions struct {
	// InitialGuess is the decimal starting rate for Newton; zero means DefaultInitialGuess.
	InitialGuess float64
	// Overwrite lets a bond whose maturity is already on the curve replace
	// that node instead of failing.
	Overwrite bool
	// Solver is the Newton budget; zero fields take solver.DefaultConfig.
	Solver solver.Config
	// Parallelism caps concurrent curves in BootstrapSeries; zero means GOMAXPROCS.
	Parallelism int
}

func (o BootstrapOptions) withDefaults() BootstrapOptions {
	if o.InitialGuess == 0 {
		o.InitialGuess = DefaultInitialGuess
	}
	o.Solver = o.Solver.WithDefaults()
	return o
}

// Bootstrap builds a continuously-compounded zero curve from bonds observed
// on day dayIndex. Rates in the returned curve are in percent.
//
// bonds must be ordered by ascending maturity; Bootstrap does not check this
// and an out-of-order universe silently yields a different curve. The first
// bond is treated as a single terminal cash flow:
//
//	r = −ln(P / (N + c)) / T
//
// Every later bond discounts its coupon at each maturity already on the curve
// and solves, by Newton-Raphson, for the rate r that reprices it:
//
//	f(r) = Σ_{t∈S} c·e^(−S(t)·t) + (c + N)·e^(−r·T) − P = 0
//
// On failure the curve built before the offending bond is returned alongside
// the error, so it stays usable.
func Bootstrap(bonds []bond.Bond, dayIndex int, obs bond.Observation, opts BootstrapOptions) (*SpotCurve, error) {
	obs = obs.WithDefaults()
	opts = opts.withDefaults()

	work := NewSpotCurve()
	if err := obs.Validate("Bootstrap"); err != nil {
		return work, err
	}

	for i, b := range bonds {
		rate, ttm, err := bootstrapStep(work, b, i, dayIndex, obs, opts)
		if err != nil {
			return work.Scale(100), err
		}

		if opts.Overwrite {
			work.Overwrite(ttm, rate)
			continue
		}
		if err := work.Insert(ttm, rate); err != nil {
			return work.Scale(100), solver.Domainf("Bootstrap", "%s: maturity %.6fy already bootstrapped", b.Label(i), ttm)
		}
	}

	return work.Scale(100), nil
}

// bootstrapStep solves the decimal zero rate of bond b against the decimal
// curve solved so far.
func bootstrapStep(solved *SpotCurve, b bond.Bond, idx, dayIndex int, obs bond.Observation, opts BootstrapOptions) (float64, float64, error) {
	ttm := b.TimeToMaturity(obs.Date)
	if ttm <= 0 {
		return 0, ttm, solver.Domainf("Bootstrap", "%s: time to maturity %.6fy is not positive", b.Label(idx), ttm)
	}

	clean, err := b.PriceAt(dayIndex)
	if err != nil {
		return 0, ttm, err
	}
	price := bond.DirtyPrice(clean, b.CouponRate, obs)
	coupon := b.CouponPayment(obs.Notional)
	terminal := coupon + obs.Notional

	if solved.Len() == 0 {
		ratio := price / terminal
		if ratio <= 0 {
			return 0, ttm, solver.Domainf("Bootstrap", "%s: dirty price %g gives no zero rate", b.Label(idx), price)
		}
		return -math.Log(ratio) / ttm, ttm, nil
	}

	known := 0.0
	for _, p := range solved.points {
		known += coupon * math.Exp(-p.Rate*p.Maturity)
	}

	res, err := solver.Newton(func(r float64) (float64, float64) {
		df := math.Exp(-r * ttm)
		return known + terminal*df - price, -terminal * ttm * df
	}, opts.InitialGuess, opts.Solver)
	if err != nil {
		return 0, ttm, solver.Attribute(err, "Bootstrap", b.Label(idx))
	}
	return res.Root, ttm, nil
}

// SortByMaturity returns a copy of bonds ordered by ascending maturity date.
func SortByMaturity(bonds []bond.Bond) []bond.Bond {
	out := make([]bond.Bond, len(bonds))
	copy(out, bonds)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Maturity.Before(out[j].Maturity)
	})
	return out
}

// IsAscending reports whether bonds are strictly ordered by time to maturity
// as seen from asOf.
func IsAscending(bonds []bond.Bond, asOf time.Time) bool {
	for i := 1; i < len(bonds); i++ {
		if bonds[i].TimeToMaturity(asOf) <= bonds[i-1].TimeToMaturity(asOf) {
			return false
		}
	}
	return true
}
