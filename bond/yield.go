package bond

import (
	"math"

	"github.com/meenmo/bondcurve/solver"
)

// YTMResult is the output of ComputeYTM.
type YTMResult struct {
	// YTM is the annualised yield in percent (per-period IRR × 200).
	YTM float64
	// TimeToMaturity is the ACT/365F year fraction to maturity.
	TimeToMaturity float64
	// DirtyPrice is clean price plus accrued interest (per notional).
	DirtyPrice float64
	// Periods is the number of remaining semi-annual coupon periods.
	Periods int
	// Iterations is the number of Newton-Raphson steps taken by the IRR solve.
	Iterations int
	// Schedule is the cash-flow vector the IRR was solved on.
	Schedule Schedule
}

// RemainingPeriods counts the semi-annual periods left for a time to maturity:
//
//	periods = floor(2T) + 1
//
// A bond maturing exactly on a coupon date gets one extra period; the count is
// kept as-is rather than special-cased.
func RemainingPeriods(timeToMaturity float64) int {
	return int(math.Floor(CouponFrequency*timeToMaturity)) + 1
}

// BuildSchedule lays out the cash flows of b observed on day dayIndex:
// the dirty price paid at period 0, one coupon for each of the next
// periods−1 periods, and coupon plus redemption at the last period.
//
// When no period remains the schedule holds the outflow only.
func BuildSchedule(b Bond, dayIndex int, obs Observation) (Schedule, float64, error) {
	obs = obs.WithDefaults()
	if err := obs.Validate("BuildSchedule"); err != nil {
		return nil, 0, err
	}
	clean, err := b.PriceAt(dayIndex)
	if err != nil {
		return nil, 0, err
	}

	dirty := DirtyPrice(clean, b.CouponRate, obs)
	coupon := b.CouponPayment(obs.Notional)
	periods := RemainingPeriods(b.TimeToMaturity(obs.Date))

	sched := make(Schedule, 0, max(periods, 0)+1)
	sched = append(sched, PeriodCashflow{Period: 0, Principal: -dirty})
	if periods <= 0 {
		return sched, dirty, nil
	}
	for p := 1; p < periods; p++ {
		sched = append(sched, PeriodCashflow{Period: p, Coupon: coupon})
	}
	sched = append(sched, PeriodCashflow{Period: periods, Coupon: coupon, Principal: obs.Notional})
	return sched, dirty, nil
}

// ComputeYTM solves the yield to maturity of b from its clean price on day
// dayIndex.
//
// The per-period IRR r of the schedule is annualised as r × 200 (percent,
// semi-annual compounding). A schedule without inflows, or an IRR solve that
// runs out of budget, returns a *solver.NonConvergenceError.
func ComputeYTM(b Bond, dayIndex int, obs Observation, cfg solver.Config) (YTMResult, error) {
	obs = obs.WithDefaults()
	sched, dirty, err := BuildSchedule(b, dayIndex, obs)
	if err != nil {
		return YTMResult{}, err
	}

	res, err := solver.IRR(sched.Amounts(), cfg)
	if err != nil {
		return YTMResult{}, solver.Attribute(err, "ComputeYTM", b.Label(-1))
	}

	return YTMResult{
		YTM:            res.Root * 200,
		TimeToMaturity: b.TimeToMaturity(obs.Date),
		DirtyPrice:     dirty,
		Periods:        len(sched) - 1,
		Iterations:     res.Iterations,
		Schedule:       sched,
	}, nil
}
