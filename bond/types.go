package bond

import (
	"fmt"
	"time"

	"github.com/meenmo/bondcurve/solver"
	"github.com/meenmo/bondcurve/utils"
)

const (
	// DefaultNotional is the face value prices are quoted against.
	DefaultNotional = 100.0
	// CouponFrequency is the number of coupons per year.
	CouponFrequency = 2
)

// Bond is a fixed-coupon bond with a daily series of clean prices.
//
// The caller owns a Bond; the analytics here only read it.
type Bond struct {
	// ISIN is optional and only used to label errors and output.
	ISIN string
	// Prices are clean prices (per 100 notional) indexed by observation day.
	Prices []float64
	// Maturity is the redemption date.
	Maturity time.Time
	// CouponRate is the annual coupon in percent (e.g. 4.25), paid semi-annually.
	CouponRate float64
}

// PriceAt returns the clean price observed on day.
func (b Bond) PriceAt(day int) (float64, error) {
	if day < 0 || day >= len(b.Prices) {
		return 0, solver.Domainf("PriceAt", "day index %d out of range [0, %d) for %s", day, len(b.Prices), b.Label(-1))
	}
	return b.Prices[day], nil
}

// CouponPayment is the per-period coupon amount on notional.
func (b Bond) CouponPayment(notional float64) float64 {
	return b.CouponRate / 100 * notional / CouponFrequency
}

// TimeToMaturity is the ACT/365F year fraction from asOf to maturity.
func (b Bond) TimeToMaturity(asOf time.Time) float64 {
	return utils.YearFraction(asOf, b.Maturity)
}

// Label names the bond in errors and logs: the ISIN when present, otherwise
// its position in the caller's universe (or the maturity when idx < 0).
func (b Bond) Label(idx int) string {
	switch {
	case b.ISIN != "":
		return b.ISIN
	case idx >= 0:
		return fmt.Sprintf("bond[%d] (maturity %s)", idx, b.Maturity.Format(utils.ISODate))
	default:
		return fmt.Sprintf("bond maturing %s", b.Maturity.Format(utils.ISODate))
	}
}

// Observation fixes the date a price is observed on and the accrual context.
type Observation struct {
	// Date is the observation (settlement) date.
	Date time.Time
	// PrevCouponDate is the last coupon date before Date; accrual starts here.
	PrevCouponDate time.Time
	// Notional is the face value; zero means DefaultNotional.
	Notional float64
}

// WithDefaults fills Notional when unset.
func (o Observation) WithDefaults() Observation {
	if o.Notional == 0 {
		o.Notional = DefaultNotional
	}
	return o
}

// Validate checks the fields every pricing operation needs.
func (o Observation) Validate(op string) error {
	if o.Date.IsZero() {
		return solver.Domainf(op, "observation Date is required")
	}
	if o.PrevCouponDate.IsZero() {
		return solver.Domainf(op, "PrevCouponDate is required")
	}
	if o.Notional <= 0 {
		return solver.Domainf(op, "Notional must be positive, got %g", o.Notional)
	}
	return nil
}

// PeriodCashflow is a single cash payment at a whole coupon-period offset.
//
// Amounts are in currency units on the observation's notional.
type PeriodCashflow struct {
	Period    int
	Coupon    float64
	Principal float64
}

func (c PeriodCashflow) Amount() float64 {
	return c.Coupon + c.Principal
}

// Schedule is the cash-flow vector of one bond seen from one observation.
// Entry 0 is the dirty-price outflow at period 0.
type Schedule []PeriodCashflow

// Amounts returns the per-period totals in period order.
func (s Schedule) Amounts() []float64 {
	out := make([]float64, 0, len(s))
	for _, cf := range s {
		out = append(out, cf.Amount())
	}
	return out
}
