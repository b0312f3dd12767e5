package bond

import "github.com/meenmo/bondcurve/utils"

// AccruedInterest is the simple ACT/365F coupon accrual since the previous
// coupon date:
//
//	AI = notional × couponRate/100 × days(prev, date) / 365
//
// A Date before PrevCouponDate is not rejected and yields negative accrual.
func AccruedInterest(couponRate float64, obs Observation) float64 {
	obs = obs.WithDefaults()
	days := utils.DaysBetween(obs.PrevCouponDate, obs.Date)
	return obs.Notional * (couponRate / 100) * (float64(days) / 365)
}

// DirtyPrice adds accrued interest to a clean price.
func DirtyPrice(cleanPrice, couponRate float64, obs Observation) float64 {
	return cleanPrice + AccruedInterest(couponRate, obs)
}
