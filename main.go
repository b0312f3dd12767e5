package main

import (
	"fmt"

	"github.com/meenmo/bondcurve/bond"
	"github.com/meenmo/bondcurve/curve"
	"github.com/meenmo/bondcurve/solver"
	"github.com/meenmo/bondcurve/utils"
)

func main() {
	bonds := []bond.Bond{
		{ISIN: "CAN 0.75 03/01/25", Prices: []float64{99.12}, Maturity: utils.DateParser("01-03-2025"), CouponRate: 0.75},
		{ISIN: "CAN 1.25 09/01/25", Prices: []float64{98.61}, Maturity: utils.DateParser("01-09-2025"), CouponRate: 1.25},
		{ISIN: "CAN 0.50 03/01/26", Prices: []float64{96.25}, Maturity: utils.DateParser("01-03-2026"), CouponRate: 0.50},
		{ISIN: "CAN 1.00 09/01/26", Prices: []float64{96.18}, Maturity: utils.DateParser("01-09-2026"), CouponRate: 1.00},
		{ISIN: "CAN 1.25 03/01/27", Prices: []float64{96.03}, Maturity: utils.DateParser("01-03-2027"), CouponRate: 1.25},
	}

	obs := bond.Observation{
		Date:           utils.DateParser("15-01-2024"),
		PrevCouponDate: utils.DateParser("01-09-2023"),
		Notional:       100,
	}

	for _, b := range bonds {
		res, err := bond.ComputeYTM(b, 0, obs, solver.DefaultConfig)
		if err != nil {
			fmt.Printf("%-18s YTM error: %v\n", b.ISIN, err)
			continue
		}
		fmt.Printf("%-18s T=%.4f dirty=%.4f YTM=%.4f%%\n", b.ISIN, res.TimeToMaturity, res.DirtyPrice, res.YTM)
	}

	spot, err := curve.Bootstrap(bonds, 0, obs, curve.BootstrapOptions{})
	if err != nil {
		fmt.Printf("bootstrap stopped: %v\n", err)
	}
	for _, p := range spot.Points() {
		fmt.Printf("spot %.4fy: %.4f%%\n", p.Maturity, p.Rate)
	}

	fwd, err := curve.ForwardRate(spot.Decimal(), 1, 1)
	if err != nil {
		fmt.Printf("forward error: %v\n", err)
		return
	}
	fmt.Printf("1y1y forward: %.4f%%\n", fwd*100)
}
