package curve

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/meenmo/bondcurve/bond"
)

// ObservationDay pairs a price-series index with its calendar date.
type ObservationDay struct {
	DayIndex int
	Date     time.Time
}

// SeriesResult is one day's bootstrap. Curve is the partial curve when Err is set.
type SeriesResult struct {
	Day   ObservationDay
	Curve *SpotCurve
	Err   error
}

// BootstrapSeries bootstraps one curve per observation day. Curves are
// independent, so days run concurrently (at most opts.Parallelism at a time);
// each curve is still built bond by bond.
//
// obs supplies PrevCouponDate and Notional; its Date is replaced per day.
// A failing day is reported in its SeriesResult and does not stop the others.
// The returned error is non-nil only when ctx is cancelled, in which case
// unscheduled days carry ctx.Err().
func BootstrapSeries(ctx context.Context, bonds []bond.Bond, days []ObservationDay, obs bond.Observation, opts BootstrapOptions) ([]SeriesResult, error) {
	limit := opts.Parallelism
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	results := make([]SeriesResult, len(days))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, day := range days {
		i, day := i, day
		results[i].Day = day
		if err := gctx.Err(); err != nil {
			results[i].Err = err
			continue
		}

		g.Go(func() error {
			dayObs := obs
			dayObs.Date = day.Date
			crv, err := Bootstrap(bonds, day.DayIndex, dayObs, opts)
			results[i].Curve = crv
			results[i].Err = err
			return nil
		})
	}

	_ = g.Wait()
	return results, ctx.Err()
}
