package main

import (
	"context"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/meenmo/bondcurve/config"
)

const universeJSON = `{
  "task_id": "t-1",
  "observation_dates": [
    {"day_index": 0, "date": "01-09-2024"},
    {"day_index": 1, "date": "02-09-2024"}
  ],
  "bonds": [
    {"isin": "TWO-YEAR", "maturity": "01-09-2026", "coupon": 5, "prices": [100.5, 100.4]},
    {"isin": "ONE-YEAR", "maturity": "01-09-2025", "coupon": 4, "prices": [99, 99.1]}
  ]
}`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRun_SortsUniverseAndBootstraps(t *testing.T) {
	t.Parallel()

	in, err := parseUniverse("", []byte(universeJSON))
	if err != nil {
		t.Fatalf("parseUniverse error: %v", err)
	}
	cfg := config.Defaults()

	outputs, hadError, err := run(context.Background(), discardLogger(), &cfg, in)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}
	if hadError {
		t.Fatalf("unexpected per-item error: %+v", outputs)
	}
	if len(outputs) != 2 {
		t.Fatalf("outputs = %d, want 2", len(outputs))
	}

	day0 := outputs[0]
	if day0.Date != "2024-09-01" || day0.TaskID != "t-1" {
		t.Fatalf("day 0 header = %+v", day0)
	}
	if day0.Bonds[0].ISIN != "ONE-YEAR" {
		t.Fatalf("universe not sorted by maturity: first bond %s", day0.Bonds[0].ISIN)
	}
	if len(day0.SpotCurve) != 2 {
		t.Fatalf("spot curve points = %d, want 2", len(day0.SpotCurve))
	}
	want := -math.Log(99.0/102.0) * 100
	if math.Abs(day0.SpotCurve[0].Rate-want) > 1e-9 {
		t.Fatalf("1y spot = %.10f, want %.10f", day0.SpotCurve[0].Rate, want)
	}
	if len(day0.Forwards) != 1 || day0.Forwards[0].Error != "" {
		t.Fatalf("forwards = %+v", day0.Forwards)
	}
	if day0.Bonds[0].DirtyPrice != 99 {
		t.Fatalf("dirty price on coupon date = %v, want 99", day0.Bonds[0].DirtyPrice)
	}
	if outputs[1].Bonds[0].DirtyPrice <= outputs[1].Bonds[0].CleanPrice {
		t.Fatalf("day 1 dirty price should include accrual: %+v", outputs[1].Bonds[0])
	}
}

func TestRun_ReportsMissingPrice(t *testing.T) {
	t.Parallel()

	in, err := parseUniverse("", []byte(universeJSON))
	if err != nil {
		t.Fatalf("parseUniverse error: %v", err)
	}
	in.ObservationDates = append(in.ObservationDates, observationJSON{DayIndex: 5, Date: "03-09-2024"})
	cfg := config.Defaults()

	outputs, hadError, err := run(context.Background(), discardLogger(), &cfg, in)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}
	if !hadError {
		t.Fatalf("expected per-item error for missing price")
	}
	last := outputs[len(outputs)-1]
	if last.Error == "" || last.Bonds[0].Error == "" {
		t.Fatalf("missing price not reported: %+v", last)
	}
	if len(last.SpotCurve) != 0 {
		t.Fatalf("curve should be empty when the first bond fails: %+v", last.SpotCurve)
	}
}

func TestParseUniverse_YAML(t *testing.T) {
	t.Parallel()

	raw := []byte(`
observation_dates:
  - day_index: 0
    date: "01-09-2024"
bonds:
  - isin: ONE-YEAR
    maturity: "01-09-2025"
    coupon: 4
    prices: [99]
`)
	in, err := parseUniverse("universe.yaml", raw)
	if err != nil {
		t.Fatalf("parseUniverse error: %v", err)
	}
	if len(in.Bonds) != 1 || in.Bonds[0].Prices[0] != 99 {
		t.Fatalf("bonds = %+v", in.Bonds)
	}
}

func TestParseUniverse_RequiresBonds(t *testing.T) {
	t.Parallel()

	if _, err := parseUniverse("", []byte(`{"observation_dates":[{"day_index":0,"date":"01-09-2024"}]}`)); err == nil {
		t.Fatalf("expected error without bonds")
	}
}
