package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/meenmo/bondcurve/bond"
	"github.com/meenmo/bondcurve/config"
	"github.com/meenmo/bondcurve/curve"
	"github.com/meenmo/bondcurve/utils"
)

type universeInput struct {
	TaskID           string            `json:"task_id,omitempty" yaml:"task_id"`
	ObservationDates []observationJSON `json:"observation_dates" yaml:"observation_dates"`
	Bonds            []bondJSON        `json:"bonds" yaml:"bonds"`
}

type observationJSON struct {
	DayIndex int    `json:"day_index" yaml:"day_index"`
	Date     string `json:"date" yaml:"date"`
}

type bondJSON struct {
	ISIN     string    `json:"isin" yaml:"isin"`
	Maturity string    `json:"maturity" yaml:"maturity"`
	Coupon   float64   `json:"coupon" yaml:"coupon"`
	Prices   []float64 `json:"prices" yaml:"prices"`
}

func readInput(path string) ([]byte, error) {
	if path != "" {
		return os.ReadFile(path)
	}
	return io.ReadAll(os.Stdin)
}

// parseUniverse decodes YAML when path has a YAML extension and JSON otherwise.
func parseUniverse(path string, raw []byte) (universeInput, error) {
	var in universeInput
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return in, fmt.Errorf("empty input")
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(trimmed, &in); err != nil {
			return in, err
		}
	default:
		if err := json.Unmarshal(trimmed, &in); err != nil {
			return in, err
		}
	}

	if len(in.Bonds) == 0 {
		return in, fmt.Errorf("bonds are required")
	}
	if len(in.ObservationDates) == 0 {
		return in, fmt.Errorf("observation_dates are required")
	}
	return in, nil
}

func (in universeInput) toBonds(cfg *config.Config) ([]bond.Bond, error) {
	out := make([]bond.Bond, 0, len(in.Bonds))
	for i, b := range in.Bonds {
		maturity, err := cfg.ParseDate(b.Maturity)
		if err != nil {
			return nil, fmt.Errorf("bonds[%d] %s: invalid maturity: %v", i, b.ISIN, err)
		}
		out = append(out, bond.Bond{
			ISIN:       b.ISIN,
			Prices:     b.Prices,
			Maturity:   maturity,
			CouponRate: b.Coupon,
		})
	}
	return out, nil
}

func (in universeInput) toDays(cfg *config.Config) ([]curve.ObservationDay, error) {
	out := make([]curve.ObservationDay, 0, len(in.ObservationDates))
	for i, o := range in.ObservationDates {
		d, err := cfg.ParseDate(o.Date)
		if err != nil {
			return nil, fmt.Errorf("observation_dates[%d]: invalid date: %v", i, err)
		}
		out = append(out, curve.ObservationDay{DayIndex: o.DayIndex, Date: d})
	}
	return out, nil
}

func isoDate(t time.Time) string {
	return t.Format(utils.ISODate)
}
