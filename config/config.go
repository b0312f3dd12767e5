// Package config holds the run configuration of the bondcurve tools: notional,
// accrual anchor, date layout, bootstrap knobs and solver budget.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/meenmo/bondcurve/bond"
	"github.com/meenmo/bondcurve/curve"
	"github.com/meenmo/bondcurve/solver"
	"github.com/meenmo/bondcurve/utils"
)

// Config is the root configuration structure. Fields are populated from a TOML
// or YAML file over Defaults() and then optionally overridden by BONDCURVE_*
// environment variables.
type Config struct {
	// Notional is the face value prices are quoted against.
	Notional float64 `toml:"notional" yaml:"notional"`
	// PrevCouponDate is the accrual start shared by the bond universe, in DateLayout.
	PrevCouponDate string `toml:"prev_coupon_date" yaml:"prev_coupon_date"`
	// DateLayout is a Go time layout; the market default is day-month-year.
	DateLayout string `toml:"date_layout" yaml:"date_layout"`

	Bootstrap BootstrapConfig `toml:"bootstrap" yaml:"bootstrap"`
	Solver    SolverConfig    `toml:"solver" yaml:"solver"`
	Forwards  []ForwardConfig `toml:"forwards" yaml:"forwards"`

	LogLevel string `toml:"log_level" yaml:"log_level"`
}

// BootstrapConfig tunes the spot-curve bootstrap.
type BootstrapConfig struct {
	InitialGuess float64 `toml:"initial_guess" yaml:"initial_guess"`
	Overwrite    bool    `toml:"overwrite" yaml:"overwrite"`
	Parallelism  int     `toml:"parallelism" yaml:"parallelism"`
}

// SolverConfig mirrors solver.Config.
type SolverConfig struct {
	Tolerance           float64 `toml:"tolerance" yaml:"tolerance"`
	StepTolerance       float64 `toml:"step_tolerance" yaml:"step_tolerance"`
	MaxIterations       int     `toml:"max_iterations" yaml:"max_iterations"`
	DerivativeThreshold float64 `toml:"derivative_threshold" yaml:"derivative_threshold"`
}

// ForwardConfig requests the forward rate from Start for Length years.
type ForwardConfig struct {
	Start  float64 `toml:"start" yaml:"start"`
	Length float64 `toml:"length" yaml:"length"`
}

var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Defaults returns the configuration used when no file or override sets a field.
func Defaults() Config {
	return Config{
		Notional:       bond.DefaultNotional,
		PrevCouponDate: "01-09-2024",
		DateLayout:     utils.DayMonthYear,
		Bootstrap: BootstrapConfig{
			InitialGuess: curve.DefaultInitialGuess,
		},
		Solver: SolverConfig{
			Tolerance:           solver.DefaultConfig.Tolerance,
			StepTolerance:       solver.DefaultConfig.StepTolerance,
			MaxIterations:       solver.DefaultConfig.MaxIterations,
			DerivativeThreshold: solver.DefaultConfig.DerivativeThreshold,
		},
		Forwards: []ForwardConfig{{Start: 1, Length: 1}},
		LogLevel: "info",
	}
}

// Validate checks the configuration and reports every problem at once.
func (c *Config) Validate() error {
	var errs []string

	if c.Notional <= 0 {
		errs = append(errs, fmt.Sprintf("notional must be > 0, got %g", c.Notional))
	}
	if strings.TrimSpace(c.DateLayout) == "" {
		errs = append(errs, "date_layout must not be empty")
	}
	if strings.TrimSpace(c.PrevCouponDate) == "" {
		errs = append(errs, "prev_coupon_date must be set")
	} else if _, err := c.ParseDate(c.PrevCouponDate); err != nil {
		errs = append(errs, fmt.Sprintf("prev_coupon_date: %v", err))
	}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}
	if c.Bootstrap.Parallelism < 0 {
		errs = append(errs, "bootstrap: parallelism must be >= 0")
	}
	if c.Solver.MaxIterations < 0 {
		errs = append(errs, "solver: max_iterations must be >= 0")
	}
	for i, f := range c.Forwards {
		if f.Length <= 0 {
			errs = append(errs, fmt.Sprintf("forwards[%d]: length must be > 0, got %g", i, f.Length))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// ParseDate parses s with the configured layout.
func (c *Config) ParseDate(s string) (time.Time, error) {
	return utils.ParseDate(c.DateLayout, strings.TrimSpace(s))
}

// Observation builds the pricing context for date.
func (c *Config) Observation(date time.Time) (bond.Observation, error) {
	prev, err := c.ParseDate(c.PrevCouponDate)
	if err != nil {
		return bond.Observation{}, err
	}
	return bond.Observation{Date: date, PrevCouponDate: prev, Notional: c.Notional}, nil
}

// SolverConfig converts the solver block.
func (c *Config) SolverConfig() solver.Config {
	return solver.Config{
		Tolerance:           c.Solver.Tolerance,
		StepTolerance:       c.Solver.StepTolerance,
		MaxIterations:       c.Solver.MaxIterations,
		DerivativeThreshold: c.Solver.DerivativeThreshold,
	}.WithDefaults()
}

// BootstrapOptions converts the bootstrap block.
func (c *Config) BootstrapOptions() curve.BootstrapOptions {
	return curve.BootstrapOptions{
		InitialGuess: c.Bootstrap.InitialGuess,
		Overwrite:    c.Bootstrap.Overwrite,
		Solver:       c.SolverConfig(),
		Parallelism:  c.Bootstrap.Parallelism,
	}
}

// ForwardTenors converts the forwards block.
func (c *Config) ForwardTenors() []curve.ForwardTenor {
	out := make([]curve.ForwardTenor, 0, len(c.Forwards))
	for _, f := range c.Forwards {
		out = append(out, curve.ForwardTenor{T: f.Start, N: f.Length})
	}
	return out
}

// SlogLevel maps LogLevel to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
