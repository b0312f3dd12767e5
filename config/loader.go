package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Load reads a TOML (.toml) or YAML (.yaml, .yml) configuration file at path,
// merges it on top of the built-in defaults, applies BONDCURVE_* environment
// variable overrides, and returns the final Config. An empty path skips the
// file. The returned Config has NOT been validated; the caller should invoke
// Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if err := decodeFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return fmt.Errorf("parse config %s: %w", path, err)
		}
		return nil
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parse config %s: %w", path, err)
		}
		return nil
	default:
		return fmt.Errorf("config %s: unsupported extension %q (want .toml, .yaml or .yml)", path, filepath.Ext(path))
	}
}

// applyEnvOverrides reads BONDCURVE_* environment variables and overwrites the
// corresponding Config fields when a variable is set (i.e. not empty).
func applyEnvOverrides(cfg *Config) {
	setFloat64(&cfg.Notional, "BONDCURVE_NOTIONAL")
	setStr(&cfg.PrevCouponDate, "BONDCURVE_PREV_COUPON_DATE")
	setStr(&cfg.DateLayout, "BONDCURVE_DATE_LAYOUT")
	setStr(&cfg.LogLevel, "BONDCURVE_LOG_LEVEL")

	setFloat64(&cfg.Bootstrap.InitialGuess, "BONDCURVE_BOOTSTRAP_INITIAL_GUESS")
	setBool(&cfg.Bootstrap.Overwrite, "BONDCURVE_BOOTSTRAP_OVERWRITE")
	setInt(&cfg.Bootstrap.Parallelism, "BONDCURVE_BOOTSTRAP_PARALLELISM")

	setFloat64(&cfg.Solver.Tolerance, "BONDCURVE_SOLVER_TOLERANCE")
	setFloat64(&cfg.Solver.StepTolerance, "BONDCURVE_SOLVER_STEP_TOLERANCE")
	setInt(&cfg.Solver.MaxIterations, "BONDCURVE_SOLVER_MAX_ITERATIONS")
	setFloat64(&cfg.Solver.DerivativeThreshold, "BONDCURVE_SOLVER_DERIVATIVE_THRESHOLD")
}

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
