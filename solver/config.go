package solver

// Config holds the convergence budget shared by the iterative solvers.
//
// A Config is always passed explicitly; there is no package-level active
// configuration to mutate.
type Config struct {
	// Tolerance is the absolute residual below which an iterate is accepted.
	Tolerance float64

	// StepTolerance accepts an iterate once the Newton step shrinks below
	// StepTolerance * (1 + |x|). It catches residuals that cannot get under
	// Tolerance because of rounding in large cash-flow sums.
	StepTolerance float64

	// MaxIterations bounds every solve.
	MaxIterations int

	// DerivativeThreshold is the minimum derivative magnitude.
	// Below this, Newton iteration stops to avoid division by near-zero.
	DerivativeThreshold float64
}

// DefaultConfig provides production-ready default values.
var DefaultConfig = Config{
	Tolerance:           1e-12,
	StepTolerance:       1e-13,
	MaxIterations:       100,
	DerivativeThreshold: 1e-15,
}

// WithDefaults fills zero fields from DefaultConfig.
func (c Config) WithDefaults() Config {
	if c.Tolerance <= 0 {
		c.Tolerance = DefaultConfig.Tolerance
	}
	if c.StepTolerance <= 0 {
		c.StepTolerance = DefaultConfig.StepTolerance
	}
	if c.MaxIterations <= 0 {
		c.MaxIterations = DefaultConfig.MaxIterations
	}
	if c.DerivativeThreshold <= 0 {
		c.DerivativeThreshold = DefaultConfig.DerivativeThreshold
	}
	return c
}
