package solver

import (
	"math"
)

// Func evaluates a residual and its first derivative at x.
type Func func(x float64) (f, df float64)

// Result is the outcome of a successful solve.
type Result struct {
	Root       float64
	Iterations int
	Residual   float64
}

// Newton finds a root of fn starting from x0 with Newton-Raphson.
//
// The iterate is accepted when |f| < cfg.Tolerance or when the step falls below
// cfg.StepTolerance relative to x. A vanishing derivative, a non-finite iterate
// or an exhausted budget return a *NonConvergenceError.
func Newton(fn Func, x0 float64, cfg Config) (Result, error) {
	return newton(fn, x0, cfg, nil)
}

// newton is Newton with an optional guard that may pull a proposed iterate back
// into the function's domain.
func newton(fn Func, x0 float64, cfg Config, guard func(prev, next float64) float64) (Result, error) {
	cfg = cfg.WithDefaults()
	x := x0

	for iter := 0; iter < cfg.MaxIterations; iter++ {
		f, df := fn(x)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return Result{}, &NonConvergenceError{Op: "Newton", Iterations: iter + 1, Last: x, Reason: "residual is not finite"}
		}
		if math.Abs(f) < cfg.Tolerance {
			return Result{Root: x, Iterations: iter + 1, Residual: f}, nil
		}
		if math.Abs(df) < cfg.DerivativeThreshold {
			return Result{}, &NonConvergenceError{Op: "Newton", Iterations: iter + 1, Last: x, Reason: "derivative too small"}
		}

		next := x - f/df
		if guard != nil {
			next = guard(x, next)
		}
		if math.IsNaN(next) || math.IsInf(next, 0) {
			return Result{}, &NonConvergenceError{Op: "Newton", Iterations: iter + 1, Last: x, Reason: "iterate diverged"}
		}

		step := math.Abs(next - x)
		x = next
		if step < cfg.StepTolerance*(1+math.Abs(x)) {
			f, _ = fn(x)
			return Result{Root: x, Iterations: iter + 1, Residual: f}, nil
		}
	}

	return Result{}, &NonConvergenceError{Op: "Newton", Iterations: cfg.MaxIterations, Last: x, Reason: "iteration budget exhausted"}
}
