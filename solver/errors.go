package solver

import (
	"errors"
	"fmt"
)

var (
	// ErrDomain marks invalid mathematical input (zero forward length,
	// non-positive time to maturity, too few curve points).
	ErrDomain = errors.New("domain error")

	// ErrNonConvergence marks an iterative solve that exhausted its budget or diverged.
	ErrNonConvergence = errors.New("solver did not converge")
)

// DomainError reports invalid input to a numerical operation.
type DomainError struct {
	Op  string
	Msg string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Msg)
}

func (e *DomainError) Unwrap() error { return ErrDomain }

// Domainf builds a *DomainError for op.
func Domainf(op, format string, args ...any) error {
	return &DomainError{Op: op, Msg: fmt.Sprintf(format, args...)}
}

// NonConvergenceError reports a failed iterative solve.
type NonConvergenceError struct {
	// Op is the public operation that ran the solver (e.g. "Bootstrap").
	Op string
	// Subject identifies the instrument being solved, if any.
	Subject string
	// Iterations is the number of steps taken before giving up.
	Iterations int
	// Last is the final iterate.
	Last   float64
	Reason string
}

func (e *NonConvergenceError) Error() string {
	if e.Subject != "" {
		return fmt.Sprintf("%s: %s: %s after %d iterations (last=%g)", e.Op, e.Subject, e.Reason, e.Iterations, e.Last)
	}
	return fmt.Sprintf("%s: %s after %d iterations (last=%g)", e.Op, e.Reason, e.Iterations, e.Last)
}

func (e *NonConvergenceError) Unwrap() error { return ErrNonConvergence }

// For returns a copy of e attributed to op and subject.
func (e *NonConvergenceError) For(op, subject string) *NonConvergenceError {
	out := *e
	out.Op = op
	out.Subject = subject
	return &out
}

// Attribute rewrites a *NonConvergenceError for op and subject and passes any
// other error through unchanged.
func Attribute(err error, op, subject string) error {
	var nc *NonConvergenceError
	if errors.As(err, &nc) {
		return nc.For(op, subject)
	}
	return err
}
