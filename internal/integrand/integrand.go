// Package integrand defines the callable the integration engine samples and
// the closed set of named functions offered to users.
package integrand

import (
	"errors"
	"math"
)

// ErrDomain is returned by checked integrands evaluated outside their domain.
var ErrDomain = errors.New("argument outside function domain")

// Integrand is a pure function ℝ→ℝ. Implementations must be safe for
// concurrent use and hold no mutable state. An evaluation may fail, or
// return NaN or ±Inf, for arguments outside the function's domain.
type Integrand interface {
	Eval(x float64) (float64, error)
}

// Func adapts an infallible func(float64) float64 to Integrand.
type Func func(x float64) float64

// Eval calls f(x).
func (f Func) Eval(x float64) (float64, error) { return f(x), nil }

// CheckedFunc adapts a func(float64) (float64, error) to Integrand.
type CheckedFunc func(x float64) (float64, error)

// Eval calls f(x).
func (f CheckedFunc) Eval(x float64) (float64, error) { return f(x) }

// Evaluate returns f(x) and true, or 0 and false when the evaluation must be
// skipped: it returned an error, a NaN or an infinity, or it panicked.
// A skipped sample contributes zero to a Monte Carlo sum.
func Evaluate(f Integrand, x float64) (y float64, ok bool) {
	defer func() {
		if recover() != nil {
			y, ok = 0, false
		}
	}()
	v, err := f.Eval(x)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
