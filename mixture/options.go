// SPDX-License-Identifier: MIT

// Package mixture: functional configuration of division and optimisation.
//
// Design goals:
//   - The division strategy is an explicit choice of the mixture, never
//     auto-selected.
//   - WithX panics only on nonsensical values; defaults are documented
//     constants.

package mixture

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/katalvlaran/gausspot/diag"
)

// Strategy selects how a mixture is divided by a multi-component mixture.
type Strategy int

const (
	// MomentMatch collapses the denominator to one Gaussian and divides exactly.
	MomentMatch Strategy = iota
	// ModeFinding locates the quotient's modes and fits a Laplace
	// approximation at each.
	ModeFinding
	// ComplexMomentMatch moment-matches each inverse mixture with complex
	// intermediates and inverts the result.
	ComplexMomentMatch
)

var strategyNames = map[Strategy]string{
	MomentMatch:        "moment_match",
	ModeFinding:        "mode_finding",
	ComplexMomentMatch: "complex_moment_match",
}

// String implements fmt.Stringer.
func (s Strategy) String() string {
	if n, ok := strategyNames[s]; ok {
		return n
	}

	return fmt.Sprintf("Strategy(%d)", int(s))
}

// ParseStrategy resolves a strategy by its String name.
func ParseStrategy(name string) (Strategy, error) {
	for s, n := range strategyNames {
		if n == name {
			return s, nil
		}
	}

	return 0, fmt.Errorf("ParseStrategy(%q): %w", name, ErrUnknownStrategy)
}

// Defaults (single source of truth).
const (
	// DefaultModeTolerance is the distance under which two quotient modes are
	// treated as one.
	DefaultModeTolerance = 1e-3

	// DefaultMaxIterations bounds the major iterations of each BFGS start.
	DefaultMaxIterations = 200

	// DefaultGradientTolerance is the gradient infinity norm at which a start
	// counts as converged.
	DefaultGradientTolerance = 1e-6

	// DefaultImaginaryTolerance bounds the imaginary remainder accepted when
	// complex moment matching returns to real parameters.
	DefaultImaginaryTolerance = 1e-6
)

const (
	panicStrategyInvalid  = "mixture: WithDivision: unknown strategy"
	panicToleranceInvalid = "mixture: tolerance must be finite and positive"
	panicIterInvalid      = "mixture: WithMaxIterations: iterations must be > 0"
)

// Option mutates Options.
type Option func(*Options)

// Options is the effective configuration of a mixture.
type Options struct {
	strategy Strategy
	modeTol  float64
	gradTol  float64
	imagTol  float64
	maxIter  int
	recorder *diag.Recorder
}

// WithDivision selects the mixture ÷ mixture strategy.
func WithDivision(s Strategy) Option {
	if _, ok := strategyNames[s]; !ok {
		panic(panicStrategyInvalid)
	}

	return func(o *Options) { o.strategy = s }
}

// WithModeTolerance sets the mode de-duplication distance.
func WithModeTolerance(tol float64) Option {
	mustPositive(tol)

	return func(o *Options) { o.modeTol = tol }
}

// WithGradientTolerance sets the convergence threshold of optimiser starts.
func WithGradientTolerance(tol float64) Option {
	mustPositive(tol)

	return func(o *Options) { o.gradTol = tol }
}

// WithImaginaryTolerance sets the accepted imaginary remainder of complex
// moment matching.
func WithImaginaryTolerance(tol float64) Option {
	mustPositive(tol)

	return func(o *Options) { o.imagTol = tol }
}

// WithMaxIterations bounds BFGS major iterations per start.
func WithMaxIterations(n int) Option {
	if n <= 0 {
		panic(panicIterInvalid)
	}

	return func(o *Options) { o.maxIter = n }
}

// WithRecorder routes diagnostics to rec.
func WithRecorder(rec *diag.Recorder) Option {
	return func(o *Options) {
		if rec != nil {
			o.recorder = rec
		}
	}
}

// WithLogger routes diagnostics to a fresh Recorder logging via l.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) { o.recorder = diag.NewRecorder(l) }
}

// Strategy returns the configured division strategy.
func (o *Options) Strategy() Strategy { return o.strategy }

// Recorder returns the diagnostics sink.
func (o *Options) Recorder() *diag.Recorder { return o.recorder }

func gatherOptions(opts ...Option) *Options {
	o := &Options{
		strategy: MomentMatch,
		modeTol:  DefaultModeTolerance,
		gradTol:  DefaultGradientTolerance,
		imagTol:  DefaultImaginaryTolerance,
		maxIter:  DefaultMaxIterations,
		recorder: diag.Discard(),
	}
	for _, fn := range opts {
		if fn != nil {
			fn(o)
		}
	}

	return o
}

func mustPositive(v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		panic(panicToleranceInvalid)
	}
}
