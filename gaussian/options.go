// SPDX-License-Identifier: MIT

// Package gaussian: functional configuration of numeric policy.
//
// Design goals:
//   - Deterministic behavior: no global state, no implicit randomness.
//   - Safe by construction: WithX panics only on nonsensical values.
//   - Results inherit the options of their left-hand operand.

package gaussian

import (
	"math"

	"go.uber.org/zap"

	"github.com/katalvlaran/gausspot/diag"
)

// Numeric policy defaults (single source of truth).
const (
	// DefaultRelTol is the relative tolerance used by Equals.
	DefaultRelTol = 1e-5

	// DefaultAbsTol is the absolute tolerance used by Equals.
	DefaultAbsTol = 1e-5

	// DefaultVacuumTol is the absolute tolerance under which every entry of K
	// must fall for a potential to be vacuous.
	DefaultVacuumTol = 1e-8

	// DefaultPSDFloor is the smallest eigenvalue FixNonPSD leaves in a repaired
	// matrix, so that the result stays invertible.
	DefaultPSDFloor = 1e-10
)

const (
	panicToleranceInvalid = "gaussian: tolerance must be finite and non-negative"
	panicFloorInvalid     = "gaussian: WithPSDFloor: floor must be finite and non-negative"
)

// Option mutates Options. Constructors panic only on nonsensical values.
type Option func(*Options)

// Options is the effective configuration after applying Option setters.
type Options struct {
	rtol      float64
	atol      float64
	vacuumTol float64
	psdFloor  float64
	recorder  *diag.Recorder
}

// WithTolerance sets the relative and absolute tolerances of Equals.
func WithTolerance(rtol, atol float64) Option {
	if !validTol(rtol) || !validTol(atol) {
		panic(panicToleranceInvalid)
	}

	return func(o *Options) { o.rtol, o.atol = rtol, atol }
}

// WithVacuumTolerance sets the zero threshold of the vacuity check.
func WithVacuumTolerance(tol float64) Option {
	if !validTol(tol) {
		panic(panicToleranceInvalid)
	}

	return func(o *Options) { o.vacuumTol = tol }
}

// WithPSDFloor sets the eigenvalue floor used by FixNonPSD.
func WithPSDFloor(floor float64) Option {
	if !validTol(floor) {
		panic(panicFloorInvalid)
	}

	return func(o *Options) { o.psdFloor = floor }
}

// WithRecorder routes numerical diagnostics to rec.
func WithRecorder(rec *diag.Recorder) Option {
	return func(o *Options) {
		if rec != nil {
			o.recorder = rec
		}
	}
}

// WithLogger routes numerical diagnostics to a fresh Recorder logging via l.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) { o.recorder = diag.NewRecorder(l) }
}

// WithOptions copies every setting of o, so potentials built elsewhere share
// an existing potential's numeric policy. A nil o is ignored.
func WithOptions(o *Options) Option {
	return func(dst *Options) {
		if o != nil {
			*dst = *o
		}
	}
}

// RelTol returns the relative equality tolerance.
func (o *Options) RelTol() float64 { return o.rtol }

// AbsTol returns the absolute equality tolerance.
func (o *Options) AbsTol() float64 { return o.atol }

// Recorder returns the diagnostics sink.
func (o *Options) Recorder() *diag.Recorder { return o.recorder }

func defaultOptions() Options {
	return Options{
		rtol:      DefaultRelTol,
		atol:      DefaultAbsTol,
		vacuumTol: DefaultVacuumTol,
		psdFloor:  DefaultPSDFloor,
		recorder:  diag.Discard(),
	}
}

// gatherOptions resolves opts over the defaults into a shared, read-only value.
func gatherOptions(opts ...Option) *Options {
	o := defaultOptions()
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}

	return &o
}

func validTol(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
