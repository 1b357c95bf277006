// SPDX-License-Identifier: MIT

package diag

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Diagnostic kinds. Used as the "kind" label and log field.
const (
	KindNonPSD              = "non_psd"
	KindImaginaryRemainder  = "imaginary_remainder"
	KindNonPositiveDefinite = "non_positive_definite"
	KindNegativeDivergence  = "negative_divergence"
	KindNoModes             = "no_modes"
)

// Optimisation outcomes. Used as the "status" label.
const (
	StatusConverged = "converged"
	StatusFailed    = "failed"
)

// Recorder logs and counts numerical diagnostics.
type Recorder struct {
	logger        *zap.Logger
	warnings      *prometheus.CounterVec
	optimizations *prometheus.CounterVec
	registry      *prometheus.Registry
}

// NewRecorder creates a Recorder that logs through logger (nil means no logging)
// and counts into a fresh private registry.
func NewRecorder(logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	registry := prometheus.NewRegistry()

	warnings := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gausspot_numeric_warnings_total",
			Help: "Non-fatal numerical warnings by operation and kind",
		},
		[]string{"operation", "kind"},
	)
	optimizations := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gausspot_optimizations_total",
			Help: "Optimiser starts by operation and outcome",
		},
		[]string{"operation", "status"},
	)
	registry.MustRegister(warnings)
	registry.MustRegister(optimizations)

	return &Recorder{
		logger:        logger.Named("gausspot"),
		warnings:      warnings,
		optimizations: optimizations,
		registry:      registry,
	}
}

var discard = NewRecorder(nil)

// Discard returns a shared Recorder that drops log output. Its counters still
// work, which keeps call sites free of nil checks.
func Discard() *Recorder { return discard }

// Warn records a non-fatal numerical condition.
func (r *Recorder) Warn(operation, kind string, fields ...zap.Field) {
	r.warnings.WithLabelValues(operation, kind).Inc()
	r.logger.Warn("numerical warning",
		append([]zap.Field{zap.String("operation", operation), zap.String("kind", kind)}, fields...)...)
}

// Optimization records the outcome of one optimiser start.
func (r *Recorder) Optimization(operation string, converged bool, fields ...zap.Field) {
	status := StatusConverged
	if !converged {
		status = StatusFailed
	}
	r.optimizations.WithLabelValues(operation, status).Inc()
	if !converged {
		r.logger.Debug("optimizer start did not converge",
			append([]zap.Field{zap.String("operation", operation)}, fields...)...)
	}
}

// Logger returns the underlying logger.
func (r *Recorder) Logger() *zap.Logger { return r.logger }

// Registry returns the private registry holding the counters.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Collectors returns the counters for registration on an external registry.
func (r *Recorder) Collectors() []prometheus.Collector {
	return []prometheus.Collector{r.warnings, r.optimizations}
}

// WarningCount returns the current count for (operation, kind). Intended for tests
// and health summaries.
func (r *Recorder) WarningCount(operation, kind string) float64 {
	return counterValue(r.warnings.WithLabelValues(operation, kind))
}
