// SPDX-License-Identifier: MIT

// Package diag records non-fatal numerical diagnostics.
//
// Some conditions in Gaussian algebra are worth surfacing but must not abort
// the computation: a repaired non-PSD matrix, an imaginary remainder left after
// complex moment matching, an inverted precision that is not positive
// definite, or an optimiser start that failed to converge. A Recorder logs
// each event through zap and counts it in prometheus counters held on a
// private registry, so embedding applications can expose them next to their
// own metrics:
//
//	rec := diag.NewRecorder(logger)
//	registry.MustRegister(rec.Collectors()...)
//
// A Recorder is safe for concurrent use.
package diag
