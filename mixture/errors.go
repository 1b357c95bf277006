// SPDX-License-Identifier: MIT
// Package mixture: sentinel error set.
// Messages are prefixed with "mixture: ...". Component-level failures are
// returned wrapped, so gaussian sentinels stay matchable with errors.Is.

package mixture

import "errors"

var (
	// ErrEmptyMixture is returned when a mixture is built from no components.
	ErrEmptyMixture = errors.New("mixture: no components")

	// ErrScopeMismatch is returned when components (or operands) do not share
	// one variable-name set.
	ErrScopeMismatch = errors.New("mixture: components disagree on variables")

	// ErrOptimizationFailed is returned when every start of a multi-start
	// search fails to converge.
	ErrOptimizationFailed = errors.New("mixture: optimisation failed from every start")

	// ErrNoModes is returned by mode-finding division when no mode with a
	// positive definite curvature is found.
	ErrNoModes = errors.New("mixture: quotient has no usable modes")

	// ErrNotOneDimensional is returned by Split for multivariate input.
	ErrNotOneDimensional = errors.New("mixture: gaussian must be one-dimensional")

	// ErrUnknownStrategy is returned by ParseStrategy for unrecognised names.
	ErrUnknownStrategy = errors.New("mixture: unknown division strategy")

	// ErrBadSampleSize is returned for non-positive sample counts.
	ErrBadSampleSize = errors.New("mixture: invalid sample size")
)
