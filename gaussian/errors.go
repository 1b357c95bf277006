// SPDX-License-Identifier: MIT
// Package gaussian: sentinel error set.
// Messages are prefixed with "gaussian: ...". Operations wrap sentinels with an
// operation tag (gaussianErrorf) so callers match them with errors.Is, while the
// message still names the operation and the matrix involved.

package gaussian

import (
	"errors"

	"github.com/katalvlaran/gausspot/factor"
	"github.com/katalvlaran/gausspot/linalg"
)

var (
	// ErrIncompleteParameters is returned when neither parameter triple is fully
	// supplied, e.g. a covariance without a mean.
	ErrIncompleteParameters = errors.New("gaussian: incomplete parameters")

	// ErrConflictingParameters is returned when both moment and canonical
	// parameters are supplied to one constructor.
	ErrConflictingParameters = errors.New("gaussian: both moment and canonical parameters supplied")

	// ErrDimensionMismatch is returned when a matrix or vector does not match the
	// length of the variable scope.
	ErrDimensionMismatch = errors.New("gaussian: dimension mismatch")

	// ErrSingularPrecision is returned when moment form is requested from a
	// precision matrix that cannot be inverted.
	ErrSingularPrecision = errors.New("gaussian: precision matrix is singular")

	// ErrSingularCovariance is returned when canonical form is requested from a
	// covariance matrix that cannot be inverted.
	ErrSingularCovariance = errors.New("gaussian: covariance matrix is singular")

	// ErrSingularMarginal is returned when the precision block of the variables
	// being integrated out is singular: those variables carry no constraint.
	ErrSingularMarginal = errors.New("gaussian: eliminated precision block is singular")

	// ErrVacuous is returned when moment form is requested from a vacuous
	// potential (infinite covariance).
	ErrVacuous = errors.New("gaussian: potential is vacuous")

	// ErrVacuousSample is returned when sampling from a vacuous potential.
	ErrVacuousSample = errors.New("gaussian: cannot sample a vacuous potential")

	// ErrBadSampleSize is returned for non-positive sample counts or sample sets
	// too small to estimate moments.
	ErrBadSampleSize = errors.New("gaussian: invalid sample size")

	// ErrTemplateFormat is returned when a variable template keeps an unresolved
	// placeholder after formatting.
	ErrTemplateFormat = errors.New("gaussian: unresolved template placeholder")
)

// ErrUnknownVariable aliases the shared factor sentinel so errors.Is matches
// either name.
var ErrUnknownVariable = factor.ErrUnknownVariable

// ErrNotPositiveDefinite aliases the linalg sentinel reported by sampling and
// KL divergence when a matrix fails a Cholesky or determinant-sign check.
var ErrNotPositiveDefinite = linalg.ErrNotPositiveDefinite
