// SPDX-License-Identifier: MIT
// Package linalg: sentinel error set.
// Every message is prefixed with "linalg: ..." for consistent grepping. Kernels
// wrap these with an operation tag via linalgErrorf; callers match via errors.Is.

package linalg

import "errors"

var (
	// ErrDimensionMismatch indicates incompatible operand shapes.
	ErrDimensionMismatch = errors.New("linalg: dimension mismatch")

	// ErrNonSquare signals that a square matrix was required.
	ErrNonSquare = errors.New("linalg: matrix is not square")

	// ErrAsymmetry signals a matrix that should be symmetric is not, within tolerance.
	ErrAsymmetry = errors.New("linalg: matrix is not symmetric within tolerance")

	// ErrNaNInf signals a NaN or ±Inf entry where finite values are required.
	ErrNaNInf = errors.New("linalg: NaN or Inf encountered")

	// ErrSingular is returned when an inverse is required but the matrix is
	// exactly or numerically singular.
	ErrSingular = errors.New("linalg: singular matrix")

	// ErrNonPositiveDeterminant is returned when a log-determinant of a matrix
	// that must be positive definite has a negative sign.
	ErrNonPositiveDeterminant = errors.New("linalg: determinant is not positive")

	// ErrNotPositiveDefinite is returned when a Cholesky factorisation fails.
	ErrNotPositiveDefinite = errors.New("linalg: matrix is not positive definite")

	// ErrIndexOutOfRange indicates a gather/scatter index outside the target.
	ErrIndexOutOfRange = errors.New("linalg: index out of range")
)
