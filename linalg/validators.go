// SPDX-License-Identifier: MIT
// Package linalg: single source of truth for shape and finiteness checks.
//
// Validators return wrapped sentinels so call sites can re-wrap uniformly with
// their own operation tag. All checks are pure and allocate nothing.

package linalg

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ValidateSquareDim checks that m is an n×n matrix.
//
// Errors: ErrNonSquare if rows != cols, ErrDimensionMismatch if rows != n.
// Complexity: O(1).
func ValidateSquareDim(m mat.Matrix, n int) error {
	r, c := m.Dims()
	if r != c {
		return linalgErrorf(opValidate, fmt.Errorf("%dx%d: %w", r, c, ErrNonSquare))
	}
	if r != n {
		return linalgErrorf(opValidate, fmt.Errorf("got %dx%d, want %dx%d: %w", r, c, n, n, ErrDimensionMismatch))
	}

	return nil
}

// ValidateVecLen checks that len(x) == n.
func ValidateVecLen(x []float64, n int) error {
	if len(x) != n {
		return linalgErrorf(opValidate, fmt.Errorf("len %d, want %d: %w", len(x), n, ErrDimensionMismatch))
	}

	return nil
}

// ValidateFinite rejects NaN and ±Inf entries.
// Complexity: O(r*c).
func ValidateFinite(m mat.Matrix) error {
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if v := m.At(i, j); math.IsNaN(v) || math.IsInf(v, 0) {
				return linalgErrorf(opValidate, fmt.Errorf("at (%d,%d): %w", i, j, ErrNaNInf))
			}
		}
	}

	return nil
}

// ValidateFiniteSlice rejects NaN and ±Inf entries in x.
func ValidateFiniteSlice(x []float64) error {
	for i, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return linalgErrorf(opValidate, fmt.Errorf("at %d: %w", i, ErrNaNInf))
		}
	}

	return nil
}

// ValidateSymmetric checks |A[i,j] − A[j,i]| <= tol on the upper triangle.
// Assumes A is square.
func ValidateSymmetric(m mat.Matrix, tol float64) error {
	r, _ := m.Dims()
	for i := 0; i < r; i++ {
		for j := i + 1; j < r; j++ {
			if math.Abs(m.At(i, j)-m.At(j, i)) > tol*math.Max(1, math.Abs(m.At(i, j))) {
				return linalgErrorf(opValidate, fmt.Errorf("at (%d,%d): %w", i, j, ErrAsymmetry))
			}
		}
	}

	return nil
}
