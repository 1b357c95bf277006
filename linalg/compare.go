// SPDX-License-Identifier: MIT

package linalg

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// IsClose reports |a − b| <= atol + rtol·|b| (numpy isclose, NaN never equal).
func IsClose(a, b, rtol, atol float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return false
	}
	if a == b {
		return true
	}

	return math.Abs(a-b) <= atol+rtol*math.Abs(b)
}

// AllClose applies IsClose elementwise. Shapes must match; nil equals nil
// (both zero-dimensional).
func AllClose(a, b mat.Matrix, rtol, atol float64) bool {
	ra, ca := a.Dims()
	rb, cb := b.Dims()
	if ra != rb || ca != cb {
		return false
	}
	for i := 0; i < ra; i++ {
		for j := 0; j < ca; j++ {
			if !IsClose(a.At(i, j), b.At(i, j), rtol, atol) {
				return false
			}
		}
	}

	return true
}

// AllCloseSym is AllClose for possibly-nil symmetric matrices.
func AllCloseSym(a, b *mat.SymDense, rtol, atol float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	return AllClose(a, b, rtol, atol)
}

// AllCloseVec is AllClose for possibly-nil vectors.
func AllCloseVec(a, b *mat.VecDense, rtol, atol float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	return AllClose(a, b, rtol, atol)
}

// IsZero reports whether every entry of A is within atol of zero.
// A nil matrix is zero.
func IsZero(a *mat.SymDense, atol float64) bool {
	if a == nil {
		return true
	}
	n, _ := a.Dims()
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			if math.Abs(a.At(i, j)) > atol {
				return false
			}
		}
	}

	return true
}
