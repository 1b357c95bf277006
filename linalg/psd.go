// SPDX-License-Identifier: MIT

package linalg

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

const opNearestPSD = "NearestPSD"

// NearestPSD returns the symmetric matrix closest to A (Frobenius norm) whose
// eigenvalues are all >= floor. With floor == 0 this is the classic
// nearest positive-semidefinite projection; a small positive floor yields a
// positive-definite result that survives inversion.
//
// Implementation:
//   - Stage 1: symmetrise A.
//   - Stage 2: eigendecompose A = V·diag(λ)·Vᵀ.
//   - Stage 3: clip λ to max(λ, floor) and reassemble.
//
// Errors:
//   - ErrNonSquare from symmetrisation.
//   - ErrNotPositiveDefinite when the eigendecomposition fails to converge.
//
// Complexity: O(n³).
func NearestPSD(a mat.Matrix, floor float64) (*mat.SymDense, error) {
	if floor < 0 || math.IsNaN(floor) {
		floor = 0
	}
	sym, err := Symmetrize(a)
	if err != nil || sym == nil {
		return sym, err
	}
	var es mat.EigenSym
	if ok := es.Factorize(sym, true); !ok {
		return nil, linalgErrorf(opNearestPSD, fmt.Errorf("eigendecomposition failed: %w", ErrNotPositiveDefinite))
	}
	vals := es.Values(nil)
	var vecs mat.Dense
	es.VectorsTo(&vecs)

	n := len(vals)
	for i := range vals {
		vals[i] = math.Max(vals[i], floor)
	}
	// V·diag(λ)
	scaled := mat.NewDense(n, n, nil)
	scaled.Apply(func(_, j int, v float64) float64 { return v * vals[j] }, &vecs)
	var out mat.Dense
	out.Mul(scaled, vecs.T())

	return Symmetrize(&out)
}
