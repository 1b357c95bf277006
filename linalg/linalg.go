// SPDX-License-Identifier: MIT
// Package linalg: canonical kernels (inverse, log-determinant, symmetrisation).
//
// Purpose:
//   - Wrap gonum factorizations with a fail-fast numeric policy.
//   - Keep every result freshly allocated; operands are never mutated.
//
// Notes:
//   - gonum reports ill-conditioned inversions as mat.Condition errors while
//     still filling the destination. We treat any such report as ErrSingular:
//     a potential built on a numerically singular inverse is not trustworthy.

package linalg

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Log2Pi is log(2π), the per-dimension constant of the Gaussian normaliser.
var Log2Pi = math.Log(2 * math.Pi)

// Operation name constants for unified error wrapping.
const (
	opInverse    = "Inverse"
	opLogDet2Pi  = "LogDet2Pi"
	opCholesky   = "Cholesky"
	opSymmetrize = "Symmetrize"
	opGather     = "Gather"
	opScatter    = "Scatter"
	opCInverse   = "CInverse"
	opCDet       = "CDet"
	opValidate   = "Validate"
)

// linalgErrorf wraps err with an operation tag, preserving it for errors.Is.
// Use only when err != nil.
func linalgErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// Symmetrize returns (A + Aᵀ)/2 as a fresh SymDense.
// A nil or 0×0 input yields nil (zero-dimensional convention).
//
// Errors:
//   - ErrNonSquare when A is not square.
//
// Complexity: O(n²).
func Symmetrize(a mat.Matrix) (*mat.SymDense, error) {
	if a == nil {
		return nil, nil
	}
	r, c := a.Dims()
	if r != c {
		return nil, linalgErrorf(opSymmetrize, ErrNonSquare)
	}
	if r == 0 {
		return nil, nil
	}
	out := mat.NewSymDense(r, nil)
	for i := 0; i < r; i++ {
		for j := i; j < r; j++ {
			out.SetSym(i, j, 0.5*(a.At(i, j)+a.At(j, i)))
		}
	}

	return out, nil
}

// InverseSym returns the symmetrised inverse of a symmetric matrix.
// Indefinite inputs are allowed (inverse Gaussians carry negative precisions);
// only singularity is rejected.
//
// Errors:
//   - ErrSingular when gonum reports an exactly or numerically singular input.
//
// Complexity: O(n³).
func InverseSym(a *mat.SymDense) (*mat.SymDense, error) {
	if a == nil {
		return nil, nil
	}
	var inv mat.Dense
	if err := inv.Inverse(a); err != nil {
		return nil, linalgErrorf(opInverse, fmt.Errorf("%v: %w", err, ErrSingular))
	}
	// guard against silent NaN propagation from degenerate pivots
	if err := ValidateFinite(&inv); err != nil {
		return nil, linalgErrorf(opInverse, ErrSingular)
	}
	out, _ := Symmetrize(&inv) // square by construction

	return out, nil
}

// LogDetSigned returns log|det A| and the sign of det A (−1, 0 or +1).
// A nil (0×0) matrix has determinant 1.
func LogDetSigned(a *mat.SymDense) (logAbs, sign float64) {
	if a == nil {
		return 0, 1
	}

	return mat.LogDet(a)
}

// LogDet2Pi computes log|2π·A| = n·log(2π) + log|A| for a matrix that must
// have a positive determinant (a covariance or the inverse of a precision
// block). The result for a nil (0×0) matrix is 0.
//
// Errors:
//   - ErrSingular when det A == 0.
//   - ErrNonPositiveDeterminant when det A < 0 (reported, never corrected).
//
// Complexity: O(n³).
func LogDet2Pi(a *mat.SymDense) (float64, error) {
	if a == nil {
		return 0, nil
	}
	n, _ := a.Dims()
	logAbs, sign := mat.LogDet(a)
	switch {
	case sign == 0 || math.IsInf(logAbs, -1):
		return 0, linalgErrorf(opLogDet2Pi, ErrSingular)
	case sign < 0:
		return 0, linalgErrorf(opLogDet2Pi, ErrNonPositiveDeterminant)
	}

	return float64(n)*Log2Pi + logAbs, nil
}

// Cholesky returns the lower-triangular factor L with A = L·Lᵀ.
//
// Errors:
//   - ErrNotPositiveDefinite when the factorisation fails.
func Cholesky(a *mat.SymDense) (*mat.TriDense, error) {
	if a == nil {
		return nil, linalgErrorf(opCholesky, ErrNotPositiveDefinite)
	}
	var chol mat.Cholesky
	if ok := chol.Factorize(a); !ok {
		return nil, linalgErrorf(opCholesky, ErrNotPositiveDefinite)
	}
	var l mat.TriDense
	chol.LTo(&l)

	return &l, nil
}

// IsPosDef reports whether a symmetric matrix is positive definite.
// A nil (0×0) matrix is not considered positive definite.
func IsPosDef(a *mat.SymDense) bool {
	if a == nil {
		return false
	}
	var chol mat.Cholesky

	return chol.Factorize(a)
}

// QuadForm returns xᵀ·A·y. nil operands (zero dimension) yield 0.
func QuadForm(x *mat.VecDense, a *mat.SymDense, y *mat.VecDense) float64 {
	if x == nil || a == nil || y == nil {
		return 0
	}

	return mat.Inner(x, a, y)
}

// MulVec returns A·x as a fresh vector, or nil for zero dimension.
func MulVec(a *mat.Dense, x *mat.VecDense) *mat.VecDense {
	if a == nil || x == nil {
		return nil
	}
	r, _ := a.Dims()
	out := mat.NewVecDense(r, nil)
	out.MulVec(a, x)

	return out
}

// MulSymVec returns A·x for symmetric A, or nil for zero dimension.
func MulSymVec(a *mat.SymDense, x *mat.VecDense) *mat.VecDense {
	if a == nil || x == nil {
		return nil
	}
	r, _ := a.Dims()
	out := mat.NewVecDense(r, nil)
	out.MulVec(a, x)

	return out
}

// Dot returns xᵀ·y, or 0 for zero dimension.
func Dot(x, y *mat.VecDense) float64 {
	if x == nil || y == nil {
		return 0
	}

	return mat.Dot(x, y)
}

// AddVecs returns x + s·y as a fresh vector. Either operand may be nil (zero
// dimension) only when both are nil.
func AddVecs(x *mat.VecDense, s float64, y *mat.VecDense) *mat.VecDense {
	if x == nil || y == nil {
		return nil
	}
	out := mat.NewVecDense(x.Len(), nil)
	out.AddScaledVec(x, s, y)

	return out
}

// AddSyms returns A + s·B as a fresh symmetric matrix, or nil.
func AddSyms(a *mat.SymDense, s float64, b *mat.SymDense) *mat.SymDense {
	if a == nil || b == nil {
		return nil
	}
	n, _ := a.Dims()
	out := mat.NewSymDense(n, nil)
	sb := mat.NewSymDense(n, nil)
	sb.ScaleSym(s, b)
	out.AddSym(a, sb)

	return out
}

// NewVec copies data into a fresh VecDense, or returns nil for empty data.
func NewVec(data []float64) *mat.VecDense {
	if len(data) == 0 {
		return nil
	}
	cp := make([]float64, len(data))
	copy(cp, data)

	return mat.NewVecDense(len(cp), cp)
}

// VecData returns a copy of v's elements; nil yields an empty slice.
func VecData(v *mat.VecDense) []float64 {
	if v == nil {
		return []float64{}
	}
	out := make([]float64, v.Len())
	for i := range out {
		out[i] = v.AtVec(i)
	}

	return out
}

// CloneSym returns a deep copy of a, or nil.
func CloneSym(a *mat.SymDense) *mat.SymDense {
	if a == nil {
		return nil
	}
	n, _ := a.Dims()
	out := mat.NewSymDense(n, nil)
	out.CopySym(a)

	return out
}

// CloneVec returns a deep copy of v, or nil.
func CloneVec(v *mat.VecDense) *mat.VecDense {
	if v == nil {
		return nil
	}
	out := mat.NewVecDense(v.Len(), nil)
	out.CopyVec(v)

	return out
}

// ScaleSym returns f·A as a fresh matrix, or nil.
func ScaleSym(f float64, a *mat.SymDense) *mat.SymDense {
	if a == nil {
		return nil
	}
	n, _ := a.Dims()
	out := mat.NewSymDense(n, nil)
	out.ScaleSym(f, a)

	return out
}

// ScaleVec returns f·v as a fresh vector, or nil.
func ScaleVec(f float64, v *mat.VecDense) *mat.VecDense {
	if v == nil {
		return nil
	}
	out := mat.NewVecDense(v.Len(), nil)
	out.ScaleVec(f, v)

	return out
}
