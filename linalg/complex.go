// SPDX-License-Identifier: MIT
// Package linalg: complex LU for moment matching of inverse Gaussian mixtures.
//
// Purpose:
//   - gonum's CDense carries storage but no factorizations. The complex
//     moment-matching quotient needs an inverse and a determinant of small
//     complex covariance matrices; nothing else in the module uses complex
//     arithmetic, so the kernels stay here and never leak into potentials.
//
// Algorithm:
//   - Doolittle LU with partial (row) pivoting, PA = LU.
//   - det A = (−1)^swaps · Π U[i,i].
//   - A⁻¹ column by column: forward-substitute L·y = P·eᵢ, back-substitute U·x = y.

package linalg

import (
	"fmt"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
)

// cZeroPivot is the magnitude below which a complex pivot is treated as zero.
const cZeroPivot = 1e-300

// cLU is a packed complex LU factorization with its row permutation.
type cLU struct {
	n     int
	lu    []complex128 // row-major, unit-diagonal L below, U on and above
	perm  []int        // perm[i] = original row now at i
	swaps int
}

func factorizeComplex(a *mat.CDense) (*cLU, error) {
	r, c := a.Dims()
	if r != c {
		return nil, ErrNonSquare
	}
	n := r
	f := &cLU{n: n, lu: make([]complex128, n*n), perm: make([]int, n)}
	for i := 0; i < n; i++ {
		f.perm[i] = i
		for j := 0; j < n; j++ {
			f.lu[i*n+j] = a.At(i, j)
		}
	}

	for k := 0; k < n; k++ {
		// choose the largest pivot in column k
		p := k
		for i := k + 1; i < n; i++ {
			if cmplx.Abs(f.lu[i*n+k]) > cmplx.Abs(f.lu[p*n+k]) {
				p = i
			}
		}
		if cmplx.Abs(f.lu[p*n+k]) < cZeroPivot {
			return nil, fmt.Errorf("zero pivot at %d: %w", k, ErrSingular)
		}
		if p != k {
			for j := 0; j < n; j++ {
				f.lu[k*n+j], f.lu[p*n+j] = f.lu[p*n+j], f.lu[k*n+j]
			}
			f.perm[k], f.perm[p] = f.perm[p], f.perm[k]
			f.swaps++
		}
		pivot := f.lu[k*n+k]
		for i := k + 1; i < n; i++ {
			f.lu[i*n+k] /= pivot
			l := f.lu[i*n+k]
			for j := k + 1; j < n; j++ {
				f.lu[i*n+j] -= l * f.lu[k*n+j]
			}
		}
	}

	return f, nil
}

// CDet returns the determinant of a square complex matrix.
// A singular matrix yields 0 without error.
func CDet(a *mat.CDense) (complex128, error) {
	f, err := factorizeComplex(a)
	if err != nil {
		if r, c := a.Dims(); r != c {
			return 0, linalgErrorf(opCDet, err)
		}

		return 0, nil
	}
	det := complex(1, 0)
	for i := 0; i < f.n; i++ {
		det *= f.lu[i*f.n+i]
	}
	if f.swaps%2 == 1 {
		det = -det
	}

	return det, nil
}

// CInverse returns A⁻¹ for a square complex matrix.
//
// Errors:
//   - ErrNonSquare for non-square input.
//   - ErrSingular when a pivot vanishes.
//
// Complexity: O(n³).
func CInverse(a *mat.CDense) (*mat.CDense, error) {
	f, err := factorizeComplex(a)
	if err != nil {
		return nil, linalgErrorf(opCInverse, err)
	}
	n := f.n
	inv := mat.NewCDense(n, n, nil)
	y := make([]complex128, n)
	x := make([]complex128, n)
	for col := 0; col < n; col++ {
		// forward substitution: L·y = P·e_col
		for i := 0; i < n; i++ {
			var sum complex128
			for k := 0; k < i; k++ {
				sum += f.lu[i*n+k] * y[k]
			}
			var e complex128
			if f.perm[i] == col {
				e = 1
			}
			y[i] = e - sum
		}
		// back substitution: U·x = y
		for i := n - 1; i >= 0; i-- {
			var sum complex128
			for k := i + 1; k < n; k++ {
				sum += f.lu[i*n+k] * x[k]
			}
			x[i] = (y[i] - sum) / f.lu[i*n+i]
		}
		for i := 0; i < n; i++ {
			inv.Set(i, col, x[i])
		}
	}

	return inv, nil
}

// CMulVec returns A·x for a complex matrix and vector.
func CMulVec(a *mat.CDense, x []complex128) []complex128 {
	r, c := a.Dims()
	out := make([]complex128, r)
	for i := 0; i < r; i++ {
		var sum complex128
		for j := 0; j < c; j++ {
			sum += a.At(i, j) * x[j]
		}
		out[i] = sum
	}

	return out
}

// CDot returns xᵀ·y without conjugation (a bilinear form, as needed by the
// Gaussian exponent μᵀKμ).
func CDot(x, y []complex128) complex128 {
	var sum complex128
	for i := range x {
		sum += x[i] * y[i]
	}

	return sum
}

// ToComplex lifts a real symmetric matrix into a fresh CDense.
func ToComplex(a *mat.SymDense) *mat.CDense {
	n, _ := a.Dims()
	out := mat.NewCDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			out.Set(i, j, complex(a.At(i, j), 0))
		}
	}

	return out
}

// RealPart splits a complex matrix into its real part and the largest
// absolute imaginary component, so callers can validate the remainder.
func RealPart(a *mat.CDense) (*mat.Dense, float64) {
	r, c := a.Dims()
	out := mat.NewDense(r, c, nil)
	var maxImag float64
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := a.At(i, j)
			out.Set(i, j, real(v))
			if im := imagAbs(v); im > maxImag {
				maxImag = im
			}
		}
	}

	return out, maxImag
}

// RealPartVec is RealPart for vectors.
func RealPartVec(x []complex128) ([]float64, float64) {
	out := make([]float64, len(x))
	var maxImag float64
	for i, v := range x {
		out[i] = real(v)
		if im := imagAbs(v); im > maxImag {
			maxImag = im
		}
	}

	return out, maxImag
}

func imagAbs(v complex128) float64 {
	if im := imag(v); im < 0 {
		return -im
	}

	return imag(v)
}
