// SPDX-License-Identifier: MIT
package linalg_test

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/gausspot/linalg"
)

const tol = 1e-9

func TestInverseSym_RoundTrip(t *testing.T) {
	t.Parallel()

	a := mat.NewSymDense(3, []float64{
		4, 1, 0,
		1, 3, 0.5,
		0, 0.5, 2,
	})
	inv, err := linalg.InverseSym(a)
	require.NoError(t, err)

	var prod mat.Dense
	prod.Mul(a, inv)
	assert.True(t, mat.EqualApprox(&prod, eye(3), 1e-12), "A·A⁻¹ must be identity")
}

func TestInverseSym_IndefiniteAllowed(t *testing.T) {
	t.Parallel()

	a := mat.NewSymDense(2, []float64{-2, 0, 0, 1})
	inv, err := linalg.InverseSym(a)
	require.NoError(t, err)
	assert.InDelta(t, -0.5, inv.At(0, 0), tol)
	assert.InDelta(t, 1.0, inv.At(1, 1), tol)
}

func TestInverseSym_Singular(t *testing.T) {
	t.Parallel()

	a := mat.NewSymDense(2, []float64{1, 1, 1, 1})
	_, err := linalg.InverseSym(a)
	assert.ErrorIs(t, err, linalg.ErrSingular)

	zero := mat.NewSymDense(2, nil)
	_, err = linalg.InverseSym(zero)
	assert.ErrorIs(t, err, linalg.ErrSingular)
}

func TestInverseSym_NilIsZeroDimensional(t *testing.T) {
	t.Parallel()

	inv, err := linalg.InverseSym(nil)
	require.NoError(t, err)
	assert.Nil(t, inv)
}

func TestLogDet2Pi(t *testing.T) {
	t.Parallel()

	a := mat.NewSymDense(2, []float64{4, 0, 0, 9})
	got, err := linalg.LogDet2Pi(a)
	require.NoError(t, err)
	want := math.Log(2*math.Pi*4) + math.Log(2*math.Pi*9)
	assert.InDelta(t, want, got, tol)

	neg := mat.NewSymDense(2, []float64{-1, 0, 0, 1})
	_, err = linalg.LogDet2Pi(neg)
	assert.ErrorIs(t, err, linalg.ErrNonPositiveDeterminant)

	sing := mat.NewSymDense(2, []float64{1, 0, 0, 0})
	_, err = linalg.LogDet2Pi(sing)
	assert.ErrorIs(t, err, linalg.ErrSingular)

	zero, err := linalg.LogDet2Pi(nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, zero)
}

func TestCholeskyAndIsPosDef(t *testing.T) {
	t.Parallel()

	pd := mat.NewSymDense(2, []float64{4, 2, 2, 3})
	l, err := linalg.Cholesky(pd)
	require.NoError(t, err)
	var llt mat.Dense
	llt.Mul(l, l.T())
	assert.True(t, mat.EqualApprox(&llt, pd, 1e-12))
	assert.True(t, linalg.IsPosDef(pd))

	indef := mat.NewSymDense(2, []float64{1, 2, 2, 1})
	_, err = linalg.Cholesky(indef)
	assert.ErrorIs(t, err, linalg.ErrNotPositiveDefinite)
	assert.False(t, linalg.IsPosDef(indef))
	assert.False(t, linalg.IsPosDef(nil))
}

func TestNearestPSD(t *testing.T) {
	t.Parallel()

	// eigenvalues 3 and -1
	indef := mat.NewSymDense(2, []float64{1, 2, 2, 1})
	fixed, err := linalg.NearestPSD(indef, 1e-6)
	require.NoError(t, err)
	assert.True(t, linalg.IsPosDef(fixed))

	// projection of [[1,2],[2,1]] with floor 0 is 1.5·[[1,1],[1,1]]
	proj, err := linalg.NearestPSD(indef, 0)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, proj.At(0, 0), 1e-9)
	assert.InDelta(t, 1.5, proj.At(0, 1), 1e-9)

	// an already PD matrix is unchanged
	pd := mat.NewSymDense(2, []float64{2, 0.5, 0.5, 1})
	same, err := linalg.NearestPSD(pd, 0)
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(same, pd, 1e-12))
}

func TestGatherScatter(t *testing.T) {
	t.Parallel()

	a := mat.NewSymDense(3, []float64{
		1, 2, 3,
		2, 4, 5,
		3, 5, 6,
	})
	sub, err := linalg.GatherSym(a, []int{2, 0})
	require.NoError(t, err)
	assert.Equal(t, 6.0, sub.At(0, 0))
	assert.Equal(t, 3.0, sub.At(0, 1))
	assert.Equal(t, 1.0, sub.At(1, 1))

	back, err := linalg.ScatterSym(sub, []int{2, 0}, 3)
	require.NoError(t, err)
	assert.Equal(t, 6.0, back.At(2, 2))
	assert.Equal(t, 3.0, back.At(0, 2))
	assert.Equal(t, 0.0, back.At(1, 1), "untouched positions stay zero")

	cross, err := linalg.Gather(a, []int{0}, []int{1, 2})
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 3}, cross.RawRowView(0))

	v := mat.NewVecDense(3, []float64{7, 8, 9})
	gv, err := linalg.GatherVec(v, []int{1})
	require.NoError(t, err)
	assert.Equal(t, 8.0, gv.AtVec(0))
	sv, err := linalg.ScatterVec(gv, []int{2}, 4)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 8, 0}, linalg.VecData(sv))

	_, err = linalg.GatherSym(a, []int{3})
	assert.ErrorIs(t, err, linalg.ErrIndexOutOfRange)

	empty, err := linalg.GatherSym(a, nil)
	require.NoError(t, err)
	assert.Nil(t, empty)
}

func TestIsCloseAndZero(t *testing.T) {
	t.Parallel()

	assert.True(t, linalg.IsClose(1.0, 1.0+1e-7, 1e-5, 1e-5))
	assert.False(t, linalg.IsClose(1.0, 1.1, 1e-5, 1e-5))
	assert.False(t, linalg.IsClose(math.NaN(), math.NaN(), 1, 1))
	assert.True(t, linalg.IsZero(mat.NewSymDense(2, nil), 1e-8))
	assert.False(t, linalg.IsZero(mat.NewSymDense(2, []float64{0, 1e-3, 1e-3, 0}), 1e-8))
	assert.True(t, linalg.AllCloseSym(nil, nil, 0, 0))
	assert.False(t, linalg.AllCloseVec(nil, mat.NewVecDense(1, nil), 0, 0))
}

func TestValidators(t *testing.T) {
	t.Parallel()

	assert.ErrorIs(t, linalg.ValidateSquareDim(mat.NewDense(2, 3, nil), 2), linalg.ErrNonSquare)
	assert.ErrorIs(t, linalg.ValidateSquareDim(mat.NewDense(3, 3, nil), 2), linalg.ErrDimensionMismatch)
	assert.NoError(t, linalg.ValidateSquareDim(mat.NewDense(2, 2, nil), 2))
	assert.ErrorIs(t, linalg.ValidateVecLen([]float64{1}, 2), linalg.ErrDimensionMismatch)
	assert.ErrorIs(t, linalg.ValidateFiniteSlice([]float64{1, math.Inf(1)}), linalg.ErrNaNInf)
	assert.ErrorIs(t, linalg.ValidateFinite(mat.NewDense(1, 1, []float64{math.NaN()})), linalg.ErrNaNInf)
	assert.ErrorIs(t, linalg.ValidateSymmetric(mat.NewDense(2, 2, []float64{1, 2, 3, 1}), 1e-9), linalg.ErrAsymmetry)
}

func TestComplexLU(t *testing.T) {
	t.Parallel()

	a := mat.NewCDense(2, 2, []complex128{
		0, 2 + 1i,
		1, 3,
	})
	det, err := linalg.CDet(a)
	require.NoError(t, err)
	// 0·3 − (2+i)·1
	assert.InDelta(t, 0, cmplx.Abs(det-(-2-1i)), 1e-12)

	inv, err := linalg.CInverse(a)
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			var sum complex128
			for k := 0; k < 2; k++ {
				sum += a.At(i, k) * inv.At(k, j)
			}
			want := complex(0, 0)
			if i == j {
				want = 1
			}
			assert.InDelta(t, 0, cmplx.Abs(sum-want), 1e-12, "(A·A⁻¹)[%d,%d]", i, j)
		}
	}

	sing := mat.NewCDense(2, 2, []complex128{1, 2, 2, 4})
	_, err = linalg.CInverse(sing)
	assert.ErrorIs(t, err, linalg.ErrSingular)
	d, err := linalg.CDet(sing)
	require.NoError(t, err)
	assert.Equal(t, complex(0, 0), d)

	re, maxImag := linalg.RealPart(a)
	assert.Equal(t, 2.0, re.At(0, 1))
	assert.Equal(t, 1.0, maxImag)
}

func eye(n int) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}

	return m
}
