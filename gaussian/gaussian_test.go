// SPDX-License-Identifier: MIT
package gaussian_test

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/gausspot/gaussian"
	"github.com/katalvlaran/gausspot/linalg"
	"github.com/katalvlaran/gausspot/scope"
)

func TestNew_ParameterValidation(t *testing.T) {
	t.Parallel()

	cov := mat.NewSymDense(1, []float64{1})
	tests := []struct {
		name string
		vars []string
		p    gaussian.Params
		want error
	}{
		{"both triples", []string{"x"}, gaussian.Params{Cov: cov, Mean: []float64{0}, LogWeight: gaussian.Float(0), G: gaussian.Float(0)}, gaussian.ErrConflictingParameters},
		{"missing mean", []string{"x"}, gaussian.Params{Cov: cov, LogWeight: gaussian.Float(0)}, gaussian.ErrIncompleteParameters},
		{"missing g", []string{"x"}, gaussian.Params{K: cov, H: []float64{0}}, gaussian.ErrIncompleteParameters},
		{"nothing", []string{"x"}, gaussian.Params{}, gaussian.ErrIncompleteParameters},
		{"wrong mean length", []string{"x"}, gaussian.Params{Cov: cov, Mean: []float64{0, 1}, LogWeight: gaussian.Float(0)}, gaussian.ErrDimensionMismatch},
		{"wrong matrix size", []string{"x", "y"}, gaussian.Params{K: cov, H: []float64{0, 1}, G: gaussian.Float(0)}, gaussian.ErrDimensionMismatch},
		{"duplicate names", []string{"x", "x"}, gaussian.Params{K: mat.NewSymDense(2, nil), H: []float64{0, 0}, G: gaussian.Float(0)}, scope.ErrDuplicateVariable},
		{"non-finite", []string{"x"}, gaussian.Params{K: cov, H: []float64{math.NaN()}, G: gaussian.Float(0)}, linalg.ErrNaNInf},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := gaussian.New(tc.vars, tc.p)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestNew_EitherTriple(t *testing.T) {
	t.Parallel()

	m, err := gaussian.New([]string{"x"}, gaussian.Params{
		Cov: mat.NewSymDense(1, []float64{2}), Mean: []float64{1}, LogWeight: gaussian.Float(0.5),
	})
	require.NoError(t, err)
	assert.Equal(t, gaussian.FormMoment, m.Form())

	c, err := gaussian.New([]string{"x"}, gaussian.Params{
		K: mat.NewSymDense(1, []float64{0.5}), H: []float64{0.5}, G: gaussian.Float(-1),
	})
	require.NoError(t, err)
	assert.Equal(t, gaussian.FormCanonical, c.Form())

	zero, err := gaussian.New(nil, gaussian.Params{G: gaussian.Float(1.5)})
	require.NoError(t, err)
	assert.Equal(t, 0, zero.Dim())
	assert.True(t, zero.IsVacuous())
}

func TestFormConversion_RoundTrip(t *testing.T) {
	t.Parallel()

	orig := moment2(t, []string{"x", "y"}, []float64{2, 0.5, 0.5, 1}, []float64{1, -1}, 0.3)
	can := canonicalOnly(t, orig)

	cov, err := can.Cov()
	require.NoError(t, err)
	mean, err := can.Mean()
	require.NoError(t, err)
	lw, err := can.LogWeight()
	require.NoError(t, err)

	assert.InDelta(t, 2.0, cov.At(0, 0), 1e-12)
	assert.InDelta(t, 0.5, cov.At(0, 1), 1e-12)
	assert.InDelta(t, 1.0, cov.At(1, 1), 1e-12)
	assert.InDeltaSlice(t, []float64{1, -1}, mean, 1e-12)
	assert.InDelta(t, 0.3, lw, 1e-12)
	assert.Equal(t, gaussian.FormBoth, can.Form())
	assert.True(t, orig.Equals(can))
}

func TestCanonicalOfStandardNormal(t *testing.T) {
	t.Parallel()

	g := scalar(t, "x", 0, 1, 0)
	k, err := g.K()
	require.NoError(t, err)
	h, err := g.H()
	require.NoError(t, err)
	gg, err := g.G()
	require.NoError(t, err)

	assert.InDelta(t, 1.0, k.At(0, 0), 1e-12)
	assert.InDeltaSlice(t, []float64{0}, h, 1e-12)
	assert.InDelta(t, -0.5*math.Log(2*math.Pi), gg, 1e-12)
}

func TestSingularPrecision(t *testing.T) {
	t.Parallel()

	g, err := gaussian.NewCanonical([]string{"x", "y"}, mat.NewSymDense(2, []float64{1, 1, 1, 1}), []float64{0, 0}, 0)
	require.NoError(t, err)
	assert.False(t, g.IsVacuous())
	assert.False(t, g.HasCov())
	_, err = g.Cov()
	assert.ErrorIs(t, err, gaussian.ErrSingularPrecision)
}

func TestSingularCovariance(t *testing.T) {
	t.Parallel()

	g := moment2(t, []string{"x", "y"}, []float64{1, 1, 1, 1}, []float64{0, 0}, 0)
	_, err := g.K()
	assert.ErrorIs(t, err, gaussian.ErrSingularCovariance)
}

func TestVacuous(t *testing.T) {
	t.Parallel()

	v, err := gaussian.Vacuous([]string{"x", "y"}, 0.7)
	require.NoError(t, err)
	assert.True(t, v.IsVacuous())
	assert.False(t, v.HasCov())
	assert.Equal(t, 0.0, v.DistanceFromVacuous())

	_, err = v.Cov()
	assert.ErrorIs(t, err, gaussian.ErrVacuous)
	_, err = v.LogWeight()
	assert.ErrorIs(t, err, gaussian.ErrVacuous)

	lp, err := v.LogPotential([]float64{3, -8})
	require.NoError(t, err)
	assert.InDelta(t, 0.7, lp, 1e-12)

	w, err := gaussian.Vacuous([]string{"y", "x"}, -5)
	require.NoError(t, err)
	assert.True(t, v.Equals(w), "vacuous potentials over the same variables are equal")

	a := scalar(t, "x", 0, 1, 0)
	assert.True(t, math.IsInf(a.DistanceFromVacuous(), 1))
	assert.False(t, a.Equals(v))
}

func TestVacuumTolerance(t *testing.T) {
	t.Parallel()

	tiny := mat.NewSymDense(1, []float64{1e-9})
	g, err := gaussian.NewCanonical([]string{"x"}, tiny, []float64{0}, 0)
	require.NoError(t, err)
	assert.True(t, g.IsVacuous())

	strict, err := gaussian.NewCanonical([]string{"x"}, tiny, []float64{0}, 0, gaussian.WithVacuumTolerance(1e-12))
	require.NoError(t, err)
	assert.False(t, strict.IsVacuous())
}

func TestReorder(t *testing.T) {
	t.Parallel()

	g := moment2(t, []string{"x", "y"}, []float64{2, 0.5, 0.5, 1}, []float64{1, 2}, 0)
	r, err := g.Reorder([]string{"y", "x"})
	require.NoError(t, err)
	assert.Equal(t, []string{"y", "x"}, r.Vars())

	cov, err := r.Cov()
	require.NoError(t, err)
	mean, err := r.Mean()
	require.NoError(t, err)
	assert.Equal(t, 1.0, cov.At(0, 0))
	assert.Equal(t, 2.0, cov.At(1, 1))
	assert.Equal(t, 0.5, cov.At(0, 1))
	assert.Equal(t, []float64{2, 1}, mean)
	assert.True(t, g.Equals(r))

	_, err = g.Reorder([]string{"x"})
	assert.ErrorIs(t, err, scope.ErrNotPermutation)
}

func TestEquals(t *testing.T) {
	t.Parallel()

	a := scalar(t, "x", 0, 1, 0)
	assert.True(t, a.Equals(scalar(t, "x", 1e-7, 1, 0)))
	assert.False(t, a.Equals(scalar(t, "x", 0.1, 1, 0)))
	assert.False(t, a.Equals(scalar(t, "y", 0, 1, 0)))
	assert.False(t, a.Equals(nil))
	assert.True(t, a.Equals(scalar(t, "x", 0.01, 1, 0), gaussian.WithEqualTolerance(0, 0.1)))
}

func TestAccessorsReturnCopies(t *testing.T) {
	t.Parallel()

	g := moment2(t, []string{"x", "y"}, []float64{2, 0, 0, 3}, []float64{1, 2}, 0)
	cov, err := g.Cov()
	require.NoError(t, err)
	cov.SetSym(0, 0, 100)
	mean, err := g.Mean()
	require.NoError(t, err)
	mean[0] = 100

	again, err := g.Cov()
	require.NoError(t, err)
	assert.Equal(t, 2.0, again.At(0, 0))
	m2, err := g.Mean()
	require.NoError(t, err)
	assert.Equal(t, 1.0, m2[0])
}

func TestConcurrentFormCaching(t *testing.T) {
	t.Parallel()

	g := moment2(t, []string{"x", "y"}, []float64{2, 0.3, 0.3, 1}, []float64{1, 2}, 0)
	twin := moment2(t, []string{"x", "y"}, []float64{2, 0.3, 0.3, 1}, []float64{1, 2}, 0)
	want, err := twin.K()
	require.NoError(t, err)
	require.Equal(t, gaussian.FormMoment, g.Form())

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			k, err := g.K()
			assert.NoError(t, err)
			assert.True(t, mat.EqualApprox(k, want, 1e-12))
		}()
	}
	wg.Wait()
	assert.Equal(t, gaussian.FormBoth, g.Form())
}

func TestString(t *testing.T) {
	t.Parallel()

	s := scalar(t, "x", 0, 1, 0).String()
	assert.Contains(t, s, "Gaussian[x]")
	assert.Contains(t, s, "mean = [0]")

	v, err := gaussian.Vacuous([]string{"x"}, 0)
	require.NoError(t, err)
	assert.Contains(t, v.String(), "vacuous")
	assert.Equal(t, "moment", gaussian.FormMoment.String())
}

func TestOptions_PanicOnInvalid(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { gaussian.WithTolerance(-1, 0) })
	assert.Panics(t, func() { gaussian.WithVacuumTolerance(math.NaN()) })
	assert.Panics(t, func() { gaussian.WithPSDFloor(math.Inf(1)) })
	assert.NotPanics(t, func() { gaussian.WithTolerance(0, 0) })
}
