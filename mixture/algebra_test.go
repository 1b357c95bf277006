// SPDX-License-Identifier: MIT
package mixture_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/gausspot/factor"
	"github.com/katalvlaran/gausspot/gaussian"
	"github.com/katalvlaran/gausspot/mixture"
)

func TestDivideByGaussian_RoundTrip(t *testing.T) {
	t.Parallel()

	m := bimodal(t)
	g := scalar(t, 2, 4, 1)
	q, err := m.Divide(g)
	require.NoError(t, err)
	back, err := q.Multiply(g)
	require.NoError(t, err)
	back, err = back.Normalize()
	require.NoError(t, err)

	for _, x := range []float64{0, 2.5, 5} {
		assert.InEpsilon(t, potentialAt(t, m, x), potentialAt(t, back, x), 1e-6, "x=%v", x)
	}
}

func TestMultiplyMixture_ComponentCount(t *testing.T) {
	t.Parallel()

	a := bimodal(t)
	b := wideBimodal(t)
	ab, err := a.MultiplyMixture(b)
	require.NoError(t, err)
	assert.Equal(t, 4, ab.Len())

	for _, x := range []float64{-1, 2, 6} {
		assert.InEpsilon(t, potentialAt(t, a, x)*potentialAt(t, b, x), potentialAt(t, ab, x), 1e-9)
	}
}

func TestDivideMixture_SingleComponentIsExact(t *testing.T) {
	t.Parallel()

	for _, s := range []mixture.Strategy{mixture.MomentMatch, mixture.ModeFinding, mixture.ComplexMomentMatch} {
		m := bimodal(t, mixture.WithDivision(s))
		g := scalar(t, 2, 4, 1)
		want, err := m.Divide(g)
		require.NoError(t, err)
		got, err := m.DivideMixture(mix(t, nil, g))
		require.NoError(t, err)
		assert.True(t, want.Equals(got), s.String())
	}
}

func TestDivideMixture_Strategies(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		strategy mixture.Strategy
	}{
		{"moment match", mixture.MomentMatch},
		{"mode finding", mixture.ModeFinding},
		{"complex moment match", mixture.ComplexMomentMatch},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			num := bimodal(t, mixture.WithDivision(tc.strategy))
			den := wideBimodal(t)
			q, err := num.DivideMixture(den)
			require.NoError(t, err)

			// the true quotient peaks near 0 and 5 and dips between them
			q0, mid, q5 := potentialAt(t, q, 0), potentialAt(t, q, 2.5), potentialAt(t, q, 5)
			assert.Greater(t, q0, mid)
			assert.Greater(t, q5, mid)

			// multiplying the denominator back approximately restores the numerator
			back, err := q.MultiplyMixture(den)
			require.NoError(t, err)
			back, err = back.Normalize()
			require.NoError(t, err)
			for _, x := range []float64{0, 5} {
				assert.InEpsilon(t, potentialAt(t, num, x), potentialAt(t, back, x), 0.3, "x=%v", x)
			}
		})
	}
}

func TestDivideMixture_ModeFindingFindsBothModes(t *testing.T) {
	t.Parallel()

	num := bimodal(t, mixture.WithDivision(mixture.ModeFinding))
	q, err := num.DivideMixture(wideBimodal(t))
	require.NoError(t, err)
	require.Equal(t, 2, q.Len())

	var near0, near5 bool
	for _, c := range q.Components() {
		mean, err := c.Mean()
		require.NoError(t, err)
		near0 = near0 || math.Abs(mean[0]) < 0.5
		near5 = near5 || math.Abs(mean[0]-5) < 0.5
	}
	assert.True(t, near0)
	assert.True(t, near5)
}

func TestDivideMixture_ScopeMismatch(t *testing.T) {
	t.Parallel()

	y1, err := gaussian.NewScalar("y", 0, 4, 0)
	require.NoError(t, err)
	y2, err := gaussian.NewScalar("y", 3, 4, 0)
	require.NoError(t, err)
	den := mix(t, nil, y1, y2)

	for _, s := range []mixture.Strategy{mixture.ModeFinding, mixture.ComplexMomentMatch} {
		_, err := bimodal(t, mixture.WithDivision(s)).DivideMixture(den)
		assert.ErrorIs(t, err, mixture.ErrScopeMismatch, s.String())
	}
}

func TestMomentMatch(t *testing.T) {
	t.Parallel()

	g, err := bimodal(t).MomentMatch()
	require.NoError(t, err)
	mean, err := g.Mean()
	require.NoError(t, err)
	cov, err := g.Cov()
	require.NoError(t, err)
	lw, err := g.LogWeight()
	require.NoError(t, err)

	assert.InDelta(t, 2.5, mean[0], 1e-12)
	// within-component 1 plus between-component 2.5²
	assert.InDelta(t, 7.25, cov.At(0, 0), 1e-12)
	assert.InDelta(t, 0, lw, 1e-12)
}

func TestSplit_PreservesMoments(t *testing.T) {
	t.Parallel()

	g, err := gaussian.NewScalar("x", 1, 4, 0.3)
	require.NoError(t, err)
	m, err := mixture.Split(g)
	require.NoError(t, err)
	require.Equal(t, 3, m.Len())

	want := []float64{-1, 1, 3}
	for i, c := range m.Components() {
		mean, err := c.Mean()
		require.NoError(t, err)
		assert.InDelta(t, want[i], mean[0], 1e-12)
	}
	mm, err := m.MomentMatch()
	require.NoError(t, err)
	assert.True(t, mm.Equals(g), "split then collapse restores the Gaussian")

	two, err := gaussian.NewMoment([]string{"x", "y"}, mat.NewSymDense(2, []float64{1, 0, 0, 1}), []float64{0, 0}, 0)
	require.NoError(t, err)
	_, err = mixture.Split(two)
	assert.ErrorIs(t, err, mixture.ErrNotOneDimensional)
}

func TestMarginalizeAndReduce_Componentwise(t *testing.T) {
	t.Parallel()

	c1, err := gaussian.NewMoment([]string{"x", "y"}, mat.NewSymDense(2, []float64{1, 0.5, 0.5, 1}), []float64{0, 0}, math.Log(0.5))
	require.NoError(t, err)
	c2, err := gaussian.NewMoment([]string{"x", "y"}, mat.NewSymDense(2, []float64{2, 0, 0, 1}), []float64{3, 1}, math.Log(0.5))
	require.NoError(t, err)
	m := mix(t, nil, c1, c2)

	mx, err := m.Marginalize([]string{"y"}, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, mx.Vars())
	want := 0.5*normalPDF(1, 0, 1) + 0.5*normalPDF(1, 3, 2)
	assert.InEpsilon(t, want, potentialAt(t, mx, 1), 1e-9)

	r, err := m.Reduce([]string{"y"}, []float64{1})
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, r.Vars())
	joint, err := m.Potential([]float64{0.5, 1})
	require.NoError(t, err)
	assert.InEpsilon(t, joint, potentialAt(t, r, 0.5), 1e-9, "reduction keeps the joint's value")

	_, err = m.Marginalize([]string{"z"}, false)
	assert.ErrorIs(t, err, gaussian.ErrUnknownVariable)
}

func TestArgmaxArgmin(t *testing.T) {
	t.Parallel()

	m := mix(t, nil, scalar(t, 0, 1, 0.3), scalar(t, 5, 1, 0.7))
	x, err := m.Argmax()
	require.NoError(t, err)
	assert.InDelta(t, 5, x[0], 1e-4)

	inv, err := scalar(t, 0, 4, 1).Divide(scalar(t, 0, 1, 1))
	require.NoError(t, err)
	x, err = mix(t, nil, inv).Argmin()
	require.NoError(t, err)
	assert.InDelta(t, 0, x[0], 1e-6)
}

func TestArgmax_AllStartsFail(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.DebugLevel)
	// exp(x) has no maximum
	ramp, err := gaussian.NewCanonical([]string{"x"}, mat.NewSymDense(1, []float64{0}), []float64{1}, 0)
	require.NoError(t, err)
	m := mix(t, []mixture.Option{mixture.WithLogger(zap.New(core)), mixture.WithMaxIterations(20)}, ramp)

	_, err = m.Argmax()
	assert.ErrorIs(t, err, mixture.ErrOptimizationFailed)
	assert.Positive(t, logs.FilterMessage("optimizer start did not converge").Len())
}

func TestFactorContract(t *testing.T) {
	t.Parallel()

	m := bimodal(t)
	g := scalar(t, 2, 4, 1)

	var f factor.Factor = g
	prod, err := f.MultiplyFactor(m)
	require.NoError(t, err, "Gaussian × Mixture delegates to the mixture")
	direct, err := m.Multiply(g)
	require.NoError(t, err)
	assert.True(t, prod.EqualsFactor(direct))

	_, err = f.DivideFactor(m)
	assert.ErrorIs(t, err, factor.ErrUnsupportedFactor)

	q, err := m.DivideFactor(wideBimodal(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, q.Vars())

	r, err := m.ReduceFactor([]string{"x"}, []float64{0})
	require.NoError(t, err)
	assert.Empty(t, r.Vars())

	mg, err := m.MarginalizeFactor([]string{"x"}, true)
	require.NoError(t, err)
	assert.True(t, mg.EqualsFactor(m))
	assert.False(t, m.EqualsFactor(g))
}
