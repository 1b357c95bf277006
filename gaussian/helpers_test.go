// SPDX-License-Identifier: MIT
package gaussian_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/gausspot/gaussian"
)

func scalar(t *testing.T, name string, mean, variance, logWeight float64) *gaussian.Gaussian {
	t.Helper()
	g, err := gaussian.NewScalar(name, mean, variance, logWeight)
	require.NoError(t, err)

	return g
}

func moment2(t *testing.T, vars []string, cov []float64, mean []float64, logWeight float64) *gaussian.Gaussian {
	t.Helper()
	g, err := gaussian.NewMoment(vars, mat.NewSymDense(len(vars), cov), mean, logWeight)
	require.NoError(t, err)

	return g
}

// canonicalOnly rebuilds g from its canonical parameters so that no moment
// form is cached.
func canonicalOnly(t *testing.T, g *gaussian.Gaussian) *gaussian.Gaussian {
	t.Helper()
	k, err := g.K()
	require.NoError(t, err)
	h, err := g.H()
	require.NoError(t, err)
	gg, err := g.G()
	require.NoError(t, err)
	out, err := gaussian.NewCanonical(g.Vars(), k, h, gg)
	require.NoError(t, err)
	require.Equal(t, gaussian.FormCanonical, out.Form())

	return out
}
