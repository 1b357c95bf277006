// SPDX-License-Identifier: MIT
package mixture_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/gausspot/gaussian"
	"github.com/katalvlaran/gausspot/mixture"
)

func scalar(t *testing.T, mean, variance, weight float64) *gaussian.Gaussian {
	t.Helper()
	g, err := gaussian.NewScalar("x", mean, variance, math.Log(weight))
	require.NoError(t, err)

	return g
}

func mix(t *testing.T, opts []mixture.Option, comps ...*gaussian.Gaussian) *mixture.Mixture {
	t.Helper()
	m, err := mixture.New(comps, opts...)
	require.NoError(t, err)

	return m
}

// bimodal is 0.5·N(0,1) + 0.5·N(5,1).
func bimodal(t *testing.T, opts ...mixture.Option) *mixture.Mixture {
	t.Helper()

	return mix(t, opts, scalar(t, 0, 1, 0.5), scalar(t, 5, 1, 0.5))
}

// wideBimodal is 0.5·N(0,4) + 0.5·N(5,4).
func wideBimodal(t *testing.T) *mixture.Mixture {
	t.Helper()

	return mix(t, nil, scalar(t, 0, 4, 0.5), scalar(t, 5, 4, 0.5))
}

func potentialAt(t *testing.T, m *mixture.Mixture, x float64) float64 {
	t.Helper()
	p, err := m.Potential([]float64{x})
	require.NoError(t, err)

	return p
}

func normalPDF(x, mean, variance float64) float64 {
	d := x - mean

	return math.Exp(-0.5*d*d/variance) / math.Sqrt(2*math.Pi*variance)
}
