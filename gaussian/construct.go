// SPDX-License-Identifier: MIT

package gaussian

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Range is a closed interval [Lo, Hi] for uniform draws.
type Range struct {
	Lo, Hi float64
}

// Default draw ranges of Random.
var (
	DefaultMeanRange     = Range{Lo: -10, Hi: 10}
	DefaultVarianceRange = Range{Lo: 1, Hi: 10}
)

// Standard returns N(0, I) over vars with unit weight.
func Standard(vars []string, opts ...Option) (*Gaussian, error) {
	d := len(vars)
	cov := mat.NewSymDense(max(d, 1), nil)
	for i := 0; i < d; i++ {
		cov.SetSym(i, i, 1)
	}

	return NewMoment(vars, cov, make([]float64, d), 0, opts...)
}

// Random returns a normalised Gaussian with a diagonal covariance whose
// variances are drawn uniformly from variance and whose mean entries are
// drawn uniformly from mean. A nil rng draws from the global source.
func Random(vars []string, rng *rand.Rand, mean, variance Range, opts ...Option) (*Gaussian, error) {
	uniform := rand.Float64
	if rng != nil {
		uniform = rng.Float64
	}
	d := len(vars)
	cov := mat.NewSymDense(max(d, 1), nil)
	mu := make([]float64, d)
	for i := 0; i < d; i++ {
		cov.SetSym(i, i, variance.Lo+(variance.Hi-variance.Lo)*uniform())
		mu[i] = mean.Lo + (mean.Hi-mean.Lo)*uniform()
	}

	return NewMoment(vars, cov, mu, 0, opts...)
}

// FromSamples estimates a normalised Gaussian from the rows of samples,
// with columns aligned to vars. The covariance is the unbiased estimate.
//
// Errors:
//   - ErrBadSampleSize with fewer than two rows.
//   - ErrDimensionMismatch if the column count differs from len(vars).
func FromSamples(vars []string, samples *mat.Dense, opts ...Option) (*Gaussian, error) {
	n, d := samples.Dims()
	if n < 2 {
		return nil, gaussianErrorf(opFromSamples, ErrBadSampleSize)
	}
	if d != len(vars) {
		return nil, gaussianErrorf(opFromSamples, fmt.Errorf("%d columns for %d vars: %w", d, len(vars), ErrDimensionMismatch))
	}
	var cov mat.SymDense
	stat.CovarianceMatrix(&cov, samples, nil)
	mu := make([]float64, d)
	col := make([]float64, n)
	for j := 0; j < d; j++ {
		mat.Col(col, j, samples)
		mu[j] = stat.Mean(col, nil)
	}

	return NewMoment(vars, &cov, mu, 0, opts...)
}
