// SPDX-License-Identifier: MIT

package gaussian

import (
	"github.com/katalvlaran/gausspot/factor"
)

var _ factor.Factor = (*Gaussian)(nil)

// GaussianMultiplier is implemented by factors that know how to absorb a
// Gaussian, such as mixtures. MultiplyFactor delegates to it because the
// product is commutative.
type GaussianMultiplier interface {
	MultiplyGaussian(g *Gaussian) (factor.Factor, error)
}

// MultiplyFactor implements factor.Factor.
func (g *Gaussian) MultiplyFactor(other factor.Factor) (factor.Factor, error) {
	switch o := other.(type) {
	case *Gaussian:
		r, err := g.Multiply(o)
		if err != nil {
			return nil, err
		}

		return r, nil
	case GaussianMultiplier:
		return o.MultiplyGaussian(g)
	default:
		return nil, factor.Unsupported(opMultiply, other)
	}
}

// DivideFactor implements factor.Factor. Only Gaussian divisors are supported.
func (g *Gaussian) DivideFactor(other factor.Factor) (factor.Factor, error) {
	o, ok := other.(*Gaussian)
	if !ok {
		return nil, factor.Unsupported(opDivide, other)
	}
	r, err := g.Divide(o)
	if err != nil {
		return nil, err
	}

	return r, nil
}

// MarginalizeFactor implements factor.Factor.
func (g *Gaussian) MarginalizeFactor(vars []string, keep bool) (factor.Factor, error) {
	r, err := g.Marginalize(vars, keep)
	if err != nil {
		return nil, err
	}

	return r, nil
}

// ReduceFactor implements factor.Factor.
func (g *Gaussian) ReduceFactor(vars []string, values []float64) (factor.Factor, error) {
	r, err := g.Reduce(vars, values)
	if err != nil {
		return nil, err
	}

	return r, nil
}

// EqualsFactor implements factor.Factor.
func (g *Gaussian) EqualsFactor(other factor.Factor) bool {
	o, ok := other.(*Gaussian)

	return ok && g.Equals(o)
}
