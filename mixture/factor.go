// SPDX-License-Identifier: MIT

package mixture

import (
	"github.com/katalvlaran/gausspot/factor"
	"github.com/katalvlaran/gausspot/gaussian"
)

var (
	_ factor.Factor               = (*Mixture)(nil)
	_ gaussian.GaussianMultiplier = (*Mixture)(nil)
)

// MultiplyFactor implements factor.Factor for Gaussian and Mixture operands.
func (m *Mixture) MultiplyFactor(other factor.Factor) (factor.Factor, error) {
	var (
		r   *Mixture
		err error
	)
	switch o := other.(type) {
	case *gaussian.Gaussian:
		r, err = m.Multiply(o)
	case *Mixture:
		r, err = m.MultiplyMixture(o)
	default:
		return nil, factor.Unsupported(opMultiply, other)
	}
	if err != nil {
		return nil, err
	}

	return r, nil
}

// MultiplyGaussian lets a Gaussian left operand delegate its product.
func (m *Mixture) MultiplyGaussian(g *gaussian.Gaussian) (factor.Factor, error) {
	return m.MultiplyFactor(g)
}

// DivideFactor implements factor.Factor for Gaussian and Mixture divisors.
func (m *Mixture) DivideFactor(other factor.Factor) (factor.Factor, error) {
	var (
		r   *Mixture
		err error
	)
	switch o := other.(type) {
	case *gaussian.Gaussian:
		r, err = m.Divide(o)
	case *Mixture:
		r, err = m.DivideMixture(o)
	default:
		return nil, factor.Unsupported(opDivide, other)
	}
	if err != nil {
		return nil, err
	}

	return r, nil
}

// MarginalizeFactor implements factor.Factor.
func (m *Mixture) MarginalizeFactor(vars []string, keep bool) (factor.Factor, error) {
	r, err := m.Marginalize(vars, keep)
	if err != nil {
		return nil, err
	}

	return r, nil
}

// ReduceFactor implements factor.Factor.
func (m *Mixture) ReduceFactor(vars []string, values []float64) (factor.Factor, error) {
	r, err := m.Reduce(vars, values)
	if err != nil {
		return nil, err
	}

	return r, nil
}

// EqualsFactor implements factor.Factor.
func (m *Mixture) EqualsFactor(other factor.Factor) bool {
	o, ok := other.(*Mixture)

	return ok && m.Equals(o)
}
