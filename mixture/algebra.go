// SPDX-License-Identifier: MIT

package mixture

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/gausspot/gaussian"
	"github.com/katalvlaran/gausspot/linalg"
)

// Multiply returns Σ_i a_i·g. Exact.
func (m *Mixture) Multiply(g *gaussian.Gaussian) (*Mixture, error) {
	out := make([]*gaussian.Gaussian, m.Len())
	for i, c := range m.components {
		p, err := c.Multiply(g)
		if err != nil {
			return nil, mixtureErrorf(opMultiply, err)
		}
		out[i] = p
	}

	return m.derive(out)
}

// MultiplyMixture returns Σ_i Σ_j a_i·b_j with n_a·n_b components. Exact.
func (m *Mixture) MultiplyMixture(other *Mixture) (*Mixture, error) {
	out := make([]*gaussian.Gaussian, 0, m.Len()*other.Len())
	for _, a := range m.components {
		for _, b := range other.components {
			p, err := a.Multiply(b)
			if err != nil {
				return nil, mixtureErrorf(opMultiply, err)
			}
			out = append(out, p)
		}
	}

	return m.derive(out)
}

// Divide returns Σ_i a_i/g. Exact.
func (m *Mixture) Divide(g *gaussian.Gaussian) (*Mixture, error) {
	out := make([]*gaussian.Gaussian, m.Len())
	for i, c := range m.components {
		q, err := c.Divide(g)
		if err != nil {
			return nil, mixtureErrorf(opDivide, err)
		}
		out[i] = q
	}

	return m.derive(out)
}

// DivideMixture divides by another mixture. A single-component denominator
// is divided exactly; otherwise the receiver's Strategy approximates the
// quotient.
//
// Errors:
//   - ErrScopeMismatch when ModeFinding or ComplexMomentMatch is asked to
//     divide by a mixture over a different variable set.
//   - ErrNoModes / ErrOptimizationFailed from ModeFinding.
func (m *Mixture) DivideMixture(other *Mixture) (*Mixture, error) {
	if other.Len() == 1 {
		return m.Divide(other.components[0])
	}
	switch m.opts.strategy {
	case ModeFinding:
		return m.divideByModes(other)
	case ComplexMomentMatch:
		return m.divideComplex(other)
	default:
		mm, err := other.MomentMatch()
		if err != nil {
			return nil, mixtureErrorf(opDivide, err)
		}

		return m.Divide(mm)
	}
}

// sameVarSet guards the approximate strategies, which evaluate numerator and
// denominator at the same points.
func (m *Mixture) sameVarSet(op string, other *Mixture) error {
	if !m.components[0].Scope().SameSet(other.components[0].Scope()) {
		return mixtureErrorf(op, fmt.Errorf("%v vs %v: %w",
			m.components[0].Scope(), other.components[0].Scope(), ErrScopeMismatch))
	}

	return nil
}

// Marginalize integrates every component over vars (or onto vars when keep).
func (m *Mixture) Marginalize(vars []string, keep bool) (*Mixture, error) {
	out := make([]*gaussian.Gaussian, m.Len())
	for i, c := range m.components {
		r, err := c.Marginalize(vars, keep)
		if err != nil {
			return nil, mixtureErrorf(opMarginalize, err)
		}
		out[i] = r
	}

	return m.derive(out)
}

// Reduce conditions every component on vars = values.
func (m *Mixture) Reduce(vars []string, values []float64) (*Mixture, error) {
	out := make([]*gaussian.Gaussian, m.Len())
	for i, c := range m.components {
		r, err := c.Reduce(vars, values)
		if err != nil {
			return nil, mixtureErrorf(opReduce, err)
		}
		out[i] = r
	}

	return m.derive(out)
}

// logWeights returns the component log weights.
func (m *Mixture) logWeights() ([]float64, error) {
	lw := make([]float64, m.Len())
	for i, c := range m.components {
		w, err := c.LogWeight()
		if err != nil {
			return nil, fmt.Errorf("component %d: %w", i, err)
		}
		lw[i] = w
	}

	return lw, nil
}

// LogWeight returns log Σ_i w_i.
func (m *Mixture) LogWeight() (float64, error) {
	lw, err := m.logWeights()
	if err != nil {
		return 0, mixtureErrorf(opLogWeight, err)
	}

	return floats.LogSumExp(lw), nil
}

// Normalize rescales every component so the total weight is 1.
func (m *Mixture) Normalize() (*Mixture, error) {
	l, err := m.LogWeight()
	if err != nil {
		return nil, err
	}
	out := make([]*gaussian.Gaussian, m.Len())
	for i, c := range m.components {
		out[i] = c.AddLogWeight(-l)
	}

	return m.derive(out)
}

// MomentMatch collapses the mixture to one Gaussian with the same total
// weight, mean and covariance:
//
//	μ = Σ p_i·μ_i,  Σ = Σ p_i·(Σ_i + (μ_i−μ)(μ_i−μ)ᵀ),  p_i = w_i / Σ w_j
func (m *Mixture) MomentMatch() (*gaussian.Gaussian, error) {
	if m.Len() == 1 {
		return m.components[0].Clone(), nil
	}
	lw, err := m.logWeights()
	if err != nil {
		return nil, mixtureErrorf(opMomentMatch, err)
	}
	total := floats.LogSumExp(lw)
	d := m.Dim()
	means := make([][]float64, m.Len())
	mean := make([]float64, d)
	p := make([]float64, m.Len())
	for i, c := range m.components {
		p[i] = math.Exp(lw[i] - total)
		mu, err := c.Mean()
		if err != nil {
			return nil, mixtureErrorf(opMomentMatch, err)
		}
		means[i] = mu
		floats.AddScaled(mean, p[i], mu)
	}

	cov := mat.NewSymDense(d, nil)
	for i, c := range m.components {
		ci, err := c.Cov()
		if err != nil {
			return nil, mixtureErrorf(opMomentMatch, err)
		}
		diff := make([]float64, d)
		floats.SubTo(diff, means[i], mean)
		dv := mat.NewVecDense(d, diff)
		var spread mat.SymDense
		spread.SymOuterK(1, dv)
		spread.AddSym(&spread, ci)
		cov.AddSym(cov, linalg.ScaleSym(p[i], &spread))
	}

	g, err := gaussian.NewMoment(m.Vars(), cov, mean, total, m.gaussianOptions()...)
	if err != nil {
		return nil, mixtureErrorf(opMomentMatch, err)
	}

	return g, nil
}

// gaussianOptions carries the first component's numeric policy into
// Gaussians the mixture builds from scratch.
func (m *Mixture) gaussianOptions() []gaussian.Option {
	return []gaussian.Option{gaussian.WithOptions(m.components[0].Options())}
}

// Split replaces a one-dimensional Gaussian by three equally weighted
// components with variance σ²/3 at μ−σ, μ and μ+σ. The mixture keeps g's
// total weight.
//
// Errors:
//   - ErrNotOneDimensional for a Gaussian over more or fewer than one variable.
func Split(g *gaussian.Gaussian, opts ...Option) (*Mixture, error) {
	if g.Dim() != 1 {
		return nil, mixtureErrorf(opSplit, fmt.Errorf("%v: %w", g.Scope(), ErrNotOneDimensional))
	}
	mean, err := g.Mean()
	if err != nil {
		return nil, mixtureErrorf(opSplit, err)
	}
	cov, err := g.Cov()
	if err != nil {
		return nil, mixtureErrorf(opSplit, err)
	}
	lw, err := g.LogWeight()
	if err != nil {
		return nil, mixtureErrorf(opSplit, err)
	}
	variance := cov.At(0, 0)
	sigma := math.Sqrt(variance)
	third := lw - math.Log(3)
	gopts := []gaussian.Option{gaussian.WithOptions(g.Options())}

	comps := make([]*gaussian.Gaussian, 0, 3)
	for _, shift := range []float64{-sigma, 0, sigma} {
		c, err := gaussian.NewScalar(g.Vars()[0], mean[0]+shift, variance/3, third, gopts...)
		if err != nil {
			return nil, mixtureErrorf(opSplit, err)
		}
		comps = append(comps, c)
	}

	return build(comps, gatherOptions(opts...))
}
