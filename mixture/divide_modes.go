// SPDX-License-Identifier: MIT
// Package mixture: mixture quotient by mode finding and Laplace fits.
//
// Steps for A = Σ a_i divided by B = Σ b_j:
//  1. For each a_i, the minimiser of the inverse mixture Σ_j b_j/a_i is a
//     candidate mode of A/B (seeded at the denominator means).
//  2. Each candidate is refined by maximising log A − log B directly.
//  3. Modes closer than the mode tolerance are merged.
//  4. At each mode m the quotient is replaced by the Gaussian with
//     K = −∇² log(A/B)(m), h = K·m and value log(A/B)(m) at m.

package mixture

import (
	"fmt"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/gausspot/diag"
	"github.com/katalvlaran/gausspot/gaussian"
	"github.com/katalvlaran/gausspot/linalg"
)

// quotient is log A(x) − log B(x) with its gradient.
type quotient struct {
	num, den *logDensity
}

func (q quotient) value(x []float64) float64 {
	return q.num.value(x) - q.den.value(x)
}

func (q quotient) gradient(dst, x []float64) {
	q.num.gradient(dst, x)
	tmp := make([]float64, len(dst))
	q.den.gradient(tmp, x)
	floats.Sub(dst, tmp)
}

// ascent is the objective whose minimum is a mode of the quotient.
func (q quotient) ascent() objective {
	return objective{
		f: func(x []float64) float64 { return -q.value(x) },
		grad: func(dst, x []float64) {
			q.gradient(dst, x)
			floats.Scale(-1, dst)
		},
	}
}

func (m *Mixture) divideByModes(other *Mixture) (*Mixture, error) {
	if err := m.sameVarSet(opModes, other); err != nil {
		return nil, err
	}
	vars := m.Vars()
	den := make([]*gaussian.Gaussian, other.Len())
	seeds := make([][]float64, 0, other.Len())
	for j, b := range other.components {
		r, err := b.Reorder(vars)
		if err != nil {
			return nil, mixtureErrorf(opModes, err)
		}
		den[j] = r
		if mu, err := r.Mean(); err == nil {
			seeds = append(seeds, mu)
		}
	}
	q := quotient{}
	var err error
	if q.num, err = newLogDensity(m.components); err != nil {
		return nil, mixtureErrorf(opModes, err)
	}
	if q.den, err = newLogDensity(den); err != nil {
		return nil, mixtureErrorf(opModes, err)
	}

	candidates, err := m.inverseMinima(den, seeds)
	if err != nil {
		return nil, err
	}
	var modes [][]float64
	for _, c := range candidates {
		refined := m.multiStart(opModes, q.ascent(), [][]float64{c})
		if len(refined) == 0 {
			continue
		}
		modes = appendDistinct(modes, refined[0].x, m.opts.modeTol)
	}

	rec := m.opts.recorder
	out := make([]*gaussian.Gaussian, 0, len(modes))
	for _, mode := range modes {
		g, ok, err := m.laplace(q, mode)
		if err != nil {
			return nil, mixtureErrorf(opModes, err)
		}
		if !ok {
			rec.Warn(opModes, diag.KindNonPositiveDefinite, zap.Float64s("mode", mode))

			continue
		}
		out = append(out, g)
	}
	if len(out) == 0 {
		rec.Warn(opModes, diag.KindNoModes, zap.Int("candidates", len(candidates)))

		return nil, mixtureErrorf(opModes, ErrNoModes)
	}

	return m.derive(out)
}

// inverseMinima returns, for every numerator component a_i, the global
// minimiser of Σ_j b_j/a_i. Components whose search fails contribute nothing.
func (m *Mixture) inverseMinima(den []*gaussian.Gaussian, seeds [][]float64) ([][]float64, error) {
	var out [][]float64
	for i, a := range m.components {
		inv := make([]*gaussian.Gaussian, len(den))
		for j, b := range den {
			r, err := b.Divide(a)
			if err != nil {
				return nil, mixtureErrorf(opModes, fmt.Errorf("b%d/a%d: %w", j, i, err))
			}
			inv[j] = r
		}
		ld, err := newLogDensity(inv)
		if err != nil {
			return nil, mixtureErrorf(opModes, err)
		}
		x, err := m.extremum(opModes, ld, ld.minimize(), seeds)
		if err != nil {
			continue
		}
		out = append(out, x)
	}

	return out, nil
}

// appendDistinct adds x unless a point within tol is already present.
func appendDistinct(points [][]float64, x []float64, tol float64) [][]float64 {
	for _, p := range points {
		if floats.Distance(p, x, 2) < tol {
			return points
		}
	}

	return append(points, x)
}

// laplace fits a Gaussian to the quotient at mode. ok is false when the
// negative Hessian is not positive definite.
func (m *Mixture) laplace(q quotient, mode []float64) (*gaussian.Gaussian, bool, error) {
	var hess mat.SymDense
	fd.Hessian(&hess, q.value, mode, &fd.Settings{Formula: fd.Central})
	k := linalg.ScaleSym(-1, &hess)
	if !linalg.IsPosDef(k) {
		return nil, false, nil
	}
	mv := mat.NewVecDense(len(mode), mode)
	h := linalg.MulSymVec(k, mv)
	g := q.value(mode) - 0.5*linalg.QuadForm(mv, k, mv)
	out, err := gaussian.NewCanonical(m.Vars(), k, linalg.VecData(h), g, m.gaussianOptions()...)
	if err != nil {
		return nil, false, err
	}

	return out, true, nil
}
