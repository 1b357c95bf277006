// SPDX-License-Identifier: MIT

package gaussian

import (
	"fmt"
	"math"
	"math/rand/v2"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/gausspot/diag"
	"github.com/katalvlaran/gausspot/linalg"
)

// LogPotential evaluates log g(x) with x laid out in the receiver's order.
// Canonical form is used when populated; otherwise the moment form is
// evaluated directly.
func (g *Gaussian) LogPotential(x []float64) (float64, error) {
	if err := linalg.ValidateVecLen(x, g.Dim()); err != nil {
		return 0, gaussianErrorf(opLogPot, fmt.Errorf("%v: %w", err, ErrDimensionMismatch))
	}
	xv := linalg.NewVec(x)
	c, m := g.snapshot()
	if c != nil {
		return -0.5*linalg.QuadForm(xv, c.k, xv) + linalg.Dot(c.h, xv) + c.g, nil
	}
	k, err := linalg.InverseSym(m.cov)
	if err != nil {
		return 0, gaussianErrorf(opLogPot, fmt.Errorf("%v: %w", err, ErrSingularCovariance))
	}
	logDet, err := linalg.LogDet2Pi(m.cov)
	if err != nil {
		return 0, gaussianErrorf(opLogPot, err)
	}
	d := linalg.AddVecs(xv, -1, m.mean)

	return m.logWeight - 0.5*logDet - 0.5*linalg.QuadForm(d, k, d), nil
}

// LogPotentialAt evaluates log g(x) where x[i] is the value of vars[i].
// vars must list exactly the receiver's variables, in any order.
func (g *Gaussian) LogPotentialAt(vars []string, x []float64) (float64, error) {
	if len(vars) != len(x) {
		return 0, gaussianErrorf(opLogPot, ErrDimensionMismatch)
	}
	perm, err := g.scope.Permutation(vars)
	if err != nil {
		return 0, gaussianErrorf(opLogPot, err)
	}
	own := make([]float64, len(x))
	for i := range own {
		own[i] = x[perm[i]]
	}

	return g.LogPotential(own)
}

// Potential evaluates g(x) = exp(LogPotential(x)).
func (g *Gaussian) Potential(x []float64) (float64, error) {
	lp, err := g.LogPotential(x)
	if err != nil {
		return 0, err
	}

	return math.Exp(lp), nil
}

// Sample draws n points x = L·z + μ with Σ = L·Lᵀ and z standard normal.
// Rows of the result are samples, columns follow Vars(). A nil rng draws
// from the global source.
func (g *Gaussian) Sample(n int, rng *rand.Rand) (*mat.Dense, error) {
	if n <= 0 {
		return nil, gaussianErrorf(opSample, ErrBadSampleSize)
	}
	if g.vacuous {
		return nil, gaussianErrorf(opSample, ErrVacuousSample)
	}
	m, err := g.momentForm()
	if err != nil {
		return nil, gaussianErrorf(opSample, err)
	}
	l, err := linalg.Cholesky(m.cov)
	if err != nil {
		return nil, gaussianErrorf(opSample, err)
	}
	norm := rand.NormFloat64
	if rng != nil {
		norm = rng.NormFloat64
	}

	d := g.Dim()
	out := mat.NewDense(n, d, nil)
	z := mat.NewVecDense(d, nil)
	x := mat.NewVecDense(d, nil)
	for r := 0; r < n; r++ {
		for i := 0; i < d; i++ {
			z.SetVec(i, norm())
		}
		x.MulVec(l, z)
		x.AddVec(x, m.mean)
		out.SetRow(r, x.RawVector().Data)
	}

	return out, nil
}

// KLOption tunes KLDivergence.
type KLOption func(*klOptions)

type klOptions struct {
	normalizeOther bool
}

// WithoutNormalizedOther compares against other as given instead of its
// normalised density.
func WithoutNormalizedOther() KLOption {
	return func(o *klOptions) { o.normalizeOther = false }
}

// KLDivergence returns KL(p‖q) where p is the receiver normalised and q is
// other (normalised unless WithoutNormalizedOther is given):
//
//	KL = ½·(tr(Kq·Σp) + (μq−μp)ᵀKq(μq−μp) − d + log|Kp| − log|Kq|)
//
// Both vacuous yields 0, exactly one vacuous yields +Inf. When the variable
// sets agree other is aligned to the receiver's order; otherwise operands of
// equal dimension are compared positionally. Round-off negatives are clamped
// to 0, and recorded when they exceed the absolute tolerance.
//
// Errors:
//   - ErrDimensionMismatch when the dimensions differ.
//   - ErrNotPositiveDefinite when either precision has a non-positive determinant.
func (g *Gaussian) KLDivergence(other *Gaussian, opts ...KLOption) (float64, error) {
	ko := klOptions{normalizeOther: true}
	for _, fn := range opts {
		fn(&ko)
	}
	if g.Dim() != other.Dim() {
		return 0, gaussianErrorf(opKL, ErrDimensionMismatch)
	}
	switch {
	case g.vacuous && other.vacuous:
		return 0, nil
	case g.vacuous || other.vacuous:
		return math.Inf(1), nil
	}
	q := other
	if g.scope.SameSet(other.scope) {
		var err error
		if q, err = other.Reorder(g.Vars()); err != nil {
			return 0, gaussianErrorf(opKL, err)
		}
		if g.Equals(q) {
			return 0, nil
		}
	}

	p, err := g.Normalize()
	if err != nil {
		return 0, gaussianErrorf(opKL, err)
	}
	if ko.normalizeOther {
		if q, err = q.Normalize(); err != nil {
			return 0, gaussianErrorf(opKL, err)
		}
	}
	pc, err := p.canonicalForm()
	if err != nil {
		return 0, gaussianErrorf(opKL, err)
	}
	pm, err := p.momentForm()
	if err != nil {
		return 0, gaussianErrorf(opKL, err)
	}
	qc, err := q.canonicalForm()
	if err != nil {
		return 0, gaussianErrorf(opKL, err)
	}
	qm, err := q.momentForm()
	if err != nil {
		return 0, gaussianErrorf(opKL, err)
	}
	logDetP, signP := linalg.LogDetSigned(pc.k)
	logDetQ, signQ := linalg.LogDetSigned(qc.k)
	if signP <= 0 || signQ <= 0 {
		return 0, gaussianErrorf(opKL, ErrNotPositiveDefinite)
	}

	var prod mat.Dense
	prod.Mul(qc.k, pm.cov)
	diff := linalg.AddVecs(qm.mean, -1, pm.mean)
	kl := 0.5 * (mat.Trace(&prod) + linalg.QuadForm(diff, qc.k, diff) - float64(g.Dim()) + logDetP - logDetQ)
	if kl < 0 {
		if kl < -g.opts.atol {
			g.opts.recorder.Warn(opKL, diag.KindNegativeDivergence, zap.Float64("kl", kl))
		}
		kl = 0
	}

	return kl, nil
}

// DistanceFromVacuous returns 0 for a vacuous potential and +Inf otherwise.
func (g *Gaussian) DistanceFromVacuous() float64 {
	if g.vacuous {
		return 0
	}

	return math.Inf(1)
}

// EqualOption tunes Equals.
type EqualOption func(*equalOptions)

type equalOptions struct {
	rtol, atol float64
}

// WithEqualTolerance overrides the receiver's comparison tolerances.
func WithEqualTolerance(rtol, atol float64) EqualOption {
	return func(o *equalOptions) { o.rtol, o.atol = rtol, atol }
}

// Equals reports whether both potentials describe the same function over the
// same variable set, elementwise within |a−b| <= atol + rtol·|b|. Two vacuous
// potentials are always equal. Canonical parameters are compared when either
// side holds them; otherwise moment parameters are compared.
func (g *Gaussian) Equals(other *Gaussian, opts ...EqualOption) bool {
	if other == nil || !g.scope.SameSet(other.scope) {
		return false
	}
	eo := equalOptions{rtol: g.opts.rtol, atol: g.opts.atol}
	for _, fn := range opts {
		fn(&eo)
	}
	// vacuous potentials are all the same constant up to scale
	if g.vacuous && other.vacuous {
		return true
	}
	o, err := other.Reorder(g.Vars())
	if err != nil {
		return false
	}
	ca, ma := g.snapshot()
	cb, mb := o.snapshot()
	if ca != nil || cb != nil {
		if ca, err = g.canonicalForm(); err != nil {
			return false
		}
		if cb, err = o.canonicalForm(); err != nil {
			return false
		}

		return linalg.AllCloseSym(ca.k, cb.k, eo.rtol, eo.atol) &&
			linalg.AllCloseVec(ca.h, cb.h, eo.rtol, eo.atol) &&
			linalg.IsClose(ca.g, cb.g, eo.rtol, eo.atol)
	}

	return linalg.AllCloseSym(ma.cov, mb.cov, eo.rtol, eo.atol) &&
		linalg.AllCloseVec(ma.mean, mb.mean, eo.rtol, eo.atol) &&
		linalg.IsClose(ma.logWeight, mb.logWeight, eo.rtol, eo.atol)
}
