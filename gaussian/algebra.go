// SPDX-License-Identifier: MIT
// Package gaussian: product, quotient, marginalisation and reduction.
//
// Contract:
//   - Every operation returns a fresh Gaussian; operands are never mutated.
//   - Binary results live on the scope union, left operand first, and inherit
//     the left operand's options.
//   - Parameters move between layouts only through scope.Remap tables and the
//     linalg gather/scatter kernels.

package gaussian

import (
	"fmt"
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/gausspot/diag"
	"github.com/katalvlaran/gausspot/factor"
	"github.com/katalvlaran/gausspot/linalg"
	"github.com/katalvlaran/gausspot/scope"
)

// Multiply returns the product g·other over the union of both scopes.
func (g *Gaussian) Multiply(other *Gaussian) (*Gaussian, error) {
	return g.combine(other, 1, opMultiply)
}

// Divide returns the quotient g/other over the union of both scopes.
// The result may have an indefinite K.
func (g *Gaussian) Divide(other *Gaussian) (*Gaussian, error) {
	return g.combine(other, -1, opDivide)
}

// combine adds (sign = 1) or subtracts (sign = −1) canonical parameters after
// scattering both operands into the union layout.
func (g *Gaussian) combine(other *Gaussian, sign float64, op string) (*Gaussian, error) {
	ca, err := g.canonicalForm()
	if err != nil {
		return nil, gaussianErrorf(op, err)
	}
	cb, err := other.canonicalForm()
	if err != nil {
		return nil, gaussianErrorf(op, err)
	}
	u := g.scope.Union(other.scope)
	ka, ha, err := scatterCanonical(ca, u, g.scope)
	if err != nil {
		return nil, gaussianErrorf(op, err)
	}
	kb, hb, err := scatterCanonical(cb, u, other.scope)
	if err != nil {
		return nil, gaussianErrorf(op, err)
	}
	c := &canonical{
		k: linalg.AddSyms(ka, sign, kb),
		h: linalg.AddVecs(ha, sign, hb),
		g: ca.g + sign*cb.g,
	}

	return g.derive(u, c, nil), nil
}

func scatterCanonical(c *canonical, u, s *scope.Scope) (*mat.SymDense, *mat.VecDense, error) {
	pos, err := u.Remap(s.Names())
	if err != nil {
		return nil, nil, err
	}
	k, err := linalg.ScatterSym(c.k, pos, u.Len())
	if err != nil {
		return nil, nil, err
	}
	h, err := linalg.ScatterVec(c.h, pos, u.Len())
	if err != nil {
		return nil, nil, err
	}

	return k, h, nil
}

// Marginalize integrates vars out of the potential, or integrates out every
// other variable when keep is true. The remaining variables keep the
// receiver's order.
//
// Canonical form uses the Schur complement of the eliminated block:
//
//	K' = Kxx − Kxy·Kyy⁻¹·Kyx
//	h' = hx − Kxy·Kyy⁻¹·hy
//	g' = g + ½·hyᵀKyy⁻¹hy + ½·log|2π·Kyy⁻¹|
//
// A potential held only in moment form is marginalised by slicing Σ and μ.
//
// Errors:
//   - ErrUnknownVariable if vars names a variable outside the scope.
//   - ErrSingularMarginal if Kyy cannot be inverted.
func (g *Gaussian) Marginalize(vars []string, keep bool) (*Gaussian, error) {
	kept, err := factor.MarginalVars(g.scope.Names(), vars, keep)
	if err != nil {
		return nil, gaussianErrorf(opMarginalize, err)
	}
	if len(kept) == g.Dim() {
		return g.Clone(), nil
	}
	ks, err := scope.New(kept...)
	if err != nil {
		return nil, gaussianErrorf(opMarginalize, err)
	}
	dropped, err := g.scope.Complement(kept)
	if err != nil {
		return nil, gaussianErrorf(opMarginalize, err)
	}
	xi, _ := g.scope.Remap(kept)
	yi, _ := g.scope.Remap(dropped)

	c, m := g.snapshot()
	if g.vacuous {
		// integrating a constant over the dropped variables keeps the constant
		return g.derive(ks, zeroCanonical(ks.Len(), c.g), nil), nil
	}
	if c == nil {
		if ks.Len() == 0 {
			return g.derive(ks, &canonical{g: m.logWeight}, nil), nil
		}
		cov, err := linalg.GatherSym(m.cov, xi)
		if err != nil {
			return nil, gaussianErrorf(opMarginalize, err)
		}
		mean, err := linalg.GatherVec(m.mean, xi)
		if err != nil {
			return nil, gaussianErrorf(opMarginalize, err)
		}

		return g.derive(ks, nil, &moment{cov: cov, mean: mean, logWeight: m.logWeight}), nil
	}

	nc, err := schurMarginal(c, xi, yi)
	if err != nil {
		return nil, gaussianErrorf(opMarginalize, err)
	}

	return g.derive(ks, nc, nil), nil
}

func schurMarginal(c *canonical, xi, yi []int) (*canonical, error) {
	kyy, err := linalg.GatherSym(c.k, yi)
	if err != nil {
		return nil, err
	}
	kyyInv, err := linalg.InverseSym(kyy)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrSingularMarginal)
	}
	hy, err := linalg.GatherVec(c.h, yi)
	if err != nil {
		return nil, err
	}
	logDet, err := linalg.LogDet2Pi(kyyInv)
	if err != nil {
		return nil, err
	}
	out := &canonical{
		g: c.g + 0.5*linalg.QuadForm(hy, kyyInv, hy) + 0.5*logDet,
	}
	if len(xi) == 0 {
		return out, nil
	}

	kxx, err := linalg.GatherSym(c.k, xi)
	if err != nil {
		return nil, err
	}
	kxy, err := linalg.Gather(c.k, xi, yi)
	if err != nil {
		return nil, err
	}
	hx, err := linalg.GatherVec(c.h, xi)
	if err != nil {
		return nil, err
	}
	// t = Kxy·Kyy⁻¹
	var t, corr, k mat.Dense
	t.Mul(kxy, kyyInv)
	corr.Mul(&t, kxy.T())
	k.Sub(kxx, &corr)
	if out.k, err = linalg.Symmetrize(&k); err != nil {
		return nil, err
	}
	out.h = linalg.AddVecs(hx, -1, linalg.MulVec(&t, hy))

	return out, nil
}

// Reduce conditions on vars = values (aligned by position) and returns the
// potential over the remaining variables, in the receiver's order. No
// inversion is involved:
//
//	K' = Kxx    h' = hx − Kxy·y    g' = g + hyᵀy − ½·yᵀKyy·y
//
// Reducing every variable yields a zero-dimensional potential exp(g').
func (g *Gaussian) Reduce(vars []string, values []float64) (*Gaussian, error) {
	if len(vars) != len(values) {
		return nil, gaussianErrorf(opReduce, fmt.Errorf("%d vars, %d values: %w", len(vars), len(values), ErrDimensionMismatch))
	}
	if _, err := scope.New(vars...); err != nil {
		return nil, gaussianErrorf(opReduce, err)
	}
	if err := linalg.ValidateFiniteSlice(values); err != nil {
		return nil, gaussianErrorf(opReduce, err)
	}
	yi, err := g.scope.Remap(vars)
	if err != nil {
		return nil, gaussianErrorf(opReduce, fmt.Errorf("%w: %w", ErrUnknownVariable, err))
	}
	if len(vars) == 0 {
		return g.Clone(), nil
	}
	rest, _ := g.scope.Complement(vars)
	rs, _ := scope.New(rest...)
	xi, _ := g.scope.Remap(rest)

	c, err := g.canonicalForm()
	if err != nil {
		return nil, gaussianErrorf(opReduce, err)
	}
	y := linalg.NewVec(values)
	kyy, err := linalg.GatherSym(c.k, yi)
	if err != nil {
		return nil, gaussianErrorf(opReduce, err)
	}
	hy, err := linalg.GatherVec(c.h, yi)
	if err != nil {
		return nil, gaussianErrorf(opReduce, err)
	}
	out := &canonical{g: c.g + linalg.Dot(hy, y) - 0.5*linalg.QuadForm(y, kyy, y)}
	if len(xi) > 0 {
		if out.k, err = linalg.GatherSym(c.k, xi); err != nil {
			return nil, gaussianErrorf(opReduce, err)
		}
		kxy, err := linalg.Gather(c.k, xi, yi)
		if err != nil {
			return nil, gaussianErrorf(opReduce, err)
		}
		hx, err := linalg.GatherVec(c.h, xi)
		if err != nil {
			return nil, gaussianErrorf(opReduce, err)
		}
		out.h = linalg.AddVecs(hx, -1, linalg.MulVec(kxy, y))
	}

	return g.derive(rs, out, nil), nil
}

// AddLogWeight returns a copy whose log weight (and g) is shifted by delta.
func (g *Gaussian) AddLogWeight(delta float64) *Gaussian {
	c, m := g.snapshot()
	var (
		nc *canonical
		nm *moment
	)
	if c != nil {
		nc = &canonical{k: c.k, h: c.h, g: c.g + delta}
	}
	if m != nil {
		nm = &moment{cov: m.cov, mean: m.mean, logWeight: m.logWeight + delta}
	}

	return g.derive(g.scope, nc, nm)
}

// Normalize returns the same density with unit mass (log weight 0).
// A vacuous potential reports ErrVacuous.
func (g *Gaussian) Normalize() (*Gaussian, error) {
	m, err := g.momentForm()
	if err != nil {
		return nil, gaussianErrorf(opNormalize, err)
	}

	return g.AddLogWeight(-m.logWeight), nil
}

// Invert returns 1/g, i.e. the canonical parameters (−K, −h, −g).
func (g *Gaussian) Invert() (*Gaussian, error) {
	c, err := g.canonicalForm()
	if err != nil {
		return nil, err
	}

	return g.derive(g.scope, &canonical{
		k: linalg.ScaleSym(-1, c.k),
		h: linalg.ScaleVec(-1, c.h),
		g: -c.g,
	}, nil), nil
}

// FixNonPSD returns a copy whose matrix is replaced by its nearest positive
// definite neighbour when it fails a Cholesky check. Canonical form is
// repaired when present and moment form is then re-derived on demand, so
// the two forms never disagree. Every repair is reported to the recorder.
func (g *Gaussian) FixNonPSD() (*Gaussian, error) {
	if g.vacuous {
		return g.Clone(), nil
	}
	c, m := g.snapshot()
	rec := g.opts.recorder
	if c != nil {
		if linalg.IsPosDef(c.k) {
			return g.Clone(), nil
		}
		k, err := linalg.NearestPSD(c.k, g.opts.psdFloor)
		if err != nil {
			return nil, gaussianErrorf(opFixNonPSD, err)
		}
		rec.Warn(opFixNonPSD, diag.KindNonPSD, zap.String("matrix", "K"), zap.Stringer("vars", g.scope))

		return g.derive(g.scope, &canonical{k: k, h: c.h, g: c.g}, nil), nil
	}
	if linalg.IsPosDef(m.cov) {
		return g.Clone(), nil
	}
	cov, err := linalg.NearestPSD(m.cov, g.opts.psdFloor)
	if err != nil {
		return nil, gaussianErrorf(opFixNonPSD, err)
	}
	rec.Warn(opFixNonPSD, diag.KindNonPSD, zap.String("matrix", "cov"), zap.Stringer("vars", g.scope))

	return g.derive(g.scope, nil, &moment{cov: cov, mean: m.mean, logWeight: m.logWeight}), nil
}

// ComplexLogWeight returns log w evaluated on the principal branch, which
// stays defined when K is indefinite and det(2πΣ) is negative:
//
//	log w = g + ½·μᵀKμ + ½·log det(2πΣ)
func (g *Gaussian) ComplexLogWeight() (complex128, error) {
	if g.vacuous {
		return 0, gaussianErrorf(opComplexLogW, ErrVacuous)
	}
	c, err := g.canonicalForm()
	if err != nil {
		return 0, gaussianErrorf(opComplexLogW, err)
	}
	cov, err := linalg.InverseSym(c.k)
	if err != nil {
		return 0, gaussianErrorf(opComplexLogW, fmt.Errorf("%v: %w", err, ErrSingularPrecision))
	}
	mean := linalg.MulSymVec(cov, c.h)
	logAbs, sign := linalg.LogDetSigned(cov)
	re := c.g + 0.5*linalg.QuadForm(mean, c.k, mean) + 0.5*(float64(g.Dim())*linalg.Log2Pi+logAbs)
	var im float64
	if sign < 0 {
		im = math.Pi / 2
	}

	return complex(re, im), nil
}

func zeroCanonical(d int, g float64) *canonical {
	if d == 0 {
		return &canonical{g: g}
	}

	return &canonical{k: mat.NewSymDense(d, nil), h: mat.NewVecDense(d, nil), g: g}
}
