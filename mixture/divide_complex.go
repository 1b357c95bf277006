// SPDX-License-Identifier: MIT
// Package mixture: mixture quotient by complex moment matching.
//
// A/B = Σ_i a_i/B and 1/(a_i/B) = Σ_j b_j/a_i. Each inverse mixture
// Σ_j b_j/a_i is moment matched and the single Gaussian it yields is
// inverted back. Inverse components usually have indefinite precisions, so
// their covariances have negative determinants and their weights negative
// normalisers. Matching is therefore carried out in complex arithmetic and
// only the final canonical parameters return to the reals.

package mixture

import (
	"fmt"
	"math"
	"math/cmplx"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/gausspot/diag"
	"github.com/katalvlaran/gausspot/gaussian"
	"github.com/katalvlaran/gausspot/linalg"
)

// inverseMoments holds the (possibly indefinite) moments of one inverse component.
type inverseMoments struct {
	cov       *mat.SymDense
	mean      []float64
	logWeight complex128
}

func (m *Mixture) divideComplex(other *Mixture) (*Mixture, error) {
	if err := m.sameVarSet(opComplex, other); err != nil {
		return nil, err
	}
	vars := m.Vars()
	den := make([]*gaussian.Gaussian, other.Len())
	for j, b := range other.components {
		r, err := b.Reorder(vars)
		if err != nil {
			return nil, mixtureErrorf(opComplex, err)
		}
		den[j] = r
	}

	out := make([]*gaussian.Gaussian, 0, m.Len())
	for i, a := range m.components {
		parts := make([]inverseMoments, len(den))
		for j, b := range den {
			inv, err := b.Divide(a)
			if err != nil {
				return nil, mixtureErrorf(opComplex, err)
			}
			if parts[j], err = momentsOf(inv); err != nil {
				return nil, mixtureErrorf(opComplex, fmt.Errorf("b%d/a%d: %w", j, i, err))
			}
		}
		matched, err := m.matchComplex(parts)
		if err != nil {
			return nil, mixtureErrorf(opComplex, fmt.Errorf("a%d: %w", i, err))
		}
		q, err := matched.Invert()
		if err != nil {
			return nil, mixtureErrorf(opComplex, err)
		}
		if k, err := q.K(); err != nil || !linalg.IsPosDef(k) {
			m.opts.recorder.Warn(opComplex, diag.KindNonPositiveDefinite, zap.Int("component", i))
		}
		out = append(out, q)
	}

	return m.derive(out)
}

// momentsOf reads Σ = K⁻¹, μ = Σh and the principal-branch log weight of an
// inverse component.
func momentsOf(g *gaussian.Gaussian) (inverseMoments, error) {
	k, err := g.K()
	if err != nil {
		return inverseMoments{}, err
	}
	h, err := g.H()
	if err != nil {
		return inverseMoments{}, err
	}
	cov, err := linalg.InverseSym(k)
	if err != nil {
		return inverseMoments{}, fmt.Errorf("%v: %w", err, gaussian.ErrSingularPrecision)
	}
	lw, err := g.ComplexLogWeight()
	if err != nil {
		return inverseMoments{}, err
	}

	return inverseMoments{
		cov:       cov,
		mean:      linalg.VecData(linalg.MulSymVec(cov, linalg.NewVec(h))),
		logWeight: lw,
	}, nil
}

// matchComplex moment matches the inverse components and converts the
// result to a real canonical Gaussian. Imaginary parts beyond the tolerance
// are reported and dropped.
func (m *Mixture) matchComplex(parts []inverseMoments) (*gaussian.Gaussian, error) {
	d := m.Dim()
	shift := math.Inf(-1)
	for _, p := range parts {
		shift = math.Max(shift, real(p.logWeight))
	}
	w := make([]complex128, len(parts))
	var total complex128
	for j, p := range parts {
		w[j] = cmplx.Exp(p.logWeight - complex(shift, 0))
		total += w[j]
	}
	if total == 0 {
		return nil, gaussian.ErrSingularCovariance
	}
	logTotal := cmplx.Log(total) + complex(shift, 0)

	mean := make([]complex128, d)
	for j, p := range parts {
		pj := w[j] / total
		for r := 0; r < d; r++ {
			mean[r] += pj * complex(p.mean[r], 0)
		}
	}
	cov := mat.NewCDense(d, d, nil)
	diff := make([]complex128, d)
	for j, p := range parts {
		pj := w[j] / total
		for r := 0; r < d; r++ {
			diff[r] = complex(p.mean[r], 0) - mean[r]
		}
		for r := 0; r < d; r++ {
			for c := 0; c < d; c++ {
				cov.Set(r, c, cov.At(r, c)+pj*(complex(p.cov.At(r, c), 0)+diff[r]*diff[c]))
			}
		}
	}

	kc, err := linalg.CInverse(cov)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, gaussian.ErrSingularCovariance)
	}
	det, err := linalg.CDet(cov)
	if err != nil {
		return nil, err
	}
	hc := linalg.CMulVec(kc, mean)
	gc := logTotal - 0.5*linalg.CDot(mean, hc) - 0.5*(cmplx.Log(det)+complex(float64(d)*linalg.Log2Pi, 0))

	kr, imagK := linalg.RealPart(kc)
	hr, imagH := linalg.RealPartVec(hc)
	imagG := math.Abs(math.Remainder(imag(gc), 2*math.Pi))
	if worst := math.Max(imagG, math.Max(imagK, imagH)); worst > m.opts.imagTol {
		m.opts.recorder.Warn(opComplex, diag.KindImaginaryRemainder,
			zap.Float64("imag_k", imagK), zap.Float64("imag_h", imagH), zap.Float64("imag_g", imagG))
	}
	k, err := linalg.Symmetrize(kr)
	if err != nil {
		return nil, err
	}

	return gaussian.NewCanonical(m.Vars(), k, hr, real(gc), m.gaussianOptions()...)
}
