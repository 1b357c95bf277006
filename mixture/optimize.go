// SPDX-License-Identifier: MIT
// Package mixture: global extrema of a mixture's log density.
//
// Approach:
//   - Work on canonical parameters only, so indefinite ("inverse")
//     components are handled like ordinary ones.
//   - log p(x) = LSE_i(−½xᵀK_ix + h_iᵀx + g_i),
//     ∇ log p(x) = Σ_i softmax_i·(h_i − K_i·x).
//   - Multi-start BFGS (gonum optimize) from every component centre K_i⁻¹h_i
//     (plus caller seeds); a start counts only if its gradient vanishes.

package mixture

import (
	"fmt"
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"

	"github.com/katalvlaran/gausspot/gaussian"
	"github.com/katalvlaran/gausspot/linalg"
)

// logDensity is the canonical parameter set of a mixture in one variable order.
type logDensity struct {
	d int
	k []*mat.SymDense
	h []*mat.VecDense
	g []float64
}

func newLogDensity(components []*gaussian.Gaussian) (*logDensity, error) {
	ld := &logDensity{d: components[0].Dim()}
	for i, c := range components {
		k, err := c.K()
		if err != nil {
			return nil, fmt.Errorf("component %d: %w", i, err)
		}
		h, err := c.H()
		if err != nil {
			return nil, fmt.Errorf("component %d: %w", i, err)
		}
		g, err := c.G()
		if err != nil {
			return nil, fmt.Errorf("component %d: %w", i, err)
		}
		ld.k = append(ld.k, k)
		ld.h = append(ld.h, linalg.NewVec(h))
		ld.g = append(ld.g, g)
	}

	return ld, nil
}

// terms returns the per-component exponents at x.
func (ld *logDensity) terms(xv *mat.VecDense) []float64 {
	t := make([]float64, len(ld.g))
	for i := range ld.g {
		t[i] = -0.5*linalg.QuadForm(xv, ld.k[i], xv) + linalg.Dot(ld.h[i], xv) + ld.g[i]
	}

	return t
}

// value returns log p(x).
func (ld *logDensity) value(x []float64) float64 {
	return floats.LogSumExp(ld.terms(mat.NewVecDense(ld.d, x)))
}

// gradient writes ∇ log p(x) into dst.
func (ld *logDensity) gradient(dst, x []float64) {
	xv := mat.NewVecDense(ld.d, x)
	t := ld.terms(xv)
	lse := floats.LogSumExp(t)
	for i := range dst {
		dst[i] = 0
	}
	var kx mat.VecDense
	for i := range t {
		p := math.Exp(t[i] - lse)
		kx.MulVec(ld.k[i], xv)
		for j := range dst {
			dst[j] += p * (ld.h[i].AtVec(j) - kx.AtVec(j))
		}
	}
}

// centres returns K_i⁻¹h_i for every component whose precision inverts.
func (ld *logDensity) centres() [][]float64 {
	var out [][]float64
	for i := range ld.k {
		cov, err := linalg.InverseSym(ld.k[i])
		if err != nil {
			continue
		}
		out = append(out, linalg.VecData(linalg.MulSymVec(cov, ld.h[i])))
	}

	return out
}

// objective is a scalar function with its analytic gradient.
type objective struct {
	f    func(x []float64) float64
	grad func(dst, x []float64)
}

func (ld *logDensity) maximize() objective {
	return objective{
		f: func(x []float64) float64 { return -ld.value(x) },
		grad: func(dst, x []float64) {
			ld.gradient(dst, x)
			floats.Scale(-1, dst)
		},
	}
}

func (ld *logDensity) minimize() objective {
	return objective{f: ld.value, grad: ld.gradient}
}

// optimum is one converged start.
type optimum struct {
	x []float64
	f float64
}

// multiStart runs BFGS from every seed and returns the converged optima.
// Every start is reported to the recorder.
func (m *Mixture) multiStart(op string, obj objective, seeds [][]float64) []optimum {
	rec := m.opts.recorder
	settings := &optimize.Settings{
		GradientThreshold: m.opts.gradTol * 1e-3,
		MajorIterations:   m.opts.maxIter,
	}
	problem := optimize.Problem{Func: obj.f, Grad: obj.grad}
	var out []optimum
	for s, seed := range seeds {
		res, err := optimize.Minimize(problem, seed, settings, &optimize.BFGS{})
		if res == nil {
			rec.Optimization(op, false, zap.Int("start", s), zap.Error(err))

			continue
		}
		g := make([]float64, len(seed))
		obj.grad(g, res.X)
		gn := floats.Norm(g, math.Inf(1))
		ok := !math.IsNaN(res.F) && !math.IsInf(res.F, 0) && gn <= m.opts.gradTol
		fields := []zap.Field{zap.Int("start", s), zap.Stringer("status", res.Status), zap.Float64("grad_norm", gn)}
		if err != nil {
			fields = append(fields, zap.Error(err))
		}
		rec.Optimization(op, ok, fields...)
		if ok {
			out = append(out, optimum{x: res.X, f: res.F})
		}
	}

	return out
}

// extremum minimises obj from the component centres and the extra seeds and
// returns the best converged point.
func (m *Mixture) extremum(op string, ld *logDensity, obj objective, extra [][]float64) ([]float64, error) {
	if ld.d == 0 {
		return []float64{}, nil
	}
	seeds := append(ld.centres(), extra...)
	if len(seeds) == 0 {
		seeds = [][]float64{make([]float64, ld.d)}
	}
	found := m.multiStart(op, obj, seeds)
	if len(found) == 0 {
		return nil, mixtureErrorf(op, ErrOptimizationFailed)
	}
	best := found[0]
	for _, o := range found[1:] {
		if o.f < best.f {
			best = o
		}
	}

	return best.x, nil
}

// Argmax returns the global maximiser of the mixture density among the
// optima reached from every component centre and the given seeds.
//
// Errors:
//   - ErrOptimizationFailed when no start converges.
func (m *Mixture) Argmax(seeds ...[]float64) ([]float64, error) {
	ld, err := newLogDensity(m.components)
	if err != nil {
		return nil, mixtureErrorf(opArgmax, err)
	}

	return m.extremum(opArgmax, ld, ld.maximize(), seeds)
}

// Argmin returns the global minimiser of the mixture density. It is meant
// for mixtures of inverse Gaussians (negative definite precisions), whose
// minima are the modes of the quotient they were divided from.
//
// Errors:
//   - ErrOptimizationFailed when no start converges.
func (m *Mixture) Argmin(seeds ...[]float64) ([]float64, error) {
	ld, err := newLogDensity(m.components)
	if err != nil {
		return nil, mixtureErrorf(opArgmin, err)
	}

	return m.extremum(opArgmin, ld, ld.minimize(), seeds)
}
