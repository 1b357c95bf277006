// SPDX-License-Identifier: MIT

package gaussian

import (
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/gausspot/linalg"
	"github.com/katalvlaran/gausspot/scope"
)

// Operation name constants for unified error wrapping.
const (
	opNew         = "New"
	opCanonical   = "Canonical"
	opMoment      = "Moment"
	opMultiply    = "Multiply"
	opDivide      = "Divide"
	opMarginalize = "Marginalize"
	opReduce      = "Reduce"
	opLogPot      = "LogPotential"
	opSample      = "Sample"
	opKL          = "KLDivergence"
	opReorder     = "Reorder"
	opNormalize   = "Normalize"
	opFixNonPSD   = "FixNonPSD"
	opComplexLogW = "ComplexLogWeight"
	opTemplate    = "Template"
	opLinear      = "LinearGaussian"
	opFromSamples = "FromSamples"
)

// gaussianErrorf wraps err with an operation tag, preserving it for errors.Is.
// Use only when err != nil.
func gaussianErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// Form reports which parameterisations a Gaussian currently holds.
type Form int

const (
	// FormCanonical means only (K, h, g) is populated.
	FormCanonical Form = iota + 1
	// FormMoment means only (Σ, μ, log w) is populated.
	FormMoment
	// FormBoth means both forms are populated and consistent.
	FormBoth
)

// String implements fmt.Stringer.
func (f Form) String() string {
	switch f {
	case FormCanonical:
		return "canonical"
	case FormMoment:
		return "moment"
	case FormBoth:
		return "both"
	default:
		return "unknown"
	}
}

// Params carries constructor input. Exactly one triple must be fully set:
// (Cov, Mean, LogWeight) or (K, H, G). LogWeight and G are pointers so that a
// zero value can be told apart from a missing one.
type Params struct {
	Cov       mat.Matrix
	Mean      []float64
	LogWeight *float64

	K mat.Matrix
	H []float64
	G *float64
}

// Float returns a pointer to v, for Params literals.
func Float(v float64) *float64 { return &v }

// canonical is the information form exp(-½xᵀKx + hᵀx + g).
// Values are immutable once built; nil matrices mean zero dimension.
type canonical struct {
	k *mat.SymDense
	h *mat.VecDense
	g float64
}

// moment is the weighted density w·N(x; μ, Σ).
type moment struct {
	cov       *mat.SymDense
	mean      *mat.VecDense
	logWeight float64
}

// Gaussian is an unnormalised multivariate Gaussian potential over named
// variables. Every operation returns a fresh Gaussian; a Gaussian is safe for
// concurrent use because the only internal mutation, filling in a missing
// parameterisation, happens under mu.
type Gaussian struct {
	scope   *scope.Scope
	opts    *Options
	vacuous bool

	mu  sync.Mutex
	can *canonical
	mom *moment
}

// New builds a Gaussian over vars from exactly one complete parameter triple.
//
// Errors:
//   - scope.ErrDuplicateVariable for repeated names.
//   - ErrConflictingParameters if both triples are (even partly) supplied.
//   - ErrIncompleteParameters if no triple is complete.
//   - ErrDimensionMismatch for shapes that disagree with len(vars).
//   - linalg.ErrNaNInf, linalg.ErrAsymmetry for invalid matrix entries.
func New(vars []string, p Params, opts ...Option) (*Gaussian, error) {
	hasMoment := p.Cov != nil || p.Mean != nil || p.LogWeight != nil
	hasCanonical := p.K != nil || p.H != nil || p.G != nil
	switch {
	case hasMoment && hasCanonical:
		return nil, gaussianErrorf(opNew, ErrConflictingParameters)
	case hasMoment && p.Cov != nil && p.Mean != nil && p.LogWeight != nil:
		return NewMoment(vars, p.Cov, p.Mean, *p.LogWeight, opts...)
	case hasCanonical && p.K != nil && p.H != nil && p.G != nil:
		return NewCanonical(vars, p.K, p.H, *p.G, opts...)
	}
	// zero-dimensional canonical potentials carry no matrix
	if len(vars) == 0 && p.G != nil && !hasMoment {
		return NewCanonical(vars, nil, nil, *p.G, opts...)
	}

	return nil, gaussianErrorf(opNew, ErrIncompleteParameters)
}

// NewMoment builds w·N(x; mean, cov) with log w = logWeight.
func NewMoment(vars []string, cov mat.Matrix, mean []float64, logWeight float64, opts ...Option) (*Gaussian, error) {
	s, err := scope.New(vars...)
	if err != nil {
		return nil, gaussianErrorf(opNew, err)
	}
	if s.Len() == 0 {
		return nil, gaussianErrorf(opNew, fmt.Errorf("moment form needs at least one variable: %w", ErrDimensionMismatch))
	}
	c, err := checkedSym(cov, s.Len())
	if err != nil {
		return nil, gaussianErrorf(opNew, err)
	}
	m, err := checkedVec(mean, s.Len())
	if err != nil {
		return nil, gaussianErrorf(opNew, err)
	}
	if err = linalg.ValidateFiniteSlice([]float64{logWeight}); err != nil {
		return nil, gaussianErrorf(opNew, err)
	}

	return fromMoment(s, &moment{cov: c, mean: m, logWeight: logWeight}, gatherOptions(opts...)), nil
}

// NewCanonical builds exp(-½xᵀKx + hᵀx + g). K may be indefinite or zero.
func NewCanonical(vars []string, k mat.Matrix, h []float64, g float64, opts ...Option) (*Gaussian, error) {
	s, err := scope.New(vars...)
	if err != nil {
		return nil, gaussianErrorf(opNew, err)
	}
	var (
		ks *mat.SymDense
		hv *mat.VecDense
	)
	if s.Len() > 0 {
		if ks, err = checkedSym(k, s.Len()); err != nil {
			return nil, gaussianErrorf(opNew, err)
		}
		if hv, err = checkedVec(h, s.Len()); err != nil {
			return nil, gaussianErrorf(opNew, err)
		}
	}
	if math.IsNaN(g) || math.IsInf(g, 0) {
		return nil, gaussianErrorf(opNew, linalg.ErrNaNInf)
	}

	return fromCanonical(s, &canonical{k: ks, h: hv, g: g}, gatherOptions(opts...)), nil
}

// NewScalar builds a one-dimensional Gaussian weight·N(x; mean, variance).
func NewScalar(name string, mean, variance, logWeight float64, opts ...Option) (*Gaussian, error) {
	return NewMoment([]string{name}, mat.NewSymDense(1, []float64{variance}), []float64{mean}, logWeight, opts...)
}

// Vacuous returns the constant potential exp(g) over vars (K = 0, h = 0).
func Vacuous(vars []string, g float64, opts ...Option) (*Gaussian, error) {
	d := len(vars)
	var k mat.Matrix
	if d > 0 {
		k = mat.NewSymDense(d, nil)
	}

	return NewCanonical(vars, k, make([]float64, d), g, opts...)
}

func fromCanonical(s *scope.Scope, c *canonical, o *Options) *Gaussian {
	return &Gaussian{scope: s, opts: o, can: c, vacuous: linalg.IsZero(c.k, o.vacuumTol)}
}

func fromMoment(s *scope.Scope, m *moment, o *Options) *Gaussian {
	return &Gaussian{scope: s, opts: o, mom: m}
}

// derive builds a sibling that shares the receiver's options.
func (g *Gaussian) derive(s *scope.Scope, c *canonical, m *moment) *Gaussian {
	out := &Gaussian{scope: s, opts: g.opts, can: c, mom: m}
	if c != nil {
		out.vacuous = linalg.IsZero(c.k, g.opts.vacuumTol)
	}

	return out
}

func checkedSym(a mat.Matrix, n int) (*mat.SymDense, error) {
	if a == nil {
		return nil, ErrIncompleteParameters
	}
	if err := linalg.ValidateSquareDim(a, n); err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrDimensionMismatch)
	}
	if err := linalg.ValidateFinite(a); err != nil {
		return nil, err
	}
	if err := linalg.ValidateSymmetric(a, 1e-9*(1+mat.Norm(a, math.Inf(1)))); err != nil {
		return nil, err
	}

	return linalg.Symmetrize(a)
}

func checkedVec(x []float64, n int) (*mat.VecDense, error) {
	if err := linalg.ValidateVecLen(x, n); err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrDimensionMismatch)
	}
	if err := linalg.ValidateFiniteSlice(x); err != nil {
		return nil, err
	}

	return linalg.NewVec(x), nil
}

// snapshot returns the populated forms. Both values are immutable.
func (g *Gaussian) snapshot() (*canonical, *moment) {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.can, g.mom
}

// canonicalForm returns (K, h, g), deriving and caching it from moment form.
func (g *Gaussian) canonicalForm() (*canonical, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.can != nil {
		return g.can, nil
	}
	c, err := momentToCanonical(g.mom)
	if err != nil {
		return nil, gaussianErrorf(opCanonical, err)
	}
	g.can = c

	return c, nil
}

// momentForm returns (Σ, μ, log w), deriving and caching it from canonical form.
func (g *Gaussian) momentForm() (*moment, error) {
	if g.vacuous {
		return nil, gaussianErrorf(opMoment, ErrVacuous)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.mom != nil {
		return g.mom, nil
	}
	m, err := canonicalToMoment(g.can)
	if err != nil {
		return nil, gaussianErrorf(opMoment, err)
	}
	g.mom = m

	return m, nil
}

// Vars returns the ordered variable names.
func (g *Gaussian) Vars() []string { return g.scope.Names() }

// Dim returns the number of variables.
func (g *Gaussian) Dim() int { return g.scope.Len() }

// Scope returns the variable scope.
func (g *Gaussian) Scope() *scope.Scope { return g.scope }

// Options returns the numeric policy the Gaussian was built with.
func (g *Gaussian) Options() *Options { return g.opts }

// Form reports the populated parameterisations.
func (g *Gaussian) Form() Form {
	c, m := g.snapshot()
	switch {
	case c != nil && m != nil:
		return FormBoth
	case m != nil:
		return FormMoment
	default:
		return FormCanonical
	}
}

// IsVacuous reports whether K is zero within the vacuum tolerance.
func (g *Gaussian) IsVacuous() bool { return g.vacuous }

// K returns a copy of the precision matrix (nil for zero dimension).
func (g *Gaussian) K() (*mat.SymDense, error) {
	c, err := g.canonicalForm()
	if err != nil {
		return nil, err
	}

	return linalg.CloneSym(c.k), nil
}

// H returns a copy of the information vector.
func (g *Gaussian) H() ([]float64, error) {
	c, err := g.canonicalForm()
	if err != nil {
		return nil, err
	}

	return linalg.VecData(c.h), nil
}

// G returns the canonical log-constant g.
func (g *Gaussian) G() (float64, error) {
	c, err := g.canonicalForm()
	if err != nil {
		return 0, err
	}

	return c.g, nil
}

// Cov returns a copy of the covariance matrix.
// A vacuous potential reports ErrVacuous.
func (g *Gaussian) Cov() (*mat.SymDense, error) {
	m, err := g.momentForm()
	if err != nil {
		return nil, err
	}

	return linalg.CloneSym(m.cov), nil
}

// Mean returns a copy of the mean vector.
func (g *Gaussian) Mean() ([]float64, error) {
	m, err := g.momentForm()
	if err != nil {
		return nil, err
	}

	return linalg.VecData(m.mean), nil
}

// LogWeight returns log w, the log of the total mass.
func (g *Gaussian) LogWeight() (float64, error) {
	m, err := g.momentForm()
	if err != nil {
		return 0, err
	}

	return m.logWeight, nil
}

// Weight returns w = exp(LogWeight()).
func (g *Gaussian) Weight() (float64, error) {
	lw, err := g.LogWeight()
	if err != nil {
		return 0, err
	}

	return math.Exp(lw), nil
}

// HasCov reports whether a covariance exists, i.e. moment form is populated
// or K can be inverted.
func (g *Gaussian) HasCov() bool {
	if g.vacuous {
		return false
	}
	_, err := g.momentForm()

	return err == nil
}

// Clone returns a copy holding the same populated forms.
func (g *Gaussian) Clone() *Gaussian {
	c, m := g.snapshot()

	return g.derive(g.scope, c, m)
}

// Reorder returns the same potential laid out in order, which must list
// exactly the receiver's variables.
func (g *Gaussian) Reorder(order []string) (*Gaussian, error) {
	perm, err := g.scope.Permutation(order)
	if err != nil {
		return nil, gaussianErrorf(opReorder, err)
	}
	if perm.IsIdentity() {
		return g.Clone(), nil
	}
	s, err := scope.New(order...)
	if err != nil {
		return nil, gaussianErrorf(opReorder, err)
	}
	c, m := g.snapshot()
	d := s.Len()
	var (
		nc *canonical
		nm *moment
	)
	if c != nil {
		k, err := linalg.ScatterSym(c.k, perm, d)
		if err != nil {
			return nil, gaussianErrorf(opReorder, err)
		}
		h, err := linalg.ScatterVec(c.h, perm, d)
		if err != nil {
			return nil, gaussianErrorf(opReorder, err)
		}
		nc = &canonical{k: k, h: h, g: c.g}
	}
	if m != nil {
		cov, err := linalg.ScatterSym(m.cov, perm, d)
		if err != nil {
			return nil, gaussianErrorf(opReorder, err)
		}
		mean, err := linalg.ScatterVec(m.mean, perm, d)
		if err != nil {
			return nil, gaussianErrorf(opReorder, err)
		}
		nm = &moment{cov: cov, mean: mean, logWeight: m.logWeight}
	}
	out := g.derive(s, nc, nm)
	out.vacuous = g.vacuous

	return out, nil
}

// String renders the populated forms with gonum's formatter.
func (g *Gaussian) String() string {
	c, m := g.snapshot()
	out := fmt.Sprintf("Gaussian%s", g.scope)
	if g.vacuous {
		return out + fmt.Sprintf(" vacuous g=%.6g", c.g)
	}
	if c != nil {
		out += fmt.Sprintf("\nK =\n%v\nh = %v\ng = %.6g",
			mat.Formatted(c.k, mat.Squeeze()), linalg.VecData(c.h), c.g)
	}
	if m != nil {
		out += fmt.Sprintf("\ncov =\n%v\nmean = %v\nlog_weight = %.6g",
			mat.Formatted(m.cov, mat.Squeeze()), linalg.VecData(m.mean), m.logWeight)
	}

	return out
}
