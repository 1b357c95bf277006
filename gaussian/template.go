// SPDX-License-Identifier: MIT
// Package gaussian: reusable parameter templates and linear-Gaussian CPDs.
//
// A Template pairs canonical parameters with variable-name templates such as
// "pos_{i}_{t}". MakeFactor substitutes every "{key}" with its value, which
// lets one parameter set be stamped out over many time steps or objects.

package gaussian

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/gausspot/linalg"
)

// Template is an immutable canonical prototype with templated variable names.
type Template struct {
	k            *mat.SymDense
	h            *mat.VecDense
	g            float64
	varTemplates []string
	opts         []Option
}

// NewTemplate validates (K, h, g) against varTemplates and stores copies.
func NewTemplate(k mat.Matrix, h []float64, g float64, varTemplates []string, opts ...Option) (*Template, error) {
	proto, err := NewCanonical(varTemplates, k, h, g, opts...)
	if err != nil {
		return nil, gaussianErrorf(opTemplate, err)
	}
	c, _ := proto.snapshot()
	vt := make([]string, len(varTemplates))
	copy(vt, varTemplates)

	return &Template{k: c.k, h: c.h, g: c.g, varTemplates: vt, opts: opts}, nil
}

// VarTemplates returns a copy of the variable-name templates.
func (t *Template) VarTemplates() []string {
	out := make([]string, len(t.varTemplates))
	copy(out, t.varTemplates)

	return out
}

// MakeFactor formats every variable template with values and instantiates
// the Gaussian.
//
// Errors:
//   - ErrTemplateFormat if a placeholder is left unresolved.
func (t *Template) MakeFactor(values map[string]string) (*Gaussian, error) {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		pairs = append(pairs, "{"+k+"}", values[k])
	}
	r := strings.NewReplacer(pairs...)

	vars := make([]string, len(t.varTemplates))
	for i, vt := range t.varTemplates {
		vars[i] = r.Replace(vt)
		if strings.ContainsRune(vars[i], '{') || strings.ContainsRune(vars[i], '}') {
			return nil, gaussianErrorf(opTemplate, fmt.Errorf("%q: %w", vars[i], ErrTemplateFormat))
		}
	}

	return t.MakeFactorWithVars(vars)
}

// MakeFactorWithVars instantiates the Gaussian over explicit variable names,
// which must match the template arity.
func (t *Template) MakeFactorWithVars(vars []string) (*Gaussian, error) {
	if len(vars) != len(t.varTemplates) {
		return nil, gaussianErrorf(opTemplate, ErrDimensionMismatch)
	}

	return NewCanonical(vars, t.k, linalg.VecData(t.h), t.g, t.opts...)
}

// LinearGaussian returns the conditional density p(y | x) of y = A·x + ε,
// ε ~ N(0, noise), as a canonical potential over condVars followed by
// outVars:
//
//	K = [ AᵀN⁻¹A  −AᵀN⁻¹ ]    h = 0    g = −½·log|2πN|
//	    [ −N⁻¹A    N⁻¹   ]
//
// a is len(outVars)×len(condVars); noise is len(outVars)×len(outVars) and
// must be positive definite.
func LinearGaussian(a, noise mat.Matrix, condVars, outVars []string, opts ...Option) (*Gaussian, error) {
	nx, ny := len(condVars), len(outVars)
	if ny == 0 {
		return nil, gaussianErrorf(opLinear, ErrDimensionMismatch)
	}
	if r, c := a.Dims(); r != ny || c != nx {
		return nil, gaussianErrorf(opLinear, fmt.Errorf("A is %d×%d, want %d×%d: %w", r, c, ny, nx, ErrDimensionMismatch))
	}
	n, err := checkedSym(noise, ny)
	if err != nil {
		return nil, gaussianErrorf(opLinear, err)
	}
	if !linalg.IsPosDef(n) {
		return nil, gaussianErrorf(opLinear, ErrNotPositiveDefinite)
	}
	nInv, err := linalg.InverseSym(n)
	if err != nil {
		return nil, gaussianErrorf(opLinear, err)
	}
	logDet, err := linalg.LogDet2Pi(n)
	if err != nil {
		return nil, gaussianErrorf(opLinear, err)
	}

	var nA, atnA mat.Dense
	nA.Mul(nInv, a)      // ny×nx
	atnA.Mul(a.T(), &nA) // nx×nx
	d := nx + ny
	k := mat.NewSymDense(d, nil)
	for i := 0; i < nx; i++ {
		for j := i; j < nx; j++ {
			k.SetSym(i, j, atnA.At(i, j))
		}
		for j := 0; j < ny; j++ {
			k.SetSym(i, nx+j, -nA.At(j, i))
		}
	}
	for i := 0; i < ny; i++ {
		for j := i; j < ny; j++ {
			k.SetSym(nx+i, nx+j, nInv.At(i, j))
		}
	}
	vars := append(append(make([]string, 0, d), condVars...), outVars...)

	return NewCanonical(vars, k, make([]float64, d), -0.5*logDet, opts...)
}

// LinearGaussianTemplate wraps LinearGaussian as a Template over variable-name
// templates.
func LinearGaussianTemplate(a, noise mat.Matrix, condTemplates, outTemplates []string, opts ...Option) (*Template, error) {
	lg, err := LinearGaussian(a, noise, condTemplates, outTemplates, opts...)
	if err != nil {
		return nil, err
	}
	c, _ := lg.snapshot()

	return &Template{k: c.k, h: c.h, g: c.g, varTemplates: lg.Vars(), opts: opts}, nil
}
