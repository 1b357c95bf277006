// SPDX-License-Identifier: MIT

package mixture

import (
	"fmt"
	"strings"

	"github.com/katalvlaran/gausspot/gaussian"
)

// Operation name constants for unified error wrapping.
const (
	opNew         = "New"
	opMultiply    = "Multiply"
	opDivide      = "Divide"
	opModes       = "DivideModeFinding"
	opComplex     = "DivideComplexMomentMatch"
	opMarginalize = "Marginalize"
	opReduce      = "Reduce"
	opLogWeight   = "LogWeight"
	opLogPot      = "LogPotential"
	opMomentMatch = "MomentMatch"
	opSample      = "Sample"
	opArgmax      = "Argmax"
	opArgmin      = "Argmin"
	opSplit       = "Split"
)

// mixtureErrorf wraps err with an operation tag, preserving it for errors.Is.
func mixtureErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// Mixture is a finite sum of Gaussian potentials over one variable set.
// Components are stored in a common variable order (that of the first
// component given to New). A Mixture is immutable.
type Mixture struct {
	components []*gaussian.Gaussian
	opts       *Options
}

// New builds a mixture from copies of components.
//
// Errors:
//   - ErrEmptyMixture for an empty list.
//   - ErrScopeMismatch if the components do not share one variable set.
func New(components []*gaussian.Gaussian, opts ...Option) (*Mixture, error) {
	return build(components, gatherOptions(opts...))
}

// build aligns components to the first one's order and takes ownership of
// the aligned copies.
func build(components []*gaussian.Gaussian, o *Options) (*Mixture, error) {
	if len(components) == 0 {
		return nil, mixtureErrorf(opNew, ErrEmptyMixture)
	}
	vars := components[0].Vars()
	out := make([]*gaussian.Gaussian, len(components))
	for i, c := range components {
		if !c.Scope().SameSet(components[0].Scope()) {
			return nil, mixtureErrorf(opNew, fmt.Errorf("component %d %v vs %v: %w", i, c.Scope(), components[0].Scope(), ErrScopeMismatch))
		}
		r, err := c.Reorder(vars)
		if err != nil {
			return nil, mixtureErrorf(opNew, err)
		}
		out[i] = r
	}

	return &Mixture{components: out, opts: o}, nil
}

// derive builds a result mixture sharing the receiver's options.
func (m *Mixture) derive(components []*gaussian.Gaussian) (*Mixture, error) {
	return build(components, m.opts)
}

// Components returns the component list. Gaussians are immutable, so the
// elements are shared; the slice is a copy.
func (m *Mixture) Components() []*gaussian.Gaussian {
	out := make([]*gaussian.Gaussian, len(m.components))
	copy(out, m.components)

	return out
}

// Component returns component i.
func (m *Mixture) Component(i int) *gaussian.Gaussian { return m.components[i] }

// Len returns the number of components.
func (m *Mixture) Len() int { return len(m.components) }

// Vars returns the common variable order.
func (m *Mixture) Vars() []string { return m.components[0].Vars() }

// Dim returns the number of variables.
func (m *Mixture) Dim() int { return m.components[0].Dim() }

// Options returns the mixture's configuration.
func (m *Mixture) Options() *Options { return m.opts }

// IsVacuous reports whether every component is vacuous.
func (m *Mixture) IsVacuous() bool {
	for _, c := range m.components {
		if !c.IsVacuous() {
			return false
		}
	}

	return true
}

// Clone returns a mixture with cloned components and the same options.
func (m *Mixture) Clone() *Mixture {
	out := make([]*gaussian.Gaussian, len(m.components))
	for i, c := range m.components {
		out[i] = c.Clone()
	}

	return &Mixture{components: out, opts: m.opts}
}

// Equals reports whether both mixtures hold pairwise-equal components, in
// any order (multiset comparison).
func (m *Mixture) Equals(other *Mixture) bool {
	if other == nil || m.Len() != other.Len() {
		return false
	}
	used := make([]bool, other.Len())
	for _, a := range m.components {
		found := false
		for j, b := range other.components {
			if !used[j] && a.Equals(b) {
				used[j], found = true, true

				break
			}
		}
		if !found {
			return false
		}
	}

	return true
}

// String renders every component.
func (m *Mixture) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Mixture%v with %d components", m.components[0].Scope(), m.Len())
	for i, c := range m.components {
		fmt.Fprintf(&b, "\n--- component %d ---\n%s", i, c)
	}

	return b.String()
}
