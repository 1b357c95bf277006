// SPDX-License-Identifier: MIT

package scope

import (
	"fmt"
	"strings"
)

// Scope is an immutable ordered set of variable names.
// The zero value is an empty scope and is ready to use.
type Scope struct {
	names []string
	index map[string]int
}

// Remap maps positions of a source ordering to positions in a target scope:
// for source element i, r[i] is its row/column in the target layout.
type Remap []int

// New builds a Scope from names, preserving their order.
// Returns ErrDuplicateVariable if a name appears more than once.
func New(names ...string) (*Scope, error) {
	s := &Scope{
		names: make([]string, len(names)),
		index: make(map[string]int, len(names)),
	}
	for i, n := range names {
		if _, dup := s.index[n]; dup {
			return nil, fmt.Errorf("New(%q): %w", n, ErrDuplicateVariable)
		}
		s.names[i] = n
		s.index[n] = i
	}

	return s, nil
}

// MustNew is New that panics on error. Intended for literals in tests and examples.
func MustNew(names ...string) *Scope {
	s, err := New(names...)
	if err != nil {
		panic(err)
	}

	return s
}

// Len returns the number of variables.
func (s *Scope) Len() int {
	if s == nil {
		return 0
	}

	return len(s.names)
}

// Names returns a copy of the ordered variable names.
func (s *Scope) Names() []string {
	if s == nil {
		return []string{}
	}
	out := make([]string, len(s.names))
	copy(out, s.names)

	return out
}

// Name returns the variable at position i.
func (s *Scope) Name(i int) string { return s.names[i] }

// Index returns the position of name and whether it is present.
func (s *Scope) Index(name string) (int, bool) {
	if s == nil {
		return 0, false
	}
	i, ok := s.index[name]

	return i, ok
}

// Contains reports whether name is in the scope.
func (s *Scope) Contains(name string) bool {
	_, ok := s.Index(name)

	return ok
}

// Equal reports whether both scopes list the same names in the same order.
func (s *Scope) Equal(o *Scope) bool {
	if s.Len() != o.Len() {
		return false
	}
	for i := 0; i < s.Len(); i++ {
		if s.names[i] != o.names[i] {
			return false
		}
	}

	return true
}

// SameSet reports whether both scopes hold the same names, ignoring order.
func (s *Scope) SameSet(o *Scope) bool {
	if s.Len() != o.Len() {
		return false
	}
	for i := 0; i < s.Len(); i++ {
		if !o.Contains(s.names[i]) {
			return false
		}
	}

	return true
}

// Union returns s followed by the names of o that are not in s.
// The receiver's order is preserved so that the left operand of a binary
// operation keeps its layout.
func (s *Scope) Union(o *Scope) *Scope {
	names := s.Names()
	for i := 0; i < o.Len(); i++ {
		if !s.Contains(o.names[i]) {
			names = append(names, o.names[i])
		}
	}

	// names are distinct by construction
	return MustNew(names...)
}

// Complement returns, in scope order, the names of s that are not listed in drop.
// Names in drop that are absent from s are reported as ErrUnknownVariable.
func (s *Scope) Complement(drop []string) ([]string, error) {
	skip := make(map[string]struct{}, len(drop))
	for _, n := range drop {
		if !s.Contains(n) {
			return nil, fmt.Errorf("Complement(%q): %w", n, ErrUnknownVariable)
		}
		skip[n] = struct{}{}
	}
	out := make([]string, 0, s.Len()-len(skip))
	for _, n := range s.names {
		if _, gone := skip[n]; !gone {
			out = append(out, n)
		}
	}

	return out, nil
}

// Remap returns the positions of names inside s.
// Returns ErrUnknownVariable for any name not in s.
func (s *Scope) Remap(names []string) (Remap, error) {
	r := make(Remap, len(names))
	for i, n := range names {
		j, ok := s.Index(n)
		if !ok {
			return nil, fmt.Errorf("Remap(%q): %w", n, ErrUnknownVariable)
		}
		r[i] = j
	}

	return r, nil
}

// Permutation returns the remap from s into order, where order must hold
// exactly the names of s. Element i of s lands at position r[i] of order.
func (s *Scope) Permutation(order []string) (Remap, error) {
	target, err := New(order...)
	if err != nil {
		return nil, fmt.Errorf("Permutation: %w", err)
	}
	if !s.SameSet(target) {
		return nil, fmt.Errorf("Permutation(%v -> %v): %w", s.names, order, ErrNotPermutation)
	}

	return target.Remap(s.names)
}

// IsIdentity reports whether r maps every position to itself.
func (r Remap) IsIdentity() bool {
	for i, j := range r {
		if i != j {
			return false
		}
	}

	return true
}

// String renders the scope as [a b c].
func (s *Scope) String() string {
	return "[" + strings.Join(s.Names(), " ") + "]"
}
