// SPDX-License-Identifier: MIT

// Package scope models the ordered variable scope of a potential.
//
// A Scope is an ordered list of distinct variable names together with a
// name → index map. The order is significant: it fixes the row/column layout
// of every matrix and vector held by a potential. Two potentials over the
// same names in different orders are semantically equal but not
// bit-identical, so every binary operation reconciles orderings through an
// explicit Remap table built once per call:
//
//	a := scope.MustNew("x", "y")
//	b := scope.MustNew("y", "z")
//	u := a.Union(b)            // [x y z]
//	ra, _ := u.Remap(a.Names()) // [0 1]
//	rb, _ := u.Remap(b.Names()) // [1 2]
//
// Remap tables are then used by linalg gather/scatter kernels to move
// parameters between layouts without repeated linear name searches.
//
// Complexity:
//   - New, Union, Complement: O(n) time and space.
//   - Index, Contains: O(1).
//   - Remap: O(k) for k requested names.
package scope
