// SPDX-License-Identifier: MIT

package scope

import "errors"

var (
	// ErrDuplicateVariable is returned when a scope lists the same name twice.
	ErrDuplicateVariable = errors.New("scope: duplicate variable name")

	// ErrUnknownVariable is returned when a name is not part of the scope.
	ErrUnknownVariable = errors.New("scope: unknown variable")

	// ErrNotPermutation is returned by Permutation when the target order does not
	// list exactly the names of the scope.
	ErrNotPermutation = errors.New("scope: order is not a permutation of the scope")
)
