// SPDX-License-Identifier: MIT

package factor

import (
	"errors"
	"fmt"
)

// ErrUnsupportedFactor is returned when an operation receives a factor kind it
// cannot combine with.
var ErrUnsupportedFactor = errors.New("factor: unsupported factor type")

// ErrUnknownVariable is returned when a variable list names a variable outside
// the factor's scope.
var ErrUnknownVariable = errors.New("factor: unknown variable")

// Factor is the generic potential contract.
type Factor interface {
	// Vars returns the ordered variable scope.
	Vars() []string

	MultiplyFactor(other Factor) (Factor, error)
	DivideFactor(other Factor) (Factor, error)

	// MarginalizeFactor integrates out vars, or everything except vars when keep is true.
	MarginalizeFactor(vars []string, keep bool) (Factor, error)

	// ReduceFactor conditions on vars taking values (aligned by position).
	ReduceFactor(vars []string, values []float64) (Factor, error)

	EqualsFactor(other Factor) bool
}

// MarginalVars resolves the variables to keep after marginalising vars out of
// scope (keep == false) or onto vars (keep == true). The result follows scope
// order. Every name in vars must be in scope.
func MarginalVars(scope, vars []string, keep bool) ([]string, error) {
	listed := make(map[string]struct{}, len(vars))
	in := make(map[string]struct{}, len(scope))
	for _, v := range scope {
		in[v] = struct{}{}
	}
	for _, v := range vars {
		if _, ok := in[v]; !ok {
			return nil, fmt.Errorf("MarginalVars(%q): %w", v, ErrUnknownVariable)
		}
		listed[v] = struct{}{}
	}
	out := make([]string, 0, len(scope))
	for _, v := range scope {
		if _, ok := listed[v]; ok == keep {
			out = append(out, v)
		}
	}

	return out, nil
}

// Unsupported builds the standard error for an operation on an incompatible
// operand.
func Unsupported(op string, other Factor) error {
	return fmt.Errorf("%s(%T): %w", op, other, ErrUnsupportedFactor)
}
