// SPDX-License-Identifier: MIT
package factor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/gausspot/factor"
)

func TestMarginalVars(t *testing.T) {
	t.Parallel()

	scope := []string{"a", "b", "c"}
	tests := []struct {
		name string
		vars []string
		keep bool
		want []string
	}{
		{"sum out one", []string{"b"}, false, []string{"a", "c"}},
		{"keep two, scope order", []string{"c", "a"}, true, []string{"a", "c"}},
		{"sum out nothing", nil, false, []string{"a", "b", "c"}},
		{"keep nothing", nil, true, []string{}},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := factor.MarginalVars(scope, tc.vars, tc.keep)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := factor.MarginalVars(scope, []string{"z"}, false)
	assert.ErrorIs(t, err, factor.ErrUnknownVariable)
}

func TestUnsupported(t *testing.T) {
	t.Parallel()

	err := factor.Unsupported("Divide", nil)
	assert.ErrorIs(t, err, factor.ErrUnsupportedFactor)
}
