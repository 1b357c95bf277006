// SPDX-License-Identifier: MIT
package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/gausspot/config"
	"github.com/katalvlaran/gausspot/gaussian"
	"github.com/katalvlaran/gausspot/mixture"
)

func TestLoad_EmptyKeepsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.Load(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoad_Overrides(t *testing.T) {
	t.Parallel()

	cfg, err := config.Load(strings.NewReader(`
gaussian:
  rel_tol: 1e-3
mixture:
  division: complex_moment_match
  max_iterations: 50
diagnostics:
  log_level: debug
`))
	require.NoError(t, err)
	assert.Equal(t, 1e-3, cfg.Gaussian.RelTol)
	assert.Equal(t, gaussian.DefaultAbsTol, cfg.Gaussian.AbsTol, "omitted keys keep defaults")
	assert.Equal(t, "complex_moment_match", cfg.Mixture.Division)
	assert.Equal(t, 50, cfg.Mixture.MaxIterations)

	opts, err := cfg.MixtureOptions(nil)
	require.NoError(t, err)
	g, err := gaussian.NewScalar("x", 0, 1, 0)
	require.NoError(t, err)
	m, err := mixture.New([]*gaussian.Gaussian{g}, opts...)
	require.NoError(t, err)
	assert.Equal(t, mixture.ComplexMomentMatch, m.Options().Strategy())

	rec, err := cfg.Recorder()
	require.NoError(t, err)
	assert.NotNil(t, rec.Logger())
}

func TestLoad_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		yaml string
	}{
		{"unknown key", "gaussian:\n  rtol: 1\n"},
		{"negative tolerance", "gaussian:\n  abs_tol: -1\n"},
		{"zero mode tolerance", "mixture:\n  mode_tolerance: 0\n"},
		{"unknown strategy", "mixture:\n  division: guess\n"},
		{"zero iterations", "mixture:\n  max_iterations: 0\n"},
		{"bad log level", "diagnostics:\n  log_level: loud\n"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := config.Load(strings.NewReader(tc.yaml))
			assert.Error(t, err)
		})
	}

	_, err := config.Load(strings.NewReader("mixture:\n  division: guess\n"))
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
	assert.ErrorIs(t, err, mixture.ErrUnknownStrategy)
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "gausspot.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mixture:\n  division: mode_finding\n"), 0o600))
	cfg, err := config.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "mode_finding", cfg.Mixture.Division)

	_, err = config.LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestGaussianOptions_Applied(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Gaussian.RelTol, cfg.Gaussian.AbsTol = 0.1, 0.1
	opts := cfg.GaussianOptions(nil)

	a, err := gaussian.NewScalar("x", 0, 1, 0, opts...)
	require.NoError(t, err)
	b, err := gaussian.NewScalar("x", 0.05, 1, 0)
	require.NoError(t, err)
	assert.True(t, a.Equals(b), "loose tolerances from config")
	assert.Equal(t, 0.1, a.Options().RelTol())
}
