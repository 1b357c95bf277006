// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/gausspot/diag"
	"github.com/katalvlaran/gausspot/gaussian"
	"github.com/katalvlaran/gausspot/mixture"
)

// ErrInvalidConfig is returned by Validate and the loaders for values that
// the option constructors would reject.
var ErrInvalidConfig = errors.New("config: invalid value")

// Config is the numeric policy of a gausspot deployment.
type Config struct {
	Gaussian    GaussianConfig    `yaml:"gaussian"`
	Mixture     MixtureConfig     `yaml:"mixture"`
	Diagnostics DiagnosticsConfig `yaml:"diagnostics"`
}

// GaussianConfig mirrors gaussian.Options.
type GaussianConfig struct {
	RelTol    float64 `yaml:"rel_tol"`
	AbsTol    float64 `yaml:"abs_tol"`
	VacuumTol float64 `yaml:"vacuum_tol"`
	PSDFloor  float64 `yaml:"psd_floor"`
}

// MixtureConfig mirrors mixture.Options. Division is a strategy name
// accepted by mixture.ParseStrategy.
type MixtureConfig struct {
	Division          string  `yaml:"division"`
	ModeTolerance     float64 `yaml:"mode_tolerance"`
	GradientTolerance float64 `yaml:"gradient_tolerance"`
	ImagTolerance     float64 `yaml:"imaginary_tolerance"`
	MaxIterations     int     `yaml:"max_iterations"`
}

// DiagnosticsConfig selects the log level of numerical warnings. An empty
// level disables logging; counters are kept either way.
type DiagnosticsConfig struct {
	LogLevel string `yaml:"log_level"`
}

// Default returns the library defaults.
func Default() Config {
	return Config{
		Gaussian: GaussianConfig{
			RelTol:    gaussian.DefaultRelTol,
			AbsTol:    gaussian.DefaultAbsTol,
			VacuumTol: gaussian.DefaultVacuumTol,
			PSDFloor:  gaussian.DefaultPSDFloor,
		},
		Mixture: MixtureConfig{
			Division:          mixture.MomentMatch.String(),
			ModeTolerance:     mixture.DefaultModeTolerance,
			GradientTolerance: mixture.DefaultGradientTolerance,
			ImagTolerance:     mixture.DefaultImaginaryTolerance,
			MaxIterations:     mixture.DefaultMaxIterations,
		},
	}
}

// Load decodes YAML from r over Default and validates the result. Unknown
// keys are rejected.
func Load(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadFile is Load on the file at path.
func LoadFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	defer f.Close()

	return Load(f)
}

// Validate checks every field against the ranges the option constructors accept.
func (c Config) Validate() error {
	nonNegative := map[string]float64{
		"gaussian.rel_tol":    c.Gaussian.RelTol,
		"gaussian.abs_tol":    c.Gaussian.AbsTol,
		"gaussian.vacuum_tol": c.Gaussian.VacuumTol,
		"gaussian.psd_floor":  c.Gaussian.PSDFloor,
	}
	for name, v := range nonNegative {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("%s = %v: %w", name, v, ErrInvalidConfig)
		}
	}
	positive := map[string]float64{
		"mixture.mode_tolerance":      c.Mixture.ModeTolerance,
		"mixture.gradient_tolerance":  c.Mixture.GradientTolerance,
		"mixture.imaginary_tolerance": c.Mixture.ImagTolerance,
	}
	for name, v := range positive {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return fmt.Errorf("%s = %v: %w", name, v, ErrInvalidConfig)
		}
	}
	if c.Mixture.MaxIterations <= 0 {
		return fmt.Errorf("mixture.max_iterations = %d: %w", c.Mixture.MaxIterations, ErrInvalidConfig)
	}
	if _, err := mixture.ParseStrategy(c.Mixture.Division); err != nil {
		return fmt.Errorf("mixture.division: %w: %w", ErrInvalidConfig, err)
	}
	if c.Diagnostics.LogLevel != "" {
		if _, err := zapcore.ParseLevel(c.Diagnostics.LogLevel); err != nil {
			return fmt.Errorf("diagnostics.log_level: %w: %w", ErrInvalidConfig, err)
		}
	}

	return nil
}

// Recorder builds the diagnostics sink: a production zap logger at the
// configured level, or a silent one when no level is set.
func (c Config) Recorder() (*diag.Recorder, error) {
	if c.Diagnostics.LogLevel == "" {
		return diag.NewRecorder(nil), nil
	}
	level, err := zapcore.ParseLevel(c.Diagnostics.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("diagnostics.log_level: %w: %w", ErrInvalidConfig, err)
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("config: build logger: %w", err)
	}

	return diag.NewRecorder(logger), nil
}

// GaussianOptions converts the gaussian section. rec may be nil.
// The Config must be valid.
func (c Config) GaussianOptions(rec *diag.Recorder) []gaussian.Option {
	return []gaussian.Option{
		gaussian.WithTolerance(c.Gaussian.RelTol, c.Gaussian.AbsTol),
		gaussian.WithVacuumTolerance(c.Gaussian.VacuumTol),
		gaussian.WithPSDFloor(c.Gaussian.PSDFloor),
		gaussian.WithRecorder(rec),
	}
}

// MixtureOptions converts the mixture section. rec may be nil.
// Errors:
//   - ErrInvalidConfig for an unknown division strategy.
func (c Config) MixtureOptions(rec *diag.Recorder) ([]mixture.Option, error) {
	s, err := mixture.ParseStrategy(c.Mixture.Division)
	if err != nil {
		return nil, fmt.Errorf("mixture.division: %w: %w", ErrInvalidConfig, err)
	}

	return []mixture.Option{
		mixture.WithDivision(s),
		mixture.WithModeTolerance(c.Mixture.ModeTolerance),
		mixture.WithGradientTolerance(c.Mixture.GradientTolerance),
		mixture.WithImaginaryTolerance(c.Mixture.ImagTolerance),
		mixture.WithMaxIterations(c.Mixture.MaxIterations),
		mixture.WithRecorder(rec),
	}, nil
}
