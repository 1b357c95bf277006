// SPDX-License-Identifier: MIT

// Package gausspot is a Gaussian potential algebra for inference over
// continuous variables.
//
// The module is organised in small packages:
//
//	scope/     ordered variable scopes and the remap tables used to align operands
//	linalg/    guarded gonum kernels (inverse, log-determinant, PSD repair, complex LU)
//	factor/    the Factor contract shared by every potential kind
//	gaussian/  Gaussian potentials in moment and canonical form, templates,
//	           linear-Gaussian conditionals
//	mixture/   Gaussian mixtures and the three mixture quotient strategies
//	diag/      zap logging and prometheus counters for numerical warnings
//	config/    YAML numeric policy mapped onto functional options
//
// Quick start:
//
//	prior, _ := gaussian.NewScalar("x", 0, 1, 0)
//	obs, _ := gaussian.LinearGaussian(a, noise, []string{"x"}, []string{"y"})
//	joint, _ := prior.Multiply(obs)
//	post, _ := joint.Reduce([]string{"y"}, []float64{2})
//
// Every operation returns a new potential; inputs are never modified.
package gausspot
