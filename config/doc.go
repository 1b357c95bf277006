// SPDX-License-Identifier: MIT

// Package config loads the numeric policy of gausspot (tolerances, mixture
// division strategy, optimiser limits, diagnostics level) from YAML and turns
// it into gaussian and mixture options.
//
//	gaussian:
//	  rel_tol: 1e-5
//	  abs_tol: 1e-5
//	mixture:
//	  division: mode_finding
//	  mode_tolerance: 1e-3
//	diagnostics:
//	  log_level: warn
//
// Omitted keys keep their defaults; unknown keys are an error.
package config
