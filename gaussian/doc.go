// SPDX-License-Identifier: MIT

// Package gaussian implements unnormalised multivariate Gaussian potentials
// over named continuous variables.
//
// A Gaussian is held in moment form w·N(x; μ, Σ), in canonical form
// exp(−½xᵀKx + hᵀx + g), or in both. The missing form is derived on first
// use and cached; all operations return new values, so a Gaussian can be
// shared between goroutines.
//
// Supported algebra:
//   - Multiply / Divide on the union of scopes (canonical addition/subtraction).
//   - Marginalize by Schur complement, Reduce by conditioning on observations.
//   - LogPotential, Sample, KLDivergence, Normalize.
//
// A potential whose K is zero is vacuous: it is the constant exp(g), carries
// no information, and has no moment form. Divide may produce indefinite K
// ("inverse Gaussians"); these remain valid potentials and are consumed by
// the mixture package.
//
// Numeric policy (tolerances, PSD repair floor) and diagnostics are set with
// functional options; see Options.
package gaussian
