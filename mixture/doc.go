// SPDX-License-Identifier: MIT

// Package mixture implements finite sums of Gaussian potentials.
//
// Products with Gaussians and other mixtures, division by a Gaussian,
// marginalisation and reduction are exact and componentwise. Dividing by a
// mixture with more than one component has no closed form; the strategy is
// chosen per mixture with WithDivision:
//
//   - MomentMatch collapses the denominator to one Gaussian first. Cheap,
//     unimodal.
//   - ModeFinding fits a Laplace approximation at every mode of the
//     quotient, located with BFGS. Slower, keeps multimodality.
//   - ComplexMomentMatch moment matches each inverse mixture in complex
//     arithmetic and inverts the result.
//
// The strategies do not agree on strongly multimodal inputs. Numerical
// trouble that does not invalidate a result (imaginary remainders,
// non-definite fits, failed optimiser starts) is reported to a
// diag.Recorder rather than returned as an error.
package mixture
