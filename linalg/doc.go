// SPDX-License-Identifier: MIT

// Package linalg provides the numeric kernels behind gausspot potentials.
//
// The package is a thin, policy-carrying layer over gonum's mat package:
//
//   - guarded inversion and signed log-determinants that report singular or
//     non-positive-definite inputs as sentinels instead of returning garbage;
//   - symmetrisation, positive-definiteness checks (Cholesky) and a
//     nearest-PSD repair (eigenvalue clipping);
//   - gather/scatter kernels driven by explicit index tables, used to move
//     parameters between variable layouts (see package scope);
//   - numpy-compatible tolerance comparison (|a-b| <= atol + rtol*|b|);
//   - a narrowly scoped complex LU (inverse and determinant) used only by
//     complex-valued moment matching of inverse Gaussian mixtures.
//
// Zero-dimensional inputs are represented as nil matrices/vectors throughout,
// because gonum refuses zero-length allocations.
//
// Errors are package sentinels (errors.go) wrapped with an operation tag, so
// callers match with errors.Is.
package linalg
