// SPDX-License-Identifier: MIT

// Package factor defines the capability contract shared by every potential
// type, so generic inference code can treat Gaussians, Gaussian mixtures and
// other factor kinds interchangeably.
//
// Concrete types expose strongly typed methods (Multiply, Divide, ...) and
// implement Factor through thin adapters (MultiplyFactor, DivideFactor, ...).
// Combining incompatible kinds yields ErrUnsupportedFactor.
package factor
