// SPDX-License-Identifier: MIT
// Package gaussian: transitions between moment and canonical form.
//
//	K = Σ⁻¹    h = K·μ    g = log w − ½·μᵀKμ − ½·log|2πΣ|
//	Σ = K⁻¹    μ = Σ·h    log w = g + ½·μᵀKμ + ½·log|2πΣ|
//
// Both directions are pure: they read one immutable form and build the other.
// A determinant that is not positive is reported, never corrected.

package gaussian

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/gausspot/linalg"
)

func momentToCanonical(m *moment) (*canonical, error) {
	k, err := linalg.InverseSym(m.cov)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrSingularCovariance)
	}
	logDet, err := linalg.LogDet2Pi(m.cov)
	if err != nil {
		return nil, err
	}
	h := linalg.MulSymVec(k, m.mean)
	g := m.logWeight - 0.5*linalg.QuadForm(m.mean, k, m.mean) - 0.5*logDet

	return &canonical{k: k, h: h, g: g}, nil
}

func canonicalToMoment(c *canonical) (*moment, error) {
	cov, err := linalg.InverseSym(c.k)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrSingularPrecision)
	}
	logDet, err := linalg.LogDet2Pi(cov)
	if err != nil {
		if errors.Is(err, linalg.ErrSingular) {
			return nil, fmt.Errorf("%v: %w", err, ErrSingularPrecision)
		}

		return nil, err
	}
	mean := linalg.MulSymVec(cov, c.h)
	logWeight := c.g + 0.5*linalg.QuadForm(mean, c.k, mean) + 0.5*logDet

	return &moment{cov: cov, mean: mean, logWeight: logWeight}, nil
}
