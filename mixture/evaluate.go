// SPDX-License-Identifier: MIT

package mixture

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// LogPotential evaluates log Σ_i a_i(x) with x laid out in Vars() order.
func (m *Mixture) LogPotential(x []float64) (float64, error) {
	lp := make([]float64, m.Len())
	for i, c := range m.components {
		v, err := c.LogPotential(x)
		if err != nil {
			return 0, mixtureErrorf(opLogPot, err)
		}
		lp[i] = v
	}

	return floats.LogSumExp(lp), nil
}

// Potential evaluates Σ_i a_i(x).
func (m *Mixture) Potential(x []float64) (float64, error) {
	lp, err := m.LogPotential(x)
	if err != nil {
		return 0, err
	}

	return math.Exp(lp), nil
}

// Sample draws n points from the normalised mixture. Each row picks a
// component with probability proportional to its weight; rows keep the draw
// order. A nil rng draws from the global source.
func (m *Mixture) Sample(n int, rng *rand.Rand) (*mat.Dense, error) {
	if n <= 0 {
		return nil, mixtureErrorf(opSample, ErrBadSampleSize)
	}
	lw, err := m.logWeights()
	if err != nil {
		return nil, mixtureErrorf(opSample, err)
	}
	total := floats.LogSumExp(lw)
	cum := make([]float64, len(lw))
	for i, w := range lw {
		cum[i] = math.Exp(w - total)
	}
	floats.CumSum(cum, cum)

	uniform := rand.Float64
	if rng != nil {
		uniform = rng.Float64
	}
	rows := make([][]int, m.Len())
	for r := 0; r < n; r++ {
		i := sort.SearchFloat64s(cum, uniform())
		if i >= len(cum) {
			i = len(cum) - 1
		}
		rows[i] = append(rows[i], r)
	}

	out := mat.NewDense(n, m.Dim(), nil)
	for i, picked := range rows {
		if len(picked) == 0 {
			continue
		}
		draws, err := m.components[i].Sample(len(picked), rng)
		if err != nil {
			return nil, mixtureErrorf(opSample, fmt.Errorf("component %d: %w", i, err))
		}
		for k, r := range picked {
			out.SetRow(r, draws.RawRowView(k))
		}
	}

	return out, nil
}
