// Package choice implements the stochastic primitives of the discrete-choice
// model: weighted draws, logit weights and the binary stay decision. A
// Sampler is seeded so a run can be replayed exactly.
package choice

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
)

// Sampler draws from a seeded PCG stream. It is not safe for concurrent use;
// the relocation pass owns exactly one.
type Sampler struct {
	rng *rand.Rand
}

// NewSampler returns a sampler seeded with seed.
func NewSampler(seed uint64) *Sampler {
	return &Sampler{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Float64 returns a uniform value in [0, 1).
func (s *Sampler) Float64() float64 {
	return s.rng.Float64()
}

// Bernoulli returns true with probability p.
func (s *Sampler) Bernoulli(p float64) bool {
	switch {
	case p <= 0:
		return false
	case p >= 1:
		return true
	}
	return s.rng.Float64() < p
}

// Draw picks an index with probability proportional to its weight.
// Negative and NaN weights count as zero. It reports false when no weight is
// positive.
func (s *Sampler) Draw(weights []float64) (int, bool) {
	clean := positive(weights)
	total := floats.Sum(clean)
	if !(total > 0) || math.IsInf(total, 1) {
		return 0, false
	}

	target := s.rng.Float64() * total
	last := -1
	for i, w := range clean {
		if w == 0 {
			continue
		}
		last = i
		target -= w
		if target < 0 {
			return i, true
		}
	}
	// Rounding left a remainder; the last positive weight absorbs it.
	return last, true
}

func positive(weights []float64) []float64 {
	out := make([]float64, len(weights))
	for i, w := range weights {
		if w > 0 && !math.IsNaN(w) {
			out[i] = w
		}
	}
	return out
}

// LogitWeights converts scores into multinomial logit weights exp(scale*s).
// The maximum score is subtracted first so large scales cannot overflow;
// the relative weights are unchanged.
func LogitWeights(scores []float64, scale float64) []float64 {
	out := make([]float64, len(scores))
	if len(scores) == 0 {
		return out
	}
	scaled := make([]float64, len(scores))
	copy(scaled, scores)
	floats.Scale(scale, scaled)
	peak := floats.Max(scaled)
	for i, v := range scaled {
		out[i] = math.Exp(v - peak)
	}
	return out
}

// Probabilities normalizes weights to sum to one. All-zero input yields
// all-zero output.
func Probabilities(weights []float64) []float64 {
	out := positive(weights)
	total := floats.Sum(out)
	if total > 0 {
		floats.Scale(1/total, out)
	}
	return out
}

// StayProbability is the binary logit probability of staying in a dwelling
// with utility u when households of the same type average avg:
//
//	p = 1 - 1/(1 + shift*exp(slope*(avg-u)))
func StayProbability(shift, slope, avg, u float64) float64 {
	p := 1 - 1/(1+shift*math.Exp(slope*(avg-u)))
	if math.IsNaN(p) {
		return 0
	}
	return p
}
