package brain

import (
	"math"

	"roshambo/internal/domain"
)

// lossEpsilon floors a per-expert loss so that a single zero-probability
// prediction can never zero a weight permanently.
const lossEpsilon = 1e-6

// ExpertStanding is the read-only view of one expert inside the mixture,
// captured for the decision trace.
type ExpertStanding struct {
	Name string `json:"name"`
	// Weight is the expert's share of the total mixer weight at prediction
	// time, in [0, 1].
	Weight     float64      `json:"weight"`
	Prediction Distribution `json:"prediction"`
	// MassOnActual is the probability the expert placed on the move the
	// player actually made. Only knowable after the reveal; filled in at
	// commit time.
	MassOnActual float64 `json:"mass_on_actual"`
}

// Mixer blends the expert pool with the Hedge (multiplicative weights)
// algorithm. Weights start uniform and are multiplied by exp(-eta * loss)
// each round; only their ratios matter, so they are never renormalized in
// place. The standard no-regret bound applies: the mixture's cumulative loss
// tracks the best fixed expert in hindsight up to O(eta) and
// O(log(len(experts))/eta) terms.
type Mixer struct {
	experts []Expert
	weights []float64
	eta     float64

	// lastPreds caches each expert's prediction from the most recent Predict
	// call. Update must score the predictions actually used for the round,
	// not recomputed ones, so the cache is consumed exactly once.
	lastPreds []Distribution
}

// NewMixer returns a mixer over the given pool with uniform weights.
func NewMixer(experts []Expert, eta float64) *Mixer {
	weights := make([]float64, len(experts))
	for i := range weights {
		weights[i] = 1.0
	}
	return &Mixer{experts: experts, weights: weights, eta: eta}
}

// Predict queries every expert and returns the weight-averaged distribution.
// Expert predictions are cached for the Update call that closes the round.
func (m *Mixer) Predict(ctx Context) Distribution {
	m.lastPreds = make([]Distribution, len(m.experts))
	totalWeight := 0.0
	for _, w := range m.weights {
		totalWeight += w
	}

	var mix Distribution
	for i, ex := range m.experts {
		p := ex.Predict(ctx)
		m.lastPreds[i] = p
		share := m.weights[i] / totalWeight
		for mv := range mix {
			mix[mv] += share * p[mv]
		}
	}
	return mix.Normalized()
}

// Update scores the cached predictions against the revealed move, applies
// the multiplicative weight update, and advances each expert's own state.
// Callers must invoke Predict first and keep the context unchanged between
// the two calls.
func (m *Mixer) Update(ctx Context, actual domain.Move) {
	preds := m.lastPreds
	if preds == nil {
		// No prediction was consumed this round (fallback path); score the
		// pool against the same context anyway so experts keep learning.
		preds = make([]Distribution, len(m.experts))
		for i, ex := range m.experts {
			preds[i] = ex.Predict(ctx)
		}
	}

	for i := range m.experts {
		loss := 1.0 - math.Max(lossEpsilon, preds[i][actual])
		m.weights[i] *= math.Exp(-m.eta * loss)
	}
	for _, ex := range m.experts {
		ex.Update(ctx, actual)
	}
	m.lastPreds = nil
}

// Snapshot returns the current standings for explainability. Predictions are
// those from the most recent Predict call; zero-valued if none is cached.
func (m *Mixer) Snapshot() []ExpertStanding {
	totalWeight := 0.0
	for _, w := range m.weights {
		totalWeight += w
	}

	standings := make([]ExpertStanding, len(m.experts))
	for i, ex := range m.experts {
		standings[i] = ExpertStanding{
			Name:   ex.Name(),
			Weight: m.weights[i] / totalWeight,
		}
		if m.lastPreds != nil {
			standings[i].Prediction = m.lastPreds[i]
		}
	}
	return standings
}
