package fatigue

import "math/rand"

// =============================================================================
// PROJECTION - Advisory next-period estimate
// =============================================================================

// Estimator produces the advisory next-period score projection. It sits
// behind this seam so the weighted scoring stays fully deterministic;
// implementations are free to use any forward-looking heuristic as long as
// consumers treat the output as non-authoritative.
type Estimator interface {
	ProjectNext(current float64, factors []Factor) float64
}

// DecayEstimator is the deterministic default: the current score minus a
// fixed recovery decay, floored at zero. Chosen as the default precisely
// because it is reproducible in tests.
type DecayEstimator struct {
	Decay float64
}

func (e DecayEstimator) ProjectNext(current float64, _ []Factor) float64 {
	next := current - e.Decay
	if next < 0 {
		return 0
	}
	return next
}

// JitterEstimator adds a small random wobble around a decaying trend, for
// UI surfaces that want a softer-looking projection. Strictly advisory.
// The seed is explicit so even this path is reproducible when needed.
type JitterEstimator struct {
	Decay  float64
	Spread float64
	Rand   *rand.Rand
}

func NewJitterEstimator(seed int64, decay, spread float64) *JitterEstimator {
	return &JitterEstimator{
		Decay:  decay,
		Spread: spread,
		Rand:   rand.New(rand.NewSource(seed)),
	}
}

func (e *JitterEstimator) ProjectNext(current float64, _ []Factor) float64 {
	next := current - e.Decay + (e.Rand.Float64()-0.5)*2*e.Spread
	switch {
	case next < 0:
		return 0
	case next > 100:
		return 100
	}
	return next
}
