package agent

import (
	"errors"
	"math"
	"planner/experiments/metrics"
	"planner/searcher"

	"golang.org/x/exp/rand"
)

var ErrEmptyPolicy = errors.New("search expanded no root action")

type trainingAgent[S searcher.HiddenState[S, A, P], A comparable, P comparable] struct {
	mcts        *searcher.MCTS[S, A, P]
	temperature float64
	rng         *rand.Rand
}

// NewTrainingAgent returns a new agent for self-play during training. It
// samples root actions in proportion to their visit counts raised to
// 1/temperature.
func NewTrainingAgent[S searcher.HiddenState[S, A, P], A comparable, P comparable](mcts *searcher.MCTS[S, A, P], temperature float64, rng *rand.Rand) Agent[S, A, P] {
	if temperature <= 0 {
		panic("temperature must be positive")
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return trainingAgent[S, A, P]{mcts: mcts, temperature: temperature, rng: rng}
}

func (a trainingAgent[S, A, P]) FindMove(state S) (A, metrics.SearchMetric, error) {
	var none A
	trees, metric, err := a.mcts.Plan(state)
	if err != nil {
		return none, metric, err
	}
	policy, err := a.mcts.RootPolicy(trees, state.CurrentActor())
	if err != nil {
		return none, metric, err
	}
	if len(policy) == 0 {
		return none, metric, ErrEmptyPolicy
	}
	return sample(adjustTemperature(policy, a.temperature), a.rng.Float64()), metric, nil
}

func adjustTemperature[A comparable](policy map[A]float64, temperature float64) map[A]float64 {
	// Compute temperature-adjusted action probabilities
	exponent := 1.0 / temperature
	sum := 0.0
	adjusted := make(map[A]float64, len(policy))
	for action, visits := range policy {
		prob := math.Pow(visits, exponent)
		sum += prob
		adjusted[action] = prob
	}
	// Normalize
	for action := range adjusted {
		adjusted[action] /= sum
	}
	return adjusted
}

// sample picks the action whose cumulative probability first exceeds u,
// a uniform draw in [0, 1).
func sample[A comparable](policy map[A]float64, u float64) A {
	cumulative := 0.0
	var last A
	for action, prob := range policy {
		last = action
		cumulative += prob
		if u < cumulative {
			return action
		}
	}
	return last // Fallback in case of rounding errors
}
