package agent

import (
	"fmt"
	"planner/experiments/metrics"
	"planner/searcher"

	"golang.org/x/exp/rand"
)

type randomAgent[S searcher.HiddenState[S, A, P], A comparable, P comparable] struct {
	problem searcher.SearchProblem[S, A, P]
	rng     *rand.Rand
}

// NewRandomAgent returns an agent that plays a uniformly random legal action
// without searching, standing in for chance players such as the 2048
// environment.
func NewRandomAgent[S searcher.HiddenState[S, A, P], A comparable, P comparable](problem searcher.SearchProblem[S, A, P], rng *rand.Rand) Agent[S, A, P] {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return randomAgent[S, A, P]{problem: problem, rng: rng}
}

func (a randomAgent[S, A, P]) FindMove(state S) (A, metrics.SearchMetric, error) {
	actor := state.CurrentActor()
	actions := a.problem.Observe(state, actor).LegalActions()
	if len(actions) == 0 {
		var none A
		return none, metrics.SearchMetric{}, fmt.Errorf("player %v has no legal actions", actor)
	}
	return actions[a.rng.Intn(len(actions))], metrics.SearchMetric{}, nil
}
