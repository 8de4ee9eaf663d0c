package agent

import (
	"planner/experiments/metrics"
	"planner/searcher"
)

type evaluationAgent[S searcher.HiddenState[S, A, P], A comparable, P comparable] struct {
	mcts *searcher.MCTS[S, A, P]
}

// NewEvaluationAgent returns a new agent for actual game play during evaluation.
// It plays the root action with the highest expected return.
func NewEvaluationAgent[S searcher.HiddenState[S, A, P], A comparable, P comparable](mcts *searcher.MCTS[S, A, P]) Agent[S, A, P] {
	return evaluationAgent[S, A, P]{mcts: mcts}
}

func (a evaluationAgent[S, A, P]) FindMove(state S) (A, metrics.SearchMetric, error) {
	trees, metric, err := a.mcts.Plan(state)
	if err != nil {
		var none A
		return none, metric, err
	}
	action, err := a.mcts.BestAction(trees, state.CurrentActor())
	return action, metric, err
}
