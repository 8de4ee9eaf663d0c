package agent

import (
	"planner/experiments/metrics"
	"planner/searcher"
)

type Agent[S searcher.HiddenState[S, A, P], A comparable, P comparable] interface {
	// FindMove returns the action of the player to move at state and the
	// performance metrics (if collected) of the search behind it
	FindMove(state S) (A, metrics.SearchMetric, error)
}
