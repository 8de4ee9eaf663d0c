package engine

import (
	"errors"
	"planner/experiments/metrics"
)

const MaxSteps = 10000

var ErrIllegalAction = errors.New("illegal action")

// Engine plays one game between agents over states of type S.
type Engine[S any] interface {
	// Run plays a game till a terminal state or a max number of steps is reached
	Run() (gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric, err error)
	// State returns the state the game is currently in
	State() S
}
