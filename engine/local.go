package engine

import (
	"fmt"
	"planner/experiments/metrics"
	"planner/searcher"
	"planner/searcher/agent"
	"planner/utils"
	"time"

	"github.com/rs/zerolog/log"
)

// Local plays a game in-process, asking the agent of the current actor for
// every move.
type Local[S searcher.HiddenState[S, A, P], A comparable, P comparable] struct {
	problem  searcher.SearchProblem[S, A, P]
	state    S
	agents   []agent.Agent[S, A, P] // Aligned with problem.Players()
	maxSteps int

	// OnStep, if set, is called after every applied action
	OnStep func(step int, actor P, action A, state S)
}

func LocalEngine[S searcher.HiddenState[S, A, P], A comparable, P comparable](problem searcher.SearchProblem[S, A, P], state S, agents []agent.Agent[S, A, P], maxSteps int) *Local[S, A, P] {
	if len(problem.Players()) != len(agents) {
		panic("number of players does not match number of agents")
	}
	if maxSteps <= 0 {
		maxSteps = MaxSteps
	}
	return &Local[S, A, P]{
		problem:  problem,
		state:    state,
		agents:   agents,
		maxSteps: maxSteps,
	}
}

// State returns the current state of the game.
func (e *Local[S, A, P]) State() S {
	return e.state
}

// Run executes the entire game loop. Agent failures and illegal actions stop
// the game and are returned along with the metrics gathered so far.
func (e *Local[S, A, P]) Run() (metrics.GameMetric, []metrics.MoveMetric, error) {
	players := e.problem.Players()
	game := metrics.GameMetric{
		StartTime: time.Now(),
		Returns:   make([]float64, len(players)),
	}
	var moves []metrics.MoveMetric

	finish := func(err error) (metrics.GameMetric, []metrics.MoveMetric, error) {
		game.EndTime = time.Now()
		game.Duration = game.EndTime.Sub(game.StartTime)
		game.Terminal = e.state.IsTerminal()
		return game, moves, err
	}

	for step := 1; step <= e.maxSteps && !e.state.IsTerminal(); step++ {
		actor := e.state.CurrentActor()
		i := utils.FindIndex(players, actor)
		if i < 0 {
			return finish(fmt.Errorf("step %d: unknown actor %v", step, actor))
		}

		action, metric, err := e.agents[i].FindMove(e.state)
		if err != nil {
			return finish(fmt.Errorf("step %d: player %v failed to move: %w", step, actor, err))
		}
		legal := e.problem.Observe(e.state, actor).LegalActions()
		if utils.FindIndex(legal, action) < 0 {
			return finish(fmt.Errorf("step %d: player %v played %v: %w", step, actor, action, ErrIllegalAction))
		}
		moves = append(moves, metrics.MoveMetric{Step: step, Player: i, SearchMetric: metric})

		e.state = e.state.Apply(action)
		for j, player := range players {
			game.Returns[j] += e.problem.Observe(e.state, player).Reward()
		}
		game.TotalMoves = step

		log.Debug().Int("step", step).Str("actor", fmt.Sprint(actor)).Str("action", fmt.Sprint(action)).
			Int("episodes", metric.Episodes).Msg("move")
		if e.OnStep != nil {
			e.OnStep(step, actor, action, e.state)
		}
	}

	if !e.state.IsTerminal() {
		log.Info().Msgf("stopped after %d steps without reaching a terminal state", e.maxSteps)
	}
	return finish(nil)
}
