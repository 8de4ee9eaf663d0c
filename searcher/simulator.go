package searcher

import "golang.org/x/exp/rand"

// Simulator estimates returns beyond the tree frontier. The result holds one
// return per player, index-aligned with problem.Players().
type Simulator[S HiddenState[S, A, P], A comparable, P comparable] interface {
	Simulate(problem SearchProblem[S, A, P], state S, horizon int, discount float64) []float64
}

// RandomSimulator rolls out uniformly random actions of the current actor.
type RandomSimulator[S HiddenState[S, A, P], A comparable, P comparable] struct {
	rng *rand.Rand
}

func NewRandomSimulator[S HiddenState[S, A, P], A comparable, P comparable](rng *rand.Rand) *RandomSimulator[S, A, P] {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &RandomSimulator[S, A, P]{rng: rng}
}

// Simulate accumulates every player's discounted immediate reward at each
// non-terminal state it visits, the start state included, and applies at most
// horizon actions. A terminal state ends the rollout unscored.
func (r *RandomSimulator[S, A, P]) Simulate(problem SearchProblem[S, A, P], state S, horizon int, discount float64) []float64 {
	players := problem.Players()
	returns := make([]float64, len(players))

	factor := 1.0
	// Rollout till terminal or for horizon number of actions
	for depth := 0; depth < horizon && !state.IsTerminal(); depth++ {
		for i, player := range players {
			returns[i] += factor * problem.Observe(state, player).Reward()
		}

		actions := problem.Observe(state, state.CurrentActor()).LegalActions()
		if len(actions) == 0 {
			violate("simulate", "actor %v has no legal actions at a non-terminal state", state.CurrentActor())
		}
		action := actions[r.rng.Intn(len(actions))] // Random rollout policy
		state = state.Apply(action)
		factor *= discount
	}
	return returns
}
