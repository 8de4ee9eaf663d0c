package game

import (
	"planner/searcher"
	"planner/utils"

	"golang.org/x/exp/rand"
)

// BoardSimulator rolls out 2048 with a random agent that never picks a shift
// ending the game while another one is available, and a random environment.
// Only the agent is credited.
type BoardSimulator struct {
	rng *rand.Rand
}

func NewBoardSimulator(rng *rand.Rand) *BoardSimulator {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &BoardSimulator{rng: rng}
}

func (s *BoardSimulator) Simulate(problem searcher.SearchProblem[Board, Action, Player], state Board, horizon int, discount float64) []float64 {
	players := problem.Players()
	returns := make([]float64, len(players))

	score := state.Reward()
	factor := 1.0
	for depth := 0; depth < horizon && !state.IsTerminal(); depth++ {
		if state.CurrentActor() == Environment {
			placements := state.LegalActions()
			if len(placements) == 0 {
				break
			}
			state = state.Apply(placements[s.rng.Intn(len(placements))])
			continue
		}

		next, ok := s.shift(state)
		if !ok {
			break
		}
		factor *= discount
		state = next
		score += factor * state.Reward()
	}

	if agent := utils.FindIndex(players, Agent); agent >= 0 {
		returns[agent] = score
	}
	return returns
}

// shift applies the first non-terminal shift in a random order.
func (s *BoardSimulator) shift(state Board) (Board, bool) {
	actions := state.LegalActions()
	s.rng.Shuffle(len(actions), func(i, j int) {
		actions[i], actions[j] = actions[j], actions[i]
	})
	for _, action := range actions {
		if next := state.Apply(action); !next.IsTerminal() {
			return next, true
		}
	}
	return state, false
}
