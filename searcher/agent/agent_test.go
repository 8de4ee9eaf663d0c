package agent

import (
	"testing"

	"planner/game"
	"planner/searcher"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

// rightOnly is a board where every shift but Right ends the game.
func rightOnly() game.Board {
	b := game.NewBoard()
	b.Cells[0][0], b.Cells[1][0], b.Cells[2][0], b.Cells[3][0] = 2, 4, 8, 16
	b.Dropped = true
	return b
}

func newBoardMCTS(seed uint64) *searcher.MCTS[game.Board, game.Action, game.Player] {
	return searcher.NewMCTS[game.Board, game.Action, game.Player](game.TwoZeroFourEight{},
		searcher.WithEpisodes(200),
		searcher.WithHorizon(10),
		searcher.WithSeed(seed),
		searcher.WithSimulator[game.Board, game.Action, game.Player](game.NewBoardSimulator(rand.New(rand.NewSource(seed)))),
		searcher.WithMetrics(nil),
	)
}

func TestEvaluationAgent(t *testing.T) {
	agent := NewEvaluationAgent(newBoardMCTS(3))

	action, metric, err := agent.FindMove(rightOnly())
	require.NoError(t, err)
	require.Equal(t, game.Right, action)
	require.Equal(t, 200, metric.Episodes)
}

func TestTrainingAgent(t *testing.T) {
	t.Run("low temperature plays the most visited action", func(t *testing.T) {
		agent := NewTrainingAgent(newBoardMCTS(4), 0.01, rand.New(rand.NewSource(4)))

		action, _, err := agent.FindMove(rightOnly())
		require.NoError(t, err)
		require.Equal(t, game.Right, action)
	})

	t.Run("panics with a non-positive temperature", func(t *testing.T) {
		require.Panics(t, func() {
			NewTrainingAgent(newBoardMCTS(4), 0, nil)
		})
	})
}

func TestAdjustTemperature(t *testing.T) {
	policy := map[string]float64{"a": 1, "b": 3}

	t.Run("unit temperature normalizes visits", func(t *testing.T) {
		got := adjustTemperature(policy, 1)
		require.InDelta(t, 0.25, got["a"], 1e-12)
		require.InDelta(t, 0.75, got["b"], 1e-12)
	})

	t.Run("lower temperature sharpens the distribution", func(t *testing.T) {
		got := adjustTemperature(policy, 0.5)
		require.InDelta(t, 0.1, got["a"], 1e-12)
		require.InDelta(t, 0.9, got["b"], 1e-12)
	})
}

func TestSample(t *testing.T) {
	require.Equal(t, "a", sample(map[string]float64{"a": 1}, 0.3))
	require.Equal(t, "a", sample(map[string]float64{"a": 0.999}, 0.9995), "Should fall back to the last action")
	require.Equal(t, "b", sample(map[string]float64{"a": 0, "b": 1}, 0))
}

func TestRandomAgent(t *testing.T) {
	agent := NewRandomAgent[game.ShellState, game.ShellAction, game.ShellPlayer](game.ShellGame{}, rand.New(rand.NewSource(2)))

	action, metric, err := agent.FindMove(game.NewShellState(3))
	require.NoError(t, err)
	require.Equal(t, game.Hide, action.Move)
	require.Less(t, action.Cup, 3)
	require.Zero(t, metric.Episodes, "Random play does not search")

	done := game.NewShellState(3).
		Apply(game.ShellAction{Move: game.Hide, Cup: 0}).
		Apply(game.ShellAction{Move: game.Guess, Cup: 0})
	_, _, err = agent.FindMove(done)
	require.Error(t, err)
}
