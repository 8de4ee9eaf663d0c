package searcher

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func TestRandomSimulator(t *testing.T) {
	simulator := NewRandomSimulator[mockState, int, string](rand.New(rand.NewSource(1)))
	unit := func(_ []int, player string) float64 {
		if player == "a" {
			return 1
		}
		return -1
	}

	t.Run("sums discounted rewards of the states it leaves", func(t *testing.T) {
		problem := &mockProblem{players: []string{"a", "b"}, branching: 1, terminal: never, reward: unit}

		returns := simulator.Simulate(problem, problem.start(), 3, 0.5)
		require.InDeltaSlice(t, []float64{1.75, -1.75}, returns, 1e-12,
			"Should sum 1 + 0.5 + 0.25 over the three states an action is taken from")
	})

	t.Run("adds one reward term per action", func(t *testing.T) {
		problem := &mockProblem{players: []string{"a"}, branching: 2, terminal: never, reward: unit}

		require.Equal(t, []float64{3}, simulator.Simulate(problem, problem.start(), 3, 1))
	})

	t.Run("horizon zero returns nothing", func(t *testing.T) {
		problem := &mockProblem{players: []string{"a"}, branching: 2, terminal: never, reward: unit}

		require.Equal(t, []float64{0}, simulator.Simulate(problem, problem.start(), 0, 1))
	})

	t.Run("terminal start state is not scored", func(t *testing.T) {
		problem := &mockProblem{players: []string{"a", "b"}, branching: 2, terminal: always, reward: unit}

		require.Equal(t, []float64{0, 0}, simulator.Simulate(problem, problem.start(), 10, 1))
	})

	t.Run("reward of the terminal state is not scored", func(t *testing.T) {
		problem := &mockProblem{
			players:   []string{"a"},
			branching: 3,
			terminal:  func(played []int) bool { return len(played) == 2 },
			reward: func(played []int, _ string) float64 {
				if len(played) == 2 {
					return 1
				}
				return 0
			},
		}

		require.Equal(t, []float64{0}, simulator.Simulate(problem, problem.start(), 10, 1))
	})

	t.Run("actor without legal actions is a contract violation", func(t *testing.T) {
		problem := &mockProblem{players: []string{"a"}, branching: 0, terminal: never}

		requireViolation(t, func() { simulator.Simulate(problem, problem.start(), 5, 1) })
	})
}
