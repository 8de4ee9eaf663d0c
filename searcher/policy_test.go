package searcher

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func TestNewUCT(t *testing.T) {
	t.Run("panics with zero parent visits", func(t *testing.T) {
		require.Panics(t, func() {
			newUCT(2.0, 0)
		}, "Should panic when N is 0")
	})
}

func TestUCTEvaluate(t *testing.T) {
	t.Run("computing UCT value", func(t *testing.T) {
		policy := newUCT(2.0, 100)
		got := policy.evaluate(0.5, 10)

		expected := 0.5 + math.Sqrt(2.0*math.Log(100)/10.0)
		require.InDelta(t, expected, got, 0.0001,
			"Should compute q + sqrt(c^2*ln(N)/n)")
	})

	t.Run("panics with zero child visits", func(t *testing.T) {
		policy := newUCT(2.0, 100)

		require.Panics(t, func() {
			policy.evaluate(0.5, 0)
		}, "Should panic when n is 0")
	})

	t.Run("exploration term increases with parent visits", func(t *testing.T) {
		score1 := newUCT(2.0, 100).evaluate(0.5, 10)
		score2 := newUCT(2.0, 1000).evaluate(0.5, 10)

		require.Greater(t, score2, score1,
			"More parent visits should increase exploration term")
	})

	t.Run("exploration term decreases with child visits", func(t *testing.T) {
		policy := newUCT(2.0, 100)

		require.Greater(t, policy.evaluate(0.5, 10), policy.evaluate(0.5, 20),
			"More child visits should decrease exploration term")
	})

	t.Run("zero exploration is pure exploitation", func(t *testing.T) {
		require.Equal(t, 0.25, newUCT(0, 100).evaluate(0.25, 10))
	})
}

// sampledTree builds a root with one expanded child per mean, each child
// holding a single sample of that mean.
func sampledTree(means ...float64) *Tree[int, string] {
	actions := make([]int, len(means))
	for i := range actions {
		actions[i] = i
	}
	tree := NewTree("alice", actions)
	for i, mean := range means {
		child := tree.CreateChild(tree.Edge(Root, i), "alice", nil)
		tree.Statistics(child).AddSample(mean, 1)
		tree.Statistics(Root).IncrementSelectCount()
	}
	return tree
}

func TestUCTPolicySelectEdge(t *testing.T) {
	newPolicy := func() *UCTPolicy[mockState, int, string] {
		return NewUCTPolicy[mockState, int, string](CSquared, rand.New(rand.NewSource(3)))
	}

	t.Run("prefers dangling edges", func(t *testing.T) {
		tree := NewTree("alice", []int{0, 1, 2})
		child := tree.CreateChild(tree.Edge(Root, 1), "alice", nil)
		tree.Statistics(child).AddSample(100, 1)

		policy := newPolicy()
		for i := 0; i < 50; i++ {
			e := policy.SelectEdge(tree, Root, mockState{})
			require.NotEqual(t, 1, tree.Action(e), "Should not pick an explored edge while others dangle")
		}
	})

	t.Run("prefers children without samples", func(t *testing.T) {
		tree := NewTree("alice", []int{0, 1})
		sampled := tree.CreateChild(tree.Edge(Root, 0), "alice", nil)
		tree.Statistics(sampled).AddSample(9, 1)
		tree.CreateChild(tree.Edge(Root, 1), "alice", nil)

		e := newPolicy().SelectEdge(tree, Root, mockState{})
		require.Equal(t, 1, tree.Action(e), "A child that was never sampled counts as unexplored")
	})

	t.Run("picks the highest score once all children are sampled", func(t *testing.T) {
		tree := sampledTree(0, 1, 0)

		e := newPolicy().SelectEdge(tree, Root, mockState{})
		require.Equal(t, 1, tree.Action(e))
	})

	t.Run("breaks ties at random", func(t *testing.T) {
		tree := sampledTree(1, 1)

		policy := newPolicy()
		seen := map[int]bool{}
		for i := 0; i < 100; i++ {
			seen[tree.Action(policy.SelectEdge(tree, Root, mockState{}))] = true
		}
		require.Len(t, seen, 2, "Both tied edges should be chosen eventually")
	})

	t.Run("node without edges is a contract violation", func(t *testing.T) {
		tree := NewTree[int]("alice", nil)
		requireViolation(t, func() { newPolicy().SelectEdge(tree, Root, mockState{}) })
	})

	t.Run("panics with a negative exploration constant", func(t *testing.T) {
		require.Panics(t, func() { NewUCTPolicy[mockState, int, string](-1, nil) })
	})
}
