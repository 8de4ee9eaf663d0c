package searcher

import (
	"math"

	"golang.org/x/exp/rand"
)

// TreePolicy picks the outgoing edge of node to follow during selection.
// It must be deterministic given the node statistics and state, apart from
// explicit random tie-breaking.
type TreePolicy[S HiddenState[S, A, P], A comparable, P comparable] interface {
	SelectEdge(tree *Tree[A, P], node NodeID, state S) EdgeID
}

type uct struct {
	numerator float64
}

func newUCT(cSquared float64, N float64) *uct {
	if N == 0 {
		panic("N cannot be 0")
	}
	return &uct{numerator: cSquared * math.Log(N)}
}

func (u uct) evaluate(q float64, n float64) float64 {
	if n == 0 {
		panic("n cannot be 0")
	}
	// UCT = q + sqrt(c^2*ln(N)/n), q being the child's mean return
	return q + math.Sqrt(u.numerator/n)
}

// UCTPolicy scores edges by the mean return of their child node plus an
// exploration bonus. Dangling and never-sampled edges are tried first.
type UCTPolicy[S HiddenState[S, A, P], A comparable, P comparable] struct {
	cSquared float64
	rng      *rand.Rand
}

func NewUCTPolicy[S HiddenState[S, A, P], A comparable, P comparable](cSquared float64, rng *rand.Rand) *UCTPolicy[S, A, P] {
	if cSquared < 0 {
		panic("exploration constant cannot be negative")
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &UCTPolicy[S, A, P]{cSquared: cSquared, rng: rng}
}

func (p *UCTPolicy[S, A, P]) SelectEdge(tree *Tree[A, P], node NodeID, _ S) EdgeID {
	edges := tree.Edges(node)
	if len(edges) == 0 {
		violate("select edge", "node %d has no outgoing edges", node)
	}

	// Prioritize unexplored edges
	unexplored := make([]EdgeID, 0, len(edges))
	for _, e := range edges {
		if tree.IsDangling(e) || tree.Statistics(tree.Target(e)).SampleCount() == 0 {
			unexplored = append(unexplored, e)
		}
	}
	if len(unexplored) > 0 {
		return unexplored[p.rng.Intn(len(unexplored))]
	}

	policy := newUCT(p.cSquared, float64(max(tree.Statistics(node).SelectCount(), 1)))
	best := make([]EdgeID, 0, 1)
	maxScore := math.Inf(-1)
	for _, e := range edges {
		stats := tree.Statistics(tree.Target(e)).Snapshot()
		score := policy.evaluate(stats.ExpectedReward, stats.SampleCount)
		if score > maxScore {
			maxScore = score
			best = append(best[:0], e)
		} else if score == maxScore {
			best = append(best, e)
		}
	}
	return best[p.rng.Intn(len(best))]
}
