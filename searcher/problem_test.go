package searcher

import "slices"

const concealed = -1

// mockProblem is a configurable alternating game. A state is the sequence of
// actions played so far and players take turns in the listed order.
type mockProblem struct {
	players   []string
	branching int
	terminal  func(played []int) bool
	reward    func(played []int, player string) float64
	// hidden makes every action invisible to players other than the actor
	hidden bool
	// perceived, if set, overrides the actor recorded in a player's tree
	perceived func(played []int, player string) string
}

type mockState struct {
	problem *mockProblem
	played  []int
}

type mockObservation struct {
	reward  float64
	actions []int
}

type perceivedObservation struct {
	mockObservation
	actor string
}

func (o mockObservation) Reward() float64 {
	return o.reward
}

func (o mockObservation) LegalActions() []int {
	return o.actions
}

func (o perceivedObservation) PerceivedActor() string {
	return o.actor
}

func (m mockState) Apply(action int) mockState {
	played := append(slices.Clone(m.played), action)
	return mockState{problem: m.problem, played: played}
}

func (m mockState) CurrentActor() string {
	return m.problem.players[len(m.played)%len(m.problem.players)]
}

func (m mockState) IsTerminal() bool {
	return m.problem.terminal(m.played)
}

func (p *mockProblem) Observe(state mockState, player string) Observation[int] {
	obs := mockObservation{}
	if p.reward != nil {
		obs.reward = p.reward(state.played, player)
	}
	if !state.IsTerminal() {
		if p.hidden && player != state.CurrentActor() {
			obs.actions = []int{concealed}
		} else {
			for a := 0; a < p.branching; a++ {
				obs.actions = append(obs.actions, a)
			}
		}
	}
	if p.perceived != nil {
		return perceivedObservation{mockObservation: obs, actor: p.perceived(state.played, player)}
	}
	return obs
}

func (p *mockProblem) Players() []string {
	return p.players
}

func (p *mockProblem) VisibleAction(state mockState, action int, player string) int {
	if p.hidden && player != state.CurrentActor() {
		return concealed
	}
	return action
}

func (p *mockProblem) start() mockState {
	return mockState{problem: p}
}

func never([]int) bool { return false }

func always([]int) bool { return true }

// countingSimulator records its calls and returns fixed returns.
type countingSimulator struct {
	calls   int
	returns []float64
}

func (c *countingSimulator) Simulate(problem SearchProblem[mockState, int, string], state mockState, horizon int, discount float64) []float64 {
	c.calls++
	return c.returns
}

func newMockMCTS(problem *mockProblem, options ...Option) *MCTS[mockState, int, string] {
	options = append([]Option{WithEpisodes(1), WithSeed(7)}, options...)
	return NewMCTS[mockState, int, string](problem, options...)
}

// pathTo returns the nodes from n up to the root and the actions labelling
// the edges between them, root first.
func pathTo[A comparable, P comparable](tree *Tree[A, P], n NodeID) ([]NodeID, []A) {
	nodes := []NodeID{n}
	actions := []A{}
	for {
		incoming, ok := tree.Incoming(n)
		if !ok {
			break
		}
		actions = append([]A{tree.Action(incoming)}, actions...)
		n = tree.Source(incoming)
		nodes = append(nodes, n)
	}
	slices.Reverse(nodes)
	return nodes, actions
}
