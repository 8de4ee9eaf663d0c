package searcher

import (
	"planner/experiments/metrics"
	"planner/utils"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

type Option func(s *settings)

type settings struct {
	episodes  int
	duration  time.Duration
	horizon   int
	discount  float64
	cSquared  float64
	seed      uint64
	policy    any
	simulator any
	metrics   metrics.Collector
}

func WithEpisodes(episodes int) Option {
	return func(s *settings) {
		if episodes > 0 {
			s.episodes = episodes
		}
	}
}

func WithDuration(duration time.Duration) Option {
	return func(s *settings) {
		if duration > 0 {
			s.duration = duration
		}
	}
}

// WithHorizon bounds both the selection walk and the rollout, in plies.
func WithHorizon(horizon int) Option {
	return func(s *settings) {
		if horizon > 0 {
			s.horizon = horizon
		}
	}
}

func WithDiscount(discount float64) Option {
	return func(s *settings) {
		if discount > 0 && discount <= 1 {
			s.discount = discount
		}
	}
}

// WithExploration sets the squared exploration constant of the default UCT policy.
func WithExploration(cSquared float64) Option {
	return func(s *settings) {
		if cSquared >= 0 {
			s.cSquared = cSquared
		}
	}
}

// WithSeed seeds the default policy and simulator.
func WithSeed(seed uint64) Option {
	return func(s *settings) {
		s.seed = seed
	}
}

func WithTreePolicy[S HiddenState[S, A, P], A comparable, P comparable](policy TreePolicy[S, A, P]) Option {
	return func(s *settings) {
		if policy != nil {
			s.policy = policy
		}
	}
}

func WithSimulator[S HiddenState[S, A, P], A comparable, P comparable](simulator Simulator[S, A, P]) Option {
	return func(s *settings) {
		if simulator != nil {
			s.simulator = simulator
		}
	}
}

// WithMetrics collects search metrics into collector, or into a fresh
// in-memory collector when collector is nil.
func WithMetrics(collector metrics.Collector) Option {
	return func(s *settings) {
		if collector == nil {
			collector = metrics.NewCollector()
		}
		s.metrics = collector
	}
}

// MCTS grows one tree per player from a single hidden-state trajectory.
type MCTS[S HiddenState[S, A, P], A comparable, P comparable] struct {
	problem   SearchProblem[S, A, P]
	players   []P
	episodes  int
	duration  time.Duration
	horizon   int
	discount  float64
	policy    TreePolicy[S, A, P]
	simulator Simulator[S, A, P]
	metrics   metrics.Collector
}

func NewMCTS[S HiddenState[S, A, P], A comparable, P comparable](problem SearchProblem[S, A, P], options ...Option) *MCTS[S, A, P] {
	s := &settings{ // Default values
		horizon:  DefaultHorizon,
		discount: DefaultDiscount,
		cSquared: CSquared,
		seed:     uint64(time.Now().UnixNano()),
		metrics:  metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(s)
	}
	if s.episodes <= 0 && s.duration <= 0 {
		panic("Must specify search episodes or duration")
	}

	players := problem.Players()
	if len(players) == 0 {
		panic("search problem has no players")
	}
	for i, player := range players {
		if utils.FindIndex(players, player) != i {
			panic("search problem lists a player twice")
		}
	}

	rng := rand.New(rand.NewSource(s.seed))
	m := &MCTS[S, A, P]{
		problem:   problem,
		players:   players,
		episodes:  s.episodes,
		duration:  s.duration,
		horizon:   s.horizon,
		discount:  s.discount,
		policy:    NewUCTPolicy[S, A, P](s.cSquared, rng),
		simulator: NewRandomSimulator[S, A, P](rng),
		metrics:   s.metrics,
	}
	if s.policy != nil {
		policy, ok := s.policy.(TreePolicy[S, A, P])
		if !ok {
			panic("tree policy does not match the search problem")
		}
		m.policy = policy
	}
	if s.simulator != nil {
		simulator, ok := s.simulator.(Simulator[S, A, P])
		if !ok {
			panic("simulator does not match the search problem")
		}
		m.simulator = simulator
	}
	return m
}

// Players returns the canonical player order trees are aligned with.
func (m *MCTS[S, A, P]) Players() []P {
	return m.players
}

// Initialize builds one root per player from the legal actions each player
// observes at state.
func (m *MCTS[S, A, P]) Initialize(state S) []*Tree[A, P] {
	trees := make([]*Tree[A, P], len(m.players))
	for i, player := range m.players {
		obs := m.problem.Observe(state, player)
		trees[i] = NewTree(nodeLabel(state.CurrentActor(), obs), obs.LegalActions())
	}
	return trees
}

// Plan initializes fresh trees for state and searches them.
func (m *MCTS[S, A, P]) Plan(state S) ([]*Tree[A, P], metrics.SearchMetric, error) {
	trees := m.Initialize(state)
	metric, err := m.Search(state, trees)
	return trees, metric, err
}

// Search runs iterations from state for the configured number of episodes,
// or until the configured duration has elapsed. The first contract violation
// stops the session.
func (m *MCTS[S, A, P]) Search(state S, trees []*Tree[A, P]) (metrics.SearchMetric, error) {
	m.metrics.Start(m.horizon, m.discount)
	log.Debug().Int("episodes", m.episodes).Dur("duration", m.duration).Int("horizon", m.horizon).Msg("search-started")

	var err error
	if m.episodes > 0 {
		err = m.iterate(state, trees)
	} else {
		err = m.countdown(state, trees)
	}
	metric := m.metrics.Complete()
	if err != nil {
		log.Error().Err(err).Int("episodes", metric.Episodes).Msg("search-aborted")
		return metric, err
	}

	log.Debug().Int("episodes", metric.Episodes).Int("degenerate", metric.Degenerate).
		Int("expansions", metric.Expansions).Dur("took", metric.Duration).Msg("search-completed")
	return metric, nil
}

func (m *MCTS[S, A, P]) iterate(state S, trees []*Tree[A, P]) error {
	for i := 0; i < m.episodes; i++ {
		if err := m.RunIteration(state, trees); err != nil {
			return err
		}
	}
	return nil
}

func (m *MCTS[S, A, P]) countdown(state S, trees []*Tree[A, P]) error {
	deadline := time.Now().Add(m.duration)
	for time.Now().Before(deadline) {
		if err := m.RunIteration(state, trees); err != nil {
			return err
		}
	}
	return nil
}

// RunIteration performs one select, simulate and propagate pass from state,
// mutating trees in place. An iteration that exhausts the horizon changes no
// statistics beyond select counts and returns nil.
func (m *MCTS[S, A, P]) RunIteration(state S, trees []*Tree[A, P]) (err error) {
	defer recoverViolation(&err)

	if len(trees) != len(m.players) {
		violate("run iteration", "got %d trees for %d players", len(trees), len(m.players))
	}

	w := m.selectThenExpand(state, trees)
	m.metrics.AddExpansions(w.expansions)

	if w.frontier == nil {
		m.metrics.AddDegenerate()
		m.metrics.AddEpisode()
		return nil
	}

	var returns []float64
	if w.state.IsTerminal() {
		returns = rewards(m.problem, m.players, w.state)
		m.metrics.AddTerminal()
	} else {
		returns = m.simulator.Simulate(m.problem, w.state, m.horizon, m.discount)
		m.metrics.AddRollout()
	}
	if len(returns) != len(m.players) {
		violate("simulate", "got %d returns for %d players", len(returns), len(m.players))
	}

	backup(trees, w.frontier, returns)
	m.metrics.AddEpisode()
	return nil
}

type walk[S any] struct {
	state      S
	frontier   []NodeID // Per player, nil when the horizon was exhausted
	plies      int
	expansions int
}

// selectThenExpand walks every player's tree in lock-step along the true
// trajectory, expanding dangling edges of all trees as it goes. It stops at a
// terminal state or once the actor's own tree crosses its frontier.
func (m *MCTS[S, A, P]) selectThenExpand(state S, trees []*Tree[A, P]) walk[S] {
	nodes := make([]NodeID, len(trees))
	for i := range nodes {
		nodes[i] = Root
	}
	edges := make([]EdgeID, len(trees))
	w := walk[S]{state: state}

	for ; w.plies < m.horizon; w.plies++ {
		for i, tree := range trees {
			tree.Statistics(nodes[i]).IncrementSelectCount()
		}
		if w.state.IsTerminal() {
			w.frontier = nodes
			return w
		}

		actor := w.state.CurrentActor()
		ai := m.playerIndex(actor)
		if trees[ai].IsTerminal(nodes[ai]) {
			violate("select", "actor %v has no edges at a non-terminal state", actor)
		}
		chosen := m.policy.SelectEdge(trees[ai], nodes[ai], w.state)
		if trees[ai].Source(chosen) != nodes[ai] {
			violate("select", "policy chose edge %d outside node %d", chosen, nodes[ai])
		}
		action := trees[ai].Action(chosen)
		crossed := trees[ai].IsDangling(chosen)

		for i, player := range m.players {
			visible := m.problem.VisibleAction(w.state, action, player)
			edges[i] = trees[i].Edge(nodes[i], visible)
		}

		next := w.state.Apply(action)
		for i, player := range m.players {
			if trees[i].IsDangling(edges[i]) {
				obs := m.problem.Observe(next, player)
				trees[i].SetActionReward(edges[i], obs.Reward())
				trees[i].CreateChild(edges[i], nodeLabel(next.CurrentActor(), obs), obs.LegalActions())
				w.expansions++
			}
			nodes[i] = trees[i].Target(edges[i])
		}
		w.state = next

		if crossed {
			w.plies++
			w.frontier = nodes
			return w
		}
	}

	// A terminal state reached on the last ply still counts as a terminal walk
	if w.state.IsTerminal() {
		for i, tree := range trees {
			tree.Statistics(nodes[i]).IncrementSelectCount()
		}
		w.frontier = nodes
	}
	return w
}

// backup folds each player's return into every node from its frontier node
// up to its root.
func backup[A comparable, P comparable](trees []*Tree[A, P], frontier []NodeID, returns []float64) {
	for i, tree := range trees {
		node, ok := frontier[i], true
		for ok {
			tree.Statistics(node).AddSample(returns[i], 1)
			node, ok = tree.Parent(node)
		}
	}
}

func (m *MCTS[S, A, P]) playerIndex(player P) int {
	i := utils.FindIndex(m.players, player)
	if i < 0 {
		violate("player index", "unknown player %v", player)
	}
	return i
}

// BestAction returns the root action of player's tree whose child has the
// highest expected sample. Among equal values a child the tree can continue
// from beats a terminal one, then the earliest edge wins.
func (m *MCTS[S, A, P]) BestAction(trees []*Tree[A, P], player P) (best A, err error) {
	defer recoverViolation(&err)

	tree := trees[m.playerIndex(player)]
	found, bestOpen := false, false
	bestValue := 0.0
	for _, e := range tree.Edges(Root) {
		if tree.IsDangling(e) {
			continue
		}
		child := tree.Target(e)
		stats := tree.Statistics(child).Snapshot()
		if stats.SampleCount == 0 {
			continue
		}
		open := !tree.IsTerminal(child)
		better := stats.ExpectedReward > bestValue || (stats.ExpectedReward == bestValue && open && !bestOpen)
		if !found || better {
			best, bestValue, bestOpen, found = tree.Action(e), stats.ExpectedReward, open, true
		}
	}
	if !found {
		violate("best action", "root of player %v has no sampled edges", player)
	}
	return best, nil
}

// RootPolicy returns the sample count of every expanded root edge of
// player's tree.
func (m *MCTS[S, A, P]) RootPolicy(trees []*Tree[A, P], player P) (policy map[A]float64, err error) {
	defer recoverViolation(&err)

	tree := trees[m.playerIndex(player)]
	policy = make(map[A]float64, len(tree.Edges(Root)))
	for _, e := range tree.Edges(Root) {
		if tree.IsDangling(e) {
			continue
		}
		policy[tree.Action(e)] = tree.Statistics(tree.Target(e)).SampleCount()
	}
	return policy, nil
}
