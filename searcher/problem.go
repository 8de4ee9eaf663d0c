package searcher

// HiddenState is the true state of a decision process. Implementations must be
// immutable: Apply returns a new state and leaves the receiver untouched.
type HiddenState[S any, A comparable, P comparable] interface {
	Apply(action A) S
	// CurrentActor names the single player expected to act next
	CurrentActor() P
	IsTerminal() bool
}

// Observation is a player's view of a hidden state.
type Observation[A comparable] interface {
	// Reward for the most recent transition from the observing player's perspective
	Reward() float64
	// LegalActions as visible to the observing player, empty iff terminal
	LegalActions() []A
}

// ActorObserver is optionally implemented by observations that expose the
// actor as perceived by the observing player. Trees label their nodes with the
// perceived actor when it is available and with the true actor otherwise.
type ActorObserver[P comparable] interface {
	PerceivedActor() P
}

// SearchProblem binds a domain to the searcher. Any game that aims to be
// playable by the searcher implements it; the searcher never stores states.
type SearchProblem[S HiddenState[S, A, P], A comparable, P comparable] interface {
	// Observe must be referentially stable for equal state and player
	Observe(state S, player P) Observation[A]
	// Players returns the canonical player order, stable within a session
	Players() []P
	// VisibleAction translates an action of the true trajectory into the
	// action as it appears in player's information set. Fully observable
	// domains return action unchanged.
	VisibleAction(state S, action A, player P) A
}

// rewards returns each player's immediate reward at state, index-aligned with players.
func rewards[S HiddenState[S, A, P], A comparable, P comparable](problem SearchProblem[S, A, P], players []P, state S) []float64 {
	result := make([]float64, len(players))
	for i, player := range players {
		result[i] = problem.Observe(state, player).Reward()
	}
	return result
}

// nodeLabel returns the actor a player's tree records for a state whose true
// actor is actor and which the player observes as obs.
func nodeLabel[A comparable, P comparable](actor P, obs Observation[A]) P {
	if perceived, ok := obs.(ActorObserver[P]); ok {
		return perceived.PerceivedActor()
	}
	return actor
}
