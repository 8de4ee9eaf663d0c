package game

import (
	"fmt"
	"planner/searcher"
)

type ShellPlayer int

const (
	Hider ShellPlayer = iota
	Seeker
)

func (p ShellPlayer) String() string {
	if p == Hider {
		return "hider"
	}
	return "seeker"
}

type ShellMove int

const (
	Hide ShellMove = iota
	Guess
	// Concealed is how the seeker sees any hide
	Concealed
)

type ShellAction struct {
	Move ShellMove
	Cup  int
}

func (a ShellAction) String() string {
	switch a.Move {
	case Hide:
		return fmt.Sprintf("hide(%d)", a.Cup)
	case Guess:
		return fmt.Sprintf("guess(%d)", a.Cup)
	}
	return "concealed"
}

// ShellState is a round of the shell game. Ball and Choice are -1 until the
// hider and the seeker have moved.
type ShellState struct {
	Cups   int
	Ball   int
	Choice int
}

func NewShellState(cups int) ShellState {
	if cups < 1 {
		panic("shell game needs at least one cup")
	}
	return ShellState{Cups: cups, Ball: -1, Choice: -1}
}

func (s ShellState) Apply(action ShellAction) ShellState {
	switch action.Move {
	case Hide:
		s.Ball = action.Cup
	case Guess:
		s.Choice = action.Cup
	default:
		panic("concealed actions cannot be played")
	}
	return s
}

func (s ShellState) CurrentActor() ShellPlayer {
	if s.Ball < 0 {
		return Hider
	}
	return Seeker
}

func (s ShellState) IsTerminal() bool {
	return s.Choice >= 0
}

// Found reports whether the seeker guessed the ball's cup.
func (s ShellState) Found() bool {
	return s.IsTerminal() && s.Choice == s.Ball
}

type shellObservation struct {
	reward  float64
	actions []ShellAction
}

func (o shellObservation) Reward() float64 {
	return o.reward
}

func (o shellObservation) LegalActions() []ShellAction {
	return o.actions
}

// ShellGame hides a ball under one of several cups. The seeker never sees
// where it went and is paid 1 for finding it; the hider is paid otherwise.
type ShellGame struct{}

func (ShellGame) Observe(state ShellState, player ShellPlayer) searcher.Observation[ShellAction] {
	obs := shellObservation{}
	if state.IsTerminal() {
		found := state.Found()
		if (player == Seeker) == found {
			obs.reward = 1
		}
		return obs
	}

	if state.CurrentActor() == Hider {
		if player == Seeker {
			obs.actions = []ShellAction{{Move: Concealed}}
			return obs
		}
		for cup := 0; cup < state.Cups; cup++ {
			obs.actions = append(obs.actions, ShellAction{Move: Hide, Cup: cup})
		}
		return obs
	}
	for cup := 0; cup < state.Cups; cup++ {
		obs.actions = append(obs.actions, ShellAction{Move: Guess, Cup: cup})
	}
	return obs
}

func (ShellGame) Players() []ShellPlayer {
	return []ShellPlayer{Hider, Seeker}
}

func (ShellGame) VisibleAction(_ ShellState, action ShellAction, player ShellPlayer) ShellAction {
	if action.Move == Hide && player == Seeker {
		return ShellAction{Move: Concealed}
	}
	return action
}
