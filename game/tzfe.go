package game

import (
	"fmt"
	"planner/searcher"
)

type Player int

const (
	// Environment drops a new tile after every shift
	Environment Player = iota
	Agent
)

func (p Player) String() string {
	switch p {
	case Environment:
		return "environment"
	case Agent:
		return "agent"
	}
	return fmt.Sprintf("player(%d)", int(p))
}

type ActionKind int

const (
	ShiftLeft ActionKind = iota
	ShiftRight
	ShiftUp
	ShiftDown
	// Place is the environment's move
	Place
)

// Action is a shift of the agent or a tile placement of the environment.
// Row and Col are only meaningful for placements.
type Action struct {
	Kind ActionKind
	Row  int
	Col  int
}

var (
	Left  = Action{Kind: ShiftLeft}
	Right = Action{Kind: ShiftRight}
	Up    = Action{Kind: ShiftUp}
	Down  = Action{Kind: ShiftDown}
)

func PlaceAt(row, col int) Action {
	return Action{Kind: Place, Row: row, Col: col}
}

func (a Action) String() string {
	switch a.Kind {
	case ShiftLeft:
		return "left"
	case ShiftRight:
		return "right"
	case ShiftUp:
		return "up"
	case ShiftDown:
		return "down"
	case Place:
		return fmt.Sprintf("place(%d,%d)", a.Row, a.Col)
	}
	return fmt.Sprintf("action(%d)", int(a.Kind))
}

// TwoZeroFourEight is the fully observable 2048 search problem. Both players
// observe the board itself.
type TwoZeroFourEight struct{}

func (TwoZeroFourEight) Observe(state Board, _ Player) searcher.Observation[Action] {
	return state
}

func (TwoZeroFourEight) Players() []Player {
	return []Player{Environment, Agent}
}

func (TwoZeroFourEight) VisibleAction(_ Board, action Action, _ Player) Action {
	return action
}
