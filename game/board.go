package game

import (
	"fmt"
	"strings"
)

// Size is the width and height of a 2048 board.
const Size = 4

// Board is a 2048 position. Boards are values: Apply returns a modified copy.
type Board struct {
	Cells [Size][Size]uint32
	// NewTileSum is the total of the tiles created by merges in the last shift
	NewTileSum uint32
	// Terminal is set on the result of a shift that moved no tile
	Terminal bool
	// Dropped is set once the environment placed its tile, handing the turn
	// to the agent
	Dropped bool
}

// NewBoard returns an empty board with the environment to move.
func NewBoard() Board {
	return Board{}
}

func (b Board) Apply(action Action) Board {
	switch action.Kind {
	case ShiftLeft:
		return b.shiftLeft()
	case ShiftRight:
		return b.shiftRight()
	case ShiftUp:
		return b.shiftUp()
	case ShiftDown:
		return b.shiftDown()
	case Place:
		result := b
		result.Cells[action.Row][action.Col] = 2
		result.NewTileSum = 0
		result.Dropped = true
		return result
	}
	panic(fmt.Sprintf("unknown action kind %d", action.Kind))
}

func (b Board) CurrentActor() Player {
	if b.Dropped {
		return Agent
	}
	return Environment
}

func (b Board) IsTerminal() bool {
	return b.Terminal
}

// Reward is the sum of the tiles created by the last shift.
func (b Board) Reward() float64 {
	return float64(b.NewTileSum)
}

// LegalActions returns the four shifts on the agent's turn and one placement
// per empty cell on the environment's turn.
func (b Board) LegalActions() []Action {
	if b.Terminal {
		return nil
	}
	if b.Dropped {
		return []Action{Left, Right, Up, Down}
	}
	var actions []Action
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if b.Cells[row][col] == 0 {
				actions = append(actions, PlaceAt(row, col))
			}
		}
	}
	return actions
}

// MaxTile returns the largest tile on the board.
func (b Board) MaxTile() uint32 {
	var tile uint32
	for row := range b.Cells {
		for _, cell := range b.Cells[row] {
			tile = max(tile, cell)
		}
	}
	return tile
}

func (b Board) shiftLeft() Board {
	result := Board{}
	changed := false
	for row := 0; row < Size; row++ {
		pos := 0
		// A tile merges at most once per shift
		merged := true
		for col := 0; col < Size; col++ {
			tile := b.Cells[row][col]
			if tile == 0 {
				continue
			}
			if !merged && result.Cells[row][pos-1] == tile {
				result.Cells[row][pos-1] *= 2
				result.NewTileSum += result.Cells[row][pos-1]
				merged = true
				changed = true
				continue
			}
			result.Cells[row][pos] = tile
			if pos != col {
				changed = true
			}
			pos++
			merged = false
		}
	}
	result.Terminal = !changed
	return result
}

func (b Board) shiftRight() Board {
	return b.mirror().shiftLeft().mirror()
}

func (b Board) shiftUp() Board {
	return b.transpose().shiftLeft().transpose()
}

func (b Board) shiftDown() Board {
	return b.transpose().shiftRight().transpose()
}

func (b Board) transpose() Board {
	for row := 0; row < Size; row++ {
		for col := row + 1; col < Size; col++ {
			b.Cells[row][col], b.Cells[col][row] = b.Cells[col][row], b.Cells[row][col]
		}
	}
	return b
}

// mirror reverses every row.
func (b Board) mirror() Board {
	for row := 0; row < Size; row++ {
		for col := 0; col < Size/2; col++ {
			b.Cells[row][col], b.Cells[row][Size-1-col] = b.Cells[row][Size-1-col], b.Cells[row][col]
		}
	}
	return b
}

func (b Board) String() string {
	var sb strings.Builder
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			fmt.Fprintf(&sb, "|%5d", b.Cells[row][col])
		}
		sb.WriteString("|\n")
	}
	status := "><"
	if b.Terminal {
		status = "<>"
	}
	fmt.Fprintf(&sb, "%s, %d\n", status, b.NewTileSum)
	return sb.String()
}
