package game

import "fmt"

// Player identifies one of the two sides. Boards are kept mover-canonical
// during self-play: Self is always the side the engine searches for, and
// FlipBoard swaps the sides after each move.
type Player uint8

const (
	Self Player = iota
	Opponent
)

func (p Player) Swap() Player {
	if p == Self {
		return Opponent
	}
	return Self
}

// Space is the content of a single board cell.
type Space uint8

const (
	Empty Space = iota
	SelfSpace
	OpponentSpace
)

// Swap exchanges the two players' pieces, empty stays the same.
func (s Space) Swap() Space {
	switch s {
	case SelfSpace:
		return OpponentSpace
	case OpponentSpace:
		return SelfSpace
	default:
		return Empty
	}
}

// Planes returns the two-plane encoding of the cell: one slot per player,
// 1.0 where that player has a piece.
func (s Space) Planes() [2]float64 {
	switch s {
	case SelfSpace:
		return [2]float64{1, 0}
	case OpponentSpace:
		return [2]float64{0, 1}
	default:
		return [2]float64{0, 0}
	}
}

func (s Space) ToPlayer() (Player, error) {
	switch s {
	case SelfSpace:
		return Self, nil
	case OpponentSpace:
		return Opponent, nil
	default:
		return Self, fmt.Errorf("cannot get player from empty space")
	}
}

func (p Player) Space() Space {
	if p == Opponent {
		return OpponentSpace
	}
	return SelfSpace
}

// Result is the outcome of a finished playout, relative to Self.
type Result uint8

const (
	Win Result = iota
	Loss
	Tie
)

// Points converts an outcome to the value backpropagated through the tree.
func (r Result) Points() float64 {
	switch r {
	case Win:
		return 1
	case Loss:
		return -1
	default:
		return 0
	}
}

// Game is the contract any playable position must satisfy. Positions are
// cheap value types: Clone must return a deep, independent copy.
//
// NumMoves and StateSize declare the fixed widths of AvailableMoves and
// StateSlice; they must not change over the lifetime of a position.
type Game interface {
	// WinningPlayer reports the winner, if the game has concluded with one.
	WinningPlayer() (Player, bool)
	// AvailableMoves has one slot per move index, true iff the move is legal.
	AvailableMoves() []bool
	// PerformMove applies a legal move and advances the player to move.
	// Applying an illegal move is a programmer error and panics.
	PerformMove(space int)
	// GameEnded is true iff no legal moves remain or there is a winner.
	GameEnded() bool
	CurrentPlayer() Player
	// FlipBoard swaps the two players' pieces so the side to move becomes Self.
	FlipBoard()
	// StateSlice is the fixed-width numeric encoding consumed by the model.
	StateSlice() []float64
	Clone() Game
	NumMoves() int
	StateSize() int
}

// MoveIndices returns the indices of all currently legal moves.
func MoveIndices(g Game) []int {
	available := g.AvailableMoves()
	moves := make([]int, 0, len(available))
	for i, ok := range available {
		if ok {
			moves = append(moves, i)
		}
	}
	return moves
}
