package tictactoe

import (
	"fmt"
	"strings"

	"github.com/kristbsy/alpha-scuffed/game"
)

const (
	// NumMoves is one move per board cell.
	NumMoves = 9
	// StateSize is two planes of 9 cells each.
	StateSize = 18
)

// Game is a 3x3 tic-tac-toe board.
// Indices:
//
//	0 1 2
//	3 4 5
//	6 7 8
type Game struct {
	board   [9]game.Space
	current game.Player
}

func New() *Game {
	return &Game{current: game.Self}
}

var lines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8}, // rows
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8}, // columns
	{0, 4, 8}, {2, 4, 6}, // diagonals
}

func (g *Game) WinningPlayer() (game.Player, bool) {
	for _, line := range lines {
		first := g.board[line[0]]
		if first == game.Empty {
			continue
		}
		if first == g.board[line[1]] && first == g.board[line[2]] {
			player, err := first.ToPlayer()
			if err != nil {
				panic(err)
			}
			return player, true
		}
	}
	return game.Self, false
}

func (g *Game) AvailableMoves() []bool {
	moves := make([]bool, NumMoves)
	for i, space := range g.board {
		moves[i] = space == game.Empty
	}
	return moves
}

func (g *Game) PerformMove(space int) {
	if g.board[space] != game.Empty {
		panic(fmt.Sprintf("tried to move on occupied space %d", space))
	}
	g.board[space] = g.current.Space()
	g.current = g.current.Swap()
}

func (g *Game) GameEnded() bool {
	if _, ok := g.WinningPlayer(); ok {
		return true
	}
	for _, space := range g.board {
		if space == game.Empty {
			return false
		}
	}
	return true
}

func (g *Game) CurrentPlayer() game.Player {
	return g.current
}

func (g *Game) FlipBoard() {
	for i, space := range g.board {
		g.board[i] = space.Swap()
	}
	g.current = g.current.Swap()
}

// StateSlice encodes the board as two stacked planes: first Self's pieces,
// then Opponent's.
func (g *Game) StateSlice() []float64 {
	out := make([]float64, StateSize)
	for i, space := range g.board {
		if space == game.SelfSpace {
			out[i] = 1
		}
	}
	for i, space := range g.board {
		if space == game.OpponentSpace {
			out[len(g.board)+i] = 1
		}
	}
	return out
}

func (g *Game) Clone() game.Game {
	clone := *g
	return &clone
}

func (g *Game) NumMoves() int {
	return NumMoves
}

func (g *Game) StateSize() int {
	return StateSize
}

func (g *Game) String() string {
	cells := make([]string, 9)
	for i, space := range g.board {
		switch space {
		case game.SelfSpace:
			cells[i] = "X"
		case game.OpponentSpace:
			cells[i] = "O"
		default:
			cells[i] = " "
		}
	}
	next := "X"
	if g.current == game.Opponent {
		next = "O"
	}

	var b strings.Builder
	b.WriteString("╔═╦═╦═╗\n")
	fmt.Fprintf(&b, "║%s║%s║%s║\n", cells[0], cells[1], cells[2])
	b.WriteString("╠═╬═╬═╣\n")
	fmt.Fprintf(&b, "║%s║%s║%s║\n", cells[3], cells[4], cells[5])
	b.WriteString("╠═╬═╬═╣\n")
	fmt.Fprintf(&b, "║%s║%s║%s║\n", cells[6], cells[7], cells[8])
	b.WriteString("╚═╩═╩═╝\n")
	fmt.Fprintf(&b, "Next player: %s", next)
	return b.String()
}
