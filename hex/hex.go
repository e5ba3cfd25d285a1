package hex

import (
	"fmt"
	"strings"

	"github.com/kristbsy/alpha-scuffed/game"
)

// Game is a hex connection game. The hexagonal board is represented as a
// skewed square of side n stored row-major; each cell touches up to six
// neighbours. Self connects the left and right edges, Opponent the top and
// bottom.
//
// Neighbour offsets for index i on a board of width w:
//
//	 upper left: i - 1
//	upper right: i - w
//	       left: i + w - 1
//	 lower left: i + w
//	lower right: i + 1
//	      right: i - w + 1
type Game struct {
	board     []game.Space
	side      int
	current   game.Player
	winner    game.Player
	hasWinner bool
	ended     bool
}

func New(side int) *Game {
	if side < 2 {
		panic("hex board side must be at least 2")
	}
	return &Game{
		board:   make([]game.Space, side*side),
		side:    side,
		current: game.Self,
	}
}

func (g *Game) connections(index int) []int {
	out := make([]int, 0, 6)
	x := index % g.side
	y := index / g.side
	width := g.side

	// false negative
	upperLeftWall := x == 0
	lowerLeftWall := y == g.side-1
	leftWall := upperLeftWall || lowerLeftWall
	// false positive
	upperRightWall := y == 0
	lowerRightWall := x == g.side-1
	rightWall := upperRightWall || lowerRightWall

	add := func(i int) {
		if i >= 0 && i < len(g.board) {
			out = append(out, i)
		}
	}
	if !upperLeftWall {
		add(index - 1)
	}
	if !upperRightWall {
		add(index - width)
	}
	if !leftWall {
		add(index + width - 1)
	}
	if !lowerLeftWall {
		add(index + width)
	}
	if !lowerRightWall {
		add(index + 1)
	}
	if !rightWall {
		add(index - width + 1)
	}
	return out
}

// checkWinner searches for a chain of either player's pieces between that
// player's two edges, starting from the pieces on the first edge and
// expanding until the opposite edge is reached or the chain is exhausted.
func (g *Game) checkWinner() {
	total := len(g.board)
	for _, player := range []game.Player{game.Self, game.Opponent} {
		piece := player.Space()

		var initial, targets []int
		if player == game.Self {
			for i := 0; i < g.side; i++ {
				if g.board[i*g.side] == piece {
					initial = append(initial, i*g.side)
				}
				targets = append(targets, i*g.side+g.side-1)
			}
		} else {
			for i := 0; i < g.side; i++ {
				if g.board[i] == piece {
					initial = append(initial, i)
				}
			}
			for i := total - g.side; i < total; i++ {
				targets = append(targets, i)
			}
		}

		queue := append([]int(nil), initial...)
		seen := make(map[int]bool, total)
		for _, i := range queue {
			seen[i] = true
		}
		for i := 0; i < len(queue); i++ {
			for _, conn := range g.connections(queue[i]) {
				if seen[conn] || g.board[conn] != piece {
					continue
				}
				for _, target := range targets {
					if conn == target {
						g.winner = player
						g.hasWinner = true
						g.ended = true
						return
					}
				}
				seen[conn] = true
				queue = append(queue, conn)
			}
		}
	}

	g.hasWinner = false
	g.ended = false
}

func (g *Game) WinningPlayer() (game.Player, bool) {
	return g.winner, g.hasWinner
}

func (g *Game) AvailableMoves() []bool {
	moves := make([]bool, len(g.board))
	for i, space := range g.board {
		moves[i] = space == game.Empty
	}
	return moves
}

func (g *Game) PerformMove(space int) {
	if g.board[space] != game.Empty {
		panic(fmt.Sprintf("tried to make move on occupied hex %d", space))
	}
	g.board[space] = g.current.Space()
	g.current = g.current.Swap()
	g.checkWinner()
}

func (g *Game) GameEnded() bool {
	return g.ended
}

func (g *Game) CurrentPlayer() game.Player {
	return g.current
}

// FlipBoard transposes the board and swaps the pieces, turning a left-right
// chain for one side into a top-bottom chain for the other.
func (g *Game) FlipBoard() {
	width := g.side
	out := make([]game.Space, len(g.board))
	for i := 0; i < width; i++ {
		for j := 0; j < width; j++ {
			out[i*width+j] = g.board[j*width+i].Swap()
		}
	}
	g.board = out
	g.current = g.current.Swap()
	if g.hasWinner {
		g.winner = g.winner.Swap()
	}
}

// StateSlice encodes each cell as its two-plane pair, interleaved.
func (g *Game) StateSlice() []float64 {
	out := make([]float64, 0, 2*len(g.board))
	for _, space := range g.board {
		planes := space.Planes()
		out = append(out, planes[0], planes[1])
	}
	return out
}

func (g *Game) Clone() game.Game {
	clone := *g
	clone.board = append([]game.Space(nil), g.board...)
	return &clone
}

func (g *Game) NumMoves() int {
	return len(g.board)
}

func (g *Game) StateSize() int {
	return 2 * len(g.board)
}

// String renders the skewed square as a diamond, widest at the middle row.
func (g *Game) String() string {
	height := g.side*2 - 1
	stride := g.side - 1
	var b strings.Builder
	for h := 0; h < height; h++ {
		var startIndex int
		if h < g.side {
			startIndex = h * g.side
		} else {
			startIndex = g.side*g.side - g.side + h - (g.side - 1)
		}
		middleDistance := h + 1 - g.side
		if middleDistance < 0 {
			middleDistance = -middleDistance
		}
		amount := g.side - middleDistance

		b.WriteString(strings.Repeat(" ", middleDistance))
		if h <= height/2 {
			b.WriteString("/")
		} else {
			b.WriteString("\\")
		}
		for i := 0; i < amount; i++ {
			switch g.board[startIndex-stride*i] {
			case game.SelfSpace:
				b.WriteString("X")
			case game.OpponentSpace:
				b.WriteString("O")
			default:
				b.WriteString(" ")
			}
			if i < amount-1 {
				b.WriteString(" ")
			} else if h <= height/2 {
				b.WriteString("\\")
			} else {
				b.WriteString("/")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}
