package searcher

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"github.com/kristbsy/alpha-scuffed/game"
)

// doorsGame: three doors, Self to move. Door 1 wins immediately for Self;
// any other door hands the turn to the opponent, who then wins with any
// move. Gives the engine a forced win in one move to find.
type doorsGame struct {
	turn   game.Player
	winner game.Player
	won    bool
	ended  bool
}

func newDoors() *doorsGame {
	return &doorsGame{turn: game.Self}
}

func (d *doorsGame) WinningPlayer() (game.Player, bool) { return d.winner, d.won }

func (d *doorsGame) AvailableMoves() []bool {
	if d.ended {
		return make([]bool, 3)
	}
	return []bool{true, true, true}
}

func (d *doorsGame) PerformMove(space int) {
	if d.ended {
		panic("move on a finished game")
	}
	switch {
	case d.turn == game.Self && space == 1:
		d.winner, d.won, d.ended = game.Self, true, true
	case d.turn == game.Self:
		d.turn = game.Opponent
	default:
		d.winner, d.won, d.ended = game.Opponent, true, true
	}
}

func (d *doorsGame) GameEnded() bool { return d.ended }

func (d *doorsGame) CurrentPlayer() game.Player { return d.turn }

func (d *doorsGame) FlipBoard() {
	d.turn = d.turn.Swap()
	if d.won {
		d.winner = d.winner.Swap()
	}
}

func (d *doorsGame) StateSlice() []float64 { return []float64{0, 0} }

func (d *doorsGame) NumMoves() int { return 3 }

func (d *doorsGame) StateSize() int { return 2 }

func (d *doorsGame) Clone() game.Game {
	clone := *d
	return &clone
}

// liarGame declares widths that do not match what it produces.
type liarGame struct {
	doorsGame
}

func (l *liarGame) NumMoves() int { return 5 }

func (l *liarGame) Clone() game.Game {
	clone := *l
	return &clone
}

type failingPolicy struct{}

func (failingPolicy) SelectMove(game.Game) (int, error) {
	return 0, fmt.Errorf("policy exploded")
}

func (failingPolicy) SelectMovesBatch([]game.Game) ([]int, error) {
	return nil, fmt.Errorf("policy exploded")
}

func (failingPolicy) PredictScore(game.Game) (float64, error) { return 0, fmt.Errorf("no") }

func (failingPolicy) CanPredictScore() bool { return false }

func testRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func TestUCB(t *testing.T) {
	t.Run("unvisited node scores the maximum value", func(t *testing.T) {
		parent := &node{visits: 10}
		unvisited := &node{}
		visited := &node{visits: 5, score: 5}

		require.Equal(t, math.MaxFloat64, ucb(unvisited, parent))
		require.Greater(t, ucb(unvisited, parent), ucb(visited, parent),
			"Unvisited children must outrank any visited sibling")
	})

	t.Run("matches the double square root formula", func(t *testing.T) {
		parent := &node{visits: 16}
		child := &node{visits: 4, score: 2}

		// 2/4 + 10*sqrt(sqrt(16)/(4+1))
		want := 0.5 + EXPLORATION_WEIGHT*math.Sqrt(math.Sqrt(16)/5)
		require.InDelta(t, want, ucb(child, parent), 1e-12)
	})
}

func TestSelectChild(t *testing.T) {
	t.Run("stays within the node's children", func(t *testing.T) {
		g := &stubGame{legal: []bool{true, true, true, true}}
		tr := newTree(g)
		tr.expand(tr.root())
		tr.at(tr.root()).visits = 4
		for _, id := range tr.childrenOf(tr.root()) {
			tr.at(id).visits = 1
		}

		m := NewMCTS(WithRand(testRand(1)))
		for i := 0; i < 100; i++ {
			picked := m.selectChild(tr, tr.root())
			require.Contains(t, tr.childrenOf(tr.root()), picked,
				"Selection must return one of the node's own children")
		}
	})

	t.Run("breaks ties uniformly at random", func(t *testing.T) {
		g := &stubGame{legal: []bool{true, true, true}}
		tr := newTree(g)
		tr.expand(tr.root())
		children := tr.childrenOf(tr.root())

		m := NewMCTS(WithRand(testRand(42)))
		picked := map[NodeID]int{}
		for i := 0; i < 300; i++ {
			picked[m.selectChild(tr, tr.root())]++
		}
		for _, id := range children {
			require.Greater(t, picked[id], 0,
				"Every maximizer should be reachable through the random tie break")
		}
	})

	t.Run("prefers the higher scored child", func(t *testing.T) {
		g := &stubGame{legal: []bool{true, true}}
		tr := newTree(g)
		tr.expand(tr.root())
		tr.at(tr.root()).visits = 2
		children := tr.childrenOf(tr.root())
		tr.at(children[0]).visits = 1
		tr.at(children[0]).score = -1
		tr.at(children[1]).visits = 1
		tr.at(children[1]).score = 1

		m := NewMCTS(WithRand(testRand(7)))
		require.Equal(t, children[1], m.selectChild(tr, tr.root()))
	})
}

func TestSearch(t *testing.T) {
	t.Run("finds the winning move", func(t *testing.T) {
		m := NewMCTS(WithSimulations(300), WithRand(testRand(3)))
		policy := game.NewRandomPolicy(testRand(4))

		stats, err := m.Search(newDoors(), policy)

		require.NoError(t, err)
		require.Equal(t, 1, stats.BestMoveIndex, "Door 1 wins immediately and must be chosen")
		require.Len(t, stats.NodeVisits, 3)
		require.Len(t, stats.GameState, 2)
	})

	t.Run("one backprop pass per simulation reaches the root", func(t *testing.T) {
		const sims = 64
		m := NewMCTS(WithSimulations(sims), WithRand(testRand(5)))
		policy := game.NewRandomPolicy(testRand(6))

		stats, err := m.Search(newDoors(), policy)

		require.NoError(t, err)
		// The first simulation stops at the root itself; every later one
		// passes through exactly one root child.
		total := 0.0
		for _, v := range stats.NodeVisits {
			total += v
		}
		require.Equal(t, float64(sims-1), total)
		for _, v := range stats.NodeVisits {
			require.Greater(t, v, 0.0, "Every root child should be visited at least once")
		}
	})

	t.Run("propagates policy failure", func(t *testing.T) {
		m := NewMCTS(WithSimulations(10), WithRand(testRand(8)))

		_, err := m.Search(newDoors(), failingPolicy{})

		require.Error(t, err)
		require.ErrorContains(t, err, "policy exploded")
	})

	t.Run("rejects a terminal root", func(t *testing.T) {
		g := newDoors()
		g.PerformMove(1)
		m := NewMCTS(WithSimulations(10), WithRand(testRand(9)))

		_, err := m.Search(g, game.NewRandomPolicy(testRand(10)))

		require.Error(t, err)
	})

	t.Run("rejects mismatched dimensions", func(t *testing.T) {
		m := NewMCTS(WithSimulations(10), WithRand(testRand(11)))

		_, err := m.Search(&liarGame{doorsGame{turn: game.Self}}, game.NewRandomPolicy(testRand(12)))

		require.Error(t, err)
		require.ErrorContains(t, err, "does not match declared")
	})

	t.Run("does not mutate the root position", func(t *testing.T) {
		g := newDoors()
		m := NewMCTS(WithSimulations(50), WithRand(testRand(13)))

		_, err := m.Search(g, game.NewRandomPolicy(testRand(14)))

		require.NoError(t, err)
		require.False(t, g.GameEnded(), "Search must clone instead of playing on the caller's position")
		require.Equal(t, game.Self, g.CurrentPlayer())
	})

	t.Run("collects metrics when enabled", func(t *testing.T) {
		m := NewMCTS(WithSimulations(40), WithRand(testRand(15)), WithMetrics())

		_, err := m.Search(newDoors(), game.NewRandomPolicy(testRand(16)))

		require.NoError(t, err)
		metric := m.LastMetric()
		require.Equal(t, 40, metric.Simulations)
		require.Equal(t, 40, metric.Rollouts+metric.TerminalVisits,
			"Every simulation either rolls out or hits a terminal leaf")
		require.Greater(t, metric.TreeSize, 1)
	})
}
