package searcher

import (
	"fmt"
	"math"
	"time"

	"golang.org/x/exp/rand"

	"github.com/kristbsy/alpha-scuffed/game"
)

// GameStats is the output of one search, consumed by the self-play driver as
// a training example.
type GameStats struct {
	BestMoveIndex int
	GameState     []float64
	NodeVisits    []float64
	Score         float64
}

type Option func(m *MCTS)

// WithSimulations overrides the number of simulations per search.
func WithSimulations(simulations int) Option {
	return func(m *MCTS) {
		if simulations > 0 {
			m.simulations = simulations
		}
	}
}

// WithRand injects the randomness source used for selection tie breaks, so
// tests can seed it deterministically.
func WithRand(rng *rand.Rand) Option {
	return func(m *MCTS) {
		if rng != nil {
			m.rng = rng
		}
	}
}

// WithMetrics enables per-search metric collection.
func WithMetrics() Option {
	return func(m *MCTS) {
		m.metrics = newCollector()
	}
}

// MCTS runs Monte-Carlo tree search over positions implementing game.Game.
// A searcher is single-threaded: one search owns its tree exclusively and
// runs to completion before returning.
type MCTS struct {
	simulations int
	rng         *rand.Rand
	metrics     Collector
	lastMetric  SearchMetric
}

func NewMCTS(options ...Option) *MCTS {
	m := &MCTS{ // Default values
		simulations: SIMULATIONS,
		rng:         rand.New(rand.NewSource(uint64(time.Now().UnixNano()))),
		metrics:     newDummyCollector(),
	}
	for _, option := range options {
		option(m)
	}
	return m
}

// Search runs the configured number of simulations from the given position
// and reduces the tree to move statistics. The position is cloned up front
// and never mutated. Policy failures during rollout abort the whole search;
// recovery is the caller's concern.
func (m *MCTS) Search(g game.Game, policy game.Policy) (GameStats, error) {
	if err := checkDimensions(g); err != nil {
		return GameStats{}, err
	}
	if !g.GameEnded() && len(game.MoveIndices(g)) == 0 {
		return GameStats{}, fmt.Errorf("root position has no legal moves but the game has not ended")
	}

	m.metrics.Start(m.simulations)
	t := newTree(g.Clone())

	for i := 0; i < m.simulations; i++ {
		leaf := m.selectLeaf(t)
		position := t.at(leaf).game

		if position.GameEnded() {
			t.backprop(leaf, terminalPoints(position))
			m.metrics.AddTerminalVisit()
			continue
		}

		result, err := rollout(position, policy)
		if err != nil {
			return GameStats{}, fmt.Errorf("rollout failed: %w", err)
		}
		t.expand(leaf)
		t.backprop(leaf, result.Points())
		m.metrics.AddRollout()
	}

	m.metrics.SetTreeSize(t.size())
	m.lastMetric = m.metrics.Complete()
	return treeStats(t)
}

// LastMetric returns the metrics of the most recent search. Only meaningful
// when the searcher was built WithMetrics.
func (m *MCTS) LastMetric() SearchMetric {
	return m.lastMetric
}

// selectLeaf descends from the root to a node without children, always
// following the child with the highest selection score.
func (m *MCTS) selectLeaf(t *tree) NodeID {
	id := t.root()
	for len(t.childrenOf(id)) > 0 {
		id = m.selectChild(t, id)
	}
	return id
}

// selectChild returns the child with the highest UCB score; ties are broken
// uniformly at random among all maximizers.
func (m *MCTS) selectChild(t *tree, id NodeID) NodeID {
	parent := t.at(id)
	best := math.Inf(-1)
	var ties []NodeID
	for _, childID := range parent.children {
		score := ucb(t.at(childID), parent)
		if score > best {
			best = score
			ties = ties[:0]
		}
		if score == best {
			ties = append(ties, childID)
		}
	}
	if len(ties) == 0 {
		panic("cannot select child: node has no children")
	}
	return ties[m.rng.Intn(len(ties))]
}

// ucb scores a child for selection. An unvisited node scores the maximum
// representable value so every child is tried before any exploitation
// ranking. The exploration term intentionally uses a double square root and
// a +1 denominator instead of the canonical UCB1 log form.
func ucb(n *node, parent *node) float64 {
	if n.visits == 0 {
		return math.MaxFloat64
	}
	exploitation := n.score / float64(n.visits)
	exploration := EXPLORATION_WEIGHT * math.Sqrt(math.Sqrt(float64(parent.visits))/float64(n.visits+1))
	return exploitation + exploration
}

// rollout plays the position to the end using the policy and reports the
// outcome relative to the canonical Self player.
func rollout(g game.Game, policy game.Policy) (game.Result, error) {
	sim := g.Clone()
	for !sim.GameEnded() {
		move, err := policy.SelectMove(sim)
		if err != nil {
			return game.Tie, err
		}
		sim.PerformMove(move)
	}
	if winner, ok := sim.WinningPlayer(); ok {
		if winner == game.Self {
			return game.Win, nil
		}
		return game.Loss, nil
	}
	return game.Tie, nil
}

// terminalPoints values an already-finished position from Self's perspective.
func terminalPoints(g game.Game) float64 {
	if winner, ok := g.WinningPlayer(); ok {
		if winner == game.Self {
			return 1
		}
		return -1
	}
	return 0
}

// treeStats reduces the finished tree to the visit distribution over the
// root's children. The best move is the child with the strictly greatest
// visit count, ties resolved by insertion order. The score is the root's raw
// accumulated score, not an average.
func treeStats(t *tree) (GameStats, error) {
	root := t.at(t.root())
	children := t.childrenOf(t.root())
	if len(children) == 0 {
		return GameStats{}, fmt.Errorf("root was never expanded: position is terminal")
	}

	visits := make([]float64, root.game.NumMoves())
	bestMove := noMove
	bestVisits := -1
	for _, childID := range children {
		child := t.at(childID)
		visits[child.sourceMove] = float64(child.visits)
		if child.visits > bestVisits {
			bestVisits = child.visits
			bestMove = child.sourceMove
		}
	}

	return GameStats{
		BestMoveIndex: bestMove,
		GameState:     root.game.StateSlice(),
		NodeVisits:    visits,
		Score:         root.score,
	}, nil
}

func checkDimensions(g game.Game) error {
	if moves := len(g.AvailableMoves()); moves != g.NumMoves() {
		return fmt.Errorf("available moves width %d does not match declared %d", moves, g.NumMoves())
	}
	if state := len(g.StateSlice()); state != g.StateSize() {
		return fmt.Errorf("state slice width %d does not match declared %d", state, g.StateSize())
	}
	return nil
}
