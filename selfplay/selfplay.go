package selfplay

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/kristbsy/alpha-scuffed/dataset"
	"github.com/kristbsy/alpha-scuffed/game"
	"github.com/kristbsy/alpha-scuffed/searcher"
)

// Augmenter lets a game contribute symmetric variations of a searched
// position as extra training rows.
type Augmenter interface {
	Variations(stats searcher.GameStats) []searcher.GameStats
}

func variations(g game.Game, stats searcher.GameStats) []searcher.GameStats {
	if a, ok := g.(Augmenter); ok {
		return a.Variations(stats)
	}
	return []searcher.GameStats{stats}
}

// CreateDataset plays numGames games of the engine against itself and
// collects one training row per searched position. The board is flipped
// after every move so the side to act is always canonical; visit rows are
// softmax-normalized at the end. When the searcher was built with metrics,
// the per-search metrics are returned alongside the dataset.
func CreateDataset(numGames int, newGame func() game.Game, policy game.Policy, mcts *searcher.MCTS) (*dataset.Dataset, []searcher.SearchMetric, error) {
	ds := &dataset.Dataset{}
	var metrics []searcher.SearchMetric

	for i := 0; i < numGames; i++ {
		g := newGame()
		for !g.GameEnded() {
			stats, err := mcts.Search(g, policy)
			if err != nil {
				return nil, nil, fmt.Errorf("search failed in game %d: %w", i, err)
			}
			metrics = append(metrics, mcts.LastMetric())

			g.PerformMove(stats.BestMoveIndex)
			g.FlipBoard()

			for _, s := range variations(g, stats) {
				ds.Append(s)
			}
		}
		if i%10 == 0 {
			log.Info().Int("games", i+1).Int("rows", ds.Len()).Msg("self-play progress")
		}
	}

	ds.VisitStats = dataset.Softmax(ds.VisitStats)
	return ds, metrics, nil
}

// PlayMatch plays the engine against the policy's raw moves on the same
// board and returns the winner, if any. The engine always acts for the
// canonical Self side.
func PlayMatch(g game.Game, policy game.Policy, mcts *searcher.MCTS) (game.Player, bool, error) {
	for !g.GameEnded() {
		stats, err := mcts.Search(g, policy)
		if err != nil {
			return game.Self, false, err
		}
		g.PerformMove(stats.BestMoveIndex)
		log.Debug().Int("move", stats.BestMoveIndex).Float64("score", stats.Score).Msg("engine moved")
		if g.GameEnded() {
			break
		}

		move, err := policy.SelectMove(g)
		if err != nil {
			return game.Self, false, fmt.Errorf("opponent move failed: %w", err)
		}
		g.PerformMove(move)
		log.Debug().Int("move", move).Msg("opponent moved")
	}

	winner, ok := g.WinningPlayer()
	return winner, ok, nil
}
