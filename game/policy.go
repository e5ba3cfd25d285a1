package game

import (
	"fmt"
	"time"

	"golang.org/x/exp/rand"
)

// Policy chooses rollout moves for the searcher. Implementations backed by a
// model may additionally predict position scores; CanPredictScore declares
// whether PredictScore is meaningful.
type Policy interface {
	SelectMove(g Game) (int, error)
	// SelectMovesBatch exists so model-backed policies can batch inference;
	// a per-element loop is a conforming implementation.
	SelectMovesBatch(games []Game) ([]int, error)
	PredictScore(g Game) (float64, error)
	CanPredictScore() bool
}

// RandomPolicy selects uniformly among legal moves and never predicts scores.
type RandomPolicy struct {
	rng *rand.Rand
}

// NewRandomPolicy returns a uniform-random policy. Pass a nil rng to seed
// from the wall clock.
func NewRandomPolicy(rng *rand.Rand) *RandomPolicy {
	if rng == nil {
		rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}
	return &RandomPolicy{rng: rng}
}

func (p *RandomPolicy) SelectMove(g Game) (int, error) {
	moves := MoveIndices(g)
	if len(moves) == 0 {
		return 0, fmt.Errorf("no legal moves to select from")
	}
	return moves[p.rng.Intn(len(moves))], nil
}

func (p *RandomPolicy) SelectMovesBatch(games []Game) ([]int, error) {
	moves := make([]int, len(games))
	for i, g := range games {
		move, err := p.SelectMove(g)
		if err != nil {
			return nil, err
		}
		moves[i] = move
	}
	return moves, nil
}

func (p *RandomPolicy) PredictScore(Game) (float64, error) {
	return 0, fmt.Errorf("random policy cannot predict scores")
}

func (p *RandomPolicy) CanPredictScore() bool {
	return false
}
