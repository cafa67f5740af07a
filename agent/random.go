package agent

import (
	"time"

	"golang.org/x/exp/rand"

	"hex/experiments/metrics"
	"hex/game"
	"hex/searcher"
)

type randomAgent struct {
	player game.Player
	rng    *rand.Rand
}

// NewRandomAgent returns a baseline agent playing a uniformly random legal
// move.
func NewRandomAgent(p game.Player, rng *rand.Rand) Agent {
	if !p.Valid() {
		panic("invalid player for random agent")
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}
	return &randomAgent{player: p, rng: rng}
}

func (a *randomAgent) Player() game.Player {
	return a.player
}

func (a *randomAgent) ChooseMove(b *game.Board) (game.Move, metrics.SearchMetric, error) {
	start := time.Now()
	legal := b.LegalMoves()
	if len(legal) == 0 {
		return game.Move{}, metrics.SearchMetric{}, searcher.ErrNoLegalMoves
	}
	m := legal[a.rng.Intn(len(legal))]
	return m, metrics.SearchMetric{Duration: time.Since(start), Source: metrics.SourceRandom}, nil
}
