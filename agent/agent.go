package agent

import (
	"time"

	"github.com/rs/zerolog/log"

	"hex/experiments/metrics"
	"hex/game"
	"hex/opening"
	"hex/searcher"
)

// Agent plays one side of a match. ChooseMove must return an in-bounds,
// empty cell of b; the match harness forfeits any other answer.
type Agent interface {
	Player() game.Player
	ChooseMove(b *game.Board) (game.Move, metrics.SearchMetric, error)
}

type minimaxAgent struct {
	player   game.Player
	searcher *searcher.Searcher
	policy   *opening.Policy
}

// NewMinimaxAgent returns an agent that plays book moves while the opening
// policy has one and searches otherwise. A nil policy disables the book.
func NewMinimaxAgent(p game.Player, s *searcher.Searcher, policy *opening.Policy) Agent {
	if !p.Valid() {
		panic("invalid player for minimax agent")
	}
	return &minimaxAgent{player: p, searcher: s, policy: policy}
}

func (a *minimaxAgent) Player() game.Player {
	return a.player
}

func (a *minimaxAgent) Searcher() *searcher.Searcher {
	return a.searcher
}

func (a *minimaxAgent) ChooseMove(b *game.Board) (game.Move, metrics.SearchMetric, error) {
	if a.policy != nil {
		start := time.Now()
		if m, ok := a.policy.Move(b, a.player, a.searcher.Rand()); ok {
			log.Debug().Msgf("player %s plays book move (%d, %d)", a.player, m.Row, m.Col)
			return m, metrics.SearchMetric{Duration: time.Since(start), Source: metrics.SourceOpening}, nil
		}
	}
	return a.searcher.FindMove(b, a.player)
}
