package engine

import (
	"context"

	"hex/experiments/metrics"
	"hex/game"
)

const (
	DefaultBoardSize = 11
	DefaultMaxMoves  = 1000
)

type Engine interface {
	// Run plays a game till there's a winner, a forfeit or the move cap is
	// reached. A None winner is a draw.
	Run(ctx context.Context) (winner game.Player, gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric)
}

// Update describes one applied move.
type Update struct {
	Step   int         `json:"step"`
	Player game.Player `json:"player"`
	Move   game.Move   `json:"move"`
	Board  *game.Board `json:"board"`
	// Winner is set on the update that ends the game.
	Winner  game.Player `json:"winner"`
	Forfeit bool        `json:"forfeit"`
	Done    bool        `json:"done"`
}

// Observer receives every update of a running game, in order.
type Observer func(u Update)
