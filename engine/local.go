package engine

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"hex/agent"
	"hex/experiments/metrics"
	"hex/game"
)

type LocalEngine struct {
	Board    *game.Board
	Agents   [2]agent.Agent
	MaxMoves int
	observer Observer
}

// NewLocalEngine sets up a game on an empty size x size board. agents[0]
// moves first; the two agents must play opposite sides.
func NewLocalEngine(size, maxMoves int, agents [2]agent.Agent) *LocalEngine {
	if agents[0] == nil || agents[1] == nil {
		panic("need two agents")
	}
	if agents[0].Player() == agents[1].Player() {
		panic("agents play the same side")
	}
	if maxMoves <= 0 {
		maxMoves = DefaultMaxMoves
	}
	return &LocalEngine{
		Board:    game.NewBoard(size),
		Agents:   agents,
		MaxMoves: maxMoves,
	}
}

// Observe registers o to receive every update.
func (e *LocalEngine) Observe(o Observer) {
	e.observer = o
}

func (e *LocalEngine) notify(u Update) {
	if e.observer != nil {
		e.observer(u)
	}
}

// Run executes the game loop until a winner is found, an agent forfeits or
// the move cap is hit. A cancelled context ends the game as a draw.
func (e *LocalEngine) Run(ctx context.Context) (game.Player, metrics.GameMetric, []metrics.MoveMetric) {
	gameMetric := metrics.GameMetric{
		StartingPlayer: e.Agents[0].Player(),
		StartTime:      time.Now(),
	}
	var moveMetrics []metrics.MoveMetric
	finish := func(winner game.Player, forfeit bool) (game.Player, metrics.GameMetric, []metrics.MoveMetric) {
		gameMetric.Winner = winner
		gameMetric.Forfeit = forfeit
		gameMetric.EndTime = time.Now()
		gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
		gameMetric.TotalMoves = len(moveMetrics)
		e.notify(Update{Step: len(moveMetrics), Board: e.Board.Clone(), Winner: winner, Forfeit: forfeit, Done: true})
		return winner, gameMetric, moveMetrics
	}

	log.Info().Msgf("player %s is starting on a %dx%d board", e.Agents[0].Player(), e.Board.Size(), e.Board.Size())

	for step := 1; step <= e.MaxMoves; step++ {
		if err := ctx.Err(); err != nil {
			log.Warn().Err(err).Msgf("game stopped after %d moves", step-1)
			return finish(game.None, false)
		}
		if e.Board.Full() {
			break
		}
		current := e.Agents[(step-1)%2]
		player := current.Player()

		move, searchMetric, err := current.ChooseMove(e.Board.Clone())
		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         step,
			Player:       player,
			Move:         move,
			SearchMetric: searchMetric,
		})
		if err != nil {
			log.Warn().Err(err).Msgf("player %s failed to move, forfeiting", player)
			return finish(player.Opponent(), true)
		}
		if !e.Board.Place(move.Row, move.Col, player) {
			log.Warn().Msgf("player %s made an invalid move (%d, %d), forfeiting", player, move.Row, move.Col)
			return finish(player.Opponent(), true)
		}
		log.Debug().Msgf("player %s places at (%d, %d), took %s", player, move.Row, move.Col, searchMetric.Duration)

		won := e.Board.IsConnected(player)
		e.notify(Update{Step: step, Player: player, Move: move, Board: e.Board.Clone()})
		if won {
			log.Info().Msgf("player %s wins in %d moves", player, step)
			return finish(player, false)
		}
	}

	log.Info().Msgf("game ended in a draw after %d moves", len(moveMetrics))
	return finish(game.None, false)
}
