package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"hex/agent"
	"hex/experiments/metrics"
	"hex/game"
)

// scripted plays a fixed list of moves, then errors.
type scripted struct {
	player game.Player
	moves  []game.Move
}

func (s *scripted) Player() game.Player {
	return s.player
}

func (s *scripted) ChooseMove(b *game.Board) (game.Move, metrics.SearchMetric, error) {
	if len(s.moves) == 0 {
		return game.Move{}, metrics.SearchMetric{}, errors.New("out of moves")
	}
	m := s.moves[0]
	s.moves = s.moves[1:]
	return m, metrics.SearchMetric{Source: metrics.SourceUnspecified}, nil
}

func randomPair(seed uint64) [2]agent.Agent {
	rng := rand.New(rand.NewSource(seed))
	return [2]agent.Agent{agent.NewRandomAgent(game.PlayerA, rng), agent.NewRandomAgent(game.PlayerB, rng)}
}

func TestLocalEngine(t *testing.T) {
	t.Run("random games always end with a connected winner", func(t *testing.T) {
		for seed := uint64(0); seed < 20; seed++ {
			e := NewLocalEngine(5, 0, randomPair(seed))

			winner, gm, moves := e.Run(context.Background())

			require.True(t, winner.Valid())
			require.True(t, e.Board.IsConnected(winner))
			require.False(t, gm.Forfeit)
			require.Equal(t, len(moves), gm.TotalMoves)
			require.Equal(t, e.Board.Stones(), gm.TotalMoves)
			require.LessOrEqual(t, gm.TotalMoves, 25)
			require.Equal(t, game.PlayerA, gm.StartingPlayer)
		}
	})

	t.Run("agents alternate starting with the first", func(t *testing.T) {
		agents := randomPair(1)
		agents[0], agents[1] = agents[1], agents[0]
		e := NewLocalEngine(4, 0, agents)

		_, _, moves := e.Run(context.Background())

		for i, m := range moves {
			want := game.PlayerB
			if i%2 == 1 {
				want = game.PlayerA
			}
			require.Equal(t, want, m.Player)
			require.Equal(t, i+1, m.Step)
		}
	})

	t.Run("an illegal move forfeits", func(t *testing.T) {
		a := &scripted{player: game.PlayerA, moves: []game.Move{{Row: 0, Col: 0}}}
		b := &scripted{player: game.PlayerB, moves: []game.Move{{Row: 0, Col: 0}}}
		e := NewLocalEngine(3, 0, [2]agent.Agent{a, b})

		winner, gm, moves := e.Run(context.Background())

		require.Equal(t, game.PlayerA, winner)
		require.True(t, gm.Forfeit)
		require.Len(t, moves, 2)
	})

	t.Run("an out of bounds move forfeits", func(t *testing.T) {
		a := &scripted{player: game.PlayerA, moves: []game.Move{{Row: 3, Col: 0}}}
		b := &scripted{player: game.PlayerB}
		e := NewLocalEngine(3, 0, [2]agent.Agent{a, b})

		winner, gm, _ := e.Run(context.Background())

		require.Equal(t, game.PlayerB, winner)
		require.True(t, gm.Forfeit)
	})

	t.Run("an agent error forfeits", func(t *testing.T) {
		a := &scripted{player: game.PlayerA}
		b := &scripted{player: game.PlayerB}
		e := NewLocalEngine(3, 0, [2]agent.Agent{a, b})

		winner, gm, _ := e.Run(context.Background())

		require.Equal(t, game.PlayerB, winner)
		require.True(t, gm.Forfeit)
	})

	t.Run("the move cap declares a draw", func(t *testing.T) {
		e := NewLocalEngine(7, 3, randomPair(2))

		winner, gm, moves := e.Run(context.Background())

		require.Equal(t, game.None, winner)
		require.False(t, gm.Forfeit)
		require.Len(t, moves, 3)
		require.Equal(t, 3, e.Board.Stones())
	})

	t.Run("a cancelled context stops the game", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		e := NewLocalEngine(5, 0, randomPair(3))

		winner, gm, _ := e.Run(ctx)

		require.Equal(t, game.None, winner)
		require.Equal(t, 0, gm.TotalMoves)
	})

	t.Run("observers see every move then the result", func(t *testing.T) {
		e := NewLocalEngine(5, 0, randomPair(4))
		var updates []Update
		e.Observe(func(u Update) { updates = append(updates, u) })

		winner, gm, _ := e.Run(context.Background())

		require.Len(t, updates, gm.TotalMoves+1)
		for i, u := range updates[:gm.TotalMoves] {
			require.Equal(t, i+1, u.Step)
			require.Equal(t, i+1, u.Board.Stones())
			require.False(t, u.Done)
		}
		last := updates[len(updates)-1]
		require.True(t, last.Done)
		require.Equal(t, winner, last.Winner)
	})

	t.Run("rejects agents playing the same side", func(t *testing.T) {
		a := &scripted{player: game.PlayerA}
		require.Panics(t, func() { NewLocalEngine(3, 0, [2]agent.Agent{a, a}) })
	})
}
