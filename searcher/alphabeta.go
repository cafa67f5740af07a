package searcher

import (
	"math"
	"time"

	"hex/game"
)

func expired(deadline time.Time) bool {
	return time.Now().After(deadline)
}

// searchRoot runs the alpha-beta search below every root candidate, in the
// given order, and returns the first one with the best value. ok is false when the deadline passed before a single
// candidate was evaluated.
func (s *Searcher) searchRoot(b *game.Board, me game.Player, candidates []game.Move, depth int, deadline time.Time) (best game.Move, ok bool) {
	alpha, beta := math.MinInt, math.MaxInt
	bestValue := math.MinInt
	evaluated := 0

	for _, m := range candidates {
		if expired(deadline) {
			s.metrics.SetTimedOut()
			break
		}
		child := b.Clone()
		child.Place(m.Row, m.Col, me)
		value := s.alphaBeta(child, depth-1, me.Opponent(), me, alpha, beta, deadline)
		evaluated++

		if value > bestValue {
			bestValue = value
			best = m
		}
		alpha = max(alpha, bestValue)
	}
	return best, evaluated > 0
}

// alphaBeta returns the minimax value of b from me's point of view, with
// toMove to play. Past the deadline it stops expanding siblings and returns
// the best value found so far.
func (s *Searcher) alphaBeta(b *game.Board, depth int, toMove, me game.Player, alpha, beta int, deadline time.Time) int {
	s.metrics.AddNode()

	// A finished game is terminal whatever the remaining depth.
	if b.IsConnected(me) {
		return Win
	}
	if b.IsConnected(me.Opponent()) {
		return -Win
	}

	if depth <= 0 || expired(deadline) {
		s.metrics.AddLeaf()
		return Evaluate(b, me, s.weights, s.cache)
	}

	moves := Candidates(b, toMove, s.cache)
	if len(moves) == 0 {
		s.metrics.AddLeaf()
		return Evaluate(b, me, s.weights, s.cache)
	}

	maximizing := toMove == me
	best := math.MaxInt
	if maximizing {
		best = math.MinInt
	}

	for i, m := range moves {
		if i > 0 && expired(deadline) {
			s.metrics.SetTimedOut()
			break
		}
		child := b.Clone()
		child.Place(m.Row, m.Col, toMove)
		value := s.alphaBeta(child, depth-1, toMove.Opponent(), me, alpha, beta, deadline)

		if maximizing {
			best = max(best, value)
			alpha = max(alpha, value)
		} else {
			best = min(best, value)
			beta = min(beta, value)
		}
		if beta <= alpha {
			s.metrics.AddCutoff()
			break
		}
	}
	return best
}
