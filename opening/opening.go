package opening

import (
	"golang.org/x/exp/rand"

	"hex/game"
)

// Table holds the first moves worth playing per board size: the centre and
// its six neighbours.
var Table = map[int][]game.Move{
	7:  {{Row: 3, Col: 3}, {Row: 3, Col: 2}, {Row: 3, Col: 4}, {Row: 2, Col: 3}, {Row: 4, Col: 3}, {Row: 2, Col: 2}, {Row: 4, Col: 2}},
	9:  {{Row: 4, Col: 4}, {Row: 4, Col: 3}, {Row: 4, Col: 5}, {Row: 3, Col: 4}, {Row: 5, Col: 4}, {Row: 3, Col: 5}, {Row: 5, Col: 5}},
	11: {{Row: 5, Col: 5}, {Row: 5, Col: 4}, {Row: 5, Col: 6}, {Row: 4, Col: 5}, {Row: 6, Col: 5}, {Row: 4, Col: 4}, {Row: 6, Col: 4}},
	13: {{Row: 6, Col: 6}, {Row: 6, Col: 5}, {Row: 6, Col: 7}, {Row: 5, Col: 6}, {Row: 7, Col: 6}, {Row: 5, Col: 7}, {Row: 7, Col: 7}},
	19: {{Row: 9, Col: 9}, {Row: 9, Col: 8}, {Row: 9, Col: 10}, {Row: 8, Col: 9}, {Row: 10, Col: 9}, {Row: 8, Col: 8}, {Row: 10, Col: 8}},
}

type Option func(p *Policy)

// Policy answers the first two plies of a game without searching.
type Policy struct {
	table  map[int][]game.Move
	mirror bool
}

func WithTable(table map[int][]game.Move) Option {
	return func(p *Policy) {
		if table != nil {
			p.table = table
		}
	}
}

// WithMirror toggles the reply that reflects the opponent's first stone.
func WithMirror(enabled bool) Option {
	return func(p *Policy) {
		p.mirror = enabled
	}
}

func NewPolicy(options ...Option) *Policy {
	p := &Policy{
		table:  Table,
		mirror: true,
	}
	for _, option := range options {
		option(p)
	}
	return p
}

// Move returns a book move for me on b, if one applies. An empty board gets a
// uniform pick from the size's table entry. A board holding only the
// opponent's first stone, placed away from the centre, gets the symmetric
// cell under Mirror.
func (p *Policy) Move(b *game.Board, me game.Player, rng *rand.Rand) (game.Move, bool) {
	switch b.Stones() {
	case 0:
		moves := p.table[b.Size()]
		if len(moves) == 0 {
			return game.Move{}, false
		}
		m := moves[rng.Intn(len(moves))]
		if !b.InBounds(m.Row, m.Col) {
			return game.Move{}, false
		}
		return m, true
	case 1:
		if !p.mirror {
			return game.Move{}, false
		}
		return mirrorReply(b, me)
	}
	return game.Move{}, false
}

func mirrorReply(b *game.Board, me game.Player) (game.Move, bool) {
	first := occupied(b)[0]
	if b.At(first.Row, first.Col) != me.Opponent() || Central(b, first) {
		return game.Move{}, false
	}
	reply := Mirror(b.Size(), first)
	if b.At(reply.Row, reply.Col) != game.None {
		return game.Move{}, false
	}
	return reply, true
}

// Mirror maps m to its symmetric cell on a size x size board. The diagonal
// neighbours depend on row parity, so only mappings that keep parity
// consistent preserve adjacency: odd sizes flip rows and keep the column,
// even sizes reflect through the centre. A stone on the middle row of an odd
// board maps to itself.
func Mirror(size int, m game.Move) game.Move {
	if size%2 == 1 {
		return game.Move{Row: size - 1 - m.Row, Col: m.Col}
	}
	return game.Move{Row: size - 1 - m.Row, Col: size - 1 - m.Col}
}

// Central reports whether m is the centre cell or one of its neighbours.
func Central(b *game.Board, m game.Move) bool {
	centre := game.Move{Row: b.Size() / 2, Col: b.Size() / 2}
	if m == centre {
		return true
	}
	for _, n := range b.Neighbors(centre.Row, centre.Col) {
		if n == m {
			return true
		}
	}
	return false
}

func occupied(b *game.Board) []game.Move {
	topo := b.Topology()
	var moves []game.Move
	for idx := 0; idx < b.Size()*b.Size(); idx++ {
		if b.Cell(idx) != game.None {
			moves = append(moves, topo.Move(idx))
		}
	}
	return moves
}
