package searcher

import (
	"slices"

	"hex/analysis"
	"hex/game"
)

// Root ordering tiers, searched lowest first.
const (
	tierForced = iota // wins and blocks
	tierBridge
	tierContact
	tierRest
)

// orderRoot sorts the root candidates so that a search cut short by the
// deadline has already scored the moves most likely to matter: wins and
// blocks, then my bridge carriers, then cells touching a stone, then the
// rest. Within a tier cells closer to the centre come first; row-major order
// breaks the remaining ties. moves is sorted in place and returned.
func orderRoot(b *game.Board, me game.Player, moves []game.Move, cache *analysis.ChainCache) []game.Move {
	topo := b.Topology()
	opp := me.Opponent()
	own := cache.Chains(b, me)
	theirs := cache.Chains(b, opp)
	ownIndex := analysis.Index(b, own)

	tier := make([]int, b.Size()*b.Size())
	for idx := range tier {
		tier[idx] = tierRest
		if b.Cell(idx) != game.None {
			continue
		}
		for _, n := range topo.Adjacent[idx] {
			if b.Cell(n) != game.None {
				tier[idx] = tierContact
				break
			}
		}
	}
	for _, br := range findBridges(b, me, ownIndex) {
		for _, cell := range br.carriers {
			tier[cell] = min(tier[cell], tierBridge)
		}
	}
	for _, cell := range completions(b, me, own, ownIndex).cells {
		tier[cell] = tierForced
	}
	for _, cell := range completions(b, opp, theirs, analysis.Index(b, theirs)).cells {
		tier[cell] = tierForced
	}

	centre := game.Move{Row: b.Size() / 2, Col: b.Size() / 2}
	slices.SortStableFunc(moves, func(x, y game.Move) int {
		if d := tier[topo.Index(x)] - tier[topo.Index(y)]; d != 0 {
			return d
		}
		if d := game.Distance(x, centre) - game.Distance(y, centre); d != 0 {
			return d
		}
		return topo.Index(x) - topo.Index(y)
	})
	return moves
}
