package searcher

import (
	"hex/analysis"
	"hex/game"
)

// Candidates narrows the legal moves of b to the ones worth searching for
// me. The heuristics all add to one set:
//   - completion moves that win on the spot for me,
//   - the same for the opponent, to block them,
//   - extensions of my chains towards the edges they still miss,
//   - cells carrying a virtual connection between two of my chains,
//   - cells that would merge two opponent chains.
//
// When none apply it falls back to the empty neighbours of my stones, then to
// every legal move. The result is sorted row-major and only holds empty cells.
func Candidates(b *game.Board, me game.Player, cache *analysis.ChainCache) []game.Move {
	opp := me.Opponent()
	own := cache.Chains(b, me)
	theirs := cache.Chains(b, opp)
	ownIndex := analysis.Index(b, own)
	oppIndex := analysis.Index(b, theirs)

	picked := make([]bool, b.Size()*b.Size())
	for _, cell := range completions(b, me, own, ownIndex).cells {
		picked[cell] = true
	}
	for _, cell := range completions(b, opp, theirs, oppIndex).cells {
		picked[cell] = true
	}
	addExtensions(b, me, own, picked)
	for _, br := range findBridges(b, me, ownIndex) {
		for _, cell := range br.carriers {
			picked[cell] = true
		}
	}
	addMergeBlocks(b, oppIndex, picked)

	if moves := collect(b, picked); len(moves) > 0 {
		return moves
	}

	// Fallback: anything touching my stones
	topo := b.Topology()
	for idx := range picked {
		if b.Cell(idx) != me {
			continue
		}
		for _, n := range topo.Adjacent[idx] {
			if b.Cell(n) == game.None {
				picked[n] = true
			}
		}
	}
	if moves := collect(b, picked); len(moves) > 0 {
		return moves
	}
	return b.LegalMoves()
}

func collect(b *game.Board, picked []bool) []game.Move {
	topo := b.Topology()
	var moves []game.Move
	for idx, ok := range picked {
		if ok && b.Cell(idx) == game.None {
			moves = append(moves, topo.Move(idx))
		}
	}
	return moves
}

type completion struct {
	// cells are the empty cells that would give p a winning chain.
	cells []int
	// nearWin marks, per chain, whether the chain borders one of those cells.
	nearWin []bool
}

// completions finds every empty cell next to a chain touching exactly one
// edge such that the chain it would form, merged with all of p's chains
// around the cell, touches both edges.
func completions(b *game.Board, p game.Player, chains []analysis.Chain, index []int) completion {
	topo := b.Topology()
	result := completion{nearWin: make([]bool, len(chains))}
	checked := make(map[int]bool)

	for _, chain := range chains {
		if chain.Class != analysis.TouchesStart && chain.Class != analysis.TouchesEnd {
			continue
		}
		for _, cell := range chain.Cells {
			for _, e := range topo.Adjacent[cell] {
				if b.Cell(e) != game.None || checked[e] {
					continue
				}
				checked[e] = true

				class := analysis.EdgeClass(b, p, e)
				for _, n := range topo.Adjacent[e] {
					if id := index[n]; id >= 0 {
						class |= chains[id].Class
					}
				}
				if class != analysis.TouchesBoth {
					continue
				}
				result.cells = append(result.cells, e)
				for _, n := range topo.Adjacent[e] {
					if id := index[n]; id >= 0 {
						result.nearWin[id] = true
					}
				}
			}
		}
	}
	return result
}

// addExtensions picks empty neighbours of each chain that lie at or beyond
// the chain's extremity facing an edge it does not touch yet.
func addExtensions(b *game.Board, p game.Player, chains []analysis.Chain, picked []bool) {
	topo := b.Topology()
	for _, chain := range chains {
		if chain.Winning() {
			continue
		}
		needStart := chain.Class&analysis.TouchesStart == 0
		needEnd := chain.Class&analysis.TouchesEnd == 0
		for _, cell := range chain.Cells {
			for _, n := range topo.Adjacent[cell] {
				if b.Cell(n) != game.None {
					continue
				}
				axis := b.Axis(p, n)
				if (needStart && axis <= chain.Low) || (needEnd && axis >= chain.High) {
					picked[n] = true
				}
			}
		}
	}
}

type bridge struct {
	a, b     int
	carriers []int // common empty neighbours
}

// Secure reports whether the opponent cannot cut the bridge with one move.
func (br bridge) Secure() bool {
	return len(br.carriers) >= 2
}

// findBridges lists pairs of p's cells in different chains that share at
// least one empty neighbour, with their shared empty neighbours.
func findBridges(b *game.Board, p game.Player, index []int) []bridge {
	topo := b.Topology()
	seen := make(map[[2]int]bool)
	var bridges []bridge

	for a := range index {
		if index[a] < 0 {
			continue
		}
		for _, e := range topo.Adjacent[a] {
			if b.Cell(e) != game.None {
				continue
			}
			for _, m := range topo.Adjacent[e] {
				if m <= a || index[m] < 0 || index[m] == index[a] || seen[[2]int{a, m}] {
					continue
				}
				seen[[2]int{a, m}] = true
				bridges = append(bridges, bridge{a: a, b: m, carriers: commonEmpty(b, a, m)})
			}
		}
	}
	return bridges
}

func commonEmpty(b *game.Board, x, y int) []int {
	topo := b.Topology()
	var common []int
	for _, n := range topo.Adjacent[x] {
		if b.Cell(n) == game.None && containsCell(topo.Adjacent[y], n) {
			common = append(common, n)
		}
	}
	return common
}

func containsCell(cells []int, cell int) bool {
	for _, c := range cells {
		if c == cell {
			return true
		}
	}
	return false
}

// addMergeBlocks picks empty cells bordering two or more opponent chains.
func addMergeBlocks(b *game.Board, oppIndex []int, picked []bool) {
	topo := b.Topology()
	for e := range oppIndex {
		if b.Cell(e) != game.None {
			continue
		}
		first := -1
		for _, n := range topo.Adjacent[e] {
			id := oppIndex[n]
			if id < 0 {
				continue
			}
			if first < 0 {
				first = id
			} else if id != first {
				picked[e] = true
				break
			}
		}
	}
}
