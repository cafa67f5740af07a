package searcher

import (
	"hex/analysis"
	"hex/game"
)

// Win is the score of a position where the maximizing player is connected.
// Every heuristic score stays well below it.
const Win = 100000

// Weights tune the static evaluation. Only their relative order matters.
type Weights struct {
	EdgeCell   int `yaml:"edge_cell" json:"edge_cell"`     // Per cell of a chain touching one edge
	MiddleCell int `yaml:"middle_cell" json:"middle_cell"` // Per cell of a chain touching no edge
	Bridge     int `yaml:"bridge" json:"bridge"`           // Per secure bridge touching the chain
	NearWin    int `yaml:"near_win" json:"near_win"`       // Chain is one empty cell from winning
	PathBase   int `yaml:"path_base" json:"path_base"`     // Path score is PathBase - virtual distance
}

func DefaultWeights() Weights {
	return Weights{
		EdgeCell:   3,
		MiddleCell: 1,
		Bridge:     5,
		NearWin:    500,
		PathBase:   analysis.DefaultPathBase,
	}
}

// Evaluate scores b from me's point of view:
// (own chains + own path) - (opponent chains + opponent path).
func Evaluate(b *game.Board, me game.Player, w Weights, cache *analysis.ChainCache) int {
	own, won := chainScore(b, me, w, cache)
	if won {
		return Win
	}
	theirs, lost := chainScore(b, me.Opponent(), w, cache)
	if lost {
		return -Win
	}
	ownPath := analysis.PathScore(b, me, w.PathBase)
	oppPath := analysis.PathScore(b, me.Opponent(), w.PathBase)
	return (own + ownPath) - (theirs + oppPath)
}

// chainScore sums the chain heuristics of p. It reports won as soon as one
// chain touches both edges.
func chainScore(b *game.Board, p game.Player, w Weights, cache *analysis.ChainCache) (score int, won bool) {
	chains := cache.Chains(b, p)
	for _, chain := range chains {
		if chain.Winning() {
			return 0, true
		}
	}
	if len(chains) == 0 {
		return 0, false
	}

	index := analysis.Index(b, chains)
	bridgeCount := make([]int, len(chains))
	for _, br := range findBridges(b, p, index) {
		if br.Secure() {
			bridgeCount[index[br.a]]++
			bridgeCount[index[br.b]]++
		}
	}
	nearWin := completions(b, p, chains, index).nearWin

	for id, chain := range chains {
		weight := w.MiddleCell
		if chain.Class != analysis.Middle {
			weight = w.EdgeCell
		}
		score += weight * len(chain.Cells)
		score += w.Bridge * bridgeCount[id]
		if nearWin[id] {
			score += w.NearWin
		}
	}
	return score, false
}
