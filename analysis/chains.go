package analysis

import "hex/game"

// Class records which of a player's target edges a chain touches.
type Class uint8

const (
	Middle       Class = 0
	TouchesStart Class = 1 << 0
	TouchesEnd   Class = 1 << 1
	TouchesBoth        = TouchesStart | TouchesEnd
)

func (c Class) String() string {
	switch c {
	case TouchesStart:
		return "start"
	case TouchesEnd:
		return "end"
	case TouchesBoth:
		return "both"
	}
	return "middle"
}

// Chain is a maximal set of same-owner cells connected by hex adjacency.
// Cells are flat indices in discovery order.
type Chain struct {
	Cells []int
	Class Class
	// Low and High bound the chain along its owner's axis.
	Low, High int
}

func (c Chain) Winning() bool {
	return c.Class == TouchesBoth
}

// EdgeClass classifies a single cell for p.
func EdgeClass(b *game.Board, p game.Player, idx int) Class {
	var class Class
	if b.OnStartEdge(p, idx) {
		class |= TouchesStart
	}
	if b.OnEndEdge(p, idx) {
		class |= TouchesEnd
	}
	return class
}

// Chains partitions p's stones into chains with a breadth-first flood fill.
func Chains(b *game.Board, p game.Player) []Chain {
	topo := b.Topology()
	cellCount := b.Size() * b.Size()
	visited := make([]bool, cellCount)
	var chains []Chain

	for start := 0; start < cellCount; start++ {
		if visited[start] || b.Cell(start) != p {
			continue
		}
		visited[start] = true
		axis := b.Axis(p, start)
		chain := Chain{Low: axis, High: axis}

		queue := []int{start}
		for len(queue) > 0 {
			cell := queue[0]
			queue = queue[1:]
			chain.Cells = append(chain.Cells, cell)
			chain.Class |= EdgeClass(b, p, cell)
			axis := b.Axis(p, cell)
			chain.Low = min(chain.Low, axis)
			chain.High = max(chain.High, axis)

			for _, n := range topo.Adjacent[cell] {
				if !visited[n] && b.Cell(n) == p {
					visited[n] = true
					queue = append(queue, n)
				}
			}
		}
		chains = append(chains, chain)
	}
	return chains
}

// Index maps every cell to the position of its chain in chains, or -1.
func Index(b *game.Board, chains []Chain) []int {
	index := make([]int, b.Size()*b.Size())
	for i := range index {
		index[i] = -1
	}
	for id, chain := range chains {
		for _, cell := range chain.Cells {
			index[cell] = id
		}
	}
	return index
}
