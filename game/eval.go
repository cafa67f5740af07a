package game

// OnStartEdge reports whether the cell at idx lies on p's start edge
// (col 0 for PlayerA, row 0 for PlayerB).
func (b *Board) OnStartEdge(p Player, idx int) bool {
	return b.Axis(p, idx) == 0
}

// OnEndEdge reports whether the cell at idx lies on p's end edge.
func (b *Board) OnEndEdge(p Player, idx int) bool {
	return b.Axis(p, idx) == b.size-1
}

// Axis is the coordinate along which p has to travel: the column for PlayerA
// and the row for PlayerB.
func (b *Board) Axis(p Player, idx int) int {
	if p == PlayerA {
		return idx % b.size
	}
	return idx / b.size
}

// IsConnected reports whether p's stones join p's start and end edges. The
// search uses an explicit stack and shares one visited set across all start
// cells, so the whole reachable region is explored before giving up.
func (b *Board) IsConnected(p Player) bool {
	if !p.Valid() {
		return false
	}
	visited := make([]bool, len(b.cells))
	stack := make([]int, 0, len(b.cells))

	for i := 0; i < b.size; i++ {
		start := i * b.size // (i, 0)
		if p == PlayerB {
			start = i // (0, i)
		}
		if b.cells[start] != p || visited[start] {
			continue
		}
		visited[start] = true
		stack = append(stack[:0], start)

		for len(stack) > 0 {
			cell := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if b.OnEndEdge(p, cell) {
				return true
			}
			for _, n := range b.topo.Adjacent[cell] {
				if !visited[n] && b.cells[n] == p {
					visited[n] = true
					stack = append(stack, n)
				}
			}
		}
	}
	return false
}
