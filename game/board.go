package game

import "fmt"

// Board is an N×N Hex board. Cells only ever go from None to a player.
type Board struct {
	size  int
	cells []Player
	topo  *Topology
}

// NewBoard returns an empty board. It panics on a non-positive size.
func NewBoard(size int) *Board {
	if size <= 0 {
		panic(fmt.Sprintf("board size must be positive, got %d", size))
	}
	return &Board{
		size:  size,
		cells: make([]Player, size*size),
		topo:  TopologyFor(size),
	}
}

// Clone returns a deep copy that shares no cell storage with b.
func (b *Board) Clone() *Board {
	cellsCopy := make([]Player, len(b.cells))
	copy(cellsCopy, b.cells)
	return &Board{
		size:  b.size,
		cells: cellsCopy,
		topo:  b.topo,
	}
}

func (b *Board) Size() int {
	return b.size
}

func (b *Board) Topology() *Topology {
	return b.topo
}

func (b *Board) InBounds(row, col int) bool {
	return row >= 0 && row < b.size && col >= 0 && col < b.size
}

// At reads a cell. Out of bounds reads return None.
func (b *Board) At(row, col int) Player {
	if !b.InBounds(row, col) {
		return None
	}
	return b.cells[row*b.size+col]
}

// Cell reads a cell by flat index.
func (b *Board) Cell(idx int) Player {
	return b.cells[idx]
}

// Place puts a stone of p on (row, col). It reports false and leaves the
// board untouched when the cell is out of bounds or occupied.
func (b *Board) Place(row, col int, p Player) bool {
	if !b.InBounds(row, col) || !p.Valid() {
		return false
	}
	idx := row*b.size + col
	if b.cells[idx] != None {
		return false
	}
	b.cells[idx] = p
	return true
}

// LegalMoves lists the empty cells in row-major order.
func (b *Board) LegalMoves() []Move {
	moves := make([]Move, 0, len(b.cells))
	for idx, owner := range b.cells {
		if owner == None {
			moves = append(moves, b.topo.Move(idx))
		}
	}
	return moves
}

// Stones counts the occupied cells.
func (b *Board) Stones() int {
	count := 0
	for _, owner := range b.cells {
		if owner != None {
			count++
		}
	}
	return count
}

func (b *Board) Full() bool {
	return b.Stones() == len(b.cells)
}

// Neighbors returns the in-bounds hex neighbours of (row, col).
func (b *Board) Neighbors(row, col int) []Move {
	if !b.InBounds(row, col) {
		return nil
	}
	adjacent := b.topo.Adjacent[row*b.size+col]
	neighbors := make([]Move, len(adjacent))
	for i, n := range adjacent {
		neighbors[i] = b.topo.Move(n)
	}
	return neighbors
}

// Key is an exact, content-derived key of the cells, suitable for memo
// tables. Boards with equal contents have equal keys.
func (b *Board) Key() string {
	raw := make([]byte, len(b.cells))
	for i, owner := range b.cells {
		raw[i] = byte(owner)
	}
	return string(raw)
}
