package game

import "sync"

// Topology holds the hex adjacency of every cell of an N×N board, indexed by
// flat cell index (row*N + col). It is immutable once built.
type Topology struct {
	Size     int
	Adjacent [][]int
}

var topologies sync.Map // size -> *Topology

// TopologyFor returns the shared topology of a board size, building it on
// first use.
func TopologyFor(size int) *Topology {
	if t, ok := topologies.Load(size); ok {
		return t.(*Topology)
	}
	t, _ := topologies.LoadOrStore(size, newTopology(size))
	return t.(*Topology)
}

func newTopology(size int) *Topology {
	t := &Topology{
		Size:     size,
		Adjacent: make([][]int, size*size),
	}
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			idx := row*size + col
			t.Adjacent[idx] = make([]int, 0, 6)
			for _, n := range hexOffsets(row, col) {
				if n.Row >= 0 && n.Row < size && n.Col >= 0 && n.Col < size {
					t.addBorder(idx, n.Row*size+n.Col)
				}
			}
		}
	}
	return t
}

// hexOffsets lists the six candidate neighbours of (row, col) before bounds
// filtering. The diagonal pair depends on row parity.
func hexOffsets(row, col int) []Move {
	offsets := []Move{
		{row, col - 1},
		{row, col + 1},
		{row - 1, col},
		{row + 1, col},
	}
	if row%2 == 0 {
		offsets = append(offsets, Move{row - 1, col + 1}, Move{row + 1, col + 1})
	} else {
		offsets = append(offsets, Move{row - 1, col - 1}, Move{row + 1, col - 1})
	}
	return offsets
}

// addBorder records the border from one side; the opposite side is added
// when its own cell is visited.
func (t *Topology) addBorder(from, to int) {
	if !contains(t.Adjacent[from], to) {
		t.Adjacent[from] = append(t.Adjacent[from], to)
	}
}

func (t *Topology) Move(idx int) Move {
	return Move{Row: idx / t.Size, Col: idx % t.Size}
}

func (t *Topology) Index(m Move) int {
	return m.Row*t.Size + m.Col
}

// Distance is the number of hex steps between a and b, ignoring stones.
func Distance(a, b Move) int {
	// Axial coordinates: q shifts by half a column per row.
	dq := (b.Col - (b.Row+1)/2) - (a.Col - (a.Row+1)/2)
	dr := b.Row - a.Row
	return (abs(dq) + abs(dr) + abs(dq+dr)) / 2
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// contains checks if a slice contains a specific item.
func contains(slice []int, item int) bool {
	for _, v := range slice {
		if v == item {
			return true
		}
	}
	return false
}
