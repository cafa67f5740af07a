package game

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewBoard(t *testing.T) {
	for size := 1; size <= 11; size++ {
		b := NewBoard(size)

		require.Len(t, b.LegalMoves(), size*size, "Empty board should have N^2 legal moves")
		require.False(t, b.IsConnected(PlayerA), "Empty board should not connect PlayerA")
		require.False(t, b.IsConnected(PlayerB), "Empty board should not connect PlayerB")
	}

	t.Run("size 3 board has 9 legal moves", func(t *testing.T) {
		require.Len(t, NewBoard(3).LegalMoves(), 9)
	})

	t.Run("panics on non-positive size", func(t *testing.T) {
		require.Panics(t, func() { NewBoard(0) })
	})
}

func TestPlace(t *testing.T) {
	t.Run("placing on an empty cell", func(t *testing.T) {
		b := NewBoard(3)

		require.True(t, b.Place(1, 2, PlayerA))
		require.Equal(t, PlayerA, b.At(1, 2))
		require.Len(t, b.LegalMoves(), 8)
	})

	t.Run("placing on an occupied cell fails without change", func(t *testing.T) {
		b := NewBoard(3)
		require.True(t, b.Place(1, 1, PlayerA))
		before := b.Key()

		require.False(t, b.Place(1, 1, PlayerB), "Occupied cell should be rejected")
		require.False(t, b.Place(1, 1, PlayerA), "Occupied cell should be rejected")
		require.Equal(t, before, b.Key(), "Board should not change")
	})

	t.Run("placing out of bounds fails without change", func(t *testing.T) {
		b := NewBoard(3)
		before := b.Key()

		for _, m := range []Move{{-1, 0}, {0, -1}, {3, 0}, {0, 3}, {5, 5}} {
			require.False(t, b.Place(m.Row, m.Col, PlayerA), "Move %v should be rejected", m)
		}
		require.Equal(t, before, b.Key(), "Board should not change")
	})

	t.Run("placing for no player fails", func(t *testing.T) {
		b := NewBoard(3)

		require.False(t, b.Place(0, 0, None))
		require.Equal(t, None, b.At(0, 0))
	})
}

func TestClone(t *testing.T) {
	b := NewBoard(4)
	b.Place(0, 0, PlayerA)

	clone := b.Clone()
	clone.Place(3, 3, PlayerB)

	require.Equal(t, PlayerA, clone.At(0, 0), "Clone should copy cells")
	require.Equal(t, None, b.At(3, 3), "Clone should not share cells with the source")
	require.Equal(t, b.Size(), clone.Size())
}

func TestNeighbors(t *testing.T) {
	t.Run("even row interior cell", func(t *testing.T) {
		b := NewBoard(5)

		require.ElementsMatch(t,
			[]Move{{2, 1}, {2, 3}, {1, 2}, {3, 2}, {1, 3}, {3, 3}},
			b.Neighbors(2, 2))
	})

	t.Run("odd row interior cell", func(t *testing.T) {
		b := NewBoard(5)

		require.ElementsMatch(t,
			[]Move{{1, 1}, {1, 3}, {0, 2}, {2, 2}, {0, 1}, {2, 1}},
			b.Neighbors(1, 2))
	})

	t.Run("corner cells are filtered to bounds", func(t *testing.T) {
		b := NewBoard(3)

		require.ElementsMatch(t, []Move{{0, 1}, {1, 0}, {1, 1}}, b.Neighbors(0, 0))
		require.ElementsMatch(t, []Move{{0, 1}, {1, 2}}, b.Neighbors(0, 2))
		require.ElementsMatch(t, []Move{{2, 1}, {1, 0}, {1, 1}}, b.Neighbors(2, 0))
	})

	t.Run("adjacency is symmetric", func(t *testing.T) {
		for _, size := range []int{2, 3, 4, 7} {
			b := NewBoard(size)
			for row := 0; row < size; row++ {
				for col := 0; col < size; col++ {
					for _, n := range b.Neighbors(row, col) {
						require.Contains(t, b.Neighbors(n.Row, n.Col), Move{row, col})
					}
				}
			}
		}
	})

	t.Run("topology is shared per size", func(t *testing.T) {
		require.Same(t, NewBoard(6).Topology(), NewBoard(6).Topology())
	})
}

func TestIsConnected(t *testing.T) {
	t.Run("PlayerA across the top row", func(t *testing.T) {
		b := NewBoard(3)
		b.Place(0, 0, PlayerA)
		b.Place(0, 1, PlayerA)
		b.Place(0, 2, PlayerA)

		require.True(t, b.IsConnected(PlayerA))
		require.False(t, b.IsConnected(PlayerB))
	})

	t.Run("PlayerB with a gap is not connected", func(t *testing.T) {
		b := NewBoard(3)
		b.Place(0, 1, PlayerB)
		b.Place(2, 1, PlayerB)

		require.False(t, b.IsConnected(PlayerB))
	})

	t.Run("PlayerB through a diagonal link", func(t *testing.T) {
		b := NewBoard(3)
		// (0,1) -> (1,1) -> (2,1) straight down
		b.Place(0, 1, PlayerB)
		b.Place(1, 1, PlayerB)
		b.Place(2, 1, PlayerB)

		require.True(t, b.IsConnected(PlayerB))
	})

	t.Run("PlayerA needs the parity diagonal", func(t *testing.T) {
		b := NewBoard(3)
		// (1,0) is odd row: its diagonals go left, so (0,1) is not adjacent
		// to it, but (0,0)-(1,0) and (0,0)-(0,1) are.
		b.Place(1, 0, PlayerA)
		b.Place(0, 1, PlayerA)
		b.Place(0, 2, PlayerA)
		require.False(t, b.IsConnected(PlayerA), "(1,0) and (0,1) should not touch")

		b.Place(1, 1, PlayerA)
		require.True(t, b.IsConnected(PlayerA))
	})

	t.Run("explores past dead ends", func(t *testing.T) {
		b := NewBoard(4)
		// A dead-end branch from (0,0) and a second start at (3,0) that wins.
		b.Place(0, 0, PlayerA)
		b.Place(0, 1, PlayerA)
		for col := 0; col < 4; col++ {
			b.Place(3, col, PlayerA)
		}

		require.True(t, b.IsConnected(PlayerA))
	})
}

func TestBoardJSON(t *testing.T) {
	t.Run("round trip keeps contents", func(t *testing.T) {
		b := NewBoard(3)
		b.Place(0, 0, PlayerA)
		b.Place(2, 1, PlayerB)

		data, err := json.Marshal(b)
		require.NoError(t, err)
		require.JSONEq(t, `{"size":3,"cells":[[1,0,0],[0,0,0],[0,2,0]]}`, string(data))

		var decoded Board
		require.NoError(t, json.Unmarshal(data, &decoded))
		require.Equal(t, b.Key(), decoded.Key())
		require.Same(t, b.Topology(), decoded.Topology())
	})

	t.Run("rejects ragged grids", func(t *testing.T) {
		_, err := FromGrid([][]int{{0, 0}, {0}})
		require.ErrorIs(t, err, ErrInvalidSize)
	})

	t.Run("rejects unknown cell values", func(t *testing.T) {
		_, err := FromGrid([][]int{{0, 3}, {0, 0}})
		require.ErrorIs(t, err, ErrInvalidCell)
	})

	t.Run("rejects mismatched size", func(t *testing.T) {
		var b Board
		err := json.Unmarshal([]byte(`{"size":3,"cells":[[0,0],[0,0]]}`), &b)
		require.ErrorIs(t, err, ErrInvalidSize)
	})

	t.Run("rejects boards above the size cap", func(t *testing.T) {
		grid := NewBoard(MaxSize + 1).Grid()

		_, err := FromGrid(grid)
		require.ErrorIs(t, err, ErrInvalidSize)

		_, err = FromGrid(NewBoard(MaxSize).Grid())
		require.NoError(t, err)
	})
}

func TestCheckSize(t *testing.T) {
	require.NoError(t, CheckSize(1))
	require.NoError(t, CheckSize(MaxSize))
	require.ErrorIs(t, CheckSize(0), ErrInvalidSize)
	require.ErrorIs(t, CheckSize(MaxSize+1), ErrInvalidSize)
}

func TestDistance(t *testing.T) {
	t.Run("matches breadth-first steps on an empty board", func(t *testing.T) {
		b := NewBoard(9)
		for _, from := range []Move{{0, 0}, {4, 4}, {3, 7}, {8, 1}} {
			steps := map[Move]int{from: 0}
			queue := []Move{from}
			for len(queue) > 0 {
				m := queue[0]
				queue = queue[1:]
				for _, n := range b.Neighbors(m.Row, m.Col) {
					if _, ok := steps[n]; !ok {
						steps[n] = steps[m] + 1
						queue = append(queue, n)
					}
				}
			}
			for to, want := range steps {
				require.Equal(t, want, Distance(from, to), "%v to %v", from, to)
				require.Equal(t, want, Distance(to, from), "%v to %v", to, from)
			}
		}
	})
}

func TestString(t *testing.T) {
	b := NewBoard(2)
	b.Place(0, 0, PlayerA)
	b.Place(1, 1, PlayerB)

	require.Equal(t, "  0 1 \n0 X . \n 1 . O \n", b.String())
}
