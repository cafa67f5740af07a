package game

import (
	"encoding/json"
	"fmt"
	"strings"
)

type boardJSON struct {
	Size  int     `json:"size"`
	Cells [][]int `json:"cells"`
}

// FromGrid builds a board from rows of cell values (0 empty, 1 PlayerA,
// 2 PlayerB). The grid must be square and at most MaxSize rows.
func FromGrid(grid [][]int) (*Board, error) {
	size := len(grid)
	if size == 0 {
		return nil, fmt.Errorf("empty grid: %w", ErrInvalidSize)
	}
	if err := CheckSize(size); err != nil {
		return nil, err
	}
	b := NewBoard(size)
	for row, cells := range grid {
		if len(cells) != size {
			return nil, fmt.Errorf("row %d has %d cells, want %d: %w", row, len(cells), size, ErrInvalidSize)
		}
		for col, v := range cells {
			p := Player(v)
			if p != None && !p.Valid() {
				return nil, fmt.Errorf("cell (%d,%d) = %d: %w", row, col, v, ErrInvalidCell)
			}
			b.cells[row*size+col] = p
		}
	}
	return b, nil
}

// Grid returns the cells as rows of ints, the inverse of FromGrid.
func (b *Board) Grid() [][]int {
	grid := make([][]int, b.size)
	for row := range grid {
		grid[row] = make([]int, b.size)
		for col := range grid[row] {
			grid[row][col] = int(b.cells[row*b.size+col])
		}
	}
	return grid
}

func (b *Board) MarshalJSON() ([]byte, error) {
	return json.Marshal(boardJSON{Size: b.size, Cells: b.Grid()})
}

func (b *Board) UnmarshalJSON(data []byte) error {
	var raw boardJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Size != len(raw.Cells) {
		return fmt.Errorf("size %d does not match %d rows: %w", raw.Size, len(raw.Cells), ErrInvalidSize)
	}
	decoded, err := FromGrid(raw.Cells)
	if err != nil {
		return err
	}
	*b = *decoded
	return nil
}

// String renders the board with each row shifted right by its index, the
// usual rhombus picture of a Hex board. PlayerA is X, PlayerB is O.
func (b *Board) String() string {
	var sb strings.Builder
	sb.WriteString("  ")
	for col := 0; col < b.size; col++ {
		fmt.Fprintf(&sb, "%d ", col%10)
	}
	sb.WriteString("\n")
	for row := 0; row < b.size; row++ {
		sb.WriteString(strings.Repeat(" ", row))
		fmt.Fprintf(&sb, "%d ", row%10)
		for col := 0; col < b.size; col++ {
			switch b.cells[row*b.size+col] {
			case PlayerA:
				sb.WriteString("X ")
			case PlayerB:
				sb.WriteString("O ")
			default:
				sb.WriteString(". ")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
