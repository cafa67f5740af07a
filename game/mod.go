package game

import (
	"errors"
	"fmt"
)

// Player identifies the owner of a cell. PlayerA connects the left and right
// edges (col 0 to col N-1), PlayerB connects the top and bottom edges
// (row 0 to row N-1).
type Player int8

const (
	None    Player = 0
	PlayerA Player = 1
	PlayerB Player = 2
)

func (p Player) Opponent() Player {
	switch p {
	case PlayerA:
		return PlayerB
	case PlayerB:
		return PlayerA
	}
	return None
}

func (p Player) Valid() bool {
	return p == PlayerA || p == PlayerB
}

func (p Player) String() string {
	switch p {
	case PlayerA:
		return "A"
	case PlayerB:
		return "B"
	}
	return "-"
}

// Move is a cell coordinate, 0-indexed.
type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// MaxSize is the largest board accepted from outside the process. Search
// cost grows with the cell count, so larger boards cannot meet a move budget.
const MaxSize = 32

// CheckSize returns ErrInvalidSize unless 1 <= size <= MaxSize.
func CheckSize(size int) error {
	if size < 1 || size > MaxSize {
		return fmt.Errorf("size %d outside [1, %d]: %w", size, MaxSize, ErrInvalidSize)
	}
	return nil
}

var (
	ErrInvalidSize   = errors.New("invalid board size")
	ErrInvalidCell   = errors.New("invalid cell value")
	ErrInvalidPlayer = errors.New("invalid player")
)
