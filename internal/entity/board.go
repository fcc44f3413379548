package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-qlearning/internal/apperror"
)

// Board is the single mutable grid of an ongoing game.
type Board struct {
	size  int
	cells []Symbol
}

func NewBoard(size int) (*Board, error) {
	if size < MinBoardSize {
		return nil, fmt.Errorf("%w: expected at least %d, got %d", apperror.ErrInvalidBoardSize, MinBoardSize, size)
	}

	return &Board{
		size:  size,
		cells: make([]Symbol, size*size),
	}, nil
}

func (that *Board) Size() int {
	return that.size
}

func (that *Board) Reset() {
	for i := range that.cells {
		that.cells[i] = Empty
	}
}

// Apply places symbol at (row, col). It reports false, leaving the board untouched, when the
// cell is occupied or off the board, or when symbol is Empty.
func (that *Board) Apply(row, col int, symbol Symbol) bool {
	if row < 0 || row >= that.size || col < 0 || col >= that.size {
		return false
	}

	idx := row*that.size + col
	if that.cells[idx] != Empty || !symbol.IsPlayer() {
		return false
	}

	that.cells[idx] = symbol

	return true
}

func (that *Board) At(row, col int) Symbol {
	return that.cells[row*that.size+col]
}

func (that *Board) IsFull() bool {
	for _, cell := range that.cells {
		if cell == Empty {
			return false
		}
	}

	return true
}

// Winner returns the owner of a completed line, or Empty when there is none. A full board
// without a winner is a draw; callers check IsFull separately.
func (that *Board) Winner() Symbol {
	return findWinner(that.size, that.At)
}

// IsOver reports whether the game has a winner or no empty cell left.
func (that *Board) IsOver() bool {
	return that.Winner() != Empty || that.IsFull()
}

// State takes a frozen copy of the current cells.
func (that *Board) State() BoardState {
	cells := make([]byte, len(that.cells))
	for i, cell := range that.cells {
		cells[i] = byte(cell)
	}

	return BoardState{size: that.size, cells: string(cells)}
}

func (that *Board) EmptyCells() []Action {
	actions := make([]Action, 0, len(that.cells))
	for i, cell := range that.cells {
		if cell == Empty {
			actions = append(actions, Action{Row: i / that.size, Col: i % that.size})
		}
	}

	return actions
}

func (that *Board) String() string {
	return that.State().Render()
}
