package entity

import (
	"testing"

	"github.com/rocketscienceinc/tictactoe-qlearning/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boardFrom(t *testing.T, rows ...string) *Board {
	t.Helper()

	board, err := NewBoard(len(rows))
	require.NoError(t, err)

	for i, row := range rows {
		for j := range len(row) {
			symbol, err := ParseMark(row[j])
			require.NoError(t, err)

			if symbol != Empty {
				require.True(t, board.Apply(i, j, symbol))
			}
		}
	}

	return board
}

func TestNewBoard(t *testing.T) {
	t.Run("Creates an empty board", func(t *testing.T) {
		// When: a 3x3 board is created
		board, err := NewBoard(3)

		// Then: every cell should be empty
		require.NoError(t, err)
		assert.Equal(t, 3, board.Size())
		assert.Len(t, board.EmptyCells(), 9)
		assert.False(t, board.IsFull())
		assert.Equal(t, Empty, board.Winner())
	})

	t.Run("Rejects boards smaller than 3", func(t *testing.T) {
		// When: a 2x2 board is requested
		board, err := NewBoard(2)

		// Then: ErrInvalidBoardSize should be returned
		require.ErrorIs(t, err, apperror.ErrInvalidBoardSize)
		assert.Nil(t, board)
	})
}

func TestBoard_Apply(t *testing.T) {
	t.Run("Places a symbol on an empty cell", func(t *testing.T) {
		// Given: a new board
		board := boardFrom(t, "   ", "   ", "   ")

		// When: player X plays the center
		ok := board.Apply(1, 1, PlayerX)

		// Then: the move should be accepted
		require.True(t, ok)
		assert.Equal(t, PlayerX, board.At(1, 1))
	})

	t.Run("Rejects a second move on the same cell", func(t *testing.T) {
		// Given: a board where X holds the corner
		board := boardFrom(t, "X  ", "   ", "   ")
		before := board.State()

		// When: O and then X try the same cell
		first := board.Apply(0, 0, PlayerO)
		second := board.Apply(0, 0, PlayerX)

		// Then: both moves should be rejected and the board left unchanged
		assert.False(t, first)
		assert.False(t, second)
		assert.Equal(t, before, board.State())
	})

	t.Run("Rejects the empty symbol", func(t *testing.T) {
		// Given: a new board
		board := boardFrom(t, "   ", "   ", "   ")

		// When: an Empty symbol is applied
		ok := board.Apply(0, 0, Empty)

		// Then: the move should be rejected
		assert.False(t, ok)
	})

	t.Run("Rejects coordinates off the board", func(t *testing.T) {
		// Given: a new board
		board := boardFrom(t, "   ", "   ", "   ")

		// Then: negative and too large coordinates should be rejected
		assert.False(t, board.Apply(-1, 0, PlayerX))
		assert.False(t, board.Apply(0, 3, PlayerX))
		assert.Len(t, board.EmptyCells(), 9)
	})
}

func TestBoard_Reset(t *testing.T) {
	// Given: a board in the middle of a game
	board := boardFrom(t, "XO ", " X ", "  O")

	// When: the board is reset
	board.Reset()

	// Then: every cell should be empty again
	assert.Len(t, board.EmptyCells(), 9)
	assert.Equal(t, boardFrom(t, "   ", "   ", "   ").State(), board.State())
}

func TestBoard_Winner(t *testing.T) {
	tests := []struct {
		name   string
		rows   []string
		winner Symbol
		full   bool
	}{
		{name: "Top row", rows: []string{"XXX", "   ", "   "}, winner: PlayerX},
		{name: "Middle column", rows: []string{" O ", "XOX", " O "}, winner: PlayerO},
		{name: "Main diagonal", rows: []string{"X O", " XO", "  X"}, winner: PlayerX},
		{name: "Anti diagonal", rows: []string{"X O", " OX", "O  "}, winner: PlayerO},
		{name: "Ongoing", rows: []string{"XO ", " X ", "  O"}, winner: Empty},
		{name: "Draw", rows: []string{"XOX", "XOO", "OXX"}, winner: Empty, full: true},
		{name: "Won on a full board", rows: []string{"XOX", "OXO", "OXX"}, winner: PlayerX, full: true},
		{name: "Four in a row", rows: []string{"O   ", "XXXX", "O   ", "O   "}, winner: PlayerX},
		{name: "Three of four is not a line", rows: []string{"XXX ", "    ", "    ", "    "}, winner: Empty},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// Given: a board in the described position
			board := boardFrom(t, tc.rows...)

			// Then: the winner and fullness should match
			assert.Equal(t, tc.winner, board.Winner())
			assert.Equal(t, tc.full, board.IsFull())
			assert.Equal(t, tc.winner != Empty || tc.full, board.IsOver())
		})
	}
}

func TestBoardState_Winner(t *testing.T) {
	// Given: a state no legal game can reach, with nine X marks
	state, err := ParseBoardState("XXX/XXX/XXX")
	require.NoError(t, err)

	// Then: X should still be reported as the winner
	assert.Equal(t, PlayerX, state.Winner())
	assert.True(t, state.IsFull())

	// Given: a column for X in a frozen snapshot
	state, err = ParseBoardState("XOO/XO /X  ")
	require.NoError(t, err)

	// Then: the snapshot should agree with the live board
	assert.Equal(t, PlayerX, state.Winner())
	assert.Equal(t, boardFrom(t, "XOO", "XO ", "X  ").Winner(), state.Winner())
}

func TestBoard_String(t *testing.T) {
	// Given: a board with a few moves
	board := boardFrom(t, "X O", " X ", "  O")

	// Then: it should render rows separated by dashes
	expected := "X| |O\n-----\n |X| \n-----\n | |O"
	assert.Equal(t, expected, board.String())
}
