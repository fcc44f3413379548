package entity

import (
	"errors"
	"fmt"
	"iter"
	"strings"
)

const (
	MinBoardSize = 3

	rowSeparator = "/"
)

var (
	ErrUnknownMark   = errors.New("unknown mark")
	ErrInvalidAction = errors.New("invalid action")
	ErrInvalidState  = errors.New("invalid board state")
)

// BoardState is a frozen board snapshot. It is comparable, so two snapshots with the same
// cells in the same positions are the same map key.
type BoardState struct {
	size  int
	cells string // one Symbol per byte, row-major
}

func NewBoardState(rows [][]Symbol) (BoardState, error) {
	size := len(rows)
	if size == 0 {
		return BoardState{}, fmt.Errorf("%w: no rows", ErrInvalidState)
	}

	cells := make([]byte, 0, size*size)
	for i, row := range rows {
		if len(row) != size {
			return BoardState{}, fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidState, i, len(row), size)
		}

		for _, symbol := range row {
			if symbol > PlayerO {
				return BoardState{}, fmt.Errorf("%w: symbol %d", ErrInvalidState, symbol)
			}
			cells = append(cells, byte(symbol))
		}
	}

	return BoardState{size: size, cells: string(cells)}, nil
}

// ParseBoardState reads the text form produced by String, e.g. "XO /   / X ".
func ParseBoardState(text string) (BoardState, error) {
	lines := strings.Split(text, rowSeparator)
	rows := make([][]Symbol, len(lines))

	for i, line := range lines {
		rows[i] = make([]Symbol, len(line))
		for j := range len(line) {
			symbol, err := ParseMark(line[j])
			if err != nil {
				return BoardState{}, fmt.Errorf("%w: %w", ErrInvalidState, err)
			}
			rows[i][j] = symbol
		}
	}

	return NewBoardState(rows)
}

func (that BoardState) Size() int {
	return that.size
}

func (that BoardState) IsZero() bool {
	return that.size == 0
}

func (that BoardState) At(row, col int) Symbol {
	return Symbol(that.cells[row*that.size+col])
}

func (that BoardState) Rows() [][]Symbol {
	rows := make([][]Symbol, that.size)
	for i := range that.size {
		rows[i] = make([]Symbol, that.size)
		for j := range that.size {
			rows[i][j] = that.At(i, j)
		}
	}

	return rows
}

func (that BoardState) Winner() Symbol {
	return findWinner(that.size, that.At)
}

func (that BoardState) IsFull() bool {
	return !strings.ContainsRune(that.cells, rune(Empty))
}

func (that BoardState) String() string {
	var sb strings.Builder
	for i := range that.size {
		if i > 0 {
			sb.WriteString(rowSeparator)
		}
		for j := range that.size {
			sb.WriteString(that.At(i, j).Mark())
		}
	}

	return sb.String()
}

// Render draws the grid with "|" between cells and a dashed line between rows.
func (that BoardState) Render() string {
	lines := make([]string, 0, 2*that.size)
	for i := range that.size {
		marks := make([]string, that.size)
		for j := range that.size {
			marks[j] = that.At(i, j).Mark()
		}
		lines = append(lines, strings.Join(marks, "|"))

		if i != that.size-1 {
			lines = append(lines, strings.Repeat("-", 2*that.size-1))
		}
	}

	return strings.Join(lines, "\n")
}

func (that BoardState) MarshalText() ([]byte, error) {
	if that.IsZero() {
		return nil, fmt.Errorf("%w: empty state", ErrInvalidState)
	}

	return []byte(that.String()), nil
}

func (that *BoardState) UnmarshalText(text []byte) error {
	state, err := ParseBoardState(string(text))
	if err != nil {
		return err
	}

	*that = state

	return nil
}

// StateSpace lazily yields every one of the 3^(size²) symbol assignments. Order matches a
// Cartesian product over Symbols: the last cell varies fastest. No legality filtering is applied.
func StateSpace(size int) iter.Seq[BoardState] {
	return func(yield func(BoardState) bool) {
		if size <= 0 {
			return
		}

		cells := make([]byte, size*size)
		for {
			if !yield(BoardState{size: size, cells: string(cells)}) {
				return
			}

			i := len(cells) - 1
			for ; i >= 0; i-- {
				if cells[i] < byte(PlayerO) {
					cells[i]++
					break
				}
				cells[i] = byte(Empty)
			}

			if i < 0 {
				return
			}
		}
	}
}

// StateCount is the size of StateSpace(size). It overflows for boards larger than 6×6.
func StateCount(size int) int {
	count := 1
	for range size * size {
		count *= len(Symbols)
	}

	return count
}

// findWinner checks all rows, then all columns, then the main and anti diagonals.
func findWinner(size int, at func(row, col int) Symbol) Symbol {
	for i := range size {
		if owner := lineOwner(size, func(k int) Symbol { return at(i, k) }); owner != Empty {
			return owner
		}
	}

	for j := range size {
		if owner := lineOwner(size, func(k int) Symbol { return at(k, j) }); owner != Empty {
			return owner
		}
	}

	if owner := lineOwner(size, func(k int) Symbol { return at(k, k) }); owner != Empty {
		return owner
	}

	return lineOwner(size, func(k int) Symbol { return at(k, size-k-1) })
}

func lineOwner(size int, cell func(k int) Symbol) Symbol {
	first := cell(0)
	if first == Empty {
		return Empty
	}

	for k := 1; k < size; k++ {
		if cell(k) != first {
			return Empty
		}
	}

	return first
}
