package entity

import (
	"fmt"
	"strconv"
	"strings"
)

// Action is a 0-indexed (row, column) target cell.
type Action struct {
	Row int
	Col int
}

// ActionSpace returns every cell coordinate of a size×size board in row-major order.
func ActionSpace(size int) []Action {
	actions := make([]Action, 0, size*size)
	for row := range size {
		for col := range size {
			actions = append(actions, Action{Row: row, Col: col})
		}
	}

	return actions
}

func (that Action) String() string {
	return strconv.Itoa(that.Row) + "," + strconv.Itoa(that.Col)
}

func (that Action) MarshalText() ([]byte, error) {
	return []byte(that.String()), nil
}

func (that *Action) UnmarshalText(text []byte) error {
	rowText, colText, found := strings.Cut(string(text), ",")
	if !found {
		return fmt.Errorf("%w: %q", ErrInvalidAction, text)
	}

	row, err := strconv.Atoi(rowText)
	if err != nil {
		return fmt.Errorf("%w: row %q", ErrInvalidAction, rowText)
	}

	col, err := strconv.Atoi(colText)
	if err != nil {
		return fmt.Errorf("%w: column %q", ErrInvalidAction, colText)
	}

	if row < 0 || col < 0 {
		return fmt.Errorf("%w: negative coordinate in %q", ErrInvalidAction, text)
	}

	that.Row, that.Col = row, col

	return nil
}

// Notation returns the human-facing cell name, column letter then 1-based row (e.g. "B3").
func (that Action) Notation() string {
	return string(rune('A'+that.Col)) + strconv.Itoa(that.Row+1)
}

// ParseNotation is the inverse of Notation. Bounds are not checked against a board size.
func ParseNotation(text string) (Action, error) {
	text = strings.ToUpper(strings.TrimSpace(text))
	if len(text) < 2 {
		return Action{}, fmt.Errorf("%w: %q", ErrInvalidAction, text)
	}

	col := int(text[0]) - 'A'
	if col < 0 || col >= 26 {
		return Action{}, fmt.Errorf("%w: column %q", ErrInvalidAction, text[:1])
	}

	row, err := strconv.Atoi(text[1:])
	if err != nil || row < 1 {
		return Action{}, fmt.Errorf("%w: row %q", ErrInvalidAction, text[1:])
	}

	return Action{Row: row - 1, Col: col}, nil
}
