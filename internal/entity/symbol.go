package entity

import "fmt"

// Symbol is the content of a board cell. Player symbols double as player identity.
type Symbol uint8

const (
	Empty Symbol = iota
	PlayerX
	PlayerO
)

const (
	EmptyMark   = " "
	PlayerXMark = "X"
	PlayerOMark = "O"
)

// Symbols is the fixed enumeration order used when generating the state space.
var Symbols = [...]Symbol{Empty, PlayerX, PlayerO}

func (s Symbol) Mark() string {
	switch s {
	case PlayerX:
		return PlayerXMark
	case PlayerO:
		return PlayerOMark
	default:
		return EmptyMark
	}
}

func (s Symbol) String() string {
	return s.Mark()
}

// Opponent returns the other player. Empty has no opponent.
func (s Symbol) Opponent() Symbol {
	switch s {
	case PlayerX:
		return PlayerO
	case PlayerO:
		return PlayerX
	default:
		return Empty
	}
}

func (s Symbol) IsPlayer() bool {
	return s == PlayerX || s == PlayerO
}

// ParseMark maps a display character back to its symbol.
func ParseMark(mark byte) (Symbol, error) {
	switch string(mark) {
	case EmptyMark:
		return Empty, nil
	case PlayerXMark:
		return PlayerX, nil
	case PlayerOMark:
		return PlayerO, nil
	default:
		return Empty, fmt.Errorf("%w: %q", ErrUnknownMark, mark)
	}
}
