package agent

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/rocketscienceinc/tictactoe-qlearning/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-qlearning/internal/entity"
)

var (
	ErrEmptyStateSpace  = errors.New("state space is empty")
	ErrEmptyActionSpace = errors.New("action space is empty")
	ErrUnknownState     = errors.New("state is not in the q-table")
	ErrUnknownAction    = errors.New("action is not in the q-table")
)

// QTable maps every (state, action) pair to a value. Values of one state are stored in action
// space order, which is also the tie-break order when ranking.
type QTable struct {
	actions []entity.Action
	index   map[entity.Action]int
	values  map[entity.BoardState][]float64
}

func newQTable(actions []entity.Action) *QTable {
	index := make(map[entity.Action]int, len(actions))
	for i, action := range actions {
		index[action] = i
	}

	return &QTable{
		actions: actions,
		index:   index,
		values:  make(map[entity.BoardState][]float64),
	}
}

// Len returns the number of states.
func (that *QTable) Len() int {
	return len(that.values)
}

// Actions returns the action space the table was built with.
func (that *QTable) Actions() []entity.Action {
	return slices.Clone(that.actions)
}

func (that *QTable) Has(state entity.BoardState) bool {
	_, ok := that.values[state]
	return ok
}

func (that *QTable) Value(state entity.BoardState, action entity.Action) (float64, error) {
	values, i, err := that.lookup(state, action)
	if err != nil {
		return 0, err
	}

	return values[i], nil
}

func (that *QTable) Set(state entity.BoardState, action entity.Action, value float64) error {
	values, i, err := that.lookup(state, action)
	if err != nil {
		return err
	}

	values[i] = value

	return nil
}

// Ranked orders the actions of state by descending value. Equal values keep action space order.
func (that *QTable) Ranked(state entity.BoardState) ([]entity.Action, error) {
	values, ok := that.values[state]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownState, state)
	}

	order := make([]int, len(values))
	for i := range order {
		order[i] = i
	}

	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(values[b], values[a])
	})

	ranked := make([]entity.Action, len(order))
	for i, idx := range order {
		ranked[i] = that.actions[idx]
	}

	return ranked, nil
}

// MaxValue is the highest value recorded for state.
func (that *QTable) MaxValue(state entity.BoardState) (float64, error) {
	values, ok := that.values[state]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownState, state)
	}

	return slices.Max(values), nil
}

func (that *QTable) lookup(state entity.BoardState, action entity.Action) ([]float64, int, error) {
	values, ok := that.values[state]
	if !ok {
		return nil, 0, fmt.Errorf("%w: %q", ErrUnknownState, state)
	}

	i, ok := that.index[action]
	if !ok {
		return nil, 0, fmt.Errorf("%w: %s", ErrUnknownAction, action)
	}

	return values, i, nil
}

// MarshalJSON writes the table as {"<state>": {"<row,col>": value}}.
func (that *QTable) MarshalJSON() ([]byte, error) {
	doc := make(map[entity.BoardState]map[entity.Action]float64, len(that.values))
	for state, values := range that.values {
		inner := make(map[entity.Action]float64, len(values))
		for i, value := range values {
			inner[that.actions[i]] = value
		}
		doc[state] = inner
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal q-table: %w", err)
	}

	return data, nil
}

func (that *QTable) UnmarshalJSON(data []byte) error {
	var doc map[entity.BoardState]map[entity.Action]float64
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrMalformedTable, err)
	}

	if len(doc) == 0 {
		return fmt.Errorf("%w: no states", apperror.ErrMalformedTable)
	}

	size := 0
	for state := range doc {
		size = state.Size()
		break
	}

	if size < entity.MinBoardSize {
		return fmt.Errorf("%w: board size %d", apperror.ErrMalformedTable, size)
	}

	table := newQTable(entity.ActionSpace(size))
	for state, inner := range doc {
		if state.Size() != size {
			return fmt.Errorf("%w: state %q has size %d, want %d", apperror.ErrMalformedTable, state, state.Size(), size)
		}

		if len(inner) != len(table.actions) {
			return fmt.Errorf("%w: state %q has %d actions, want %d", apperror.ErrMalformedTable, state, len(inner), len(table.actions))
		}

		values := make([]float64, len(table.actions))
		for action, value := range inner {
			i, ok := table.index[action]
			if !ok {
				return fmt.Errorf("%w: state %q has unexpected action %s", apperror.ErrMalformedTable, state, action)
			}
			values[i] = value
		}

		table.values[state] = values
	}

	*that = *table

	return nil
}

// DecodeTable parses a saved table. Every parse or validation failure wraps ErrMalformedTable.
func DecodeTable(data []byte) (*QTable, error) {
	table := &QTable{}
	if err := table.UnmarshalJSON(data); err != nil {
		return nil, err
	}

	return table, nil
}
