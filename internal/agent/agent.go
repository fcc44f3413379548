package agent

import (
	"fmt"
	"iter"
	"slices"

	"github.com/rocketscienceinc/tictactoe-qlearning/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-qlearning/internal/entity"
)

type randSource interface {
	Float64() float64
}

// QAgent owns the Q-table and the tabular TD(0) update rule.
type QAgent struct {
	rng   randSource
	table *QTable
}

// New returns an agent without a table. rng seeds the initial table values.
func New(rng randSource) *QAgent {
	return &QAgent{rng: rng}
}

// InitTable creates one row per state with an independent value in [0, 1) for every action.
// Draws are taken state by state, action by action, in enumeration order.
func (that *QAgent) InitTable(states iter.Seq[entity.BoardState], actions iter.Seq[entity.Action]) error {
	actionSpace := slices.Collect(actions)
	if len(actionSpace) == 0 {
		return ErrEmptyActionSpace
	}

	table := newQTable(actionSpace)
	for state := range states {
		values := make([]float64, len(actionSpace))
		for i := range values {
			values[i] = that.rng.Float64()
		}
		table.values[state] = values
	}

	if table.Len() == 0 {
		return ErrEmptyStateSpace
	}

	that.table = table

	return nil
}

// BestActions ranks every action of state by descending value. The top action may target an
// occupied cell, so callers try them in order until the board accepts one.
func (that *QAgent) BestActions(state entity.BoardState) ([]entity.Action, error) {
	if that.table == nil {
		return nil, apperror.ErrTableNotInitialized
	}

	return that.table.Ranked(state)
}

// Update applies Q(s,a) += lr * (reward + df * max Q(s',·) - Q(s,a)).
func (that *QAgent) Update(
	state entity.BoardState,
	action entity.Action,
	reward float64,
	nextState entity.BoardState,
	learningRate, discountFactor float64,
) error {
	if that.table == nil {
		return apperror.ErrTableNotInitialized
	}

	current, err := that.table.Value(state, action)
	if err != nil {
		return fmt.Errorf("failed to read current value: %w", err)
	}

	maxFuture, err := that.table.MaxValue(nextState)
	if err != nil {
		return fmt.Errorf("failed to read future value: %w", err)
	}

	updated := current + learningRate*(reward+discountFactor*maxFuture-current)

	return that.table.Set(state, action, updated)
}

func (that *QAgent) Value(state entity.BoardState, action entity.Action) (float64, error) {
	if that.table == nil {
		return 0, apperror.ErrTableNotInitialized
	}

	return that.table.Value(state, action)
}

func (that *QAgent) Table() (*QTable, error) {
	if that.table == nil {
		return nil, apperror.ErrTableNotInitialized
	}

	return that.table, nil
}

// SetTable installs a previously saved table.
func (that *QAgent) SetTable(table *QTable) {
	that.table = table
}
