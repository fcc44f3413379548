package service

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-qlearning/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-qlearning/internal/entity"
)

var ErrNotAPlayer = errors.New("symbol is not a player")

type randSource interface {
	Float64() float64
	IntN(n int) int
}

type actionRanker interface {
	BestActions(state entity.BoardState) ([]entity.Action, error)
}

// RandomMove draws from the whole action space until the board accepts the draw, so every
// rejected draw still consumes the stream.
func RandomMove(board *entity.Board, symbol entity.Symbol, actions []entity.Action, rng randSource) (entity.Action, error) {
	if !symbol.IsPlayer() {
		return entity.Action{}, fmt.Errorf("%w: %s", ErrNotAPlayer, symbol)
	}

	if board.IsFull() {
		return entity.Action{}, apperror.ErrNoAvailableMoves
	}

	for {
		action := actions[rng.IntN(len(actions))]
		if board.Apply(action.Row, action.Col, symbol) {
			return action, nil
		}
	}
}

// GreedyMove plays the highest ranked action the board accepts.
func GreedyMove(board *entity.Board, symbol entity.Symbol, ranker actionRanker) (entity.Action, error) {
	if !symbol.IsPlayer() {
		return entity.Action{}, fmt.Errorf("%w: %s", ErrNotAPlayer, symbol)
	}

	if board.IsFull() {
		return entity.Action{}, apperror.ErrNoAvailableMoves
	}

	ranked, err := ranker.BestActions(board.State())
	if err != nil {
		return entity.Action{}, fmt.Errorf("failed to rank actions: %w", err)
	}

	for _, action := range ranked {
		if board.Apply(action.Row, action.Col, symbol) {
			return action, nil
		}
	}

	return entity.Action{}, apperror.ErrNoAvailableMoves
}
