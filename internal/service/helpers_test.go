package service

import (
	"io"
	"log/slog"
	"slices"
	"testing"

	"github.com/rocketscienceinc/tictactoe-qlearning/internal/agent"
	"github.com/rocketscienceinc/tictactoe-qlearning/internal/entity"
	"github.com/rocketscienceinc/tictactoe-qlearning/internal/pkg"
	"github.com/stretchr/testify/require"
)

// scriptedRand replays fixed draws in a loop and counts how many were taken.
type scriptedRand struct {
	floats     []float64
	ints       []int
	floatCalls int
	intCalls   int
}

func (that *scriptedRand) Float64() float64 {
	defer func() { that.floatCalls++ }()

	if len(that.floats) == 0 {
		return 0
	}

	return that.floats[that.floatCalls%len(that.floats)]
}

func (that *scriptedRand) IntN(n int) int {
	defer func() { that.intCalls++ }()

	if len(that.ints) == 0 {
		return 0
	}

	return that.ints[that.intCalls%len(that.ints)] % n
}

type fakeRanker struct {
	ranking []entity.Action
	err     error
	calls   int
}

func (that *fakeRanker) BestActions(_ entity.BoardState) ([]entity.Action, error) {
	that.calls++
	return that.ranking, that.err
}

type update struct {
	state  entity.BoardState
	action entity.Action
	reward float64
	next   entity.BoardState
}

// recordingLearner ranks in action space order and records every update.
type recordingLearner struct {
	fakeRanker
	updates []update
}

func (that *recordingLearner) Update(
	state entity.BoardState,
	action entity.Action,
	reward float64,
	nextState entity.BoardState,
	_, _ float64,
) error {
	that.updates = append(that.updates, update{state: state, action: action, reward: reward, next: nextState})
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newBoard(t *testing.T, size int) *entity.Board {
	t.Helper()

	board, err := entity.NewBoard(size)
	require.NoError(t, err)

	return board
}

func newAgent(t *testing.T, seed uint64) *agent.QAgent {
	t.Helper()

	qAgent := agent.New(pkg.NewRand(seed))
	require.NoError(t, qAgent.InitTable(entity.StateSpace(3), slices.Values(entity.ActionSpace(3))))

	return qAgent
}

func play(t *testing.T, board *entity.Board, moves ...string) {
	t.Helper()

	player := entity.PlayerX
	for _, move := range moves {
		action, err := entity.ParseNotation(move)
		require.NoError(t, err)
		require.True(t, board.Apply(action.Row, action.Col, player), "move %s", move)
		player = player.Opponent()
	}
}
