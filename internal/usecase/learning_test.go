package usecase

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-qlearning/internal/agent"
	"github.com/rocketscienceinc/tictactoe-qlearning/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-qlearning/internal/config"
	"github.com/rocketscienceinc/tictactoe-qlearning/internal/entity"
	"github.com/rocketscienceinc/tictactoe-qlearning/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-qlearning/internal/service"
	mockedUseCase "github.com/rocketscienceinc/tictactoe-qlearning/mocks/usecase"
)

var errRedisDown = errors.New("redis down")

func testConfig() *config.Config {
	return &config.Config{
		LogLevel:  "info",
		BoardSize: 3,
		Seed:      17,
		Storage:   config.Storage{Driver: config.StorageFile},
		Training: config.Training{
			Episodes:       30,
			LearningRate:   0.1,
			DiscountFactor: 0.9,
			MinEpsilon:     0.001,
			EpsilonDecay:   0.9,
		},
		Evaluation: config.Evaluation{Trials: 20},
		Play:       config.Play{Agent: config.AgentSeatO},
	}
}

func newLearning(conf *config.Config, repo tableRepo) *learningUseCase {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	return NewLearningUseCase(logger, conf, repo, pkg.NewRand(conf.Seed)).(*learningUseCase)
}

func freshTable(t *testing.T, size int) *agent.QTable {
	t.Helper()

	qAgent := agent.New(pkg.NewRand(3))
	require.NoError(t, qAgent.InitTable(entity.StateSpace(size), slices.Values(entity.ActionSpace(size))))

	table, err := qAgent.Table()
	require.NoError(t, err)

	return table
}

func TestLearningUseCase_Train(t *testing.T) {
	ctx := context.Background()

	t.Run("Saves under a timestamped name", func(t *testing.T) {
		// Given: no configured table name
		repo := mockedUseCase.NewMocktableRepo(t)
		useCase := newLearning(testConfig(), repo)
		useCase.now = func() time.Time { return time.Date(2024, 9, 30, 14, 5, 9, 0, time.UTC) }

		var saved *agent.QTable
		repo.EXPECT().Exists(mock.Anything, "qtable_20240930-140509").Return(false, nil).Once()
		repo.EXPECT().
			Save(mock.Anything, "qtable_20240930-140509", mock.AnythingOfType("*agent.QTable")).
			Return(nil).
			Once().
			Run(func(args mock.Arguments) { saved = args.Get(2).(*agent.QTable) })

		// When: training runs
		name, report, err := useCase.Train(ctx)

		// Then: the full table should be saved under the generated name
		require.NoError(t, err)
		assert.Equal(t, "qtable_20240930-140509", name)
		assert.Equal(t, 30, report.Episodes)
		require.NotNil(t, saved)
		assert.Equal(t, entity.StateCount(3), saved.Len())
	})

	t.Run("Uses the configured name", func(t *testing.T) {
		// Given: a configured table name that already exists
		conf := testConfig()
		conf.Training.TableName = "champion"
		repo := mockedUseCase.NewMocktableRepo(t)
		useCase := newLearning(conf, repo)

		repo.EXPECT().Exists(mock.Anything, "champion").Return(true, nil).Once()
		repo.EXPECT().Save(mock.Anything, "champion", mock.AnythingOfType("*agent.QTable")).Return(nil).Once()

		// When: training runs
		name, _, err := useCase.Train(ctx)

		// Then: the table should be overwritten under that name
		require.NoError(t, err)
		assert.Equal(t, "champion", name)
	})

	t.Run("Same seed trains the same table", func(t *testing.T) {
		train := func() *agent.QTable {
			conf := testConfig()
			conf.Training.TableName = "seeded"
			repo := mockedUseCase.NewMocktableRepo(t)

			var saved *agent.QTable
			repo.EXPECT().Exists(mock.Anything, "seeded").Return(false, nil).Once()
			repo.EXPECT().
				Save(mock.Anything, "seeded", mock.AnythingOfType("*agent.QTable")).
				Return(nil).
				Once().
				Run(func(args mock.Arguments) { saved = args.Get(2).(*agent.QTable) })

			_, _, err := newLearning(conf, repo).Train(ctx)
			require.NoError(t, err)

			return saved
		}

		a, b := train(), train()

		for state := range entity.StateSpace(3) {
			rankedA, err := a.Ranked(state)
			require.NoError(t, err)
			rankedB, err := b.Ranked(state)
			require.NoError(t, err)
			require.Equal(t, rankedA, rankedB)
		}
	})

	t.Run("Returns the storage error", func(t *testing.T) {
		// Given: a repository that cannot save
		conf := testConfig()
		conf.Training.TableName = "broken"
		repo := mockedUseCase.NewMocktableRepo(t)
		useCase := newLearning(conf, repo)

		repo.EXPECT().Exists(mock.Anything, "broken").Return(false, nil).Once()
		repo.EXPECT().Save(mock.Anything, "broken", mock.Anything).Return(errRedisDown).Once()

		// When: training runs
		name, report, err := useCase.Train(ctx)

		// Then: the error should surface with the finished report
		require.ErrorIs(t, err, errRedisDown)
		assert.Empty(t, name)
		assert.Equal(t, 30, report.Episodes)
	})

	t.Run("Rejects a small board before training", func(t *testing.T) {
		conf := testConfig()
		conf.BoardSize = 2
		repo := mockedUseCase.NewMocktableRepo(t)

		_, _, err := newLearning(conf, repo).Train(ctx)

		require.ErrorIs(t, err, apperror.ErrInvalidBoardSize)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestLearningUseCase_Evaluate(t *testing.T) {
	ctx := context.Background()

	t.Run("Evaluates a stored table", func(t *testing.T) {
		// Given: a stored table
		repo := mockedUseCase.NewMocktableRepo(t)
		repo.EXPECT().Load(mock.Anything, "stored").Return(freshTable(t, 3), nil).Once()

		// When: it is evaluated
		tallies, err := newLearning(testConfig(), repo).Evaluate(ctx, "stored")

		// Then: every matchup should be played
		require.NoError(t, err)
		require.Len(t, tallies, 3)
		for i, tally := range tallies {
			assert.Equal(t, service.Matchups[i], tally.Matchup)
			assert.Equal(t, 20, tally.Total())
		}
	})

	t.Run("Missing table", func(t *testing.T) {
		repo := mockedUseCase.NewMocktableRepo(t)
		repo.EXPECT().Load(mock.Anything, "ghost").Return(nil, apperror.ErrTableNotFound).Once()

		_, err := newLearning(testConfig(), repo).Evaluate(ctx, "ghost")

		assert.ErrorIs(t, err, apperror.ErrTableNotFound)
	})

	t.Run("Empty name", func(t *testing.T) {
		repo := mockedUseCase.NewMocktableRepo(t)

		_, err := newLearning(testConfig(), repo).Evaluate(ctx, "")

		assert.ErrorIs(t, err, apperror.ErrTableNotFound)
	})

	t.Run("Table trained for another board size", func(t *testing.T) {
		// Given: a 3x3 table and a 4x4 configuration
		conf := testConfig()
		conf.BoardSize = 4
		repo := mockedUseCase.NewMocktableRepo(t)
		repo.EXPECT().Load(mock.Anything, "small").Return(freshTable(t, 3), nil).Once()

		// When: it is evaluated
		_, err := newLearning(conf, repo).Evaluate(ctx, "small")

		// Then: the mismatch should be rejected
		assert.ErrorIs(t, err, apperror.ErrInvalidBoardSize)
	})
}

func TestLearningUseCase_Play(t *testing.T) {
	ctx := context.Background()

	t.Run("Humans only never load a table", func(t *testing.T) {
		conf := testConfig()
		conf.Play = config.Play{Agent: config.AgentSeatNone}
		repo := mockedUseCase.NewMocktableRepo(t)
		out := &bytes.Buffer{}

		winner, err := newLearning(conf, repo).Play(ctx, "", strings.NewReader("A1\nA2\nB1\nB2\nC1\n"), out)

		require.NoError(t, err)
		assert.Equal(t, entity.PlayerX, winner)
		repo.AssertNotCalled(t, "Load", mock.Anything, mock.Anything)
	})

	t.Run("Agent plays O from the stored table", func(t *testing.T) {
		// Given: a stored table and a human that runs out of input
		repo := mockedUseCase.NewMocktableRepo(t)
		repo.EXPECT().Load(mock.Anything, "stored").Return(freshTable(t, 3), nil).Once()
		out := &bytes.Buffer{}

		// When: the human plays one move
		_, err := newLearning(testConfig(), repo).Play(ctx, "stored", strings.NewReader("B2\n"), out)

		// Then: the agent should answer before input ends
		require.ErrorIs(t, err, io.ErrUnexpectedEOF)
		assert.Contains(t, out.String(), "X chose B2")
		assert.Contains(t, out.String(), "O chose")
	})
}
