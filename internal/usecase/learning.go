package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/rocketscienceinc/tictactoe-qlearning/internal/agent"
	"github.com/rocketscienceinc/tictactoe-qlearning/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-qlearning/internal/config"
	"github.com/rocketscienceinc/tictactoe-qlearning/internal/entity"
	"github.com/rocketscienceinc/tictactoe-qlearning/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-qlearning/internal/service"
)

type tableRepo interface {
	Save(ctx context.Context, name string, table *agent.QTable) error
	Load(ctx context.Context, name string) (*agent.QTable, error)
	Exists(ctx context.Context, name string) (bool, error)
}

type randSource interface {
	Float64() float64
	IntN(n int) int
}

type LearningUseCase interface {
	Train(ctx context.Context) (string, service.TrainReport, error)
	Evaluate(ctx context.Context, name string) ([]service.Tally, error)
	Play(ctx context.Context, name string, in io.Reader, out io.Writer) (entity.Symbol, error)
}

type learningUseCase struct {
	logger *slog.Logger
	conf   *config.Config
	repo   tableRepo
	rng    randSource
	now    func() time.Time
}

// NewLearningUseCase wires the board, the agent and table storage. Every random draw of a run
// comes from rng.
func NewLearningUseCase(logger *slog.Logger, conf *config.Config, repo tableRepo, rng randSource) LearningUseCase {
	return &learningUseCase{
		logger: logger.With("component", "learning"),
		conf:   conf,
		repo:   repo,
		rng:    rng,
		now:    time.Now,
	}
}

// Train builds a table over the full state space, trains it and saves it. The returned name
// is the one the table was saved under.
func (that *learningUseCase) Train(ctx context.Context) (string, service.TrainReport, error) {
	log := that.logger.With("method", "Train")

	board, err := entity.NewBoard(that.conf.BoardSize)
	if err != nil {
		return "", service.TrainReport{}, fmt.Errorf("failed to create board: %w", err)
	}

	qAgent := agent.New(that.rng)

	log.Info("initializing q-table", "board_size", board.Size(), "states", entity.StateCount(board.Size()))

	if err = qAgent.InitTable(entity.StateSpace(board.Size()), slices.Values(entity.ActionSpace(board.Size()))); err != nil {
		return "", service.TrainReport{}, fmt.Errorf("failed to init q-table: %w", err)
	}

	params := that.conf.Training
	trainer := service.NewTrainer(that.logger, board, qAgent, that.rng)

	report, err := trainer.Train(ctx, service.TrainParams{
		Episodes:       params.Episodes,
		LearningRate:   params.LearningRate,
		DiscountFactor: params.DiscountFactor,
		RandomSearch:   params.RandomSearch,
		MinEpsilon:     params.MinEpsilon,
		EpsilonDecay:   params.EpsilonDecay,
		LogEvery:       params.LogEvery,
	})
	if err != nil {
		return "", report, fmt.Errorf("failed to train: %w", err)
	}

	name := params.TableName
	if name == "" {
		name = pkg.GenerateTableName(that.now())
	}

	exists, err := that.repo.Exists(ctx, name)
	if err != nil {
		return "", report, fmt.Errorf("failed to check q-table %q: %w", name, err)
	}

	if exists {
		log.Warn("overwriting existing q-table", "table", name)
	}

	table, err := qAgent.Table()
	if err != nil {
		return "", report, err
	}

	if err = that.repo.Save(ctx, name, table); err != nil {
		return "", report, fmt.Errorf("failed to save q-table %q: %w", name, err)
	}

	log.Info("q-table saved", "table", name)

	return name, report, nil
}

// Evaluate runs every matchup against the named table.
func (that *learningUseCase) Evaluate(ctx context.Context, name string) ([]service.Tally, error) {
	log := that.logger.With("method", "Evaluate")

	board, qAgent, err := that.loadAgent(ctx, name)
	if err != nil {
		return nil, err
	}

	evaluator := service.NewEvaluator(that.logger, board, qAgent, that.rng, that.conf.Evaluation.RandomMoveProbability)

	tallies, err := evaluator.Evaluate(ctx, that.conf.Evaluation.Trials)
	if err != nil {
		return tallies, fmt.Errorf("failed to evaluate q-table %q: %w", name, err)
	}

	for _, tally := range tallies {
		log.Info("evaluation result",
			"table", name,
			"matchup", tally.Matchup.String(),
			"x_wins", tally.XWins,
			"o_wins", tally.OWins,
			"draws", tally.Draws,
		)
	}

	return tallies, nil
}

// Play runs one interactive game. The table is only loaded when the agent takes a seat.
func (that *learningUseCase) Play(ctx context.Context, name string, in io.Reader, out io.Writer) (entity.Symbol, error) {
	agentX, agentO := that.conf.Play.AgentX(), that.conf.Play.AgentO()

	var session *service.PlaySession
	if agentX || agentO {
		board, qAgent, err := that.loadAgent(ctx, name)
		if err != nil {
			return entity.Empty, err
		}

		session = service.NewPlaySession(board, qAgent, that.rng, in, out, agentX, agentO, that.conf.Play.RandomMoveProbability)
	} else {
		board, err := entity.NewBoard(that.conf.BoardSize)
		if err != nil {
			return entity.Empty, fmt.Errorf("failed to create board: %w", err)
		}

		session = service.NewPlaySession(board, nil, that.rng, in, out, false, false, 0)
	}

	winner, err := session.Run(ctx)
	if err != nil {
		return entity.Empty, fmt.Errorf("failed to play: %w", err)
	}

	return winner, nil
}

func (that *learningUseCase) loadAgent(ctx context.Context, name string) (*entity.Board, *agent.QAgent, error) {
	if name == "" {
		return nil, nil, fmt.Errorf("%w: no table name given", apperror.ErrTableNotFound)
	}

	table, err := that.repo.Load(ctx, name)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load q-table %q: %w", name, err)
	}

	size := that.conf.BoardSize
	if len(table.Actions()) != size*size {
		return nil, nil, fmt.Errorf("%w: q-table %q was not trained for a %dx%d board", apperror.ErrInvalidBoardSize, name, size, size)
	}

	board, err := entity.NewBoard(size)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create board: %w", err)
	}

	qAgent := agent.New(that.rng)
	qAgent.SetTable(table)

	return board, qAgent, nil
}
