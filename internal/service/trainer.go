package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/rocketscienceinc/tictactoe-qlearning/internal/entity"
)

const (
	winReward  = 10
	drawReward = 1
)

type TrainParams struct {
	Episodes       int
	LearningRate   float64
	DiscountFactor float64
	RandomSearch   int
	MinEpsilon     float64
	EpsilonDecay   float64
	LogEvery       int
}

type TrainReport struct {
	Episodes int
	Epsilon  float64
	XWins    int
	OWins    int
	Draws    int
}

// Transition is one recorded move of an episode.
type Transition struct {
	Player entity.Symbol
	State  entity.BoardState
	Action entity.Action
	Next   entity.BoardState
}

type learner interface {
	actionRanker
	Update(state entity.BoardState, action entity.Action, reward float64, nextState entity.BoardState, learningRate, discountFactor float64) error
}

type Trainer interface {
	Train(ctx context.Context, params TrainParams) (TrainReport, error)
}

type trainer struct {
	logger  *slog.Logger
	board   *entity.Board
	agent   learner
	rng     randSource
	actions []entity.Action
}

func NewTrainer(logger *slog.Logger, board *entity.Board, agent learner, rng randSource) Trainer {
	return &trainer{
		logger:  logger.With("component", "trainer"),
		board:   board,
		agent:   agent,
		rng:     rng,
		actions: entity.ActionSpace(board.Size()),
	}
}

// Train runs self-play episodes against the agent's table. The context is checked between
// episodes only.
func (that *trainer) Train(ctx context.Context, params TrainParams) (TrainReport, error) {
	log := that.logger.With("method", "Train")

	report := TrainReport{Epsilon: 1}

	for episode := range params.Episodes {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("training stopped at episode %d: %w", episode, err)
		}

		transitions, winner, err := that.playEpisode(episode, report.Epsilon, params.RandomSearch)
		if err != nil {
			return report, fmt.Errorf("failed to play episode %d: %w", episode, err)
		}

		rewards := AssignRewards(transitions, winner)
		for i, transition := range transitions {
			if err = that.agent.Update(
				transition.State,
				transition.Action,
				rewards[i],
				transition.Next,
				params.LearningRate,
				params.DiscountFactor,
			); err != nil {
				return report, fmt.Errorf("failed to update q-table: %w", err)
			}
		}

		switch winner {
		case entity.PlayerX:
			report.XWins++
		case entity.PlayerO:
			report.OWins++
		default:
			report.Draws++
		}

		if episode >= params.RandomSearch {
			report.Epsilon = DecayEpsilon(report.Epsilon, params.EpsilonDecay, params.MinEpsilon)
		}

		report.Episodes++

		if params.LogEvery > 0 && report.Episodes%params.LogEvery == 0 {
			log.Info("training progress",
				"episode", report.Episodes,
				"epsilon", report.Epsilon,
				"x_wins", report.XWins,
				"o_wins", report.OWins,
				"draws", report.Draws,
			)
		}
	}

	log.Info("training finished", "episodes", report.Episodes, "epsilon", report.Epsilon)

	return report, nil
}

func (that *trainer) playEpisode(episode int, epsilon float64, randomSearch int) ([]Transition, entity.Symbol, error) {
	that.board.Reset()

	transitions := make([]Transition, 0, len(that.actions))
	player := entity.PlayerX

	for step := 0; ; step++ {
		state := that.board.State()

		var (
			action entity.Action
			err    error
		)

		// Float64 is drawn only once the first two conditions fail.
		if step == 0 || episode < randomSearch || that.rng.Float64() < epsilon {
			action, err = RandomMove(that.board, player, that.actions, that.rng)
		} else {
			action, err = GreedyMove(that.board, player, that.agent)
		}

		if err != nil {
			return nil, entity.Empty, err
		}

		transitions = append(transitions, Transition{
			Player: player,
			State:  state,
			Action: action,
			Next:   that.board.State(),
		})

		if winner := that.board.Winner(); winner != entity.Empty || that.board.IsFull() {
			return transitions, winner, nil
		}

		player = player.Opponent()
	}
}

// AssignRewards scores the transitions of a finished episode. Move i (1-based) earns i on a
// draw, and 10*i or -10*i depending on whether its player won.
func AssignRewards(transitions []Transition, winner entity.Symbol) []float64 {
	rewards := make([]float64, len(transitions))
	for idx, transition := range transitions {
		i := float64(idx + 1)

		switch {
		case winner == entity.Empty:
			rewards[idx] = drawReward * i
		case transition.Player == winner:
			rewards[idx] = winReward * i
		default:
			rewards[idx] = -winReward * i
		}
	}

	return rewards
}

// DecayEpsilon applies one geometric decay step floored at minEpsilon.
func DecayEpsilon(epsilon, decay, minEpsilon float64) float64 {
	return math.Max(epsilon*decay, minEpsilon)
}
