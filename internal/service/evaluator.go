package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-qlearning/internal/entity"
)

type Matchup int

const (
	AgentVsRandom Matchup = iota
	RandomVsAgent
	AgentVsAgent
)

// Matchups lists the match-ups in the order Evaluate plays them.
var Matchups = []Matchup{AgentVsRandom, RandomVsAgent, AgentVsAgent}

func (m Matchup) String() string {
	switch m {
	case AgentVsRandom:
		return "Agent vs. Random"
	case RandomVsAgent:
		return "Random vs. Agent"
	case AgentVsAgent:
		return "Agent vs. Agent"
	default:
		return fmt.Sprintf("Matchup(%d)", int(m))
	}
}

// agentMoves reports whether the agent owns the given step. The opening move is always random.
func (m Matchup) agentMoves(step int) bool {
	if step == 0 {
		return false
	}

	switch m {
	case AgentVsRandom:
		return step%2 == 0
	case RandomVsAgent:
		return step%2 == 1
	default:
		return true
	}
}

type Tally struct {
	Matchup Matchup
	XWins   int
	OWins   int
	Draws   int
}

func (that Tally) Total() int {
	return that.XWins + that.OWins + that.Draws
}

type Evaluator interface {
	Evaluate(ctx context.Context, trials int) ([]Tally, error)
	RunMatchup(ctx context.Context, matchup Matchup, trials int) (Tally, error)
}

type evaluator struct {
	logger  *slog.Logger
	board   *entity.Board
	agent   actionRanker
	rng     randSource
	actions []entity.Action

	randomMoveProbability float64
}

// NewEvaluator plays games against a frozen table. With a positive randomMoveProbability the
// agent sometimes plays a random move instead of its greedy one.
func NewEvaluator(
	logger *slog.Logger,
	board *entity.Board,
	agent actionRanker,
	rng randSource,
	randomMoveProbability float64,
) Evaluator {
	return &evaluator{
		logger:                logger.With("component", "evaluator"),
		board:                 board,
		agent:                 agent,
		rng:                   rng,
		actions:               entity.ActionSpace(board.Size()),
		randomMoveProbability: randomMoveProbability,
	}
}

func (that *evaluator) Evaluate(ctx context.Context, trials int) ([]Tally, error) {
	tallies := make([]Tally, 0, len(Matchups))
	for _, matchup := range Matchups {
		tally, err := that.RunMatchup(ctx, matchup, trials)
		if err != nil {
			return tallies, err
		}

		tallies = append(tallies, tally)
	}

	return tallies, nil
}

func (that *evaluator) RunMatchup(ctx context.Context, matchup Matchup, trials int) (Tally, error) {
	log := that.logger.With("method", "RunMatchup", "matchup", matchup.String())

	tally := Tally{Matchup: matchup}
	for trial := range trials {
		if err := ctx.Err(); err != nil {
			return tally, fmt.Errorf("evaluation stopped at trial %d: %w", trial, err)
		}

		winner, err := that.playGame(matchup)
		if err != nil {
			return tally, fmt.Errorf("failed to play %s trial %d: %w", matchup, trial, err)
		}

		switch winner {
		case entity.PlayerX:
			tally.XWins++
		case entity.PlayerO:
			tally.OWins++
		default:
			tally.Draws++
		}
	}

	log.Info("matchup finished", "x_wins", tally.XWins, "o_wins", tally.OWins, "draws", tally.Draws)

	return tally, nil
}

func (that *evaluator) playGame(matchup Matchup) (entity.Symbol, error) {
	that.board.Reset()

	player := entity.PlayerX
	for step := 0; ; step++ {
		var err error
		if matchup.agentMoves(step) {
			_, err = that.agentMove(player)
		} else {
			_, err = RandomMove(that.board, player, that.actions, that.rng)
		}

		if err != nil {
			return entity.Empty, err
		}

		if winner := that.board.Winner(); winner != entity.Empty || that.board.IsFull() {
			return winner, nil
		}

		player = player.Opponent()
	}
}

func (that *evaluator) agentMove(player entity.Symbol) (entity.Action, error) {
	if that.randomMoveProbability > 0 && that.rng.Float64() < that.randomMoveProbability {
		return RandomMove(that.board, player, that.actions, that.rng)
	}

	return GreedyMove(that.board, player, that.agent)
}
