package service

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rocketscienceinc/tictactoe-qlearning/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-qlearning/internal/entity"
)

type boardStyles struct {
	x      func(...string) string
	o      func(...string) string
	grid   func(...string) string
	header func(...string) string
}

func newBoardStyles(out io.Writer) boardStyles {
	renderer := lipgloss.NewRenderer(out)

	return boardStyles{
		x:      renderer.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).Render,
		o:      renderer.NewStyle().Foreground(lipgloss.Color("39")).Bold(true).Render,
		grid:   renderer.NewStyle().Foreground(lipgloss.Color("244")).Render,
		header: renderer.NewStyle().Foreground(lipgloss.Color("178")).Render,
	}
}

func (that boardStyles) mark(symbol entity.Symbol) string {
	switch symbol {
	case entity.PlayerX:
		return that.x(symbol.Mark())
	case entity.PlayerO:
		return that.o(symbol.Mark())
	default:
		return symbol.Mark()
	}
}

// render draws the board with column letters and 1-based row numbers, matching move notation.
func (that boardStyles) render(state entity.BoardState) string {
	size := state.Size()

	var sb strings.Builder

	letters := make([]string, size)
	for col := range size {
		letters[col] = string(rune('A' + col))
	}
	sb.WriteString("  " + that.header(strings.Join(letters, " ")) + "\n")

	separator := "  " + that.grid(strings.Repeat("-+", size-1)+"-") + "\n"
	for row := range size {
		cells := make([]string, size)
		for col := range size {
			cells[col] = that.mark(state.At(row, col))
		}

		sb.WriteString(that.header(strconv.Itoa(row+1)) + " " + strings.Join(cells, that.grid("|")) + "\n")
		if row < size-1 {
			sb.WriteString(separator)
		}
	}

	return sb.String()
}

// PlaySession is one interactive game between humans and the agent on a text stream. Seats not
// taken by the agent read moves like "A1" from the input.
type PlaySession struct {
	board                 *entity.Board
	agent                 actionRanker
	rng                   randSource
	actions               []entity.Action
	in                    *bufio.Scanner
	out                   io.Writer
	styles                boardStyles
	agentX                bool
	agentO                bool
	randomMoveProbability float64
}

// NewPlaySession wires a game. agent may be nil when neither seat is played by the agent. An agent
// seat plays a random move with randomMoveProbability and its best move otherwise.
func NewPlaySession(
	board *entity.Board,
	agent actionRanker,
	rng randSource,
	in io.Reader,
	out io.Writer,
	agentX, agentO bool,
	randomMoveProbability float64,
) *PlaySession {
	return &PlaySession{
		board:                 board,
		agent:                 agent,
		rng:                   rng,
		actions:               entity.ActionSpace(board.Size()),
		in:                    bufio.NewScanner(in),
		out:                   out,
		styles:                newBoardStyles(out),
		agentX:                agentX,
		agentO:                agentO,
		randomMoveProbability: randomMoveProbability,
	}
}

// Run plays until a win or a full board and returns the winner, Empty for a draw.
func (that *PlaySession) Run(ctx context.Context) (entity.Symbol, error) {
	if (that.agentX || that.agentO) && that.agent == nil {
		return entity.Empty, apperror.ErrTableNotInitialized
	}

	that.board.Reset()
	fmt.Fprintf(that.out, "%s\n", that.styles.render(that.board.State()))

	player := entity.PlayerX
	for step := 0; ; step++ {
		if err := ctx.Err(); err != nil {
			return entity.Empty, fmt.Errorf("game interrupted: %w", err)
		}

		var (
			action entity.Action
			err    error
		)

		switch {
		case step == 0 && that.agentX:
			action, err = RandomMove(that.board, player, that.actions, that.rng)
		case that.isAgent(player):
			action, err = that.agentMove(player)
		default:
			action, err = that.readMove(player)
		}

		if err != nil {
			return entity.Empty, err
		}

		fmt.Fprintf(that.out, "%s chose %s\n->\n%s\n", that.styles.mark(player), action.Notation(), that.styles.render(that.board.State()))

		if winner := that.board.Winner(); winner != entity.Empty || that.board.IsFull() {
			if winner == entity.Empty {
				fmt.Fprintln(that.out, "Draw!")
			} else {
				fmt.Fprintf(that.out, "The winner is %s!\n", that.styles.mark(winner))
			}

			return winner, nil
		}

		player = player.Opponent()
	}
}

func (that *PlaySession) isAgent(player entity.Symbol) bool {
	if player == entity.PlayerX {
		return that.agentX
	}

	return that.agentO
}

func (that *PlaySession) agentMove(player entity.Symbol) (entity.Action, error) {
	if that.randomMoveProbability > 0 && that.rng.Float64() < that.randomMoveProbability {
		return RandomMove(that.board, player, that.actions, that.rng)
	}

	return GreedyMove(that.board, player, that.agent)
}

func (that *PlaySession) readMove(player entity.Symbol) (entity.Action, error) {
	for {
		fmt.Fprintf(that.out, "%s: ", player.Mark())

		if !that.in.Scan() {
			if err := that.in.Err(); err != nil {
				return entity.Action{}, fmt.Errorf("failed to read move: %w", err)
			}

			return entity.Action{}, fmt.Errorf("failed to read move: %w", io.ErrUnexpectedEOF)
		}

		action, err := entity.ParseNotation(that.in.Text())
		if err != nil {
			fmt.Fprintf(that.out, "invalid move %q, expected a cell like A1\n", strings.TrimSpace(that.in.Text()))
			continue
		}

		if !that.board.Apply(action.Row, action.Col, player) {
			fmt.Fprintf(that.out, "cell %s is not available\n", action.Notation())
			continue
		}

		return action, nil
	}
}
