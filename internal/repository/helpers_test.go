package repository

import (
	"slices"
	"testing"

	"github.com/rocketscienceinc/tictactoe-qlearning/internal/agent"
	"github.com/rocketscienceinc/tictactoe-qlearning/internal/entity"
	"github.com/rocketscienceinc/tictactoe-qlearning/internal/pkg"
	"github.com/stretchr/testify/require"
)

// newTable builds a table over the first states of the 3x3 space.
func newTable(t *testing.T, seed uint64, states int) *agent.QTable {
	t.Helper()

	var subset []entity.BoardState
	for state := range entity.StateSpace(3) {
		subset = append(subset, state)
		if len(subset) == states {
			break
		}
	}

	qAgent := agent.New(pkg.NewRand(seed))
	require.NoError(t, qAgent.InitTable(slices.Values(subset), slices.Values(entity.ActionSpace(3))))

	table, err := qAgent.Table()
	require.NoError(t, err)

	return table
}

func requireSameTable(t *testing.T, expected, actual *agent.QTable) {
	t.Helper()

	require.Equal(t, expected.Len(), actual.Len())

	count := 0
	for state := range entity.StateSpace(3) {
		if !expected.Has(state) {
			continue
		}
		count++

		want, err := expected.Ranked(state)
		require.NoError(t, err)
		got, err := actual.Ranked(state)
		require.NoError(t, err)
		require.Equal(t, want, got)

		for _, action := range entity.ActionSpace(3) {
			a, err := expected.Value(state, action)
			require.NoError(t, err)
			b, err := actual.Value(state, action)
			require.NoError(t, err)
			require.Equal(t, a, b)
		}

		if count == expected.Len() {
			return
		}
	}
}
