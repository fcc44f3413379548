package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rocketscienceinc/tictactoe-qlearning/internal/agent"
)

var ErrInvalidTableName = errors.New("invalid q-table name")

type QTableRepository interface {
	Save(ctx context.Context, name string, table *agent.QTable) error
	Load(ctx context.Context, name string) (*agent.QTable, error)
	Exists(ctx context.Context, name string) (bool, error)
}

// validateName keeps table names usable both as redis key suffixes and as file names.
func validateName(name string) error {
	if name == "" || name == "." || name == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidTableName, name)
	}

	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidTableName, name)
	}

	return nil
}
