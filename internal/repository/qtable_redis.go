package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/tictactoe-qlearning/internal/agent"
	"github.com/rocketscienceinc/tictactoe-qlearning/internal/apperror"
)

const tableKeyPrefix = "qtable:"

type dbQTable struct {
	client *redis.Client
}

func NewRedisRepository(client *redis.Client) QTableRepository {
	return &dbQTable{
		client: client,
	}
}

func (that *dbQTable) Save(ctx context.Context, name string, table *agent.QTable) error {
	if err := validateName(name); err != nil {
		return err
	}

	tableJSON, err := table.MarshalJSON()
	if err != nil {
		return fmt.Errorf("could not marshal q-table: %w", err)
	}

	err = that.client.Set(ctx, tableKeyPrefix+name, tableJSON, 0).Err()
	if err != nil {
		return fmt.Errorf("%w: failed to set q-table: %w", apperror.ErrStorage, err)
	}

	return nil
}

func (that *dbQTable) Load(ctx context.Context, name string) (*agent.QTable, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	response, err := that.client.Get(ctx, tableKeyPrefix+name).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", apperror.ErrTableNotFound, name)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: failed to get q-table: %w", apperror.ErrStorage, err)
	}

	table, err := agent.DecodeTable(response)
	if err != nil {
		return nil, fmt.Errorf("failed to decode q-table %s: %w", name, err)
	}

	return table, nil
}

func (that *dbQTable) Exists(ctx context.Context, name string) (bool, error) {
	if err := validateName(name); err != nil {
		return false, err
	}

	count, err := that.client.Exists(ctx, tableKeyPrefix+name).Result()
	if err != nil {
		return false, fmt.Errorf("%w: failed to check q-table: %w", apperror.ErrStorage, err)
	}

	return count > 0, nil
}
