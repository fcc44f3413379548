package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rocketscienceinc/tictactoe-qlearning/internal/agent"
	"github.com/rocketscienceinc/tictactoe-qlearning/internal/apperror"
)

const tableFileExt = ".json"

type fileQTable struct {
	dir string
}

// NewFileRepository stores each table as <dir>/<name>.json.
func NewFileRepository(dir string) QTableRepository {
	return &fileQTable{
		dir: dir,
	}
}

func (that *fileQTable) Save(_ context.Context, name string, table *agent.QTable) error {
	path, err := that.path(name)
	if err != nil {
		return err
	}

	data, err := table.MarshalJSON()
	if err != nil {
		return fmt.Errorf("could not marshal q-table: %w", err)
	}

	if err = os.MkdirAll(that.dir, 0o755); err != nil {
		return fmt.Errorf("%w: could not create directory: %w", apperror.ErrStorage, err)
	}

	tmp, err := os.CreateTemp(that.dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("%w: could not create temp file: %w", apperror.ErrStorage, err)
	}

	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: could not write q-table: %w", apperror.ErrStorage, err)
	}

	if err = tmp.Close(); err != nil {
		return fmt.Errorf("%w: could not close q-table file: %w", apperror.ErrStorage, err)
	}

	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("%w: could not move q-table into place: %w", apperror.ErrStorage, err)
	}

	return nil
}

func (that *fileQTable) Load(_ context.Context, name string) (*agent.QTable, error) {
	path, err := that.path(name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", apperror.ErrTableNotFound, path)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: could not read q-table: %w", apperror.ErrStorage, err)
	}

	table, err := agent.DecodeTable(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	return table, nil
}

func (that *fileQTable) Exists(_ context.Context, name string) (bool, error) {
	path, err := that.path(name)
	if err != nil {
		return false, err
	}

	_, err = os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}

	if err != nil {
		return false, fmt.Errorf("%w: could not stat q-table: %w", apperror.ErrStorage, err)
	}

	return true, nil
}

func (that *fileQTable) path(name string) (string, error) {
	name = strings.TrimSuffix(name, tableFileExt)
	if err := validateName(name); err != nil {
		return "", err
	}

	return filepath.Join(that.dir, name+tableFileExt), nil
}
