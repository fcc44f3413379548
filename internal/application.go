package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/tictactoe-qlearning/internal/config"
	"github.com/rocketscienceinc/tictactoe-qlearning/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-qlearning/internal/repository"
	"github.com/rocketscienceinc/tictactoe-qlearning/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-qlearning/internal/usecase"
)

const (
	CommandTrain = "train"
	CommandTest  = "test"
	CommandPlay  = "play"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrAddrNotFound   = errors.New("redis host is empty")
)

// Options carries what the command line adds on top of the config file.
type Options struct {
	Command string
	Table   string
	In      io.Reader
	Out     io.Writer
}

// RunApp - runs one command to completion or until SIGINT/SIGTERM.
func RunApp(logger *slog.Logger, conf *config.Config, opts Options) error {
	logger = logger.With("run_id", pkg.GenerateRunID())
	log := logger.With("component", "app")

	switch opts.Command {
	case CommandTrain, CommandTest, CommandPlay:
	default:
		return fmt.Errorf("%w: %q, expected one of %s, %s, %s", ErrUnknownCommand, opts.Command, CommandTrain, CommandTest, CommandPlay)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	go func() {
		select {
		case sig := <-sigs:
			log.Info("Received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	if conf.BoardSize > 3 {
		log.Warn("the full state space grows as 3^(n*n) and may not fit in memory",
			"board_size", conf.BoardSize,
		)
	}

	repo, closeRepo, err := openRepository(ctx, log, conf)
	if err != nil {
		return err
	}
	defer closeRepo()

	learning := usecase.NewLearningUseCase(logger, conf, repo, pkg.NewRand(conf.Seed))

	switch opts.Command {
	case CommandTrain:
		name, report, err := learning.Train(ctx)
		if err != nil {
			return fmt.Errorf("training failed: %w", err)
		}

		fmt.Fprintf(opts.Out, "trained %d episodes (X %d, O %d, draws %d), saved as %s\n",
			report.Episodes, report.XWins, report.OWins, report.Draws, name)
	case CommandTest:
		tallies, err := learning.Evaluate(ctx, opts.Table)
		if err != nil {
			return fmt.Errorf("evaluation failed: %w", err)
		}

		for _, tally := range tallies {
			fmt.Fprintf(opts.Out, "%s: X %d, O %d, draws %d\n", tally.Matchup, tally.XWins, tally.OWins, tally.Draws)
		}
	case CommandPlay:
		if _, err := learning.Play(ctx, opts.Table, opts.In, opts.Out); err != nil {
			return fmt.Errorf("play failed: %w", err)
		}
	}

	return nil
}

func openRepository(ctx context.Context, log *slog.Logger, conf *config.Config) (repository.QTableRepository, func(), error) {
	if conf.Storage.Driver != config.StorageRedis {
		log.Info("Using file storage", "dir", conf.Storage.Dir)
		return repository.NewFileRepository(conf.Storage.Dir), func() {}, nil
	}

	if conf.Storage.Redis.Host == "" {
		return nil, nil, ErrAddrNotFound
	}

	redisAddrString := conf.Storage.Redis.GetRedisAddr()

	redisStorage, err := storage.NewRedisStorage(ctx, redisAddrString, conf.Storage.Redis.Password, conf.Storage.Redis.DB)
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	log.Info("Using redis storage", "addr", redisAddrString)

	closeFn := func() {
		if err := redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}

	return repository.NewRedisRepository(redisStorage.Connection), closeFn, nil
}
