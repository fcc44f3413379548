package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/rocketscienceinc/tictactoe-qlearning/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-qlearning/internal/entity"
)

const (
	StorageFile  = "file"
	StorageRedis = "redis"
)

type Config struct {
	LogLevel   string     `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	BoardSize  int        `yaml:"board-size" env:"BOARD_SIZE" env-default:"3"`
	Seed       uint64     `yaml:"seed" env:"SEED" env-default:"0"`
	Storage    Storage    `yaml:"storage"`
	Training   Training   `yaml:"training"`
	Evaluation Evaluation `yaml:"evaluation"`
	Play       Play       `yaml:"play"`
}

type Storage struct {
	Driver string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"file"`
	Dir    string `yaml:"dir" env:"STORAGE_DIR" env-default:"."`
	Redis  Redis  `yaml:"redis"`
}

type Redis struct {
	Host     string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD" env-default:""`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

type Training struct {
	Episodes       int     `yaml:"episodes" env:"TRAIN_EPISODES" env-default:"1000000"`
	LearningRate   float64 `yaml:"learning-rate" env:"TRAIN_LEARNING_RATE"`
	DiscountFactor float64 `yaml:"discount-factor" env:"TRAIN_DISCOUNT_FACTOR"`
	RandomSearch   int     `yaml:"random-search" env:"TRAIN_RANDOM_SEARCH" env-default:"0"`
	MinEpsilon     float64 `yaml:"min-epsilon" env:"TRAIN_MIN_EPSILON"`
	EpsilonDecay   float64 `yaml:"epsilon-decay" env:"TRAIN_EPSILON_DECAY"`
	LogEvery       int     `yaml:"log-every" env:"TRAIN_LOG_EVERY" env-default:"10000"`
	TableName      string  `yaml:"table-name" env:"TRAIN_TABLE_NAME" env-default:""`
}

type Evaluation struct {
	Trials                int     `yaml:"trials" env:"EVAL_TRIALS" env-default:"100000"`
	RandomMoveProbability float64 `yaml:"random-move-probability" env:"EVAL_RANDOM_MOVE_PROBABILITY" env-default:"0"`
}

// Play.Agent picks the seats the agent takes: x, o, both or none. RandomMoveProbability is the
// chance an agent seat plays a random legal move instead of its best one.
type Play struct {
	Agent                 string  `yaml:"agent" env:"PLAY_AGENT" env-default:"o"`
	RandomMoveProbability float64 `yaml:"random-move-probability" env:"PLAY_RANDOM_MOVE_PROBABILITY" env-default:"0"`
}

const (
	AgentSeatX    = "x"
	AgentSeatO    = "o"
	AgentSeatBoth = "both"
	AgentSeatNone = "none"
)

func (that *Play) AgentX() bool {
	return that.Agent == AgentSeatX || that.Agent == AgentSeatBoth
}

func (that *Play) AgentO() bool {
	return that.Agent == AgentSeatO || that.Agent == AgentSeatBoth
}

// newConfig pre-fills the options for which zero is a valid value. env-default would overwrite an
// explicit zero from the file, so these get their defaults here instead.
func newConfig() *Config {
	return &Config{
		Training: Training{
			LearningRate:   0.01,
			DiscountFactor: 0.99,
			MinEpsilon:     0.001,
			EpsilonDecay:   0.999975,
		},
	}
}

// Load reads path when it exists and falls back to environment variables and defaults otherwise.
// The result is validated.
func Load(path string) (*Config, error) {
	config := newConfig()

	_, err := os.Stat(path)
	switch {
	case err == nil:
		if err = cleanenv.ReadConfig(path, config); err != nil {
			return nil, fmt.Errorf("unable to load config file: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist):
		if err = cleanenv.ReadEnv(config); err != nil {
			return nil, fmt.Errorf("unable to load config from env: %w", err)
		}
	default:
		return nil, fmt.Errorf("unable to stat config file: %w", err)
	}

	if err = config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

// Validate rejects out-of-range values. Nothing is clamped.
func (that *Config) Validate() error {
	switch that.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log-level %q", apperror.ErrInvalidConfig, that.LogLevel)
	}

	if that.BoardSize < entity.MinBoardSize {
		return fmt.Errorf("%w: board-size is expected to be at least %d, got %d", apperror.ErrInvalidConfig, entity.MinBoardSize, that.BoardSize)
	}

	switch that.Storage.Driver {
	case StorageFile, StorageRedis:
	default:
		return fmt.Errorf("%w: unknown storage driver %q", apperror.ErrInvalidConfig, that.Storage.Driver)
	}

	if err := that.Training.Validate(); err != nil {
		return err
	}

	if err := that.Evaluation.Validate(); err != nil {
		return err
	}

	return that.Play.Validate()
}

func (that *Training) Validate() error {
	if that.Episodes < 0 {
		return fmt.Errorf("%w: episodes is expected to be non-negative, got %d", apperror.ErrInvalidConfig, that.Episodes)
	}

	if that.RandomSearch < 0 {
		return fmt.Errorf("%w: random-search is expected to be non-negative, got %d", apperror.ErrInvalidConfig, that.RandomSearch)
	}

	if that.LogEvery < 0 {
		return fmt.Errorf("%w: log-every is expected to be non-negative, got %d", apperror.ErrInvalidConfig, that.LogEvery)
	}

	probabilities := []struct {
		name  string
		value float64
	}{
		{"learning-rate", that.LearningRate},
		{"discount-factor", that.DiscountFactor},
		{"min-epsilon", that.MinEpsilon},
		{"epsilon-decay", that.EpsilonDecay},
	}

	for _, p := range probabilities {
		if err := checkUnit(p.name, p.value); err != nil {
			return err
		}
	}

	return nil
}

func (that *Evaluation) Validate() error {
	if that.Trials < 0 {
		return fmt.Errorf("%w: trials is expected to be non-negative, got %d", apperror.ErrInvalidConfig, that.Trials)
	}

	return checkUnit("random-move-probability", that.RandomMoveProbability)
}

func (that *Play) Validate() error {
	switch that.Agent {
	case AgentSeatX, AgentSeatO, AgentSeatBoth, AgentSeatNone:
	default:
		return fmt.Errorf("%w: unknown play agent seat %q", apperror.ErrInvalidConfig, that.Agent)
	}

	return checkUnit("random-move-probability", that.RandomMoveProbability)
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

func checkUnit(name string, value float64) error {
	// written so that NaN fails too
	if !(value >= 0 && value <= 1) {
		return fmt.Errorf("%w: %s is expected to be in range [0, 1], got %v", apperror.ErrInvalidConfig, name, value)
	}

	return nil
}
