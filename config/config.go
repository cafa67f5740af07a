package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"hex/analysis"
	"hex/engine"
	"hex/experiments"
	"hex/experiments/metrics"
	"hex/game"
	"hex/opening"
	"hex/searcher"
)

var ErrInvalidConfig = errors.New("invalid config")

type Search struct {
	TimeBudget    time.Duration    `yaml:"time_budget"`
	EarlyDepth    int              `yaml:"early_depth"`
	LateDepth     int              `yaml:"late_depth"`
	EarlyFill     float64          `yaml:"early_fill"`
	CacheCapacity int              `yaml:"cache_capacity"`
	Opening       bool             `yaml:"opening"`
	Mirror        bool             `yaml:"mirror"`
	Weights       searcher.Weights `yaml:"weights"`
}

type Config struct {
	BoardSize int    `yaml:"board_size"`
	MaxMoves  int    `yaml:"max_moves"`
	Games     int    `yaml:"games"`
	Seed      uint64 `yaml:"seed"`
	LogLevel  string `yaml:"log_level"`
	Addr      string `yaml:"addr"`
	OutDir    string `yaml:"out_dir"`
	DBPath    string `yaml:"db_path"`
	Search    Search `yaml:"search"`
	// Agents are the two tournament contestants.
	Agents []metrics.AgentConfig `yaml:"agents"`
}

func Default() Config {
	return Config{
		BoardSize: engine.DefaultBoardSize,
		MaxMoves:  engine.DefaultMaxMoves,
		Games:     experiments.NumGames,
		LogLevel:  "info",
		Addr:      ":8080",
		OutDir:    "results",
		Search: Search{
			TimeBudget:    searcher.DefaultDuration,
			EarlyDepth:    searcher.DefaultEarlyDepth,
			LateDepth:     searcher.DefaultLateDepth,
			EarlyFill:     searcher.DefaultEarlyFill,
			CacheCapacity: analysis.DefaultCacheCapacity,
			Opening:       true,
			Mirror:        true,
			Weights:       searcher.DefaultWeights(),
		},
		Agents: []metrics.AgentConfig{
			{ID: 1, Kind: metrics.KindMinimax, Duration: searcher.DefaultDuration, Opening: true},
			{ID: 2, Kind: metrics.KindRandom},
		},
	}
}

// Load reads the YAML file at path over the defaults, then applies HEX_*
// environment overrides. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.BoardSize = getenvInt("HEX_BOARD_SIZE", c.BoardSize)
	c.MaxMoves = getenvInt("HEX_MAX_MOVES", c.MaxMoves)
	c.Games = getenvInt("HEX_GAMES", c.Games)
	c.LogLevel = getenv("HEX_LOG_LEVEL", c.LogLevel)
	c.Addr = getenv("HEX_ADDR", c.Addr)
	c.OutDir = getenv("HEX_OUT_DIR", c.OutDir)
	c.DBPath = getenv("HEX_DB_PATH", c.DBPath)
	c.Search.TimeBudget = time.Duration(getenvInt("HEX_TIME_BUDGET_MS", int(c.Search.TimeBudget.Milliseconds()))) * time.Millisecond
	c.Search.EarlyDepth = getenvInt("HEX_EARLY_DEPTH", c.Search.EarlyDepth)
	c.Search.LateDepth = getenvInt("HEX_LATE_DEPTH", c.Search.LateDepth)
	if v := os.Getenv("HEX_SEED"); v != "" {
		if seed, err := strconv.ParseUint(v, 10, 64); err == nil {
			c.Seed = seed
		}
	}
}

func (c Config) Validate() error {
	switch {
	case game.CheckSize(c.BoardSize) != nil:
		return fmt.Errorf("board size %d outside [1, %d]: %w", c.BoardSize, game.MaxSize, ErrInvalidConfig)
	case c.MaxMoves < 1:
		return fmt.Errorf("max moves %d: %w", c.MaxMoves, ErrInvalidConfig)
	case c.Search.TimeBudget <= 0:
		return fmt.Errorf("time budget %s: %w", c.Search.TimeBudget, ErrInvalidConfig)
	case c.Search.EarlyDepth < 1 || c.Search.LateDepth < 1:
		return fmt.Errorf("depths %d/%d: %w", c.Search.EarlyDepth, c.Search.LateDepth, ErrInvalidConfig)
	case c.Search.EarlyFill <= 0 || c.Search.EarlyFill >= 1:
		return fmt.Errorf("early fill %v: %w", c.Search.EarlyFill, ErrInvalidConfig)
	case len(c.Agents) != 2:
		return fmt.Errorf("need 2 agents, got %d: %w", len(c.Agents), ErrInvalidConfig)
	}
	return nil
}

// SearcherOptions turns the search section into searcher options.
func (c Config) SearcherOptions() []searcher.Option {
	return []searcher.Option{
		searcher.WithDuration(c.Search.TimeBudget),
		searcher.WithDepths(c.Search.EarlyDepth, c.Search.LateDepth),
		searcher.WithEarlyFill(c.Search.EarlyFill),
		searcher.WithWeights(c.Search.Weights),
	}
}

// AgentDefaults carries the search section to tournament and match agents.
func (c Config) AgentDefaults() experiments.AgentDefaults {
	return experiments.AgentDefaults{
		Searcher: c.SearcherOptions(),
		Opening:  []opening.Option{opening.WithMirror(c.Search.Mirror)},
	}
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
