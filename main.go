package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"hex/agent"
	"hex/analysis"
	"hex/config"
	"hex/engine"
	"hex/experiments"
	"hex/experiments/metrics"
	"hex/game"
	"hex/opening"
	"hex/searcher"
	"hex/server"
)

func main() {
	mode := flag.String("mode", "play", "play, tournament or serve")
	configPath := flag.String("config", "", "YAML config file")
	size := flag.Int("size", 0, "Board size, overrides the config")
	duration := flag.Duration("duration", 0, "Time budget per move, overrides the config")
	games := flag.Int("games", 0, "Tournament games, overrides the config")
	addr := flag.String("addr", "", "Listen address for serve, overrides the config")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if *size > 0 {
		cfg.BoardSize = *size
	}
	if *duration > 0 {
		cfg.Search.TimeBudget = *duration
	}
	if *games > 0 {
		cfg.Games = *games
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid flags")
	}
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch *mode {
	case "play":
		play(ctx, cfg)
	case "tournament":
		tournament(ctx, cfg)
	case "serve":
		if err := server.New(cfg).Run(ctx, cfg.Addr); err != nil {
			log.Fatal().Err(err).Msg("server stopped")
		}
	default:
		log.Fatal().Msgf("unknown mode %q", *mode)
	}
}

// play runs one game of the configured search agent against itself.
func play(ctx context.Context, cfg config.Config) {
	cache := analysis.NewChainCache(cfg.Search.CacheCapacity)
	newAgent := func(p game.Player, seed uint64) agent.Agent {
		options := append(cfg.SearcherOptions(), searcher.WithCache(cache), searcher.WithMetrics())
		if cfg.Seed != 0 {
			options = append(options, searcher.WithSeed(seed))
		}
		var policy *opening.Policy
		if cfg.Search.Opening {
			policy = opening.NewPolicy(opening.WithMirror(cfg.Search.Mirror))
		}
		return agent.NewMinimaxAgent(p, searcher.NewSearcher(options...), policy)
	}

	e := engine.NewLocalEngine(cfg.BoardSize, cfg.MaxMoves, [2]agent.Agent{
		newAgent(game.PlayerA, cfg.Seed),
		newAgent(game.PlayerB, cfg.Seed+1),
	})
	e.Observe(func(u engine.Update) {
		if !u.Done {
			log.Info().Msgf("player %s places at (%d, %d)\n%s", u.Player, u.Move.Row, u.Move.Col, u.Board)
		}
	})
	winner, gm, _ := e.Run(ctx)
	log.Info().Msgf("winner: %s after %d moves in %s", winner, gm.TotalMoves, gm.Duration)
}

func tournament(ctx context.Context, cfg config.Config) {
	t := experiments.Tournament{
		Name:      "tournament",
		BoardSize: cfg.BoardSize,
		MaxMoves:  cfg.MaxMoves,
		Games:     cfg.Games,
		Agents:    [2]metrics.AgentConfig{cfg.Agents[0], cfg.Agents[1]},
		Seed:      cfg.Seed,
		OutDir:    cfg.OutDir,
		Defaults:  cfg.AgentDefaults(),
	}
	if cfg.DBPath != "" {
		store, err := metrics.OpenStore(cfg.DBPath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open store")
		}
		defer store.Close()
		t.Store = store
	}

	result, err := experiments.RunTournament(ctx, t)
	if err != nil {
		log.Error().Err(err).Msg("tournament failed")
		return
	}
	log.Info().Msgf("agent %d: %d wins, agent %d: %d wins, draws: %d, forfeits: %d",
		cfg.Agents[0].ID, result.Wins[0], cfg.Agents[1].ID, result.Wins[1], result.Draws, result.Forfeits)
}
