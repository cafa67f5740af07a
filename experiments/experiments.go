package experiments

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"hex/agent"
	"hex/analysis"
	"hex/engine"
	"hex/experiments/metrics"
	"hex/game"
	"hex/opening"
	"hex/searcher"
)

const (
	NumGames   = 10
	TimeBudget = 2 * time.Second
)

// Tournament pits two agent configs against each other. The configs swap
// sides every game so each gets to move first equally often.
type Tournament struct {
	Name      string
	BoardSize int
	MaxMoves  int
	Games     int
	Agents    [2]metrics.AgentConfig
	Seed      uint64
	// OutDir receives the CSV files; empty skips them.
	OutDir string
	// Store receives every game as it ends; nil skips it.
	Store *metrics.Store
	// Defaults apply to every search agent before its own config.
	Defaults AgentDefaults
}

// AgentDefaults carries the shared search settings (evaluator weights, early
// fill, mirroring) that an AgentConfig does not hold itself.
type AgentDefaults struct {
	Searcher []searcher.Option
	Opening  []opening.Option
}

type Result struct {
	Wins     [2]int // Per Agents index
	Draws    int
	Forfeits int
	Games    []metrics.GameRecord
	Moves    []metrics.MoveRecord
}

// NewAgent builds the agent described by config for side p. Settings the
// config leaves unset come from defaults.
func NewAgent(config metrics.AgentConfig, p game.Player, rng *rand.Rand, cache *analysis.ChainCache, defaults AgentDefaults) (agent.Agent, error) {
	duration := config.Duration
	if duration <= 0 {
		duration = TimeBudget
	}
	switch config.Kind {
	case metrics.KindMinimax, "":
		options := append([]searcher.Option{searcher.WithDuration(TimeBudget)}, defaults.Searcher...)
		options = append(options,
			searcher.WithDuration(config.Duration),
			searcher.WithDepths(config.EarlyDepth, config.LateDepth),
			searcher.WithRand(rng),
			searcher.WithCache(cache),
			searcher.WithMetrics(),
		)
		var policy *opening.Policy
		if config.Opening {
			policy = opening.NewPolicy(defaults.Opening...)
		}
		return agent.NewMinimaxAgent(p, searcher.NewSearcher(options...), policy), nil
	case metrics.KindRandom:
		return agent.NewRandomAgent(p, rng), nil
	case metrics.KindRemote:
		if config.URL == "" {
			return nil, fmt.Errorf("remote agent %d has no url", config.ID)
		}
		return agent.NewRemoteAgent(p, config.URL, duration), nil
	}
	return nil, fmt.Errorf("unknown agent kind %q", config.Kind)
}

// RunTournament plays t.Games games and tallies the results.
func RunTournament(ctx context.Context, t Tournament) (Result, error) {
	if t.Games <= 0 {
		t.Games = NumGames
	}
	if t.BoardSize <= 0 {
		t.BoardSize = engine.DefaultBoardSize
	}
	if t.Name == "" {
		t.Name = "tournament"
	}
	rng := rand.New(rand.NewSource(t.Seed))
	cache := analysis.NewChainCache(analysis.DefaultCacheCapacity)
	configs := t.Agents[:]

	if t.Store != nil {
		if err := t.Store.SaveAgentConfigs(ctx, t.Name, configs); err != nil {
			return Result{}, err
		}
	}

	var result Result
	log.Info().Msgf("starting %s: agent %d vs agent %d, %d games on %dx%d", t.Name, t.Agents[0].ID, t.Agents[1].ID, t.Games, t.BoardSize, t.BoardSize)

	for i := 0; i < t.Games; i++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		// Agents[first] plays PlayerA and moves first
		first := i % 2
		second := 1 - first
		agentA, err := NewAgent(t.Agents[first], game.PlayerA, rng, cache, t.Defaults)
		if err != nil {
			return result, err
		}
		agentB, err := NewAgent(t.Agents[second], game.PlayerB, rng, cache, t.Defaults)
		if err != nil {
			return result, err
		}

		log.Info().Msgf("starting game %d of %d...", i+1, t.Games)
		e := engine.NewLocalEngine(t.BoardSize, t.MaxMoves, [2]agent.Agent{agentA, agentB})
		winner, gameMetric, moveMetrics := e.Run(ctx)

		record := metrics.GameRecord{
			ID:         i + 1,
			AgentA:     t.Agents[first].ID,
			AgentB:     t.Agents[second].ID,
			GameMetric: gameMetric,
		}
		var moves []metrics.MoveRecord
		for _, mm := range moveMetrics {
			moves = append(moves, metrics.MoveRecord{Game: record.ID, MoveMetric: mm})
		}
		result.Games = append(result.Games, record)
		result.Moves = append(result.Moves, moves...)

		switch winner {
		case game.PlayerA:
			result.Wins[first]++
		case game.PlayerB:
			result.Wins[second]++
		default:
			result.Draws++
		}
		if gameMetric.Forfeit {
			result.Forfeits++
		}
		log.Info().Msgf("completed game %d with winner: %s", i+1, winner)

		if t.Store != nil {
			if err := t.Store.SaveGame(ctx, t.Name, record, moves); err != nil {
				return result, err
			}
		}
	}

	log.Info().
		Int("agent1_wins", result.Wins[0]).
		Int("agent2_wins", result.Wins[1]).
		Int("draws", result.Draws).
		Msgf("completed %s", t.Name)

	if t.OutDir != "" {
		if err := writeRecords(t, result); err != nil {
			return result, err
		}
	}
	return result, nil
}

func writeRecords(t Tournament, result Result) error {
	writer, err := metrics.NewWriter(t.OutDir, t.Name)
	if err != nil {
		return fmt.Errorf("failed to create experiment writer: %w", err)
	}
	if err := writer.WriteAgentConfigs(t.Agents[:]); err != nil {
		return fmt.Errorf("failed to store agent configs: %w", err)
	}
	if err := writer.WriteGameRecords(result.Games); err != nil {
		return fmt.Errorf("failed to write game records: %w", err)
	}
	if err := writer.WriteMoveRecords(result.Moves); err != nil {
		return fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Msgf("stored records in %s", writer.Dir())
	return nil
}
