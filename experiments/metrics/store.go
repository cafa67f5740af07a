package metrics

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"hex/game"
)

// Store keeps tournament records in a SQLite database.
type Store struct {
	db *sql.DB
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS agent_configs (
		experiment TEXT,
		id INTEGER,
		kind TEXT,
		duration_ns INTEGER,
		early_depth INTEGER,
		late_depth INTEGER,
		opening INTEGER,
		url TEXT,
		PRIMARY KEY (experiment, id));`,
	`CREATE TABLE IF NOT EXISTS games (
		experiment TEXT,
		id INTEGER,
		agent_a INTEGER,
		agent_b INTEGER,
		starting_player INTEGER,
		winner INTEGER,
		forfeit INTEGER,
		total_moves INTEGER,
		start_time TEXT,
		end_time TEXT,
		duration_ns INTEGER,
		PRIMARY KEY (experiment, id));`,
	`CREATE TABLE IF NOT EXISTS moves (
		experiment TEXT,
		game INTEGER,
		step INTEGER,
		player INTEGER,
		row INTEGER,
		col INTEGER,
		source TEXT,
		duration_ns INTEGER,
		depth INTEGER,
		candidates INTEGER,
		nodes INTEGER,
		leaves INTEGER,
		cutoffs INTEGER,
		cache_hits INTEGER,
		timed_out INTEGER,
		PRIMARY KEY (experiment, game, step));`,
}

func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) SaveAgentConfigs(ctx context.Context, experiment string, configs []AgentConfig) error {
	for _, c := range configs {
		_, err := s.db.ExecContext(ctx,
			`INSERT OR REPLACE INTO agent_configs(experiment, id, kind, duration_ns, early_depth, late_depth, opening, url)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			experiment, c.ID, string(c.Kind), int64(c.Duration), c.EarlyDepth, c.LateDepth, c.Opening, c.URL)
		if err != nil {
			return fmt.Errorf("failed to save agent config %d: %w", c.ID, err)
		}
	}
	return nil
}

// SaveGame stores a game and its moves in one transaction.
func (s *Store) SaveGame(ctx context.Context, experiment string, record GameRecord, moves []MoveRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO games(experiment, id, agent_a, agent_b, starting_player, winner, forfeit, total_moves, start_time, end_time, duration_ns)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		experiment, record.ID, record.AgentA, record.AgentB, int(record.StartingPlayer), int(record.Winner), record.Forfeit, record.TotalMoves,
		record.StartTime.Format(time.RFC3339Nano), record.EndTime.Format(time.RFC3339Nano), int64(record.Duration))
	if err != nil {
		return fmt.Errorf("failed to save game %d: %w", record.ID, err)
	}

	for _, m := range moves {
		_, err = tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO moves(experiment, game, step, player, row, col, source, duration_ns, depth, candidates, nodes, leaves, cutoffs, cache_hits, timed_out)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			experiment, m.Game, m.Step, int(m.Player), m.Move.Row, m.Move.Col, string(m.Source), int64(m.Duration),
			m.Depth, m.Candidates, m.Nodes, m.Leaves, m.Cutoffs, m.CacheHits, m.TimedOut)
		if err != nil {
			return fmt.Errorf("failed to save move %d of game %d: %w", m.Step, m.Game, err)
		}
	}
	return tx.Commit()
}

// Games returns the games of an experiment ordered by id.
func (s *Store) Games(ctx context.Context, experiment string) ([]GameRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, agent_a, agent_b, starting_player, winner, forfeit, total_moves, start_time, end_time, duration_ns
		FROM games WHERE experiment = ? ORDER BY id`, experiment)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []GameRecord
	for rows.Next() {
		var (
			r                  GameRecord
			starting, winner   int
			startTime, endTime string
			duration           int64
		)
		err := rows.Scan(&r.ID, &r.AgentA, &r.AgentB, &starting, &winner, &r.Forfeit, &r.TotalMoves, &startTime, &endTime, &duration)
		if err != nil {
			return nil, err
		}
		r.StartingPlayer = game.Player(starting)
		r.Winner = game.Player(winner)
		r.StartTime, _ = time.Parse(time.RFC3339Nano, startTime)
		r.EndTime, _ = time.Parse(time.RFC3339Nano, endTime)
		r.Duration = time.Duration(duration)
		records = append(records, r)
	}
	return records, rows.Err()
}

// MoveCount returns how many moves of an experiment are stored.
func (s *Store) MoveCount(ctx context.Context, experiment string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM moves WHERE experiment = ?`, experiment).Scan(&n)
	return n, err
}
