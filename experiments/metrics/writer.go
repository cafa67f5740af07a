package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type AgentKind string

const (
	KindMinimax AgentKind = "minimax"
	KindRandom  AgentKind = "random"
	KindRemote  AgentKind = "remote"
)

// AgentConfig describes one contestant of a tournament.
type AgentConfig struct {
	ID         int           `yaml:"id" json:"id"`
	Kind       AgentKind     `yaml:"kind" json:"kind"`
	Duration   time.Duration `yaml:"duration" json:"duration"`
	EarlyDepth int           `yaml:"early_depth" json:"early_depth"`
	LateDepth  int           `yaml:"late_depth" json:"late_depth"`
	Opening    bool          `yaml:"opening" json:"opening"`
	URL        string        `yaml:"url" json:"url"` // Move server, remote agents only
}

type GameRecord struct {
	ID     int
	AgentA int // AgentConfig.ID playing PlayerA
	AgentB int // AgentConfig.ID playing PlayerB
	GameMetric
}

type MoveRecord struct {
	Game int // GameRecord.ID
	MoveMetric
}

type Writer struct {
	baseDir string
}

// NewWriter creates dir/name/<timestamp> to hold the CSV files of one run.
func NewWriter(dir, name string) (*Writer, error) {
	timestamp := time.Now().UTC().Format(time.RFC3339)
	baseDir := filepath.Join(dir, name, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteAgentConfigs(configs []AgentConfig) error {
	rows := make([][]string, 0, len(configs))
	for _, config := range configs {
		rows = append(rows, []string{
			strconv.Itoa(config.ID),
			string(config.Kind),
			config.Duration.String(),
			strconv.Itoa(config.EarlyDepth),
			strconv.Itoa(config.LateDepth),
			strconv.FormatBool(config.Opening),
			config.URL,
		})
	}
	header := []string{"id", "kind", "duration", "early_depth", "late_depth", "opening", "url"}
	return w.write("agent_configs.csv", header, rows)
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.ID),
			strconv.Itoa(record.AgentA),
			strconv.Itoa(record.AgentB),
			record.StartingPlayer.String(),
			record.Winner.String(),
			strconv.FormatBool(record.Forfeit),
			strconv.Itoa(record.TotalMoves),
			record.StartTime.Format(time.RFC3339),
			record.EndTime.Format(time.RFC3339),
			record.Duration.String(),
		})
	}
	header := []string{"id", "agent_a", "agent_b", "starting_player", "winner", "forfeit", "total_moves", "start_time", "end_time", "duration"}
	return w.write("game_records.csv", header, rows)
}

func (w *Writer) WriteMoveRecords(records []MoveRecord) error {
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.Game),
			strconv.Itoa(record.Step),
			record.Player.String(),
			strconv.Itoa(record.Move.Row),
			strconv.Itoa(record.Move.Col),
			string(record.Source),
			record.Duration.String(),
			strconv.Itoa(record.Depth),
			strconv.Itoa(record.Candidates),
			strconv.Itoa(record.Nodes),
			strconv.Itoa(record.Leaves),
			strconv.Itoa(record.Cutoffs),
			strconv.FormatInt(record.CacheHits, 10),
			strconv.FormatBool(record.TimedOut),
		})
	}
	header := []string{"game", "step", "player", "row", "col", "source", "duration", "depth", "candidates", "nodes", "leaves", "cutoffs", "cache_hits", "timed_out"}
	return w.write("move_records.csv", header, rows)
}

func (w *Writer) write(file string, header []string, rows [][]string) error {
	path := filepath.Join(w.baseDir, file)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", file, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", file, err)
	}
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write %s rows: %w", file, err)
	}
	return nil
}
