package agent

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"hex/experiments/metrics"
	"hex/game"
)

// FindMoveRequest is the body of POST /findmove.
type FindMoveRequest struct {
	Board  *game.Board `json:"board"`
	Player game.Player `json:"player"`
	// Budget overrides the server's time budget when positive.
	BudgetMs int `json:"budget_ms,omitempty"`
}

// FindMoveResponse is the answer to POST /findmove.
type FindMoveResponse struct {
	RequestID string               `json:"request_id"`
	Move      game.Move            `json:"move"`
	Metric    metrics.SearchMetric `json:"metric"`
}

type remoteAgent struct {
	player game.Player
	url    string
	budget time.Duration
	client *http.Client
}

// NewRemoteAgent returns an agent that asks a move server at baseURL. The
// HTTP timeout leaves a second of slack over the search budget.
func NewRemoteAgent(p game.Player, baseURL string, budget time.Duration) Agent {
	if !p.Valid() {
		panic("invalid player for remote agent")
	}
	return &remoteAgent{
		player: p,
		url:    strings.TrimRight(baseURL, "/") + "/findmove",
		budget: budget,
		client: &http.Client{Timeout: budget + time.Second},
	}
}

func (a *remoteAgent) Player() game.Player {
	return a.player
}

func (a *remoteAgent) ChooseMove(b *game.Board) (game.Move, metrics.SearchMetric, error) {
	start := time.Now()
	body, err := json.Marshal(FindMoveRequest{
		Board:    b,
		Player:   a.player,
		BudgetMs: int(a.budget.Milliseconds()),
	})
	if err != nil {
		return game.Move{}, metrics.SearchMetric{}, err
	}

	resp, err := a.client.Post(a.url, "application/json", bytes.NewReader(body))
	if err != nil {
		return game.Move{}, metrics.SearchMetric{}, fmt.Errorf("request move from %s: %w", a.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		out, _ := io.ReadAll(resp.Body)
		return game.Move{}, metrics.SearchMetric{}, fmt.Errorf("move server returned status %d: %s", resp.StatusCode, out)
	}

	var fm FindMoveResponse
	if err := json.NewDecoder(resp.Body).Decode(&fm); err != nil {
		return game.Move{}, metrics.SearchMetric{}, fmt.Errorf("decode move: %w", err)
	}
	metric := fm.Metric
	metric.Duration = time.Since(start)
	metric.Source = metrics.SourceRemote
	return fm.Move, metric, nil
}
