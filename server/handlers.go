package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"hex/agent"
	"hex/engine"
	"hex/experiments"
	"hex/experiments/metrics"
	"hex/game"
	"hex/opening"
	"hex/searcher"
)

// FindMoveHandler answers POST /findmove with a move for the given side.
func (s *Server) FindMoveHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req agent.FindMoveRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if req.Board == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "board required"})
			return
		}
		if !req.Player.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": game.ErrInvalidPlayer.Error()})
			return
		}

		requestID := uuid.NewString()
		options := append(s.cfg.SearcherOptions(), searcher.WithCache(s.cache), searcher.WithSeed(s.seed()), searcher.WithMetrics())
		if req.BudgetMs > 0 {
			options = append(options, searcher.WithDuration(time.Duration(req.BudgetMs)*time.Millisecond))
		}
		var policy *opening.Policy
		if s.cfg.Search.Opening {
			policy = opening.NewPolicy(opening.WithMirror(s.cfg.Search.Mirror))
		}
		a := agent.NewMinimaxAgent(req.Player, searcher.NewSearcher(options...), policy)

		move, metric, err := a.ChooseMove(req.Board)
		if errors.Is(err, searcher.ErrNoLegalMoves) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "request_id": requestID})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "request_id": requestID})
			return
		}

		log.Info().
			Str("request_id", requestID).
			Str("player", req.Player.String()).
			Int("row", move.Row).
			Int("col", move.Col).
			Str("source", string(metric.Source)).
			Dur("took", metric.Duration).
			Msg("served move")
		c.JSON(http.StatusOK, agent.FindMoveResponse{RequestID: requestID, Move: move, Metric: metric})
	}
}

type StartMatchRequest struct {
	BoardSize int                   `json:"board_size"`
	MaxMoves  int                   `json:"max_moves"`
	Agents    []metrics.AgentConfig `json:"agents"`
}

// StartMatchHandler answers POST /matches by starting a match in the
// background. Its updates stream on /ws?match_id=<id>.
func (s *Server) StartMatchHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req StartMatchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if req.BoardSize <= 0 {
			req.BoardSize = s.cfg.BoardSize
		}
		if err := game.CheckSize(req.BoardSize); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if req.MaxMoves <= 0 {
			req.MaxMoves = s.cfg.MaxMoves
		}
		if len(req.Agents) == 0 {
			req.Agents = s.cfg.Agents
		}
		if len(req.Agents) != 2 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "need 2 agents"})
			return
		}

		rng := rand.New(rand.NewSource(s.seed()))
		defaults := s.cfg.AgentDefaults()
		agentA, err := experiments.NewAgent(req.Agents[0], game.PlayerA, rng, s.cache, defaults)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		agentB, err := experiments.NewAgent(req.Agents[1], game.PlayerB, rng, s.cache, defaults)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		id := uuid.NewString()
		e := engine.NewLocalEngine(req.BoardSize, req.MaxMoves, [2]agent.Agent{agentA, agentB})
		e.Observe(s.observe(id))

		s.mu.Lock()
		s.matches[id] = &match{ID: id, Status: StatusRunning, Board: e.Board.Clone()}
		s.mu.Unlock()

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			winner, gm, _ := e.Run(s.ctx)
			log.Info().Msgf("match %s finished after %d moves with winner: %s", id, gm.TotalMoves, winner)
		}()

		c.JSON(http.StatusAccepted, gin.H{"match_id": id})
	}
}

// MatchHandler answers GET /matches/:id with the match status.
func (s *Server) MatchHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		m, ok := s.snapshot(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "match not found"})
			return
		}
		c.JSON(http.StatusOK, m)
	}
}
