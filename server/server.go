package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"hex/analysis"
	"hex/config"
	"hex/engine"
	"hex/game"
)

// Server answers move requests and runs watchable matches.
type Server struct {
	cfg   config.Config
	cache *analysis.ChainCache
	hub   *Hub

	mu      sync.Mutex
	rng     *rand.Rand
	matches map[string]*match

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type MatchStatus string

const (
	StatusRunning MatchStatus = "running"
	StatusDone    MatchStatus = "done"
)

type match struct {
	ID      string      `json:"match_id"`
	Status  MatchStatus `json:"status"`
	Board   *game.Board `json:"board"`
	Moves   int         `json:"moves"`
	Winner  game.Player `json:"winner"`
	Forfeit bool        `json:"forfeit"`
}

func New(cfg config.Config) *Server {
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		cfg:     cfg,
		cache:   analysis.NewChainCache(cfg.Search.CacheCapacity),
		hub:     NewHub(),
		rng:     rand.New(rand.NewSource(seed)),
		matches: make(map[string]*match),
		ctx:     ctx,
		cancel:  cancel,
	}
}

func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.POST("/findmove", s.FindMoveHandler())
	r.POST("/matches", s.StartMatchHandler())
	r.GET("/matches/:id", s.MatchHandler())
	r.GET("/ws", s.hub.HandleWS(s.snapshot))
	return r
}

// Run serves on addr until ctx is done, then stops running matches.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Router()}
	errs := make(chan error, 1)
	go func() {
		log.Info().Msgf("listening on %s", addr)
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		s.Close()
		return err
	case <-ctx.Done():
	}
	shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdown)
	s.Close()
	return err
}

// Close cancels running matches and waits for them to stop.
func (s *Server) Close() {
	s.cancel()
	s.wg.Wait()
}

// seed draws a seed for a new searcher or agent.
func (s *Server) seed() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Uint64()
}

func (s *Server) snapshot(matchID string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.matches[matchID]
	if !ok {
		return nil, false
	}
	copied := *m
	copied.Board = m.Board.Clone()
	return copied, true
}

func (s *Server) observe(matchID string) engine.Observer {
	return func(u engine.Update) {
		s.mu.Lock()
		if m, ok := s.matches[matchID]; ok {
			m.Board = u.Board
			m.Moves = u.Step
			if u.Done {
				m.Status = StatusDone
				m.Winner = u.Winner
				m.Forfeit = u.Forfeit
			}
		}
		s.mu.Unlock()

		action := "update"
		if u.Done {
			action = "done"
		}
		s.hub.Broadcast(matchID, action, u)
	}
}
