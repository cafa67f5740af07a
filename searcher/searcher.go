package searcher

import (
	"errors"
	"slices"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"hex/analysis"
	"hex/experiments/metrics"
	"hex/game"
)

const (
	DefaultDuration   = 2 * time.Second
	DefaultEarlyDepth = 2
	DefaultLateDepth  = 3
	// Boards with more legal moves than this share of cells use the early depth.
	DefaultEarlyFill = 0.7
)

var ErrNoLegalMoves = errors.New("no legal moves")

type Option func(s *Searcher)

// Searcher picks moves with a depth-limited alpha-beta search under a
// wall-clock budget. A Searcher is not safe for concurrent FindMove calls;
// its chain cache may be shared.
type Searcher struct {
	duration   time.Duration
	earlyDepth int
	lateDepth  int
	earlyFill  float64
	weights    Weights
	cache      *analysis.ChainCache
	rng        *rand.Rand
	metrics    metrics.Collector
}

func WithDuration(duration time.Duration) Option {
	return func(s *Searcher) {
		if duration > 0 {
			s.duration = duration
		}
	}
}

// WithDepths sets the search depth used while the board is mostly empty and
// the one used once it fills up.
func WithDepths(early, late int) Option {
	return func(s *Searcher) {
		if early > 0 {
			s.earlyDepth = early
		}
		if late > 0 {
			s.lateDepth = late
		}
	}
}

func WithEarlyFill(fill float64) Option {
	return func(s *Searcher) {
		if fill > 0 && fill < 1 {
			s.earlyFill = fill
		}
	}
}

func WithWeights(w Weights) Option {
	return func(s *Searcher) {
		s.weights = w
	}
}

func WithCache(cache *analysis.ChainCache) Option {
	return func(s *Searcher) {
		if cache != nil {
			s.cache = cache
		}
	}
}

// WithRand injects the random source used for the timeout fallback.
func WithRand(rng *rand.Rand) Option {
	return func(s *Searcher) {
		if rng != nil {
			s.rng = rng
		}
	}
}

func WithSeed(seed uint64) Option {
	return WithRand(rand.New(rand.NewSource(seed)))
}

func WithMetrics() Option {
	return func(s *Searcher) {
		s.metrics = metrics.NewCollector()
	}
}

func NewSearcher(options ...Option) *Searcher {
	s := &Searcher{ // Default values
		duration:   DefaultDuration,
		earlyDepth: DefaultEarlyDepth,
		lateDepth:  DefaultLateDepth,
		earlyFill:  DefaultEarlyFill,
		weights:    DefaultWeights(),
		metrics:    metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(s)
	}
	if s.cache == nil {
		s.cache = analysis.NewChainCache(analysis.DefaultCacheCapacity)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}
	return s
}

func (s *Searcher) Rand() *rand.Rand {
	return s.rng
}

func (s *Searcher) Weights() Weights {
	return s.weights
}

func (s *Searcher) Duration() time.Duration {
	return s.duration
}

func (s *Searcher) Cache() *analysis.ChainCache {
	return s.cache
}

// Depth returns the search depth for b: shallow while the board is mostly
// empty and the branching factor is large, deeper once it fills.
func (s *Searcher) Depth(b *game.Board) int {
	cells := b.Size() * b.Size()
	if float64(len(b.LegalMoves())) > s.earlyFill*float64(cells) {
		return s.earlyDepth
	}
	return s.lateDepth
}

// FindMove returns a legal move for me on b within the configured budget.
func (s *Searcher) FindMove(b *game.Board, me game.Player) (game.Move, metrics.SearchMetric, error) {
	if !me.Valid() {
		return game.Move{}, metrics.SearchMetric{}, game.ErrInvalidPlayer
	}
	deadline := time.Now().Add(s.duration)
	legal := b.LegalMoves()
	if len(legal) == 0 {
		return game.Move{}, metrics.SearchMetric{}, ErrNoLegalMoves
	}

	depth := s.Depth(b)
	candidates := Candidates(b, me, s.cache)
	hitsBefore, _ := s.cache.Stats()
	s.metrics.Start(depth, len(candidates))

	move, source := s.findMove(b, me, legal, candidates, depth, deadline)

	s.metrics.SetSource(source)
	hitsAfter, _ := s.cache.Stats()
	s.metrics.AddCacheHits(hitsAfter - hitsBefore)
	metric := s.metrics.Complete()

	log.Debug().
		Str("player", me.String()).
		Int("row", move.Row).
		Int("col", move.Col).
		Int("depth", depth).
		Int("candidates", len(candidates)).
		Str("source", string(source)).
		Dur("took", metric.Duration).
		Msg("found move")
	return move, metric, nil
}

func (s *Searcher) findMove(b *game.Board, me game.Player, legal, candidates []game.Move, depth int, deadline time.Time) (game.Move, metrics.Source) {
	// Winning on the spot beats any search result.
	if move, ok := immediateWin(b, me, s.cache); ok {
		return move, metrics.SourceImmediate
	}

	ordered := orderRoot(b, me, slices.Clone(candidates), s.cache)
	if move, ok := s.searchRoot(b, me, ordered, depth, deadline); ok {
		return move, metrics.SourceSearch
	}

	log.Warn().Msgf("deadline hit before any move was evaluated, playing a random move for %s", me)
	s.metrics.SetTimedOut()
	return legal[s.rng.Intn(len(legal))], metrics.SourceTimeout
}

// immediateWin returns the first row-major cell that connects me's edges on
// the spot. Off a one-cell board those are exactly the completion cells, so
// no board is cloned.
func immediateWin(b *game.Board, me game.Player, cache *analysis.ChainCache) (game.Move, bool) {
	if b.Size() == 1 {
		if b.At(0, 0) == game.None {
			return game.Move{}, true
		}
		return game.Move{}, false
	}
	chains := cache.Chains(b, me)
	cells := completions(b, me, chains, analysis.Index(b, chains)).cells
	if len(cells) == 0 {
		return game.Move{}, false
	}
	return b.Topology().Move(slices.Min(cells)), true
}
