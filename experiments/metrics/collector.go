package metrics

import (
	"sync/atomic"
	"time"

	"hex/game"
)

// Source tells how a move was chosen.
type Source string

const (
	SourceOpening     Source = "opening"
	SourceImmediate   Source = "immediate_win"
	SourceSearch      Source = "search"
	SourceTimeout     Source = "timeout_fallback"
	SourceRandom      Source = "random"
	SourceRemote      Source = "remote"
	SourceUnspecified Source = ""
)

type SearchMetric struct {
	Duration   time.Duration `json:"duration"`
	Depth      int           `json:"depth"`
	Candidates int           `json:"candidates"`
	Nodes      int           `json:"nodes"`
	Leaves     int           `json:"leaves"`
	Cutoffs    int           `json:"cutoffs"`
	CacheHits  int64         `json:"cache_hits"`
	TimedOut   bool          `json:"timed_out"`
	Source     Source        `json:"source"`
}

type MoveMetric struct {
	Step   int
	Player game.Player
	Move   game.Move
	SearchMetric
}

type GameMetric struct {
	StartingPlayer game.Player
	Winner         game.Player // None for a draw
	Forfeit        bool
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
}

type Collector interface {
	Start(depth, candidates int)
	AddNode()
	AddLeaf()
	AddCutoff()
	AddCacheHits(n int64)
	SetTimedOut()
	SetSource(source Source)
	Complete() SearchMetric
}

type collector struct {
	startTime  time.Time
	depth      int
	candidates int
	nodes      atomic.Int32
	leaves     atomic.Int32
	cutoffs    atomic.Int32
	cacheHits  atomic.Int64
	timedOut   atomic.Bool
	source     atomic.Value
}

func NewCollector() Collector {
	return &collector{}
}

// Start resets the counters for a new move.
func (m *collector) Start(depth, candidates int) {
	m.startTime = time.Now()
	m.depth = depth
	m.candidates = candidates
	m.nodes.Store(0)
	m.leaves.Store(0)
	m.cutoffs.Store(0)
	m.cacheHits.Store(0)
	m.timedOut.Store(false)
	m.source.Store(SourceUnspecified)
}

func (m *collector) AddNode() {
	m.nodes.Add(1)
}

func (m *collector) AddLeaf() {
	m.leaves.Add(1)
}

func (m *collector) AddCutoff() {
	m.cutoffs.Add(1)
}

func (m *collector) AddCacheHits(n int64) {
	m.cacheHits.Add(n)
}

func (m *collector) SetTimedOut() {
	m.timedOut.Store(true)
}

func (m *collector) SetSource(source Source) {
	m.source.Store(source)
}

func (m *collector) Complete() SearchMetric {
	source, _ := m.source.Load().(Source)
	return SearchMetric{
		Duration:   time.Since(m.startTime),
		Depth:      m.depth,
		Candidates: m.candidates,
		Nodes:      int(m.nodes.Load()),
		Leaves:     int(m.leaves.Load()),
		Cutoffs:    int(m.cutoffs.Load()),
		CacheHits:  m.cacheHits.Load(),
		TimedOut:   m.timedOut.Load(),
		Source:     source,
	}
}

type dummyCollector struct {
	startTime time.Time
	source    Source
}

// NewDummyCollector only tracks the duration and the move source.
func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(depth, candidates int) {
	m.startTime = time.Now()
	m.source = SourceUnspecified
}
func (m *dummyCollector) AddNode()                {}
func (m *dummyCollector) AddLeaf()                {}
func (m *dummyCollector) AddCutoff()              {}
func (m *dummyCollector) AddCacheHits(n int64)    {}
func (m *dummyCollector) SetTimedOut()            {}
func (m *dummyCollector) SetSource(source Source) { m.source = source }
func (m *dummyCollector) Complete() SearchMetric {
	return SearchMetric{Duration: time.Since(m.startTime), Source: m.source}
}
