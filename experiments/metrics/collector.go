package metrics

import (
	"sync/atomic"
	"time"
)

type SearchMetric struct {
	Horizon    int
	Discount   float64
	Duration   time.Duration
	Episodes   int
	Terminals  int // Walks ending at a terminal state
	Rollouts   int // Walks ending at a frontier and handed to the simulator
	Degenerate int // Walks exhausting the horizon
	Expansions int // Nodes created across all trees
}

type MoveMetric struct {
	Step   int
	Player int // Index in the problem's player order
	SearchMetric
}

type GameMetric struct {
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
	TotalMoves int
	Terminal   bool      // Game ended at a terminal state rather than the step limit
	Returns    []float64 // Undiscounted reward per player
}

type Collector interface {
	Start(horizon int, discount float64)
	AddEpisode()
	AddTerminal()
	AddRollout()
	AddDegenerate()
	AddExpansions(n int)
	Complete() SearchMetric
}

type collector struct {
	horizon    int
	discount   float64
	startTime  time.Time
	episodes   atomic.Int32
	terminals  atomic.Int32
	rollouts   atomic.Int32
	degenerate atomic.Int32
	expansions atomic.Int32
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(horizon int, discount float64) {
	m.startTime = time.Now()
	m.horizon = horizon
	m.discount = discount
	m.episodes.Store(0)
	m.terminals.Store(0)
	m.rollouts.Store(0)
	m.degenerate.Store(0)
	m.expansions.Store(0)
}

func (m *collector) AddEpisode() {
	m.episodes.Add(1)
}

func (m *collector) AddTerminal() {
	m.terminals.Add(1)
}

func (m *collector) AddRollout() {
	m.rollouts.Add(1)
}

func (m *collector) AddDegenerate() {
	m.degenerate.Add(1)
}

func (m *collector) AddExpansions(n int) {
	m.expansions.Add(int32(n))
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		Horizon:    m.horizon,
		Discount:   m.discount,
		Duration:   time.Since(m.startTime),
		Episodes:   int(m.episodes.Load()),
		Terminals:  int(m.terminals.Load()),
		Rollouts:   int(m.rollouts.Load()),
		Degenerate: int(m.degenerate.Load()),
		Expansions: int(m.expansions.Load()),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(horizon int, discount float64) {}
func (m *dummyCollector) AddEpisode()                         {}
func (m *dummyCollector) AddTerminal()                        {}
func (m *dummyCollector) AddRollout()                         {}
func (m *dummyCollector) AddDegenerate()                      {}
func (m *dummyCollector) AddExpansions(n int)                 {}
func (m *dummyCollector) Complete() SearchMetric              { return SearchMetric{} }
