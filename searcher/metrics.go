package searcher

import "time"

// SearchMetric describes one completed search.
type SearchMetric struct {
	Simulations    int
	Duration       time.Duration
	Rollouts       int
	TerminalVisits int
	TreeSize       int
}

type Collector interface {
	Start(simulations int)
	AddRollout()
	AddTerminalVisit()
	SetTreeSize(size int)
	Complete() SearchMetric
}

// collector tracks a single search. The engine is single-threaded, so plain
// counters are enough.
type collector struct {
	simulations    int
	startTime      time.Time
	rollouts       int
	terminalVisits int
	treeSize       int
}

func newCollector() Collector {
	return &collector{}
}

func (c *collector) Start(simulations int) {
	c.startTime = time.Now()
	c.simulations = simulations
	c.rollouts = 0
	c.terminalVisits = 0
	c.treeSize = 0
}

func (c *collector) AddRollout() {
	c.rollouts++
}

func (c *collector) AddTerminalVisit() {
	c.terminalVisits++
}

func (c *collector) SetTreeSize(size int) {
	c.treeSize = size
}

func (c *collector) Complete() SearchMetric {
	return SearchMetric{
		Simulations:    c.simulations,
		Duration:       time.Since(c.startTime),
		Rollouts:       c.rollouts,
		TerminalVisits: c.terminalVisits,
		TreeSize:       c.treeSize,
	}
}

type dummyCollector struct{}

func newDummyCollector() Collector {
	return dummyCollector{}
}

func (dummyCollector) Start(int)              {}
func (dummyCollector) AddRollout()            {}
func (dummyCollector) AddTerminalVisit()      {}
func (dummyCollector) SetTreeSize(int)        {}
func (dummyCollector) Complete() SearchMetric { return SearchMetric{} }
