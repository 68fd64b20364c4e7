package testutil

import (
	"fmt"
	"sync"
	"time"
)

// TestClock is a Clock whose time only moves when a test advances it.
// Safe for concurrent use.
type TestClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewTestClock returns a TestClock pinned to a fixed capture time, so
// snapshot timestamps in tests are deterministic.
func NewTestClock() *TestClock {
	return &TestClock{now: time.Date(2025, 3, 9, 8, 15, 0, 0, time.UTC)}
}

func (c *TestClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d. Tests use it to give successive
// snapshots distinct creation times.
func (c *TestClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// SeqIDGenerator hands out deterministic snapshot-shaped IDs:
// "snap-0001", "snap-0002", and so on.
type SeqIDGenerator struct {
	mu sync.Mutex
	n  int
}

func NewSeqIDGenerator() *SeqIDGenerator {
	return &SeqIDGenerator{}
}

func (g *SeqIDGenerator) New() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("snap-%04d", g.n)
}
