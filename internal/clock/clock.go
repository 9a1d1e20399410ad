// internal/clock/clock.go
package clock

import (
	"sync"
	"time"
)

// Clock supplies the registry's time base: a non-decreasing integer tick.
// The production clock ticks in Unix seconds; license windows and mint
// timestamps are expressed in these ticks.
type Clock interface {
	Now() int64
}

// System is the production clock.
type System struct{}

func NewSystem() *System { return &System{} }

func (*System) Now() int64 { return time.Now().Unix() }

// Manual is a settable clock for tests.
type Manual struct {
	mu  sync.Mutex
	now int64
}

func NewManual(start int64) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance moves the clock forward by d ticks.
func (m *Manual) Advance(d int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now += d
}

// Set jumps the clock to t.
func (m *Manual) Set(t int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t
}
