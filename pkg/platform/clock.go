package platform

import (
	"sync/atomic"
	"time"
)

// SystemClock reads the wall clock as Unix microseconds.
type SystemClock struct{}

// Micros implements Clock.
func (SystemClock) Micros() uint64 {
	return uint64(time.Now().UnixMicro())
}

// ManualClock is a Clock that only moves when told to.
type ManualClock struct {
	now atomic.Uint64
}

// NewManualClock returns a ManualClock reading start.
func NewManualClock(start uint64) *ManualClock {
	c := &ManualClock{}
	c.now.Store(start)
	return c
}

// Micros implements Clock.
func (c *ManualClock) Micros() uint64 {
	return c.now.Load()
}

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) {
	c.now.Add(uint64(d.Microseconds()))
}

// Set moves the clock to t microseconds.
func (c *ManualClock) Set(t uint64) {
	c.now.Store(t)
}
