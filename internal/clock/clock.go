// Package clock provides the simulation's monotonic tick counter. Every
// timer in the core is a "not before tick T" comparison against it.
package clock

import "time"

// Tick is one simulation step.
type Tick uint64

// Never is a deadline that is never reached.
const Never Tick = ^Tick(0)

// Clock counts ticks at a fixed nominal rate.
type Clock struct {
	now  Tick
	rate int // ticks per second
}

// New returns a clock at tick 0 running at rate ticks per second.
func New(rate int) *Clock {
	if rate <= 0 {
		rate = 60
	}
	return &Clock{rate: rate}
}

// Now returns the current tick.
func (c *Clock) Now() Tick { return c.now }

// Advance moves the clock forward one tick and returns the new tick.
func (c *Clock) Advance() Tick {
	c.now++
	return c.now
}

// Rate returns the nominal ticks per second.
func (c *Clock) Rate() int { return c.rate }

// After returns the tick d from now.
func (c *Clock) After(d time.Duration) Tick {
	return c.now + c.Ticks(d)
}

// Ticks converts a duration to a whole number of ticks, rounding up so a
// non-zero duration always lasts at least one tick.
func (c *Clock) Ticks(d time.Duration) Tick {
	if d <= 0 {
		return 0
	}
	n := (d*time.Duration(c.rate) + time.Second - 1) / time.Second
	return Tick(n)
}

// Reached reports whether deadline has arrived.
func (c *Clock) Reached(deadline Tick) bool {
	return c.now >= deadline
}

// Elapsed converts a tick span to wall time at the nominal rate.
func (c *Clock) Elapsed(since Tick) time.Duration {
	if c.now <= since {
		return 0
	}
	return time.Duration(c.now-since) * time.Second / time.Duration(c.rate)
}
