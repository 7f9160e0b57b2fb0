package component

import (
	"arena-roguelite/internal/clock"
	"arena-roguelite/internal/ecs"
)

const CStatus ecs.ComponentType = 8

// DOT is one periodic damage entry. A zero Until means inactive.
type DOT struct {
	TickDamage float64
	Until      clock.Tick
	Next       clock.Tick
}

// Active reports whether the DOT still runs at tick now.
func (d DOT) Active(now clock.Tick) bool { return d.Until > now }

// Status holds the elemental and periodic effects on an enemy. Each slot
// holds at most one entry; reapplying refreshes it.
type Status struct {
	Fire        DOT
	Poison      DOT
	Bleed       DOT
	FrozenUntil clock.Tick
}

func (Status) Type() ecs.ComponentType { return CStatus }

// Frozen reports whether freeze is active at tick now.
func (s Status) Frozen(now clock.Tick) bool { return s.FrozenUntil > now }
