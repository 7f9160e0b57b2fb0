package component

import (
	"arena-roguelite/internal/ecs"
	"arena-roguelite/internal/vmath"
)

const (
	CPosition ecs.ComponentType = 1
	CVelocity ecs.ComponentType = 2
)

// Position is an entity's location in arena units.
type Position struct {
	vmath.Vec
}

func (Position) Type() ecs.ComponentType { return CPosition }

// Velocity carries an entity's own movement and any external impulse
// (knockback, respawn push). Impulse decays every tick; Move does not.
type Velocity struct {
	Move    vmath.Vec
	Impulse vmath.Vec
}

func (Velocity) Type() ecs.ComponentType { return CVelocity }
