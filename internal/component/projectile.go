package component

import "arena-roguelite/internal/ecs"

const CProjectile ecs.ComponentType = 9

// WallMode decides what a projectile does at the arena edge.
type WallMode uint8

const (
	WallDeactivate WallMode = iota
	WallReflect
	WallPassThrough
)

// Projectile is a moving hit source. Hostile projectiles hit the player;
// the rest hit enemies.
type Projectile struct {
	Owner    ecs.EntityID
	Hostile  bool
	Damage   float64 // only used for non-player sources
	Radius   float64
	Pierce   int // extra enemies it may pass through
	Bounces  int // remaining ricochets
	HitCount int
	Wall     WallMode
	Active   bool
	Hit      []ecs.EntityID // enemies already struck
}

func (Projectile) Type() ecs.ComponentType { return CProjectile }

// AlreadyHit reports whether id was struck by this projectile.
func (p Projectile) AlreadyHit(id ecs.EntityID) bool {
	for _, h := range p.Hit {
		if h == id {
			return true
		}
	}
	return false
}
