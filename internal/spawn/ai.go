package spawn

import (
	"arena-roguelite/internal/combat"
	"arena-roguelite/internal/component"
	"arena-roguelite/internal/ecs"
	"arena-roguelite/internal/vmath"
)

// kiteRange is the distance ranged enemies try to hold.
const kiteRange = 220.0

func (s *Spawner) position(id ecs.EntityID) vmath.Vec {
	return s.world.Get(id, component.CPosition).(component.Position).Vec
}

func (s *Spawner) steer(id ecs.EntityID, move vmath.Vec) {
	v := s.world.Get(id, component.CVelocity).(component.Velocity)
	v.Move = move
	s.world.Add(id, v)
}

// chase walks straight at the player.
func (s *Spawner) chase(id ecs.EntityID, e component.Enemy) {
	dir := s.player.Pos.Sub(s.position(id)).Normalize()
	s.steer(id, dir.Scale(e.Speed))
}

// kite holds kiteRange from the player and shoots when ready.
func (s *Spawner) kite(id ecs.EntityID, e component.Enemy) {
	at := s.position(id)
	off := s.player.Pos.Sub(at)
	dir := off.Normalize()
	switch d := off.Len(); {
	case d > kiteRange+20:
		s.steer(id, dir.Scale(e.Speed))
	case d < kiteRange-20:
		s.steer(id, dir.Scale(-e.Speed))
	default:
		s.steer(id, vmath.Vec{})
	}

	r := s.world.Get(id, component.CRanged).(component.Ranged)
	if !s.clock.Reached(r.ReadyAt) || !s.player.Alive() {
		return
	}
	r.ReadyAt = s.clock.Now() + r.Cooldown
	s.world.Add(id, r)
	s.shoot(id, at, dir, r.ProjectileSpeed, r.Damage, component.WallDeactivate)
}

func (s *Spawner) shoot(owner ecs.EntityID, at, dir vmath.Vec, speed, dmg float64, wall component.WallMode) {
	if dir.IsZero() || speed <= 0 {
		return
	}
	combat.SpawnProjectile(s.world, at, dir.Normalize().Scale(speed), component.Projectile{
		Owner:   owner,
		Hostile: true,
		Damage:  dmg,
		Radius:  4,
		Wall:    wall,
	})
}
