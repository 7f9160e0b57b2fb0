package combat

import (
	"arena-roguelite/internal/component"
	"arena-roguelite/internal/ecs"
	"arena-roguelite/internal/player"
	"arena-roguelite/internal/vmath"
	"math"
)

// passMargin is how far past the arena edge a pass-through projectile may
// travel before it is dropped.
const passMargin = 64.0

// SpawnProjectile creates a projectile entity moving with vel.
func SpawnProjectile(w *ecs.World, pos, vel vmath.Vec, p component.Projectile) ecs.EntityID {
	p.Active = true
	id := w.CreateEntity()
	w.Add(id, component.Position{Vec: pos})
	w.Add(id, component.Velocity{Move: vel})
	w.Add(id, p)
	return id
}

// FirePlayer launches a player projectile toward dir using the player's
// pierce and ricochet stats.
func (r *Resolver) FirePlayer(p *player.Player, dir vmath.Vec, speed float64, wall component.WallMode) ecs.EntityID {
	dir = dir.Normalize()
	if dir.IsZero() {
		return ecs.NilEntity
	}
	return SpawnProjectile(r.world, p.Pos, dir.Scale(speed), component.Projectile{
		Radius:  4,
		Pierce:  p.Stats.Pierce,
		Bounces: p.Stats.Ricochet,
		Wall:    wall,
	})
}

// ClearHostileProjectiles removes every enemy projectile.
func (r *Resolver) ClearHostileProjectiles() {
	for _, id := range r.world.Query(component.CProjectile) {
		if pr := r.world.Get(id, component.CProjectile).(component.Projectile); pr.Hostile {
			r.world.DestroyEntity(id)
		}
	}
}

// StepProjectiles moves every projectile one tick, applies the wall mode
// at the arena edge and resolves collisions: hostile projectiles against
// the player, the rest against enemies. Kills and player hits are
// returned for the caller to process.
func (r *Resolver) StepProjectiles(p *player.Player) ([]Kill, []PlayerHit) {
	var kills []Kill
	var hits []PlayerHit
	for _, id := range r.world.Query(component.CProjectile, component.CPosition, component.CVelocity) {
		pr := r.world.Get(id, component.CProjectile).(component.Projectile)
		if !pr.Active {
			r.world.DestroyEntity(id)
			continue
		}
		pos := r.world.Get(id, component.CPosition).(component.Position)
		vel := r.world.Get(id, component.CVelocity).(component.Velocity)
		prev := pos.Vec
		pos.Vec = pos.Add(vel.Move)

		if !r.wall(&pos, &vel, pr.Wall) {
			r.world.DestroyEntity(id)
			continue
		}
		r.world.Add(id, pos)
		r.world.Add(id, vel)

		if pr.Hostile {
			reach := pr.Radius + p.Radius
			if p.Alive() && pos.DistSq(p.Pos) <= reach*reach {
				hits = append(hits, r.HitPlayer(p, pr.Damage, "projectile"))
				r.world.DestroyEntity(id)
			}
			continue
		}

		target := r.touching(pos.Vec, pr)
		if target == ecs.NilEntity {
			continue
		}
		res := r.HitEnemy(Attack{
			Source:   SourcePlayer,
			Attacker: pr.Owner,
			Origin:   prev,
			Damage:   pr.Damage,
			Stats:    &p.Stats,
			HitIndex: pr.HitCount,
		}, target)
		kills = append(kills, res.Kills...)
		pr.Hit = append(pr.Hit, target)
		pr.HitCount++
		if pr.HitCount <= pr.Pierce {
			r.world.Add(id, pr)
			continue
		}
		if pr.Bounces > 0 && r.Ricochet(id, &pr, target) {
			r.world.Add(id, pr)
			continue
		}
		r.world.DestroyEntity(id)
	}
	return kills, hits
}

// wall applies the wall mode when pos left the arena. It reports false
// when the projectile must be deactivated.
func (r *Resolver) wall(pos *component.Position, vel *component.Velocity, mode component.WallMode) bool {
	if r.Arena.Contains(pos.Vec) {
		return true
	}
	switch mode {
	case component.WallReflect:
		var n vmath.Vec
		switch {
		case pos.X < r.Arena.Min.X:
			n.X = 1
		case pos.X > r.Arena.Max.X:
			n.X = -1
		}
		switch {
		case pos.Y < r.Arena.Min.Y:
			n.Y = 1
		case pos.Y > r.Arena.Max.Y:
			n.Y = -1
		}
		vel.Move = vel.Move.Reflect(n.Normalize())
		pos.Vec = r.Arena.ClampVec(pos.Vec)
		return true
	case component.WallPassThrough:
		outer := vmath.Rect{
			Min: r.Arena.Min.Sub(vmath.Vec{X: passMargin, Y: passMargin}),
			Max: r.Arena.Max.Add(vmath.Vec{X: passMargin, Y: passMargin}),
		}
		return outer.Contains(pos.Vec)
	}
	return false
}

// touching returns the first live enemy overlapping a projectile at pos
// that it has not hit before.
func (r *Resolver) touching(pos vmath.Vec, pr component.Projectile) ecs.EntityID {
	for _, id := range r.world.Query(component.CEnemy, component.CPosition, component.CHealth) {
		e, ok := r.liveEnemy(id)
		if !ok || pr.AlreadyHit(id) {
			continue
		}
		reach := pr.Radius + e.Radius
		if r.position(id).DistSq(pos) <= reach*reach {
			return id
		}
	}
	return ecs.NilEntity
}

// Ricochet redirects projectile id from the enemy it just hit toward the
// nearest live enemy it has not hit, anywhere in the arena, spending one
// bounce. With no target it reports false and the caller deactivates the
// projectile.
func (r *Resolver) Ricochet(id ecs.EntityID, pr *component.Projectile, from ecs.EntityID) bool {
	if pr.Bounces <= 0 {
		return false
	}
	at := r.position(from)
	for _, next := range r.enemiesWithin(at, math.Inf(1), from) {
		if pr.AlreadyHit(next) {
			continue
		}
		vel := r.world.Get(id, component.CVelocity).(component.Velocity)
		speed := vel.Move.Len()
		vel.Move = r.position(next).Sub(at).Normalize().Scale(speed)
		r.world.Add(id, vel)
		pr.Bounces--
		return true
	}
	return false
}
