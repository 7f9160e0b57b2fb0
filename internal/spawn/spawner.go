// Package spawn is the default spawn and AI collaborator: it populates
// rooms from their plans, telegraphs regular spawns, steers enemies,
// fires enemy projectiles and runs boss attack phases.
package spawn

import (
	"arena-roguelite/internal/clock"
	"arena-roguelite/internal/combat"
	"arena-roguelite/internal/component"
	"arena-roguelite/internal/ecs"
	"arena-roguelite/internal/game"
	"arena-roguelite/internal/player"
	"arena-roguelite/internal/room"
	"arena-roguelite/internal/scaling"
	"arena-roguelite/internal/vmath"
	"log/slog"
	"math/rand"
	"time"
)

const (
	// TelegraphDelay is how long a spawn marker shows before the enemy
	// appears.
	TelegraphDelay = 750 * time.Millisecond
	spawnStagger   = 100 * time.Millisecond
	// SafeDistance keeps fresh spawns away from the player.
	SafeDistance = 200.0
)

// Spawner implements game.Spawner.
type Spawner struct {
	world  *ecs.World
	clock  *clock.Clock
	rng    *rand.Rand
	combat *combat.Resolver
	tables *scaling.Tables
	player *player.Player
	arena  vmath.Rect
	logger *slog.Logger

	req room.Request
}

// New builds a spawner for one run. Its signature matches
// game.Options.NewSpawner.
func New(env game.Env) game.Spawner {
	return &Spawner{
		world:  env.World,
		clock:  env.Clock,
		rng:    env.Rng,
		combat: env.Combat,
		tables: env.Tables,
		player: env.Player,
		arena:  env.Arena,
		logger: env.Logger,
	}
}

// Spawn populates a room. The boss appears at once; everything else is
// telegraphed first.
func (s *Spawner) Spawn(req room.Request) ecs.EntityID {
	s.req = req
	boss := ecs.NilEntity
	for i, kind := range req.Plan.Spawns {
		rank := component.RankRegular
		switch req.Plan.Kind {
		case scaling.RoomBoss:
			rank = component.RankBoss
		case scaling.RoomMiniBoss:
			rank = component.RankMiniBoss
		}
		if rank == component.RankBoss {
			top := s.arena.Center()
			top.Y = s.arena.Min.Y + (s.arena.Max.Y-s.arena.Min.Y)/4
			if id := s.create(kind, rank, top); boss == ecs.NilEntity {
				boss = id
			}
			continue
		}
		ready := s.clock.After(TelegraphDelay + time.Duration(i)*spawnStagger)
		NewMarker(s.world, kind, rank, s.spawnPoint(), ready)
	}
	return boss
}

func (s *Spawner) create(kind string, rank component.Rank, at vmath.Vec) ecs.EntityID {
	def, ok := s.tables.Enemy(kind)
	if !ok {
		s.logger.Warn("unknown enemy kind", "kind", kind)
		return ecs.NilEntity
	}
	mods := scaling.DefaultModifiers
	if s.req.Chapter != nil {
		mods = s.req.Chapter.Modifiers(kind)
	}
	return NewEnemy(s.world, s.clock, def, StatsFor(rank, s.req.Scale, mods), at)
}

// spawnPoint picks a random arena point away from the player.
func (s *Spawner) spawnPoint() vmath.Vec {
	const margin = 30.0
	w := s.arena.Max.X - s.arena.Min.X - 2*margin
	h := s.arena.Max.Y - s.arena.Min.Y - 2*margin
	var p vmath.Vec
	for range 10 {
		p = vmath.Vec{
			X: s.arena.Min.X + margin + s.rng.Float64()*w,
			Y: s.arena.Min.Y + margin + s.rng.Float64()*h,
		}
		if p.Dist(s.player.Pos) >= SafeDistance {
			return p
		}
	}
	// Mirror through the arena center as a last resort.
	c := s.arena.Center()
	return s.arena.ClampVec(c.Add(c.Sub(s.player.Pos)))
}

// Pending counts markers still waiting to materialize.
func (s *Spawner) Pending() int { return s.world.Count(component.CTagPending) }

// ClearRoom destroys everything room-scoped.
func (s *Spawner) ClearRoom() {
	for _, t := range []ecs.ComponentType{
		component.CEnemy, component.CTagPending, component.CDoor, component.CPickup, component.CProjectile,
	} {
		for _, id := range s.world.Query(t) {
			s.world.DestroyEntity(id)
		}
	}
}

// ClearEnemyBullets removes all hostile projectiles.
func (s *Spawner) ClearEnemyBullets() { s.combat.ClearHostileProjectiles() }

// SpawnDoor places the exit door.
func (s *Spawner) SpawnDoor(at vmath.Vec) ecs.EntityID { return NewDoor(s.world, at) }

// Update runs one AI tick.
func (s *Spawner) Update() {
	s.reap()
	s.materialize()
	for _, id := range s.world.Query(component.CEnemy, component.CPosition, component.CVelocity) {
		e := s.world.Get(id, component.CEnemy).(component.Enemy)
		if e.Dead {
			continue
		}
		if s.combat.Frozen(id) {
			s.steer(id, vmath.Vec{})
			continue
		}
		switch {
		case s.world.Has(id, component.CBoss):
			s.bossStep(id, e)
		case s.world.Has(id, component.CRanged):
			s.kite(id, e)
		default:
			s.chase(id, e)
		}
	}
}

// reap removes enemies whose deaths were already processed.
func (s *Spawner) reap() {
	for _, id := range s.world.Query(component.CEnemy) {
		if s.world.Get(id, component.CEnemy).(component.Enemy).Dead {
			s.world.DestroyEntity(id)
		}
	}
}

func (s *Spawner) materialize() {
	for _, id := range s.world.Query(component.CTagPending, component.CPosition) {
		tag := s.world.Get(id, component.CTagPending).(component.TagPending)
		if !s.clock.Reached(tag.ReadyAt) {
			continue
		}
		at := s.world.Get(id, component.CPosition).(component.Position).Vec
		s.world.DestroyEntity(id)
		s.create(tag.Kind, tag.Rank, at)
	}
}
