// Package reward turns kills into their consequences: kill counters,
// kill-triggered passives, drops, XP and level-ups, and boss clears.
// Every kill is processed exactly once, and the room-clear check runs once
// after a whole batch so secondary kills cannot clear a room twice.
package reward

import (
	"arena-roguelite/internal/combat"
	"arena-roguelite/internal/component"
	"arena-roguelite/internal/ecs"
	"arena-roguelite/internal/event"
	"arena-roguelite/internal/player"
	"arena-roguelite/internal/run"
	"arena-roguelite/internal/scaling"
	"arena-roguelite/internal/vmath"
	"log/slog"
	"math"
	"math/rand"
)

const (
	GoldDropChance   = 0.5
	PotionDropChance = 0.05

	BossXP  = 10
	EnemyXP = 2

	potionFraction = 0.10
	potionMin      = 15
	potionMax      = 100
)

// Room is the slice of the room state machine the pipeline drives.
type Room interface {
	// ClearBoss drops the active boss reference if it is id and reports
	// whether it did.
	ClearBoss(id ecs.EntityID) bool
	CheckClear()
}

// BossLog records boss kills. It is write-only from the core's side.
type BossLog interface {
	RecordBossKill(chapter int, kind string) error
}

// Deps wires a pipeline.
type Deps struct {
	World      *ecs.World
	Rng        *rand.Rand
	Events     *event.Dispatcher
	Combat     *combat.Resolver
	Player     *player.Player
	State      *run.State
	Room       Room
	Bosses     BossLog // may be nil
	Chapter    *scaling.Chapter
	Difficulty scaling.Difficulty
	Logger     *slog.Logger
}

// Pipeline processes kills and pickup collection.
type Pipeline struct {
	Deps
	processed map[ecs.EntityID]bool
}

// New returns a pipeline. A nil logger falls back to slog.Default.
func New(d Deps) *Pipeline {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	return &Pipeline{Deps: d, processed: make(map[ecs.EntityID]bool)}
}

// Handled reports whether the kill of id was already processed.
func (p *Pipeline) Handled(id ecs.EntityID) bool { return p.processed[id] }

// ProcessKills handles a batch of kills from one resolution, then checks
// for a room clear once. Kills caused by the death nova are processed
// with secondary triggers suppressed, so a nova never chains into another.
func (p *Pipeline) ProcessKills(kills []combat.Kill) {
	type queued struct {
		kill       combat.Kill
		suppressed bool
	}
	queue := make([]queued, 0, len(kills))
	for _, k := range kills {
		queue = append(queue, queued{kill: k})
	}
	for len(queue) > 0 {
		q := queue[0]
		queue = queue[1:]
		for _, nk := range p.process(q.kill, q.suppressed) {
			queue = append(queue, queued{kill: nk, suppressed: true})
		}
	}
	if p.Room != nil {
		p.Room.CheckClear()
	}
}

// process runs the per-kill steps in order and returns any kills caused
// by kill-triggered passives.
func (p *Pipeline) process(k combat.Kill, suppressSecondary bool) []combat.Kill {
	if p.processed[k.Enemy] {
		return nil
	}
	p.processed[k.Enemy] = true

	p.State.Kills++
	p.Events.Emit(event.EnemyKilled{Enemy: k.Enemy, Kind: k.Kind, Boss: k.Boss(), At: k.Pos, Kills: p.State.Kills})

	var secondary []combat.Kill
	s := p.Player.Stats
	if s.LifeSteal > 0 {
		if healed := p.Player.Heal(s.LifeSteal); healed > 0 {
			p.Events.Emit(event.PlayerHealed{Amount: healed, Health: p.Player.HP, Source: "life_steal"})
		}
	}
	if !suppressSecondary && s.NovaRadius > 0 && s.NovaPercent > 0 && p.Combat != nil {
		res := p.Combat.Nova(k.Pos, s.NovaRadius, k.MaxHP*s.NovaPercent, k.Enemy)
		secondary = res.Kills
	}

	p.drop(k)
	p.grantXP(k)

	if k.Boss() && p.Room != nil && p.Room.ClearBoss(k.Enemy) {
		p.Events.Emit(event.BossCleared{Boss: k.Enemy, Kind: k.Kind})
		if p.Bosses != nil {
			if err := p.Bosses.RecordBossKill(p.State.Chapter, k.Kind); err != nil {
				p.Logger.Warn("record boss kill", "kind", k.Kind, "err", err)
			}
		}
	}
	return secondary
}

func (p *Pipeline) drop(k combat.Kill) {
	if k.GoldMax > 0 && p.Rng.Float64() < GoldDropChance {
		lo, hi := k.GoldMin, k.GoldMax
		if lo > hi {
			lo = hi
		}
		p.spawnPickup(k.Pos, component.PickupGold, lo+p.Rng.Intn(hi-lo+1))
	}
	if p.Rng.Float64() < PotionDropChance {
		p.spawnPickup(k.Pos, component.PickupHealth, PotionValue(p.Player.Stats.MaxHP, p.Difficulty.HealDamping))
	}
}

// PotionValue is the heal of a dropped potion:
// clamp(maxHP * 0.10 * damping, 15, 100).
func PotionValue(maxHP, damping float64) int {
	return int(math.Round(vmath.Clamp(maxHP*potionFraction*damping, potionMin, potionMax)))
}

// KillXP is the XP granted for a kill.
func KillXP(boss bool, bonus, chapterXP, playerXP float64) int {
	base := float64(EnemyXP)
	if boss {
		base = BossXP
	}
	if bonus <= 0 {
		bonus = 1
	}
	return int(math.Round(base * bonus * chapterXP * playerXP))
}

func (p *Pipeline) grantXP(k combat.Kill) {
	chapterXP := 1.0
	if p.Chapter != nil {
		chapterXP = p.Chapter.XP
	}
	xp := KillXP(k.Boss(), k.XPBonus, chapterXP, p.Player.Stats.XPMultiplier)
	if xp <= 0 {
		return
	}
	p.State.XP += xp
	p.State.HeroXP += xp
	p.Events.Emit(event.XPGained{Amount: xp, Total: p.State.XP})
	if p.Player.AddXP(xp) > 0 {
		p.Events.Emit(event.LevelUp{Level: p.Player.Level, Choices: p.Player.Choices})
	}
}

func (p *Pipeline) spawnPickup(at vmath.Vec, kind component.PickupKind, value int) ecs.EntityID {
	id := p.World.CreateEntity()
	// Scatter drops a little so stacked pickups stay distinguishable.
	jitter := vmath.FromAngle(p.Rng.Float64() * 2 * math.Pi).Scale(6)
	p.World.Add(id, component.Position{Vec: at.Add(jitter)})
	p.World.Add(id, component.Velocity{})
	p.World.Add(id, component.Pickup{Kind: kind, Value: value})
	return id
}

// Collect applies a pickup to the player and removes it. It reports false
// for entities that are not pickups.
func (p *Pipeline) Collect(id ecs.EntityID) bool {
	pk, ok := p.World.Get(id, component.CPickup).(component.Pickup)
	if !ok {
		return false
	}
	switch pk.Kind {
	case component.PickupGold:
		p.State.Gold += pk.Value
		p.State.RoomGold += pk.Value
		p.Events.Emit(event.GoldGained{Amount: pk.Value, Total: p.State.Gold})
	case component.PickupHealth:
		healed := p.Player.Heal(float64(pk.Value))
		p.State.RoomHealth += healed
		if healed > 0 {
			p.Events.Emit(event.PlayerHealed{Amount: healed, Health: p.Player.HP, Source: "potion"})
		}
	}
	p.World.DestroyEntity(id)
	return true
}
