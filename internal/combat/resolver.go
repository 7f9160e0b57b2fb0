// Package combat resolves every hit in the arena: player attacks on
// enemies with their crit, pierce, shatter and status rules, the secondary
// effects hung off a hit, incoming damage on the player, periodic status
// damage and projectile flight.
package combat

import (
	"arena-roguelite/internal/clock"
	"arena-roguelite/internal/component"
	"arena-roguelite/internal/ecs"
	"arena-roguelite/internal/event"
	"arena-roguelite/internal/player"
	"arena-roguelite/internal/scaling"
	"arena-roguelite/internal/vmath"
	"math/rand"
	"sort"
	"time"
)

const (
	// ChainRadius bounds how far a lightning link may jump.
	ChainRadius = 150.0

	DOTInterval    = 500 * time.Millisecond
	FireDuration   = 3 * time.Second
	PoisonDuration = 5 * time.Second
	BleedDuration  = 4 * time.Second
	FreezeDuration = 1500 * time.Millisecond
)

// Source tags who produced an attack.
type Source uint8

const (
	SourcePlayer Source = iota
	SourceEnemy
	SourceHazard
)

// Attack is one hit attempt against an enemy. Player attacks carry Stats;
// other sources use the fixed Damage.
type Attack struct {
	Source   Source
	Attacker ecs.EntityID
	Origin   vmath.Vec
	Damage   float64
	Stats    *player.Stats
	HitIndex int // enemies the projectile already pierced
}

// Hit is the ephemeral damage record of one resolution step.
type Hit struct {
	Target     ecs.EntityID
	Amount     float64
	Critical   bool
	HitIndex   int
	Explosive  bool
	ChainIndex int
	Killed     bool
}

// Kill captures what the reward pipeline needs from a dead enemy. It is
// filled in at the moment of death so the spawner may reap the entity.
type Kill struct {
	Enemy   ecs.EntityID
	Kind    string
	Rank    component.Rank
	Pos     vmath.Vec
	MaxHP   float64
	XPBonus float64
	GoldMin int
	GoldMax int
	Cause   string
}

// Boss reports whether the kill was the room's boss.
func (k Kill) Boss() bool { return k.Rank == component.RankBoss }

// Result groups the primary hit with every secondary hit and kill it
// caused. Kills are in the order they happened and contain no duplicates.
type Result struct {
	Primary   Hit
	Secondary []Hit
	Kills     []Kill
}

func (r *Result) merge(o Result) {
	r.Secondary = append(r.Secondary, o.Secondary...)
	r.Kills = append(r.Kills, o.Kills...)
}

// Resolver owns no state beyond its collaborators; all mutation lands on
// world components or the player record.
type Resolver struct {
	world  *ecs.World
	rng    *rand.Rand
	clock  *clock.Clock
	events *event.Dispatcher
	resist scaling.Resistances

	// Arena bounds projectile flight and wall interaction.
	Arena vmath.Rect
}

// NewResolver wires a resolver. Resistances start neutral.
func NewResolver(w *ecs.World, rng *rand.Rand, clk *clock.Clock, events *event.Dispatcher, arena vmath.Rect) *Resolver {
	return &Resolver{
		world:  w,
		rng:    rng,
		clock:  clk,
		events: events,
		resist: scaling.Resistances{Fire: 1, Cold: 1, Bleed: 1},
		Arena:  arena,
	}
}

// SetResistances installs the active chapter's resistance triple.
func (r *Resolver) SetResistances(res scaling.Resistances) { r.resist = res }

// Resistances returns the active resistance triple.
func (r *Resolver) Resistances() scaling.Resistances { return r.resist }

// liveEnemy returns the enemy component if id is a hittable enemy.
func (r *Resolver) liveEnemy(id ecs.EntityID) (component.Enemy, bool) {
	if !r.world.Alive(id) {
		return component.Enemy{}, false
	}
	c, ok := r.world.Get(id, component.CEnemy).(component.Enemy)
	if !ok || c.Dead {
		return component.Enemy{}, false
	}
	return c, true
}

func (r *Resolver) position(id ecs.EntityID) vmath.Vec {
	if c, ok := r.world.Get(id, component.CPosition).(component.Position); ok {
		return c.Vec
	}
	return vmath.Vec{}
}

// HitEnemy resolves one attack on target. Attacks on missing or dead
// enemies resolve to the zero Result.
func (r *Resolver) HitEnemy(a Attack, target ecs.EntityID) Result {
	if _, ok := r.liveEnemy(target); !ok {
		return Result{}
	}
	now := r.clock.Now()

	// 1-2. base damage and crit
	dmg := a.Damage
	crit := false
	if a.Stats != nil {
		dmg = a.Stats.Damage
		if a.Stats.CritChance > 0 && r.rng.Float64() < a.Stats.CritChance {
			dmg *= a.Stats.CritMultiplier
			crit = true
		}
		// 3. piercing falloff
		dmg = PiercedDamage(dmg, a.Stats.PierceFalloff, a.HitIndex)
	}

	// 4. shatter on frozen targets
	st, _ := r.world.Get(target, component.CStatus).(component.Status)
	if a.Stats != nil && a.Stats.ShatterMultiplier > 0 && st.Frozen(now) {
		dmg *= a.Stats.ShatterMultiplier
	}

	// 5. status rolls; scheduled only if the target survives the hit
	var pending []func()
	if a.Stats != nil {
		pending = r.rollStatuses(target, a.Stats)
	}

	// 6. health
	res := Result{}
	hit, kill := r.damage(target, dmg, "hit")
	hit.Critical = crit
	hit.HitIndex = a.HitIndex
	res.Primary = hit
	if kill != nil {
		res.Kills = append(res.Kills, *kill)
	} else {
		for _, apply := range pending {
			apply()
		}
	}

	if a.Stats == nil {
		return res
	}
	at := r.position(target)

	// Side effects are independent of each other.
	if !hit.Killed && a.Stats.Knockback > 0 {
		r.Knockback(target, a.Origin, a.Stats.Knockback)
	}
	if a.Stats.ExplosiveRadius > 0 && a.Stats.ExplosivePercent > 0 {
		res.merge(r.explode(at, a.Stats.ExplosiveRadius, hit.Amount*a.Stats.ExplosivePercent, target))
	}
	if a.Stats.ChainCount > 0 {
		res.merge(r.Chain(at, hit.Amount, a.Stats.ChainFalloff, a.Stats.ChainCount, target))
	}
	return res
}

// damage applies amount to an enemy's health, marks it dead when health
// reaches zero and reports the kill exactly once.
func (r *Resolver) damage(id ecs.EntityID, amount float64, source string) (Hit, *Kill) {
	e, ok := r.liveEnemy(id)
	if !ok || amount < 0 {
		return Hit{}, nil
	}
	h, _ := r.world.Get(id, component.CHealth).(component.Health)
	h.Current -= amount
	hit := Hit{Target: id, Amount: amount}
	if h.Current <= 0 {
		h.Current = 0
		hit.Killed = true
	}
	r.world.Add(id, h)
	r.events.Emit(event.EnemyDamaged{Enemy: id, Amount: amount, Source: source})
	if e.IsBoss() {
		r.events.Emit(event.BossHealthChanged{Boss: id, Current: h.Current, Max: h.Max})
	}
	if !hit.Killed {
		return hit, nil
	}
	e.Dead = true
	r.world.Add(id, e)
	return hit, &Kill{
		Enemy:   id,
		Kind:    e.Kind,
		Rank:    e.Rank,
		Pos:     r.position(id),
		MaxHP:   h.Max,
		XPBonus: e.XPBonus,
		GoldMin: e.GoldMin,
		GoldMax: e.GoldMax,
		Cause:   source,
	}
}

// enemiesWithin returns live enemies within radius of at, nearest first,
// skipping exclude.
func (r *Resolver) enemiesWithin(at vmath.Vec, radius float64, exclude ecs.EntityID) []ecs.EntityID {
	type cand struct {
		id ecs.EntityID
		d  float64
	}
	var cands []cand
	r2 := radius * radius
	for _, id := range r.world.Query(component.CEnemy, component.CPosition, component.CHealth) {
		if id == exclude {
			continue
		}
		if _, ok := r.liveEnemy(id); !ok {
			continue
		}
		if d := r.position(id).DistSq(at); d <= r2 {
			cands = append(cands, cand{id, d})
		}
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].d < cands[j].d })
	out := make([]ecs.EntityID, len(cands))
	for i, c := range cands {
		out[i] = c.id
	}
	return out
}

// explode deals amount to every other live enemy within radius.
func (r *Resolver) explode(at vmath.Vec, radius, amount float64, exclude ecs.EntityID) Result {
	var res Result
	for _, id := range r.enemiesWithin(at, radius, exclude) {
		hit, kill := r.damage(id, amount, "explosion")
		hit.Explosive = true
		res.Secondary = append(res.Secondary, hit)
		if kill != nil {
			res.Kills = append(res.Kills, *kill)
		}
	}
	return res
}

// Chain sends lightning from at to the n nearest live enemies within
// ChainRadius, excluding origin. Link k deals base*(1-falloff)^k. The
// chain fires whether or not origin survived.
func (r *Resolver) Chain(at vmath.Vec, base, falloff float64, n int, origin ecs.EntityID) Result {
	var res Result
	targets := r.enemiesWithin(at, ChainRadius, origin)
	if len(targets) > n {
		targets = targets[:n]
	}
	for i, id := range targets {
		hit, kill := r.damage(id, ChainDamage(base, falloff, i+1), "chain")
		hit.ChainIndex = i + 1
		res.Secondary = append(res.Secondary, hit)
		if kill != nil {
			res.Kills = append(res.Kills, *kill)
		}
	}
	return res
}

// Nova deals damage to every live enemy within radius of at except
// exclude. The caller decides whether its kills may trigger anything.
func (r *Resolver) Nova(at vmath.Vec, radius, amount float64, exclude ecs.EntityID) Result {
	var res Result
	for _, id := range r.enemiesWithin(at, radius, exclude) {
		hit, kill := r.damage(id, amount, "nova")
		res.Secondary = append(res.Secondary, hit)
		if kill != nil {
			res.Kills = append(res.Kills, *kill)
		}
	}
	return res
}

// Knockback adds an impulse along the from→target direction.
func (r *Resolver) Knockback(target ecs.EntityID, from vmath.Vec, strength float64) {
	dir := r.position(target).Sub(from).Normalize()
	if dir.IsZero() {
		return
	}
	v, _ := r.world.Get(target, component.CVelocity).(component.Velocity)
	v.Impulse = v.Impulse.Add(dir.Scale(strength))
	r.world.Add(target, v)
}
