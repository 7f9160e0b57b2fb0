package combat

import (
	"arena-roguelite/internal/component"
	"arena-roguelite/internal/ecs"
	"arena-roguelite/internal/event"
	"arena-roguelite/internal/player"
)

// Outcome is what happened to a hit aimed at the player.
type Outcome uint8

const (
	OutcomeNone Outcome = iota
	OutcomeInvincible
	OutcomeAbsorbed // the shield took all of it
	OutcomeDodged
	OutcomeDamaged
	OutcomeKilled
)

func (o Outcome) String() string {
	return [...]string{"none", "invincible", "absorbed", "dodged", "damaged", "killed"}[o]
}

// PlayerHit reports a resolved hit on the player.
type PlayerHit struct {
	Outcome  Outcome
	Absorbed float64 // taken by the shield
	Lost     float64 // HP actually removed
}

// HitPlayer resolves amount of incoming damage. Order: invincibility,
// shield, dodge, then bonus HP and health. A hit the shield fully absorbs
// emits nothing and cannot be dodged.
func (r *Resolver) HitPlayer(p *player.Player, amount float64, source string) PlayerHit {
	if amount <= 0 || !p.Alive() {
		return PlayerHit{}
	}
	if p.Invincible(r.clock.Now()) {
		return PlayerHit{Outcome: OutcomeInvincible}
	}
	rest, absorbed := p.AbsorbShield(amount)
	if rest <= 0 {
		return PlayerHit{Outcome: OutcomeAbsorbed, Absorbed: absorbed}
	}
	if p.Stats.DodgeChance > 0 && r.rng.Float64() < p.Stats.DodgeChance {
		r.events.Emit(event.PlayerDodged{Amount: rest, Source: source})
		return PlayerHit{Outcome: OutcomeDodged, Absorbed: absorbed}
	}
	lost := p.TakeDamage(rest)
	r.events.Emit(event.PlayerDamaged{Amount: rest, Absorbed: absorbed, Health: p.HP, Source: source})
	out := PlayerHit{Outcome: OutcomeDamaged, Absorbed: absorbed, Lost: lost}
	if !p.Alive() {
		out.Outcome = OutcomeKilled
	}
	return out
}

// MeleeReady reports whether enemy id may strike p this tick: alive, not
// frozen, off cooldown and in contact range.
func (r *Resolver) MeleeReady(id ecs.EntityID, p *player.Player) bool {
	e, ok := r.liveEnemy(id)
	if !ok || r.Frozen(id) {
		return false
	}
	m, ok := r.world.Get(id, component.CMelee).(component.Melee)
	if !ok || !r.clock.Reached(m.ReadyAt) {
		return false
	}
	reach := m.Range + e.Radius + p.Radius
	return r.position(id).DistSq(p.Pos) <= reach*reach
}

// Melee performs a contact attack if MeleeReady and restarts the cooldown.
func (r *Resolver) Melee(id ecs.EntityID, p *player.Player) PlayerHit {
	if !r.MeleeReady(id, p) {
		return PlayerHit{}
	}
	e, _ := r.liveEnemy(id)
	m := r.world.Get(id, component.CMelee).(component.Melee)
	m.ReadyAt = r.clock.Now() + m.Cooldown
	r.world.Add(id, m)
	return r.HitPlayer(p, e.Damage, e.Kind)
}
