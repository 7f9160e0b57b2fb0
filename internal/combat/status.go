package combat

import (
	"arena-roguelite/internal/clock"
	"arena-roguelite/internal/component"
	"arena-roguelite/internal/ecs"
	"arena-roguelite/internal/player"
)

// Element names a status effect.
type Element uint8

const (
	Fire Element = iota
	Poison
	Bleed
	Freeze
)

func (e Element) String() string {
	return [...]string{"fire", "poison", "bleed", "freeze"}[e]
}

// rollStatuses rolls each status chance in a fixed order and returns the
// applications to run once the hit is known not to be lethal.
func (r *Resolver) rollStatuses(target ecs.EntityID, s *player.Stats) []func() {
	var out []func()
	roll := func(chance float64, el Element, dmg float64) {
		if chance > 0 && r.rng.Float64() < chance {
			out = append(out, func() { r.ApplyStatus(target, el, dmg) })
		}
	}
	roll(s.FireChance, Fire, s.FireDamage)
	roll(s.PoisonChance, Poison, s.PoisonDamage)
	roll(s.BleedChance, Bleed, s.BleedDamage)
	roll(s.FreezeChance, Freeze, 0)
	return out
}

// ApplyStatus puts el on target. Fire and bleed tick damage is multiplied
// by the chapter resistance; freeze only lands if the cold resistance
// allows it (always at 1.0 or above, otherwise with probability equal to
// the resistance). An existing entry is refreshed, never stacked. It
// reports whether the status landed.
func (r *Resolver) ApplyStatus(target ecs.EntityID, el Element, tickDamage float64) bool {
	if _, ok := r.liveEnemy(target); !ok {
		return false
	}
	now := r.clock.Now()
	st, _ := r.world.Get(target, component.CStatus).(component.Status)
	switch el {
	case Fire:
		refresh(&st.Fire, tickDamage*r.resist.Fire, now, r.clock.After(FireDuration), r.clock.After(DOTInterval))
	case Poison:
		refresh(&st.Poison, tickDamage, now, r.clock.After(PoisonDuration), r.clock.After(DOTInterval))
	case Bleed:
		refresh(&st.Bleed, tickDamage*r.resist.Bleed, now, r.clock.After(BleedDuration), r.clock.After(DOTInterval))
	case Freeze:
		cold := r.resist.Cold
		if cold <= 0 {
			return false
		}
		if cold < 1 && r.rng.Float64() >= cold {
			return false
		}
		st.FrozenUntil = r.clock.After(FreezeDuration)
	}
	r.world.Add(target, st)
	return true
}

// refresh replaces a DOT's damage and expiry. A running DOT keeps its
// tick phase so refreshing cannot speed up ticks.
func refresh(d *component.DOT, dmg float64, now, until, next clock.Tick) {
	if !d.Active(now) {
		d.Next = next
	}
	d.TickDamage = dmg
	d.Until = until
}

// TickStatus advances every status at the current tick: due DOTs deal
// their damage and expired entries are cleared. A DOT also ticks on its
// expiry tick. Dead targets are skipped entirely. It returns the kills it
// caused.
func (r *Resolver) TickStatus() []Kill {
	now := r.clock.Now()
	interval := r.clock.Ticks(DOTInterval)
	type tick struct {
		dmg    float64
		source string
	}
	var kills []Kill
	for _, id := range r.world.Query(component.CStatus, component.CEnemy) {
		if _, ok := r.liveEnemy(id); !ok {
			continue
		}
		st := r.world.Get(id, component.CStatus).(component.Status)
		var due []tick
		for _, s := range []struct {
			dot *component.DOT
			el  Element
		}{{&st.Fire, Fire}, {&st.Poison, Poison}, {&st.Bleed, Bleed}} {
			d := s.dot
			if d.Until == 0 {
				continue
			}
			if now >= d.Next && d.Next <= d.Until {
				due = append(due, tick{d.TickDamage, s.el.String()})
				d.Next = now + interval
			}
			if now >= d.Until {
				*d = component.DOT{}
			}
		}
		if st.FrozenUntil != 0 && !st.Frozen(now) {
			st.FrozenUntil = 0
		}
		r.world.Add(id, st)
		for _, t := range due {
			if _, kill := r.damage(id, t.dmg, t.source); kill != nil {
				kills = append(kills, *kill)
				break
			}
		}
	}
	return kills
}

// Frozen reports whether an enemy is frozen now. Frozen enemies neither
// move nor attack.
func (r *Resolver) Frozen(id ecs.EntityID) bool {
	st, _ := r.world.Get(id, component.CStatus).(component.Status)
	return st.Frozen(r.clock.Now())
}
