package player

import (
	"arena-roguelite/internal/clock"
	"arena-roguelite/internal/vmath"
	"math"
)

// Player is the run-scoped player record owned by the simulation core.
type Player struct {
	Pos    vmath.Vec
	Radius float64

	HP      float64
	BonusHP float64 // Iron Will layer, consumed before HP
	Shield  float64 // absorption pool, consumed before anything else

	Level   int
	XP      int // progress toward the next level
	Choices int // ability picks owed from level-ups

	ExtraLife       bool
	InvincibleUntil clock.Tick

	Stats     Stats
	base      Stats
	talents   []Modifier // persistent talents and equipment
	abilities []Ability
}

// New creates a level-1 player at full health. talents carries the
// persistent talent and equipment modifiers for this run.
func New(base Stats, talents []Modifier) *Player {
	p := &Player{
		Radius:  12,
		Level:   1,
		base:    base,
		talents: append([]Modifier(nil), talents...),
	}
	p.Stats = Derive(base, p.modifiers())
	p.HP = p.Stats.MaxHP
	p.RefreshRoomLayers()
	return p
}

func (p *Player) modifiers() []Modifier {
	mods := append([]Modifier(nil), p.talents...)
	for _, a := range p.abilities {
		mods = append(mods, a.Modifiers...)
	}
	return mods
}

// Recompute re-derives Stats. A max-HP increase is granted as current HP
// too; a decrease clamps current HP.
func (p *Player) Recompute() {
	oldMax := p.Stats.MaxHP
	p.Stats = Derive(p.base, p.modifiers())
	if d := p.Stats.MaxHP - oldMax; d > 0 {
		p.HP += d
	}
	if p.HP > p.Stats.MaxHP {
		p.HP = p.Stats.MaxHP
	}
}

// AddAbility grants an ability and re-derives stats.
func (p *Player) AddAbility(a Ability) {
	p.abilities = append(p.abilities, a)
	p.Recompute()
}

// Abilities returns the names of abilities gained this run, in order.
func (p *Player) Abilities() []string {
	out := make([]string, len(p.abilities))
	for i, a := range p.abilities {
		out[i] = a.Name
	}
	return out
}

// RefreshRoomLayers refills the shield pool and the Iron Will layer.
func (p *Player) RefreshRoomLayers() {
	p.Shield = p.Stats.ShieldCapacity
	p.BonusHP = math.Round(p.Stats.MaxHP * p.Stats.IronWill)
}

// Alive reports whether the player still stands.
func (p *Player) Alive() bool { return p.HP > 0 }

// Invincible reports whether damage is ignored at tick now.
func (p *Player) Invincible(now clock.Tick) bool { return now < p.InvincibleUntil }

// AbsorbShield takes as much of amount as the shield pool holds and
// returns what is left over.
func (p *Player) AbsorbShield(amount float64) (remainder, absorbed float64) {
	if p.Shield <= 0 || amount <= 0 {
		return amount, 0
	}
	absorbed = math.Min(p.Shield, amount)
	p.Shield -= absorbed
	return amount - absorbed, absorbed
}

// TakeDamage removes amount from the bonus layer then from HP. HP never
// drops below zero. It returns the HP actually lost.
func (p *Player) TakeDamage(amount float64) float64 {
	if amount <= 0 {
		return 0
	}
	if p.BonusHP > 0 {
		soak := math.Min(p.BonusHP, amount)
		p.BonusHP -= soak
		amount -= soak
	}
	lost := math.Min(p.HP, amount)
	p.HP -= lost
	return lost
}

// Heal restores up to amount HP, capped at max, and returns the HP gained.
func (p *Player) Heal(amount float64) float64 {
	if amount <= 0 || p.HP <= 0 {
		return 0
	}
	gained := math.Min(p.Stats.MaxHP-p.HP, amount)
	if gained < 0 {
		return 0
	}
	p.HP += gained
	return gained
}

// SetHealthFraction sets HP to a fraction of max, used by revive/respawn.
func (p *Player) SetHealthFraction(f float64) {
	p.HP = math.Max(1, math.Round(p.Stats.MaxHP*f))
}

// XPToNext is the XP needed to go from level to level+1.
func XPToNext(level int) int {
	if level < 1 {
		level = 1
	}
	return int(math.Round(10 * math.Pow(1.25, float64(level-1))))
}

// AddXP grants XP and returns how many levels were gained. Each level owes
// one ability choice.
func (p *Player) AddXP(n int) int {
	if n <= 0 {
		return 0
	}
	p.XP += n
	gained := 0
	for p.XP >= XPToNext(p.Level) {
		p.XP -= XPToNext(p.Level)
		p.Level++
		gained++
	}
	p.Choices += gained
	return gained
}

// Choose spends one owed choice on an ability. It reports false when no
// choice is owed or the id is unknown.
func (p *Player) Choose(id string) bool {
	if p.Choices <= 0 {
		return false
	}
	a, ok := AbilityByID(id)
	if !ok {
		return false
	}
	p.Choices--
	p.AddAbility(a)
	return true
}
