// Package player holds the player's run-scoped record: health layers,
// level and XP, and the combat stats derived from base values, talents,
// equipment and abilities picked during the run.
package player

import "fmt"

// Stats are the derived combat numbers the resolver reads.
type Stats struct {
	MaxHP          float64
	Damage         float64
	CritChance     float64 // 0-1
	CritMultiplier float64
	Speed          float64

	Pierce        int     // extra enemies a projectile passes through
	PierceFalloff float64 // fraction of damage lost per enemy already pierced

	ChainCount   int     // lightning links per hit
	ChainFalloff float64 // fraction lost per hop

	Ricochet         int
	ExplosiveRadius  float64
	ExplosivePercent float64 // share of the primary hit dealt by the blast
	Knockback        float64

	DodgeChance    float64
	ShieldCapacity float64
	IronWill       float64 // bonus-HP layer as a fraction of max HP, refilled per room

	FireChance, FireDamage     float64
	PoisonChance, PoisonDamage float64
	BleedChance, BleedDamage   float64
	FreezeChance               float64
	ShatterMultiplier          float64 // 0 disables shatter

	LifeSteal    float64 // HP restored per kill
	NovaRadius   float64 // 0 disables the death nova
	NovaPercent  float64 // share of the victim's max HP dealt by the nova
	XPMultiplier float64
}

// BaseStats is a fresh level-1 character with no talents.
var BaseStats = Stats{
	MaxHP:          100,
	Damage:         20,
	CritChance:     0.05,
	CritMultiplier: 2.0,
	Speed:          3.0,
	PierceFalloff:  0.33,
	ChainFalloff:   0.25,
	XPMultiplier:   1.0,
}

// Stat names a tunable field for modifiers coming from talents, equipment
// and abilities.
type Stat string

const (
	StatMaxHP          Stat = "max_hp"
	StatDamage         Stat = "damage"
	StatCritChance     Stat = "crit_chance"
	StatCritMultiplier Stat = "crit_multiplier"
	StatSpeed          Stat = "speed"
	StatPierce         Stat = "pierce"
	StatPierceFalloff  Stat = "pierce_falloff"
	StatChainCount     Stat = "chain_count"
	StatChainFalloff   Stat = "chain_falloff"
	StatRicochet       Stat = "ricochet"
	StatExplosive      Stat = "explosive_radius"
	StatExplosivePct   Stat = "explosive_percent"
	StatKnockback      Stat = "knockback"
	StatDodge          Stat = "dodge"
	StatShield         Stat = "shield"
	StatIronWill       Stat = "iron_will"
	StatFireChance     Stat = "fire_chance"
	StatFireDamage     Stat = "fire_damage"
	StatPoisonChance   Stat = "poison_chance"
	StatPoisonDamage   Stat = "poison_damage"
	StatBleedChance    Stat = "bleed_chance"
	StatBleedDamage    Stat = "bleed_damage"
	StatFreezeChance   Stat = "freeze_chance"
	StatShatter        Stat = "shatter"
	StatLifeSteal      Stat = "life_steal"
	StatNovaRadius     Stat = "nova_radius"
	StatNovaPercent    Stat = "nova_percent"
	StatXP             Stat = "xp"
)

// Modifier adjusts one stat. All Adds are summed onto the base first, then
// the result is multiplied by (1 + sum of Mults).
type Modifier struct {
	Stat Stat
	Add  float64
	Mult float64
}

func (m Modifier) String() string {
	switch {
	case m.Mult != 0 && m.Add != 0:
		return fmt.Sprintf("%s %+g %+g%%", m.Stat, m.Add, m.Mult*100)
	case m.Mult != 0:
		return fmt.Sprintf("%s %+g%%", m.Stat, m.Mult*100)
	}
	return fmt.Sprintf("%s %+g", m.Stat, m.Add)
}

// field maps a stat name to its storage. Integer stats are accumulated as
// floats and truncated when written back.
func (s *Stats) field(stat Stat) (f *float64, i *int) {
	switch stat {
	case StatMaxHP:
		return &s.MaxHP, nil
	case StatDamage:
		return &s.Damage, nil
	case StatCritChance:
		return &s.CritChance, nil
	case StatCritMultiplier:
		return &s.CritMultiplier, nil
	case StatSpeed:
		return &s.Speed, nil
	case StatPierce:
		return nil, &s.Pierce
	case StatPierceFalloff:
		return &s.PierceFalloff, nil
	case StatChainCount:
		return nil, &s.ChainCount
	case StatChainFalloff:
		return &s.ChainFalloff, nil
	case StatRicochet:
		return nil, &s.Ricochet
	case StatExplosive:
		return &s.ExplosiveRadius, nil
	case StatExplosivePct:
		return &s.ExplosivePercent, nil
	case StatKnockback:
		return &s.Knockback, nil
	case StatDodge:
		return &s.DodgeChance, nil
	case StatShield:
		return &s.ShieldCapacity, nil
	case StatIronWill:
		return &s.IronWill, nil
	case StatFireChance:
		return &s.FireChance, nil
	case StatFireDamage:
		return &s.FireDamage, nil
	case StatPoisonChance:
		return &s.PoisonChance, nil
	case StatPoisonDamage:
		return &s.PoisonDamage, nil
	case StatBleedChance:
		return &s.BleedChance, nil
	case StatBleedDamage:
		return &s.BleedDamage, nil
	case StatFreezeChance:
		return &s.FreezeChance, nil
	case StatShatter:
		return &s.ShatterMultiplier, nil
	case StatLifeSteal:
		return &s.LifeSteal, nil
	case StatNovaRadius:
		return &s.NovaRadius, nil
	case StatNovaPercent:
		return &s.NovaPercent, nil
	case StatXP:
		return &s.XPMultiplier, nil
	}
	return nil, nil
}

// Derive applies modifiers to base. Unknown stats are ignored. Chances
// are capped at 1 and falloffs kept within [0, 1].
func Derive(base Stats, mods []Modifier) Stats {
	type acc struct{ add, mult float64 }
	sums := make(map[Stat]acc)
	var order []Stat
	for _, m := range mods {
		a, seen := sums[m.Stat]
		if !seen {
			order = append(order, m.Stat)
		}
		a.add += m.Add
		a.mult += m.Mult
		sums[m.Stat] = a
	}

	out := base
	for _, stat := range order {
		a := sums[stat]
		f, i := out.field(stat)
		switch {
		case f != nil:
			*f = (*f + a.add) * (1 + a.mult)
		case i != nil:
			*i = int((float64(*i) + a.add) * (1 + a.mult))
		}
	}

	out.CritChance = clamp01(out.CritChance)
	out.DodgeChance = clamp01(out.DodgeChance)
	out.FireChance = clamp01(out.FireChance)
	out.PoisonChance = clamp01(out.PoisonChance)
	out.BleedChance = clamp01(out.BleedChance)
	out.FreezeChance = clamp01(out.FreezeChance)
	out.PierceFalloff = clamp01(out.PierceFalloff)
	out.ChainFalloff = clamp01(out.ChainFalloff)
	if out.MaxHP < 1 {
		out.MaxHP = 1
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
