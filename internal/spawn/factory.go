package spawn

import (
	"arena-roguelite/internal/clock"
	"arena-roguelite/internal/component"
	"arena-roguelite/internal/ecs"
	"arena-roguelite/internal/scaling"
	"arena-roguelite/internal/vmath"
	"time"

	"github.com/gdamore/tcell/v2"
)

const (
	meleeRange    = 4.0
	meleeCooldown = time.Second
)

// Stats is the scaled stat line an enemy is created with.
type Stats struct {
	Rank   component.Rank
	HPMul  float64
	DmgMul float64
	Mods   scaling.Modifiers
}

// StatsFor picks the scale multipliers for a rank: bosses and mini-bosses
// use the boss multipliers.
func StatsFor(rank component.Rank, s scaling.Scale, mods scaling.Modifiers) Stats {
	st := Stats{Rank: rank, HPMul: s.EnemyHP, DmgMul: s.EnemyDamage, Mods: mods}
	if rank != component.RankRegular {
		st.HPMul, st.DmgMul = s.BossHP, s.BossDamage
	}
	return st
}

func seconds(clk *clock.Clock, s float64) clock.Tick {
	return clk.Ticks(time.Duration(s * float64(time.Second)))
}

// NewEnemy creates an enemy entity from a bestiary entry at pos.
func NewEnemy(w *ecs.World, clk *clock.Clock, def scaling.EnemyDef, st Stats, pos vmath.Vec) ecs.EntityID {
	hp := scaling.EnemyHP(def.HP, st.HPMul)
	if hp < 1 {
		hp = 1
	}
	id := w.CreateEntity()
	w.Add(id, component.Position{Vec: pos})
	w.Add(id, component.Velocity{})
	w.Add(id, component.Health{Current: hp, Max: hp})
	w.Add(id, component.Enemy{
		Kind:    def.Kind,
		Rank:    st.Rank,
		Damage:  def.Damage * st.DmgMul,
		Speed:   def.Speed * st.Mods.Speed,
		Radius:  def.Radius,
		GoldMin: def.GoldMin,
		GoldMax: def.GoldMax,
		XPBonus: def.XPBonus,
	})
	w.Add(id, component.Status{})
	if def.Damage > 0 {
		w.Add(id, component.Melee{
			Range:    meleeRange,
			Cooldown: seconds(clk, meleeCooldown.Seconds()*st.Mods.AttackCooldown),
			ReadyAt:  clk.Now(),
		})
	}
	if def.Ranged != nil {
		cd := seconds(clk, def.Ranged.Cooldown*st.Mods.AttackCooldown)
		w.Add(id, component.Ranged{
			Damage:          def.Ranged.Damage * st.DmgMul,
			ProjectileSpeed: def.Ranged.Speed * st.Mods.ProjectileSpeed,
			Cooldown:        cd,
			ReadyAt:         clk.Now() + cd,
		})
	}
	if st.Rank == component.RankBoss {
		w.Add(id, component.Boss{Name: def.Kind, Phase: component.PhaseIdle, PhaseUntil: clk.After(bossIdle)})
	}
	w.Add(id, component.Renderable{
		Glyph:       def.Glyph,
		FGColor:     rankColor(st.Rank),
		RenderOrder: 5,
	})
	return id
}

func rankColor(r component.Rank) tcell.Color {
	switch r {
	case component.RankBoss:
		return tcell.ColorPurple
	case component.RankMiniBoss:
		return tcell.ColorOrange
	}
	return tcell.ColorRed
}

// NewMarker creates the telegraph marker of a pending spawn.
func NewMarker(w *ecs.World, kind string, rank component.Rank, at vmath.Vec, ready clock.Tick) ecs.EntityID {
	id := w.CreateEntity()
	w.Add(id, component.Position{Vec: at})
	w.Add(id, component.TagPending{Kind: kind, Rank: rank, ReadyAt: ready})
	w.Add(id, component.Renderable{Glyph: "❗", FGColor: tcell.ColorYellow, RenderOrder: 1})
	return id
}

// NewDoor creates the room's exit door.
func NewDoor(w *ecs.World, at vmath.Vec) ecs.EntityID {
	id := w.CreateEntity()
	w.Add(id, component.Position{Vec: at})
	w.Add(id, component.Door{})
	w.Add(id, component.Renderable{Glyph: "🚪", FGColor: tcell.ColorWhite, RenderOrder: 1})
	return id
}
