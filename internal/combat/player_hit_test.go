package combat

import (
	"arena-roguelite/internal/clock"
	"arena-roguelite/internal/component"
	"arena-roguelite/internal/event"
	"arena-roguelite/internal/player"
	"arena-roguelite/internal/vmath"
	"testing"
)

func newPlayer() *player.Player {
	p := player.New(player.BaseStats, nil)
	p.Pos = vmath.Vec{X: 400, Y: 300}
	return p
}

func TestHitPlayerOutcomes(t *testing.T) {
	tests := []struct {
		name     string
		shield   float64
		bonus    float64
		dodge    float64
		amount   float64
		want     Outcome
		wantHP   float64
		wantShld float64
		events   int
	}{
		{"shield covers all", 30, 0, 1, 20, OutcomeAbsorbed, 100, 10, 0},
		{"shield exactly equal", 20, 0, 0, 20, OutcomeAbsorbed, 100, 0, 0},
		{"shield partial", 5, 0, 0, 20, OutcomeDamaged, 85, 0, 1},
		{"dodge after partial shield", 5, 0, 1, 20, OutcomeDodged, 100, 0, 1},
		{"iron will first", 0, 10, 0, 25, OutcomeDamaged, 85, 0, 1},
		{"lethal", 0, 0, 0, 150, OutcomeKilled, 0, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(1)
			p := newPlayer()
			p.Shield = tt.shield
			p.BonusHP = tt.bonus
			p.Stats.DodgeChance = tt.dodge

			got := f.r.HitPlayer(p, tt.amount, "test")
			if got.Outcome != tt.want {
				t.Fatalf("outcome = %v; want %v", got.Outcome, tt.want)
			}
			if p.HP != tt.wantHP || p.Shield != tt.wantShld {
				t.Fatalf("hp/shield = %v/%v; want %v/%v", p.HP, p.Shield, tt.wantHP, tt.wantShld)
			}
			if len(f.rec.Events) != tt.events {
				t.Fatalf("events = %+v; want %d", f.rec.Events, tt.events)
			}
		})
	}
}

func TestDodgeIsReportedDistinctly(t *testing.T) {
	f := newFixture(1)
	p := newPlayer()
	p.Stats.DodgeChance = 1
	f.r.HitPlayer(p, 10, "bat")
	if len(event.Of[event.PlayerDodged](f.rec)) != 1 || len(event.Of[event.PlayerDamaged](f.rec)) != 0 {
		t.Fatalf("events = %+v", f.rec.Events)
	}
}

func TestInvinciblePlayerIgnoresHits(t *testing.T) {
	f := newFixture(1)
	p := newPlayer()
	p.Shield = 10
	p.InvincibleUntil = 5
	if got := f.r.HitPlayer(p, 50, "test"); got.Outcome != OutcomeInvincible {
		t.Fatalf("outcome = %v", got.Outcome)
	}
	if p.Shield != 10 || p.HP != 100 {
		t.Fatal("invincible hit consumed shield or health")
	}
	f.advance(5)
	if got := f.r.HitPlayer(p, 50, "test"); got.Outcome == OutcomeInvincible {
		t.Fatal("invincibility did not expire")
	}
}

func TestMeleeCooldown(t *testing.T) {
	f := newFixture(1)
	p := newPlayer()
	e := f.enemy(410, 300, 100)
	f.w.Add(e, component.Melee{Range: 4, Cooldown: clock.Tick(30)})

	if got := f.r.Melee(e, p); got.Outcome != OutcomeDamaged {
		t.Fatalf("first melee outcome = %v", got.Outcome)
	}
	if got := f.r.Melee(e, p); got.Outcome != OutcomeNone {
		t.Fatalf("melee during cooldown = %v", got.Outcome)
	}
	f.advance(30)
	if !f.r.MeleeReady(e, p) {
		t.Fatal("melee should be ready after cooldown")
	}
	if p.HP != 90 {
		t.Fatalf("hp = %v; want 90", p.HP)
	}
}

func TestFrozenEnemyCannotMelee(t *testing.T) {
	f := newFixture(1)
	p := newPlayer()
	e := f.enemy(410, 300, 100)
	f.w.Add(e, component.Melee{Range: 4, Cooldown: 30})
	f.r.ApplyStatus(e, Freeze, 0)
	if f.r.MeleeReady(e, p) {
		t.Fatal("frozen enemy attacked")
	}
}

func TestMeleeOutOfRange(t *testing.T) {
	f := newFixture(1)
	p := newPlayer()
	e := f.enemy(500, 300, 100)
	f.w.Add(e, component.Melee{Range: 4, Cooldown: 30})
	if f.r.MeleeReady(e, p) {
		t.Fatal("enemy 100 units away should be out of reach")
	}
}
