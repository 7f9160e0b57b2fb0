package reward

import (
	"arena-roguelite/internal/clock"
	"arena-roguelite/internal/combat"
	"arena-roguelite/internal/component"
	"arena-roguelite/internal/ecs"
	"arena-roguelite/internal/event"
	"arena-roguelite/internal/player"
	"arena-roguelite/internal/run"
	"arena-roguelite/internal/scaling"
	"arena-roguelite/internal/vmath"
	"errors"
	"io"
	"log/slog"
	"math/rand"
	"testing"
	"time"
)

type fakeRoom struct {
	boss   ecs.EntityID
	checks int
}

func (r *fakeRoom) ClearBoss(id ecs.EntityID) bool {
	if id == ecs.NilEntity || id != r.boss {
		return false
	}
	r.boss = ecs.NilEntity
	return true
}

func (r *fakeRoom) CheckClear() { r.checks++ }

type bossLog struct {
	kinds []string
	err   error
}

func (b *bossLog) RecordBossKill(_ int, kind string) error {
	b.kinds = append(b.kinds, kind)
	return b.err
}

type fixture struct {
	w     *ecs.World
	rec   *event.Recorder
	room  *fakeRoom
	bl    *bossLog
	p     *Pipeline
	pl    *player.Player
	state *run.State
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	w := ecs.NewWorld()
	rec := &event.Recorder{}
	ev := event.NewDispatcher(rec)
	rng := rand.New(rand.NewSource(3))
	res := combat.NewResolver(w, rng, clock.New(60), ev, vmath.Rect{Max: vmath.Vec{X: 800, Y: 600}})
	pl := player.New(player.BaseStats, nil)
	f := &fixture{
		w:     w,
		rec:   rec,
		room:  &fakeRoom{},
		bl:    &bossLog{},
		pl:    pl,
		state: run.NewState(3, 1, "normal", false, 0, time.Now()),
	}
	f.p = New(Deps{
		World:      w,
		Rng:        rng,
		Events:     ev,
		Combat:     res,
		Player:     pl,
		State:      f.state,
		Room:       f.room,
		Bosses:     f.bl,
		Chapter:    &scaling.Chapter{ID: 1, XP: 1},
		Difficulty: scaling.Normal,
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return f
}

func (f *fixture) enemy(x, y, hp float64, rank component.Rank) ecs.EntityID {
	id := f.w.CreateEntity()
	f.w.Add(id, component.Position{Vec: vmath.Vec{X: x, Y: y}})
	f.w.Add(id, component.Health{Current: hp, Max: hp})
	f.w.Add(id, component.Enemy{Kind: "slime", Rank: rank, Radius: 8, XPBonus: 1})
	return id
}

func kill(id ecs.EntityID, rank component.Rank) combat.Kill {
	return combat.Kill{Enemy: id, Kind: "treant", Rank: rank, MaxHP: 50, XPBonus: 1}
}

func TestBossClearedExactlyOnceInBatch(t *testing.T) {
	f := newFixture(t)
	boss := f.enemy(100, 100, 0, component.RankBoss)
	minion := f.enemy(120, 100, 0, component.RankRegular)
	f.room.boss = boss

	f.p.ProcessKills([]combat.Kill{kill(boss, component.RankBoss), kill(minion, component.RankRegular), kill(boss, component.RankBoss)})
	f.p.ProcessKills([]combat.Kill{kill(boss, component.RankBoss)})

	if got := event.Of[event.BossCleared](f.rec); len(got) != 1 {
		t.Fatalf("BossCleared emitted %d times", len(got))
	}
	if f.state.Kills != 2 {
		t.Fatalf("kills = %d; want 2", f.state.Kills)
	}
	if len(f.bl.kinds) != 1 {
		t.Fatalf("boss log writes = %v", f.bl.kinds)
	}
	if f.room.checks != 2 {
		t.Fatalf("clear checks = %d; want one per batch", f.room.checks)
	}
}

func TestBossLogErrorIsIgnored(t *testing.T) {
	f := newFixture(t)
	boss := f.enemy(100, 100, 0, component.RankBoss)
	f.room.boss = boss
	f.bl.err = errors.New("disk full")
	f.p.ProcessKills([]combat.Kill{kill(boss, component.RankBoss)})
	if len(event.Of[event.BossCleared](f.rec)) != 1 {
		t.Fatal("boss clear should not depend on the boss log")
	}
}

func TestNovaExcludesVictimAndNeverRecurses(t *testing.T) {
	f := newFixture(t)
	f.pl.Stats.NovaRadius = 100
	f.pl.Stats.NovaPercent = 1
	victim := f.enemy(100, 100, 0, component.RankRegular)
	near := f.enemy(150, 100, 10, component.RankRegular)
	beyond := f.enemy(240, 100, 10, component.RankRegular)

	f.p.ProcessKills([]combat.Kill{{Enemy: victim, Kind: "slime", Pos: vmath.Vec{X: 100, Y: 100}, MaxHP: 50, XPBonus: 1}})

	if !f.p.Handled(near) {
		t.Fatal("nova kill was not processed")
	}
	if hp := f.w.Get(beyond, component.CHealth).(component.Health).Current; hp != 10 {
		t.Fatalf("nova recursed: beyond hp = %v", hp)
	}
	if f.state.Kills != 2 {
		t.Fatalf("kills = %d; want 2", f.state.Kills)
	}
	for _, d := range event.Of[event.EnemyDamaged](f.rec) {
		if d.Enemy == victim {
			t.Fatal("nova damaged its own victim")
		}
	}
}

func TestLifeStealHeals(t *testing.T) {
	f := newFixture(t)
	f.pl.Stats.LifeSteal = 3
	f.pl.HP = 50
	e := f.enemy(100, 100, 0, component.RankRegular)
	f.p.ProcessKills([]combat.Kill{kill(e, component.RankRegular)})
	if f.pl.HP != 53 {
		t.Fatalf("hp = %v; want 53", f.pl.HP)
	}
}

func TestPotionValueClamp(t *testing.T) {
	tests := []struct {
		maxHP, damping float64
		want           int
	}{
		{100, 1, 15},
		{300, 1, 30},
		{300, 0.5, 15},
		{2000, 1, 100},
		{450, 0.75, 34},
	}
	for _, tt := range tests {
		if got := PotionValue(tt.maxHP, tt.damping); got != tt.want {
			t.Errorf("PotionValue(%v, %v) = %d; want %d", tt.maxHP, tt.damping, got, tt.want)
		}
	}
}

func TestKillXP(t *testing.T) {
	tests := []struct {
		name                string
		boss                bool
		bonus, chapter, mul float64
		want                int
	}{
		{"regular", false, 1, 1, 1, 2},
		{"unset bonus", false, 0, 1, 1, 2},
		{"boss", true, 1, 1, 1, 10},
		{"scaled boss", true, 1.5, 2.2, 1.1, 36},
		{"chapter five regular", false, 1, 4, 1.25, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KillXP(tt.boss, tt.bonus, tt.chapter, tt.mul); got != tt.want {
				t.Fatalf("KillXP = %d; want %d", got, tt.want)
			}
		})
	}
}

func TestXPLevelsUpAndCreditsHeroXP(t *testing.T) {
	f := newFixture(t)
	f.p.Chapter = &scaling.Chapter{ID: 1, XP: 5}
	e := f.enemy(100, 100, 0, component.RankRegular)
	f.p.ProcessKills([]combat.Kill{kill(e, component.RankRegular)})

	if f.state.XP != 10 || f.state.HeroXP != 10 {
		t.Fatalf("xp/hero = %d/%d; want 10/10", f.state.XP, f.state.HeroXP)
	}
	ups := event.Of[event.LevelUp](f.rec)
	if len(ups) != 1 || ups[0].Level != 2 || ups[0].Choices != 1 {
		t.Fatalf("level ups = %+v", ups)
	}
}

func TestGoldDropRate(t *testing.T) {
	f := newFixture(t)
	n := 2000
	kills := make([]combat.Kill, n)
	for i := range kills {
		id := f.enemy(100, 100, 0, component.RankRegular)
		kills[i] = combat.Kill{Enemy: id, Kind: "slime", GoldMin: 2, GoldMax: 4, XPBonus: 1}
	}
	f.p.ProcessKills(kills)

	gold := 0
	for _, id := range f.w.Query(component.CPickup) {
		pk := f.w.Get(id, component.CPickup).(component.Pickup)
		if pk.Kind != component.PickupGold {
			continue
		}
		if pk.Value < 2 || pk.Value > 4 {
			t.Fatalf("gold value %d outside [2,4]", pk.Value)
		}
		gold++
	}
	if gold < 900 || gold > 1100 {
		t.Fatalf("gold drops = %d/%d; want about half", gold, n)
	}
}

func TestCollect(t *testing.T) {
	f := newFixture(t)
	f.pl.HP = 60
	g := f.p.spawnPickup(vmath.Vec{}, component.PickupGold, 7)
	h := f.p.spawnPickup(vmath.Vec{}, component.PickupHealth, 50)

	if !f.p.Collect(g) || !f.p.Collect(h) {
		t.Fatal("collect failed")
	}
	if f.state.Gold != 7 || f.state.RoomGold != 7 {
		t.Fatalf("gold = %d room = %d", f.state.Gold, f.state.RoomGold)
	}
	if f.pl.HP != 100 || f.state.RoomHealth != 40 {
		t.Fatalf("hp = %v roomHealth = %v; want capped heal of 40", f.pl.HP, f.state.RoomHealth)
	}
	if f.w.Alive(g) || f.p.Collect(g) {
		t.Fatal("collected pickup should be gone")
	}
}
