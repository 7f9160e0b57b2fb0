package scaling

import (
	"math"
	"math/rand"
	"strings"
	"testing"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestDefaultTablesLoad(t *testing.T) {
	tb := Default()
	chapters := tb.Chapters()
	if len(chapters) != 5 {
		t.Fatalf("expected 5 chapters, got %d", len(chapters))
	}
	for i, c := range chapters {
		if c.ID != i+1 {
			t.Errorf("chapters not ordered: index %d has id %d", i, c.ID)
		}
	}
}

func TestRandomBossAlwaysFromPoolOrMainBoss(t *testing.T) {
	tb := Default()
	rng := rand.New(rand.NewSource(3))
	for _, c := range tb.Chapters() {
		allowed := map[string]bool{}
		for _, b := range c.BossPool {
			allowed[b] = true
		}
		if len(c.BossPool) == 0 {
			allowed[c.MainBoss] = true
		}
		for range 200 {
			got := tb.RandomBossForChapter(c.ID, rng)
			if !allowed[got] {
				t.Fatalf("chapter %d: boss %q not in pool %v (main %q)", c.ID, got, c.BossPool, c.MainBoss)
			}
		}
	}
	if got := tb.RandomBossForChapter(99, rng); got != "" {
		t.Fatalf("unknown chapter returned %q", got)
	}
}

func TestEmptyPoolsFallBackToMainBoss(t *testing.T) {
	c, ok := Default().Chapter(5)
	if !ok {
		t.Fatal("chapter 5 missing")
	}
	rng := rand.New(rand.NewSource(1))
	if got := c.RandomBoss(rng); got != c.MainBoss {
		t.Errorf("RandomBoss = %q; want main boss %q", got, c.MainBoss)
	}
	if got := c.RandomMiniBoss(rng); got != c.MainBoss {
		t.Errorf("RandomMiniBoss = %q; want main boss %q", got, c.MainBoss)
	}
}

func TestChapterWritesDoNotReachTables(t *testing.T) {
	tb := Default()
	c, _ := tb.Chapter(1)
	c.Rooms = 4
	c.BossPool[0] = "slime"

	again, _ := tb.Chapter(1)
	if again.Rooms != 20 || again.BossPool[0] == "slime" {
		t.Errorf("chapter 1 = %d rooms, pool %v; want the loaded definition", again.Rooms, again.BossPool)
	}
	if all := tb.Chapters(); all[0].Rooms != 20 {
		t.Errorf("Chapters()[0].Rooms = %d; want 20", all[0].Rooms)
	}
}

func TestRoomScaling(t *testing.T) {
	for room := 1; room <= 5; room++ {
		hp, dmg := RoomScaling(room)
		if hp != 1.0 || dmg != 1.0 {
			t.Errorf("room %d: got %v/%v; want exactly 1.0/1.0", room, hp, dmg)
		}
	}
	cases := []struct {
		room    int
		hp, dmg float64
	}{
		{6, 1.03, 1.02},
		{10, 1.15, 1.10},
		{20, 1.45, 1.30},
	}
	for _, tc := range cases {
		hp, dmg := RoomScaling(tc.room)
		if !approx(hp, tc.hp) || !approx(dmg, tc.dmg) {
			t.Errorf("room %d: got %v/%v; want %v/%v", tc.room, hp, dmg, tc.hp, tc.dmg)
		}
	}
}

func TestEndlessDifficulty(t *testing.T) {
	want := []float64{1.0, 1.5, 2.25, 3.375}
	prev := 0.0
	for i, w := range want {
		got := EndlessDifficulty(i + 1)
		if !approx(got, w) {
			t.Errorf("wave %d: got %v; want %v", i+1, got, w)
		}
		if got <= prev {
			t.Errorf("wave %d: difficulty not increasing", i+1)
		}
		prev = got
	}
}

func TestChapterThreeEnemyHP(t *testing.T) {
	c, _ := Default().Chapter(3)
	s := ScaleFor(c, 1, Normal, 1)
	if got := EnemyHP(100, s.EnemyHP); got != 700 {
		t.Fatalf("chapter 3 base 100 HP = %v; want 700", got)
	}
	hard := ScaleFor(c, 1, Hard, 1)
	if got := EnemyHP(100, hard.EnemyHP); got != 1050 {
		t.Fatalf("chapter 3 hard HP = %v; want 1050", got)
	}
}

func TestScaleCompoundsEndless(t *testing.T) {
	c, _ := Default().Chapter(1)
	base := ScaleFor(c, 10, Normal, 1)
	wave3 := ScaleFor(c, 10, Normal, EndlessDifficulty(3))
	if !approx(wave3.EnemyHP, base.EnemyHP*2.25) {
		t.Fatalf("endless did not compound: %v vs %v", wave3.EnemyHP, base.EnemyHP)
	}
	if !approx(base.EnemyHP, 1.15) {
		t.Fatalf("room 10 chapter 1 HP scale = %v; want 1.15", base.EnemyHP)
	}
}

func TestTablesScaleLooksUpChapter(t *testing.T) {
	tb := Default()
	if got := tb.Scale(3, 1, 2, Normal); !approx(got.EnemyHP, 7*1.5) {
		t.Fatalf("chapter 3 wave 2 HP scale = %v; want 10.5", got.EnemyHP)
	}
	if got := tb.Scale(99, 1, 1, Normal); got != Unit {
		t.Fatalf("unknown chapter scale = %+v; want Unit", got)
	}
}

func TestModifiersDefaultToOne(t *testing.T) {
	c, _ := Default().Chapter(2)
	if got := c.Modifiers("bat"); got != DefaultModifiers {
		t.Errorf("unlisted kind modifiers = %+v; want defaults", got)
	}
	imp := c.Modifiers("imp")
	if !approx(imp.Speed, 1.15) || imp.AttackCooldown != 1 || imp.SpawnWeight != 1 {
		t.Errorf("partial modifiers not defaulted: %+v", imp)
	}
}

func TestRoomTenIsSingleMiniBoss(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	for _, c := range Default().Chapters() {
		plan := c.PlanRoom(10, c.Rooms, rng)
		if plan.Kind != RoomMiniBoss {
			t.Fatalf("chapter %d room 10 kind = %v", c.ID, plan.Kind)
		}
		if len(plan.Spawns) != 1 {
			t.Fatalf("chapter %d room 10 spawns %d enemies; want 1", c.ID, len(plan.Spawns))
		}
		want := map[string]bool{c.MainBoss: len(c.MiniBossPool) == 0}
		for _, m := range c.MiniBossPool {
			want[m] = true
		}
		if !want[plan.Spawns[0]] {
			t.Fatalf("chapter %d room 10 spawned %q", c.ID, plan.Spawns[0])
		}
	}
}

func TestPlanRoomKinds(t *testing.T) {
	c, _ := Default().Chapter(1)
	rng := rand.New(rand.NewSource(2))
	cases := []struct {
		room int
		kind RoomKind
	}{
		{1, RoomCombat}, {5, RoomAngel}, {10, RoomMiniBoss}, {15, RoomAngel}, {19, RoomCombat}, {20, RoomBoss},
	}
	for _, tc := range cases {
		plan := c.PlanRoom(tc.room, 20, rng)
		if plan.Kind != tc.kind {
			t.Errorf("room %d kind = %v; want %v", tc.room, plan.Kind, tc.kind)
		}
		if tc.kind == RoomAngel && len(plan.Spawns) != 0 {
			t.Errorf("angel room %d spawns enemies", tc.room)
		}
		if tc.kind == RoomCombat {
			for _, s := range plan.Spawns {
				if s != "slime" && s != "bat" && s != "archer" {
					t.Errorf("room %d spawned off-roster kind %q", tc.room, s)
				}
			}
		}
	}
}

func TestDifficultyByLabel(t *testing.T) {
	if DifficultyByLabel(" HARD ") != Hard {
		t.Error("label lookup should be case/space insensitive")
	}
	if DifficultyByLabel("bogus") != Normal {
		t.Error("unknown label should fall back to normal")
	}
}

func TestLoadRejectsBadTables(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want string
	}{
		{"duplicate chapter", `
enemies: {a: {hp: 1}}
chapters:
  - {id: 1, rooms: 1, enemies: [a], main_boss: a, enemy_hp: 1, enemy_damage: 1, boss_hp: 1, boss_damage: 1, xp: 1, resist: {fire: 1, cold: 1, bleed: 1}}
  - {id: 1, rooms: 1, enemies: [a], main_boss: a, enemy_hp: 1, enemy_damage: 1, boss_hp: 1, boss_damage: 1, xp: 1, resist: {fire: 1, cold: 1, bleed: 1}}
`, "defined twice"},
		{"unknown kind", `
enemies: {a: {hp: 1}}
chapters:
  - {id: 1, rooms: 1, enemies: [b], main_boss: a, enemy_hp: 1, enemy_damage: 1, boss_hp: 1, boss_damage: 1, xp: 1, resist: {fire: 1, cold: 1, bleed: 1}}
`, "unknown enemy kind"},
		{"zero resistance", `
enemies: {a: {hp: 1}}
chapters:
  - {id: 1, rooms: 1, enemies: [a], main_boss: a, enemy_hp: 1, enemy_damage: 1, boss_hp: 1, boss_damage: 1, xp: 1, resist: {fire: 0, cold: 1, bleed: 1}}
`, "resist.fire"},
		{"missing main boss", `
enemies: {a: {hp: 1}}
chapters:
  - {id: 1, rooms: 1, enemies: [a], enemy_hp: 1, enemy_damage: 1, boss_hp: 1, boss_damage: 1, xp: 1, resist: {fire: 1, cold: 1, bleed: 1}}
`, "main boss"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tc.doc))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v; want it to mention %q", err, tc.want)
			}
		})
	}
}
