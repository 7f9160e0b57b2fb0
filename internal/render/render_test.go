package render

import (
	"arena-roguelite/internal/clock"
	"arena-roguelite/internal/component"
	"arena-roguelite/internal/ecs"
	"arena-roguelite/internal/event"
	"arena-roguelite/internal/player"
	"arena-roguelite/internal/room"
	"arena-roguelite/internal/run"
	"arena-roguelite/internal/scaling"
	"arena-roguelite/internal/vmath"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
)

var testArena = vmath.Rect{Max: vmath.Vec{X: 800, Y: 600}}

func newSimScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	ss := tcell.NewSimulationScreen("UTF-8")
	if err := ss.Init(); err != nil {
		t.Fatalf("SimulationScreen.Init: %v", err)
	}
	ss.SetSize(84, 29)
	t.Cleanup(ss.Fini)
	return ss
}

// fakeView is a hand-assembled game for drawing.
type fakeView struct {
	world   *ecs.World
	clock   *clock.Clock
	player  *player.Player
	room    room.State
	run     *run.State
	chapter *scaling.Chapter
	phase   run.Phase
	paused  bool
}

func newView(t *testing.T) *fakeView {
	t.Helper()
	ch, _ := scaling.Default().Chapter(1)
	p := player.New(player.BaseStats, nil)
	p.Pos = testArena.Center()
	return &fakeView{
		world:   ecs.NewWorld(),
		clock:   clock.New(60),
		player:  p,
		room:    room.State{Room: 3, Total: 20, Wave: 1, Phase: room.Active},
		run:     run.NewState(1, 1, "normal", false, 0, time.Now()),
		chapter: ch,
	}
}

func (v *fakeView) World() *ecs.World         { return v.world }
func (v *fakeView) Clock() *clock.Clock       { return v.clock }
func (v *fakeView) Player() *player.Player    { return v.player }
func (v *fakeView) Arena() vmath.Rect         { return testArena }
func (v *fakeView) Room() room.State          { return v.room }
func (v *fakeView) Run() *run.State           { return v.run }
func (v *fakeView) Chapter() *scaling.Chapter { return v.chapter }
func (v *fakeView) Phase() run.Phase          { return v.phase }
func (v *fakeView) Paused() bool              { return v.paused }

func rowText(s tcell.Screen, y int) string {
	w, _ := s.Size()
	var b strings.Builder
	for x := 0; x < w; x++ {
		r, _, _, _ := s.GetContent(x, y)
		b.WriteRune(r)
	}
	return b.String()
}

func screenText(s tcell.Screen) string {
	_, h := s.Size()
	var rows []string
	for y := 0; y < h; y++ {
		rows = append(rows, rowText(s, y))
	}
	return strings.Join(rows, "\n")
}

func TestCameraMapsArenaCorners(t *testing.T) {
	c := NewCamera(testArena, 80, 20)
	tests := []struct {
		name   string
		p      vmath.Vec
		sx, sy int
		ok     bool
	}{
		{"origin", vmath.Vec{}, 0, 0, true},
		{"far corner", testArena.Max, 78, 19, true},
		{"centre", testArena.Center(), 40, 10, true},
		{"outside", vmath.Vec{X: -1, Y: 10}, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sx, sy, ok := c.ArenaToScreen(tt.p)
			if ok != tt.ok || (ok && (sx != tt.sx || sy != tt.sy)) {
				t.Errorf("ArenaToScreen(%v) = %d,%d,%v; want %d,%d,%v", tt.p, sx, sy, ok, tt.sx, tt.sy, tt.ok)
			}
		})
	}
	if _, _, ok := NewCamera(testArena, 0, 0).ArenaToScreen(vmath.Vec{}); ok {
		t.Error("empty viewport reported visible")
	}
}

func TestScreenToArenaRoundTrip(t *testing.T) {
	c := NewCamera(testArena, 80, 20)
	p := c.ScreenToArena(40, 10)
	sx, sy, ok := c.ArenaToScreen(p)
	if !ok || sx != 40 || sy != 10 {
		t.Errorf("round trip = %d,%d,%v", sx, sy, ok)
	}
}

func TestDrawFrameShowsPlayerAndEntities(t *testing.T) {
	ss := newSimScreen(t)
	v := newView(t)
	r := NewRenderer(ss, testArena, 1)

	shot := v.world.CreateEntity()
	v.world.Add(shot, component.Position{Vec: vmath.Vec{X: 10, Y: 10}})
	v.world.Add(shot, component.Projectile{Active: true, Hostile: true})
	gold := v.world.CreateEntity()
	v.world.Add(gold, component.Position{Vec: vmath.Vec{X: 790, Y: 590}})
	v.world.Add(gold, component.Pickup{Kind: component.PickupGold, Value: 3})

	r.DrawFrame(v, nil)

	sx, sy, _ := r.Camera().ArenaToScreen(v.player.Pos)
	if got, _, _, _ := ss.GetContent(sx+2, sy+1); got != []rune(glyphPlayer)[0] {
		t.Errorf("player cell = %q", got)
	}
	sx, sy, _ = r.Camera().ArenaToScreen(vmath.Vec{X: 10, Y: 10})
	if got, _, _, _ := ss.GetContent(sx+2, sy+1); got != []rune(glyphEnemyShot)[0] {
		t.Errorf("enemy shot cell = %q", got)
	}
	if !strings.Contains(screenText(ss), "Room 3/20") {
		t.Error("HUD room label missing")
	}
}

func TestInactiveProjectilesAreHidden(t *testing.T) {
	v := newView(t)
	r := NewRenderer(newSimScreen(t), testArena, 1)
	id := v.world.CreateEntity()
	v.world.Add(id, component.Projectile{})
	if _, ok := r.describe(v.world, id, vmath.Vec{}); ok {
		t.Error("spent projectile drawn")
	}
	v.world.Add(id, component.Projectile{Active: true})
	if d, ok := r.describe(v.world, id, vmath.Vec{}); !ok || d.glyph != glyphShot {
		t.Errorf("player shot = %+v, %v", d, ok)
	}
}

func TestOverlays(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*fakeView)
		want   string
	}{
		{"respawn", func(v *fakeView) { v.phase = run.AwaitingRespawn }, "[r] respawn"},
		{"paused", func(v *fakeView) { v.paused = true }, "Paused"},
		{"victory", func(v *fakeView) { v.phase = run.Ended; v.room.Phase = room.Victory }, "Victory!"},
		{"door", func(v *fakeView) { v.room.Phase = room.DoorAvailable }, "press [e]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ss := newSimScreen(t)
			v := newView(t)
			tt.mutate(v)
			NewRenderer(ss, testArena, 1).DrawFrame(v, nil)
			if !strings.Contains(screenText(ss), tt.want) {
				t.Errorf("screen lacks %q", tt.want)
			}
		})
	}
}

func TestBossBarFollowsEvents(t *testing.T) {
	ss := newSimScreen(t)
	v := newView(t)
	v.room.Boss = 7
	log := NewMessageLog(0)
	log.Handle(event.BossHealthChanged{Boss: 7, Current: 50, Max: 200})

	NewRenderer(ss, testArena, 1).DrawFrame(v, log)
	if !strings.Contains(rowText(ss, 0), "BOSS") || !strings.Contains(rowText(ss, 0), "50/200") {
		t.Errorf("top row = %q", rowText(ss, 0))
	}

	log.Handle(event.BossCleared{Boss: 7})
	if _, m := log.Boss(); m != 0 {
		t.Error("boss bar not reset")
	}
}

func TestMessageLogKeepsNewest(t *testing.T) {
	log := NewMessageLog(2)
	log.Handle(event.RoomEntered{Room: 1, Total: 20, Kind: "combat"})
	log.Handle(event.EnemyDamaged{Amount: 3})
	log.Handle(event.RoomCleared{Room: 1, GoldCollected: 4})
	log.Handle(event.LevelUp{Level: 2, Choices: 1})

	got := log.Last(5)
	want := []string{"Room cleared. +4 gold.", "Level 2! Choose an ability."}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("lines = %q; want %q", got, want)
	}
}

func TestChoicesAndFit(t *testing.T) {
	ss := newSimScreen(t)
	r := NewRenderer(ss, testArena, 2)
	r.DrawChoices(player.Abilities[:2])
	if !strings.Contains(screenText(ss), "[2] "+player.Abilities[1].Name) {
		t.Error("second offer not listed")
	}
	if got := fit("abcdef", 4); got != "abc…" {
		t.Errorf("fit = %q", got)
	}
	if ThemeFor(99) != Themes[0] {
		t.Error("unknown chapter should use the fallback theme")
	}
}
