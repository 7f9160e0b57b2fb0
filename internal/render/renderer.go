// Package render draws a run onto a tcell screen: the arena with its
// entities, a HUD and a scrolling message log fed by core events.
package render

import (
	"arena-roguelite/internal/clock"
	"arena-roguelite/internal/component"
	"arena-roguelite/internal/ecs"
	"arena-roguelite/internal/player"
	"arena-roguelite/internal/room"
	"arena-roguelite/internal/run"
	"arena-roguelite/internal/scaling"
	"arena-roguelite/internal/vmath"
	"sort"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// hudRows is the number of rows reserved at the bottom for the HUD.
const hudRows = 5

// View is the read-only slice of a running game the renderer draws.
type View interface {
	World() *ecs.World
	Clock() *clock.Clock
	Player() *player.Player
	Arena() vmath.Rect
	Room() room.State
	Run() *run.State
	Chapter() *scaling.Chapter
	Phase() run.Phase
	Paused() bool
}

// Renderer draws the game world onto a tcell screen.
type Renderer struct {
	screen tcell.Screen
	camera *Camera
	theme  ChapterTheme
}

// NewRenderer creates a Renderer for the given screen and arena.
func NewRenderer(screen tcell.Screen, arena vmath.Rect, chapter int) *Renderer {
	r := &Renderer{screen: screen, camera: NewCamera(arena, 0, 0), theme: ThemeFor(chapter)}
	r.Resize()
	return r
}

// Resize refits the camera to the current screen size. The arena sits
// inside a one-cell wall border above the HUD.
func (r *Renderer) Resize() {
	w, h := r.screen.Size()
	r.camera.ViewWidth = max(w-4, 0)
	r.camera.ViewHeight = max(h-hudRows-2, 0)
}

// Camera exposes the arena-to-screen mapping.
func (r *Renderer) Camera() *Camera { return r.camera }

// DrawFrame renders the arena, entities, HUD and overlays, then shows the
// screen.
func (r *Renderer) DrawFrame(v View, log *MessageLog) {
	r.screen.Clear()
	r.drawArena()
	r.drawEntities(v)
	r.DrawHUD(v, log)
	r.drawOverlay(v)
	r.screen.Show()
}

// drawArena renders the wall border and a sparse floor pattern.
func (r *Renderer) drawArena() {
	cw, ch := r.camera.Cells()
	wall := tcell.StyleDefault.Foreground(r.theme.Accent)
	floor := tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	for x := -1; x <= cw; x++ {
		r.putGlyph(2+x*2, 0, r.theme.Wall, wall)
		r.putGlyph(2+x*2, ch+1, r.theme.Wall, wall)
	}
	for y := 0; y < ch; y++ {
		r.putGlyph(0, y+1, r.theme.Wall, wall)
		r.putGlyph(2+cw*2, y+1, r.theme.Wall, wall)
		for x := (y % 2) * 2; x < cw; x += 4 {
			r.putGlyph(2+x*2, y+1, r.theme.Floor, floor)
		}
	}
}

// drawable holds sorting info for entity rendering.
type drawable struct {
	id    ecs.EntityID
	order int
	pos   vmath.Vec
	glyph string
	style tcell.Style
}

// drawEntities renders pickups, projectiles and everything Renderable,
// ordered by render order, then the player on top.
func (r *Renderer) drawEntities(v View) {
	w := v.World()
	var ds []drawable
	for _, id := range w.Query(component.CPosition) {
		pos := w.Get(id, component.CPosition).(component.Position).Vec
		if d, ok := r.describe(w, id, pos); ok {
			ds = append(ds, d)
		}
	}
	sort.Slice(ds, func(i, j int) bool {
		if ds[i].order != ds[j].order {
			return ds[i].order < ds[j].order
		}
		return ds[i].id < ds[j].id
	})
	for _, d := range ds {
		r.putArena(d.pos, d.glyph, d.style)
	}

	p := v.Player()
	style := tcell.StyleDefault
	if p.Invincible(v.Clock().Now()) {
		style = style.Dim(true)
	}
	r.putArena(p.Pos, glyphPlayer, style)
}

func (r *Renderer) describe(w *ecs.World, id ecs.EntityID, pos vmath.Vec) (drawable, bool) {
	d := drawable{id: id, pos: pos, style: tcell.StyleDefault}
	switch {
	case w.Has(id, component.CProjectile):
		pr := w.Get(id, component.CProjectile).(component.Projectile)
		if !pr.Active {
			return d, false
		}
		d.order = 8
		d.glyph, d.style = glyphShot, d.style.Foreground(colorShot)
		if pr.Hostile {
			d.glyph, d.style = glyphEnemyShot, d.style.Foreground(colorEnemyShot)
		}
		return d, true
	case w.Has(id, component.CPickup):
		pk := w.Get(id, component.CPickup).(component.Pickup)
		d.order = 2
		d.glyph = glyphGold
		if pk.Kind == component.PickupHealth {
			d.glyph = glyphHealth
		}
		return d, true
	case w.Has(id, component.CRenderable):
		rend := w.Get(id, component.CRenderable).(component.Renderable)
		d.order, d.glyph = rend.RenderOrder, rend.Glyph
		d.style = d.style.Foreground(rend.FGColor)
		if e, ok := w.Get(id, component.CEnemy).(component.Enemy); ok && e.Dead {
			d.glyph = glyphDeadMarker
		}
		return d, d.glyph != ""
	}
	return d, false
}

func (r *Renderer) putArena(p vmath.Vec, glyph string, style tcell.Style) {
	sx, sy, ok := r.camera.ArenaToScreen(p)
	if !ok {
		return
	}
	r.putGlyph(sx+2, sy+1, glyph, style)
}

// putGlyph draws a single glyph (ASCII or multi-rune emoji) at screen position (x, y).
func (r *Renderer) putGlyph(x, y int, glyph string, style tcell.Style) {
	runes := []rune(glyph)
	if len(runes) == 0 {
		return
	}
	r.screen.SetContent(x, y, runes[0], runes[1:], style)
	if runewidth.StringWidth(glyph) == 2 {
		// Fill the second column to avoid rendering artifacts.
		r.screen.SetContent(x+1, y, ' ', nil, style)
	}
}
