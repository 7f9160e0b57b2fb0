package render

import (
	"arena-roguelite/internal/player"
	"arena-roguelite/internal/room"
	"arena-roguelite/internal/run"
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

const barWidth = 20

// DrawHUD renders the status lines and message log at the bottom of the
// screen, and the boss bar over the top wall.
func (r *Renderer) DrawHUD(v View, log *MessageLog) {
	w, h := r.screen.Size()
	hudY := h - hudRows

	r.drawHLine(hudY, tcell.ColorGray)

	p := v.Player()
	hpColor := colorHPGood
	if p.HP < p.Stats.MaxHP*0.3 {
		hpColor = colorHPLow
	}
	col := r.drawText(0, hudY+1, "HP ", tcell.StyleDefault)
	col = r.drawText(col, hudY+1, bar(p.HP, p.Stats.MaxHP, barWidth), tcell.StyleDefault.Foreground(hpColor))
	col = r.drawText(col, hudY+1, fmt.Sprintf(" %.0f/%.0f", p.HP, p.Stats.MaxHP), tcell.StyleDefault)
	if p.Shield > 0 || p.BonusHP > 0 {
		col = r.drawText(col, hudY+1, fmt.Sprintf("  🛡 %.0f", p.Shield+p.BonusHP), tcell.StyleDefault.Foreground(colorShield))
	}
	st := v.Room()
	rs := v.Run()
	status := fmt.Sprintf("  Lv %d (%d/%d)  %s  💰 %d  ☠ %d",
		p.Level, p.XP, player.XPToNext(p.Level), roomLabel(st), rs.Gold, rs.Kills)
	r.drawText(col, hudY+1, fit(status, w-col), tcell.StyleDefault.Foreground(tcell.ColorWhite))

	info := fmt.Sprintf("%s  [%s]", v.Chapter().Name, rs.Difficulty)
	if p.Choices > 0 {
		info += fmt.Sprintf("  ✨ %d ability pick(s) waiting", p.Choices)
	}
	r.drawText(0, hudY+2, fit(info, w), tcell.StyleDefault.Foreground(r.theme.Accent))

	if log == nil {
		return
	}
	for i, msg := range log.Last(hudRows - 3) {
		r.drawText(0, hudY+3+i, fit(msg, w), tcell.StyleDefault.Foreground(colorMessage))
	}
	if cur, maxHP := log.Boss(); maxHP > 0 && st.Boss != 0 {
		label := fmt.Sprintf(" BOSS %s %.0f/%.0f ", bar(cur, maxHP, barWidth), cur, maxHP)
		x := max((w-runewidth.StringWidth(label))/2, 0)
		r.drawText(x, 0, label, tcell.StyleDefault.Foreground(colorBoss).Bold(true))
	}
}

func roomLabel(st room.State) string {
	s := fmt.Sprintf("Room %d/%d", st.Room, st.Total)
	if st.Endless {
		s += fmt.Sprintf(" Wave %d", st.Wave)
	}
	return s
}

// bar draws a fixed-width gauge.
func bar(cur, maxV float64, width int) string {
	n := 0
	if maxV > 0 {
		n = int(cur / maxV * float64(width))
	}
	n = min(max(n, 0), width)
	return strings.Repeat("█", n) + strings.Repeat("░", width-n)
}

// drawOverlay shows the pause, respawn, door and end-of-run prompts.
func (r *Renderer) drawOverlay(v View) {
	var lines []string
	switch {
	case v.Phase() == run.AwaitingRespawn:
		lines = []string{"You have fallen.", "[r] respawn   [q] give up"}
	case v.Phase() == run.Ended && v.Room().Phase == room.Victory:
		lines = []string{"Victory!", "[q] leave"}
	case v.Phase() == run.Ended:
		lines = []string{"Run over.", "[q] leave"}
	case v.Paused():
		lines = []string{"Paused", "[p] resume   [k] skip run"}
	case v.Room().Phase == room.DoorAvailable:
		lines = []string{"Walk to the 🚪 and press [e]"}
	default:
		return
	}
	_, ch := r.camera.Cells()
	y := max(ch/2-len(lines)/2, 1)
	style := tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	for i, l := range lines {
		r.center(y+i, l, style)
	}
}

// DrawChoices lists level-up offers over the arena.
func (r *Renderer) DrawChoices(offers []player.Ability) {
	if len(offers) == 0 {
		return
	}
	_, ch := r.camera.Cells()
	y := max(ch/2-len(offers), 1)
	style := tcell.StyleDefault.Foreground(tcell.ColorLightCyan)
	r.center(y, "Level up! Choose:", style.Bold(true))
	for i, a := range offers {
		r.center(y+2+i, fmt.Sprintf("[%d] %s", i+1, a.Name), style)
	}
	r.screen.Show()
}

func (r *Renderer) center(y int, text string, style tcell.Style) {
	w, _ := r.screen.Size()
	r.drawText(max((w-runewidth.StringWidth(text))/2, 0), y, text, style)
}

func (r *Renderer) drawHLine(y int, color tcell.Color) {
	w, _ := r.screen.Size()
	style := tcell.StyleDefault.Foreground(color)
	for x := 0; x < w; x++ {
		r.screen.SetContent(x, y, '─', nil, style)
	}
}

// drawText writes text from column x and returns the column after it.
func (r *Renderer) drawText(x, y int, text string, style tcell.Style) int {
	col := x
	for _, ch := range text {
		r.screen.SetContent(col, y, ch, nil, style)
		col += max(runewidth.RuneWidth(ch), 1)
	}
	return col
}
