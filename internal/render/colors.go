package render

import "github.com/gdamore/tcell/v2"

// ChapterTheme holds the glyphs and colours used to draw one chapter's
// arena. Emoji carry their own colours, so walls and floor are told apart
// by glyph rather than by tint.
type ChapterTheme struct {
	Wall   string
	Floor  string
	Accent tcell.Color
}

// Themes maps chapter id to its theme. Index 0 is the fallback.
var Themes = [...]ChapterTheme{
	{Wall: "🧱", Floor: "·", Accent: tcell.ColorGray},
	// Verdant Hollow: overgrown stone
	{Wall: "🌳", Floor: "·", Accent: tcell.ColorGreen},
	// Ember Wastes: scorched ground
	{Wall: "🌋", Floor: "·", Accent: tcell.ColorOrangeRed},
	// Frozen Depths
	{Wall: "🧊", Floor: "·", Accent: tcell.ColorLightCyan},
	// Iron Citadel
	{Wall: "⬛", Floor: "·", Accent: tcell.ColorSilver},
	// Void Spire
	{Wall: "🟪", Floor: "·", Accent: tcell.ColorPurple},
}

// ThemeFor returns the theme of chapter id.
func ThemeFor(id int) ChapterTheme {
	if id <= 0 || id >= len(Themes) {
		return Themes[0]
	}
	return Themes[id]
}

// Glyphs for entities that carry no Renderable.
const (
	glyphPlayer     = "🧙"
	glyphGold       = "💰"
	glyphHealth     = "💖"
	glyphShot       = "•"
	glyphEnemyShot  = "✹"
	glyphDeadMarker = "💥"
)

var (
	colorShot      = tcell.ColorAqua
	colorEnemyShot = tcell.ColorRed
	colorHPGood    = tcell.ColorGreen
	colorHPLow     = tcell.ColorRed
	colorShield    = tcell.ColorLightBlue
	colorBoss      = tcell.ColorPurple
	colorMessage   = tcell.ColorLightYellow
)
