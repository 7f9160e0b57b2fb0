package render

import (
	"arena-roguelite/internal/event"
	"fmt"
	"sync"

	"github.com/mattn/go-runewidth"
)

// DefaultMessages is how many lines a MessageLog keeps.
const DefaultMessages = 50

// MessageLog turns core events into short player-facing lines. It is an
// event.Sink; noisy per-hit events are ignored.
type MessageLog struct {
	mu    sync.Mutex
	lines []string
	limit int

	// last BossHealthChanged, for the HUD bar
	bossHP, bossMax float64
}

// NewMessageLog keeps the last limit lines (DefaultMessages when <= 0).
func NewMessageLog(limit int) *MessageLog {
	if limit <= 0 {
		limit = DefaultMessages
	}
	return &MessageLog{limit: limit}
}

// Add appends a line, dropping the oldest past the limit.
func (m *MessageLog) Add(format string, args ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lines = append(m.lines, fmt.Sprintf(format, args...))
	if over := len(m.lines) - m.limit; over > 0 {
		m.lines = append(m.lines[:0], m.lines[over:]...)
	}
}

// Last returns up to n of the newest lines, oldest first.
func (m *MessageLog) Last(n int) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	start := max(len(m.lines)-n, 0)
	return append([]string(nil), m.lines[start:]...)
}

// Handle implements event.Sink.
func (m *MessageLog) Handle(e event.Event) {
	switch ev := e.(type) {
	case event.EnemyKilled:
		if ev.Boss {
			m.Add("The %s falls!", ev.Kind)
		}
	case event.BossHealthChanged:
		m.mu.Lock()
		m.bossHP, m.bossMax = ev.Current, ev.Max
		m.mu.Unlock()
	case event.BossCleared:
		m.mu.Lock()
		m.bossHP, m.bossMax = 0, 0
		m.mu.Unlock()
	case event.PlayerDodged:
		m.Add("You dodge the %s.", ev.Source)
	case event.PlayerHealed:
		m.Add("You recover %.0f HP (%s).", ev.Amount, ev.Source)
	case event.RoomEntered:
		m.Add("Room %d/%d: %s.", ev.Room, ev.Total, ev.Kind)
	case event.RoomCleared:
		m.Add("Room cleared. +%d gold.", ev.GoldCollected)
	case event.WaveStarted:
		m.Add("Wave %d begins (x%.2f).", ev.Wave, ev.Difficulty)
	case event.DoorOpened:
		m.Add("A door opens to the north.")
	case event.LevelUp:
		m.Add("Level %d! Choose an ability.", ev.Level)
	case event.GameOver:
		if ev.RespawnAvailable {
			m.Add("You have fallen. Respawn?")
		} else {
			m.Add("You have fallen.")
		}
	case event.Revived:
		m.Add("Your extra life revives you.")
	case event.RespawnComplete:
		m.Add("You rise again.")
	case event.Victory:
		m.Add("Chapter %d complete!", ev.Chapter)
	case event.RunFinalized:
		m.Add("Run over: %d rooms, %d kills, %d gold.", ev.RoomsCleared, ev.Kills, ev.Gold)
	}
}

// Boss returns the last reported boss health.
func (m *MessageLog) Boss() (current, maximum float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bossHP, m.bossMax
}

// fit truncates s to width terminal columns.
func fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}
