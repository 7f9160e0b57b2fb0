// Package run owns the lifetime of one run: its counters, the death and
// one-time respawn flow, and the final result handed to persistence.
package run

import (
	"arena-roguelite/internal/clock"
	"time"

	"github.com/google/uuid"
)

// HeroXPPerRoom is the hero XP granted for every cleared room.
const HeroXPPerRoom = 5

// State is the run-scoped ledger. Counters only grow; rewards already
// granted are never taken back by death, respawn or skip.
type State struct {
	ID         uuid.UUID
	Seed       int64
	Chapter    int
	Difficulty string
	Endless    bool
	StartTick  clock.Tick
	Started    time.Time

	Kills  int
	XP     int
	HeroXP int
	Gold   int

	// Per-room counters, reset on every room entry.
	RoomGold   int
	RoomHealth float64

	GameOver    bool
	RespawnUsed bool
	Finalized   bool
}

// NewState starts a run ledger with a fresh id.
func NewState(seed int64, chapter int, difficulty string, endless bool, start clock.Tick, now time.Time) *State {
	return &State{
		ID:         uuid.New(),
		Seed:       seed,
		Chapter:    chapter,
		Difficulty: difficulty,
		Endless:    endless,
		StartTick:  start,
		Started:    now,
	}
}

// ResetRoom zeroes the per-room counters.
func (s *State) ResetRoom() {
	s.RoomGold = 0
	s.RoomHealth = 0
}

// AddRoomClear credits hero XP for a cleared room.
func (s *State) AddRoomClear() {
	s.HeroXP += HeroXPPerRoom
}
