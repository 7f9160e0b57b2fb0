// Package event carries the one-way notifications the simulation core
// emits to rendering, audio and UI collaborators. Collaborators observe the
// core only through these values; they never mutate core state.
package event

import (
	"arena-roguelite/internal/ecs"
	"arena-roguelite/internal/vmath"
	"time"
)

// Event is implemented by every notification struct.
type Event interface {
	Name() string
}

type EnemyKilled struct {
	Enemy ecs.EntityID
	Kind  string
	Boss  bool
	At    vmath.Vec
	Kills int // run-wide kill count after this kill
}

type EnemyDamaged struct {
	Enemy    ecs.EntityID
	Amount   float64
	Critical bool
	Source   string // "hit", "explosion", "chain", "fire", "poison", "bleed", "nova"
}

type PlayerDamaged struct {
	Amount   float64
	Absorbed float64 // taken by the shield before health
	Health   float64
	Source   string
}

// PlayerDodged is reported separately from a fully absorbed hit.
type PlayerDodged struct {
	Amount float64
	Source string
}

type PlayerHealed struct {
	Amount float64
	Health float64
	Source string
}

type BossHealthChanged struct {
	Boss    ecs.EntityID
	Current float64
	Max     float64
}

type BossCleared struct {
	Boss ecs.EntityID
	Kind string
}

type RoomEntered struct {
	Room  int
	Total int
	Wave  int
	Kind  string
}

type RoomCleared struct {
	Room          int
	Wave          int
	GoldCollected int
	HealthGained  float64
}

type WaveStarted struct {
	Wave       int
	Difficulty float64
}

type DoorOpened struct {
	At vmath.Vec
}

type LevelUp struct {
	Level   int
	Choices int // ability picks owed to the player
}

type XPGained struct {
	Amount int
	Total  int
}

type GoldGained struct {
	Amount int
	Total  int
}

// GameOver fires when the player falls with no extra life left.
// RespawnAvailable tells the UI whether to offer the one-time respawn.
type GameOver struct {
	RespawnAvailable bool
}

type Revived struct {
	Health float64
}

type RespawnComplete struct {
	Health float64
}

type Victory struct {
	Chapter int
}

// RunFinalized carries the persisted summary of a finished run.
type RunFinalized struct {
	Victory      bool
	RoomsCleared int
	Kills        int
	PlayTime     time.Duration
	Gold         int
	HeroXP       int
}

func (EnemyKilled) Name() string       { return "enemy_killed" }
func (EnemyDamaged) Name() string      { return "enemy_damaged" }
func (PlayerDamaged) Name() string     { return "player_damaged" }
func (PlayerDodged) Name() string      { return "player_dodged" }
func (PlayerHealed) Name() string      { return "player_healed" }
func (BossHealthChanged) Name() string { return "boss_health_changed" }
func (BossCleared) Name() string       { return "boss_cleared" }
func (RoomEntered) Name() string       { return "room_entered" }
func (RoomCleared) Name() string       { return "room_cleared" }
func (WaveStarted) Name() string       { return "wave_started" }
func (DoorOpened) Name() string        { return "door_opened" }
func (LevelUp) Name() string           { return "level_up" }
func (XPGained) Name() string          { return "xp_gained" }
func (GoldGained) Name() string        { return "gold_gained" }
func (GameOver) Name() string          { return "game_over" }
func (Revived) Name() string           { return "revived" }
func (RespawnComplete) Name() string   { return "respawn_complete" }
func (Victory) Name() string           { return "victory" }
func (RunFinalized) Name() string      { return "run_finalized" }
