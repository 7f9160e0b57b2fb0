package scaling

import (
	"math"
	"math/rand"
	"strings"
)

// Rooms up to RoomScalingStart carry no progression bonus.
const RoomScalingStart = 5

const (
	roomHPStep     = 0.03
	roomDamageStep = 0.02
	endlessBase    = 1.5
)

// RoomScaling returns the HP and damage multipliers for a room number.
// Rooms 1-5 are 1.0; from room 6 HP grows 3% and damage 2% per room.
func RoomScaling(room int) (hp, damage float64) {
	if room <= RoomScalingStart {
		return 1, 1
	}
	n := float64(room - RoomScalingStart)
	return 1 + roomHPStep*n, 1 + roomDamageStep*n
}

// EndlessDifficulty is the wave multiplier 1.5^(wave-1). Waves below 1
// are treated as wave 1.
func EndlessDifficulty(wave int) float64 {
	if wave <= 1 {
		return 1
	}
	return math.Pow(endlessBase, float64(wave-1))
}

// Difficulty is the player-selected difficulty preset.
type Difficulty struct {
	Label       string
	EnemyHP     float64
	EnemyDamage float64
	// HealDamping softens potion healing on harder settings.
	HealDamping float64
}

var (
	Normal    = Difficulty{Label: "normal", EnemyHP: 1, EnemyDamage: 1, HealDamping: 1}
	Hard      = Difficulty{Label: "hard", EnemyHP: 1.5, EnemyDamage: 1.3, HealDamping: 0.75}
	Nightmare = Difficulty{Label: "nightmare", EnemyHP: 2.2, EnemyDamage: 1.6, HealDamping: 0.5}
)

// DifficultyByLabel resolves a persisted label; unknown labels are Normal.
func DifficultyByLabel(label string) Difficulty {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case Hard.Label:
		return Hard
	case Nightmare.Label:
		return Nightmare
	}
	return Normal
}

// Scale is the full set of multipliers in effect for one room.
type Scale struct {
	EnemyHP     float64
	EnemyDamage float64
	BossHP      float64
	BossDamage  float64
	XP          float64
}

// Unit is the identity scale.
var Unit = Scale{1, 1, 1, 1, 1}

// ScaleFor combines chapter, room-progression, difficulty and endless
// multipliers. They compound; none replaces another.
func ScaleFor(c *Chapter, room int, d Difficulty, endless float64) Scale {
	if endless <= 0 {
		endless = 1
	}
	roomHP, roomDmg := RoomScaling(room)
	return Scale{
		EnemyHP:     c.EnemyHP * roomHP * d.EnemyHP * endless,
		EnemyDamage: c.EnemyDamage * roomDmg * d.EnemyDamage * endless,
		BossHP:      c.BossHP * roomHP * d.EnemyHP * endless,
		BossDamage:  c.BossDamage * roomDmg * d.EnemyDamage * endless,
		XP:          c.XP,
	}
}

// Scale resolves the multipliers for a room of chapter id at the given
// endless wave (1 outside endless mode). Unknown chapters scale as Unit.
func (t *Tables) Scale(id, room, wave int, d Difficulty) Scale {
	c, ok := t.Chapter(id)
	if !ok {
		return Unit
	}
	return ScaleFor(c, room, d, EndlessDifficulty(wave))
}

// EnemyHP rounds a scaled health pool to a whole number.
func EnemyHP(base, multiplier float64) float64 {
	return math.Round(base * multiplier)
}

// ─── room plans ──────────────────────────────────────────────────────────────

// RoomKind is the encounter type of a room.
type RoomKind uint8

const (
	RoomCombat RoomKind = iota
	RoomAngel
	RoomMiniBoss
	RoomBoss
)

func (k RoomKind) String() string {
	return [...]string{"combat", "angel", "miniboss", "boss"}[k]
}

// RoomPlan lists the enemy kinds a room spawns.
type RoomPlan struct {
	Kind   RoomKind
	Spawns []string
}

const maxRoomEnemies = 12

// KindOf classifies a room: the last room is the boss, the middle room the
// mini-boss, other multiples of five are angel rooms.
func KindOf(room, total int) RoomKind {
	switch {
	case room == total:
		return RoomBoss
	case total >= 2 && room == total/2:
		return RoomMiniBoss
	case room%5 == 0:
		return RoomAngel
	}
	return RoomCombat
}

// PlanRoom decides what a room spawns. Mini-boss rooms hold exactly one
// enemy; angel rooms hold none.
func (c *Chapter) PlanRoom(room, total int, rng *rand.Rand) RoomPlan {
	kind := KindOf(room, total)
	switch kind {
	case RoomBoss:
		return RoomPlan{Kind: kind, Spawns: []string{c.RandomBoss(rng)}}
	case RoomMiniBoss:
		return RoomPlan{Kind: kind, Spawns: []string{c.RandomMiniBoss(rng)}}
	case RoomAngel:
		return RoomPlan{Kind: kind}
	}
	n := 3 + (room-1)/2
	if n > maxRoomEnemies {
		n = maxRoomEnemies
	}
	spawns := make([]string, n)
	for i := range spawns {
		spawns[i] = c.weightedEnemy(rng)
	}
	return RoomPlan{Kind: kind, Spawns: spawns}
}

// weightedEnemy draws from the roster using each kind's spawn weight.
func (c *Chapter) weightedEnemy(rng *rand.Rand) string {
	total := 0.0
	for _, kind := range c.Enemies {
		total += c.Modifiers(kind).SpawnWeight
	}
	if total <= 0 {
		return c.Enemies[rng.Intn(len(c.Enemies))]
	}
	r := rng.Float64() * total
	for _, kind := range c.Enemies {
		r -= c.Modifiers(kind).SpawnWeight
		if r < 0 {
			return kind
		}
	}
	return c.Enemies[len(c.Enemies)-1]
}
