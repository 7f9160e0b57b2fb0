package game

import (
	"arena-roguelite/internal/scaling"
	"fmt"
	"strings"
	"testing"
)

const shortTables = `
enemies:
  slime: {glyph: "s", hp: 40, damage: 8, speed: 1.0, radius: 10, gold: [1, 3]}
  bat:   {glyph: "b", hp: 25, damage: 6, speed: 2.2, radius: 8, gold: [1, 2]}
  stag:  {glyph: "S", hp: 600, damage: 20, speed: 1.4, radius: 20, gold: [15, 25], xp_bonus: 3.0}
  treant: {glyph: "T", hp: 1500, damage: 25, speed: 1.2, radius: 28, gold: [40, 60], xp_bonus: 5.0, ranged: {damage: 15, speed: 4.0, cooldown: 1.0}}
chapters:
  - id: 1
    name: Test Grove
    rooms: %d
    enemies: [slime, bat]
    main_boss: treant
    mini_boss_pool: [stag]
    enemy_hp: 1.0
    enemy_damage: 1.0
    boss_hp: 1.0
    boss_damage: 1.0
    xp: 1.0
    resist: {fire: 1.0, cold: 1.0, bleed: 1.0}
    completion: {gold: 100, gems: 5}
    first_completion: {gold: 250, gems: 20}
`

// ShortTables loads a one-chapter table set whose chapter 1 has the given
// number of rooms.
func ShortTables(t testing.TB, rooms int) *scaling.Tables {
	t.Helper()
	tb, err := scaling.Load(strings.NewReader(fmt.Sprintf(shortTables, rooms)))
	if err != nil {
		t.Fatalf("load tables: %v", err)
	}
	return tb
}
