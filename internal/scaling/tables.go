// Package scaling holds the static, chapter-indexed difficulty data: enemy
// rosters, boss pools, multipliers, resistances and rewards, plus the pure
// room-progression and endless-wave formulas. Nothing here carries state.
package scaling

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"math/rand"
	"slices"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed chapters.yaml
var defaultTables []byte

// Resistances are damage multipliers applied to status damage against a
// chapter's enemies: below 1 reduces it, above 1 increases it. Cold gates
// the freeze chance instead.
type Resistances struct {
	Fire  float64 `yaml:"fire"`
	Cold  float64 `yaml:"cold"`
	Bleed float64 `yaml:"bleed"`
}

// Modifiers tune one enemy type's behavior inside a chapter.
type Modifiers struct {
	Speed            float64
	AttackCooldown   float64
	ProjectileSpeed  float64
	SpawnWeight      float64
	AbilityIntensity float64
}

// DefaultModifiers is what every unspecified modifier resolves to.
var DefaultModifiers = Modifiers{1, 1, 1, 1, 1}

// Reward is currency granted on chapter completion.
type Reward struct {
	Gold int `yaml:"gold"`
	Gems int `yaml:"gems"`
}

// EnemyDef is the unscaled bestiary entry for one enemy kind.
type EnemyDef struct {
	Kind    string
	Glyph   string
	HP      float64
	Damage  float64
	Speed   float64
	Radius  float64
	GoldMin int
	GoldMax int
	XPBonus float64
	Ranged  *RangedDef
}

// RangedDef describes an enemy's projectile attack. Cooldown is seconds.
type RangedDef struct {
	Damage   float64 `yaml:"damage"`
	Speed    float64 `yaml:"speed"`
	Cooldown float64 `yaml:"cooldown"`
}

// Chapter is the immutable definition of one chapter.
type Chapter struct {
	ID              int
	Name            string
	Rooms           int
	Enemies         []string
	MainBoss        string
	BossPool        []string
	MiniBossPool    []string
	EnemyHP         float64
	EnemyDamage     float64
	BossHP          float64
	BossDamage      float64
	XP              float64
	Resist          Resistances
	Completion      Reward
	FirstCompletion Reward

	modifiers map[string]Modifiers
}

func (c *Chapter) clone() *Chapter {
	cp := *c
	cp.Enemies = slices.Clone(c.Enemies)
	cp.BossPool = slices.Clone(c.BossPool)
	cp.MiniBossPool = slices.Clone(c.MiniBossPool)
	return &cp
}

// Modifiers returns the behavior modifiers for kind in this chapter, with
// every unspecified field at 1.0.
func (c *Chapter) Modifiers(kind string) Modifiers {
	if m, ok := c.modifiers[kind]; ok {
		return m
	}
	return DefaultModifiers
}

// RandomBoss picks uniformly from the boss pool, falling back to the main
// boss when the pool is empty.
func (c *Chapter) RandomBoss(rng *rand.Rand) string {
	return pick(c.BossPool, c.MainBoss, rng)
}

// RandomMiniBoss picks uniformly from the mini-boss pool with the same
// main-boss fallback.
func (c *Chapter) RandomMiniBoss(rng *rand.Rand) string {
	return pick(c.MiniBossPool, c.MainBoss, rng)
}

func pick(pool []string, fallback string, rng *rand.Rand) string {
	if len(pool) == 0 {
		return fallback
	}
	return pool[rng.Intn(len(pool))]
}

// Tables is the loaded chapter and bestiary data.
type Tables struct {
	chapters map[int]*Chapter
	enemies  map[string]EnemyDef
}

// Default returns the tables compiled into the binary.
func Default() *Tables {
	t, err := Load(bytes.NewReader(defaultTables))
	if err != nil {
		panic(fmt.Sprintf("scaling: embedded tables are invalid: %v", err))
	}
	return t
}

// Chapter returns a copy of the definition for id. Writes to it never
// reach the tables.
func (t *Tables) Chapter(id int) (*Chapter, bool) {
	c, ok := t.chapters[id]
	if !ok {
		return nil, false
	}
	return c.clone(), true
}

// Chapters returns copies of every chapter ordered by id.
func (t *Tables) Chapters() []*Chapter {
	out := make([]*Chapter, 0, len(t.chapters))
	for _, c := range t.chapters {
		out = append(out, c.clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Enemy returns the bestiary entry for kind.
func (t *Tables) Enemy(kind string) (EnemyDef, bool) {
	e, ok := t.enemies[kind]
	return e, ok
}

// RandomBossForChapter returns a member of the chapter's boss pool, or its
// main boss if the pool is empty. Unknown chapters yield "".
func (t *Tables) RandomBossForChapter(id int, rng *rand.Rand) string {
	c, ok := t.chapters[id]
	if !ok {
		return ""
	}
	return c.RandomBoss(rng)
}

// ─── loading ─────────────────────────────────────────────────────────────────

type fileSpec struct {
	Enemies  map[string]enemySpec `yaml:"enemies"`
	Chapters []chapterSpec        `yaml:"chapters"`
}

type enemySpec struct {
	Glyph   string     `yaml:"glyph"`
	HP      float64    `yaml:"hp"`
	Damage  float64    `yaml:"damage"`
	Speed   float64    `yaml:"speed"`
	Radius  float64    `yaml:"radius"`
	Gold    []int      `yaml:"gold"`
	XPBonus float64    `yaml:"xp_bonus"`
	Ranged  *RangedDef `yaml:"ranged"`
}

// modifierSpec keeps pointers so "unset" and "explicitly 1.0" differ only
// in the file, never after resolution.
type modifierSpec struct {
	Speed            *float64 `yaml:"speed"`
	AttackCooldown   *float64 `yaml:"attack_cooldown"`
	ProjectileSpeed  *float64 `yaml:"projectile_speed"`
	SpawnWeight      *float64 `yaml:"spawn_weight"`
	AbilityIntensity *float64 `yaml:"ability_intensity"`
}

func (m modifierSpec) resolve() Modifiers {
	or1 := func(p *float64) float64 {
		if p == nil {
			return 1
		}
		return *p
	}
	return Modifiers{
		Speed:            or1(m.Speed),
		AttackCooldown:   or1(m.AttackCooldown),
		ProjectileSpeed:  or1(m.ProjectileSpeed),
		SpawnWeight:      or1(m.SpawnWeight),
		AbilityIntensity: or1(m.AbilityIntensity),
	}
}

type chapterSpec struct {
	ID              int                     `yaml:"id"`
	Name            string                  `yaml:"name"`
	Rooms           int                     `yaml:"rooms"`
	Enemies         []string                `yaml:"enemies"`
	MainBoss        string                  `yaml:"main_boss"`
	BossPool        []string                `yaml:"boss_pool"`
	MiniBossPool    []string                `yaml:"mini_boss_pool"`
	EnemyHP         float64                 `yaml:"enemy_hp"`
	EnemyDamage     float64                 `yaml:"enemy_damage"`
	BossHP          float64                 `yaml:"boss_hp"`
	BossDamage      float64                 `yaml:"boss_damage"`
	XP              float64                 `yaml:"xp"`
	Resist          Resistances             `yaml:"resist"`
	Modifiers       map[string]modifierSpec `yaml:"modifiers"`
	Completion      Reward                  `yaml:"completion"`
	FirstCompletion Reward                  `yaml:"first_completion"`
}

// Load parses and validates a tables document.
func Load(r io.Reader) (*Tables, error) {
	var doc fileSpec
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode tables: %w", err)
	}

	t := &Tables{
		chapters: make(map[int]*Chapter, len(doc.Chapters)),
		enemies:  make(map[string]EnemyDef, len(doc.Enemies)),
	}
	for kind, e := range doc.Enemies {
		def, err := e.toDef(kind)
		if err != nil {
			return nil, err
		}
		t.enemies[kind] = def
	}
	for _, cs := range doc.Chapters {
		c, err := cs.toChapter(t.enemies)
		if err != nil {
			return nil, err
		}
		if _, dup := t.chapters[c.ID]; dup {
			return nil, fmt.Errorf("chapter %d defined twice", c.ID)
		}
		t.chapters[c.ID] = c
	}
	if len(t.chapters) == 0 {
		return nil, fmt.Errorf("no chapters defined")
	}
	return t, nil
}

func (e enemySpec) toDef(kind string) (EnemyDef, error) {
	if e.HP <= 0 {
		return EnemyDef{}, fmt.Errorf("enemy %q: hp must be positive", kind)
	}
	def := EnemyDef{
		Kind:    kind,
		Glyph:   e.Glyph,
		HP:      e.HP,
		Damage:  e.Damage,
		Speed:   e.Speed,
		Radius:  e.Radius,
		XPBonus: e.XPBonus,
		Ranged:  e.Ranged,
	}
	if def.XPBonus == 0 {
		def.XPBonus = 1
	}
	if def.Radius == 0 {
		def.Radius = 10
	}
	switch len(e.Gold) {
	case 0:
	case 2:
		def.GoldMin, def.GoldMax = e.Gold[0], e.Gold[1]
		if def.GoldMin > def.GoldMax || def.GoldMin < 0 {
			return EnemyDef{}, fmt.Errorf("enemy %q: bad gold range %v", kind, e.Gold)
		}
	default:
		return EnemyDef{}, fmt.Errorf("enemy %q: gold must be [min, max]", kind)
	}
	return def, nil
}

func (cs chapterSpec) toChapter(bestiary map[string]EnemyDef) (*Chapter, error) {
	if cs.ID <= 0 {
		return nil, fmt.Errorf("chapter id must be positive, got %d", cs.ID)
	}
	if cs.Rooms <= 0 {
		return nil, fmt.Errorf("chapter %d: rooms must be positive", cs.ID)
	}
	if cs.MainBoss == "" {
		return nil, fmt.Errorf("chapter %d: main boss is required", cs.ID)
	}
	for name, v := range map[string]float64{
		"enemy_hp": cs.EnemyHP, "enemy_damage": cs.EnemyDamage,
		"boss_hp": cs.BossHP, "boss_damage": cs.BossDamage, "xp": cs.XP,
		"resist.fire": cs.Resist.Fire, "resist.cold": cs.Resist.Cold, "resist.bleed": cs.Resist.Bleed,
	} {
		if v <= 0 {
			return nil, fmt.Errorf("chapter %d: %s must be positive", cs.ID, name)
		}
	}
	refs := append([]string{cs.MainBoss}, cs.Enemies...)
	refs = append(refs, cs.BossPool...)
	refs = append(refs, cs.MiniBossPool...)
	for _, kind := range refs {
		if _, ok := bestiary[kind]; !ok {
			return nil, fmt.Errorf("chapter %d: unknown enemy kind %q", cs.ID, kind)
		}
	}
	if len(cs.Enemies) == 0 {
		return nil, fmt.Errorf("chapter %d: enemy roster is empty", cs.ID)
	}

	c := &Chapter{
		ID:              cs.ID,
		Name:            cs.Name,
		Rooms:           cs.Rooms,
		Enemies:         cs.Enemies,
		MainBoss:        cs.MainBoss,
		BossPool:        cs.BossPool,
		MiniBossPool:    cs.MiniBossPool,
		EnemyHP:         cs.EnemyHP,
		EnemyDamage:     cs.EnemyDamage,
		BossHP:          cs.BossHP,
		BossDamage:      cs.BossDamage,
		XP:              cs.XP,
		Resist:          cs.Resist,
		Completion:      cs.Completion,
		FirstCompletion: cs.FirstCompletion,
		modifiers:       make(map[string]Modifiers, len(cs.Modifiers)),
	}
	for kind, m := range cs.Modifiers {
		c.modifiers[kind] = m.resolve()
	}
	return c, nil
}
