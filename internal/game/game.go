// Package game is the run simulation core. It owns the world and the tick
// and wires the scaling tables, combat resolver, reward pipeline, room
// machine and run controller together. Rendering, input, audio and
// persistence are reached only through interfaces and events.
package game

import (
	"arena-roguelite/internal/clock"
	"arena-roguelite/internal/combat"
	"arena-roguelite/internal/ecs"
	"arena-roguelite/internal/event"
	"arena-roguelite/internal/player"
	"arena-roguelite/internal/reward"
	"arena-roguelite/internal/room"
	"arena-roguelite/internal/run"
	"arena-roguelite/internal/scaling"
	"arena-roguelite/internal/vmath"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"
)

const (
	// FireInterval is the player's shot cooldown.
	FireInterval = 350 * time.Millisecond
	// ShotSpeed is the player projectile speed in arena units per tick.
	ShotSpeed = 9.0

	impulseDecay = 0.8
)

// DefaultArena is the arena used when Options.Arena is empty.
var DefaultArena = vmath.Rect{Max: vmath.Vec{X: 800, Y: 600}}

// Spawner is the spawn/AI collaborator.
type Spawner interface {
	room.Spawner
	// Update runs one tick of AI: movement intent, ranged attacks, boss
	// phases, materializing telegraphed spawns and reaping dead enemies.
	Update()
}

// Env is what a spawner gets to work with.
type Env struct {
	World  *ecs.World
	Clock  *clock.Clock
	Rng    *rand.Rand
	Combat *combat.Resolver
	Tables *scaling.Tables
	Player *player.Player
	Arena  vmath.Rect
	Logger *slog.Logger
}

// Preferences is the persisted player settings read by the core.
type Preferences = room.Preferences

// Options configures a run.
type Options struct {
	Tables     *scaling.Tables // nil means scaling.Default()
	Chapter    int
	Difficulty scaling.Difficulty
	Endless    bool
	Seed       int64
	TickRate   int
	Arena      vmath.Rect

	Talents   []player.Modifier
	ExtraLife bool

	NewSpawner func(Env) Spawner
	Results    run.ResultSink
	Progress   run.Progress
	Bosses     reward.BossLog
	Prefs      Preferences
	Sinks      []event.Sink
	Logger     *slog.Logger
}

// Game is one run of the simulation core.
type Game struct {
	logger    *slog.Logger
	world     *ecs.World
	clock     *clock.Clock
	rng       *rand.Rand
	events    *event.Dispatcher
	chapter   *scaling.Chapter
	arena     vmath.Rect
	player    *player.Player
	state     *run.State
	combat    *combat.Resolver
	spawner   Spawner
	rewards   *reward.Pipeline
	rooms     *room.Machine
	lifecycle *run.Controller

	paused   bool
	nextShot clock.Tick
}

// New builds a run. It fails on an unknown chapter or a missing spawner.
func New(opts Options) (*Game, error) {
	if opts.Tables == nil {
		opts.Tables = scaling.Default()
	}
	ch, ok := opts.Tables.Chapter(opts.Chapter)
	if !ok {
		return nil, fmt.Errorf("unknown chapter %d", opts.Chapter)
	}
	if opts.NewSpawner == nil {
		return nil, errors.New("no spawner configured")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Arena == (vmath.Rect{}) {
		opts.Arena = DefaultArena
	}
	if opts.Difficulty.Label == "" {
		opts.Difficulty = scaling.Normal
	}

	g := &Game{
		logger:  opts.Logger,
		world:   ecs.NewWorld(),
		clock:   clock.New(opts.TickRate),
		rng:     rand.New(rand.NewSource(opts.Seed)),
		chapter: ch,
		arena:   opts.Arena,
	}
	g.events = event.NewDispatcher(event.LogSink{Logger: opts.Logger})
	for _, s := range opts.Sinks {
		g.events.Subscribe(s)
	}

	g.player = player.New(player.BaseStats, opts.Talents)
	g.player.ExtraLife = opts.ExtraLife
	g.state = run.NewState(opts.Seed, ch.ID, opts.Difficulty.Label, opts.Endless, g.clock.Now(), time.Now())

	g.combat = combat.NewResolver(g.world, g.rng, g.clock, g.events, g.arena)
	g.combat.SetResistances(ch.Resist)

	g.spawner = opts.NewSpawner(Env{
		World:  g.world,
		Clock:  g.clock,
		Rng:    g.rng,
		Combat: g.combat,
		Tables: opts.Tables,
		Player: g.player,
		Arena:  g.arena,
		Logger: g.logger,
	})

	g.rewards = reward.New(reward.Deps{
		World:      g.world,
		Rng:        g.rng,
		Events:     g.events,
		Combat:     g.combat,
		Player:     g.player,
		State:      g.state,
		Bosses:     opts.Bosses,
		Chapter:    ch,
		Difficulty: opts.Difficulty,
		Logger:     g.logger,
	})
	g.rooms = room.New(room.Deps{
		World:      g.world,
		Clock:      g.clock,
		Rng:        g.rng,
		Events:     g.events,
		Spawner:    g.spawner,
		Collector:  g.rewards,
		Prefs:      opts.Prefs,
		Player:     g.player,
		Run:        g.state,
		Chapter:    ch,
		Difficulty: opts.Difficulty,
		Endless:    opts.Endless,
		Arena:      g.arena,
		OnVictory:  func() { g.lifecycle.Victory() },
	})
	g.rewards.Room = g.rooms
	g.lifecycle = run.NewController(run.Deps{
		World:    g.world,
		Clock:    g.clock,
		Events:   g.events,
		Player:   g.player,
		State:    g.state,
		Rooms:    g.rooms,
		Bullets:  g.spawner,
		Chapter:  ch,
		Arena:    g.arena,
		Results:  opts.Results,
		Progress: opts.Progress,
		Logger:   g.logger,
	})
	return g, nil
}

// Start enters the first room.
func (g *Game) Start() {
	g.logger.Info("run started", "run", g.state.ID, "chapter", g.chapter.ID,
		"difficulty", g.state.Difficulty, "endless", g.state.Endless, "seed", g.state.Seed)
	g.rooms.Start()
}

// Subscribe adds an event sink.
func (g *Game) Subscribe(s event.Sink) { g.events.Subscribe(s) }

func (g *Game) World() *ecs.World         { return g.world }
func (g *Game) Clock() *clock.Clock       { return g.clock }
func (g *Game) Player() *player.Player    { return g.player }
func (g *Game) Run() *run.State           { return g.state }
func (g *Game) Room() room.State          { return g.rooms.State() }
func (g *Game) Chapter() *scaling.Chapter { return g.chapter }
func (g *Game) Arena() vmath.Rect         { return g.arena }
func (g *Game) Phase() run.Phase          { return g.lifecycle.Phase() }
func (g *Game) Result() run.Result        { return g.lifecycle.Result() }
func (g *Game) Door() ecs.EntityID        { return g.rooms.Door() }

// Paused reports whether ticks are suspended.
func (g *Game) Paused() bool { return g.paused }

// SetPaused suspends or resumes ticking.
func (g *Game) SetPaused(p bool) { g.paused = p }

// Over reports whether the run has ended or won.
func (g *Game) Over() bool {
	return g.lifecycle.Ended()
}

func (g *Game) running() bool {
	return !g.paused && g.lifecycle.Phase() == run.Running && g.rooms.Phase() != room.Victory
}
