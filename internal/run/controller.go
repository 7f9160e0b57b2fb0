package run

import (
	"arena-roguelite/internal/clock"
	"arena-roguelite/internal/component"
	"arena-roguelite/internal/ecs"
	"arena-roguelite/internal/event"
	"arena-roguelite/internal/player"
	"arena-roguelite/internal/scaling"
	"arena-roguelite/internal/vmath"
	"log/slog"
	"time"
)

const (
	ReviveFraction       = 0.30
	ReviveInvincibility  = 2 * time.Second
	RespawnFraction      = 0.50
	RespawnInvincibility = 3 * time.Second
	// RespawnSeparation is the minimum distance enemies are pushed to when
	// the player respawns.
	RespawnSeparation = 150.0
)

// Phase is the lifecycle state of the run.
type Phase uint8

const (
	Running Phase = iota
	AwaitingRespawn
	Ended
)

func (p Phase) String() string {
	return [...]string{"running", "awaiting_respawn", "ended"}[p]
}

// Rooms is the view of room progression the controller needs at the end
// of a run.
type Rooms interface {
	RoomsCleared() int
	Wave() int
}

// Bullets clears in-flight enemy projectiles.
type Bullets interface {
	ClearEnemyBullets()
}

// EnemySnapshot is one enemy as it stood when the player fell.
type EnemySnapshot struct {
	ID     ecs.EntityID
	Kind   string
	Boss   bool
	Pos    vmath.Vec
	Health component.Health
}

// Deps wires a controller.
type Deps struct {
	World    *ecs.World
	Clock    *clock.Clock
	Events   *event.Dispatcher
	Player   *player.Player
	State    *State
	Rooms    Rooms
	Bullets  Bullets
	Chapter  *scaling.Chapter
	Arena    vmath.Rect
	Results  ResultSink // may be nil
	Progress Progress   // may be nil
	Logger   *slog.Logger
	Now      func() time.Time
}

// Controller runs the death, revive, respawn and finalization flow.
type Controller struct {
	d        Deps
	phase    Phase
	snapshot []EnemySnapshot
	result   Result
}

// NewController returns a controller in the Running phase.
func NewController(d Deps) *Controller {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return &Controller{d: d}
}

// Phase returns the lifecycle phase.
func (c *Controller) Phase() Phase { return c.phase }

// Ended reports whether the run is finalized. Input stops once it is.
func (c *Controller) Ended() bool { return c.phase == Ended }

// Snapshot returns the enemies captured at the pending game over.
func (c *Controller) Snapshot() []EnemySnapshot { return c.snapshot }

// Result returns the final record; it is zero until the run ends.
func (c *Controller) Result() Result { return c.result }

// OnPlayerDeath handles the player's health reaching zero. An extra life
// revives in place without touching run-end bookkeeping; otherwise the
// run waits on the one-time respawn or ends.
func (c *Controller) OnPlayerDeath() {
	p := c.d.Player
	if c.phase != Running || p.Alive() {
		return
	}
	if p.ExtraLife {
		p.ExtraLife = false
		p.SetHealthFraction(ReviveFraction)
		p.InvincibleUntil = c.d.Clock.After(ReviveInvincibility)
		c.d.Events.Emit(event.Revived{Health: p.HP})
		return
	}
	c.d.State.GameOver = true
	if !c.d.State.RespawnUsed {
		c.phase = AwaitingRespawn
		c.snapshot = c.capture()
		c.d.Events.Emit(event.GameOver{RespawnAvailable: true})
		return
	}
	c.d.Events.Emit(event.GameOver{RespawnAvailable: false})
	c.finalize(false)
}

func (c *Controller) capture() []EnemySnapshot {
	var out []EnemySnapshot
	w := c.d.World
	for _, id := range w.Query(component.CEnemy, component.CPosition, component.CHealth) {
		e := w.Get(id, component.CEnemy).(component.Enemy)
		if e.Dead {
			continue
		}
		out = append(out, EnemySnapshot{
			ID:     id,
			Kind:   e.Kind,
			Boss:   e.IsBoss(),
			Pos:    w.Get(id, component.CPosition).(component.Position).Vec,
			Health: w.Get(id, component.CHealth).(component.Health),
		})
	}
	return out
}

// AcceptRespawn spends the run's one respawn. It is a no-op unless a
// respawn is pending and unused.
func (c *Controller) AcceptRespawn() bool {
	if c.phase != AwaitingRespawn || c.d.State.RespawnUsed {
		return false
	}
	c.d.State.RespawnUsed = true
	c.d.State.GameOver = false
	p := c.d.Player
	p.SetHealthFraction(RespawnFraction)
	p.InvincibleUntil = c.d.Clock.After(RespawnInvincibility)
	c.pushEnemies()
	if c.d.Bullets != nil {
		c.d.Bullets.ClearEnemyBullets()
	}
	c.snapshot = nil
	c.phase = Running
	c.d.Events.Emit(event.RespawnComplete{Health: p.HP})
	return true
}

// pushEnemies moves every live enemy at least RespawnSeparation away from
// the player, then keeps it inside the arena.
func (c *Controller) pushEnemies() {
	w := c.d.World
	at := c.d.Player.Pos
	for _, id := range w.Query(component.CEnemy, component.CPosition) {
		if w.Get(id, component.CEnemy).(component.Enemy).Dead {
			continue
		}
		pos := w.Get(id, component.CPosition).(component.Position)
		off := pos.Sub(at)
		if off.Len() >= RespawnSeparation {
			continue
		}
		dir := off.Normalize()
		if dir.IsZero() {
			dir = vmath.Vec{Y: -1}
		}
		pos.Vec = at.Add(dir.Scale(RespawnSeparation))
		if c.d.Arena != (vmath.Rect{}) {
			pos.Vec = c.d.Arena.ClampVec(pos.Vec)
		}
		w.Add(id, pos)
		if v, ok := w.Get(id, component.CVelocity).(component.Velocity); ok {
			v.Impulse = vmath.Vec{}
			w.Add(id, v)
		}
	}
}

// DeclineRespawn ends a run waiting on its respawn.
func (c *Controller) DeclineRespawn() {
	if c.phase != AwaitingRespawn {
		return
	}
	c.finalize(false)
}

// SkipRun abandons the run at any point before it ended.
func (c *Controller) SkipRun() {
	if c.phase == Ended {
		return
	}
	c.finalize(false)
}

// Victory ends the run as a chapter win.
func (c *Controller) Victory() {
	if c.phase == Ended {
		return
	}
	c.finalize(true)
}

// finalize computes the result once and hands it to the sink.
func (c *Controller) finalize(victory bool) Result {
	if c.d.State.Finalized {
		return c.result
	}
	s := c.d.State
	s.Finalized = true
	c.phase = Ended

	r := Result{
		RunID:      s.ID.String(),
		Seed:       s.Seed,
		Chapter:    s.Chapter,
		Difficulty: s.Difficulty,
		Endless:    s.Endless,
		Victory:    victory,
		Kills:      s.Kills,
		PlayTime:   c.d.Clock.Elapsed(s.StartTick),
		Abilities:  c.d.Player.Abilities(),
		Gold:       s.Gold,
		HeroXP:     s.HeroXP,
		FinishedAt: c.d.Now(),
	}
	if c.d.Rooms != nil {
		r.RoomsCleared = c.d.Rooms.RoomsCleared()
		if s.Endless {
			r.EndlessWave = c.d.Rooms.Wave()
		}
	}
	if victory && c.d.Chapter != nil {
		r.Gold += c.d.Chapter.Completion.Gold
		r.Gems += c.d.Chapter.Completion.Gems
		if c.d.Progress != nil {
			first, err := c.d.Progress.CompleteChapter(s.Chapter)
			if err != nil {
				c.d.Logger.Warn("record chapter completion", "chapter", s.Chapter, "err", err)
			}
			if first {
				r.FirstCompletion = true
				r.Gold += c.d.Chapter.FirstCompletion.Gold
				r.Gems += c.d.Chapter.FirstCompletion.Gems
			}
		}
	}
	c.result = r
	c.d.Events.Emit(event.RunFinalized{
		Victory:      r.Victory,
		RoomsCleared: r.RoomsCleared,
		Kills:        r.Kills,
		PlayTime:     r.PlayTime,
		Gold:         r.Gold,
		HeroXP:       r.HeroXP,
	})
	if c.d.Results != nil {
		if err := c.d.Results.SaveResult(r); err != nil {
			c.d.Logger.Warn("save run result", "run", r.RunID, "err", err)
		}
	}
	return r
}
