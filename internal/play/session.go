// Package play runs one interactive run on a tcell screen. Local play and
// the SSH host share it.
package play

import (
	"arena-roguelite/internal/game"
	"arena-roguelite/internal/player"
	"arena-roguelite/internal/render"
	"arena-roguelite/internal/run"
	"arena-roguelite/internal/vmath"
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/gdamore/tcell/v2"
)

const (
	// moveTicks is how long one movement key keeps the player walking.
	// Terminals report key presses but never releases.
	moveTicks = 8
	offerSize = 3
)

// Session binds a game to a screen.
type Session struct {
	screen   tcell.Screen
	game     *game.Game
	renderer *render.Renderer
	log      *render.MessageLog
	rng      *rand.Rand
	logger   *slog.Logger

	frame         time.Duration
	ticksPerFrame int

	moveDir  vmath.Vec
	moveLeft int
	offers   []player.Ability
	choosing bool
}

// New prepares a session for a started or unstarted game. frame is the
// redraw interval; the game advances by as many ticks as fit in it.
func New(screen tcell.Screen, g *game.Game, frame time.Duration, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	if frame <= 0 {
		frame = 33 * time.Millisecond
	}
	s := &Session{
		screen:        screen,
		game:          g,
		renderer:      render.NewRenderer(screen, g.Arena(), g.Chapter().ID),
		log:           render.NewMessageLog(0),
		rng:           rand.New(rand.NewSource(g.Run().Seed)),
		logger:        logger,
		frame:         frame,
		ticksPerFrame: max(int(g.Clock().Ticks(frame)), 1),
	}
	g.Subscribe(s.log)
	s.log.Add("Move with hjkl/wasd or arrows. Stand still to shoot.")
	return s
}

// Log returns the session's message log.
func (s *Session) Log() *render.MessageLog { return s.log }

// Run drives the session until the player quits, the context ends or the
// screen closes. A run still in progress at that point is skipped so its
// result is recorded.
func (s *Session) Run(ctx context.Context) run.Result {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	events := make(chan tcell.Event, 32)
	go pollEvents(ctx, s.screen, events)

	ticker := time.NewTicker(s.frame)
	defer ticker.Stop()
	s.draw()
	for {
		select {
		case <-ctx.Done():
			return s.finish()
		case ev, ok := <-events:
			if !ok {
				return s.finish()
			}
			switch ev := ev.(type) {
			case *tcell.EventResize:
				s.screen.Sync()
				s.renderer.Resize()
			case *tcell.EventKey:
				if !s.Handle(keyToAction(ev)) {
					return s.finish()
				}
			}
			s.draw()
		case <-ticker.C:
			s.Step()
			s.draw()
		}
	}
}

// pollEvents forwards screen events until the screen closes or ctx ends.
func pollEvents(ctx context.Context, screen tcell.Screen, events chan<- tcell.Event) {
	defer close(events)
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case events <- ev:
		case <-ctx.Done():
			return
		}
	}
}

func (s *Session) finish() run.Result {
	if !s.game.Over() {
		s.logger.Info("run abandoned", "run", s.game.Run().ID)
		s.game.SkipRun()
	}
	return s.game.Result()
}

// Handle applies one action. It returns false when the session should end.
func (s *Session) Handle(a Action) bool {
	g := s.game
	if a == ActionQuit {
		return false
	}
	if g.Over() {
		return true
	}
	if s.choosing {
		if i, ok := choiceIndex(a); ok && i < len(s.offers) && g.Choose(s.offers[i].ID) {
			s.log.Add("You learn %s.", s.offers[i].Name)
			s.offers, s.choosing = nil, false
			g.SetPaused(false)
		}
		return true
	}
	if g.Phase() == run.AwaitingRespawn {
		switch a {
		case ActionRespawn:
			g.AcceptRespawn()
		case ActionSkip:
			g.DeclineRespawn()
		}
		return true
	}

	switch a {
	case ActionPause:
		g.SetPaused(!g.Paused())
	case ActionSkip:
		if g.Paused() {
			g.SkipRun()
		}
	case ActionStop:
		s.moveLeft = 0
	case ActionFire:
		g.FireAtNearest()
	case ActionDoor:
		if !g.EnterDoor() {
			s.log.Add("No open door here.")
		}
	default:
		if d := actionToDir(a); !d.IsZero() {
			s.moveDir, s.moveLeft = d, moveTicks
		}
	}
	return true
}

// Step advances one frame: pending ability picks pause the game, the
// player walks or auto-fires, and the core ticks.
func (s *Session) Step() {
	g := s.game
	if g.Over() {
		return
	}
	if !s.choosing && g.Player().Choices > 0 && !g.Paused() {
		s.offers = player.Offer(s.rng, offerSize)
		s.choosing = true
		g.SetPaused(true)
	}
	for i := 0; i < s.ticksPerFrame; i++ {
		if s.moveLeft > 0 {
			g.MovePlayer(s.moveDir)
			s.moveLeft--
		} else {
			g.FireAtNearest()
		}
		g.Tick()
	}
}

// Offers returns the ability picks on screen, if any.
func (s *Session) Offers() []player.Ability { return s.offers }

func (s *Session) draw() {
	s.renderer.DrawFrame(s.game, s.log)
	if s.choosing {
		s.renderer.DrawChoices(s.offers)
	}
}
