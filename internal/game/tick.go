package game

import (
	"arena-roguelite/internal/combat"
	"arena-roguelite/internal/component"
	"arena-roguelite/internal/ecs"
	"arena-roguelite/internal/vmath"
)

// Tick advances the simulation by one step. Nothing moves while paused,
// while a respawn decision is pending or after the run ended.
func (g *Game) Tick() {
	if !g.running() {
		return
	}
	g.clock.Advance()

	g.spawner.Update()
	g.moveEnemies()

	kills, _ := g.combat.StepProjectiles(g.player)
	g.rewards.ProcessKills(kills)
	g.rewards.ProcessKills(g.combat.TickStatus())
	g.melee()

	g.rooms.Update()
	g.checkDeath()
}

// moveEnemies integrates enemy movement intent and decaying impulses.
// Frozen enemies hold still.
func (g *Game) moveEnemies() {
	for _, id := range g.world.Query(component.CEnemy, component.CPosition, component.CVelocity) {
		e := g.world.Get(id, component.CEnemy).(component.Enemy)
		if e.Dead || g.combat.Frozen(id) {
			continue
		}
		pos := g.world.Get(id, component.CPosition).(component.Position)
		v := g.world.Get(id, component.CVelocity).(component.Velocity)
		pos.Vec = g.arena.ClampVec(pos.Add(v.Move).Add(v.Impulse))
		v.Impulse = v.Impulse.Scale(impulseDecay)
		if v.Impulse.Len() < 0.05 {
			v.Impulse = vmath.Vec{}
		}
		g.world.Add(id, pos)
		g.world.Add(id, v)
	}
}

func (g *Game) melee() {
	for _, id := range g.world.Query(component.CMelee, component.CEnemy) {
		if !g.player.Alive() {
			return
		}
		g.combat.Melee(id, g.player)
	}
}

func (g *Game) checkDeath() {
	if !g.player.Alive() {
		g.lifecycle.OnPlayerDeath()
	}
}

// MovePlayer steps the player along dir at its movement speed.
func (g *Game) MovePlayer(dir vmath.Vec) {
	if !g.running() {
		return
	}
	step := dir.Normalize().Scale(g.player.Stats.Speed)
	g.player.Pos = g.arena.ClampVec(g.player.Pos.Add(step))
}

// Fire shoots a projectile toward dir if the shot cooldown allows. Players
// with ricochet get reflecting shots.
func (g *Game) Fire(dir vmath.Vec) bool {
	if !g.running() || !g.clock.Reached(g.nextShot) {
		return false
	}
	wall := component.WallDeactivate
	if g.player.Stats.Ricochet > 0 {
		wall = component.WallReflect
	}
	if g.combat.FirePlayer(g.player, dir, ShotSpeed, wall) == ecs.NilEntity {
		return false
	}
	g.nextShot = g.clock.After(FireInterval)
	return true
}

// FireAtNearest aims at the closest live enemy. It reports false when
// there is nothing to shoot.
func (g *Game) FireAtNearest() bool {
	target, ok := g.NearestEnemy()
	if !ok {
		return false
	}
	return g.Fire(target.Sub(g.player.Pos))
}

// NearestEnemy returns the position of the closest live enemy.
func (g *Game) NearestEnemy() (vmath.Vec, bool) {
	var best vmath.Vec
	bestD := -1.0
	for _, id := range g.world.Query(component.CEnemy, component.CPosition) {
		if g.world.Get(id, component.CEnemy).(component.Enemy).Dead {
			continue
		}
		p := g.world.Get(id, component.CPosition).(component.Position).Vec
		if d := p.DistSq(g.player.Pos); bestD < 0 || d < bestD {
			best, bestD = p, d
		}
	}
	return best, bestD >= 0
}

// Hit resolves a direct player attack on target, for ability layers that
// strike without a projectile. Its kills are processed as one batch.
func (g *Game) Hit(target ecs.EntityID) combat.Result {
	if !g.running() {
		return combat.Result{}
	}
	res := g.combat.HitEnemy(combat.Attack{
		Source: combat.SourcePlayer,
		Origin: g.player.Pos,
		Stats:  &g.player.Stats,
	}, target)
	if len(res.Kills) > 0 {
		g.rewards.ProcessKills(res.Kills)
	}
	return res
}

// EnterDoor walks through the exit door when the player stands on it.
func (g *Game) EnterDoor() bool {
	if !g.running() {
		return false
	}
	return g.rooms.EnterDoor()
}

// Choose spends a pending level-up choice on ability id.
func (g *Game) Choose(id string) bool {
	if g.lifecycle.Ended() {
		return false
	}
	return g.player.Choose(id)
}

// AcceptRespawn takes the run's one respawn.
func (g *Game) AcceptRespawn() bool { return g.lifecycle.AcceptRespawn() }

// DeclineRespawn ends a run waiting on its respawn.
func (g *Game) DeclineRespawn() { g.lifecycle.DeclineRespawn() }

// SkipRun abandons the run.
func (g *Game) SkipRun() { g.lifecycle.SkipRun() }
