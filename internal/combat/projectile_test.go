package combat

import (
	"arena-roguelite/internal/component"
	"arena-roguelite/internal/ecs"
	"arena-roguelite/internal/vmath"
	"testing"
)

func TestPierceFalloffAndBudget(t *testing.T) {
	f := newFixture(1)
	p := newPlayer()
	p.Stats.CritChance = 0
	p.Stats.Pierce = 1
	a := f.enemy(100, 100, 100)
	b := f.enemy(100, 100, 100)
	c := f.enemy(100, 100, 100)
	shot := SpawnProjectile(f.w, vmath.Vec{X: 99.9, Y: 100}, vmath.Vec{X: 0.1}, component.Projectile{Radius: 4, Pierce: 1})

	for i := 0; i < 3; i++ {
		f.r.StepProjectiles(p)
	}
	if f.hp(a) != 80 {
		t.Errorf("first enemy hp = %v; want 80", f.hp(a))
	}
	if got := 100 - f.hp(b); !near(got, 20*0.67) {
		t.Errorf("pierced enemy took %v; want %v", got, 20*0.67)
	}
	if f.hp(c) != 100 {
		t.Error("projectile exceeded its pierce budget")
	}
	if f.w.Alive(shot) {
		t.Error("spent projectile still alive")
	}
}

func TestRicochetReachesDistantEnemy(t *testing.T) {
	f := newFixture(1)
	p := newPlayer()
	p.Stats.CritChance = 0
	a := f.enemy(100, 100, 100)
	b := f.enemy(500, 100, 100)
	shot := SpawnProjectile(f.w, vmath.Vec{X: 96, Y: 100}, vmath.Vec{X: 5}, component.Projectile{Radius: 4, Bounces: 1})

	f.r.StepProjectiles(p)
	if f.hp(a) != 80 || !f.w.Alive(shot) {
		t.Fatalf("a hp = %v, shot alive = %v; want a hit and a bounce", f.hp(a), f.w.Alive(shot))
	}
	v := f.w.Get(shot, component.CVelocity).(component.Velocity)
	if v.Move.X <= 0 || v.Move.Y != 0 {
		t.Fatalf("ricochet velocity = %+v; want toward b", v.Move)
	}
	if f.hp(b) != 100 {
		t.Fatalf("b hp = %v before the shot arrives", f.hp(b))
	}
}

func TestRicochetRedirectsOrDeactivates(t *testing.T) {
	f := newFixture(1)
	p := newPlayer()
	p.Stats.CritChance = 0
	a := f.enemy(100, 100, 100)
	b := f.enemy(100, 200, 100)
	shot := SpawnProjectile(f.w, vmath.Vec{X: 96, Y: 100}, vmath.Vec{X: 5}, component.Projectile{Radius: 4, Bounces: 1})

	f.r.StepProjectiles(p)
	if f.hp(a) != 80 || !f.w.Alive(shot) {
		t.Fatal("first hit should land and the projectile should bounce")
	}
	v := f.w.Get(shot, component.CVelocity).(component.Velocity)
	if v.Move.X != 0 || v.Move.Y <= 0 || !near(v.Move.Len(), 5) {
		t.Fatalf("ricochet velocity = %+v; want straight toward b at speed 5", v.Move)
	}
	pr := f.w.Get(shot, component.CProjectile).(component.Projectile)
	if pr.Bounces != 0 {
		t.Fatalf("bounces left = %d", pr.Bounces)
	}

	// Walk into b; no bounces remain and nothing else is around.
	for i := 0; i < 30 && f.w.Alive(shot); i++ {
		f.r.StepProjectiles(p)
	}
	// The bounce target counts as the projectile's second hit.
	if got := 100 - f.hp(b); !near(got, 20*0.67) {
		t.Fatalf("b took %v; want %v", got, 20*0.67)
	}
	if f.w.Alive(shot) {
		t.Fatal("projectile without bounces should deactivate")
	}
}

func TestWallModes(t *testing.T) {
	tests := []struct {
		name  string
		mode  component.WallMode
		alive bool
		velX  float64
	}{
		{"deactivate", component.WallDeactivate, false, 0},
		{"reflect", component.WallReflect, true, -5},
		{"pass through", component.WallPassThrough, true, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(1)
			p := newPlayer()
			shot := SpawnProjectile(f.w, vmath.Vec{X: 798, Y: 100}, vmath.Vec{X: 5}, component.Projectile{Radius: 2, Wall: tt.mode})
			f.r.StepProjectiles(p)
			if f.w.Alive(shot) != tt.alive {
				t.Fatalf("alive = %v; want %v", f.w.Alive(shot), tt.alive)
			}
			if !tt.alive {
				return
			}
			v := f.w.Get(shot, component.CVelocity).(component.Velocity)
			if !near(v.Move.X, tt.velX) {
				t.Fatalf("velocity x = %v; want %v", v.Move.X, tt.velX)
			}
		})
	}
}

func TestPassThroughEventuallyDropped(t *testing.T) {
	f := newFixture(1)
	p := newPlayer()
	shot := SpawnProjectile(f.w, vmath.Vec{X: 798, Y: 100}, vmath.Vec{X: 5}, component.Projectile{Wall: component.WallPassThrough})
	for i := 0; i < 100; i++ {
		f.r.StepProjectiles(p)
	}
	if f.w.Alive(shot) {
		t.Fatal("pass-through projectile never left play")
	}
}

func TestHostileProjectileHitsPlayer(t *testing.T) {
	f := newFixture(1)
	p := newPlayer()
	SpawnProjectile(f.w, p.Pos.Sub(vmath.Vec{X: 3}), vmath.Vec{X: 1}, component.Projectile{Hostile: true, Damage: 12, Radius: 3})
	_, hits := f.r.StepProjectiles(p)
	if len(hits) != 1 || hits[0].Outcome != OutcomeDamaged || p.HP != 88 {
		t.Fatalf("hits = %+v, hp = %v", hits, p.HP)
	}
	if f.w.Count(component.CProjectile) != 0 {
		t.Fatal("hostile projectile survived its hit")
	}
}

func TestClearHostileProjectiles(t *testing.T) {
	f := newFixture(1)
	mine := SpawnProjectile(f.w, vmath.Vec{X: 10, Y: 10}, vmath.Vec{X: 1}, component.Projectile{})
	SpawnProjectile(f.w, vmath.Vec{X: 20, Y: 10}, vmath.Vec{X: 1}, component.Projectile{Hostile: true})
	f.r.ClearHostileProjectiles()
	if got := f.w.Query(component.CProjectile); len(got) != 1 || got[0] != mine {
		t.Fatalf("remaining projectiles = %v", got)
	}
}

func TestFirePlayerUsesStats(t *testing.T) {
	f := newFixture(1)
	p := newPlayer()
	p.Stats.Pierce = 2
	p.Stats.Ricochet = 1
	if id := f.r.FirePlayer(p, vmath.Vec{}, 6, component.WallDeactivate); id != ecs.NilEntity {
		t.Fatal("zero direction should not fire")
	}
	id := f.r.FirePlayer(p, vmath.Vec{X: 0, Y: -3}, 6, component.WallReflect)
	pr := f.w.Get(id, component.CProjectile).(component.Projectile)
	if pr.Pierce != 2 || pr.Bounces != 1 || !pr.Active {
		t.Fatalf("projectile = %+v", pr)
	}
	v := f.w.Get(id, component.CVelocity).(component.Velocity)
	if !near(v.Move.Y, -6) {
		t.Fatalf("velocity = %+v", v.Move)
	}
}
