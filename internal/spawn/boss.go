package spawn

import (
	"arena-roguelite/internal/component"
	"arena-roguelite/internal/ecs"
	"arena-roguelite/internal/vmath"
	"math"
	"time"
)

const (
	bossIdle     = 1200 * time.Millisecond
	bossAim      = 800 * time.Millisecond
	bossWindup   = 600 * time.Millisecond
	bossCharge   = time.Second
	spreadShots  = 8
	fanShots     = 3
	fanSpread    = 0.25 // radians between fan shots
	chargeFactor = 3.0
)

// bossStep runs the boss phase cycle:
// idle -> spread -> aim -> fire -> windup -> charging -> idle.
// Ability intensity scales the spread ring and charge speed.
func (s *Spawner) bossStep(id ecs.EntityID, e component.Enemy) {
	b := s.world.Get(id, component.CBoss).(component.Boss)
	at := s.position(id)
	intensity := 1.0
	if s.req.Chapter != nil {
		intensity = s.req.Chapter.Modifiers(e.Kind).AbilityIntensity
	}
	r, _ := s.world.Get(id, component.CRanged).(component.Ranged)
	speed, dmg := r.ProjectileSpeed, r.Damage
	if speed <= 0 {
		speed, dmg = 4, e.Damage
	}

	if !s.clock.Reached(b.PhaseUntil) {
		switch b.Phase {
		case component.PhaseIdle:
			s.chase(id, e)
		case component.PhaseCharging:
			if at.Dist(b.Aim.Vec) < e.Radius {
				b.PhaseUntil = s.clock.Now()
			}
		default:
			s.steer(id, vmath.Vec{})
		}
		s.world.Add(id, b)
		return
	}

	switch b.Phase {
	case component.PhaseIdle:
		b.Phase = component.PhaseSpread
		b.PhaseUntil = s.clock.Now()
		n := int(math.Round(spreadShots * intensity))
		for i := 0; i < n; i++ {
			dir := vmath.FromAngle(2 * math.Pi * float64(i) / float64(n))
			s.shoot(id, at, dir, speed, dmg, component.WallPassThrough)
		}
	case component.PhaseSpread:
		b.Phase = component.PhaseAim
		b.Aim = component.Position{Vec: s.player.Pos}
		b.PhaseUntil = s.clock.After(bossAim)
		s.steer(id, vmath.Vec{})
	case component.PhaseAim:
		b.Phase = component.PhaseFire
		b.PhaseUntil = s.clock.Now()
		base := math.Atan2(b.Aim.Y-at.Y, b.Aim.X-at.X)
		for i := 0; i < fanShots; i++ {
			a := base + fanSpread*float64(i-fanShots/2)
			s.shoot(id, at, vmath.FromAngle(a), speed, dmg, component.WallReflect)
		}
	case component.PhaseFire:
		b.Phase = component.PhaseChargeWindup
		b.PhaseUntil = s.clock.After(bossWindup)
	case component.PhaseChargeWindup:
		b.Phase = component.PhaseCharging
		b.Aim = component.Position{Vec: s.player.Pos}
		b.PhaseUntil = s.clock.After(bossCharge)
		dir := b.Aim.Sub(at).Normalize()
		s.steer(id, dir.Scale(e.Speed*chargeFactor*intensity))
	default:
		b.Phase = component.PhaseIdle
		b.PhaseUntil = s.clock.After(bossIdle)
		s.steer(id, vmath.Vec{})
	}
	s.world.Add(id, b)
}
