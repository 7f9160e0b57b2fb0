package component

import (
	"arena-roguelite/internal/clock"
	"arena-roguelite/internal/ecs"
)

const (
	CEnemy  ecs.ComponentType = 4
	CBoss   ecs.ComponentType = 5
	CRanged ecs.ComponentType = 6
	CMelee  ecs.ComponentType = 7
)

// Rank separates regular enemies from mini-bosses and bosses.
type Rank uint8

const (
	RankRegular Rank = iota
	RankMiniBoss
	RankBoss
)

func (r Rank) String() string {
	switch r {
	case RankMiniBoss:
		return "miniboss"
	case RankBoss:
		return "boss"
	}
	return "regular"
}

// Enemy is the core's view of a hostile entity. Dead is set exactly once,
// by the combat resolver, when health first reaches zero.
type Enemy struct {
	Kind    string
	Rank    Rank
	Damage  float64 // contact damage, already scaled
	Speed   float64 // arena units per tick, already scaled
	Radius  float64
	GoldMin int
	GoldMax int
	XPBonus float64 // multiplier on base XP, 1.0 when unset
	Dead    bool
}

func (Enemy) Type() ecs.ComponentType { return CEnemy }

// IsBoss reports whether the enemy is the room's boss.
func (e Enemy) IsBoss() bool { return e.Rank == RankBoss }

// BossPhase is the attack-pattern state of a boss.
type BossPhase uint8

const (
	PhaseIdle BossPhase = iota
	PhaseSpread
	PhaseAim
	PhaseFire
	PhaseChargeWindup
	PhaseCharging
)

func (p BossPhase) String() string {
	return [...]string{"idle", "spread", "aim", "fire", "windup", "charging"}[p]
}

// Boss marks an enemy with a phase machine. Its presence is the
// "has phases" capability.
type Boss struct {
	Name       string
	Phase      BossPhase
	PhaseUntil clock.Tick
	Aim        Position // locked target for aim/charge phases
}

func (Boss) Type() ecs.ComponentType { return CBoss }

// Ranged is the "has ranged attack" capability.
type Ranged struct {
	Damage          float64
	ProjectileSpeed float64
	Cooldown        clock.Tick
	ReadyAt         clock.Tick
}

func (Ranged) Type() ecs.ComponentType { return CRanged }

// Melee gates contact attacks with a not-before tick.
type Melee struct {
	Range    float64
	Cooldown clock.Tick
	ReadyAt  clock.Tick
}

func (Melee) Type() ecs.ComponentType { return CMelee }
