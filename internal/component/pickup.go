package component

import "arena-roguelite/internal/ecs"

const (
	CPickup ecs.ComponentType = 10
	CDoor   ecs.ComponentType = 11
)

// PickupKind is what a dropped pickup grants.
type PickupKind uint8

const (
	PickupGold PickupKind = iota
	PickupHealth
)

// Pickup is a dropped reward lying in the arena. Magnet is set when the
// room clears and pulls it toward the player.
type Pickup struct {
	Kind   PickupKind
	Value  int
	Magnet bool
}

func (Pickup) Type() ecs.ComponentType { return CPickup }

// Door is the interactive exit spawned after a room settles.
type Door struct{}

func (Door) Type() ecs.ComponentType { return CDoor }
