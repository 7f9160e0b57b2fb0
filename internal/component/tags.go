package component

import (
	"arena-roguelite/internal/clock"
	"arena-roguelite/internal/ecs"
)

const CTagPending ecs.ComponentType = 13

// TagPending marks a telegraphed spawn that has not materialized yet. It
// counts toward the room's pending spawns but cannot be hit.
type TagPending struct {
	Kind    string
	Rank    Rank
	ReadyAt clock.Tick
}

func (TagPending) Type() ecs.ComponentType { return CTagPending }
