package component

import "arena-roguelite/internal/ecs"

const CHealth ecs.ComponentType = 3

type Health struct {
	Current, Max float64
}

func (Health) Type() ecs.ComponentType { return CHealth }

// Fraction returns Current/Max, or 0 when Max is not positive.
func (h Health) Fraction() float64 {
	if h.Max <= 0 {
		return 0
	}
	return h.Current / h.Max
}
