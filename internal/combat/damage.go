package combat

import "math"

// PiercedDamage is the damage a projectile deals to the enemy at hitIndex
// (0 for the first enemy it touches). It never increases with hitIndex.
func PiercedDamage(base, falloff float64, hitIndex int) float64 {
	if hitIndex <= 0 || falloff <= 0 {
		return base
	}
	if falloff >= 1 {
		return 0
	}
	return base * math.Pow(1-falloff, float64(hitIndex))
}

// ChainDamage is the damage of lightning link k (1-based) from a base hit.
func ChainDamage(base, falloff float64, link int) float64 {
	if link <= 0 {
		return base
	}
	return base * math.Pow(1-falloff, float64(link))
}
