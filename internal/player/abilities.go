package player

import "math/rand"

// Ability is a level-up pick. Its modifiers join the player's talent and
// equipment modifiers for the rest of the run.
type Ability struct {
	ID        string
	Name      string
	Modifiers []Modifier
}

// Abilities is the catalog offered on level-up.
var Abilities = []Ability{
	{ID: "power", Name: "Power Shot", Modifiers: []Modifier{{Stat: StatDamage, Mult: 0.2}}},
	{ID: "vitality", Name: "Vitality", Modifiers: []Modifier{{Stat: StatMaxHP, Mult: 0.2}}},
	{ID: "sharp_eye", Name: "Sharp Eye", Modifiers: []Modifier{{Stat: StatCritChance, Add: 0.1}, {Stat: StatCritMultiplier, Add: 0.4}}},
	{ID: "pierce", Name: "Piercing Shot", Modifiers: []Modifier{{Stat: StatPierce, Add: 1}}},
	{ID: "chain", Name: "Chain Lightning", Modifiers: []Modifier{{Stat: StatChainCount, Add: 2}}},
	{ID: "ricochet", Name: "Ricochet", Modifiers: []Modifier{{Stat: StatRicochet, Add: 2}}},
	{ID: "explosive", Name: "Explosive Rounds", Modifiers: []Modifier{{Stat: StatExplosive, Add: 60}, {Stat: StatExplosivePct, Add: 0.4}}},
	{ID: "blaze", Name: "Blaze", Modifiers: []Modifier{{Stat: StatFireChance, Add: 0.3}, {Stat: StatFireDamage, Add: 4}}},
	{ID: "venom", Name: "Venom", Modifiers: []Modifier{{Stat: StatPoisonChance, Add: 0.3}, {Stat: StatPoisonDamage, Add: 3}}},
	{ID: "bloodletting", Name: "Bloodletting", Modifiers: []Modifier{{Stat: StatBleedChance, Add: 0.3}, {Stat: StatBleedDamage, Add: 5}}},
	{ID: "frost", Name: "Frost Touch", Modifiers: []Modifier{{Stat: StatFreezeChance, Add: 0.25}}},
	{ID: "shatter", Name: "Shatter", Modifiers: []Modifier{{Stat: StatShatter, Add: 2.0}}},
	{ID: "nova", Name: "Death Nova", Modifiers: []Modifier{{Stat: StatNovaRadius, Add: 80}, {Stat: StatNovaPercent, Add: 0.25}}},
	{ID: "bloodthirst", Name: "Bloodthirst", Modifiers: []Modifier{{Stat: StatLifeSteal, Add: 2}}},
	{ID: "iron_will", Name: "Iron Will", Modifiers: []Modifier{{Stat: StatIronWill, Add: 0.25}}},
	{ID: "fleet", Name: "Fleet Foot", Modifiers: []Modifier{{Stat: StatDodge, Add: 0.1}, {Stat: StatSpeed, Mult: 0.1}}},
	{ID: "bulwark", Name: "Bulwark", Modifiers: []Modifier{{Stat: StatShield, Add: 30}}},
	{ID: "knockback", Name: "Heavy Rounds", Modifiers: []Modifier{{Stat: StatKnockback, Add: 6}}},
	{ID: "scholar", Name: "Scholar", Modifiers: []Modifier{{Stat: StatXP, Mult: 0.25}}},
}

// AbilityByID looks up a catalog entry.
func AbilityByID(id string) (Ability, bool) {
	for _, a := range Abilities {
		if a.ID == id {
			return a, true
		}
	}
	return Ability{}, false
}

// Offer draws n distinct abilities for a level-up pick.
func Offer(rng *rand.Rand, n int) []Ability {
	idx := rng.Perm(len(Abilities))
	if n > len(idx) {
		n = len(idx)
	}
	out := make([]Ability, n)
	for i := range out {
		out[i] = Abilities[idx[i]]
	}
	return out
}
