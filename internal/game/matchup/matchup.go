package matchup

import "github.com/cory-johannsen/pokerus/internal/game/bounded"

// Multiplier is an effectiveness factor applied to move power.
type Multiplier = bounded.Percentage[float32]

// Standard table multipliers.
var (
	NotVeryEffective = bounded.Of[float32](0.5)
	Neutral          = bounded.Of[float32](1.0)
	SuperEffective   = bounded.Of[float32](2.0)
)

// Attacking looks up the single-affinity table for atk attacking def.
//
// Postcondition: Returns Unaffected, 0.5, 2.0, or 1.0 for unlisted pairs.
func Attacking(atk, def Affinity) Outcome[Multiplier] {
	switch {
	case (atk == Normal || atk == Fighting) && def == Ghost:
		return Unaffected[Multiplier]()

	case atk == Fire && (def == Fire || def == Water):
		return Affected(NotVeryEffective)
	case atk == Fire && def == Grass:
		return Affected(SuperEffective)

	case atk == Water && (def == Water || def == Grass || def == Lightning):
		return Affected(NotVeryEffective)
	case atk == Water && def == Fire:
		return Affected(SuperEffective)

	case atk == Grass && (def == Grass || def == Fire || def == Lightning):
		return Affected(NotVeryEffective)
	case atk == Grass && def == Water:
		return Affected(SuperEffective)

	case atk == Lightning && (def == Lightning || def == Grass):
		return Affected(NotVeryEffective)
	case atk == Lightning && def == Water:
		return Affected(SuperEffective)

	case atk == Fighting && (def == Fighting || def == Normal):
		return Affected(SuperEffective)
	}
	return Affected(Neutral)
}

// Defending is Attacking seen from the defender's side.
func Defending(def, atk Affinity) Outcome[Multiplier] {
	return Attacking(atk, def)
}

// Combine merges two independent facet checks. When both are Affected the
// multipliers are summed, not multiplied. When exactly one is Affected its
// multiplier is used unchanged. The result is Unaffected only when both are.
func Combine(a, b Outcome[Multiplier]) Outcome[Multiplier] {
	sum := AndThen(a, func(x Multiplier) Outcome[Multiplier] {
		return Map(b, x.Add)
	})
	if sum.IsAffected() {
		return sum
	}
	return a.Or(b)
}

// AgainstProfile resolves a single attacking affinity against a defender profile.
func AgainstProfile(atk Affinity, def Profile) Outcome[Multiplier] {
	if !def.mixed {
		return Attacking(atk, def.primary)
	}
	return Combine(Attacking(atk, def.primary), Attacking(atk, def.secondary))
}

// Resolve resolves an attacker profile against a defender profile. A mixed
// attacker resolves each facet against the whole defender, then combines the
// two results with the same rule, giving up to a four-way cross combination.
func Resolve(atk, def Profile) Outcome[Multiplier] {
	if !atk.mixed {
		return AgainstProfile(atk.primary, def)
	}
	return Combine(AgainstProfile(atk.primary, def), AgainstProfile(atk.secondary, def))
}
