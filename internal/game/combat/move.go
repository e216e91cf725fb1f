package combat

import (
	"math"

	"github.com/cory-johannsen/pokerus/internal/game/bounded"
	"github.com/cory-johannsen/pokerus/internal/game/matchup"
)

// StabBonus is the multiplier applied when a move shares an affinity with its user.
var StabBonus = bounded.Of[float32](2.0)

// MoveInfo holds the fields common to every move.
type MoveInfo struct {
	ID          string
	Name        string
	Description string
	Affinity    matchup.Affinity
	MaxUses     uint8
}

// Move is implemented by AttackMove and EffectMove.
type Move interface {
	Info() MoveInfo
}

// Power is a move's raw damage magnitude.
type Power uint8

// Damage pairs a power with an optional effectiveness multiplier.
type Damage struct {
	power         Power
	effectiveness *matchup.Multiplier
}

// IntoDamage returns damage with no effectiveness applied.
func (p Power) IntoDamage() Damage {
	return Damage{power: p}
}

// IntoDamageAt returns damage scaled by effectiveness.
func (p Power) IntoDamageAt(effectiveness matchup.Multiplier) Damage {
	return Damage{power: p, effectiveness: &effectiveness}
}

// Calculate returns floor(effectiveness * power), using 1.0 when no
// effectiveness was supplied.
//
// Postcondition: Result saturates at math.MaxUint16.
func (d Damage) Calculate() Health {
	eff := float32(1.0)
	if d.effectiveness != nil {
		eff = d.effectiveness.Value()
	}
	v := math.Floor(float64(eff) * float64(d.power))
	switch {
	case v <= 0 || math.IsNaN(v):
		return 0
	case v >= math.MaxUint16:
		return math.MaxUint16
	}
	return Health(v)
}

// AttackMove is a move that deals damage.
type AttackMove struct {
	MoveInfo
	// Accuracy is nil for moves that never miss.
	Accuracy *bounded.BoundedPercentage[uint8]
	Power    Power
}

// Info returns the common move fields.
func (m AttackMove) Info() MoveInfo { return m.MoveInfo }

// IsStabFor reports whether the move shares an affinity with profile.
func (m AttackMove) IsStabFor(profile matchup.Profile) bool {
	return profile.Contains(m.Affinity)
}

// DamageAtEffectiveness computes the health delta at the given multiplier.
func (m AttackMove) DamageAtEffectiveness(effectiveness matchup.Multiplier) Health {
	return m.Power.IntoDamageAt(effectiveness).Calculate()
}

// EffectMove is a non-damaging move. Its effects are not modelled yet.
type EffectMove struct {
	MoveInfo
}

// Info returns the common move fields.
func (m EffectMove) Info() MoveInfo { return m.MoveInfo }
