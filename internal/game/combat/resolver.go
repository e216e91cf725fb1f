package combat

import (
	"math"

	"go.uber.org/zap"

	"github.com/cory-johannsen/pokerus/internal/game/bounded"
	"github.com/cory-johannsen/pokerus/internal/game/matchup"
)

// Source is the subset of dice.Source used by the resolver.
// Using a local interface keeps combat free of the dice package.
type Source interface {
	Intn(n int) int
}

// accuracyScale is the width of the accuracy roll. Samples fall in [0, 254],
// so accuracy 255 always hits and accuracy 0 always misses.
const accuracyScale = math.MaxUint8

// Resolver turns (attacker, move, defender) into an AttackOutcome.
type Resolver struct {
	src    Source
	logger *zap.Logger
}

// NewResolver creates a Resolver.
//
// Precondition: src and logger must be non-nil.
func NewResolver(src Source, logger *zap.Logger) *Resolver {
	return &Resolver{src: src, logger: logger}
}

// RollAccuracy draws one sample on the accuracy scale and reports whether it
// lands under acc. A nil acc always hits and consumes no randomness.
func (r *Resolver) RollAccuracy(acc *bounded.BoundedPercentage[uint8]) bool {
	if acc == nil {
		return true
	}
	sample := uint8(r.src.Intn(accuracyScale))
	hit := sample < acc.Value()
	r.logger.Debug("accuracy roll",
		zap.Uint8("sample", sample),
		zap.Uint8("accuracy", acc.Value()),
		zap.Bool("hit", hit),
	)
	return hit
}

// DamageOnAttack resolves one attack. It neither mutates the combatants nor
// consumes move uses.
//
// Precondition: attacker and defender must be non-nil.
// Postcondition: Returns Missed when the accuracy roll fails, DidNotAffect when
// the defender is immune, otherwise Hit with floor(effectiveness * power).
func (r *Resolver) DamageOnAttack(attacker *Combatant, move AttackMove, defender *Combatant) AttackOutcome {
	if !r.RollAccuracy(move.Accuracy) {
		return AttackOutcome{Kind: Missed}
	}

	damage, ok := r.ExpectedDamage(attacker, move, defender)
	if !ok {
		return AttackOutcome{Kind: DidNotAffect}
	}
	return HitFor(damage)
}

// ExpectedDamage computes the damage move would deal on a hit, skipping the
// accuracy roll. It reports false when the defender is unaffected.
func (r *Resolver) ExpectedDamage(attacker *Combatant, move AttackMove, defender *Combatant) (Health, bool) {
	effectiveness, ok := matchup.Resolve(attacker.Affinity, defender.Affinity).Get()
	if !ok {
		r.logger.Debug("defender unaffected",
			zap.String("attacker", attacker.Name),
			zap.String("defender", defender.Name),
			zap.Stringer("attacker_affinity", attacker.Affinity),
			zap.Stringer("defender_affinity", defender.Affinity),
		)
		return 0, false
	}

	if move.IsStabFor(attacker.Affinity) {
		effectiveness = StabBonus.Mul(effectiveness)
		r.logger.Debug("same-affinity bonus", zap.String("move", move.Name))
	}

	damage := move.DamageAtEffectiveness(effectiveness)
	r.logger.Debug("attack resolved",
		zap.String("attacker", attacker.Name),
		zap.String("move", move.Name),
		zap.String("defender", defender.Name),
		zap.Float32("effectiveness", effectiveness.Value()),
		zap.Uint8("power", uint8(move.Power)),
		zap.Uint16("damage", uint16(damage)),
	)
	return damage, true
}

// Attack resolves move and applies the outcome to defender in one step.
//
// Precondition: callers must not run Attack concurrently against the same defender.
func (r *Resolver) Attack(attacker *Combatant, move AttackMove, defender *Combatant) AttackOutcome {
	outcome := r.DamageOnAttack(attacker, move, defender)
	defender.DefendAgainst(outcome, r.logger)
	return outcome
}
