// Package combat implements attack resolution between two combatants: accuracy,
// affinity effectiveness, same-affinity bonus and the resulting health delta.
package combat

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/pokerus/internal/game/matchup"
	"github.com/cory-johannsen/pokerus/internal/game/progression"
)

// MaxKnownMoves is the number of moves a combatant can know at once.
const MaxKnownMoves = 4

// ErrTooManyMoves is returned when a combatant is built with more than MaxKnownMoves moves.
var ErrTooManyMoves = errors.New("combat: a combatant knows at most 4 moves")

// Health is a hit point magnitude.
type Health uint16

// SaturatingSub returns h - d, flooring at zero.
//
// Postcondition: Returns 0 when d >= h; never wraps.
func (h Health) SaturatingSub(d Health) Health {
	if d >= h {
		return 0
	}
	return h - d
}

// Stats is the mutable state a combatant owns exclusively.
type Stats struct {
	HP    Health
	Exp   progression.Experience
	Level progression.Level
}

// LevelUp advances the level and rolls the experience window to end at next.
//
// Postcondition: Returns false and leaves s unchanged unless progression.CanLevelUp
// holds and next extends the current window.
func (s *Stats) LevelUp(next uint32) bool {
	lvl, exp, ok := progression.LevelUp(s.Level, s.Exp, next)
	if !ok {
		return false
	}
	s.Level, s.Exp = lvl, exp
	return true
}

// Combatant is one side of a battle.
type Combatant struct {
	// ID identifies this combatant instance.
	ID       string
	Name     string
	Affinity matchup.Profile
	Stats    Stats
	Moves    []Move
}

// NewCombatant builds a Combatant.
//
// Precondition: len(moves) <= MaxKnownMoves.
// Postcondition: Returns ErrTooManyMoves if the precondition is violated.
func NewCombatant(id, name string, affinity matchup.Profile, stats Stats, moves ...Move) (*Combatant, error) {
	if len(moves) > MaxKnownMoves {
		return nil, fmt.Errorf("%w: %s has %d", ErrTooManyMoves, name, len(moves))
	}
	known := make([]Move, len(moves))
	copy(known, moves)
	return &Combatant{ID: id, Name: name, Affinity: affinity, Stats: stats, Moves: known}, nil
}

// Fainted reports whether the combatant has no health left.
func (c *Combatant) Fainted() bool { return c.Stats.HP == 0 }

// CanLevelUp reports whether the combatant's level may advance.
//
// Postcondition: true iff level < max and experience equals the next threshold exactly.
func (c *Combatant) CanLevelUp() bool {
	return progression.CanLevelUp(c.Stats.Level, c.Stats.Exp)
}

// DefendAgainst applies an attack outcome to c's health. Missed and
// DidNotAffect only trace; Hit subtracts the damage, saturating at zero.
//
// Precondition: logger must be non-nil. Callers must serialize calls per combatant.
// Postcondition: c.Stats.HP never underflows.
func (c *Combatant) DefendAgainst(outcome AttackOutcome, logger *zap.Logger) {
	switch outcome.Kind {
	case Missed:
		logger.Debug("attack missed", zap.String("defender", c.Name))
	case DidNotAffect:
		logger.Debug("attack does not affect", zap.String("defender", c.Name))
	case Hit:
		before := c.Stats.HP
		c.Stats.HP = before.SaturatingSub(outcome.Damage)
		if outcome.Damage > before {
			logger.Debug("damage exceeds remaining health",
				zap.String("defender", c.Name),
				zap.Uint16("health", uint16(before)),
				zap.Uint16("damage", uint16(outcome.Damage)),
			)
		}
		logger.Debug("attack hit",
			zap.String("defender", c.Name),
			zap.Uint16("damage", uint16(outcome.Damage)),
			zap.Uint16("health", uint16(c.Stats.HP)),
		)
	}
}

// OutcomeKind discriminates AttackOutcome.
type OutcomeKind int

const (
	Missed OutcomeKind = iota
	DidNotAffect
	Hit
)

// String returns a human-readable outcome label.
func (k OutcomeKind) String() string {
	switch k {
	case Missed:
		return "missed"
	case DidNotAffect:
		return "did not affect"
	case Hit:
		return "hit"
	default:
		return "unknown"
	}
}

// AttackOutcome is the terminal result of one attack resolution. Damage is
// meaningful only when Kind is Hit.
type AttackOutcome struct {
	Kind   OutcomeKind
	Damage Health
}

// HitFor returns a Hit outcome carrying damage.
func HitFor(damage Health) AttackOutcome {
	return AttackOutcome{Kind: Hit, Damage: damage}
}

// String renders the outcome, e.g. "hit for 40".
func (o AttackOutcome) String() string {
	if o.Kind == Hit {
		return fmt.Sprintf("hit for %d", o.Damage)
	}
	return o.Kind.String()
}
