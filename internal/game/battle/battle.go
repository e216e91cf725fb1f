// Package battle runs one-on-one battles between two combatants, alternating
// attacks until one side faints or the turn limit is reached.
package battle

import (
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/cory-johannsen/pokerus/internal/game/combat"
)

// ErrBattleOver is returned by Turn once a side has fainted or the turn limit is reached.
var ErrBattleOver = errors.New("battle: battle is over")

// Side is one participant and the policy choosing its moves.
type Side struct {
	Combatant *combat.Combatant
	// Chooser defaults to FirstAttack when nil.
	Chooser Chooser
}

// TurnReport describes one resolved turn.
type TurnReport struct {
	// Turn is 1-based.
	Turn     int
	Attacker *combat.Combatant
	Defender *combat.Combatant
	// Move is the zero value when Skipped is true.
	Move    combat.AttackMove
	Outcome combat.AttackOutcome
	// Skipped is true when the attacker had no usable attack move.
	Skipped        bool
	DefenderHealth combat.Health
}

// Battle holds the live state of a single battle.
// All methods are safe for concurrent use; turns are serialized.
type Battle struct {
	ID string

	mu       sync.Mutex
	sides    [2]Side
	active   int
	turn     int
	maxTurns int
	resolver *combat.Resolver
	logger   *zap.Logger
}

// New creates a Battle in which a moves first.
//
// Precondition: a.Combatant and b.Combatant must be non-nil; maxTurns >= 1;
// resolver and logger must be non-nil.
func New(id string, a, b Side, maxTurns int, resolver *combat.Resolver, logger *zap.Logger) *Battle {
	for _, s := range []*Side{&a, &b} {
		if s.Chooser == nil {
			s.Chooser = FirstAttack()
		}
	}
	return &Battle{
		ID:       id,
		sides:    [2]Side{a, b},
		maxTurns: maxTurns,
		resolver: resolver,
		logger:   logger,
	}
}

// Combatants returns both participants in turn order.
func (b *Battle) Combatants() (*combat.Combatant, *combat.Combatant) {
	return b.sides[0].Combatant, b.sides[1].Combatant
}

// Over reports whether no further turns can be taken.
func (b *Battle) Over() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.overLocked()
}

func (b *Battle) overLocked() bool {
	return b.turn >= b.maxTurns || b.sides[0].Combatant.Fainted() || b.sides[1].Combatant.Fainted()
}

// Winner returns the combatant still standing.
//
// Postcondition: Returns (nil, false) while both sides stand, including a draw at the turn limit.
func (b *Battle) Winner() (*combat.Combatant, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.winnerLocked()
}

func (b *Battle) winnerLocked() (*combat.Combatant, bool) {
	a, d := b.sides[0].Combatant, b.sides[1].Combatant
	switch {
	case a.Fainted() && !d.Fainted():
		return d, true
	case d.Fainted() && !a.Fainted():
		return a, true
	}
	return nil, false
}

// Turn lets the active side attack the other, then hands the turn over.
//
// Postcondition: Returns ErrBattleOver without side effects when Over is true.
func (b *Battle) Turn() (TurnReport, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.overLocked() {
		return TurnReport{}, ErrBattleOver
	}
	b.turn++

	atk := b.sides[b.active]
	def := b.sides[1-b.active]
	b.active = 1 - b.active

	report := TurnReport{
		Turn:     b.turn,
		Attacker: atk.Combatant,
		Defender: def.Combatant,
	}

	move, ok := atk.Chooser.Choose(atk.Combatant, def.Combatant)
	if !ok {
		b.logger.Debug("no usable attack move", zap.String("attacker", atk.Combatant.Name))
		report.Skipped = true
		report.DefenderHealth = def.Combatant.Stats.HP
		return report, nil
	}

	report.Move = move
	report.Outcome = b.resolver.Attack(atk.Combatant, move, def.Combatant)
	report.DefenderHealth = def.Combatant.Stats.HP

	b.logger.Debug("turn resolved",
		zap.Int("turn", report.Turn),
		zap.String("attacker", atk.Combatant.Name),
		zap.String("move", move.Name),
		zap.Stringer("outcome", report.Outcome),
		zap.Uint16("defender_health", uint16(report.DefenderHealth)),
	)
	if def.Combatant.Fainted() {
		b.logger.Info("combatant fainted",
			zap.String("combatant", def.Combatant.Name),
			zap.Int("turn", report.Turn),
		)
	}
	return report, nil
}

// Run takes turns until the battle is over, passing each report to onTurn
// when it is non-nil.
//
// Postcondition: Over is true; the result matches Winner.
func (b *Battle) Run(onTurn func(TurnReport)) (*combat.Combatant, bool) {
	for {
		report, err := b.Turn()
		if errors.Is(err, ErrBattleOver) {
			return b.Winner()
		}
		if onTurn != nil {
			onTurn(report)
		}
	}
}
