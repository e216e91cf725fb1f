package battle

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/pokerus/internal/game/combat"
	"github.com/cory-johannsen/pokerus/internal/observability"
)

// Engine manages all active battles, keyed by battle ID.
// All methods are safe for concurrent use.
type Engine struct {
	mu         sync.RWMutex
	battles    map[string]*Battle
	combatants map[string]*combat.Combatant
	src        combat.Source
	maxTurns   int
	logger     *zap.Logger
}

// NewEngine creates an empty Engine whose battles draw from src.
//
// Precondition: src and logger must be non-nil; maxTurns >= 1.
// Postcondition: Returns a non-nil Engine ready for use.
func NewEngine(src combat.Source, maxTurns int, logger *zap.Logger) *Engine {
	return &Engine{
		battles:    make(map[string]*Battle),
		combatants: make(map[string]*combat.Combatant),
		src:        src,
		maxTurns:   maxTurns,
		logger:     logger,
	}
}

// Start begins a new battle between a and b under a fresh ID.
//
// Precondition: a.Combatant and b.Combatant must be non-nil and distinct.
// Postcondition: Returns an error if either combatant is already in an active battle.
func (e *Engine) Start(a, b Side) (*Battle, error) {
	if a.Combatant == nil || b.Combatant == nil {
		return nil, fmt.Errorf("battle: both sides need a combatant")
	}
	if a.Combatant.ID == b.Combatant.ID {
		return nil, fmt.Errorf("battle: combatant %q cannot fight itself", a.Combatant.ID)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for _, c := range []*combat.Combatant{a.Combatant, b.Combatant} {
		if _, busy := e.combatants[c.ID]; busy {
			return nil, fmt.Errorf("battle: combatant %q already in an active battle", c.ID)
		}
	}

	id := uuid.New().String()
	logger := observability.ForBattle(e.logger, id)
	bt := New(id, a, b, e.maxTurns, combat.NewResolver(e.src, logger), logger)
	e.battles[id] = bt
	e.combatants[a.Combatant.ID] = a.Combatant
	e.combatants[b.Combatant.ID] = b.Combatant
	logger.Info("battle started",
		zap.String("a", a.Combatant.Name),
		zap.String("b", b.Combatant.Name),
	)
	return bt, nil
}

// Get returns the active battle with id.
//
// Postcondition: Returns (battle, true) if found, or (nil, false) otherwise.
func (e *Engine) Get(id string) (*Battle, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	bt, ok := e.battles[id]
	return bt, ok
}

// End removes the battle record for id and releases its combatants.
func (e *Engine) End(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	bt, ok := e.battles[id]
	if !ok {
		return
	}
	a, b := bt.Combatants()
	delete(e.combatants, a.ID)
	delete(e.combatants, b.ID)
	delete(e.battles, id)
}

// ExpectedDamage reports the damage attacker's move moveID would deal to
// defender on a hit. Both combatants must be in active battles. It reads
// only immutable combatant fields, so it is safe to call from inside a turn.
//
// Postcondition: Returns false for unknown combatants or moves, effect moves,
// and unaffected defenders.
func (e *Engine) ExpectedDamage(attackerUID, moveID, defenderUID string) (int, bool) {
	e.mu.RLock()
	attacker, aok := e.combatants[attackerUID]
	defender, dok := e.combatants[defenderUID]
	e.mu.RUnlock()
	if !aok || !dok {
		return 0, false
	}
	for _, m := range attacker.Moves {
		atk, ok := m.(combat.AttackMove)
		if !ok || atk.ID != moveID {
			continue
		}
		dmg, ok := combat.NewResolver(e.src, e.logger).ExpectedDamage(attacker, atk, defender)
		return int(dmg), ok
	}
	return 0, false
}
