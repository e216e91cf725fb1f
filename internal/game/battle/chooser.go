package battle

import (
	"github.com/cory-johannsen/pokerus/internal/game/combat"
	"github.com/cory-johannsen/pokerus/internal/scripting"
)

// Chooser picks the move self uses against foe.
type Chooser interface {
	// Choose returns false when self has no usable attack move.
	Choose(self, foe *combat.Combatant) (combat.AttackMove, bool)
}

// ChooserFunc adapts a function to Chooser.
type ChooserFunc func(self, foe *combat.Combatant) (combat.AttackMove, bool)

// Choose calls f.
func (f ChooserFunc) Choose(self, foe *combat.Combatant) (combat.AttackMove, bool) {
	return f(self, foe)
}

// FirstAttack returns a Chooser that always picks self's first attack move.
// Effect moves are skipped.
func FirstAttack() Chooser {
	return ChooserFunc(func(self, _ *combat.Combatant) (combat.AttackMove, bool) {
		for _, m := range self.Moves {
			if atk, ok := m.(combat.AttackMove); ok {
				return atk, true
			}
		}
		return combat.AttackMove{}, false
	})
}

// Scripted asks a Lua strategy for the move index, falling back when the
// strategy declines, errors or picks an effect move.
type Scripted struct {
	Scripts  *scripting.Manager
	Strategy string
	// Fallback defaults to FirstAttack when nil.
	Fallback Chooser
}

// Choose implements Chooser.
func (s Scripted) Choose(self, foe *combat.Combatant) (combat.AttackMove, bool) {
	if idx, ok := s.Scripts.ChooseMove(s.Strategy, combatantInfo(self), combatantInfo(foe)); ok {
		if atk, isAttack := self.Moves[idx].(combat.AttackMove); isAttack {
			return atk, true
		}
	}
	fallback := s.Fallback
	if fallback == nil {
		fallback = FirstAttack()
	}
	return fallback.Choose(self, foe)
}

func combatantInfo(c *combat.Combatant) scripting.CombatantInfo {
	info := scripting.CombatantInfo{
		UID:      c.ID,
		Name:     c.Name,
		Affinity: c.Affinity.String(),
		HP:       int(c.Stats.HP),
		Level:    int(c.Stats.Level.Value()),
		Moves:    make([]scripting.MoveInfo, 0, len(c.Moves)),
	}
	for _, m := range c.Moves {
		mi := m.Info()
		entry := scripting.MoveInfo{ID: mi.ID, Name: mi.Name, Affinity: mi.Affinity.String()}
		if atk, ok := m.(combat.AttackMove); ok {
			entry.Power = int(atk.Power)
			entry.Attack = true
		}
		info.Moves = append(info.Moves, entry)
	}
	return info
}
