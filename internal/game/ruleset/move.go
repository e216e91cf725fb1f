package ruleset

import (
	"fmt"
	"math"

	"github.com/cory-johannsen/pokerus/internal/game/bounded"
	"github.com/cory-johannsen/pokerus/internal/game/combat"
	"github.com/cory-johannsen/pokerus/internal/game/matchup"
)

// Move kinds accepted in content.
const (
	KindAttack = "attack"
	KindEffect = "effect"
)

// MoveDef is the YAML form of a move.
//
// Accuracy is a fraction in [0, 1]; omit it for moves that never miss.
type MoveDef struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Affinity    string   `yaml:"affinity"`
	Kind        string   `yaml:"kind"`
	Power       int      `yaml:"power"`
	Accuracy    *float64 `yaml:"accuracy"`
	MaxUses     int      `yaml:"max_uses"`
}

// LoadMoves reads all .yaml files in dir and parses each as a MoveDef.
//
// Precondition: dir must be a readable directory path.
// Postcondition: Returns all parsed moves (may be empty slice) or a non-nil error.
func LoadMoves(dir string) ([]*MoveDef, error) {
	return loadDir[MoveDef](dir, "move")
}

// Build converts the definition into a combat.Move.
//
// Postcondition: Returns a descriptive error for unknown affinities or kinds,
// power or max_uses outside 0..255, and accuracy outside [0, 1].
func (d *MoveDef) Build() (combat.Move, error) {
	if d.ID == "" {
		return nil, fmt.Errorf("move %q: id must not be empty", d.Name)
	}
	affinity, err := matchup.ParseAffinity(d.Affinity)
	if err != nil {
		return nil, fmt.Errorf("move %s: %w", d.ID, err)
	}
	if d.MaxUses < 0 || d.MaxUses > math.MaxUint8 {
		return nil, fmt.Errorf("move %s: max_uses must be 0-255, got %d", d.ID, d.MaxUses)
	}
	info := combat.MoveInfo{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Affinity:    affinity,
		MaxUses:     uint8(d.MaxUses),
	}

	switch d.Kind {
	case KindEffect:
		return combat.EffectMove{MoveInfo: info}, nil
	case KindAttack, "":
	default:
		return nil, fmt.Errorf("move %s: kind must be one of [attack, effect], got %q", d.ID, d.Kind)
	}

	if d.Power < 0 || d.Power > math.MaxUint8 {
		return nil, fmt.Errorf("move %s: power must be 0-255, got %d", d.ID, d.Power)
	}
	m := combat.AttackMove{MoveInfo: info, Power: combat.Power(d.Power)}
	if d.Accuracy != nil {
		acc, err := accuracyFromFraction(*d.Accuracy)
		if err != nil {
			return nil, fmt.Errorf("move %s: %w", d.ID, err)
		}
		m.Accuracy = &acc
	}
	return m, nil
}

// accuracyFromFraction maps a [0, 1] fraction onto the uint8 accuracy scale.
func accuracyFromFraction(f float64) (bounded.BoundedPercentage[uint8], error) {
	frac, ok := bounded.Of(f).Bound()
	if !ok {
		return bounded.BoundedPercentage[uint8]{}, fmt.Errorf("accuracy must be within [0, 1], got %v", f)
	}
	scaled := math.Round(frac.Value() * float64(bounded.Unity[uint8]()))
	acc, ok := bounded.NewBoundedPercentage(uint8(scaled))
	if !ok {
		return bounded.BoundedPercentage[uint8]{}, fmt.Errorf("accuracy %v does not fit the byte scale", f)
	}
	return acc, nil
}
