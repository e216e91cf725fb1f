package ruleset

import (
	"fmt"
	"math"

	"github.com/cory-johannsen/pokerus/internal/game/combat"
	"github.com/cory-johannsen/pokerus/internal/game/matchup"
	"github.com/cory-johannsen/pokerus/internal/game/progression"
)

// ExperienceDef is the YAML form of an experience window.
type ExperienceDef struct {
	Value   uint32 `yaml:"value"`
	Current uint32 `yaml:"current"`
	Next    uint32 `yaml:"next"`
}

// SpeciesDef is the YAML form of a combatant template.
//
// Precondition: ID, Name, one or two Affinities, Health and Level must be set after loading.
type SpeciesDef struct {
	ID         string        `yaml:"id"`
	Name       string        `yaml:"name"`
	Affinities []string      `yaml:"affinities"`
	Health     int           `yaml:"health"`
	Level      int           `yaml:"level"`
	Experience ExperienceDef `yaml:"experience"`
	Moves      []string      `yaml:"moves"`
}

// LoadSpecies reads all .yaml files in dir and parses each as a SpeciesDef.
//
// Precondition: dir must be a readable directory path.
// Postcondition: Returns all parsed species (may be empty slice) or a non-nil error.
func LoadSpecies(dir string) ([]*SpeciesDef, error) {
	return loadDir[SpeciesDef](dir, "species")
}

// validate checks everything about s that does not depend on the move catalog.
func (s *SpeciesDef) validate() (matchup.Profile, combat.Stats, error) {
	if s.ID == "" {
		return matchup.Profile{}, combat.Stats{}, fmt.Errorf("species %q: id must not be empty", s.Name)
	}
	profile, err := matchup.ParseProfile(s.Affinities)
	if err != nil {
		return matchup.Profile{}, combat.Stats{}, fmt.Errorf("species %s: %w", s.ID, err)
	}
	if s.Health < 1 || s.Health > math.MaxUint16 {
		return matchup.Profile{}, combat.Stats{}, fmt.Errorf("species %s: health must be 1-65535, got %d", s.ID, s.Health)
	}
	lvl, ok := progression.ParseLevel(s.Level)
	if !ok {
		return matchup.Profile{}, combat.Stats{}, fmt.Errorf("species %s: level must be %d-%d, got %d",
			s.ID, progression.MinLevel, progression.MaxLevel, s.Level)
	}
	exp := progression.Experience{
		Value:     s.Experience.Value,
		Threshold: progression.Threshold{Current: s.Experience.Current, Next: s.Experience.Next},
	}
	if exp.Threshold.Next > exp.Threshold.Current {
		if _, ok := exp.AsPercentage(); !ok {
			return matchup.Profile{}, combat.Stats{}, fmt.Errorf("species %s: experience %d outside threshold window [%d, %d]",
				s.ID, exp.Value, exp.Threshold.Current, exp.Threshold.Next)
		}
	}
	if len(s.Moves) > combat.MaxKnownMoves {
		return matchup.Profile{}, combat.Stats{}, fmt.Errorf("species %s: %w", s.ID, combat.ErrTooManyMoves)
	}
	return profile, combat.Stats{HP: combat.Health(s.Health), Exp: exp, Level: lvl}, nil
}
