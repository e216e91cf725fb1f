package ruleset

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/cory-johannsen/pokerus/internal/game/combat"
	"github.com/cory-johannsen/pokerus/internal/game/matchup"
	"github.com/cory-johannsen/pokerus/internal/game/progression"
)

var (
	// ErrUnknownSpecies is returned when spawning a species that was never registered.
	ErrUnknownSpecies = errors.New("ruleset: unknown species")
	// ErrUnknownMove is returned when a species references a move missing from the catalog.
	ErrUnknownMove = errors.New("ruleset: unknown move")
)

type template struct {
	def     *SpeciesDef
	profile matchup.Profile
	stats   combat.Stats
	moves   []combat.Move
}

// Registry holds validated species and moves, ready to spawn combatants.
type Registry struct {
	moves   map[string]combat.Move
	species map[string]*template
}

// NewRegistry validates and indexes species and moves.
//
// Precondition: every move ID referenced by a species must appear in moves.
// Postcondition: Returns a Registry or the first validation error.
func NewRegistry(species []*SpeciesDef, moves []*MoveDef) (*Registry, error) {
	r := &Registry{
		moves:   make(map[string]combat.Move, len(moves)),
		species: make(map[string]*template, len(species)),
	}
	for _, d := range moves {
		m, err := d.Build()
		if err != nil {
			return nil, err
		}
		if _, dup := r.moves[d.ID]; dup {
			return nil, fmt.Errorf("move %s: duplicate id", d.ID)
		}
		r.moves[d.ID] = m
	}
	for _, s := range species {
		profile, stats, err := s.validate()
		if err != nil {
			return nil, err
		}
		if _, dup := r.species[s.ID]; dup {
			return nil, fmt.Errorf("species %s: duplicate id", s.ID)
		}
		tmpl := &template{def: s, profile: profile, stats: stats}
		for _, id := range s.Moves {
			m, ok := r.moves[id]
			if !ok {
				return nil, fmt.Errorf("species %s: %w %q", s.ID, ErrUnknownMove, id)
			}
			tmpl.moves = append(tmpl.moves, m)
		}
		r.species[s.ID] = tmpl
	}
	return r, nil
}

// LoadRegistry loads species and moves from their directories and builds a Registry.
func LoadRegistry(speciesDir, movesDir string) (*Registry, error) {
	moves, err := LoadMoves(movesDir)
	if err != nil {
		return nil, err
	}
	species, err := LoadSpecies(speciesDir)
	if err != nil {
		return nil, err
	}
	return NewRegistry(species, moves)
}

// Move returns the catalog move with the given ID.
func (r *Registry) Move(id string) (combat.Move, bool) {
	m, ok := r.moves[id]
	return m, ok
}

// SpeciesIDs returns all registered species IDs in sorted order.
func (r *Registry) SpeciesIDs() []string {
	ids := make([]string, 0, len(r.species))
	for id := range r.species {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// SpawnOption adjusts a species' starting stats before the combatant is built.
type SpawnOption func(*combat.Stats)

// AtLevel starts the combatant at lvl instead of the species level.
func AtLevel(lvl progression.Level) SpawnOption {
	return func(s *combat.Stats) { s.Level = lvl }
}

// Spawn creates a fresh combatant instance of the given species with a new
// UUID. Each call returns independent stats.
//
// Postcondition: Returns ErrUnknownSpecies for unregistered IDs.
func (r *Registry) Spawn(speciesID string, opts ...SpawnOption) (*combat.Combatant, error) {
	tmpl, ok := r.species[speciesID]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownSpecies, speciesID)
	}
	stats := tmpl.stats
	for _, opt := range opts {
		opt(&stats)
	}
	return combat.NewCombatant(uuid.New().String(), tmpl.def.Name, tmpl.profile, stats, tmpl.moves...)
}
