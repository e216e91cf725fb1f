package ruleset_test

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/pokerus/internal/game/combat"
	"github.com/cory-johannsen/pokerus/internal/game/dice"
	"github.com/cory-johannsen/pokerus/internal/game/matchup"
	"github.com/cory-johannsen/pokerus/internal/game/progression"
	"github.com/cory-johannsen/pokerus/internal/game/ruleset"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func contentDirs(t *testing.T) (speciesDir, movesDir string) {
	t.Helper()
	root := t.TempDir()
	speciesDir = filepath.Join(root, "species")
	movesDir = filepath.Join(root, "moves")
	require.NoError(t, os.MkdirAll(speciesDir, 0755))
	require.NoError(t, os.MkdirAll(movesDir, 0755))

	writeFile(t, filepath.Join(movesDir, "ember.yaml"), `
id: ember
name: "Ember"
description: "A small flame."
affinity: fire
kind: attack
power: 40
accuracy: 1.0
max_uses: 25
`)
	writeFile(t, filepath.Join(movesDir, "growl.yaml"), `
id: growl
name: "Growl"
affinity: normal
kind: effect
max_uses: 40
`)
	writeFile(t, filepath.Join(movesDir, "tackle.yml"), `
id: tackle
name: "Tackle"
affinity: normal
power: 35
max_uses: 35
`)
	writeFile(t, filepath.Join(speciesDir, "cinder.yaml"), `
id: cinder
name: "Cinder"
affinities: [fire, fighting]
health: 39
level: 5
experience:
  value: 120
  current: 100
  next: 180
moves: [ember, tackle, growl]
`)
	writeFile(t, filepath.Join(speciesDir, "README.md"), "ignored")
	return speciesDir, movesDir
}

func TestLoadMoves_ParsesYAML(t *testing.T) {
	_, movesDir := contentDirs(t)
	moves, err := ruleset.LoadMoves(movesDir)
	require.NoError(t, err)
	require.Len(t, moves, 3)
	assert.Equal(t, "ember", moves[0].ID)
	require.NotNil(t, moves[0].Accuracy)
	assert.Equal(t, 1.0, *moves[0].Accuracy)
	assert.Nil(t, moves[2].Accuracy)
}

func TestMoveDef_Build(t *testing.T) {
	acc := 1.0
	m, err := (&ruleset.MoveDef{ID: "ember", Name: "Ember", Affinity: "fire", Power: 40, Accuracy: &acc}).Build()
	require.NoError(t, err)
	atk, ok := m.(combat.AttackMove)
	require.True(t, ok)
	assert.Equal(t, matchup.Fire, atk.Affinity)
	assert.Equal(t, combat.Power(40), atk.Power)
	require.NotNil(t, atk.Accuracy)
	assert.Equal(t, uint8(255), atk.Accuracy.Value())

	eff, err := (&ruleset.MoveDef{ID: "growl", Affinity: "normal", Kind: ruleset.KindEffect}).Build()
	require.NoError(t, err)
	_, ok = eff.(combat.EffectMove)
	assert.True(t, ok)
}

func TestMoveDef_Build_FullAccuracyNeverMisses(t *testing.T) {
	acc := 1.0
	m, err := (&ruleset.MoveDef{ID: "tackle", Name: "Tackle", Affinity: "normal", Power: 40, Accuracy: &acc}).Build()
	require.NoError(t, err)
	move := m.(combat.AttackMove)

	attacker, err := combat.NewCombatant("a", "A", matchup.Single(matchup.Normal), combat.Stats{HP: 10})
	require.NoError(t, err)
	defender, err := combat.NewCombatant("b", "B", matchup.Single(matchup.Water), combat.Stats{HP: 10})
	require.NoError(t, err)

	for sample := 0; sample <= 255; sample++ {
		r := combat.NewResolver(dice.NewFixed(sample), zap.NewNop())
		assert.Equal(t, combat.Hit, r.DamageOnAttack(attacker, move, defender).Kind, "sample %d", sample)
	}
}

func TestMoveDef_Build_Rejects(t *testing.T) {
	bad := 1.5
	neg := -0.1
	cases := []ruleset.MoveDef{
		{ID: "", Affinity: "fire"},
		{ID: "x", Affinity: "psychic"},
		{ID: "x", Affinity: "fire", Kind: "status"},
		{ID: "x", Affinity: "fire", Power: 256},
		{ID: "x", Affinity: "fire", Power: -1},
		{ID: "x", Affinity: "fire", MaxUses: 300},
		{ID: "x", Affinity: "fire", Accuracy: &bad},
		{ID: "x", Affinity: "fire", Accuracy: &neg},
	}
	for i := range cases {
		_, err := cases[i].Build()
		assert.Error(t, err, "case %d", i)
	}
}

func TestMoveDef_Build_Property_AccuracyScale(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		f := rapid.Float64Range(0, 1).Draw(rt, "accuracy")
		m, err := (&ruleset.MoveDef{ID: "x", Affinity: "water", Power: 10, Accuracy: &f}).Build()
		require.NoError(rt, err)
		atk := m.(combat.AttackMove)
		require.NotNil(rt, atk.Accuracy)
		assert.InDelta(rt, f*255, float64(atk.Accuracy.Value()), 0.5)
	})
}

func TestLoadRegistry_Spawn(t *testing.T) {
	speciesDir, movesDir := contentDirs(t)
	reg, err := ruleset.LoadRegistry(speciesDir, movesDir)
	require.NoError(t, err)
	assert.Equal(t, []string{"cinder"}, reg.SpeciesIDs())

	a, err := reg.Spawn("cinder")
	require.NoError(t, err)
	assert.Equal(t, "Cinder", a.Name)
	assert.Equal(t, matchup.Mixed(matchup.Fire, matchup.Fighting), a.Affinity)
	assert.Equal(t, combat.Health(39), a.Stats.HP)
	assert.Equal(t, uint8(5), a.Stats.Level.Value())
	assert.Len(t, a.Moves, 3)
	_, err = uuid.Parse(a.ID)
	assert.NoError(t, err)

	b, err := reg.Spawn("cinder")
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
	a.Stats.HP = 0
	assert.Equal(t, combat.Health(39), b.Stats.HP, "spawned stats are independent")

	_, ok := reg.Move("ember")
	assert.True(t, ok)
}

func TestRegistry_Spawn_AtLevel(t *testing.T) {
	speciesDir, movesDir := contentDirs(t)
	reg, err := ruleset.LoadRegistry(speciesDir, movesDir)
	require.NoError(t, err)

	c, err := reg.Spawn("cinder", ruleset.AtLevel(progression.NewLevel(42)))
	require.NoError(t, err)
	assert.Equal(t, uint8(42), c.Stats.Level.Value())
	assert.Equal(t, combat.Health(39), c.Stats.HP)

	d, err := reg.Spawn("cinder")
	require.NoError(t, err)
	assert.Equal(t, uint8(5), d.Stats.Level.Value(), "options never leak into the species template")
}

func TestRegistry_Spawn_Unknown(t *testing.T) {
	reg, err := ruleset.NewRegistry(nil, nil)
	require.NoError(t, err)
	_, err = reg.Spawn("missing")
	assert.True(t, errors.Is(err, ruleset.ErrUnknownSpecies))
}

func TestNewRegistry_UnknownMove(t *testing.T) {
	s := &ruleset.SpeciesDef{ID: "a", Name: "A", Affinities: []string{"water"}, Health: 10, Level: 1, Moves: []string{"surf"}}
	_, err := ruleset.NewRegistry([]*ruleset.SpeciesDef{s}, nil)
	assert.True(t, errors.Is(err, ruleset.ErrUnknownMove))
}

func TestNewRegistry_RejectsInvalidSpecies(t *testing.T) {
	base := func() *ruleset.SpeciesDef {
		return &ruleset.SpeciesDef{ID: "a", Name: "A", Affinities: []string{"water"}, Health: 10, Level: 1}
	}
	mutations := []func(s *ruleset.SpeciesDef){
		func(s *ruleset.SpeciesDef) { s.ID = "" },
		func(s *ruleset.SpeciesDef) { s.Affinities = nil },
		func(s *ruleset.SpeciesDef) { s.Affinities = []string{"water", "fire", "grass"} },
		func(s *ruleset.SpeciesDef) { s.Health = 0 },
		func(s *ruleset.SpeciesDef) { s.Health = 70000 },
		func(s *ruleset.SpeciesDef) { s.Level = 0 },
		func(s *ruleset.SpeciesDef) { s.Level = 101 },
		func(s *ruleset.SpeciesDef) { s.Experience = ruleset.ExperienceDef{Value: 10, Current: 50, Next: 100} },
		func(s *ruleset.SpeciesDef) { s.Moves = []string{"a", "b", "c", "d", "e"} },
	}
	for i, mutate := range mutations {
		s := base()
		mutate(s)
		_, err := ruleset.NewRegistry([]*ruleset.SpeciesDef{s}, nil)
		assert.Error(t, err, "mutation %d", i)
	}

	_, err := ruleset.NewRegistry([]*ruleset.SpeciesDef{base(), base()}, nil)
	assert.Error(t, err, "duplicate species id")
}

func TestLoadSpecies_MissingDir(t *testing.T) {
	_, err := ruleset.LoadSpecies(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestLoadMoves_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bad.yaml"), "id: [unterminated")
	_, err := ruleset.LoadMoves(dir)
	assert.Error(t, err)
}

func TestLoadSpecies_Property_AnyCountParses(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 8).Draw(rt, "n")
		dir, err := os.MkdirTemp("", "species")
		require.NoError(rt, err)
		defer os.RemoveAll(dir)
		for i := 0; i < n; i++ {
			body := fmt.Sprintf("id: s%d\nname: S%d\naffinities: [normal]\nhealth: 10\nlevel: 1\n", i, i)
			require.NoError(rt, os.WriteFile(filepath.Join(dir, fmt.Sprintf("s%d.yaml", i)), []byte(body), 0644))
		}
		species, err := ruleset.LoadSpecies(dir)
		require.NoError(rt, err)
		assert.Len(rt, species, n)
		_, err = ruleset.NewRegistry(species, nil)
		assert.NoError(rt, err)
	})
}
