// Package main provides the battle simulator binary that pits two species
// from the content catalog against each other and logs every turn.
package main

import (
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/pokerus/internal/config"
	"github.com/cory-johannsen/pokerus/internal/game/battle"
	"github.com/cory-johannsen/pokerus/internal/game/combat"
	"github.com/cory-johannsen/pokerus/internal/game/dice"
	"github.com/cory-johannsen/pokerus/internal/game/progression"
	"github.com/cory-johannsen/pokerus/internal/game/ruleset"
	"github.com/cory-johannsen/pokerus/internal/observability"
	"github.com/cory-johannsen/pokerus/internal/scripting"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	speciesA := flag.String("a", "", "species id for the side that moves first")
	speciesB := flag.String("b", "", "species id for the second side")
	levelA := flag.Int("level-a", 0, "override side a's level (1-100); 0 keeps the species level")
	levelB := flag.Int("level-b", 0, "override side b's level (1-100); 0 keeps the species level")
	strategyA := flag.String("strategy-a", "", "Lua strategy for side a; empty = first attack move")
	strategyB := flag.String("strategy-b", "", "Lua strategy for side b; empty = first attack move")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	if *speciesA == "" || *speciesB == "" {
		logger.Fatal("both -a and -b species ids are required")
	}

	roller := dice.NewLoggedRoller(dice.NewSource(cfg.Battle.Seed), logger)

	registry, err := ruleset.LoadRegistry(cfg.Battle.SpeciesDir(), cfg.Battle.MovesDir())
	if err != nil {
		logger.Fatal("loading content", zap.Error(err))
	}
	logger.Info("loaded content", zap.Strings("species", registry.SpeciesIDs()))

	a := spawn(logger, registry, *speciesA, *levelA)
	b := spawn(logger, registry, *speciesB, *levelB)

	engine := battle.NewEngine(roller, cfg.Battle.MaxTurns, logger)

	var scripts *scripting.Manager
	if cfg.Battle.ScriptDir != "" {
		scripts = scripting.NewManager(roller, logger, cfg.Battle.InstructionLimit)
		defer scripts.Close()
		scripts.ExpectedDamage = engine.ExpectedDamage
		names, err := scripts.LoadDir(cfg.Battle.ScriptDir)
		if err != nil {
			logger.Fatal("loading strategies", zap.Error(err))
		}
		logger.Info("loaded strategies", zap.Strings("strategies", names))
	}

	bt, err := engine.Start(
		battle.Side{Combatant: a, Chooser: chooser(logger, scripts, *strategyA)},
		battle.Side{Combatant: b, Chooser: chooser(logger, scripts, *strategyB)},
	)
	if err != nil {
		logger.Fatal("starting battle", zap.Error(err))
	}
	defer engine.End(bt.ID)

	winner, ok := bt.Run(func(r battle.TurnReport) {
		if r.Skipped {
			logger.Info("turn skipped",
				zap.Int("turn", r.Turn),
				zap.String("attacker", r.Attacker.Name),
			)
			return
		}
		logger.Info("turn",
			zap.Int("turn", r.Turn),
			zap.String("attacker", r.Attacker.Name),
			zap.String("move", r.Move.Name),
			zap.String("defender", r.Defender.Name),
			zap.Stringer("outcome", r.Outcome),
			zap.Uint16("defender_health", uint16(r.DefenderHealth)),
		)
	})

	if ok {
		logger.Info("battle won",
			zap.String("battle_id", bt.ID),
			zap.String("winner", winner.Name),
			zap.Duration("elapsed", time.Since(start)),
		)
		return
	}
	logger.Info("battle drawn",
		zap.String("battle_id", bt.ID),
		zap.Int("max_turns", cfg.Battle.MaxTurns),
		zap.Duration("elapsed", time.Since(start)),
	)
}

func spawn(logger *zap.Logger, registry *ruleset.Registry, speciesID string, level int) *combat.Combatant {
	var opts []ruleset.SpawnOption
	if level != 0 {
		lvl, ok := progression.ParseLevel(level)
		if !ok {
			logger.Fatal("level out of range", zap.String("species", speciesID), zap.Int("level", level))
		}
		opts = append(opts, ruleset.AtLevel(lvl))
	}
	c, err := registry.Spawn(speciesID, opts...)
	if err != nil {
		logger.Fatal("spawning combatant", zap.String("species", speciesID), zap.Error(err))
	}
	return c
}

func chooser(logger *zap.Logger, scripts *scripting.Manager, strategy string) battle.Chooser {
	if strategy == "" {
		return nil
	}
	if scripts == nil || !scripts.Has(strategy) {
		logger.Fatal("unknown strategy; is battle.script_dir set?", zap.String("strategy", strategy))
	}
	return battle.Scripted{Scripts: scripts, Strategy: strategy}
}
