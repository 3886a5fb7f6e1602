// Command rowanengine runs the tick-driven agent simulation engine.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	isatty "github.com/mattn/go-isatty"

	"github.com/talgya/rowanengine/internal/ai"
	"github.com/talgya/rowanengine/internal/combat"
	"github.com/talgya/rowanengine/internal/config"
	"github.com/talgya/rowanengine/internal/entity"
	"github.com/talgya/rowanengine/internal/eventlog"
	"github.com/talgya/rowanengine/internal/faction"
	"github.com/talgya/rowanengine/internal/loop"
	"github.com/talgya/rowanengine/internal/manager"
	"github.com/talgya/rowanengine/internal/persistence"
	"github.com/talgya/rowanengine/internal/resolver"
	"github.com/talgya/rowanengine/internal/rng"
	"github.com/talgya/rowanengine/internal/spawn"
	"github.com/talgya/rowanengine/internal/ticker"
	"github.com/talgya/rowanengine/internal/vecgrid"
	"github.com/talgya/rowanengine/internal/workerpool"
	"github.com/talgya/rowanengine/internal/world"
	"github.com/talgya/rowanengine/internal/worldgen"
)

func main() {
	logger := newLogger()
	slog.SetDefault(logger)

	cfg := config.Default()

	slog.Info("rowanengine starting", "seed", cfg.WorldSeed, "grid", fmt.Sprintf("%dx%d", cfg.GridWidth, cfg.GridHeight))

	// ── Database ──────────────────────────────────────────────────────
	os.MkdirAll("data", 0755)
	dbPath := "data/rowanengine.db"
	db, err := persistence.Open(dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", dbPath)

	// ── World map (always regenerated — deterministic from seed) ─────
	genCfg := worldgen.DefaultGenConfig()
	genCfg.Width, genCfg.Height = cfg.GridWidth, cfg.GridHeight
	genCfg.Seed = cfg.WorldSeed
	genCfg.TownCenter = vecgrid.Vector2{X: cfg.TownCenterX, Y: cfg.TownCenterY}
	genCfg.TownRadius = cfg.TownRadius
	genCfg.SanctuaryRadius = cfg.SanctuaryRadius
	grid := worldgen.Generate(genCfg)

	for mat, count := range worldgen.TerrainCounts(grid) {
		slog.Info("terrain", "material", mat, "count", count)
	}

	w := world.New(cfg.WorldSeed, grid, cfg.SpatialCellSize)

	// ── Restore or seed fresh ─────────────────────────────────────────
	restored := false
	if tickStr, metaErr := db.GetMeta("tick"); metaErr == nil {
		entities, loadErr := db.LoadEntities()
		if loadErr != nil {
			slog.Error("failed to load entities", "error", loadErr)
			os.Exit(1)
		}
		for _, e := range entities {
			w.SeedNextEntityID(e.ID)
			w.AddEntity(e)
		}
		if t, perr := strconv.ParseInt(tickStr, 10, 64); perr == nil {
			w.Tick = t
		}
		restored = true
		slog.Info("world state restored", "entities", len(entities), "tick", w.Tick)
	}

	source := rng.New(cfg.WorldSeed)
	factions := faction.Default()
	items := exampleItems()
	skills := exampleSkills()
	traits := exampleTraits()

	if !restored {
		seedInitialEntities(w, cfg, source, factions)
		slog.Info("world seeded", "entities", len(w.Entities))
	}

	// ── Engine assembly ────────────────────────────────────────────────
	events := eventlog.New(4096)
	calc := combat.DefaultCalculator{}
	res := resolver.New(cfg, source, calc, items, logger)
	tck := ticker.New(cfg, factions, events, logger)
	generator := spawn.NewDefault(cfg, source)
	brain := ai.New(cfg, factions, items, traits, source)
	pool := workerpool.New(cfg.NumWorkers, brain, logger)

	l := loop.New(cfg, w, pool, res, tck, generator, factions, items, skills, source, events, logger)

	eng := manager.New(cfg, l, logger)
	eng.Start()
	eng.SetTickRate(cfg.MinTickRate)
	eng.Resume()

	// ── Signal handling ───────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, shutting down", "signal", sig)
		eng.Stop()
	}()

	fmt.Printf("rowanengine run %s: %d entities on a %dx%d grid.\n", eng.RunID, len(w.Entities), cfg.GridWidth, cfg.GridHeight)
	fmt.Println("Starting simulation... (Ctrl+C to stop)")

	for eng.State() != manager.StateStopped {
		time.Sleep(100 * time.Millisecond)
	}

	if fatalErr := eng.Fatal(); fatalErr != nil {
		slog.Error("engine stopped on invariant violation", "error", fatalErr)
	}

	slog.Info("final save...")
	snap := eng.Snapshot()
	if err := db.SaveWorldState(l.World()); err != nil {
		slog.Error("final save failed", "error", err)
	}
	fmt.Printf("Simulation stopped at tick %d. World state saved.\n", snap.Tick)
}

func newLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if isatty.IsTerminal(os.Stdout.Fd()) {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

// seedInitialEntities places one hero at the town center and lets the spawn
// generator roll the rest of the initial hostile population, matching
// original_source's fresh-world bootstrap (a single starting hero, with
// camps and mobs filled in as the generator/camp placement runs).
func seedInitialEntities(w *world.World, cfg config.Config, source rng.Source, factions *faction.Registry) {
	hero := newHero(w, cfg)
	w.AddEntity(hero)

	w.Camps = placeCamps(w, cfg, source)

	generator := spawn.NewDefault(cfg, source)
	for i := 0; i < cfg.InitialEntityCount; i++ {
		if !generator.ShouldSpawn(w) {
			break
		}
		w.AddEntity(generator.Spawn(w))
	}
}

func newHero(w *world.World, cfg config.Config) *entity.Entity {
	st := entity.DefaultStats()
	st.HP, st.MaxHP = 100, 100
	st.Atk, st.Def, st.Matk, st.Mdef = 12, 8, 6, 6
	st.Spd = 10
	st.CritRate, st.CritDmg, st.Evasion = 0.1, 1.5, 0.05
	st.Level, st.XPToNext = 1, 100
	st.VisionRange = cfg.VisionRange
	st.Stamina, st.MaxStamina = 100, 100

	caps := entity.DefaultAttributeCaps()
	return &entity.Entity{
		ID:            w.AllocateEntityID(),
		Kind:          "hero",
		Pos:           vecgrid.Vector2{X: cfg.TownCenterX, Y: cfg.TownCenterY},
		Stats:         st,
		AIState:       entity.Idle,
		Faction:       faction.HeroGuild,
		IsHero:        true,
		HomePos:       &vecgrid.Vector2{X: cfg.TownCenterX, Y: cfg.TownCenterY},
		Inventory:     entity.NewInventory(cfg.HeroInventorySlots, cfg.HeroInventoryWeight),
		Memory:        make(map[entity.ID]vecgrid.Vector2),
		TerrainMemory: make(map[vecgrid.Vector2]vecgrid.Material),
		ThreatTable:   make(map[entity.ID]float64),
		Attributes:    &entity.Attributes{Str: 5, Agi: 5, Vit: 5, Int: 5, Spi: 5, Wis: 5, End: 5, Per: 5, Cha: 5},
		AttributeCaps: &caps,
		HeroClass:     entity.ClassWarrior,
		Skills:        map[string]*entity.SkillInstance{"power_strike": {SkillID: "power_strike"}},
	}
}

// placeCamps scatters NumCamps hostile camp centers at least
// CampMinDistanceFromTown tiles from town, deterministically from the
// MapGen domain.
func placeCamps(w *world.World, cfg config.Config, source rng.Source) []vecgrid.Vector2 {
	town := vecgrid.Vector2{X: cfg.TownCenterX, Y: cfg.TownCenterY}
	camps := make([]vecgrid.Vector2, 0, cfg.NumCamps)
	for i := 0; i < cfg.NumCamps; i++ {
		for attempt := 0; attempt < 50; attempt++ {
			x := source.NextInt(rng.MapGen, uint64(i), int64(attempt), 0, w.Grid.Width-1)
			y := source.NextInt(rng.MapGen, uint64(i), int64(attempt)+1000, 0, w.Grid.Height-1)
			pos := vecgrid.Vector2{X: x, Y: y}
			if pos.Manhattan(town) >= cfg.CampMinDistanceFromTown && w.Grid.IsWalkable(pos) && !w.Grid.IsTown(pos) {
				camps = append(camps, pos)
				break
			}
		}
	}
	return camps
}

// exampleItems is a small reference content table — the spec treats item
// content as an opaque external collaborator, but cmd/ needs something
// concrete to run against.
func exampleItems() entity.MapItemRegistry {
	return entity.MapItemRegistry{
		"rusty_sword":    {ItemID: "rusty_sword", Name: "Rusty Sword", Type: entity.ItemWeapon, AtkBonus: 3, SellValue: 5},
		"leather_armor":  {ItemID: "leather_armor", Name: "Leather Armor", Type: entity.ItemArmor, DefBonus: 3, MaxHPBonus: 10, SellValue: 6},
		"lucky_charm":    {ItemID: "lucky_charm", Name: "Lucky Charm", Type: entity.ItemAccessory, LuckBonus: 2, CritRateBonus: 0.02, SellValue: 8},
		"healing_potion": {ItemID: "healing_potion", Name: "Healing Potion", Type: entity.ItemConsumable, HealAmount: 30, SellValue: 4},
		"wolf_pelt":      {ItemID: "wolf_pelt", Name: "Wolf Pelt", Type: entity.ItemMaterial, SellValue: 3},
		"goblin_ear":     {ItemID: "goblin_ear", Name: "Goblin Ear", Type: entity.ItemMaterial, SellValue: 2},
	}
}

func exampleSkills() entity.MapSkillRegistry {
	return entity.MapSkillRegistry{
		"power_strike": {
			SkillID: "power_strike", Name: "Power Strike", Target: entity.TargetSingleEnemy,
			DamageType: entity.DamagePhysical, BasePower: 1.8, Range: 1, Cooldown: 4, StaminaCost: 15,
		},
		"cleave": {
			SkillID: "cleave", Name: "Cleave", Target: entity.TargetAreaEnemies,
			DamageType: entity.DamagePhysical, BasePower: 1.2, Range: 1, AoERadius: 2, AoEFalloff: 0.25,
			Cooldown: 8, StaminaCost: 25,
		},
		"second_wind": {
			SkillID: "second_wind", Name: "Second Wind", Target: entity.TargetSelf,
			HPMod: 0.3, Cooldown: 15, StaminaCost: 20,
		},
	}
}

func exampleTraits() entity.MapTraitRegistry {
	return entity.MapTraitRegistry{
		entity.TraitBrave:      {GoalUtility: map[string]float64{"combat": 0.15}, FleeBias: -0.1},
		entity.TraitCowardly:   {GoalUtility: map[string]float64{"flee": 0.2}, FleeBias: 0.15},
		entity.TraitAggressive: {GoalUtility: map[string]float64{"combat": 0.2}, FleeBias: -0.15},
		entity.TraitCautious:   {GoalUtility: map[string]float64{"explore": -0.1}, FleeBias: 0.1},
	}
}
