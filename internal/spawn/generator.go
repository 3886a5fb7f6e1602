// Package spawn implements the Spawn Generator contract (spec §6):
// should_spawn(world) → bool and spawn(world) → Entity, grounded on
// original_source/src/systems/generator.py's EntityGenerator. The reference
// source drives this off large external content tables (per-race loot
// tables, starting gear, race stat modifiers); this port keeps the same
// tiered-roll, deterministic-stat, BFS-walkable-placement shape but folds
// the handful of race/gear tables it touches into one compact in-package
// table so the engine core has a real, runnable default generator rather
// than only an interface (spec §6's content tables remain an external
// collaborator in principle — this is the reference implementation tests
// and cmd/ exercise).
package spawn

import (
	"github.com/talgya/rowanengine/internal/config"
	"github.com/talgya/rowanengine/internal/entity"
	"github.com/talgya/rowanengine/internal/faction"
	"github.com/talgya/rowanengine/internal/rng"
	"github.com/talgya/rowanengine/internal/vecgrid"
	"github.com/talgya/rowanengine/internal/world"
)

// Generator is the engine-facing contract: may add entities to the world,
// allocating IDs from world.AllocateEntityID.
type Generator interface {
	ShouldSpawn(w *world.World) bool
	Spawn(w *world.World) *entity.Entity
}

// Tier mirrors original_source's EnemyTier.
type Tier int

const (
	TierBasic Tier = iota
	TierScout
	TierWarrior
	TierElite
)

type tierStats struct {
	hpMult, atkMult float64
	defBase, spdMod int
	crit, evasion   float64
	luck            int
}

var tierTable = map[Tier]tierStats{
	TierBasic:   {1.0, 1.0, 0, 0, 0.05, 0.00, 0},
	TierScout:   {0.8, 0.9, 0, 3, 0.08, 0.05, 2},
	TierWarrior: {1.5, 1.3, 3, -1, 0.07, 0.02, 1},
	TierElite:   {2.5, 1.8, 6, 0, 0.12, 0.05, 5},
}

// raceProfile is the compact stand-in for original_source's
// RACE_STAT_MODS/RACE_TIER_KINDS/RACE_FACTION tables: one race per hostile
// faction, cycled by a deterministic roll.
type raceProfile struct {
	race    string
	faction faction.Faction
	kinds   map[Tier]string
	hpMult  float64
	atkMult float64
}

var races = []raceProfile{
	{"goblin", faction.GoblinHorde, map[Tier]string{TierBasic: "goblin", TierScout: "goblin_scout", TierWarrior: "goblin_warrior", TierElite: "goblin_chief"}, 1.0, 1.0},
	{"wolf", faction.WolfPack, map[Tier]string{TierBasic: "wolf", TierScout: "wolf", TierWarrior: "dire_wolf", TierElite: "alpha_wolf"}, 0.9, 1.1},
	{"bandit", faction.BanditClan, map[Tier]string{TierBasic: "bandit", TierScout: "bandit_archer", TierWarrior: "bandit_archer", TierElite: "bandit_chief"}, 1.0, 1.0},
	{"undead", faction.Undead, map[Tier]string{TierBasic: "skeleton", TierScout: "skeleton", TierWarrior: "zombie", TierElite: "lich"}, 1.2, 0.9},
	{"orc", faction.OrcTribe, map[Tier]string{TierBasic: "orc", TierScout: "orc", TierWarrior: "orc_warrior", TierElite: "orc_warlord"}, 1.3, 1.2},
}

// Default is the reference spawn generator: spawns near a random camp every
// GeneratorSpawnInterval ticks, up to GeneratorMaxEntities alive non-spawner
// entities.
type Default struct {
	cfg  config.Config
	rng  rng.Source
	caps entity.AttributeCaps
}

func NewDefault(cfg config.Config, source rng.Source) *Default {
	return &Default{cfg: cfg, rng: source, caps: entity.DefaultAttributeCaps()}
}

func (d *Default) ShouldSpawn(w *world.World) bool {
	interval := d.cfg.GeneratorSpawnInterval
	if interval <= 0 {
		interval = 1
	}
	if w.Tick%int64(interval) != 0 {
		return false
	}
	alive := 0
	for _, e := range w.Entities {
		if e.Alive() && e.Kind != "spawner" {
			alive++
		}
	}
	return alive < d.cfg.GeneratorMaxEntities
}

func (d *Default) Spawn(w *world.World) *entity.Entity {
	id := w.AllocateEntityID()
	tick := w.Tick

	tier := d.rollTier(uint64(id), tick)

	var near *vecgrid.Vector2
	if len(w.Camps) > 0 {
		idx := d.rng.NextInt(rng.Spawn, uint64(id), tick+9, 0, len(w.Camps)-1)
		c := w.Camps[idx]
		near = &c
	}
	pos := d.resolvePosition(w, uint64(id), tick, near)

	race := races[d.rng.NextInt(rng.Spawn, uint64(id), tick+11, 0, len(races)-1)]
	stats := tierTable[tier]

	baseHP := int((15 + d.rng.NextInt(rng.Spawn, uint64(id), tick+2, 0, 10)) * stats.hpMult * race.hpMult)
	baseAtk := int((3 + d.rng.NextInt(rng.Spawn, uint64(id), tick+3, 0, 4)) * stats.atkMult * race.atkMult)
	baseSpd := 8 + d.rng.NextInt(rng.Spawn, uint64(id), tick+4, 0, 4) + stats.spdMod
	baseDef := stats.defBase + d.rng.NextInt(rng.Spawn, uint64(id), tick+5, 0, 2)
	if baseHP < 5 {
		baseHP = 5
	}
	if baseAtk < 1 {
		baseAtk = 1
	}
	if baseSpd < 1 {
		baseSpd = 1
	}

	level := 1 + int(tier)
	kind := race.kinds[tier]
	if kind == "" {
		kind = race.race
	}

	aiState := entity.Wander
	if tier == TierElite || near != nil {
		aiState = entity.GuardCamp
	}

	st := entity.DefaultStats()
	st.HP, st.MaxHP = baseHP, baseHP
	st.Atk, st.Def = baseAtk, baseDef
	st.Matk, st.Mdef = baseAtk/2, baseDef/2
	st.Spd = baseSpd
	st.Luck = stats.luck
	st.CritRate, st.CritDmg, st.Evasion = stats.crit, 1.5, stats.evasion
	st.Level, st.XPToNext = level, int(100*pow15(level-1))
	st.Gold = d.rng.NextInt(rng.Loot, uint64(id), tick, 0, 10+int(tier)*10)
	st.VisionRange = d.cfg.VisionRange

	attrBase := 3.0 + float64(tier)*2
	attrs := &entity.Attributes{
		Str: attrBase, Agi: attrBase, Vit: attrBase, Int: attrBase,
		Spi: attrBase, Wis: attrBase, End: attrBase, Per: attrBase, Cha: attrBase,
	}

	e := &entity.Entity{
		ID: id, Kind: kind, Pos: pos, Stats: st, AIState: aiState,
		Faction: race.faction, HomePos: near, Tier: int(tier),
		Inventory:     entity.NewInventory(d.cfg.MobInventorySlots+int(tier), d.cfg.MobInventoryWeight+float64(tier)*3.0),
		Memory:        make(map[entity.ID]vecgrid.Vector2),
		TerrainMemory: make(map[vecgrid.Vector2]vecgrid.Material),
		ThreatTable:   make(map[entity.ID]float64),
		Attributes:    attrs,
		AttributeCaps: d.copyCaps(),
		LeashRadius:   d.cfg.MobLeashRadius,
	}
	return e
}

func (d *Default) copyCaps() *entity.AttributeCaps {
	c := d.caps
	return &c
}

func pow15(n int) float64 {
	v := 1.0
	for i := 0; i < n; i++ {
		v *= 1.5
	}
	return v
}

func (d *Default) rollTier(id uint64, tick int64) Tier {
	roll := d.rng.NextFloat(rng.Spawn, id, tick+10)
	switch {
	case roll < 0.55:
		return TierBasic
	case roll < 0.80:
		return TierScout
	case roll < 0.95:
		return TierWarrior
	default:
		return TierElite
	}
}

func (d *Default) resolvePosition(w *world.World, id uint64, tick int64, near *vecgrid.Vector2) vecgrid.Vector2 {
	var pos vecgrid.Vector2
	if near != nil {
		ox := d.rng.NextInt(rng.Spawn, id, tick, -3, 3)
		oy := d.rng.NextInt(rng.Spawn, id, tick+1, -3, 3)
		pos = vecgrid.Vector2{X: near.X + ox, Y: near.Y + oy}
	} else {
		x := d.rng.NextInt(rng.Spawn, id, tick, 0, w.Grid.Width-1)
		y := d.rng.NextInt(rng.Spawn, id, tick+1, 0, w.Grid.Height-1)
		pos = vecgrid.Vector2{X: x, Y: y}
	}
	if !w.Grid.IsWalkable(pos) || w.Grid.IsTown(pos) || w.Grid.IsSanctuary(pos) {
		pos = findNearestWalkableNonTown(w, pos)
	}
	return pos
}

// findNearestWalkableNonTown is a four-directional BFS spiral outward,
// ported directly from generator.py's _find_nearest_walkable_non_town.
func findNearestWalkableNonTown(w *world.World, origin vecgrid.Vector2) vecgrid.Vector2 {
	type key struct{ x, y int }
	visited := map[key]bool{{origin.X, origin.Y}: true}
	queue := []vecgrid.Vector2{origin}
	for len(queue) > 0 {
		pos := queue[0]
		queue = queue[1:]
		if w.Grid.IsWalkable(pos) && !w.Grid.IsTown(pos) {
			return pos
		}
		for _, off := range vecgrid.DirectionOffsets {
			np := pos.Add(off)
			k := key{np.X, np.Y}
			if !visited[k] && w.Grid.InBounds(np) {
				visited[k] = true
				queue = append(queue, np)
			}
		}
	}
	return origin
}
