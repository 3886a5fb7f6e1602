// Package ticker is the Subsystem ticker (spec §4.10): the three rate-gated
// groups (Core, Environment, Economy) that run after the Conflict Resolver
// each tick, mutating World directly since only the loop thread ever calls
// this. Grounded on original_source/src/systems/{effects,threat,stamina,
// regions,territory,economy}.py, adapted into the teacher's flat
// system-struct style (internal/engine/simulation.go's per-tick system
// methods).
package ticker

import (
	"log/slog"

	"github.com/talgya/rowanengine/internal/config"
	"github.com/talgya/rowanengine/internal/entity"
	"github.com/talgya/rowanengine/internal/eventlog"
	"github.com/talgya/rowanengine/internal/faction"
	"github.com/talgya/rowanengine/internal/vecgrid"
	"github.com/talgya/rowanengine/internal/world"
)

// Ticker owns no state of its own; it is a pure set of methods over the
// World it's handed each tick, plus the read-only content tables and the
// event sink.
type Ticker struct {
	cfg      config.Config
	factions *faction.Registry
	events   *eventlog.Log
	log      *slog.Logger
}

func New(cfg config.Config, factions *faction.Registry, events *eventlog.Log, log *slog.Logger) *Ticker {
	if log == nil {
		log = slog.Default()
	}
	return &Ticker{cfg: cfg, factions: factions, events: events, log: log}
}

// Run dispatches the three groups at their configured rate divisors. Core
// always runs, regardless of its own divisor being > 1 and regardless of
// whether any entity was ready to act this tick — status effects, stamina,
// and cooldowns must not stall just because nobody moved.
func (t *Ticker) Run(w *world.World) {
	t.runCore(w)
	if divisorHit(w.Tick, t.cfg.SubsystemRateEnvironment) {
		t.runEnvironment(w)
	}
	if divisorHit(w.Tick, t.cfg.SubsystemRateEconomy) {
		t.runEconomy(w)
	}
}

func divisorHit(tick int64, divisor int) bool {
	if divisor <= 1 {
		return true
	}
	return tick%int64(divisor) == 0
}

// --- Core ------------------------------------------------------------

func (t *Ticker) runCore(w *world.World) {
	t.cleanupDead(w)
	t.tickEffects(w)
	t.regenStaminaAndCooldowns(w)
	t.trackEngagement(w)
	t.decayThreat(w)
}

func (t *Ticker) cleanupDead(w *world.World) {
	var dead []*entity.Entity
	for _, e := range w.Entities {
		if !e.Alive() {
			dead = append(dead, e)
		}
	}
	for _, e := range dead {
		if e.IsHero {
			t.respawnHero(w, e)
			continue
		}
		w.DropItems(e.Pos, allItemIDs(e.Inventory))
		w.RemoveEntity(e.ID)
		t.events.Append(eventlog.Event{
			Tick: w.Tick, Category: "death",
			Message:   e.Kind + " died",
			EntityIDs: []entity.ID{e.ID},
		})
	}
}

func allItemIDs(inv *entity.Inventory) []string {
	if inv == nil {
		return nil
	}
	out := append([]string(nil), inv.Items...)
	for _, slot := range []string{inv.Weapon, inv.Armor, inv.Accessory} {
		if slot != "" {
			out = append(out, slot)
		}
	}
	return out
}

// respawnHero revives a fallen hero at their current position rather than
// removing them, per spec §4.10.
func (t *Ticker) respawnHero(w *world.World, e *entity.Entity) {
	e.Stats.HP = e.Stats.MaxHP
	e.Stats.Stamina = e.Stats.MaxStamina
	e.Effects = nil
	e.EngagedTicks = 0
	e.ChaseTicks = 0
	e.ThreatTable = make(map[entity.ID]float64)
	e.AIState = entity.Idle
	t.events.Append(eventlog.Event{
		Tick: w.Tick, Category: "respawn",
		Message:   e.Kind + " respawned in place",
		EntityIDs: []entity.ID{e.ID},
	})
}

func (t *Ticker) tickEffects(w *world.World) {
	for _, e := range w.Entities {
		if !e.Alive() || len(e.Effects) == 0 {
			continue
		}
		kept := e.Effects[:0]
		for i := range e.Effects {
			eff := e.Effects[i]
			if eff.HPPerTick != 0 {
				hp := e.Stats.HP + eff.HPPerTick
				if hp < 0 {
					hp = 0
				}
				if hp > e.Stats.MaxHP {
					hp = e.Stats.MaxHP
				}
				e.Stats.HP = hp
			}
			eff.Tick()
			if !eff.Expired() {
				kept = append(kept, eff)
			}
		}
		e.Effects = kept
	}
}

func (t *Ticker) regenStaminaAndCooldowns(w *world.World) {
	for _, e := range w.Entities {
		if !e.Alive() {
			continue
		}
		regen := 1
		switch {
		case e.AIState == entity.RestingInTown:
			regen = 5
		case w.Grid.IsTown(e.Pos):
			regen = 4
		}
		e.Stats.Stamina += regen
		if e.Stats.Stamina > e.Stats.MaxStamina {
			e.Stats.Stamina = e.Stats.MaxStamina
		}
		for _, skill := range e.Skills {
			skill.TickCooldown()
		}
	}
}

func (t *Ticker) trackEngagement(w *world.World) {
	for _, e := range w.Entities {
		if !e.Alive() {
			continue
		}
		engaged := false
		for _, id := range w.Spatial.QueryRadius(e.Pos, 1) {
			if id == e.ID {
				continue
			}
			other, ok := w.Entities[id]
			if !ok || !other.Alive() || e.Pos.Manhattan(other.Pos) > 1 {
				continue
			}
			if t.factions.IsHostile(e.Faction, other.Faction) {
				engaged = true
				break
			}
		}
		if engaged {
			if e.EngagedTicks < 10 {
				e.EngagedTicks++
			}
		} else {
			e.EngagedTicks = 0
		}
	}
}

func (t *Ticker) decayThreat(w *world.World) {
	decay := 1 - t.cfg.ThreatDecayRate
	for _, e := range w.Entities {
		if len(e.ThreatTable) == 0 {
			continue
		}
		for attackerID, v := range e.ThreatTable {
			attacker, ok := w.Entities[attackerID]
			v *= decay
			if !ok || !attacker.Alive() || v < 1.0 {
				delete(e.ThreatTable, attackerID)
				continue
			}
			e.ThreatTable[attackerID] = v
		}
	}
}

// --- Environment -------------------------------------------------------

func (t *Ticker) runEnvironment(w *world.World) {
	t.applyTerritoryEffects(w)
	t.refreshMemory(w)
	t.trackRegions(w)
}

func (t *Ticker) applyTerritoryEffects(w *world.World) {
	for _, e := range w.Entities {
		if !e.Alive() {
			continue
		}
		tile := w.Grid.Get(e.Pos)
		owner, ok := t.factions.TileOwner(tile)
		if !ok || !t.factions.IsHostile(e.Faction, owner) {
			continue
		}
		terr, ok := t.factions.TerritoryFor(owner)
		if !ok {
			continue
		}
		e.RemoveEffectsByKind(entity.EffectTerritoryDebuff)
		e.Effects = append(e.Effects, entity.TerritoryDebuff(
			terr.AtkDebuff, terr.DefDebuff, terr.SpdDebuff,
			t.cfg.TerritoryDebuffDuration, "territory_intrusion",
		))

		for _, defender := range w.Entities {
			if !defender.Alive() || defender.Faction != owner {
				continue
			}
			if defender.Pos.Manhattan(e.Pos) > terr.AlertRadius {
				continue
			}
			switch defender.AIState {
			case entity.Combat, entity.Hunt, entity.Alert, entity.Flee:
				continue
			}
			defender.AIState = entity.Alert
		}
	}
}

const entityMemoryTTL = 200

func (t *Ticker) refreshMemory(w *world.World) {
	for _, e := range w.Entities {
		if !e.Alive() {
			continue
		}
		vision := e.Stats.VisionRange
		if e.TerrainMemory == nil {
			e.TerrainMemory = make(map[vecgrid.Vector2]vecgrid.Material)
		}
		for dx := -vision; dx <= vision; dx++ {
			for dy := -vision; dy <= vision; dy++ {
				off := vecgrid.Vector2{X: dx, Y: dy}
				if absInt(dx)+absInt(dy) > vision {
					continue
				}
				pos := e.Pos.Add(off)
				if !w.Grid.InBounds(pos) {
					continue
				}
				e.TerrainMemory[pos] = w.Grid.Get(pos)
			}
		}

		seen := make(map[entity.ID]bool, len(e.EntityMemory))
		for _, id := range w.Spatial.QueryRadius(e.Pos, vision) {
			other, ok := w.Entities[id]
			if !ok || id == e.ID || e.Pos.Manhattan(other.Pos) > vision {
				continue
			}
			seen[id] = true
			e.EntityMemory = upsertMemory(e.EntityMemory, other, w.Tick)
		}

		kept := e.EntityMemory[:0]
		for i := range e.EntityMemory {
			rec := e.EntityMemory[i]
			if !seen[rec.ID] {
				rec.Visible = false
			}
			if w.Tick-rec.Tick > entityMemoryTTL {
				continue
			}
			if other, ok := w.Entities[rec.ID]; ok && !other.Alive() {
				continue
			}
			kept = append(kept, rec)
		}
		e.EntityMemory = kept
	}
}

func upsertMemory(records []entity.EntityMemoryRecord, seen *entity.Entity, tick int64) []entity.EntityMemoryRecord {
	rec := entity.EntityMemoryRecord{
		ID: seen.ID, X: seen.Pos.X, Y: seen.Pos.Y, Kind: seen.Kind,
		HP: seen.Stats.HP, MaxHP: seen.Stats.MaxHP, Atk: seen.Stats.Atk,
		Level: seen.Stats.Level, Tick: tick, Visible: true,
	}
	for i := range records {
		if records[i].ID == seen.ID {
			records[i] = rec
			return records
		}
	}
	return append(records, rec)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func (t *Ticker) trackRegions(w *world.World) {
	for _, e := range w.Entities {
		if !e.Alive() {
			continue
		}
		region := w.RegionFor(e.Pos)
		if region == nil {
			continue
		}
		if int64(region.ID) == e.CurrentRegionID {
			continue
		}
		if e.IsHero {
			t.events.Append(eventlog.Event{
				Tick: w.Tick, Category: "region",
				Message:   e.Kind + " entered a new region",
				EntityIDs: []entity.ID{e.ID},
				Metadata:  map[string]any{"region_id": region.ID, "tier": region.Tier},
			})
		}
		e.CurrentRegionID = int64(region.ID)
	}
}

// --- Economy -------------------------------------------------------

func (t *Ticker) runEconomy(w *world.World) {
	t.respawnResources(w)
	t.respawnChests(w)
	t.applyTownHealing(w)
	t.advanceExploreQuests(w)
	t.checkLevelUps(w)
}

func (t *Ticker) respawnResources(w *world.World) {
	for _, n := range w.Resources {
		if n.Charges > 0 {
			continue
		}
		n.TicksUntilRespawn--
		if n.TicksUntilRespawn <= 0 {
			n.Charges = n.MaxCharges
			n.TicksUntilRespawn = n.RespawnTicks
		}
	}
}

func (t *Ticker) respawnChests(w *world.World) {
	for _, c := range w.Chests {
		if c.GuardID != nil {
			if guard, ok := w.Entities[*c.GuardID]; ok && !guard.Alive() {
				guard.Stats.HP = guard.Stats.MaxHP
			}
		}
		if !c.Looted {
			continue
		}
		c.TicksUntilRespawn--
		if c.TicksUntilRespawn <= 0 {
			c.Looted = false
			c.TicksUntilRespawn = c.RespawnTicks
		}
	}
}

func (t *Ticker) applyTownHealing(w *world.World) {
	for _, e := range w.Entities {
		if !e.Alive() {
			continue
		}
		tile := w.Grid.Get(e.Pos)
		owner, ok := t.factions.TileOwner(tile)
		if !ok {
			continue
		}
		if owner == faction.HeroGuild && e.Faction == faction.HeroGuild {
			if e.AIState == entity.RestingInTown {
				t.heal(e, t.cfg.HeroHealPerTick)
				continue
			}
			if !t.hasAdjacentHostile(w, e) {
				t.heal(e, t.cfg.TownPassiveHeal)
			}
			continue
		}
		if owner == faction.HeroGuild && t.factions.IsHostile(faction.HeroGuild, e.Faction) {
			e.Stats.HP -= t.cfg.TownAuraDamage
			if e.Stats.HP < 0 {
				e.Stats.HP = 0
			}
		}
	}
}

func (t *Ticker) heal(e *entity.Entity, amount int) {
	e.Stats.HP += amount
	if e.Stats.HP > e.Stats.MaxHP {
		e.Stats.HP = e.Stats.MaxHP
	}
}

func (t *Ticker) hasAdjacentHostile(w *world.World, e *entity.Entity) bool {
	for _, id := range w.Spatial.QueryRadius(e.Pos, 1) {
		if id == e.ID {
			continue
		}
		other, ok := w.Entities[id]
		if !ok || !other.Alive() || e.Pos.Manhattan(other.Pos) > 1 {
			continue
		}
		if t.factions.IsHostile(e.Faction, other.Faction) {
			return true
		}
	}
	return false
}

func (t *Ticker) advanceExploreQuests(w *world.World) {
	for _, e := range w.Entities {
		if !e.Alive() || !e.IsHero {
			continue
		}
		for _, q := range e.Quests {
			if q.Complete || q.Kind != entity.QuestExplore || q.TargetPos == nil {
				continue
			}
			target := vecgrid.Vector2{X: q.TargetPos.X, Y: q.TargetPos.Y}
			if e.Pos.Manhattan(target) > 2 {
				continue
			}
			q.AdvanceExplore()
			if q.Complete {
				e.Stats.Gold += q.RewardGold
				e.Stats.XP += q.RewardXP
			}
		}
	}
}

func (t *Ticker) checkLevelUps(w *world.World) {
	for _, e := range w.Entities {
		if !e.Alive() {
			continue
		}
		for e.Stats.XP >= e.Stats.XPToNext && e.Stats.Level < t.cfg.MaxLevel {
			e.Stats.XP -= e.Stats.XPToNext
			e.Stats.Level++
			e.Stats.MaxHP += t.cfg.StatGrowthHP
			e.Stats.HP += t.cfg.StatGrowthHP
			e.Stats.Atk += t.cfg.StatGrowthAtk
			e.Stats.Matk += t.cfg.StatGrowthMatk
			e.Stats.Def += t.cfg.StatGrowthDef
			e.Stats.Spd += t.cfg.StatGrowthSpd
			e.Stats.XPToNext = int(float64(e.Stats.XPToNext) * t.cfg.XPPerLevelScale)
			if e.Attributes != nil && e.AttributeCaps != nil {
				entity.LevelUpAttributes(e.Attributes, e.AttributeCaps)
			}
			t.events.Append(eventlog.Event{
				Tick: w.Tick, Category: "level_up",
				Message:   e.Kind + " reached a new level",
				EntityIDs: []entity.ID{e.ID},
				Metadata:  map[string]any{"level": e.Stats.Level},
			})
		}
	}
}
