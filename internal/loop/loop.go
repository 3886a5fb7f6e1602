// Package loop is the World Loop: the authoritative per-tick cycle that
// turns AI proposals into a committed world state, grounded on
// original_source/src/engine/world_loop.py's WorldLoop and adapted into the
// teacher's dependency-injected, slog-instrumented style
// (internal/engine/simulation.go's Tick method).
package loop

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/talgya/rowanengine/internal/action"
	"github.com/talgya/rowanengine/internal/ai/perception"
	"github.com/talgya/rowanengine/internal/combat"
	"github.com/talgya/rowanengine/internal/config"
	"github.com/talgya/rowanengine/internal/entity"
	"github.com/talgya/rowanengine/internal/eventlog"
	"github.com/talgya/rowanengine/internal/faction"
	"github.com/talgya/rowanengine/internal/resolver"
	"github.com/talgya/rowanengine/internal/rng"
	"github.com/talgya/rowanengine/internal/snapshot"
	"github.com/talgya/rowanengine/internal/spawn"
	"github.com/talgya/rowanengine/internal/ticker"
	"github.com/talgya/rowanengine/internal/vecgrid"
	"github.com/talgya/rowanengine/internal/workerpool"
	"github.com/talgya/rowanengine/internal/world"
)

// verbCategory maps a Verb to the event category the teacher's _cat_map
// used; emitAppliedEvents uses "unknown" for anything unlisted.
var verbCategory = map[action.Verb]string{
	action.VerbRest:     "rest",
	action.VerbMove:     "movement",
	action.VerbAttack:   "combat",
	action.VerbUseItem:  "item",
	action.VerbLoot:     "loot",
	action.VerbHarvest:  "harvest",
	action.VerbUseSkill: "skill",
}

// Loop owns the single-threaded tick cycle. Only this type's goroutine may
// mutate World (spec §5); everything it depends on is injected so an
// Engine Manager can own construction and lifetime.
type Loop struct {
	cfg       config.Config
	world     *world.World
	queue     *action.Queue
	pool      *workerpool.Pool
	resolver  *resolver.Resolver
	ticker    *ticker.Ticker
	generator spawn.Generator
	factions  *faction.Registry
	items     entity.ItemRegistry
	skills    entity.SkillRegistry
	rng       rng.Source
	events    *eventlog.Log
	log       *slog.Logger

	lastApplied []resolver.Applied
}

func New(
	cfg config.Config,
	w *world.World,
	pool *workerpool.Pool,
	res *resolver.Resolver,
	tck *ticker.Ticker,
	generator spawn.Generator,
	factions *faction.Registry,
	items entity.ItemRegistry,
	skills entity.SkillRegistry,
	source rng.Source,
	events *eventlog.Log,
	log *slog.Logger,
) *Loop {
	if log == nil {
		log = slog.Default()
	}
	return &Loop{
		cfg: cfg, world: w, queue: action.NewQueue(), pool: pool, resolver: res,
		ticker: tck, generator: generator, factions: factions, items: items,
		skills: skills, rng: source, events: events, log: log,
	}
}

func (l *Loop) World() *world.World { return l.world }

// LastApplied returns the proposals applied during the most recent tick.
func (l *Loop) LastApplied() []resolver.Applied { return l.lastApplied }

// TickOnce runs one full tick cycle and advances the clock. It returns
// false when the simulation should stop: every non-spawner entity is
// dead past tick 0, or MaxTicks has been reached (spec §4.9 phase 0).
func (l *Loop) TickOnce() bool {
	w := l.world
	tick := w.Tick

	if w.AliveNonSpawnerCount() == 0 && tick > 0 {
		l.log.Info("no entities alive — stopping", "tick", tick)
		return false
	}
	if tick >= l.cfg.MaxTicks {
		l.log.Info("max ticks reached", "tick", tick)
		return false
	}

	l.step()
	w.Tick++
	return true
}

// Run drives TickOnce until it returns false.
func (l *Loop) Run() {
	for l.TickOnce() {
	}
}

func (l *Loop) step() {
	w := l.world
	l.phaseGenerators()
	ready := l.phaseScheduling()

	var applied []resolver.Applied
	if len(ready) > 0 {
		snap := snapshot.FromWorld(w)
		l.pool.Dispatch(ready, snap, w.Tick, l.queue, l.cfg.WorkerTimeout)
		proposals := l.queue.Drain()

		prePositions := make(map[entity.ID]vecgrid.Vector2, len(w.Entities))
		for id, e := range w.Entities {
			prePositions[id] = e.Pos
		}

		applied = l.resolver.Resolve(proposals, w)
		l.lastApplied = applied

		l.processOpportunityAttacks(applied, prePositions)
		l.processChaseClosing()
		l.emitAppliedEvents(applied)
		l.updateCombatTargets(applied)
		l.updateAIStates(applied)
		l.processDeferredActions(applied)
	}

	// Subsystem phase always runs, regardless of whether anything was ready
	// (spec §4.9 phase 4 — Core group runs unconditionally).
	l.ticker.Run(w)
}

func (l *Loop) phaseGenerators() {
	if l.generator == nil || !l.generator.ShouldSpawn(l.world) {
		return
	}
	e := l.generator.Spawn(l.world)
	l.world.AddEntity(e)
	l.log.Info("spawned entity", "tick", l.world.Tick, "kind", e.Kind, "id", e.ID, "pos", e.Pos)
}

// phaseScheduling returns the entities ready to act this tick, sorted by
// (next_act_at, id) for deterministic dispatch ordering.
func (l *Loop) phaseScheduling() []*entity.Entity {
	current := float64(l.world.Tick)
	var ready []*entity.Entity
	for _, e := range l.world.Entities {
		if e.Alive() && e.Kind != "spawner" && e.NextActAt <= current {
			ready = append(ready, e)
		}
	}
	sort.Slice(ready, func(i, j int) bool {
		if ready[i].NextActAt != ready[j].NextActAt {
			return ready[i].NextActAt < ready[j].NextActAt
		}
		return ready[i].ID < ready[j].ID
	})
	return ready
}

// processOpportunityAttacks gives a free hit to any hostile that was
// Manhattan-adjacent to a mover's pre-move position when the move increased
// the distance between them (spec §4.9 phase 3 step 3).
func (l *Loop) processOpportunityAttacks(applied []resolver.Applied, prePositions map[entity.ID]vecgrid.Vector2) {
	mult := l.cfg.OpportunityAttackMult
	tick := l.world.Tick
	for _, a := range applied {
		if a.Proposal.Verb != action.VerbMove {
			continue
		}
		mover, ok := l.world.Entities[a.Proposal.ActorID]
		if !ok || !mover.Alive() {
			continue
		}
		oldPos, ok := prePositions[mover.ID]
		if !ok {
			continue
		}
		newPos := mover.Pos

		for eid, hostile := range l.world.Entities {
			if eid == mover.ID || !hostile.Alive() || hostile.Kind == "spawner" {
				continue
			}
			if !l.factions.IsHostile(mover.Faction, hostile.Faction) {
				continue
			}
			oldDist := hostile.Pos.Manhattan(oldPos)
			if oldDist != 1 {
				continue
			}
			newDist := hostile.Pos.Manhattan(newPos)
			if newDist <= oldDist {
				continue
			}

			dmg := combat.OpportunityDamage(hostile.EffectiveAtk(l.items), mover.EffectiveDef(l.items), mult)
			mover.Stats.HP -= dmg
			if mover.Stats.HP < 0 {
				mover.Stats.HP = 0
			}
			if mover.ThreatTable == nil {
				mover.ThreatTable = make(map[entity.ID]float64)
			}
			mover.ThreatTable[hostile.ID] += combat.ThreatGain(dmg, l.cfg.ThreatDamageMult, l.cfg.ThreatTankClassMult, false)

			l.log.Info("opportunity attack", "tick", tick, "attacker", hostile.ID, "defender", mover.ID, "damage", dmg)
			l.events.Append(eventlog.Event{
				Tick: tick, Category: "combat",
				Message:   fmt.Sprintf("entity %d opportunity attack -> %d for %d damage", hostile.ID, mover.ID, dmg),
				EntityIDs: []entity.ID{hostile.ID, mover.ID},
				Metadata:  map[string]any{"verb": "OPPORTUNITY_ATTACK", "damage": dmg},
			})
		}
	}
}

// processChaseClosing gives HUNT-state entities with a speed advantage a
// periodic bonus tile of movement toward their nearest visible hostile
// (spec §4.9 phase 3 step 4).
func (l *Loop) processChaseClosing() {
	w := l.world
	for _, hunter := range w.Entities {
		if !hunter.Alive() || hunter.AIState != entity.Hunt || hunter.ChaseTicks < 2 {
			continue
		}

		hunterSpd := hunter.EffectiveSpd(l.items)
		var target *entity.Entity
		bestDist := math.MaxInt32
		for _, oid := range w.Spatial.QueryRadius(hunter.Pos, hunter.Stats.VisionRange) {
			if oid == hunter.ID {
				continue
			}
			other, ok := w.Entities[oid]
			if !ok || !other.Alive() || other.Kind == "spawner" {
				continue
			}
			if !l.factions.IsHostile(hunter.Faction, other.Faction) {
				continue
			}
			d := hunter.Pos.Manhattan(other.Pos)
			if d > hunter.Stats.VisionRange {
				continue
			}
			if d < bestDist || (d == bestDist && target != nil && other.ID < target.ID) {
				bestDist = d
				target = other
			}
		}
		if target == nil {
			continue
		}

		targetSpd := target.EffectiveSpd(l.items)
		if hunterSpd <= targetSpd {
			continue
		}

		interval := int(math.Ceil(float64(l.cfg.ChaseClosingBase) * targetSpd / hunterSpd))
		if interval < 1 {
			interval = 1
		}
		if hunter.ChaseTicks%interval != 0 {
			continue
		}

		dir := perception.DirectionToward(hunter.Pos, target.Pos)
		newPos := hunter.Pos.Add(dir)
		if !w.Grid.IsWalkable(newPos) {
			continue
		}
		occupied := false
		for _, e := range w.Entities {
			if e.ID != hunter.ID && e.Alive() && e.Pos == newPos {
				occupied = true
				break
			}
		}
		if occupied {
			continue
		}

		w.MoveEntity(hunter.ID, newPos)
		l.log.Info("chase sprint", "tick", w.Tick, "hunter", hunter.ID, "target", target.ID,
			"hunter_spd", hunterSpd, "target_spd", targetSpd, "chase_ticks", hunter.ChaseTicks)
		l.events.Append(eventlog.Event{
			Tick: w.Tick, Category: "movement",
			Message:   fmt.Sprintf("entity %d sprints closer to %d", hunter.ID, target.ID),
			EntityIDs: []entity.ID{hunter.ID},
			Metadata:  map[string]any{"verb": "CHASE_SPRINT", "target_id": target.ID},
		})
	}
}

func (l *Loop) emitAppliedEvents(applied []resolver.Applied) {
	tick := l.world.Tick
	for _, a := range applied {
		p := a.Proposal
		involved := []entity.ID{p.ActorID}
		meta := map[string]any{"verb": fmt.Sprint(p.Verb), "actor_id": p.ActorID}
		if p.Target.EntityID != nil {
			involved = append(involved, *p.Target.EntityID)
			meta["target_id"] = *p.Target.EntityID
		}
		cat := verbCategory[p.Verb]
		if cat == "" {
			cat = "unknown"
		}
		l.events.Append(eventlog.Event{
			Tick: tick, Category: cat,
			Message:   fmt.Sprintf("entity %d: %v -> %s", p.ActorID, p.Verb, p.Reason),
			EntityIDs: involved,
			Metadata:  meta,
		})
	}
}

// updateCombatTargets keeps combat_target_id current for observers
// (frontend visualization, spec §7), clearing it for entities that neither
// acted nor remain in an active-combat state this tick.
func (l *Loop) updateCombatTargets(applied []resolver.Applied) {
	acted := make(map[entity.ID]bool, len(applied))
	for _, a := range applied {
		actor, ok := l.world.Entities[a.Proposal.ActorID]
		if !ok {
			continue
		}
		acted[a.Proposal.ActorID] = true
		if (a.Proposal.Verb == action.VerbAttack || a.Proposal.Verb == action.VerbUseSkill) && a.Proposal.Target.EntityID != nil {
			id := *a.Proposal.Target.EntityID
			actor.CombatTargetID = &id
		} else {
			actor.CombatTargetID = nil
		}
	}
	for id, e := range l.world.Entities {
		if !acted[id] && e.AIState != entity.Combat && e.AIState != entity.Hunt {
			e.CombatTargetID = nil
		}
	}
}

func (l *Loop) updateAIStates(applied []resolver.Applied) {
	for _, a := range applied {
		actor, ok := l.world.Entities[a.Proposal.ActorID]
		if !ok {
			continue
		}
		if a.Proposal.NewAIState != nil {
			actor.AIState = *a.Proposal.NewAIState
		}
		if a.Proposal.Reason != "" {
			actor.LastReason = a.Proposal.Reason
		}
	}
}

// processDeferredActions mutates world state for the verbs the Conflict
// Resolver only validated: USE_ITEM, LOOT, HARVEST, USE_SKILL (spec §4.9
// phase 3 step 6). These touch inventories, ground items, and resource
// nodes — state the resolver intentionally leaves untouched so its
// validate/apply pass stays a pure per-entity operation.
func (l *Loop) processDeferredActions(applied []resolver.Applied) {
	w := l.world
	for _, a := range applied {
		p := a.Proposal
		actor, ok := w.Entities[p.ActorID]
		if !ok || !actor.Alive() {
			continue
		}
		switch p.Verb {
		case action.VerbUseItem:
			l.applyUseItem(actor, p)
		case action.VerbLoot:
			l.applyLoot(actor)
		case action.VerbHarvest:
			l.applyHarvest(actor, p)
		case action.VerbUseSkill:
			l.applyUseSkill(actor, p)
		}
	}
}

func (l *Loop) applyUseItem(actor *entity.Entity, p action.Proposal) {
	itemID := p.Target.StringID
	if itemID == "" || actor.Inventory == nil || !actor.Inventory.HasConsumable(itemID) {
		return
	}
	tmpl, ok := l.items.Get(itemID)
	if !ok {
		return
	}
	actor.Inventory.RemoveItem(itemID)
	if tmpl.HealAmount > 0 {
		actor.Stats.HP += tmpl.HealAmount
		if actor.Stats.HP > actor.Stats.MaxHP {
			actor.Stats.HP = actor.Stats.MaxHP
		}
	}
	l.advanceNextActAt(actor, combat.WeightUseItem)
	l.log.Info("used item", "tick", l.world.Tick, "entity", actor.ID, "item", itemID)
}

func (l *Loop) applyLoot(actor *entity.Entity) {
	if actor.Inventory == nil {
		return
	}
	items := l.world.PickupItems(actor.Pos)
	var picked []string
	for _, iid := range items {
		if actor.Inventory.AddItem(l.items, iid) {
			picked = append(picked, iid)
			l.autoEquipIfBetter(actor, iid)
		} else {
			l.world.DropItems(actor.Pos, []string{iid})
		}
	}
	if len(picked) > 0 {
		l.log.Info("looted ground items", "tick", l.world.Tick, "entity", actor.ID, "count", len(picked))
		l.events.Append(eventlog.Event{
			Tick: l.world.Tick, Category: "loot",
			Message:   fmt.Sprintf("entity %d looted %d items", actor.ID, len(picked)),
			EntityIDs: []entity.ID{actor.ID},
			Metadata:  map[string]any{"items": picked, "source": "ground"},
		})
	}

	if chest := l.world.ChestAt(actor.Pos); chest != nil && !chest.Looted {
		guardAlive := false
		if chest.GuardID != nil {
			if g, ok := l.world.Entities[*chest.GuardID]; ok && g.Alive() {
				guardAlive = true
			}
		}
		if !guardAlive {
			var chestPicked []string
			for _, iid := range chest.ItemIDs {
				if actor.Inventory.AddItem(l.items, iid) {
					chestPicked = append(chestPicked, iid)
					l.autoEquipIfBetter(actor, iid)
				}
			}
			chest.Looted = true
			chest.TicksUntilRespawn = chest.RespawnTicks
			if len(chestPicked) > 0 {
				l.events.Append(eventlog.Event{
					Tick: l.world.Tick, Category: "loot",
					Message:   fmt.Sprintf("entity %d looted a chest for %d items", actor.ID, len(chestPicked)),
					EntityIDs: []entity.ID{actor.ID},
					Metadata:  map[string]any{"items": chestPicked, "source": "chest"},
				})
			}
		}
	}

	l.advanceNextActAt(actor, combat.WeightLoot)
	if actor.Attributes != nil && actor.AttributeCaps != nil {
		entity.TrainAttributes(actor.Attributes, *actor.AttributeCaps, entity.TrainLoot)
	}
}

// autoEquipIfBetter equips a freshly-acquired item only when it improves on
// whatever currently occupies its slot, matching
// original_source/src/core/items.py's auto_equip_best heuristic.
func (l *Loop) autoEquipIfBetter(actor *entity.Entity, itemID string) {
	tmpl, ok := l.items.Get(itemID)
	if !ok || actor.Inventory == nil {
		return
	}
	var current string
	var score func(entity.ItemTemplate) float64
	switch tmpl.Type {
	case entity.ItemWeapon:
		current = actor.Inventory.Weapon
		score = func(t entity.ItemTemplate) float64 { return float64(t.AtkBonus) }
	case entity.ItemArmor:
		current = actor.Inventory.Armor
		score = func(t entity.ItemTemplate) float64 { return float64(t.DefBonus + t.MaxHPBonus) }
	case entity.ItemAccessory:
		current = actor.Inventory.Accessory
		score = func(t entity.ItemTemplate) float64 {
			return float64(t.AtkBonus+t.DefBonus+t.SpdBonus+t.MaxHPBonus) + t.CritRateBonus*100 + t.EvasionBonus*100
		}
	default:
		return
	}
	if current == "" {
		actor.Inventory.Equip(l.items, itemID)
		return
	}
	curTmpl, ok := l.items.Get(current)
	if ok && score(tmpl) <= score(curTmpl) {
		return
	}
	actor.Inventory.Equip(l.items, itemID)
}

func (l *Loop) applyHarvest(actor *entity.Entity, p action.Proposal) {
	if p.Target.Pos == nil || actor.Inventory == nil {
		return
	}
	node := l.world.ResourceAt(*p.Target.Pos)
	if node == nil || node.Charges <= 0 {
		return
	}
	itemID := node.ItemID
	node.Charges--
	if node.Charges <= 0 {
		node.TicksUntilRespawn = node.RespawnTicks
	}
	if itemID != "" {
		if actor.Inventory.AddItem(l.items, itemID) {
			l.log.Info("harvested resource", "tick", l.world.Tick, "entity", actor.ID, "item", itemID)
		} else {
			l.world.DropItems(actor.Pos, []string{itemID})
		}
	}
	l.advanceNextActAt(actor, combat.WeightHarvest)
	actor.Stats.Stamina -= 2
	if actor.Stats.Stamina < 0 {
		actor.Stats.Stamina = 0
	}
	if actor.Attributes != nil && actor.AttributeCaps != nil {
		entity.TrainAttributes(actor.Attributes, *actor.AttributeCaps, entity.TrainHarvest)
	}
}

func (l *Loop) applyUseSkill(actor *entity.Entity, p action.Proposal) {
	skillID := p.Target.StringID
	inst, ok := actor.Skills[skillID]
	if !ok || !inst.IsReady() || l.skills == nil {
		return
	}
	tmpl, ok := l.skills.Get(skillID)
	if !ok {
		return
	}
	if actor.Stats.Stamina < tmpl.StaminaCost {
		return
	}
	actor.Stats.Stamina -= tmpl.StaminaCost
	inst.Use(tmpl.Cooldown)

	switch tmpl.Target {
	case entity.TargetSingleEnemy, entity.TargetAreaEnemies:
		l.resolveSkillDamage(actor, tmpl)
	case entity.TargetSelf:
		if tmpl.HPMod > 0 {
			heal := int(float64(actor.Stats.MaxHP) * tmpl.HPMod)
			actor.Stats.HP += heal
			if actor.Stats.HP > actor.Stats.MaxHP {
				actor.Stats.HP = actor.Stats.MaxHP
			}
		}
		if tmpl.BuffDuration > 0 {
			actor.Effects = append(actor.Effects, entity.SkillEffect(tmpl.BuffAtkMod, tmpl.BuffDefMod, tmpl.BuffSpdMod, tmpl.BuffDuration, tmpl.Name, false))
		}
	case entity.TargetAreaAllies:
		buffRange := tmpl.Range
		if buffRange == 0 {
			buffRange = 1
		}
		for _, ally := range l.world.Entities {
			if !ally.Alive() || ally.Faction != actor.Faction {
				continue
			}
			if actor.Pos.Manhattan(ally.Pos) > buffRange {
				continue
			}
			if tmpl.BuffDuration > 0 {
				ally.Effects = append(ally.Effects, entity.SkillEffect(tmpl.BuffAtkMod, tmpl.BuffDefMod, tmpl.BuffSpdMod, tmpl.BuffDuration, tmpl.Name, false))
			}
		}
	}

	l.advanceNextActAt(actor, combat.WeightUseSkill)
	if actor.Attributes != nil && actor.AttributeCaps != nil {
		entity.TrainAttributes(actor.Attributes, *actor.AttributeCaps, entity.TrainSkill)
	}
}

// resolveSkillDamage resolves a SINGLE_ENEMY or AREA_ENEMIES skill: an
// optional AoE impact point, per-target evasion/crit rolls, and distance
// falloff, grounded on original_source/src/engine/world_loop.py's
// _process_item_actions USE_SKILL branch.
func (l *Loop) resolveSkillDamage(actor *entity.Entity, tmpl entity.SkillTemplate) {
	w := l.world
	tick := w.Tick
	skillRange := tmpl.Range
	if skillRange == 0 {
		skillRange = 1
	}

	impactPos := actor.Pos
	if tmpl.Target == entity.TargetAreaEnemies && tmpl.AoERadius > 0 {
		bestDist := math.MaxInt32
		for _, other := range w.Entities {
			if other.ID == actor.ID || !other.Alive() || !l.factions.IsHostile(actor.Faction, other.Faction) {
				continue
			}
			d := actor.Pos.Manhattan(other.Pos)
			if d <= skillRange && d < bestDist {
				bestDist = d
				impactPos = other.Pos
			}
		}
	}

	type hit struct {
		e    *entity.Entity
		dist int
	}
	var targets []hit
	for _, other := range w.Entities {
		if other.ID == actor.ID || !other.Alive() || !l.factions.IsHostile(actor.Faction, other.Faction) {
			continue
		}
		if tmpl.AoERadius > 0 {
			d := impactPos.Manhattan(other.Pos)
			if d > tmpl.AoERadius {
				continue
			}
			targets = append(targets, hit{other, d})
		} else {
			if actor.Pos.Manhattan(other.Pos) > skillRange {
				continue
			}
			targets = append(targets, hit{other, 0})
		}
	}

	calc := combat.DefaultCalculator{}
	for _, h := range targets {
		other := h.e
		luckMod := float64(actor.Stats.Luck) * 0.002
		effEvasion := other.EffectiveEvasion(l.items) - luckMod
		if effEvasion < 0 {
			effEvasion = 0
		}
		if l.rng.NextBool(rng.Combat, uint64(other.ID), tick+7, effEvasion) {
			if tmpl.Target == entity.TargetSingleEnemy {
				break
			}
			continue
		}

		if tmpl.BasePower > 0 {
			res := calc.Resolve(tmpl.DamageType, actor, other, l.items)
			raw := res.AtkPower*res.AtkMult*tmpl.BasePower - res.DefPower*res.DefMult/2
			dmg := math.Max(raw, 1)

			if h.dist > 0 && tmpl.AoEFalloff > 0 {
				falloff := math.Max(0, 1-float64(h.dist)*tmpl.AoEFalloff)
				dmg = math.Max(1, dmg*falloff)
			}

			variance := l.rng.NextFloat(rng.Combat, uint64(actor.ID), tick+5+int64(other.ID))
			dmg = math.Max(1, dmg*(1+l.cfg.DamageVariance*(variance-0.5)))

			isCrit := false
			if h.dist == 0 {
				critRate := actor.EffectiveCritRate(l.items) + float64(actor.Stats.Luck)*0.003
				if critRate > 0.8 {
					critRate = 0.8
				}
				if l.rng.NextBool(rng.Combat, uint64(actor.ID), tick+6, critRate) {
					dmg *= actor.Stats.CritDmg
					isCrit = true
				}
			}

			final := int(math.Max(dmg, 1))
			other.Stats.HP -= final
			if other.Stats.HP < 0 {
				other.Stats.HP = 0
			}

			gain := combat.ThreatGain(final, l.cfg.ThreatDamageMult, l.cfg.ThreatTankClassMult, actor.HeroClass.IsTank())
			if other.ThreatTable == nil {
				other.ThreatTable = make(map[entity.ID]float64)
			}
			other.ThreatTable[actor.ID] += gain

			l.log.Info("used skill", "tick", tick, "entity", actor.ID, "skill", tmpl.Name, "target", other.ID, "damage", final, "crit", isCrit)
			l.events.Append(eventlog.Event{
				Tick: tick, Category: "skill",
				Message:   fmt.Sprintf("entity %d used %s on %d -> %d dmg", actor.ID, tmpl.Name, other.ID, final),
				EntityIDs: []entity.ID{actor.ID, other.ID},
				Metadata:  map[string]any{"skill_id": tmpl.SkillID, "damage": final, "crit": isCrit},
			})
		}

		if tmpl.BuffDuration > 0 && (tmpl.BuffAtkMod != 0 || tmpl.BuffDefMod != 0 || tmpl.BuffSpdMod != 0) {
			other.Effects = append(other.Effects, entity.SkillEffect(tmpl.BuffAtkMod, tmpl.BuffDefMod, tmpl.BuffSpdMod, tmpl.BuffDuration, tmpl.Name, true))
		}
		if tmpl.Target == entity.TargetSingleEnemy {
			break
		}
	}
}

func (l *Loop) advanceNextActAt(actor *entity.Entity, weight combat.ActionWeight) {
	spd := actor.EffectiveSpd(l.items)
	delay := combat.SpeedDelay(1.0, spd, float64(weight), actor.Stats.InteractionSpeedMult)
	actor.NextActAt += delay
}
