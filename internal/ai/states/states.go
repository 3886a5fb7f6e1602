// Package states implements the 18 AI State Handlers dispatched after goal
// selection (spec §4.6). original_source/src/ai/states.py ships only a
// state-transition docstring and no handler bodies (confirmed: no
// STATE_HANDLERS table, no function definitions) — every handler below is
// this repo's original implementation, grounded on that docstring's
// transition diagram, spec §4.6's goal/target-state table, and the
// perception helpers in internal/ai/perception.
package states

import (
	"github.com/talgya/rowanengine/internal/action"
	"github.com/talgya/rowanengine/internal/ai/perception"
	"github.com/talgya/rowanengine/internal/config"
	"github.com/talgya/rowanengine/internal/entity"
	"github.com/talgya/rowanengine/internal/faction"
	"github.com/talgya/rowanengine/internal/rng"
	"github.com/talgya/rowanengine/internal/snapshot"
	"github.com/talgya/rowanengine/internal/vecgrid"
	"github.com/talgya/rowanengine/internal/world"
)

// Context bundles a state handler's read-only inputs.
type Context struct {
	Actor    *entity.Entity
	Snapshot *snapshot.Snapshot
	Config   config.Config
	Factions *faction.Registry
	Items    entity.ItemRegistry
	RNG      rng.Source
	Tick     int64
}

// Handler is a pure function from Context to one proposal.
type Handler func(ctx *Context) action.Proposal

func restProposal(actor *entity.Entity, reason string) action.Proposal {
	return action.Proposal{ActorID: actor.ID, Verb: action.VerbRest, Reason: reason}
}

func moveProposal(actor *entity.Entity, step vecgrid.Vector2, reason string) action.Proposal {
	target := actor.Pos.Add(step)
	return action.Proposal{ActorID: actor.ID, Verb: action.VerbMove, Target: action.Target{Pos: &target}, Reason: reason}
}

func moveTowardProposal(actor *entity.Entity, dest vecgrid.Vector2, reason string) action.Proposal {
	if actor.Pos == dest {
		return restProposal(actor, reason+":arrived")
	}
	return moveProposal(actor, perception.DirectionToward(actor.Pos, dest), reason)
}

func transition(p action.Proposal, state entity.AIState) action.Proposal {
	s := state
	p.NewAIState = &s
	return p
}

func nearestBuildingOfKind(snap *snapshot.Snapshot, from vecgrid.Vector2, kind string) (*world.Building, bool) {
	var best *world.Building
	bestDist := 0
	for _, b := range snap.Buildings {
		if b.Kind != kind {
			continue
		}
		d := from.Manhattan(b.Pos)
		if best == nil || d < bestDist || (d == bestDist && b.ID < best.ID) {
			best, bestDist = b, d
		}
	}
	return best, best != nil
}

// inventoryFull reports whether actor's bag has no room for another item, by
// slots or by weight (spec §4.6 Loot scorer).
func inventoryFull(actor *entity.Entity, items entity.ItemRegistry) bool {
	inv := actor.Inventory
	if inv == nil {
		return false
	}
	if inv.UsedSlots() >= inv.MaxSlots {
		return true
	}
	return inv.MaxWeight > 0 && inv.CurrentWeight(items) >= inv.MaxWeight
}

// handleIdle: a decision state. Reached here only when the goal evaluator
// found nothing viable this tick, so the entity simply rests.
func handleIdle(ctx *Context) action.Proposal {
	return restProposal(ctx.Actor, "idle: no viable goal")
}

// handleWander: decision state fallback — explore toward the frontier of
// explored terrain, or rest if nothing unexplored is reachable.
func handleWander(ctx *Context) action.Proposal {
	rngVal := int(ctx.RNG.NextInt(rng.AIDecision, uint64(ctx.Actor.ID), ctx.Tick, 0, 1<<30))
	if dest, ok := perception.FindFrontierTarget(ctx.Actor, ctx.Snapshot, rngVal); ok {
		return moveTowardProposal(ctx.Actor, dest, "wander: frontier")
	}
	return restProposal(ctx.Actor, "wander: nothing to explore")
}

// handleHunt: pursue the nearest enemy; switch to COMBAT once adjacent.
func handleHunt(ctx *Context) action.Proposal {
	visible := perception.VisibleEntities(ctx.Actor, ctx.Snapshot, ctx.Config.VisionRange)
	enemy := perception.NearestEnemy(ctx.Actor, visible, ctx.Factions)
	if enemy == nil {
		return transition(restProposal(ctx.Actor, "hunt: lost target"), entity.Wander)
	}
	if ctx.Actor.Pos.Manhattan(enemy.Pos) <= 1 {
		return transition(restProposal(ctx.Actor, "hunt: target in range"), entity.Combat)
	}
	return moveProposal(ctx.Actor, perception.DirectionToward(ctx.Actor.Pos, enemy.Pos), "hunt: closing distance")
}

// handleCombat: attack the current target if still adjacent; otherwise
// resume the hunt.
func handleCombat(ctx *Context) action.Proposal {
	actor := ctx.Actor
	var target *entity.Entity
	if actor.CombatTargetID != nil {
		target, _ = ctx.Snapshot.Entity(*actor.CombatTargetID)
	}
	if target == nil || !target.Alive() {
		visible := perception.VisibleEntities(actor, ctx.Snapshot, ctx.Config.VisionRange)
		target = perception.NearestEnemy(actor, visible, ctx.Factions)
	}
	if target == nil {
		return transition(restProposal(actor, "combat: no target"), entity.Idle)
	}
	if actor.Pos.Manhattan(target.Pos) > 1 {
		return transition(moveProposal(actor, perception.DirectionToward(actor.Pos, target.Pos), "combat: re-closing"), entity.Hunt)
	}
	id := target.ID
	return action.Proposal{ActorID: actor.ID, Verb: action.VerbAttack, Target: action.Target{EntityID: &id}, Reason: "combat: engaged"}
}

// handleFlee: run from the nearest enemy; once clear, stand down to IDLE.
func handleFlee(ctx *Context) action.Proposal {
	actor := ctx.Actor
	if perception.IsInSanctuary(actor, ctx.Snapshot) || perception.IsInTown(actor, ctx.Snapshot) {
		return transition(restProposal(actor, "flee: reached safety"), entity.Idle)
	}
	visible := perception.VisibleEntities(actor, ctx.Snapshot, ctx.Config.VisionRange)
	enemy := perception.NearestEnemy(actor, visible, ctx.Factions)
	if enemy == nil {
		return transition(restProposal(actor, "flee: no longer threatened"), entity.Idle)
	}
	return moveProposal(actor, perception.DirectionAwayFrom(actor.Pos, enemy.Pos), "flee: running")
}

// handleReturnToTown: head for the hero's home/town center, then settle
// into RESTING_IN_TOWN.
func handleReturnToTown(ctx *Context) action.Proposal {
	actor := ctx.Actor
	dest := vecgrid.Vector2{X: ctx.Config.TownCenterX, Y: ctx.Config.TownCenterY}
	if actor.HomePos != nil {
		dest = *actor.HomePos
	}
	if actor.Pos.Manhattan(dest) <= 1 {
		return transition(restProposal(actor, "return_to_town: arrived"), entity.RestingInTown)
	}
	return moveProposal(actor, perception.DirectionToward(actor.Pos, dest), "return_to_town: traveling")
}

// handleRestingInTown: decision state fallback — recuperate.
func handleRestingInTown(ctx *Context) action.Proposal {
	return restProposal(ctx.Actor, "resting_in_town: recovering")
}

// handleReturnToCamp: mobs outside leash range head back toward their camp.
func handleReturnToCamp(ctx *Context) action.Proposal {
	actor := ctx.Actor
	if actor.HomePos == nil {
		return transition(restProposal(actor, "return_to_camp: no camp"), entity.Idle)
	}
	if actor.Pos.Manhattan(*actor.HomePos) <= 1 {
		return transition(restProposal(actor, "return_to_camp: arrived"), entity.GuardCamp)
	}
	return moveProposal(actor, perception.DirectionToward(actor.Pos, *actor.HomePos), "return_to_camp: returning")
}

// handleGuardCamp: decision state fallback — patrol in place.
func handleGuardCamp(ctx *Context) action.Proposal {
	return restProposal(ctx.Actor, "guard_camp: holding position")
}

// handleLooting: walk to the nearest ground loot pile and loot it, unless
// the hero's bag is already full (spec §4.6 Loot scorer), in which case
// looting aborts back to WANDER.
func handleLooting(ctx *Context) action.Proposal {
	actor := ctx.Actor
	pos, ok := perception.GroundLootNearby(actor, ctx.Snapshot, ctx.Config.VisionRange)
	if !ok {
		actor.LootProgress = 0
		return transition(restProposal(actor, "looting: nothing left"), entity.Idle)
	}
	if inventoryFull(actor, ctx.Items) {
		actor.LootProgress = 0
		return transition(restProposal(actor, "looting: Bag full"), entity.Wander)
	}
	if actor.Pos == pos {
		actor.LootProgress++
		return transition(action.Proposal{ActorID: actor.ID, Verb: action.VerbLoot, Reason: "looting: picking up"}, entity.Idle)
	}
	return moveProposal(actor, perception.DirectionToward(actor.Pos, pos), "looting: approaching")
}

// handleAlert: territory intrusion response — engage if a hostile is
// visible, otherwise stand down.
func handleAlert(ctx *Context) action.Proposal {
	actor := ctx.Actor
	visible := perception.VisibleEntities(actor, ctx.Snapshot, ctx.Config.VisionRange)
	if perception.NearestEnemy(actor, visible, ctx.Factions) != nil {
		return transition(restProposal(actor, "alert: enemy spotted"), entity.Hunt)
	}
	return transition(restProposal(actor, "alert: stand down"), entity.GuardCamp)
}

func visitBuildingHandler(kind, reason string) Handler {
	return func(ctx *Context) action.Proposal {
		actor := ctx.Actor
		b, ok := nearestBuildingOfKind(ctx.Snapshot, actor.Pos, kind)
		if !ok {
			return transition(restProposal(actor, reason+": none nearby"), entity.Idle)
		}
		if actor.Pos.Manhattan(b.Pos) <= 1 {
			return transition(restProposal(actor, reason+": arrived"), entity.Idle)
		}
		return moveProposal(actor, perception.DirectionToward(actor.Pos, b.Pos), reason+": traveling")
	}
}

// handleHarvesting: walk to the nearest resource node and harvest it.
func handleHarvesting(ctx *Context) action.Proposal {
	actor := ctx.Actor
	var best *world.ResourceNode
	bestDist := 0
	for _, n := range ctx.Snapshot.Resources {
		if n.Charges <= 0 {
			continue
		}
		d := actor.Pos.Manhattan(n.Pos)
		if best == nil || d < bestDist || (d == bestDist && n.ID < best.ID) {
			best, bestDist = n, d
		}
	}
	if best == nil {
		return transition(restProposal(actor, "harvesting: no nodes"), entity.Idle)
	}
	if actor.Pos == best.Pos {
		return transition(action.Proposal{ActorID: actor.ID, Verb: action.VerbHarvest, Reason: "harvesting: gathering"}, entity.Idle)
	}
	return moveProposal(actor, perception.DirectionToward(actor.Pos, best.Pos), "harvesting: approaching")
}

// handleVisitHome: heroes return to their own home tile to rest deeply.
func handleVisitHome(ctx *Context) action.Proposal {
	actor := ctx.Actor
	if actor.HomePos == nil {
		return transition(restProposal(actor, "visit_home: no home"), entity.Idle)
	}
	if actor.Pos == *actor.HomePos {
		return transition(restProposal(actor, "visit_home: resting"), entity.Idle)
	}
	return moveProposal(actor, perception.DirectionToward(actor.Pos, *actor.HomePos), "visit_home: traveling")
}

// DefaultHandlers returns the full 18-state dispatch table.
func DefaultHandlers() map[entity.AIState]Handler {
	return map[entity.AIState]Handler{
		entity.Idle:            handleIdle,
		entity.Wander:          handleWander,
		entity.Hunt:            handleHunt,
		entity.Combat:          handleCombat,
		entity.Flee:            handleFlee,
		entity.ReturnToTown:    handleReturnToTown,
		entity.RestingInTown:   handleRestingInTown,
		entity.ReturnToCamp:    handleReturnToCamp,
		entity.GuardCamp:       handleGuardCamp,
		entity.Looting:         handleLooting,
		entity.Alert:           handleAlert,
		entity.VisitShop:       visitBuildingHandler("shop", "visit_shop"),
		entity.VisitBlacksmith: visitBuildingHandler("blacksmith", "visit_blacksmith"),
		entity.VisitGuild:      visitBuildingHandler("guild", "visit_guild"),
		entity.Harvesting:      handleHarvesting,
		entity.VisitClassHall:  visitBuildingHandler("class_hall", "visit_class_hall"),
		entity.VisitInn:        visitBuildingHandler("inn", "visit_inn"),
		entity.VisitHome:       handleVisitHome,
	}
}
