package goals

import (
	"github.com/talgya/rowanengine/internal/ai/perception"
	"github.com/talgya/rowanengine/internal/entity"
)

// CombatScorer rates seeking out and fighting a visible enemy.
type CombatScorer struct{}

func (CombatScorer) Name() string                { return "combat" }
func (CombatScorer) TargetState() entity.AIState { return entity.Hunt }

func (CombatScorer) Score(ctx *Context) float64 {
	actor := ctx.Actor
	hpRatio := actor.Stats.HPRatio()
	base := 0.3

	enemy := ctx.NearestEnemy()
	if enemy != nil {
		dist := actor.Pos.Manhattan(enemy.Pos)
		base += 0.5 * maxF(0, 1.0-float64(dist)/10.0)
		enemyPower := float64(enemy.EffectiveAtk(ctx.Items) + enemy.EffectiveMatk())
		myPower := float64(actor.EffectiveAtk(ctx.Items) + actor.EffectiveMatk())
		if myPower > enemyPower*1.2 {
			base += 0.2
		} else if enemyPower > myPower*1.5 {
			base -= 0.3
		}
	} else {
		base -= 0.2
	}

	if hpRatio < 0.5 {
		base -= 0.3 * (1.0 - hpRatio)
	}

	if !ctx.isHero() {
		if ctx.isOnHomeTerritory() {
			base += 0.3
		}
		if enemy != nil {
			base += 0.15
		}
	} else {
		base -= ctx.regionDangerPenalty()
	}

	base += ctx.traitUtility("combat")
	return base
}

// FleeScorer rates retreating to safety.
type FleeScorer struct{}

func (FleeScorer) Name() string                { return "flee" }
func (FleeScorer) TargetState() entity.AIState { return entity.Flee }

func (FleeScorer) Score(ctx *Context) float64 {
	actor := ctx.Actor
	hpRatio := actor.Stats.HPRatio()

	threshold := ctx.Config.FleeHPThreshold + entity.AggregateFleeBias(actor.Traits, ctx.Traits)
	if ctx.isHero() {
		diff := ctx.currentRegionDifficulty()
		if diff > 0 {
			comfort := float64(actor.Stats.Level + 3)
			excess := maxF(float64(diff*3)-comfort, 0)
			threshold += excess * 0.03
		}
	}
	threshold = maxF(0.05, minF(0.8, threshold))

	base := 0.0
	if hpRatio <= threshold {
		base = 0.8 + (threshold-hpRatio)*2.0
	} else if hpRatio < 0.5 {
		base = 0.2 * (1.0 - hpRatio)
	}

	if ctx.NearestEnemy() != nil && hpRatio < 0.6 {
		base += 0.2
	}

	if !ctx.isHero() && ctx.isOnHomeTerritory() {
		base *= 0.5
	}

	base += ctx.traitUtility("flee")
	return base
}

// ExploreScorer rates wandering into unexplored territory.
type ExploreScorer struct{}

func (ExploreScorer) Name() string                { return "explore" }
func (ExploreScorer) TargetState() entity.AIState { return entity.Wander }

func (ExploreScorer) Score(ctx *Context) float64 {
	actor := ctx.Actor
	hpRatio := actor.Stats.HPRatio()
	staminaRatio := actor.Stats.StaminaRatio()

	base := 0.2
	if hpRatio > 0.7 && staminaRatio > 0.4 {
		base += 0.2
	}
	if ctx.NearestEnemy() == nil {
		base += 0.15
	}

	if ctx.isHero() {
		base -= ctx.regionDangerPenalty()
		diff := ctx.currentRegionDifficulty()
		if diff > 0 && diff*3 <= actor.Stats.Level+3 {
			base += 0.1
		}
	}

	base += ctx.traitUtility("explore")
	return base
}

// LootScorer rates picking up nearby ground loot. Only heroes carry it.
type LootScorer struct{}

func (LootScorer) Name() string                { return "loot" }
func (LootScorer) TargetState() entity.AIState { return entity.Looting }

func (LootScorer) Score(ctx *Context) float64 {
	base := 0.0
	actor := ctx.Actor

	if ctx.isHero() {
		if actor.Inventory != nil && isEffectivelyFull(actor.Inventory, ctx.Items) {
			return 0.0
		}
		if pos, ok := perception.GroundLootNearby(actor, ctx.Snapshot, 5); ok {
			base = 0.5
			if actor.Pos.Manhattan(pos) <= 2 {
				base = 0.7
			}
		}
		if actor.Inventory != nil {
			free := actor.Inventory.MaxSlots - actor.Inventory.UsedSlots()
			nearlyFull := free <= 2 || weightRatio(actor.Inventory, ctx.Items) >= 0.9
			if nearlyFull {
				base *= 0.3
			} else if free > 2 {
				base += 0.1
			}
		}
	}

	base += ctx.traitUtility("loot")
	return base
}

func weightRatio(inv *entity.Inventory, items entity.ItemRegistry) float64 {
	if inv.MaxWeight <= 0 {
		return 0
	}
	return inv.CurrentWeight(items) / inv.MaxWeight
}

func isEffectivelyFull(inv *entity.Inventory, items entity.ItemRegistry) bool {
	return inv.UsedSlots() >= inv.MaxSlots || weightRatio(inv, items) >= 1.0
}

// TradeScorer rates visiting a shop to buy or sell.
type TradeScorer struct{}

func (TradeScorer) Name() string                { return "trade" }
func (TradeScorer) TargetState() entity.AIState { return entity.VisitShop }

func (TradeScorer) Score(ctx *Context) float64 {
	base := 0.0
	actor := ctx.Actor
	if ctx.isHero() {
		if heroHasSellableItems(actor, ctx.Items) {
			base += 0.4
		}
		if heroWantsToBuy(actor) {
			base += 0.3
		}
		if inv := actor.Inventory; inv != nil {
			if inv.UsedSlots() >= inv.MaxSlots-2 || weightRatio(inv, ctx.Items) >= 0.9 {
				base += 0.4
			}
		}
	}

	base += ctx.traitUtility("trade")
	return base
}

// RestScorer rates returning to town to heal and recover stamina.
type RestScorer struct{}

func (RestScorer) Name() string                { return "rest" }
func (RestScorer) TargetState() entity.AIState { return entity.RestingInTown }

func (RestScorer) Score(ctx *Context) float64 {
	actor := ctx.Actor
	hpRatio := actor.Stats.HPRatio()
	staminaRatio := actor.Stats.StaminaRatio()

	base := 0.0
	if hpRatio < 0.8 {
		base = 0.3 * (1.0 - hpRatio)
	}
	if staminaRatio < 0.3 {
		base += 0.3
	}
	if ctx.isHero() && actor.HomePos != nil {
		base += 0.05
	}

	base += ctx.traitUtility("rest")
	return base
}

// CraftScorer rates visiting the blacksmith to craft gear.
type CraftScorer struct{}

func (CraftScorer) Name() string                { return "craft" }
func (CraftScorer) TargetState() entity.AIState { return entity.VisitBlacksmith }

func (CraftScorer) Score(ctx *Context) float64 {
	base := 0.0
	if ctx.isHero() && heroShouldVisitBlacksmith(ctx.Actor) {
		base = 0.4
	}
	base += ctx.traitUtility("craft")
	return base
}

// SocialScorer rates visiting the guild hall or class hall.
type SocialScorer struct{}

func (SocialScorer) Name() string                { return "social" }
func (SocialScorer) TargetState() entity.AIState { return entity.VisitGuild }

func (SocialScorer) Score(ctx *Context) float64 {
	base := 0.0
	if ctx.isHero() {
		if heroShouldVisitGuild(ctx.Actor) {
			base = 0.35
		}
		if heroShouldVisitClassHall(ctx.Actor) {
			base += 0.3
		}
	}
	base += ctx.traitUtility("social")
	return base
}

// GuardScorer rates patrolling home territory. Heroes never guard.
type GuardScorer struct{}

func (GuardScorer) Name() string                { return "guard" }
func (GuardScorer) TargetState() entity.AIState { return entity.GuardCamp }

func (GuardScorer) Score(ctx *Context) float64 {
	if ctx.isHero() {
		return 0.0
	}
	actor := ctx.Actor
	base := 0.0

	if ctx.isOnHomeTerritory() {
		base = 0.4
		if ctx.NearestEnemy() != nil {
			base = 0.8
		}
	} else if actor.HomePos != nil {
		if actor.Pos.Manhattan(*actor.HomePos) > 5 {
			base = 0.3
		}
	}
	return base
}

// DefaultScorers returns the nine built-in goal scorers in registration
// order (original_source/src/ai/goals/registry.py's register_all_goals).
func DefaultScorers() []Scorer {
	return []Scorer{
		CombatScorer{}, FleeScorer{}, ExploreScorer{}, LootScorer{}, TradeScorer{},
		RestScorer{}, CraftScorer{}, SocialScorer{}, GuardScorer{},
	}
}
