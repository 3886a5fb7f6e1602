package goals

import "github.com/talgya/rowanengine/internal/entity"

// The reference source's states.py declares hero_has_sellable_items,
// hero_wants_to_buy, hero_should_visit_blacksmith, hero_should_visit_guild,
// and hero_should_visit_class_hall as imports scorers.py relies on, but its
// own body is nothing but a state-transition docstring — no implementation
// ships. These five heuristics are this repo's original implementation,
// grounded on the goal each predicate gates (trade, craft, social) and the
// Inventory/Quest/HeroClass fields already on Entity.

// heroHasSellableItems is true when the hero carries at least one
// unequipped item worth selling.
func heroHasSellableItems(actor *entity.Entity, items entity.ItemRegistry) bool {
	if actor.Inventory == nil {
		return false
	}
	for _, id := range actor.Inventory.Items {
		if t, ok := items.Get(id); ok && t.SellValue > 0 {
			return true
		}
	}
	return false
}

// heroWantsToBuy is true when the hero has spare gold and an empty
// equipment slot worth filling.
func heroWantsToBuy(actor *entity.Entity) bool {
	if actor.Inventory == nil || actor.Stats.Gold < 50 {
		return false
	}
	inv := actor.Inventory
	return inv.Weapon == "" || inv.Armor == "" || inv.Accessory == ""
}

// heroShouldVisitBlacksmith is true when the hero knows a recipe and isn't
// already working one.
func heroShouldVisitBlacksmith(actor *entity.Entity) bool {
	return len(actor.KnownRecipes) > 0 && actor.CraftTarget == ""
}

// heroShouldVisitGuild is true when the hero has no active quest to pursue.
func heroShouldVisitGuild(actor *entity.Entity) bool {
	for _, q := range actor.Quests {
		if !q.Complete {
			return false
		}
	}
	return true
}

// heroShouldVisitClassHall is true when the hero hasn't picked a class yet,
// or has mastered enough of the current one to be offered an advancement.
func heroShouldVisitClassHall(actor *entity.Entity) bool {
	return actor.HeroClass == entity.ClassNone || actor.ClassMastery >= 1.0
}
