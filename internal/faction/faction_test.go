package faction

import (
	"testing"

	"github.com/talgya/rowanengine/internal/vecgrid"
)

func TestDefaultHeroGuildHostileToAllMobFactions(t *testing.T) {
	r := Default()
	mobFactions := []Faction{
		GoblinHorde, WolfPack, BanditClan, Undead, OrcTribe,
		CentaurHerd, FrostKin, Lizardfolk, DemonHorde,
	}
	for _, f := range mobFactions {
		if !r.IsHostile(HeroGuild, f) {
			t.Fatalf("HeroGuild is not hostile to %v", f)
		}
	}
}

func TestRelationIsSymmetric(t *testing.T) {
	r := NewRegistry()
	r.SetRelation(HeroGuild, WolfPack, Hostile)

	if r.Relation(HeroGuild, WolfPack) != Hostile {
		t.Fatalf("Relation(a, b) not set")
	}
	if r.Relation(WolfPack, HeroGuild) != Hostile {
		t.Fatalf("SetRelation did not apply symmetrically")
	}
}

func TestSameFactionIsAlwaysAllied(t *testing.T) {
	r := NewRegistry()
	if r.Relation(GoblinHorde, GoblinHorde) != Allied {
		t.Fatalf("a faction should always be Allied with itself")
	}
}

func TestUnregisteredRelationDefaultsToNeutral(t *testing.T) {
	r := NewRegistry()
	if r.Relation(HeroGuild, WolfPack) != Neutral {
		t.Fatalf("unregistered relation should default to Neutral")
	}
}

func TestFactionForKindLookup(t *testing.T) {
	r := Default()
	f, ok := r.FactionForKind("goblin_warrior")
	if !ok || f != GoblinHorde {
		t.Fatalf("FactionForKind(goblin_warrior) = %v, %v, want GoblinHorde, true", f, ok)
	}
	if _, ok := r.FactionForKind("nonexistent_kind"); ok {
		t.Fatalf("FactionForKind found a kind that was never registered")
	}
}

func TestIsEnemyTerritoryRequiresHostility(t *testing.T) {
	r := Default()
	if !r.IsEnemyTerritory(HeroGuild, vecgrid.Camp) {
		t.Fatalf("HeroGuild should consider Camp (Goblin territory) enemy territory")
	}
	if r.IsEnemyTerritory(GoblinHorde, vecgrid.Camp) {
		t.Fatalf("a faction's own territory should never count as enemy territory to itself")
	}
}

func TestIsHomeTerritory(t *testing.T) {
	r := Default()
	if !r.IsHomeTerritory(HeroGuild, vecgrid.Town) {
		t.Fatalf("Town should be HeroGuild's home territory")
	}
	if r.IsHomeTerritory(HeroGuild, vecgrid.Camp) {
		t.Fatalf("Camp should not be HeroGuild's home territory")
	}
}
