package resolver

import (
	"testing"

	"github.com/talgya/rowanengine/internal/action"
	"github.com/talgya/rowanengine/internal/combat"
	"github.com/talgya/rowanengine/internal/config"
	"github.com/talgya/rowanengine/internal/entity"
	"github.com/talgya/rowanengine/internal/rng"
	"github.com/talgya/rowanengine/internal/vecgrid"
	"github.com/talgya/rowanengine/internal/world"
)

func newTestResolver() *Resolver {
	cfg := config.Default()
	return New(cfg, rng.New(1), combat.DefaultCalculator{}, entity.MapItemRegistry{}, nil)
}

func newTestWorld(width, height int) *world.World {
	grid := vecgrid.NewGrid(width, height)
	return world.New(1, grid, 4)
}

func placeEntity(w *world.World, pos vecgrid.Vector2) *entity.Entity {
	e := &entity.Entity{ID: w.AllocateEntityID(), Pos: pos, Stats: entity.DefaultStats()}
	w.AddEntity(e)
	return e
}

func TestResolveAppliesInVerbOrderRegardlessOfInputOrder(t *testing.T) {
	r := newTestResolver()
	w := newTestWorld(10, 10)
	actor := placeEntity(w, vecgrid.Vector2{X: 1, Y: 1})

	// Submitted out of verb order: HARVEST (5) then REST (0) then MOVE (1).
	proposals := []action.Proposal{
		{ActorID: actor.ID, Verb: action.VerbHarvest},
		{ActorID: actor.ID, Verb: action.VerbRest},
		{ActorID: actor.ID, Verb: action.VerbMove, Target: action.Target{Pos: &vecgrid.Vector2{X: 2, Y: 1}}},
	}

	applied := r.Resolve(proposals, w)
	if len(applied) == 0 {
		t.Fatalf("expected at least one applied proposal")
	}
	for i := 1; i < len(applied); i++ {
		if applied[i-1].Proposal.Verb > applied[i].Proposal.Verb {
			t.Fatalf("applied proposals not in ascending verb order: %v before %v",
				applied[i-1].Proposal.Verb, applied[i].Proposal.Verb)
		}
	}
}

func TestResolveIsDeterministicAcrossShuffledInput(t *testing.T) {
	build := func() ([]action.Proposal, *world.World) {
		w := newTestWorld(10, 10)
		a := placeEntity(w, vecgrid.Vector2{X: 1, Y: 1})
		b := placeEntity(w, vecgrid.Vector2{X: 5, Y: 5})
		return []action.Proposal{
			{ActorID: b.ID, Verb: action.VerbRest},
			{ActorID: a.ID, Verb: action.VerbRest},
		}, w
	}

	r := newTestResolver()
	p1, w1 := build()
	applied1 := r.Resolve(p1, w1)

	p2, w2 := build()
	// reverse submission order
	p2[0], p2[1] = p2[1], p2[0]
	applied2 := r.Resolve(p2, w2)

	if len(applied1) != len(applied2) {
		t.Fatalf("different result lengths across shuffled input: %d vs %d", len(applied1), len(applied2))
	}
	for i := range applied1 {
		if applied1[i].Proposal.ActorID != applied2[i].Proposal.ActorID {
			t.Fatalf("resolution order depends on submission order at index %d: %d vs %d",
				i, applied1[i].Proposal.ActorID, applied2[i].Proposal.ActorID)
		}
	}
}

func TestMoveRejectedIntoWall(t *testing.T) {
	r := newTestResolver()
	w := newTestWorld(5, 5)
	w.Grid.Set(vecgrid.Vector2{X: 2, Y: 1}, vecgrid.Wall)
	actor := placeEntity(w, vecgrid.Vector2{X: 1, Y: 1})

	applied := r.Resolve([]action.Proposal{
		{ActorID: actor.ID, Verb: action.VerbMove, Target: action.Target{Pos: &vecgrid.Vector2{X: 2, Y: 1}}},
	}, w)

	if len(applied) != 0 {
		t.Fatalf("move into a wall was applied: %+v", applied)
	}
	if actor.Pos != (vecgrid.Vector2{X: 1, Y: 1}) {
		t.Fatalf("actor moved despite the wall: now at %v", actor.Pos)
	}
}

func TestMoveRejectedWhenTileAlreadyOccupied(t *testing.T) {
	r := newTestResolver()
	w := newTestWorld(5, 5)
	mover := placeEntity(w, vecgrid.Vector2{X: 1, Y: 1})
	placeEntity(w, vecgrid.Vector2{X: 2, Y: 1}) // occupant

	applied := r.Resolve([]action.Proposal{
		{ActorID: mover.ID, Verb: action.VerbMove, Target: action.Target{Pos: &vecgrid.Vector2{X: 2, Y: 1}}},
	}, w)

	if len(applied) != 0 {
		t.Fatalf("move onto an occupied tile was applied: %+v", applied)
	}
	if mover.Pos != (vecgrid.Vector2{X: 1, Y: 1}) {
		t.Fatalf("mover moved despite the occupied tile: now at %v", mover.Pos)
	}
}

func TestTwoEntitiesCannotMoveIntoTheSameTile(t *testing.T) {
	r := newTestResolver()
	w := newTestWorld(5, 5)
	a := placeEntity(w, vecgrid.Vector2{X: 0, Y: 0})
	b := placeEntity(w, vecgrid.Vector2{X: 2, Y: 2})
	target := vecgrid.Vector2{X: 1, Y: 1}

	applied := r.Resolve([]action.Proposal{
		{ActorID: a.ID, Verb: action.VerbMove, Target: action.Target{Pos: &target}},
		{ActorID: b.ID, Verb: action.VerbMove, Target: action.Target{Pos: &target}},
	}, w)

	occupants := 0
	if a.Pos == target {
		occupants++
	}
	if b.Pos == target {
		occupants++
	}
	if occupants > 1 {
		t.Fatalf("both entities ended up on the same tile %v", target)
	}
	if len(applied) != 1 {
		t.Fatalf("expected exactly one of the two conflicting moves to apply, got %d", len(applied))
	}
}

func TestAttackRejectedBeyondRange(t *testing.T) {
	r := newTestResolver()
	w := newTestWorld(10, 10)
	attacker := placeEntity(w, vecgrid.Vector2{X: 0, Y: 0})
	defender := placeEntity(w, vecgrid.Vector2{X: 5, Y: 5})

	applied := r.Resolve([]action.Proposal{
		{ActorID: attacker.ID, Verb: action.VerbAttack, Target: action.Target{EntityID: &defender.ID}},
	}, w)

	if len(applied) != 0 {
		t.Fatalf("attack beyond range 1 was applied: %+v", applied)
	}
}

func TestAttackRejectedAgainstDeadDefender(t *testing.T) {
	r := newTestResolver()
	w := newTestWorld(10, 10)
	attacker := placeEntity(w, vecgrid.Vector2{X: 0, Y: 0})
	defender := placeEntity(w, vecgrid.Vector2{X: 1, Y: 0})
	defender.Stats.HP = 0

	applied := r.Resolve([]action.Proposal{
		{ActorID: attacker.ID, Verb: action.VerbAttack, Target: action.Target{EntityID: &defender.ID}},
	}, w)

	if len(applied) != 0 {
		t.Fatalf("attack against an already-dead defender was applied: %+v", applied)
	}
}

func TestRestHealsOneHPUpToMax(t *testing.T) {
	r := newTestResolver()
	w := newTestWorld(5, 5)
	actor := placeEntity(w, vecgrid.Vector2{X: 0, Y: 0})
	actor.Stats.HP = actor.Stats.MaxHP - 1

	r.Resolve([]action.Proposal{{ActorID: actor.ID, Verb: action.VerbRest}}, w)
	if actor.Stats.HP != actor.Stats.MaxHP {
		t.Fatalf("REST did not heal up to max HP: %d/%d", actor.Stats.HP, actor.Stats.MaxHP)
	}

	r.Resolve([]action.Proposal{{ActorID: actor.ID, Verb: action.VerbRest}}, w)
	if actor.Stats.HP != actor.Stats.MaxHP {
		t.Fatalf("REST healed past max HP: %d/%d", actor.Stats.HP, actor.Stats.MaxHP)
	}
}
