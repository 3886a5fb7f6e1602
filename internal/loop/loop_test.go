package loop

import (
	"io"
	"log/slog"
	"testing"

	"github.com/talgya/rowanengine/internal/config"
	"github.com/talgya/rowanengine/internal/entity"
	"github.com/talgya/rowanengine/internal/eventlog"
	"github.com/talgya/rowanengine/internal/faction"
	"github.com/talgya/rowanengine/internal/vecgrid"
	"github.com/talgya/rowanengine/internal/world"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// chaseClosingTestLoop builds a Loop with just the fields
// processChaseClosing reads.
func chaseClosingTestLoop(w *world.World) *Loop {
	return &Loop{
		cfg:      config.Default(),
		world:    w,
		factions: faction.Default(),
		items:    entity.MapItemRegistry{},
		events:   eventlog.New(0),
		log:      newDiscardLogger(),
	}
}

func TestProcessChaseClosingTieBreaksDeterministically(t *testing.T) {
	grid := vecgrid.NewGrid(20, 20)
	w := world.New(1, grid, 4)

	hunter := &entity.Entity{
		ID: 1, Kind: "hero", Pos: vecgrid.Vector2{X: 5, Y: 5},
		Stats: entity.DefaultStats(), AIState: entity.Hunt, ChaseTicks: 6,
		Faction: faction.HeroGuild,
	}
	hunter.Stats.Spd = 20
	hunter.Stats.VisionRange = 10
	w.AddEntity(hunter)

	// Two equidistant hostiles; lowest ID must win regardless of the
	// spatial hash's unordered QueryRadius output. Placed two tiles out so
	// the hunter's one-step sprint doesn't land on either entity's tile.
	far := &entity.Entity{
		ID: 30, Kind: "goblin", Pos: vecgrid.Vector2{X: 3, Y: 5},
		Stats: entity.DefaultStats(), Faction: faction.GoblinHorde,
	}
	near := &entity.Entity{
		ID: 3, Kind: "goblin", Pos: vecgrid.Vector2{X: 7, Y: 5},
		Stats: entity.DefaultStats(), Faction: faction.GoblinHorde,
	}
	far.Stats.Spd = 10
	near.Stats.Spd = 10
	w.AddEntity(far)
	w.AddEntity(near)

	l := chaseClosingTestLoop(w)
	l.processChaseClosing()

	if hunter.Pos != (vecgrid.Vector2{X: 6, Y: 5}) {
		t.Fatalf("hunter moved to %v, want to have sprinted toward the lower-ID tied target at (6,5)", hunter.Pos)
	}
}
