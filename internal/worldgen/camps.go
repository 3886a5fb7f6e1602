package worldgen

import (
	"sort"

	"github.com/talgya/rowanengine/internal/rng"
	"github.com/talgya/rowanengine/internal/vecgrid"
)

// PlaceCamps scores walkable, non-town tiles for camp desirability (distance
// from town, not on water/mountain) and returns numCamps centers respecting
// a minimum spacing — adapted from the teacher's settlement_placer.go
// scoring+min-distance placement loop, reworked from hex cube-coordinates
// onto Manhattan distance over the square grid.
func PlaceCamps(grid *vecgrid.Grid, cfg GenConfig, numCamps, minDistFromTown, minCampSpacing int, source rng.Source) []vecgrid.Vector2 {
	type scored struct {
		pos   vecgrid.Vector2
		score float64
	}
	var candidates []scored
	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			pos := vecgrid.Vector2{X: x, Y: y}
			if !grid.IsWalkable(pos) {
				continue
			}
			mat := grid.Get(pos)
			if mat == vecgrid.Town || mat == vecgrid.Sanctuary || mat == vecgrid.Mountain {
				continue
			}
			d := pos.Manhattan(cfg.TownCenter)
			if d < minDistFromTown {
				continue
			}
			candidates = append(candidates, scored{pos, float64(d)})
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].pos.Manhattan(vecgrid.Vector2{}) < candidates[j].pos.Manhattan(vecgrid.Vector2{})
	})

	var camps []vecgrid.Vector2
	for i, c := range candidates {
		if len(camps) >= numCamps {
			break
		}
		if tooClose(c.pos, camps, minCampSpacing) {
			continue
		}
		// Deterministic jitter in candidate selection so camps don't all
		// cluster at the single highest-scoring ring.
		if source.NextBool(rng.MapGen, uint64(i), 0, 0.3) {
			continue
		}
		camps = append(camps, c.pos)
	}
	return camps
}

func tooClose(pos vecgrid.Vector2, existing []vecgrid.Vector2, minDist int) bool {
	for _, e := range existing {
		if pos.Manhattan(e) < minDist {
			return true
		}
	}
	return false
}
