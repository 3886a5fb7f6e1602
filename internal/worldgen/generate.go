// Package worldgen is the contract-only reference map/terrain generator
// (spec §1 names map generation as deliberately out of scope for the core,
// treated as an external collaborator). It exists so tests and examples
// have a concrete Grid-builder to exercise, adapted from the teacher's
// internal/world/generation.go hex-noise generator — reworked from hex
// axial coordinates onto the spec's square Grid/Material model, since the
// two coordinate systems are not compatible and the hex version cannot be
// reused verbatim.
package worldgen

import (
	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/rowanengine/internal/vecgrid"
)

// GenConfig mirrors the teacher's GenConfig, adapted to a rectangular grid.
type GenConfig struct {
	Width, Height int
	Seed          int64
	SeaLevel      float64
	MountainLevel float64
	TownCenter    vecgrid.Vector2
	TownRadius    int
	SanctuaryRadius int
}

func DefaultGenConfig() GenConfig {
	return GenConfig{
		Width: 192, Height: 192, Seed: 42,
		SeaLevel: 0.22, MountainLevel: 0.78,
		TownCenter: vecgrid.Vector2{X: 12, Y: 12}, TownRadius: 4, SanctuaryRadius: 7,
	}
}

// Generate builds a Grid using layered simplex noise for elevation/rainfall/
// temperature, deriving a Material per tile, the same way the teacher's
// Generate() derives a Terrain per hex.
func Generate(cfg GenConfig) *vecgrid.Grid {
	elevNoise := opensimplex.NewNormalized(cfg.Seed)
	rainNoise := opensimplex.NewNormalized(cfg.Seed + 1)
	tempNoise := opensimplex.NewNormalized(cfg.Seed + 2)

	tiles := make([]vecgrid.Material, cfg.Width*cfg.Height)

	for y := 0; y < cfg.Height; y++ {
		for x := 0; x < cfg.Width; x++ {
			fx, fy := float64(x), float64(y)
			elev := octaveNoise(elevNoise, fx, fy, 4, 0.05, 0.5)
			rain := octaveNoise(rainNoise, fx, fy, 3, 0.04, 0.5)
			temp := octaveNoise(tempNoise, fx, fy, 3, 0.035, 0.5)

			mat := deriveMaterial(elev, rain, temp, cfg)
			tiles[y*cfg.Width+x] = mat
		}
	}

	grid := vecgrid.NewGridFrom(cfg.Width, cfg.Height, tiles)
	stampTown(grid, cfg)
	return grid
}

func deriveMaterial(elev, rain, temp float64, cfg GenConfig) vecgrid.Material {
	if elev < cfg.SeaLevel {
		return vecgrid.Water
	}
	if elev > cfg.MountainLevel {
		return vecgrid.Mountain
	}
	if temp > 0.7 && rain < 0.3 {
		return vecgrid.Desert
	}
	if rain > 0.65 && elev < 0.45 {
		return vecgrid.Swamp
	}
	if rain > 0.4 {
		return vecgrid.Forest
	}
	return vecgrid.Floor
}

// stampTown carves the town and its sanctuary ring at the configured center,
// matching spec §6's TownCenter/TownRadius/SanctuaryRadius knobs.
func stampTown(grid *vecgrid.Grid, cfg GenConfig) {
	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			pos := vecgrid.Vector2{X: x, Y: y}
			d := pos.Manhattan(cfg.TownCenter)
			if d <= cfg.TownRadius {
				grid.Set(pos, vecgrid.Town)
			} else if d <= cfg.SanctuaryRadius {
				grid.Set(pos, vecgrid.Sanctuary)
			}
		}
	}
}

func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0
	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}
	return total / maxVal // normalized noise is in [0,1), so the weighted average is too
}

// TerrainCounts summarizes material distribution, for test assertions and
// operator diagnostics — same purpose as the teacher's TerrainCounts.
func TerrainCounts(grid *vecgrid.Grid) map[vecgrid.Material]int {
	counts := make(map[vecgrid.Material]int)
	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			counts[grid.GetXY(x, y)]++
		}
	}
	return counts
}
