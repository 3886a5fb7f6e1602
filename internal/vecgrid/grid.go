package vecgrid

// Grid is an immutable, flat-array tile map indexed by y*width+x, grounded on
// core/grid.py's Grid class.
type Grid struct {
	Width, Height int
	tiles         []Material
}

// NewGrid builds a grid of the given size, all tiles Floor.
func NewGrid(width, height int) *Grid {
	g := &Grid{Width: width, Height: height, tiles: make([]Material, width*height)}
	return g
}

// NewGridFrom builds a grid from a pre-populated flat tile slice. Used by
// reference world generators; len(tiles) must equal width*height.
func NewGridFrom(width, height int, tiles []Material) *Grid {
	return &Grid{Width: width, Height: height, tiles: tiles}
}

func (g *Grid) idx(pos Vector2) int {
	return pos.Y*g.Width + pos.X
}

func (g *Grid) InBounds(pos Vector2) bool {
	return pos.X >= 0 && pos.X < g.Width && pos.Y >= 0 && pos.Y < g.Height
}

func (g *Grid) InBoundsXY(x, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

// Get returns the material at pos. Out-of-bounds returns Wall, treating the
// map edge as impassable.
func (g *Grid) Get(pos Vector2) Material {
	if !g.InBounds(pos) {
		return Wall
	}
	return g.tiles[g.idx(pos)]
}

func (g *Grid) GetXY(x, y int) Material {
	if !g.InBoundsXY(x, y) {
		return Wall
	}
	return g.tiles[y*g.Width+x]
}

// Set mutates a tile. Only called during construction — the grid is
// immutable for the lifetime of a run per spec §1.
func (g *Grid) Set(pos Vector2, mat Material) {
	if g.InBounds(pos) {
		g.tiles[g.idx(pos)] = mat
	}
}

// IsWalkable excludes wall, water, and lava.
func (g *Grid) IsWalkable(pos Vector2) bool {
	switch g.Get(pos) {
	case Wall, Water, Lava:
		return false
	default:
		return g.InBounds(pos)
	}
}

func (g *Grid) IsTown(pos Vector2) bool      { return g.Get(pos) == Town }
func (g *Grid) IsSanctuary(pos Vector2) bool { return g.Get(pos) == Sanctuary }
func (g *Grid) IsCamp(pos Vector2) bool      { return g.Get(pos) == Camp }
func (g *Grid) IsForest(pos Vector2) bool    { return g.Get(pos) == Forest }
func (g *Grid) IsRoad(pos Vector2) bool {
	m := g.Get(pos)
	return m == Road || m == Bridge
}

// HasAdjacentWall checks the 4 cardinal neighbors for a wall tile — used as
// the "cover" signal for ranged-attack evasion bonuses (spec §9 open
// question #3).
func (g *Grid) HasAdjacentWall(pos Vector2) bool {
	for _, off := range DirectionOffsets {
		if g.Get(pos.Add(off)) == Wall {
			return true
		}
	}
	return false
}

// HasLineOfSight performs a Bresenham walk from a to b, returning false if
// any *intermediate* tile is a wall. Endpoints are not tested.
func (g *Grid) HasLineOfSight(a, b Vector2) bool {
	x0, y0 := a.X, a.Y
	x1, y1 := b.X, b.Y
	dx := absInt(x1 - x0)
	dy := -absInt(y1 - y0)
	sx := 1
	if x0 >= x1 {
		sx = -1
	}
	sy := 1
	if y0 >= y1 {
		sy = -1
	}
	err := dx + dy

	x, y := x0, y0
	for {
		if x == x1 && y == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
		if x == x1 && y == y1 {
			break
		}
		if g.Get(Vector2{x, y}) == Wall {
			return false
		}
	}
	return true
}

// Copy returns a deep copy of the grid's tile data (grid is logically
// immutable; this exists for the rare contract-only generator test fixture
// that wants to mutate a working copy before freezing it into a Grid).
func (g *Grid) Copy() *Grid {
	tiles := make([]Material, len(g.tiles))
	copy(tiles, g.tiles)
	return &Grid{Width: g.Width, Height: g.Height, tiles: tiles}
}
