package vecgrid

import "testing"

func TestInBoundsAndOutOfBounds(t *testing.T) {
	g := NewGrid(5, 5)
	if !g.InBounds(Vector2{0, 0}) || !g.InBounds(Vector2{4, 4}) {
		t.Fatalf("corners of a 5x5 grid should be in bounds")
	}
	if g.InBounds(Vector2{5, 0}) || g.InBounds(Vector2{-1, 0}) {
		t.Fatalf("out-of-range coordinates reported as in bounds")
	}
}

func TestOutOfBoundsReadsAsWall(t *testing.T) {
	g := NewGrid(3, 3)
	if g.Get(Vector2{10, 10}) != Wall {
		t.Fatalf("Get() outside the grid should read as Wall, treating the edge as impassable")
	}
}

func TestIsWalkableExcludesWallWaterLava(t *testing.T) {
	g := NewGrid(3, 3)
	g.Set(Vector2{0, 0}, Wall)
	g.Set(Vector2{1, 0}, Water)
	g.Set(Vector2{2, 0}, Lava)
	g.Set(Vector2{0, 1}, Floor)

	if g.IsWalkable(Vector2{0, 0}) || g.IsWalkable(Vector2{1, 0}) || g.IsWalkable(Vector2{2, 0}) {
		t.Fatalf("Wall/Water/Lava tiles should not be walkable")
	}
	if !g.IsWalkable(Vector2{0, 1}) {
		t.Fatalf("Floor tile should be walkable")
	}
}

func TestHasLineOfSightBlockedByIntermediateWall(t *testing.T) {
	g := NewGrid(5, 1)
	g.Set(Vector2{2, 0}, Wall)

	if g.HasLineOfSight(Vector2{0, 0}, Vector2{4, 0}) {
		t.Fatalf("line of sight should be blocked by a wall directly between the endpoints")
	}
	if !g.HasLineOfSight(Vector2{0, 0}, Vector2{1, 0}) {
		t.Fatalf("adjacent tiles with no obstruction should have line of sight")
	}
}

func TestHasLineOfSightIgnoresEndpointWalls(t *testing.T) {
	g := NewGrid(3, 1)
	g.Set(Vector2{2, 0}, Wall)
	if !g.HasLineOfSight(Vector2{0, 0}, Vector2{2, 0}) {
		t.Fatalf("a wall at the destination endpoint itself should not block line of sight")
	}
}

func TestVector2ManhattanDistance(t *testing.T) {
	a := Vector2{0, 0}
	b := Vector2{3, 4}
	if got := a.Manhattan(b); got != 7 {
		t.Fatalf("Manhattan((0,0),(3,4)) = %d, want 7", got)
	}
}

func TestGridCopyIsIndependent(t *testing.T) {
	g := NewGrid(2, 2)
	g.Set(Vector2{0, 0}, Floor)
	cp := g.Copy()
	cp.Set(Vector2{0, 0}, Wall)

	if g.Get(Vector2{0, 0}) == Wall {
		t.Fatalf("mutating a copy affected the original grid")
	}
}
