// Package spatial is a uniform grid-cell spatial index over entity
// positions, grounded on original_source/src/systems/spatial_hash.py. No
// library in the retrieved pack provides spatial hashing, so this is a
// stdlib implementation — documented in DESIGN.md as a justified stdlib use.
package spatial

import (
	"github.com/talgya/rowanengine/internal/entity"
	"github.com/talgya/rowanengine/internal/vecgrid"
)

type cellKey struct{ X, Y int }

// Hash maps grid cells to the set of entity IDs located in them.
type Hash struct {
	cellSize int
	cells    map[cellKey]map[entity.ID]struct{}
}

func New(cellSize int) *Hash {
	if cellSize <= 0 {
		cellSize = 8
	}
	return &Hash{cellSize: cellSize, cells: make(map[cellKey]map[entity.ID]struct{})}
}

func (h *Hash) key(pos vecgrid.Vector2) cellKey {
	return cellKey{floorDiv(pos.X, h.cellSize), floorDiv(pos.Y, h.cellSize)}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func (h *Hash) Insert(id entity.ID, pos vecgrid.Vector2) {
	k := h.key(pos)
	set, ok := h.cells[k]
	if !ok {
		set = make(map[entity.ID]struct{})
		h.cells[k] = set
	}
	set[id] = struct{}{}
}

func (h *Hash) Remove(id entity.ID, pos vecgrid.Vector2) {
	k := h.key(pos)
	if set, ok := h.cells[k]; ok {
		delete(set, id)
		if len(set) == 0 {
			delete(h.cells, k)
		}
	}
}

func (h *Hash) Move(id entity.ID, oldPos, newPos vecgrid.Vector2) {
	if h.key(oldPos) == h.key(newPos) {
		return
	}
	h.Remove(id, oldPos)
	h.Insert(id, newPos)
}

// QueryCell returns the IDs registered in pos's cell.
func (h *Hash) QueryCell(pos vecgrid.Vector2) []entity.ID {
	set, ok := h.cells[h.key(pos)]
	if !ok {
		return nil
	}
	out := make([]entity.ID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}

// QueryRadius returns candidate IDs within a cell window covering radius.
// Results are unordered and may include entities beyond the exact radius;
// callers verify exact distance and sort if determinism is required.
func (h *Hash) QueryRadius(center vecgrid.Vector2, radius int) []entity.ID {
	cellRadius := radius/h.cellSize + 1
	centerKey := h.key(center)
	seen := make(map[entity.ID]struct{})
	var out []entity.ID
	for dx := -cellRadius; dx <= cellRadius; dx++ {
		for dy := -cellRadius; dy <= cellRadius; dy++ {
			k := cellKey{centerKey.X + dx, centerKey.Y + dy}
			for id := range h.cells[k] {
				if _, ok := seen[id]; !ok {
					seen[id] = struct{}{}
					out = append(out, id)
				}
			}
		}
	}
	return out
}

func (h *Hash) Clear() {
	h.cells = make(map[cellKey]map[entity.ID]struct{})
}
