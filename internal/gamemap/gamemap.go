// Package gamemap holds the static tile grid of a stage.
package gamemap

import "chronorogue/internal/component"

// Rect is an inclusive axis-aligned rectangle, used for rooms.
type Rect struct {
	X1, Y1, X2, Y2 int
}

func (r Rect) Center() (int, int) {
	return (r.X1 + r.X2) / 2, (r.Y1 + r.Y2) / 2
}

// Intersects reports whether r and o share at least one cell.
func (r Rect) Intersects(o Rect) bool {
	return max(r.X1, o.X1) <= min(r.X2, o.X2) && max(r.Y1, o.Y1) <= min(r.Y2, o.Y2)
}

// GameMap is a row-major tile grid. Once a stage template is built from it
// the map is shared between checkpoints and must not be mutated.
type GameMap struct {
	Width, Height int
	Rooms         []Rect

	cells []Tile
}

// New creates a width x height map of walls.
func New(width, height int) *GameMap {
	cells := make([]Tile, width*height)
	for i := range cells {
		cells[i] = MakeWall()
	}
	return &GameMap{Width: width, Height: height, cells: cells}
}

func (m *GameMap) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < m.Width && y < m.Height
}

// At returns the tile at (x, y). It panics out of bounds.
func (m *GameMap) At(x, y int) *Tile {
	return &m.cells[m.index(x, y)]
}

func (m *GameMap) Set(x, y int, t Tile) {
	m.cells[m.index(x, y)] = t
}

func (m *GameMap) index(x, y int) int {
	if !m.InBounds(x, y) {
		panic("gamemap: cell out of bounds")
	}
	return y*m.Width + x
}

// tile reads (x, y), treating everything off the map as wall.
func (m *GameMap) tile(x, y int) Tile {
	if !m.InBounds(x, y) {
		return MakeWall()
	}
	return m.cells[y*m.Width+x]
}

// Kind returns the tile kind at p; off-map cells read as walls.
func (m *GameMap) Kind(p component.Position) TileKind { return m.tile(p.X, p.Y).Kind }

func (m *GameMap) IsWalkable(x, y int) bool    { return m.tile(x, y).Walkable }
func (m *GameMap) IsTransparent(x, y int) bool { return m.tile(x, y).Transparent }

// Walkable is IsWalkable for a Position.
func (m *GameMap) Walkable(p component.Position) bool { return m.IsWalkable(p.X, p.Y) }

// Opaque reports whether p blocks sight. Off-map cells are opaque.
func (m *GameMap) Opaque(p component.Position) bool { return !m.IsTransparent(p.X, p.Y) }
