package gamemap

// TileKind identifies the type of a map tile.
type TileKind uint8

const (
	TileWall TileKind = iota
	TileFloor
	TileRubble // walkable, blocks sight
	TileGlass  // transparent, not walkable
)

// Tile holds the static properties of one map cell.
type Tile struct {
	Kind        TileKind
	Walkable    bool
	Transparent bool
}

// tiles maps every kind to its movement and sight properties.
var tiles = [...]Tile{
	TileWall:   {Kind: TileWall},
	TileFloor:  {Kind: TileFloor, Walkable: true, Transparent: true},
	TileRubble: {Kind: TileRubble, Walkable: true},
	TileGlass:  {Kind: TileGlass, Transparent: true},
}

// Of returns the tile for kind k. Unknown kinds are walls.
func Of(k TileKind) Tile {
	if int(k) >= len(tiles) {
		return tiles[TileWall]
	}
	return tiles[k]
}

func MakeWall() Tile   { return Of(TileWall) }
func MakeFloor() Tile  { return Of(TileFloor) }
func MakeRubble() Tile { return Of(TileRubble) }
func MakeGlass() Tile  { return Of(TileGlass) }
