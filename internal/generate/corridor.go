package generate

import (
	"math/rand"

	"chronorogue/internal/component"
	"chronorogue/internal/gamemap"
)

// corridorPath lists the tiles of a tunnel from a to b, both ends
// included. The tunnel is made of axis-aligned legs; style picks where they
// bend. L-shaped tunnels bend at a random corner.
func corridorPath(a, b component.Position, style CorridorStyle, rng *rand.Rand) []component.Position {
	var corners []component.Position
	switch style {
	case CorridorZShaped:
		mid := (a.Y + b.Y) / 2
		corners = []component.Position{{X: a.X, Y: mid}, {X: b.X, Y: mid}, b}
	case CorridorStraight:
		corners = []component.Position{{X: b.X, Y: a.Y}, b}
	default:
		bend := component.Position{X: b.X, Y: a.Y}
		if rng.Intn(2) == 1 {
			bend = component.Position{X: a.X, Y: b.Y}
		}
		corners = []component.Position{bend, b}
	}
	path := []component.Position{a}
	for _, c := range corners {
		path = appendLeg(path, c)
	}
	return path
}

// appendLeg walks in a straight line from the last tile of path to to.
func appendLeg(path []component.Position, to component.Position) []component.Position {
	cur := path[len(path)-1]
	for cur != to {
		cur = cur.Add(component.Position{X: component.Sign(to.X - cur.X), Y: component.Sign(to.Y - cur.Y)})
		path = append(path, cur)
	}
	return path
}

// carve turns every in-bounds tile of path into floor.
func carve(gmap *gamemap.GameMap, path []component.Position) {
	for _, p := range path {
		if gmap.InBounds(p.X, p.Y) {
			gmap.Set(p.X, p.Y, gamemap.MakeFloor())
		}
	}
}

// placeWindows turns up to n wall slabs into glass. A slab is a wall with
// floor on both sides along exactly one axis, so the glass joins two open
// areas for sight without opening a path.
func placeWindows(gmap *gamemap.GameMap, n int, rng *rand.Rand) []component.Position {
	if n <= 0 {
		return nil
	}
	var slabs []component.Position
	for y := 1; y < gmap.Height-1; y++ {
		for x := 1; x < gmap.Width-1; x++ {
			if gmap.At(x, y).Kind != gamemap.TileWall {
				continue
			}
			across := gmap.IsWalkable(x-1, y) && gmap.IsWalkable(x+1, y)
			down := gmap.IsWalkable(x, y-1) && gmap.IsWalkable(x, y+1)
			if across != down {
				slabs = append(slabs, component.Position{X: x, Y: y})
			}
		}
	}
	rng.Shuffle(len(slabs), func(i, j int) { slabs[i], slabs[j] = slabs[j], slabs[i] })
	if len(slabs) > n {
		slabs = slabs[:n]
	}
	for _, p := range slabs {
		gmap.Set(p.X, p.Y, gamemap.MakeGlass())
	}
	return slabs
}
