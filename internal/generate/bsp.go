package generate

import (
	"math/rand"

	"chronorogue/internal/component"
	"chronorogue/internal/gamemap"
)

// CorridorStyle selects the shape of connecting tunnels.
type CorridorStyle uint8

const (
	CorridorLShaped CorridorStyle = iota
	CorridorZShaped
	CorridorStraight
)

// FoeEntry describes one foe type the populator may place, with its threat cost.
type FoeEntry struct {
	Kind       component.FoeKind
	Name       string
	ThreatCost int
	HP         int
}

// Config drives procedural generation for one stage.
type Config struct {
	MapWidth, MapHeight int
	MinLeafSize         int
	MaxLeafSize         int
	MinRoomSize         int
	RoomPadding         int
	CorridorStyle       CorridorStyle
	FoeBudget           int
	FoeTable            []FoeEntry
	SpawnCount          int // avatar spawns in the first room
	OrbSpawnCount       int // orb spawns spread over the other rooms
	RubblePerRoom       int // up to this many sight-blocking rubble tiles per room
	Windows             int // walls between two floors turned to glass, at most
	Rand                *rand.Rand
}

// bspLeaf is a node in the partition tree. Only terminal leaves hold a room.
type bspLeaf struct {
	X, Y, W, H  int
	left, right *bspLeaf
	room        *gamemap.Rect
}

func (l *bspLeaf) terminal() bool { return l.left == nil }

// partition splits l recursively. Leaves within MaxLeafSize stop splitting
// with a 25% chance each, which keeps room sizes uneven.
func (l *bspLeaf) partition(cfg *Config) {
	if l.W <= cfg.MaxLeafSize && l.H <= cfg.MaxLeafSize && cfg.Rand.Float64() <= 0.25 {
		return
	}
	if !l.split(cfg) {
		return
	}
	l.left.partition(cfg)
	l.right.partition(cfg)
}

// split cuts l across its longer side, or a random side when it is roughly
// square. It returns false when either half would be under MinLeafSize.
func (l *bspLeaf) split(cfg *Config) bool {
	horizontal := cfg.Rand.Intn(2) == 0
	switch {
	case l.W > l.H && float64(l.W)/float64(l.H) >= 1.25:
		horizontal = false
	case l.H > l.W && float64(l.H)/float64(l.W) >= 1.25:
		horizontal = true
	}

	extent := l.W
	if horizontal {
		extent = l.H
	}
	lo, hi := cfg.MinLeafSize, extent-cfg.MinLeafSize
	if extent <= cfg.MinLeafSize*2 || lo >= hi {
		return false
	}
	cut := lo + cfg.Rand.Intn(hi-lo+1)

	if horizontal {
		l.left = &bspLeaf{X: l.X, Y: l.Y, W: l.W, H: cut}
		l.right = &bspLeaf{X: l.X, Y: l.Y + cut, W: l.W, H: l.H - cut}
	} else {
		l.left = &bspLeaf{X: l.X, Y: l.Y, W: cut, H: l.H}
		l.right = &bspLeaf{X: l.X + cut, Y: l.Y, W: l.W - cut, H: l.H}
	}
	return true
}

// placeRooms carves one room into every terminal leaf, in tree order.
func (l *bspLeaf) placeRooms(gmap *gamemap.GameMap, cfg *Config) {
	if !l.terminal() {
		l.left.placeRooms(gmap, cfg)
		l.right.placeRooms(gmap, cfg)
		return
	}
	room, ok := roomIn(l, gmap, cfg)
	if !ok {
		return
	}
	l.room = &room
	for y := room.Y1; y <= room.Y2; y++ {
		for x := room.X1; x <= room.X2; x++ {
			gmap.Set(x, y, gamemap.MakeFloor())
		}
	}
	gmap.Rooms = append(gmap.Rooms, room)
}

// roomIn picks a random room inside the padded leaf, keeping a one-tile
// wall border around the map. Rooms are at least 3x3.
func roomIn(l *bspLeaf, gmap *gamemap.GameMap, cfg *Config) (gamemap.Rect, bool) {
	pad := cfg.RoomPadding
	maxW, maxH := l.W-2*pad, l.H-2*pad
	w := randSize(cfg, cfg.MinRoomSize, maxW)
	h := randSize(cfg, cfg.MinRoomSize, maxH)

	x := max(l.X+pad+cfg.Rand.Intn(max(1, maxW-w+1)), 1)
	y := max(l.Y+pad+cfg.Rand.Intn(max(1, maxH-h+1)), 1)
	w = min(w, gmap.Width-x-1)
	h = min(h, gmap.Height-y-1)
	if w < 3 || h < 3 {
		return gamemap.Rect{}, false
	}
	return gamemap.Rect{X1: x, Y1: y, X2: x + w - 1, Y2: y + h - 1}, true
}

// randSize draws a side length in [lo, hi], clamped to [3, hi].
func randSize(cfg *Config, lo, hi int) int {
	n := lo + cfg.Rand.Intn(max(1, hi-lo+1))
	return max(min(n, hi), 3)
}

// rooms collects the rooms under l in tree order.
func (l *bspLeaf) rooms(out []gamemap.Rect) []gamemap.Rect {
	if l.terminal() {
		if l.room != nil {
			out = append(out, *l.room)
		}
		return out
	}
	return l.right.rooms(l.left.rooms(out))
}

// connect joins the two halves of every split with one corridor between
// their closest pair of rooms, bottom up, so every room is reachable.
func (l *bspLeaf) connect(gmap *gamemap.GameMap, cfg *Config) {
	if l.terminal() {
		return
	}
	l.left.connect(gmap, cfg)
	l.right.connect(gmap, cfg)
	a, b, ok := closestRooms(l.left.rooms(nil), l.right.rooms(nil))
	if !ok {
		return
	}
	ax, ay := a.Center()
	bx, by := b.Center()
	carve(gmap, corridorPath(component.Position{X: ax, Y: ay}, component.Position{X: bx, Y: by}, cfg.CorridorStyle, cfg.Rand))
}

// closestRooms returns the pair whose centers are nearest. Ties keep the
// first pair found.
func closestRooms(as, bs []gamemap.Rect) (gamemap.Rect, gamemap.Rect, bool) {
	var bestA, bestB gamemap.Rect
	best := -1
	for _, a := range as {
		ax, ay := a.Center()
		for _, b := range bs {
			bx, by := b.Center()
			d := component.Chebyshev(component.Position{X: ax, Y: ay}, component.Position{X: bx, Y: by})
			if best < 0 || d < best {
				best, bestA, bestB = d, a, b
			}
		}
	}
	return bestA, bestB, best >= 0
}

// Generate partitions the map, carves and connects the rooms, glazes some
// walls and returns the map plus the center of the first room.
func Generate(cfg *Config) (*gamemap.GameMap, component.Position) {
	gmap := gamemap.New(cfg.MapWidth, cfg.MapHeight)

	root := &bspLeaf{W: cfg.MapWidth, H: cfg.MapHeight}
	root.partition(cfg)
	root.placeRooms(gmap, cfg)
	root.connect(gmap, cfg)
	placeWindows(gmap, cfg.Windows, cfg.Rand)

	start := component.Position{X: 1, Y: 1}
	if len(gmap.Rooms) > 0 {
		start.X, start.Y = gmap.Rooms[0].Center()
	}
	return gmap, start
}
