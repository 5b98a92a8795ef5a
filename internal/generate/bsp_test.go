package generate

import (
	"math/rand"
	"testing"

	"chronorogue/internal/component"
	"chronorogue/internal/gamemap"
)

func defaultTestConfig(seed int64) *Config {
	return &Config{
		MapWidth:      60,
		MapHeight:     30,
		MinLeafSize:   8,
		MaxLeafSize:   20,
		MinRoomSize:   4,
		RoomPadding:   1,
		CorridorStyle: CorridorStyle(seed % 3),
		FoeBudget:     10,
		FoeTable:      DefaultFoeTable,
		Windows:       5,
		Rand:          rand.New(rand.NewSource(seed)),
	}
}

// reachable flood-fills walkable tiles orthogonally from start.
func reachable(gmap *gamemap.GameMap, start component.Position) map[component.Position]bool {
	seen := map[component.Position]bool{start: true}
	queue := []component.Position{start}
	steps := []component.Position{{X: 1}, {X: -1}, {Y: 1}, {Y: -1}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, d := range steps {
			n := cur.Add(d)
			if seen[n] || !gmap.Walkable(n) {
				continue
			}
			seen[n] = true
			queue = append(queue, n)
		}
	}
	return seen
}

func TestGenerateAllRoomsConnected(t *testing.T) {
	for seed := int64(0); seed < 12; seed++ {
		gmap, start := Generate(defaultTestConfig(seed))
		seen := reachable(gmap, start)
		for y := 0; y < gmap.Height; y++ {
			for x := 0; x < gmap.Width; x++ {
				if gmap.IsWalkable(x, y) && !seen[component.Position{X: x, Y: y}] {
					t.Errorf("seed=%d: unreachable floor tile at (%d,%d)", seed, x, y)
				}
			}
		}
	}
}

func TestGenerateRoomsDoNotOverlap(t *testing.T) {
	for seed := int64(0); seed < 10; seed++ {
		rooms := func() []gamemap.Rect { g, _ := Generate(defaultTestConfig(seed)); return g.Rooms }()
		for i := 0; i < len(rooms); i++ {
			for j := i + 1; j < len(rooms); j++ {
				if rooms[i].Intersects(rooms[j]) {
					t.Errorf("seed=%d: room %d %v overlaps room %d %v", seed, i, rooms[i], j, rooms[j])
				}
			}
		}
	}
}

func TestGenerateStartInFirstRoom(t *testing.T) {
	for seed := int64(0); seed < 5; seed++ {
		gmap, start := Generate(defaultTestConfig(seed))
		if len(gmap.Rooms) == 0 {
			t.Fatalf("seed=%d: no rooms", seed)
		}
		r := gmap.Rooms[0]
		if start.X < r.X1 || start.X > r.X2 || start.Y < r.Y1 || start.Y > r.Y2 {
			t.Errorf("seed=%d: start %v outside first room %v", seed, start, r)
		}
		if !gmap.Walkable(start) {
			t.Errorf("seed=%d: start %v not walkable", seed, start)
		}
	}
}

func TestGenerateBorderStaysClosed(t *testing.T) {
	gmap, _ := Generate(defaultTestConfig(3))
	for x := 0; x < gmap.Width; x++ {
		if gmap.IsWalkable(x, 0) || gmap.IsWalkable(x, gmap.Height-1) {
			t.Fatalf("border open at column %d", x)
		}
	}
	for y := 0; y < gmap.Height; y++ {
		if gmap.IsWalkable(0, y) || gmap.IsWalkable(gmap.Width-1, y) {
			t.Fatalf("border open at row %d", y)
		}
	}
}

func TestGenerateWindowCap(t *testing.T) {
	for seed := int64(0); seed < 5; seed++ {
		cfg := defaultTestConfig(seed)
		gmap, _ := Generate(cfg)
		glass := 0
		for y := 0; y < gmap.Height; y++ {
			for x := 0; x < gmap.Width; x++ {
				if gmap.At(x, y).Kind == gamemap.TileGlass {
					glass++
				}
			}
		}
		if glass > cfg.Windows {
			t.Errorf("seed=%d: %d glass tiles, want at most %d", seed, glass, cfg.Windows)
		}
	}
}

func TestClosestRooms(t *testing.T) {
	left := []gamemap.Rect{{X1: 1, Y1: 1, X2: 3, Y2: 3}, {X1: 1, Y1: 10, X2: 3, Y2: 12}}
	right := []gamemap.Rect{{X1: 20, Y1: 1, X2: 22, Y2: 3}, {X1: 6, Y1: 10, X2: 8, Y2: 12}}
	a, b, ok := closestRooms(left, right)
	if !ok || a != left[1] || b != right[1] {
		t.Errorf("closestRooms = %v %v %v, want %v %v", a, b, ok, left[1], right[1])
	}
	if _, _, ok := closestRooms(left, nil); ok {
		t.Error("closestRooms with an empty side reported a pair")
	}
}
