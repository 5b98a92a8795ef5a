package generate

import (
	"chronorogue/internal/component"
	"chronorogue/internal/gamemap"
)

// FoePlacement is one foe to create at Pos.
type FoePlacement struct {
	Entry FoeEntry
	Pos   component.Position
}

// Placement is what Populate decided for a carved map. No two positions
// across all fields are equal.
type Placement struct {
	Spawns []component.Position
	Orbs   []component.Position
	Foes   []FoePlacement
	Rubble []component.Position
}

// placer hands out free cells inside rooms.
type placer struct {
	cfg   *Config
	taken map[component.Position]bool
}

// Populate places avatar spawns in the first room and orb spawns in the
// others, the first of them in the last room. Foes go to the rooms in
// between: one of the cheapest affordable kind per room, then random kinds
// into random rooms until the threat budget runs out.
func Populate(gmap *gamemap.GameMap, cfg *Config) Placement {
	var out Placement
	rooms := gmap.Rooms
	if len(rooms) == 0 {
		return out
	}
	pl := &placer{cfg: cfg, taken: map[component.Position]bool{}}

	for range max(1, cfg.SpawnCount) {
		if p, ok := pl.take(rooms[0]); ok {
			out.Spawns = append(out.Spawns, p)
		}
	}

	orbRooms := rooms
	if len(rooms) > 1 {
		orbRooms = rooms[1:]
	}
	for i := range max(1, cfg.OrbSpawnCount) {
		room := orbRooms[len(orbRooms)-1]
		if i > 0 {
			room = orbRooms[cfg.Rand.Intn(len(orbRooms))]
		}
		if p, ok := pl.take(room); ok {
			out.Orbs = append(out.Orbs, p)
		}
	}

	if len(rooms) > 2 {
		out.Foes = pl.foes(rooms[1 : len(rooms)-1])
	}

	for _, room := range rooms {
		if cfg.RubblePerRoom <= 0 {
			break
		}
		for range cfg.Rand.Intn(cfg.RubblePerRoom + 1) {
			if p, ok := pl.take(room); ok {
				out.Rubble = append(out.Rubble, p)
			}
		}
	}
	return out
}

func (pl *placer) foes(rooms []gamemap.Rect) []FoePlacement {
	var foes []FoePlacement
	budget := pl.cfg.FoeBudget
	place := func(room gamemap.Rect, e FoeEntry) {
		if p, ok := pl.take(room); ok {
			foes = append(foes, FoePlacement{Entry: e, Pos: p})
			budget -= e.ThreatCost
		}
	}

	for _, room := range rooms {
		aff := affordableFoes(pl.cfg.FoeTable, budget)
		if len(aff) == 0 {
			return foes
		}
		place(room, cheapestEntry(aff))
	}
	// A failed placement still spends an attempt so a full map ends the loop.
	for attempts := 0; budget > 0 && attempts < 4*len(rooms)+budget; attempts++ {
		aff := affordableFoes(pl.cfg.FoeTable, budget)
		if len(aff) == 0 {
			break
		}
		place(rooms[pl.cfg.Rand.Intn(len(rooms))], aff[pl.cfg.Rand.Intn(len(aff))])
	}
	return foes
}

func affordableFoes(table []FoeEntry, budget int) []FoeEntry {
	var out []FoeEntry
	for _, e := range table {
		if e.ThreatCost <= budget {
			out = append(out, e)
		}
	}
	return out
}

// cheapestEntry returns the lowest-cost entry of a non-empty slice; the
// first one wins ties.
func cheapestEntry(entries []FoeEntry) FoeEntry {
	best := entries[0]
	for _, e := range entries[1:] {
		if e.ThreatCost < best.ThreatCost {
			best = e
		}
	}
	return best
}

// take claims a free cell of room. It samples a few random cells of the
// room's interior, then scans the whole room, and fails only when every cell
// is taken.
func (pl *placer) take(room gamemap.Rect) (component.Position, bool) {
	in := interior(room)
	for range 20 {
		p := component.Position{
			X: in.X1 + pl.cfg.Rand.Intn(in.X2-in.X1+1),
			Y: in.Y1 + pl.cfg.Rand.Intn(in.Y2-in.Y1+1),
		}
		if !pl.taken[p] {
			pl.taken[p] = true
			return p, true
		}
	}
	for y := room.Y1; y <= room.Y2; y++ {
		for x := room.X1; x <= room.X2; x++ {
			if p := (component.Position{X: x, Y: y}); !pl.taken[p] {
				pl.taken[p] = true
				return p, true
			}
		}
	}
	return component.Position{}, false
}

// interior shrinks room by one cell on each side so random picks stay off
// corridor mouths. Rooms too thin to shrink are returned as is.
func interior(room gamemap.Rect) gamemap.Rect {
	in := gamemap.Rect{X1: room.X1 + 1, Y1: room.Y1 + 1, X2: room.X2 - 1, Y2: room.Y2 - 1}
	if in.X1 > in.X2 || in.Y1 > in.Y2 {
		return room
	}
	return in
}
