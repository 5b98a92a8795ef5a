package system

import (
	"math"

	"chronorogue/internal/component"
	"chronorogue/internal/gamemap"
)

// slopeEpsilon absorbs float error when a column sits exactly on a slope edge.
const slopeEpsilon = 1e-9

// Window is the square view of side 2*Radius+1 centered on Origin produced by
// FOV. Cells the scan never reached stay unknown.
type Window struct {
	Origin component.Position
	Radius int
	known  []bool
	kinds  []gamemap.TileKind
}

func newWindow(origin component.Position, radius int) *Window {
	side := 2*radius + 1
	return &Window{
		Origin: origin,
		Radius: radius,
		known:  make([]bool, side*side),
		kinds:  make([]gamemap.TileKind, side*side),
	}
}

// Side is the window edge length in tiles.
func (w *Window) Side() int { return 2*w.Radius + 1 }

func (w *Window) index(p component.Position) (int, bool) {
	dx := p.X - w.Origin.X + w.Radius
	dy := p.Y - w.Origin.Y + w.Radius
	side := w.Side()
	if dx < 0 || dy < 0 || dx >= side || dy >= side {
		return 0, false
	}
	return dy*side + dx, true
}

// Visible reports whether the absolute position p was revealed.
func (w *Window) Visible(p component.Position) bool {
	if w == nil {
		return false
	}
	i, ok := w.index(p)
	return ok && w.known[i]
}

// KindAt returns the revealed tile kind at absolute position p.
func (w *Window) KindAt(p component.Position) (gamemap.TileKind, bool) {
	if w == nil {
		return 0, false
	}
	i, ok := w.index(p)
	if !ok || !w.known[i] {
		return 0, false
	}
	return w.kinds[i], true
}

// Positions lists every revealed absolute position in row-major order.
func (w *Window) Positions() []component.Position {
	var out []component.Position
	side := w.Side()
	for i, k := range w.known {
		if !k {
			continue
		}
		out = append(out, component.Position{
			X: w.Origin.X - w.Radius + i%side,
			Y: w.Origin.Y - w.Radius + i/side,
		})
	}
	return out
}

func (w *Window) reveal(p component.Position, kind gamemap.TileKind) {
	if i, ok := w.index(p); ok {
		w.known[i] = true
		w.kinds[i] = kind
	}
}

type cardinal uint8

const (
	north cardinal = iota
	east
	south
	west
)

// quadrant maps (depth, col) in a canonical south-facing scan to map space.
type quadrant struct {
	dir    cardinal
	origin component.Position
}

func (q quadrant) transform(depth, col int) component.Position {
	o := q.origin
	switch q.dir {
	case north:
		return component.Position{X: o.X + col, Y: o.Y - depth}
	case south:
		return component.Position{X: o.X + col, Y: o.Y + depth}
	case east:
		return component.Position{X: o.X + depth, Y: o.Y + col}
	default:
		return component.Position{X: o.X - depth, Y: o.Y + col}
	}
}

// row is one scan line at a fixed depth, bounded by two slopes.
type row struct {
	depth      int
	start, end float64
}

func (r row) columns() (lo, hi int) {
	d := float64(r.depth)
	lo = int(math.Floor(d*r.start + 0.5 + slopeEpsilon)) // round ties up
	hi = int(math.Ceil(d*r.end - 0.5 - slopeEpsilon))    // round ties down
	return lo, hi
}

// symmetric reports whether col lies inside the row's central cone.
func (r row) symmetric(col int) bool {
	c := float64(col)
	d := float64(r.depth)
	return c >= d*r.start-slopeEpsilon && c <= d*r.end+slopeEpsilon
}

func (r row) next() row {
	return row{depth: r.depth + 1, start: r.start, end: r.end}
}

// slope of the left edge of a tile.
func slope(depth, col int) float64 {
	return float64(2*col-1) / float64(2*depth)
}

type caster struct {
	m      *gamemap.GameMap
	radius int
	win    *Window
}

// FOV runs recursive symmetric shadowcasting from origin and returns the
// visible window. A negative radius is treated as zero.
func FOV(m *gamemap.GameMap, origin component.Position, radius int) *Window {
	if radius < 0 {
		radius = 0
	}
	c := &caster{m: m, radius: radius, win: newWindow(origin, radius)}
	c.win.reveal(origin, m.Kind(origin))
	for _, d := range []cardinal{north, east, south, west} {
		q := quadrant{dir: d, origin: origin}
		c.scan(q, row{depth: 1, start: -1, end: 1})
	}
	return c.win
}

func (c *caster) scan(q quadrant, r row) {
	if r.depth > c.radius {
		return
	}
	var prevWall, havePrev bool
	lo, hi := r.columns()
	for col := lo; col <= hi; col++ {
		p := q.transform(r.depth, col)
		wall := c.m.Opaque(p)
		if wall || r.symmetric(col) {
			c.win.reveal(p, c.m.Kind(p))
		}
		if havePrev && prevWall && !wall {
			r.start = slope(r.depth, col)
		}
		if havePrev && !prevWall && wall {
			child := r.next()
			child.end = slope(r.depth, col)
			c.scan(q, child)
		}
		prevWall, havePrev = wall, true
	}
	if havePrev && !prevWall {
		c.scan(q, r.next())
	}
}
