package render

import "chronorogue/internal/component"

// Camera maps stage cells onto a viewport of terminal cells. Every stage cell
// takes two columns so emoji glyphs line up.
type Camera struct {
	origin     component.Position // stage cell drawn at the top-left
	cols, rows int
}

// NewCamera returns a cols x rows camera looking at focus.
func NewCamera(focus component.Position, cols, rows int) *Camera {
	c := &Camera{cols: cols, rows: rows}
	c.Follow(focus)
	return c
}

// Resize changes the viewport; the origin stays until the next Follow.
func (c *Camera) Resize(cols, rows int) { c.cols, c.rows = cols, rows }

// Follow moves the origin so that focus sits in the middle of the viewport.
func (c *Camera) Follow(focus component.Position) {
	c.origin = component.Position{X: focus.X - c.cols/4, Y: focus.Y - c.rows/2}
}

// Cells returns how many stage cells fit across and down.
func (c *Camera) Cells() (w, h int) { return c.cols / 2, c.rows }

// Project returns the terminal cell of stage cell p and whether both of its
// columns are on screen.
func (c *Camera) Project(p component.Position) (sx, sy int, ok bool) {
	d := p.Sub(c.origin)
	sx, sy = 2*d.X, d.Y
	return sx, sy, sx >= 0 && sy >= 0 && sx+1 < c.cols && sy < c.rows
}

// Cell returns the stage cell shown at column pair i, row j.
func (c *Camera) Cell(i, j int) component.Position {
	return c.origin.Add(component.Position{X: i, Y: j})
}
