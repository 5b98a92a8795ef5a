// Package render draws an avatar's perception, its remembered terrain, the
// HUD and the log onto a tcell screen.
package render

import (
	"chronorogue/assets"
	"chronorogue/internal/component"
	"chronorogue/internal/event"
	"chronorogue/internal/gamemap"
	"chronorogue/internal/stage"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// HUDHeight is the number of rows reserved at the bottom of the screen.
const HUDHeight = 7

// View is everything the client knows for one frame.
type View struct {
	Name       string
	StageName  string
	StageIndex int
	Turn       int
	Pos        component.Position // last known position
	Perception *stage.Perception  // nil when tired or before the first turn
	Memory     *Memory
	Senses     component.Senses // requested for the next action
	Logs       []event.LogEntry
	Banner     string // limbo or run status, shown above the log
}

// Renderer draws frames onto a tcell screen.
type Renderer struct {
	screen tcell.Screen
	camera *Camera
}

// NewRenderer creates a Renderer for the given screen.
func NewRenderer(screen tcell.Screen) *Renderer {
	w, h := screen.Size()
	return &Renderer{
		screen: screen,
		camera: NewCamera(component.Position{}, w, max(h-HUDHeight, 1)),
	}
}

// WorldToScreen converts stage coordinates to screen coordinates.
func (r *Renderer) WorldToScreen(wx, wy int) (sx, sy int, visible bool) {
	return r.camera.Project(component.Position{X: wx, Y: wy})
}

// DrawFrame renders terrain, contacts and the HUD, then shows the screen.
func (r *Renderer) DrawFrame(v View) {
	w, h := r.screen.Size()
	r.camera.Resize(w, max(h-HUDHeight, 1))
	pos := v.Pos
	if v.Perception != nil {
		pos = v.Perception.Pos
	}
	r.camera.Follow(pos)

	r.screen.Clear()
	r.drawMap(v)
	r.drawContacts(v.Perception)
	if sx, sy, ok := r.camera.Project(pos); ok {
		r.putGlyph(sx, sy, assets.GlyphPlayer, tcell.StyleDefault)
	}
	r.DrawHUD(v)
	r.screen.Show()
}

// drawMap renders remembered tiles, bright where currently seen.
func (r *Renderer) drawMap(v View) {
	if v.Memory == nil {
		return
	}
	theme := Theme(v.StageIndex)
	win := v.Perception.Window()
	style := tcell.StyleDefault.Background(tcell.ColorBlack)

	cw, ch := r.camera.Cells()
	for j := 0; j < ch; j++ {
		for i := 0; i < cw; i++ {
			p := r.camera.Cell(i, j)
			sx, sy := 2*i, j
			kind, ok := v.Memory.At(p)
			if !ok {
				continue
			}
			r.putGlyph(sx, sy, tileGlyph(theme, kind, win.Visible(p)), style)
		}
	}
}

func tileGlyph(t StageTiles, k gamemap.TileKind, lit bool) string {
	if !lit {
		if k == gamemap.TileWall || k == gamemap.TileGlass {
			return t.DimWall
		}
		return t.DimFloor
	}
	switch k {
	case gamemap.TileWall:
		return t.Wall
	case gamemap.TileRubble:
		return t.Rubble
	case gamemap.TileGlass:
		return t.Glass
	}
	return t.Floor
}

// drawContacts draws what each sense picked up. Sighted contacts are drawn
// last so they cover the anonymous marks of other senses.
func (r *Renderer) drawContacts(p *stage.Perception) {
	if p == nil {
		return
	}
	var sighted []stage.Contact
	for _, info := range p.Info {
		for _, c := range info.Contacts {
			if info.Kind == component.SenseSight {
				sighted = append(sighted, c)
				continue
			}
			r.drawContact(p.Pos, c, assets.GlyphUnknown)
		}
	}
	for _, c := range sighted {
		r.drawContact(p.Pos, c, contactGlyph(c))
	}
}

func (r *Renderer) drawContact(origin component.Position, c stage.Contact, glyph string) {
	at := origin.Add(c.Offset)
	if sx, sy, ok := r.camera.Project(at); ok {
		r.putGlyph(sx, sy, glyph, tcell.StyleDefault)
	}
}

func contactGlyph(c stage.Contact) string {
	switch {
	case c.Kind == stage.ContactOrb:
		return assets.GlyphOrb
	case c.Dead:
		return assets.GlyphCorpse
	case c.Kind == stage.ContactAvatar:
		return assets.GlyphOtherAvatar
	}
	return assets.FoeGlyph(c.Name)
}

// putGlyph draws a single glyph (ASCII or multi-rune emoji) at screen position (x, y).
func (r *Renderer) putGlyph(x, y int, glyph string, style tcell.Style) {
	runes := []rune(glyph)
	if len(runes) == 0 {
		return
	}
	mainc := runes[0]
	var combc []rune
	if len(runes) > 1 {
		combc = runes[1:]
	}
	r.screen.SetContent(x, y, mainc, combc, style)
	if runewidth.StringWidth(glyph) == 2 {
		// Fill the second column to avoid rendering artifacts.
		r.screen.SetContent(x+1, y, ' ', nil, style)
	}
}
