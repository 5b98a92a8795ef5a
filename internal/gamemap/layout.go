package gamemap

import (
	"fmt"
	"unicode/utf8"

	"chronorogue/internal/component"
)

// Layout glyphs. Marker glyphs stand on floor and are reported back to the
// caller by position.
const (
	GlyphWall   = '#'
	GlyphFloor  = '.'
	GlyphRubble = '%'
	GlyphGlass  = '='
	GlyphSpawn  = '@'
	GlyphOrb    = 'o'
	GlyphAura   = 'A'
	GlyphChaser = 'C'
)

// Markers maps each marker glyph to its positions in row-major order.
type Markers map[rune][]component.Position

// ParseLayout builds a map from ASCII rows. Short rows are padded with wall;
// any glyph outside the legend is an error.
func ParseLayout(rows []string) (*GameMap, Markers, error) {
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("layout: no rows")
	}
	width := 0
	for _, r := range rows {
		if w := utf8.RuneCountInString(r); w > width {
			width = w
		}
	}
	m := New(width, len(rows))
	markers := Markers{}
	for y, r := range rows {
		x := 0
		for _, g := range r {
			p := component.Position{X: x, Y: y}
			switch g {
			case GlyphWall, ' ':
			case GlyphFloor:
				m.Set(x, y, MakeFloor())
			case GlyphRubble:
				m.Set(x, y, MakeRubble())
			case GlyphGlass:
				m.Set(x, y, MakeGlass())
			case GlyphSpawn, GlyphOrb, GlyphAura, GlyphChaser:
				m.Set(x, y, MakeFloor())
				markers[g] = append(markers[g], p)
			default:
				return nil, nil, fmt.Errorf("layout: row %d col %d: unknown glyph %q", y, x, g)
			}
			x++
		}
	}
	return m, markers, nil
}

// Glyph returns the layout glyph of a tile kind.
func (k TileKind) Glyph() rune {
	switch k {
	case TileFloor:
		return GlyphFloor
	case TileRubble:
		return GlyphRubble
	case TileGlass:
		return GlyphGlass
	}
	return GlyphWall
}
