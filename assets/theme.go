package assets

// Emoji constants used as entity glyphs.
const (
	GlyphPlayer       = "🧙"
	GlyphOtherAvatar  = "🧝"
	GlyphThoughtLeech = "🧠"
	GlyphEntropyBloom = "🌀"
	GlyphFractalGolem = "🗿"
	GlyphCrystalCrawl = "🦀"
	GlyphNeonSpecter  = "👻"
	GlyphPrismDrake   = "🐉"
	GlyphOrb          = "🔮"
	GlyphCorpse       = "💀"
	GlyphUnknown      = "❔"
)

// FoeGlyphs maps foe names used by the stage files to their glyph.
var FoeGlyphs = map[string]string{
	"thought leech": GlyphThoughtLeech,
	"entropy bloom": GlyphEntropyBloom,
	"fractal golem": GlyphFractalGolem,
	"crystal crawl": GlyphCrystalCrawl,
	"neon specter":  GlyphNeonSpecter,
	"prism drake":   GlyphPrismDrake,
	"aura":          GlyphEntropyBloom,
	"chaser":        GlyphNeonSpecter,
}

// FoeGlyph returns the glyph for a foe name, falling back to the unknown
// marker for names without one.
func FoeGlyph(name string) string {
	if g, ok := FoeGlyphs[name]; ok {
		return g
	}
	return GlyphUnknown
}
