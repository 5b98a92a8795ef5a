package render

// StageTiles holds the emoji glyphs used to draw one stage's terrain.
// Emoji are rendered by the terminal with their own colors, so remembered
// but unseen tiles use distinct dim glyphs instead of a tinted foreground.
type StageTiles struct {
	Wall     string
	Floor    string
	Rubble   string
	Glass    string
	DimWall  string
	DimFloor string
}

const (
	dimWall  = "🌑"
	dimFloor = "🔲"
)

// TileThemes is indexed by stage position in the visiting order and wraps.
var TileThemes = []StageTiles{
	{
		// Crystalline Labs: ice and frost
		Wall:   "🧊",
		Floor:  "❄️",
		Rubble: "🪨",
		Glass:  "🪟",
	},
	{
		// Bioluminescent Warrens: fungal growth, living walls
		Wall:   "🍄",
		Floor:  "🌿",
		Rubble: "🪵",
		Glass:  "🫧",
	},
	{
		// Fractured Observatory: stone and crystal lenses
		Wall:   "🪨",
		Floor:  "💠",
		Rubble: "🧱",
		Glass:  "🔭",
	},
	{
		// Resonance Engine: brass gears, golden sparks
		Wall:   "⚙️",
		Floor:  "✨",
		Rubble: "🔩",
		Glass:  "🪟",
	},
	{
		// Apex Nexus: skulls and void energy
		Wall:   "💀",
		Floor:  "🔴",
		Rubble: "🦴",
		Glass:  "🟪",
	},
}

// Theme returns the tile set for stage index i.
func Theme(i int) StageTiles {
	if i < 0 {
		i = -i
	}
	t := TileThemes[i%len(TileThemes)]
	t.DimWall, t.DimFloor = dimWall, dimFloor
	return t
}
