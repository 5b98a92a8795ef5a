package assets

// FloorNames names generated stages in order; the list wraps.
var FloorNames = []string{
	"Resonance Engine",
	"Apex Nexus",
	"Null Annex",
}

// FloorLore holds the entry text of each generated stage, parallel to
// FloorNames.
var FloorLore = [][]string{
	{
		"Every gear turns in perfect synchrony. The machine does not appear to have an off switch.",
		"A placard reads 'IN CASE OF RESONANCE CASCADE, EVACUATE'. It does not say where to.",
	},
	{
		"Power conduits scar the walls like veins. The Spire's heart beats somewhere above.",
		"Security protocols are still active. They have adapted to their new purpose beautifully.",
	},
	{
		"The corridors here were drawn by something that had only heard of corridors.",
		"Your footsteps arrive a moment before you do.",
	},
}

// LoreOpening is shown on the lobby screen.
const LoreOpening = `The Prismatic Spire keeps its own time.
Every wanderer walks a different turn of the same halls,
and what one of you sees, the rest must live with.
Take the orb to climb.`
