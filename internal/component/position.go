package component

// Position is a tile coordinate on a stage.
type Position struct {
	X, Y int
}

// Add returns p offset by o.
func (p Position) Add(o Position) Position {
	return Position{X: p.X + o.X, Y: p.Y + o.Y}
}

// Sub returns the offset that takes o to p.
func (p Position) Sub(o Position) Position {
	return Position{X: p.X - o.X, Y: p.Y - o.Y}
}

// Step returns the neighbouring position in direction d.
func (p Position) Step(d Dir) Position {
	dx, dy := d.Delta()
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Chebyshev is the king-move distance between two positions.
func Chebyshev(a, b Position) int {
	dx := abs(a.X - b.X)
	dy := abs(a.Y - b.Y)
	if dx > dy {
		return dx
	}
	return dy
}

// Toward returns the single-tile step from p in the direction of q,
// moving along each axis by the sign of the difference.
func (p Position) Toward(q Position) Position {
	return Position{X: p.X + Sign(q.X-p.X), Y: p.Y + Sign(q.Y-p.Y)}
}

// Sign returns -1, 0 or 1.
func Sign(v int) int {
	if v > 0 {
		return 1
	}
	if v < 0 {
		return -1
	}
	return 0
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Dir is one of the eight compass directions, or DirNone.
type Dir uint8

const (
	DirNone Dir = iota
	DirN
	DirS
	DirE
	DirW
	DirNE
	DirNW
	DirSE
	DirSW
)

var dirNames = [...]string{"none", "n", "s", "e", "w", "ne", "nw", "se", "sw"}

// Delta converts a direction to (dx, dy). North is -y.
func (d Dir) Delta() (int, int) {
	switch d {
	case DirN:
		return 0, -1
	case DirS:
		return 0, 1
	case DirE:
		return 1, 0
	case DirW:
		return -1, 0
	case DirNE:
		return 1, -1
	case DirNW:
		return -1, -1
	case DirSE:
		return 1, 1
	case DirSW:
		return -1, 1
	}
	return 0, 0
}

func (d Dir) String() string {
	if int(d) < len(dirNames) {
		return dirNames[d]
	}
	return "none"
}

// ParseDir maps a wire name ("n", "se", ...) to a Dir.
func ParseDir(s string) (Dir, bool) {
	for i, n := range dirNames {
		if n == s {
			return Dir(i), true
		}
	}
	return DirNone, false
}
