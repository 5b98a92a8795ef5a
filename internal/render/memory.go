package render

import (
	"chronorogue/internal/component"
	"chronorogue/internal/gamemap"
	"chronorogue/internal/stage"
)

// Memory is what a client remembers of a stage's terrain from past sight.
type Memory struct {
	known map[component.Position]gamemap.TileKind
}

func NewMemory() *Memory {
	return &Memory{known: make(map[component.Position]gamemap.TileKind)}
}

// Observe records every tile revealed by p's sight window.
func (m *Memory) Observe(p *stage.Perception) {
	win := p.Window()
	if win == nil {
		return
	}
	for _, pos := range win.Positions() {
		if k, ok := win.KindAt(pos); ok {
			m.known[pos] = k
		}
	}
}

// At returns the remembered tile at p.
func (m *Memory) At(p component.Position) (gamemap.TileKind, bool) {
	k, ok := m.known[p]
	return k, ok
}

// Len is the number of remembered tiles.
func (m *Memory) Len() int { return len(m.known) }

// Reset forgets everything, for a new stage.
func (m *Memory) Reset() { clear(m.known) }
