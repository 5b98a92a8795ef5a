// Package stage implements one map instance with its own asynchronous turn
// timeline: the diff window, checkpoints, causal bounds and rollback replay.
package stage

import (
	"fmt"
	"sort"

	"chronorogue/internal/component"
	"chronorogue/internal/gamemap"
)

// DefaultFocusRegen is used when a stage file does not set a rate.
const DefaultFocusRegen = 2

// FoeSpawn seeds one foe of the initial stage state.
type FoeSpawn struct {
	ID   string
	Kind component.FoeKind
	Name string
	Pos  component.Position
	HP   int
}

// Template is the immutable description of a stage. It is shared by every
// checkpoint and must not be mutated once an Engine holds it.
type Template struct {
	ID            string
	Name          string
	Map           *gamemap.GameMap
	OrbSpawns     []component.Position
	Foes          []FoeSpawn
	Spawns        []component.Position
	AllowedSenses component.SenseSet
	FocusRegen    int
	Seed          int64
	Lore          []string // shown to avatars entering the stage
}

// FromLayout builds a template from layout rows, numbering foes per kind in
// row-major order ("aura-1", "chaser-1", ...).
func FromLayout(id, name string, rows []string) (*Template, error) {
	m, markers, err := gamemap.ParseLayout(rows)
	if err != nil {
		return nil, fmt.Errorf("stage %s: %w", id, err)
	}
	t := &Template{
		ID:            id,
		Name:          name,
		Map:           m,
		OrbSpawns:     markers[gamemap.GlyphOrb],
		Spawns:        markers[gamemap.GlyphSpawn],
		AllowedSenses: component.AllSenses,
		FocusRegen:    DefaultFocusRegen,
	}
	for glyph, kind := range map[rune]component.FoeKind{gamemap.GlyphAura: component.FoeAura, gamemap.GlyphChaser: component.FoeChaser} {
		for i, p := range markers[glyph] {
			t.Foes = append(t.Foes, FoeSpawn{
				ID:   fmt.Sprintf("%s-%d", kind, i+1),
				Kind: kind,
				Name: kind.String(),
				Pos:  p,
				HP:   kind.DefaultHP(),
			})
		}
	}
	sort.Slice(t.Foes, func(i, j int) bool { return t.Foes[i].ID < t.Foes[j].ID })
	return t, t.Validate()
}

// Validate checks the template can seed a playable stage.
func (t *Template) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("stage: template has no id")
	}
	if t.Map == nil {
		return fmt.Errorf("stage %s: no map", t.ID)
	}
	if len(t.Spawns) == 0 {
		return fmt.Errorf("stage %s: no avatar spawn", t.ID)
	}
	for _, p := range t.Spawns {
		if !t.Map.Walkable(p) {
			return fmt.Errorf("stage %s: spawn %v is not walkable", t.ID, p)
		}
	}
	for _, p := range t.OrbSpawns {
		if !t.Map.Walkable(p) {
			return fmt.Errorf("stage %s: orb spawn %v is not walkable", t.ID, p)
		}
	}
	seen := make(map[string]bool, len(t.Foes))
	for _, f := range t.Foes {
		if f.ID == "" || seen[f.ID] {
			return fmt.Errorf("stage %s: foe id %q missing or duplicated", t.ID, f.ID)
		}
		seen[f.ID] = true
		if f.HP <= 0 {
			return fmt.Errorf("stage %s: foe %s has no hit points", t.ID, f.ID)
		}
	}
	if t.FocusRegen < 0 {
		return fmt.Errorf("stage %s: negative focus regen", t.ID)
	}
	return nil
}

// initialState is turn zero of a fresh stage.
func (t *Template) initialState() *State {
	st := &State{Avatars: make(map[string]*Avatar)}
	for _, f := range t.Foes {
		st.Foes = append(st.Foes, Foe{
			ID:   f.ID,
			Kind: f.Kind,
			Name: f.Name,
			Pos:  f.Pos,
			HP:   component.Health{Current: f.HP, Max: f.HP},
		})
	}
	sort.Slice(st.Foes, func(i, j int) bool { return st.Foes[i].ID < st.Foes[j].ID })
	if len(t.OrbSpawns) > 0 {
		st.Orb = Orb{Pos: t.orbSpawn(0, nil), Present: true}
	}
	return st
}
