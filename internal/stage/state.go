package stage

import (
	"sort"

	"chronorogue/internal/component"
	"chronorogue/internal/event"
)

// Avatar defaults.
const (
	DefaultAvatarHP = 10
	DefaultMaxFocus = 12
)

// Transition is a pending move off the stage.
type Transition uint8

const (
	TransitionNone Transition = iota
	TransitionNextStage
)

func (t Transition) String() string {
	if t == TransitionNextStage {
		return "next_stage"
	}
	return "none"
}

// Avatar is a player's character as it exists at one turn.
type Avatar struct {
	ID       string
	PlayerID string
	Name     string
	Pos      component.Position
	HP       component.Health
	Focus    int
	MaxFocus int
	Stage    int
	Turns    int
	Orbs     int

	// Per-turn fields, cleared at the start of every replayed turn.
	Tired      bool
	Transition Transition
	Resolved   Resolved
	Log        []event.LogEntry
	Perception *Perception
}

// NewAvatar returns a fresh avatar at full health and focus.
func NewAvatar(id, playerID, name string) *Avatar {
	return &Avatar{
		ID:       id,
		PlayerID: playerID,
		Name:     name,
		HP:       component.Health{Current: DefaultAvatarHP, Max: DefaultAvatarHP},
		Focus:    DefaultMaxFocus,
		MaxFocus: DefaultMaxFocus,
	}
}

// Alive reports whether the avatar has hit points left.
func (a *Avatar) Alive() bool { return !a.HP.Dead() }

// Clone copies the avatar. Perception is immutable once built and is shared.
func (a *Avatar) Clone() *Avatar {
	c := *a
	if a.Log != nil {
		c.Log = append([]event.LogEntry(nil), a.Log...)
	}
	return &c
}

func (a *Avatar) resetTurn() {
	a.Tired = false
	a.Transition = TransitionNone
	a.Resolved = Resolved{}
	a.Log = nil
	a.Perception = nil
}

func (a *Avatar) ref() event.Ref { return event.AvatarRef(a.ID, a.Name) }

// Foe is a template-seeded enemy. Dead foes stay in the state as corpses.
type Foe struct {
	ID   string
	Kind component.FoeKind
	Name string
	Pos  component.Position
	HP   component.Health
}

func (f *Foe) Alive() bool { return !f.HP.Dead() }

func (f *Foe) ref() event.Ref { return event.FoeRef(f.ID, f.Name) }

// Orb is the stage exit. An excited orb relocates on the next turn.
type Orb struct {
	Pos     component.Position
	Excited bool
	Present bool
}

// State is a checkpoint: everything mutable about a stage at one turn.
type State struct {
	Turn    int
	Foes    []Foe // ordered by ID
	Orb     Orb
	Avatars map[string]*Avatar
}

// Clone deep-copies the state.
func (s *State) Clone() *State {
	c := &State{
		Turn:    s.Turn,
		Foes:    append([]Foe(nil), s.Foes...),
		Orb:     s.Orb,
		Avatars: make(map[string]*Avatar, len(s.Avatars)),
	}
	for id, a := range s.Avatars {
		c.Avatars[id] = a.Clone()
	}
	return c
}

// Foe returns the foe with the given ID or nil.
func (s *State) Foe(id string) *Foe {
	i := sort.Search(len(s.Foes), func(i int) bool { return s.Foes[i].ID >= id })
	if i < len(s.Foes) && s.Foes[i].ID == id {
		return &s.Foes[i]
	}
	return nil
}

// AvatarIDs lists the avatars present, sorted.
func (s *State) AvatarIDs() []string {
	ids := make([]string, 0, len(s.Avatars))
	for id := range s.Avatars {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// livingFoeAt returns the living foe standing on p, if any.
func (s *State) livingFoeAt(p component.Position) *Foe {
	for i := range s.Foes {
		if s.Foes[i].Alive() && s.Foes[i].Pos == p {
			return &s.Foes[i]
		}
	}
	return nil
}

// livingAvatarAt returns the living avatar on p other than except.
func (s *State) livingAvatarAt(p component.Position, except string) *Avatar {
	for _, id := range s.AvatarIDs() {
		a := s.Avatars[id]
		if id != except && a.Alive() && a.Pos == p {
			return a
		}
	}
	return nil
}
