package stage

import (
	"chronorogue/internal/component"
	"chronorogue/internal/system"
)

// ContactKind is what a sense picked up.
type ContactKind uint8

const (
	ContactFoe ContactKind = iota
	ContactAvatar
	ContactOrb
)

func (k ContactKind) String() string {
	switch k {
	case ContactFoe:
		return "foe"
	case ContactAvatar:
		return "avatar"
	case ContactOrb:
		return "orb"
	}
	return "unknown"
}

// Contact is one thing a sense detected. Only sight fills in identity and
// health; touch and hearing report a kind and an offset.
type Contact struct {
	Kind   ContactKind
	ID     string
	Name   string
	Offset component.Position // relative to the perceiving avatar
	HP     int
	Dead   bool
}

// Vitals is what the self sense reports.
type Vitals struct {
	HP, MaxHP       int
	Focus, MaxFocus int
	Orbs            int
}

// SenseInfo is the uniform record produced by every sense kind.
type SenseInfo struct {
	Kind     component.SenseKind
	Vitals   *Vitals        // self
	Window   *system.Window // sight
	Contacts []Contact
}

// Perception is everything an avatar perceived on one turn.
type Perception struct {
	Turn   int
	Pos    component.Position
	Senses component.Senses
	Info   []SenseInfo
}

// Sense returns the record for kind, if that sense was active.
func (p *Perception) Sense(kind component.SenseKind) (SenseInfo, bool) {
	if p == nil {
		return SenseInfo{}, false
	}
	for _, s := range p.Info {
		if s.Kind == kind {
			return s, true
		}
	}
	return SenseInfo{}, false
}

// Window is the sight window, nil without sight.
func (p *Perception) Window() *system.Window {
	s, _ := p.Sense(component.SenseSight)
	return s.Window
}

// perceive gathers every enabled sense of a for st. win is the sight window
// already computed for the turn.
func perceive(st *State, a *Avatar, senses component.Senses, win *system.Window) *Perception {
	p := &Perception{Turn: st.Turn, Pos: a.Pos, Senses: senses}
	for _, kind := range senses.Enabled().Kinds() {
		p.Info = append(p.Info, gather(kind, st, a, senses, win))
	}
	return p
}

func gather(kind component.SenseKind, st *State, a *Avatar, senses component.Senses, win *system.Window) SenseInfo {
	info := SenseInfo{Kind: kind}
	switch kind {
	case component.SenseSelf:
		info.Vitals = &Vitals{
			HP: a.HP.Current, MaxHP: a.HP.Max,
			Focus: a.Focus, MaxFocus: a.MaxFocus,
			Orbs: a.Orbs,
		}
	case component.SenseSight:
		info.Window = win
		info.Contacts = contacts(st, a, true, func(p component.Position) bool {
			return win.Visible(p)
		})
	case component.SenseTouch:
		info.Contacts = contacts(st, a, false, func(p component.Position) bool {
			return component.Chebyshev(a.Pos, p) <= 1
		})
	case component.SenseHearing:
		info.Contacts = contacts(st, a, false, func(p component.Position) bool {
			return component.Chebyshev(a.Pos, p) <= senses.Hearing
		})
	}
	return info
}

// contacts lists foes, other avatars and the orb for which in returns true.
// Unsighted senses only pick up living things.
func contacts(st *State, a *Avatar, sighted bool, in func(component.Position) bool) []Contact {
	var out []Contact
	for _, f := range st.Foes {
		if !in(f.Pos) || (!sighted && !f.Alive()) {
			continue
		}
		c := Contact{Kind: ContactFoe, Offset: f.Pos.Sub(a.Pos)}
		if sighted {
			c.ID, c.Name, c.HP, c.Dead = f.ID, f.Name, f.HP.Current, !f.Alive()
		}
		out = append(out, c)
	}
	for _, id := range st.AvatarIDs() {
		o := st.Avatars[id]
		if id == a.ID || !in(o.Pos) || (!sighted && !o.Alive()) {
			continue
		}
		c := Contact{Kind: ContactAvatar, Offset: o.Pos.Sub(a.Pos)}
		if sighted {
			c.ID, c.Name, c.HP, c.Dead = o.ID, o.Name, o.HP.Current, !o.Alive()
		}
		out = append(out, c)
	}
	if st.Orb.Present && sighted && in(st.Orb.Pos) {
		out = append(out, Contact{Kind: ContactOrb, Offset: st.Orb.Pos.Sub(a.Pos)})
	}
	return out
}

// sightings converts the foes in a sight record into witness input.
func (s SenseInfo) sightings() []Sighting {
	var out []Sighting
	for _, c := range s.Contacts {
		if c.Kind == ContactFoe {
			out = append(out, Sighting{FoeID: c.ID, Offset: c.Offset, Dead: c.Dead})
		}
	}
	return out
}
