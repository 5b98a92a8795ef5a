package stage

import (
	"sort"

	"chronorogue/internal/component"
	"chronorogue/internal/event"
)

// BoundKind is the kind of fact a bound pins.
type BoundKind uint8

const (
	BoundHPFloor BoundKind = iota
	BoundDeath
	BoundPosition
)

func (k BoundKind) String() string {
	switch k {
	case BoundHPFloor:
		return "hp_floor"
	case BoundDeath:
		return "death"
	case BoundPosition:
		return "position"
	}
	return "unknown"
}

// Bound is one witnessed fact. Subject is the avatar (HP floor) or foe
// (death, position) it constrains; Source is the avatar that witnessed it.
type Bound struct {
	Kind    BoundKind
	Turn    int
	Source  string
	Subject string
	HP      int
	Pos     component.Position
}

// Sighting is a foe seen by an observer, relative to the observer.
type Sighting struct {
	FoeID  string
	Offset component.Position
	Dead   bool
}

// boundKey identifies one witnessed fact. Every turn an observer witnesses
// gets its own key, so a newer witness never displaces an older one.
type boundKey struct {
	kind    BoundKind
	subject string
	source  string
	turn    int
}

// BoundLedger pins witnessed facts so a rollback can never silently
// contradict something an avatar already perceived.
type BoundLedger struct {
	bounds map[boundKey]Bound
}

func NewBoundLedger() *BoundLedger {
	l := &BoundLedger{}
	l.Clear()
	return l
}

// Clear drops every bound.
func (l *BoundLedger) Clear() {
	l.bounds = make(map[boundKey]Bound)
}

func (l *BoundLedger) put(b Bound) {
	l.bounds[boundKey{b.Kind, b.Subject, b.Source, b.Turn}] = b
}

// WitnessSelf records that avatar saw its own hit points at turn.
func (l *BoundLedger) WitnessSelf(avatar string, turn, hp int) {
	l.put(Bound{Kind: BoundHPFloor, Turn: turn, Source: avatar, Subject: avatar, HP: hp})
}

// WitnessSight records what observer, standing at `at`, saw at turn.
func (l *BoundLedger) WitnessSight(observer string, turn int, at component.Position, seen []Sighting) {
	for _, s := range seen {
		if s.Dead {
			l.put(Bound{Kind: BoundDeath, Turn: turn, Source: observer, Subject: s.FoeID})
			continue
		}
		l.put(Bound{Kind: BoundPosition, Turn: turn, Source: observer, Subject: s.FoeID, Pos: at.Add(s.Offset)})
	}
}

// Release drops every bound witnessed by source.
func (l *BoundLedger) Release(source string) {
	for k := range l.bounds {
		if k.source == source {
			delete(l.bounds, k)
		}
	}
}

// Compact drops bounds older than before; no replay reaches them again.
// It is the only place bounds age out.
func (l *BoundLedger) Compact(before int) {
	for k := range l.bounds {
		if k.turn < before {
			delete(l.bounds, k)
		}
	}
}

// Bounds returns every bound sorted by (turn, kind, subject, source).
func (l *BoundLedger) Bounds() []Bound {
	out := make([]Bound, 0, len(l.bounds))
	for _, b := range l.bounds {
		out = append(out, b)
	}
	sortBounds(out)
	return out
}

func sortBounds(bs []Bound) {
	sort.Slice(bs, func(i, j int) bool {
		a, b := bs[i], bs[j]
		if a.Turn != b.Turn {
			return a.Turn < b.Turn
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		if a.Subject != b.Subject {
			return a.Subject < b.Subject
		}
		return a.Source < b.Source
	})
}

// Enforce forces every bound pinned at st.Turn onto st. HP floors go first,
// then deaths, then positions. Paradox events are returned only for facts
// that actually had to change.
func (l *BoundLedger) Enforce(st *State) []event.Event {
	var due []Bound
	for _, b := range l.Bounds() {
		if b.Turn == st.Turn {
			due = append(due, b)
		}
	}
	var events []event.Event
	for _, b := range due {
		switch b.Kind {
		case BoundHPFloor:
			if a, ok := st.Avatars[b.Subject]; ok && a.HP.Current < b.HP {
				a.HP.Current = b.HP
			}
		case BoundDeath:
			f := st.Foe(b.Subject)
			if f == nil || !f.Alive() {
				continue
			}
			f.HP.Current = 0
			events = append(events, event.Event{
				Kind: event.KindParadoxDeath, Turn: st.Turn, Source: f.Pos,
				Senses: component.AllSenses, Target: f.ref(),
			})
		}
	}
	for _, b := range due {
		if b.Kind != BoundPosition {
			continue
		}
		f := st.Foe(b.Subject)
		if f == nil || f.Pos == b.Pos {
			continue
		}
		from := f.Pos
		f.Pos = b.Pos
		events = append(events, event.Event{
			Kind: event.KindParadoxTeleport, Turn: st.Turn, Source: from, To: b.Pos,
			Senses: component.AllSenses, Target: f.ref(),
		})
	}
	return events
}
