// Package event holds the raw per-turn world event log of a stage and the
// sense-gated, redacted view of it delivered to each avatar.
package event

import (
	"sort"

	"chronorogue/internal/component"
)

// Kind identifies a world event.
type Kind uint8

const (
	KindAttack Kind = iota
	KindFumble
	KindKill
	KindParadoxDeath
	KindParadoxTeleport
	KindOrbSighted
	KindOrbTaken
	KindFadedOut
	KindBump
)

var kindNames = [...]string{
	"attack", "fumble", "kill", "paradox_death", "paradox_teleport",
	"orb_sighted", "orb_taken", "faded_out", "bump",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// RefKind says what an event participant is.
type RefKind uint8

const (
	RefNone RefKind = iota
	RefAvatar
	RefFoe
)

// Ref names an event participant.
type Ref struct {
	Kind RefKind
	ID   string
	Name string
}

// AvatarRef and FoeRef build participant references.
func AvatarRef(id, name string) Ref { return Ref{Kind: RefAvatar, ID: id, Name: name} }
func FoeRef(id, name string) Ref { return Ref{Kind: RefFoe, ID: id, Name: name} }

// Event is one raw, un-redacted thing that happened on a stage.
type Event struct {
	Kind   Kind
	Turn   int
	Source component.Position
	// Senses lists the sense kinds that could plausibly detect the event.
	Senses component.SenseSet
	Actor  Ref
	Target Ref
	Amount int
	To     component.Position // ParadoxTeleport destination
}

// Concerns reports whether avatarID is the actor or the target.
func (e Event) Concerns(avatarID string) bool {
	return (e.Actor.Kind == RefAvatar && e.Actor.ID == avatarID) ||
		(e.Target.Kind == RefAvatar && e.Target.ID == avatarID)
}

// Ledger is the raw event log of one stage, bucketed by turn. Replaying a
// turn resets its bucket; compaction drops turns that left the diff window.
type Ledger struct {
	turns map[int][]Event
}

func NewLedger() *Ledger {
	return &Ledger{turns: make(map[int][]Event)}
}

// Reset discards everything recorded for turn.
func (l *Ledger) Reset(turn int) {
	delete(l.turns, turn)
}

// Append records e under e.Turn.
func (l *Ledger) Append(e Event) {
	l.turns[e.Turn] = append(l.turns[e.Turn], e)
}

// At returns the events recorded for turn, in append order.
func (l *Ledger) At(turn int) []Event {
	return l.turns[turn]
}

// Compact drops every turn strictly before `before`.
func (l *Ledger) Compact(before int) {
	for t := range l.turns {
		if t < before {
			delete(l.turns, t)
		}
	}
}

// Clear empties the ledger.
func (l *Ledger) Clear() {
	l.turns = make(map[int][]Event)
}

// Turns lists the turns that hold events, ascending.
func (l *Ledger) Turns() []int {
	out := make([]int, 0, len(l.turns))
	for t := range l.turns {
		out = append(out, t)
	}
	sort.Ints(out)
	return out
}
