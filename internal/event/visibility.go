package event

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"chronorogue/internal/component"
	"chronorogue/internal/system"
)

// Placeholders used when a participant is detected but not seen.
const (
	UnseenAvatar = "a discarded avatar"
	UnseenFoe    = "something"
)

// Viewer is everything EventVisibility needs to know about the recipient.
type Viewer struct {
	AvatarID string
	Pos      component.Position
	Senses   component.Senses
	Window   *system.Window // sight window for the turn, nil without sight
}

// Detect returns the enabled senses of v that pick up e.
func Detect(v Viewer, e Event) component.SenseSet {
	var got component.SenseSet
	dist := component.Chebyshev(v.Pos, e.Source)
	concerns := e.Concerns(v.AvatarID)
	for _, k := range e.Senses.Kinds() {
		switch k {
		case component.SenseSelf:
			if v.Senses.Self && concerns {
				got = got.With(k)
			}
		case component.SenseSight:
			if v.Senses.Sight > 0 && (concerns || v.Window.Visible(e.Source)) {
				got = got.With(k)
			}
		case component.SenseTouch:
			if v.Senses.Touch && dist <= 1 {
				got = got.With(k)
			}
		case component.SenseHearing:
			if v.Senses.Hearing > 0 && dist <= v.Senses.Hearing {
				got = got.With(k)
			}
		}
	}
	return got
}

// GEvent is an event as delivered to one avatar: the senses that detected it
// and the redacted content.
type GEvent struct {
	Senses component.SenseSet
	Event  Redacted
}

// Redacted is an event with participant identities resolved for a recipient.
type Redacted struct {
	Kind   Kind
	Turn   int
	Actor  string
	Target string
	Amount int
}

// Deliver filters events down to what v detects and redacts each one.
// Undetected events are omitted entirely.
func Deliver(v Viewer, events []Event) []GEvent {
	var out []GEvent
	for _, e := range events {
		senses := Detect(v, e)
		if senses.Empty() {
			continue
		}
		out = append(out, GEvent{Senses: senses, Event: redact(v.AvatarID, senses.Has(component.SenseSight), e)})
	}
	return out
}

func redact(recipient string, sighted bool, e Event) Redacted {
	return Redacted{
		Kind:   e.Kind,
		Turn:   e.Turn,
		Actor:  displayName(recipient, sighted, e.Actor),
		Target: displayName(recipient, sighted, e.Target),
		Amount: e.Amount,
	}
}

func displayName(recipient string, sighted bool, r Ref) string {
	switch r.Kind {
	case RefAvatar:
		if r.ID == recipient {
			return "you"
		}
		if sighted {
			return r.Name
		}
		return UnseenAvatar
	case RefFoe:
		if sighted {
			return "the " + r.Name
		}
		return UnseenFoe
	}
	return ""
}

// verb picks the second-person form when the subject is "you".
func verb(subject, you, other string) string {
	if subject == "you" {
		return you
	}
	return other
}

// Text renders the log line for the recipient.
func (r Redacted) Text() string {
	var s string
	switch r.Kind {
	case KindAttack:
		s = fmt.Sprintf("%s %s %s for %d", r.Actor, verb(r.Actor, "hit", "hits"), r.Target, r.Amount)
	case KindFumble:
		s = fmt.Sprintf("%s %s at nothing", r.Actor, verb(r.Actor, "swing", "swings"))
	case KindKill:
		s = fmt.Sprintf("%s %s %s", r.Actor, verb(r.Actor, "kill", "kills"), r.Target)
	case KindParadoxDeath:
		s = fmt.Sprintf("%s %s, struck down by a paradox", r.Target, verb(r.Target, "collapse", "collapses"))
	case KindParadoxTeleport:
		s = fmt.Sprintf("%s %s across a paradox", r.Target, verb(r.Target, "flicker", "flickers"))
	case KindOrbSighted:
		s = fmt.Sprintf("%s %s the orb", r.Actor, verb(r.Actor, "spot", "spots"))
	case KindOrbTaken:
		s = fmt.Sprintf("%s %s the orb", r.Actor, verb(r.Actor, "take", "takes"))
	case KindFadedOut:
		s = fmt.Sprintf("%s %s out", r.Target, verb(r.Target, "fade", "fades"))
	case KindBump:
		s = fmt.Sprintf("%s %s into something", r.Actor, verb(r.Actor, "bump", "bumps"))
	default:
		s = strings.TrimSpace(r.Kind.String())
	}
	return capitalize(s)
}

func capitalize(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[n:]
}
