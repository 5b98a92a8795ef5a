package component

import "strings"

// SenseKind names one perception channel.
type SenseKind uint8

const (
	SenseSelf SenseKind = iota
	SenseSight
	SenseTouch
	SenseHearing
	numSenses
)

var senseNames = [numSenses]string{"self", "sight", "touch", "hearing"}

func (k SenseKind) String() string {
	if k < numSenses {
		return senseNames[k]
	}
	return "unknown"
}

// ParseSenseKind maps a name to a SenseKind.
func ParseSenseKind(s string) (SenseKind, bool) {
	for i, n := range senseNames {
		if n == s {
			return SenseKind(i), true
		}
	}
	return 0, false
}

// AllSenseKinds lists every sense in canonical order.
func AllSenseKinds() []SenseKind {
	return []SenseKind{SenseSelf, SenseSight, SenseTouch, SenseHearing}
}

// SenseSet is a bitmask of sense kinds.
type SenseSet uint8

// AllSenses has every sense kind set.
const AllSenses SenseSet = 1<<numSenses - 1

// SetOf builds a set from kinds.
func SetOf(kinds ...SenseKind) SenseSet {
	var s SenseSet
	for _, k := range kinds {
		s |= 1 << k
	}
	return s
}

func (s SenseSet) Has(k SenseKind) bool { return s&(1<<k) != 0 }

func (s SenseSet) With(k SenseKind) SenseSet { return s | 1<<k }

func (s SenseSet) Intersect(o SenseSet) SenseSet { return s & o }

func (s SenseSet) Empty() bool { return s == 0 }

// Kinds lists the members in canonical order.
func (s SenseSet) Kinds() []SenseKind {
	var out []SenseKind
	for _, k := range AllSenseKinds() {
		if s.Has(k) {
			out = append(out, k)
		}
	}
	return out
}

func (s SenseSet) String() string {
	var parts []string
	for _, k := range s.Kinds() {
		parts = append(parts, k.String())
	}
	return strings.Join(parts, "+")
}

// Caps on requested sense strengths.
const (
	MaxSightRadius     = 8
	MaxHearingStrength = 8
)

// Senses is an avatar's requested perception for one turn.
type Senses struct {
	Self    bool
	Sight   int // FOV radius, 0 = off
	Touch   bool
	Hearing int // Chebyshev hearing range, 0 = off
}

// Enabled returns the set of active sense kinds.
func (s Senses) Enabled() SenseSet {
	var set SenseSet
	if s.Self {
		set = set.With(SenseSelf)
	}
	if s.Sight > 0 {
		set = set.With(SenseSight)
	}
	if s.Touch {
		set = set.With(SenseTouch)
	}
	if s.Hearing > 0 {
		set = set.With(SenseHearing)
	}
	return set
}

// Cost is the focus spent to use these senses for a turn. Self is free.
func (s Senses) Cost() int {
	c := s.Sight + s.Hearing
	if s.Touch {
		c++
	}
	return c
}

// Restrict clamps strengths and drops senses not in allowed.
func (s Senses) Restrict(allowed SenseSet) Senses {
	if s.Sight < 0 {
		s.Sight = 0
	}
	if s.Sight > MaxSightRadius {
		s.Sight = MaxSightRadius
	}
	if s.Hearing < 0 {
		s.Hearing = 0
	}
	if s.Hearing > MaxHearingStrength {
		s.Hearing = MaxHearingStrength
	}
	if !allowed.Has(SenseSelf) {
		s.Self = false
	}
	if !allowed.Has(SenseSight) {
		s.Sight = 0
	}
	if !allowed.Has(SenseTouch) {
		s.Touch = false
	}
	if !allowed.Has(SenseHearing) {
		s.Hearing = 0
	}
	return s
}
