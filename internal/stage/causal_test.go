package stage

import (
	"testing"

	"chronorogue/internal/component"
	"chronorogue/internal/event"
)

func boundState(turn int) *State {
	return &State{
		Turn: turn,
		Foes: []Foe{
			{ID: "aura-1", Kind: component.FoeAura, Name: "aura", Pos: pos(2, 2), HP: component.Health{Current: 2, Max: 2}},
			{ID: "chaser-1", Kind: component.FoeChaser, Name: "chaser", Pos: pos(5, 5), HP: component.Health{Current: 3, Max: 3}},
		},
		Avatars: map[string]*Avatar{
			"a": {ID: "a", Name: "amy", Pos: pos(4, 4), HP: component.Health{Current: 2, Max: 10}},
		},
	}
}

func TestEnforceHPFloor(t *testing.T) {
	l := NewBoundLedger()
	l.WitnessSelf("a", 3, 5)

	st := boundState(3)
	if events := l.Enforce(st); len(events) != 0 {
		t.Errorf("HP floor emitted %v", events)
	}
	if got := st.Avatars["a"].HP.Current; got != 5 {
		t.Errorf("HP = %d, want 5", got)
	}

	other := boundState(4)
	l.Enforce(other)
	if got := other.Avatars["a"].HP.Current; got != 2 {
		t.Errorf("bound leaked to turn 4: HP = %d", got)
	}
}

func TestEnforceDeath(t *testing.T) {
	l := NewBoundLedger()
	l.WitnessSight("b", 3, pos(0, 0), []Sighting{{FoeID: "chaser-1", Offset: pos(5, 5), Dead: true}})

	st := boundState(3)
	events := l.Enforce(st)
	if len(events) != 1 || events[0].Kind != event.KindParadoxDeath || events[0].Target.ID != "chaser-1" {
		t.Fatalf("events = %v, want one paradox death", events)
	}
	if st.Foe("chaser-1").Alive() {
		t.Error("pinned foe still alive")
	}
	if events := l.Enforce(st); len(events) != 0 {
		t.Errorf("second enforce emitted %v", events)
	}
}

func TestDeathBoundsPerWitness(t *testing.T) {
	l := NewBoundLedger()
	dead := []Sighting{{FoeID: "aura-1", Dead: true}}
	l.WitnessSight("b", 5, pos(0, 0), dead)
	l.WitnessSight("c", 3, pos(0, 0), dead)
	l.WitnessSight("d", 7, pos(0, 0), dead)
	l.WitnessSight("d", 8, pos(0, 0), dead)

	bounds := l.Bounds()
	if len(bounds) != 4 {
		t.Fatalf("bounds = %v, want 4", bounds)
	}
	if bounds[0].Turn != 3 || bounds[0].Source != "c" {
		t.Errorf("first death bound = %+v, want turn 3 from c", bounds[0])
	}

	l.Release("c")
	st := boundState(5)
	events := l.Enforce(st)
	if len(events) != 1 || events[0].Kind != event.KindParadoxDeath {
		t.Errorf("events = %v, want one paradox death", events)
	}
}

func TestEarlierWitnessKeptAfterNewer(t *testing.T) {
	t.Run("sight", func(t *testing.T) {
		l := NewBoundLedger()
		l.WitnessSight("d", 19, pos(0, 0), []Sighting{{FoeID: "chaser-1", Offset: pos(2, 1)}})
		l.WitnessSight("d", 20, pos(0, 0), []Sighting{{FoeID: "chaser-1", Offset: pos(1, 2)}})

		st := boundState(19)
		events := l.Enforce(st)
		if got := st.Foe("chaser-1").Pos; got != pos(2, 1) {
			t.Errorf("foe pos at turn 19 = %v, want (2,1)", got)
		}
		if len(events) != 1 || events[0].Kind != event.KindParadoxTeleport || events[0].To != pos(2, 1) {
			t.Errorf("events = %v, want one teleport to (2,1)", events)
		}

		later := boundState(20)
		l.Enforce(later)
		if got := later.Foe("chaser-1").Pos; got != pos(1, 2) {
			t.Errorf("foe pos at turn 20 = %v, want (1,2)", got)
		}
	})
	t.Run("self", func(t *testing.T) {
		l := NewBoundLedger()
		l.WitnessSelf("a", 14, 4)
		l.WitnessSelf("a", 16, 2)

		st := boundState(14)
		l.Enforce(st)
		if got := st.Avatars["a"].HP.Current; got != 4 {
			t.Errorf("HP at turn 14 = %d, want 4", got)
		}
	})
}

func TestEnforceTeleport(t *testing.T) {
	l := NewBoundLedger()
	l.WitnessSight("b", 3, pos(1, 1), []Sighting{{FoeID: "chaser-1", Offset: pos(6, 0)}})

	st := boundState(3)
	events := l.Enforce(st)
	if len(events) != 1 {
		t.Fatalf("events = %v, want one teleport", events)
	}
	e := events[0]
	if e.Kind != event.KindParadoxTeleport || e.Source != pos(5, 5) || e.To != pos(7, 1) {
		t.Errorf("teleport = %+v", e)
	}
	if got := st.Foe("chaser-1").Pos; got != pos(7, 1) {
		t.Errorf("foe pos = %v, want (7,1)", got)
	}
	if events := l.Enforce(st); len(events) != 0 {
		t.Errorf("already satisfied bound emitted %v", events)
	}
}

func TestPositionBoundsPerObserverAndRelease(t *testing.T) {
	l := NewBoundLedger()
	seen := []Sighting{{FoeID: "chaser-1", Offset: pos(1, 0)}}
	l.WitnessSight("b", 3, pos(4, 5), seen)
	l.WitnessSight("c", 3, pos(4, 5), seen)
	l.WitnessSelf("b", 3, 8)
	if got := len(l.Bounds()); got != 3 {
		t.Fatalf("bounds = %d, want 3", got)
	}

	l.Release("b")
	bounds := l.Bounds()
	if len(bounds) != 1 || bounds[0].Source != "c" || bounds[0].Kind != BoundPosition {
		t.Errorf("after release = %+v", bounds)
	}
}

func TestBoundsCompact(t *testing.T) {
	l := NewBoundLedger()
	l.WitnessSelf("a", 2, 5)
	l.WitnessSelf("b", 6, 5)
	l.Compact(4)
	bounds := l.Bounds()
	if len(bounds) != 1 || bounds[0].Subject != "b" {
		t.Errorf("after compact = %+v", bounds)
	}
}
