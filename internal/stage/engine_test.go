package stage

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"chronorogue/internal/component"
	"chronorogue/internal/event"
)

var roomRows = []string{
	"#########",
	"#@......#",
	"#.......#",
	"#########",
}

func TestJoinAndAct(t *testing.T) {
	e := NewEngine(layoutTemplate(t, roomRows...))
	mustJoin(t, e, "a")
	if e.Head() != 1 {
		t.Fatalf("Head() = %d, want 1", e.Head())
	}
	if tr, ok := e.Tracker("a"); !ok || tr.Turn != 1 {
		t.Fatalf("Tracker(a) = %+v, %v", tr, ok)
	}

	res := mustAct(t, e, "a", Move(component.DirE), component.Senses{Self: true, Sight: 3})
	if res.Turn != 2 || e.Head() != 2 {
		t.Errorf("turn = %d head = %d, want 2 and 2", res.Turn, e.Head())
	}
	if res.Resolved.Outcome != OutcomeMove {
		t.Errorf("Resolved = %v, want move", res.Resolved.Outcome)
	}
	if res.Avatar.Pos != pos(2, 1) {
		t.Errorf("Pos = %v, want (2,1)", res.Avatar.Pos)
	}
	self, ok := res.Perception.Sense(component.SenseSelf)
	if !ok || self.Vitals == nil {
		t.Fatal("self sense missing from perception")
	}
	// 12 focus, regen capped at 12, minus 3 for sight.
	if self.Vitals.Focus != 9 || self.Vitals.HP != DefaultAvatarHP {
		t.Errorf("vitals = %+v", *self.Vitals)
	}
	if win := res.Perception.Window(); win == nil || !win.Visible(pos(4, 1)) {
		t.Error("sight window should reveal (4,1)")
	}
}

func TestEngineErrors(t *testing.T) {
	e := NewEngine(layoutTemplate(t, roomRows...))

	_, err := e.Act("ghost", Wait(), component.Senses{})
	if !errors.Is(err, ErrNoTracker) {
		t.Errorf("Act(ghost) err = %v, want ErrNoTracker", err)
	}
	var te *TrackerError
	if !errors.As(err, &te) || te.AvatarID != "ghost" {
		t.Errorf("Act(ghost) err = %v, want *TrackerError", err)
	}
	if _, err := e.Leave("ghost"); !errors.Is(err, ErrNoTracker) {
		t.Errorf("Leave(ghost) err = %v, want ErrNoTracker", err)
	}

	mustJoin(t, e, "a")
	if err := e.Join(NewAvatar("a", "p", "a")); !errors.Is(err, ErrAlreadyJoined) {
		t.Errorf("second Join err = %v, want ErrAlreadyJoined", err)
	}
	if _, err := e.State(99); !errors.Is(err, ErrNoCheckpoint) {
		t.Errorf("State(99) err = %v, want ErrNoCheckpoint", err)
	}
}

func TestBlockedMoveBumps(t *testing.T) {
	e := NewEngine(layoutTemplate(t, roomRows...))
	mustJoin(t, e, "a")
	res := mustAct(t, e, "a", Move(component.DirW), component.Senses{Self: true})
	if res.Resolved.Outcome != OutcomeBlocked {
		t.Errorf("Resolved = %v, want blocked", res.Resolved.Outcome)
	}
	if len(res.Logs) != 1 || res.Logs[0].Text != "You bump into something" {
		t.Errorf("Logs = %v", res.Logs)
	}
}

func TestFumble(t *testing.T) {
	e := NewEngine(layoutTemplate(t, roomRows...))
	mustJoin(t, e, "a")
	res := mustAct(t, e, "a", Attack(component.DirE), component.Senses{Self: true})
	if res.Resolved.Outcome != OutcomeFumble {
		t.Errorf("Resolved = %v, want fumble", res.Resolved.Outcome)
	}
}

func TestTiredWithholdsPerception(t *testing.T) {
	e := NewEngine(layoutTemplate(t, roomRows...))
	mustJoin(t, e, "a")
	res := mustAct(t, e, "a", Move(component.DirE), component.Senses{Self: true, Sight: 8, Touch: true, Hearing: 8})
	if res.Perception != nil {
		t.Error("tired avatar received perception")
	}
	if !res.Avatar.Tired || res.Avatar.Focus != DefaultMaxFocus {
		t.Errorf("tired = %v focus = %d", res.Avatar.Tired, res.Avatar.Focus)
	}
	if res.Resolved.Outcome != OutcomeMove {
		t.Errorf("tired avatar still acts, got %v", res.Resolved.Outcome)
	}
}

func TestDisallowedSensesStripped(t *testing.T) {
	tmpl := layoutTemplate(t, roomRows...)
	tmpl.AllowedSenses = component.SetOf(component.SenseSelf, component.SenseSight)
	e := NewEngine(tmpl)
	mustJoin(t, e, "a")
	res := mustAct(t, e, "a", Wait(), component.Senses{Sight: 2, Hearing: 5, Touch: true})
	if res.Perception.Senses.Hearing != 0 || res.Perception.Senses.Touch {
		t.Errorf("senses = %+v, want hearing and touch stripped", res.Perception.Senses)
	}
	if _, ok := res.Perception.Sense(component.SenseHearing); ok {
		t.Error("hearing record present")
	}
	if _, ok := res.Perception.Sense(component.SenseSight); !ok {
		t.Error("sight record missing")
	}
}

func TestTakeOrb(t *testing.T) {
	e := NewEngine(layoutTemplate(t,
		"#####",
		"#@o.#",
		"#####",
	))
	mustJoin(t, e, "a")
	res := mustAct(t, e, "a", Move(component.DirE), component.Senses{})
	if res.Resolved.Outcome != OutcomeTake || res.Transition != TransitionNextStage {
		t.Errorf("resolved = %v transition = %v", res.Resolved.Outcome, res.Transition)
	}
	if res.Avatar.Orbs != 1 {
		t.Errorf("Orbs = %d, want 1", res.Avatar.Orbs)
	}
	found := false
	for _, ev := range e.Events(res.Turn) {
		if ev.Kind == event.KindOrbTaken && ev.Actor.ID == "a" {
			found = true
		}
	}
	if !found {
		t.Errorf("no OrbTaken event in %v", e.Events(res.Turn))
	}
	st, _ := e.State(res.Turn)
	if !st.Orb.Excited {
		t.Error("taken orb should be excited")
	}
}

func TestOrbRelocatesAfterSighting(t *testing.T) {
	e := NewEngine(layoutTemplate(t,
		"#######",
		"#@..o.#",
		"#....o#",
		"#######",
	))
	mustJoin(t, e, "a")
	res := mustAct(t, e, "a", Wait(), component.Senses{Sight: 5})
	seen, _ := e.State(res.Turn)
	if !seen.Orb.Excited {
		t.Fatal("orb in sight should be excited")
	}
	res = mustAct(t, e, "a", Wait(), component.Senses{})
	moved, _ := e.State(res.Turn)
	if moved.Orb.Excited || moved.Orb.Pos == seen.Orb.Pos {
		t.Errorf("orb = %+v, was %+v; want relocated and calm", moved.Orb, seen.Orb)
	}
}

func TestChaserKillsLoneAvatar(t *testing.T) {
	e := NewEngine(layoutTemplate(t,
		"#####",
		"#@C.#",
		"#####",
	))
	mustJoin(t, e, "a")
	var dead *LimboNotice
	for range 10 {
		res := mustAct(t, e, "a", Wait(), component.Senses{})
		if n, ok := findNotice(res.Limbo, "a"); ok {
			dead = &n
			break
		}
	}
	if dead == nil {
		t.Fatal("avatar never died")
	}
	if dead.Status != LimboDead {
		t.Errorf("status = %v, want dead", dead.Status)
	}
	if dead.Avatar == nil || dead.Avatar.Alive() {
		t.Errorf("notice avatar = %+v, want a corpse", dead.Avatar)
	}
	if e.Head() != 0 || len(e.Tracked()) != 0 {
		t.Errorf("stage not reset: head %d, tracked %v", e.Head(), e.Tracked())
	}
	if _, err := e.Act("a", Wait(), component.Senses{}); !errors.Is(err, ErrNoTracker) {
		t.Errorf("Act after death err = %v, want ErrNoTracker", err)
	}
}

// a sits far behind in subjective time, b dies next to a chaser. b stays in
// limbo until a catches up.
func TestLimboUntilBehindAvatarCatchesUp(t *testing.T) {
	e := NewEngine(layoutTemplate(t,
		"##############################",
		"#@.................@C........#",
		"##############################",
	))
	mustJoin(t, e, "a")
	mustJoin(t, e, "b")

	var notice LimboNotice
	found := false
	for range 10 {
		res := mustAct(t, e, "b", Wait(), component.Senses{})
		if notice, found = findNotice(res.Limbo, "b"); found {
			break
		}
	}
	if !found || notice.Status != LimboMaybeDead {
		t.Fatalf("b notice = %+v (found %v), want maybe_dead", notice, found)
	}
	deathTurn := notice.Turn
	if tr, _ := e.Tracker("b"); !tr.Limbo {
		t.Error("b tracker should be in limbo")
	}

	for {
		res := mustAct(t, e, "a", Wait(), component.Senses{})
		n, ok := findNotice(res.Limbo, "b")
		if res.Turn < deathTurn {
			if ok {
				t.Fatalf("turn %d: unexpected notice %+v while a is behind", res.Turn, n)
			}
			continue
		}
		if !ok || n.Status != LimboDead {
			t.Fatalf("turn %d: b notice = %+v, want dead", res.Turn, n)
		}
		break
	}
	if got := e.Tracked(); len(got) != 1 || got[0] != "a" {
		t.Errorf("Tracked() = %v, want [a]", got)
	}
}

func TestTooFarBehindDropped(t *testing.T) {
	e := NewEngine(layoutTemplate(t, roomRows...))
	mustJoin(t, e, "a")
	mustJoin(t, e, "b")
	for range LimboHorizon + 5 {
		res := mustAct(t, e, "b", Wait(), component.Senses{})
		n, ok := findNotice(res.Limbo, "a")
		if !ok {
			continue
		}
		if n.Status != LimboTooFarBehind {
			t.Fatalf("status = %v, want too_far_behind", n.Status)
		}
		if res.Turn-n.Turn != LimboHorizon+1 {
			t.Errorf("dropped at drift %d, want %d", res.Turn-n.Turn, LimboHorizon+1)
		}
		if _, tracked := e.Tracker("a"); tracked {
			t.Error("a still tracked")
		}
		return
	}
	t.Fatal("a was never dropped")
}

func TestLeaveBehindHeadFadesOut(t *testing.T) {
	e := NewEngine(layoutTemplate(t, roomRows...))
	mustJoin(t, e, "a")
	mustJoin(t, e, "b")
	for range 3 {
		mustAct(t, e, "b", Wait(), component.Senses{})
	}
	last, err := e.Leave("a")
	if err != nil {
		t.Fatalf("Leave(a): %v", err)
	}
	if last == nil || last.ID != "a" {
		t.Fatalf("Leave returned %+v", last)
	}
	st, err := e.State(e.Head())
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := st.Avatars["a"]; ok {
		t.Error("a still present at head after leaving")
	}
	if _, ok := st.Avatars["b"]; !ok {
		t.Error("b missing at head")
	}
}

func TestLeaveAtHeadIsAppliedToNextDiff(t *testing.T) {
	e := NewEngine(layoutTemplate(t, roomRows...))
	mustJoin(t, e, "a")
	mustJoin(t, e, "b")
	mustAct(t, e, "a", Wait(), component.Senses{})
	mustAct(t, e, "b", Wait(), component.Senses{}) // b at head 3
	if _, err := e.Leave("b"); err != nil {
		t.Fatal(err)
	}
	if got := e.Tracked(); !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("Tracked() = %v, want [a]", got)
	}
	for _, ts := range e.Status().Trackers {
		if ts.AvatarID == "b" {
			t.Errorf("Status() still reports b: %+v", ts)
		}
	}
	mustAct(t, e, "a", Wait(), component.Senses{}) // turn 3
	if st, _ := e.State(3); st.Avatars["b"] == nil {
		t.Error("b gone from the head it left at, want it present until the next diff")
	}
	res := mustAct(t, e, "a", Wait(), component.Senses{}) // turn 4, new diff
	st, _ := e.State(res.Turn)
	if _, ok := st.Avatars["b"]; ok {
		t.Error("b still present after its departure diff")
	}
	faded := false
	for _, ev := range e.Events(res.Turn) {
		if ev.Kind == event.KindFadedOut && ev.Target.ID == "b" {
			faded = true
		}
	}
	if !faded {
		t.Errorf("no FadedOut for b in %v", e.Events(res.Turn))
	}
}

func TestLastLeaveResetsStage(t *testing.T) {
	rows := []string{
		"##########",
		"#@.......#",
		"#......C.#",
		"##########",
	}
	e := NewEngine(layoutTemplate(t, rows...))
	mustJoin(t, e, "a")
	for range 5 {
		mustAct(t, e, "a", Move(component.DirE), component.Senses{Sight: 2})
	}
	if _, err := e.Leave("a"); err != nil {
		t.Fatal(err)
	}
	if e.Head() != 0 || e.Status().Checkpoints != 1 || len(e.Bounds()) != 0 {
		t.Fatalf("after last leave: %+v bounds %d", e.Status(), len(e.Bounds()))
	}

	mustJoin(t, e, "b")
	if e.Head() != 1 {
		t.Errorf("Head() = %d, want 1", e.Head())
	}
	fresh := NewEngine(layoutTemplate(t, rows...))
	mustJoin(t, fresh, "b")
	got, _ := e.State(1)
	want, _ := fresh.State(1)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("rejoined state differs from fresh stage:\ngot  %+v\nwant %+v", got, want)
	}
}

var chaseRows = []string{
	"####################",
	"#@...............@.#",
	"#..................#",
	"#........C.........#",
	"####################",
}

// The same diffs must yield the same state no matter the order in which the
// commands arrived and which checkpoints were cached on the way.
func TestDeterministicAcrossArrivalOrder(t *testing.T) {
	moves := []Action{Move(component.DirE), Move(component.DirE), Move(component.DirSE)}

	run := func(aFirst bool) *Engine {
		e := NewEngine(layoutTemplate(t, chaseRows...))
		mustJoin(t, e, "a")
		mustJoin(t, e, "b")
		actA := func() {
			for _, m := range moves {
				mustAct(t, e, "a", m, component.Senses{})
			}
		}
		actB := func() {
			for range 3 {
				mustAct(t, e, "b", Move(component.DirW), component.Senses{})
			}
		}
		if aFirst {
			actA()
			actB()
		} else {
			actB()
			actA()
		}
		return e
	}
	e1, e2 := run(true), run(false)
	if e1.Head() != e2.Head() {
		t.Fatalf("heads differ: %d vs %d", e1.Head(), e2.Head())
	}
	s1, _ := e1.State(e1.Head())
	s2, _ := e2.State(e2.Head())
	if !reflect.DeepEqual(s1, s2) {
		t.Errorf("states differ:\n%+v\n%+v", s1, s2)
	}
}

func TestRecomputeIsIdempotent(t *testing.T) {
	e := NewEngine(layoutTemplate(t, chaseRows...))
	mustJoin(t, e, "a")
	mustJoin(t, e, "b")
	for range 4 {
		mustAct(t, e, "b", Move(component.DirW), component.Senses{Self: true, Sight: 4})
	}
	mustAct(t, e, "a", Move(component.DirE), component.Senses{Self: true, Sight: 4})

	before, _ := e.State(e.Head())
	tr, _ := e.Tracker("a")
	if err := e.recompute(tr.Turn + 1); err != nil {
		t.Fatal(err)
	}
	after, _ := e.State(e.Head())
	if !reflect.DeepEqual(before, after) {
		t.Errorf("recompute changed head state:\n%+v\n%+v", before, after)
	}
}

// b watches a chaser that nobody is near. a, behind in time, then walks into
// the chaser's range; the rollback must not move the chaser b already saw.
func TestWitnessedPositionSurvivesRollback(t *testing.T) {
	tmpl := layoutTemplate(t, chaseRows...)
	tmpl.FocusRegen = 8
	e := NewEngine(tmpl)
	mustJoin(t, e, "a")
	mustJoin(t, e, "b")
	for range 3 {
		res := mustAct(t, e, "b", Wait(), component.Senses{Sight: 8})
		if res.Perception == nil {
			t.Fatal("b should not be tired")
		}
	}
	for range 3 {
		mustAct(t, e, "a", Move(component.DirE), component.Senses{})
	}

	assertBoundsHold(t, e)
	st, _ := e.State(5)
	if got := st.Foe("chaser-1").Pos; got != pos(9, 3) {
		t.Errorf("chaser at %v on b's turn, want (9,3)", got)
	}
	teleported := false
	for _, ev := range e.Events(5) {
		if ev.Kind == event.KindParadoxTeleport && ev.Target.ID == "chaser-1" && ev.To == pos(9, 3) {
			teleported = true
		}
	}
	if !teleported {
		t.Errorf("no paradox teleport at turn 5: %v", e.Events(5))
	}
}

// Same setup, but the check is on a's own turn 4. b saw the chaser at turns
// 3, 4 and 5; every one of those sightings must still pin it.
func TestEarlierSightingsStayPinned(t *testing.T) {
	tmpl := layoutTemplate(t, chaseRows...)
	tmpl.FocusRegen = 8
	e := NewEngine(tmpl)
	mustJoin(t, e, "a")
	mustJoin(t, e, "b")
	for range 3 {
		mustAct(t, e, "b", Wait(), component.Senses{Sight: 8})
	}
	for range 3 {
		mustAct(t, e, "a", Move(component.DirE), component.Senses{})
	}

	assertBoundsHold(t, e)
	st, err := e.State(4)
	if err != nil {
		t.Fatalf("State(4): %v", err)
	}
	if got := st.Foe("chaser-1").Pos; got != pos(9, 3) {
		t.Errorf("chaser at %v on turn 4, want (9,3)", got)
	}
	teleported := false
	for _, ev := range e.Events(4) {
		if ev.Kind == event.KindParadoxTeleport && ev.Target.ID == "chaser-1" && ev.To == pos(9, 3) {
			teleported = true
		}
	}
	if !teleported {
		t.Errorf("no paradox teleport at turn 4: %v", e.Events(4))
	}
}

// The chaser first beats on a. b watches its own HP at 4 for three turns.
// a then steps away in the past, which turns the chaser on b; b's witnessed
// HP must survive every rewritten turn, including the one that would kill it.
func TestSelfWitnessedHPSurvivesRollback(t *testing.T) {
	e := NewEngine(layoutTemplate(t,
		"########",
		"#.@C@..#",
		"########",
	))
	mustJoin(t, e, "a")
	b := NewAvatar("b", "player-b", "b")
	b.HP.Current = 4
	if err := e.Join(b); err != nil {
		t.Fatalf("Join(b): %v", err)
	}
	for range 3 {
		res := mustAct(t, e, "b", Wait(), component.Senses{Self: true})
		if res.Avatar.HP.Current != 4 {
			t.Fatalf("b HP = %d before the rollback, want 4", res.Avatar.HP.Current)
		}
	}
	mustAct(t, e, "a", Move(component.DirW), component.Senses{}) // turn 2

	assertBoundsHold(t, e)
	st, _ := e.State(5)
	if got := st.Avatars["b"].HP.Current; got != 4 {
		t.Errorf("b HP at turn 5 = %d, want 4", got)
	}
	hit := false
	for _, ev := range e.Events(5) {
		if ev.Kind == event.KindAttack && ev.Target.ID == "b" {
			hit = true
		}
	}
	if !hit {
		t.Errorf("chaser never turned on b at turn 5: %v", e.Events(5))
	}
	for turn := 2; turn <= 5; turn++ {
		for _, ev := range e.Events(turn) {
			if ev.Kind == event.KindKill && ev.Target.ID == "b" {
				t.Errorf("turn %d: kill of b despite the HP floor", turn)
			}
		}
	}
	if a, _ := e.State(2); a.Avatars["a"].HP.Current != 8 {
		t.Errorf("a HP at turn 2 = %d, want 8", a.Avatars["a"].HP.Current)
	}
}

// b kills the chaser and sees its corpse at turn 8. a, behind, then lures the
// chaser away from b; the corpse b saw must still be a corpse, and b hears
// about the paradox.
func TestWitnessedCorpseStaysDead(t *testing.T) {
	e := NewEngine(layoutTemplate(t,
		"###########",
		"#@........#",
		"#...@....C#",
		"###########",
	))
	mustJoin(t, e, "a")
	mustJoin(t, e, "b")
	for range 3 {
		mustAct(t, e, "b", Wait(), component.Senses{})
	}
	mustAct(t, e, "b", Attack(component.DirE), component.Senses{})
	mustAct(t, e, "b", Attack(component.DirE), component.Senses{})
	res := mustAct(t, e, "b", Attack(component.DirE), component.Senses{Sight: 8})
	if res.Turn != 8 || res.Resolved.Outcome != OutcomeAttack {
		t.Fatalf("b's last act = turn %d %v, want turn 8 attack", res.Turn, res.Resolved.Outcome)
	}
	for range 3 {
		mustAct(t, e, "a", Move(component.DirE), component.Senses{})
	}

	assertBoundsHold(t, e)
	st, err := e.State(8)
	if err != nil {
		t.Fatalf("State(8): %v", err)
	}
	if st.Foe("chaser-1").Alive() {
		t.Error("chaser alive at turn 8 despite b seeing it dead")
	}
	if got := st.Avatars["b"].Resolved.Outcome; got != OutcomeFumble {
		t.Errorf("b's rewritten attack = %v, want fumble", got)
	}
	paradox := false
	for _, ev := range e.Events(8) {
		if ev.Kind == event.KindParadoxDeath && ev.Target.ID == "chaser-1" {
			paradox = true
		}
	}
	if !paradox {
		t.Errorf("no paradox death at turn 8: %v", e.Events(8))
	}
	heard := false
	for _, l := range st.Avatars["b"].Log {
		if strings.Contains(l.Text, "struck down by a paradox") {
			heard = true
		}
	}
	if !heard {
		t.Errorf("b's log = %v, want the paradox death", st.Avatars["b"].Log)
	}
}

// assertBoundsHold checks every bound against any retained checkpoint at
// its turn.
func assertBoundsHold(t *testing.T, e *Engine) {
	t.Helper()
	for _, b := range e.Bounds() {
		st, err := e.State(b.Turn)
		if err != nil {
			continue
		}
		switch b.Kind {
		case BoundHPFloor:
			if a, ok := st.Avatars[b.Subject]; ok && a.HP.Current < b.HP {
				t.Errorf("turn %d: %s HP %d below floor %d", b.Turn, b.Subject, a.HP.Current, b.HP)
			}
		case BoundDeath:
			if f := st.Foe(b.Subject); f != nil && f.Alive() {
				t.Errorf("turn %d: %s alive despite witnessed death", b.Turn, b.Subject)
			}
		case BoundPosition:
			if f := st.Foe(b.Subject); f != nil && f.Pos != b.Pos {
				t.Errorf("turn %d: %s at %v, pinned at %v", b.Turn, b.Subject, f.Pos, b.Pos)
			}
		}
	}
}

func TestRetainedCheckpoints(t *testing.T) {
	e := NewEngine(layoutTemplate(t, roomRows...))
	mustJoin(t, e, "a")
	mustJoin(t, e, "b")
	mustJoin(t, e, "c")
	for range 4 {
		mustAct(t, e, "c", Wait(), component.Senses{})
	}
	mustAct(t, e, "a", Wait(), component.Senses{})

	want := map[int]bool{e.Head(): true}
	for _, id := range e.Tracked() {
		tr, _ := e.Tracker(id)
		want[tr.Turn] = true
	}
	if len(e.checkpoints) != len(want) {
		t.Errorf("checkpoints at %v, want %v", keys(e.checkpoints), want)
	}
	for turn := range want {
		if _, ok := e.checkpoints[turn]; !ok {
			t.Errorf("missing checkpoint for turn %d", turn)
		}
	}
	tr, _ := e.Tracker("b")
	if e.win.first() > tr.Turn {
		t.Errorf("window starts at %d, after most-behind tracker %d", e.win.first(), tr.Turn)
	}
}

func keys(m map[int]*State) []int {
	var out []int
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestStatus(t *testing.T) {
	e := NewEngine(layoutTemplate(t, roomRows...))
	mustJoin(t, e, "a")
	mustAct(t, e, "a", Wait(), component.Senses{})
	s := e.Status()
	if s.ID != "test" || s.Head != 2 || len(s.Trackers) != 1 || s.Trackers[0].Turn != 2 {
		t.Errorf("Status() = %+v", s)
	}
	if !strings.Contains(s.Name, "Test") {
		t.Errorf("Name = %q", s.Name)
	}
}
