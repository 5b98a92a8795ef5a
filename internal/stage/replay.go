package stage

import (
	"math/rand"
	"sort"

	"chronorogue/internal/component"
	"chronorogue/internal/event"
	"chronorogue/internal/system"
)

// bumpSenses are the senses that notice a blocked move.
var bumpSenses = component.SetOf(component.SenseSelf, component.SenseTouch, component.SenseHearing)

// orbSpawn picks the orb location for turn, avoiding old when possible.
func (t *Template) orbSpawn(turn int, old *component.Position) component.Position {
	candidates := t.OrbSpawns
	if old != nil && len(candidates) > 1 {
		candidates = make([]component.Position, 0, len(t.OrbSpawns)-1)
		for _, p := range t.OrbSpawns {
			if p != *old {
				candidates = append(candidates, p)
			}
		}
	}
	rng := rand.New(rand.NewSource(t.Seed*1_000_003 + int64(turn)))
	return candidates[rng.Intn(len(candidates))]
}

// turnRun replays a single diff onto a state.
type turnRun struct {
	tmpl   *Template
	bounds *BoundLedger
	st     *State
	diff   *Diff
	events []event.Event
}

func (r *turnRun) emit(e event.Event) {
	e.Turn = r.st.Turn
	if e.Senses == 0 {
		e.Senses = component.AllSenses
	}
	r.events = append(r.events, e)
}

// replayTurn advances st (a copy of the previous checkpoint) through d and
// returns the raw events of the turn.
func replayTurn(tmpl *Template, bounds *BoundLedger, st *State, d *Diff) []event.Event {
	st.Turn = d.Turn
	r := &turnRun{tmpl: tmpl, bounds: bounds, st: st, diff: d}
	for _, a := range st.Avatars {
		a.resetTurn()
	}
	r.removeLeaving()
	r.addJoining()
	r.relocateOrb()

	// The same senses are reused for perception and delivery below.
	senses := make(map[string]component.Senses, len(d.Submissions))
	for _, id := range d.submitters() {
		if s, ok := r.applySubmission(id); ok {
			senses[id] = s
		}
	}
	r.runFoes()
	r.events = append(r.events, bounds.Enforce(st)...)
	r.dropStaleKills()
	windows := r.perceive(senses)
	r.deliver(senses, windows)
	return r.events
}

func (r *turnRun) removeLeaving() {
	leaving := append([]string(nil), r.diff.Leaving...)
	sort.Strings(leaving)
	for _, id := range leaving {
		a, ok := r.st.Avatars[id]
		if !ok {
			continue
		}
		r.emit(event.Event{Kind: event.KindFadedOut, Source: a.Pos, Target: a.ref()})
		delete(r.st.Avatars, id)
	}
}

func (r *turnRun) addJoining() {
	if r.diff.Joining == nil {
		return
	}
	a := r.diff.Joining.Clone()
	a.resetTurn()
	a.Pos = r.spawnPoint(a.ID)
	r.st.Avatars[a.ID] = a
}

// spawnPoint is the first template spawn not held by a living avatar or
// blocking foe; the first spawn if all are taken.
func (r *turnRun) spawnPoint(id string) component.Position {
	for _, p := range r.tmpl.Spawns {
		if r.st.livingAvatarAt(p, id) != nil {
			continue
		}
		if f := r.st.livingFoeAt(p); f != nil && f.Kind == component.FoeChaser {
			continue
		}
		return p
	}
	return r.tmpl.Spawns[0]
}

func (r *turnRun) relocateOrb() {
	orb := &r.st.Orb
	if !orb.Present || !orb.Excited {
		return
	}
	old := orb.Pos
	orb.Pos = r.tmpl.orbSpawn(r.st.Turn, &old)
	orb.Excited = false
}

func (r *turnRun) occupant(self string) func(component.Position) system.Occupant {
	return func(p component.Position) system.Occupant {
		if f := r.st.livingFoeAt(p); f != nil {
			return system.Occupant{Kind: system.OccupantFoe, ID: f.ID, Blocking: f.Kind == component.FoeChaser}
		}
		if a := r.st.livingAvatarAt(p, self); a != nil {
			return system.Occupant{Kind: system.OccupantAvatar, ID: a.ID}
		}
		if r.st.Orb.Present && r.st.Orb.Pos == p {
			return system.Occupant{Kind: system.OccupantOrb}
		}
		return system.Occupant{}
	}
}

// applySubmission handles focus and the avatar's action. It returns the
// senses to perceive with, false when the avatar is tired or absent.
func (r *turnRun) applySubmission(id string) (component.Senses, bool) {
	a, ok := r.st.Avatars[id]
	if !ok {
		return component.Senses{}, false
	}
	sub := r.diff.Submissions[id]
	a.Turns++

	a.Focus += r.tmpl.FocusRegen
	if a.Focus > a.MaxFocus {
		a.Focus = a.MaxFocus
	}
	senses := sub.Senses
	if cost := senses.Cost(); cost > a.Focus {
		a.Tired = true
	} else {
		a.Focus -= cost
	}

	if !a.Alive() {
		a.Resolved = Resolved{Outcome: OutcomeIgnored}
	} else {
		r.applyAction(a, sub.Action)
	}
	if a.Tired {
		return component.Senses{}, false
	}
	return senses, true
}

func (r *turnRun) applyAction(a *Avatar, act Action) {
	if act.Kind == ActWait {
		a.Resolved = Resolved{Outcome: OutcomeWait}
		return
	}
	res, to, occ := system.ResolveStep(r.tmpl.Map, a.Pos, act.Dir, act.Kind == ActAttack, r.occupant(a.ID))
	a.Resolved = Resolved{Dir: act.Dir}
	switch res {
	case system.StepMove:
		a.Resolved.Outcome = OutcomeMove
		a.Pos = to
	case system.StepBlocked:
		a.Resolved.Outcome = OutcomeBlocked
		r.emit(event.Event{Kind: event.KindBump, Source: a.Pos, Senses: bumpSenses, Actor: a.ref()})
	case system.StepFumble:
		a.Resolved.Outcome = OutcomeFumble
		r.emit(event.Event{Kind: event.KindFumble, Source: a.Pos, Actor: a.ref()})
	case system.StepTake:
		a.Resolved.Outcome = OutcomeTake
		a.Pos = to
		a.Orbs++
		a.Transition = TransitionNextStage
		r.st.Orb.Excited = true
		r.emit(event.Event{Kind: event.KindOrbTaken, Source: to, Actor: a.ref()})
	case system.StepAttack:
		a.Resolved.Outcome = OutcomeAttack
		a.Resolved.Target = occ.ID
		f := r.st.Foe(occ.ID)
		if f == nil {
			return
		}
		f.HP = f.HP.Damage(component.AvatarDamage)
		r.emit(event.Event{Kind: event.KindAttack, Source: f.Pos, Actor: a.ref(), Target: f.ref(), Amount: component.AvatarDamage})
		if !f.Alive() {
			r.emit(event.Event{Kind: event.KindKill, Source: f.Pos, Actor: a.ref(), Target: f.ref()})
		}
	}
}

// runFoes evaluates every living foe against one snapshot, then applies
// attacks in foe order followed by moves.
func (r *turnRun) runFoes() {
	var views []system.AvatarView
	for _, id := range r.st.AvatarIDs() {
		a := r.st.Avatars[id]
		views = append(views, system.AvatarView{ID: a.ID, Pos: a.Pos, HP: a.HP.Current})
	}
	var decisions []system.Decision
	for _, f := range r.st.Foes {
		decisions = append(decisions, system.DecideFoe(system.FoeView{
			ID: f.ID, Kind: f.Kind, Pos: f.Pos, HP: f.HP.Current,
		}, views)...)
	}
	for _, d := range decisions {
		if d.Kind != system.DecideAttack {
			continue
		}
		f, a := r.st.Foe(d.FoeID), r.st.Avatars[d.Target]
		if f == nil || a == nil || !a.Alive() {
			continue
		}
		a.HP = a.HP.Damage(d.Damage)
		r.emit(event.Event{Kind: event.KindAttack, Source: a.Pos, Actor: f.ref(), Target: a.ref(), Amount: d.Damage})
		if !a.Alive() {
			r.emit(event.Event{Kind: event.KindKill, Source: a.Pos, Actor: f.ref(), Target: a.ref()})
		}
	}
	for _, d := range decisions {
		if d.Kind != system.DecideMoveTo {
			continue
		}
		f := r.st.Foe(d.FoeID)
		if f == nil || !r.tmpl.Map.Walkable(d.Pos) {
			continue
		}
		if r.st.livingFoeAt(d.Pos) != nil || r.st.livingAvatarAt(d.Pos, "") != nil {
			continue
		}
		f.Pos = d.Pos
	}
}

// dropStaleKills removes kill events whose victim an HP floor kept alive.
func (r *turnRun) dropStaleKills() {
	kept := r.events[:0]
	for _, e := range r.events {
		if e.Kind == event.KindKill && e.Target.Kind == event.RefAvatar {
			if a, ok := r.st.Avatars[e.Target.ID]; ok && a.Alive() {
				continue
			}
		}
		kept = append(kept, e)
	}
	r.events = kept
}

// perceive builds perceptions for the avatars that acted and are not tired,
// and excites the orb when any sight window contains it.
func (r *turnRun) perceive(senses map[string]component.Senses) map[string]*system.Window {
	windows := make(map[string]*system.Window, len(senses))
	ids := make([]string, 0, len(senses))
	for id := range senses {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		a := r.st.Avatars[id]
		s := senses[id]
		var win *system.Window
		if s.Sight > 0 {
			win = system.FOV(r.tmpl.Map, a.Pos, s.Sight)
			windows[id] = win
		}
		a.Perception = perceive(r.st, a, s, win)
		if r.st.Orb.Present && win.Visible(r.st.Orb.Pos) {
			r.st.Orb.Excited = true
			r.emit(event.Event{Kind: event.KindOrbSighted, Source: r.st.Orb.Pos, Actor: a.ref()})
		}
	}
	return windows
}

// deliver fills in the log of every avatar that submitted this turn. Tired
// avatars only get what their free self sense reports.
func (r *turnRun) deliver(senses map[string]component.Senses, windows map[string]*system.Window) {
	for _, id := range r.diff.submitters() {
		a, ok := r.st.Avatars[id]
		if !ok {
			continue
		}
		s, ok := senses[id]
		if !ok {
			s = component.Senses{Self: r.diff.Submissions[id].Senses.Self}
		}
		v := event.Viewer{AvatarID: id, Pos: a.Pos, Senses: s, Window: windows[id]}
		a.Log = event.Entries(event.Deliver(v, r.events))
	}
}
