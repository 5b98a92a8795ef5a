package stage

import (
	"fmt"
	"sort"

	"chronorogue/internal/component"
	"chronorogue/internal/event"
)

// TurnResult is what an accepted action produces for its avatar.
type TurnResult struct {
	Turn int
	// Perception is nil when the avatar was too tired to use its senses.
	Perception *Perception
	Logs       []event.LogEntry
	Limbo      []LimboNotice
	Resolved   Resolved
	Transition Transition
	Avatar     *Avatar
}

// Engine owns one stage's diff window, checkpoints, trackers and ledgers.
// It is not safe for concurrent use; the world loop serializes access.
type Engine struct {
	tmpl        *Template
	win         window
	checkpoints map[int]*State
	trackers    map[string]*Tracker
	pending     []string // departures at head, attached to the next diff
	bounds      *BoundLedger
	ledger      *event.Ledger
}

// NewEngine returns an engine at turn zero of t.
func NewEngine(t *Template) *Engine {
	e := &Engine{tmpl: t, bounds: NewBoundLedger(), ledger: event.NewLedger()}
	e.reset()
	return e
}

func (e *Engine) reset() {
	e.win.reset()
	e.checkpoints = map[int]*State{0: e.tmpl.initialState()}
	e.trackers = make(map[string]*Tracker)
	e.pending = nil
	e.bounds.Clear()
	e.ledger.Clear()
}

func (e *Engine) Template() *Template { return e.tmpl }

// Head is the furthest turn reached by any avatar.
func (e *Engine) Head() int { return e.win.head }

// Tracker returns a copy of the avatar's tracker.
func (e *Engine) Tracker(id string) (Tracker, bool) {
	tr, ok := e.trackers[id]
	if !ok {
		return Tracker{}, false
	}
	return *tr, true
}

// Tracked lists tracked avatar IDs, sorted.
func (e *Engine) Tracked() []string {
	ids := make([]string, 0, len(e.trackers))
	for id := range e.trackers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// State returns a copy of the checkpoint at turn.
func (e *Engine) State(turn int) (*State, error) {
	st, ok := e.checkpoints[turn]
	if !ok {
		return nil, &CheckpointError{Turn: turn}
	}
	return st.Clone(), nil
}

// Events returns the raw events recorded for turn.
func (e *Engine) Events(turn int) []event.Event { return e.ledger.At(turn) }

// Bounds returns the current causal bounds.
func (e *Engine) Bounds() []Bound { return e.bounds.Bounds() }

// Join adds a at a new head turn.
func (e *Engine) Join(a *Avatar) error {
	if _, ok := e.trackers[a.ID]; ok {
		return fmt.Errorf("join %q: %w", a.ID, ErrAlreadyJoined)
	}
	d := e.extend()
	d.Joining = a.Clone()
	e.trackers[a.ID] = &Tracker{Turn: e.win.head}
	if err := e.recompute(e.win.head); err != nil {
		return fmt.Errorf("join %q: %w", a.ID, err)
	}
	e.compact()
	return nil
}

// Leave drops the avatar and returns its last known state.
func (e *Engine) Leave(id string) (*Avatar, error) {
	tr, ok := e.trackers[id]
	if !ok {
		return nil, &TrackerError{AvatarID: id}
	}
	last := e.avatarAt(id, tr.Turn)
	if err := e.drop(id, tr); err != nil {
		return last, fmt.Errorf("leave %q: %w", id, err)
	}
	return last, nil
}

// Act records an action at the avatar's next turn, recomputes, and reports
// what the avatar perceived. Limbo notices may concern any avatar.
func (e *Engine) Act(id string, act Action, senses component.Senses) (*TurnResult, error) {
	tr, ok := e.trackers[id]
	if !ok {
		return nil, &TrackerError{AvatarID: id}
	}
	turn := tr.Turn + 1
	var d *Diff
	if turn > e.win.head {
		d = e.extend()
	} else {
		var err error
		if d, err = e.win.at(turn); err != nil {
			return nil, fmt.Errorf("act %q: %w", id, err)
		}
	}
	senses = senses.Restrict(e.tmpl.AllowedSenses)
	d.Submissions[id] = Submission{Action: act, Senses: senses}
	tr.Turn = turn
	if err := e.recompute(turn); err != nil {
		return nil, fmt.Errorf("act %q: %w", id, err)
	}

	a := e.avatarAt(id, turn)
	if a == nil {
		return nil, fmt.Errorf("act %q: %w", id, &CheckpointError{Turn: turn})
	}
	res := &TurnResult{
		Turn:       turn,
		Perception: a.Perception,
		Logs:       a.Log,
		Resolved:   a.Resolved,
		Transition: a.Transition,
		Avatar:     a.Clone(),
	}
	e.witness(a)
	e.compact()

	notices, err := e.LimboSweep()
	res.Limbo = notices
	if err != nil {
		return res, fmt.Errorf("act %q: %w", id, err)
	}
	return res, nil
}

// LimboSweep drops trackers that fell too far behind, then classifies every
// dead avatar as confirmed or provisional.
func (e *Engine) LimboSweep() ([]LimboNotice, error) {
	var notices []LimboNotice
	for _, id := range e.Tracked() {
		tr, ok := e.trackers[id]
		if !ok || e.win.head-tr.Turn <= LimboHorizon {
			continue
		}
		notices = append(notices, LimboNotice{AvatarID: id, Status: LimboTooFarBehind, Turn: tr.Turn, Avatar: e.avatarAt(id, tr.Turn)})
		if err := e.drop(id, tr); err != nil {
			return notices, err
		}
	}

	rows := make([]limboRow, 0, len(e.trackers))
	for id, tr := range e.trackers {
		a := e.avatarAt(id, tr.Turn)
		rows = append(rows, limboRow{id: id, turn: tr.Turn, dead: a == nil || !a.Alive(), limbo: tr.Limbo})
	}
	var dead []string
	for _, v := range classify(rows) {
		tr := e.trackers[v.id]
		notices = append(notices, LimboNotice{AvatarID: v.id, Status: v.status, Turn: tr.Turn, Avatar: e.avatarAt(v.id, tr.Turn)})
		switch v.status {
		case LimboMaybeDead:
			tr.Limbo = true
		case LimboAverted:
			tr.Limbo = false
		case LimboDead:
			dead = append(dead, v.id)
		}
	}
	for _, id := range dead {
		tr, ok := e.trackers[id]
		if !ok {
			continue
		}
		if err := e.drop(id, tr); err != nil {
			return notices, err
		}
	}
	return notices, nil
}

// TrackerStatus is one row of Status.
type TrackerStatus struct {
	AvatarID string `json:"avatar_id"`
	Turn     int    `json:"turn"`
	Limbo    bool   `json:"limbo"`
}

// Status is an operator view of the engine.
type Status struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Head        int             `json:"head"`
	First       int             `json:"first"`
	Checkpoints int             `json:"checkpoints"`
	Bounds      int             `json:"bounds"`
	Trackers    []TrackerStatus `json:"trackers"`
}

func (e *Engine) Status() Status {
	s := Status{
		ID:          e.tmpl.ID,
		Name:        e.tmpl.Name,
		Head:        e.win.head,
		First:       e.win.first(),
		Checkpoints: len(e.checkpoints),
		Bounds:      len(e.bounds.Bounds()),
	}
	for _, id := range e.Tracked() {
		tr := e.trackers[id]
		s.Trackers = append(s.Trackers, TrackerStatus{AvatarID: id, Turn: tr.Turn, Limbo: tr.Limbo})
	}
	return s
}

// ─── Internals ──────────────────────────────────────────────────────────────

func (e *Engine) extend() *Diff {
	d := e.win.extend()
	d.Leaving = e.pending
	e.pending = nil
	return d
}

func (e *Engine) avatarAt(id string, turn int) *Avatar {
	st, ok := e.checkpoints[turn]
	if !ok {
		return nil
	}
	a, ok := st.Avatars[id]
	if !ok {
		return nil
	}
	return a.Clone()
}

// drop removes a tracker. A departure behind head is written into the next
// diff and replayed; one at head waits for the next appended diff.
func (e *Engine) drop(id string, tr *Tracker) error {
	delete(e.trackers, id)
	e.bounds.Release(id)
	if len(e.trackers) == 0 {
		e.reset()
		return nil
	}
	if tr.Turn < e.win.head {
		d, err := e.win.at(tr.Turn + 1)
		if err != nil {
			return err
		}
		d.Leaving = append(d.Leaving, id)
		if err := e.recompute(tr.Turn + 1); err != nil {
			return err
		}
	} else {
		e.pending = append(e.pending, id)
	}
	e.compact()
	return nil
}

// witness pins what a was just shown.
func (e *Engine) witness(a *Avatar) {
	p := a.Perception
	if p == nil {
		return
	}
	if p.Senses.Self {
		e.bounds.WitnessSelf(a.ID, p.Turn, a.HP.Current)
	}
	if sight, ok := p.Sense(component.SenseSight); ok {
		e.bounds.WitnessSight(a.ID, p.Turn, p.Pos, sight.sightings())
	}
}

// retained is the set of turns that must keep a checkpoint.
func (e *Engine) retained() map[int]bool {
	keep := map[int]bool{e.win.head: true}
	for _, tr := range e.trackers {
		keep[tr.Turn] = true
	}
	return keep
}

// recompute replays every diff after the newest checkpoint before from
// through head, storing checkpoints at retained turns.
func (e *Engine) recompute(from int) error {
	base := -1
	for t := range e.checkpoints {
		if t < from && t > base {
			base = t
		}
	}
	if base < 0 {
		return &CheckpointError{Turn: from - 1}
	}
	keep := e.retained()
	st := e.checkpoints[base].Clone()
	for t := base + 1; t <= e.win.head; t++ {
		d, err := e.win.at(t)
		if err != nil {
			return err
		}
		events := replayTurn(e.tmpl, e.bounds, st, d)
		e.ledger.Reset(t)
		for _, ev := range events {
			e.ledger.Append(ev)
		}
		if keep[t] {
			e.checkpoints[t] = st
			st = st.Clone()
		}
	}
	e.prune(keep)
	return nil
}

func (e *Engine) prune(keep map[int]bool) {
	for t := range e.checkpoints {
		if !keep[t] {
			delete(e.checkpoints, t)
		}
	}
}

// compact drops history older than the most-behind tracker.
func (e *Engine) compact() {
	earliest := e.win.head
	for _, tr := range e.trackers {
		earliest = min(earliest, tr.Turn)
	}
	e.win.dropBefore(earliest)
	e.ledger.Compact(earliest)
	e.bounds.Compact(earliest)
	e.prune(e.retained())
}
