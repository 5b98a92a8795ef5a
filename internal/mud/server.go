// Package mud is the world: one stage engine per template and the single
// command queue that serializes every connection's commands. A ticker
// goroutine drains the queue each poll interval, applies the batch under the
// world lock, sweeps limbo on every stage, and then hands updates to sessions
// outside the lock.
package mud

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"chronorogue/internal/component"
	"chronorogue/internal/leaderboard"
	"chronorogue/internal/stage"
)

// PollInterval is the default wall-clock period between batches.
const PollInterval = 50 * time.Millisecond

// QueueSize is the default command queue capacity.
const QueueSize = 1024

// ErrQueueFull is returned when a command cannot be queued.
var ErrQueueFull = errors.New("mud: command queue full")

type cmdKind uint8

const (
	cmdJoin cmdKind = iota
	cmdAct
	cmdLeave
)

type command struct {
	kind   cmdKind
	sess   *Session
	act    stage.Action
	senses component.Senses
}

type outgoing struct {
	sess *Session
	u    Update
}

// Option configures a Server.
type Option func(*Server)

// WithPollInterval sets how often the queue is drained.
func WithPollInterval(d time.Duration) Option { return func(s *Server) { s.poll = d } }

// WithQueueSize sets the command queue capacity.
func WithQueueSize(n int) Option { return func(s *Server) { s.queue = make(chan command, n) } }

// WithRecorder stores finished runs with r.
func WithRecorder(r Recorder) Option { return func(s *Server) { s.recorder = r } }

// Server manages every stage and session.
type Server struct {
	mu       sync.Mutex
	engines  []*stage.Engine
	sessions map[string]*Session // by avatar id

	queue    chan command
	poll     time.Duration
	recorder Recorder
	logger   *slog.Logger

	// filled under mu, flushed after each batch
	outbox []outgoing
	runs   []leaderboard.Run
}

// NewServer builds a world with one engine per template. Templates are
// visited in order when an avatar takes an orb; the last wraps to the first.
func NewServer(templates []*stage.Template, logger *slog.Logger, opts ...Option) (*Server, error) {
	if len(templates) == 0 {
		return nil, fmt.Errorf("mud: no stages")
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		sessions: make(map[string]*Session),
		queue:    make(chan command, QueueSize),
		poll:     PollInterval,
		logger:   logger,
	}
	for _, t := range templates {
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("mud: %w", err)
		}
		s.engines = append(s.engines, stage.NewEngine(t))
	}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// Run drains the command queue every poll interval until ctx is done.
// Commands still queued at that point are applied once more so departing
// runs get recorded.
func (s *Server) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.poll)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.tick(context.WithoutCancel(ctx))
			return ctx.Err()
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// ─── Commands ────────────────────────────────────────────────────────────────

// Connect creates a session and queues its first join.
func (s *Server) Connect(name string) (*Session, error) {
	sess := NewSession(name)
	return sess, s.Join(sess)
}

// Join queues a join for sess. A session whose run ended starts a new run
// on its current stage; a session that lost its tracker rejoins with the
// same avatar id.
func (s *Server) Join(sess *Session) error { return s.enqueue(command{kind: cmdJoin, sess: sess}) }

// Act queues an action.
func (s *Server) Act(sess *Session, act stage.Action, senses component.Senses) error {
	return s.enqueue(command{kind: cmdAct, sess: sess, act: act, senses: senses})
}

// Disconnect queues the session's departure.
func (s *Server) Disconnect(sess *Session) error {
	return s.enqueue(command{kind: cmdLeave, sess: sess})
}

func (s *Server) enqueue(c command) error {
	select {
	case s.queue <- c:
		return nil
	default:
		return ErrQueueFull
	}
}

// ─── Tick ────────────────────────────────────────────────────────────────────

func (s *Server) tick(ctx context.Context) {
	batch := s.drain()

	s.mu.Lock()
	for _, c := range batch {
		switch c.kind {
		case cmdJoin:
			s.joinLocked(c.sess)
		case cmdAct:
			s.actLocked(c.sess, c.act, c.senses)
		case cmdLeave:
			s.leaveLocked(c.sess)
		}
	}
	for i, e := range s.engines {
		notices, err := e.LimboSweep()
		if err != nil {
			s.logger.Error("limbo sweep", "stage", e.Template().ID, "error", err)
		}
		s.noticesLocked(i, notices)
	}
	out, runs := s.outbox, s.runs
	s.outbox, s.runs = nil, nil
	s.mu.Unlock()

	// Deliver and persist outside the lock so slow clients or a slow disk
	// don't hold up the next batch.
	for _, o := range out {
		select {
		case o.sess.Updates <- o.u:
		default:
			s.logger.Warn("session update dropped", "player", o.sess.PlayerID, "kind", o.u.Kind.String())
		}
	}
	if s.recorder != nil {
		for _, r := range runs {
			if err := s.recorder.Record(ctx, r); err != nil {
				s.logger.Warn("run log: cannot record", "player", r.PlayerID, "error", err)
			}
		}
	}
}

func (s *Server) drain() []command {
	var batch []command
	for {
		select {
		case c := <-s.queue:
			batch = append(batch, c)
		default:
			return batch
		}
	}
}

func (s *Server) push(sess *Session, u Update) {
	u.Logs = sess.snapshot()
	s.outbox = append(s.outbox, outgoing{sess: sess, u: u})
}

func (s *Server) pushErr(sess *Session, err error) {
	s.push(sess, Update{Kind: UpdateError, Err: err})
}

// joinLocked places the session's avatar on its current stage.
// Caller must hold s.mu.
func (s *Server) joinLocked(sess *Session) {
	if sess.avatarID == "" {
		sess.newRun()
	}
	e := s.engines[sess.stage]
	if _, ok := e.Tracker(sess.avatarID); ok {
		s.pushErr(sess, fmt.Errorf("join: %w", stage.ErrAlreadyJoined))
		return
	}
	a := stage.NewAvatar(sess.avatarID, sess.PlayerID, sess.Name)
	a.Stage = sess.stage
	s.enterLocked(sess, a)
}

func (s *Server) enterLocked(sess *Session, a *stage.Avatar) {
	e := s.engines[sess.stage]
	if err := e.Join(a); err != nil {
		delete(s.sessions, a.ID)
		s.pushErr(sess, err)
		return
	}
	s.sessions[a.ID] = sess
	s.logger.Info("avatar joined", "player", sess.PlayerID, "name", sess.Name, "stage", e.Template().ID, "turn", e.Head())
	s.push(sess, Update{Kind: UpdateEnter, Stage: s.stageInfo(sess.stage)})
}

// actLocked submits one action. Caller must hold s.mu.
func (s *Server) actLocked(sess *Session, act stage.Action, senses component.Senses) {
	idx := sess.stage
	e := s.engines[idx]
	res, err := e.Act(sess.avatarID, act, senses)
	if res == nil {
		s.pushErr(sess, err)
		return
	}
	if err != nil {
		s.logger.Error("act", "player", sess.PlayerID, "stage", e.Template().ID, "error", err)
	}
	sess.mergeLogs(res.Logs)
	s.push(sess, Update{Kind: UpdateTurn, Result: res})
	s.noticesLocked(idx, res.Limbo)

	if res.Transition == stage.TransitionNextStage && sess.stage == idx {
		if _, ok := e.Tracker(sess.avatarID); ok {
			s.advanceLocked(sess)
		}
	}
}

// advanceLocked moves the avatar to the next stage, carrying its vitals.
func (s *Server) advanceLocked(sess *Session) {
	from := s.engines[sess.stage]
	last, err := from.Leave(sess.avatarID)
	if err != nil {
		s.pushErr(sess, err)
		return
	}
	if last == nil {
		s.endLocked(sess, nil, OutcomeLeft)
		return
	}
	sess.stage = (sess.stage + 1) % len(s.engines)
	a := stage.NewAvatar(last.ID, last.PlayerID, last.Name)
	a.HP = last.HP
	a.Focus = last.Focus
	a.MaxFocus = last.MaxFocus
	a.Orbs = last.Orbs
	a.Turns = last.Turns
	a.Stage = sess.stage
	s.logger.Info("avatar advanced", "player", sess.PlayerID, "from", from.Template().ID, "orbs", a.Orbs)
	s.enterLocked(sess, a)
}

// leaveLocked ends the session's run by departure. Caller must hold s.mu.
func (s *Server) leaveLocked(sess *Session) {
	if sess.avatarID == "" {
		return
	}
	e := s.engines[sess.stage]
	last, err := e.Leave(sess.avatarID)
	if err != nil && !errors.Is(err, stage.ErrNoTracker) {
		s.logger.Error("leave", "player", sess.PlayerID, "error", err)
	}
	s.endLocked(sess, last, OutcomeLeft)
}

// noticesLocked routes limbo notices from stage idx to their sessions.
func (s *Server) noticesLocked(idx int, notices []stage.LimboNotice) {
	for i := range notices {
		n := notices[i]
		sess, ok := s.sessions[n.AvatarID]
		if !ok || sess.stage != idx {
			continue
		}
		s.push(sess, Update{Kind: UpdateLimbo, Notice: &n})
		if n.Status.Dropped() {
			s.endLocked(sess, n.Avatar, n.Status.String())
		}
	}
}

func (s *Server) endLocked(sess *Session, last *stage.Avatar, outcome string) {
	run := runFor(sess, last, s.engines[sess.stage].Template().ID, outcome)
	delete(s.sessions, sess.avatarID)
	sess.avatarID = ""
	s.runs = append(s.runs, run)
	s.logger.Info("run ended", "player", sess.PlayerID, "outcome", outcome, "orbs", run.Orbs, "turns", run.Turns)
	s.push(sess, Update{Kind: UpdateEnded, Run: &run})
}

// ─── Queries ─────────────────────────────────────────────────────────────────

func (s *Server) stageInfo(i int) StageInfo {
	t := s.engines[i].Template()
	return StageInfo{
		Index:  i,
		ID:     t.ID,
		Name:   t.Name,
		Lore:   t.Lore,
		Width:  t.Map.Width,
		Height: t.Map.Height,
	}
}

// Stages lists every stage in visiting order.
func (s *Server) Stages() []StageInfo {
	out := make([]StageInfo, len(s.engines))
	for i := range s.engines {
		out[i] = s.stageInfo(i)
	}
	return out
}

// Status reports the timeline bookkeeping of every stage.
func (s *Server) Status() []stage.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]stage.Status, len(s.engines))
	for i, e := range s.engines {
		out[i] = e.Status()
	}
	return out
}

// Online is the number of avatars currently placed on a stage.
func (s *Server) Online() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
