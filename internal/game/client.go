// Package game is the interactive terminal client. It shows a lobby, then
// plays one run after another against a mud.Server, drawing every update
// with the render package.
package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"chronorogue/assets"
	"chronorogue/internal/component"
	"chronorogue/internal/leaderboard"
	"chronorogue/internal/mud"
	"chronorogue/internal/render"
	"chronorogue/internal/stage"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/time/rate"
)

// DefaultActRate bounds key-repeat floods when no rate is configured.
const DefaultActRate = 8

// lobbyTop is how many leaderboard rows the lobby lists.
const lobbyTop = 5

// DefaultSenses is the request a fresh client starts with.
var DefaultSenses = component.Senses{Self: true, Sight: 3}

// Board is the leaderboard query the lobby needs.
type Board interface {
	Top(ctx context.Context, n int) ([]leaderboard.Run, error)
}

// Config holds the per-client options.
type Config struct {
	Name          string
	Board         Board // may be nil
	ActsPerSecond float64
	Logger        *slog.Logger
}

// Client drives one player's terminal.
type Client struct {
	world    *mud.Server
	screen   tcell.Screen
	board    Board
	log      *slog.Logger
	renderer *render.Renderer
	limiter  *rate.Limiter
	name     string

	sess   *mud.Session
	view   render.View
	aiming bool
	ended  bool
}

// NewClient creates a client for screen. The screen must already be
// initialised; the caller finalises it.
func NewClient(world *mud.Server, screen tcell.Screen, cfg Config) *Client {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	aps := cfg.ActsPerSecond
	if aps <= 0 {
		aps = DefaultActRate
	}
	return &Client{
		world:    world,
		screen:   screen,
		board:    cfg.Board,
		log:      cfg.Logger,
		renderer: render.NewRenderer(screen),
		limiter:  rate.NewLimiter(rate.Limit(aps), max(1, int(aps))),
		name:     cfg.Name,
		view: render.View{
			Name:   cfg.Name,
			Memory: render.NewMemory(),
			Senses: DefaultSenses,
		},
	}
}

// Run shows the lobby and then plays until the player quits, the screen
// closes or ctx is done. The session is disconnected on return.
func (c *Client) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	events := c.pollEvents(ctx)

	if !c.lobby(ctx, events) {
		return nil
	}
	sess, err := c.world.Connect(c.name)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	c.sess = sess
	defer func() {
		if err := c.world.Disconnect(sess); err != nil {
			c.log.Warn("game: disconnect not queued", "player", sess.PlayerID, "error", err)
		}
	}()

	c.draw()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil // screen closed / disconnected
			}
			switch ev := ev.(type) {
			case *tcell.EventResize:
				c.screen.Sync()
			case *tcell.EventKey:
				if c.handleKey(ev) {
					return nil
				}
			}
		case u := <-sess.Updates:
			c.apply(u)
		}
		c.draw()
	}
}

// pollEvents reads screen events on their own goroutine. The channel closes
// when the screen does.
func (c *Client) pollEvents(ctx context.Context) <-chan tcell.Event {
	ch := make(chan tcell.Event, 32)
	go func() {
		defer close(ch)
		for {
			ev := c.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case ch <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}

func (c *Client) draw() {
	c.renderer.DrawFrame(c.view)
}

// handleKey applies one key press and reports whether the player quit.
func (c *Client) handleKey(ev *tcell.EventKey) bool {
	in := keyToInput(ev)
	if c.aiming {
		c.aiming = false
		c.view.Banner = ""
		if in.Cmd == CmdMove {
			c.act(stage.Attack(in.Dir))
		}
		return false
	}
	if s, ok := adjustSenses(c.view.Senses, in.Cmd); ok {
		c.view.Senses = s
		return false
	}
	switch in.Cmd {
	case CmdQuit:
		return true
	case CmdMove:
		c.act(stage.Move(in.Dir))
	case CmdWait:
		c.act(stage.Wait())
	case CmdAttack:
		if !c.ended {
			c.aiming = true
			c.view.Banner = "Attack in which direction?"
		}
	case CmdRejoin:
		if c.ended {
			c.join()
		}
	}
	return false
}

func (c *Client) act(a stage.Action) {
	if c.ended {
		c.view.Banner = endedHint
		return
	}
	if !c.limiter.Allow() {
		c.view.Banner = "Slow down."
		return
	}
	if err := c.world.Act(c.sess, a, c.view.Senses); err != nil {
		c.view.Banner = err.Error()
	}
}

func (c *Client) join() {
	if err := c.world.Join(c.sess); err != nil {
		c.view.Banner = err.Error()
	}
}

const endedHint = "[r] new run  [q] quit"

// apply folds one world update into the view.
func (c *Client) apply(u mud.Update) {
	switch u.Kind {
	case mud.UpdateEnter:
		c.ended = false
		c.view.StageName = u.Stage.Name
		c.view.StageIndex = u.Stage.Index
		c.view.Turn = 0
		c.view.Perception = nil
		c.view.Memory.Reset()
		c.view.Logs = u.Logs
		c.view.Banner = ""
		if len(u.Stage.Lore) > 0 {
			c.view.Banner = u.Stage.Lore[0]
		}
	case mud.UpdateTurn:
		r := u.Result
		c.view.Turn = r.Turn
		c.view.Perception = r.Perception
		if r.Perception != nil {
			c.view.Pos = r.Perception.Pos
			c.view.Memory.Observe(r.Perception)
		}
		c.view.Logs = u.Logs
		c.view.Banner = ""
		if r.Transition == stage.TransitionNextStage {
			c.view.Banner = "The orb pulls you onward."
		}
	case mud.UpdateLimbo:
		c.view.Banner = limboBanner(u.Notice.Status)
	case mud.UpdateEnded:
		c.ended = true
		c.aiming = false
		c.view.Logs = u.Logs
		c.view.Banner = endedBanner(u.Run)
	case mud.UpdateError:
		if errors.Is(u.Err, stage.ErrNoTracker) && !c.ended {
			c.log.Info("game: resync", "player", c.sess.PlayerID)
			c.join()
			return
		}
		c.view.Banner = u.Err.Error()
	}
}

func limboBanner(s stage.LimboStatus) string {
	switch s {
	case stage.LimboMaybeDead:
		return "You may be dead. Someone further back can still change that."
	case stage.LimboAverted:
		return "Your death was averted."
	case stage.LimboDead:
		return "You are dead."
	case stage.LimboTooFarBehind:
		return "You fell too far behind the others."
	}
	return s.String()
}

func endedBanner(r *leaderboard.Run) string {
	if r == nil {
		return "Run over.  " + endedHint
	}
	return fmt.Sprintf("Run over (%s): %d orbs in %d turns.  %s", r.Outcome, r.Orbs, r.Turns, endedHint)
}

// ─── Lobby ───────────────────────────────────────────────────────────────────

// lobby waits for Enter or Space. It returns false if the player quits.
func (c *Client) lobby(ctx context.Context, events <-chan tcell.Event) bool {
	runs := c.topRuns(ctx)
	for {
		c.drawLobby(runs)
		select {
		case <-ctx.Done():
			return false
		case ev, ok := <-events:
			if !ok {
				return false
			}
			switch ev := ev.(type) {
			case *tcell.EventResize:
				c.screen.Sync()
			case *tcell.EventKey:
				if keyToInput(ev).Cmd == CmdQuit {
					return false
				}
				if ev.Key() == tcell.KeyEnter || ev.Rune() == ' ' {
					return true
				}
			}
		}
	}
}

func (c *Client) topRuns(ctx context.Context) []leaderboard.Run {
	if c.board == nil {
		return nil
	}
	runs, err := c.board.Top(ctx, lobbyTop)
	if err != nil {
		c.log.Warn("game: leaderboard unavailable", "error", err)
		return nil
	}
	return runs
}

func (c *Client) drawLobby(runs []leaderboard.Run) {
	c.screen.Clear()
	title := tcell.StyleDefault.Foreground(tcell.ColorFuchsia).Bold(true)
	text := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	dim := tcell.StyleDefault.Foreground(tcell.ColorGray)

	y := 1
	putText(c.screen, 2, y, assets.GlyphOrb+" CHRONOROGUE "+assets.GlyphOrb, title)
	y += 2
	for _, line := range strings.Split(assets.LoreOpening, "\n") {
		putText(c.screen, 2, y, line, text)
		y++
	}
	y++
	if len(runs) > 0 {
		putText(c.screen, 2, y, "Longest runs", title)
		y++
		for i, r := range runs {
			line := fmt.Sprintf("%d. %-16s %2d orbs %5d turns  %s", i+1, r.Name, r.Orbs, r.Turns, r.Outcome)
			putText(c.screen, 4, y, line, text)
			y++
		}
		y++
	}
	putText(c.screen, 2, y, fmt.Sprintf("Welcome, %s.  [Enter] begin  [q] quit", c.name), dim)
	c.screen.Show()
}

// putText writes a string to the screen at (x, y), one column per rune.
func putText(screen tcell.Screen, x, y int, s string, style tcell.Style) {
	for _, r := range s {
		screen.SetContent(x, y, r, nil, style)
		x++
	}
}
