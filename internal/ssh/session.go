package ssh

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"chronorogue/internal/game"
	"chronorogue/internal/mud"

	"github.com/gdamore/tcell/v2"
	gossh "github.com/gliderlabs/ssh"
)

// maxNameBytes bounds a player name taken from the SSH user.
const maxNameBytes = 16

// defaultTerm is used when the client reports a terminal we don't allow.
const defaultTerm = "xterm-256color"

// allowedTerms are the TERM values passed through to terminfo lookup.
var allowedTerms = map[string]bool{
	"xterm":                 true,
	"xterm-256color":        true,
	"screen":                true,
	"screen-256color":       true,
	"tmux":                  true,
	"tmux-256color":         true,
	"linux":                 true,
	"vt100":                 true,
	"vt220":                 true,
	"rxvt-unicode":          true,
	"rxvt-unicode-256color": true,
}

// sanitizeName drops control characters and invalid bytes, then truncates
// to maxNameBytes without splitting a rune.
func sanitizeName(s string) string {
	var b strings.Builder
	for i, w := 0, 0; i < len(s); i += w {
		r, size := utf8.DecodeRuneInString(s[i:])
		w = size
		if (r == utf8.RuneError && size == 1) || unicode.IsControl(r) {
			continue
		}
		if b.Len()+size > maxNameBytes {
			break
		}
		b.WriteRune(r)
	}
	return b.String()
}

// termFor picks the TERM for a session from its environment.
func termFor(environ []string) string {
	for _, env := range environ {
		if t, ok := strings.CutPrefix(env, "TERM="); ok && allowedTerms[t] {
			return t
		}
	}
	return defaultTerm
}

// Handler turns SSH sessions into game clients of one world.
type Handler struct {
	world         *mud.Server
	board         game.Board
	log           *slog.Logger
	actsPerSecond float64

	// termMu protects os.Setenv("TERM") around screen creation.
	termMu sync.Mutex
	active sync.WaitGroup
}

// NewHandler creates a Handler. board may be nil.
func NewHandler(world *mud.Server, board game.Board, logger *slog.Logger, actsPerSecond float64) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{world: world, board: board, log: logger, actsPerSecond: actsPerSecond}
}

// Handle is the gliderlabs session handler. It blocks for the lifetime of
// the connection.
func (h *Handler) Handle(s gossh.Session) {
	h.active.Add(1)
	defer h.active.Done()
	pty, winCh, hasPTY := s.Pty()
	if !hasPTY {
		fmt.Fprintln(s, "chronorogue needs a terminal. Connect with: ssh -t <host>")
		_ = s.Exit(1)
		return
	}
	name := sanitizeName(s.User())
	if name == "" {
		name = "wanderer"
	}
	term := pty.Term
	if !allowedTerms[term] {
		term = termFor(s.Environ())
	}

	screen, err := h.newScreen(NewTty(s, pty.Window, winCh), term)
	if err != nil {
		h.log.Warn("ssh: terminal setup failed", "user", name, "term", term, "error", err)
		fmt.Fprintf(s, "Terminal setup failed: %v\n", err)
		_ = s.Exit(1)
		return
	}
	defer screen.Fini()

	h.log.Info("ssh: session started", "user", name, "remote", s.RemoteAddr().String(), "term", term)
	c := game.NewClient(h.world, screen, game.Config{
		Name:          name,
		Board:         h.board,
		ActsPerSecond: h.actsPerSecond,
		Logger:        h.log,
	})
	if err := c.Run(s.Context()); err != nil && err != context.Canceled {
		h.log.Warn("ssh: client stopped", "user", name, "error", err)
	}
	h.log.Info("ssh: session ended", "user", name)
}

// Wait blocks until every session handler has returned and queued its
// departure. Call it after the SSH server stopped accepting sessions.
func (h *Handler) Wait() { h.active.Wait() }

// newScreen creates and initialises a tcell screen on tty. TERM must be set
// in the process environment before NewTerminfoScreenFromTty.
func (h *Handler) newScreen(tty tcell.Tty, term string) (tcell.Screen, error) {
	h.termMu.Lock()
	_ = os.Setenv("TERM", term)
	screen, err := tcell.NewTerminfoScreenFromTty(tty)
	h.termMu.Unlock()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	return screen, nil
}
