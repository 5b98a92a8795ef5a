// Package ssh plays the game over SSH: each session's channel becomes a
// tcell screen driven by a game.Client.
package ssh

import (
	"io"
	"sync"

	"github.com/gdamore/tcell/v2"
	gossh "github.com/gliderlabs/ssh"
)

// Channel is the part of an SSH session a Tty reads, writes and closes.
type Channel interface {
	io.ReadWriter
	Close() error
}

// Tty implements tcell.Tty over an SSH channel. Window changes arrive on
// the session's resize channel and are forwarded to tcell's callback.
type Tty struct {
	ch      Channel
	resizes <-chan gossh.Window

	mu       sync.Mutex
	size     tcell.WindowSize
	onResize func()
	watching bool
}

// NewTty wraps ch. initial is the window from the pty request.
func NewTty(ch Channel, initial gossh.Window, resizes <-chan gossh.Window) *Tty {
	return &Tty{
		ch:      ch,
		resizes: resizes,
		size:    tcell.WindowSize{Width: initial.Width, Height: initial.Height},
	}
}

func (t *Tty) Read(b []byte) (int, error)  { return t.ch.Read(b) }
func (t *Tty) Write(b []byte) (int, error) { return t.ch.Write(b) }
func (t *Tty) Close() error                { return t.ch.Close() }

// Start, Stop and Drain have nothing to do: the channel is opened and torn
// down by the SSH server, and writes are not buffered here.
func (t *Tty) Start() error { return nil }
func (t *Tty) Stop() error  { return nil }
func (t *Tty) Drain() error { return nil }

// WindowSize returns the last reported terminal dimensions.
func (t *Tty) WindowSize() (tcell.WindowSize, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.size, nil
}

// NotifyResize registers cb. The first call starts the goroutine that
// drains the resize channel until the session closes it.
func (t *Tty) NotifyResize(cb func()) {
	t.mu.Lock()
	t.onResize = cb
	start := !t.watching && t.resizes != nil
	t.watching = true
	t.mu.Unlock()
	if start {
		go t.watch()
	}
}

func (t *Tty) watch() {
	for win := range t.resizes {
		t.mu.Lock()
		t.size = tcell.WindowSize{Width: win.Width, Height: win.Height}
		cb := t.onResize
		t.mu.Unlock()
		if cb != nil {
			cb()
		}
	}
}
