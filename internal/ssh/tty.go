// Package ssh adapts a gliderlabs SSH session into a tcell terminal.
package ssh

import (
	"sync"

	"github.com/gdamore/tcell/v2"
	gossh "github.com/gliderlabs/ssh"
)

// Fallback size for clients that request a PTY without dimensions.
const (
	defaultWidth  = 80
	defaultHeight = 24
)

// SessionTty implements tcell.Tty over one SSH session. Each connection
// gets its own SessionTty and screen.
type SessionTty struct {
	session gossh.Session
	winCh   <-chan gossh.Window

	mu     sync.Mutex
	window gossh.Window
	onSize func()
	watch  sync.Once
}

// NewSessionTty wraps s. pty carries the initial window; winCh delivers
// later resizes.
func NewSessionTty(s gossh.Session, pty gossh.Pty, winCh <-chan gossh.Window) *SessionTty {
	return &SessionTty{session: s, window: pty.Window, winCh: winCh}
}

func (t *SessionTty) Read(b []byte) (int, error)  { return t.session.Read(b) }
func (t *SessionTty) Write(b []byte) (int, error) { return t.session.Write(b) }
func (t *SessionTty) Close() error                { return t.session.Close() }

// Start, Stop and Drain are no-ops: the channel is owned by the SSH handler
// and writes go out immediately.
func (t *SessionTty) Start() error { return nil }
func (t *SessionTty) Stop() error  { return nil }
func (t *SessionTty) Drain() error { return nil }

// WindowSize returns the current terminal dimensions.
func (t *SessionTty) WindowSize() (tcell.WindowSize, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	w, h := t.window.Width, t.window.Height
	if w <= 0 || h <= 0 {
		w, h = defaultWidth, defaultHeight
	}
	return tcell.WindowSize{Width: w, Height: h}, nil
}

// NotifyResize registers cb for window changes. The first call starts the
// goroutine draining winCh; it exits when the session closes the channel.
func (t *SessionTty) NotifyResize(cb func()) {
	t.mu.Lock()
	t.onSize = cb
	t.mu.Unlock()

	t.watch.Do(func() {
		if t.winCh == nil {
			return
		}
		go func() {
			for win := range t.winCh {
				t.mu.Lock()
				t.window = win
				cb := t.onSize
				t.mu.Unlock()
				if cb != nil {
					cb()
				}
			}
		}()
	})
}
