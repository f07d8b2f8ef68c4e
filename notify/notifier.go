// Package notify renders the transient success/error notices that follow
// every mutating action. One notice per action, auto-dismissed after a
// fixed interval.
package notify

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// DefaultDismissAfter matches the web client's toast auto-close window.
const DefaultDismissAfter = 2500 * time.Millisecond

// Level distinguishes success from error notices.
type Level int

const (
	LevelSuccess Level = iota
	LevelError
)

// Notice is one transient message.
type Notice struct {
	Level   Level
	Message string
}

// Notifier writes notices to the console and dismisses them after the
// configured interval. The currently visible notice is queryable so a
// view re-render can repaint it.
type Notifier struct {
	out io.Writer
	ttl time.Duration

	mu      sync.Mutex
	current *Notice
	timer   *time.Timer
}

// New creates a Notifier writing to out. A non-positive dismiss interval
// falls back to the default.
func New(out io.Writer, dismissAfter time.Duration) *Notifier {
	if dismissAfter <= 0 {
		dismissAfter = DefaultDismissAfter
	}
	return &Notifier{out: out, ttl: dismissAfter}
}

// Success shows a success notice.
func (n *Notifier) Success(message string) {
	n.push(Notice{Level: LevelSuccess, Message: message})
}

// Error shows an error notice.
func (n *Notifier) Error(message string) {
	n.push(Notice{Level: LevelError, Message: message})
}

// Current returns the notice still within its display window, if any.
func (n *Notifier) Current() (Notice, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current == nil {
		return Notice{}, false
	}
	return *n.current, true
}

// push replaces any visible notice. A new notice restarts the dismiss
// timer, preserving the one-notice-per-action contract.
func (n *Notifier) push(notice Notice) {
	n.mu.Lock()
	defer n.mu.Unlock()

	prefix := "✔"
	if notice.Level == LevelError {
		prefix = "✖"
	}
	fmt.Fprintf(n.out, "%s %s\n", prefix, notice.Message)

	n.current = &notice
	if n.timer != nil {
		n.timer.Stop()
	}
	n.timer = time.AfterFunc(n.ttl, func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		if n.current != nil && *n.current == notice {
			n.current = nil
		}
	})
}
