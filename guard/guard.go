// Package guard decides, per navigation, whether a protected view may
// render based on session presence.
package guard

import (
	"sync"

	"github.com/canineracks/inventory-console/session"
)

// State of a guard evaluation. A guard starts Unchecked and settles on
// Authorized or Unauthorized exactly once.
type State int

const (
	// Unchecked means the session store has not been consulted yet.
	// Nothing may render in this state.
	Unchecked State = iota
	// Authorized means a session is present; the view renders.
	Authorized
	// Unauthorized means no session; the caller must redirect to login
	// and replace the history entry so back-navigation cannot return.
	Unauthorized
)

// SessionReader is the slice of the session store the guard needs.
type SessionReader interface {
	Load() (session.Session, session.State)
}

// Guard performs a single authorization check per navigation. Create a
// fresh Guard on every mount; re-evaluating the same Guard returns the
// cached decision, so a re-render can never trigger a second check or a
// redirect loop.
type Guard struct {
	sessions SessionReader

	once  sync.Once
	state State
	sess  session.Session
}

// New creates a guard in the Unchecked state.
func New(sessions SessionReader) *Guard {
	return &Guard{sessions: sessions, state: Unchecked}
}

// Evaluate resolves the guard. The session read happens exactly once;
// subsequent calls return the same decision and session snapshot.
func (g *Guard) Evaluate() (State, session.Session) {
	g.once.Do(func() {
		sess, st := g.sessions.Load()
		switch st {
		case session.StatePresent:
			g.state = Authorized
			g.sess = sess
		default:
			g.state = Unauthorized
		}
	})
	return g.state, g.sess
}

// State returns the current state without forcing an evaluation.
func (g *Guard) State() State {
	return g.state
}
