package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/canineracks/inventory-console/session"
)

type stubSessionReader struct {
	sess  session.Session
	state session.State
	calls int
}

func (s *stubSessionReader) Load() (session.Session, session.State) {
	s.calls++
	return s.sess, s.state
}

func TestGuardEvaluate(t *testing.T) {
	t.Run("Starts Unchecked", func(t *testing.T) {
		g := New(&stubSessionReader{state: session.StatePresent})
		assert.Equal(t, Unchecked, g.State())
	})

	t.Run("Present Session Authorizes", func(t *testing.T) {
		reader := &stubSessionReader{
			sess:  session.Session{AccessToken: "tok", Role: session.RoleInventoryManager},
			state: session.StatePresent,
		}
		g := New(reader)

		state, sess := g.Evaluate()
		assert.Equal(t, Authorized, state)
		assert.Equal(t, session.RoleInventoryManager, sess.Role)
	})

	t.Run("Absent Session Rejects", func(t *testing.T) {
		g := New(&stubSessionReader{state: session.StateAbsent})

		state, sess := g.Evaluate()
		assert.Equal(t, Unauthorized, state)
		assert.Equal(t, session.Session{}, sess)
	})
}

func TestGuardEvaluatesOnce(t *testing.T) {
	reader := &stubSessionReader{
		sess:  session.Session{AccessToken: "tok"},
		state: session.StatePresent,
	}
	g := New(reader)

	first, _ := g.Evaluate()

	// A later session change must not alter the decision for this mount:
	// re-renders reuse the cached result instead of re-reading the store.
	reader.state = session.StateAbsent
	second, _ := g.Evaluate()
	third, _ := g.Evaluate()

	assert.Equal(t, Authorized, first)
	assert.Equal(t, first, second)
	assert.Equal(t, first, third)
	assert.Equal(t, 1, reader.calls)
}
