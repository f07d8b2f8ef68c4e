package notify

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNotifierShowsOneNotice(t *testing.T) {
	var out bytes.Buffer
	n := New(&out, time.Minute)

	n.Success("Product added successfully!")

	notice, ok := n.Current()
	assert.True(t, ok)
	assert.Equal(t, LevelSuccess, notice.Level)
	assert.Equal(t, "Product added successfully!", notice.Message)
	assert.Contains(t, out.String(), "Product added successfully!")

	// A new notice replaces the visible one instead of stacking.
	n.Error("Failed to delete product.")

	notice, ok = n.Current()
	assert.True(t, ok)
	assert.Equal(t, LevelError, notice.Level)
	assert.Equal(t, "Failed to delete product.", notice.Message)
}

func TestNotifierAutoDismiss(t *testing.T) {
	var out bytes.Buffer
	n := New(&out, 20*time.Millisecond)

	n.Success("saved")

	_, ok := n.Current()
	assert.True(t, ok)

	assert.Eventually(t, func() bool {
		_, visible := n.Current()
		return !visible
	}, time.Second, 5*time.Millisecond)
}

func TestNotifierReplacementRestartsTimer(t *testing.T) {
	var out bytes.Buffer
	n := New(&out, 40*time.Millisecond)

	n.Success("first")
	time.Sleep(25 * time.Millisecond)
	n.Success("second")
	time.Sleep(25 * time.Millisecond)

	// The first notice's timer must not dismiss the second.
	notice, ok := n.Current()
	assert.True(t, ok)
	assert.Equal(t, "second", notice.Message)
}

func TestNotifierDefaultInterval(t *testing.T) {
	n := New(&bytes.Buffer{}, 0)
	assert.Equal(t, DefaultDismissAfter, n.ttl)
}
