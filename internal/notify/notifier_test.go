package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShowThenAutoClear(t *testing.T) {
	n := New(50 * time.Millisecond)
	t.Cleanup(n.Close)

	note := n.Show(KindAdded, `تم إضافة "A" إلى السلة`)
	assert.Equal(t, KindAdded, note.Kind)
	assert.Equal(t, note.CreatedAt.Add(50*time.Millisecond), note.ExpiresAt)

	current, ok := n.Current()
	require.True(t, ok)
	assert.Equal(t, note.ID, current.ID)

	require.Eventually(t, func() bool {
		_, ok := n.Current()
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestNewerNotificationGetsFullTTL(t *testing.T) {
	ttl := 100 * time.Millisecond
	n := New(ttl)
	t.Cleanup(n.Close)

	n.Show(KindAdded, "first")
	time.Sleep(60 * time.Millisecond)
	second := n.Show(KindRemoved, "second")

	// the first notification's deadline passes here
	time.Sleep(60 * time.Millisecond)
	current, ok := n.Current()
	require.True(t, ok, "older timer must not dismiss the newer notification")
	assert.Equal(t, second.ID, current.ID)

	require.Eventually(t, func() bool {
		_, ok := n.Current()
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestDismiss(t *testing.T) {
	n := New(time.Hour)
	n.Show(KindAdded, "x")
	n.Dismiss()

	_, ok := n.Current()
	assert.False(t, ok)
}

func TestDefaultTTL(t *testing.T) {
	n := New(0)
	t.Cleanup(n.Close)

	note := n.Show(KindAdded, "x")
	assert.Equal(t, DefaultTTL, note.ExpiresAt.Sub(note.CreatedAt))
}
