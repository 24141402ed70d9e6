package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelsAndDefaultDurations(t *testing.T) {
	n := New()

	var got []Notification
	cancel := n.Subscribe(func(notice Notification) { got = append(got, notice) })
	defer cancel()

	n.Success("added to cart")
	n.Error("login failed")
	n.Info("cart cleaned up")
	n.Warning("stock low")

	require.Len(t, got, 4)
	assert.Equal(t, LevelSuccess, got[0].Level)
	assert.Equal(t, 3*time.Second, got[0].Duration)
	assert.Equal(t, LevelError, got[1].Level)
	assert.Equal(t, 4*time.Second, got[1].Duration)
	assert.Equal(t, LevelInfo, got[2].Level)
	assert.Equal(t, LevelWarning, got[3].Level)

	// Each notice gets its own identifier.
	assert.NotEqual(t, got[0].ID, got[1].ID)
}

func TestShowOverridesDuration(t *testing.T) {
	n := New()

	var got []Notification
	cancel := n.Subscribe(func(notice Notification) { got = append(got, notice) })
	defer cancel()

	n.Show("hold on", LevelWarning, 10*time.Second)

	require.Len(t, got, 1)
	assert.Equal(t, 10*time.Second, got[0].Duration)
}

func TestNilNotifierIsSafe(t *testing.T) {
	var n *Notifier
	n.Info("nobody listening")
}

func TestNoticesAreNotReplayed(t *testing.T) {
	n := New()
	n.Success("before anyone subscribed")

	var got []Notification
	cancel := n.Subscribe(func(notice Notification) { got = append(got, notice) })
	defer cancel()

	assert.Empty(t, got)
}
