package cooldown

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTracker_Allow(t *testing.T) {
	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tracker := NewWithClock(2*time.Minute, func() time.Time { return current })

	t.Run("first attempt passes", func(t *testing.T) {
		assert.True(t, tracker.Allow("1:42"))
	})

	t.Run("repeat within window is blocked", func(t *testing.T) {
		current = current.Add(30 * time.Second)
		assert.False(t, tracker.Allow("1:42"))
	})

	t.Run("different key is independent", func(t *testing.T) {
		assert.True(t, tracker.Allow("1:77"))
	})

	t.Run("passes again after window expires", func(t *testing.T) {
		current = current.Add(2 * time.Minute)
		assert.True(t, tracker.Allow("1:42"))
	})
}

func TestTracker_BlockedAttemptDoesNotExtendWindow(t *testing.T) {
	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tracker := NewWithClock(time.Minute, func() time.Time { return current })

	assert.True(t, tracker.Allow("5:9"))

	// Заблокированная попытка не должна сдвигать начало окна
	current = current.Add(59 * time.Second)
	assert.False(t, tracker.Allow("5:9"))

	current = current.Add(1 * time.Second)
	assert.True(t, tracker.Allow("5:9"))
}

func TestTracker_SweepEvictsExpiredKeys(t *testing.T) {
	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tracker := NewWithClock(time.Minute, func() time.Time { return current })

	for i := 0; i < 1500; i++ {
		tracker.Allow(fmt.Sprintf("user-%d", i))
	}

	current = current.Add(2 * time.Minute)
	tracker.Allow("fresh")

	tracker.mu.Lock()
	size := len(tracker.attempts)
	tracker.mu.Unlock()

	assert.LessOrEqual(t, size, 2)
}
