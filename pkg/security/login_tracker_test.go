package security

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoginTrackerInMemory(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	lt := NewLoginTracker(nil, LoginTrackerConfig{MaxAttempts: 3, AttemptWindow: time.Minute, BlockDuration: 10 * time.Minute}, zap.NewNop())
	defer lt.Close()
	lt.now = func() time.Time { return now }

	t.Run("Should block on the last allowed failure", func(t *testing.T) {
		for i := 1; i <= 2; i++ {
			blocked, attempts, err := lt.RecordFailedAttempt(ctx, "Alice")
			require.NoError(t, err)
			assert.False(t, blocked)
			assert.Equal(t, i, attempts)
		}
		blocked, _, err := lt.RecordFailedAttempt(ctx, " alice ")
		require.NoError(t, err)
		assert.True(t, blocked)

		left, err := lt.BlockedFor(ctx, "ALICE")
		require.NoError(t, err)
		assert.Equal(t, 10*time.Minute, left)
	})

	t.Run("Should lift the block once it expires", func(t *testing.T) {
		now = now.Add(11 * time.Minute)
		left, err := lt.BlockedFor(ctx, "alice")
		require.NoError(t, err)
		assert.Zero(t, left)
	})

	t.Run("Should forget failures after a success", func(t *testing.T) {
		_, _, _ = lt.RecordFailedAttempt(ctx, "bob")
		require.NoError(t, lt.ClearAttempts(ctx, "bob"))
		_, attempts, err := lt.RecordFailedAttempt(ctx, "bob")
		require.NoError(t, err)
		assert.Equal(t, 1, attempts)
	})

	t.Run("Should restart the count after the window", func(t *testing.T) {
		_, _, _ = lt.RecordFailedAttempt(ctx, "carol")
		now = now.Add(2 * time.Minute)
		_, attempts, err := lt.RecordFailedAttempt(ctx, "carol")
		require.NoError(t, err)
		assert.Equal(t, 1, attempts)
	})

	t.Run("Should ignore empty usernames", func(t *testing.T) {
		blocked, attempts, err := lt.RecordFailedAttempt(ctx, "  ")
		require.NoError(t, err)
		assert.False(t, blocked)
		assert.Zero(t, attempts)
	})
}

func TestLoginTrackerPrunesExpiredEntries(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	lt := NewLoginTracker(nil, LoginTrackerConfig{MaxAttempts: 2, AttemptWindow: time.Minute, BlockDuration: 10 * time.Minute}, zap.NewNop())
	defer lt.Close()
	lt.now = func() time.Time { return now }

	_, _, _ = lt.RecordFailedAttempt(ctx, "dave")
	_, _, _ = lt.RecordFailedAttempt(ctx, "erin")
	blocked, _, err := lt.RecordFailedAttempt(ctx, "erin")
	require.NoError(t, err)
	require.True(t, blocked)

	now = now.Add(2 * time.Minute)
	lt.prune()

	lt.mu.Lock()
	assert.NotContains(t, lt.local, "dave")
	assert.Contains(t, lt.local, "erin")
	lt.mu.Unlock()

	now = now.Add(10 * time.Minute)
	lt.prune()

	lt.mu.Lock()
	assert.Empty(t, lt.local)
	lt.mu.Unlock()

	left, err := lt.BlockedFor(ctx, "erin")
	require.NoError(t, err)
	assert.Zero(t, left)
}
