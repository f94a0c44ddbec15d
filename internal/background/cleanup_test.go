package background

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSessionCleaner struct {
	calls             atomic.Int64
	lastActivitySince atomic.Value
}

func (m *mockSessionCleaner) DeleteExpired(ctx context.Context, now, activitySince time.Time) (int64, error) {
	m.calls.Add(1)
	m.lastActivitySince.Store(activitySince)
	return 1, nil
}

type mockAttemptCleaner struct {
	attemptCalls atomic.Int64
	lockCalls    atomic.Int64
	lastBefore   atomic.Value
}

func (m *mockAttemptCleaner) DeleteOldAttempts(ctx context.Context, before time.Time) (int64, error) {
	m.attemptCalls.Add(1)
	m.lastBefore.Store(before)
	return 2, nil
}

func (m *mockAttemptCleaner) DeleteExpiredLocks(ctx context.Context) (int64, error) {
	m.lockCalls.Add(1)
	return 0, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCleanupManager_RunsImmediatelyAndStops(t *testing.T) {
	sessions := &mockSessionCleaner{}
	attempts := &mockAttemptCleaner{}
	cm := NewCleanupManager(sessions, attempts, testLogger(),
		time.Hour, 30*time.Minute, time.Hour)

	done := make(chan struct{})
	go func() {
		cm.Start(context.Background())
		close(done)
	}()

	// the startup pass should land well before the first tick
	require.Eventually(t, func() bool {
		return sessions.calls.Load() == 1 &&
			attempts.attemptCalls.Load() == 1 &&
			attempts.lockCalls.Load() == 1
	}, 2*time.Second, 10*time.Millisecond)

	cm.Stop()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("cleanup manager did not stop")
	}
}

func TestCleanupManager_UsesRetentionWindows(t *testing.T) {
	sessions := &mockSessionCleaner{}
	attempts := &mockAttemptCleaner{}
	cm := NewCleanupManager(sessions, attempts, testLogger(),
		time.Hour, 30*time.Minute, time.Hour)

	cm.runCleanup(context.Background())

	activitySince, ok := sessions.lastActivitySince.Load().(time.Time)
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(-30*time.Minute), activitySince, 5*time.Second)

	before, ok := attempts.lastBefore.Load().(time.Time)
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(-time.Hour), before, 5*time.Second)
}

func TestCleanupManager_ContextCancelStops(t *testing.T) {
	cm := NewCleanupManager(&mockSessionCleaner{}, &mockAttemptCleaner{}, testLogger(),
		time.Hour, 30*time.Minute, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		cm.Start(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("cleanup manager did not honor context cancellation")
	}
}
