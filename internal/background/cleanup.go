package background

import (
	"context"
	"log/slog"
	"time"
)

// SessionCleaner deletes dead sessions
type SessionCleaner interface {
	DeleteExpired(ctx context.Context, now, activitySince time.Time) (int64, error)
}

// AttemptCleaner deletes stale login attempts and expired locks
type AttemptCleaner interface {
	DeleteOldAttempts(ctx context.Context, before time.Time) (int64, error)
	DeleteExpiredLocks(ctx context.Context) (int64, error)
}

// CleanupManager periodically sweeps expired sessions, old login attempts,
// and expired account locks. Correctness never depends on it running; lock
// and session checks filter by timestamp on their own.
type CleanupManager struct {
	sessions         SessionCleaner
	attempts         AttemptCleaner
	logger           *slog.Logger
	interval         time.Duration
	sessionDuration  time.Duration
	attemptRetention time.Duration
	stopCh           chan struct{}
}

// NewCleanupManager creates a new cleanup manager
func NewCleanupManager(
	sessions SessionCleaner,
	attempts AttemptCleaner,
	logger *slog.Logger,
	interval, sessionDuration, attemptRetention time.Duration,
) *CleanupManager {
	return &CleanupManager{
		sessions:         sessions,
		attempts:         attempts,
		logger:           logger,
		interval:         interval,
		sessionDuration:  sessionDuration,
		attemptRetention: attemptRetention,
		stopCh:           make(chan struct{}),
	}
}

// Start begins the periodic cleanup task
func (cm *CleanupManager) Start(ctx context.Context) {
	ticker := time.NewTicker(cm.interval)
	defer ticker.Stop()

	// Run immediately on startup
	cm.runCleanup(ctx)

	for {
		select {
		case <-ticker.C:
			cm.runCleanup(ctx)
		case <-cm.stopCh:
			cm.logger.Info("cleanup manager stopped")
			return
		case <-ctx.Done():
			cm.logger.Info("cleanup manager context cancelled")
			return
		}
	}
}

// runCleanup sweeps each table once, best-effort
func (cm *CleanupManager) runCleanup(ctx context.Context) {
	cleanupCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	now := time.Now()

	sessions, err := cm.sessions.DeleteExpired(cleanupCtx, now, now.Add(-cm.sessionDuration))
	if err != nil {
		cm.logger.Error("failed to cleanup sessions", slog.Any("error", err))
	}

	attempts, err := cm.attempts.DeleteOldAttempts(cleanupCtx, now.Add(-cm.attemptRetention))
	if err != nil {
		cm.logger.Error("failed to cleanup login attempts", slog.Any("error", err))
	}

	locks, err := cm.attempts.DeleteExpiredLocks(cleanupCtx)
	if err != nil {
		cm.logger.Error("failed to cleanup account locks", slog.Any("error", err))
	}

	if sessions > 0 || attempts > 0 || locks > 0 {
		cm.logger.Info("cleanup pass completed",
			slog.Int64("sessions_deleted", sessions),
			slog.Int64("attempts_deleted", attempts),
			slog.Int64("locks_deleted", locks))
	}
}

// Stop signals the cleanup manager to stop
func (cm *CleanupManager) Stop() {
	close(cm.stopCh)
}
