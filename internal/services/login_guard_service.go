package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ancook/bazaar/internal/config"
	"github.com/ancook/bazaar/internal/models"
	pkglogger "github.com/ancook/bazaar/pkg/logger"
)

// LoginAttemptRepository defines the interface for attempt and lock storage
type LoginAttemptRepository interface {
	RecordAttempt(ctx context.Context, attempt *models.LoginAttempt) error
	CountRecentFailures(ctx context.Context, identifier, ipAddress string, since time.Time) (int, error)
	GetActiveLock(ctx context.Context, identifier, ipAddress string, now time.Time) (*models.AccountLock, error)
	CreateLock(ctx context.Context, lock *models.AccountLock) error
}

// UserFinder resolves an identifier to a user, used to stamp locks with the
// target account when one exists
type UserFinder interface {
	GetByIdentifier(ctx context.Context, identifier string) (*models.User, error)
}

// LoginGuardService enforces temporary lockouts after repeated login
// failures. The account_locks table is the single authority on lock state;
// lock checks never consult anything else.
//
// The guard degrades permissively: a storage error during a check or a
// recording never blocks a login, it only loses bookkeeping.
type LoginGuardService struct {
	repo        LoginAttemptRepository
	users       UserFinder
	cfg         config.AuthConfig
	logger      *slog.Logger
	auditLogger *pkglogger.AuditLogger
}

// NewLoginGuardService creates a new LoginGuardService
func NewLoginGuardService(repo LoginAttemptRepository, users UserFinder, cfg config.AuthConfig, logger *slog.Logger, auditLogger *pkglogger.AuditLogger) *LoginGuardService {
	return &LoginGuardService{
		repo:        repo,
		users:       users,
		cfg:         cfg,
		logger:      logger,
		auditLogger: auditLogger,
	}
}

// CheckLock reports whether the identifier or IP is currently locked out. An
// expired lock reads as unlocked even before cleanup removes the row.
func (s *LoginGuardService) CheckLock(ctx context.Context, identifier, ipAddress string) *models.LockStatus {
	now := time.Now()

	lock, err := s.repo.GetActiveLock(ctx, identifier, ipAddress, now)
	if err != nil {
		s.logger.Error("lock check failed, allowing attempt", slog.Any("error", err))
		return &models.LockStatus{}
	}
	if lock == nil {
		return &models.LockStatus{}
	}

	return &models.LockStatus{
		IsLocked:         true,
		RemainingMinutes: remainingMinutes(lock.LockedUntil, now),
		Reason:           lock.Reason,
		LockedUntil:      lock.LockedUntil,
	}
}

// lockReason is the reason stamped on every lock the guard creates
const lockReason = "too many failed login attempts"

// RecordAttempt appends the attempt to the log and, on a failure that brings
// the recent failure count for the identifier or IP to the threshold, creates
// a lock. It reports whether this attempt created the lock, along with the
// lock's expiry, so the caller can tell the client it is now locked out
// rather than just unauthorized. An already-locked pair gets no additional
// lock, so repeat failures while locked do not extend the lockout.
func (s *LoginGuardService) RecordAttempt(ctx context.Context, identifier, ipAddress, userAgent string, success bool) (bool, time.Time) {
	now := time.Now()

	err := s.repo.RecordAttempt(ctx, &models.LoginAttempt{
		Identifier:  identifier,
		IPAddress:   ipAddress,
		Success:     success,
		UserAgent:   userAgent,
		AttemptTime: now,
	})
	if err != nil {
		s.logger.Error("failed to record login attempt", slog.Any("error", err))
	}

	s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
		EventType:  "login_attempt",
		Identifier: identifier,
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Success:    success,
	})

	if success {
		return false, time.Time{}
	}

	failures, err := s.repo.CountRecentFailures(ctx, identifier, ipAddress, now.Add(-s.cfg.AttemptWindow))
	if err != nil {
		s.logger.Error("failed to count login failures", slog.Any("error", err))
		return false, time.Time{}
	}
	if failures < s.cfg.MaxLoginAttempts {
		return false, time.Time{}
	}

	existing, err := s.repo.GetActiveLock(ctx, identifier, ipAddress, now)
	if err != nil {
		s.logger.Error("failed to check for existing lock", slog.Any("error", err))
		return false, time.Time{}
	}
	if existing != nil {
		return false, time.Time{}
	}

	lock := &models.AccountLock{
		Identifier:  identifier,
		IPAddress:   ipAddress,
		LockedUntil: now.Add(s.cfg.LockoutDuration),
		Reason:      lockReason,
	}

	// stamp the lock with the account when the identifier resolves to one
	if user, err := s.users.GetByIdentifier(ctx, identifier); err == nil {
		lock.UserID = &user.ID
	} else if !errors.Is(err, models.ErrNotFound) {
		s.logger.Error("failed to resolve identifier for lock", slog.Any("error", err))
	}

	if err := s.repo.CreateLock(ctx, lock); err != nil {
		s.logger.Error("failed to create account lock", slog.Any("error", err))
		return false, time.Time{}
	}

	s.logger.Warn("account locked after repeated failures",
		slog.String("identifier", pkglogger.SanitizedEmail(identifier)),
		slog.Int("failures", failures),
		slog.Time("locked_until", lock.LockedUntil))
	s.auditLogger.LogLockout(identifier, ipAddress, lock.LockedUntil)

	return true, lock.LockedUntil
}

// remainingMinutes rounds the time left on a lock up to whole minutes, so a
// lock with any time left reports at least one minute.
func remainingMinutes(lockedUntil, now time.Time) int {
	secs := int(lockedUntil.Sub(now).Seconds())
	if secs <= 0 {
		return 0
	}
	return (secs + 59) / 60
}
