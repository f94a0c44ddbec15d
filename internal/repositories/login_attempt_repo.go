package repositories

import (
	"context"
	"time"

	"github.com/ancook/bazaar/internal/database"
	"github.com/ancook/bazaar/internal/models"
	"github.com/jackc/pgx/v5"
)

// LoginAttemptRepository handles database operations for login attempts and
// the account locks derived from them.
type LoginAttemptRepository struct {
	db *database.DB
}

// NewLoginAttemptRepository creates a new LoginAttemptRepository
func NewLoginAttemptRepository(db *database.DB) *LoginAttemptRepository {
	return &LoginAttemptRepository{db: db}
}

// RecordAttempt appends a login attempt to the log
func (r *LoginAttemptRepository) RecordAttempt(ctx context.Context, attempt *models.LoginAttempt) error {
	query := `
		INSERT INTO login_attempts (identifier, ip_address, success, user_agent, attempt_time)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		attempt.Identifier,
		attempt.IPAddress,
		attempt.Success,
		attempt.UserAgent,
		attempt.AttemptTime,
	)

	return err
}

// CountRecentFailures counts failed attempts matching the identifier or the
// IP within the trailing window.
func (r *LoginAttemptRepository) CountRecentFailures(ctx context.Context, identifier, ipAddress string, since time.Time) (int, error) {
	query := `
		SELECT COUNT(*) FROM login_attempts
		WHERE (identifier = $1 OR ip_address = $2) AND success = FALSE AND attempt_time > $3
	`

	var count int
	err := r.db.Pool.QueryRow(ctx, query, identifier, ipAddress, since).Scan(&count)
	return count, err
}

// GetActiveLock returns the longest-lasting unexpired lock matching the
// identifier or the IP, or nil when none exists.
func (r *LoginAttemptRepository) GetActiveLock(ctx context.Context, identifier, ipAddress string, now time.Time) (*models.AccountLock, error) {
	query := `
		SELECT id, user_id, identifier, ip_address, locked_until, reason, created_at
		FROM account_locks
		WHERE (identifier = $1 OR ip_address = $2) AND locked_until > $3
		ORDER BY locked_until DESC
		LIMIT 1
	`

	var lock models.AccountLock
	err := r.db.Pool.QueryRow(ctx, query, identifier, ipAddress, now).Scan(
		&lock.ID, &lock.UserID, &lock.Identifier, &lock.IPAddress,
		&lock.LockedUntil, &lock.Reason, &lock.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &lock, nil
}

// CreateLock inserts a new account lock
func (r *LoginAttemptRepository) CreateLock(ctx context.Context, lock *models.AccountLock) error {
	query := `
		INSERT INTO account_locks (user_id, identifier, ip_address, locked_until, reason)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		lock.UserID, lock.Identifier, lock.IPAddress, lock.LockedUntil, lock.Reason,
	)

	return err
}

// DeleteOldAttempts removes attempts older than the retention cutoff
func (r *LoginAttemptRepository) DeleteOldAttempts(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.db.Pool.Exec(ctx, `DELETE FROM login_attempts WHERE attempt_time < $1`, before)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

// DeleteExpiredLocks removes locks whose locked_until has passed
func (r *LoginAttemptRepository) DeleteExpiredLocks(ctx context.Context) (int64, error) {
	result, err := r.db.Pool.Exec(ctx, `DELETE FROM account_locks WHERE locked_until < NOW()`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
