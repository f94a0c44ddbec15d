package repositories

import (
	"context"
	"time"

	"github.com/ancook/bazaar/internal/database"
	"github.com/ancook/bazaar/internal/models"
)

// SessionRepository handles database operations for DB-backed sessions
type SessionRepository struct {
	db *database.DB
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db *database.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a new session row
func (r *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	query := `
		INSERT INTO sessions (session_token, user_id, ip_address, user_agent, expires_at, last_activity, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		session.SessionToken, session.UserID, session.IPAddress,
		session.UserAgent, session.ExpiresAt, session.LastActivity,
	)

	return err
}

// GetActiveWithUser returns the user joined to an active, unexpired session
// whose last activity falls after the inactivity cutoff. Returns nil without
// error when no such session exists.
func (r *SessionRepository) GetActiveWithUser(ctx context.Context, token string, now, activitySince time.Time) (*models.User, error) {
	query := `
		SELECT u.id, u.username, u.email, u.password_hash, u.first_name, u.last_name,
		       u.phone, u.primary_address, u.is_active, u.created_at, u.updated_at
		FROM sessions s
		JOIN users u ON s.user_id = u.id
		WHERE s.session_token = $1
		  AND s.is_active = TRUE
		  AND s.expires_at > $2
		  AND s.last_activity > $3
	`

	user, err := scanUserRow(r.db.Pool.QueryRow(ctx, query, token, now, activitySince))
	if err != nil {
		if err == models.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}

	return user, nil
}

// Touch slides the session's expiration and activity timestamps forward
func (r *SessionRepository) Touch(ctx context.Context, token string, expiresAt, lastActivity time.Time) error {
	query := `
		UPDATE sessions
		SET expires_at = $1, last_activity = $2
		WHERE session_token = $3 AND is_active = TRUE
	`

	_, err := r.db.Pool.Exec(ctx, query, expiresAt, lastActivity, token)
	return err
}

// Deactivate marks a session inactive (logout)
func (r *SessionRepository) Deactivate(ctx context.Context, token string) error {
	result, err := r.db.Pool.Exec(ctx,
		`UPDATE sessions SET is_active = FALSE WHERE session_token = $1`, token)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// DeleteExpired removes sessions that are expired or idle beyond the
// inactivity window
func (r *SessionRepository) DeleteExpired(ctx context.Context, now, activitySince time.Time) (int64, error) {
	result, err := r.db.Pool.Exec(ctx,
		`DELETE FROM sessions WHERE expires_at < $1 OR last_activity < $2`, now, activitySince)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
