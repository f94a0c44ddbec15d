package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/ancook/bazaar/internal/models"
	pkgauth "github.com/ancook/bazaar/pkg/auth"
)

// SessionRepository defines the interface for session storage
type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	GetActiveWithUser(ctx context.Context, token string, now, activitySince time.Time) (*models.User, error)
	Touch(ctx context.Context, token string, expiresAt, lastActivity time.Time) error
	Deactivate(ctx context.Context, token string) error
}

// SessionService manages opaque DB-backed sessions with sliding expiration.
// A session dies either when expires_at passes or when it sits idle longer
// than the session duration, whichever comes first.
type SessionService struct {
	repo     SessionRepository
	duration time.Duration
	logger   *slog.Logger
}

// NewSessionService creates a new SessionService
func NewSessionService(repo SessionRepository, duration time.Duration, logger *slog.Logger) *SessionService {
	return &SessionService{
		repo:     repo,
		duration: duration,
		logger:   logger,
	}
}

// Create opens a session for the user and returns its token. Sessions ride
// alongside JWTs, so a storage failure here degrades to an empty token
// instead of failing the login.
func (s *SessionService) Create(ctx context.Context, userID int64, ipAddress, userAgent string) string {
	token, err := pkgauth.GenerateSessionToken()
	if err != nil {
		s.logger.Error("failed to generate session token", slog.Any("error", err))
		return ""
	}

	now := time.Now()
	err = s.repo.Create(ctx, &models.Session{
		SessionToken: token,
		UserID:       userID,
		IPAddress:    ipAddress,
		UserAgent:    userAgent,
		ExpiresAt:    now.Add(s.duration),
		LastActivity: now,
	})
	if err != nil {
		s.logger.Error("failed to create session",
			slog.Int64("user_id", userID), slog.Any("error", err))
		return ""
	}

	return token
}

// Validate resolves a session token to its user and slides the expiration
// forward. Returns nil without error for a token that maps to no live
// session, including one idle past the inactivity window.
func (s *SessionService) Validate(ctx context.Context, token string) (*models.User, error) {
	now := time.Now()

	user, err := s.repo.GetActiveWithUser(ctx, token, now, now.Add(-s.duration))
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, nil
	}

	if err := s.repo.Touch(ctx, token, now.Add(s.duration), now); err != nil {
		// the session still validated; losing one slide is harmless
		s.logger.Error("failed to touch session", slog.Any("error", err))
	}

	return user, nil
}

// Invalidate deactivates a session at logout
func (s *SessionService) Invalidate(ctx context.Context, token string) error {
	return s.repo.Deactivate(ctx, token)
}

// Duration exposes the configured session lifetime for cookie max-age
func (s *SessionService) Duration() time.Duration {
	return s.duration
}
