package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/ancook/bazaar/internal/auth"
	"github.com/ancook/bazaar/internal/models"
	pkgauth "github.com/ancook/bazaar/pkg/auth"
	pkglogger "github.com/ancook/bazaar/pkg/logger"
)

// UserRepository defines the interface for user database operations
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByIdentifier(ctx context.Context, identifier string) (*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	UpdateProfile(ctx context.Context, id int64, user *models.User) (*models.User, error)
}

// LoginResult carries everything a successful login hands back to the client.
// SessionToken is empty when session creation failed; the JWT still works.
type LoginResult struct {
	Token        string
	SessionToken string
	User         *models.User
}

// RegisterInput is the validated registration payload
type RegisterInput struct {
	Username       string
	Email          string
	Password       string
	FirstName      string
	LastName       string
	Phone          string
	PrimaryAddress string
}

// ProfileUpdate holds the fields a user may change on their own profile
type ProfileUpdate struct {
	FirstName      string
	LastName       string
	Phone          string
	PrimaryAddress string
}

// AuthService orchestrates registration, login, and profile management,
// running every login through the lockout guard.
type AuthService struct {
	users    UserRepository
	guard    *LoginGuardService
	sessions *SessionService
	tm       *auth.TokenManager
	logger   *slog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(users UserRepository, guard *LoginGuardService, sessions *SessionService, tm *auth.TokenManager, logger *slog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		guard:    guard,
		sessions: sessions,
		tm:       tm,
		logger:   logger,
	}
}

// Register creates a new user account and logs it straight in
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*LoginResult, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	if err := pkgauth.ValidatePassword(input.Password); err != nil {
		return nil, models.ErrBadRequest
	}

	hash, err := pkgauth.HashPassword(input.Password)
	if err != nil {
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	user, err := s.users.Create(ctx, &models.User{
		Username:       input.Username,
		Email:          input.Email,
		PasswordHash:   hash,
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Phone:          input.Phone,
		PrimaryAddress: input.PrimaryAddress,
	})
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			s.logger.Info("registration failed: username or email taken")
			return nil, models.ErrConflict
		}
		s.logger.Error("failed to create user", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	token, err := s.tm.GenerateToken(user.ID, user.Username, user.Email)
	if err != nil {
		s.logger.Error("failed to generate token",
			slog.Int64("user_id", user.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("user registered", slog.Int64("user_id", user.ID))

	return &LoginResult{
		Token:        token,
		SessionToken: s.sessions.Create(ctx, user.ID, "", ""),
		User:         user,
	}, nil
}

// recordFailure logs the failed attempt with the guard. When that very
// attempt trips the lockout threshold it returns the fresh lock's status so
// the caller can answer locked instead of unauthorized.
func (s *AuthService) recordFailure(ctx context.Context, identifier, ipAddress, userAgent string) *models.LockStatus {
	locked, lockedUntil := s.guard.RecordAttempt(ctx, identifier, ipAddress, userAgent, false)
	if !locked {
		return nil
	}
	return &models.LockStatus{
		IsLocked:         true,
		RemainingMinutes: remainingMinutes(lockedUntil, time.Now()),
		Reason:           lockReason,
		LockedUntil:      lockedUntil,
	}
}

// Login authenticates an identifier/password pair. When the identifier or IP
// is locked out, or when this attempt itself trips the lockout threshold, it
// returns ErrAccountLocked with the lock status; every other outcome is
// recorded against the guard.
func (s *AuthService) Login(ctx context.Context, identifier, password, ipAddress, userAgent string) (*LoginResult, *models.LockStatus, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, nil, models.ErrUnauthorized
	}

	status := s.guard.CheckLock(ctx, identifier, ipAddress)
	if status.IsLocked {
		s.logger.Info("login blocked by lockout",
			slog.String("identifier", pkglogger.SanitizedEmail(identifier)),
			slog.Int("remaining_minutes", status.RemainingMinutes))
		return nil, status, models.ErrAccountLocked
	}

	user, err := s.users.GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("login failed: invalid credentials")
			if tripped := s.recordFailure(ctx, identifier, ipAddress, userAgent); tripped != nil {
				return nil, tripped, models.ErrAccountLocked
			}
			return nil, nil, models.ErrUnauthorized
		}
		s.logger.Error("failed to get user by identifier", slog.Any("error", err))
		return nil, nil, models.ErrInternalServer
	}

	if !user.IsActive {
		s.logger.Info("login blocked: account deactivated", slog.Int64("user_id", user.ID))
		if tripped := s.recordFailure(ctx, identifier, ipAddress, userAgent); tripped != nil {
			return nil, tripped, models.ErrAccountLocked
		}
		return nil, nil, models.ErrAccountInactive
	}

	if err := pkgauth.ComparePassword(user.PasswordHash, password); err != nil {
		s.logger.Info("login failed: invalid credentials")
		if tripped := s.recordFailure(ctx, identifier, ipAddress, userAgent); tripped != nil {
			return nil, tripped, models.ErrAccountLocked
		}
		return nil, nil, models.ErrUnauthorized
	}

	s.guard.RecordAttempt(ctx, identifier, ipAddress, userAgent, true)

	token, err := s.tm.GenerateToken(user.ID, user.Username, user.Email)
	if err != nil {
		s.logger.Error("failed to generate token",
			slog.Int64("user_id", user.ID), slog.Any("error", err))
		return nil, nil, models.ErrInternalServer
	}

	s.logger.Info("user logged in", slog.Int64("user_id", user.ID))

	return &LoginResult{
		Token:        token,
		SessionToken: s.sessions.Create(ctx, user.ID, ipAddress, userAgent),
		User:         user,
	}, nil, nil
}

// Logout invalidates the session behind a session credential. JWT credentials
// have nothing server-side to tear down.
func (s *AuthService) Logout(ctx context.Context, cred *auth.Credential) error {
	if cred.Kind != auth.CredentialSession {
		return nil
	}

	err := s.sessions.Invalidate(ctx, cred.Token)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		s.logger.Error("failed to invalidate session", slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.logger.Info("user logged out", slog.Int64("user_id", cred.User.ID))
	return nil
}

// GetProfile returns the user's own record
func (s *AuthService) GetProfile(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get profile",
			slog.Int64("user_id", userID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return user, nil
}

// UpdateProfile applies the user's changes to their own record
func (s *AuthService) UpdateProfile(ctx context.Context, userID int64, update ProfileUpdate) (*models.User, error) {
	user, err := s.users.UpdateProfile(ctx, userID, &models.User{
		FirstName:      update.FirstName,
		LastName:       update.LastName,
		Phone:          update.Phone,
		PrimaryAddress: update.PrimaryAddress,
	})
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to update profile",
			slog.Int64("user_id", userID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("profile updated", slog.Int64("user_id", userID))
	return user, nil
}
