package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ancook/bazaar/internal/auth"
	"github.com/ancook/bazaar/internal/models"
	"github.com/ancook/bazaar/internal/services"
	pkghttp "github.com/ancook/bazaar/pkg/http"
)

// AuthServiceInterface defines the interface for auth business logic
type AuthServiceInterface interface {
	Register(ctx context.Context, input services.RegisterInput) (*services.LoginResult, error)
	Login(ctx context.Context, identifier, password, ipAddress, userAgent string) (*services.LoginResult, *models.LockStatus, error)
	Logout(ctx context.Context, cred *auth.Credential) error
	GetProfile(ctx context.Context, userID int64) (*models.User, error)
	UpdateProfile(ctx context.Context, userID int64, update services.ProfileUpdate) (*models.User, error)
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	service       AuthServiceInterface
	cookieConfig  auth.CookieConfig
	sessionMaxAge time.Duration
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service AuthServiceInterface, cookieConfig auth.CookieConfig, sessionMaxAge time.Duration) *AuthHandler {
	return &AuthHandler{
		service:       service,
		cookieConfig:  cookieConfig,
		sessionMaxAge: sessionMaxAge,
	}
}

// Request DTOs

// RegisterRequest represents the request body for registration
type RegisterRequest struct {
	Username       string `json:"username" validate:"required,min=3,max=30"`
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required"`
	FirstName      string `json:"firstName" validate:"required,min=1,max=50"`
	LastName       string `json:"lastName" validate:"required,min=1,max=50"`
	Phone          string `json:"phone" validate:"max=30"`
	PrimaryAddress string `json:"primaryAddress" validate:"max=500"`
}

// LoginRequest represents the request body for login. Identifier is an email
// or a username.
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// UpdateProfileRequest represents the request body for profile updates
type UpdateProfileRequest struct {
	FirstName      string `json:"firstName" validate:"required,min=1,max=50"`
	LastName       string `json:"lastName" validate:"required,min=1,max=50"`
	Phone          string `json:"phone" validate:"max=30"`
	PrimaryAddress string `json:"primaryAddress" validate:"max=500"`
}

// AuthResponse is the body returned by login and registration.
// SessionToken is empty when the session store was unavailable; the client
// then operates JWT-only.
type AuthResponse struct {
	Message      string        `json:"message"`
	Token        string        `json:"token"`
	SessionToken string        `json:"sessionToken,omitempty"`
	User         *UserResponse `json:"user"`
}

// LockedResponse is the 423 body for locked-out logins. LockedUntil is the
// remaining lockout in whole minutes.
type LockedResponse struct {
	Message     string `json:"message"`
	LockedUntil int    `json:"lockedUntil"`
	Reason      string `json:"reason"`
}

// Register handles user registration
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	result, err := h.service.Register(r.Context(), services.RegisterInput{
		Username:       req.Username,
		Email:          req.Email,
		Password:       req.Password,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Phone:          req.Phone,
		PrimaryAddress: req.PrimaryAddress,
	})
	if err != nil {
		switch {
		case errors.Is(err, models.ErrConflict):
			pkghttp.WriteBadRequest(w, "Username or email already exists")
		case errors.Is(err, models.ErrBadRequest):
			pkghttp.WriteBadRequest(w, "Password must be between 8 and 128 characters")
		default:
			pkghttp.WriteInternalError(w, "Registration failed", err)
		}
		return
	}

	h.setSession(w, result.SessionToken)
	pkghttp.WriteJSON(w, http.StatusCreated, AuthResponse{
		Message:      "User registered successfully",
		Token:        result.Token,
		SessionToken: result.SessionToken,
		User:         userToResponse(result.User),
	})
}

// Login handles user login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	ipAddress := pkghttp.ClientIP(r)
	userAgent := r.Header.Get("User-Agent")

	result, lock, err := h.service.Login(r.Context(), req.Identifier, req.Password, ipAddress, userAgent)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrAccountLocked):
			pkghttp.WriteLocked(w, LockedResponse{
				Message:     "Account temporarily locked due to too many failed login attempts",
				LockedUntil: lock.RemainingMinutes,
				Reason:      lock.Reason,
			})
		case errors.Is(err, models.ErrAccountInactive):
			pkghttp.WriteUnauthorized(w, "Account is deactivated")
		case errors.Is(err, models.ErrUnauthorized):
			pkghttp.WriteUnauthorized(w, "Invalid credentials")
		default:
			pkghttp.WriteInternalError(w, "Login failed", err)
		}
		return
	}

	h.setSession(w, result.SessionToken)
	pkghttp.WriteJSON(w, http.StatusOK, AuthResponse{
		Message:      "Login successful",
		Token:        result.Token,
		SessionToken: result.SessionToken,
		User:         userToResponse(result.User),
	})
}

// Logout tears down the caller's session when they have one
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	cred := auth.GetCredential(r)
	if cred == nil {
		pkghttp.WriteUnauthorized(w, "Access token required")
		return
	}

	if err := h.service.Logout(r.Context(), cred); err != nil {
		pkghttp.WriteInternalError(w, "Logout failed", err)
		return
	}

	auth.ClearSessionCookie(w, h.cookieConfig)
	pkghttp.WriteJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// GetProfile returns the authenticated user's profile
func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r)
	if user == nil {
		pkghttp.WriteUnauthorized(w, "Access token required")
		return
	}

	profile, err := h.service.GetProfile(r.Context(), user.ID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "User not found")
			return
		}
		pkghttp.WriteInternalError(w, "Failed to load profile", err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]interface{}{"user": userToResponse(profile)})
}

// UpdateProfile applies profile changes for the authenticated user
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r)
	if user == nil {
		pkghttp.WriteUnauthorized(w, "Access token required")
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	updated, err := h.service.UpdateProfile(r.Context(), user.ID, services.ProfileUpdate{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Phone:          req.Phone,
		PrimaryAddress: req.PrimaryAddress,
	})
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "User not found")
			return
		}
		pkghttp.WriteInternalError(w, "Failed to update profile", err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Profile updated successfully",
		"user":    userToResponse(updated),
	})
}

func (h *AuthHandler) setSession(w http.ResponseWriter, sessionToken string) {
	if sessionToken == "" {
		return
	}
	auth.SetSessionCookie(w, sessionToken, h.sessionMaxAge, h.cookieConfig)
}
