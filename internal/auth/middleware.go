package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ancook/bazaar/internal/models"
	pkghttp "github.com/ancook/bazaar/pkg/http"
)

// contextKey is a custom type for context keys
type contextKey string

const (
	// CredentialContextKey is the key for storing the resolved credential in context
	CredentialContextKey contextKey = "credential"
)

// CredentialKind distinguishes how a request authenticated.
type CredentialKind string

const (
	CredentialJWT     CredentialKind = "jwt"
	CredentialSession CredentialKind = "session"
)

// Credential is the result of resolving a presented token: the kind it turned
// out to be and the principal it belongs to. Handlers that need to invalidate
// a session on logout check Kind and use Token as the session key.
type Credential struct {
	Kind  CredentialKind
	Token string
	User  *models.User
}

// SessionValidator validates opaque session tokens and returns the session's
// user, or nil when the token does not map to a live session.
type SessionValidator interface {
	Validate(ctx context.Context, token string) (*models.User, error)
}

// UserFetcher loads users referenced by JWT claims
type UserFetcher interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// Resolver turns a raw token into a Credential. JWTs are tried first; a token
// that fails JWT parsing is looked up as a session token.
type Resolver struct {
	tm       *TokenManager
	sessions SessionValidator
	users    UserFetcher
	logger   *slog.Logger
}

// NewResolver creates a credential resolver
func NewResolver(tm *TokenManager, sessions SessionValidator, users UserFetcher, logger *slog.Logger) *Resolver {
	return &Resolver{
		tm:       tm,
		sessions: sessions,
		users:    users,
		logger:   logger,
	}
}

// Resolve attempts both credential kinds and returns the first that matches.
func (rs *Resolver) Resolve(ctx context.Context, token string) (*Credential, error) {
	if claims, err := rs.tm.ValidateToken(token); err == nil {
		user, err := rs.users.GetByID(ctx, claims.UserID)
		if err == nil && user.IsActive {
			return &Credential{Kind: CredentialJWT, Token: token, User: user}, nil
		}
	}

	user, err := rs.sessions.Validate(ctx, token)
	if err != nil {
		rs.logger.Error("session validation failed", slog.Any("error", err))
		return nil, models.ErrUnauthorized
	}
	if user != nil {
		return &Credential{Kind: CredentialSession, Token: token, User: user}, nil
	}

	return nil, models.ErrUnauthorized
}

// RequireAuth rejects requests that do not carry a resolvable credential.
func (rs *Resolver) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			pkghttp.WriteUnauthorized(w, "Access token required")
			return
		}

		cred, err := rs.Resolve(r.Context(), token)
		if err != nil {
			pkghttp.WriteForbidden(w, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), CredentialContextKey, cred)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuth resolves a credential when one is presented but never rejects.
func (rs *Resolver) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		cred, err := rs.Resolve(r.Context(), token)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), CredentialContextKey, cred)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// extractToken pulls the raw token from the Authorization header, falling
// back to the session cookie set at login.
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
	}

	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		return cookie.Value
	}

	return ""
}

// GetCredential extracts the resolved credential from request context
func GetCredential(r *http.Request) *Credential {
	cred, ok := r.Context().Value(CredentialContextKey).(*Credential)
	if !ok {
		return nil
	}
	return cred
}

// GetUser extracts the authenticated user from request context, or nil
func GetUser(r *http.Request) *models.User {
	cred := GetCredential(r)
	if cred == nil {
		return nil
	}
	return cred.User
}
