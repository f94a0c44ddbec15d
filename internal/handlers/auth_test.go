package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ancook/bazaar/internal/auth"
	"github.com/ancook/bazaar/internal/models"
	"github.com/ancook/bazaar/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthHandler(svc AuthServiceInterface) *AuthHandler {
	return NewAuthHandler(svc, auth.CookieConfig{SameSite: http.SameSiteLaxMode}, 30*time.Minute)
}

func testUser() *models.User {
	return &models.User{
		ID:        7,
		Username:  "alice",
		Email:     "alice@example.com",
		FirstName: "Alice",
		LastName:  "Smith",
		IsActive:  true,
	}
}

func TestLoginHandler_Success(t *testing.T) {
	svc := &MockAuthService{
		LoginFunc: func(ctx context.Context, identifier, password, ipAddress, userAgent string) (*services.LoginResult, *models.LockStatus, error) {
			return &services.LoginResult{
				Token:        "jwt-token",
				SessionToken: "session-token",
				User:         testUser(),
			}, nil, nil
		},
	}
	h := newAuthHandler(svc)

	req := NewTestRequest(t, http.MethodPost, "/auth/login",
		map[string]string{"identifier": "alice", "password": "secret123"})
	w := httptest.NewRecorder()

	h.Login(w, req)

	var resp AuthResponse
	AssertJSONResponse(t, w, http.StatusOK, &resp)
	assert.Equal(t, "jwt-token", resp.Token)
	assert.Equal(t, "session-token", resp.SessionToken)
	assert.Equal(t, "alice", resp.User.Username)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, auth.SessionCookieName, cookies[0].Name)
	assert.Equal(t, "session-token", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestLoginHandler_InvalidCredentials(t *testing.T) {
	h := newAuthHandler(&MockAuthService{})

	req := NewTestRequest(t, http.MethodPost, "/auth/login",
		map[string]string{"identifier": "alice", "password": "wrong"})
	w := httptest.NewRecorder()

	h.Login(w, req)

	AssertErrorResponse(t, w, http.StatusUnauthorized, "Invalid credentials")
}

func TestLoginHandler_Locked(t *testing.T) {
	svc := &MockAuthService{
		LoginFunc: func(ctx context.Context, identifier, password, ipAddress, userAgent string) (*services.LoginResult, *models.LockStatus, error) {
			return nil, &models.LockStatus{
				IsLocked:         true,
				RemainingMinutes: 12,
				Reason:           "too many failed login attempts",
			}, models.ErrAccountLocked
		},
	}
	h := newAuthHandler(svc)

	req := NewTestRequest(t, http.MethodPost, "/auth/login",
		map[string]string{"identifier": "alice", "password": "whatever"})
	w := httptest.NewRecorder()

	h.Login(w, req)

	var resp LockedResponse
	AssertJSONResponse(t, w, http.StatusLocked, &resp)
	assert.Equal(t, 12, resp.LockedUntil)
	assert.Equal(t, "too many failed login attempts", resp.Reason)
	assert.NotEmpty(t, resp.Message)
}

func TestLoginHandler_MissingFields(t *testing.T) {
	h := newAuthHandler(&MockAuthService{})

	req := NewTestRequest(t, http.MethodPost, "/auth/login",
		map[string]string{"identifier": "alice"})
	w := httptest.NewRecorder()

	h.Login(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginHandler_SessionUnavailable(t *testing.T) {
	svc := &MockAuthService{
		LoginFunc: func(ctx context.Context, identifier, password, ipAddress, userAgent string) (*services.LoginResult, *models.LockStatus, error) {
			return &services.LoginResult{Token: "jwt-token", User: testUser()}, nil, nil
		},
	}
	h := newAuthHandler(svc)

	req := NewTestRequest(t, http.MethodPost, "/auth/login",
		map[string]string{"identifier": "alice", "password": "secret123"})
	w := httptest.NewRecorder()

	h.Login(w, req)

	var resp AuthResponse
	AssertJSONResponse(t, w, http.StatusOK, &resp)
	assert.NotEmpty(t, resp.Token)
	assert.Empty(t, resp.SessionToken)
	// no cookie without a session token
	assert.Empty(t, w.Result().Cookies())
}

func TestRegisterHandler_Success(t *testing.T) {
	svc := &MockAuthService{
		RegisterFunc: func(ctx context.Context, input services.RegisterInput) (*services.LoginResult, error) {
			return &services.LoginResult{
				Token:        "jwt-token",
				SessionToken: "session-token",
				User:         testUser(),
			}, nil
		},
	}
	h := newAuthHandler(svc)

	req := NewTestRequest(t, http.MethodPost, "/auth/register", map[string]string{
		"username":  "alice",
		"email":     "alice@example.com",
		"password":  "a fine password",
		"firstName": "Alice",
		"lastName":  "Smith",
	})
	w := httptest.NewRecorder()

	h.Register(w, req)

	var resp AuthResponse
	AssertJSONResponse(t, w, http.StatusCreated, &resp)
	assert.NotEmpty(t, resp.Token)
}

func TestRegisterHandler_Duplicate(t *testing.T) {
	svc := &MockAuthService{
		RegisterFunc: func(ctx context.Context, input services.RegisterInput) (*services.LoginResult, error) {
			return nil, models.ErrConflict
		},
	}
	h := newAuthHandler(svc)

	req := NewTestRequest(t, http.MethodPost, "/auth/register", map[string]string{
		"username":  "alice",
		"email":     "alice@example.com",
		"password":  "a fine password",
		"firstName": "Alice",
		"lastName":  "Smith",
	})
	w := httptest.NewRecorder()

	h.Register(w, req)

	AssertErrorResponse(t, w, http.StatusBadRequest, "Username or email already exists")
}

func TestRegisterHandler_InvalidEmail(t *testing.T) {
	h := newAuthHandler(&MockAuthService{})

	req := NewTestRequest(t, http.MethodPost, "/auth/register", map[string]string{
		"username":  "alice",
		"email":     "not-an-email",
		"password":  "a fine password",
		"firstName": "Alice",
		"lastName":  "Smith",
	})
	w := httptest.NewRecorder()

	h.Register(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogoutHandler_ClearsCookie(t *testing.T) {
	var gotCred *auth.Credential
	svc := &MockAuthService{
		LogoutFunc: func(ctx context.Context, cred *auth.Credential) error {
			gotCred = cred
			return nil
		},
	}
	h := newAuthHandler(svc)

	req := NewTestRequest(t, http.MethodPost, "/auth/logout", nil)
	req = WithSessionContext(req, testUser(), "session-token")
	w := httptest.NewRecorder()

	h.Logout(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, gotCred)
	assert.Equal(t, auth.CredentialSession, gotCred.Kind)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, auth.SessionCookieName, cookies[0].Name)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestLogoutHandler_Unauthenticated(t *testing.T) {
	h := newAuthHandler(&MockAuthService{})

	req := NewTestRequest(t, http.MethodPost, "/auth/logout", nil)
	w := httptest.NewRecorder()

	h.Logout(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetProfileHandler(t *testing.T) {
	svc := &MockAuthService{
		GetProfileFunc: func(ctx context.Context, userID int64) (*models.User, error) {
			u := testUser()
			u.ID = userID
			return u, nil
		},
	}
	h := newAuthHandler(svc)

	req := NewTestRequest(t, http.MethodGet, "/auth/profile", nil)
	req = WithUserContext(req, testUser())
	w := httptest.NewRecorder()

	h.GetProfile(w, req)

	var resp struct {
		User UserResponse `json:"user"`
	}
	AssertJSONResponse(t, w, http.StatusOK, &resp)
	assert.Equal(t, int64(7), resp.User.ID)
	assert.Equal(t, "alice", resp.User.Username)
}

func TestUpdateProfileHandler(t *testing.T) {
	var gotUpdate services.ProfileUpdate
	svc := &MockAuthService{
		UpdateProfileFunc: func(ctx context.Context, userID int64, update services.ProfileUpdate) (*models.User, error) {
			gotUpdate = update
			u := testUser()
			u.FirstName = update.FirstName
			return u, nil
		},
	}
	h := newAuthHandler(svc)

	req := NewTestRequest(t, http.MethodPut, "/auth/profile", map[string]string{
		"firstName": "Alicia",
		"lastName":  "Smith",
		"phone":     "+3120000000",
	})
	req = WithUserContext(req, testUser())
	w := httptest.NewRecorder()

	h.UpdateProfile(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Alicia", gotUpdate.FirstName)
}
