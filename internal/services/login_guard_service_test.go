package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ancook/bazaar/internal/config"
	"github.com/ancook/bazaar/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func guardConfig() config.AuthConfig {
	return config.AuthConfig{
		MaxLoginAttempts: 5,
		AttemptWindow:    15 * time.Minute,
		LockoutDuration:  15 * time.Minute,
	}
}

func newGuard(repo *MockLoginAttemptRepository, users *MockUserRepository) *LoginGuardService {
	return NewLoginGuardService(repo, users, guardConfig(), testLogger(), testAuditLogger())
}

func TestCheckLock_Unlocked(t *testing.T) {
	guard := newGuard(&MockLoginAttemptRepository{}, &MockUserRepository{})

	status := guard.CheckLock(context.Background(), "alice", "10.0.0.1")

	assert.False(t, status.IsLocked)
	assert.Zero(t, status.RemainingMinutes)
}

func TestCheckLock_Locked(t *testing.T) {
	repo := &MockLoginAttemptRepository{
		GetActiveLockFunc: func(ctx context.Context, identifier, ipAddress string, now time.Time) (*models.AccountLock, error) {
			return &models.AccountLock{
				Identifier:  identifier,
				IPAddress:   ipAddress,
				LockedUntil: now.Add(14*time.Minute + 30*time.Second),
				Reason:      "too many failed login attempts",
			}, nil
		},
	}
	guard := newGuard(repo, &MockUserRepository{})

	status := guard.CheckLock(context.Background(), "alice", "10.0.0.1")

	assert.True(t, status.IsLocked)
	// partial minutes round up
	assert.Equal(t, 15, status.RemainingMinutes)
	assert.Equal(t, "too many failed login attempts", status.Reason)
}

func TestCheckLock_RemainingMinutesPositive(t *testing.T) {
	repo := &MockLoginAttemptRepository{
		GetActiveLockFunc: func(ctx context.Context, identifier, ipAddress string, now time.Time) (*models.AccountLock, error) {
			return &models.AccountLock{LockedUntil: now.Add(5 * time.Second)}, nil
		},
	}
	guard := newGuard(repo, &MockUserRepository{})

	status := guard.CheckLock(context.Background(), "alice", "10.0.0.1")

	assert.True(t, status.IsLocked)
	assert.Equal(t, 1, status.RemainingMinutes)
}

func TestCheckLock_StorageErrorAllowsLogin(t *testing.T) {
	repo := &MockLoginAttemptRepository{
		GetActiveLockFunc: func(ctx context.Context, identifier, ipAddress string, now time.Time) (*models.AccountLock, error) {
			return nil, errors.New("connection refused")
		},
	}
	guard := newGuard(repo, &MockUserRepository{})

	status := guard.CheckLock(context.Background(), "alice", "10.0.0.1")

	assert.False(t, status.IsLocked)
}

func TestRecordAttempt_SuccessSkipsCounting(t *testing.T) {
	counted := false
	repo := &MockLoginAttemptRepository{
		CountRecentFailuresFunc: func(ctx context.Context, identifier, ipAddress string, since time.Time) (int, error) {
			counted = true
			return 0, nil
		},
	}
	guard := newGuard(repo, &MockUserRepository{})

	locked, _ := guard.RecordAttempt(context.Background(), "alice", "10.0.0.1", "ua", true)

	assert.False(t, locked)
	assert.False(t, counted)
}

func TestRecordAttempt_BelowThresholdNoLock(t *testing.T) {
	var created *models.AccountLock
	repo := &MockLoginAttemptRepository{
		CountRecentFailuresFunc: func(ctx context.Context, identifier, ipAddress string, since time.Time) (int, error) {
			return 4, nil
		},
		CreateLockFunc: func(ctx context.Context, lock *models.AccountLock) error {
			created = lock
			return nil
		},
	}
	guard := newGuard(repo, &MockUserRepository{})

	locked, _ := guard.RecordAttempt(context.Background(), "alice", "10.0.0.1", "ua", false)

	assert.False(t, locked)
	assert.Nil(t, created)
}

func TestRecordAttempt_ThresholdCreatesLock(t *testing.T) {
	var created *models.AccountLock
	repo := &MockLoginAttemptRepository{
		CountRecentFailuresFunc: func(ctx context.Context, identifier, ipAddress string, since time.Time) (int, error) {
			return 5, nil
		},
		CreateLockFunc: func(ctx context.Context, lock *models.AccountLock) error {
			created = lock
			return nil
		},
	}
	users := &MockUserRepository{
		GetByIdentifierFunc: func(ctx context.Context, identifier string) (*models.User, error) {
			return &models.User{ID: 7, Username: identifier}, nil
		},
	}
	guard := newGuard(repo, users)

	before := time.Now()
	locked, lockedUntil := guard.RecordAttempt(context.Background(), "alice", "10.0.0.1", "ua", false)
	after := time.Now()

	assert.True(t, locked)
	require.NotNil(t, created)
	assert.Equal(t, created.LockedUntil, lockedUntil)
	assert.Equal(t, "alice", created.Identifier)
	assert.Equal(t, "10.0.0.1", created.IPAddress)
	require.NotNil(t, created.UserID)
	assert.Equal(t, int64(7), *created.UserID)
	assert.True(t, created.LockedUntil.After(before.Add(14*time.Minute)))
	assert.True(t, created.LockedUntil.Before(after.Add(16*time.Minute)))
}

func TestRecordAttempt_UnknownIdentifierStillLocks(t *testing.T) {
	var created *models.AccountLock
	repo := &MockLoginAttemptRepository{
		CountRecentFailuresFunc: func(ctx context.Context, identifier, ipAddress string, since time.Time) (int, error) {
			return 6, nil
		},
		CreateLockFunc: func(ctx context.Context, lock *models.AccountLock) error {
			created = lock
			return nil
		},
	}
	guard := newGuard(repo, &MockUserRepository{})

	locked, _ := guard.RecordAttempt(context.Background(), "nobody", "10.0.0.1", "ua", false)

	assert.True(t, locked)
	require.NotNil(t, created)
	assert.Nil(t, created.UserID)
}

func TestRecordAttempt_ExistingLockNotExtended(t *testing.T) {
	lockCreated := false
	repo := &MockLoginAttemptRepository{
		CountRecentFailuresFunc: func(ctx context.Context, identifier, ipAddress string, since time.Time) (int, error) {
			return 6, nil
		},
		GetActiveLockFunc: func(ctx context.Context, identifier, ipAddress string, now time.Time) (*models.AccountLock, error) {
			return &models.AccountLock{LockedUntil: now.Add(10 * time.Minute)}, nil
		},
		CreateLockFunc: func(ctx context.Context, lock *models.AccountLock) error {
			lockCreated = true
			return nil
		},
	}
	guard := newGuard(repo, &MockUserRepository{})

	// a lock already covers the pair, so nothing was "just created"
	locked, _ := guard.RecordAttempt(context.Background(), "alice", "10.0.0.1", "ua", false)

	assert.False(t, locked)
	assert.False(t, lockCreated)
}

func TestRecordAttempt_CountErrorSkipsLock(t *testing.T) {
	lockCreated := false
	repo := &MockLoginAttemptRepository{
		CountRecentFailuresFunc: func(ctx context.Context, identifier, ipAddress string, since time.Time) (int, error) {
			return 0, errors.New("connection refused")
		},
		CreateLockFunc: func(ctx context.Context, lock *models.AccountLock) error {
			lockCreated = true
			return nil
		},
	}
	guard := newGuard(repo, &MockUserRepository{})

	locked, _ := guard.RecordAttempt(context.Background(), "alice", "10.0.0.1", "ua", false)

	assert.False(t, locked)
	assert.False(t, lockCreated)
}

func TestRemainingMinutes(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name     string
		until    time.Time
		expected int
	}{
		{"expired", now.Add(-time.Minute), 0},
		{"exactly now", now, 0},
		{"thirty seconds", now.Add(30 * time.Second), 1},
		{"exactly one minute", now.Add(time.Minute), 1},
		{"fourteen and a half", now.Add(14*time.Minute + 30*time.Second), 15},
		{"full window", now.Add(15 * time.Minute), 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, remainingMinutes(tt.until, now))
		})
	}
}
