package models

import "time"

// LoginAttempt is one row of the append-only authentication attempt log.
// Identifier is whatever the client typed into the login form (email or
// username); it is recorded even when no such user exists.
type LoginAttempt struct {
	ID          int64
	Identifier  string
	IPAddress   string
	Success     bool
	UserAgent   string
	AttemptTime time.Time
}

// AccountLock is the authoritative record of a temporary lockout. A lock
// matches future attempts by identifier or by IP and expires when LockedUntil
// passes; expired rows are swept by the background cleanup.
type AccountLock struct {
	ID          int64
	UserID      *int64
	Identifier  string
	IPAddress   string
	LockedUntil time.Time
	Reason      string
	CreatedAt   time.Time
}

// LockStatus is the result of a lock check, with no side effects.
type LockStatus struct {
	IsLocked         bool
	RemainingMinutes int
	Reason           string
	LockedUntil      time.Time
}
