package models

import "time"

// Session is a DB-backed login session keyed by an opaque random token.
// Expiration slides forward on every validated use.
type Session struct {
	ID           int64
	SessionToken string
	UserID       int64
	IPAddress    string
	UserAgent    string
	ExpiresAt    time.Time
	LastActivity time.Time
	IsActive     bool
	CreatedAt    time.Time
}
