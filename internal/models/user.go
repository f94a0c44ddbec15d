package models

import (
	"time"
)

type User struct {
	ID             int64
	Username       string
	Email          string
	PasswordHash   string
	FirstName      string
	LastName       string
	Phone          string
	PrimaryAddress string
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
