// Package models defines the records persisted by the registry.
package models

import "time"

// AccountID identifies an account. It is assigned by storage on creation.
type AccountID int64

// Account is a registered user identity.
type Account struct {
	ID           AccountID
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
