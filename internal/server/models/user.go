// Package models holds the persisted row types shared by repositories and
// services.
package models

import "time"

// User is a registered account. PasswordHash is a bcrypt hash; the plain
// password is never stored.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
