package entity

import (
	"time"
)

// Account is the aggregate root for the user domain.
// Password holds a bcrypt hash; the plaintext is never persisted or logged.
//
// OTPCode and OTPExpiresAt are either both set (a verification is pending)
// or both nil; MarkVerified clears them in the same statement that flips
// IsVerified, so the pair can never be half-cleared.
type Account struct {
	ID           string
	Email        string
	Password     string
	Name         string
	AvatarURL    string
	IsVerified   bool
	Role         Role
	OTPCode      *string
	OTPExpiresAt *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasPendingCode reports whether a registration code is outstanding.
func (a *Account) HasPendingCode() bool {
	return a.OTPCode != nil && a.OTPExpiresAt != nil
}
