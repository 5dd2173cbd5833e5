package domain

import (
	"time"
)

// Verified mirrors the legacy "yes"/"no" column.
type Verified string

const (
	VerifiedYes Verified = "yes"
	VerifiedNo  Verified = "no"
)

type User struct {
	ID           int64
	LoginName    string
	FirstName    string
	LastName     string
	Email        string
	MobileNumber string
	PasswordHash string
	Verified     Verified
	CreatedAt    time.Time
	CreatedBy    string
	UpdatedAt    time.Time
}

// MaxPasswordBytes is the longest password bcrypt accepts. The same limit
// applies under argon2id so hashes stay interchangeable.
const MaxPasswordBytes = 72

// Principal is the minimal identity handed to token issuance.
type Principal struct {
	Username     string
	PasswordHash string
	Authorities  []string
	Enabled      bool
}

// NewPrincipal builds the principal for u. No roles are modeled, so the
// authority set is always empty.
func NewPrincipal(u *User) *Principal {
	return &Principal{
		Username:     u.LoginName,
		PasswordHash: u.PasswordHash,
		Authorities:  []string{},
		Enabled:      u.Verified == VerifiedYes,
	}
}

type TokenPurpose string

const (
	PurposeSession       TokenPurpose = "session"
	PurposePasswordReset TokenPurpose = "password-reset"
)
