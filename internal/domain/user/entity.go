package user

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	StatusActive   = "active"
	StatusInactive = "inactive"
)

// User is the credential-store record. The reset and verification token
// fields always travel as a pair with their expiry: a non-nil token
// implies a non-nil expiry, and validity is decided by the expiry alone.
type User struct {
	ID             uuid.UUID
	Email          string
	Username       string
	PasswordHashed string
	Role           string
	Status         string
	EmailVerified  bool
	Bio            string
	ProfileImageID *uuid.UUID

	PasswordResetToken       *string
	PasswordResetExpires     *time.Time
	EmailVerificationToken   *string
	EmailVerificationExpires *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
