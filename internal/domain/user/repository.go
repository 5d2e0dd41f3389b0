package user

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository is the credential store. It owns the User record exclusively;
// persisted reset/verification tokens live only here, as a secondary
// validation channel next to the signed token itself.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetAll(ctx context.Context) ([]*User, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, u *User) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	Delete(ctx context.Context, id uuid.UUID) error

	SetPasswordResetToken(ctx context.Context, id uuid.UUID, token string, expires time.Time) error
	// ConsumePasswordResetToken atomically compares the stored token,
	// writes the new password hash and clears the token pair in a single
	// conditional update. ErrTokenInvalid when the stored token differs,
	// is absent or has expired.
	ConsumePasswordResetToken(ctx context.Context, id uuid.UUID, token, passwordHash string) error

	SetEmailVerificationToken(ctx context.Context, id uuid.UUID, token string, expires time.Time) error
	// ConsumeEmailVerificationToken atomically marks the user verified and
	// active and clears the token pair, under the same compare-and-clear
	// contract as ConsumePasswordResetToken.
	ConsumeEmailVerificationToken(ctx context.Context, id uuid.UUID, token string) error
}
