package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	appErrors "marketplace-api/pkg/errors"
)

// Purpose scopes a token to a single use. A token issued for one purpose
// never verifies under another, so a password-reset token cannot stand in
// for an access token.
type Purpose string

const (
	PurposeAccess            Purpose = "access"
	PurposeRefresh           Purpose = "refresh"
	PurposePasswordReset     Purpose = "password_reset"
	PurposeEmailVerification Purpose = "email_verification"
)

// Token lifetimes are policy constants, not configuration.
const (
	AccessTokenTTL            = 15 * time.Minute
	RefreshTokenTTL           = 7 * 24 * time.Hour
	PasswordResetTokenTTL     = 1 * time.Hour
	EmailVerificationTokenTTL = 24 * time.Hour
)

func (p Purpose) TTL() time.Duration {
	switch p {
	case PurposeAccess:
		return AccessTokenTTL
	case PurposeRefresh:
		return RefreshTokenTTL
	case PurposePasswordReset:
		return PasswordResetTokenTTL
	case PurposeEmailVerification:
		return EmailVerificationTokenTTL
	}
	return 0
}

func (p Purpose) valid() bool {
	return p.TTL() > 0
}

type Claims struct {
	UserID  string  `json:"userId"`
	Purpose Purpose `json:"purpose"`
	jwt.RegisteredClaims
}

// Service signs and verifies every token class under a single shared
// secret with HMAC-SHA256.
type Service struct {
	secret []byte
}

func NewService(secret string) *Service {
	return &Service{secret: []byte(secret)}
}

// Issue produces a signed token binding userID to purpose, expiring after
// the purpose's policy TTL.
func (s *Service) Issue(purpose Purpose, userID uuid.UUID) (string, error) {
	return s.IssueWithTTL(purpose, userID, purpose.TTL())
}

// IssueWithTTL is Issue with an explicit lifetime. Callers outside tests
// should prefer Issue so policy TTLs stay in one place.
func (s *Service) IssueWithTTL(purpose Purpose, userID uuid.UUID, ttl time.Duration) (string, error) {
	if !purpose.valid() {
		return "", appErrors.NewAppError("INVALID_TOKEN_PURPOSE", "unknown token purpose", nil)
	}

	now := time.Now()
	claims := Claims{
		UserID:  userID.String(),
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify checks signature, expiry and purpose, returning the bound user ID.
// Every failure maps to ErrInvalidToken; business-level checks such as
// user existence are the caller's responsibility.
func (s *Service) Verify(tokenString string, purpose Purpose) (uuid.UUID, error) {
	claims := &Claims{}

	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, appErrors.ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return uuid.Nil, appErrors.ErrInvalidToken
	}

	if claims.Purpose != purpose {
		return uuid.Nil, appErrors.ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, appErrors.ErrInvalidToken
	}

	return userID, nil
}
