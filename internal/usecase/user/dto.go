package user

import (
	"time"

	"github.com/google/uuid"

	domainUser "marketplace-api/internal/domain/user"
)

type RegisterRequest struct {
	Email           string `json:"email" binding:"required" validate:"required,email"`
	Username        string `json:"username" binding:"required" validate:"required,username"`
	Password        string `json:"password" binding:"required" validate:"required"`
	ConfirmPassword string `json:"confirmPassword" binding:"required" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required" validate:"required,email"`
	Password string `json:"password" binding:"required" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required" validate:"required"`
	Password string `json:"password" binding:"required" validate:"required"`
}

type VerifyEmailRequest struct {
	Token string `json:"token" binding:"required" validate:"required"`
}

type ResendVerificationRequest struct {
	Email string `json:"email" binding:"required" validate:"required,email"`
}

type UpdateProfileRequest struct {
	Username       *string    `json:"username" validate:"omitempty,username"`
	Bio            *string    `json:"bio" validate:"omitempty,max=1000"`
	ProfileImageID *uuid.UUID `json:"profileImageId"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required" validate:"required"`
	NewPassword string `json:"newPassword" binding:"required" validate:"required"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required" validate:"required,oneof=active inactive"`
}

// UserResponse is the sanitized user view. Password hash and stored
// action tokens never leave the service.
type UserResponse struct {
	ID             uuid.UUID  `json:"id"`
	Email          string     `json:"email"`
	Username       string     `json:"username"`
	Role           string     `json:"role"`
	Status         string     `json:"status"`
	EmailVerified  bool       `json:"emailVerified"`
	Bio            string     `json:"bio,omitempty"`
	ProfileImageID *uuid.UUID `json:"profileImageId,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// TokenPair carries freshly issued session credentials to the handler,
// which turns them into cookies.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type AuthResult struct {
	User   *UserResponse
	Tokens TokenPair
}

func ToUserResponse(u *domainUser.User) *UserResponse {
	return &UserResponse{
		ID:             u.ID,
		Email:          u.Email,
		Username:       u.Username,
		Role:           u.Role,
		Status:         u.Status,
		EmailVerified:  u.EmailVerified,
		Bio:            u.Bio,
		ProfileImageID: u.ProfileImageID,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}
