package user

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"marketplace-api/internal/auth/token"
	"marketplace-api/internal/config"
	domainUser "marketplace-api/internal/domain/user"
	"marketplace-api/internal/logger"
	"marketplace-api/internal/mail"
	appErrors "marketplace-api/pkg/errors"
	"marketplace-api/pkg/utils"
)

// Service implements the account lifecycle: registration, login, the
// password-reset and email-verification token flows, profile management
// and the admin operations over users.
type Service struct {
	userRepo domainUser.Repository
	tokens   *token.Service
	mailer   mail.Mailer
	config   *config.Config
}

func NewService(
	userRepo domainUser.Repository,
	tokens *token.Service,
	mailer mail.Mailer,
	cfg *config.Config,
) *Service {
	return &Service{
		userRepo: userRepo,
		tokens:   tokens,
		mailer:   mailer,
		config:   cfg,
	}
}

func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*UserResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	if req.Password != req.ConfirmPassword {
		return nil, appErrors.ErrPasswordMismatch
	}
	if err := utils.ValidatePassword(req.Password); err != nil {
		return nil, appErrors.NewAppError("WEAK_PASSWORD", err.Error(), appErrors.ErrWeakPassword)
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &domainUser.User{
		Email:          req.Email,
		Username:       req.Username,
		PasswordHashed: hashedPassword,
		Role:           domainUser.RoleUser,
		Status:         domainUser.StatusInactive,
		EmailVerified:  false,
	}

	if err := s.userRepo.Create(ctx, u); err != nil {
		if errors.Is(err, domainUser.ErrEmailTaken) {
			logger.Warn("Registration attempt with existing email",
				zap.String("email", req.Email),
				zap.String("event", "registration_failed_duplicate_email"),
			)
			return nil, appErrors.ErrEmailTaken
		}
		if errors.Is(err, domainUser.ErrUsernameTaken) {
			return nil, appErrors.ErrUsernameTaken
		}
		return nil, err
	}

	if err := s.issueVerificationEmail(ctx, u); err != nil {
		return nil, err
	}

	logger.Info("User registered",
		zap.String("user_id", u.ID.String()),
		zap.String("email", u.Email),
		zap.String("username", u.Username),
		zap.String("event", "user_registered"),
	)

	return ToUserResponse(u), nil
}

func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResult, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	u, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			logger.Warn("Login attempt with non-existent email",
				zap.String("email", req.Email),
				zap.String("event", "login_failed_unknown_email"),
			)
			return nil, appErrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !utils.CheckPassword(u.PasswordHashed, req.Password) {
		logger.Warn("Login attempt with invalid password",
			zap.String("user_id", u.ID.String()),
			zap.String("event", "login_failed_invalid_password"),
		)
		return nil, appErrors.ErrInvalidCredentials
	}

	tokens, err := s.issueSession(u.ID)
	if err != nil {
		return nil, err
	}

	logger.Info("User logged in",
		zap.String("user_id", u.ID.String()),
		zap.String("role", u.Role),
		zap.String("event", "login_success"),
	)

	return &AuthResult{User: ToUserResponse(u), Tokens: tokens}, nil
}

// Me resolves the access-token cookie value into a sanitized user.
func (s *Service) Me(ctx context.Context, accessToken string) (*UserResponse, error) {
	userID, err := s.tokens.Verify(accessToken, token.PurposeAccess)
	if err != nil {
		return nil, appErrors.ErrUnauthorized
	}

	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			return nil, appErrors.ErrUserNotFound
		}
		return nil, err
	}

	return ToUserResponse(u), nil
}

// ForgotPassword never discloses whether the email exists: unknown
// addresses return success without side effects.
func (s *Service) ForgotPassword(ctx context.Context, req *ForgotPasswordRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	u, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			logger.Info("Password reset requested for unknown email",
				zap.String("email", req.Email),
				zap.String("event", "password_reset_requested_unknown_email"),
			)
			return nil
		}
		return fmt.Errorf("failed to retrieve user: %w", err)
	}

	resetToken, err := s.tokens.Issue(token.PurposePasswordReset, u.ID)
	if err != nil {
		return fmt.Errorf("failed to issue reset token: %w", err)
	}

	expires := time.Now().Add(token.PasswordResetTokenTTL)
	if err := s.userRepo.SetPasswordResetToken(ctx, u.ID, resetToken, expires); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.config.App.BaseURL, url.QueryEscape(resetToken))
	if err := s.mailer.SendPasswordReset(ctx, u.Email, resetURL); err != nil {
		return err
	}

	logger.Info("Password reset token issued",
		zap.String("user_id", u.ID.String()),
		zap.Time("expires_at", expires),
		zap.String("event", "password_reset_token_issued"),
	)

	return nil
}

func (s *Service) ResetPassword(ctx context.Context, req *ResetPasswordRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	userID, err := s.tokens.Verify(req.Token, token.PurposePasswordReset)
	if err != nil {
		logger.Warn("Password reset attempt with invalid token",
			zap.String("event", "password_reset_failed_invalid_token"),
		)
		return appErrors.ErrInvalidToken
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			return appErrors.ErrUserNotFound
		}
		return err
	}

	// Password policy is enforced before anything is written, so a weak
	// submission leaves both the hash and the stored token untouched.
	if err := utils.ValidatePassword(req.Password); err != nil {
		return appErrors.NewAppError("WEAK_PASSWORD", err.Error(), appErrors.ErrWeakPassword)
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.ConsumePasswordResetToken(ctx, userID, req.Token, hashedPassword); err != nil {
		if errors.Is(err, domainUser.ErrTokenInvalid) {
			logger.Warn("Password reset attempt with superseded token",
				zap.String("user_id", userID.String()),
				zap.String("event", "password_reset_failed_superseded_token"),
			)
			return appErrors.ErrInvalidToken
		}
		return err
	}

	logger.Info("Password reset successfully",
		zap.String("user_id", userID.String()),
		zap.String("event", "password_reset_success"),
	)

	return nil
}

func (s *Service) VerifyEmail(ctx context.Context, req *VerifyEmailRequest) (*UserResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	userID, err := s.tokens.Verify(req.Token, token.PurposeEmailVerification)
	if err != nil {
		return nil, appErrors.ErrInvalidToken
	}

	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			return nil, appErrors.ErrUserNotFound
		}
		return nil, err
	}

	if u.EmailVerified {
		return nil, appErrors.ErrAlreadyVerified
	}

	if err := s.userRepo.ConsumeEmailVerificationToken(ctx, userID, req.Token); err != nil {
		if errors.Is(err, domainUser.ErrTokenInvalid) {
			return nil, appErrors.ErrInvalidToken
		}
		return nil, err
	}

	u.EmailVerified = true
	u.Status = domainUser.StatusActive

	logger.Info("Email verified",
		zap.String("user_id", u.ID.String()),
		zap.String("event", "email_verified"),
	)

	return ToUserResponse(u), nil
}

// ResendVerification reports a missing account, unlike ForgotPassword.
// The asymmetric disclosure mirrors the existing product behavior.
func (s *Service) ResendVerification(ctx context.Context, req *ResendVerificationRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	u, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			return appErrors.ErrUserNotFound
		}
		return err
	}

	if u.EmailVerified {
		return appErrors.ErrAlreadyVerified
	}

	return s.issueVerificationEmail(ctx, u)
}

func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, req *ChangePasswordRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	if err := utils.ValidatePassword(req.NewPassword); err != nil {
		return appErrors.NewAppError("WEAK_PASSWORD", err.Error(), appErrors.ErrWeakPassword)
	}

	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			return appErrors.ErrUserNotFound
		}
		return err
	}

	if !utils.CheckPassword(u.PasswordHashed, req.OldPassword) {
		logger.Warn("Password change attempt with invalid old password",
			zap.String("user_id", u.ID.String()),
			zap.String("event", "password_change_failed_invalid_old_password"),
		)
		return appErrors.ErrInvalidCredentials
	}

	hashedPassword, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, hashedPassword); err != nil {
		return err
	}

	logger.Info("Password changed",
		zap.String("user_id", u.ID.String()),
		zap.String("event", "password_change_success"),
	)

	return nil
}

func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			return nil, appErrors.ErrUserNotFound
		}
		return nil, err
	}

	return ToUserResponse(u), nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, req *UpdateProfileRequest) (*UserResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			return nil, appErrors.ErrUserNotFound
		}
		return nil, err
	}

	if req.Username != nil {
		u.Username = *req.Username
	}
	if req.Bio != nil {
		u.Bio = *req.Bio
	}
	if req.ProfileImageID != nil {
		u.ProfileImageID = req.ProfileImageID
	}

	if err := s.userRepo.Update(ctx, u); err != nil {
		if errors.Is(err, domainUser.ErrUsernameTaken) {
			return nil, appErrors.ErrUsernameTaken
		}
		return nil, err
	}

	return ToUserResponse(u), nil
}

func (s *Service) GetAllUsers(ctx context.Context) ([]*UserResponse, error) {
	users, err := s.userRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]*UserResponse, len(users))
	for i, u := range users {
		responses[i] = ToUserResponse(u)
	}

	return responses, nil
}

func (s *Service) UpdateUserStatus(ctx context.Context, userID uuid.UUID, req *UpdateStatusRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	if err := s.userRepo.UpdateStatus(ctx, userID, req.Status); err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			return appErrors.ErrUserNotFound
		}
		return err
	}

	logger.Info("User status updated",
		zap.String("user_id", userID.String()),
		zap.String("status", req.Status),
		zap.String("event", "user_status_updated"),
	)

	return nil
}

func (s *Service) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			return appErrors.ErrUserNotFound
		}
		return err
	}

	logger.Info("User deleted",
		zap.String("user_id", userID.String()),
		zap.String("event", "user_deleted"),
	)

	return nil
}

// issueSession mints the access/refresh pair for a fresh login.
func (s *Service) issueSession(userID uuid.UUID) (TokenPair, error) {
	accessToken, err := s.tokens.Issue(token.PurposeAccess, userID)
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to issue access token: %w", err)
	}

	refreshToken, err := s.tokens.Issue(token.PurposeRefresh, userID)
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to issue refresh token: %w", err)
	}

	return TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *Service) issueVerificationEmail(ctx context.Context, u *domainUser.User) error {
	verificationToken, err := s.tokens.Issue(token.PurposeEmailVerification, u.ID)
	if err != nil {
		return fmt.Errorf("failed to issue verification token: %w", err)
	}

	expires := time.Now().Add(token.EmailVerificationTokenTTL)
	if err := s.userRepo.SetEmailVerificationToken(ctx, u.ID, verificationToken, expires); err != nil {
		return fmt.Errorf("failed to store verification token: %w", err)
	}

	verifyURL := fmt.Sprintf("%s/verify-email?token=%s", s.config.App.BaseURL, url.QueryEscape(verificationToken))
	if err := s.mailer.SendEmailVerification(ctx, u.Email, verifyURL); err != nil {
		return err
	}

	logger.Info("Verification email dispatched",
		zap.String("user_id", u.ID.String()),
		zap.Time("expires_at", expires),
		zap.String("event", "verification_email_sent"),
	)

	return nil
}
