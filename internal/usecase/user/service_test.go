package user

import (
	"context"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"marketplace-api/internal/auth/token"
	"marketplace-api/internal/config"
	domainUser "marketplace-api/internal/domain/user"
	"marketplace-api/internal/logger"
	appErrors "marketplace-api/pkg/errors"
	"marketplace-api/pkg/utils"
)

func TestMain(m *testing.M) {
	if err := logger.Init("development"); err != nil {
		panic(err)
	}
	m.Run()
}

// fakeUserRepo is an in-memory credential store implementing the same
// compare-and-clear semantics as the PostgreSQL repository.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domainUser.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*domainUser.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, u *domainUser.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return domainUser.ErrEmailTaken
		}
		if existing.Username == u.Username {
			return domainUser.ErrUsernameTaken
		}
	}
	u.ID = uuid.New()
	u.CreatedAt = time.Now()
	u.UpdatedAt = time.Now()
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domainUser.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domainUser.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domainUser.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domainUser.ErrUserNotFound
}

func (r *fakeUserRepo) GetAll(ctx context.Context) ([]*domainUser.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domainUser.User, 0, len(r.users))
	for _, u := range r.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeUserRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

func (r *fakeUserRepo) Update(ctx context.Context, u *domainUser.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[u.ID]
	if !ok {
		return domainUser.ErrUserNotFound
	}
	stored.Username = u.Username
	stored.Bio = u.Bio
	stored.ProfileImageID = u.ProfileImageID
	stored.UpdatedAt = time.Now()
	return nil
}

func (r *fakeUserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domainUser.ErrUserNotFound
	}
	u.PasswordHashed = hash
	return nil
}

func (r *fakeUserRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domainUser.ErrUserNotFound
	}
	u.Status = status
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return domainUser.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) SetPasswordResetToken(ctx context.Context, id uuid.UUID, tok string, expires time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domainUser.ErrUserNotFound
	}
	u.PasswordResetToken = &tok
	u.PasswordResetExpires = &expires
	return nil
}

func (r *fakeUserRepo) ConsumePasswordResetToken(ctx context.Context, id uuid.UUID, tok, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domainUser.ErrTokenInvalid
	}
	if u.PasswordResetToken == nil || *u.PasswordResetToken != tok {
		return domainUser.ErrTokenInvalid
	}
	if u.PasswordResetExpires == nil || time.Now().After(*u.PasswordResetExpires) {
		return domainUser.ErrTokenInvalid
	}
	u.PasswordHashed = hash
	u.PasswordResetToken = nil
	u.PasswordResetExpires = nil
	return nil
}

func (r *fakeUserRepo) SetEmailVerificationToken(ctx context.Context, id uuid.UUID, tok string, expires time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domainUser.ErrUserNotFound
	}
	u.EmailVerificationToken = &tok
	u.EmailVerificationExpires = &expires
	return nil
}

func (r *fakeUserRepo) ConsumeEmailVerificationToken(ctx context.Context, id uuid.UUID, tok string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domainUser.ErrTokenInvalid
	}
	if u.EmailVerificationToken == nil || *u.EmailVerificationToken != tok {
		return domainUser.ErrTokenInvalid
	}
	if u.EmailVerificationExpires == nil || time.Now().After(*u.EmailVerificationExpires) {
		return domainUser.ErrTokenInvalid
	}
	u.EmailVerified = true
	u.Status = domainUser.StatusActive
	u.EmailVerificationToken = nil
	u.EmailVerificationExpires = nil
	return nil
}

// fakeMailer records every dispatch instead of delivering.
type fakeMailer struct {
	mu            sync.Mutex
	verifications []string
	resets        []string
	lastVerifyURL string
	lastResetURL  string
}

func (m *fakeMailer) SendEmailVerification(ctx context.Context, to, verifyURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.verifications = append(m.verifications, to)
	m.lastVerifyURL = verifyURL
	return nil
}

func (m *fakeMailer) SendPasswordReset(ctx context.Context, to, resetURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resets = append(m.resets, to)
	m.lastResetURL = resetURL
	return nil
}

func newTestService() (*Service, *fakeUserRepo, *fakeMailer) {
	repo := newFakeUserRepo()
	mailer := &fakeMailer{}
	cfg := &config.Config{
		App: config.AppConfig{BaseURL: "https://market.test"},
		JWT: config.JWTConfig{Secret: "test-secret"},
	}
	svc := NewService(repo, token.NewService(cfg.JWT.Secret), mailer, cfg)
	return svc, repo, mailer
}

const testPassword = "Aa@1234"

func registerTestUser(t *testing.T, svc *Service) *UserResponse {
	t.Helper()
	resp, err := svc.Register(context.Background(), &RegisterRequest{
		Email:           "a@x.com",
		Username:        "u1",
		Password:        testPassword,
		ConfirmPassword: testPassword,
	})
	require.NoError(t, err)
	return resp
}

func TestRegister_CreatesInactiveUnverifiedUser(t *testing.T) {
	svc, repo, mailer := newTestService()

	resp := registerTestUser(t, svc)

	require.Equal(t, domainUser.StatusInactive, resp.Status)
	require.False(t, resp.EmailVerified)
	require.Equal(t, domainUser.RoleUser, resp.Role)
	require.Equal(t, []string{"a@x.com"}, mailer.verifications)

	stored, err := repo.GetByID(context.Background(), resp.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.EmailVerificationToken)
	require.NotNil(t, stored.EmailVerificationExpires)
}

func TestRegister_PasswordMismatch(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Register(context.Background(), &RegisterRequest{
		Email:           "a@x.com",
		Username:        "u1",
		Password:        testPassword,
		ConfirmPassword: "Bb@5678",
	})
	require.ErrorIs(t, err, appErrors.ErrPasswordMismatch)
}

func TestRegister_WeakPassword(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Register(context.Background(), &RegisterRequest{
		Email:           "a@x.com",
		Username:        "u1",
		Password:        "weakpass",
		ConfirmPassword: "weakpass",
	})

	var appErr *appErrors.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, "WEAK_PASSWORD", appErr.Code)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService()
	registerTestUser(t, svc)

	_, err := svc.Register(context.Background(), &RegisterRequest{
		Email:           "a@x.com",
		Username:        "u2",
		Password:        testPassword,
		ConfirmPassword: testPassword,
	})
	require.ErrorIs(t, err, appErrors.ErrEmailTaken)
}

func verifyTestUser(t *testing.T, svc *Service, mailer *fakeMailer) *UserResponse {
	t.Helper()
	tok := tokenFromURL(t, mailer.lastVerifyURL)
	resp, err := svc.VerifyEmail(context.Background(), &VerifyEmailRequest{Token: tok})
	require.NoError(t, err)
	return resp
}

func tokenFromURL(t *testing.T, rawURL string) string {
	t.Helper()
	require.NotEmpty(t, rawURL)
	parsed, err := url.Parse(rawURL)
	require.NoError(t, err)
	tok := parsed.Query().Get("token")
	require.NotEmpty(t, tok)
	return tok
}

func TestVerifyEmail_ActivatesUser(t *testing.T) {
	svc, repo, mailer := newTestService()
	registered := registerTestUser(t, svc)

	resp := verifyTestUser(t, svc, mailer)
	require.True(t, resp.EmailVerified)
	require.Equal(t, domainUser.StatusActive, resp.Status)

	stored, err := repo.GetByID(context.Background(), registered.ID)
	require.NoError(t, err)
	require.Nil(t, stored.EmailVerificationToken)
	require.Nil(t, stored.EmailVerificationExpires)
}

func TestVerifyEmail_Replay(t *testing.T) {
	svc, _, mailer := newTestService()
	registerTestUser(t, svc)
	verifyTestUser(t, svc, mailer)

	tok := tokenFromURL(t, mailer.lastVerifyURL)
	_, err := svc.VerifyEmail(context.Background(), &VerifyEmailRequest{Token: tok})
	require.ErrorIs(t, err, appErrors.ErrAlreadyVerified)
}

func TestVerifyEmail_GarbageToken(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.VerifyEmail(context.Background(), &VerifyEmailRequest{Token: "garbage"})
	require.ErrorIs(t, err, appErrors.ErrInvalidToken)
}

// Verification gates nothing at login: correct credentials always open a
// session, verified or not.
func TestLogin_BeforeVerification(t *testing.T) {
	svc, _, _ := newTestService()
	registerTestUser(t, svc)

	result, err := svc.Login(context.Background(), &LoginRequest{Email: "a@x.com", Password: testPassword})
	require.NoError(t, err)
	require.NotEmpty(t, result.Tokens.AccessToken)
	require.NotEmpty(t, result.Tokens.RefreshToken)
	require.False(t, result.User.EmailVerified)
}

func TestLogin_Success(t *testing.T) {
	svc, _, mailer := newTestService()
	registerTestUser(t, svc)
	verifyTestUser(t, svc, mailer)

	result, err := svc.Login(context.Background(), &LoginRequest{Email: "a@x.com", Password: testPassword})
	require.NoError(t, err)
	require.NotEmpty(t, result.Tokens.AccessToken)
	require.NotEmpty(t, result.Tokens.RefreshToken)
	require.Equal(t, "u1", result.User.Username)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _, mailer := newTestService()
	registerTestUser(t, svc)
	verifyTestUser(t, svc, mailer)

	_, err := svc.Login(context.Background(), &LoginRequest{Email: "a@x.com", Password: "Bb@5678"})
	require.ErrorIs(t, err, appErrors.ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Login(context.Background(), &LoginRequest{Email: "nobody@x.com", Password: testPassword})
	require.ErrorIs(t, err, appErrors.ErrInvalidCredentials)
}

func TestMe_RoundTrip(t *testing.T) {
	svc, _, mailer := newTestService()
	registerTestUser(t, svc)
	verifyTestUser(t, svc, mailer)

	result, err := svc.Login(context.Background(), &LoginRequest{Email: "a@x.com", Password: testPassword})
	require.NoError(t, err)

	me, err := svc.Me(context.Background(), result.Tokens.AccessToken)
	require.NoError(t, err)
	require.Equal(t, result.User.ID, me.ID)
}

func TestMe_RefreshTokenRejected(t *testing.T) {
	svc, _, mailer := newTestService()
	registerTestUser(t, svc)
	verifyTestUser(t, svc, mailer)

	result, err := svc.Login(context.Background(), &LoginRequest{Email: "a@x.com", Password: testPassword})
	require.NoError(t, err)

	_, err = svc.Me(context.Background(), result.Tokens.RefreshToken)
	require.ErrorIs(t, err, appErrors.ErrUnauthorized)
}

func TestForgotPassword_UnknownEmailIsSilent(t *testing.T) {
	svc, _, mailer := newTestService()

	err := svc.ForgotPassword(context.Background(), &ForgotPasswordRequest{Email: "nobody@x.com"})
	require.NoError(t, err)
	require.Empty(t, mailer.resets)
}

func TestForgotPassword_DispatchesEmail(t *testing.T) {
	svc, repo, mailer := newTestService()
	registered := registerTestUser(t, svc)

	err := svc.ForgotPassword(context.Background(), &ForgotPasswordRequest{Email: "a@x.com"})
	require.NoError(t, err)
	require.Equal(t, []string{"a@x.com"}, mailer.resets)

	stored, err := repo.GetByID(context.Background(), registered.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.PasswordResetToken)
	require.NotNil(t, stored.PasswordResetExpires)
}

func TestResetPassword_Succeeds(t *testing.T) {
	svc, repo, mailer := newTestService()
	registered := registerTestUser(t, svc)
	verifyTestUser(t, svc, mailer)

	require.NoError(t, svc.ForgotPassword(context.Background(), &ForgotPasswordRequest{Email: "a@x.com"}))
	tok := tokenFromURL(t, mailer.lastResetURL)

	err := svc.ResetPassword(context.Background(), &ResetPasswordRequest{Token: tok, Password: "Cc@9876"})
	require.NoError(t, err)

	// Old password no longer works, new one does.
	_, err = svc.Login(context.Background(), &LoginRequest{Email: "a@x.com", Password: testPassword})
	require.ErrorIs(t, err, appErrors.ErrInvalidCredentials)
	_, err = svc.Login(context.Background(), &LoginRequest{Email: "a@x.com", Password: "Cc@9876"})
	require.NoError(t, err)

	// Token pair is cleared; replay fails.
	stored, err := repo.GetByID(context.Background(), registered.ID)
	require.NoError(t, err)
	require.Nil(t, stored.PasswordResetToken)

	err = svc.ResetPassword(context.Background(), &ResetPasswordRequest{Token: tok, Password: "Dd@5432"})
	require.ErrorIs(t, err, appErrors.ErrInvalidToken)
}

func TestResetPassword_WeakPasswordLeavesHashUnchanged(t *testing.T) {
	svc, repo, mailer := newTestService()
	registered := registerTestUser(t, svc)

	require.NoError(t, svc.ForgotPassword(context.Background(), &ForgotPasswordRequest{Email: "a@x.com"}))
	tok := tokenFromURL(t, mailer.lastResetURL)

	before, err := repo.GetByID(context.Background(), registered.ID)
	require.NoError(t, err)

	err = svc.ResetPassword(context.Background(), &ResetPasswordRequest{Token: tok, Password: "weak"})
	var appErr *appErrors.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, "WEAK_PASSWORD", appErr.Code)

	after, err := repo.GetByID(context.Background(), registered.ID)
	require.NoError(t, err)
	require.Equal(t, before.PasswordHashed, after.PasswordHashed)
	require.NotNil(t, after.PasswordResetToken)
}

func TestResetPassword_SupersededToken(t *testing.T) {
	svc, _, mailer := newTestService()
	registerTestUser(t, svc)

	require.NoError(t, svc.ForgotPassword(context.Background(), &ForgotPasswordRequest{Email: "a@x.com"}))
	first := tokenFromURL(t, mailer.lastResetURL)

	// A newer request replaces the stored token. The first token still
	// verifies cryptographically but must be rejected on the stored copy.
	time.Sleep(1100 * time.Millisecond)
	require.NoError(t, svc.ForgotPassword(context.Background(), &ForgotPasswordRequest{Email: "a@x.com"}))
	second := tokenFromURL(t, mailer.lastResetURL)
	require.NotEqual(t, first, second)

	err := svc.ResetPassword(context.Background(), &ResetPasswordRequest{Token: first, Password: "Cc@9876"})
	require.ErrorIs(t, err, appErrors.ErrInvalidToken)
}

func TestResendVerification_UnknownEmail(t *testing.T) {
	svc, _, _ := newTestService()

	err := svc.ResendVerification(context.Background(), &ResendVerificationRequest{Email: "nobody@x.com"})
	require.ErrorIs(t, err, appErrors.ErrUserNotFound)
}

func TestResendVerification_AlreadyVerified(t *testing.T) {
	svc, _, mailer := newTestService()
	registerTestUser(t, svc)
	verifyTestUser(t, svc, mailer)

	err := svc.ResendVerification(context.Background(), &ResendVerificationRequest{Email: "a@x.com"})
	require.ErrorIs(t, err, appErrors.ErrAlreadyVerified)
}

func TestChangePassword(t *testing.T) {
	svc, _, mailer := newTestService()
	registered := registerTestUser(t, svc)
	verifyTestUser(t, svc, mailer)

	err := svc.ChangePassword(context.Background(), registered.ID, &ChangePasswordRequest{
		OldPassword: "wrong",
		NewPassword: "Cc@9876",
	})
	require.ErrorIs(t, err, appErrors.ErrInvalidCredentials)

	err = svc.ChangePassword(context.Background(), registered.ID, &ChangePasswordRequest{
		OldPassword: testPassword,
		NewPassword: "Cc@9876",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), &LoginRequest{Email: "a@x.com", Password: "Cc@9876"})
	require.NoError(t, err)
}

func TestPasswordPolicy_AcceptsReferencePassword(t *testing.T) {
	require.NoError(t, utils.ValidatePassword(testPassword))
}
