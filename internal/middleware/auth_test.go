package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace-api/internal/auth/session"
	"marketplace-api/internal/auth/token"
	domainUser "marketplace-api/internal/domain/user"
	"marketplace-api/internal/logger"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	os.Exit(m.Run())
}

type guardUserRepo struct {
	users map[uuid.UUID]*domainUser.User
}

func newGuardUserRepo(users ...*domainUser.User) *guardUserRepo {
	r := &guardUserRepo{users: make(map[uuid.UUID]*domainUser.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *guardUserRepo) Create(ctx context.Context, u *domainUser.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *guardUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domainUser.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domainUser.ErrUserNotFound
	}
	return u, nil
}

func (r *guardUserRepo) GetByEmail(ctx context.Context, email string) (*domainUser.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domainUser.ErrUserNotFound
}

func (r *guardUserRepo) GetAll(ctx context.Context) ([]*domainUser.User, error) { return nil, nil }
func (r *guardUserRepo) Count(ctx context.Context) (int64, error)              { return 0, nil }
func (r *guardUserRepo) Update(ctx context.Context, u *domainUser.User) error  { return nil }
func (r *guardUserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return nil
}
func (r *guardUserRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return nil
}
func (r *guardUserRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }
func (r *guardUserRepo) SetPasswordResetToken(ctx context.Context, id uuid.UUID, tok string, expires time.Time) error {
	return nil
}
func (r *guardUserRepo) ConsumePasswordResetToken(ctx context.Context, id uuid.UUID, tok, passwordHash string) error {
	return nil
}
func (r *guardUserRepo) SetEmailVerificationToken(ctx context.Context, id uuid.UUID, tok string, expires time.Time) error {
	return nil
}
func (r *guardUserRepo) ConsumeEmailVerificationToken(ctx context.Context, id uuid.UUID, tok string) error {
	return nil
}

func newGuardRouter(t *testing.T, users ...*domainUser.User) (*gin.Engine, *token.Service) {
	t.Helper()

	tokens := token.NewService("guard-test-secret")
	cookies := session.NewCookieManager("test")
	repo := newGuardUserRepo(users...)

	r := gin.New()
	r.Use(RouteGuard(tokens, repo, cookies))

	ok := func(c *gin.Context) { c.String(http.StatusOK, "ok") }
	r.GET("/health", ok)
	r.POST("/api/auth/login", ok)
	r.GET("/api/listings", ok)
	r.GET("/dashboard", ok)
	r.GET("/api/wishlist", ok)
	r.GET("/admin/users", ok)
	r.GET("/api/admin/stats", ok)

	return r, tokens
}

func activeUser(role string) *domainUser.User {
	return &domainUser.User{
		ID:            uuid.New(),
		Email:         "guard@example.com",
		Username:      "guarduser",
		Role:          role,
		Status:        domainUser.StatusActive,
		EmailVerified: true,
	}
}

func doRequest(r *gin.Engine, method, path, refreshToken string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if refreshToken != "" {
		req.AddCookie(&http.Cookie{Name: session.RefreshCookieName, Value: refreshToken})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func accessCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	res := w.Result()
	defer res.Body.Close()
	for _, c := range res.Cookies() {
		if c.Name == session.AccessCookieName {
			return c
		}
	}
	return nil
}

func TestRouteGuardExemptPathsPassThrough(t *testing.T) {
	r, _ := newGuardRouter(t)

	for _, path := range []string{"/health", "/api/listings"} {
		w := doRequest(r, http.MethodGet, path, "")
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.Nil(t, accessCookie(t, w), "exempt path must not set cookies")
	}

	w := doRequest(r, http.MethodPost, "/api/auth/login", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouteGuardNoCookieRedirectsWithReturnTo(t *testing.T) {
	r, _ := newGuardRouter(t)

	w := doRequest(r, http.MethodGet, "/dashboard", "")
	require.Equal(t, http.StatusTemporaryRedirect, w.Code)

	loc, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/sign-in", loc.Path)
	assert.Equal(t, "/dashboard", loc.Query().Get("returnTo"))
	assert.Equal(t, "Please sign in to continue", loc.Query().Get("message"))
}

func TestRouteGuardNoCookieAPIReturnsJSON401(t *testing.T) {
	r, _ := newGuardRouter(t)

	w := doRequest(r, http.MethodGet, "/api/wishlist", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Please sign in to continue")
}

func TestRouteGuardInvalidTokenRedirectsSessionExpired(t *testing.T) {
	r, _ := newGuardRouter(t)

	w := doRequest(r, http.MethodGet, "/dashboard", "not-a-token")
	require.Equal(t, http.StatusTemporaryRedirect, w.Code)

	loc, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/sign-in", loc.Path)
	assert.Equal(t, "Your session has expired, please sign in again", loc.Query().Get("message"))
}

func TestRouteGuardAccessTokenInRefreshCookieRejected(t *testing.T) {
	u := activeUser(domainUser.RoleUser)
	r, tokens := newGuardRouter(t, u)

	access, err := tokens.Issue(token.PurposeAccess, u.ID)
	require.NoError(t, err)

	w := doRequest(r, http.MethodGet, "/dashboard", access)
	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
}

func TestRouteGuardUserMissingRedirects(t *testing.T) {
	r, tokens := newGuardRouter(t)

	refresh, err := tokens.Issue(token.PurposeRefresh, uuid.New())
	require.NoError(t, err)

	w := doRequest(r, http.MethodGet, "/dashboard", refresh)
	require.Equal(t, http.StatusTemporaryRedirect, w.Code)

	loc, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "Account not found, please sign in again", loc.Query().Get("message"))
}

func TestRouteGuardValidSessionPassesAndRefreshesAccessCookie(t *testing.T) {
	u := activeUser(domainUser.RoleUser)
	r, tokens := newGuardRouter(t, u)

	refresh, err := tokens.Issue(token.PurposeRefresh, u.ID)
	require.NoError(t, err)

	w := doRequest(r, http.MethodGet, "/dashboard", refresh)
	require.Equal(t, http.StatusOK, w.Code)

	cookie := accessCookie(t, w)
	require.NotNil(t, cookie, "guard must re-issue the access cookie")
	assert.True(t, cookie.HttpOnly)

	got, err := tokens.Verify(cookie.Value, token.PurposeAccess)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got)
}

func TestRouteGuardNonAdminOnAdminPath(t *testing.T) {
	u := activeUser(domainUser.RoleUser)
	r, tokens := newGuardRouter(t, u)

	refresh, err := tokens.Issue(token.PurposeRefresh, u.ID)
	require.NoError(t, err)

	w := doRequest(r, http.MethodGet, "/admin/users", refresh)
	require.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	w = doRequest(r, http.MethodGet, "/api/admin/stats", refresh)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRouteGuardAdminPassesAdminPath(t *testing.T) {
	u := activeUser(domainUser.RoleAdmin)
	r, tokens := newGuardRouter(t, u)

	refresh, err := tokens.Issue(token.PurposeRefresh, u.ID)
	require.NoError(t, err)

	w := doRequest(r, http.MethodGet, "/admin/users", refresh)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotNil(t, accessCookie(t, w))
}

func TestRouteGuardExpiredRefreshToken(t *testing.T) {
	u := activeUser(domainUser.RoleUser)
	r, tokens := newGuardRouter(t, u)

	refresh, err := tokens.IssueWithTTL(token.PurposeRefresh, u.ID, -time.Second)
	require.NoError(t, err)

	w := doRequest(r, http.MethodGet, "/api/wishlist", refresh)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Your session has expired")
}
