package middleware

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"marketplace-api/internal/auth/session"
	"marketplace-api/internal/auth/token"
	domainUser "marketplace-api/internal/domain/user"
	"marketplace-api/internal/logger"
	"marketplace-api/pkg/utils"
)

const signInPath = "/sign-in"

// Paths that bypass the guard entirely: health, the auth endpoints
// themselves, static assets and the public pages.
var exemptPrefixes = []string{
	"/health",
	"/api/auth/",
	"/static/",
	"/assets/",
	"/favicon.ico",
}

var publicPaths = map[string]bool{
	"/":        true,
	"/sign-in": true,
	"/sign-up": true,
}

// Admin-only surface. Role is checked only after the refresh token and
// the user record have both been validated.
var adminPrefixes = []string{
	"/admin",
	"/api/admin",
}

// RouteGuard validates the refresh-token cookie on every non-exempt
// request, re-issues a short-lived access token on success and enforces
// the admin role on admin routes. Browser routes are redirected to
// sign-in with the original path preserved; API routes get JSON errors.
// Any unexpected failure in the verify/lookup path denies the request.
func RouteGuard(tokens *token.Service, users domainUser.Repository, cookies *session.CookieManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path

		if isExempt(c.Request.Method, path) {
			c.Next()
			return
		}

		refreshToken, err := c.Cookie(session.RefreshCookieName)
		if err != nil || refreshToken == "" {
			denyUnauthorized(c, "Please sign in to continue")
			return
		}

		userID, err := tokens.Verify(refreshToken, token.PurposeRefresh)
		if err != nil {
			denyUnauthorized(c, "Your session has expired, please sign in again")
			return
		}

		u, err := users.GetByID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, domainUser.ErrUserNotFound) {
				denyUnauthorized(c, "Account not found, please sign in again")
				return
			}
			logger.Error("Route guard lookup failed",
				zap.String("path", path),
				zap.Error(err),
			)
			denyUnauthorized(c, "Your session has expired, please sign in again")
			return
		}

		if isAdminPath(path) && !u.IsAdmin() {
			denyForbidden(c)
			return
		}

		accessToken, err := tokens.Issue(token.PurposeAccess, u.ID)
		if err != nil {
			logger.Error("Route guard failed to mint access token",
				zap.String("user_id", u.ID.String()),
				zap.Error(err),
			)
			denyUnauthorized(c, "Your session has expired, please sign in again")
			return
		}
		cookies.SetAccessCookie(c, accessToken)

		c.Set("userID", u.ID)
		c.Set("email", u.Email)
		c.Set("role", u.Role)

		c.Next()
	}
}

func isExempt(method, path string) bool {
	if publicPaths[path] {
		return true
	}
	for _, prefix := range exemptPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	// Browsing the catalog requires no account.
	if method == http.MethodGet && strings.HasPrefix(path, "/api/listings") {
		return true
	}
	return false
}

func isAdminPath(path string) bool {
	for _, prefix := range adminPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

// denyUnauthorized terminates the request: JSON 401 for API calls, a
// sign-in redirect carrying returnTo and a message for browser routes.
func denyUnauthorized(c *gin.Context, message string) {
	if isAPIPath(c.Request.URL.Path) {
		utils.ErrorResponse(c, http.StatusUnauthorized, message)
		c.Abort()
		return
	}

	target := signInPath + "?returnTo=" + url.QueryEscape(c.Request.URL.Path) +
		"&message=" + url.QueryEscape(message)
	c.Redirect(http.StatusTemporaryRedirect, target)
	c.Abort()
}

// denyForbidden handles the authenticated-but-not-admin case: JSON 403
// for API calls, a redirect home for browser routes.
func denyForbidden(c *gin.Context) {
	if isAPIPath(c.Request.URL.Path) {
		utils.ErrorResponse(c, http.StatusForbidden, "Insufficient permissions")
		c.Abort()
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, "/")
	c.Abort()
}

func isAPIPath(path string) bool {
	return strings.HasPrefix(path, "/api/")
}

// GetUserID returns the authenticated user's ID placed by the guard.
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get("userID")
	if !exists {
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	return id, ok
}

// GetUserRole returns the authenticated user's role placed by the guard.
func GetUserRole(c *gin.Context) string {
	value, exists := c.Get("role")
	if !exists {
		return ""
	}
	role, _ := value.(string)
	return role
}
