package session

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"marketplace-api/internal/auth/token"
)

const (
	// AccessCookieName carries the short-lived access token.
	AccessCookieName = "accessToken"
	// RefreshCookieName carries the long-lived refresh token. The bare
	// name is kept for compatibility with existing clients.
	RefreshCookieName = "token"

	cookiePath = "/"
)

// CookieManager writes and clears the auth cookies with a fixed policy:
// httpOnly, SameSite=Lax, Secure in production only.
type CookieManager struct {
	secure bool
}

func NewCookieManager(environment string) *CookieManager {
	return &CookieManager{secure: environment == "production"}
}

func (m *CookieManager) SetAccessCookie(c *gin.Context, value string) {
	m.set(c, AccessCookieName, value, int(token.AccessTokenTTL.Seconds()))
}

func (m *CookieManager) SetRefreshCookie(c *gin.Context, value string) {
	m.set(c, RefreshCookieName, value, int(token.RefreshTokenTTL.Seconds()))
}

// ClearAuthCookies removes both cookies. The access cookie would expire on
// its own within minutes, but leaving it behind after logout keeps a live
// credential in the browser longer than necessary.
func (m *CookieManager) ClearAuthCookies(c *gin.Context) {
	m.set(c, AccessCookieName, "", -1)
	m.set(c, RefreshCookieName, "", -1)
}

func (m *CookieManager) set(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, cookiePath, "", m.secure, true)
}
