package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"marketplace-api/internal/auth/session"
	userUsecase "marketplace-api/internal/usecase/user"
	appErrors "marketplace-api/pkg/errors"
	"marketplace-api/pkg/utils"
)

// AuthHandler exposes the session lifecycle endpoints. Tokens travel in
// cookies only; response bodies carry the sanitized user, never a token.
type AuthHandler struct {
	userService *userUsecase.Service
	cookies     *session.CookieManager
}

func NewAuthHandler(userService *userUsecase.Service, cookies *session.CookieManager) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		cookies:     cookies,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req userUsecase.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Email = utils.SanitizeEmail(req.Email)
	req.Username = utils.SanitizeString(req.Username)

	resp, err := h.userService.Register(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "registration successful, please verify your email", resp)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req userUsecase.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Email = utils.SanitizeEmail(req.Email)

	result, err := h.userService.Login(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.cookies.SetAccessCookie(c, result.Tokens.AccessToken)
	h.cookies.SetRefreshCookie(c, result.Tokens.RefreshToken)

	utils.SuccessResponse(c, http.StatusOK, "login successful", result.User)
}

// Logout clears both auth cookies. It succeeds regardless of whether a
// session existed.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.cookies.ClearAuthCookies(c)
	utils.SuccessResponse(c, http.StatusOK, "logged out", nil)
}

// Me resolves the access-token cookie into the current user.
func (h *AuthHandler) Me(c *gin.Context) {
	accessToken, err := c.Cookie(session.AccessCookieName)
	if err != nil || accessToken == "" {
		respondWithError(c, appErrors.ErrUnauthorized)
		return
	}

	resp, err := h.userService.Me(c.Request.Context(), accessToken)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", resp)
}

// ForgotPassword responds identically for known and unknown addresses.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req userUsecase.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Email = utils.SanitizeEmail(req.Email)

	if err := h.userService.ForgotPassword(c.Request.Context(), &req); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "if the address exists, a reset link has been sent", nil)
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req userUsecase.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.userService.ResetPassword(c.Request.Context(), &req); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "password has been reset, please sign in", nil)
}

func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req userUsecase.VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.userService.VerifyEmail(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "email verified", resp)
}

func (h *AuthHandler) ResendVerification(c *gin.Context) {
	var req userUsecase.ResendVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Email = utils.SanitizeEmail(req.Email)

	if err := h.userService.ResendVerification(c.Request.Context(), &req); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "verification email sent", nil)
}
