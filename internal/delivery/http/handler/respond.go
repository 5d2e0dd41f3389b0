package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"marketplace-api/internal/logger"
	appErrors "marketplace-api/pkg/errors"
	"marketplace-api/pkg/utils"
)

// respondWithError maps domain and application errors onto HTTP status
// codes. Anything unmapped is logged and surfaced as a generic 500 so
// internals never leak to the client.
func respondWithError(c *gin.Context, err error) {
	var appErr *appErrors.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case "VALIDATION_ERROR", "WEAK_PASSWORD":
			utils.ErrorResponse(c, http.StatusBadRequest, appErr.Message)
			return
		}
	}

	switch {
	case errors.Is(err, appErrors.ErrInvalidCredentials),
		errors.Is(err, appErrors.ErrUnauthorized):
		utils.ErrorResponse(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, appErrors.ErrInsufficientPermissions),
		errors.Is(err, appErrors.ErrNotListingOwner):
		utils.ErrorResponse(c, http.StatusForbidden, err.Error())
	case errors.Is(err, appErrors.ErrUserNotFound),
		errors.Is(err, appErrors.ErrListingNotFound),
		errors.Is(err, appErrors.ErrWishlistItemNotFound),
		errors.Is(err, appErrors.ErrOrderNotFound):
		utils.ErrorResponse(c, http.StatusNotFound, err.Error())
	case errors.Is(err, appErrors.ErrEmailTaken),
		errors.Is(err, appErrors.ErrUsernameTaken),
		errors.Is(err, appErrors.ErrAlreadyInWishlist),
		errors.Is(err, appErrors.ErrListingUnavailable),
		errors.Is(err, appErrors.ErrOrderNotPending),
		errors.Is(err, appErrors.ErrOwnListing):
		utils.ErrorResponse(c, http.StatusConflict, err.Error())
	case errors.Is(err, appErrors.ErrInvalidToken),
		errors.Is(err, appErrors.ErrInvalidInput),
		errors.Is(err, appErrors.ErrAlreadyVerified),
		errors.Is(err, appErrors.ErrWeakPassword),
		errors.Is(err, appErrors.ErrPasswordMismatch):
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
	default:
		logger.Error("Unhandled error in HTTP handler",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		utils.ErrorResponse(c, http.StatusInternalServerError, "internal server error")
	}
}
