package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"marketplace-api/internal/middleware"
	wishlistUsecase "marketplace-api/internal/usecase/wishlist"
	appErrors "marketplace-api/pkg/errors"
	"marketplace-api/pkg/utils"
)

type WishlistHandler struct {
	wishlistService *wishlistUsecase.Service
}

func NewWishlistHandler(wishlistService *wishlistUsecase.Service) *WishlistHandler {
	return &WishlistHandler{wishlistService: wishlistService}
}

func (h *WishlistHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		respondWithError(c, appErrors.ErrUnauthorized)
		return
	}

	resp, err := h.wishlistService.Get(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", resp)
}

func (h *WishlistHandler) Add(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		respondWithError(c, appErrors.ErrUnauthorized)
		return
	}

	listingID, err := uuid.Parse(c.Param("listingId"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid listing id")
		return
	}

	if err := h.wishlistService.Add(c.Request.Context(), userID, listingID); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "added to wishlist", nil)
}

func (h *WishlistHandler) Remove(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		respondWithError(c, appErrors.ErrUnauthorized)
		return
	}

	listingID, err := uuid.Parse(c.Param("listingId"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid listing id")
		return
	}

	if err := h.wishlistService.Remove(c.Request.Context(), userID, listingID); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "removed from wishlist", nil)
}
