package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"marketplace-api/internal/middleware"
	listingUsecase "marketplace-api/internal/usecase/listing"
	appErrors "marketplace-api/pkg/errors"
	"marketplace-api/pkg/utils"
)

// ListingHandler exposes the catalog: public browse/get, authenticated
// create/update/remove, and the seller's own listings.
type ListingHandler struct {
	listingService *listingUsecase.Service
}

func NewListingHandler(listingService *listingUsecase.Service) *ListingHandler {
	return &ListingHandler{listingService: listingService}
}

func (h *ListingHandler) Browse(c *gin.Context) {
	req := &listingUsecase.BrowseRequest{
		Category: c.Query("category"),
		Query:    utils.SanitizeString(c.Query("q")),
	}
	req.MinPriceCents, _ = strconv.ParseInt(c.Query("minPrice"), 10, 64)
	req.MaxPriceCents, _ = strconv.ParseInt(c.Query("maxPrice"), 10, 64)
	req.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	req.PageSize, _ = strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	resp, err := h.listingService.Browse(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", resp)
}

func (h *ListingHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid listing id")
		return
	}

	resp, err := h.listingService.Get(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", resp)
}

func (h *ListingHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		respondWithError(c, appErrors.ErrUnauthorized)
		return
	}

	var req listingUsecase.CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Title = utils.SanitizeString(req.Title)
	req.Description = utils.SanitizeText(req.Description)

	resp, err := h.listingService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "listing created", resp)
}

func (h *ListingHandler) Update(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		respondWithError(c, appErrors.ErrUnauthorized)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid listing id")
		return
	}

	var req listingUsecase.UpdateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Title != nil {
		sanitized := utils.SanitizeString(*req.Title)
		req.Title = &sanitized
	}
	if req.Description != nil {
		sanitized := utils.SanitizeText(*req.Description)
		req.Description = &sanitized
	}

	resp, err := h.listingService.Update(c.Request.Context(), userID, middleware.GetUserRole(c), id, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "listing updated", resp)
}

func (h *ListingHandler) Remove(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		respondWithError(c, appErrors.ErrUnauthorized)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid listing id")
		return
	}

	if err := h.listingService.Remove(c.Request.Context(), userID, middleware.GetUserRole(c), id); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "listing removed", nil)
}

// MyListings returns the authenticated seller's listings in any status.
func (h *ListingHandler) MyListings(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		respondWithError(c, appErrors.ErrUnauthorized)
		return
	}

	resp, err := h.listingService.GetBySeller(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", resp)
}
