package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"marketplace-api/internal/middleware"
	orderUsecase "marketplace-api/internal/usecase/order"
	appErrors "marketplace-api/pkg/errors"
	"marketplace-api/pkg/utils"
)

// OrderHandler exposes checkout and order endpoints, plus the admin
// order list and dashboard stats.
type OrderHandler struct {
	orderService *orderUsecase.Service
}

func NewOrderHandler(orderService *orderUsecase.Service) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

func (h *OrderHandler) Checkout(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		respondWithError(c, appErrors.ErrUnauthorized)
		return
	}

	var req orderUsecase.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.orderService.Checkout(c.Request.Context(), userID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "checkout started", resp)
}

func (h *OrderHandler) Confirm(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid order id")
		return
	}

	var req orderUsecase.ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.orderService.Confirm(c.Request.Context(), orderID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "order confirmed", resp)
}

func (h *OrderHandler) Cancel(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		respondWithError(c, appErrors.ErrUnauthorized)
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid order id")
		return
	}

	resp, err := h.orderService.Cancel(c.Request.Context(), userID, orderID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "order cancelled", resp)
}

func (h *OrderHandler) MyOrders(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		respondWithError(c, appErrors.ErrUnauthorized)
		return
	}

	resp, err := h.orderService.GetByBuyer(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", resp)
}

// Admin endpoints.

func (h *OrderHandler) GetAllOrders(c *gin.Context) {
	resp, err := h.orderService.GetAll(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", resp)
}

func (h *OrderHandler) GetStats(c *gin.Context) {
	resp, err := h.orderService.GetStats(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", resp)
}
