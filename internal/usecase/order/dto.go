package order

import (
	"time"

	"github.com/google/uuid"

	domainOrder "marketplace-api/internal/domain/order"
)

type CheckoutRequest struct {
	ListingID uuid.UUID `json:"listingId" binding:"required" validate:"required"`
}

type ConfirmRequest struct {
	ProviderRef string `json:"providerRef" binding:"required" validate:"required"`
}

type OrderResponse struct {
	ID          uuid.UUID `json:"id"`
	BuyerID     uuid.UUID `json:"buyerId"`
	ListingID   uuid.UUID `json:"listingId"`
	AmountCents int64     `json:"amountCents"`
	Currency    string    `json:"currency"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CheckoutResponse points the buyer at the provider's hosted payment page.
type CheckoutResponse struct {
	Order       *OrderResponse `json:"order"`
	RedirectURL string         `json:"redirectUrl"`
}

func ToOrderResponse(o *domainOrder.Order) *OrderResponse {
	return &OrderResponse{
		ID:          o.ID,
		BuyerID:     o.BuyerID,
		ListingID:   o.ListingID,
		AmountCents: o.AmountCents,
		Currency:    o.Currency,
		Status:      o.Status,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}
