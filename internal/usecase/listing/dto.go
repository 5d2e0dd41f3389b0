package listing

import (
	"time"

	"github.com/google/uuid"

	domainListing "marketplace-api/internal/domain/listing"
)

type CreateListingRequest struct {
	Title       string `json:"title" binding:"required" validate:"required,min=3,max=255"`
	Description string `json:"description" validate:"max=5000"`
	PriceCents  int64  `json:"priceCents" binding:"required" validate:"required,gt=0"`
	Currency    string `json:"currency" validate:"omitempty,len=3"`
	Category    string `json:"category" binding:"required" validate:"required,listing_category"`
}

type UpdateListingRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=3,max=255"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	PriceCents  *int64  `json:"priceCents" validate:"omitempty,gt=0"`
	Category    *string `json:"category" validate:"omitempty,listing_category"`
}

type BrowseRequest struct {
	Category      string
	MinPriceCents int64
	MaxPriceCents int64
	Query         string
	Page          int
	PageSize      int
}

type ListingResponse struct {
	ID          uuid.UUID `json:"id"`
	SellerID    uuid.UUID `json:"sellerId"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	PriceCents  int64     `json:"priceCents"`
	Currency    string    `json:"currency"`
	Category    string    `json:"category"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type BrowseResponse struct {
	Listings []*ListingResponse `json:"listings"`
	Total    int64              `json:"total"`
	Page     int                `json:"page"`
	PageSize int                `json:"pageSize"`
}

func ToListingResponse(l *domainListing.Listing) *ListingResponse {
	return &ListingResponse{
		ID:          l.ID,
		SellerID:    l.SellerID,
		Title:       l.Title,
		Description: l.Description,
		PriceCents:  l.PriceCents,
		Currency:    l.Currency,
		Category:    l.Category,
		Status:      l.Status,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}
