package order

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending   = "pending"
	StatusPaid      = "paid"
	StatusCancelled = "cancelled"
)

type Order struct {
	ID          uuid.UUID
	BuyerID     uuid.UUID
	ListingID   uuid.UUID
	AmountCents int64
	Currency    string
	Status      string
	ProviderRef string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Stats is the admin dashboard summary.
type Stats struct {
	TotalUsers    int64 `json:"totalUsers"`
	TotalListings int64 `json:"totalListings"`
	TotalOrders   int64 `json:"totalOrders"`
	PaidOrders    int64 `json:"paidOrders"`
	RevenueCents  int64 `json:"revenueCents"`
}
