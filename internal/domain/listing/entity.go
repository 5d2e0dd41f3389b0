package listing

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusActive  = "active"
	StatusSold    = "sold"
	StatusRemoved = "removed"
)

var Categories = []string{
	"electronics",
	"fashion",
	"home",
	"sports",
	"books",
	"vehicles",
	"collectibles",
	"other",
}

type Listing struct {
	ID          uuid.UUID
	SellerID    uuid.UUID
	Title       string
	Description string
	PriceCents  int64
	Currency    string
	Category    string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (l *Listing) IsAvailable() bool {
	return l.Status == StatusActive
}

// Filter narrows a browse query. Zero values mean "no constraint".
type Filter struct {
	Category      string
	MinPriceCents int64
	MaxPriceCents int64
	Query         string
	SellerID      *uuid.UUID
	Page          int
	PageSize      int
}
