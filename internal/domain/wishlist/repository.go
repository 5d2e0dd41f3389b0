package wishlist

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Add(ctx context.Context, item *Item) error
	Remove(ctx context.Context, userID, listingID uuid.UUID) error
	GetByUser(ctx context.Context, userID uuid.UUID) ([]*Item, error)
}
