package wishlist

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrAlreadyInWishlist = errors.New("listing is already in wishlist")
	ErrItemNotFound      = errors.New("listing is not in wishlist")
)

type Item struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	ListingID uuid.UUID
	CreatedAt time.Time
}
