package models

import (
	"time"

	"github.com/google/uuid"
)

// ListingModel represents the database model for Listing
type ListingModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	SellerID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Title       string    `gorm:"type:varchar(255);not null"`
	Description string    `gorm:"type:text"`
	PriceCents  int64     `gorm:"not null"`
	Currency    string    `gorm:"type:varchar(3);not null;default:'USD'"`
	Category    string    `gorm:"type:varchar(50);not null;index"`
	Status      string    `gorm:"type:varchar(50);not null;default:'active';index"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

func (ListingModel) TableName() string {
	return "listings"
}

// WishlistItemModel represents the database model for a wishlist entry
type WishlistItemModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_wishlist_user_listing"`
	ListingID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_wishlist_user_listing"`
	CreatedAt time.Time `gorm:"not null"`
}

func (WishlistItemModel) TableName() string {
	return "wishlist_items"
}
