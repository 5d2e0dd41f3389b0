package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderModel represents the database model for Order
type OrderModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	BuyerID     uuid.UUID `gorm:"type:uuid;not null;index"`
	ListingID   uuid.UUID `gorm:"type:uuid;not null;index"`
	AmountCents int64     `gorm:"not null"`
	Currency    string    `gorm:"type:varchar(3);not null;default:'USD'"`
	Status      string    `gorm:"type:varchar(50);not null;default:'pending';index"`
	ProviderRef string    `gorm:"type:varchar(255)"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

func (OrderModel) TableName() string {
	return "orders"
}
