package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"marketplace-api/internal/domain/wishlist"
	"marketplace-api/internal/infrastructure/database/postgres/models"
)

// WishlistRepository implements the wishlist domain repository on PostgreSQL.
type WishlistRepository struct {
	db *DB
}

func NewWishlistRepository(db *DB) wishlist.Repository {
	return &WishlistRepository{db: db}
}

func (r *WishlistRepository) Add(ctx context.Context, item *wishlist.Item) error {
	item.ID = uuid.New()
	item.CreatedAt = time.Now()

	dbModel := &models.WishlistItemModel{
		ID:        item.ID,
		UserID:    item.UserID,
		ListingID: item.ListingID,
		CreatedAt: item.CreatedAt,
	}

	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "duplicate key") {
			return wishlist.ErrAlreadyInWishlist
		}
		return fmt.Errorf("failed to add wishlist item: %w", err)
	}

	return nil
}

func (r *WishlistRepository) Remove(ctx context.Context, userID, listingID uuid.UUID) error {
	result := r.db.DB.WithContext(ctx).
		Delete(&models.WishlistItemModel{}, "user_id = ? AND listing_id = ?", userID, listingID)
	if result.Error != nil {
		return fmt.Errorf("failed to remove wishlist item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return wishlist.ErrItemNotFound
	}

	return nil
}

func (r *WishlistRepository) GetByUser(ctx context.Context, userID uuid.UUID) ([]*wishlist.Item, error) {
	var dbModels []models.WishlistItemModel
	err := r.db.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&dbModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get wishlist: %w", err)
	}

	items := make([]*wishlist.Item, len(dbModels))
	for i, dbModel := range dbModels {
		items[i] = &wishlist.Item{
			ID:        dbModel.ID,
			UserID:    dbModel.UserID,
			ListingID: dbModel.ListingID,
			CreatedAt: dbModel.CreatedAt,
		}
	}

	return items, nil
}
