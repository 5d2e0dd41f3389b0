package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"marketplace-api/internal/domain/listing"
	"marketplace-api/internal/infrastructure/database/postgres/models"
)

const defaultPageSize = 20
const maxPageSize = 100

// ListingRepository implements the listing domain repository on PostgreSQL.
type ListingRepository struct {
	db *DB
}

func NewListingRepository(db *DB) listing.Repository {
	return &ListingRepository{db: db}
}

func (r *ListingRepository) Create(ctx context.Context, l *listing.Listing) error {
	l.ID = uuid.New()
	l.CreatedAt = time.Now()
	l.UpdatedAt = time.Now()

	dbModel := toListingModel(l)
	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		return fmt.Errorf("failed to create listing: %w", err)
	}

	l.ID = dbModel.ID
	return nil
}

func (r *ListingRepository) GetByID(ctx context.Context, id uuid.UUID) (*listing.Listing, error) {
	var dbModel models.ListingModel
	err := r.db.DB.WithContext(ctx).First(&dbModel, "id = ?", id).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, listing.ErrListingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}

	return toListingEntity(&dbModel), nil
}

func (r *ListingRepository) Find(ctx context.Context, filter listing.Filter) ([]*listing.Listing, int64, error) {
	query := r.db.DB.WithContext(ctx).Model(&models.ListingModel{})

	if filter.SellerID != nil {
		query = query.Where("seller_id = ?", *filter.SellerID)
	} else {
		query = query.Where("status = ?", listing.StatusActive)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.MinPriceCents > 0 {
		query = query.Where("price_cents >= ?", filter.MinPriceCents)
	}
	if filter.MaxPriceCents > 0 {
		query = query.Where("price_cents <= ?", filter.MaxPriceCents)
	}
	if filter.Query != "" {
		pattern := "%" + filter.Query + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count listings: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	var dbModels []models.ListingModel
	err := query.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&dbModels).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find listings: %w", err)
	}

	listings := make([]*listing.Listing, len(dbModels))
	for i, dbModel := range dbModels {
		listings[i] = toListingEntity(&dbModel)
	}

	return listings, total, nil
}

func (r *ListingRepository) Update(ctx context.Context, l *listing.Listing) error {
	l.UpdatedAt = time.Now()

	result := r.db.DB.WithContext(ctx).Model(&models.ListingModel{}).
		Where("id = ?", l.ID).
		Updates(map[string]interface{}{
			"title":       l.Title,
			"description": l.Description,
			"price_cents": l.PriceCents,
			"category":    l.Category,
			"updated_at":  l.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update listing: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return listing.ErrListingNotFound
	}

	return nil
}

func (r *ListingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	result := r.db.DB.WithContext(ctx).Model(&models.ListingModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update listing status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return listing.ErrListingNotFound
	}

	return nil
}

func (r *ListingRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.DB.WithContext(ctx).Model(&models.ListingModel{}).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count listings: %w", err)
	}
	return count, nil
}

func toListingModel(l *listing.Listing) *models.ListingModel {
	return &models.ListingModel{
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

func toListingEntity(m *models.ListingModel) *listing.Listing {
	return &listing.Listing{
		ID:          m.ID,
		SellerID:    m.SellerID,
		Title:       m.Title,
		Description: m.Description,
		PriceCents:  m.PriceCents,
		Currency:    m.Currency,
		Category:    m.Category,
		Status:      m.Status,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
