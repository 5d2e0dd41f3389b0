package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"marketplace-api/internal/domain/order"
	"marketplace-api/internal/infrastructure/database/postgres/models"
)

// OrderRepository implements the order domain repository on PostgreSQL.
type OrderRepository struct {
	db *DB
}

func NewOrderRepository(db *DB) order.Repository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	o.ID = uuid.New()
	o.CreatedAt = time.Now()
	o.UpdatedAt = time.Now()

	dbModel := toOrderModel(o)
	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	o.ID = dbModel.ID
	return nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	var dbModel models.OrderModel
	err := r.db.DB.WithContext(ctx).First(&dbModel, "id = ?", id).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, order.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return toOrderEntity(&dbModel), nil
}

func (r *OrderRepository) GetByBuyer(ctx context.Context, buyerID uuid.UUID) ([]*order.Order, error) {
	var dbModels []models.OrderModel
	err := r.db.DB.WithContext(ctx).
		Where("buyer_id = ?", buyerID).
		Order("created_at DESC").
		Find(&dbModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get orders: %w", err)
	}

	return toOrderEntities(dbModels), nil
}

func (r *OrderRepository) GetAll(ctx context.Context) ([]*order.Order, error) {
	var dbModels []models.OrderModel
	err := r.db.DB.WithContext(ctx).Order("created_at DESC").Find(&dbModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get orders: %w", err)
	}

	return toOrderEntities(dbModels), nil
}

func (r *OrderRepository) Update(ctx context.Context, o *order.Order) error {
	o.UpdatedAt = time.Now()

	result := r.db.DB.WithContext(ctx).Model(&models.OrderModel{}).
		Where("id = ?", o.ID).
		Updates(map[string]interface{}{
			"status":       o.Status,
			"provider_ref": o.ProviderRef,
			"updated_at":   o.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update order: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return order.ErrOrderNotFound
	}

	return nil
}

func (r *OrderRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.DB.WithContext(ctx).Model(&models.OrderModel{}).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return count, nil
}

func (r *OrderRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.DB.WithContext(ctx).Model(&models.OrderModel{}).
		Where("status = ?", status).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return count, nil
}

func (r *OrderRepository) SumAmountByStatus(ctx context.Context, status string) (int64, error) {
	var sum *int64
	err := r.db.DB.WithContext(ctx).Model(&models.OrderModel{}).
		Where("status = ?", status).
		Select("SUM(amount_cents)").
		Scan(&sum).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum orders: %w", err)
	}
	if sum == nil {
		return 0, nil
	}
	return *sum, nil
}

func toOrderModel(o *order.Order) *models.OrderModel {
	return &models.OrderModel{
		ID:          o.ID,
		BuyerID:     o.BuyerID,
		ListingID:   o.ListingID,
		AmountCents: o.AmountCents,
		Currency:    o.Currency,
		Status:      o.Status,
		ProviderRef: o.ProviderRef,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

func toOrderEntity(m *models.OrderModel) *order.Order {
	return &order.Order{
		ID:          m.ID,
		BuyerID:     m.BuyerID,
		ListingID:   m.ListingID,
		AmountCents: m.AmountCents,
		Currency:    m.Currency,
		Status:      m.Status,
		ProviderRef: m.ProviderRef,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toOrderEntities(dbModels []models.OrderModel) []*order.Order {
	orders := make([]*order.Order, len(dbModels))
	for i, dbModel := range dbModels {
		orders[i] = toOrderEntity(&dbModel)
	}
	return orders
}
