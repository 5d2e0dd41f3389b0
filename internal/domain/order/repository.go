package order

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)
	GetByBuyer(ctx context.Context, buyerID uuid.UUID) ([]*Order, error)
	GetAll(ctx context.Context) ([]*Order, error)
	Update(ctx context.Context, o *Order) error
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
	SumAmountByStatus(ctx context.Context, status string) (int64, error)
}
