package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domainListing "marketplace-api/internal/domain/listing"
	domainOrder "marketplace-api/internal/domain/order"
	domainUser "marketplace-api/internal/domain/user"
	"marketplace-api/internal/logger"
	"marketplace-api/internal/payment"
	appErrors "marketplace-api/pkg/errors"
	"marketplace-api/pkg/utils"
)

// Service implements checkout and order use cases. Checkout is a linear
// sequence: load listing, create the pending order, open a provider
// session, record the provider reference.
type Service struct {
	orderRepo   domainOrder.Repository
	listingRepo domainListing.Repository
	userRepo    domainUser.Repository
	provider    payment.Provider
}

func NewService(
	orderRepo domainOrder.Repository,
	listingRepo domainListing.Repository,
	userRepo domainUser.Repository,
	provider payment.Provider,
) *Service {
	return &Service{
		orderRepo:   orderRepo,
		listingRepo: listingRepo,
		userRepo:    userRepo,
		provider:    provider,
	}
}

func (s *Service) Checkout(ctx context.Context, buyerID uuid.UUID, req *CheckoutRequest) (*CheckoutResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	l, err := s.listingRepo.GetByID(ctx, req.ListingID)
	if err != nil {
		if errors.Is(err, domainListing.ErrListingNotFound) {
			return nil, appErrors.ErrListingNotFound
		}
		return nil, err
	}

	if !l.IsAvailable() {
		return nil, appErrors.ErrListingUnavailable
	}
	if l.SellerID == buyerID {
		return nil, appErrors.ErrOwnListing
	}

	o := &domainOrder.Order{
		BuyerID:     buyerID,
		ListingID:   l.ID,
		AmountCents: l.PriceCents,
		Currency:    l.Currency,
		Status:      domainOrder.StatusPending,
	}

	if err := s.orderRepo.Create(ctx, o); err != nil {
		return nil, err
	}

	session, err := s.provider.CreateCheckoutSession(ctx, o.ID, o.AmountCents, o.Currency, l.Title)
	if err != nil {
		return nil, fmt.Errorf("failed to open checkout session: %w", err)
	}

	o.ProviderRef = session.ProviderRef
	if err := s.orderRepo.Update(ctx, o); err != nil {
		return nil, err
	}

	logger.Info("Checkout started",
		zap.String("order_id", o.ID.String()),
		zap.String("buyer_id", buyerID.String()),
		zap.String("listing_id", l.ID.String()),
		zap.Int64("amount_cents", o.AmountCents),
		zap.String("event", "checkout_started"),
	)

	return &CheckoutResponse{
		Order:       ToOrderResponse(o),
		RedirectURL: session.RedirectURL,
	}, nil
}

// Confirm settles a pending order after the provider reports payment.
// The provider reference must match the one recorded at checkout.
func (s *Service) Confirm(ctx context.Context, orderID uuid.UUID, req *ConfirmRequest) (*OrderResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	o, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, domainOrder.ErrOrderNotFound) {
			return nil, appErrors.ErrOrderNotFound
		}
		return nil, err
	}

	if o.Status != domainOrder.StatusPending {
		return nil, appErrors.ErrOrderNotPending
	}
	if o.ProviderRef == "" || o.ProviderRef != req.ProviderRef {
		return nil, appErrors.ErrInvalidToken
	}

	o.Status = domainOrder.StatusPaid
	if err := s.orderRepo.Update(ctx, o); err != nil {
		return nil, err
	}

	if err := s.listingRepo.UpdateStatus(ctx, o.ListingID, domainListing.StatusSold); err != nil {
		// The payment settled; a stale listing status is recoverable and
		// must not fail the confirmation.
		logger.Error("Failed to mark listing sold",
			zap.String("order_id", o.ID.String()),
			zap.String("listing_id", o.ListingID.String()),
			zap.Error(err),
		)
	}

	logger.Info("Order paid",
		zap.String("order_id", o.ID.String()),
		zap.String("event", "order_paid"),
	)

	return ToOrderResponse(o), nil
}

func (s *Service) Cancel(ctx context.Context, buyerID, orderID uuid.UUID) (*OrderResponse, error) {
	o, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, domainOrder.ErrOrderNotFound) {
			return nil, appErrors.ErrOrderNotFound
		}
		return nil, err
	}

	if o.BuyerID != buyerID {
		return nil, appErrors.ErrOrderNotFound
	}
	if o.Status != domainOrder.StatusPending {
		return nil, appErrors.ErrOrderNotPending
	}

	o.Status = domainOrder.StatusCancelled
	if err := s.orderRepo.Update(ctx, o); err != nil {
		return nil, err
	}

	return ToOrderResponse(o), nil
}

func (s *Service) GetByBuyer(ctx context.Context, buyerID uuid.UUID) ([]*OrderResponse, error) {
	orders, err := s.orderRepo.GetByBuyer(ctx, buyerID)
	if err != nil {
		return nil, err
	}

	responses := make([]*OrderResponse, len(orders))
	for i, o := range orders {
		responses[i] = ToOrderResponse(o)
	}

	return responses, nil
}

func (s *Service) GetAll(ctx context.Context) ([]*OrderResponse, error) {
	orders, err := s.orderRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]*OrderResponse, len(orders))
	for i, o := range orders {
		responses[i] = ToOrderResponse(o)
	}

	return responses, nil
}

// GetStats assembles the admin dashboard summary.
func (s *Service) GetStats(ctx context.Context) (*domainOrder.Stats, error) {
	totalUsers, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	totalListings, err := s.listingRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	totalOrders, err := s.orderRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	paidOrders, err := s.orderRepo.CountByStatus(ctx, domainOrder.StatusPaid)
	if err != nil {
		return nil, err
	}
	revenue, err := s.orderRepo.SumAmountByStatus(ctx, domainOrder.StatusPaid)
	if err != nil {
		return nil, err
	}

	return &domainOrder.Stats{
		TotalUsers:    totalUsers,
		TotalListings: totalListings,
		TotalOrders:   totalOrders,
		PaidOrders:    paidOrders,
		RevenueCents:  revenue,
	}, nil
}
