package listing

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domainListing "marketplace-api/internal/domain/listing"
	domainUser "marketplace-api/internal/domain/user"
	"marketplace-api/internal/logger"
	appErrors "marketplace-api/pkg/errors"
	"marketplace-api/pkg/utils"
)

const defaultCurrency = "USD"

// Service implements listing use cases.
type Service struct {
	listingRepo domainListing.Repository
	userRepo    domainUser.Repository
}

func NewService(listingRepo domainListing.Repository, userRepo domainUser.Repository) *Service {
	return &Service{
		listingRepo: listingRepo,
		userRepo:    userRepo,
	}
}

func (s *Service) Create(ctx context.Context, sellerID uuid.UUID, req *CreateListingRequest) (*ListingResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	currency := req.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	l := &domainListing.Listing{
		SellerID:    sellerID,
		Title:       req.Title,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Currency:    currency,
		Category:    req.Category,
		Status:      domainListing.StatusActive,
	}

	if err := s.listingRepo.Create(ctx, l); err != nil {
		return nil, err
	}

	logger.Info("Listing created",
		zap.String("listing_id", l.ID.String()),
		zap.String("seller_id", sellerID.String()),
		zap.String("category", l.Category),
		zap.String("event", "listing_created"),
	)

	return ToListingResponse(l), nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*ListingResponse, error) {
	l, err := s.listingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainListing.ErrListingNotFound) {
			return nil, appErrors.ErrListingNotFound
		}
		return nil, err
	}

	return ToListingResponse(l), nil
}

func (s *Service) Browse(ctx context.Context, req *BrowseRequest) (*BrowseResponse, error) {
	filter := domainListing.Filter{
		Category:      req.Category,
		MinPriceCents: req.MinPriceCents,
		MaxPriceCents: req.MaxPriceCents,
		Query:         req.Query,
		Page:          req.Page,
		PageSize:      req.PageSize,
	}

	listings, total, err := s.listingRepo.Find(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]*ListingResponse, len(listings))
	for i, l := range listings {
		responses[i] = ToListingResponse(l)
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	return &BrowseResponse{
		Listings: responses,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// Update applies the changed fields. Only the seller or an admin may
// mutate a listing.
func (s *Service) Update(ctx context.Context, actorID uuid.UUID, actorRole string, id uuid.UUID, req *UpdateListingRequest) (*ListingResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	l, err := s.listingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainListing.ErrListingNotFound) {
			return nil, appErrors.ErrListingNotFound
		}
		return nil, err
	}

	if l.SellerID != actorID && actorRole != domainUser.RoleAdmin {
		return nil, appErrors.ErrNotListingOwner
	}

	if req.Title != nil {
		l.Title = *req.Title
	}
	if req.Description != nil {
		l.Description = *req.Description
	}
	if req.PriceCents != nil {
		l.PriceCents = *req.PriceCents
	}
	if req.Category != nil {
		l.Category = *req.Category
	}

	if err := s.listingRepo.Update(ctx, l); err != nil {
		return nil, err
	}

	return ToListingResponse(l), nil
}

// Remove marks the listing removed rather than deleting the row, so
// existing orders keep a valid reference.
func (s *Service) Remove(ctx context.Context, actorID uuid.UUID, actorRole string, id uuid.UUID) error {
	l, err := s.listingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainListing.ErrListingNotFound) {
			return appErrors.ErrListingNotFound
		}
		return err
	}

	if l.SellerID != actorID && actorRole != domainUser.RoleAdmin {
		return appErrors.ErrNotListingOwner
	}

	if err := s.listingRepo.UpdateStatus(ctx, id, domainListing.StatusRemoved); err != nil {
		return err
	}

	logger.Info("Listing removed",
		zap.String("listing_id", id.String()),
		zap.String("actor_id", actorID.String()),
		zap.String("event", "listing_removed"),
	)

	return nil
}

func (s *Service) GetBySeller(ctx context.Context, sellerID uuid.UUID) (*BrowseResponse, error) {
	filter := domainListing.Filter{SellerID: &sellerID}

	listings, total, err := s.listingRepo.Find(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]*ListingResponse, len(listings))
	for i, l := range listings {
		responses[i] = ToListingResponse(l)
	}

	return &BrowseResponse{Listings: responses, Total: total, Page: 1, PageSize: len(responses)}, nil
}
