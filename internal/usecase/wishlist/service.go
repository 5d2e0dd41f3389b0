package wishlist

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domainListing "marketplace-api/internal/domain/listing"
	domainWishlist "marketplace-api/internal/domain/wishlist"
	"marketplace-api/internal/logger"
	listingUsecase "marketplace-api/internal/usecase/listing"
	appErrors "marketplace-api/pkg/errors"
)

// Service implements wishlist use cases.
type Service struct {
	wishlistRepo domainWishlist.Repository
	listingRepo  domainListing.Repository
}

func NewService(wishlistRepo domainWishlist.Repository, listingRepo domainListing.Repository) *Service {
	return &Service{
		wishlistRepo: wishlistRepo,
		listingRepo:  listingRepo,
	}
}

func (s *Service) Add(ctx context.Context, userID, listingID uuid.UUID) error {
	l, err := s.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, domainListing.ErrListingNotFound) {
			return appErrors.ErrListingNotFound
		}
		return err
	}
	if !l.IsAvailable() {
		return appErrors.ErrListingUnavailable
	}

	item := &domainWishlist.Item{UserID: userID, ListingID: listingID}
	if err := s.wishlistRepo.Add(ctx, item); err != nil {
		if errors.Is(err, domainWishlist.ErrAlreadyInWishlist) {
			return appErrors.ErrAlreadyInWishlist
		}
		return err
	}

	logger.Debug("Wishlist item added",
		zap.String("user_id", userID.String()),
		zap.String("listing_id", listingID.String()),
	)

	return nil
}

func (s *Service) Remove(ctx context.Context, userID, listingID uuid.UUID) error {
	if err := s.wishlistRepo.Remove(ctx, userID, listingID); err != nil {
		if errors.Is(err, domainWishlist.ErrItemNotFound) {
			return appErrors.ErrWishlistItemNotFound
		}
		return err
	}

	return nil
}

// Get returns the wishlisted listings, skipping any that have been
// removed from the catalog since they were saved.
func (s *Service) Get(ctx context.Context, userID uuid.UUID) ([]*listingUsecase.ListingResponse, error) {
	items, err := s.wishlistRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	listings := make([]*listingUsecase.ListingResponse, 0, len(items))
	for _, item := range items {
		l, err := s.listingRepo.GetByID(ctx, item.ListingID)
		if err != nil {
			if errors.Is(err, domainListing.ErrListingNotFound) {
				continue
			}
			return nil, err
		}
		listings = append(listings, listingUsecase.ToListingResponse(l))
	}

	return listings, nil
}
