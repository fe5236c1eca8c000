package service

import (
	"context"
	"errors"
	"time"

	"agro-market-api/internal/common"
	"agro-market-api/internal/entity"
	"agro-market-api/internal/repo"
	"agro-market-api/internal/repo/repo_errors"

	"go.uber.org/zap"
)

type ListingService struct {
	listingRepo repo.Listing
	dealRepo    repo.Deal
	auditRepo   repo.Audit
	log         *zap.Logger
}

func NewListingService(repos *repo.Repositories, log *zap.Logger) *ListingService {
	return &ListingService{
		listingRepo: repos.Listing,
		dealRepo:    repos.Deal,
		auditRepo:   repos.Audit,
		log:         log,
	}
}

func (s *ListingService) CreateListing(ctx context.Context, input *entity.CreateListingInput) (*entity.ListingOutputModel, error) {
	if input.Quantity < 0 {
		return nil, ErrInvalidQuantity
	}
	if err := validateWindow(input.AvailableFrom, input.AvailableUntil); err != nil {
		return nil, err
	}

	id, err := s.listingRepo.CreateListing(ctx, input)
	if err != nil {
		return nil, err
	}

	listing, err := s.listingRepo.GetListingById(ctx, id)
	if err != nil {
		return nil, err
	}

	return mapListing(listing), nil
}

func (s *ListingService) GetListingById(ctx context.Context, id string) (*entity.ListingOutputModel, error) {
	listing, err := s.listingRepo.GetListingById(ctx, id)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrListingNotFound
		}

		return nil, err
	}

	return mapListing(listing), nil
}

func (s *ListingService) GetOwnListings(ctx context.Context, ownerId string, pg *entity.PaginationInput) ([]entity.ListingOutputModel, error) {
	listings, err := s.listingRepo.GetListingsByOwnerId(ctx, ownerId, pg)
	if err != nil {
		return nil, err
	}

	return mapListings(listings), nil
}

func (s *ListingService) GetOpenListings(ctx context.Context, pg *entity.PaginationInput) ([]entity.ListingOutputModel, error) {
	listings, err := s.listingRepo.GetOpenListings(ctx, pg)
	if err != nil {
		return nil, err
	}

	return mapListings(listings), nil
}

// UpdateListingById is owner-only. The quantity field is an unconditional
// set and is not serialized against concurrent bid acceptance; last write
// wins and the next acceptance re-validates against whatever is current.
func (s *ListingService) UpdateListingById(ctx context.Context, id string, actor entity.Principal, input *entity.UpdateListingInput) (*entity.ListingOutputModel, error) {
	listing, err := s.listingRepo.GetListingById(ctx, id)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrListingNotFound
		}

		return nil, err
	}
	if listing.OwnerId.String() != actor.Id {
		return nil, ErrNotEntityOwner
	}
	if input.Quantity != nil && *input.Quantity < 0 {
		return nil, ErrInvalidQuantity
	}
	if err := validateWindow(input.AvailableFrom, input.AvailableUntil); err != nil {
		return nil, err
	}

	if err = s.listingRepo.UpdateListingById(ctx, id, input); err != nil {
		return nil, err
	}

	listing, err = s.listingRepo.GetListingById(ctx, id)
	if err != nil {
		return nil, err
	}

	return mapListing(listing), nil
}

// DeleteListingById allows owners to remove their own listing. An admin
// delete of a wrapped listing routes through the deal machine so the record
// goes with it; either admin path always leaves an audit entry.
func (s *ListingService) DeleteListingById(ctx context.Context, id string, actor entity.Principal, reason string) error {
	listing, err := s.listingRepo.GetListingById(ctx, id)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return ErrListingNotFound
		}

		return err
	}

	if actor.Role != common.RoleAdmin {
		if listing.OwnerId.String() != actor.Id {
			return ErrNotEntityOwner
		}

		return s.listingRepo.DeleteListingById(ctx, id)
	}

	audit := &entity.AuditEntryInput{
		AdminId: actor.Id,
		Action:  common.ActionDeleteListing,
		Reason:  reason,
	}

	deal, err := s.dealRepo.GetDealByEntityId(ctx, common.KindFarmerReq, id)
	if err == nil {
		return s.dealRepo.DeleteDeal(ctx, deal.Id.String(), common.KindFarmerReq, id, audit)
	}
	if !errors.Is(err, repo_errors.ErrNotFound) {
		return err
	}

	if err = s.listingRepo.DeleteListingById(ctx, id); err != nil {
		return err
	}
	if _, err = s.auditRepo.Append(ctx, audit); err != nil {
		return err
	}

	s.log.Info("listing deleted by admin", zap.String("listingId", id), zap.String("adminId", actor.Id))

	return nil
}

func validateWindow(from string, until string) error {
	if from == "" || until == "" {
		return nil
	}

	fromTime, err := time.Parse(time.RFC3339, from)
	if err != nil {
		return ErrInvalidDateRange
	}
	untilTime, err := time.Parse(time.RFC3339, until)
	if err != nil {
		return ErrInvalidDateRange
	}
	if fromTime.After(untilTime) {
		return ErrInvalidDateRange
	}

	return nil
}
