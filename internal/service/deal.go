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

// DealService is the moderation state machine for admin-deal wrappers.
// Verdicts move Pending -> Accepted or Pending -> Rejected and never back;
// deletion is allowed from any verdict.
type DealService struct {
	dealRepo    repo.Deal
	listingRepo repo.Listing
	requestRepo repo.Request
	log         *zap.Logger
	retries     int
	backoff     time.Duration
}

func NewDealService(repos *repo.Repositories, opts Options) *DealService {
	return &DealService{
		dealRepo:    repos.Deal,
		listingRepo: repos.Listing,
		requestRepo: repos.Request,
		log:         opts.Log,
		retries:     opts.Retries,
		backoff:     opts.Backoff,
	}
}

func (s *DealService) SubmitDeal(ctx context.Context, input *entity.SubmitDealInput) (*entity.DealOutputModel, error) {
	if !common.IsValidKind(input.Kind) {
		return nil, ErrInvalidKind
	}

	ownerId, err := s.entityOwner(ctx, input.Kind, input.EntityId)
	if err != nil {
		return nil, err
	}
	if ownerId != input.OwnerId {
		return nil, ErrNotEntityOwner
	}

	dealId, err := s.dealRepo.CreateDeal(ctx, input.Kind, input.EntityId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrAlreadyExists) {
			return nil, ErrDealAlreadyExists
		}

		return nil, err
	}

	deal, err := s.dealRepo.GetDealById(ctx, dealId)
	if err != nil {
		return nil, err
	}

	return mapDeal(deal), nil
}

func (s *DealService) ResolveDeal(ctx context.Context, dealId string, verdict string, adminId string, reason string) (*entity.DealOutputModel, error) {
	if verdict != common.Accepted && verdict != common.Rejected {
		return nil, ErrInvalidVerdict
	}
	if verdict == common.Rejected && reason == "" {
		return nil, ErrReasonRequired
	}

	deal, err := s.dealRepo.GetDealById(ctx, dealId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrDealNotFound
		}

		return nil, err
	}

	audit := &entity.AuditEntryInput{
		AdminId: adminId,
		Action:  resolveAction(deal.EntityKind, verdict),
		Reason:  reason,
	}

	err = withLockRetry(ctx, s.retries, s.backoff, func() error {
		return s.dealRepo.ResolveDeal(ctx, dealId, verdict, audit)
	})
	if err != nil {
		switch {
		case errors.Is(err, repo_errors.ErrNotFound):
			return nil, ErrDealNotFound
		case errors.Is(err, repo_errors.ErrStateChanged):
			return nil, ErrDealAlreadyResolved
		}

		return nil, err
	}

	s.log.Info("deal resolved",
		zap.String("dealId", dealId),
		zap.String("verdict", verdict),
		zap.String("adminId", adminId))

	deal, err = s.dealRepo.GetDealById(ctx, dealId)
	if err != nil {
		return nil, err
	}

	return mapDeal(deal), nil
}

func (s *DealService) DeleteDeal(ctx context.Context, dealId string, adminId string, reason string) error {
	deal, err := s.dealRepo.GetDealById(ctx, dealId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return ErrDealNotFound
		}

		return err
	}

	audit := &entity.AuditEntryInput{
		AdminId: adminId,
		Action:  deleteAction(deal.EntityKind),
		Reason:  reason,
	}

	err = s.dealRepo.DeleteDeal(ctx, dealId, deal.EntityKind, deal.EntityId.String(), audit)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return ErrDealNotFound
		}

		return err
	}

	s.log.Info("deal deleted",
		zap.String("dealId", dealId),
		zap.String("entityKind", deal.EntityKind),
		zap.String("adminId", adminId))

	return nil
}

func (s *DealService) GetPendingDeals(ctx context.Context, kind string, pg *entity.PaginationInput) ([]entity.DealOutputModel, error) {
	if !common.IsValidKind(kind) {
		return nil, ErrInvalidKind
	}

	deals, err := s.dealRepo.GetPendingDeals(ctx, kind, pg)
	if err != nil {
		return nil, err
	}

	return mapDeals(deals), nil
}

func (s *DealService) entityOwner(ctx context.Context, kind string, entityId string) (string, error) {
	if kind == common.KindFarmerReq {
		listing, err := s.listingRepo.GetListingById(ctx, entityId)
		if err != nil {
			if errors.Is(err, repo_errors.ErrNotFound) {
				return "", ErrListingNotFound
			}

			return "", err
		}

		return listing.OwnerId.String(), nil
	}

	request, err := s.requestRepo.GetRequestById(ctx, entityId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return "", ErrRequestNotFound
		}

		return "", err
	}

	return request.OwnerId.String(), nil
}

func resolveAction(kind string, verdict string) string {
	if kind == common.KindFarmerReq {
		if verdict == common.Accepted {
			return common.ActionApproveListing
		}

		return common.ActionRejectListing
	}

	if verdict == common.Accepted {
		return common.ActionApproveRequest
	}

	return common.ActionRejectRequest
}

func deleteAction(kind string) string {
	if kind == common.KindFarmerReq {
		return common.ActionDeleteListing
	}

	return common.ActionDeleteRequest
}
