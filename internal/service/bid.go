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

// BidService is the settlement state machine. A bid moves Pending ->
// Accepted or Pending -> Rejected once and never again; acceptance against a
// listing carries the inventory decrement inside the same repo transaction,
// so two concurrent acceptances can never both pass the quantity check.
type BidService struct {
	bidRepo     repo.Bid
	listingRepo repo.Listing
	requestRepo repo.Request
	log         *zap.Logger
	retries     int
	backoff     time.Duration
}

func NewBidService(repos *repo.Repositories, opts Options) *BidService {
	return &BidService{
		bidRepo:     repos.Bid,
		listingRepo: repos.Listing,
		requestRepo: repos.Request,
		log:         opts.Log,
		retries:     opts.Retries,
		backoff:     opts.Backoff,
	}
}

func (s *BidService) PlaceBid(ctx context.Context, input *entity.PlaceBidInput) (*entity.BidOutputModel, error) {
	if !common.IsValidKind(input.TargetKind) {
		return nil, ErrInvalidKind
	}
	if input.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	if input.TargetKind == common.KindFarmerReq {
		listing, err := s.listingRepo.GetListingById(ctx, input.TargetId)
		if err != nil {
			if errors.Is(err, repo_errors.ErrNotFound) {
				return nil, ErrListingNotFound
			}

			return nil, err
		}
		if listing.OwnerId.String() == input.BidderId {
			return nil, ErrOwnBidNotAllowed
		}
		// A sold-out listing takes no further bids. Placement against a
		// partially drained listing is allowed; acceptance re-validates.
		if listing.Quantity == 0 {
			return nil, ErrTargetUnavailable
		}
	} else {
		request, err := s.requestRepo.GetRequestById(ctx, input.TargetId)
		if err != nil {
			if errors.Is(err, repo_errors.ErrNotFound) {
				return nil, ErrRequestNotFound
			}

			return nil, err
		}
		if request.OwnerId.String() == input.BidderId {
			return nil, ErrOwnBidNotAllowed
		}
	}

	bidId, err := s.bidRepo.CreateBid(ctx, input)
	if err != nil {
		return nil, err
	}

	bid, err := s.bidRepo.GetBidById(ctx, bidId)
	if err != nil {
		return nil, err
	}

	return mapBid(bid), nil
}

func (s *BidService) SettleBid(ctx context.Context, bidId string, decision string, actor entity.Principal, reason string) (*entity.BidOutputModel, error) {
	if decision != common.AcceptDecision && decision != common.RejectDecision {
		return nil, ErrInvalidDecision
	}
	if decision == common.RejectDecision && reason == "" {
		return nil, ErrReasonRequired
	}

	bid, err := s.bidRepo.GetBidById(ctx, bidId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrBidNotFound
		}

		return nil, err
	}
	if bid.Status != common.Pending {
		return nil, ErrBidAlreadySettled
	}

	ownerId, err := s.targetOwner(ctx, bid.TargetKind, bid.TargetId.String())
	if err != nil {
		return nil, err
	}
	if actor.Id != ownerId && actor.Role != common.RoleAdmin {
		return nil, ErrNoAccessToBid
	}

	audit := &entity.AuditEntryInput{AdminId: actor.Id, Reason: reason}
	if decision == common.AcceptDecision {
		audit.Action = common.ActionAcceptBid
		err = withLockRetry(ctx, s.retries, s.backoff, func() error {
			return s.bidRepo.AcceptBid(ctx, bid, audit)
		})
	} else {
		audit.Action = common.ActionRejectBid
		err = withLockRetry(ctx, s.retries, s.backoff, func() error {
			return s.bidRepo.RejectBid(ctx, bidId, audit)
		})
	}
	if err != nil {
		switch {
		case errors.Is(err, repo_errors.ErrInsufficientQuantity):
			return nil, ErrInsufficientInventory
		case errors.Is(err, repo_errors.ErrStateChanged):
			return nil, ErrBidAlreadySettled
		case errors.Is(err, repo_errors.ErrNotFound):
			return nil, ErrBidNotFound
		}

		return nil, err
	}

	s.log.Info("bid settled",
		zap.String("bidId", bidId),
		zap.String("decision", decision),
		zap.String("actorId", actor.Id))

	bid, err = s.bidRepo.GetBidById(ctx, bidId)
	if err != nil {
		return nil, err
	}

	return mapBid(bid), nil
}

func (s *BidService) GetOwnBids(ctx context.Context, bidderId string, pg *entity.PaginationInput) ([]entity.BidOutputModel, error) {
	bids, err := s.bidRepo.GetBidsByBidderId(ctx, bidderId, pg)
	if err != nil {
		return nil, err
	}

	return mapBids(bids), nil
}

// Bids against a target are visible to its owner and to admins only.
func (s *BidService) GetTargetBids(ctx context.Context, kind string, targetId string, actor entity.Principal, pg *entity.PaginationInput) ([]entity.BidOutputModel, error) {
	if !common.IsValidKind(kind) {
		return nil, ErrInvalidKind
	}

	ownerId, err := s.targetOwner(ctx, kind, targetId)
	if err != nil {
		return nil, err
	}
	if actor.Id != ownerId && actor.Role != common.RoleAdmin {
		return nil, ErrNoAccessToBid
	}

	bids, err := s.bidRepo.GetBidsByTargetId(ctx, targetId, pg)
	if err != nil {
		return nil, err
	}

	return mapBids(bids), nil
}

func (s *BidService) targetOwner(ctx context.Context, kind string, targetId string) (string, error) {
	if kind == common.KindFarmerReq {
		listing, err := s.listingRepo.GetListingById(ctx, targetId)
		if err != nil {
			if errors.Is(err, repo_errors.ErrNotFound) {
				return "", ErrListingNotFound
			}

			return "", err
		}

		return listing.OwnerId.String(), nil
	}

	request, err := s.requestRepo.GetRequestById(ctx, targetId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return "", ErrRequestNotFound
		}

		return "", err
	}

	return request.OwnerId.String(), nil
}
