package service

import (
	"context"
	"errors"

	"agro-market-api/internal/common"
	"agro-market-api/internal/entity"
	"agro-market-api/internal/repo"
	"agro-market-api/internal/repo/repo_errors"

	"go.uber.org/zap"
)

type RequestService struct {
	requestRepo repo.Request
	dealRepo    repo.Deal
	auditRepo   repo.Audit
	log         *zap.Logger
}

func NewRequestService(repos *repo.Repositories, log *zap.Logger) *RequestService {
	return &RequestService{
		requestRepo: repos.Request,
		dealRepo:    repos.Deal,
		auditRepo:   repos.Audit,
		log:         log,
	}
}

func (s *RequestService) CreateRequest(ctx context.Context, input *entity.CreateRequestInput) (*entity.RequestOutputModel, error) {
	if input.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	id, err := s.requestRepo.CreateRequest(ctx, input)
	if err != nil {
		return nil, err
	}

	request, err := s.requestRepo.GetRequestById(ctx, id)
	if err != nil {
		return nil, err
	}

	return mapRequest(request), nil
}

func (s *RequestService) GetRequestById(ctx context.Context, id string) (*entity.RequestOutputModel, error) {
	request, err := s.requestRepo.GetRequestById(ctx, id)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrRequestNotFound
		}

		return nil, err
	}

	return mapRequest(request), nil
}

func (s *RequestService) GetOwnRequests(ctx context.Context, ownerId string, pg *entity.PaginationInput) ([]entity.RequestOutputModel, error) {
	requests, err := s.requestRepo.GetRequestsByOwnerId(ctx, ownerId, pg)
	if err != nil {
		return nil, err
	}

	return mapRequests(requests), nil
}

func (s *RequestService) GetOpenRequests(ctx context.Context, pg *entity.PaginationInput) ([]entity.RequestOutputModel, error) {
	requests, err := s.requestRepo.GetOpenRequests(ctx, pg)
	if err != nil {
		return nil, err
	}

	return mapRequests(requests), nil
}

func (s *RequestService) UpdateRequestById(ctx context.Context, id string, actor entity.Principal, input *entity.UpdateRequestInput) (*entity.RequestOutputModel, error) {
	request, err := s.requestRepo.GetRequestById(ctx, id)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrRequestNotFound
		}

		return nil, err
	}
	if request.OwnerId.String() != actor.Id {
		return nil, ErrNotEntityOwner
	}
	if input.Quantity != nil && *input.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	if err = s.requestRepo.UpdateRequestById(ctx, id, input); err != nil {
		return nil, err
	}

	request, err = s.requestRepo.GetRequestById(ctx, id)
	if err != nil {
		return nil, err
	}

	return mapRequest(request), nil
}

func (s *RequestService) DeleteRequestById(ctx context.Context, id string, actor entity.Principal, reason string) error {
	request, err := s.requestRepo.GetRequestById(ctx, id)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return ErrRequestNotFound
		}

		return err
	}

	if actor.Role != common.RoleAdmin {
		if request.OwnerId.String() != actor.Id {
			return ErrNotEntityOwner
		}

		return s.requestRepo.DeleteRequestById(ctx, id)
	}

	audit := &entity.AuditEntryInput{
		AdminId: actor.Id,
		Action:  common.ActionDeleteRequest,
		Reason:  reason,
	}

	deal, err := s.dealRepo.GetDealByEntityId(ctx, common.KindConsumerReq, id)
	if err == nil {
		return s.dealRepo.DeleteDeal(ctx, deal.Id.String(), common.KindConsumerReq, id, audit)
	}
	if !errors.Is(err, repo_errors.ErrNotFound) {
		return err
	}

	if err = s.requestRepo.DeleteRequestById(ctx, id); err != nil {
		return err
	}
	if _, err = s.auditRepo.Append(ctx, audit); err != nil {
		return err
	}

	s.log.Info("request deleted by admin", zap.String("requestId", id), zap.String("adminId", actor.Id))

	return nil
}
