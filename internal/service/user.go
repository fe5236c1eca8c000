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

type UserService struct {
	userRepo repo.User
	log      *zap.Logger
}

func NewUserService(repos *repo.Repositories, log *zap.Logger) *UserService {
	return &UserService{userRepo: repos.User, log: log}
}

func (s *UserService) SuspendUser(ctx context.Context, userId string, adminId string, reason string) (*entity.UserOutputModel, error) {
	if reason == "" {
		return nil, ErrReasonRequired
	}

	user, err := s.userRepo.GetUserById(ctx, userId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}
	if user.Suspended {
		return nil, ErrUserAlreadySuspended
	}

	audit := &entity.AuditEntryInput{
		AdminId: adminId,
		Action:  common.ActionSuspendUser,
		Reason:  reason,
	}
	if err = s.userRepo.SetSuspended(ctx, userId, true, audit); err != nil {
		return nil, err
	}

	s.log.Info("user suspended", zap.String("userId", userId), zap.String("adminId", adminId))

	user, err = s.userRepo.GetUserById(ctx, userId)
	if err != nil {
		return nil, err
	}

	return mapUser(user), nil
}

func (s *UserService) VerifyUser(ctx context.Context, userId string, adminId string) (*entity.UserOutputModel, error) {
	user, err := s.userRepo.GetUserById(ctx, userId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}
	if user.Verified {
		return nil, ErrUserAlreadyVerified
	}

	audit := &entity.AuditEntryInput{
		AdminId: adminId,
		Action:  common.ActionVerifyUser,
	}
	if err = s.userRepo.SetVerified(ctx, userId, true, audit); err != nil {
		return nil, err
	}

	user, err = s.userRepo.GetUserById(ctx, userId)
	if err != nil {
		return nil, err
	}

	return mapUser(user), nil
}
