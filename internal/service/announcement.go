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

var ErrEmptyAnnouncement = errors.New("announcement needs a title and a body")

type AnnouncementService struct {
	announcementRepo repo.Announcement
	log              *zap.Logger
}

func NewAnnouncementService(repos *repo.Repositories, log *zap.Logger) *AnnouncementService {
	return &AnnouncementService{announcementRepo: repos.Announcement, log: log}
}

func (s *AnnouncementService) SendAnnouncement(ctx context.Context, adminId string, title string, body string) (*entity.AnnouncementOutputModel, error) {
	if title == "" || body == "" {
		return nil, ErrEmptyAnnouncement
	}

	audit := &entity.AuditEntryInput{
		AdminId: adminId,
		Action:  common.ActionSendAnnouncement,
		Reason:  title,
	}

	id, err := s.announcementRepo.CreateAnnouncement(ctx, adminId, title, body, audit)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}

	s.log.Info("announcement sent", zap.String("announcementId", id), zap.String("adminId", adminId))

	return &entity.AnnouncementOutputModel{Id: id, Title: title, Body: body}, nil
}

func (s *AnnouncementService) GetAnnouncements(ctx context.Context, pg *entity.PaginationInput) ([]entity.AnnouncementOutputModel, error) {
	announcements, err := s.announcementRepo.GetAnnouncements(ctx, pg)
	if err != nil {
		return nil, err
	}

	return mapAnnouncements(announcements), nil
}
