package service

import (
	"context"

	"agro-market-api/internal/entity"
	"agro-market-api/internal/repo"
)

// AuditService is read-only. Entries are appended inside the repo
// transactions of the actions they record; there is no update or delete.
type AuditService struct {
	auditRepo repo.Audit
}

func NewAuditService(repos *repo.Repositories) *AuditService {
	return &AuditService{auditRepo: repos.Audit}
}

func (s *AuditService) Query(ctx context.Context, filter *entity.AuditFilter, pg *entity.PaginationInput) ([]entity.AuditLogOutputModel, error) {
	entries, err := s.auditRepo.Query(ctx, filter, pg)
	if err != nil {
		return nil, err
	}

	return mapAuditEntries(entries), nil
}
