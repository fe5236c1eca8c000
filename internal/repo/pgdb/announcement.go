package pgdb

import (
	"context"
	"time"

	"agro-market-api/internal/entity"
	"agro-market-api/pkg/postgres"

	"github.com/google/uuid"
)

type AnnouncementRepo struct {
	*postgres.Postgres
}

func NewAnnouncementRepo(pgdb *postgres.Postgres) *AnnouncementRepo {
	return &AnnouncementRepo{pgdb}
}

func (r *AnnouncementRepo) CreateAnnouncement(ctx context.Context, adminId string, title string, body string, audit *entity.AuditEntryInput) (string, error) {
	tx, err := r.Database.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}

	createReq, args, _ := r.SqlBuilder.
		Insert("announcement").
		Columns("admin_id", "title", "body").
		Values(adminId, title, body).
		Suffix("RETURNING id").
		ToSql()

	var id uuid.UUID
	if err = tx.QueryRowContext(ctx, createReq, args...).Scan(&id); err != nil {
		if e := tx.Rollback(); e != nil {
			return "", e
		}

		return "", err
	}

	if err = appendAuditTx(ctx, tx, r.SqlBuilder, audit); err != nil {
		if e := tx.Rollback(); e != nil {
			return "", e
		}

		return "", err
	}

	if err = tx.Commit(); err != nil {
		return "", err
	}

	return id.String(), nil
}

func (r *AnnouncementRepo) GetAnnouncements(ctx context.Context, pg *entity.PaginationInput) ([]entity.Announcement, error) {
	getReq, args, _ := r.SqlBuilder.
		Select("id, admin_id, title, body, created_at").
		From("announcement").
		OrderBy("created_at DESC").
		Limit(uint64(pg.Limit)).
		Offset(uint64(pg.Offset)).
		ToSql()

	rows, err := r.Database.QueryContext(ctx, getReq, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	announcements := make([]entity.Announcement, 0)
	for rows.Next() {
		var a entity.Announcement
		var createdAt time.Time
		if err := rows.Scan(&a.Id, &a.AdminId, &a.Title, &a.Body, &createdAt); err != nil {
			return nil, err
		}
		a.CreatedAt = createdAt.Format(time.RFC3339)
		announcements = append(announcements, a)
	}

	return announcements, rows.Err()
}
