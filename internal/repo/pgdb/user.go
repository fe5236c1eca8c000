package pgdb

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"agro-market-api/internal/entity"
	"agro-market-api/internal/repo/repo_errors"
	"agro-market-api/pkg/postgres"

	"github.com/google/uuid"
)

type UserRepo struct {
	*postgres.Postgres
}

func NewUserRepo(pgdb *postgres.Postgres) *UserRepo {
	return &UserRepo{pgdb}
}

func (r *UserRepo) GetUserById(ctx context.Context, id string) (*entity.User, error) {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return nil, repo_errors.ErrNotFound
	}

	getReq, args, _ := r.SqlBuilder.
		Select("id, name, email, role, verified, suspended, created_at").
		From("marketplace_user").
		Where("id = ?", uuidForm).
		ToSql()

	var user entity.User
	var createdAt time.Time
	err = r.Database.QueryRowContext(ctx, getReq, args...).
		Scan(&user.Id, &user.Name, &user.Email, &user.Role, &user.Verified, &user.Suspended, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo_errors.ErrNotFound
		}

		return nil, err
	}
	user.CreatedAt = createdAt.Format(time.RFC3339)

	return &user, nil
}

func (r *UserRepo) SetSuspended(ctx context.Context, id string, suspended bool, audit *entity.AuditEntryInput) error {
	return r.setFlag(ctx, id, "suspended", suspended, audit)
}

func (r *UserRepo) SetVerified(ctx context.Context, id string, verified bool, audit *entity.AuditEntryInput) error {
	return r.setFlag(ctx, id, "verified", verified, audit)
}

func (r *UserRepo) setFlag(ctx context.Context, id string, column string, value bool, audit *entity.AuditEntryInput) error {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return repo_errors.ErrNotFound
	}

	tx, err := r.Database.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	updateReq, args, _ := r.SqlBuilder.
		Update("marketplace_user").
		Set(column, value).
		Where("id = ?", uuidForm).
		ToSql()

	result, err := tx.ExecContext(ctx, updateReq, args...)
	if err != nil {
		if e := tx.Rollback(); e != nil {
			return e
		}

		return err
	}
	if err = requireRowAffected(result); err != nil {
		if e := tx.Rollback(); e != nil {
			return e
		}

		return err
	}

	if err = appendAuditTx(ctx, tx, r.SqlBuilder, audit); err != nil {
		if e := tx.Rollback(); e != nil {
			return e
		}

		return err
	}

	return tx.Commit()
}
