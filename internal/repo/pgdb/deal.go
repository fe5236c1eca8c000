package pgdb

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"agro-market-api/internal/common"
	"agro-market-api/internal/entity"
	"agro-market-api/internal/repo/repo_errors"
	"agro-market-api/pkg/postgres"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

const dealColumns = "id, entity_kind, entity_id, verdict, created_at, resolved_at, resolved_by"

type DealRepo struct {
	*postgres.Postgres
}

func NewDealRepo(pgdb *postgres.Postgres) *DealRepo {
	return &DealRepo{pgdb}
}

func entityTable(kind string) string {
	if kind == common.KindFarmerReq {
		return "listing"
	}

	return "request"
}

// CreateDeal inserts the moderation record and flips the wrapped entity's
// admin_deal flag in one transaction. The unique index on
// (entity_kind, entity_id) turns a second wrap into ErrAlreadyExists.
func (r *DealRepo) CreateDeal(ctx context.Context, kind string, entityId string) (string, error) {
	entityUuid, err := uuid.Parse(entityId)
	if err != nil {
		return "", repo_errors.ErrNotFound
	}

	tx, err := r.Database.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}

	createReq, args, _ := r.SqlBuilder.
		Insert("deal_record").
		Columns("entity_kind", "entity_id", "verdict").
		Values(kind, entityUuid, common.Pending).
		Suffix("RETURNING id").
		ToSql()

	var dealId uuid.UUID
	if err = tx.QueryRowContext(ctx, createReq, args...).Scan(&dealId); err != nil {
		if e := tx.Rollback(); e != nil {
			return "", e
		}

		return "", translatePgError(err)
	}

	flagReq, args, _ := r.SqlBuilder.
		Update(entityTable(kind)).
		Set("admin_deal", true).
		Where("id = ?", entityUuid).
		ToSql()

	if _, err = tx.ExecContext(ctx, flagReq, args...); err != nil {
		if e := tx.Rollback(); e != nil {
			return "", e
		}

		return "", err
	}

	if err = tx.Commit(); err != nil {
		return "", err
	}

	return dealId.String(), nil
}

func (r *DealRepo) GetDealById(ctx context.Context, id string) (*entity.DealRecord, error) {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return nil, repo_errors.ErrNotFound
	}

	getReq, args, _ := r.SqlBuilder.
		Select(dealColumns).
		From("deal_record").
		Where("id = ?", uuidForm).
		ToSql()

	deal, err := scanDeal(r.Database.QueryRowContext(ctx, getReq, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo_errors.ErrNotFound
		}

		return nil, err
	}

	return deal, nil
}

func (r *DealRepo) GetDealByEntityId(ctx context.Context, kind string, entityId string) (*entity.DealRecord, error) {
	getReq, args, _ := r.SqlBuilder.
		Select(dealColumns).
		From("deal_record").
		Where("entity_kind = ?", kind).
		Where("entity_id = ?", entityId).
		ToSql()

	deal, err := scanDeal(r.Database.QueryRowContext(ctx, getReq, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo_errors.ErrNotFound
		}

		return nil, err
	}

	return deal, nil
}

func (r *DealRepo) GetPendingDeals(ctx context.Context, kind string, pg *entity.PaginationInput) ([]entity.DealRecord, error) {
	getReq, args, _ := r.SqlBuilder.
		Select(dealColumns).
		From("deal_record").
		Where("entity_kind = ?", kind).
		Where("verdict = ?", common.Pending).
		OrderBy("created_at DESC").
		Limit(uint64(pg.Limit)).
		Offset(uint64(pg.Offset)).
		ToSql()

	rows, err := r.Database.QueryContext(ctx, getReq, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	deals := make([]entity.DealRecord, 0)
	for rows.Next() {
		deal, err := scanDeal(rows)
		if err != nil {
			return nil, err
		}
		deals = append(deals, *deal)
	}

	return deals, rows.Err()
}

// ResolveDeal locks the record row, checks the verdict is still Pending,
// writes the terminal verdict and appends the audit entry, all in one
// transaction. A failed audit insert rolls the verdict back too.
func (r *DealRepo) ResolveDeal(ctx context.Context, id string, verdict string, audit *entity.AuditEntryInput) error {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return repo_errors.ErrNotFound
	}

	tx, err := r.Database.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	lockReq, args, _ := r.SqlBuilder.
		Select("verdict").
		From("deal_record").
		Where("id = ?", uuidForm).
		Suffix("FOR UPDATE NOWAIT").
		ToSql()

	var prev string
	if err = tx.QueryRowContext(ctx, lockReq, args...).Scan(&prev); err != nil {
		if e := tx.Rollback(); e != nil {
			return e
		}
		if errors.Is(err, sql.ErrNoRows) {
			return repo_errors.ErrNotFound
		}

		return translatePgError(err)
	}

	if prev != common.Pending {
		if e := tx.Rollback(); e != nil {
			return e
		}

		return repo_errors.ErrStateChanged
	}

	updateReq, args, _ := r.SqlBuilder.
		Update("deal_record").
		Set("verdict", verdict).
		Set("resolved_at", squirrel.Expr("now()")).
		Set("resolved_by", audit.AdminId).
		Where("id = ?", uuidForm).
		ToSql()

	if _, err = tx.ExecContext(ctx, updateReq, args...); err != nil {
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

// DeleteDeal removes the wrapped entity and the record together and always
// leaves an audit entry behind. Allowed from any verdict.
func (r *DealRepo) DeleteDeal(ctx context.Context, id string, kind string, entityId string, audit *entity.AuditEntryInput) error {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return repo_errors.ErrNotFound
	}

	tx, err := r.Database.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	deleteDealReq, args, _ := r.SqlBuilder.
		Delete("deal_record").
		Where("id = ?", uuidForm).
		ToSql()

	result, err := tx.ExecContext(ctx, deleteDealReq, args...)
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

	deleteEntityReq, args, _ := r.SqlBuilder.
		Delete(entityTable(kind)).
		Where("id = ?", entityId).
		ToSql()

	if _, err = tx.ExecContext(ctx, deleteEntityReq, args...); err != nil {
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

func scanDeal(row rowScanner) (*entity.DealRecord, error) {
	var deal entity.DealRecord
	var createdAt time.Time
	var resolvedAt sql.NullTime
	err := row.Scan(&deal.Id, &deal.EntityKind, &deal.EntityId, &deal.Verdict,
		&createdAt, &resolvedAt, &deal.ResolvedBy)
	if err != nil {
		return nil, err
	}

	deal.CreatedAt = createdAt.Format(time.RFC3339)
	if resolvedAt.Valid {
		deal.ResolvedAt = sql.NullString{String: resolvedAt.Time.Format(time.RFC3339), Valid: true}
	}

	return &deal, nil
}
