package pgdb

import (
	"context"
	"database/sql"
	"time"

	"agro-market-api/internal/entity"
	"agro-market-api/pkg/postgres"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

type AuditRepo struct {
	*postgres.Postgres
}

func NewAuditRepo(pgdb *postgres.Postgres) *AuditRepo {
	return &AuditRepo{pgdb}
}

// appendAuditTx inserts an audit entry inside the caller's transaction so
// the entry commits or rolls back together with the action it records.
func appendAuditTx(ctx context.Context, tx *sql.Tx, builder squirrel.StatementBuilderType, input *entity.AuditEntryInput) error {
	insertReq, args, _ := builder.
		Insert("audit_log").
		Columns("admin_id", "action", "reason").
		Values(input.AdminId, input.Action, input.Reason).
		ToSql()

	_, err := tx.ExecContext(ctx, insertReq, args...)

	return err
}

// Append is the standalone variant for actions that mutate a single row and
// need no surrounding transaction of their own.
func (r *AuditRepo) Append(ctx context.Context, input *entity.AuditEntryInput) (string, error) {
	insertReq, args, _ := r.SqlBuilder.
		Insert("audit_log").
		Columns("admin_id", "action", "reason").
		Values(input.AdminId, input.Action, input.Reason).
		Suffix("RETURNING id").
		ToSql()

	var id uuid.UUID
	if err := r.Database.QueryRowContext(ctx, insertReq, args...).Scan(&id); err != nil {
		return "", err
	}

	return id.String(), nil
}

func (r *AuditRepo) Query(ctx context.Context, filter *entity.AuditFilter, pg *entity.PaginationInput) ([]entity.AuditLogEntry, error) {
	query := r.SqlBuilder.
		Select("id, admin_id, action, reason, created_at").
		From("audit_log").
		OrderBy("created_at DESC").
		Limit(uint64(pg.Limit)).
		Offset(uint64(pg.Offset))

	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.AdminId != "" {
		query = query.Where("admin_id = ?", filter.AdminId)
	}
	if filter.From != "" {
		query = query.Where("created_at >= ?", filter.From)
	}
	if filter.To != "" {
		query = query.Where("created_at < ?", filter.To)
	}

	queryReq, args, _ := query.ToSql()
	rows, err := r.Database.QueryContext(ctx, queryReq, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]entity.AuditLogEntry, 0)
	for rows.Next() {
		var entry entity.AuditLogEntry
		var createdAt time.Time
		if err := rows.Scan(&entry.Id, &entry.AdminId, &entry.Action, &entry.Reason, &createdAt); err != nil {
			return nil, err
		}
		entry.CreatedAt = createdAt.Format(time.RFC3339)
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
