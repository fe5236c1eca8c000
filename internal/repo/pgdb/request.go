package pgdb

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"agro-market-api/internal/entity"
	"agro-market-api/internal/repo/repo_errors"
	"agro-market-api/pkg/postgres"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

const requestColumns = "id, owner_id, product_name, quantity, unit, price_per_unit, currency, needed_by, description, admin_deal, created_at, updated_at"

type RequestRepo struct {
	*postgres.Postgres
}

func NewRequestRepo(pgdb *postgres.Postgres) *RequestRepo {
	return &RequestRepo{pgdb}
}

func (r *RequestRepo) CreateRequest(ctx context.Context, input *entity.CreateRequestInput) (string, error) {
	createReq, args, _ := r.SqlBuilder.
		Insert("request").
		Columns("owner_id", "product_name", "quantity", "unit", "price_per_unit", "currency", "needed_by", "description").
		Values(input.OwnerId, input.ProductName, input.Quantity, input.Unit, input.PricePerUnit, input.Currency, input.NeededBy, input.Description).
		Suffix("RETURNING id").
		ToSql()

	var id uuid.UUID
	if err := r.Database.QueryRowContext(ctx, createReq, args...).Scan(&id); err != nil {
		return "", err
	}

	return id.String(), nil
}

func (r *RequestRepo) GetRequestById(ctx context.Context, id string) (*entity.Request, error) {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return nil, repo_errors.ErrNotFound
	}

	getReq, args, _ := r.SqlBuilder.
		Select(requestColumns).
		From("request").
		Where("id = ?", uuidForm).
		ToSql()

	request, err := scanRequest(r.Database.QueryRowContext(ctx, getReq, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo_errors.ErrNotFound
		}

		return nil, err
	}

	return request, nil
}

func (r *RequestRepo) GetRequestsByOwnerId(ctx context.Context, ownerId string, pg *entity.PaginationInput) ([]entity.Request, error) {
	getReq, args, _ := r.SqlBuilder.
		Select(requestColumns).
		From("request").
		Where("owner_id = ?", ownerId).
		OrderBy("created_at DESC").
		Limit(uint64(pg.Limit)).
		Offset(uint64(pg.Offset)).
		ToSql()

	return r.queryRequests(ctx, getReq, args)
}

func (r *RequestRepo) GetOpenRequests(ctx context.Context, pg *entity.PaginationInput) ([]entity.Request, error) {
	getReq, args, _ := r.SqlBuilder.
		Select(requestColumns).
		From("request").
		Where("needed_by >= now()").
		OrderBy("created_at DESC").
		Limit(uint64(pg.Limit)).
		Offset(uint64(pg.Offset)).
		ToSql()

	return r.queryRequests(ctx, getReq, args)
}

func (r *RequestRepo) UpdateRequestById(ctx context.Context, id string, input *entity.UpdateRequestInput) error {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return repo_errors.ErrNotFound
	}

	update := r.SqlBuilder.
		Update("request").
		Set("updated_at", squirrel.Expr("now()")).
		Where("id = ?", uuidForm)

	if input.ProductName != "" {
		update = update.Set("product_name", input.ProductName)
	}
	if input.Quantity != nil {
		update = update.Set("quantity", *input.Quantity)
	}
	if input.Unit != "" {
		update = update.Set("unit", input.Unit)
	}
	if input.PricePerUnit != nil {
		update = update.Set("price_per_unit", *input.PricePerUnit)
	}
	if input.Currency != "" {
		update = update.Set("currency", input.Currency)
	}
	if input.NeededBy != "" {
		update = update.Set("needed_by", input.NeededBy)
	}
	if input.Description != "" {
		update = update.Set("description", input.Description)
	}

	updateReq, args, _ := update.ToSql()
	result, err := r.Database.ExecContext(ctx, updateReq, args...)
	if err != nil {
		return err
	}

	return requireRowAffected(result)
}

func (r *RequestRepo) DeleteRequestById(ctx context.Context, id string) error {
	deleteReq, args, _ := r.SqlBuilder.
		Delete("request").
		Where("id = ?", id).
		ToSql()

	result, err := r.Database.ExecContext(ctx, deleteReq, args...)
	if err != nil {
		return err
	}

	return requireRowAffected(result)
}

func (r *RequestRepo) queryRequests(ctx context.Context, query string, args []interface{}) ([]entity.Request, error) {
	rows, err := r.Database.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := make([]entity.Request, 0)
	for rows.Next() {
		request, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *request)
	}

	return requests, rows.Err()
}

func scanRequest(row rowScanner) (*entity.Request, error) {
	var request entity.Request
	var neededBy, createdAt, updatedAt time.Time
	err := row.Scan(&request.Id, &request.OwnerId, &request.ProductName, &request.Quantity,
		&request.Unit, &request.PricePerUnit, &request.Currency,
		&neededBy, &request.Description, &request.AdminDeal, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	request.NeededBy = neededBy.Format(time.RFC3339)
	request.CreatedAt = createdAt.Format(time.RFC3339)
	request.UpdatedAt = updatedAt.Format(time.RFC3339)

	return &request, nil
}
