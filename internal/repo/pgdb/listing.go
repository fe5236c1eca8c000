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

const listingColumns = "id, owner_id, product_name, quantity, unit, price_per_unit, currency, available_from, available_until, description, admin_deal, created_at, updated_at"

type ListingRepo struct {
	*postgres.Postgres
}

func NewListingRepo(pgdb *postgres.Postgres) *ListingRepo {
	return &ListingRepo{pgdb}
}

func (r *ListingRepo) CreateListing(ctx context.Context, input *entity.CreateListingInput) (string, error) {
	createReq, args, _ := r.SqlBuilder.
		Insert("listing").
		Columns("owner_id", "product_name", "quantity", "unit", "price_per_unit", "currency", "available_from", "available_until", "description").
		Values(input.OwnerId, input.ProductName, input.Quantity, input.Unit, input.PricePerUnit, input.Currency, input.AvailableFrom, input.AvailableUntil, input.Description).
		Suffix("RETURNING id").
		ToSql()

	var id uuid.UUID
	if err := r.Database.QueryRowContext(ctx, createReq, args...).Scan(&id); err != nil {
		return "", err
	}

	return id.String(), nil
}

func (r *ListingRepo) GetListingById(ctx context.Context, id string) (*entity.Listing, error) {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return nil, repo_errors.ErrNotFound
	}

	getReq, args, _ := r.SqlBuilder.
		Select(listingColumns).
		From("listing").
		Where("id = ?", uuidForm).
		ToSql()

	listing, err := scanListing(r.Database.QueryRowContext(ctx, getReq, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo_errors.ErrNotFound
		}

		return nil, err
	}

	return listing, nil
}

func (r *ListingRepo) GetListingsByOwnerId(ctx context.Context, ownerId string, pg *entity.PaginationInput) ([]entity.Listing, error) {
	getReq, args, _ := r.SqlBuilder.
		Select(listingColumns).
		From("listing").
		Where("owner_id = ?", ownerId).
		OrderBy("created_at DESC").
		Limit(uint64(pg.Limit)).
		Offset(uint64(pg.Offset)).
		ToSql()

	return r.queryListings(ctx, getReq, args)
}

// GetOpenListings returns listings still inside their availability window
// with something left to sell.
func (r *ListingRepo) GetOpenListings(ctx context.Context, pg *entity.PaginationInput) ([]entity.Listing, error) {
	getReq, args, _ := r.SqlBuilder.
		Select(listingColumns).
		From("listing").
		Where("quantity > 0").
		Where("available_until >= now()").
		OrderBy("created_at DESC").
		Limit(uint64(pg.Limit)).
		Offset(uint64(pg.Offset)).
		ToSql()

	return r.queryListings(ctx, getReq, args)
}

func (r *ListingRepo) UpdateListingById(ctx context.Context, id string, input *entity.UpdateListingInput) error {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return repo_errors.ErrNotFound
	}

	update := r.SqlBuilder.
		Update("listing").
		Set("updated_at", squirrel.Expr("now()")).
		Where("id = ?", uuidForm)

	if input.ProductName != "" {
		update = update.Set("product_name", input.ProductName)
	}
	if input.Quantity != nil {
		// Unconditional owner set; not serialized against bid acceptance.
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
	if input.AvailableFrom != "" {
		update = update.Set("available_from", input.AvailableFrom)
	}
	if input.AvailableUntil != "" {
		update = update.Set("available_until", input.AvailableUntil)
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

func (r *ListingRepo) DeleteListingById(ctx context.Context, id string) error {
	deleteReq, args, _ := r.SqlBuilder.
		Delete("listing").
		Where("id = ?", id).
		ToSql()

	result, err := r.Database.ExecContext(ctx, deleteReq, args...)
	if err != nil {
		return err
	}

	return requireRowAffected(result)
}

func (r *ListingRepo) queryListings(ctx context.Context, query string, args []interface{}) ([]entity.Listing, error) {
	rows, err := r.Database.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	listings := make([]entity.Listing, 0)
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, *listing)
	}

	return listings, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanListing(row rowScanner) (*entity.Listing, error) {
	var listing entity.Listing
	var availableFrom, availableUntil, createdAt, updatedAt time.Time
	err := row.Scan(&listing.Id, &listing.OwnerId, &listing.ProductName, &listing.Quantity,
		&listing.Unit, &listing.PricePerUnit, &listing.Currency,
		&availableFrom, &availableUntil, &listing.Description, &listing.AdminDeal,
		&createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	listing.AvailableFrom = availableFrom.Format(time.RFC3339)
	listing.AvailableUntil = availableUntil.Format(time.RFC3339)
	listing.CreatedAt = createdAt.Format(time.RFC3339)
	listing.UpdatedAt = updatedAt.Format(time.RFC3339)

	return &listing, nil
}

func requireRowAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repo_errors.ErrNotFound
	}

	return nil
}

// decrementQuantityTx is the only quantity reduction path. It takes the row
// lock with NOWAIT so a settlement racing another settlement fails fast with
// ErrLocked instead of queueing behind it, re-checks the remaining quantity
// under the lock and applies the decrement. Callers own the transaction.
func decrementQuantityTx(ctx context.Context, tx *sql.Tx, builder squirrel.StatementBuilderType, listingId uuid.UUID, amount int64) (int64, error) {
	lockReq, args, _ := builder.
		Select("quantity").
		From("listing").
		Where("id = ?", listingId).
		Suffix("FOR UPDATE NOWAIT").
		ToSql()

	var current int64
	if err := tx.QueryRowContext(ctx, lockReq, args...).Scan(&current); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, repo_errors.ErrNotFound
		}

		return 0, translatePgError(err)
	}

	if current < amount {
		return current, repo_errors.ErrInsufficientQuantity
	}

	decReq, args, _ := builder.
		Update("listing").
		Set("quantity", squirrel.Expr("quantity - ?", amount)).
		Set("updated_at", squirrel.Expr("now()")).
		Where("id = ?", listingId).
		ToSql()

	if _, err := tx.ExecContext(ctx, decReq, args...); err != nil {
		return 0, err
	}

	return current - amount, nil
}
