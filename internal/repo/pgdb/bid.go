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

const bidColumns = "id, target_kind, target_id, bidder_id, quantity, price, message, status, created_at, settled_at"

type BidRepo struct {
	*postgres.Postgres
}

func NewBidRepo(pgdb *postgres.Postgres) *BidRepo {
	return &BidRepo{pgdb}
}

func (r *BidRepo) CreateBid(ctx context.Context, input *entity.PlaceBidInput) (string, error) {
	createReq, args, _ := r.SqlBuilder.
		Insert("bid").
		Columns("target_kind", "target_id", "bidder_id", "quantity", "price", "message", "status").
		Values(input.TargetKind, input.TargetId, input.BidderId, input.Quantity, input.Price, input.Message, common.Pending).
		Suffix("RETURNING id").
		ToSql()

	var bidId uuid.UUID
	if err := r.Database.QueryRowContext(ctx, createReq, args...).Scan(&bidId); err != nil {
		return "", err
	}

	return bidId.String(), nil
}

func (r *BidRepo) GetBidById(ctx context.Context, id string) (*entity.Bid, error) {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return nil, repo_errors.ErrNotFound
	}

	getReq, args, _ := r.SqlBuilder.
		Select(bidColumns).
		From("bid").
		Where("id = ?", uuidForm).
		ToSql()

	bid, err := scanBid(r.Database.QueryRowContext(ctx, getReq, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo_errors.ErrNotFound
		}

		return nil, err
	}

	return bid, nil
}

func (r *BidRepo) GetBidsByBidderId(ctx context.Context, bidderId string, pg *entity.PaginationInput) ([]entity.Bid, error) {
	getReq, args, _ := r.SqlBuilder.
		Select(bidColumns).
		From("bid").
		Where("bidder_id = ?", bidderId).
		OrderBy("created_at DESC").
		Limit(uint64(pg.Limit)).
		Offset(uint64(pg.Offset)).
		ToSql()

	return r.queryBids(ctx, getReq, args)
}

func (r *BidRepo) GetBidsByTargetId(ctx context.Context, targetId string, pg *entity.PaginationInput) ([]entity.Bid, error) {
	getReq, args, _ := r.SqlBuilder.
		Select(bidColumns).
		From("bid").
		Where("target_id = ?", targetId).
		OrderBy("created_at DESC").
		Limit(uint64(pg.Limit)).
		Offset(uint64(pg.Offset)).
		ToSql()

	return r.queryBids(ctx, getReq, args)
}

// AcceptBid runs the full settlement sequence in one transaction. The bid
// row is locked first, then the target listing row; both locks use NOWAIT so
// concurrent settlements on the same listing surface as ErrLocked for the
// service's bounded retry instead of piling up. The quantity check happens
// under the listing lock, which is what rules out two acceptances both
// passing it against stale reads. On ErrInsufficientQuantity everything is
// rolled back and the bid stays Pending.
func (r *BidRepo) AcceptBid(ctx context.Context, bid *entity.Bid, audit *entity.AuditEntryInput) error {
	tx, err := r.Database.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	status, err := r.lockBidStatus(ctx, tx, bid.Id)
	if err != nil {
		if e := tx.Rollback(); e != nil {
			return e
		}

		return err
	}
	if status != common.Pending {
		if e := tx.Rollback(); e != nil {
			return e
		}

		return repo_errors.ErrStateChanged
	}

	if bid.TargetKind == common.KindFarmerReq {
		if _, err = decrementQuantityTx(ctx, tx, r.SqlBuilder, bid.TargetId, bid.Quantity); err != nil {
			if e := tx.Rollback(); e != nil {
				return e
			}

			return err
		}
	}

	if err = r.setBidStatusTx(ctx, tx, bid.Id, common.Accepted); err != nil {
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

// RejectBid flips the bid to Rejected and appends the audit entry. No
// inventory effect.
func (r *BidRepo) RejectBid(ctx context.Context, bidId string, audit *entity.AuditEntryInput) error {
	uuidForm, err := uuid.Parse(bidId)
	if err != nil {
		return repo_errors.ErrNotFound
	}

	tx, err := r.Database.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	status, err := r.lockBidStatus(ctx, tx, uuidForm)
	if err != nil {
		if e := tx.Rollback(); e != nil {
			return e
		}

		return err
	}
	if status != common.Pending {
		if e := tx.Rollback(); e != nil {
			return e
		}

		return repo_errors.ErrStateChanged
	}

	if err = r.setBidStatusTx(ctx, tx, uuidForm, common.Rejected); err != nil {
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

func (r *BidRepo) lockBidStatus(ctx context.Context, tx *sql.Tx, bidId uuid.UUID) (string, error) {
	lockReq, args, _ := r.SqlBuilder.
		Select("status").
		From("bid").
		Where("id = ?", bidId).
		Suffix("FOR UPDATE NOWAIT").
		ToSql()

	var status string
	if err := tx.QueryRowContext(ctx, lockReq, args...).Scan(&status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", repo_errors.ErrNotFound
		}

		return "", translatePgError(err)
	}

	return status, nil
}

func (r *BidRepo) setBidStatusTx(ctx context.Context, tx *sql.Tx, bidId uuid.UUID, status string) error {
	updateReq, args, _ := r.SqlBuilder.
		Update("bid").
		Set("status", status).
		Set("settled_at", squirrel.Expr("now()")).
		Where("id = ?", bidId).
		ToSql()

	_, err := tx.ExecContext(ctx, updateReq, args...)

	return err
}

func (r *BidRepo) queryBids(ctx context.Context, query string, args []interface{}) ([]entity.Bid, error) {
	rows, err := r.Database.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bids := make([]entity.Bid, 0)
	for rows.Next() {
		bid, err := scanBid(rows)
		if err != nil {
			return nil, err
		}
		bids = append(bids, *bid)
	}

	return bids, rows.Err()
}

func scanBid(row rowScanner) (*entity.Bid, error) {
	var bid entity.Bid
	var createdAt time.Time
	var settledAt sql.NullTime
	err := row.Scan(&bid.Id, &bid.TargetKind, &bid.TargetId, &bid.BidderId, &bid.Quantity,
		&bid.Price, &bid.Message, &bid.Status, &createdAt, &settledAt)
	if err != nil {
		return nil, err
	}

	bid.CreatedAt = createdAt.Format(time.RFC3339)
	if settledAt.Valid {
		bid.SettledAt = sql.NullString{String: settledAt.Time.Format(time.RFC3339), Valid: true}
	}

	return &bid, nil
}
