package repo

import (
	"context"

	"agro-market-api/internal/entity"
	"agro-market-api/internal/repo/pgdb"
	"agro-market-api/pkg/postgres"
)

type Diagnostics interface {
	Ping() error
}

type Listing interface {
	CreateListing(ctx context.Context, input *entity.CreateListingInput) (string, error)
	GetListingById(ctx context.Context, id string) (*entity.Listing, error)
	GetListingsByOwnerId(ctx context.Context, ownerId string, pg *entity.PaginationInput) ([]entity.Listing, error)
	GetOpenListings(ctx context.Context, pg *entity.PaginationInput) ([]entity.Listing, error)
	UpdateListingById(ctx context.Context, id string, input *entity.UpdateListingInput) error
	DeleteListingById(ctx context.Context, id string) error
}

type Request interface {
	CreateRequest(ctx context.Context, input *entity.CreateRequestInput) (string, error)
	GetRequestById(ctx context.Context, id string) (*entity.Request, error)
	GetRequestsByOwnerId(ctx context.Context, ownerId string, pg *entity.PaginationInput) ([]entity.Request, error)
	GetOpenRequests(ctx context.Context, pg *entity.PaginationInput) ([]entity.Request, error)
	UpdateRequestById(ctx context.Context, id string, input *entity.UpdateRequestInput) error
	DeleteRequestById(ctx context.Context, id string) error
}

type Deal interface {
	CreateDeal(ctx context.Context, kind string, entityId string) (string, error)
	GetDealById(ctx context.Context, id string) (*entity.DealRecord, error)
	GetDealByEntityId(ctx context.Context, kind string, entityId string) (*entity.DealRecord, error)
	GetPendingDeals(ctx context.Context, kind string, pg *entity.PaginationInput) ([]entity.DealRecord, error)

	// ResolveDeal sets the verdict on a Pending record and appends the audit
	// entry in the same transaction. ErrNotFound if the record is missing,
	// ErrLocked on lock contention, ErrStateChanged if the verdict had
	// already left Pending (no state change, no audit row).
	ResolveDeal(ctx context.Context, id string, verdict string, audit *entity.AuditEntryInput) error

	// DeleteDeal removes the record and its wrapped entity in one
	// transaction, always appending the audit entry.
	DeleteDeal(ctx context.Context, id string, kind string, entityId string, audit *entity.AuditEntryInput) error
}

type Bid interface {
	CreateBid(ctx context.Context, input *entity.PlaceBidInput) (string, error)
	GetBidById(ctx context.Context, id string) (*entity.Bid, error)
	GetBidsByBidderId(ctx context.Context, bidderId string, pg *entity.PaginationInput) ([]entity.Bid, error)
	GetBidsByTargetId(ctx context.Context, targetId string, pg *entity.PaginationInput) ([]entity.Bid, error)

	// AcceptBid runs the settlement sequence as one transaction: lock the
	// target listing row, verify remaining quantity covers the bid, decrement
	// it, flip the bid to Accepted and append the audit entry. For request
	// targets there is no inventory step. Errors: ErrLocked (contention,
	// retry-able), ErrInsufficientQuantity (bid left Pending), ErrNotFound.
	AcceptBid(ctx context.Context, bid *entity.Bid, audit *entity.AuditEntryInput) error

	// RejectBid flips the bid to Rejected and appends the audit entry in one
	// transaction. No inventory effect.
	RejectBid(ctx context.Context, bidId string, audit *entity.AuditEntryInput) error
}

type Audit interface {
	// Append exists for actions with no surrounding transaction (user
	// moderation); settlement and deal resolution write their entries inside
	// their own repo transactions.
	Append(ctx context.Context, input *entity.AuditEntryInput) (string, error)
	Query(ctx context.Context, filter *entity.AuditFilter, pg *entity.PaginationInput) ([]entity.AuditLogEntry, error)
}

type User interface {
	GetUserById(ctx context.Context, id string) (*entity.User, error)
	SetSuspended(ctx context.Context, id string, suspended bool, audit *entity.AuditEntryInput) error
	SetVerified(ctx context.Context, id string, verified bool, audit *entity.AuditEntryInput) error
}

type Announcement interface {
	CreateAnnouncement(ctx context.Context, adminId string, title string, body string, audit *entity.AuditEntryInput) (string, error)
	GetAnnouncements(ctx context.Context, pg *entity.PaginationInput) ([]entity.Announcement, error)
}

type Repositories struct {
	Diagnostics
	Listing
	Request
	Deal
	Bid
	Audit
	User
	Announcement
}

func NewRepositories(p *postgres.Postgres) *Repositories {
	return &Repositories{
		Diagnostics:  pgdb.NewDiagnosticsRepo(p),
		Listing:      pgdb.NewListingRepo(p),
		Request:      pgdb.NewRequestRepo(p),
		Deal:         pgdb.NewDealRepo(p),
		Bid:          pgdb.NewBidRepo(p),
		Audit:        pgdb.NewAuditRepo(p),
		User:         pgdb.NewUserRepo(p),
		Announcement: pgdb.NewAnnouncementRepo(p),
	}
}
