package service

import (
	"context"
	"time"

	"agro-market-api/internal/entity"
	"agro-market-api/internal/repo"

	"go.uber.org/zap"
)

type Diagnostics interface {
	Ping() error
}

type Listing interface {
	CreateListing(ctx context.Context, input *entity.CreateListingInput) (*entity.ListingOutputModel, error)
	GetListingById(ctx context.Context, id string) (*entity.ListingOutputModel, error)
	GetOwnListings(ctx context.Context, ownerId string, pg *entity.PaginationInput) ([]entity.ListingOutputModel, error)
	GetOpenListings(ctx context.Context, pg *entity.PaginationInput) ([]entity.ListingOutputModel, error)
	UpdateListingById(ctx context.Context, id string, actor entity.Principal, input *entity.UpdateListingInput) (*entity.ListingOutputModel, error)
	DeleteListingById(ctx context.Context, id string, actor entity.Principal, reason string) error
}

type Request interface {
	CreateRequest(ctx context.Context, input *entity.CreateRequestInput) (*entity.RequestOutputModel, error)
	GetRequestById(ctx context.Context, id string) (*entity.RequestOutputModel, error)
	GetOwnRequests(ctx context.Context, ownerId string, pg *entity.PaginationInput) ([]entity.RequestOutputModel, error)
	GetOpenRequests(ctx context.Context, pg *entity.PaginationInput) ([]entity.RequestOutputModel, error)
	UpdateRequestById(ctx context.Context, id string, actor entity.Principal, input *entity.UpdateRequestInput) (*entity.RequestOutputModel, error)
	DeleteRequestById(ctx context.Context, id string, actor entity.Principal, reason string) error
}

type Deal interface {
	SubmitDeal(ctx context.Context, input *entity.SubmitDealInput) (*entity.DealOutputModel, error)
	ResolveDeal(ctx context.Context, dealId string, verdict string, adminId string, reason string) (*entity.DealOutputModel, error)
	DeleteDeal(ctx context.Context, dealId string, adminId string, reason string) error
	GetPendingDeals(ctx context.Context, kind string, pg *entity.PaginationInput) ([]entity.DealOutputModel, error)
}

type Bid interface {
	PlaceBid(ctx context.Context, input *entity.PlaceBidInput) (*entity.BidOutputModel, error)
	SettleBid(ctx context.Context, bidId string, decision string, actor entity.Principal, reason string) (*entity.BidOutputModel, error)
	GetOwnBids(ctx context.Context, bidderId string, pg *entity.PaginationInput) ([]entity.BidOutputModel, error)
	GetTargetBids(ctx context.Context, kind string, targetId string, actor entity.Principal, pg *entity.PaginationInput) ([]entity.BidOutputModel, error)
}

type Audit interface {
	Query(ctx context.Context, filter *entity.AuditFilter, pg *entity.PaginationInput) ([]entity.AuditLogOutputModel, error)
}

type User interface {
	SuspendUser(ctx context.Context, userId string, adminId string, reason string) (*entity.UserOutputModel, error)
	VerifyUser(ctx context.Context, userId string, adminId string) (*entity.UserOutputModel, error)
}

type Announcement interface {
	SendAnnouncement(ctx context.Context, adminId string, title string, body string) (*entity.AnnouncementOutputModel, error)
	GetAnnouncements(ctx context.Context, pg *entity.PaginationInput) ([]entity.AnnouncementOutputModel, error)
}

type Services struct {
	Diagnostics  Diagnostics
	Listing      Listing
	Request      Request
	Deal         Deal
	Bid          Bid
	Audit        Audit
	User         User
	Announcement Announcement
}

// Options carries cross-cutting service dependencies. Retries bound the
// wait on per-entity lock contention before the caller sees ErrBusy.
type Options struct {
	Log     *zap.Logger
	Retries int
	Backoff time.Duration
}

func NewServices(repos *repo.Repositories, opts Options) *Services {
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if opts.Retries <= 0 {
		opts.Retries = 3
	}
	if opts.Backoff <= 0 {
		opts.Backoff = 50 * time.Millisecond
	}

	return &Services{
		Diagnostics:  NewDiagnosticsService(repos),
		Listing:      NewListingService(repos, opts.Log),
		Request:      NewRequestService(repos, opts.Log),
		Deal:         NewDealService(repos, opts),
		Bid:          NewBidService(repos, opts),
		Audit:        NewAuditService(repos),
		User:         NewUserService(repos, opts.Log),
		Announcement: NewAnnouncementService(repos, opts.Log),
	}
}
