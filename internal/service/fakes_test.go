package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"agro-market-api/internal/common"
	"agro-market-api/internal/entity"
	"agro-market-api/internal/repo"
	"agro-market-api/internal/repo/repo_errors"

	"github.com/google/uuid"
)

// fakeStore implements every repo interface over in-memory maps. A single
// mutex spans each composite operation, which mirrors the transactional
// atomicity the real pgdb layer gets from Postgres.
type fakeStore struct {
	mu sync.Mutex

	listings      map[string]*entity.Listing
	requests      map[string]*entity.Request
	deals         map[string]*entity.DealRecord
	bids          map[string]*entity.Bid
	users         map[string]*entity.User
	audits        []entity.AuditLogEntry
	announcements []entity.Announcement

	// lockFailures makes the next N locking operations report contention.
	lockFailures int
	// failAudit makes audit appends fail, aborting the surrounding operation.
	failAudit error

	seq int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		listings: make(map[string]*entity.Listing),
		requests: make(map[string]*entity.Request),
		deals:    make(map[string]*entity.DealRecord),
		bids:     make(map[string]*entity.Bid),
		users:    make(map[string]*entity.User),
	}
}

func (f *fakeStore) repositories() *repo.Repositories {
	return &repo.Repositories{
		Diagnostics:  f,
		Listing:      f,
		Request:      f,
		Deal:         f,
		Bid:          f,
		Audit:        f,
		User:         f,
		Announcement: f,
	}
}

// now yields strictly increasing RFC3339 stamps so ordering is deterministic.
func (f *fakeStore) now() string {
	f.seq++

	return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(f.seq) * time.Second).Format(time.RFC3339)
}

func (f *fakeStore) takeLock() error {
	if f.lockFailures > 0 {
		f.lockFailures--

		return repo_errors.ErrLocked
	}

	return nil
}

func (f *fakeStore) appendAudit(input *entity.AuditEntryInput) error {
	if f.failAudit != nil {
		return f.failAudit
	}

	adminId, _ := uuid.Parse(input.AdminId)
	f.audits = append(f.audits, entity.AuditLogEntry{
		Id:        uuid.New(),
		AdminId:   adminId,
		Action:    input.Action,
		Reason:    input.Reason,
		CreatedAt: f.now(),
	})

	return nil
}

func (f *fakeStore) Ping() error { return nil }

// Listing repo

func (f *fakeStore) CreateListing(_ context.Context, input *entity.CreateListingInput) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := uuid.New()
	ownerId, _ := uuid.Parse(input.OwnerId)
	f.listings[id.String()] = &entity.Listing{
		Id:             id,
		OwnerId:        ownerId,
		ProductName:    input.ProductName,
		Quantity:       input.Quantity,
		Unit:           input.Unit,
		PricePerUnit:   input.PricePerUnit,
		Currency:       input.Currency,
		AvailableFrom:  input.AvailableFrom,
		AvailableUntil: input.AvailableUntil,
		Description:    input.Description,
		CreatedAt:      f.now(),
	}

	return id.String(), nil
}

func (f *fakeStore) GetListingById(_ context.Context, id string) (*entity.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	l, ok := f.listings[id]
	if !ok {
		return nil, repo_errors.ErrNotFound
	}
	copied := *l

	return &copied, nil
}

func (f *fakeStore) GetListingsByOwnerId(_ context.Context, ownerId string, pg *entity.PaginationInput) ([]entity.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]entity.Listing, 0)
	for _, l := range f.listings {
		if l.OwnerId.String() == ownerId {
			out = append(out, *l)
		}
	}
	sortListings(out)

	return pageListings(out, pg), nil
}

func (f *fakeStore) GetOpenListings(_ context.Context, pg *entity.PaginationInput) ([]entity.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]entity.Listing, 0)
	for _, l := range f.listings {
		if l.Quantity > 0 {
			out = append(out, *l)
		}
	}
	sortListings(out)

	return pageListings(out, pg), nil
}

func (f *fakeStore) UpdateListingById(_ context.Context, id string, input *entity.UpdateListingInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	l, ok := f.listings[id]
	if !ok {
		return repo_errors.ErrNotFound
	}
	if input.ProductName != "" {
		l.ProductName = input.ProductName
	}
	if input.Quantity != nil {
		l.Quantity = *input.Quantity
	}
	if input.Unit != "" {
		l.Unit = input.Unit
	}
	if input.PricePerUnit != nil {
		l.PricePerUnit = *input.PricePerUnit
	}
	if input.Currency != "" {
		l.Currency = input.Currency
	}
	if input.AvailableFrom != "" {
		l.AvailableFrom = input.AvailableFrom
	}
	if input.AvailableUntil != "" {
		l.AvailableUntil = input.AvailableUntil
	}
	if input.Description != "" {
		l.Description = input.Description
	}

	return nil
}

func (f *fakeStore) DeleteListingById(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.listings[id]; !ok {
		return repo_errors.ErrNotFound
	}
	delete(f.listings, id)

	return nil
}

// Request repo

func (f *fakeStore) CreateRequest(_ context.Context, input *entity.CreateRequestInput) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := uuid.New()
	ownerId, _ := uuid.Parse(input.OwnerId)
	f.requests[id.String()] = &entity.Request{
		Id:           id,
		OwnerId:      ownerId,
		ProductName:  input.ProductName,
		Quantity:     input.Quantity,
		Unit:         input.Unit,
		PricePerUnit: input.PricePerUnit,
		Currency:     input.Currency,
		NeededBy:     input.NeededBy,
		Description:  input.Description,
		CreatedAt:    f.now(),
	}

	return id.String(), nil
}

func (f *fakeStore) GetRequestById(_ context.Context, id string) (*entity.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	r, ok := f.requests[id]
	if !ok {
		return nil, repo_errors.ErrNotFound
	}
	copied := *r

	return &copied, nil
}

func (f *fakeStore) GetRequestsByOwnerId(_ context.Context, ownerId string, pg *entity.PaginationInput) ([]entity.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]entity.Request, 0)
	for _, r := range f.requests {
		if r.OwnerId.String() == ownerId {
			out = append(out, *r)
		}
	}

	return out, nil
}

func (f *fakeStore) GetOpenRequests(_ context.Context, pg *entity.PaginationInput) ([]entity.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]entity.Request, 0)
	for _, r := range f.requests {
		out = append(out, *r)
	}

	return out, nil
}

func (f *fakeStore) UpdateRequestById(_ context.Context, id string, input *entity.UpdateRequestInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	r, ok := f.requests[id]
	if !ok {
		return repo_errors.ErrNotFound
	}
	if input.ProductName != "" {
		r.ProductName = input.ProductName
	}
	if input.Quantity != nil {
		r.Quantity = *input.Quantity
	}
	if input.PricePerUnit != nil {
		r.PricePerUnit = *input.PricePerUnit
	}
	if input.NeededBy != "" {
		r.NeededBy = input.NeededBy
	}
	if input.Description != "" {
		r.Description = input.Description
	}

	return nil
}

func (f *fakeStore) DeleteRequestById(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.requests[id]; !ok {
		return repo_errors.ErrNotFound
	}
	delete(f.requests, id)

	return nil
}

// Deal repo

func (f *fakeStore) CreateDeal(_ context.Context, kind string, entityId string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, d := range f.deals {
		if d.EntityKind == kind && d.EntityId.String() == entityId {
			return "", repo_errors.ErrAlreadyExists
		}
	}

	id := uuid.New()
	entityUUID, _ := uuid.Parse(entityId)
	f.deals[id.String()] = &entity.DealRecord{
		Id:         id,
		EntityKind: kind,
		EntityId:   entityUUID,
		Verdict:    common.Pending,
		CreatedAt:  f.now(),
	}

	if kind == common.KindFarmerReq {
		if l, ok := f.listings[entityId]; ok {
			l.AdminDeal = true
		}
	} else if r, ok := f.requests[entityId]; ok {
		r.AdminDeal = true
	}

	return id.String(), nil
}

func (f *fakeStore) GetDealById(_ context.Context, id string) (*entity.DealRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	d, ok := f.deals[id]
	if !ok {
		return nil, repo_errors.ErrNotFound
	}
	copied := *d

	return &copied, nil
}

func (f *fakeStore) GetDealByEntityId(_ context.Context, kind string, entityId string) (*entity.DealRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, d := range f.deals {
		if d.EntityKind == kind && d.EntityId.String() == entityId {
			copied := *d

			return &copied, nil
		}
	}

	return nil, repo_errors.ErrNotFound
}

func (f *fakeStore) GetPendingDeals(_ context.Context, kind string, pg *entity.PaginationInput) ([]entity.DealRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]entity.DealRecord, 0)
	for _, d := range f.deals {
		if d.EntityKind == kind && d.Verdict == common.Pending {
			out = append(out, *d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt < out[j].CreatedAt })

	return out, nil
}

func (f *fakeStore) ResolveDeal(_ context.Context, id string, verdict string, audit *entity.AuditEntryInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	d, ok := f.deals[id]
	if !ok {
		return repo_errors.ErrNotFound
	}
	if err := f.takeLock(); err != nil {
		return err
	}
	if d.Verdict != common.Pending {
		return repo_errors.ErrStateChanged
	}
	if err := f.appendAudit(audit); err != nil {
		return err
	}

	adminId, _ := uuid.Parse(audit.AdminId)
	d.Verdict = verdict
	d.ResolvedAt.Valid = true
	d.ResolvedAt.String = f.now()
	d.ResolvedBy.Valid = true
	d.ResolvedBy.UUID = adminId

	return nil
}

func (f *fakeStore) DeleteDeal(_ context.Context, id string, kind string, entityId string, audit *entity.AuditEntryInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.deals[id]; !ok {
		return repo_errors.ErrNotFound
	}
	if err := f.appendAudit(audit); err != nil {
		return err
	}

	delete(f.deals, id)
	if kind == common.KindFarmerReq {
		delete(f.listings, entityId)
	} else {
		delete(f.requests, entityId)
	}

	return nil
}

// Bid repo

func (f *fakeStore) CreateBid(_ context.Context, input *entity.PlaceBidInput) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := uuid.New()
	targetId, _ := uuid.Parse(input.TargetId)
	bidderId, _ := uuid.Parse(input.BidderId)
	f.bids[id.String()] = &entity.Bid{
		Id:         id,
		TargetKind: input.TargetKind,
		TargetId:   targetId,
		BidderId:   bidderId,
		Quantity:   input.Quantity,
		Price:      input.Price,
		Message:    input.Message,
		Status:     common.Pending,
		CreatedAt:  f.now(),
	}

	return id.String(), nil
}

func (f *fakeStore) GetBidById(_ context.Context, id string) (*entity.Bid, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, ok := f.bids[id]
	if !ok {
		return nil, repo_errors.ErrNotFound
	}
	copied := *b

	return &copied, nil
}

func (f *fakeStore) GetBidsByBidderId(_ context.Context, bidderId string, pg *entity.PaginationInput) ([]entity.Bid, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]entity.Bid, 0)
	for _, b := range f.bids {
		if b.BidderId.String() == bidderId {
			out = append(out, *b)
		}
	}

	return out, nil
}

func (f *fakeStore) GetBidsByTargetId(_ context.Context, targetId string, pg *entity.PaginationInput) ([]entity.Bid, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]entity.Bid, 0)
	for _, b := range f.bids {
		if b.TargetId.String() == targetId {
			out = append(out, *b)
		}
	}

	return out, nil
}

func (f *fakeStore) AcceptBid(_ context.Context, bid *entity.Bid, audit *entity.AuditEntryInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, ok := f.bids[bid.Id.String()]
	if !ok {
		return repo_errors.ErrNotFound
	}
	if err := f.takeLock(); err != nil {
		return err
	}
	if b.Status != common.Pending {
		return repo_errors.ErrStateChanged
	}

	if b.TargetKind == common.KindFarmerReq {
		l, ok := f.listings[b.TargetId.String()]
		if !ok {
			return repo_errors.ErrNotFound
		}
		if l.Quantity < b.Quantity {
			return repo_errors.ErrInsufficientQuantity
		}
		if err := f.appendAudit(audit); err != nil {
			return err
		}
		l.Quantity -= b.Quantity
	} else if err := f.appendAudit(audit); err != nil {
		return err
	}

	b.Status = common.Accepted
	b.SettledAt.Valid = true
	b.SettledAt.String = f.now()

	return nil
}

func (f *fakeStore) RejectBid(_ context.Context, bidId string, audit *entity.AuditEntryInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, ok := f.bids[bidId]
	if !ok {
		return repo_errors.ErrNotFound
	}
	if err := f.takeLock(); err != nil {
		return err
	}
	if b.Status != common.Pending {
		return repo_errors.ErrStateChanged
	}
	if err := f.appendAudit(audit); err != nil {
		return err
	}

	b.Status = common.Rejected
	b.SettledAt.Valid = true
	b.SettledAt.String = f.now()

	return nil
}

// Audit repo

func (f *fakeStore) Append(_ context.Context, input *entity.AuditEntryInput) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.appendAudit(input); err != nil {
		return "", err
	}

	return f.audits[len(f.audits)-1].Id.String(), nil
}

func (f *fakeStore) Query(_ context.Context, filter *entity.AuditFilter, pg *entity.PaginationInput) ([]entity.AuditLogEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]entity.AuditLogEntry, 0)
	for _, e := range f.audits {
		if filter.Action != "" && e.Action != filter.Action {
			continue
		}
		if filter.AdminId != "" && e.AdminId.String() != filter.AdminId {
			continue
		}
		if filter.From != "" && e.CreatedAt < filter.From {
			continue
		}
		if filter.To != "" && e.CreatedAt >= filter.To {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })

	return out, nil
}

// User repo

func (f *fakeStore) GetUserById(_ context.Context, id string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[id]
	if !ok {
		return nil, repo_errors.ErrNotFound
	}
	copied := *u

	return &copied, nil
}

func (f *fakeStore) SetSuspended(_ context.Context, id string, suspended bool, audit *entity.AuditEntryInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[id]
	if !ok {
		return repo_errors.ErrNotFound
	}
	if err := f.appendAudit(audit); err != nil {
		return err
	}
	u.Suspended = suspended

	return nil
}

func (f *fakeStore) SetVerified(_ context.Context, id string, verified bool, audit *entity.AuditEntryInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[id]
	if !ok {
		return repo_errors.ErrNotFound
	}
	if err := f.appendAudit(audit); err != nil {
		return err
	}
	u.Verified = verified

	return nil
}

// Announcement repo

func (f *fakeStore) CreateAnnouncement(_ context.Context, adminId string, title string, body string, audit *entity.AuditEntryInput) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.appendAudit(audit); err != nil {
		return "", err
	}

	id := uuid.New()
	adminUUID, _ := uuid.Parse(adminId)
	f.announcements = append(f.announcements, entity.Announcement{
		Id:        id,
		AdminId:   adminUUID,
		Title:     title,
		Body:      body,
		CreatedAt: f.now(),
	})

	return id.String(), nil
}

func (f *fakeStore) GetAnnouncements(_ context.Context, pg *entity.PaginationInput) ([]entity.Announcement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]entity.Announcement, 0, len(f.announcements))
	out = append(out, f.announcements...)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })

	return out, nil
}

func sortListings(listings []entity.Listing) {
	sort.Slice(listings, func(i, j int) bool { return listings[i].CreatedAt < listings[j].CreatedAt })
}

func pageListings(listings []entity.Listing, pg *entity.PaginationInput) []entity.Listing {
	if pg == nil {
		return listings
	}
	if pg.Offset >= len(listings) {
		return []entity.Listing{}
	}
	end := pg.Offset + pg.Limit
	if end > len(listings) {
		end = len(listings)
	}

	return listings[pg.Offset:end]
}

func (f *fakeStore) addListing(ownerId string, quantity int64) *entity.Listing {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := uuid.New()
	ownerUUID, _ := uuid.Parse(ownerId)
	l := &entity.Listing{
		Id:             id,
		OwnerId:        ownerUUID,
		ProductName:    "tomatoes",
		Quantity:       quantity,
		Unit:           "kg",
		Currency:       "EUR",
		AvailableFrom:  "2026-01-01T00:00:00Z",
		AvailableUntil: "2026-12-31T00:00:00Z",
		CreatedAt:      f.now(),
	}
	f.listings[id.String()] = l

	return l
}

func (f *fakeStore) addRequest(ownerId string) *entity.Request {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := uuid.New()
	ownerUUID, _ := uuid.Parse(ownerId)
	r := &entity.Request{
		Id:          id,
		OwnerId:     ownerUUID,
		ProductName: "potatoes",
		Quantity:    200,
		Unit:        "kg",
		Currency:    "EUR",
		NeededBy:    "2026-06-01T00:00:00Z",
		CreatedAt:   f.now(),
	}
	f.requests[id.String()] = r

	return r
}

func (f *fakeStore) addUser(role string) *entity.User {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := uuid.New()
	u := &entity.User{
		Id:        id,
		Name:      "someone",
		Email:     id.String() + "@example.com",
		Role:      role,
		CreatedAt: f.now(),
	}
	f.users[id.String()] = u

	return u
}

func (f *fakeStore) addPendingBid(targetKind string, targetId string, bidderId string, quantity int64) *entity.Bid {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := uuid.New()
	targetUUID, _ := uuid.Parse(targetId)
	bidderUUID, _ := uuid.Parse(bidderId)
	b := &entity.Bid{
		Id:         id,
		TargetKind: targetKind,
		TargetId:   targetUUID,
		BidderId:   bidderUUID,
		Quantity:   quantity,
		Status:     common.Pending,
		CreatedAt:  f.now(),
	}
	f.bids[id.String()] = b

	return b
}

func (f *fakeStore) auditCount(action string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 0
	for _, e := range f.audits {
		if e.Action == action {
			n++
		}
	}

	return n
}
