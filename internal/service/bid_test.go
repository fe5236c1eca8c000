package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"agro-market-api/internal/common"
	"agro-market-api/internal/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServices(f *fakeStore) *Services {
	return NewServices(f.repositories(), Options{Backoff: time.Millisecond})
}

func TestPlaceBid(t *testing.T) {
	farmer := uuid.NewString()
	consumer := uuid.NewString()

	t.Run("places a pending bid against a listing", func(t *testing.T) {
		store := newFakeStore()
		listing := store.addListing(farmer, 100)
		services := newTestServices(store)

		bid, err := services.Bid.PlaceBid(context.Background(), &entity.PlaceBidInput{
			TargetKind: common.KindFarmerReq,
			TargetId:   listing.Id.String(),
			BidderId:   consumer,
			Quantity:   30,
			Price:      decimal.NewFromInt(5),
		})

		require.NoError(t, err)
		assert.Equal(t, common.Pending, bid.Status)
		assert.Equal(t, int64(30), bid.Quantity)
		assert.Empty(t, bid.SettledAt)
	})

	t.Run("rejects unknown target kinds", func(t *testing.T) {
		store := newFakeStore()
		services := newTestServices(store)

		_, err := services.Bid.PlaceBid(context.Background(), &entity.PlaceBidInput{
			TargetKind: "somethingElse",
			TargetId:   uuid.NewString(),
			BidderId:   consumer,
			Quantity:   1,
		})

		assert.ErrorIs(t, err, ErrInvalidKind)
	})

	t.Run("rejects non-positive quantities", func(t *testing.T) {
		store := newFakeStore()
		listing := store.addListing(farmer, 100)
		services := newTestServices(store)

		_, err := services.Bid.PlaceBid(context.Background(), &entity.PlaceBidInput{
			TargetKind: common.KindFarmerReq,
			TargetId:   listing.Id.String(),
			BidderId:   consumer,
			Quantity:   0,
		})

		assert.ErrorIs(t, err, ErrInvalidQuantity)
	})

	t.Run("rejects bidding on own listing", func(t *testing.T) {
		store := newFakeStore()
		listing := store.addListing(farmer, 100)
		services := newTestServices(store)

		_, err := services.Bid.PlaceBid(context.Background(), &entity.PlaceBidInput{
			TargetKind: common.KindFarmerReq,
			TargetId:   listing.Id.String(),
			BidderId:   farmer,
			Quantity:   10,
		})

		assert.ErrorIs(t, err, ErrOwnBidNotAllowed)
	})

	t.Run("rejects bidding on a sold-out listing", func(t *testing.T) {
		store := newFakeStore()
		listing := store.addListing(farmer, 0)
		services := newTestServices(store)

		_, err := services.Bid.PlaceBid(context.Background(), &entity.PlaceBidInput{
			TargetKind: common.KindFarmerReq,
			TargetId:   listing.Id.String(),
			BidderId:   consumer,
			Quantity:   10,
		})

		assert.ErrorIs(t, err, ErrTargetUnavailable)
	})

	t.Run("reports a missing target", func(t *testing.T) {
		store := newFakeStore()
		services := newTestServices(store)

		_, err := services.Bid.PlaceBid(context.Background(), &entity.PlaceBidInput{
			TargetKind: common.KindFarmerReq,
			TargetId:   uuid.NewString(),
			BidderId:   consumer,
			Quantity:   10,
		})

		assert.ErrorIs(t, err, ErrListingNotFound)
	})

	t.Run("request targets carry no inventory gate", func(t *testing.T) {
		store := newFakeStore()
		request := store.addRequest(consumer)
		services := newTestServices(store)

		bid, err := services.Bid.PlaceBid(context.Background(), &entity.PlaceBidInput{
			TargetKind: common.KindConsumerReq,
			TargetId:   request.Id.String(),
			BidderId:   farmer,
			Quantity:   500,
			Price:      decimal.NewFromInt(3),
		})

		require.NoError(t, err)
		assert.Equal(t, common.Pending, bid.Status)
	})
}

func TestSettleBid(t *testing.T) {
	farmer := uuid.NewString()
	consumer := uuid.NewString()

	t.Run("accept decrements listing inventory and records audit", func(t *testing.T) {
		store := newFakeStore()
		listing := store.addListing(farmer, 50)
		bid := store.addPendingBid(common.KindFarmerReq, listing.Id.String(), consumer, 50)
		services := newTestServices(store)

		settled, err := services.Bid.SettleBid(context.Background(), bid.Id.String(), common.AcceptDecision, entity.Principal{Id: farmer, Role: common.RoleFarmer}, "")

		require.NoError(t, err)
		assert.Equal(t, common.Accepted, settled.Status)
		assert.NotEmpty(t, settled.SettledAt)

		remaining, err := store.GetListingById(context.Background(), listing.Id.String())
		require.NoError(t, err)
		assert.Equal(t, int64(0), remaining.Quantity)
		assert.Equal(t, 1, store.auditCount(common.ActionAcceptBid))
	})

	t.Run("drained listing takes no further acceptances", func(t *testing.T) {
		store := newFakeStore()
		listing := store.addListing(farmer, 50)
		first := store.addPendingBid(common.KindFarmerReq, listing.Id.String(), consumer, 50)
		second := store.addPendingBid(common.KindFarmerReq, listing.Id.String(), consumer, 10)
		services := newTestServices(store)

		owner := entity.Principal{Id: farmer, Role: common.RoleFarmer}
		_, err := services.Bid.SettleBid(context.Background(), first.Id.String(), common.AcceptDecision, owner, "")
		require.NoError(t, err)

		_, err = services.Bid.SettleBid(context.Background(), second.Id.String(), common.AcceptDecision, owner, "")
		assert.ErrorIs(t, err, ErrInsufficientInventory)

		pending, err := store.GetBidById(context.Background(), second.Id.String())
		require.NoError(t, err)
		assert.Equal(t, common.Pending, pending.Status)
	})

	t.Run("reject requires a reason", func(t *testing.T) {
		store := newFakeStore()
		listing := store.addListing(farmer, 50)
		bid := store.addPendingBid(common.KindFarmerReq, listing.Id.String(), consumer, 10)
		services := newTestServices(store)

		owner := entity.Principal{Id: farmer, Role: common.RoleFarmer}
		_, err := services.Bid.SettleBid(context.Background(), bid.Id.String(), common.RejectDecision, owner, "")
		assert.ErrorIs(t, err, ErrReasonRequired)

		settled, err := services.Bid.SettleBid(context.Background(), bid.Id.String(), common.RejectDecision, owner, "price too low")
		require.NoError(t, err)
		assert.Equal(t, common.Rejected, settled.Status)
	})

	t.Run("reject leaves inventory untouched", func(t *testing.T) {
		store := newFakeStore()
		listing := store.addListing(farmer, 50)
		bid := store.addPendingBid(common.KindFarmerReq, listing.Id.String(), consumer, 10)
		services := newTestServices(store)

		_, err := services.Bid.SettleBid(context.Background(), bid.Id.String(), common.RejectDecision, entity.Principal{Id: farmer, Role: common.RoleFarmer}, "no")
		require.NoError(t, err)

		remaining, err := store.GetListingById(context.Background(), listing.Id.String())
		require.NoError(t, err)
		assert.Equal(t, int64(50), remaining.Quantity)
		assert.Equal(t, 1, store.auditCount(common.ActionRejectBid))
	})

	t.Run("settled bids are terminal", func(t *testing.T) {
		store := newFakeStore()
		listing := store.addListing(farmer, 50)
		bid := store.addPendingBid(common.KindFarmerReq, listing.Id.String(), consumer, 10)
		services := newTestServices(store)

		owner := entity.Principal{Id: farmer, Role: common.RoleFarmer}
		_, err := services.Bid.SettleBid(context.Background(), bid.Id.String(), common.AcceptDecision, owner, "")
		require.NoError(t, err)

		_, err = services.Bid.SettleBid(context.Background(), bid.Id.String(), common.RejectDecision, owner, "changed my mind")
		assert.ErrorIs(t, err, ErrBidAlreadySettled)

		remaining, err := store.GetListingById(context.Background(), listing.Id.String())
		require.NoError(t, err)
		assert.Equal(t, int64(40), remaining.Quantity)
		assert.Equal(t, 1, store.auditCount(common.ActionAcceptBid))
		assert.Equal(t, 0, store.auditCount(common.ActionRejectBid))
	})

	t.Run("only the target owner or an admin may settle", func(t *testing.T) {
		store := newFakeStore()
		listing := store.addListing(farmer, 50)
		bid := store.addPendingBid(common.KindFarmerReq, listing.Id.String(), consumer, 10)
		services := newTestServices(store)

		_, err := services.Bid.SettleBid(context.Background(), bid.Id.String(), common.AcceptDecision, entity.Principal{Id: consumer, Role: common.RoleConsumer}, "")
		assert.ErrorIs(t, err, ErrNoAccessToBid)

		settled, err := services.Bid.SettleBid(context.Background(), bid.Id.String(), common.AcceptDecision, entity.Principal{Id: uuid.NewString(), Role: common.RoleAdmin}, "")
		require.NoError(t, err)
		assert.Equal(t, common.Accepted, settled.Status)
	})

	t.Run("unknown decision", func(t *testing.T) {
		store := newFakeStore()
		services := newTestServices(store)

		_, err := services.Bid.SettleBid(context.Background(), uuid.NewString(), "Maybe", entity.Principal{Id: farmer}, "")
		assert.ErrorIs(t, err, ErrInvalidDecision)
	})

	t.Run("retries through transient lock contention", func(t *testing.T) {
		store := newFakeStore()
		listing := store.addListing(farmer, 50)
		bid := store.addPendingBid(common.KindFarmerReq, listing.Id.String(), consumer, 10)
		store.lockFailures = 2
		services := newTestServices(store)

		settled, err := services.Bid.SettleBid(context.Background(), bid.Id.String(), common.AcceptDecision, entity.Principal{Id: farmer, Role: common.RoleFarmer}, "")

		require.NoError(t, err)
		assert.Equal(t, common.Accepted, settled.Status)
	})

	t.Run("reports busy when contention outlives the retries", func(t *testing.T) {
		store := newFakeStore()
		listing := store.addListing(farmer, 50)
		bid := store.addPendingBid(common.KindFarmerReq, listing.Id.String(), consumer, 10)
		store.lockFailures = 10
		services := newTestServices(store)

		_, err := services.Bid.SettleBid(context.Background(), bid.Id.String(), common.AcceptDecision, entity.Principal{Id: farmer, Role: common.RoleFarmer}, "")
		assert.ErrorIs(t, err, ErrBusy)

		pending, err := store.GetBidById(context.Background(), bid.Id.String())
		require.NoError(t, err)
		assert.Equal(t, common.Pending, pending.Status)
	})

	t.Run("audit failure aborts the settlement", func(t *testing.T) {
		store := newFakeStore()
		listing := store.addListing(farmer, 50)
		bid := store.addPendingBid(common.KindFarmerReq, listing.Id.String(), consumer, 10)
		store.failAudit = errors.New("audit store down")
		services := newTestServices(store)

		_, err := services.Bid.SettleBid(context.Background(), bid.Id.String(), common.AcceptDecision, entity.Principal{Id: farmer, Role: common.RoleFarmer}, "")
		require.Error(t, err)

		pending, err := store.GetBidById(context.Background(), bid.Id.String())
		require.NoError(t, err)
		assert.Equal(t, common.Pending, pending.Status)

		remaining, err := store.GetListingById(context.Background(), listing.Id.String())
		require.NoError(t, err)
		assert.Equal(t, int64(50), remaining.Quantity)
	})
}

// Two bids of 80 against a listing of 100: whatever the interleaving,
// exactly one acceptance goes through and the quantity ends at 20.
func TestSettleBidConcurrentAcceptance(t *testing.T) {
	farmer := uuid.NewString()

	store := newFakeStore()
	listing := store.addListing(farmer, 100)
	first := store.addPendingBid(common.KindFarmerReq, listing.Id.String(), uuid.NewString(), 80)
	second := store.addPendingBid(common.KindFarmerReq, listing.Id.String(), uuid.NewString(), 80)
	services := newTestServices(store)

	owner := entity.Principal{Id: farmer, Role: common.RoleFarmer}
	results := make([]error, 2)

	var wg sync.WaitGroup
	for i, bidId := range []string{first.Id.String(), second.Id.String()} {
		wg.Add(1)
		go func(i int, bidId string) {
			defer wg.Done()
			_, results[i] = services.Bid.SettleBid(context.Background(), bidId, common.AcceptDecision, owner, "")
		}(i, bidId)
	}
	wg.Wait()

	var accepted, insufficient int
	for _, err := range results {
		switch {
		case err == nil:
			accepted++
		case errors.Is(err, ErrInsufficientInventory):
			insufficient++
		default:
			t.Fatalf("unexpected settlement error: %v", err)
		}
	}

	assert.Equal(t, 1, accepted)
	assert.Equal(t, 1, insufficient)

	remaining, err := store.GetListingById(context.Background(), listing.Id.String())
	require.NoError(t, err)
	assert.Equal(t, int64(20), remaining.Quantity)
	assert.Equal(t, 1, store.auditCount(common.ActionAcceptBid))
}

func TestGetTargetBids(t *testing.T) {
	farmer := uuid.NewString()
	consumer := uuid.NewString()

	store := newFakeStore()
	listing := store.addListing(farmer, 100)
	store.addPendingBid(common.KindFarmerReq, listing.Id.String(), consumer, 10)
	store.addPendingBid(common.KindFarmerReq, listing.Id.String(), uuid.NewString(), 20)
	services := newTestServices(store)

	bids, err := services.Bid.GetTargetBids(context.Background(), common.KindFarmerReq, listing.Id.String(), entity.Principal{Id: farmer, Role: common.RoleFarmer}, entity.NewPaginationInput(50, 0))
	require.NoError(t, err)
	assert.Len(t, bids, 2)

	bids, err = services.Bid.GetTargetBids(context.Background(), common.KindFarmerReq, listing.Id.String(), entity.Principal{Id: uuid.NewString(), Role: common.RoleAdmin}, entity.NewPaginationInput(50, 0))
	require.NoError(t, err)
	assert.Len(t, bids, 2)

	_, err = services.Bid.GetTargetBids(context.Background(), common.KindFarmerReq, listing.Id.String(), entity.Principal{Id: consumer, Role: common.RoleConsumer}, entity.NewPaginationInput(50, 0))
	assert.ErrorIs(t, err, ErrNoAccessToBid)
}
