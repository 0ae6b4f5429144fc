package auction

import (
	"context"
	"errors"
	"testing"

	"github.com/peterldowns/testy/check"

	"github.com/auctionsystem/auctionhouse/internal/model"
	"github.com/auctionsystem/auctionhouse/internal/store"
)

func TestPlaceBidRaisesPrice(t *testing.T) {
	engine, database := newTestEngine(t)
	ctx := context.Background()

	item := createAuction(t, database, "100")
	bidder := createUser(t, database, "bidder")

	bid, err := engine.PlaceBid(ctx, item.ID, bidder.ID, money("150"))
	check.NoError(t, err)
	check.NotNil(t, bid)
	check.Equal(t, money("150"), bid.Amount)
	check.Equal(t, bidder.ID, bid.BidderID)
	check.True(t, !bid.BidTime.IsZero())

	updated, err := store.GetItem(ctx, database, item.ID)
	check.NoError(t, err)
	check.Equal(t, money("150"), updated.CurrentPrice)
}

func TestPlaceBidRejectsAtOrBelowCurrentPrice(t *testing.T) {
	engine, database := newTestEngine(t)
	ctx := context.Background()

	item := createAuction(t, database, "100")
	bidder := createUser(t, database, "bidder")

	for _, amount := range []string{"100", "99.99", "0", "-5"} {
		_, err := engine.PlaceBid(ctx, item.ID, bidder.ID, money(amount))
		check.True(t, errors.Is(err, ErrInvalidBidAmount))
	}

	// The rejected bids must leave no trace.
	bids, err := store.ListBidsByItem(ctx, database, item.ID)
	check.NoError(t, err)
	check.Equal(t, 0, len(bids))

	updated, err := store.GetItem(ctx, database, item.ID)
	check.NoError(t, err)
	check.Equal(t, money("100"), updated.CurrentPrice)
}

func TestPlaceBidPriceMonotonicity(t *testing.T) {
	engine, database := newTestEngine(t)
	ctx := context.Background()

	item := createAuction(t, database, "10")
	a := createUser(t, database, "bidder")
	b := createUser(t, database, "bidder")

	_, err := engine.PlaceBid(ctx, item.ID, a.ID, money("50"))
	check.NoError(t, err)
	_, err = engine.PlaceBid(ctx, item.ID, b.ID, money("80"))
	check.NoError(t, err)

	// A stale bid below the raised price is rejected even though it beats
	// the start price.
	_, err = engine.PlaceBid(ctx, item.ID, a.ID, money("60"))
	check.True(t, errors.Is(err, ErrInvalidBidAmount))

	_, err = engine.PlaceBid(ctx, item.ID, a.ID, money("120"))
	check.NoError(t, err)

	updated, err := store.GetItem(ctx, database, item.ID)
	check.NoError(t, err)
	check.Equal(t, money("120"), updated.CurrentPrice)

	bids, err := store.ListBidsByItem(ctx, database, item.ID)
	check.NoError(t, err)
	check.Equal(t, 3, len(bids))
}

func TestPlaceBidMissingItem(t *testing.T) {
	engine, database := newTestEngine(t)

	bidder := createUser(t, database, "bidder")
	_, err := engine.PlaceBid(context.Background(), 999, bidder.ID, money("10"))
	check.True(t, errors.Is(err, ErrNotFound))
}

func TestPlaceBidOnClosedAuction(t *testing.T) {
	engine, database := newTestEngine(t)
	ctx := context.Background()

	item := createAuction(t, database, "100")
	bidder := createUser(t, database, "bidder")

	_, err := engine.CloseAuction(ctx, item.ID)
	check.NoError(t, err)

	_, err = engine.PlaceBid(ctx, item.ID, bidder.ID, money("150"))
	check.True(t, errors.Is(err, ErrInvalidAuctionState))
}

func TestWinningBidIsLastInserted(t *testing.T) {
	engine, database := newTestEngine(t)
	ctx := context.Background()

	item := createAuction(t, database, "10")
	a := createUser(t, database, "bidder")
	b := createUser(t, database, "bidder")

	for _, bid := range []struct {
		bidder *model.User
		amount string
	}{
		{a, "50"},
		{b, "80"},
		{a, "120"},
	} {
		_, err := engine.PlaceBid(ctx, item.ID, bid.bidder.ID, money(bid.amount))
		check.NoError(t, err)
	}

	winning, err := engine.WinningBid(ctx, item.ID)
	check.NoError(t, err)
	check.NotNil(t, winning)
	check.Equal(t, a.ID, winning.BidderID)
	check.Equal(t, money("120"), winning.Amount)
}

func TestWinningBidNoBids(t *testing.T) {
	engine, database := newTestEngine(t)

	item := createAuction(t, database, "10")

	winning, err := engine.WinningBid(context.Background(), item.ID)
	check.NoError(t, err)
	check.Nil(t, winning)
}
