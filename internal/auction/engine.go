package auction

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/auctionsystem/auctionhouse/internal/model"
	"github.com/auctionsystem/auctionhouse/internal/store"
)

// Engine accepts bids against active items and closes auctions. It talks to
// the item and bid tables directly; there is no service-to-service cycle.
//
// Every mutation of an item row runs as a single transaction whose final
// UPDATE repeats the precondition in its WHERE clause, so a concurrent close
// or a concurrent higher bid makes the statement affect zero rows instead of
// clobbering the row.
type Engine struct {
	db *sql.DB
}

// NewEngine creates an Engine backed by the given database.
func NewEngine(db *sql.DB) *Engine {
	return &Engine{db: db}
}

// PlaceBid validates and durably records a bid, raising the item's current
// price to the bid amount. The bid time is assigned by the database.
//
// Returns ErrNotFound when the item does not exist, ErrInvalidAuctionState
// when it is not accepting bids, and ErrInvalidBidAmount when the amount is
// not strictly above the current price.
func (e *Engine) PlaceBid(ctx context.Context, itemID, bidderID int64, amount decimal.Decimal) (*model.Bid, error) {
	item, err := store.GetItem(ctx, e.db, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("item %d: %w", itemID, ErrNotFound)
	}
	if item.Status != model.ItemStatusActive {
		return nil, fmt.Errorf("item %d is %s: %w", itemID, item.Status, ErrInvalidAuctionState)
	}
	if amount.Sign() <= 0 || amount.Cmp(item.CurrentPrice) <= 0 {
		return nil, fmt.Errorf("bid %s against current price %s: %w",
			amount, item.CurrentPrice, ErrInvalidBidAmount)
	}

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	// The guard re-checks status and price against the stored row. The read
	// above may be stale by now: the sweeper can have closed the auction, or
	// another bidder can have raised the price past this amount.
	result, err := tx.ExecContext(ctx,
		`UPDATE items SET current_price = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND status = ? AND current_price < ?`,
		amount, itemID, model.ItemStatusActive, amount,
	)
	if err != nil {
		return nil, fmt.Errorf("updating current price: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("updating current price: %w", err)
	}
	if rows == 0 {
		return nil, e.diagnoseRejectedBid(ctx, itemID, amount)
	}

	result, err = tx.ExecContext(ctx,
		`INSERT INTO bids (item_id, bidder_id, amount) VALUES (?, ?, ?)`,
		itemID, bidderID, amount,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting bid: %w", err)
	}
	bidID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting bid id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing bid: %w", err)
	}

	slog.Info("bid accepted", "item", itemID, "bidder", bidderID, "amount", amount)
	return store.GetBid(ctx, e.db, bidID)
}

// diagnoseRejectedBid re-reads the item to report why the guarded price
// update matched nothing.
func (e *Engine) diagnoseRejectedBid(ctx context.Context, itemID int64, amount decimal.Decimal) error {
	item, err := store.GetItem(ctx, e.db, itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return fmt.Errorf("item %d: %w", itemID, ErrNotFound)
	}
	if item.Status != model.ItemStatusActive {
		return fmt.Errorf("item %d is %s: %w", itemID, item.Status, ErrInvalidAuctionState)
	}
	return fmt.Errorf("bid %s against current price %s: %w",
		amount, item.CurrentPrice, ErrInvalidBidAmount)
}

// WinningBid returns the most recently inserted bid for an item, or nil when
// the item has no bids.
//
// Insertion order, not amount, is the selection rule: every accepted bid must
// exceed the price set by the previous one, so the last bid is also the
// highest. Should imported data ever break that invariant, insertion order
// stays authoritative.
func (e *Engine) WinningBid(ctx context.Context, itemID int64) (*model.Bid, error) {
	b := &model.Bid{}
	err := e.db.QueryRowContext(ctx,
		`SELECT id, item_id, bidder_id, amount, bid_time
		 FROM bids WHERE item_id = ? ORDER BY id DESC LIMIT 1`, itemID,
	).Scan(&b.ID, &b.ItemID, &b.BidderID, &b.Amount, &b.BidTime)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting winning bid: %w", err)
	}
	return b, nil
}
