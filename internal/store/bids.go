package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/auctionsystem/auctionhouse/internal/model"
)

// GetBid returns a bid by ID.
func GetBid(ctx context.Context, db *sql.DB, id int64) (*model.Bid, error) {
	b := &model.Bid{}
	err := db.QueryRowContext(ctx,
		`SELECT id, item_id, bidder_id, amount, bid_time FROM bids WHERE id = ?`, id,
	).Scan(&b.ID, &b.ItemID, &b.BidderID, &b.Amount, &b.BidTime)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting bid: %w", err)
	}
	return b, nil
}

// ListBidsByItem returns all bids for an item in insertion order.
func ListBidsByItem(ctx context.Context, db *sql.DB, itemID int64) ([]model.Bid, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, item_id, bidder_id, amount, bid_time
		 FROM bids WHERE item_id = ? ORDER BY id`, itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing bids: %w", err)
	}
	defer rows.Close()

	var bids []model.Bid
	for rows.Next() {
		var b model.Bid
		if err := rows.Scan(&b.ID, &b.ItemID, &b.BidderID, &b.Amount, &b.BidTime); err != nil {
			return nil, fmt.Errorf("scanning bid: %w", err)
		}
		bids = append(bids, b)
	}
	return bids, rows.Err()
}

// DeleteBid removes a bid.
func DeleteBid(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx, `DELETE FROM bids WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting bid: %w", err)
	}
	return nil
}
