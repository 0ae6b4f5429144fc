package auction

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/auctionsystem/auctionhouse/internal/model"
	"github.com/auctionsystem/auctionhouse/internal/store"
)

// CloseAuction transitions an active item out of bidding. With at least one
// bid the item moves to awaiting_payment and the last bidder becomes the
// winner; with none it moves to not_sold.
//
// Safe to retry: a second call finds the item no longer active and fails with
// ErrInvalidAuctionState instead of reassigning a winner. The winner read and
// the status update share one transaction so a bid racing the close either
// lands before the winner is read or is rejected by its own status guard.
func (e *Engine) CloseAuction(ctx context.Context, itemID int64) (*model.Item, error) {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var status string
	err = tx.QueryRowContext(ctx,
		`SELECT status FROM items WHERE id = ?`, itemID,
	).Scan(&status)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("item %d: %w", itemID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading item status: %w", err)
	}
	if status != model.ItemStatusActive {
		return nil, fmt.Errorf("item %d is already %s: %w", itemID, status, ErrInvalidAuctionState)
	}

	var winnerID sql.NullInt64
	err = tx.QueryRowContext(ctx,
		`SELECT bidder_id FROM bids WHERE item_id = ? ORDER BY id DESC LIMIT 1`, itemID,
	).Scan(&winnerID.Int64)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("reading winning bid: %w", err)
	}
	winnerID.Valid = err == nil

	var result sql.Result
	if winnerID.Valid {
		result, err = tx.ExecContext(ctx,
			`UPDATE items SET status = ?, winner_id = ?, updated_at = CURRENT_TIMESTAMP
			 WHERE id = ? AND status = ?`,
			model.ItemStatusAwaitingPayment, winnerID.Int64, itemID, model.ItemStatusActive,
		)
	} else {
		result, err = tx.ExecContext(ctx,
			`UPDATE items SET status = ?, updated_at = CURRENT_TIMESTAMP
			 WHERE id = ? AND status = ?`,
			model.ItemStatusNotSold, itemID, model.ItemStatusActive,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("closing auction: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("closing auction: %w", err)
	}
	if rows == 0 {
		return nil, fmt.Errorf("item %d closed concurrently: %w", itemID, ErrInvalidAuctionState)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing close: %w", err)
	}

	if winnerID.Valid {
		slog.Info("auction closed", "item", itemID, "winner", winnerID.Int64)
	} else {
		slog.Info("auction closed without bids", "item", itemID)
	}

	return store.GetItem(ctx, e.db, itemID)
}
