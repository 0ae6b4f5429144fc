package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/auctionsystem/auctionhouse/internal/model"
)

const itemColumns = `id, seller_id, category_id, winner_id, title, description,
	start_price, current_price, start_time, end_time, status, photo_mime,
	created_at, updated_at`

// CreateItem creates a new listing in active status with the current price set
// to the start price.
func CreateItem(ctx context.Context, db *sql.DB, sellerID, categoryID int64, title, description string, startPrice decimal.Decimal, endTime time.Time) (*model.Item, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO items (seller_id, category_id, title, description, start_price, current_price, end_time)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sellerID, categoryID, title, description, startPrice, startPrice, endTime.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting item id: %w", err)
	}

	return GetItem(ctx, db, id)
}

// GetItem returns an item by ID.
func GetItem(ctx context.Context, db *sql.DB, id int64) (*model.Item, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = ?`, id,
	)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// ListItems returns all items, optionally filtered by status.
func ListItems(ctx context.Context, db *sql.DB, status string) ([]model.Item, error) {
	var rows *sql.Rows
	var err error

	if status != "" {
		rows, err = db.QueryContext(ctx,
			`SELECT `+itemColumns+` FROM items WHERE status = ? ORDER BY end_time`, status,
		)
	} else {
		rows, err = db.QueryContext(ctx,
			`SELECT `+itemColumns+` FROM items ORDER BY end_time`,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// UpdateItem updates a listing's metadata. Price, status and winner are never
// touched here; those belong to the auction engine.
func UpdateItem(ctx context.Context, db *sql.DB, id int64, title, description string, endTime time.Time) error {
	_, err := db.ExecContext(ctx,
		`UPDATE items SET title = ?, description = ?, end_time = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		title, description, endTime.UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("updating item: %w", err)
	}
	return nil
}

// DeleteItem removes a listing and its bids.
func DeleteItem(ctx context.Context, db *sql.DB, id int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM bids WHERE item_id = ?`, id); err != nil {
		return fmt.Errorf("deleting item bids: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}

	return tx.Commit()
}

// ListExpiredActiveItemIDs returns ids of active items whose end time has
// passed, ordered by end time so the longest-expired close first.
func ListExpiredActiveItemIDs(ctx context.Context, db *sql.DB, now time.Time) ([]int64, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id FROM items WHERE status = ? AND end_time <= ? ORDER BY end_time`,
		model.ItemStatusActive, now.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("listing expired items: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning item id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// MarkItemSold transitions an item from awaiting_payment to sold. Returns
// false without error when the item is not awaiting payment, which makes
// duplicate payment notifications a no-op.
func MarkItemSold(ctx context.Context, db *sql.DB, id int64) (bool, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE items SET status = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND status = ?`,
		model.ItemStatusSold, id, model.ItemStatusAwaitingPayment,
	)
	if err != nil {
		return false, fmt.Errorf("marking item sold: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("marking item sold: %w", err)
	}
	return rows > 0, nil
}

// SetItemPhoto sets a listing's photo data.
func SetItemPhoto(ctx context.Context, db *sql.DB, id int64, photo []byte, mime string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE items SET photo = ?, photo_mime = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		photo, mime, id,
	)
	if err != nil {
		return fmt.Errorf("setting item photo: %w", err)
	}
	return nil
}

// GetItemPhoto returns a listing's photo data and MIME type.
func GetItemPhoto(ctx context.Context, db *sql.DB, id int64) ([]byte, string, error) {
	var photo []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT photo, photo_mime FROM items WHERE id = ?`, id,
	).Scan(&photo, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting item photo: %w", err)
	}
	return photo, mime.String, nil
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanItem(s scanner) (*model.Item, error) {
	item := &model.Item{}
	var description, photoMime sql.NullString
	var winnerID sql.NullInt64
	err := s.Scan(
		&item.ID, &item.SellerID, &item.CategoryID, &winnerID, &item.Title,
		&description, &item.StartPrice, &item.CurrentPrice, &item.StartTime,
		&item.EndTime, &item.Status, &photoMime, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	item.Description = description.String
	item.PhotoMime = photoMime.String
	if winnerID.Valid {
		item.WinnerID = &winnerID.Int64
	}
	return item, nil
}
