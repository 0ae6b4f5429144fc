package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/auctionsystem/auctionhouse/internal/model"
)

// Test fixture helpers shared across the store tests.

func testUser(t *testing.T, db *sql.DB, username string) *model.User {
	t.Helper()
	user, err := CreateUser(context.Background(), db, username, username+"@example.com", "hash")
	if err != nil {
		t.Fatalf("creating test user %q: %v", username, err)
	}
	return user
}

func testCategory(t *testing.T, db *sql.DB, name string) *model.Category {
	t.Helper()
	category, err := CreateCategory(context.Background(), db, name)
	if err != nil {
		t.Fatalf("creating test category %q: %v", name, err)
	}
	return category
}

func testItem(t *testing.T, db *sql.DB, sellerID, categoryID int64, startPrice string) *model.Item {
	t.Helper()
	price, err := decimal.NewFromString(startPrice)
	if err != nil {
		t.Fatalf("parsing start price %q: %v", startPrice, err)
	}
	item, err := CreateItem(context.Background(), db, sellerID, categoryID,
		"Vintage clock", "A mantel clock from the 1930s", price, time.Now().Add(24*time.Hour))
	if err != nil {
		t.Fatalf("creating test item: %v", err)
	}
	return item
}

// insertBid inserts a bid row directly; bid acceptance logic lives in the
// auction package and is tested there.
func insertBid(t *testing.T, db *sql.DB, itemID, bidderID int64, amount string) int64 {
	t.Helper()
	result, err := db.Exec(
		`INSERT INTO bids (item_id, bidder_id, amount) VALUES (?, ?, ?)`,
		itemID, bidderID, amount,
	)
	if err != nil {
		t.Fatalf("inserting bid: %v", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		t.Fatalf("getting bid id: %v", err)
	}
	return id
}
