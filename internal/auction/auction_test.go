package auction

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/auctionsystem/auctionhouse/internal/db"
	"github.com/auctionsystem/auctionhouse/internal/model"
	"github.com/auctionsystem/auctionhouse/internal/store"
)

// fixtureSeq keeps generated usernames and category names unique within a
// test database.
var fixtureSeq atomic.Int64

// newTestEngine returns an engine over a fresh in-memory database together
// with the handle for direct fixture setup.
func newTestEngine(t *testing.T) (*Engine, *sql.DB) {
	t.Helper()
	database := db.NewTestDB(t)
	return NewEngine(database), database
}

func createUser(t *testing.T, database *sql.DB, role string) *model.User {
	t.Helper()
	username := fmt.Sprintf("%s-%d", role, fixtureSeq.Add(1))
	user, err := store.CreateUser(context.Background(), database, username, username+"@example.com", "hash")
	if err != nil {
		t.Fatalf("creating user %q: %v", username, err)
	}
	return user
}

// createAuction sets up a seller, a category and an active item in one call.
func createAuction(t *testing.T, database *sql.DB, startPrice string) *model.Item {
	t.Helper()
	ctx := context.Background()

	seller := createUser(t, database, "seller")
	category, err := store.CreateCategory(ctx, database,
		fmt.Sprintf("Antiques-%d", fixtureSeq.Add(1)))
	if err != nil {
		t.Fatalf("creating category: %v", err)
	}

	item, err := store.CreateItem(ctx, database, seller.ID, category.ID,
		"Vintage clock", "A mantel clock from the 1930s.",
		decimal.RequireFromString(startPrice), time.Now().Add(24*time.Hour))
	if err != nil {
		t.Fatalf("creating item: %v", err)
	}
	return item
}

// expire moves an item's end time into the past so the sweeper picks it up.
func expire(t *testing.T, database *sql.DB, itemID int64) {
	t.Helper()
	if _, err := database.Exec(`UPDATE items SET end_time = ? WHERE id = ?`,
		time.Now().Add(-time.Hour).UTC(), itemID); err != nil {
		t.Fatalf("expiring item %d: %v", itemID, err)
	}
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
