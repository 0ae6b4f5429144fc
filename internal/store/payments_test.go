package store

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/auctionsystem/auctionhouse/internal/db"
	"github.com/auctionsystem/auctionhouse/internal/model"
)

func TestCreateAndFindPayment(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	seller := testUser(t, database, "seller")
	bidder := testUser(t, database, "bidder")
	category := testCategory(t, database, "Antiques")
	item := testItem(t, database, seller.ID, category.ID, "10")
	bidID := insertBid(t, database, item.ID, bidder.ID, "150")

	amount := decimal.RequireFromString("150")
	p, err := CreatePayment(ctx, database, bidID, amount, model.PaymentStatusCreated, "TXN-1")
	if err != nil {
		t.Fatalf("CreatePayment: %v", err)
	}
	if p.Status != model.PaymentStatusCreated {
		t.Errorf("expected status CREATED, got %q", p.Status)
	}
	if p.PaymentDate.IsZero() {
		t.Error("expected server-assigned payment date")
	}

	found, err := GetPaymentByTransactionID(ctx, database, "TXN-1")
	if err != nil {
		t.Fatalf("GetPaymentByTransactionID: %v", err)
	}
	if found == nil || found.ID != p.ID {
		t.Fatalf("expected payment %d, got %+v", p.ID, found)
	}
	if !found.Amount.Equal(amount) {
		t.Errorf("expected amount 150, got %s", found.Amount)
	}
}

func TestGetPaymentByTransactionIDMissing(t *testing.T) {
	database := db.NewTestDB(t)

	p, err := GetPaymentByTransactionID(context.Background(), database, "TXN-unknown")
	if err != nil {
		t.Fatalf("GetPaymentByTransactionID: %v", err)
	}
	if p != nil {
		t.Errorf("expected nil for unknown transaction, got %+v", p)
	}
}

func TestDuplicateTransactionIDRejected(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	seller := testUser(t, database, "seller")
	bidder := testUser(t, database, "bidder")
	category := testCategory(t, database, "Antiques")
	item := testItem(t, database, seller.ID, category.ID, "10")
	bidID := insertBid(t, database, item.ID, bidder.ID, "150")

	amount := decimal.RequireFromString("150")
	if _, err := CreatePayment(ctx, database, bidID, amount, model.PaymentStatusCreated, "TXN-dup"); err != nil {
		t.Fatalf("CreatePayment: %v", err)
	}
	if _, err := CreatePayment(ctx, database, bidID, amount, model.PaymentStatusCreated, "TXN-dup"); err == nil {
		t.Error("expected unique constraint error for duplicate transaction id")
	}
}

func TestUpdatePaymentStatus(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	seller := testUser(t, database, "seller")
	bidder := testUser(t, database, "bidder")
	category := testCategory(t, database, "Antiques")
	item := testItem(t, database, seller.ID, category.ID, "10")
	bidID := insertBid(t, database, item.ID, bidder.ID, "150")

	p, err := CreatePayment(ctx, database, bidID, decimal.RequireFromString("150"),
		model.PaymentStatusCreated, "TXN-2")
	if err != nil {
		t.Fatalf("CreatePayment: %v", err)
	}

	if err := UpdatePaymentStatus(ctx, database, p.ID, model.PaymentStatusCompleted); err != nil {
		t.Fatalf("UpdatePaymentStatus: %v", err)
	}

	updated, _ := GetPayment(ctx, database, p.ID)
	if updated.Status != model.PaymentStatusCompleted {
		t.Errorf("expected status COMPLETED, got %q", updated.Status)
	}
}
