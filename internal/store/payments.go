package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/auctionsystem/auctionhouse/internal/model"
)

// CreatePayment records a gateway order for a winning bid.
func CreatePayment(ctx context.Context, db *sql.DB, bidID int64, amount decimal.Decimal, status, transactionID string) (*model.Payment, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO payments (bid_id, amount, payment_status, transaction_id)
		 VALUES (?, ?, ?, ?)`,
		bidID, amount, status, transactionID,
	)
	if err != nil {
		return nil, fmt.Errorf("creating payment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting payment id: %w", err)
	}

	return GetPayment(ctx, db, id)
}

// GetPayment returns a payment by ID.
func GetPayment(ctx context.Context, db *sql.DB, id int64) (*model.Payment, error) {
	p := &model.Payment{}
	err := db.QueryRowContext(ctx,
		`SELECT id, bid_id, amount, payment_status, transaction_id, payment_date
		 FROM payments WHERE id = ?`, id,
	).Scan(&p.ID, &p.BidID, &p.Amount, &p.Status, &p.TransactionID, &p.PaymentDate)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting payment: %w", err)
	}
	return p, nil
}

// GetPaymentByTransactionID returns the payment matching a gateway order id.
func GetPaymentByTransactionID(ctx context.Context, db *sql.DB, transactionID string) (*model.Payment, error) {
	p := &model.Payment{}
	err := db.QueryRowContext(ctx,
		`SELECT id, bid_id, amount, payment_status, transaction_id, payment_date
		 FROM payments WHERE transaction_id = ?`, transactionID,
	).Scan(&p.ID, &p.BidID, &p.Amount, &p.Status, &p.TransactionID, &p.PaymentDate)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting payment by transaction id: %w", err)
	}
	return p, nil
}

// UpdatePaymentStatus stores the provider-reported status as-is.
func UpdatePaymentStatus(ctx context.Context, db *sql.DB, id int64, status string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE payments SET payment_status = ? WHERE id = ?`, status, id,
	)
	if err != nil {
		return fmt.Errorf("updating payment status: %w", err)
	}
	return nil
}
