package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment tracks a gateway order created for a winning bid. TransactionID is
// the gateway's order id and is the lookup key for inbound notifications.
type Payment struct {
	ID            int64           `json:"id"`
	BidID         int64           `json:"bid_id"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"payment_status"`
	TransactionID string          `json:"transaction_id"`
	PaymentDate   time.Time       `json:"payment_date"`
}

// Payment statuses. CREATED and COMPLETED are the ones the backend acts on;
// anything else the provider sends is stored as-is.
const (
	PaymentStatusCreated   = "CREATED"
	PaymentStatusPending   = "PENDING"
	PaymentStatusCompleted = "COMPLETED"
	PaymentStatusCanceled  = "CANCELED"
)
