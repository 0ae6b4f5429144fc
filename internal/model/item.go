package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item represents an auction listing.
//
// CurrentPrice starts at StartPrice and only ever increases as bids are
// accepted. WinnerID is assigned exactly once, when the auction closes with
// at least one bid. Once Status reaches ItemStatusSold the row is immutable.
type Item struct {
	ID           int64           `json:"id"`
	SellerID     int64           `json:"seller_id"`
	CategoryID   int64           `json:"category_id"`
	WinnerID     *int64          `json:"winner_id,omitempty"`
	Title        string          `json:"title"`
	Description  string          `json:"description,omitempty"`
	StartPrice   decimal.Decimal `json:"start_price"`
	CurrentPrice decimal.Decimal `json:"current_price"`
	StartTime    time.Time       `json:"start_time"`
	EndTime      time.Time       `json:"end_time"`
	Status       string          `json:"status"`
	PhotoMime    string          `json:"photo_mime,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Item statuses. Transitions are strictly:
// active -> awaiting_payment | not_sold (auction close),
// awaiting_payment -> sold (payment completion).
const (
	ItemStatusActive          = "active"
	ItemStatusNotSold         = "not_sold"
	ItemStatusAwaitingPayment = "awaiting_payment"
	ItemStatusSold            = "sold"
)
