package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bid is a single offer on an item. Bids are append-only; BidTime is assigned
// by the database on insert, and the insertion order (id) is the authoritative
// ordering of bids within an item.
type Bid struct {
	ID       int64           `json:"id"`
	ItemID   int64           `json:"item_id"`
	BidderID int64           `json:"bidder_id"`
	Amount   decimal.Decimal `json:"amount"`
	BidTime  time.Time       `json:"bid_time"`
}
