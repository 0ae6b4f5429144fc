package auction

import "errors"

// Sentinel errors for the auction core. Handlers map these to HTTP statuses;
// services wrap them with context via fmt.Errorf and %w.
var (
	// ErrNotFound means the referenced item or bid does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrInvalidBidAmount means the bid is missing, not positive, or does not
	// exceed the item's current price.
	ErrInvalidBidAmount = errors.New("bid amount must exceed the current price")

	// ErrInvalidAuctionState means the operation was attempted against an item
	// whose status does not allow it.
	ErrInvalidAuctionState = errors.New("invalid auction state")
)
