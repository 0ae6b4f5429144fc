package payment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/auctionsystem/auctionhouse/internal/auction"
	"github.com/auctionsystem/auctionhouse/internal/model"
	"github.com/auctionsystem/auctionhouse/internal/store"
)

// ErrGateway means the provider call itself failed. Nothing is persisted in
// that case.
var ErrGateway = errors.New("payment gateway request failed")

// Service initiates payments for winning bids and reconciles provider
// notifications against them.
type Service struct {
	db      *sql.DB
	gateway Gateway
}

// NewService creates a payment service using the given gateway.
func NewService(db *sql.DB, gateway Gateway) *Service {
	return &Service{db: db, gateway: gateway}
}

// MinorUnits converts a major-unit amount to the gateway's integer minor
// units, rounding halves up (10.555 -> 1056).
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}

// InitiatePayment creates a provider order for a winning bid and records it
// with status CREATED. The bid's item must be awaiting payment. A gateway
// failure aborts before anything is persisted.
func (s *Service) InitiatePayment(ctx context.Context, winningBidID int64, buyer Buyer, customerIP string) (*OrderResponse, error) {
	bid, err := store.GetBid(ctx, s.db, winningBidID)
	if err != nil {
		return nil, err
	}
	if bid == nil {
		return nil, fmt.Errorf("bid %d: %w", winningBidID, auction.ErrNotFound)
	}

	item, err := store.GetItem(ctx, s.db, bid.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("item %d: %w", bid.ItemID, auction.ErrNotFound)
	}
	if item.Status != model.ItemStatusAwaitingPayment {
		return nil, fmt.Errorf("item %d is %s, not awaiting payment: %w",
			item.ID, item.Status, auction.ErrInvalidAuctionState)
	}

	minor := MinorUnits(bid.Amount)
	order := OrderRequest{
		CustomerIP:   customerIP,
		Description:  item.Title,
		CurrencyCode: "PLN",
		TotalAmount:  fmt.Sprintf("%d", minor),
		ExtOrderID:   uuid.NewString(),
		Products: []Product{{
			Name:      item.Title,
			UnitPrice: minor,
			Quantity:  1,
			Virtual:   true,
		}},
		Buyer: &buyer,
	}

	resp, err := s.gateway.CreateOrder(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGateway, err)
	}

	if _, err := store.CreatePayment(ctx, s.db, bid.ID, bid.Amount, model.PaymentStatusCreated, resp.OrderID); err != nil {
		return nil, err
	}

	slog.Info("payment initiated", "bid", bid.ID, "item", item.ID, "transaction", resp.OrderID)
	return resp, nil
}

// ApplyNotification records a provider-reported status change. COMPLETED
// finalizes the sale; the item transition is guarded on awaiting_payment so
// duplicate or out-of-order notifications cannot finalize twice.
func (s *Service) ApplyNotification(ctx context.Context, n Notification) error {
	p, err := store.GetPaymentByTransactionID(ctx, s.db, n.Order.OrderID)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("payment with transaction id %q: %w", n.Order.OrderID, auction.ErrNotFound)
	}

	if err := store.UpdatePaymentStatus(ctx, s.db, p.ID, n.Order.Status); err != nil {
		return err
	}
	slog.Info("payment status updated", "transaction", p.TransactionID, "status", n.Order.Status)

	if n.Order.Status == model.PaymentStatusCompleted {
		return s.finalizeSale(ctx, p)
	}
	return nil
}

// finalizeSale marks the paid item sold. This is the only path that produces
// the sold status.
func (s *Service) finalizeSale(ctx context.Context, p *model.Payment) error {
	bid, err := store.GetBid(ctx, s.db, p.BidID)
	if err != nil {
		return err
	}
	if bid == nil {
		return fmt.Errorf("bid %d for payment %d: %w", p.BidID, p.ID, auction.ErrNotFound)
	}

	sold, err := store.MarkItemSold(ctx, s.db, bid.ItemID)
	if err != nil {
		return err
	}
	if !sold {
		slog.Info("sale already finalized", "item", bid.ItemID, "transaction", p.TransactionID)
		return nil
	}

	slog.Info("sale finalized", "item", bid.ItemID, "transaction", p.TransactionID)
	return nil
}
