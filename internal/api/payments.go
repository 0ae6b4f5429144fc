package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"net/netip"
	"strconv"

	"github.com/auctionsystem/auctionhouse/internal/payment"
	"github.com/auctionsystem/auctionhouse/internal/store"
)

// PaymentsHandler exposes payment initiation and the provider webhook.
type PaymentsHandler struct {
	DB      *sql.DB
	Service *payment.Service
}

type payRequest struct {
	Buyer payment.Buyer `json:"buyer"`
}

// Pay handles POST /api/payments/{bidId}. Only the winning bidder may pay.
func (h *PaymentsHandler) Pay(w http.ResponseWriter, r *http.Request) {
	bidID, err := strconv.ParseInt(r.PathValue("bidId"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid bid id")
		return
	}

	bid, err := store.GetBid(r.Context(), h.DB, bidID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if bid == nil {
		jsonError(w, http.StatusNotFound, "bid not found")
		return
	}

	claims := GetClaims(r.Context())
	if claims == nil || claims.UserID != bid.BidderID {
		jsonError(w, http.StatusForbidden, "only the winning bidder may pay")
		return
	}

	var req payRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.Service.InitiatePayment(r.Context(), bidID, req.Buyer, clientIP(r))
	if err != nil {
		serviceError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, resp)
}

// Notify handles POST /api/payments/notify, the provider's webhook. It is
// unauthenticated; an unknown transaction id is the only rejection.
func (h *PaymentsHandler) Notify(w http.ResponseWriter, r *http.Request) {
	var n payment.Notification
	if err := decodeJSON(r, &n); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid notification body")
		return
	}
	if n.Order.OrderID == "" {
		jsonError(w, http.StatusBadRequest, "missing order id")
		return
	}

	if err := h.Service.ApplyNotification(r.Context(), n); err != nil {
		slog.Warn("payment notification rejected", "transaction", n.Order.OrderID, "error", err)
		serviceError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "notification applied"})
}

// clientIP extracts the request's source address without the port.
func clientIP(r *http.Request) string {
	if addrPort, err := netip.ParseAddrPort(r.RemoteAddr); err == nil {
		return addrPort.Addr().String()
	}
	return r.RemoteAddr
}
