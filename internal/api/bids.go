package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/auctionsystem/auctionhouse/internal/auction"
	"github.com/auctionsystem/auctionhouse/internal/model"
	"github.com/auctionsystem/auctionhouse/internal/store"
)

// BidsHandler exposes the bidding engine over HTTP.
type BidsHandler struct {
	DB     *sql.DB
	Engine *auction.Engine
}

type placeBidRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// Place handles POST /api/items/{id}/bids. The authenticated user is the
// bidder; their identity is passed into the engine explicitly.
func (h *BidsHandler) Place(w http.ResponseWriter, r *http.Request) {
	itemID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req placeBidRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	bid, err := h.Engine.PlaceBid(r.Context(), itemID, claims.UserID, req.Amount)
	if err != nil {
		serviceError(w, err)
		return
	}

	jsonResponse(w, http.StatusCreated, bid)
}

// ListByItem handles GET /api/items/{id}/bids.
func (h *BidsHandler) ListByItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	bids, err := store.ListBidsByItem(r.Context(), h.DB, itemID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list bids")
		return
	}
	if bids == nil {
		bids = []model.Bid{}
	}
	jsonResponse(w, http.StatusOK, bids)
}

// Winning handles GET /api/items/{id}/bids/winning.
func (h *BidsHandler) Winning(w http.ResponseWriter, r *http.Request) {
	itemID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	bid, err := h.Engine.WinningBid(r.Context(), itemID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get winning bid")
		return
	}
	if bid == nil {
		jsonError(w, http.StatusNotFound, "item has no bids")
		return
	}
	jsonResponse(w, http.StatusOK, bid)
}

// Get handles GET /api/bids/{id}.
func (h *BidsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid bid id")
		return
	}

	bid, err := store.GetBid(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get bid")
		return
	}
	if bid == nil {
		jsonError(w, http.StatusNotFound, "bid not found")
		return
	}
	jsonResponse(w, http.StatusOK, bid)
}

// Delete handles DELETE /api/bids/{id}. Only the bidder may delete their own
// bid, and only while the auction is still active.
func (h *BidsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid bid id")
		return
	}

	bid, err := store.GetBid(r.Context(), h.DB, id)
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
		jsonError(w, http.StatusForbidden, "only the bidder may delete this bid")
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, bid.ItemID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if item != nil && item.Status != model.ItemStatusActive {
		jsonError(w, http.StatusConflict, "auction is no longer active")
		return
	}

	if err := store.DeleteBid(r.Context(), h.DB, id); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to delete bid")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "bid deleted"})
}
