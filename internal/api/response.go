package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/auctionsystem/auctionhouse/internal/auction"
	"github.com/auctionsystem/auctionhouse/internal/payment"
)

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("encoding response", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}

// serviceError maps core sentinel errors to HTTP statuses. Anything
// unrecognized is a 500 and gets logged.
func serviceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auction.ErrNotFound):
		jsonError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, auction.ErrInvalidBidAmount),
		errors.Is(err, auction.ErrInvalidAuctionState):
		jsonError(w, http.StatusConflict, err.Error())
	case errors.Is(err, payment.ErrGateway):
		jsonError(w, http.StatusBadGateway, "payment gateway unavailable")
	default:
		slog.Error("internal error", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
	}
}
