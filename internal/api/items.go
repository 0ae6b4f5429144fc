package api

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/auctionsystem/auctionhouse/internal/imaging"
	"github.com/auctionsystem/auctionhouse/internal/model"
	"github.com/auctionsystem/auctionhouse/internal/store"
)

// ItemsHandler handles listing CRUD endpoints. Price and status mutations are
// not exposed here; they happen only through the auction engine.
type ItemsHandler struct {
	DB *sql.DB
}

type createItemRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	CategoryID  int64           `json:"category_id"`
	StartPrice  decimal.Decimal `json:"start_price"`
	EndTime     time.Time       `json:"end_time"`
}

type updateItemRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	EndTime     time.Time `json:"end_time"`
}

// List handles GET /api/items.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	items, err := store.ListItems(r.Context(), h.DB, status)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Create handles POST /api/items. The authenticated user becomes the seller.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req createItemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Title == "" || req.Description == "" {
		jsonError(w, http.StatusBadRequest, "title and description required")
		return
	}
	if req.StartPrice.Sign() < 0 {
		jsonError(w, http.StatusBadRequest, "start price must not be negative")
		return
	}
	if !req.EndTime.After(time.Now()) {
		jsonError(w, http.StatusBadRequest, "end time must be in the future")
		return
	}

	category, err := store.GetCategory(r.Context(), h.DB, req.CategoryID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if category == nil {
		jsonError(w, http.StatusBadRequest, "category not found")
		return
	}

	item, err := store.CreateItem(r.Context(), h.DB, claims.UserID, req.CategoryID,
		req.Title, req.Description, req.StartPrice, req.EndTime)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to create item")
		return
	}

	jsonResponse(w, http.StatusCreated, item)
}

// Get handles GET /api/items/{id}, returning the item with its bids.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	bids, err := store.ListBidsByItem(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get item bids")
		return
	}
	if bids == nil {
		bids = []model.Bid{}
	}

	jsonResponse(w, http.StatusOK, map[string]any{
		"item": item,
		"bids": bids,
	})
}

// Update handles PUT /api/items/{id}. Only the seller may update, and only
// while the auction is active.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	item, ok := h.ownedItem(w, r)
	if !ok {
		return
	}

	if item.Status != model.ItemStatusActive {
		jsonError(w, http.StatusConflict, "auction is no longer active")
		return
	}

	var req updateItemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Title == "" {
		req.Title = item.Title
	}
	if req.Description == "" {
		req.Description = item.Description
	}
	if req.EndTime.IsZero() {
		req.EndTime = item.EndTime
	} else if !req.EndTime.After(time.Now()) {
		jsonError(w, http.StatusBadRequest, "end time must be in the future")
		return
	}

	if err := store.UpdateItem(r.Context(), h.DB, item.ID, req.Title, req.Description, req.EndTime); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to update item")
		return
	}

	updated, _ := store.GetItem(r.Context(), h.DB, item.ID)
	jsonResponse(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/items/{id}. Only the seller may delete, and only
// while the auction is active; a closed auction has a winner or a sale record
// to preserve.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	item, ok := h.ownedItem(w, r)
	if !ok {
		return
	}

	if item.Status != model.ItemStatusActive {
		jsonError(w, http.StatusConflict, "auction is no longer active")
		return
	}

	if err := store.DeleteItem(r.Context(), h.DB, item.ID); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to delete item")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "item deleted"})
}

// UploadPhoto handles PUT /api/items/{id}/photo.
func (h *ItemsHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	item, ok := h.ownedItem(w, r)
	if !ok {
		return
	}

	// Limit to 10 MB.
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	file, _, err := r.FormFile("photo")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "photo file required")
		return
	}
	defer file.Close()

	photo, err := imaging.Process(file)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := store.SetItemPhoto(r.Context(), h.DB, item.ID, photo.Data, photo.MIME); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to save photo")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "photo uploaded"})
}

// GetPhoto handles GET /api/items/{id}/photo.
func (h *ItemsHandler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	data, mime, err := store.GetItemPhoto(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get photo")
		return
	}
	if data == nil {
		jsonError(w, http.StatusNotFound, "no photo")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(data)
}

// ownedItem loads the item from the path and verifies the authenticated user
// is its seller. Writes the error response itself when the check fails.
func (h *ItemsHandler) ownedItem(w http.ResponseWriter, r *http.Request) (*model.Item, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return nil, false
	}

	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return nil, false
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return nil, false
	}

	claims := GetClaims(r.Context())
	if claims == nil || claims.UserID != item.SellerID {
		jsonError(w, http.StatusForbidden, "only the seller may modify this item")
		return nil, false
	}

	return item, true
}
