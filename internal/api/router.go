package api

import (
	"database/sql"
	"net/http"

	"github.com/auctionsystem/auctionhouse/internal/auction"
	"github.com/auctionsystem/auctionhouse/internal/payment"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, jwtSecret string, engine *auction.Engine, payments *payment.Service) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	usersHandler := &UsersHandler{DB: db}
	categoriesHandler := &CategoriesHandler{DB: db}
	itemsHandler := &ItemsHandler{DB: db}
	bidsHandler := &BidsHandler{DB: db, Engine: engine}
	paymentsHandler := &PaymentsHandler{DB: db, Service: payments}

	authMW := AuthMiddleware(jwtSecret, db)

	// Public: registration, login, and the payment provider webhook.
	mux.HandleFunc("POST /api/users", usersHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/payments/notify", paymentsHandler.Notify)

	// Public reads: browsing needs no account.
	mux.HandleFunc("GET /api/categories", categoriesHandler.List)
	mux.HandleFunc("GET /api/categories/{id}", categoriesHandler.Get)
	mux.HandleFunc("GET /api/items", itemsHandler.List)
	mux.HandleFunc("GET /api/items/{id}", itemsHandler.Get)
	mux.HandleFunc("GET /api/items/{id}/photo", itemsHandler.GetPhoto)
	mux.HandleFunc("GET /api/items/{id}/bids", bidsHandler.ListByItem)
	mux.HandleFunc("GET /api/items/{id}/bids/winning", bidsHandler.Winning)
	mux.HandleFunc("GET /api/bids/{id}", bidsHandler.Get)

	// Session management.
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))

	// Accounts (self-only mutation, enforced in the handlers).
	mux.Handle("GET /api/users/{id}", authMW(http.HandlerFunc(usersHandler.Get)))
	mux.Handle("PUT /api/users/{id}", authMW(http.HandlerFunc(usersHandler.Update)))
	mux.Handle("DELETE /api/users/{id}", authMW(http.HandlerFunc(usersHandler.Delete)))

	// Categories.
	mux.Handle("POST /api/categories", authMW(http.HandlerFunc(categoriesHandler.Create)))
	mux.Handle("PUT /api/categories/{id}", authMW(http.HandlerFunc(categoriesHandler.Update)))
	mux.Handle("DELETE /api/categories/{id}", authMW(http.HandlerFunc(categoriesHandler.Delete)))

	// Listings (seller-only mutation, enforced in the handlers).
	mux.Handle("POST /api/items", authMW(http.HandlerFunc(itemsHandler.Create)))
	mux.Handle("PUT /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Update)))
	mux.Handle("DELETE /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Delete)))
	mux.Handle("PUT /api/items/{id}/photo", authMW(http.HandlerFunc(itemsHandler.UploadPhoto)))

	// Bidding.
	mux.Handle("POST /api/items/{id}/bids", authMW(http.HandlerFunc(bidsHandler.Place)))
	mux.Handle("DELETE /api/bids/{id}", authMW(http.HandlerFunc(bidsHandler.Delete)))

	// Payment initiation (winning bidder only, enforced in the handler).
	mux.Handle("POST /api/payments/{bidId}", authMW(http.HandlerFunc(paymentsHandler.Pay)))

	return mux
}
