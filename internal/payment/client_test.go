package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// newProviderStub starts a fake provider serving the token and orders
// endpoints.
func newProviderStub(t *testing.T, orderHandler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /pl/standard/user/oauth/authorize", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parsing token form: %v", err)
		}
		if got := r.PostForm.Get("grant_type"); got != "client_credentials" {
			t.Errorf("expected grant_type client_credentials, got %q", got)
		}
		if got := r.PostForm.Get("client_id"); got != "pos-1" {
			t.Errorf("expected client_id pos-1, got %q", got)
		}
		if got := r.PostForm.Get("client_secret"); got != "secret" {
			t.Errorf("expected client_secret to be sent, got %q", got)
		}
		json.NewEncoder(w).Encode(tokenResponse{AccessToken: "token-abc", TokenType: "bearer"})
	})
	mux.HandleFunc("POST /api/v2_1/orders", orderHandler)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		BaseURL:       server.URL,
		ClientID:      "pos-1",
		ClientSecret:  "secret",
		MerchantPosID: "pos-1",
		ContinueURL:   "https://shop.example.com/thanks",
		NotifyURL:     "https://shop.example.com/api/payments/notify",
	})
	return server, client
}

func TestCreateOrder(t *testing.T) {
	var received OrderRequest
	_, client := newProviderStub(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer token-abc" {
			t.Errorf("expected bearer token, got %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("expected json content type, got %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decoding order: %v", err)
		}
		json.NewEncoder(w).Encode(OrderResponse{
			OrderID:     "ORDER-1",
			RedirectURI: "https://pay.example.com/ORDER-1",
			StatusCode:  "SUCCESS",
		})
	})

	resp, err := client.CreateOrder(context.Background(), OrderRequest{
		CustomerIP:   "203.0.113.7",
		Description:  "Vintage clock",
		CurrencyCode: "PLN",
		TotalAmount:  "15000",
		Products:     []Product{{Name: "Vintage clock", UnitPrice: 15000, Quantity: 1, Virtual: true}},
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if resp.OrderID != "ORDER-1" {
		t.Errorf("expected order id ORDER-1, got %q", resp.OrderID)
	}
	if resp.RedirectURI != "https://pay.example.com/ORDER-1" {
		t.Errorf("unexpected redirect uri %q", resp.RedirectURI)
	}

	// Merchant identity and callback URLs come from the client config.
	if received.MerchantPosID != "pos-1" {
		t.Errorf("expected merchant pos id from config, got %q", received.MerchantPosID)
	}
	if received.ContinueURL != "https://shop.example.com/thanks" {
		t.Errorf("expected continue url from config, got %q", received.ContinueURL)
	}
	if received.NotifyURL != "https://shop.example.com/api/payments/notify" {
		t.Errorf("expected notify url from config, got %q", received.NotifyURL)
	}
}

func TestCreateOrderFollowsRedirectBody(t *testing.T) {
	// The provider answers with a 302 whose body carries the JSON. The
	// client must read that body instead of chasing the Location header.
	_, client := newProviderStub(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Location", "https://pay.example.com/ORDER-2")
		w.WriteHeader(http.StatusFound)
		json.NewEncoder(w).Encode(OrderResponse{
			OrderID:     "ORDER-2",
			RedirectURI: "https://pay.example.com/ORDER-2",
		})
	})

	resp, err := client.CreateOrder(context.Background(), OrderRequest{TotalAmount: "100"})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if resp.OrderID != "ORDER-2" {
		t.Errorf("expected order id ORDER-2, got %q", resp.OrderID)
	}
}

func TestCreateOrderProviderError(t *testing.T) {
	_, client := newProviderStub(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"status":{"statusCode":"UNAUTHORIZED"}}`, http.StatusUnauthorized)
	})

	_, err := client.CreateOrder(context.Background(), OrderRequest{TotalAmount: "100"})
	if err == nil {
		t.Fatal("expected error for provider 401")
	}
	if !strings.Contains(err.Error(), "401") {
		t.Errorf("expected status code in error, got %v", err)
	}
}

func TestCreateOrderTokenFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /pl/standard/user/oauth/authorize", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad credentials", http.StatusUnauthorized)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{BaseURL: server.URL, ClientID: "x", ClientSecret: "y"})
	_, err := client.CreateOrder(context.Background(), OrderRequest{TotalAmount: "100"})
	if err == nil {
		t.Fatal("expected error when token exchange fails")
	}
}

func TestCreateOrderMissingOrderID(t *testing.T) {
	_, client := newProviderStub(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(OrderResponse{StatusCode: "SUCCESS"})
	})

	_, err := client.CreateOrder(context.Background(), OrderRequest{TotalAmount: "100"})
	if err == nil {
		t.Fatal("expected error for response without order id")
	}
}
