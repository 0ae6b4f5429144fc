package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ClientConfig holds the provider credentials and endpoints. The defaults
// match a PayU-style sandbox: an OAuth client-credentials token endpoint and
// a JSON orders endpoint.
type ClientConfig struct {
	BaseURL       string
	ClientID      string
	ClientSecret  string
	MerchantPosID string
	ContinueURL   string
	NotifyURL     string
}

// Client talks to the payment provider over HTTP.
type Client struct {
	cfg  ClientConfig
	http *http.Client
}

// NewClient creates a gateway client. Redirects are not followed because the
// provider answers create-order with a 302 whose body still carries the JSON
// we need.
func NewClient(cfg ClientConfig) *Client {
	return &Client{
		cfg: cfg,
		http: &http.Client{
			Timeout: 10 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// tokenResponse is the OAuth token endpoint's answer.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// accessToken performs the client-credentials exchange.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.cfg.ClientID)
	form.Set("client_secret", c.cfg.ClientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+"/pl/standard/user/oauth/authorize",
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return "", fmt.Errorf("building token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("requesting token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token endpoint returned %d", resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("decoding token response: %w", err)
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("token endpoint returned empty access token")
	}
	return tr.AccessToken, nil
}

// CreateOrder creates a payment order with the provider. The client fills in
// the merchant identity and callback URLs from its config.
func (c *Client) CreateOrder(ctx context.Context, order OrderRequest) (*OrderResponse, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	if order.MerchantPosID == "" {
		order.MerchantPosID = c.cfg.MerchantPosID
	}
	if order.ContinueURL == "" {
		order.ContinueURL = c.cfg.ContinueURL
	}
	if order.NotifyURL == "" {
		order.NotifyURL = c.cfg.NotifyURL
	}

	body, err := json.Marshal(order)
	if err != nil {
		return nil, fmt.Errorf("encoding order: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+"/api/v2_1/orders", bytes.NewReader(body),
	)
	if err != nil {
		return nil, fmt.Errorf("building order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("creating order: %w", err)
	}
	defer resp.Body.Close()

	// 302 is a success here, see NewClient.
	if resp.StatusCode >= http.StatusBadRequest {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("order endpoint returned %d: %s", resp.StatusCode, msg)
	}

	var or OrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&or); err != nil {
		return nil, fmt.Errorf("decoding order response: %w", err)
	}
	if or.OrderID == "" {
		return nil, fmt.Errorf("order endpoint returned no order id")
	}
	return &or, nil
}
