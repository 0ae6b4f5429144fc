package payment

import "context"

// OrderRequest is the create-order payload sent to the payment provider.
// Field names follow the provider's JSON contract.
type OrderRequest struct {
	ContinueURL   string    `json:"continueUrl,omitempty"`
	NotifyURL     string    `json:"notifyUrl,omitempty"`
	CustomerIP    string    `json:"customerIp"`
	MerchantPosID string    `json:"merchantPosId"`
	Description   string    `json:"description"`
	CurrencyCode  string    `json:"currencyCode"`
	TotalAmount   string    `json:"totalAmount"`
	ExtOrderID    string    `json:"extOrderId,omitempty"`
	Products      []Product `json:"products"`
	Buyer         *Buyer    `json:"buyer,omitempty"`
}

// Product is a single order line. Auction checkouts always carry exactly one,
// the won item, priced in minor currency units.
type Product struct {
	Name      string `json:"name"`
	UnitPrice int64  `json:"unitPrice"`
	Quantity  int    `json:"quantity"`
	Virtual   bool   `json:"virtual"`
}

// Buyer identifies the paying customer to the provider.
type Buyer struct {
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// OrderResponse is the provider's answer to a create-order call. OrderID is
// the provider-side transaction id used to correlate notifications.
type OrderResponse struct {
	OrderID     string `json:"orderId"`
	RedirectURI string `json:"redirectUri"`
	StatusCode  string `json:"statusCode"`
	Error       string `json:"error,omitempty"`
}

// Notification is the webhook payload the provider posts when an order
// changes state.
type Notification struct {
	Order NotificationOrder `json:"order"`
}

// NotificationOrder carries the order id and its new status.
type NotificationOrder struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}

// Gateway creates payment orders with an external provider. Implemented by
// Client; tests substitute a fake.
type Gateway interface {
	CreateOrder(ctx context.Context, req OrderRequest) (*OrderResponse, error)
}
