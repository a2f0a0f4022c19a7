package models

import "time"

// CheckoutState is the lifecycle of one checkout instance.
type CheckoutState string

const (
	CheckoutIdle       CheckoutState = "idle"
	CheckoutProcessing CheckoutState = "processing"
	CheckoutConfirmed  CheckoutState = "confirmed"
)

// PaymentDetails is the card form submitted with a checkout.
type PaymentDetails struct {
	NameOnCard string `json:"nameOnCard" validate:"required"`
	CardNumber string `json:"cardNumber" validate:"required,len=16,numeric"`
	Expiry     string `json:"expiry" validate:"required,datetime=01/06"`
	CVV        string `json:"cvv" validate:"required,min=3,max=4,numeric"`
}

// SummaryLine is one priced row of the order summary.
type SummaryLine struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// CheckoutSummary is derived from the cart; it is never stored.
type CheckoutSummary struct {
	Lines    []SummaryLine `json:"lines"`
	Subtotal float64       `json:"subtotal"`
	Shipping float64       `json:"shipping"`
	Total    float64       `json:"total"`
}

// CheckoutStatus reports the active checkout instance.
type CheckoutStatus struct {
	Token   uint64          `json:"token"`
	State   CheckoutState   `json:"state"`
	Summary CheckoutSummary `json:"summary"`
	OrderID string          `json:"orderId,omitempty"`
}

// OrderPlacedEvent is published after a settlement succeeds.
type OrderPlacedEvent struct {
	Event     string       `json:"event"`
	OrderID   string       `json:"order_id"`
	UserID    string       `json:"user_id"`
	Items     []ItemRecord `json:"items"`
	Subtotal  float64      `json:"subtotal"`
	Shipping  float64      `json:"shipping"`
	Total     float64      `json:"total"`
	Timestamp time.Time    `json:"timestamp"`
}
