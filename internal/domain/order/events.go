package order

import "time"

const (
	EventOrderPlaced    = "OrderPlaced"
	EventOrderFulfilled = "OrderFulfilled"
	EventOrderRejected  = "OrderRejected"
)

// ItemSnapshot captures an ordered product at checkout time. Later catalog
// edits or deletions never change a placed order.
type ItemSnapshot struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int    `json:"unit_price"`
	ImageURL  string `json:"image_url,omitempty"`
	Size      string `json:"size,omitempty"`
}

type OrderPlaced struct {
	OrderID      string         `json:"order_id"`
	UserID       string         `json:"user_id"`
	CustomerName string         `json:"customer_name"`
	Email        string         `json:"email"`
	Phone        string         `json:"phone"`
	Address      string         `json:"address"`
	Items        []ItemSnapshot `json:"items"`
	Total        int            `json:"total"`
	ProofURL     string         `json:"proof_url"`
	PlacedAt     time.Time      `json:"placed_at"`
}

type OrderFulfilled struct {
	OrderID     string    `json:"order_id"`
	FulfilledAt time.Time `json:"fulfilled_at"`
}

type OrderRejected struct {
	OrderID    string    `json:"order_id"`
	Reason     string    `json:"reason,omitempty"`
	RejectedAt time.Time `json:"rejected_at"`
}
