package cart

import "time"

const (
	EventLineAdded       = "CartLineAdded"
	EventLineQuantitySet = "CartLineQuantitySet"
	EventLineRemoved     = "CartLineRemoved"
)

type CartLineAdded struct {
	CartID          string    `json:"cart_id"`
	UserID          string    `json:"user_id"`
	LineID          string    `json:"line_id"`
	ProductID       string    `json:"product_id"`
	Name            string    `json:"name"`
	UnitPrice       int       `json:"unit_price"`
	DiscountedPrice int       `json:"discounted_price,omitempty"`
	ImageURL        string    `json:"image_url,omitempty"`
	Size            string    `json:"size,omitempty"`
	Quantity        int       `json:"quantity"`
	AddedAt         time.Time `json:"added_at"`
}

type CartLineQuantitySet struct {
	CartID   string    `json:"cart_id"`
	UserID   string    `json:"user_id"`
	LineID   string    `json:"line_id"`
	Quantity int       `json:"quantity"`
	SetAt    time.Time `json:"set_at"`
}

type CartLineRemoved struct {
	CartID    string    `json:"cart_id"`
	UserID    string    `json:"user_id"`
	LineID    string    `json:"line_id"`
	RemovedAt time.Time `json:"removed_at"`
}
