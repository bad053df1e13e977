package readmodel

import "time"

// ProductReadModel is the read model for catalog products.
// Exactly one of Price and DiscountedPrice is the current sale price:
// when DiscountedPrice is set, Price is zero and OriginalPrice holds the
// struck-through amount.
type ProductReadModel struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Category         string    `json:"category"`
	Description      string    `json:"description"`
	Specifications   string    `json:"specifications,omitempty"`
	MainImageURL     string    `json:"main_image_url"`
	GalleryImageURLs []string  `json:"gallery_image_urls,omitempty"`
	Price            int       `json:"price,omitempty"`
	OriginalPrice    int       `json:"original_price,omitempty"`
	DiscountedPrice  int       `json:"discounted_price,omitempty"`
	Availability     string    `json:"availability"`
	Quantity         int       `json:"quantity"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// EffectivePrice resolves the price shown to and charged against the customer
func (p *ProductReadModel) EffectivePrice() int {
	if p.DiscountedPrice > 0 {
		return p.DiscountedPrice
	}
	return p.Price
}

// CartLineReadModel is one line in a user's cart. LineID is the compound
// key of product ID plus optional size.
type CartLineReadModel struct {
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

// EffectiveUnitPrice returns the discounted price if present, else the unit price
func (l CartLineReadModel) EffectiveUnitPrice() int {
	if l.DiscountedPrice > 0 {
		return l.DiscountedPrice
	}
	return l.UnitPrice
}

// CartReadModel is the read model for a user's cart
type CartReadModel struct {
	ID     string              `json:"id"`
	UserID string              `json:"user_id"`
	Lines  []CartLineReadModel `json:"lines"`
	Total  int                 `json:"total"`
}

// OrderItemReadModel is a snapshot of an ordered product, decoupled from
// live product state
type OrderItemReadModel struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int    `json:"unit_price"`
	ImageURL  string `json:"image_url,omitempty"`
	Size      string `json:"size,omitempty"`
}

// OrderReadModel is the read model for orders
type OrderReadModel struct {
	ID           string               `json:"id"`
	UserID       string               `json:"user_id"`
	CustomerName string               `json:"customer_name"`
	Email        string               `json:"email"`
	Phone        string               `json:"phone"`
	Address      string               `json:"address"`
	Items        []OrderItemReadModel `json:"items"`
	Total        int                  `json:"total"`
	ProofURL     string               `json:"proof_url"`
	Status       string               `json:"status"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// ReviewReadModel is the read model for product reviews and site
// testimonials (ProductID empty for testimonials)
type ReviewReadModel struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	ProductID   string    `json:"product_id,omitempty"`
	DisplayName string    `json:"display_name"`
	Body        string    `json:"body"`
	Rating      int       `json:"rating"`
	PhotoURL    string    `json:"photo_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MessageReadModel is the read model for contact messages
type MessageReadModel struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// UserReadModel is the read model for users
type UserReadModel struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	Name         string    `json:"name"`
	Phone        string    `json:"phone,omitempty"`
	PhotoURL     string    `json:"photo_url,omitempty"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SessionReadModel is the read model for user sessions
type SessionReadModel struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	RefreshTokenHash string    `json:"-"`
	ExpiresAt        time.Time `json:"expires_at"`
	CreatedAt        time.Time `json:"created_at"`
	IPAddress        string    `json:"ip_address"`
	UserAgent        string    `json:"user_agent"`
}
