package product

import "time"

const (
	EventProductCreated = "ProductCreated"
	EventProductUpdated = "ProductUpdated"
	EventProductDeleted = "ProductDeleted"
)

type ProductCreated struct {
	ProductID        string    `json:"product_id"`
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
}

type ProductUpdated struct {
	ProductID        string    `json:"product_id"`
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
	UpdatedAt        time.Time `json:"updated_at"`
}

type ProductDeleted struct {
	ProductID string    `json:"product_id"`
	DeletedAt time.Time `json:"deleted_at"`
}
