package command

// Product commands

type CreateProduct struct {
	Name             string   `json:"name"`
	Category         string   `json:"category"`
	Description      string   `json:"description"`
	Specifications   string   `json:"specifications,omitempty"`
	MainImageURL     string   `json:"main_image_url"`
	GalleryImageURLs []string `json:"gallery_image_urls,omitempty"`
	Price            int      `json:"price,omitempty"`
	OriginalPrice    int      `json:"original_price,omitempty"`
	DiscountedPrice  int      `json:"discounted_price,omitempty"`
	Availability     string   `json:"availability"`
	Quantity         int      `json:"quantity"`
}

type UpdateProduct struct {
	ProductID        string   `json:"product_id"`
	Name             string   `json:"name"`
	Category         string   `json:"category"`
	Description      string   `json:"description"`
	Specifications   string   `json:"specifications,omitempty"`
	MainImageURL     string   `json:"main_image_url"`
	GalleryImageURLs []string `json:"gallery_image_urls,omitempty"`
	Price            int      `json:"price,omitempty"`
	OriginalPrice    int      `json:"original_price,omitempty"`
	DiscountedPrice  int      `json:"discounted_price,omitempty"`
	Availability     string   `json:"availability"`
	Quantity         int      `json:"quantity"`
}

type DeleteProduct struct {
	ProductID string `json:"product_id"`
}

// Cart commands

type AddToCart struct {
	UserID    string `json:"user_id"`
	ProductID string `json:"product_id"`
	Size      string `json:"size,omitempty"`
	Quantity  int    `json:"quantity"`
}

type SetCartQuantity struct {
	UserID   string `json:"user_id"`
	LineID   string `json:"line_id"`
	Quantity int    `json:"quantity"`
}

type RemoveFromCart struct {
	UserID string `json:"user_id"`
	LineID string `json:"line_id"`
}

// Order commands

type FulfillOrder struct {
	OrderID string `json:"order_id"`
}

type RejectOrder struct {
	OrderID string `json:"order_id"`
	Reason  string `json:"reason,omitempty"`
}

// Review commands

type SubmitReview struct {
	UserID      string `json:"user_id"`
	ProductID   string `json:"product_id,omitempty"`
	DisplayName string `json:"display_name"`
	Body        string `json:"body"`
	Rating      int    `json:"rating"`
	PhotoURL    string `json:"photo_url,omitempty"`
}

// Message commands

type SubmitMessage struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Body  string `json:"body"`
}

type DeleteMessage struct {
	MessageID string `json:"message_id"`
}
