package product

import (
	"context"
	"errors"
	"time"

	"github.com/example/storefront/internal/infrastructure/store"
	"github.com/google/uuid"
)

const AggregateType = "Product"

// Availability states shown in the catalog
const (
	AvailabilityInStock    = "InStock"
	AvailabilityOutOfStock = "OutOfStock"
	AvailabilityPreOrder   = "PreOrder"
)

var (
	ErrProductNotFound     = errors.New("product not found")
	ErrInvalidName         = errors.New("name is required")
	ErrInvalidCategory     = errors.New("category is required")
	ErrInvalidDescription  = errors.New("description is required")
	ErrInvalidImage        = errors.New("main image is required")
	ErrInvalidQuantity     = errors.New("quantity must be positive")
	ErrInvalidAvailability = errors.New("unknown availability state")
	ErrUnresolvablePrice   = errors.New("either a price or a discount pair is required")
)

// Details carries the writable fields of a product
type Details struct {
	Name             string
	Category         string
	Description      string
	Specifications   string
	MainImageURL     string
	GalleryImageURLs []string
	Price            int
	OriginalPrice    int
	DiscountedPrice  int
	Availability     string
	Quantity         int
}

type Service struct {
	eventStore store.EventStoreInterface
}

func NewService(es store.EventStoreInterface) *Service {
	return &Service{eventStore: es}
}

// resolvePricing normalizes the price fields so a product carries either a
// plain price or an original/discounted pair, never both. Returns the
// normalized price, original and discounted values.
func resolvePricing(price, original, discounted int) (int, int, int, error) {
	if discounted > 0 {
		if original <= 0 {
			return 0, 0, 0, ErrUnresolvablePrice
		}
		return 0, original, discounted, nil
	}
	if price > 0 {
		return price, 0, 0, nil
	}
	return 0, 0, 0, ErrUnresolvablePrice
}

func validateDetails(d Details) error {
	if d.Name == "" {
		return ErrInvalidName
	}
	if d.Category == "" {
		return ErrInvalidCategory
	}
	if d.Description == "" {
		return ErrInvalidDescription
	}
	if d.MainImageURL == "" {
		return ErrInvalidImage
	}
	if d.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	switch d.Availability {
	case AvailabilityInStock, AvailabilityOutOfStock, AvailabilityPreOrder:
	default:
		return ErrInvalidAvailability
	}
	return nil
}

// Create validates the product details and emits ProductCreated
func (s *Service) Create(ctx context.Context, d Details) (string, error) {
	if err := validateDetails(d); err != nil {
		return "", err
	}

	price, original, discounted, err := resolvePricing(d.Price, d.OriginalPrice, d.DiscountedPrice)
	if err != nil {
		return "", err
	}

	productID := uuid.New().String()

	event := ProductCreated{
		ProductID:        productID,
		Name:             d.Name,
		Category:         d.Category,
		Description:      d.Description,
		Specifications:   d.Specifications,
		MainImageURL:     d.MainImageURL,
		GalleryImageURLs: d.GalleryImageURLs,
		Price:            price,
		OriginalPrice:    original,
		DiscountedPrice:  discounted,
		Availability:     d.Availability,
		Quantity:         d.Quantity,
		CreatedAt:        time.Now(),
	}

	if _, err := s.eventStore.Append(ctx, productID, AggregateType, EventProductCreated, event); err != nil {
		return "", err
	}

	return productID, nil
}

// Update validates the new details and emits ProductUpdated
func (s *Service) Update(ctx context.Context, productID string, d Details) error {
	if err := validateDetails(d); err != nil {
		return err
	}

	price, original, discounted, err := resolvePricing(d.Price, d.OriginalPrice, d.DiscountedPrice)
	if err != nil {
		return err
	}

	events := s.eventStore.GetEvents(productID)
	if len(events) == 0 {
		return ErrProductNotFound
	}

	event := ProductUpdated{
		ProductID:        productID,
		Name:             d.Name,
		Category:         d.Category,
		Description:      d.Description,
		Specifications:   d.Specifications,
		MainImageURL:     d.MainImageURL,
		GalleryImageURLs: d.GalleryImageURLs,
		Price:            price,
		OriginalPrice:    original,
		DiscountedPrice:  discounted,
		Availability:     d.Availability,
		Quantity:         d.Quantity,
		UpdatedAt:        time.Now(),
	}

	_, err = s.eventStore.Append(ctx, productID, AggregateType, EventProductUpdated, event)
	return err
}

// Delete emits ProductDeleted. Existing carts and orders keep their price
// snapshots, so no cascade happens here.
func (s *Service) Delete(ctx context.Context, productID string) error {
	events := s.eventStore.GetEvents(productID)
	if len(events) == 0 {
		return ErrProductNotFound
	}

	event := ProductDeleted{
		ProductID: productID,
		DeletedAt: time.Now(),
	}

	_, err := s.eventStore.Append(ctx, productID, AggregateType, EventProductDeleted, event)
	return err
}
