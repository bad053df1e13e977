package cart

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/example/storefront/internal/domain/aggregate"
	"github.com/example/storefront/internal/infrastructure/store"
)

const AggregateType = "Cart"

var (
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrInvalidProduct  = errors.New("product_id is required")
	ErrLineNotFound    = errors.New("cart line not found")
)

// Line is one entry in a cart. The unit price is snapshotted at the moment
// the line is added, so later catalog changes do not reprice the cart.
type Line struct {
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

type Cart struct {
	ID      string          `json:"id"`
	UserID  string          `json:"user_id"`
	Lines   map[string]Line `json:"lines"` // lineID -> line
	Version int             `json:"version"`
}

func (c *Cart) GetID() string    { return c.ID }
func (c *Cart) GetVersion() int  { return c.Version }
func (c *Cart) SetVersion(v int) { c.Version = v }

// GetCartID returns the cart ID for a user. One cart per user.
func GetCartID(userID string) string {
	return "cart-" + userID
}

// LineID derives the cart line key. Sized products get one line per size so
// the same product in two sizes never merges.
func LineID(productID, size string) string {
	if size == "" {
		return productID
	}
	return productID + "-" + size
}

// ApplyEvent applies a single event to the cart state
func (c *Cart) ApplyEvent(event store.Event) error {
	switch event.EventType {
	case EventLineAdded:
		var data CartLineAdded
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		if c.Lines == nil {
			c.Lines = make(map[string]Line)
		}
		c.ID = data.CartID
		c.UserID = data.UserID
		if existing, ok := c.Lines[data.LineID]; ok {
			// Same product and size merges; keep the original price snapshot
			existing.Quantity += data.Quantity
			c.Lines[data.LineID] = existing
		} else {
			c.Lines[data.LineID] = Line{
				LineID:          data.LineID,
				ProductID:       data.ProductID,
				Name:            data.Name,
				UnitPrice:       data.UnitPrice,
				DiscountedPrice: data.DiscountedPrice,
				ImageURL:        data.ImageURL,
				Size:            data.Size,
				Quantity:        data.Quantity,
				AddedAt:         data.AddedAt,
			}
		}
	case EventLineQuantitySet:
		var data CartLineQuantitySet
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		if line, ok := c.Lines[data.LineID]; ok {
			line.Quantity = data.Quantity
			c.Lines[data.LineID] = line
		}
	case EventLineRemoved:
		var data CartLineRemoved
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		delete(c.Lines, data.LineID)
	}
	c.Version = event.Version
	return nil
}

type Service struct {
	eventStore store.EventStoreInterface
}

func NewService(es store.EventStoreInterface) *Service {
	return &Service{eventStore: es}
}

func (s *Service) loadCart(ctx context.Context, userID string) (*Cart, error) {
	cartID := GetCartID(userID)
	cart, _, err := aggregate.LoadAggregate(ctx, s.eventStore, cartID, func() *Cart {
		return &Cart{ID: cartID, UserID: userID, Lines: make(map[string]Line)}
	})
	return cart, err
}

func (s *Service) snapshotCheck(ctx context.Context, cart *Cart) {
	if err := aggregate.MaybeCreateSnapshot(ctx, s.eventStore, cart, AggregateType); err != nil {
		log.Printf("[Cart] Failed to create snapshot for cart %s: %v", cart.ID, err)
	}
}

// AddLine adds a product to the user's cart, merging with an existing line
// for the same product and size
func (s *Service) AddLine(ctx context.Context, userID string, line Line) error {
	if line.ProductID == "" {
		return ErrInvalidProduct
	}
	if line.Quantity <= 0 {
		return ErrInvalidQuantity
	}

	cart, err := s.loadCart(ctx, userID)
	if err != nil {
		return err
	}

	cartID := GetCartID(userID)
	lineID := LineID(line.ProductID, line.Size)

	event := CartLineAdded{
		CartID:          cartID,
		UserID:          userID,
		LineID:          lineID,
		ProductID:       line.ProductID,
		Name:            line.Name,
		UnitPrice:       line.UnitPrice,
		DiscountedPrice: line.DiscountedPrice,
		ImageURL:        line.ImageURL,
		Size:            line.Size,
		Quantity:        line.Quantity,
		AddedAt:         time.Now(),
	}

	storedEvent, err := s.eventStore.Append(ctx, cartID, AggregateType, EventLineAdded, event)
	if err != nil {
		return err
	}

	cart.ApplyEvent(*storedEvent)
	s.snapshotCheck(ctx, cart)

	return nil
}

// SetQuantity replaces the quantity of an existing line. Quantities below
// one are rejected; removal is an explicit operation.
func (s *Service) SetQuantity(ctx context.Context, userID, lineID string, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	cart, err := s.loadCart(ctx, userID)
	if err != nil {
		return err
	}
	if _, ok := cart.Lines[lineID]; !ok {
		return ErrLineNotFound
	}

	cartID := GetCartID(userID)

	event := CartLineQuantitySet{
		CartID:   cartID,
		UserID:   userID,
		LineID:   lineID,
		Quantity: quantity,
		SetAt:    time.Now(),
	}

	storedEvent, err := s.eventStore.Append(ctx, cartID, AggregateType, EventLineQuantitySet, event)
	if err != nil {
		return err
	}

	cart.ApplyEvent(*storedEvent)
	s.snapshotCheck(ctx, cart)

	return nil
}

// RemoveLine removes a line from the cart
func (s *Service) RemoveLine(ctx context.Context, userID, lineID string) error {
	cart, err := s.loadCart(ctx, userID)
	if err != nil {
		return err
	}
	if _, ok := cart.Lines[lineID]; !ok {
		return ErrLineNotFound
	}

	cartID := GetCartID(userID)

	event := CartLineRemoved{
		CartID:    cartID,
		UserID:    userID,
		LineID:    lineID,
		RemovedAt: time.Now(),
	}

	storedEvent, err := s.eventStore.Append(ctx, cartID, AggregateType, EventLineRemoved, event)
	if err != nil {
		return err
	}

	cart.ApplyEvent(*storedEvent)
	s.snapshotCheck(ctx, cart)

	return nil
}

// ClearOrdered removes exactly the given lines after a successful checkout.
// Failures are logged per line and do not fail the order.
func (s *Service) ClearOrdered(ctx context.Context, userID string, lineIDs []string) {
	for _, lineID := range lineIDs {
		if err := s.RemoveLine(ctx, userID, lineID); err != nil {
			log.Printf("[Cart] Failed to clear ordered line %s for user %s: %v", lineID, userID, err)
		}
	}
}

// Load returns the current cart state for a user
func (s *Service) Load(ctx context.Context, userID string) (*Cart, error) {
	return s.loadCart(ctx, userID)
}
