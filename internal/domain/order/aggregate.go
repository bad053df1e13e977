package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/example/storefront/internal/domain/aggregate"
	"github.com/example/storefront/internal/infrastructure/store"
	"github.com/google/uuid"
)

const AggregateType = "Order"

type Status string

const (
	StatusPending   Status = "pending"
	StatusFulfilled Status = "fulfilled"
	StatusRejected  Status = "rejected"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrEmptyOrder    = errors.New("order must have at least one item")
	ErrMissingProof  = errors.New("payment proof is required")
	ErrOrderFinal    = errors.New("order is already finalized")
	ErrInvalidStatus = errors.New("invalid order status transition")
)

// validTransitions defines allowed state transitions. Fulfillment and
// rejection are both terminal; there is no path back to pending.
var validTransitions = map[Status][]Status{
	StatusPending:   {StatusFulfilled, StatusRejected},
	StatusFulfilled: {},
	StatusRejected:  {},
}

type Order struct {
	ID           string         `json:"id"`
	UserID       string         `json:"user_id"`
	CustomerName string         `json:"customer_name"`
	Email        string         `json:"email"`
	Phone        string         `json:"phone"`
	Address      string         `json:"address"`
	Items        []ItemSnapshot `json:"items"`
	Total        int            `json:"total"`
	ProofURL     string         `json:"proof_url"`
	Status       Status         `json:"status"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	Version      int            `json:"version"`
}

func (o *Order) GetID() string    { return o.ID }
func (o *Order) GetVersion() int  { return o.Version }
func (o *Order) SetVersion(v int) { o.Version = v }

// Ref returns the short reference shown to customers: the last 8 characters
// of the order ID, uppercased.
func (o *Order) Ref() string {
	return Ref(o.ID)
}

// Ref derives a customer-facing order reference from an order ID
func Ref(orderID string) string {
	if len(orderID) <= 8 {
		return strings.ToUpper(orderID)
	}
	return strings.ToUpper(orderID[len(orderID)-8:])
}

// CanTransitionTo checks if the order can transition to the target status
func (o *Order) CanTransitionTo(target Status) bool {
	allowed, exists := validTransitions[o.Status]
	if !exists {
		return false
	}
	for _, s := range allowed {
		if s == target {
			return true
		}
	}
	return false
}

func (o *Order) transitionError(target Status) error {
	if o.Status == StatusFulfilled || o.Status == StatusRejected {
		return ErrOrderFinal
	}
	return fmt.Errorf("%w: cannot transition from %s to %s", ErrInvalidStatus, o.Status, target)
}

// ApplyEvent applies a single event to the order state
func (o *Order) ApplyEvent(event store.Event) error {
	switch event.EventType {
	case EventOrderPlaced:
		var data OrderPlaced
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		o.ID = data.OrderID
		o.UserID = data.UserID
		o.CustomerName = data.CustomerName
		o.Email = data.Email
		o.Phone = data.Phone
		o.Address = data.Address
		o.Items = data.Items
		o.Total = data.Total
		o.ProofURL = data.ProofURL
		o.Status = StatusPending
		o.CreatedAt = data.PlacedAt
		o.UpdatedAt = data.PlacedAt
	case EventOrderFulfilled:
		var data OrderFulfilled
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		o.Status = StatusFulfilled
		o.UpdatedAt = data.FulfilledAt
	case EventOrderRejected:
		var data OrderRejected
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		o.Status = StatusRejected
		o.UpdatedAt = data.RejectedAt
	}
	o.Version = event.Version
	return nil
}

type Service struct {
	eventStore store.EventStoreInterface
}

func NewService(es store.EventStoreInterface) *Service {
	return &Service{eventStore: es}
}

func (s *Service) loadOrder(ctx context.Context, orderID string) (*Order, error) {
	order, found, err := aggregate.LoadAggregate(ctx, s.eventStore, orderID, func() *Order {
		return &Order{}
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// PlaceDetails carries the customer and payment details for a new order
type PlaceDetails struct {
	UserID       string
	CustomerName string
	Email        string
	Phone        string
	Address      string
	Items        []ItemSnapshot
	ProofURL     string
}

// Place creates a new pending order. Every order starts pending and carries
// an uploaded payment proof.
func (s *Service) Place(ctx context.Context, d PlaceDetails) (*Order, error) {
	if len(d.Items) == 0 {
		return nil, ErrEmptyOrder
	}
	if d.ProofURL == "" {
		return nil, ErrMissingProof
	}

	orderID := uuid.New().String()
	now := time.Now()

	var total int
	for _, item := range d.Items {
		total += item.UnitPrice * item.Quantity
	}

	event := OrderPlaced{
		OrderID:      orderID,
		UserID:       d.UserID,
		CustomerName: d.CustomerName,
		Email:        d.Email,
		Phone:        d.Phone,
		Address:      d.Address,
		Items:        d.Items,
		Total:        total,
		ProofURL:     d.ProofURL,
		PlacedAt:     now,
	}

	storedEvent, err := s.eventStore.Append(ctx, orderID, AggregateType, EventOrderPlaced, event)
	if err != nil {
		return nil, err
	}

	version := 0
	if storedEvent != nil {
		version = storedEvent.Version
	}

	order := &Order{
		ID:           orderID,
		UserID:       d.UserID,
		CustomerName: d.CustomerName,
		Email:        d.Email,
		Phone:        d.Phone,
		Address:      d.Address,
		Items:        d.Items,
		Total:        total,
		ProofURL:     d.ProofURL,
		Status:       StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
		Version:      version,
	}

	if err := aggregate.MaybeCreateSnapshot(ctx, s.eventStore, order, AggregateType); err != nil {
		log.Printf("[Order] Failed to create snapshot for order %s: %v", order.ID, err)
	}

	return order, nil
}

// Fulfill marks a pending order as fulfilled
func (s *Service) Fulfill(ctx context.Context, orderID string) error {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return err
	}

	if !order.CanTransitionTo(StatusFulfilled) {
		return order.transitionError(StatusFulfilled)
	}

	event := OrderFulfilled{
		OrderID:     orderID,
		FulfilledAt: time.Now(),
	}

	storedEvent, err := s.eventStore.Append(ctx, orderID, AggregateType, EventOrderFulfilled, event)
	if err != nil {
		return err
	}

	order.Status = StatusFulfilled
	if storedEvent != nil {
		order.Version = storedEvent.Version
	}

	if err := aggregate.MaybeCreateSnapshot(ctx, s.eventStore, order, AggregateType); err != nil {
		log.Printf("[Order] Failed to create snapshot for order %s: %v", order.ID, err)
	}

	return nil
}

// Reject marks a pending order as rejected
func (s *Service) Reject(ctx context.Context, orderID, reason string) error {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return err
	}

	if !order.CanTransitionTo(StatusRejected) {
		return order.transitionError(StatusRejected)
	}

	event := OrderRejected{
		OrderID:    orderID,
		Reason:     reason,
		RejectedAt: time.Now(),
	}

	storedEvent, err := s.eventStore.Append(ctx, orderID, AggregateType, EventOrderRejected, event)
	if err != nil {
		return err
	}

	order.Status = StatusRejected
	if storedEvent != nil {
		order.Version = storedEvent.Version
	}

	if err := aggregate.MaybeCreateSnapshot(ctx, s.eventStore, order, AggregateType); err != nil {
		log.Printf("[Order] Failed to create snapshot for order %s: %v", order.ID, err)
	}

	return nil
}

// Load returns the current order state
func (s *Service) Load(ctx context.Context, orderID string) (*Order, error) {
	return s.loadOrder(ctx, orderID)
}
