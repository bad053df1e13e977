package notification

import (
	"context"
	"encoding/json"
	"log"

	"github.com/example/storefront/internal/domain/message"
	"github.com/example/storefront/internal/domain/order"
	"github.com/example/storefront/internal/email"
	"github.com/example/storefront/internal/infrastructure/store"
	"github.com/example/storefront/internal/readmodel"
)

// Handler consumes domain events and sends the corresponding emails.
// One attempt per event; a failed send is logged, not retried.
type Handler struct {
	emails       email.Sender
	readStore    store.ReadStoreInterface
	operatorAddr []string
}

// NewHandler creates a new notification handler
func NewHandler(emails email.Sender, readStore store.ReadStoreInterface, operatorAddr []string) *Handler {
	return &Handler{
		emails:       emails,
		readStore:    readStore,
		operatorAddr: operatorAddr,
	}
}

// HandleEvent processes an event from Kafka
func (h *Handler) HandleEvent(ctx context.Context, key, value []byte) error {
	var event store.Event
	if err := json.Unmarshal(value, &event); err != nil {
		log.Printf("[Notifier] Failed to unmarshal event: %v", err)
		return err
	}
	return h.Handle(event)
}

// Handle dispatches a stored event to the matching email
func (h *Handler) Handle(event store.Event) error {
	switch event.EventType {
	case order.EventOrderFulfilled:
		return h.handleStatusChange(event, order.StatusFulfilled)
	case order.EventOrderRejected:
		return h.handleStatusChange(event, order.StatusRejected)
	case message.EventMessageReceived:
		return h.handleMessageReceived(event)
	}
	return nil
}

func (h *Handler) handleStatusChange(event store.Event, status order.Status) error {
	orderData, exists, err := h.readStore.Get("orders", event.AggregateID)
	if err != nil {
		log.Printf("[Notifier] Error getting order %s: %v", event.AggregateID, err)
		return nil
	}
	if !exists {
		log.Printf("[Notifier] Order not found: %s", event.AggregateID)
		return nil
	}

	o, ok := orderData.(*readmodel.OrderReadModel)
	if !ok {
		log.Printf("[Notifier] Invalid order data type for order: %s", event.AggregateID)
		return nil
	}
	if o.Email == "" {
		log.Printf("[Notifier] Order %s has no customer email, skipping", o.ID)
		return nil
	}

	if err := h.emails.SendStatusUpdate(o.Email, o.CustomerName, o.ID, string(status)); err != nil {
		log.Printf("[Notifier] Failed to send status email to %s: %v", o.Email, err)
		return err
	}

	log.Printf("[Notifier] Status email sent to %s for order %s (%s)", o.Email, o.ID, status)
	return nil
}

func (h *Handler) handleMessageReceived(event store.Event) error {
	var e message.MessageReceived
	if err := json.Unmarshal(event.Data, &e); err != nil {
		log.Printf("[Notifier] Failed to unmarshal MessageReceived event: %v", err)
		return err
	}

	if len(h.operatorAddr) == 0 {
		return nil
	}

	if err := h.emails.SendContactNotification(h.operatorAddr, e.Name, e.Email, e.Body); err != nil {
		log.Printf("[Notifier] Failed to send contact notification: %v", err)
		return err
	}

	log.Printf("[Notifier] Contact notification sent for message %s", e.MessageID)
	return nil
}
