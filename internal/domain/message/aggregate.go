package message

import (
	"context"
	"errors"
	"time"

	"github.com/example/storefront/internal/infrastructure/store"
	"github.com/google/uuid"
)

const AggregateType = "Message"

var (
	ErrMessageNotFound = errors.New("message not found")
	ErrInvalidName     = errors.New("name is required")
	ErrInvalidEmail    = errors.New("email is required")
	ErrEmptyBody       = errors.New("message body is required")
)

type Service struct {
	eventStore store.EventStoreInterface
}

func NewService(es store.EventStoreInterface) *Service {
	return &Service{eventStore: es}
}

// Receive records a contact form submission
func (s *Service) Receive(ctx context.Context, name, email, body string) (string, error) {
	if name == "" {
		return "", ErrInvalidName
	}
	if email == "" {
		return "", ErrInvalidEmail
	}
	if body == "" {
		return "", ErrEmptyBody
	}

	messageID := uuid.New().String()

	event := MessageReceived{
		MessageID:  messageID,
		Name:       name,
		Email:      email,
		Body:       body,
		ReceivedAt: time.Now(),
	}

	if _, err := s.eventStore.Append(ctx, messageID, AggregateType, EventMessageReceived, event); err != nil {
		return "", err
	}

	return messageID, nil
}

// Delete removes a contact message from the admin inbox
func (s *Service) Delete(ctx context.Context, messageID string) error {
	events := s.eventStore.GetEvents(messageID)
	if len(events) == 0 {
		return ErrMessageNotFound
	}

	event := MessageDeleted{
		MessageID: messageID,
		DeletedAt: time.Now(),
	}

	_, err := s.eventStore.Append(ctx, messageID, AggregateType, EventMessageDeleted, event)
	return err
}
