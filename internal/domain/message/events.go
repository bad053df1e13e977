package message

import "time"

const (
	EventMessageReceived = "MessageReceived"
	EventMessageDeleted  = "MessageDeleted"
)

type MessageReceived struct {
	MessageID  string    `json:"message_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Body       string    `json:"body"`
	ReceivedAt time.Time `json:"received_at"`
}

type MessageDeleted struct {
	MessageID string    `json:"message_id"`
	DeletedAt time.Time `json:"deleted_at"`
}
