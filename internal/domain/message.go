package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// MessageRole represents the sender of a message
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Valid reports whether the role is one of the known values
func (r MessageRole) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Message belongs to exactly one inspection. Messages are append-only and
// their creation order is load-bearing: conversation history is
// reconstructed from it on every orchestrated turn.
type Message struct {
	ID           uuid.UUID   `json:"id"`
	InspectionID uuid.UUID   `json:"inspection_id"`
	Role         MessageRole `json:"role"`
	Content      string      `json:"content"`
	Images       []string    `json:"images"`
	CreatedAt    time.Time   `json:"created_at"`
}

// MessageCreate represents an inbound message payload
type MessageCreate struct {
	InspectionID uuid.UUID `json:"inspectionId" validate:"required"`
	Role         string    `json:"role" validate:"required,oneof=user assistant"`
	Content      string    `json:"content"`
	Images       []string  `json:"images"`
}

// MessageRepository defines the interface for message storage.
// ListByInspection must return messages in creation order, ties broken by
// insertion order.
type MessageRepository interface {
	Create(ctx context.Context, message *Message) error
	ListByInspection(ctx context.Context, inspectionID uuid.UUID) ([]Message, error)
	ListFirstByInspection(ctx context.Context, inspectionID uuid.UUID, limit int) ([]Message, error)
}
