package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Inspection is a chat thread between one user and the assistant about a
// property. Visible and mutable only by its owner.
type Inspection struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"-"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// InspectionRepository defines the interface for inspection storage
type InspectionRepository interface {
	Create(ctx context.Context, inspection *Inspection) error
	Get(ctx context.Context, id uuid.UUID) (*Inspection, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Inspection, error)
	UpdateTitle(ctx context.Context, id uuid.UUID, title string) error
	Delete(ctx context.Context, id uuid.UUID) error
}
