package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/huracan-ai/huracan/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MessageRepository implements domain.MessageRepository
type MessageRepository struct {
	pool *pgxpool.Pool
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *DB) *MessageRepository {
	return &MessageRepository{pool: db.Pool}
}

// Create inserts a new message
func (r *MessageRepository) Create(ctx context.Context, message *domain.Message) error {
	query := `
		INSERT INTO messages (id, inspection_id, role, content, images, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	images := message.Images
	if images == nil {
		images = []string{}
	}

	_, err := r.pool.Exec(ctx, query,
		message.ID,
		message.InspectionID,
		message.Role,
		message.Content,
		images,
		message.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

// ListByInspection retrieves all messages of an inspection in creation
// order. Ties on created_at are broken by id so concurrent appends read
// back in a stable order.
func (r *MessageRepository) ListByInspection(ctx context.Context, inspectionID uuid.UUID) ([]domain.Message, error) {
	query := `
		SELECT id, inspection_id, role, content, images, created_at
		FROM messages
		WHERE inspection_id = $1
		ORDER BY created_at ASC, id ASC
	`
	return r.list(ctx, query, inspectionID)
}

// ListFirstByInspection retrieves the oldest messages of an inspection, up
// to limit
func (r *MessageRepository) ListFirstByInspection(ctx context.Context, inspectionID uuid.UUID, limit int) ([]domain.Message, error) {
	query := `
		SELECT id, inspection_id, role, content, images, created_at
		FROM messages
		WHERE inspection_id = $1
		ORDER BY created_at ASC, id ASC
		LIMIT $2
	`
	return r.list(ctx, query, inspectionID, limit)
}

func (r *MessageRepository) list(ctx context.Context, query string, args ...any) ([]domain.Message, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var m domain.Message
		var roleStr string

		if err := rows.Scan(
			&m.ID,
			&m.InspectionID,
			&roleStr,
			&m.Content,
			&m.Images,
			&m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		m.Role = domain.MessageRole(roleStr)
		if m.Images == nil {
			m.Images = []string{}
		}
		messages = append(messages, m)
	}

	return messages, nil
}
