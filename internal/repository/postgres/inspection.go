package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/huracan-ai/huracan/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// InspectionRepository implements domain.InspectionRepository
type InspectionRepository struct {
	pool *pgxpool.Pool
}

// NewInspectionRepository creates a new inspection repository
func NewInspectionRepository(db *DB) *InspectionRepository {
	return &InspectionRepository{pool: db.Pool}
}

func (r *InspectionRepository) Create(ctx context.Context, inspection *domain.Inspection) error {
	query := `
		INSERT INTO inspections (id, user_id, title, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.pool.Exec(ctx, query,
		inspection.ID,
		inspection.UserID,
		inspection.Title,
		inspection.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create inspection: %w", err)
	}
	return nil
}

// Get retrieves an inspection by ID; returns nil when absent
func (r *InspectionRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Inspection, error) {
	query := `
		SELECT id, user_id, title, created_at
		FROM inspections
		WHERE id = $1
	`
	var i domain.Inspection
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&i.ID,
		&i.UserID,
		&i.Title,
		&i.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get inspection: %w", err)
	}
	return &i, nil
}

// ListByUser returns the caller's inspections, newest first
func (r *InspectionRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Inspection, error) {
	query := `
		SELECT id, user_id, title, created_at
		FROM inspections
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list inspections: %w", err)
	}
	defer rows.Close()

	var inspections []domain.Inspection
	for rows.Next() {
		var i domain.Inspection
		if err := rows.Scan(
			&i.ID,
			&i.UserID,
			&i.Title,
			&i.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan inspection: %w", err)
		}
		inspections = append(inspections, i)
	}
	return inspections, nil
}

func (r *InspectionRepository) UpdateTitle(ctx context.Context, id uuid.UUID, title string) error {
	query := `UPDATE inspections SET title = $1 WHERE id = $2`
	_, err := r.pool.Exec(ctx, query, title, id)
	if err != nil {
		return fmt.Errorf("failed to update inspection title: %w", err)
	}
	return nil
}

// Delete removes an inspection; messages cascade via foreign key
func (r *InspectionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM inspections WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete inspection: %w", err)
	}
	return nil
}
