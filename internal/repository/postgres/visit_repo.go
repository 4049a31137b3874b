// internal/repository/postgres/visit_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"quinto-service/internal/domain/visit"
	xerrors "quinto-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type VisitRepository struct {
	db *pgxpool.Pool
}

func NewVisitRepository(db *pgxpool.Pool) *VisitRepository {
	return &VisitRepository{db: db}
}

// Create schedules a visit
func (r *VisitRepository) Create(ctx context.Context, v *visit.Visit) error {
	query := `
		INSERT INTO property_visits (user_id, property_id, visit_date, status, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		v.UserID, v.PropertyID, v.VisitDate, v.Status, v.Notes,
	).Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create visit: %w", err)
	}

	return nil
}

// FindByID retrieves a visit
func (r *VisitRepository) FindByID(ctx context.Context, id int64) (*visit.Visit, error) {
	query := `
		SELECT id, user_id, property_id, visit_date, status, notes, created_at, updated_at
		FROM property_visits
		WHERE id = $1
	`

	var v visit.Visit
	err := r.db.QueryRow(ctx, query, id).Scan(
		&v.ID, &v.UserID, &v.PropertyID, &v.VisitDate, &v.Status, &v.Notes,
		&v.CreatedAt, &v.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find visit: %w", err)
	}

	return &v, nil
}

// ListByUser returns the user's visits ascending by date, with the property
// projection joined in.
func (r *VisitRepository) ListByUser(ctx context.Context, userID int64) ([]visit.Visit, error) {
	query := `
		SELECT v.id, v.user_id, v.property_id, v.visit_date, v.status, v.notes,
		       v.created_at, v.updated_at, p.title, p.location, p.price
		FROM property_visits v
		JOIN properties p ON p.id = v.property_id
		WHERE v.user_id = $1
		ORDER BY v.visit_date ASC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list visits: %w", err)
	}
	defer rows.Close()

	var visits []visit.Visit
	for rows.Next() {
		var v visit.Visit
		err := rows.Scan(
			&v.ID, &v.UserID, &v.PropertyID, &v.VisitDate, &v.Status, &v.Notes,
			&v.CreatedAt, &v.UpdatedAt, &v.PropertyTitle, &v.PropertyLocation, &v.PropertyPrice,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan visit: %w", err)
		}
		visits = append(visits, v)
	}

	return visits, rows.Err()
}

// UpdateStatus transitions a visit's status, scoped to its owner.
func (r *VisitRepository) UpdateStatus(ctx context.Context, id, userID int64, status string) error {
	query := `
		UPDATE property_visits SET status = $3, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
	`

	tag, err := r.db.Exec(ctx, query, id, userID, status)
	if err != nil {
		return fmt.Errorf("failed to update visit status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}
