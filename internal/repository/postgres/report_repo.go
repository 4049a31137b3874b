// internal/repository/postgres/report_repo.go
package postgres

import (
	"context"
	"fmt"

	"quinto-service/internal/domain/property"
	xerrors "quinto-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ReportRepository struct {
	db *pgxpool.Pool
}

func NewReportRepository(db *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{db: db}
}

// Create files a report against a listing
func (r *ReportRepository) Create(ctx context.Context, rep *property.Report) error {
	query := `
		INSERT INTO property_reports (user_id, property_id, reason, description, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(
		ctx, query,
		rep.UserID, rep.PropertyID, rep.Reason, rep.Description, rep.Status,
	).Scan(&rep.ID, &rep.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}

	return nil
}

// List returns reports, optionally filtered by status, newest first.
func (r *ReportRepository) List(ctx context.Context, status string) ([]property.Report, error) {
	query := `
		SELECT id, user_id, property_id, reason, description, status, created_at
		FROM property_reports
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var reports []property.Report
	for rows.Next() {
		var rep property.Report
		err := rows.Scan(
			&rep.ID, &rep.UserID, &rep.PropertyID, &rep.Reason,
			&rep.Description, &rep.Status, &rep.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, rep)
	}

	return reports, rows.Err()
}

// UpdateStatus resolves or dismisses a report.
func (r *ReportRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	query := `UPDATE property_reports SET status = $2 WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("failed to update report status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}
