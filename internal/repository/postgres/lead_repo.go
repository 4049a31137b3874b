// internal/repository/postgres/lead_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"quinto-service/internal/domain/lead"
	xerrors "quinto-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type LeadRepository struct {
	db *pgxpool.Pool
}

func NewLeadRepository(db *pgxpool.Pool) *LeadRepository {
	return &LeadRepository{db: db}
}

// Create inserts a buyer search profile
func (r *LeadRepository) Create(ctx context.Context, p *lead.Profile) error {
	query := `
		INSERT INTO leads (
			reference, full_name, email, phone, cpf, monthly_income,
			interest_location, property_type, budget_min, budget_max,
			bedrooms_min, notes, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		p.Reference, p.FullName, p.Email, p.Phone, p.CPF, p.MonthlyIncome,
		p.InterestLocation, p.PropertyType, p.BudgetMin, p.BudgetMax,
		p.BedroomsMin, p.Notes, p.Status,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create lead profile: %w", err)
	}

	return nil
}

const leadColumns = `
	id, reference, full_name, email, phone, cpf, monthly_income,
	interest_location, property_type, budget_min, budget_max,
	bedrooms_min, notes, status, created_at, updated_at
`

func scanLead(row pgx.Row, p *lead.Profile) error {
	return row.Scan(
		&p.ID, &p.Reference, &p.FullName, &p.Email, &p.Phone, &p.CPF, &p.MonthlyIncome,
		&p.InterestLocation, &p.PropertyType, &p.BudgetMin, &p.BudgetMax,
		&p.BedroomsMin, &p.Notes, &p.Status, &p.CreatedAt, &p.UpdatedAt,
	)
}

// FindByID retrieves a profile
func (r *LeadRepository) FindByID(ctx context.Context, id int64) (*lead.Profile, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1`

	var p lead.Profile
	err := scanLead(r.db.QueryRow(ctx, query, id), &p)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find lead profile: %w", err)
	}

	return &p, nil
}

// List returns profiles, optionally filtered by status, newest first.
func (r *LeadRepository) List(ctx context.Context, status string) ([]lead.Profile, error) {
	query := `SELECT ` + leadColumns + ` FROM leads
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list lead profiles: %w", err)
	}
	defer rows.Close()

	var profiles []lead.Profile
	for rows.Next() {
		var p lead.Profile
		if err := scanLead(rows, &p); err != nil {
			return nil, fmt.Errorf("failed to scan lead profile: %w", err)
		}
		profiles = append(profiles, p)
	}

	return profiles, rows.Err()
}

// ListOpen returns profiles still worth matching against new listings.
func (r *LeadRepository) ListOpen(ctx context.Context) ([]lead.Profile, error) {
	query := `SELECT ` + leadColumns + ` FROM leads
		WHERE status IN ('novo', 'contatado')
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list open lead profiles: %w", err)
	}
	defer rows.Close()

	var profiles []lead.Profile
	for rows.Next() {
		var p lead.Profile
		if err := scanLead(rows, &p); err != nil {
			return nil, fmt.Errorf("failed to scan lead profile: %w", err)
		}
		profiles = append(profiles, p)
	}

	return profiles, rows.Err()
}

// UpdateStatus transitions a profile status
func (r *LeadRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	query := `UPDATE leads SET status = $2, updated_at = NOW() WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("failed to update lead status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// CreateMatch records a scored profile/listing pairing.
func (r *LeadRepository) CreateMatch(ctx context.Context, m *lead.Match) error {
	query := `
		INSERT INTO lead_matches (profile_id, property_id, score, notified)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (profile_id, property_id) DO NOTHING
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query, m.ProfileID, m.PropertyID, m.Score, m.Notified).
		Scan(&m.ID, &m.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		// Already matched earlier; nothing to notify again.
		return xerrors.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("failed to create match: %w", err)
	}

	return nil
}

// MarkMatchNotified stamps the notification time on a match.
func (r *LeadRepository) MarkMatchNotified(ctx context.Context, matchID int64) error {
	query := `UPDATE lead_matches SET notified = TRUE, notified_at = NOW() WHERE id = $1`

	if _, err := r.db.Exec(ctx, query, matchID); err != nil {
		return fmt.Errorf("failed to mark match notified: %w", err)
	}
	return nil
}

// CountByStatus returns the number of profiles per status for the admin overview.
func (r *LeadRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	query := `SELECT status, COUNT(*) FROM leads GROUP BY status`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count leads: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan lead count: %w", err)
		}
		counts[status] = count
	}

	return counts, rows.Err()
}
