// internal/repository/postgres/pipeline_history_repo.go
package postgres

import (
	"context"
	"fmt"

	"quinto-service/internal/domain/interest"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PipelineHistoryRepository is the append-only audit log of stage
// transitions. Rows are never updated or deleted.
type PipelineHistoryRepository struct {
	db *pgxpool.Pool
}

func NewPipelineHistoryRepository(db *pgxpool.Pool) *PipelineHistoryRepository {
	return &PipelineHistoryRepository{db: db}
}

// Append records one accepted transition. Pass q to append inside an open
// transaction (confirm-loss pairs the stage update and the log entry).
func (r *PipelineHistoryRepository) Append(ctx context.Context, q pgx.Tx, e *interest.HistoryEntry) error {
	query := `
		INSERT INTO pipeline_history (interest_id, from_stage, to_stage, moved_by, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	var row pgx.Row
	if q != nil {
		row = q.QueryRow(ctx, query, e.InterestID, e.FromStage, string(e.ToStage), e.MovedBy, e.Notes)
	} else {
		row = r.db.QueryRow(ctx, query, e.InterestID, e.FromStage, string(e.ToStage), e.MovedBy, e.Notes)
	}

	if err := row.Scan(&e.ID, &e.CreatedAt); err != nil {
		return fmt.Errorf("failed to append pipeline history: %w", err)
	}

	return nil
}

// ListByInterest returns the audit trail for a lead, newest first.
func (r *PipelineHistoryRepository) ListByInterest(ctx context.Context, interestID int64) ([]interest.HistoryEntry, error) {
	query := `
		SELECT id, interest_id, from_stage, to_stage, moved_by, notes, created_at
		FROM pipeline_history
		WHERE interest_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, interestID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pipeline history: %w", err)
	}
	defer rows.Close()

	var entries []interest.HistoryEntry
	for rows.Next() {
		var e interest.HistoryEntry
		var rawTo string
		if err := rows.Scan(&e.ID, &e.InterestID, &e.FromStage, &rawTo, &e.MovedBy, &e.Notes, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan pipeline history: %w", err)
		}

		stage, err := interest.ParseStage(rawTo)
		if err != nil {
			return nil, err
		}
		e.ToStage = stage

		entries = append(entries, e)
	}

	return entries, rows.Err()
}
