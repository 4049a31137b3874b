// internal/repository/postgres/interest_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"quinto-service/internal/domain/interest"
	xerrors "quinto-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type InterestRepository struct {
	db *pgxpool.Pool
}

func NewInterestRepository(db *pgxpool.Pool) *InterestRepository {
	return &InterestRepository{db: db}
}

// Create inserts a new interest. New leads always enter the funnel at pending.
func (r *InterestRepository) Create(ctx context.Context, in *interest.Interest) error {
	query := `
		INSERT INTO property_interests (
			user_id, property_id, reference, full_name, email, phone,
			income, cpf, message, pipeline_stage
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		in.UserID, in.PropertyID, in.Reference, in.FullName, in.Email, in.Phone,
		in.Income, in.CPF, in.Message, string(interest.StagePending),
	).Scan(&in.ID, &in.CreatedAt, &in.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create interest: %w", err)
	}

	in.PipelineStage = interest.StagePending
	return nil
}

// ListByBroker returns every lead attached to the broker's listings, most
// recently updated first, with the minimal property projection joined in.
func (r *InterestRepository) ListByBroker(ctx context.Context, brokerID int64) ([]*interest.Interest, error) {
	query := `
		SELECT
			i.id, i.user_id, i.property_id, i.reference, i.full_name, i.email,
			i.phone, i.income, i.cpf, i.message, i.pipeline_stage, i.broker_notes,
			i.proposal_value, i.loss_reason, i.created_at, i.updated_at,
			p.title,
			(SELECT img.image_url FROM property_images img
			 WHERE img.property_id = p.id AND img.is_primary
			 ORDER BY img.display_order LIMIT 1)
		FROM property_interests i
		JOIN properties p ON p.id = i.property_id
		WHERE p.owner_id = $1 AND p.deleted_at IS NULL
		ORDER BY i.updated_at DESC
	`

	rows, err := r.db.Query(ctx, query, brokerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}
	defer rows.Close()

	var leads []*interest.Interest
	for rows.Next() {
		var in interest.Interest
		var rawStage string
		ps := interest.PropertySummary{}

		err := rows.Scan(
			&in.ID, &in.UserID, &in.PropertyID, &in.Reference, &in.FullName, &in.Email,
			&in.Phone, &in.Income, &in.CPF, &in.Message, &rawStage, &in.BrokerNotes,
			&in.ProposalValue, &in.LossReason, &in.CreatedAt, &in.UpdatedAt,
			&ps.Title, &ps.ImageURL,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lead: %w", err)
		}

		stage, err := interest.ParseStage(rawStage)
		if err != nil {
			return nil, err
		}
		in.PipelineStage = stage

		ps.ID = in.PropertyID
		in.Property = &ps
		leads = append(leads, &in)
	}

	return leads, rows.Err()
}

// FindDetail loads one lead with the full property projection.
func (r *InterestRepository) FindDetail(ctx context.Context, id int64) (*interest.Interest, error) {
	query := `
		SELECT
			i.id, i.user_id, i.property_id, i.reference, i.full_name, i.email,
			i.phone, i.income, i.cpf, i.message, i.pipeline_stage, i.broker_notes,
			i.proposal_value, i.loss_reason, i.created_at, i.updated_at,
			p.title, p.location, p.price,
			(SELECT img.image_url FROM property_images img
			 WHERE img.property_id = p.id AND img.is_primary
			 ORDER BY img.display_order LIMIT 1)
		FROM property_interests i
		JOIN properties p ON p.id = i.property_id
		WHERE i.id = $1
	`

	var in interest.Interest
	var rawStage string
	ps := interest.PropertySummary{}

	err := r.db.QueryRow(ctx, query, id).Scan(
		&in.ID, &in.UserID, &in.PropertyID, &in.Reference, &in.FullName, &in.Email,
		&in.Phone, &in.Income, &in.CPF, &in.Message, &rawStage, &in.BrokerNotes,
		&in.ProposalValue, &in.LossReason, &in.CreatedAt, &in.UpdatedAt,
		&ps.Title, &ps.Location, &ps.Price, &ps.ImageURL,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find lead: %w", err)
	}

	stage, err := interest.ParseStage(rawStage)
	if err != nil {
		return nil, err
	}
	in.PipelineStage = stage

	ps.ID = in.PropertyID
	in.Property = &ps
	return &in, nil
}

// BrokerOf returns the owner of the property the lead points at, used for
// access checks on detail and history reads.
func (r *InterestRepository) BrokerOf(ctx context.Context, interestID int64) (int64, error) {
	query := `
		SELECT p.owner_id
		FROM property_interests i
		JOIN properties p ON p.id = i.property_id
		WHERE i.id = $1
	`

	var ownerID int64
	err := r.db.QueryRow(ctx, query, interestID).Scan(&ownerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, xerrors.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to resolve lead owner: %w", err)
	}

	return ownerID, nil
}

// UpdateStage moves a lead to a new stage. lossReason must be non-nil exactly
// when stage is lost; it is stored in the same update.
func (r *InterestRepository) UpdateStage(ctx context.Context, q pgx.Tx, id int64, stage interest.Stage, lossReason *string) error {
	query := `
		UPDATE property_interests
		SET pipeline_stage = $2, loss_reason = $3, updated_at = NOW()
		WHERE id = $1
	`

	var tag pgconn.CommandTag
	var err error
	if q != nil {
		tag, err = q.Exec(ctx, query, id, string(stage), lossReason)
	} else {
		tag, err = r.db.Exec(ctx, query, id, string(stage), lossReason)
	}

	if err != nil {
		return fmt.Errorf("failed to update lead stage: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// UpdateDetails patches broker notes and/or the proposal value. A nil field
// is left untouched; clearProposal sets proposal_value to NULL.
func (r *InterestRepository) UpdateDetails(ctx context.Context, id int64, notes *string, proposal *float64, clearProposal bool) error {
	sets := []string{"updated_at = NOW()"}
	args := []interface{}{id}
	argn := 2

	if notes != nil {
		sets = append(sets, fmt.Sprintf("broker_notes = $%d", argn))
		args = append(args, *notes)
		argn++
	}
	if proposal != nil {
		sets = append(sets, fmt.Sprintf("proposal_value = $%d", argn))
		args = append(args, *proposal)
		argn++
	} else if clearProposal {
		sets = append(sets, "proposal_value = NULL")
	}

	query := fmt.Sprintf(
		`UPDATE property_interests SET %s WHERE id = $1`,
		strings.Join(sets, ", "),
	)

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update lead details: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}
