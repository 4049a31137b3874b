// internal/service/pipeline/store.go
package pipeline

import (
	"context"

	"quinto-service/internal/domain/interest"
	"quinto-service/internal/repository/postgres"
)

// Store is the durable side of the pipeline: the interest rows and the
// append-only history log. The engine talks only to this interface so it can
// be driven headlessly in tests, with no gin, pgx or websocket in sight.
type Store interface {
	// ListByBroker returns every lead on the broker's listings, most
	// recently updated first.
	ListByBroker(ctx context.Context, brokerID int64) ([]*interest.Interest, error)

	// UpdateStage persists a stage move. lossReason is nil except when the
	// target stage is lost.
	UpdateStage(ctx context.Context, leadID int64, stage interest.Stage, lossReason *string) error

	// ConfirmLoss atomically sets stage=lost + loss_reason and appends the
	// audit entry.
	ConfirmLoss(ctx context.Context, leadID int64, reason string, entry *interest.HistoryEntry) error

	// AppendHistory records one accepted transition.
	AppendHistory(ctx context.Context, entry *interest.HistoryEntry) error

	// UpdateDetails patches broker notes and/or proposal value.
	UpdateDetails(ctx context.Context, leadID int64, notes *string, proposal *float64, clearProposal bool) error

	// FindDetail loads one lead with its property projection.
	FindDetail(ctx context.Context, leadID int64) (*interest.Interest, error)

	// ListHistory returns the audit trail for a lead, newest first.
	ListHistory(ctx context.Context, leadID int64) ([]interest.HistoryEntry, error)

	// BrokerOf resolves which broker owns the lead's property.
	BrokerOf(ctx context.Context, leadID int64) (int64, error)
}

// pgStore adapts the postgres repositories to the Store interface.
type pgStore struct {
	interests *postgres.InterestRepository
	history   *postgres.PipelineHistoryRepository
	db        *postgres.DB
}

func NewStore(interests *postgres.InterestRepository, history *postgres.PipelineHistoryRepository, db *postgres.DB) Store {
	return &pgStore{interests: interests, history: history, db: db}
}

func (s *pgStore) ListByBroker(ctx context.Context, brokerID int64) ([]*interest.Interest, error) {
	return s.interests.ListByBroker(ctx, brokerID)
}

func (s *pgStore) UpdateStage(ctx context.Context, leadID int64, stage interest.Stage, lossReason *string) error {
	return s.interests.UpdateStage(ctx, nil, leadID, stage, lossReason)
}

func (s *pgStore) ConfirmLoss(ctx context.Context, leadID int64, reason string, entry *interest.HistoryEntry) error {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := s.interests.UpdateStage(ctx, tx, leadID, interest.StageLost, &reason); err != nil {
		return err
	}
	if err := s.history.Append(ctx, tx, entry); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (s *pgStore) AppendHistory(ctx context.Context, entry *interest.HistoryEntry) error {
	return s.history.Append(ctx, nil, entry)
}

func (s *pgStore) UpdateDetails(ctx context.Context, leadID int64, notes *string, proposal *float64, clearProposal bool) error {
	return s.interests.UpdateDetails(ctx, leadID, notes, proposal, clearProposal)
}

func (s *pgStore) FindDetail(ctx context.Context, leadID int64) (*interest.Interest, error) {
	return s.interests.FindDetail(ctx, leadID)
}

func (s *pgStore) ListHistory(ctx context.Context, leadID int64) ([]interest.HistoryEntry, error) {
	return s.history.ListByInterest(ctx, leadID)
}

func (s *pgStore) BrokerOf(ctx context.Context, leadID int64) (int64, error) {
	return s.interests.BrokerOf(ctx, leadID)
}
