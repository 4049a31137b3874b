// internal/service/visit/visit.go
package visit

import (
	"context"
	"database/sql"
	"time"

	"quinto-service/internal/domain/visit"
	xerrors "quinto-service/internal/pkg/errors"
	"quinto-service/internal/repository/postgres"

	"go.uber.org/zap"
)

type VisitService struct {
	visitRepo    *postgres.VisitRepository
	propertyRepo *postgres.PropertyRepository
	logger       *zap.Logger
}

func NewVisitService(visitRepo *postgres.VisitRepository, propertyRepo *postgres.PropertyRepository, logger *zap.Logger) *VisitService {
	return &VisitService{
		visitRepo:    visitRepo,
		propertyRepo: propertyRepo,
		logger:       logger,
	}
}

// Schedule books a visit to a listing. The date must be in the future and the
// listing must still be on the market.
func (s *VisitService) Schedule(ctx context.Context, userID, propertyID int64, req *visit.ScheduleVisitRequest) (*visit.Visit, error) {
	if !req.VisitDate.After(time.Now()) {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "visit date must be in the future")
	}

	prop, err := s.propertyRepo.FindByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if prop.Status == "sold" {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "listing is already sold")
	}

	v := &visit.Visit{
		UserID:     userID,
		PropertyID: propertyID,
		VisitDate:  req.VisitDate,
		Status:     visit.StatusScheduled,
		Notes:      sql.NullString{String: req.Notes, Valid: req.Notes != ""},
	}

	if err := s.visitRepo.Create(ctx, v); err != nil {
		s.logger.Error("failed to schedule visit", zap.Error(err))
		return nil, err
	}

	s.logger.Info("visit scheduled",
		zap.Int64("visit_id", v.ID),
		zap.Int64("property_id", propertyID),
		zap.Time("visit_date", v.VisitDate),
	)

	return v, nil
}

// ListMine returns the user's visits, soonest first.
func (s *VisitService) ListMine(ctx context.Context, userID int64) ([]visit.Visit, error) {
	return s.visitRepo.ListByUser(ctx, userID)
}

// Cancel marks one of the user's visits as cancelled.
func (s *VisitService) Cancel(ctx context.Context, id, userID int64) error {
	return s.updateStatus(ctx, id, userID, visit.StatusCancelled)
}

// Complete marks one of the user's visits as done.
func (s *VisitService) Complete(ctx context.Context, id, userID int64) error {
	return s.updateStatus(ctx, id, userID, visit.StatusCompleted)
}

func (s *VisitService) updateStatus(ctx context.Context, id, userID int64, status string) error {
	v, err := s.visitRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if v.UserID != userID {
		return xerrors.ErrForbidden
	}
	if v.Status != visit.StatusScheduled {
		return xerrors.Wrap(xerrors.ErrInvalidInput, "visit is no longer scheduled")
	}

	return s.visitRepo.UpdateStatus(ctx, id, userID, status)
}
