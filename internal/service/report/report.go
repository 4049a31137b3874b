// internal/service/report/report.go
package report

import (
	"context"
	"database/sql"

	"quinto-service/internal/domain/property"
	"quinto-service/internal/repository/postgres"

	"go.uber.org/zap"
)

type ReportService struct {
	reportRepo   *postgres.ReportRepository
	propertyRepo *postgres.PropertyRepository
	logger       *zap.Logger
}

func NewReportService(reportRepo *postgres.ReportRepository, propertyRepo *postgres.PropertyRepository, logger *zap.Logger) *ReportService {
	return &ReportService{
		reportRepo:   reportRepo,
		propertyRepo: propertyRepo,
		logger:       logger,
	}
}

// Create files a complaint against a listing.
func (s *ReportService) Create(ctx context.Context, userID, propertyID int64, req *property.ReportRequest) (*property.Report, error) {
	if _, err := s.propertyRepo.FindByID(ctx, propertyID); err != nil {
		return nil, err
	}

	rep := &property.Report{
		UserID:      userID,
		PropertyID:  propertyID,
		Reason:      req.Reason,
		Description: sql.NullString{String: req.Description, Valid: req.Description != ""},
		Status:      "pending",
	}

	if err := s.reportRepo.Create(ctx, rep); err != nil {
		s.logger.Error("failed to create report", zap.Error(err))
		return nil, err
	}

	s.logger.Info("property reported",
		zap.Int64("report_id", rep.ID),
		zap.Int64("property_id", propertyID),
		zap.String("reason", rep.Reason),
	)

	return rep, nil
}

// List returns reports for the admin queue, optionally filtered by status.
func (s *ReportService) List(ctx context.Context, status string) ([]property.Report, error) {
	return s.reportRepo.List(ctx, status)
}

// Resolve marks a report reviewed or dismissed.
func (s *ReportService) Resolve(ctx context.Context, id int64, status string) error {
	return s.reportRepo.UpdateStatus(ctx, id, status)
}
