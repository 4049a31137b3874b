// internal/service/lead/lead.go
package lead

import (
	"context"
	"database/sql"
	"fmt"

	"quinto-service/internal/domain/lead"
	"quinto-service/internal/repository/postgres"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

const (
	StatusNew       = "novo"
	StatusContacted = "contatado"
	StatusConverted = "convertido"
	StatusDiscarded = "descartado"
)

// LeadService manages buyer search profiles and their matches against new
// listings.
type LeadService struct {
	leadRepo     *postgres.LeadRepository
	authRepo     *postgres.AuthRepository
	propertyRepo *postgres.PropertyRepository
	matcher      *Matcher
	logger       *zap.Logger
}

func NewLeadService(
	leadRepo *postgres.LeadRepository,
	authRepo *postgres.AuthRepository,
	propertyRepo *postgres.PropertyRepository,
	matcher *Matcher,
	logger *zap.Logger,
) *LeadService {
	return &LeadService{
		leadRepo:     leadRepo,
		authRepo:     authRepo,
		propertyRepo: propertyRepo,
		matcher:      matcher,
		logger:       logger,
	}
}

// Capture stores a buyer search profile from the landing page.
func (s *LeadService) Capture(ctx context.Context, req *lead.CaptureRequest) (*lead.Profile, error) {
	p := &lead.Profile{
		Reference:        fmt.Sprintf("LEAD-%s", ulid.Make().String()),
		FullName:         req.FullName,
		Email:            req.Email,
		Phone:            req.Phone,
		CPF:              sql.NullString{String: req.CPF, Valid: req.CPF != ""},
		MonthlyIncome:    sql.NullString{String: req.MonthlyIncome, Valid: req.MonthlyIncome != ""},
		InterestLocation: req.InterestLocation,
		PropertyType:     req.PropertyType,
		BudgetMin:        req.BudgetMin,
		BudgetMax:        req.BudgetMax,
		BedroomsMin:      req.BedroomsMin,
		Notes:            sql.NullString{String: req.Notes, Valid: req.Notes != ""},
		Status:           StatusNew,
	}

	if err := s.leadRepo.Create(ctx, p); err != nil {
		s.logger.Error("failed to capture lead profile", zap.Error(err))
		return nil, err
	}

	s.logger.Info("lead profile captured",
		zap.Int64("profile_id", p.ID),
		zap.String("reference", p.Reference),
		zap.String("location", p.InterestLocation),
	)

	return p, nil
}

// Get returns one profile.
func (s *LeadService) Get(ctx context.Context, id int64) (*lead.Profile, error) {
	return s.leadRepo.FindByID(ctx, id)
}

// List returns profiles, optionally filtered by status.
func (s *LeadService) List(ctx context.Context, status string) ([]lead.Profile, error) {
	return s.leadRepo.List(ctx, status)
}

// UpdateStatus transitions a profile through the contact workflow.
func (s *LeadService) UpdateStatus(ctx context.Context, id int64, status string) error {
	if err := s.leadRepo.UpdateStatus(ctx, id, status); err != nil {
		return err
	}

	s.logger.Info("lead profile status updated",
		zap.Int64("profile_id", id),
		zap.String("status", status),
	)
	return nil
}

// Overview returns the admin dashboard header numbers: platform totals plus
// profile counts per status.
func (s *LeadService) Overview(ctx context.Context) (*lead.OverviewResponse, error) {
	byStatus, err := s.leadRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	users, err := s.authRepo.CountByRole(ctx, "user")
	if err != nil {
		return nil, err
	}
	brokers, err := s.authRepo.CountByRole(ctx, "broker")
	if err != nil {
		return nil, err
	}
	properties, err := s.propertyRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &lead.OverviewResponse{
		TotalUsers:       users,
		TotalBrokers:     brokers,
		TotalProperties:  properties,
		ProfilesByStatus: byStatus,
	}, nil
}
