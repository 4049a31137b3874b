// internal/service/property/property.go
package property

import (
	"context"

	"quinto-service/internal/domain/property"
	xerrors "quinto-service/internal/pkg/errors"
	"quinto-service/internal/repository/postgres"
	"quinto-service/internal/service/lead"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type PropertyService struct {
	propertyRepo *postgres.PropertyRepository
	views        *ViewCounter
	matcher      *lead.Matcher
	logger       *zap.Logger
}

func NewPropertyService(propertyRepo *postgres.PropertyRepository, views *ViewCounter, matcher *lead.Matcher, logger *zap.Logger) *PropertyService {
	return &PropertyService{
		propertyRepo: propertyRepo,
		views:        views,
		matcher:      matcher,
		logger:       logger,
	}
}

// Create publishes a listing and kicks off buyer-profile matching in the
// background.
func (s *PropertyService) Create(ctx context.Context, ownerID int64, req *property.CreatePropertyRequest) (*property.Property, error) {
	p := &property.Property{
		OwnerID:      ownerID,
		Title:        req.Title,
		Description:  req.Description,
		Price:        req.Price,
		Location:     req.Location,
		PropertyType: req.PropertyType,
		Bedrooms:     req.Bedrooms,
		Bathrooms:    req.Bathrooms,
		Area:         req.Area,
		Features:     pq.StringArray(req.Features),
		Status:       "available",
	}

	if err := s.propertyRepo.Create(ctx, p); err != nil {
		s.logger.Error("failed to create property", zap.Error(err))
		return nil, err
	}

	if len(req.ImageURLs) > 0 {
		if err := s.propertyRepo.AddImages(ctx, p.ID, req.ImageURLs); err != nil {
			s.logger.Error("failed to store property images",
				zap.Int64("property_id", p.ID), zap.Error(err))
		}
	}

	s.logger.Info("property created",
		zap.Int64("property_id", p.ID),
		zap.Int64("owner_id", ownerID),
		zap.String("location", p.Location),
	)

	// Matching reads open profiles and sends e-mails; no reason to hold the
	// publish response for it.
	go s.matcher.MatchNewListing(context.WithoutCancel(ctx), p)

	return p, nil
}

// Get returns one listing with its images and counts the view.
func (s *PropertyService) Get(ctx context.Context, id int64) (*property.Property, error) {
	p, err := s.propertyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	images, err := s.propertyRepo.ListImages(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Images = images

	if err := s.views.Register(ctx, id); err != nil {
		// A lost view is not worth failing the read.
		s.logger.Warn("failed to register view", zap.Int64("property_id", id), zap.Error(err))
	}

	return p, nil
}

// Search runs a filtered, paginated listing search.
func (s *PropertyService) Search(ctx context.Context, f *property.SearchFilters) (*property.ListResponse, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = 20
	}
	if f.PriceMax > 0 && f.PriceMin > f.PriceMax {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "price_min above price_max")
	}

	properties, total, err := s.propertyRepo.Search(ctx, f)
	if err != nil {
		return nil, err
	}

	return &property.ListResponse{
		Properties: properties,
		Total:      total,
		Page:       f.Page,
		PageSize:   f.PageSize,
	}, nil
}

// ListMine returns the broker's own listings, deleted ones excluded.
func (s *PropertyService) ListMine(ctx context.Context, ownerID int64) ([]property.Property, error) {
	return s.propertyRepo.ListByOwner(ctx, ownerID)
}

// ListFeatured returns highlighted listings for the home page.
func (s *PropertyService) ListFeatured(ctx context.Context, limit int) ([]property.Property, error) {
	if limit < 1 || limit > 50 {
		limit = 12
	}
	return s.propertyRepo.ListFeatured(ctx, limit)
}

// Update patches a listing. Only the owner can touch it.
func (s *PropertyService) Update(ctx context.Context, id, ownerID int64, req *property.UpdatePropertyRequest) (*property.Property, error) {
	if err := s.propertyRepo.Update(ctx, id, ownerID, req); err != nil {
		return nil, err
	}
	return s.propertyRepo.FindByID(ctx, id)
}

// UpdateStatus flips a listing between available, reserved and sold.
func (s *PropertyService) UpdateStatus(ctx context.Context, id, ownerID int64, status string) error {
	if err := s.propertyRepo.UpdateStatus(ctx, id, ownerID, status); err != nil {
		return err
	}

	s.logger.Info("property status updated",
		zap.Int64("property_id", id),
		zap.String("status", status),
	)
	return nil
}

// Delete soft-deletes a listing.
func (s *PropertyService) Delete(ctx context.Context, id, ownerID int64) error {
	return s.propertyRepo.SoftDelete(ctx, id, ownerID)
}

// Analytics returns engagement numbers for one of the broker's listings,
// flushing any views still buffered in Redis first.
func (s *PropertyService) Analytics(ctx context.Context, id, ownerID int64) (*property.AnalyticsSummary, error) {
	p, err := s.propertyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != ownerID {
		return nil, xerrors.ErrForbidden
	}

	if err := s.views.Flush(ctx, id); err != nil {
		s.logger.Warn("failed to flush buffered views", zap.Int64("property_id", id), zap.Error(err))
	}

	return s.propertyRepo.AnalyticsSummary(ctx, id)
}
