// internal/service/review/review.go
package review

import (
	"context"

	"quinto-service/internal/domain/auth"
	"quinto-service/internal/domain/review"
	xerrors "quinto-service/internal/pkg/errors"
	"quinto-service/internal/repository/postgres"

	"go.uber.org/zap"
)

type ReviewService struct {
	reviewRepo   *postgres.ReviewRepository
	propertyRepo *postgres.PropertyRepository
	authRepo     *postgres.AuthRepository
	logger       *zap.Logger
}

func NewReviewService(reviewRepo *postgres.ReviewRepository, propertyRepo *postgres.PropertyRepository, authRepo *postgres.AuthRepository, logger *zap.Logger) *ReviewService {
	return &ReviewService{
		reviewRepo:   reviewRepo,
		propertyRepo: propertyRepo,
		authRepo:     authRepo,
		logger:       logger,
	}
}

// CreateForProperty leaves a review on a listing. One review per user per
// listing; the unique index turns duplicates into ErrConflict.
func (s *ReviewService) CreateForProperty(ctx context.Context, userID, propertyID int64, req *review.CreateReviewRequest) (*review.Review, error) {
	if _, err := s.propertyRepo.FindByID(ctx, propertyID); err != nil {
		return nil, err
	}

	return s.create(ctx, userID, review.TargetProperty, propertyID, req)
}

// CreateForBroker leaves a review on a broker account.
func (s *ReviewService) CreateForBroker(ctx context.Context, userID, brokerID int64, req *review.CreateReviewRequest) (*review.Review, error) {
	if userID == brokerID {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "cannot review yourself")
	}

	broker, err := s.authRepo.FindByID(ctx, brokerID)
	if err != nil {
		return nil, err
	}

	isBroker := false
	for _, r := range broker.Roles {
		if r == auth.RoleBroker {
			isBroker = true
			break
		}
	}
	if !isBroker {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "target account is not a broker")
	}

	return s.create(ctx, userID, review.TargetBroker, brokerID, req)
}

func (s *ReviewService) create(ctx context.Context, userID int64, target string, targetID int64, req *review.CreateReviewRequest) (*review.Review, error) {
	rv := &review.Review{
		UserID:   userID,
		Target:   target,
		TargetID: targetID,
		Rating:   req.Rating,
		Comment:  req.Comment,
	}

	if err := s.reviewRepo.Create(ctx, rv); err != nil {
		if xerrors.Is(err, xerrors.ErrConflict) {
			return nil, xerrors.Wrap(xerrors.ErrConflict, "you already reviewed this")
		}
		s.logger.Error("failed to create review", zap.Error(err))
		return nil, err
	}

	return rv, nil
}

// ListForProperty returns a listing's reviews with the aggregate rating.
func (s *ReviewService) ListForProperty(ctx context.Context, propertyID int64) (*review.ListResponse, error) {
	return s.list(ctx, review.TargetProperty, propertyID)
}

// ListForBroker returns a broker's reviews with the aggregate rating.
func (s *ReviewService) ListForBroker(ctx context.Context, brokerID int64) (*review.ListResponse, error) {
	return s.list(ctx, review.TargetBroker, brokerID)
}

func (s *ReviewService) list(ctx context.Context, target string, targetID int64) (*review.ListResponse, error) {
	reviews, err := s.reviewRepo.ListByTarget(ctx, target, targetID)
	if err != nil {
		return nil, err
	}

	avg, total, err := s.reviewRepo.AverageRating(ctx, target, targetID)
	if err != nil {
		return nil, err
	}

	return &review.ListResponse{
		Reviews:       reviews,
		AverageRating: avg,
		Total:         total,
	}, nil
}
