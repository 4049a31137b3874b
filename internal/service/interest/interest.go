// internal/service/interest/interest.go
package interest

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"time"

	"quinto-service/internal/domain/interest"
	xerrors "quinto-service/internal/pkg/errors"
	"quinto-service/internal/repository/postgres"
	"quinto-service/internal/service/email"
	"quinto-service/internal/service/pipeline"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// Formatted (000.000.000-00) or bare 11 digits.
var cpfPattern = regexp.MustCompile(`^\d{3}\.\d{3}\.\d{3}-\d{2}$|^\d{11}$`)

// Notifier pushes real-time events at brokers. Satisfied by the websocket hub.
type Notifier interface {
	BroadcastLeadCreated(brokerID int64, lead *interest.Interest)
}

// Limiter throttles form submissions. Satisfied by session.RateLimiter.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int64, window time.Duration) (bool, error)
}

// InterestService handles the buyer side of the pipeline: the interest form
// that turns a visitor into a lead on some broker's board.
type InterestService struct {
	interestRepo *postgres.InterestRepository
	historyRepo  *postgres.PipelineHistoryRepository
	propertyRepo *postgres.PropertyRepository
	authRepo     *postgres.AuthRepository
	engine       *pipeline.Engine
	notifier     Notifier
	sender       *email.EmailSender
	limiter      Limiter
	logger       *zap.Logger
	baseURL      string
}

func NewInterestService(
	interestRepo *postgres.InterestRepository,
	historyRepo *postgres.PipelineHistoryRepository,
	propertyRepo *postgres.PropertyRepository,
	authRepo *postgres.AuthRepository,
	engine *pipeline.Engine,
	notifier Notifier,
	sender *email.EmailSender,
	limiter Limiter,
	baseURL string,
	logger *zap.Logger,
) *InterestService {
	return &InterestService{
		interestRepo: interestRepo,
		historyRepo:  historyRepo,
		propertyRepo: propertyRepo,
		authRepo:     authRepo,
		engine:       engine,
		notifier:     notifier,
		sender:       sender,
		limiter:      limiter,
		logger:       logger,
		baseURL:      baseURL,
	}
}

// Create registers a buyer's interest in a listing. The new lead enters the
// owning broker's pipeline at pending, gets its first audit entry, and the
// broker is notified over websocket and e-mail.
func (s *InterestService) Create(ctx context.Context, userID, propertyID int64, req *interest.CreateInterestRequest) (*interest.Interest, error) {
	if s.limiter != nil {
		ok, err := s.limiter.Allow(ctx, fmt.Sprintf("interest:%d", userID), 5, time.Hour)
		if err != nil {
			s.logger.Warn("interest rate limiter unavailable", zap.Error(err))
		} else if !ok {
			return nil, xerrors.ErrRateLimited
		}
	}

	if !cpfPattern.MatchString(req.CPF) {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "invalid CPF")
	}

	prop, err := s.propertyRepo.FindByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if prop.OwnerID == userID {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "cannot register interest in your own listing")
	}
	if prop.Status == "sold" {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "listing is already sold")
	}

	in := &interest.Interest{
		UserID:     userID,
		PropertyID: propertyID,
		Reference:  fmt.Sprintf("INT-%s", ulid.Make().String()),
		FullName:   req.FullName,
		Email:      req.Email,
		Phone:      req.Phone,
		Income:     sql.NullString{String: req.Income, Valid: req.Income != ""},
		CPF:        sql.NullString{String: req.CPF, Valid: req.CPF != ""},
		Message:    sql.NullString{String: req.Message, Valid: req.Message != ""},
	}

	if err := s.interestRepo.Create(ctx, in); err != nil {
		s.logger.Error("failed to create interest", zap.Error(err))
		return nil, err
	}

	// First audit entry: born into pending, no prior stage.
	entry := &interest.HistoryEntry{
		InterestID: in.ID,
		ToStage:    interest.StagePending,
		MovedBy:    userID,
	}
	if err := s.historyRepo.Append(ctx, nil, entry); err != nil {
		s.logger.Error("failed to append initial history entry",
			zap.Int64("interest_id", in.ID), zap.Error(err))
	}

	s.logger.Info("interest created",
		zap.Int64("interest_id", in.ID),
		zap.Int64("property_id", propertyID),
		zap.Int64("broker_id", prop.OwnerID),
	)

	in.Property = &interest.PropertySummary{
		ID:    prop.ID,
		Title: prop.Title,
		Price: sql.NullFloat64{Float64: prop.Price, Valid: true},
	}

	s.notifyBroker(ctx, prop.OwnerID, prop.Title, in)

	return in, nil
}

// notifyBroker refreshes the broker's board and pushes the new-lead event;
// e-mail goes out in the background.
func (s *InterestService) notifyBroker(ctx context.Context, brokerID int64, propertyTitle string, in *interest.Interest) {
	if _, err := s.engine.LoadBoard(ctx, brokerID); err != nil {
		s.logger.Error("failed to refresh board after new lead",
			zap.Int64("broker_id", brokerID), zap.Error(err))
	}

	if s.notifier != nil {
		s.notifier.BroadcastLeadCreated(brokerID, in)
	}

	go func(fullName string) {
		broker, err := s.authRepo.FindByID(context.WithoutCancel(ctx), brokerID)
		if err != nil {
			s.logger.Error("failed to load broker for notification",
				zap.Int64("broker_id", brokerID), zap.Error(err))
			return
		}

		body := email.BuildNewLeadNotification(fullName, propertyTitle, s.baseURL)
		if err := s.sender.Send(broker.Email, "Novo lead no seu funil de vendas", body); err != nil {
			s.logger.Error("failed to send new-lead e-mail",
				zap.Int64("broker_id", brokerID), zap.Error(err))
		}
	}(in.FullName)
}

// Detail returns one lead if the caller owns the listing behind it.
func (s *InterestService) Detail(ctx context.Context, brokerID, interestID int64) (*interest.Interest, error) {
	owner, err := s.interestRepo.BrokerOf(ctx, interestID)
	if err != nil {
		return nil, err
	}
	if owner != brokerID {
		return nil, xerrors.ErrForbidden
	}

	return s.interestRepo.FindDetail(ctx, interestID)
}
