// internal/service/lead/match.go
package lead

import (
	"context"
	"strings"

	"quinto-service/internal/domain/lead"
	"quinto-service/internal/domain/property"
	xerrors "quinto-service/internal/pkg/errors"
	"quinto-service/internal/repository/postgres"
	"quinto-service/internal/service/email"

	"go.uber.org/zap"
)

// Score weights. A full hit on every criterion adds up to 100.
const (
	scoreBudget    = 40
	scoreBudgetFar = 20 // price above budget but within 10%
	scoreLocation  = 30
	scoreType      = 20
	scoreBedrooms  = 10
)

// Matcher pairs open buyer profiles with listings and notifies buyers by
// e-mail when a new listing clears the score threshold.
type Matcher struct {
	leadRepo  *postgres.LeadRepository
	sender    *email.EmailSender
	logger    *zap.Logger
	threshold int
	baseURL   string
}

func NewMatcher(leadRepo *postgres.LeadRepository, sender *email.EmailSender, threshold int, baseURL string, logger *zap.Logger) *Matcher {
	return &Matcher{
		leadRepo:  leadRepo,
		sender:    sender,
		logger:    logger,
		threshold: threshold,
		baseURL:   baseURL,
	}
}

// Score rates how well a listing fits a buyer profile, 0 to 100.
func Score(p *lead.Profile, prop *property.Property) int {
	score := 0

	// Budget: inside the range is a full hit; up to 10% over budget still
	// counts for something.
	switch {
	case prop.Price >= p.BudgetMin && (p.BudgetMax == 0 || prop.Price <= p.BudgetMax):
		score += scoreBudget
	case p.BudgetMax > 0 && prop.Price <= p.BudgetMax*1.10:
		score += scoreBudgetFar
	}

	if matchLocation(p.InterestLocation, prop.Location) {
		score += scoreLocation
	}

	if strings.EqualFold(p.PropertyType, prop.PropertyType) {
		score += scoreType
	}

	if prop.Bedrooms >= p.BedroomsMin {
		score += scoreBedrooms
	}

	return score
}

func matchLocation(wanted, actual string) bool {
	w := strings.ToLower(strings.TrimSpace(wanted))
	a := strings.ToLower(strings.TrimSpace(actual))
	if w == "" || a == "" {
		return false
	}
	return strings.Contains(a, w) || strings.Contains(w, a)
}

// MatchNewListing scores every open profile against a freshly published
// listing, records the matches and e-mails the buyers. Called asynchronously
// after a listing goes live.
func (m *Matcher) MatchNewListing(ctx context.Context, prop *property.Property) {
	profiles, err := m.leadRepo.ListOpen(ctx)
	if err != nil {
		m.logger.Error("failed to list open profiles for matching", zap.Error(err))
		return
	}

	for i := range profiles {
		p := &profiles[i]

		score := Score(p, prop)
		if score < m.threshold {
			continue
		}

		match := &lead.Match{
			ProfileID:  p.ID,
			PropertyID: prop.ID,
			Score:      score,
		}
		if err := m.leadRepo.CreateMatch(ctx, match); err != nil {
			if xerrors.Is(err, xerrors.ErrConflict) {
				continue // already matched and notified earlier
			}
			m.logger.Error("failed to record match",
				zap.Int64("profile_id", p.ID),
				zap.Int64("property_id", prop.ID),
				zap.Error(err))
			continue
		}

		m.logger.Info("lead matched to new listing",
			zap.Int64("profile_id", p.ID),
			zap.Int64("property_id", prop.ID),
			zap.Int("score", score),
		)

		body := email.BuildMatchNotification(p, []*property.Property{prop}, m.baseURL)
		if err := m.sender.Send(p.Email, email.MatchNotificationSubject, body); err != nil {
			m.logger.Error("failed to send match notification",
				zap.Int64("profile_id", p.ID),
				zap.Error(err))
			continue
		}

		if err := m.leadRepo.MarkMatchNotified(ctx, match.ID); err != nil {
			m.logger.Error("failed to mark match notified",
				zap.Int64("match_id", match.ID),
				zap.Error(err))
		}
	}
}
