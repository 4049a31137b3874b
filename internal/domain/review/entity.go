// internal/domain/review/entity.go
package review

import "time"

// Review is a rating left either on a property or on a broker; exactly one
// of PropertyID / BrokerID is set, enforced by the target column.
type Review struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Target    string    `json:"target" db:"target"` // property, broker
	TargetID  int64     `json:"target_id" db:"target_id"`
	Rating    int       `json:"rating" db:"rating"`
	Comment   string    `json:"comment" db:"comment"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	ReviewerName string `json:"reviewer_name,omitempty"`
}

const (
	TargetProperty = "property"
	TargetBroker   = "broker"
)
