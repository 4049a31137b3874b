// internal/domain/interest/entity.go
package interest

import (
	"database/sql"
	"time"
)

// Interest is one prospective buyer's expressed interest in one property.
// Brokers work these records as leads on the pipeline board.
type Interest struct {
	ID         int64  `json:"id" db:"id"`
	UserID     int64  `json:"user_id" db:"user_id"`
	PropertyID int64  `json:"property_id" db:"property_id"`
	Reference  string `json:"reference" db:"reference"`

	// Contact details captured on the interest form
	FullName string         `json:"full_name" db:"full_name"`
	Email    string         `json:"email" db:"email"`
	Phone    string         `json:"phone" db:"phone"`
	Income   sql.NullString `json:"income,omitempty" db:"income"`
	CPF      sql.NullString `json:"cpf,omitempty" db:"cpf"`
	Message  sql.NullString `json:"message,omitempty" db:"message"`

	// Pipeline state
	PipelineStage Stage           `json:"pipeline_stage" db:"pipeline_stage"`
	BrokerNotes   sql.NullString  `json:"broker_notes,omitempty" db:"broker_notes"`
	ProposalValue sql.NullFloat64 `json:"proposal_value,omitempty" db:"proposal_value"`
	LossReason    sql.NullString  `json:"loss_reason,omitempty" db:"loss_reason"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// Joined property projection, populated on board and detail reads
	Property *PropertySummary `json:"property,omitempty"`
}

// PropertySummary is the minimal property projection joined onto leads.
type PropertySummary struct {
	ID       int64           `json:"id"`
	Title    string          `json:"title"`
	Location string          `json:"location,omitempty"`
	Price    sql.NullFloat64 `json:"price,omitempty"`
	ImageURL sql.NullString  `json:"image_url,omitempty"`
}

// HistoryEntry is an immutable audit record of one stage transition.
// FromStage is null when the lead was created directly into ToStage.
type HistoryEntry struct {
	ID         int64          `json:"id" db:"id"`
	InterestID int64          `json:"interest_id" db:"interest_id"`
	FromStage  sql.NullString `json:"from_stage,omitempty" db:"from_stage"`
	ToStage    Stage          `json:"to_stage" db:"to_stage"`
	MovedBy    int64          `json:"moved_by" db:"moved_by"`
	Notes      sql.NullString `json:"notes,omitempty" db:"notes"`
	CreatedAt  time.Time      `json:"created_at" db:"created_at"`
}
