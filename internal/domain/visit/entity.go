// internal/domain/visit/entity.go
package visit

import (
	"database/sql"
	"time"
)

type Visit struct {
	ID         int64          `json:"id" db:"id"`
	UserID     int64          `json:"user_id" db:"user_id"`
	PropertyID int64          `json:"property_id" db:"property_id"`
	VisitDate  time.Time      `json:"visit_date" db:"visit_date"`
	Status     string         `json:"status" db:"status"` // scheduled, completed, cancelled
	Notes      sql.NullString `json:"notes,omitempty" db:"notes"`
	CreatedAt  time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at" db:"updated_at"`

	// Joined property projection
	PropertyTitle    string          `json:"property_title,omitempty"`
	PropertyLocation string          `json:"property_location,omitempty"`
	PropertyPrice    sql.NullFloat64 `json:"property_price,omitempty"`
}

const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)
