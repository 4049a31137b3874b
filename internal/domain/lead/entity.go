// internal/domain/lead/entity.go
package lead

import (
	"database/sql"
	"time"
)

// Profile is a buyer search profile captured on the landing page. It is not
// tied to a specific property; the matcher pairs it with new listings.
type Profile struct {
	ID        int64  `json:"id" db:"id"`
	Reference string `json:"reference" db:"reference"`

	FullName      string         `json:"full_name" db:"full_name"`
	Email         string         `json:"email" db:"email"`
	Phone         string         `json:"phone" db:"phone"`
	CPF           sql.NullString `json:"cpf,omitempty" db:"cpf"`
	MonthlyIncome sql.NullString `json:"monthly_income,omitempty" db:"monthly_income"`

	InterestLocation string  `json:"interest_location" db:"interest_location"`
	PropertyType     string  `json:"property_type" db:"property_type"`
	BudgetMin        float64 `json:"budget_min" db:"budget_min"`
	BudgetMax        float64 `json:"budget_max" db:"budget_max"`
	BedroomsMin      int     `json:"bedrooms_min" db:"bedrooms_min"`
	Notes            sql.NullString `json:"notes,omitempty" db:"notes"`

	Status    string    `json:"status" db:"status"` // novo, contatado, convertido, descartado
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Match records a scored pairing of a buyer profile and a listing.
type Match struct {
	ID         int64        `json:"id" db:"id"`
	ProfileID  int64        `json:"profile_id" db:"profile_id"`
	PropertyID int64        `json:"property_id" db:"property_id"`
	Score      int          `json:"score" db:"score"`
	Notified   bool         `json:"notified" db:"notified"`
	NotifiedAt sql.NullTime `json:"notified_at,omitempty" db:"notified_at"`
	CreatedAt  time.Time    `json:"created_at" db:"created_at"`
}
