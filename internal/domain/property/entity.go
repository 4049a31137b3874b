// internal/domain/property/entity.go
package property

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

type Property struct {
	ID      int64 `json:"id" db:"id"`
	OwnerID int64 `json:"owner_id" db:"owner_id"`

	Title        string  `json:"title" db:"title"`
	Description  string  `json:"description" db:"description"`
	Price        float64 `json:"price" db:"price"`
	Location     string  `json:"location" db:"location"`
	PropertyType string  `json:"property_type" db:"property_type"`
	Bedrooms     int     `json:"bedrooms" db:"bedrooms"`
	Bathrooms    int     `json:"bathrooms" db:"bathrooms"`
	Area         float64 `json:"area" db:"area"`

	Features pq.StringArray `json:"features,omitempty" db:"features"`

	Status     string `json:"status" db:"status"` // available, reserved, sold
	IsFeatured bool   `json:"is_featured" db:"is_featured"`
	ViewsCount int64  `json:"views_count" db:"views_count"`

	CreatedAt time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt time.Time    `json:"updated_at" db:"updated_at"`
	DeletedAt sql.NullTime `json:"deleted_at,omitempty" db:"deleted_at"`

	Images []Image `json:"images,omitempty"`
}

// Image is a stored reference to an externally hosted property photo.
type Image struct {
	ID           int64     `json:"id" db:"id"`
	PropertyID   int64     `json:"property_id" db:"property_id"`
	ImageURL     string    `json:"image_url" db:"image_url"`
	DisplayOrder int       `json:"display_order" db:"display_order"`
	IsPrimary    bool      `json:"is_primary" db:"is_primary"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Report is a user complaint against a listing.
type Report struct {
	ID          int64          `json:"id" db:"id"`
	UserID      int64          `json:"user_id" db:"user_id"`
	PropertyID  int64          `json:"property_id" db:"property_id"`
	Reason      string         `json:"reason" db:"reason"` // fake, sold, wrong_info, offensive, other
	Description sql.NullString `json:"description,omitempty" db:"description"`
	Status      string         `json:"status" db:"status"` // pending, reviewed, dismissed
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
}

// AnalyticsSummary aggregates engagement for one listing.
type AnalyticsSummary struct {
	PropertyID     int64 `json:"property_id"`
	Views          int64 `json:"views"`
	Favorites      int64 `json:"favorites"`
	Interests      int64 `json:"interests"`
	VisitsBooked   int64 `json:"visits_booked"`
	ReviewsCount   int64 `json:"reviews_count"`
	AverageRating  float64 `json:"average_rating"`
}
