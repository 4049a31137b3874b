// internal/domain/favorite/entity.go
package favorite

import (
	"database/sql"
	"time"
)

type Favorite struct {
	ID         int64         `json:"id" db:"id"`
	UserID     int64         `json:"user_id" db:"user_id"`
	PropertyID int64         `json:"property_id" db:"property_id"`
	FolderID   sql.NullInt64 `json:"folder_id,omitempty" db:"folder_id"`
	CreatedAt  time.Time     `json:"created_at" db:"created_at"`

	// Joined property projection
	PropertyTitle string          `json:"property_title,omitempty"`
	PropertyPrice sql.NullFloat64 `json:"property_price,omitempty"`
	ImageURL      sql.NullString  `json:"image_url,omitempty"`
}

type Folder struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
