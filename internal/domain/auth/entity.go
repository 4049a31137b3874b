// internal/domain/auth/entity.go
package auth

import (
	"database/sql"
	"time"
)

type Identity struct {
	ID           int64          `json:"id" db:"id"`
	Email        string         `json:"email" db:"email"`
	PasswordHash string         `json:"-" db:"password_hash"`
	FullName     string         `json:"full_name" db:"full_name"`
	Phone        sql.NullString `json:"phone,omitempty" db:"phone"`
	Roles        []string       `json:"roles" db:"roles"`
	IsActive     bool           `json:"is_active" db:"is_active"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at" db:"updated_at"`
}

const (
	RoleUser   = "user"
	RoleBroker = "broker"
	RoleAdmin  = "admin"
)
