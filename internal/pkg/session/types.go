// internal/pkg/session/types.go
package session

import "time"

// SessionData is the per-login record kept in Redis, keyed by identity + JTI.
type SessionData struct {
	IdentityID     int64     `json:"identity_id"`
	JTI            string    `json:"jti"`
	Roles          []string  `json:"roles,omitempty"`
	Device         string    `json:"device,omitempty"`
	IP             string    `json:"ip,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	LastActivityAt time.Time `json:"last_activity_at"`
	ExpiresAt      time.Time `json:"expires_at"`
}
