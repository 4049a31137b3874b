// internal/pkg/jwt/claims.go
package jwt

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the JWT claims carried by quinto access tokens.
type Claims struct {
	IdentityID int64    `json:"identity_id"`
	Roles      []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// HasRole checks if the claims contain a specific role
func (c *Claims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdmin checks if user is an admin
func (c *Claims) IsAdmin() bool {
	return c.HasRole("admin")
}

// IsBroker checks if user can manage listings and the lead pipeline
func (c *Claims) IsBroker() bool {
	return c.HasRole("broker") || c.HasRole("admin")
}

// VerifyAudience checks if the expected audience is listed in the claims.
func (c *Claims) VerifyAudience(audience string, required bool) bool {
	if len(c.Audience) == 0 {
		return !required
	}

	for _, aud := range c.Audience {
		if aud == audience {
			return true
		}
	}

	return false
}
