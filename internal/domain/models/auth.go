package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims are the JWT claims this service cares about. The subject claim is
// the authenticated user id; everything else is informational.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

// UserID returns the authenticated user id (the sub claim).
func (c *Claims) UserID() string {
	return c.Subject
}
