package auth

import "converse/internal/domain/models"

// TokenVerifier defines the interface for bearer token verification.
// Keeping it behind an interface lets the middleware stay agnostic to the
// verification mechanism.
type TokenVerifier interface {
	// VerifyToken validates a JWT token string and returns the parsed
	// claims. Returns an error if the token is invalid, expired, or has an
	// invalid signature.
	VerifyToken(tokenString string) (*models.Claims, error)
}
