package domain

import "github.com/golang-jwt/jwt/v5"

// AuthClaims is the JWT payload issued by the surrounding application and
// verified by the API middleware.
type AuthClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
	jwt.RegisteredClaims
}
