package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload carries the identity minted into an access token.
type AccessTokenPayload struct {
	UserID    uuid.UUID
	FirstName string
	JTI       string
}

// AccessTokenClaims is the JWT claim set used by the API.
type AccessTokenClaims struct {
	UserID    uuid.UUID `json:"uid"`
	FirstName string    `json:"first_name,omitempty"`
	jwt.RegisteredClaims
}
