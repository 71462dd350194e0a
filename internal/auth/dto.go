package auth

import (
	"github.com/google/uuid"

	"github.com/breadcrumbsapp/breadcrumbs-backend/internal/connections"
)

// LoginRequest is the credentials payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SignupRequest contains the payload for creating an account.
type SignupRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	City      string `json:"city" validate:"required"`
}

// SessionUser is the identity snapshot returned with a fresh session.
type SessionUser struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	CityID    uuid.UUID `json:"city_id"`
}

// LoginResponse carries the fresh tokens, the user, the greeting message and
// the pending-request counts snapshotted at login time.
type LoginResponse struct {
	Message       string                       `json:"message"`
	AccessToken   string                       `json:"access_token"`
	RefreshToken  string                       `json:"refresh_token"`
	User          SessionUser                  `json:"user"`
	PendingCounts connections.PendingCountsDTO `json:"pending_counts"`
}

// LogoutResponse confirms session revocation.
type LogoutResponse struct {
	Message string `json:"message"`
}
