package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/breadcrumbsapp/breadcrumbs-backend/internal/connections"
	"github.com/breadcrumbsapp/breadcrumbs-backend/internal/visits"
)

// CreateUserDTO carries the fields persisted at signup.
type CreateUserDTO struct {
	CityID       uuid.UUID
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
}

// UserDTO is the public projection of a user row.
type UserDTO struct {
	ID        uuid.UUID `json:"id"`
	CityID    uuid.UUID `json:"city_id"`
	CityName  string    `json:"city_name,omitempty"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	CreatedAt time.Time `json:"created_at"`
}

// ProfileDTO is the user profile page payload: the user, how many
// breadcrumbs they have left, their most recent visits, and how the viewer
// relates to them.
type ProfileDTO struct {
	User         UserDTO                     `json:"user"`
	VisitCount   int64                       `json:"visit_count"`
	RecentVisits []visits.VisitDetailDTO     `json:"recent_visits"`
	Relationship connections.RelationshipDTO `json:"relationship"`
}
