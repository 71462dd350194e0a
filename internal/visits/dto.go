package visits

import (
	"time"

	"github.com/google/uuid"
)

// VisitDetailDTO is the JSON projection of a visit joined with its
// restaurant, matching the shape served by the visits.json route.
type VisitDetailDTO struct {
	VisitID        uuid.UUID `json:"visit_id"`
	RestaurantID   uuid.UUID `json:"restaurant_id"`
	RestaurantName string    `json:"restaurant_name"`
	Address        *string   `json:"address"`
	Phone          *string   `json:"phone"`
	ImageURL       *string   `json:"image_url"`
	Latitude       float64   `json:"latitude"`
	Longitude      float64   `json:"longitude"`
	Rating         *int      `json:"rating,omitempty"`
	VisitedAt      time.Time `json:"visited_at"`
}

// VisitsPageDTO is a cursor page of visit details.
type VisitsPageDTO struct {
	Items      []VisitDetailDTO `json:"items"`
	NextCursor string           `json:"next_cursor,omitempty"`
}

// AddVisitResultDTO reports a newly recorded breadcrumb.
type AddVisitResultDTO struct {
	VisitID uuid.UUID `json:"visit_id"`
	Message string    `json:"message"`
}

// ImageDTO is the public projection of a visit photo.
type ImageDTO struct {
	ID         uuid.UUID  `json:"id"`
	VisitID    uuid.UUID  `json:"visit_id"`
	URL        string     `json:"url"`
	TakenAt    *time.Time `json:"taken_at,omitempty"`
	Rating     *int       `json:"rating,omitempty"`
	UploadedAt time.Time  `json:"uploaded_at"`
}

// AttachImageInput carries the fields stored for a visit photo.
type AttachImageInput struct {
	URL     string
	TakenAt *time.Time
	Rating  *int
}
