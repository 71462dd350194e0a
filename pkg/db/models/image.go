package models

import (
	"time"

	"github.com/google/uuid"
)

// Image is a photo attached to a visit. Only the URL is stored; the upload
// pipeline itself is out of scope.
type Image struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	VisitID    uuid.UUID  `gorm:"type:uuid;column:visit_id;not null;index"`
	URL        string     `gorm:"type:text;not null"`
	TakenAt    *time.Time `gorm:"column:taken_at"`
	Rating     *int       `gorm:"column:rating"`
	UploadedAt time.Time  `gorm:"column:uploaded_at;autoCreateTime"`
}
