package models

import (
	"time"

	"github.com/google/uuid"
)

// City groups users and restaurants. Rows are created by signup lookups
// and the listings importer; never updated by request handlers.
type City struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"type:text;not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
