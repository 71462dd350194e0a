package models

import (
	"time"

	"github.com/google/uuid"
)

// Restaurant rows originate from the listings importer; request handlers
// only read them. search_vector (name only) lives in the migrations.
type Restaurant struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CityID    uuid.UUID `gorm:"type:uuid;column:city_id;not null;index"`
	Name      string    `gorm:"type:text;not null"`
	Address   *string   `gorm:"type:text"`
	Phone     *string   `gorm:"type:text"`
	ImageURL  *string   `gorm:"column:image_url;type:text"`
	Latitude  float64   `gorm:"not null"`
	Longitude float64   `gorm:"not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`

	City       *City      `gorm:"foreignKey:CityID"`
	Categories []Category `gorm:"many2many:restaurant_categories"`
}
