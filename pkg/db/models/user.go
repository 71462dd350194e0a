package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a member of the Breadcrumbs site.
//
// The users table also carries a generated search_vector tsvector column
// (first + last name) maintained by the migrations; it is deliberately
// absent from the struct so GORM never writes it.
type User struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CityID       uuid.UUID  `gorm:"type:uuid;column:city_id;not null;index"`
	Email        string     `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string     `gorm:"column:password_hash;not null"`
	FirstName    string     `gorm:"column:first_name;not null"`
	LastName     string     `gorm:"column:last_name;not null"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`

	City *City `gorm:"foreignKey:CityID"`
}
