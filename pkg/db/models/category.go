package models

import (
	"time"

	"github.com/google/uuid"
)

// Category labels a kind of restaurant (e.g. "French", "Brunch").
type Category struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"type:text;not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// RestaurantCategory is the join row between restaurants and categories.
type RestaurantCategory struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	RestaurantID uuid.UUID `gorm:"type:uuid;column:restaurant_id;not null;uniqueIndex:uq_restaurant_categories_pair"`
	CategoryID   uuid.UUID `gorm:"type:uuid;column:category_id;not null;uniqueIndex:uq_restaurant_categories_pair"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}
