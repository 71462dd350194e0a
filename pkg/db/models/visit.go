package models

import (
	"time"

	"github.com/google/uuid"
)

// Visit is a single breadcrumb: a user recorded a restaurant they have been
// to. The (user_id, restaurant_id) pair is unique at the storage layer so the
// add-visit handler can insert-if-absent without a read-then-write race.
type Visit struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID       uuid.UUID `gorm:"type:uuid;column:user_id;not null;uniqueIndex:uq_visits_user_restaurant"`
	RestaurantID uuid.UUID `gorm:"type:uuid;column:restaurant_id;not null;uniqueIndex:uq_visits_user_restaurant"`
	Rating       *int      `gorm:"column:rating"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`

	User       *User       `gorm:"foreignKey:UserID"`
	Restaurant *Restaurant `gorm:"foreignKey:RestaurantID"`
	Images     []Image     `gorm:"foreignKey:VisitID"`
}
