package restaurants

import (
	"time"

	"github.com/google/uuid"

	"github.com/breadcrumbsapp/breadcrumbs-backend/internal/connections"
)

// CreateRestaurantDTO carries the fields stored by the listings importer.
type CreateRestaurantDTO struct {
	CityID     uuid.UUID
	Name       string
	Address    *string
	Phone      *string
	ImageURL   *string
	Latitude   float64
	Longitude  float64
	Categories []string
}

// RestaurantDTO is the public projection of a restaurant row.
type RestaurantDTO struct {
	ID         uuid.UUID `json:"id"`
	CityID     uuid.UUID `json:"city_id"`
	CityName   string    `json:"city_name,omitempty"`
	Name       string    `json:"name"`
	Address    *string   `json:"address"`
	Phone      *string   `json:"phone"`
	ImageURL   *string   `json:"image_url"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Categories []string  `json:"categories,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// RestaurantDetailDTO is the restaurant page payload: the restaurant plus
// which of the viewer's friends have left a breadcrumb there.
type RestaurantDetailDTO struct {
	Restaurant     RestaurantDTO           `json:"restaurant"`
	FriendVisitors []connections.FriendDTO `json:"friend_visitors"`
}
