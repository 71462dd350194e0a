package visits

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/breadcrumbsapp/breadcrumbs-backend/pkg/db/models"
)

const sqliteUUIDDefault = `(lower(hex(randomblob(4))) || '-' || lower(hex(randomblob(2))) || '-4' || substr(lower(hex(randomblob(2))),2) || '-a' || substr(lower(hex(randomblob(2))),2) || '-' || lower(hex(randomblob(6))))`

func setupVisitsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS cities (
  id TEXT PRIMARY KEY DEFAULT ` + sqliteUUIDDefault + `,
  name TEXT NOT NULL UNIQUE,
  created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
  updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);`,
		`CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY DEFAULT ` + sqliteUUIDDefault + `,
  city_id TEXT NOT NULL,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  last_login_at DATETIME,
  created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
  updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);`,
		`CREATE TABLE IF NOT EXISTS restaurants (
  id TEXT PRIMARY KEY DEFAULT ` + sqliteUUIDDefault + `,
  city_id TEXT NOT NULL,
  name TEXT NOT NULL,
  address TEXT,
  phone TEXT,
  image_url TEXT,
  latitude REAL NOT NULL,
  longitude REAL NOT NULL,
  created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
  updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);`,
		`CREATE TABLE IF NOT EXISTS visits (
  id TEXT PRIMARY KEY DEFAULT ` + sqliteUUIDDefault + `,
  user_id TEXT NOT NULL,
  restaurant_id TEXT NOT NULL,
  rating INTEGER,
  created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
  UNIQUE (user_id, restaurant_id)
);`,
		`CREATE TABLE IF NOT EXISTS images (
  id TEXT PRIMARY KEY DEFAULT ` + sqliteUUIDDefault + `,
  visit_id TEXT NOT NULL,
  url TEXT NOT NULL,
  taken_at DATETIME,
  rating INTEGER,
  uploaded_at DATETIME DEFAULT CURRENT_TIMESTAMP
);`,
		`CREATE TABLE IF NOT EXISTS connections (
  id TEXT PRIMARY KEY DEFAULT ` + sqliteUUIDDefault + `,
  user_a_id TEXT NOT NULL,
  user_b_id TEXT NOT NULL,
  status TEXT NOT NULL,
  created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
  updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
  UNIQUE (user_a_id, user_b_id)
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func mustCreateTestCity(t *testing.T, db *gorm.DB, name string) *models.City {
	t.Helper()
	city := &models.City{ID: uuid.New(), Name: name}
	require.NoError(t, db.Create(city).Error)
	return city
}

func mustCreateTestUser(t *testing.T, db *gorm.DB, cityID uuid.UUID, firstName string) *models.User {
	t.Helper()
	user := &models.User{
		ID:           uuid.New(),
		CityID:       cityID,
		Email:        fmt.Sprintf("bc_test_%s@example.com", uuid.NewString()),
		PasswordHash: "hash",
		FirstName:    firstName,
		LastName:     "Tester",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func mustCreateTestRestaurant(t *testing.T, db *gorm.DB, cityID uuid.UUID, name string) *models.Restaurant {
	t.Helper()
	address := "123 Main St"
	restaurant := &models.Restaurant{
		ID:        uuid.New(),
		CityID:    cityID,
		Name:      name,
		Address:   &address,
		Latitude:  49.2827,
		Longitude: -123.1207,
	}
	require.NoError(t, db.Create(restaurant).Error)
	return restaurant
}
