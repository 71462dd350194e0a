package connections

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/breadcrumbsapp/breadcrumbs-backend/pkg/db/models"
)

// sqlite stand-in for gen_random_uuid(); produces a v4-shaped string so the
// uuid scanner accepts raw-SQL inserts.
const sqliteUUIDDefault = `(lower(hex(randomblob(4))) || '-' || lower(hex(randomblob(2))) || '-4' || substr(lower(hex(randomblob(2))),2) || '-a' || substr(lower(hex(randomblob(2))),2) || '-' || lower(hex(randomblob(6))))`

func setupConnectionsTestDB(t *testing.T) *gorm.DB {
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

func mustCreateTestUser(t *testing.T, db *gorm.DB, cityID uuid.UUID, firstName, lastName string) *models.User {
	t.Helper()
	user := &models.User{
		ID:           uuid.New(),
		CityID:       cityID,
		Email:        fmt.Sprintf("bc_test_%s@example.com", uuid.NewString()),
		PasswordHash: "hash",
		FirstName:    firstName,
		LastName:     lastName,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func mustCreateConnection(t *testing.T, db *gorm.DB, a, b uuid.UUID, status models.ConnectionStatus) {
	t.Helper()
	conn := &models.Connection{ID: uuid.New(), UserAID: a, UserBID: b, Status: status}
	require.NoError(t, db.Create(conn).Error)
}
