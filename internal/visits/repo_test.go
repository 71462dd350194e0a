package visits

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/breadcrumbsapp/breadcrumbs-backend/pkg/db/models"
)

func TestCreateIfAbsentDedupesPerRestaurant(t *testing.T) {
	db := setupVisitsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	city := mustCreateTestCity(t, db, "Vancouver")
	ashley := mustCreateTestUser(t, db, city.ID, "Ashley")
	chambar := mustCreateTestRestaurant(t, db, city.ID, "Chambar")

	rating := 5
	id, inserted, err := repo.CreateIfAbsent(ctx, ashley.ID, chambar.ID, &rating)
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.NotEqual(t, uuid.Nil, id)

	_, again, err := repo.CreateIfAbsent(ctx, ashley.ID, chambar.ID, nil)
	require.NoError(t, err)
	assert.False(t, again, "second breadcrumb for the same restaurant must be a no-op")

	var count int64
	require.NoError(t, db.Model(&models.Visit{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRecentByUserOrdersNewestFirst(t *testing.T) {
	db := setupVisitsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	city := mustCreateTestCity(t, db, "Vancouver")
	ashley := mustCreateTestUser(t, db, city.ID, "Ashley")

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	names := []string{"Chambar", "Miku", "Nuba"}
	for i, name := range names {
		restaurant := mustCreateTestRestaurant(t, db, city.ID, name)
		visit := &models.Visit{
			ID:           uuid.New(),
			UserID:       ashley.ID,
			RestaurantID: restaurant.ID,
			CreatedAt:    base.Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, db.Create(visit).Error)
	}

	recent, err := repo.RecentByUser(ctx, ashley.ID, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "Nuba", recent[0].RestaurantName)
	assert.Equal(t, "Miku", recent[1].RestaurantName)

	count, err := repo.CountByUser(ctx, ashley.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestListByUserPagesWithCursor(t *testing.T) {
	db := setupVisitsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	city := mustCreateTestCity(t, db, "Vancouver")
	ashley := mustCreateTestUser(t, db, city.ID, "Ashley")

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		restaurant := mustCreateTestRestaurant(t, db, city.ID, "Spot "+uuid.NewString()[:8])
		visit := &models.Visit{
			ID:           uuid.New(),
			UserID:       ashley.ID,
			RestaurantID: restaurant.ID,
			CreatedAt:    base.Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, db.Create(visit).Error)
	}

	first, err := repo.ListByUser(ctx, ashley.ID, "", 2)
	require.NoError(t, err)
	require.Len(t, first.Items, 2)
	require.NotEmpty(t, first.NextCursor)

	second, err := repo.ListByUser(ctx, ashley.ID, first.NextCursor, 2)
	require.NoError(t, err)
	require.Len(t, second.Items, 1)
	assert.Empty(t, second.NextCursor)
	assert.True(t, second.Items[0].VisitedAt.Before(first.Items[1].VisitedAt))
}

func TestFriendsWhoVisitedIntersects(t *testing.T) {
	db := setupVisitsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	city := mustCreateTestCity(t, db, "Vancouver")
	ashley := mustCreateTestUser(t, db, city.ID, "Ashley")
	bob := mustCreateTestUser(t, db, city.ID, "Bob")
	cat := mustCreateTestUser(t, db, city.ID, "Cat")
	chambar := mustCreateTestRestaurant(t, db, city.ID, "Chambar")

	require.NoError(t, db.Create(&models.Connection{ID: uuid.New(), UserAID: ashley.ID, UserBID: bob.ID, Status: models.ConnectionStatusAccepted}).Error)
	require.NoError(t, db.Create(&models.Connection{ID: uuid.New(), UserAID: ashley.ID, UserBID: cat.ID, Status: models.ConnectionStatusRequested}).Error)

	// both Bob and Cat visited, but only Bob is an accepted friend
	require.NoError(t, db.Create(&models.Visit{ID: uuid.New(), UserID: bob.ID, RestaurantID: chambar.ID}).Error)
	require.NoError(t, db.Create(&models.Visit{ID: uuid.New(), UserID: cat.ID, RestaurantID: chambar.ID}).Error)

	visitors, err := repo.FriendsWhoVisited(ctx, ashley.ID, chambar.ID)
	require.NoError(t, err)
	require.Len(t, visitors, 1)
	assert.Equal(t, bob.ID, visitors[0].ID)
}

func TestAttachImageAndList(t *testing.T) {
	db := setupVisitsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	city := mustCreateTestCity(t, db, "Vancouver")
	ashley := mustCreateTestUser(t, db, city.ID, "Ashley")
	chambar := mustCreateTestRestaurant(t, db, city.ID, "Chambar")

	visitID, inserted, err := repo.CreateIfAbsent(ctx, ashley.ID, chambar.ID, nil)
	require.NoError(t, err)
	require.True(t, inserted)

	rating := 4
	image, err := repo.AttachImage(ctx, visitID, AttachImageInput{URL: "https://img.example.com/1.jpg", Rating: &rating})
	require.NoError(t, err)
	assert.Equal(t, visitID, image.VisitID)

	images, err := repo.ImagesForVisit(ctx, visitID)
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, "https://img.example.com/1.jpg", images[0].URL)
}
