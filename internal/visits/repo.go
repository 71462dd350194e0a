package visits

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/breadcrumbsapp/breadcrumbs-backend/internal/connections"
	"github.com/breadcrumbsapp/breadcrumbs-backend/internal/repo"
	"github.com/breadcrumbsapp/breadcrumbs-backend/pkg/db/models"
	"github.com/breadcrumbsapp/breadcrumbs-backend/pkg/pagination"
)

const visitColumns = `v.id AS visit_id,
v.restaurant_id,
r.name AS restaurant_name,
r.address,
r.phone,
r.image_url,
r.latitude,
r.longitude,
v.rating,
v.created_at AS visited_at`

// Repository encapsulates visit persistence.
type Repository struct {
	repo.Base
}

// NewRepository constructs a visit repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// CreateIfAbsent inserts a visit unless the (user, restaurant) pair already
// has one. Returns the visit id and false when the row already existed.
func (r *Repository) CreateIfAbsent(ctx context.Context, userID, restaurantID uuid.UUID, rating *int) (uuid.UUID, bool, error) {
	if userID == uuid.Nil || restaurantID == uuid.Nil {
		return uuid.Nil, false, gorm.ErrInvalidValue
	}

	id := uuid.New()
	res := r.DB(ctx).Exec(
		`INSERT INTO visits (id, user_id, restaurant_id, rating) VALUES (?, ?, ?, ?) ON CONFLICT (user_id, restaurant_id) DO NOTHING`,
		id, userID, restaurantID, rating,
	)
	if res.Error != nil {
		return uuid.Nil, false, res.Error
	}
	if res.RowsAffected == 0 {
		return uuid.Nil, false, nil
	}
	return id, true, nil
}

// RecentByUser returns the user's latest visits joined with restaurant data.
func (r *Repository) RecentByUser(ctx context.Context, userID uuid.UUID, limit int) ([]VisitDetailDTO, error) {
	if limit <= 0 {
		limit = 5
	}

	var out []VisitDetailDTO
	err := r.DB(ctx).
		Table("visits AS v").
		Select(visitColumns).
		Joins("JOIN restaurants r ON r.id = v.restaurant_id").
		Where("v.user_id = ?", userID).
		Order("v.created_at DESC, v.id DESC").
		Limit(limit).
		Scan(&out).
		Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListByUser returns a cursor page of the user's visits, most recent first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, cursor string, limit int) (VisitsPageDTO, error) {
	normalizedLimit := pagination.NormalizeLimit(limit)
	limitWithBuffer := pagination.LimitWithBuffer(limit)

	decoded, err := pagination.ParseCursor(cursor)
	if err != nil {
		return VisitsPageDTO{}, err
	}

	tx := r.DB(ctx).
		Table("visits AS v").
		Select(visitColumns).
		Joins("JOIN restaurants r ON r.id = v.restaurant_id").
		Where("v.user_id = ?", userID).
		Order("v.created_at DESC, v.id DESC").
		Limit(limitWithBuffer)

	if decoded != nil {
		tx = tx.Where("(v.created_at, v.id) < (?, ?)", decoded.CreatedAt, decoded.ID)
	}

	var rows []VisitDetailDTO
	if err := tx.Scan(&rows).Error; err != nil {
		return VisitsPageDTO{}, err
	}

	page := VisitsPageDTO{Items: rows}
	if len(rows) > normalizedLimit {
		page.Items = rows[:normalizedLimit]
		last := page.Items[len(page.Items)-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.VisitedAt,
			ID:        last.VisitID,
		})
	}
	return page, nil
}

// CountByUser returns how many breadcrumbs the user has left.
func (r *Repository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.DB(ctx).
		Model(&models.Visit{}).
		Where("user_id = ?", userID).
		Count(&count).
		Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// FriendsWhoVisited returns the viewer's accepted friends (A side only) that
// have a visit at the restaurant.
func (r *Repository) FriendsWhoVisited(ctx context.Context, viewerID, restaurantID uuid.UUID) ([]connections.FriendDTO, error) {
	var out []connections.FriendDTO
	err := r.DB(ctx).
		Table("connections AS c").
		Select("u.id, u.first_name, u.last_name, u.city_id").
		Joins("JOIN users u ON u.id = c.user_b_id").
		Joins("JOIN visits v ON v.user_id = c.user_b_id AND v.restaurant_id = ?", restaurantID).
		Where("c.user_a_id = ? AND c.status = ?", viewerID, models.ConnectionStatusAccepted).
		Order("u.first_name ASC, u.last_name ASC").
		Scan(&out).
		Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// FindByID returns the visit row, or nil when absent.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Visit, error) {
	var visit models.Visit
	err := r.DB(ctx).Where("id = ?", id).First(&visit).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &visit, nil
}

// AttachImage stores a photo row for a visit.
func (r *Repository) AttachImage(ctx context.Context, visitID uuid.UUID, input AttachImageInput) (*models.Image, error) {
	image := &models.Image{
		ID:      uuid.New(),
		VisitID: visitID,
		URL:     input.URL,
		TakenAt: input.TakenAt,
		Rating:  input.Rating,
	}
	if err := r.DB(ctx).Create(image).Error; err != nil {
		return nil, err
	}
	return image, nil
}

// ImagesForVisit lists the photos attached to a visit, newest upload first.
func (r *Repository) ImagesForVisit(ctx context.Context, visitID uuid.UUID) ([]models.Image, error) {
	var out []models.Image
	err := r.DB(ctx).
		Where("visit_id = ?", visitID).
		Order("uploaded_at DESC").
		Find(&out).
		Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
